package raster

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Magic is the format tag of plain-text PPM files.
const Magic = "P3"

// MaxPixels is the largest width*height a header may declare. Bigger sizes are
// reported as malformed before any pixel storage is allocated.
const MaxPixels = 1 << 26

// Pixel buffers start at most this large and grow as triplets arrive, so a
// header cannot reserve memory its data never fills.
const initialPixelCap = 1 << 16

// ErrMalformed is returned (wrapped) for any input that is not a usable P3
// image: bad tag, zero or unreadable dimensions, bad max value, out-of-range
// or missing pixel data.
var ErrMalformed = errors.New("malformed ppm")

func init() {
	image.RegisterFormat("ppm", Magic, DecodeImage, DecodeConfig)
}

type header struct {
	width  int
	height int
	maxVal int
}

// tokenizer splits P3 input into whitespace-separated decimal fields and
// drops '#' comments up to the end of their line.
type tokenizer struct {
	r *bufio.Reader
}

func (t *tokenizer) next() (string, error) {
	var tok []byte
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := t.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

func (t *tokenizer) uint(what string) (int, error) {
	tok, err := t.next()
	if err != nil {
		if err == io.EOF {
			return 0, errors.Wrapf(ErrMalformed, "%s: unexpected end of input", what)
		}
		return 0, errors.Wrapf(err, "read %s", what)
	}
	v, err := strconv.ParseUint(tok, 10, 31)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "%s: %q is not a number", what, tok)
	}
	return int(v), nil
}

func readHeader(t *tokenizer) (header, error) {
	var h header

	tag, err := t.next()
	if err != nil {
		if err == io.EOF {
			return h, errors.Wrap(ErrMalformed, "empty input")
		}
		return h, errors.Wrap(err, "read format tag")
	}
	if tag != Magic {
		return h, errors.Wrapf(ErrMalformed, "format tag %q, want %q", tag, Magic)
	}

	if h.width, err = t.uint("width"); err != nil {
		return h, err
	}
	if h.height, err = t.uint("height"); err != nil {
		return h, err
	}
	if h.width == 0 || h.height == 0 {
		return h, errors.Wrapf(ErrMalformed, "image size %dx%d", h.width, h.height)
	}
	if int64(h.width)*int64(h.height) > MaxPixels {
		return h, errors.Wrapf(ErrMalformed, "image size %dx%d exceeds %d pixels", h.width, h.height, MaxPixels)
	}
	if h.maxVal, err = t.uint("max value"); err != nil {
		return h, err
	}
	if h.maxVal == 0 || h.maxVal > 255 {
		return h, errors.Wrapf(ErrMalformed, "max value %d outside 1..255", h.maxVal)
	}
	return h, nil
}

// Decode reads a P3 image. No partial raster is returned on error.
//
// Channel values are stored as read, without rescaling to 255; a value above
// the header's max value is rejected.
func Decode(r io.Reader) (*Raster, error) {
	t := &tokenizer{r: bufio.NewReader(r)}
	h, err := readHeader(t)
	if err != nil {
		return nil, err
	}

	n := h.width * h.height
	capacity := n
	if capacity > initialPixelCap {
		capacity = initialPixelCap
	}
	var channels [3][]byte
	for c := range channels {
		channels[c] = make([]byte, 0, capacity)
	}
	for i := 0; i < n; i++ {
		for c := range channels {
			v, err := t.uint("pixel data")
			if err != nil {
				return nil, errors.WithMessagef(err, "pixel %d", i)
			}
			if v > h.maxVal {
				return nil, errors.Wrapf(ErrMalformed, "pixel %d: value %d exceeds max %d", i, v, h.maxVal)
			}
			channels[c] = append(channels[c], byte(v))
		}
	}
	return &Raster{
		Width:  h.width,
		Height: h.height,
		R:      channels[0],
		G:      channels[1],
		B:      channels[2],
	}, nil
}

// Encode writes img as P3 with a max value of 255 and one tab-separated
// "R G B" line per pixel.
func Encode(w io.Writer, img *Raster) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", Magic, img.Width, img.Height); err != nil {
		return errors.Wrap(err, "write ppm header")
	}

	line := make([]byte, 0, 12)
	for i := 0; i < img.Len(); i++ {
		line = strconv.AppendUint(line[:0], uint64(img.R[i]), 10)
		line = append(line, '\t')
		line = strconv.AppendUint(line, uint64(img.G[i]), 10)
		line = append(line, '\t')
		line = strconv.AppendUint(line, uint64(img.B[i]), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return errors.Wrap(err, "write ppm pixels")
		}
	}
	return errors.Wrap(bw.Flush(), "flush ppm")
}

// DecodeImage adapts Decode to the image package's decoder signature.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return img.ToImage(), nil
}

// DecodeConfig reads only the header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(&tokenizer{r: bufio.NewReader(r)})
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.width,
		Height:     h.height,
	}, nil
}
