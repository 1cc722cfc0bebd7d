package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// Raster is an RGB image stored as three equal-length channel buffers.
type Raster struct {
	Width  int
	Height int

	// R, G and B each hold Width*Height bytes in row-major order.
	R []byte
	G []byte
	B []byte
}

// New allocates a zeroed (black) raster of the given size.
// Negative dimensions are treated as zero.
func New(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	return &Raster{
		Width:  width,
		Height: height,
		R:      make([]byte, n),
		G:      make([]byte, n),
		B:      make([]byte, n),
	}
}

// Len returns the number of pixels.
func (r *Raster) Len() int {
	return r.Width * r.Height
}

// Index returns the flat index of pixel (x, y).
func (r *Raster) Index(x, y int) int {
	return y*r.Width + x
}

// Interior returns the flat index range [start, end) that excludes the first
// and last rows. Every index i in the range has valid neighbours at i-1, i+1,
// i-Width and i+Width. The range is empty for rasters shorter than three rows.
func (r *Raster) Interior() (start, end int) {
	start = r.Width
	end = r.Len() - r.Width
	if end < start {
		end = start
	}
	return start, end
}

// Set writes all three channels of pixel i.
func (r *Raster) Set(i int, red, green, blue byte) {
	r.R[i] = red
	r.G[i] = green
	r.B[i] = blue
}

// SetXY writes all three channels of pixel (x, y).
func (r *Raster) SetXY(x, y int, red, green, blue byte) {
	r.Set(r.Index(x, y), red, green, blue)
}

// At returns the channels of pixel (x, y).
func (r *Raster) At(x, y int) (red, green, blue byte) {
	i := r.Index(x, y)
	return r.R[i], r.G[i], r.B[i]
}

// Fill paints every pixel with the same colour.
func (r *Raster) Fill(red, green, blue byte) {
	for i := range r.R {
		r.R[i] = red
		r.G[i] = green
		r.B[i] = blue
	}
}

// Clone returns a deep copy; the copy shares no buffers with r.
func (r *Raster) Clone() *Raster {
	c := &Raster{
		Width:  r.Width,
		Height: r.Height,
		R:      make([]byte, len(r.R)),
		G:      make([]byte, len(r.G)),
		B:      make([]byte, len(r.B)),
	}
	copy(c.R, r.R)
	copy(c.G, r.G)
	copy(c.B, r.B)
	return c
}

// Equal reports whether two rasters have the same size and pixel data.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Width != o.Width || r.Height != o.Height {
		return false
	}
	return string(r.R) == string(o.R) && string(r.G) == string(o.G) && string(r.B) == string(o.B)
}

// FromImage converts any image.Image to a Raster. Alpha is discarded; the
// colour channels are taken non-premultiplied, as image.NRGBA stores them.
func FromImage(img image.Image) *Raster {
	// imaging.Clone normalises every source type to NRGBA with a zero origin.
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	out := New(b.Dx(), b.Dy())

	for y := 0; y < out.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < out.Width; x++ {
			p := row[x*4:]
			out.Set(y*out.Width+x, p[0], p[1], p[2])
		}
	}
	return out
}

// ToImage converts the raster to an opaque *image.NRGBA.
func (r *Raster) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Len(); i++ {
		p := img.Pix[i*4:]
		p[0] = r.R[i]
		p[1] = r.G[i]
		p[2] = r.B[i]
		p[3] = 0xff
	}
	return img
}
