package imaging

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/ironsheep/plot-digitizer/internal/detection"
)

// DefaultMarkColor is the overlay colour used when none is given.
const DefaultMarkColor = "#FF0000"

// MarkerOverlay returns a copy of img with every detected centre marked by a
// circle of the given radius and a small cross. With numbered set, each mark
// is labelled with its position in centers, so the overlay can be matched
// against the printed coordinate list.
//
// markColor is a hex colour, "#rrggbb" or "#rgb", with the "#" optional. An
// unparsable value falls back to DefaultMarkColor.
func MarkerOverlay(img image.Image, centers []detection.MarkerCenter, radius float64, markColor string, numbered bool) *image.NRGBA {
	// imaging.Clone moves the origin to (0, 0); centres are relative to it.
	out := imaging.Clone(img)

	mark, err := parseMarkColor(markColor)
	if err != nil {
		mark, _ = parseMarkColor(DefaultMarkColor)
	}
	ink := labelInk(mark)

	for idx, c := range centers {
		drawCircle(out, c.X, c.Y, radius, mark)
		for d := -2; d <= 2; d++ {
			setClipped(out, c.X+d, c.Y, mark)
			setClipped(out, c.X, c.Y+d, mark)
		}
		if numbered {
			drawLabel(out, image.Pt(c.X+int(radius)+2, c.Y-3), strconv.Itoa(idx), ink, mark)
		}
	}
	return out
}

// drawCircle traces a one-pixel circle outline, rounding to the nearest pixel.
func drawCircle(img *image.NRGBA, cx, cy int, radius float64, c color.Color) {
	steps := int(2*math.Pi*radius) + 8
	for s := 0; s < steps; s++ {
		a := 2 * math.Pi * float64(s) / float64(steps)
		x := cx + int(math.Round(radius*math.Cos(a)))
		y := cy + int(math.Round(radius*math.Sin(a)))
		setClipped(img, x, y, c)
	}
}

func setClipped(img *image.NRGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// parseMarkColor reads "#rrggbb" or "#rgb". The leading "#" may be omitted.
func parseMarkColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	// colorful.Hex ignores anything after the last scanned digit.
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, errors.Errorf("mark color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(err, "mark color %q", s)
	}
	return c, nil
}

// labelInk picks black or white text, whichever reads better on bg.
func labelInk(bg colorful.Color) colorful.Color {
	if l, _, _ := bg.Lab(); l < 0.6 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return colorful.Color{}
}

const (
	glyphW = 3
	glyphH = 5
)

// digitGlyphs holds a 3x5 font, one bit per pixel, top row in the high bits.
var digitGlyphs = [10]uint16{
	0b111_101_101_101_111,
	0b010_110_010_010_111,
	0b111_001_111_100_111,
	0b111_001_111_001_111,
	0b101_101_111_001_001,
	0b111_100_111_001_111,
	0b111_100_111_101_111,
	0b111_001_001_001_001,
	0b111_101_111_101_111,
	0b111_101_111_001_111,
}

// drawLabel writes a marker index at at on a one-pixel padded box filled with
// bg. Characters other than digits leave a blank cell.
func drawLabel(img *image.NRGBA, at image.Point, text string, ink, bg color.Color) {
	advance := glyphW + 1
	box := image.Rect(at.X-1, at.Y-1, at.X+len(text)*advance, at.Y+glyphH+2)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			setClipped(img, x, y, bg)
		}
	}

	for i, ch := range text {
		if ch < '0' || ch > '9' {
			continue
		}
		bits := digitGlyphs[ch-'0']
		for row := 0; row < glyphH; row++ {
			for col := 0; col < glyphW; col++ {
				shift := uint((glyphH-1-row)*glyphW + (glyphW - 1 - col))
				if bits>>shift&1 == 1 {
					setClipped(img, at.X+i*advance+col, at.Y+row, ink)
				}
			}
		}
	}
}
