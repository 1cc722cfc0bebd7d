package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/plot-digitizer/internal/raster"
)

type rgb [3]byte

var (
	black = rgb{0, 0, 0}
	white = rgb{255, 255, 255}
	blue  = rgb{0, 0, 255}
	green = rgb{0, 255, 0}
)

func pixel(img *raster.Raster, i int) rgb {
	return rgb{img.R[i], img.G[i], img.B[i]}
}

func TestDetectEdges_BlackRasterHasNoEdges(t *testing.T) {
	img := solidRaster(5, 5, 0, 0, 0)

	DetectEdges(img, DefaultCutoff)

	start, end := img.Interior()
	for i := 0; i < img.Len(); i++ {
		if i >= start && i < end {
			assert.Equal(t, black, pixel(img, i), "interior pixel %d", i)
		} else {
			// Border rows keep their segmented value: dark input becomes white.
			assert.Equal(t, white, pixel(img, i), "border pixel %d", i)
		}
	}
}

func TestDetectEdges_SingleDot(t *testing.T) {
	img := solidRaster(5, 5, 255, 255, 255)
	img.SetXY(2, 2, 0, 0, 0)

	DetectEdges(img, DefaultCutoff)

	want := map[int]rgb{
		img.Index(2, 1): green, // darker than the dot below it
		img.Index(1, 2): green, // darker than the dot to its right
		img.Index(2, 2): blue,  // the dot itself, vertical gradient wins the tie
	}
	for i := 0; i < img.Len(); i++ {
		exp, ok := want[i]
		if !ok {
			exp = black
		}
		assert.Equal(t, exp, pixel(img, i), "pixel (%d,%d)", i%img.Width, i/img.Width)
	}
}

func TestDetectEdges_RowWraparound(t *testing.T) {
	// The right neighbour of the last column is the first pixel of the next
	// row, so ink at (0,2) marks (3,1) as an edge.
	img := solidRaster(4, 3, 255, 255, 255)
	img.SetXY(0, 2, 0, 0, 0)

	DetectEdges(img, DefaultCutoff)

	assert.Equal(t, green, pixel(img, img.Index(3, 1)))
	assert.Equal(t, green, pixel(img, img.Index(0, 1)), "directly above the ink")
	assert.Equal(t, black, pixel(img, img.Index(1, 1)))
	assert.Equal(t, black, pixel(img, img.Index(2, 1)))
}

func TestDetectEdges_HorizontalGradientWinsWhenLarger(t *testing.T) {
	// (1,1) is ink, (2,1) is background, (1,2) is ink: |g1| = 255 > |g2| = 0.
	img := solidRaster(4, 4, 255, 255, 255)
	img.SetXY(1, 1, 0, 0, 0)
	img.SetXY(1, 2, 0, 0, 0)

	DetectEdges(img, DefaultCutoff)

	assert.Equal(t, blue, pixel(img, img.Index(1, 1)))
}

func TestDetectEdges_BorderRowsKeepSegmentation(t *testing.T) {
	img := patternRaster(12, 9)
	seg := img.Clone()
	Segment(seg, DefaultCutoff)

	DetectEdges(img, DefaultCutoff)

	start, end := img.Interior()
	for i := 0; i < start; i++ {
		require.Equal(t, pixel(seg, i), pixel(img, i), "top row pixel %d", i)
	}
	for i := end; i < img.Len(); i++ {
		require.Equal(t, pixel(seg, i), pixel(img, i), "bottom row pixel %d", i)
	}
	for i := start; i < end; i++ {
		p := pixel(img, i)
		assert.Contains(t, []rgb{black, blue, green}, p, "interior pixel %d", i)
	}
}

func TestDetectEdges_TinyRaster(t *testing.T) {
	img := solidRaster(3, 2, 10, 10, 10)

	assert.NotPanics(t, func() { DetectEdges(img, DefaultCutoff) })
	assert.True(t, img.Equal(solidRaster(3, 2, 255, 255, 255)))
}
