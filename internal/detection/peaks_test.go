package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/plot-digitizer/internal/raster"
)

// voteRaster builds a vote raster from row-major counts.
func voteRaster(width int, counts ...byte) *raster.Raster {
	img := raster.New(width, len(counts)/width)
	for i, c := range counts {
		img.Set(i, c, c, c)
	}
	return img
}

func TestExtractPeaks_SinglePeak(t *testing.T) {
	votes := voteRaster(5,
		0, 0, 0, 0, 0,
		0, 1, 2, 1, 0,
		0, 2, 9, 2, 0,
		0, 1, 2, 1, 0,
		0, 0, 0, 0, 0,
	)

	got := ExtractPeaks(votes, 0.8)

	assert.Equal(t, []MarkerCenter{{X: 2, Y: 2}}, got)
}

func TestExtractPeaks_PlateauKeepsEveryPixel(t *testing.T) {
	votes := voteRaster(5,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 7, 7, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
	)

	got := ExtractPeaks(votes, 0.8)

	assert.Equal(t, []MarkerCenter{{X: 1, Y: 2}, {X: 2, Y: 2}}, got)
}

func TestExtractPeaks_ScanOrder(t *testing.T) {
	votes := voteRaster(6,
		0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 9, 0,
		0, 9, 0, 0, 0, 0,
		0, 0, 0, 9, 0, 0,
		0, 0, 0, 0, 0, 0,
	)

	got := ExtractPeaks(votes, 0.5)

	assert.Equal(t, []MarkerCenter{{X: 4, Y: 1}, {X: 1, Y: 2}, {X: 3, Y: 3}}, got)
}

func TestExtractPeaks_Ratio(t *testing.T) {
	votes := voteRaster(7,
		0, 0, 0, 0, 0, 0, 0,
		0, 10, 0, 8, 0, 5, 0,
		0, 0, 0, 0, 0, 0, 0,
	)

	tests := []struct {
		ratio float64
		want  []MarkerCenter
	}{
		{0.9, []MarkerCenter{{X: 1, Y: 1}}},
		// Strictly greater: 8 is not above 10*0.8.
		{0.8, []MarkerCenter{{X: 1, Y: 1}}},
		{0.79, []MarkerCenter{{X: 1, Y: 1}, {X: 3, Y: 1}}},
		{0.4, []MarkerCenter{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 5, Y: 1}}},
	}
	for _, tt := range tests {
		got := ExtractPeaks(votes, tt.ratio)
		assert.Equal(t, tt.want, got, "ratio %v", tt.ratio)
	}
}

func TestExtractPeaks_IgnoresBorderRows(t *testing.T) {
	votes := voteRaster(4,
		50, 50, 50, 50,
		0, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 0, 0,
		50, 50, 50, 50,
	)

	got := ExtractPeaks(votes, 0.8)

	// The border rows neither set the maximum nor qualify themselves.
	assert.Equal(t, []MarkerCenter{{X: 1, Y: 2}}, got)
}

func TestExtractPeaks_NoVotes(t *testing.T) {
	got := ExtractPeaks(raster.New(10, 10), 0.8)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = ExtractPeaks(raster.New(10, 2), 0.8)
	assert.Empty(t, got)
}

func TestPeakMask(t *testing.T) {
	votes := raster.New(4, 4)
	centers := []MarkerCenter{{X: 1, Y: 1}, {X: 3, Y: 2}, {X: 9, Y: 9}}

	mask := PeakMask(votes, centers)

	for i := 0; i < mask.Len(); i++ {
		x, y := i%4, i/4
		if (x == 1 && y == 1) || (x == 3 && y == 2) {
			assert.Equal(t, white, pixel(mask, i))
		} else {
			assert.Equal(t, black, pixel(mask, i))
		}
	}
}
