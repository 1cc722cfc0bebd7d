package detection

import "github.com/ironsheep/plot-digitizer/internal/raster"

// luminance returns the Rec. 709 weighted brightness of a pixel. The weighted
// sum is truncated toward zero and then to a byte.
func luminance(r, g, b byte) byte {
	return byte(int(0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)))
}

// Segment reduces img to pure black and white in place. Pixels with luminance
// above cutoff become black (background); all others become white (ink).
// The output holds only those two colours; segmenting it again inverts it for
// any cutoff below the luminance of white.
func Segment(img *raster.Raster, cutoff uint8) {
	for i := 0; i < img.Len(); i++ {
		if luminance(img.R[i], img.G[i], img.B[i]) > cutoff {
			img.Set(i, 0, 0, 0)
		} else {
			img.Set(i, 255, 255, 255)
		}
	}
}
