package detection

import "github.com/ironsheep/plot-digitizer/internal/raster"

// DetectEdges segments img with cutoff and then replaces every interior pixel
// with a colour encoding the sign of its dominant gradient:
//
//   - blue (0,0,255) where the pixel is brighter than the compared neighbour
//   - green (0,255,0) where it is darker
//   - black where both gradients are zero
//
// The horizontal gradient compares against the pixel to the right, the
// vertical one against the pixel below; the vertical gradient wins ties in
// magnitude. The first and last rows keep their segmented values.
//
// Pixels are updated in scan order, so the horizontal and vertical neighbours
// of i are still segmented values when i is processed.
func DetectEdges(img *raster.Raster, cutoff uint8) {
	Segment(img, cutoff)

	w := img.Width
	start, end := img.Interior()
	for i := start; i < end; i++ {
		g1 := int(img.R[i]) - int(img.R[i+1])
		g2 := int(img.R[i]) - int(img.R[i+w])

		g := g2
		if abs(g1) > abs(g2) {
			g = g1
		}

		switch {
		case g > 0:
			img.Set(i, 0, 0, 255)
		case g < 0:
			img.Set(i, 0, 255, 0)
		default:
			img.Set(i, 0, 0, 0)
		}
	}
}

// isEdge reports whether pixel i carries an edge colour.
func isEdge(img *raster.Raster, i int) bool {
	return img.B[i] == 255 || img.G[i] == 255
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
