package detection

import "github.com/ironsheep/plot-digitizer/internal/raster"

// MarkerCenter is a detected marker centre in pixel coordinates.
type MarkerCenter struct {
	X int `json:"x"` // column, 0 = leftmost
	Y int `json:"y"` // row, 0 = topmost
}

// ExtractPeaks scans the interior of a vote raster and returns, in row-major
// order, every pixel whose vote exceeds peakRatio times the strongest interior
// vote and is not below any of its four direct neighbours.
//
// Only the red channel is read; Accumulate keeps all three channels equal.
// Equal neighbours both qualify, so a flat-topped peak yields several adjacent
// centres. No clustering is applied.
func ExtractPeaks(votes *raster.Raster, peakRatio float64) []MarkerCenter {
	start, end := votes.Interior()

	var maxVote byte
	for i := start; i < end; i++ {
		if votes.R[i] > maxVote {
			maxVote = votes.R[i]
		}
	}

	threshold := float64(maxVote) * peakRatio
	centers := make([]MarkerCenter, 0)
	for i := start; i < end; i++ {
		if float64(votes.R[i]) > threshold && isLocalMax(votes, i) {
			centers = append(centers, MarkerCenter{
				X: i % votes.Width,
				Y: i / votes.Width,
			})
		}
	}
	return centers
}

// isLocalMax compares pixel i against its left, right, upper and lower
// neighbours; ties count as a maximum. i must be an interior index.
func isLocalMax(votes *raster.Raster, i int) bool {
	w := votes.Width
	v := votes.R[i]
	return v >= votes.R[i-1] &&
		v >= votes.R[i+1] &&
		v >= votes.R[i-w] &&
		v >= votes.R[i+w]
}

// PeakMask returns a raster of the same size as votes with every centre
// painted white and everything else black.
func PeakMask(votes *raster.Raster, centers []MarkerCenter) *raster.Raster {
	mask := raster.New(votes.Width, votes.Height)
	for _, c := range centers {
		if c.X < 0 || c.Y < 0 || c.X >= mask.Width || c.Y >= mask.Height {
			continue
		}
		mask.SetXY(c.X, c.Y, 255, 255, 255)
	}
	return mask
}
