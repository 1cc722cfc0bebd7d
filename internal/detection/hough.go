package detection

import (
	"math"

	"github.com/ironsheep/plot-digitizer/internal/raster"
)

// degToRad is the degree-to-radian factor the vote circles are traced with.
// It is slightly short of math.Pi/180; changing it shifts votes at some angles.
const degToRad = 0.0174532925

// circleOffsets returns the 360 (dx, dy) steps of a vote circle, one per
// whole degree, each component truncated toward zero. Neighbouring degrees
// often truncate to the same offset; those repeats are kept.
func circleOffsets(radius float64) [360][2]int {
	var offs [360][2]int
	for deg := 0; deg < 360; deg++ {
		rad := float64(deg) * degToRad
		offs[deg] = [2]int{
			int(radius * math.Cos(rad)),
			int(radius * math.Sin(rad)),
		}
	}
	return offs
}

// Accumulate returns a new vote raster the size of edges. Each interior edge
// pixel (blue or green) adds one vote, in all three channels, to every step
// of a circle of the given radius centred on it. Channels saturate at 255.
// edges is not modified.
//
// A step is cast when its column offset and its row offset each stay inside
// the buffer when applied to the flat index on their own; offsets that run
// off the end of a row wrap into the neighbouring row.
func Accumulate(edges *raster.Raster, radius float64) *raster.Raster {
	votes := raster.New(edges.Width, edges.Height)
	offs := circleOffsets(radius)

	w := edges.Width
	n := edges.Len()
	start, end := edges.Interior()
	for i := start; i < end; i++ {
		if !isEdge(edges, i) {
			continue
		}
		for _, o := range offs {
			x, y := o[0], o[1]
			if i+x < 0 || i+x >= n {
				continue
			}
			if i+y*w < 0 || i+y*w >= n {
				continue
			}
			t := i + x + y*w
			// Both offsets can pass on their own and still land just outside
			// the buffer together.
			if t < 0 || t >= n {
				continue
			}
			vote(votes, t)
		}
	}
	return votes
}

func vote(votes *raster.Raster, t int) {
	if votes.R[t] < 255 {
		votes.R[t]++
	}
	if votes.G[t] < 255 {
		votes.G[t]++
	}
	if votes.B[t] < 255 {
		votes.B[t]++
	}
}
