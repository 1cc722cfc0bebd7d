package plotspace

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrNoFit is returned by LinearFit when the points do not determine a line.
var ErrNoFit = errors.New("points do not determine a line")

// Fit is a least-squares line y = Slope*x + Intercept through a set of
// points.
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
}

// LinearFit fits a straight line to points, which is how the trend of a
// digitized line plot is usually summarised. At least two points with
// distinct x values are needed.
func LinearFit(points []Point) (Fit, error) {
	if len(points) < 2 {
		return Fit{}, errors.Wrapf(ErrNoFit, "%d points", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	distinct := false
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		distinct = distinct || p.X != xs[0]
	}
	if !distinct {
		return Fit{}, errors.Wrap(ErrNoFit, "all points share one x value")
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(r2) {
		// Perfectly flat data leaves nothing to explain.
		r2 = 1
	}
	return Fit{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		N:         len(points),
	}, nil
}
