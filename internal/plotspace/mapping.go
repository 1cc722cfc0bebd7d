package plotspace

import "github.com/ironsheep/plot-digitizer/internal/detection"

// Axes holds the plot-space bounds of the scanned figure. The image's left
// edge is XLow, its right edge XHigh, its bottom edge YLow and its top edge
// YHigh.
type Axes struct {
	XLow  float64 `json:"x_low"`
	XHigh float64 `json:"x_high"`
	YLow  float64 `json:"y_low"`
	YHigh float64 `json:"y_high"`
}

// DefaultAxes maps the image onto the unit square.
func DefaultAxes() Axes {
	return Axes{XLow: 0, XHigh: 1, YLow: 0, YHigh: 1}
}

// Point is a coordinate in plot space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Map converts a pixel centre of an image of width w and height h into plot
// space. Pixel rows grow downward while the plot's y axis grows upward, so y
// is measured from the bottom edge.
//
// A zero w or h yields non-finite coordinates.
func Map(c detection.MarkerCenter, w, h int, a Axes) Point {
	fw, fh := float64(w), float64(h)
	return Point{
		X: float64(c.X)/fw*(a.XHigh-a.XLow) + a.XLow,
		Y: (fh-float64(c.Y))/fh*(a.YHigh-a.YLow) + a.YLow,
	}
}

// MapAll maps every centre, preserving order.
func MapAll(centers []detection.MarkerCenter, w, h int, a Axes) []Point {
	points := make([]Point, 0, len(centers))
	for _, c := range centers {
		points = append(points, Map(c, w, h, a))
	}
	return points
}
