package plotspace

import (
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Rendered plots are square.
const renderSize = 4 * vg.Inch

// newPlot builds a scatter of points with both axes pinned to a, so the
// re-plot lines up with the scanned figure.
func newPlot(points []Point, a Axes) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Extracted markers"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if len(points) > 0 {
		xys := make(plotter.XYs, 0, len(points))
		for _, pt := range points {
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
		}

		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, errors.Wrap(err, "build scatter")
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
		p.Add(scatter)
	}

	p.X.Min, p.X.Max = math.Min(a.XLow, a.XHigh), math.Max(a.XLow, a.XHigh)
	p.Y.Min, p.Y.Max = math.Min(a.YLow, a.YHigh), math.Max(a.YLow, a.YHigh)
	p.Add(plotter.NewGrid())

	return p, nil
}

// Render writes a PNG scatter plot of points to w.
func Render(points []Point, a Axes, w io.Writer) error {
	p, err := newPlot(points, a)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(renderSize, renderSize, "png")
	if err != nil {
		return errors.Wrap(err, "create png canvas")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write plot")
	}
	return nil
}

// RenderFile saves the scatter plot to path. The format follows the file
// extension (png, svg, pdf, ...); .html writes an interactive chart.
func RenderFile(points []Point, a Axes, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".html") {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "create %s", path)
		}
		if err := RenderHTML(points, a, f); err != nil {
			f.Close()
			return err
		}
		return errors.Wrapf(f.Close(), "close %s", path)
	}

	p, err := newPlot(points, a)
	if err != nil {
		return err
	}
	if err := p.Save(renderSize, renderSize, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
