package plotspace

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// RenderHTML writes an interactive ECharts scatter of points to w. Hovering a
// point shows its coordinates, which helps when checking single markers.
func RenderHTML(points []Point, a Axes, w io.Writer) error {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Extracted markers", Width: "600px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Extracted markers", Subtitle: fmt.Sprintf("points=%d", len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: math.Min(a.XLow, a.XHigh), Max: math.Max(a.XLow, a.XHigh), Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: math.Min(a.YLow, a.YHigh), Max: math.Max(a.YLow, a.YHigh), Name: "y", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("markers", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	if err := scatter.Render(w); err != nil {
		return errors.Wrap(err, "render html plot")
	}
	return nil
}
