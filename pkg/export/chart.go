package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/autopatt/pkg/compare"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"
	stackName   = "elements"

	colorOverlap = "#5470c6"
	colorLeft    = "#fac858"
	colorRight   = "#ee6666"
)

// WriteChart renders an HTML page with one stacked bar chart per field:
// for every key, the overlap, left-only and right-only element counts.
func WriteChart(w io.Writer, m compare.Matrix, title string, labels Labels) error {
	page := components.NewPage()
	page.PageTitle = title

	keys := m.Keys()

	for _, f := range m.Fields() {
		page.AddCharts(fieldChart(f.String(), keys, m[f], labels))
	}

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func fieldChart(name string, keys []string, byKey map[string]compare.Result[string], labels Labels) *charts.Bar {
	overlap := make([]opts.BarData, len(keys))
	left := make([]opts.BarData, len(keys))
	right := make([]opts.BarData, len(keys))

	for i, k := range keys {
		res := byKey[k]
		overlap[i] = opts.BarData{Value: len(res.Overlap)}
		left[i] = opts.BarData{Value: len(res.LeftUnique)}
		right[i] = opts.BarData{Value: len(res.RightUnique)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	bar.SetXAxis(keys)

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: stackName})

	bar.AddSeries(overlapLabel, overlap, stack, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOverlap}))
	bar.AddSeries(labels.LeftOnly(), left, stack, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorLeft}))
	bar.AddSeries(labels.RightOnly(), right, stack, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorRight}))

	return bar
}
