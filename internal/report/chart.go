package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ivlev/blobscan/internal/histogram"
)

// WriteHistogramChart renders the luminance distribution as a standalone
// HTML bar chart. Debugging aid for picking threshold percentiles.
func WriteHistogramChart(w io.Writer, h *histogram.Histogram, title string) error {
	labels := make([]string, 256)
	data := make([]opts.BarData, 256)
	for i := 0; i < 256; i++ {
		labels[i] = fmt.Sprintf("%d", i)
		data[i] = opts.BarData{Value: h.Counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Luminance Histogram",
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Luminance Histogram",
			Subtitle: fmt.Sprintf("%s | total=%d pixels", title, h.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "luminance"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("pixels", data)

	return bar.Render(w)
}
