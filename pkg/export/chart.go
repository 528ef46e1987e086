package export

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/tripduration/core/runlog"
)

// RMSEChartHTML renders the test RMSE of every candidate across runs as a
// line chart, one series per model.
func RMSEChartHTML(runs []runlog.Run) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Test RMSE per training run"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Run"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RMSE (minutes)"}),
	)

	var models []string
	for _, r := range runs {
		for _, s := range r.Scores {
			if !slices.Contains(models, s.Model) {
				models = append(models, s.Model)
			}
		}
	}

	xAxis := make([]string, len(runs))
	for i, r := range runs {
		xAxis[i] = r.Timestamp.Format("2006-01-02 15:04")
	}
	line.SetXAxis(xAxis)
	for _, m := range models {
		data := make([]opts.LineData, len(runs))
		for i, r := range runs {
			if v, ok := r.Score(m); ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(m, data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %v", err)
	}
	return buf.String(), nil
}
