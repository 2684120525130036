package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 1024
	chartHeight = 600
	topServices = 10
)

// GenerateCharts renders up to four PNG artifacts next to basePath:
// environment cost share, per-service cost distribution, daily cost
// trend, and the top provider services. A chart with no source data is
// skipped, and a render or write failure degrades that chart with a
// warning; neither aborts the run. Returns the paths actually written.
func GenerateCharts(ctx context.Context, report *domain.CostReport, basePath string) []string {
	logger := zerolog.Ctx(ctx)
	var written []string

	renderers := []struct {
		suffix string
		render func(*domain.CostReport) ([]byte, bool, error)
	}{
		{"cost_by_environment", environmentPie},
		{"cost_by_service", serviceBars},
		{"daily_cost_trend", dailyTrend},
		{"cost_by_aws_service", topServiceBars},
	}

	for _, r := range renderers {
		data, ok, err := r.render(report)
		if err != nil {
			logger.Warn().Err(err).Str("chart", r.suffix).Msg("failed to render chart")
			continue
		}
		if !ok {
			continue
		}

		path := fmt.Sprintf("%s_%s.png", basePath, r.suffix)
		if err := writeFileAtomic(path, data); err != nil {
			logger.Warn().Err(err).Str("chart", r.suffix).Msg("failed to write chart")
			continue
		}
		written = append(written, path)
	}

	return written
}

// environmentPie shows each environment's share of total cost.
func environmentPie(report *domain.CostReport) ([]byte, bool, error) {
	entries := report.Breakdown.ByEnvironment.Sorted()
	if len(entries) == 0 {
		return nil, false, nil
	}

	values := make([]chart.Value, 0, len(entries))
	for _, entry := range entries {
		values = append(values, chart.Value{
			Value: entry.Cost,
			Label: fmt.Sprintf("%s ($%.2f)", entry.Key, entry.Cost),
		})
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("Cost by Environment (Total $%.2f)", report.Summary.TotalCost),
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	return renderPNG(pie.Render)
}

// serviceBars is the categorical distribution over logical services.
func serviceBars(report *domain.CostReport) ([]byte, bool, error) {
	entries := report.Breakdown.ByService.Sorted()
	if len(entries) == 0 {
		return nil, false, nil
	}

	bars := make([]chart.Value, 0, len(entries))
	for _, entry := range entries {
		bars = append(bars, chart.Value{Value: entry.Cost, Label: entry.Key})
	}

	bc := chart.BarChart{
		Title:    "Cost by Service",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 50,
		Bars:     bars,
	}
	return renderPNG(bc.Render)
}

// dailyTrend is the time-series line over the daily cost buckets.
func dailyTrend(report *domain.CostReport) ([]byte, bool, error) {
	if len(report.DailySeries) == 0 {
		return nil, false, nil
	}

	dates := make([]time.Time, 0, len(report.DailySeries))
	costs := make([]float64, 0, len(report.DailySeries))
	for _, day := range report.DailySeries {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		dates = append(dates, date)
		costs = append(costs, day.Cost)
	}
	if len(dates) == 0 {
		return nil, false, nil
	}

	c := chart.Chart{
		Title:  "Daily Cost Trend",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily Cost",
				XValues: dates,
				YValues: costs,
			},
		},
	}
	return renderPNG(c.Render)
}

// topServiceBars draws the most expensive provider services as
// horizontal bars. Each bar carries an invisible remainder segment so
// bar length stays proportional to cost.
func topServiceBars(report *domain.CostReport) ([]byte, bool, error) {
	entries := report.Breakdown.ByProviderService.Sorted()
	if len(entries) == 0 {
		return nil, false, nil
	}
	if len(entries) > topServices {
		entries = entries[:topServices]
	}

	maxCost := entries[0].Cost
	bars := make([]chart.StackedBar, 0, len(entries))
	for _, entry := range entries {
		bar := chart.StackedBar{
			Name:  entry.Key,
			Width: 40,
			Values: []chart.Value{
				{
					Value: entry.Cost,
					Label: fmt.Sprintf("$%.2f", entry.Cost),
					Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue},
				},
			},
		}
		if rest := maxCost - entry.Cost; rest > 0 {
			bar.Values = append(bar.Values, chart.Value{
				Value: rest,
				Style: chart.Style{FillColor: chart.ColorTransparent, StrokeColor: chart.ColorTransparent},
			})
		}
		bars = append(bars, bar)
	}

	sbc := chart.StackedBarChart{
		Title:        "Top AWS Services by Cost",
		Width:        chartWidth,
		Height:       chartHeight,
		IsHorizontal: true,
		Bars:         bars,
	}
	return renderPNG(sbc.Render)
}

func renderPNG(render func(chart.RendererProvider, io.Writer) error) ([]byte, bool, error) {
	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}
