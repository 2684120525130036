package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
)

// WriteCSV writes the report as a flat, section-labelled table:
// summary, environment breakdown, service breakdown, then the full
// daily series.
func WriteCSV(report *domain.CostReport, path string) error {
	rows := [][]string{
		{"Category", "Value/Name", "Cost", "Notes"},
		{"Summary", "", "", ""},
		{"Total Cost", formatCost(report.Summary.TotalCost), "", ""},
		{"Average Daily Cost", formatCost(report.Summary.AverageDailyCost), "", ""},
		{"Projected Monthly Cost", formatCost(report.Summary.ProjectedMonthlyCost), "", ""},
		{"", "", "", ""},
	}

	rows = append(rows, []string{"Cost by Environment", "", "", ""})
	rows = appendTotals(rows, report.Breakdown.ByEnvironment)
	rows = append(rows, []string{"", "", "", ""})

	rows = append(rows, []string{"Cost by Service", "", "", ""})
	rows = appendTotals(rows, report.Breakdown.ByService)
	rows = append(rows, []string{"", "", "", ""})

	rows = append(rows, []string{"Daily Costs", "", "", ""})
	rows = append(rows, []string{"Date", "Cost", "", ""})
	for _, day := range report.DailySeries {
		rows = append(rows, []string{day.Date, formatCost(day.Cost), "", ""})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

func appendTotals(rows [][]string, totals *domain.OrderedTotals) [][]string {
	for _, key := range totals.Keys() {
		rows = append(rows, []string{key, formatCost(totals.Get(key)), "", ""})
	}
	return rows
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
