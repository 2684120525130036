package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ConsolePrinter renders the formatted summary report to a writer.
type ConsolePrinter struct {
	writer io.Writer
}

func NewConsolePrinter(writer io.Writer) *ConsolePrinter {
	if writer == nil {
		writer = os.Stdout
	}
	return &ConsolePrinter{writer: writer}
}

// Print writes the summary in a fixed section order: header, cost
// summary, environment breakdown, service breakdown, top provider
// services, recommendations (when any), forecast (when present).
func (p *ConsolePrinter) Print(report *domain.CostReport) {
	p.header("COST REPORT")

	fmt.Fprintf(p.writer, "Report Date: %s\n", report.Metadata.ReportDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(p.writer, "Period:      %s to %s\n", report.Metadata.PeriodStart, report.Metadata.PeriodEnd)
	fmt.Fprintf(p.writer, "Environment: %s\n", report.Metadata.Environment)
	fmt.Fprintf(p.writer, "Account ID:  %s\n", report.Metadata.AccountID)

	p.section("COST SUMMARY")
	fmt.Fprintf(p.writer, "Total Cost:             $%.2f\n", report.Summary.TotalCost)
	fmt.Fprintf(p.writer, "Average Daily Cost:     $%.2f\n", report.Summary.AverageDailyCost)
	fmt.Fprintf(p.writer, "Projected Monthly Cost: $%.2f\n", report.Summary.ProjectedMonthlyCost)

	total := report.Summary.TotalCost

	p.section("COST BY ENVIRONMENT")
	p.breakdownTable(report.Breakdown.ByEnvironment.Sorted(), total, 0)

	p.section("COST BY SERVICE")
	p.breakdownTable(report.Breakdown.ByService.Sorted(), total, 0)

	p.section("TOP AWS SERVICES")
	p.breakdownTable(report.Breakdown.ByProviderService.Sorted(), total, 5)

	if len(report.Recommendations) > 0 {
		p.section("RIGHTSIZING RECOMMENDATIONS")
		fmt.Fprintf(p.writer, "Potential Monthly Savings: $%.2f\n", totalSavings(report.Recommendations))
		fmt.Fprintf(p.writer, "Number of Recommendations: %d\n", len(report.Recommendations))
	}

	if !report.Forecast.IsEmpty() {
		p.section("30-DAY FORECAST")
		fmt.Fprintf(p.writer, "Forecasted Cost (30 days): $%.2f\n", report.Forecast.TotalForecastedCost)
		if current := report.Summary.ProjectedMonthlyCost; current > 0 {
			change := (report.Forecast.TotalForecastedCost - current) / current * 100
			fmt.Fprintf(p.writer, "Change from Current Trend: %+.1f%%\n", change)
		}
	}

	fmt.Fprintln(p.writer, strings.Repeat("=", 64))
}

func (p *ConsolePrinter) header(title string) {
	fmt.Fprintln(p.writer, strings.Repeat("=", 64))
	fmt.Fprintln(p.writer, title)
	fmt.Fprintln(p.writer, strings.Repeat("=", 64))
}

func (p *ConsolePrinter) section(title string) {
	fmt.Fprintf(p.writer, "\n%s\n%s\n", title, strings.Repeat("-", 40))
}

// breakdownTable renders entries descending by cost, with each entry's
// share of the total. limit 0 means every entry.
func (p *ConsolePrinter) breakdownTable(entries []domain.Total, total float64, limit int) {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Cost", "Share"})

	for _, entry := range entries {
		t.AppendRow(table.Row{
			entry.Key,
			fmt.Sprintf("$%.2f", entry.Cost),
			fmt.Sprintf("%.1f%%", percentOf(entry.Cost, total)),
		})
	}
	t.Render()
}

// percentOf guards against a zero total, which a zero-cost account
// produces; the share then reads 0.0% rather than faulting.
func percentOf(cost, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return cost / total * 100
}

func totalSavings(recs []domain.Recommendation) float64 {
	var sum float64
	for _, rec := range recs {
		savings, err := strconv.ParseFloat(rec.EstimatedMonthlySavings, 64)
		if err != nil {
			continue
		}
		sum += savings
	}
	return sum
}
