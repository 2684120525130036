package domain

import "time"

// CostReport is the complete analysis document produced by one run.
// It is assembled once and consumed read-only by every exporter.
type CostReport struct {
	Metadata        ReportMetadata   `json:"metadata"`
	Summary         CostSummary      `json:"summary"`
	Breakdown       CostBreakdown    `json:"cost_breakdown"`
	DailySeries     []DailyCost      `json:"daily_costs"`
	Recommendations []Recommendation `json:"recommendations"`
	Forecast        CostForecast     `json:"forecast"`
}

// ReportMetadata describes when and for what scope the report was built.
type ReportMetadata struct {
	ReportDate  time.Time `json:"report_date"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	Environment string    `json:"environment"`
	AccountID   string    `json:"account_id"`
}

type CostSummary struct {
	TotalCost            float64 `json:"total_cost"`
	AverageDailyCost     float64 `json:"average_daily_cost"`
	ProjectedMonthlyCost float64 `json:"projected_monthly_cost"`
}

// CostBreakdown holds cumulative cost keyed by the three grouping
// dimensions. Keys keep the order of first encounter.
type CostBreakdown struct {
	ByEnvironment     *OrderedTotals `json:"by_environment"`
	ByService         *OrderedTotals `json:"by_service"`
	ByProviderService *OrderedTotals `json:"by_aws_service"`
}

// DailyCost is one point of the per-period cost series. Date keeps the
// provider's bucket-start string (YYYY-MM-DD).
type DailyCost struct {
	Date string  `json:"date"`
	Cost float64 `json:"cost"`
}

// CostForecast is the normalized usage-forecast section. A zero value
// means the forecast was unavailable.
type CostForecast struct {
	TotalForecastedCost float64          `json:"total_forecasted_cost"`
	Periods             []ForecastPeriod `json:"forecast_by_period,omitempty"`
}

type ForecastPeriod struct {
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	ForecastedCost float64 `json:"forecasted_cost"`
}

// IsEmpty reports whether the forecast carries any data.
func (f CostForecast) IsEmpty() bool {
	return len(f.Periods) == 0
}
