package report

import (
	"fmt"
	"time"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
)

// AssembleParams carries everything the assembler combines into one
// report document.
type AssembleParams struct {
	AccountID       string
	Environment     string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Days            int
	Aggregation     Aggregation
	Recommendations []domain.Recommendation
	Forecast        domain.CostForecast
}

// Assembler builds the final CostReport. The clock is injectable so
// tests can pin the report timestamp.
type Assembler struct {
	clock func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{clock: time.Now}
}

func NewAssemblerWithClock(clock func() time.Time) *Assembler {
	return &Assembler{clock: clock}
}

// Assemble combines aggregation output, recommendations, and forecast
// with metadata and summary statistics. Days must be positive; callers
// validate it before any network call, this is the last line of defense.
func (a *Assembler) Assemble(params AssembleParams) (*domain.CostReport, error) {
	if params.Days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", params.Days)
	}

	averageDaily := params.Aggregation.TotalCost / float64(params.Days)

	recommendations := params.Recommendations
	if recommendations == nil {
		recommendations = []domain.Recommendation{}
	}

	dailySeries := params.Aggregation.DailySeries
	if dailySeries == nil {
		dailySeries = []domain.DailyCost{}
	}

	return &domain.CostReport{
		Metadata: domain.ReportMetadata{
			ReportDate:  a.clock(),
			PeriodStart: params.PeriodStart.Format("2006-01-02"),
			PeriodEnd:   params.PeriodEnd.Format("2006-01-02"),
			Environment: params.Environment,
			AccountID:   params.AccountID,
		},
		Summary: domain.CostSummary{
			TotalCost:            params.Aggregation.TotalCost,
			AverageDailyCost:     averageDaily,
			ProjectedMonthlyCost: averageDaily * 30,
		},
		Breakdown: domain.CostBreakdown{
			ByEnvironment:     params.Aggregation.ByEnvironment,
			ByService:         params.Aggregation.ByService,
			ByProviderService: params.Aggregation.ByProviderService,
		},
		DailySeries:     dailySeries,
		Recommendations: recommendations,
		Forecast:        params.Forecast,
	}, nil
}
