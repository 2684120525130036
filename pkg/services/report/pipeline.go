package report

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/cost-reporter/pkg/models/domain"
	"github.com/de-tools/cost-reporter/pkg/services/billing"
	"github.com/rs/zerolog"
)

// CostSource is the billing surface the pipeline pulls from. The AWS
// implementation lives in pkg/services/billing; tests inject fakes.
type CostSource interface {
	FetchCostAndUsage(ctx context.Context, start, end time.Time, granularity types.Granularity) billing.CostAndUsageResult
	FetchRightsizingRecommendations(ctx context.Context) billing.RecommendationResult
	FetchUsageForecast(ctx context.Context, start, end time.Time) billing.ForecastResult
}

type IdentityResolver interface {
	ResolveAccountID(ctx context.Context) (string, error)
}

// Pipeline runs the fetch -> aggregate -> enrich -> assemble sequence
// for one invocation. Fully sequential: each call completes before the
// next stage starts.
type Pipeline struct {
	source    CostSource
	identity  IdentityResolver
	assembler *Assembler
}

func NewPipeline(source CostSource, identity IdentityResolver) *Pipeline {
	return &Pipeline{
		source:    source,
		identity:  identity,
		assembler: NewAssembler(),
	}
}

// Run generates the report for the trailing window of days, scoped to
// environment. Identity failure is fatal; every other external call
// degrades to an empty report section.
func (p *Pipeline) Run(ctx context.Context, environment string, days int) (*domain.CostReport, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	accountID, err := p.identity.ResolveAccountID(ctx)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("account_id", accountID).
		Str("environment", environment).
		Int("days", days).
		Msg("generating cost allocation report")

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	usage := p.source.FetchCostAndUsage(ctx, start, end, types.GranularityDaily)
	aggregation := Aggregate(usage.ResultsByTime)

	recommendations := p.source.FetchRightsizingRecommendations(ctx)

	forecastEnd := end.AddDate(0, 0, 30)
	forecast := p.source.FetchUsageForecast(ctx, end, forecastEnd)

	return p.assembler.Assemble(AssembleParams{
		AccountID:       accountID,
		Environment:     environment,
		PeriodStart:     start,
		PeriodEnd:       end,
		Days:            days,
		Aggregation:     aggregation,
		Recommendations: NormalizeRecommendations(recommendations.Recommendations),
		Forecast:        NormalizeForecast(forecast.Results),
	})
}
