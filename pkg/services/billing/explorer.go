package billing

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/rs/zerolog"
)

// EnvironmentAll selects every environment (no environment tag filter).
const EnvironmentAll = "all"

// CostExplorerAPI is the slice of the Cost Explorer client this package
// uses. Tests substitute a fake.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput,
		optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
	GetRightsizingRecommendation(ctx context.Context, params *costexplorer.GetRightsizingRecommendationInput,
		optFns ...func(*costexplorer.Options)) (*costexplorer.GetRightsizingRecommendationOutput, error)
	GetUsageForecast(ctx context.Context, params *costexplorer.GetUsageForecastInput,
		optFns ...func(*costexplorer.Options)) (*costexplorer.GetUsageForecastOutput, error)
}

// FetchStatus records whether a best-effort call succeeded or degraded
// to an empty result.
type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchDegraded
)

func (s FetchStatus) String() string {
	if s == FetchDegraded {
		return "degraded"
	}
	return "ok"
}

// CostAndUsageResult carries the raw time buckets of a cost query. A
// degraded result has empty buckets and the causing error.
type CostAndUsageResult struct {
	Status        FetchStatus
	Err           error
	ResultsByTime []types.ResultByTime
}

type RecommendationResult struct {
	Status          FetchStatus
	Err             error
	Recommendations []types.RightsizingRecommendation
}

type ForecastResult struct {
	Status  FetchStatus
	Err     error
	Results []types.ForecastResult
}

// Explorer wraps the Cost Explorer API with workload-scoped queries.
type Explorer struct {
	api         CostExplorerAPI
	settings    Settings
	environment string
}

// NewExplorer builds an Explorer on the real Cost Explorer client.
// environment narrows the tag filter; EnvironmentAll disables that.
func NewExplorer(cfg aws.Config, settings Settings, environment string) *Explorer {
	return NewExplorerWithAPI(costexplorer.NewFromConfig(cfg), settings, environment)
}

func NewExplorerWithAPI(api CostExplorerAPI, settings Settings, environment string) *Explorer {
	return &Explorer{
		api:         api,
		settings:    settings,
		environment: environment,
	}
}

// projectFilter builds the tag expression scoping every query to the
// target workload, AND-ed with the environment tag when one is selected.
func (e *Explorer) projectFilter() *types.Expression {
	project := types.Expression{
		Tags: &types.TagValues{
			Key:    aws.String(e.settings.ProjectTagKey),
			Values: e.settings.ProjectTagValues,
		},
	}

	if e.environment == EnvironmentAll || e.environment == "" {
		return &project
	}

	return &types.Expression{
		And: []types.Expression{
			project,
			{
				Tags: &types.TagValues{
					Key:    aws.String(e.settings.EnvironmentTagKey),
					Values: []string{e.environment},
				},
			},
		},
	}
}

// FetchCostAndUsage queries blended cost grouped by the environment tag,
// the logical-service tag, and the SERVICE dimension. Provider errors
// degrade to an empty result after a logged warning; this call never
// aborts the pipeline.
func (e *Explorer) FetchCostAndUsage(ctx context.Context, start, end time.Time, granularity types.Granularity) CostAndUsageResult {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: granularity,
		Metrics:     []string{"BlendedCost", "UsageQuantity"},
		GroupBy: []types.GroupDefinition{
			{Type: types.GroupDefinitionTypeTag, Key: aws.String(e.settings.EnvironmentTagKey)},
			{Type: types.GroupDefinitionTypeTag, Key: aws.String(e.settings.ServiceTagKey)},
			{Type: types.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
		Filter: e.projectFilter(),
	}

	var results []types.ResultByTime
	for {
		output, err := e.api.GetCostAndUsage(ctx, input)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("cost and usage query failed, continuing with empty result")
			return CostAndUsageResult{Status: FetchDegraded, Err: err}
		}
		results = append(results, output.ResultsByTime...)
		if output.NextPageToken == nil {
			break
		}
		input.NextPageToken = output.NextPageToken
	}

	return CostAndUsageResult{Status: FetchOK, ResultsByTime: results}
}

// FetchRightsizingRecommendations is best-effort: accounts without the
// capability enabled simply yield an empty, degraded result.
func (e *Explorer) FetchRightsizingRecommendations(ctx context.Context) RecommendationResult {
	input := &costexplorer.GetRightsizingRecommendationInput{
		Service: aws.String("AmazonEC2"),
		Filter: &types.Expression{
			Tags: &types.TagValues{
				Key:    aws.String(e.settings.ProjectTagKey),
				Values: e.settings.ProjectTagValues,
			},
		},
		Configuration: &types.RightsizingRecommendationConfiguration{
			BenefitsConsidered:   true,
			RecommendationTarget: types.RecommendationTargetSameInstanceFamily,
		},
	}

	var recs []types.RightsizingRecommendation
	for {
		output, err := e.api.GetRightsizingRecommendation(ctx, input)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("rightsizing recommendations not available")
			return RecommendationResult{Status: FetchDegraded, Err: err}
		}
		recs = append(recs, output.RightsizingRecommendations...)
		if output.NextPageToken == nil {
			break
		}
		input.NextPageToken = output.NextPageToken
	}

	return RecommendationResult{Status: FetchOK, Recommendations: recs}
}

// FetchUsageForecast is best-effort, same policy as recommendations.
func (e *Explorer) FetchUsageForecast(ctx context.Context, start, end time.Time) ForecastResult {
	input := &costexplorer.GetUsageForecastInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Metric:      types.MetricBlendedCost,
		Granularity: types.GranularityMonthly,
		Filter: &types.Expression{
			Tags: &types.TagValues{
				Key:    aws.String(e.settings.ProjectTagKey),
				Values: e.settings.ProjectTagValues,
			},
		},
	}

	output, err := e.api.GetUsageForecast(ctx, input)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("usage forecast not available")
		return ForecastResult{Status: FetchDegraded, Err: err}
	}

	return ForecastResult{Status: FetchOK, Results: output.ForecastResultsByTime}
}
