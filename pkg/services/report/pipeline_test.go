package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/cost-reporter/pkg/services/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	usage    billing.CostAndUsageResult
	recs     billing.RecommendationResult
	forecast billing.ForecastResult

	usageCalls int
}

func (f *fakeSource) FetchCostAndUsage(_ context.Context, _, _ time.Time, _ types.Granularity) billing.CostAndUsageResult {
	f.usageCalls++
	return f.usage
}

func (f *fakeSource) FetchRightsizingRecommendations(_ context.Context) billing.RecommendationResult {
	return f.recs
}

func (f *fakeSource) FetchUsageForecast(_ context.Context, _, _ time.Time) billing.ForecastResult {
	return f.forecast
}

type fakeIdentity struct {
	account string
	err     error
	calls   int
}

func (f *fakeIdentity) ResolveAccountID(_ context.Context) (string, error) {
	f.calls++
	return f.account, f.err
}

func TestPipeline_Run(t *testing.T) {
	source := &fakeSource{
		usage: billing.CostAndUsageResult{
			Status: billing.FetchOK,
			ResultsByTime: []types.ResultByTime{
				bucket("2024-06-01", group("10", "prod", "api", "Amazon EC2")),
				bucket("2024-06-02", group("20", "prod", "api", "Amazon EC2")),
			},
		},
		forecast: billing.ForecastResult{
			Status: billing.FetchOK,
			Results: []types.ForecastResult{
				{
					TimePeriod: &types.DateInterval{Start: aws.String("2024-06-03"), End: aws.String("2024-07-03")},
					MeanValue:  aws.String("450"),
				},
			},
		},
	}
	identity := &fakeIdentity{account: "123456789012"}

	report, err := NewPipeline(source, identity).Run(context.Background(), "prod", 2)
	require.NoError(t, err)

	assert.Equal(t, "123456789012", report.Metadata.AccountID)
	assert.Equal(t, "prod", report.Metadata.Environment)
	assert.InDelta(t, 30, report.Summary.TotalCost, 1e-9)
	assert.InDelta(t, 450, report.Forecast.TotalForecastedCost, 1e-9)
	assert.Empty(t, report.Recommendations)
}

func TestPipeline_IdentityFailureIsFatal(t *testing.T) {
	source := &fakeSource{}
	identity := &fakeIdentity{err: errors.New("no credentials")}

	_, err := NewPipeline(source, identity).Run(context.Background(), "all", 30)
	require.Error(t, err)
	assert.Zero(t, source.usageCalls, "no cost query should follow a failed identity lookup")
}

func TestPipeline_DegradedFetchesYieldZeroReport(t *testing.T) {
	source := &fakeSource{
		usage:    billing.CostAndUsageResult{Status: billing.FetchDegraded, Err: errors.New("throttled")},
		recs:     billing.RecommendationResult{Status: billing.FetchDegraded, Err: errors.New("not enabled")},
		forecast: billing.ForecastResult{Status: billing.FetchDegraded, Err: errors.New("not enough history")},
	}
	identity := &fakeIdentity{account: "123456789012"}

	report, err := NewPipeline(source, identity).Run(context.Background(), "all", 30)
	require.NoError(t, err)

	assert.Zero(t, report.Summary.TotalCost)
	assert.Empty(t, report.DailySeries)
	assert.Empty(t, report.Recommendations)
	assert.True(t, report.Forecast.IsEmpty())
}

func TestPipeline_RejectsNonPositiveDaysBeforeAnyCall(t *testing.T) {
	source := &fakeSource{}
	identity := &fakeIdentity{account: "123456789012"}

	_, err := NewPipeline(source, identity).Run(context.Background(), "all", 0)
	require.Error(t, err)
	assert.Zero(t, identity.calls)
	assert.Zero(t, source.usageCalls)
}
