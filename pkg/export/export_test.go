package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.CostReport {
	byEnv := domain.NewOrderedTotals()
	byEnv.Add("prod", 45.5)
	byEnv.Add("dev", 14.5)

	byService := domain.NewOrderedTotals()
	byService.Add("api", 30)
	byService.Add("worker", 30)

	byProvider := domain.NewOrderedTotals()
	byProvider.Add("Amazon EC2", 40)
	byProvider.Add("Amazon S3", 12)
	byProvider.Add("Amazon RDS", 8)

	return &domain.CostReport{
		Metadata: domain.ReportMetadata{
			ReportDate:  time.Date(2024, 6, 4, 12, 30, 0, 0, time.UTC),
			PeriodStart: "2024-06-01",
			PeriodEnd:   "2024-06-04",
			Environment: "all",
			AccountID:   "123456789012",
		},
		Summary: domain.CostSummary{
			TotalCost:            60,
			AverageDailyCost:     20,
			ProjectedMonthlyCost: 600,
		},
		Breakdown: domain.CostBreakdown{
			ByEnvironment:     byEnv,
			ByService:         byService,
			ByProviderService: byProvider,
		},
		DailySeries: []domain.DailyCost{
			{Date: "2024-06-01", Cost: 10},
			{Date: "2024-06-02", Cost: 20},
			{Date: "2024-06-03", Cost: 30},
		},
		Recommendations: []domain.Recommendation{
			{
				AccountID:               "123456789012",
				RightsizingType:         "Terminate",
				EstimatedMonthlySavings: "84.00",
				TerminateRecommendation: &domain.TerminateDetail{
					EstimatedMonthlySavings: "84.00",
					CurrencyCode:            "USD",
				},
			},
		},
		Forecast: domain.CostForecast{
			TotalForecastedCost: 620,
			Periods: []domain.ForecastPeriod{
				{PeriodStart: "2024-06-04", PeriodEnd: "2024-07-04", ForecastedCost: 620},
			},
		},
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.CostReport
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, report.Metadata, decoded.Metadata)
	assert.Equal(t, report.Summary, decoded.Summary)
	assert.Equal(t, report.DailySeries, decoded.DailySeries)
	assert.Equal(t, report.Recommendations, decoded.Recommendations)
	assert.Equal(t, report.Forecast, decoded.Forecast)

	assert.Equal(t, report.Breakdown.ByEnvironment.Keys(), decoded.Breakdown.ByEnvironment.Keys())
	for _, key := range report.Breakdown.ByEnvironment.Keys() {
		assert.Equal(t, report.Breakdown.ByEnvironment.Get(key), decoded.Breakdown.ByEnvironment.Get(key))
	}
	assert.Equal(t, report.Breakdown.ByProviderService.Keys(), decoded.Breakdown.ByProviderService.Keys())
}

func TestWriteCSV_SectionLayout(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "report.csv")

	require.NoError(t, WriteCSV(report, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	var labels []string
	for _, row := range rows {
		labels = append(labels, row[0])
	}

	// Section labels appear in the documented order.
	order := []string{"Category", "Summary", "Cost by Environment", "Cost by Service", "Daily Costs"}
	last := -1
	for _, want := range order {
		idx := indexOf(labels, want)
		require.GreaterOrEqual(t, idx, 0, want)
		assert.Greater(t, idx, last, want)
		last = idx
	}

	assert.Contains(t, labels, "Total Cost")
	assert.Contains(t, labels, "prod")
	assert.Contains(t, labels, "2024-06-03")
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, writeFileAtomic(path, []byte("payload")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestWriteFileAtomic_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, writeFileAtomic(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if strings.TrimSpace(v) == want {
			return i
		}
	}
	return -1
}
