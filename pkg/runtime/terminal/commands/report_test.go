package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
	"github.com/de-tools/cost-reporter/pkg/services/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	report *domain.CostReport
	err    error
	calls  int
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ int) (*domain.CostReport, error) {
	f.calls++
	return f.report, f.err
}

func testReport() *domain.CostReport {
	byEnv := domain.NewOrderedTotals()
	byEnv.Add("prod", 60)

	return &domain.CostReport{
		Metadata: domain.ReportMetadata{
			ReportDate:  time.Date(2024, 6, 4, 12, 30, 0, 0, time.UTC),
			PeriodStart: "2024-06-01",
			PeriodEnd:   "2024-06-04",
			Environment: "prod",
			AccountID:   "123456789012",
		},
		Summary: domain.CostSummary{TotalCost: 60, AverageDailyCost: 20, ProjectedMonthlyCost: 600},
		Breakdown: domain.CostBreakdown{
			ByEnvironment:     byEnv,
			ByService:         domain.NewOrderedTotals(),
			ByProviderService: domain.NewOrderedTotals(),
		},
		DailySeries:     []domain.DailyCost{{Date: "2024-06-01", Cost: 60}},
		Recommendations: []domain.Recommendation{},
	}
}

func fixedFactory(runner Runner) RunnerFactory {
	return func(_ context.Context, _ billing.Settings, _, _, _ string) (Runner, error) {
		return runner, nil
	}
}

func TestReportCmd_RejectsBadFlagsBeforeFactory(t *testing.T) {
	cases := map[string][]string{
		"zero days":       {"report", "--days", "0"},
		"negative days":   {"report", "--days", "-5"},
		"bad environment": {"report", "--environment", "qa"},
		"bad format":      {"report", "--format", "xml"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			runner := &fakeRunner{report: testReport()}
			var factoryCalls int
			factory := func(_ context.Context, _ billing.Settings, _, _, _ string) (Runner, error) {
				factoryCalls++
				return runner, nil
			}

			var out bytes.Buffer
			cmd := NewReportCmd(factory, &out)
			cmd.SetArgs(args[1:])
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			err := cmd.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Zero(t, factoryCalls, "no clients should be built for invalid flags")
			assert.Zero(t, runner.calls)
		})
	}
}

func TestReportCmd_ExportsBothFormats(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{report: testReport()}

	var out bytes.Buffer
	cmd := NewReportCmd(fixedFactory(runner), &out)
	cmd.SetArgs([]string{
		"--environment", "prod",
		"--days", "3",
		"--output", filepath.Join(dir, "cost_report"),
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, 1, runner.calls)

	jsonFiles, err := filepath.Glob(filepath.Join(dir, "cost_report_prod_*.json"))
	require.NoError(t, err)
	assert.Len(t, jsonFiles, 1)

	csvFiles, err := filepath.Glob(filepath.Join(dir, "cost_report_prod_*.csv"))
	require.NoError(t, err)
	assert.Len(t, csvFiles, 1)

	assert.Contains(t, out.String(), "COST REPORT")
	assert.Contains(t, out.String(), "JSON report saved")
	assert.Contains(t, out.String(), "CSV report saved")
}

func TestReportCmd_QuietSuppressesSummary(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{report: testReport()}

	var out bytes.Buffer
	cmd := NewReportCmd(fixedFactory(runner), &out)
	cmd.SetArgs([]string{
		"--quiet",
		"--format", "json",
		"--output", filepath.Join(dir, "cost_report"),
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.NotContains(t, out.String(), "COST SUMMARY")
	assert.Contains(t, out.String(), "JSON report saved")

	csvFiles, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	assert.Empty(t, csvFiles)
}

func TestReportCmd_ChartsOptIn(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{report: testReport()}

	var out bytes.Buffer
	cmd := NewReportCmd(fixedFactory(runner), &out)
	cmd.SetArgs([]string{
		"--quiet",
		"--format", "json",
		"--charts",
		"--output", filepath.Join(dir, "cost_report"),
	})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	pngFiles, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, pngFiles)
	assert.Contains(t, out.String(), "visualization charts")
}
