package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/cost-reporter/pkg/export"
	"github.com/de-tools/cost-reporter/pkg/models/domain"
	"github.com/de-tools/cost-reporter/pkg/services/billing"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var validEnvironments = map[string]bool{
	"dev":     true,
	"staging": true,
	"prod":    true,
	"all":     true,
}

// Runner generates one report. Satisfied by report.Pipeline; tests
// substitute fakes.
type Runner interface {
	Run(ctx context.Context, environment string, days int) (*domain.CostReport, error)
}

// RunnerFactory builds the Runner once flags are resolved. It is the
// seam where AWS clients get constructed.
type RunnerFactory func(ctx context.Context, settings billing.Settings, environment, region, profile string) (Runner, error)

type ReportCmd struct {
	environment  string
	days         int
	output       string
	format       string
	charts       bool
	quiet        bool
	settingsPath string
	profile      string
	region       string

	factory RunnerFactory
	out     io.Writer
	clock   func() time.Time
}

// NewReportCmd wires the report command. out receives the console
// summary and the saved-file notices.
func NewReportCmd(factory RunnerFactory, out io.Writer) *cobra.Command {
	rc := &ReportCmd{factory: factory, out: out, clock: time.Now}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a cost allocation report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.environment, "environment", "e", "all", "Environment to analyze (dev|staging|prod|all)")
	cmd.Flags().IntVarP(&rc.days, "days", "d", 30, "Number of days to analyze")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "cost_report", "Output file prefix")
	cmd.Flags().StringVar(&rc.format, "format", "both", "Output format (json|csv|both)")
	cmd.Flags().BoolVar(&rc.charts, "charts", false, "Generate visualization charts")
	cmd.Flags().BoolVar(&rc.quiet, "quiet", false, "Suppress console output")
	cmd.Flags().StringVar(&rc.settingsPath, "settings", "", "Path to a YAML settings file")
	cmd.Flags().StringVar(&rc.profile, "profile", "", "AWS shared config profile")
	cmd.Flags().StringVar(&rc.region, "region", "", "AWS region")

	return cmd
}

// validate rejects bad flag combinations before any network call.
func (rc *ReportCmd) validate() error {
	if !validEnvironments[rc.environment] {
		return fmt.Errorf("invalid environment %q, expected dev, staging, prod or all", rc.environment)
	}
	if rc.days <= 0 {
		return fmt.Errorf("days must be positive, got %d", rc.days)
	}
	switch rc.format {
	case "json", "csv", "both":
	default:
		return fmt.Errorf("invalid format %q, expected json, csv or both", rc.format)
	}
	return nil
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	if err := rc.validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	settings, err := billing.LoadSettings(rc.settingsPath)
	if err != nil {
		return err
	}

	runner, err := rc.factory(ctx, settings, rc.environment, rc.region, rc.profile)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, rc.environment, rc.days)
	if err != nil {
		return err
	}

	if !rc.quiet {
		export.NewConsolePrinter(rc.out).Print(report)
	}

	return rc.export(ctx, report)
}

// export writes the requested artifacts, all named with the environment
// and a run timestamp so repeated runs never collide.
func (rc *ReportCmd) export(ctx context.Context, report *domain.CostReport) error {
	logger := zerolog.Ctx(ctx)
	base := fmt.Sprintf("%s_%s_%s", rc.output, rc.environment, rc.clock().Format("20060102_150405"))

	var files []string

	if rc.format == "json" || rc.format == "both" {
		path := base + ".json"
		if err := export.WriteJSON(report, path); err != nil {
			return err
		}
		files = append(files, path)
		fmt.Fprintf(rc.out, "JSON report saved: %s\n", path)
	}

	if rc.format == "csv" || rc.format == "both" {
		path := base + ".csv"
		if err := export.WriteCSV(report, path); err != nil {
			return err
		}
		files = append(files, path)
		fmt.Fprintf(rc.out, "CSV report saved: %s\n", path)
	}

	if rc.charts {
		charts := export.GenerateCharts(ctx, report, base)
		files = append(files, charts...)
		fmt.Fprintf(rc.out, "Generated %d visualization charts\n", len(charts))
	}

	logger.Info().Int("files", len(files)).Msg("cost report generation completed")
	return nil
}
