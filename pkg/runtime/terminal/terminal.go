package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/cost-reporter/pkg/runtime/terminal/commands"
	"github.com/de-tools/cost-reporter/pkg/services/billing"
	"github.com/de-tools/cost-reporter/pkg/services/report"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	factory commands.RunnerFactory
	output  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Factory overrides how the report pipeline is built; nil uses the
	// AWS-backed default.
	Factory commands.RunnerFactory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Factory == nil {
		opts.Factory = awsRunnerFactory
	}

	cli := &CLI{
		factory: opts.Factory,
		output:  opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cost-reporter",
		Short:         "Cost reporting with allocation tracking and recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewReportCmd(cli.factory, cli.output))

	return cmd
}

// awsRunnerFactory builds the real pipeline on the AWS SDK's default
// credential chain. Credential failure surfaces here, before any
// report work starts.
func awsRunnerFactory(ctx context.Context, settings billing.Settings, environment, region, profile string) (commands.Runner, error) {
	if region == "" {
		region = settings.Region
	}
	if profile == "" {
		profile = settings.Profile
	}

	cfg, err := billing.LoadAWSConfig(ctx, region, profile)
	if err != nil {
		return nil, err
	}

	explorer := billing.NewExplorer(cfg, settings, environment)
	identity := billing.NewIdentityService(cfg)
	return report.NewPipeline(explorer, identity), nil
}
