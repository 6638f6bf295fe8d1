package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/lzctl/cmd/lzctl/handlers"
)

// Apply returns the command that runs a full reconciliation.
//
// Optional flags:
//
//	--yes, -y: Skip the confirmation prompt
//	--metrics-file: Write Prometheus metrics to this file (overrides metrics_file)
func Apply(opts *handlers.Options) *cobra.Command {
	var run handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile governed regions, then re-register every OU",
		Long: `Make the landing zone govern exactly the configured regions, then reset
the enabled baseline of every OU not listed in ous_to_skip.

If updating the landing zone fails, no OU is touched. If re-registering an
OU fails, the failure is logged and the next OU is processed.

Examples:
  # Run with config.yaml in the current directory
  lzctl apply

  # Unattended run from CI
  lzctl apply -c prod.yaml --yes --log-format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts, run)
		},
	}

	cmd.Flags().BoolVarP(&run.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&run.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}

// Regions returns the command that only reconciles governed regions.
func Regions(opts *handlers.Options) *cobra.Command {
	var run handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Reconcile governed regions without re-registering OUs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Regions(cmd.Context(), opts, run)
		},
	}

	cmd.Flags().BoolVarP(&run.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&run.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}

// Rollout returns the command that only re-registers OUs.
func Rollout(opts *handlers.Options) *cobra.Command {
	var run handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Re-register OUs without changing governed regions",
		Long: `Reset the enabled baseline of every OU not listed in ous_to_skip.

Use --only to restrict the rollout to specific OU names, for example to
retry OUs that failed in a previous run.

Examples:
  lzctl rollout --only Workloads --only Sandbox`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Rollout(cmd.Context(), opts, run)
		},
	}

	cmd.Flags().BoolVarP(&run.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&run.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().StringSliceVar(&run.Only, "only", nil, "Only re-register OUs with these names")

	return cmd
}
