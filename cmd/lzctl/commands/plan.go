package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/lzctl/cmd/lzctl/handlers"
)

// Plan returns the command that previews a run.
func Plan(opts *handlers.Options) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show region changes and the OUs that would be re-registered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), opts, only)
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Only consider OUs with these names")

	return cmd
}

// Show returns the command that prints the current landing zone.
func Show(opts *handlers.Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current landing zone and its manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Show(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")

	return cmd
}

// OUs returns the command that prints the OU tree.
func OUs(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ous",
		Short: "List the organization's OUs and which are skipped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.OUs(cmd.Context(), opts)
		},
	}
}

// Reports returns the command that reads run reports from S3.
func Reports(opts *handlers.Options) *cobra.Command {
	var (
		latest bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List run reports stored in the report bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Reports(cmd.Context(), opts, latest, output)
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Print the most recent report")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format for --latest: yaml or json")

	return cmd
}
