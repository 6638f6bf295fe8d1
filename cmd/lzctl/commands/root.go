// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/lzctl/cmd/lzctl/handlers"
)

// Root returns the root command for the lzctl CLI.
//
// Global flags are bound to a single handlers.Options shared by all
// subcommands.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:           "lzctl",
		Short:         "Reconcile Control Tower governed regions and re-register OUs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "Path to configuration file")
	flags.StringVar(&opts.Region, "region", "", "AWS region for API calls (overrides aws.region)")
	flags.StringVar(&opts.Profile, "profile", "", "AWS shared config profile (overrides aws.profile)")
	flags.StringVar(&opts.AssumeRole, "assume-role", "", "IAM role ARN to assume (overrides aws.assume_role_arn)")
	flags.StringVar(&opts.LogFormat, "log-format", "auto", "Log format: auto, console or json")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	// Mutating commands
	cmd.AddCommand(Apply(opts))
	cmd.AddCommand(Regions(opts))
	cmd.AddCommand(Rollout(opts))

	// Read-only commands
	cmd.AddCommand(Plan(opts))
	cmd.AddCommand(Show(opts))
	cmd.AddCommand(OUs(opts))
	cmd.AddCommand(Reports(opts))

	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
