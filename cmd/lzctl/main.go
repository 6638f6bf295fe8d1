// Package main is the entry point for the lzctl CLI.
//
// lzctl makes an AWS Control Tower landing zone govern a configured set of
// regions and then re-registers every organizational unit so the change
// reaches all enrolled accounts.
//
// Commands: apply, regions, rollout, plan, show, ous, reports.
//
// For detailed usage information, run:
//
//	lzctl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/lzctl/cmd/lzctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// An interrupt ends the current wait; operations already submitted to
	// Control Tower keep running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
