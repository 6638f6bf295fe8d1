package handlers

import (
	"context"
)

// RunOptions are the flags of the mutating commands.
type RunOptions struct {
	Yes         bool     // skip the confirmation prompt
	MetricsFile string   // overrides metrics_file
	Only        []string // restrict the rollout to these OU names
}

// Apply reconciles the governed regions and then resets the enabled
// baseline of every OU not listed in ous_to_skip.
//
// A failed landing zone update aborts before any OU is touched. Failures of
// individual OUs are logged and the run continues.
func Apply(ctx context.Context, opts *Options, run RunOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	ok, err := approve(ctx, run.Yes, func() (*preview, error) {
		return s.preview(ctx, true, run.Only)
	})
	if err != nil || !ok {
		return err
	}

	summary, runErr := s.orchestrator.Run(ctx, s.input(run.Only))
	s.finish(ctx, "apply", summary, runErr, run.MetricsFile)
	return runErr
}

// Regions reconciles the governed regions only.
func Regions(ctx context.Context, opts *Options, run RunOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	ok, err := approve(ctx, run.Yes, func() (*preview, error) {
		plan, err := s.reconciler.Plan(ctx, s.cfg.Regions)
		if err != nil {
			return nil, err
		}
		return &preview{Plan: plan, NoUnits: true}, nil
	})
	if err != nil || !ok {
		return err
	}

	summary, runErr := s.orchestrator.RunRegions(ctx, s.input(nil))
	s.finish(ctx, "regions", summary, runErr, run.MetricsFile)
	return runErr
}

// Rollout resets enabled baselines without changing the governed regions.
func Rollout(ctx context.Context, opts *Options, run RunOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	ok, err := approve(ctx, run.Yes, func() (*preview, error) {
		return s.preview(ctx, false, run.Only)
	})
	if err != nil || !ok {
		return err
	}

	summary, runErr := s.orchestrator.RunRollout(ctx, s.input(run.Only))
	s.finish(ctx, "rollout", summary, runErr, run.MetricsFile)
	return runErr
}
