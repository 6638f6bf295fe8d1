package handlers

import (
	"context"
	"fmt"
)

// Plan prints the region diff and the OUs a full run would reset, without
// changing anything.
func Plan(ctx context.Context, opts *Options, only []string) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.preview(ctx, true, only)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, renderPreview(p))
	return nil
}

// preview computes pending changes. A region planning failure is returned;
// an OU discovery failure is reported inside the preview.
func (s *session) preview(ctx context.Context, regions bool, only []string) (*preview, error) {
	p := &preview{}
	if regions {
		plan, err := s.reconciler.Plan(ctx, s.cfg.Regions)
		if err != nil {
			return nil, fmt.Errorf("failed to plan region changes: %w", err)
		}
		p.Plan = plan
	}

	p.Units, p.Discovered, p.UnitsErr = s.orchestrator.Targets(ctx, s.input(only))
	return p, nil
}
