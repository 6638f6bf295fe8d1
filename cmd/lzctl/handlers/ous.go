package handlers

import (
	"context"
	"fmt"
)

// OUs prints the organization's OU tree and marks the OUs that are skipped.
func OUs(ctx context.Context, opts *Options) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	units, err := s.enumerator.Enumerate(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate OUs: %w", err)
	}
	if len(units) == 0 {
		fmt.Fprintln(stdout, "No OUs found.")
		return nil
	}

	fmt.Fprint(stdout, renderTree(units, s.cfg.OUsToSkip))
	return nil
}
