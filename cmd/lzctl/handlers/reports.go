package handlers

import (
	"context"
	"errors"
	"fmt"
)

// ErrReportsDisabled is returned when no report bucket is configured.
var ErrReportsDisabled = errors.New("no report bucket configured (set report.bucket)")

// Reports lists stored run reports, newest first, or prints the latest one.
func Reports(ctx context.Context, opts *Options, latest bool, format string) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	if s.reports == nil {
		return ErrReportsDisabled
	}
	if err := s.reports.Check(ctx); err != nil {
		return err
	}

	if !latest {
		keys, err := s.reports.List(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(stdout, k)
		}
		return nil
	}

	doc, key, err := s.reports.Latest(ctx)
	if err != nil {
		return err
	}
	if doc == nil {
		fmt.Fprintln(stdout, "No reports found.")
		return nil
	}

	out, err := marshal(doc, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "# %s\n", key)
	_, err = stdout.Write(out)
	return err
}
