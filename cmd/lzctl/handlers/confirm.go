package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var (
	// isInteractive reports whether stdin is a terminal.
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// confirm asks the operator a yes/no question.
	confirm = func(ctx context.Context, title string) (bool, error) {
		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description("Control Tower operations cannot be cancelled once submitted").
					Affirmative("Apply").
					Negative("Cancel").
					Value(&ok),
			),
		).RunWithContext(ctx)
		return ok, err
	}
)

// approve shows the pending changes and asks for confirmation. It returns
// true without asking when yes is set or stdin is not a terminal.
func approve(ctx context.Context, yes bool, build func() (*preview, error)) (bool, error) {
	if yes || !isInteractive() {
		return true, nil
	}

	p, err := build()
	if err != nil {
		return false, err
	}
	fmt.Fprint(stdout, renderPreview(p))

	ok, err := confirm(ctx, "Apply these changes?")
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		fmt.Fprintln(stdout, "Aborted.")
	}
	return ok, nil
}
