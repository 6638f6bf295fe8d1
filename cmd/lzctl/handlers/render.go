package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/lzctl/internal/landingzone"
	"github.com/imamik/lzctl/internal/organization"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	addStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	removeStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// preview is what a mutating command is about to do.
type preview struct {
	Plan       *landingzone.Plan   // nil when regions are not touched
	Units      []organization.Unit // OUs that would be reset
	Discovered int
	UnitsErr   error // why Units is empty, if it is
	NoUnits    bool  // OUs are not touched
}

// renderPreview produces a lipgloss-styled description of pending changes.
func renderPreview(p *preview) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  lzctl plan"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	if p.Plan != nil {
		renderRegions(&b, p.Plan)
	}
	if !p.NoUnits {
		renderUnits(&b, p)
	}

	return b.String()
}

func renderRegions(b *strings.Builder, plan *landingzone.Plan) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Governed regions"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s (version %s)", plan.LandingZone.ARN, plan.LandingZone.Version)))
	b.WriteString("\n")

	if plan.Diff.Empty() {
		b.WriteString(dimStyle.Render("    no changes"))
		b.WriteString("\n")
		return
	}

	added := make(map[string]bool, len(plan.Diff.ToAdd))
	for _, r := range plan.Diff.ToAdd {
		added[r] = true
	}
	for _, r := range plan.Desired {
		if added[r] {
			b.WriteString(addStyle.Render("    + " + r))
		} else {
			b.WriteString("      " + r)
		}
		b.WriteString("\n")
	}
	for _, r := range plan.Diff.ToRemove {
		b.WriteString(removeStyle.Render("    - " + r))
		b.WriteString("\n")
	}
}

func renderUnits(b *strings.Builder, p *preview) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Baseline resets"))
	b.WriteString("\n")

	if p.UnitsErr != nil {
		b.WriteString(removeStyle.Render("    " + p.UnitsErr.Error()))
		b.WriteString("\n")
		return
	}

	for i, u := range p.Units {
		b.WriteString(fmt.Sprintf("    %2d. %s %s\n", i+1, u.Name, dimStyle.Render(u.ID)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("    %d of %d OUs", len(p.Units), p.Discovered)))
	b.WriteString("\n")
}

// renderTree prints units under their parents, indented by depth, marking
// skipped ones. Units whose parent is not among units are printed as roots.
func renderTree(units []organization.Unit, skip []string) string {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	known := make(map[string]bool, len(units))
	for _, u := range units {
		known[u.ID] = true
	}
	children := organization.Children(units)

	var b strings.Builder
	var walk func(u organization.Unit)
	walk = func(u organization.Unit) {
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", u.Depth), u.Name, dimStyle.Render(u.ID))
		if skipped[u.Name] {
			line += " " + removeStyle.Render("(skipped)")
		}
		b.WriteString(line)
		b.WriteString("\n")
		for _, c := range children[u.ID] {
			walk(c)
		}
	}
	for _, u := range units {
		if !known[u.ParentID] {
			walk(u)
		}
	}
	return b.String()
}
