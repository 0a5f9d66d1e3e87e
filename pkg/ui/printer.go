// Package ui renders the installer's terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

// Printer writes user-facing output in one format
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a printer. FormatAuto is resolved against out.
func NewPrinter(out io.Writer, format Format) *Printer {
	if format == FormatAuto {
		format = DetectFormat(out)
	}
	return &Printer{out: out, format: format}
}

// Format returns the resolved output format
func (p *Printer) Format() Format {
	return p.format
}

func (p *Printer) styled(name, s string) string {
	if p.format != FormatTerminal {
		return s
	}
	return Style(name).Render(s)
}

func (p *Printer) bold(s string) string {
	if p.format != FormatTerminal {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func (p *Printer) cyan(s string) string {
	if p.format != FormatTerminal {
		return s
	}
	return pterm.FgCyan.Sprint(s)
}

// Creating announces the project being created
func (p *Printer) Creating(appName, root string) {
	fmt.Fprintf(p.out, "Creating a new ProcessCube app %s in %s.\n\n", p.bold(appName), p.styled(StyleHighlight, root))
}

// UsingPackageManager names the package manager in use
func (p *Printer) UsingPackageManager(pm types.PackageManager) {
	fmt.Fprintf(p.out, "Using %s.\n", p.bold(string(pm)))
}

// Offline warns that dependencies come from the local cache
func (p *Printer) Offline() {
	fmt.Fprintln(p.out, p.styled(StyleWarning, "You appear to be offline.\nFalling back to the local cache."))
}

// Dependencies lists the packages about to be installed
func (p *Printer) Dependencies(deps types.DependencySet) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Installing dependencies:")
	for _, d := range deps {
		fmt.Fprintf(p.out, "- %s\n", p.cyan(d.String()))
	}
	fmt.Fprintln(p.out)
}

// Success reports a completed project
func (p *Printer) Success(appName, root string) {
	fmt.Fprintf(p.out, "%s Created %s at %s\n", p.styled(StyleSuccess, "Success!"), appName, root)
}

// Error renders err, including the conflicting entries of a non-empty target
func (p *Printer) Error(err error, details map[string]interface{}) {
	fmt.Fprintln(p.out, p.styled(StyleError, "Error: ")+err.Error())
	for _, key := range []string{"conflicts", "violations", "problems"} {
		items, ok := details[key]
		if !ok {
			continue
		}
		for _, item := range toStrings(items) {
			fmt.Fprintln(p.out, p.styled(StyleViolation, "  "+item))
		}
	}
}

// NextSteps renders the post-install instructions
func (p *Printer) NextSteps(appName string, pm types.PackageManager, installed bool) {
	md := NextStepsMarkdown(appName, pm, installed)
	if p.format != FormatTerminal {
		fmt.Fprint(p.out, md)
		return
	}
	fmt.Fprint(p.out, RenderMarkdown(md))
}

// NextStepsMarkdown returns the post-install instructions as markdown
func NextStepsMarkdown(appName string, pm types.PackageManager, installed bool) string {
	run := string(pm)
	if pm == types.PackageManagerNPM || pm == "" {
		run = "npm run"
	}

	var b strings.Builder
	b.WriteString("## Next steps\n\n")
	fmt.Fprintf(&b, "1. `cd %s`\n", appName)
	if !installed {
		fmt.Fprintf(&b, "1. `%s install`\n", pm)
	}
	fmt.Fprintf(&b, "1. `%s dev` starts the development server\n", run)
	fmt.Fprintf(&b, "1. `%s build` builds the app for production\n", run)
	return b.String()
}

// RenderMarkdown renders markdown for the terminal, returning the input
// unchanged if rendering fails.
func RenderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

func toStrings(v interface{}) []string {
	switch items := v.(type) {
	case []string:
		return items
	default:
		return nil
	}
}
