package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backlinkoo/transform-pages/internal/pipeline"
)

const (
	// DefaultProgressEvery is how many files pass between progress lines.
	DefaultProgressEvery = 20
	maxListedFailures    = 10
)

// Printer writes per-file progress and the final summary.
type Printer struct {
	out           io.Writer
	progressEvery int
	verbose       bool

	ok      lipgloss.Style
	neutral lipgloss.Style
	failed  lipgloss.Style
	dim     lipgloss.Style
	header  lipgloss.Style
}

// NewPrinter styles output for out. Colors are dropped automatically when
// out is not a terminal.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:           out,
		progressEvery: DefaultProgressEvery,
		verbose:       verbose,
		ok:            r.NewStyle().Foreground(lipgloss.Color("42")),
		neutral:       r.NewStyle().Foreground(lipgloss.Color("245")),
		failed:        r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dim:           r.NewStyle().Faint(true),
		header:        r.NewStyle().Bold(true),
	}
}

// FileDone matches pipeline.ProgressFunc.
func (p *Printer) FileDone(res pipeline.FileResult, done, total int) {
	switch res.Status {
	case pipeline.StatusTransformed:
		line := p.ok.Render("✓") + " " + res.File
		if res.Recognizer != "" {
			line += p.dim.Render(" (" + res.Recognizer + ")")
		}
		if res.Placeholder {
			line += p.dim.Render(" placeholder")
		}
		fmt.Fprintln(p.out, line)
	case pipeline.StatusFailed:
		fmt.Fprintf(p.out, "%s %s: %s\n", p.failed.Render("✗"), res.File, res.Reason)
	default:
		if p.verbose {
			fmt.Fprintf(p.out, "%s %s %s\n", p.neutral.Render("•"), res.File, p.dim.Render(string(res.Status)))
		}
	}
	if res.Audit != nil {
		for _, issue := range res.Audit.Issues() {
			fmt.Fprintf(p.out, "    %s %s\n", p.neutral.Render("!"), issue)
		}
	}
	if p.progressEvery > 0 && done%p.progressEvery == 0 && done < total {
		fmt.Fprintln(p.out, p.dim.Render(fmt.Sprintf("… %d/%d processed", done, total)))
	}
}

// Summary prints the final counts and, when short, the failure list.
func (p *Printer) Summary(s *pipeline.Summary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, rule)
	title := "TRANSFORMATION SUMMARY"
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(p.out, p.header.Render(title))
	fmt.Fprintln(p.out, rule)
	fmt.Fprintf(p.out, "Total files scanned:  %d\n", s.Stats.Total)
	fmt.Fprintf(p.out, "Transformed:          %s\n", p.ok.Render(fmt.Sprint(s.Stats.Transformed)))
	fmt.Fprintf(p.out, "Unchanged:            %d\n", s.Stats.Unchanged)
	if s.Stats.Skipped > 0 {
		fmt.Fprintf(p.out, "Skipped (cached):     %d\n", s.Stats.Skipped)
	}
	failed := fmt.Sprint(s.Stats.Failed)
	if s.Stats.Failed > 0 {
		failed = p.failed.Render(failed)
	}
	fmt.Fprintf(p.out, "Failed:               %s\n", failed)
	fmt.Fprintf(p.out, "Duration:             %.2fs\n", s.Stats.DurationSeconds)
	fmt.Fprintln(p.out, rule)

	failures := s.Failures()
	if len(failures) == 0 {
		return
	}
	if len(failures) > maxListedFailures {
		fmt.Fprintf(p.out, "%d files failed; see the report for details.\n", len(failures))
		return
	}
	fmt.Fprintln(p.out, "\nFailures:")
	for _, f := range failures {
		fmt.Fprintf(p.out, "  - %s: %s\n", f.File, f.Reason)
	}
}
