package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/tddkit/internal/history"
	"github.com/harrison/tddkit/internal/models"
	"github.com/harrison/tddkit/internal/validator"
)

// Printer writes formatted results to a single writer
type Printer struct {
	out     io.Writer
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	dim     *color.Color
}

// NewPrinter creates a Printer for out. Colors are disabled unless out is a
// terminal and NO_COLOR is unset.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:     out,
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		dim:     color.New(color.FgHiBlack),
	}
	if !isTerminal(out) {
		for _, c := range []*color.Color{p.success, p.fail, p.warn, p.label, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Out returns the underlying writer
func (p *Printer) Out() io.Writer {
	return p.out
}

// Line writes one formatted line
func (p *Printer) Line(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Blank writes an empty line
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Start announces an operation: "🚀 <title>" followed by indented details
func (p *Printer) Start(title string, details ...string) {
	fmt.Fprintf(p.out, "🚀 %s\n", p.label.Sprint(title))
	for _, d := range details {
		fmt.Fprintf(p.out, "   %s\n", d)
	}
}

// Created reports a file or directory written by the command
func (p *Printer) Created(kind, path string) {
	p.success.Fprintf(p.out, "✅ Created %s: %s\n", kind, path)
}

// Success writes a green check line
func (p *Printer) Success(format string, args ...interface{}) {
	p.success.Fprintf(p.out, "✅ "+format+"\n", args...)
}

// Failure writes a red cross line
func (p *Printer) Failure(format string, args ...interface{}) {
	p.fail.Fprintf(p.out, "❌ "+format+"\n", args...)
}

// Steps writes a numbered list under title
func (p *Printer) Steps(title string, steps ...string) {
	fmt.Fprintln(p.out, title)
	for i, s := range steps {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, s)
	}
}

// Tip writes a closing hint
func (p *Printer) Tip(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "💡 Tip: "+format+"\n", args...)
}

// SlowTests lists flagged tests with their runtime
func (p *Printer) SlowTests(thresholdMS int, entries []models.SlowTest) {
	if len(entries) == 0 {
		p.Success("No slow tests detected (all tests <= %dms)", thresholdMS)
		return
	}
	p.warn.Fprintf(p.out, "⚠️  Found %d slow test(s):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(p.out, "   - %s: %s\n", e.TestName, p.warn.Sprintf("%dms", e.RuntimeMS))
	}
}

// NoteWritten reports a slow-test note file
func (p *Printer) NoteWritten(path string) {
	fmt.Fprintf(p.out, "📝 Logged slow test: %s\n", path)
}

// Findings writes warnings then errors, followed by the verdict for the outcome
func (p *Printer) Findings(report *validator.Report, strict bool) {
	outcome := report.Outcome(strict)
	if outcome == validator.OutcomeClean {
		p.Success("All validations passed!")
		return
	}

	if warnings := report.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(p.out, "Warnings:")
		for _, f := range warnings {
			fmt.Fprintf(p.out, "  %s\n", p.warn.Sprint(f.String()))
		}
		p.Blank()
	}

	errs := report.Errors()
	if len(errs) > 0 {
		fmt.Fprintln(p.out, "Errors:")
		for _, f := range errs {
			fmt.Fprintf(p.out, "  %s\n", p.fail.Sprint(f.String()))
		}
		p.Blank()
	}

	switch {
	case len(errs) > 0:
		p.Failure("Validation failed with %d error(s)", len(errs))
	case outcome == validator.OutcomeFailed:
		p.Failure("Validation failed (strict mode: warnings treated as errors)")
	default:
		p.Success("Validation passed with warnings")
	}
}

// HistoryTable writes recorded slow-test runs as aligned columns
func (p *Printer) HistoryTable(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.out, "No slow-test runs recorded")
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"DETECTED", "TEST", "RUNTIME", "THRESHOLD", "FRAMEWORK", "RUN"}, "\t"))
	for _, r := range runs {
		framework := r.Framework
		if framework == "" {
			framework = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%dms\t%dms\t%s\t%s\n",
			r.DetectedAt.Local().Format(time.DateTime),
			r.TestName,
			r.RuntimeMS,
			r.ThresholdMS,
			framework,
			shortID(r.RunID),
		)
	}
	tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
