package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/nao1215/lintsweep/internal/model"
)

// ConsoleWriter outputs human-readable text reports with colorized
// section headers, one section per check in execution order.
//
// Design decision: Color is applied per-writer rather than through the
// color package's global switch so that a console writer and a file
// writer can coexist in one MultiWriter without the file receiving
// escape sequences.
type ConsoleWriter struct {
	baseWriter

	// verbose enables additional detail such as rune names and timings.
	verbose bool

	// noColor disables ANSI escape sequences.
	noColor bool

	headerColor  *color.Color
	okColor      *color.Color
	warnColor    *color.Color
	findingColor *color.Color
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.verbose = verbose
	}
}

// WithNoColor disables colorized output.
func WithNoColor(noColor bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.noColor = noColor
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter:   newBaseWriter(output),
		headerColor:  color.New(color.FgCyan, color.Bold),
		okColor:      color.New(color.FgGreen),
		warnColor:    color.New(color.FgYellow),
		findingColor: color.New(color.FgRed),
	}

	for _, opt := range opts {
		opt(w)
	}

	// The writer-level switch takes the destination into account, not
	// just the flag: files and buffers never receive escape sequences
	// even when the process's stdout is a terminal. Leaving the colors
	// at their package default on a terminal keeps NO_COLOR and
	// friends working.
	if !w.noColor && !isTerminal(output) {
		w.noColor = true
	}
	if w.noColor {
		for _, c := range []*color.Color{w.headerColor, w.okColor, w.warnColor, w.findingColor} {
			c.DisableColor()
		}
	}

	return w
}

// isTerminal reports whether output is an interactive terminal.
func isTerminal(output io.Writer) bool {
	f, ok := output.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// paint applies the color unless color is disabled.
func (w *ConsoleWriter) paint(c *color.Color, s string) string {
	if w.noColor {
		return s
	}
	return c.Sprint(s)
}

// Write outputs the full report in human-readable format.
func (w *ConsoleWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	var sb strings.Builder

	w.writeHeader(&sb, report)
	for _, result := range report.Results {
		w.writeSection(&sb, result)
	}
	w.writeSummary(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run header.
func (w *ConsoleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         LINTSWEEP REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Target:   %s\n", report.TargetDir)
	fmt.Fprintf(sb, "Date:     %s\n", report.DateRun.Format("2006-01-02 15:04:05 MST"))
	if len(report.Excludes) > 0 {
		fmt.Fprintf(sb, "Excludes: %s\n", strings.Join(report.Excludes, ", "))
	}
	if report.ErrorMessage != "" {
		fmt.Fprintf(sb, "Status:   ERROR - %s\n", report.ErrorMessage)
	}
	sb.WriteString("\n")
}

// writeSection writes one check's section with a colorized header.
func (w *ConsoleWriter) writeSection(sb *strings.Builder, result *model.CheckResult) {
	sb.WriteString(w.paint(w.headerColor, fmt.Sprintf("=== %s ===", result.Tool)))
	sb.WriteString("\n")

	switch {
	case result.Skipped:
		sb.WriteString(w.paint(w.warnColor, "skipped by configuration"))
		sb.WriteString("\n")
	case !result.Available:
		sb.WriteString(w.paint(w.warnColor,
			fmt.Sprintf("%s not found, skipping (is it installed and on PATH?)", result.Tool)))
		sb.WriteString("\n")
	case result.ErrorMessage != "":
		sb.WriteString(w.paint(w.warnColor, "check failed: "+result.ErrorMessage))
		sb.WriteString("\n")
	case !result.HasOutput():
		sb.WriteString(w.paint(w.okColor, "no issues found"))
		sb.WriteString("\n")
	default:
		w.writeToolOutput(sb, result)
		w.writeFindings(sb, result)
	}

	if w.verbose && !result.Skipped && result.Available {
		fmt.Fprintf(sb, "(took %s)\n", result.Duration.Round(time.Millisecond))
	}
	sb.WriteString("\n")
}

// writeToolOutput writes the captured tool output verbatim.
func (w *ConsoleWriter) writeToolOutput(sb *strings.Builder, result *model.CheckResult) {
	if result.Output == "" {
		return
	}
	sb.WriteString(strings.TrimRight(result.Output, "\n"))
	sb.WriteString("\n")
}

// writeFindings writes the structured findings of a built-in check.
func (w *ConsoleWriter) writeFindings(sb *strings.Builder, result *model.CheckResult) {
	for _, f := range result.Findings {
		sb.WriteString(w.paint(w.findingColor, FormatFinding(f)))
		sb.WriteString("\n")
		if w.verbose && f.Description != "" {
			fmt.Fprintf(sb, "    %s\n", f.Description)
		}
	}
}

// FormatFinding renders one structured finding as a console line.
// Line-scoped findings use the "path:line → text (value)" form; findings
// without a line fall back to "path: title".
func FormatFinding(f model.Finding) string {
	switch {
	case f.Line > 0 && f.Text != "" && f.Value != "":
		return fmt.Sprintf("%s:%d → %s (%s)", f.File, f.Line, f.Text, f.Value)
	case f.Line > 0 && f.Text != "":
		return fmt.Sprintf("%s:%d → %s [%s]", f.File, f.Line, f.Text, f.Title)
	case f.Line > 0:
		return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Title)
	case f.File != "":
		return fmt.Sprintf("%s: %s", f.File, f.Title)
	default:
		return f.Title
	}
}

// writeSummary writes the aggregated counts at the end of the report.
func (w *ConsoleWriter) writeSummary(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Checks run:       %d\n", summary.ChecksRun)
	fmt.Fprintf(sb, "  Findings:         %d\n", summary.TotalFindings())
	if summary.TotalFindings() > 0 {
		fmt.Fprintf(sb, "    High:           %d\n", summary.HighCount)
		fmt.Fprintf(sb, "    Medium:         %d\n", summary.MediumCount)
		fmt.Fprintf(sb, "    Low:            %d\n", summary.LowCount)
		fmt.Fprintf(sb, "    Info:           %d\n", summary.InfoCount)
	}
	if len(summary.ToolsWithOutput) > 0 {
		fmt.Fprintf(sb, "  Checks reporting: %s\n", strings.Join(summary.ToolsWithOutput, ", "))
	}
	if len(summary.MissingTools) > 0 {
		sb.WriteString(w.paint(w.warnColor,
			fmt.Sprintf("  Missing tools:    %s", strings.Join(summary.MissingTools, ", "))))
		sb.WriteString("\n")
	}
	if len(summary.SkippedChecks) > 0 {
		fmt.Fprintf(sb, "  Skipped checks:   %s\n", strings.Join(summary.SkippedChecks, ", "))
	}
	sb.WriteString("\n")
}
