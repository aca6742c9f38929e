package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/lintsweep/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report, summary)
	w.writeSummary(md, summary)
	w.writeSections(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport, summary *model.Summary) {
	md.H1("Lintsweep Report")
	md.PlainText("")

	status := "✅ Complete"
	if report.ErrorMessage != "" {
		status = "❌ Error - " + report.ErrorMessage
	}

	rows := [][]string{
		{"Target", "`" + report.TargetDir + "`"},
		{"Date", report.DateRun.Format("2006-01-02 15:04:05 MST")},
		{"Checks Run", strconv.Itoa(summary.ChecksRun)},
		{"Status", status},
	}
	if len(report.Excludes) > 0 {
		rows = append(rows, []string{"Excludes", strings.Join(report.Excludes, ", ")})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🟠 High", strconv.Itoa(summary.HighCount)},
			{"🟡 Medium", strconv.Itoa(summary.MediumCount)},
			{"🔵 Low", strconv.Itoa(summary.LowCount)},
			{"⚪ Info", strconv.Itoa(summary.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if summary.HasFindings() {
		w.writePieChart(md, summary)
	}

	if len(summary.MissingTools) > 0 {
		md.Warningf(
			"Missing tools were skipped: %s. Install them for full coverage.",
			strings.Join(summary.MissingTools, ", "),
		)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if summary.HighCount > 0 {
		chart.LabelAndIntValue("High", uint64(summary.HighCount))
	}
	if summary.MediumCount > 0 {
		chart.LabelAndIntValue("Medium", uint64(summary.MediumCount))
	}
	if summary.LowCount > 0 {
		chart.LabelAndIntValue("Low", uint64(summary.LowCount))
	}
	if summary.InfoCount > 0 {
		chart.LabelAndIntValue("Info", uint64(summary.InfoCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSections writes one section per check in execution order.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Checks")
	md.PlainText("")

	for _, result := range report.Results {
		md.H3(result.Tool)
		md.PlainText("")

		switch {
		case result.Skipped:
			md.PlainText("Skipped by configuration.")
		case !result.Available:
			md.PlainText("Not found on PATH; skipped.")
		case result.ErrorMessage != "":
			md.PlainText("Check failed: " + result.ErrorMessage)
		case !result.HasOutput():
			md.PlainText("No issues found.")
		default:
			if result.Output != "" {
				md.CodeBlocks(markdown.SyntaxHighlightText,
					strings.TrimRight(result.Output, "\n"))
			}
			if len(result.Findings) > 0 {
				lines := make([]string, 0, len(result.Findings))
				for _, f := range result.Findings {
					lines = append(lines, "`"+FormatFinding(f)+"`")
				}
				md.BulletList(lines...)
			}
		}
		md.PlainText("")
	}
}
