package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/lintsweep/internal/config"
	"github.com/nao1215/lintsweep/internal/database"
	"github.com/nao1215/lintsweep/internal/model"
	"github.com/spf13/cobra"
)

// Constants for trend direction and summary messages.
const (
	trendDirectionWorsened  = "worsened"
	trendDirectionImproved  = "improved"
	trendDirectionUnchanged = "unchanged"
	noFindingsMessage       = "No findings"
)

// compareHistoryLimit caps how many stored runs are loaded for one
// comparison.
const compareHistoryLimit = 100

// NewCompareCmd creates the compare command.
// This command compares check results with historical data stored in the
// database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [directory]",
		Short: "Compare check results with historical data",
		Long: `Compare displays differences between the current and previous check
results for a target directory.

This command retrieves historical run data from the database and shows:
- New findings that appeared since the last run
- Resolved findings that are no longer present
- Changes in severity counts

The comparison requires at least two recorded runs for the target
directory. Use 'lintsweep check' to run the checks and record results.

Examples:
  # Compare latest two runs for a directory
  lintsweep compare ./src

  # List all run history for a directory
  lintsweep compare --list ./src

  # Compare with a specific historical run by ID
  lintsweep compare --with-run-id 5 ./src

  # Compare runs since a specific date
  lintsweep compare --since "2026-01-01" ./src

  # Output comparison in JSON format
  lintsweep compare --json ./src

  # List all checked directories in the database
  lintsweep compare --list-targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified directory")
	cmd.Flags().BoolP("list-targets", "L", false,
		"List all checked directories in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-targets flag first (requires database but no directory)
	listTargets, err := cmd.Flags().GetBool("list-targets")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-targets)
	var targetDir string
	if !listTargets {
		if len(args) == 0 {
			return errors.New("target directory is required (use --list-targets to see recorded directories)")
		}
		targetDir = filepath.Clean(args[0])
	}

	// Output format flags are validated up front as well
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-targets flag
	if listTargets {
		return listCheckedTargets(ctx, cmd, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, cmd, db, targetDir)
	}

	// Get comparison target flags
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	// Perform comparison
	return runComparison(ctx, cmd, db, targetDir, withRunID, sinceDate, jsonOutput, markdownOutput)
}

// listCheckedTargets lists all directories that have run records in the
// database.
func listCheckedTargets(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(targets) == 0 {
		fmt.Fprintln(out, "No checked directories found in the database.")
		fmt.Fprintln(out, "\nUse 'lintsweep check <directory>' to check a source tree.")
		return nil
	}

	fmt.Fprintf(out, "Checked directories (%d):\n\n", len(targets))
	for _, target := range targets {
		fmt.Fprintf(out, "  • %s\n", target)
	}
	fmt.Fprintln(out, "\nUse 'lintsweep compare --list <directory>' to see run history for a directory.")

	return nil
}

// listRunHistory lists all run records for a specific target directory.
func listRunHistory(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, targetDir string) error {
	runs, err := db.GetRunHistoryWithMetadata(ctx, targetDir)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(runs) == 0 {
		fmt.Fprintf(out, "No run history found for %s\n", targetDir)
		fmt.Fprintln(out, "\nUse 'lintsweep check' to check this directory.")
		return nil
	}

	fmt.Fprintf(out, "Run history for %s (%d runs):\n\n", targetDir, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %s\n", "ID", "Date", "Findings")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatSeveritySummary(meta.SeveritySummary),
		)
	}

	fmt.Fprintln(out, "\nUse 'lintsweep compare <directory>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'lintsweep compare --with-run-id <id> <directory>' to compare with a specific run.")

	return nil
}

// formatSeveritySummary formats the severity summary map into a
// human-readable string.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["high"]; v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := summary["medium"]; v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := summary["low"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}
	if v := summary["info"]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between run reports.
func runComparison(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, targetDir string, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	reports, err := db.GetRecentRunReports(ctx, targetDir, compareHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no run history found for %s", targetDir)
	}

	if len(reports) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(reports))
	}

	// Latest report is always the current one
	currentReport := reports[0]
	var previousReport *model.RunReport

	if withRunID > 0 {
		// Find the report with the specified ID
		previousReport, err = db.GetRunReportByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		// Validate that the run ID belongs to the same target
		if previousReport.TargetDir != targetDir {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, previousReport.TargetDir, targetDir)
		}
	} else if sinceDate != "" {
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Reports are sorted newest first, so iterate in reverse to find
		// the oldest run at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.DateRun.After(parsedDate) || r.DateRun.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}
		if previousReport == currentReport {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous run
		previousReport = reports[1]
	}

	comparison := compareReports(previousReport, currentReport)

	if jsonOutput {
		return outputComparisonJSON(cmd, comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(cmd, comparison)
	}
	return outputComparisonText(cmd, comparison)
}

// ComparisonResult holds the result of comparing two run reports.
type ComparisonResult struct {
	// TargetDir is the checked directory.
	TargetDir string `json:"target_dir"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunSnapshot `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunSnapshot `json:"current_run"`

	// NewFindings contains findings that are new in the current run.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings that were in the previous run
	// but not in the current one.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings that remain unchanged.
	UnchangedCount int `json:"unchanged_count"`

	// Trend describes the overall change in findings.
	Trend Trend `json:"trend"`
}

// RunSnapshot contains metadata about one run for comparison display.
type RunSnapshot struct {
	// DateRun is when the run was performed.
	DateRun time.Time `json:"date_run"`

	// TotalFindings is the total number of findings in this run.
	TotalFindings int `json:"total_findings"`

	// HighCount is the number of high severity findings.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity findings.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity findings.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`

	// MissingTools lists external tools that were not found on PATH.
	MissingTools []string `json:"missing_tools,omitempty"`
}

// Trend describes the change in findings between runs.
type Trend struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// HighDelta is the change in high severity findings count.
	HighDelta int `json:"high_delta"`

	// MediumDelta is the change in medium severity findings count.
	MediumDelta int `json:"medium_delta"`

	// LowDelta is the change in low severity findings count.
	LowDelta int `json:"low_delta"`

	// InfoDelta is the change in informational findings count.
	InfoDelta int `json:"info_delta"`
}

// compareReports compares two run reports and generates a comparison
// result.
func compareReports(previous, current *model.RunReport) *ComparisonResult {
	result := &ComparisonResult{
		TargetDir:   current.TargetDir,
		PreviousRun: snapshotOf(previous),
		CurrentRun:  snapshotOf(current),
	}

	// Build finding maps for comparison
	previousFindings := make(map[string]model.Finding)
	currentFindings := make(map[string]model.Finding)

	for _, f := range previous.AllFindings() {
		previousFindings[findingKey(f)] = f
	}
	for _, f := range current.AllFindings() {
		currentFindings[findingKey(f)] = f
	}

	// New findings: in current but not in previous
	for key, finding := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, finding)
		}
	}

	// Resolved findings: in previous but not in current
	for key, finding := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, finding)
		} else {
			result.UnchangedCount++
		}
	}

	result.Trend = calculateTrend(result.PreviousRun, result.CurrentRun)

	return result
}

// snapshotOf extracts comparison metadata from a run report.
func snapshotOf(report *model.RunReport) RunSnapshot {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	return RunSnapshot{
		DateRun:       report.DateRun,
		TotalFindings: summary.TotalFindings(),
		HighCount:     summary.HighCount,
		MediumCount:   summary.MediumCount,
		LowCount:      summary.LowCount,
		InfoCount:     summary.InfoCount,
		MissingTools:  summary.MissingTools,
	}
}

// findingKey generates a unique key for a finding for comparison purposes.
func findingKey(f model.Finding) string {
	return f.Type + "|" + f.File + "|" + strconv.Itoa(f.Line) + "|" + f.Value
}

// calculateTrend calculates the change in findings between two runs.
func calculateTrend(previous, current RunSnapshot) Trend {
	trend := Trend{
		HighDelta:   current.HighCount - previous.HighCount,
		MediumDelta: current.MediumCount - previous.MediumCount,
		LowDelta:    current.LowCount - previous.LowCount,
		InfoDelta:   current.InfoCount - previous.InfoCount,
	}

	// Determine overall direction based on weighted score.
	// High severity changes have more weight.
	previousScore := previous.HighCount*50 + previous.MediumCount*10 + previous.LowCount*5 + previous.InfoCount
	currentScore := current.HighCount*50 + current.MediumCount*10 + current.LowCount*5 + current.InfoCount

	if currentScore < previousScore {
		trend.Direction = trendDirectionImproved
	} else if currentScore > previousScore {
		trend.Direction = trendDirectionWorsened
	} else {
		trend.Direction = trendDirectionUnchanged
	}

	return trend
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(cmd *cobra.Command, result *ComparisonResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown
// format.
func outputComparisonMarkdown(cmd *cobra.Command, result *ComparisonResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "# Run Comparison: %s\n\n", result.TargetDir)

	fmt.Fprintln(out, "## Summary")
	fmt.Fprintf(out, "\n**Trend:** %s\n\n", formatTrendDirection(result.Trend.Direction))

	fmt.Fprintln(out, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(out, "|--------|----------|---------|--------|")
	fmt.Fprintf(out, "| Date | %s | %s | - |\n",
		result.PreviousRun.DateRun.Format("2006-01-02 15:04"),
		result.CurrentRun.DateRun.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "| High | %d | %d | %s |\n",
		result.PreviousRun.HighCount,
		result.CurrentRun.HighCount,
		formatDelta(result.Trend.HighDelta))
	fmt.Fprintf(out, "| Medium | %d | %d | %s |\n",
		result.PreviousRun.MediumCount,
		result.CurrentRun.MediumCount,
		formatDelta(result.Trend.MediumDelta))
	fmt.Fprintf(out, "| Low | %d | %d | %s |\n",
		result.PreviousRun.LowCount,
		result.CurrentRun.LowCount,
		formatDelta(result.Trend.LowDelta))
	fmt.Fprintf(out, "| Info | %d | %d | %s |\n",
		result.PreviousRun.InfoCount,
		result.CurrentRun.InfoCount,
		formatDelta(result.Trend.InfoDelta))
	fmt.Fprintf(out, "| **Total** | **%d** | **%d** | **%s** |\n",
		result.PreviousRun.TotalFindings,
		result.CurrentRun.TotalFindings,
		formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings))

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "- **[%s]** %s: %s\n", f.SeverityText, f.Title, f.Value)
			if f.File != "" {
				fmt.Fprintf(out, "  - Location: `%s`\n", findingLocation(f))
			}
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\n## Resolved Findings (%d)\n\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "- ~~**[%s]** %s: %s~~\n", f.SeverityText, f.Title, f.Value)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable
// text format.
func outputComparisonText(cmd *cobra.Command, result *ComparisonResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Run Comparison: %s\n", result.TargetDir)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nTrend: %s\n", formatTrendDirection(result.Trend.Direction))

	fmt.Fprintf(out, "\nPrevious run: %s\n", result.PreviousRun.DateRun.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current run:  %s\n", result.CurrentRun.DateRun.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nFindings Summary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "High",
		result.PreviousRun.HighCount, result.CurrentRun.HighCount,
		formatDelta(result.Trend.HighDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Medium",
		result.PreviousRun.MediumCount, result.CurrentRun.MediumCount,
		formatDelta(result.Trend.MediumDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Low",
		result.PreviousRun.LowCount, result.CurrentRun.LowCount,
		formatDelta(result.Trend.LowDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Info",
		result.PreviousRun.InfoCount, result.CurrentRun.InfoCount,
		formatDelta(result.Trend.InfoDelta))
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousRun.TotalFindings, result.CurrentRun.TotalFindings,
		formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings))

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "  [+] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
			if f.File != "" {
				fmt.Fprintf(out, "      Location: %s\n", findingLocation(f))
			}
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "  [-] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// findingLocation formats a finding's file and line for display.
func findingLocation(f model.Finding) string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

// formatTrendDirection formats the trend direction for display.
func formatTrendDirection(direction string) string {
	switch direction {
	case trendDirectionImproved:
		return "IMPROVED (findings decreased)"
	case trendDirectionWorsened:
		return "WORSENED (findings increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
