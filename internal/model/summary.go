package model

import "time"

// Summary is a condensed, human-readable view of a run.
// It extracts the counts the console writer and the compare command need
// without dragging along the full captured tool output.
//
// Design decision: We keep a separate summary struct rather than printing
// parts of RunReport directly because it can be serialized to JSON on its
// own and stored compactly in the history database.
type Summary struct {
	// TargetDir is the checked directory.
	TargetDir string `json:"target_dir"`

	// DateRun is when the run started.
	DateRun time.Time `json:"date_run"`

	// === Severity counts ===

	// HighCount is the number of high severity findings.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity findings.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity findings.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`

	// === Tool availability ===

	// MissingTools lists external tools that were not found on PATH.
	MissingTools []string `json:"missing_tools,omitempty"`

	// SkippedChecks lists checks filtered out by configuration.
	SkippedChecks []string `json:"skipped_checks,omitempty"`

	// ToolsWithOutput lists checks that reported anything.
	ToolsWithOutput []string `json:"tools_with_output,omitempty"`

	// === Findings ===

	// Findings contains all structured findings across checks.
	Findings []Finding `json:"findings,omitempty"`

	// ChecksRun is the number of checks that actually executed.
	ChecksRun int `json:"checks_run"`

	// Error contains any run-level error message.
	Error string `json:"error,omitempty"`
}

// NewSummary creates a Summary from a RunReport.
func NewSummary(report *RunReport) *Summary {
	s := &Summary{
		TargetDir: report.TargetDir,
		DateRun:   report.DateRun,
	}

	if report.Error != nil {
		s.Error = report.Error.Error()
	}

	for _, result := range report.Results {
		if result.Skipped {
			s.SkippedChecks = append(s.SkippedChecks, result.Tool)
			continue
		}
		if !result.Available {
			s.MissingTools = append(s.MissingTools, result.Tool)
			continue
		}
		s.ChecksRun++
		if result.HasOutput() {
			s.ToolsWithOutput = append(s.ToolsWithOutput, result.Tool)
		}
		s.Findings = append(s.Findings, result.Findings...)
	}

	s.countBySeverity()
	return s
}

// countBySeverity counts findings by severity level.
func (s *Summary) countBySeverity() {
	for _, f := range s.Findings {
		switch f.Severity {
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		case SeverityInfo:
			s.InfoCount++
		}
	}
}

// TotalFindings returns the total number of structured findings.
func (s *Summary) TotalFindings() int {
	return len(s.Findings)
}

// HasFindings returns true if there are any structured findings.
func (s *Summary) HasFindings() bool {
	return len(s.Findings) > 0
}

// GetFindingsBySeverity returns findings filtered by severity.
func (s *Summary) GetFindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range s.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}
