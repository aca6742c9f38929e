package model

import (
	"errors"
	"testing"
)

// TestNewRunReport verifies the initial state of a fresh run report.
func TestNewRunReport(t *testing.T) {
	t.Parallel()

	report := NewRunReport("/src/project", []string{"build", "generated"})

	t.Run("target directory is recorded", func(t *testing.T) {
		t.Parallel()
		if report.TargetDir != "/src/project" {
			t.Errorf("expected TargetDir '/src/project', got %q", report.TargetDir)
		}
	})

	t.Run("excludes are recorded", func(t *testing.T) {
		t.Parallel()
		if len(report.Excludes) != 2 {
			t.Fatalf("expected 2 excludes, got %d", len(report.Excludes))
		}
		if report.Excludes[0] != "build" || report.Excludes[1] != "generated" {
			t.Errorf("unexpected excludes: %v", report.Excludes)
		}
	})

	t.Run("date is set", func(t *testing.T) {
		t.Parallel()
		if report.DateRun.IsZero() {
			t.Error("expected DateRun to be set")
		}
	})

	t.Run("results start empty", func(t *testing.T) {
		t.Parallel()
		if len(report.Results) != 0 {
			t.Errorf("expected no results, got %d", len(report.Results))
		}
	})
}

// TestRunReportAddResult verifies ordering and lookup of check results.
func TestRunReportAddResult(t *testing.T) {
	t.Parallel()

	report := NewRunReport("/src", nil)
	report.AddResult(&CheckResult{Tool: "flake8", Available: true})
	report.AddResult(&CheckResult{Tool: "isort", Available: false})
	report.AddResult(&CheckResult{Tool: "unicode-scan", Available: true})

	t.Run("results keep execution order", func(t *testing.T) {
		t.Parallel()
		want := []string{"flake8", "isort", "unicode-scan"}
		for i, tool := range want {
			if report.Results[i].Tool != tool {
				t.Errorf("result %d: expected %q, got %q", i, tool, report.Results[i].Tool)
			}
		}
	})

	t.Run("ResultFor finds a recorded tool", func(t *testing.T) {
		t.Parallel()
		result := report.ResultFor("isort")
		if result == nil {
			t.Fatal("expected a result for isort")
		}
		if result.Available {
			t.Error("expected isort to be unavailable")
		}
	})

	t.Run("ResultFor returns nil for unknown tool", func(t *testing.T) {
		t.Parallel()
		if report.ResultFor("pylint") != nil {
			t.Error("expected nil for a tool that never ran")
		}
	})
}

// TestRunReportUnicodeFindings verifies that the strict-mode filter only
// selects Unicode punctuation findings.
func TestRunReportUnicodeFindings(t *testing.T) {
	t.Parallel()

	report := NewRunReport("/src", nil)
	report.AddResult(&CheckResult{
		Tool:      "unicode-scan",
		Available: true,
		Findings: []Finding{
			NewFinding("unicode_punctuation", "Non-ASCII punctuation", ""),
			NewFinding("unicode_punctuation", "Non-ASCII punctuation", ""),
		},
	})
	report.AddResult(&CheckResult{
		Tool:      "style-checks",
		Available: true,
		Findings: []Finding{
			NewFinding("trailing_whitespace", "Trailing whitespace", ""),
		},
	})

	if got := len(report.UnicodeFindings()); got != 2 {
		t.Errorf("expected 2 unicode findings, got %d", got)
	}
	if got := len(report.AllFindings()); got != 3 {
		t.Errorf("expected 3 findings in total, got %d", got)
	}
}

// TestCheckResultHasOutput covers the three ways a check can report.
func TestCheckResultHasOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result CheckResult
		want   bool
	}{
		{
			name:   "captured tool output counts",
			result: CheckResult{Tool: "flake8", Output: "a.py:1:1: E501 line too long"},
			want:   true,
		},
		{
			name:   "structured findings count",
			result: CheckResult{Tool: "unicode-scan", Findings: []Finding{{Type: "unicode_punctuation"}}},
			want:   true,
		},
		{
			name:   "silent check has no output",
			result: CheckResult{Tool: "vulture", ExitCode: 0},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.result.HasOutput(); got != tt.want {
				t.Errorf("HasOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestNewFinding verifies that severity metadata is attached from the
// central mapping.
func TestNewFinding(t *testing.T) {
	t.Parallel()

	t.Run("known type gets mapped severity", func(t *testing.T) {
		t.Parallel()
		f := NewFinding("unicode_punctuation", "Non-ASCII punctuation", "em dash")
		if f.Severity != SeverityHigh {
			t.Errorf("expected SeverityHigh, got %v", f.Severity)
		}
		if f.SeverityText != "HIGH" {
			t.Errorf("expected severity text HIGH, got %q", f.SeverityText)
		}
		if f.Impact == "" || f.Recommendation == "" {
			t.Error("expected impact and recommendation to be filled in")
		}
	})

	t.Run("unknown type falls back to info", func(t *testing.T) {
		t.Parallel()
		f := NewFinding("something_new", "title", "")
		if f.Severity != SeverityInfo {
			t.Errorf("expected SeverityInfo, got %v", f.Severity)
		}
	})
}

// TestSeverityString verifies all severity names.
func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "INFO"},
		{SeverityLow, "LOW"},
		{SeverityMedium, "MEDIUM"},
		{SeverityHigh, "HIGH"},
		{Severity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNewSummary verifies aggregation across mixed check results.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	report := NewRunReport("/src", nil)
	report.AddResult(&CheckResult{
		Tool:      "flake8",
		Available: true,
		ExitCode:  1,
		Output:    "a.py:1:1: E501 line too long",
	})
	report.AddResult(&CheckResult{Tool: "jscpd", Available: false})
	report.AddResult(&CheckResult{Tool: "radon", Skipped: true})
	report.AddResult(&CheckResult{
		Tool:      "unicode-scan",
		Available: true,
		Findings: []Finding{
			NewFinding("unicode_punctuation", "Non-ASCII punctuation", ""),
			NewFinding("trailing_whitespace", "Trailing whitespace", ""),
		},
	})
	report.Error = errors.New("boom")

	s := NewSummary(report)

	t.Run("severity counts", func(t *testing.T) {
		t.Parallel()
		if s.HighCount != 1 {
			t.Errorf("expected 1 high finding, got %d", s.HighCount)
		}
		if s.LowCount != 1 {
			t.Errorf("expected 1 low finding, got %d", s.LowCount)
		}
		if s.TotalFindings() != 2 {
			t.Errorf("expected 2 findings, got %d", s.TotalFindings())
		}
	})

	t.Run("missing tools", func(t *testing.T) {
		t.Parallel()
		if len(s.MissingTools) != 1 || s.MissingTools[0] != "jscpd" {
			t.Errorf("expected missing tools [jscpd], got %v", s.MissingTools)
		}
	})

	t.Run("skipped checks", func(t *testing.T) {
		t.Parallel()
		if len(s.SkippedChecks) != 1 || s.SkippedChecks[0] != "radon" {
			t.Errorf("expected skipped checks [radon], got %v", s.SkippedChecks)
		}
	})

	t.Run("checks run excludes missing and skipped", func(t *testing.T) {
		t.Parallel()
		if s.ChecksRun != 2 {
			t.Errorf("expected 2 checks run, got %d", s.ChecksRun)
		}
	})

	t.Run("tools with output", func(t *testing.T) {
		t.Parallel()
		if len(s.ToolsWithOutput) != 2 {
			t.Errorf("expected 2 tools with output, got %v", s.ToolsWithOutput)
		}
	})

	t.Run("error message propagated", func(t *testing.T) {
		t.Parallel()
		if s.Error != "boom" {
			t.Errorf("expected error 'boom', got %q", s.Error)
		}
	})

	t.Run("findings by severity filter", func(t *testing.T) {
		t.Parallel()
		high := s.GetFindingsBySeverity(SeverityHigh)
		if len(high) != 1 || high[0].Type != "unicode_punctuation" {
			t.Errorf("unexpected high findings: %v", high)
		}
	})
}
