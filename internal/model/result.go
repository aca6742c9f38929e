package model

import "time"

// CheckResult is the uniform record produced by every pipeline step,
// whether it wraps an external tool or a built-in check.
//
// Design decision: Every check reports through the same structure instead
// of printing ad hoc text. This lets the writers render all checks
// uniformly and lets the history database diff runs without caring which
// tool produced what.
type CheckResult struct {
	// Tool is the check identifier (e.g. "flake8", "unicode-scan").
	Tool string `json:"tool"`

	// Available is false when the external tool was not found on PATH.
	// Built-in checks are always available.
	Available bool `json:"available"`

	// Skipped is true when the check was filtered out via --skip/--only
	// or the configuration file.
	Skipped bool `json:"skipped"`

	// ExitCode is the tool's exit status. Zero for built-in checks that
	// completed, and for tools that reported nothing.
	ExitCode int `json:"exit_code"`

	// Output is the captured combined stdout and stderr of the tool.
	// Built-in checks leave this empty and report through Findings.
	Output string `json:"output,omitempty"`

	// Findings contains structured findings. External tools that only
	// produce free-form text leave this empty and report through Output.
	Findings []Finding `json:"findings,omitempty"`

	// Err holds a invocation-level failure (not tool findings), e.g. the
	// process could not be started. Excluded from JSON; see ErrorMessage.
	Err error `json:"-"`

	// ErrorMessage is the string form of Err for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration"`
}

// HasOutput reports whether the check produced any visible result.
func (r *CheckResult) HasOutput() bool {
	return r.Output != "" || len(r.Findings) > 0
}

// Failed reports whether the underlying tool exited non-zero.
// For most tools a non-zero exit means findings, not a malfunction.
func (r *CheckResult) Failed() bool {
	return r.ExitCode != 0
}

// Finding represents a single structured finding.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to the findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Severity is the weight of the finding.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Impact explains why this finding matters.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address this finding.
	Recommendation string `json:"recommendation,omitempty"`

	// File is the path of the offending file, relative to the target.
	File string `json:"file,omitempty"`

	// Line is the 1-based line number, or zero when not line-scoped.
	Line int `json:"line,omitempty"`

	// Text is the full offending line, when line-scoped.
	Text string `json:"text,omitempty"`

	// Value is the specific value found, e.g. "U+2014" or a module name.
	Value string `json:"value,omitempty"`
}

// NewFinding creates a Finding of the given type with severity, impact,
// and recommendation filled in from the central mapping.
func NewFinding(findingType, title, description string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
	}
}

// RunReport is the top-level result of one lintsweep run against a target
// directory. It accumulates the ordered sequence of check results.
type RunReport struct {
	// TargetDir is the directory that was checked.
	TargetDir string `json:"target_dir"`

	// DateRun is the timestamp when the run started.
	DateRun time.Time `json:"date_run"`

	// Excludes lists the directory names excluded from all checks.
	Excludes []string `json:"excludes,omitempty"`

	// Results holds the check results in execution order.
	Results []*CheckResult `json:"results"`

	// PerformedChecks lists the names of checks that actually ran.
	PerformedChecks []string `json:"performed_checks,omitempty"`

	// Summary contains the aggregated counts for human-readable output.
	Summary *Summary `json:"summary,omitempty"`

	// Error contains any run-level error. Excluded from JSON.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRunReport creates a new report for the given target directory.
func NewRunReport(targetDir string, excludes []string) *RunReport {
	return &RunReport{
		TargetDir: targetDir,
		DateRun:   time.Now(),
		Excludes:  excludes,
		Results:   make([]*CheckResult, 0),
	}
}

// AddResult appends a check result to the report in execution order.
func (r *RunReport) AddResult(result *CheckResult) {
	r.Results = append(r.Results, result)
}

// ResultFor returns the result for the named check, or nil if absent.
func (r *RunReport) ResultFor(tool string) *CheckResult {
	for _, result := range r.Results {
		if result.Tool == tool {
			return result
		}
	}
	return nil
}

// AllFindings returns the structured findings of all checks, in order.
func (r *RunReport) AllFindings() []Finding {
	var findings []Finding
	for _, result := range r.Results {
		findings = append(findings, result.Findings...)
	}
	return findings
}

// UnicodeFindings returns the findings of the Unicode punctuation check.
// The strict mode of the check command exits non-zero when this is non-empty.
func (r *RunReport) UnicodeFindings() []Finding {
	var findings []Finding
	for _, f := range r.AllFindings() {
		if f.Type == "unicode_punctuation" {
			findings = append(findings, f)
		}
	}
	return findings
}
