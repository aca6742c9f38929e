package model

// Severity represents the weight of a finding.
// It lets the report writers group and color findings consistently
// regardless of which tool or built-in check produced them.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct quality
	// impact. Finding types outside the mapping default to this level.
	SeverityInfo Severity = iota

	// SeverityLow indicates cosmetic issues.
	// Examples: trailing whitespace, a line slightly over the length limit.
	SeverityLow

	// SeverityMedium indicates issues that tend to cause review friction.
	// Examples: duplicate imports, inconsistent indentation.
	SeverityMedium

	// SeverityHigh indicates issues that regularly cause real bugs.
	// Examples: non-ASCII punctuation masquerading as operators,
	// blocks nested past the configured depth.
	SeverityHigh
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// FindingInfo contains metadata about a finding type including severity,
// impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata. It covers
// exactly the types the built-in checks produce; external tools report
// through their captured output rather than structured findings.
//
// Design decision: We use a map rather than embedding severity in each
// check because it gives a single source of truth and allows tuning the
// weights without touching check logic.
var findingInfoMapping = map[string]FindingInfo{
	// HIGH - regularly causes real bugs
	"unicode_punctuation": {
		Severity:       SeverityHigh,
		Impact:         "A non-ASCII punctuation or symbol character visually mimics an ASCII one and can silently change program behavior.",
		Recommendation: "Replace the character with its plain ASCII equivalent (e.g. '-' instead of an em dash).",
	},
	"nesting_depth": {
		Severity:       SeverityHigh,
		Impact:         "Deep nesting hides control flow and invites off-by-one indentation mistakes.",
		Recommendation: "Use early returns or extract the inner blocks into helper functions.",
	},

	// MEDIUM - causes review friction
	"duplicate_import": {
		Severity:       SeverityMedium,
		Impact:         "The same module is imported more than once, suggesting a careless merge or copy-paste.",
		Recommendation: "Keep a single import per module at the top of the file.",
	},
	"mixed_indentation": {
		Severity:       SeverityMedium,
		Impact:         "Spaces and tabs mixed within one indent render differently across editors.",
		Recommendation: "Re-indent the line using the file's indentation style.",
	},
	"inconsistent_indentation": {
		Severity:       SeverityMedium,
		Impact:         "Switching between space and tab indentation within a file breaks tooling that infers the indent unit.",
		Recommendation: "Convert the file to a single indentation style.",
	},
	// LOW - cosmetic
	"trailing_whitespace": {
		Severity:       SeverityLow,
		Impact:         "Trailing whitespace shows up as churn in diffs.",
		Recommendation: "Strip trailing whitespace; most editors can do this on save.",
	},
	"blank_line_whitespace": {
		Severity:       SeverityLow,
		Impact:         "Whitespace on an otherwise empty line shows up as churn in diffs.",
		Recommendation: "Make blank lines truly empty.",
	},
	"line_length": {
		Severity:       SeverityLow,
		Impact:         "Overlong lines force horizontal scrolling in reviews and terminals.",
		Recommendation: "Wrap the line below the configured limit.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess its impact.",
	}
}
