package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The thresholds mirror the fixed arguments the original shell wrappers
// passed to the analysis tools.
const (
	// DefaultMaxLineLength is the maximum allowed line length.
	// 120 matches the flake8 configuration; it is generous enough for
	// descriptive names while still fitting side-by-side diffs.
	DefaultMaxLineLength = 120

	// DefaultMinDuplicateLines is the minimum duplicated block size, in
	// lines, before jscpd reports it. Smaller blocks are usually
	// incidental similarity rather than real duplication.
	DefaultMinDuplicateLines = 20

	// DefaultMaxComplexity is the cyclomatic complexity ceiling passed to
	// lizard. Functions above this are flagged, not failed.
	DefaultMaxComplexity = 15

	// DefaultMaxFunctionLines is the function length ceiling passed to
	// lizard.
	DefaultMaxFunctionLines = 120

	// DefaultMaxNesting is the maximum indentation depth allowed by the
	// built-in style check. Four levels is deep enough for ordinary
	// control flow; deeper code almost always wants a helper function.
	DefaultMaxNesting = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "lintsweep"
)

// DefaultExcludeFiles lists file-name patterns skipped by the built-in
// checks regardless of content. Generated files are not worth linting and
// init files are frequently empty by convention.
var DefaultExcludeFiles = []string{
	"__init__.py",
	"*_pb2.py",
	"*_pb2_grpc.py",
}

// Config holds all settings for a lintsweep run.
// This struct is populated from CLI flags and the optional configuration
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g. ToolConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without benefit.
type Config struct {
	// TargetDir is the directory to check. Required; must exist.
	TargetDir string

	// Excludes lists directory names excluded from every check.
	// Populated from the positional arguments after the target directory
	// and merged with the configuration file.
	Excludes []string

	// ExcludeFiles lists file-name patterns the built-in checks skip
	// entirely, e.g. generated protobuf modules.
	ExcludeFiles []string

	// MaxLineLength is the line length limit for flake8 and the built-in
	// style check.
	MaxLineLength int

	// MinDuplicateLines is the duplicated-block threshold for jscpd.
	MinDuplicateLines int

	// MaxComplexity is the cyclomatic complexity threshold for lizard.
	MaxComplexity int

	// MaxFunctionLines is the function length threshold for lizard.
	MaxFunctionLines int

	// MaxNesting is the nesting depth limit for the built-in style check.
	MaxNesting int

	// FailOnUnicode makes the check command exit non-zero when the
	// Unicode punctuation scan finds anything. The historical scripts
	// disagreed on this; it is now a single explicit setting.
	FailOnUnicode bool

	// Skip lists check names to leave out of the pipeline.
	Skip []string

	// Only restricts the pipeline to the named checks.
	// Mutually exclusive with Skip.
	Only []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// NoColor disables ANSI colors in the console report.
	NoColor bool

	// JSONReport enables JSON report output instead of the console format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .lintsweep.yaml in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds the parsed configuration file, if one was found.
	FileConfig *File

	// SaveToDB indicates whether to record the run in the history database.
	SaveToDB bool

	// DBDir is the directory for the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// BatchFile is a file listing one target directory per line.
	// When set, all listed targets are checked concurrently.
	BatchFile string

	// BatchSize is the number of concurrent target pipelines in batch mode.
	BatchSize int
}

// NewConfig creates a new Config with default values.
// Users override specific values after creation from flags and file.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (thresholds, patterns).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		ExcludeFiles:      append([]string(nil), DefaultExcludeFiles...),
		MaxLineLength:     DefaultMaxLineLength,
		MinDuplicateLines: DefaultMinDuplicateLines,
		MaxComplexity:     DefaultMaxComplexity,
		MaxFunctionLines:  DefaultMaxFunctionLines,
		MaxNesting:        DefaultMaxNesting,
		BatchSize:         4,
		SaveToDB:          true,
	}
}

// XDGDataDir returns the XDG data directory for lintsweep.
// On Linux: ~/.local/share/lintsweep
// On macOS: ~/Library/Application Support/lintsweep
// On Windows: %LOCALAPPDATA%\lintsweep
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for lintsweep.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for lintsweep.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// The first error found is returned; fixing one error often makes the
// others irrelevant.
func (c *Config) Validate() error {
	if c.TargetDir == "" && c.BatchFile == "" {
		return ErrNoTarget
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.BatchFile != "" && c.ReportFile != "" {
		return ErrBatchReportFile
	}

	if len(c.Skip) > 0 && len(c.Only) > 0 {
		return ErrConflictingCheckFilters
	}

	if c.MaxLineLength <= 0 {
		return ErrInvalidLineLength
	}

	if c.MinDuplicateLines <= 0 {
		return ErrInvalidDuplicateLines
	}

	if c.MaxNesting <= 0 {
		return ErrInvalidNesting
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	return nil
}

// ApplyTarget merges the per-target overrides from the configuration file
// into the config. Flag values already set keep precedence for scalar
// thresholds only when the file leaves them at zero.
func (c *Config) ApplyTarget(target TargetConfig) {
	c.Excludes = appendUnique(c.Excludes, target.Excludes...)
	c.ExcludeFiles = appendUnique(c.ExcludeFiles, target.ExcludeFiles...)
	c.Skip = appendUnique(c.Skip, target.Skip...)

	if target.FailOnUnicode != nil {
		c.FailOnUnicode = *target.FailOnUnicode
	}
	if target.MaxLineLength > 0 {
		c.MaxLineLength = target.MaxLineLength
	}
	if target.MinDuplicateLines > 0 {
		c.MinDuplicateLines = target.MinDuplicateLines
	}
	if target.MaxComplexity > 0 {
		c.MaxComplexity = target.MaxComplexity
	}
	if target.MaxNesting > 0 {
		c.MaxNesting = target.MaxNesting
	}
}

// appendUnique appends values to dst, skipping those already present.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
