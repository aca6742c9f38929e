package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no target directory is specified.
	ErrNoTarget = errors.New("no target specified: provide a directory or use --batch")

	// ErrTargetNotDirectory is returned when the target path exists but
	// is not a directory, or does not exist at all.
	ErrTargetNotDirectory = errors.New("target is not a directory")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingCheckFilters is returned when both --skip and --only
	// are specified.
	ErrConflictingCheckFilters = errors.New("conflicting check filters: --skip and --only cannot be used together")

	// ErrBatchReportFile is returned when --batch is combined with
	// --output. A single report file cannot hold every target's report;
	// each run would overwrite the previous one.
	ErrBatchReportFile = errors.New("conflicting options: --batch and --output cannot be used together")

	// ErrInvalidLineLength is returned when the line length limit is not positive.
	ErrInvalidLineLength = errors.New("invalid max line length: must be positive")

	// ErrInvalidDuplicateLines is returned when the duplicate block
	// threshold is not positive.
	ErrInvalidDuplicateLines = errors.New("invalid min duplicate lines: must be positive")

	// ErrInvalidNesting is returned when the nesting depth limit is not positive.
	ErrInvalidNesting = errors.New("invalid max nesting: must be positive")

	// ErrInvalidBatchSize is returned when the batch concurrency is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")
)
