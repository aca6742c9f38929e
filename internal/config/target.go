package config

// TargetConfig holds per-target overrides from the configuration file.
// This allows customizing check behavior for individual source trees.
type TargetConfig struct {
	// Excludes lists directory names excluded from every check.
	Excludes []string `yaml:"excludes,omitempty"`

	// ExcludeFiles lists file-name patterns the built-in checks skip.
	ExcludeFiles []string `yaml:"excludeFiles,omitempty"`

	// Skip lists check names to leave out of the pipeline.
	Skip []string `yaml:"skip,omitempty"`

	// FailOnUnicode, when set, overrides the global strictness of the
	// Unicode punctuation check. A pointer distinguishes "unset" from
	// an explicit false.
	FailOnUnicode *bool `yaml:"failOnUnicode,omitempty"`

	// MaxLineLength overrides the global line length limit.
	// Zero means use the global value.
	MaxLineLength int `yaml:"maxLineLength,omitempty"`

	// MinDuplicateLines overrides the jscpd duplicated-block threshold.
	MinDuplicateLines int `yaml:"minDuplicateLines,omitempty"`

	// MaxComplexity overrides the lizard complexity threshold.
	MaxComplexity int `yaml:"maxComplexity,omitempty"`

	// MaxNesting overrides the built-in nesting depth limit.
	MaxNesting int `yaml:"maxNesting,omitempty"`
}

// File represents the structure of the .lintsweep.yaml configuration file.
type File struct {
	// Targets maps directory paths to their target-specific overrides.
	// Keys should match the path given on the command line after
	// filepath.Clean.
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`

	// Defaults contains overrides applied to every target unless the
	// target-specific block overrides them again.
	Defaults TargetConfig `yaml:"defaults,omitempty"`
}

// GetTargetConfig returns the merged configuration for a target directory.
// Defaults come first, then the target-specific block.
func (cf *File) GetTargetConfig(targetDir string) TargetConfig {
	result := cf.Defaults

	if target, ok := cf.Targets[targetDir]; ok {
		result.Excludes = append(result.Excludes, target.Excludes...)
		result.ExcludeFiles = append(result.ExcludeFiles, target.ExcludeFiles...)
		result.Skip = append(result.Skip, target.Skip...)
		if target.FailOnUnicode != nil {
			result.FailOnUnicode = target.FailOnUnicode
		}
		if target.MaxLineLength > 0 {
			result.MaxLineLength = target.MaxLineLength
		}
		if target.MinDuplicateLines > 0 {
			result.MinDuplicateLines = target.MinDuplicateLines
		}
		if target.MaxComplexity > 0 {
			result.MaxComplexity = target.MaxComplexity
		}
		if target.MaxNesting > 0 {
			result.MaxNesting = target.MaxNesting
		}
	}

	return result
}
