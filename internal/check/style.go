package check

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/lintsweep/internal/model"
)

// StyleCheck implements the whitespace and layout rules that none of the
// wrapped tools cover in their fixed configuration: indentation
// consistency, trailing whitespace, nesting depth, and line length.
type StyleCheck struct {
	// maxNesting is the maximum allowed indentation depth.
	maxNesting int

	// maxLineLength is the maximum allowed line length in runes.
	maxLineLength int
}

// StyleOption configures a StyleCheck.
type StyleOption func(*StyleCheck)

// WithMaxNesting sets the nesting depth limit.
func WithMaxNesting(depth int) StyleOption {
	return func(c *StyleCheck) {
		if depth > 0 {
			c.maxNesting = depth
		}
	}
}

// WithMaxLineLength sets the line length limit.
func WithMaxLineLength(length int) StyleOption {
	return func(c *StyleCheck) {
		if length > 0 {
			c.maxLineLength = length
		}
	}
}

// NewStyleCheck creates a StyleCheck with the given options.
func NewStyleCheck(opts ...StyleOption) *StyleCheck {
	c := &StyleCheck{
		maxNesting:    4,
		maxLineLength: 120,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the check name.
func (c *StyleCheck) Name() string {
	return "style-checks"
}

// Check runs all style rules over every corpus file.
func (c *StyleCheck) Check(ctx context.Context, corpus *Corpus) ([]model.Finding, error) {
	var findings []model.Finding

	for _, src := range corpus.Files {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		findings = append(findings, c.checkIndentation(src)...)
		findings = append(findings, c.checkWhitespace(src)...)
		findings = append(findings, c.checkNesting(src)...)
		findings = append(findings, c.checkLineLength(src)...)
	}

	return findings, nil
}

// indentOf returns the leading whitespace of a line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// checkIndentation flags mixed space/tab indents and files that switch
// indentation style partway through. The first indented line fixes the
// expected style for the rest of the file.
func (c *StyleCheck) checkIndentation(src *Source) []model.Finding {
	var findings []model.Finding
	initialStyle := ""

	for i, line := range src.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentOf(line)
		if indent == "" {
			continue
		}

		hasSpace := strings.Contains(indent, " ")
		hasTab := strings.Contains(indent, "\t")

		if hasSpace && hasTab {
			f := model.NewFinding("mixed_indentation",
				"Mixed indentation",
				"spaces and tabs mixed within one indent",
			)
			f.File = src.Path
			f.Line = i + 1
			f.Text = line
			findings = append(findings, f)
			continue
		}

		style := "tabs"
		if hasSpace {
			style = "spaces"
		}
		if initialStyle == "" {
			initialStyle = style
			continue
		}
		if style != initialStyle {
			f := model.NewFinding("inconsistent_indentation",
				"Inconsistent indentation",
				fmt.Sprintf("expected %s, got %s", initialStyle, style),
			)
			f.File = src.Path
			f.Line = i + 1
			f.Text = line
			findings = append(findings, f)
		}
	}

	return findings
}

// checkWhitespace flags trailing whitespace and whitespace-only blank lines.
func (c *StyleCheck) checkWhitespace(src *Source) []model.Finding {
	var findings []model.Finding

	for i, line := range src.Lines {
		if strings.TrimSpace(line) == "" {
			if line != "" {
				f := model.NewFinding("blank_line_whitespace",
					"Whitespace on blank line",
					"",
				)
				f.File = src.Path
				f.Line = i + 1
				findings = append(findings, f)
			}
			continue
		}

		if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
			f := model.NewFinding("trailing_whitespace",
				"Trailing whitespace",
				"",
			)
			f.File = src.Path
			f.Line = i + 1
			f.Text = line
			findings = append(findings, f)
		}
	}

	return findings
}

// checkNesting flags lines indented deeper than the configured maximum.
// For space-indented files the indent unit is inferred as the smallest
// space indent in the file; tab-indented lines count one level per tab.
func (c *StyleCheck) checkNesting(src *Source) []model.Finding {
	// First pass: infer the space indent unit.
	unitSpaces := 0
	for _, line := range src.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentOf(line)
		if indent == "" || strings.Contains(indent, "\t") {
			continue
		}
		if unitSpaces == 0 || len(indent) < unitSpaces {
			unitSpaces = len(indent)
		}
	}

	var findings []model.Finding
	for i, line := range src.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentOf(line)
		if indent == "" {
			continue
		}

		var level int
		switch {
		case strings.Contains(indent, "\t") && !strings.Contains(indent, " "):
			level = strings.Count(indent, "\t")
		case !strings.Contains(indent, "\t") && unitSpaces > 0:
			level = len(indent) / unitSpaces
		default:
			continue
		}

		if level > c.maxNesting {
			f := model.NewFinding("nesting_depth",
				"Nesting too deep",
				fmt.Sprintf("nesting level %d exceeds maximum of %d", level, c.maxNesting),
			)
			f.File = src.Path
			f.Line = i + 1
			f.Text = line
			f.Value = fmt.Sprintf("%d", level)
			findings = append(findings, f)
		}
	}

	return findings
}

// checkLineLength flags lines longer than the configured maximum.
// Length is measured in runes so multibyte characters count once.
func (c *StyleCheck) checkLineLength(src *Source) []model.Finding {
	var findings []model.Finding

	for i, line := range src.Lines {
		length := utf8.RuneCountInString(line)
		if length <= c.maxLineLength {
			continue
		}
		f := model.NewFinding("line_length",
			"Line too long",
			fmt.Sprintf("line length %d exceeds maximum of %d", length, c.maxLineLength),
		)
		f.File = src.Path
		f.Line = i + 1
		f.Value = fmt.Sprintf("%d", length)
		findings = append(findings, f)
	}

	return findings
}
