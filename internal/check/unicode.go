package check

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/nao1215/lintsweep/internal/model"
	"golang.org/x/text/unicode/runenames"
)

// UnicodeCheck detects non-ASCII punctuation and symbol characters in
// source text. A typographic dash or curly quote pasted from a document
// visually mimics its ASCII counterpart and causes subtle bugs, so every
// occurrence is reported with its code point.
//
// Design decision: We classify by Unicode general category rather than a
// fixed character list because the set of look-alike characters is large
// (dashes, quotes, spaces, math symbols) and a category check covers all
// of them without maintenance.
type UnicodeCheck struct{}

// NewUnicodeCheck creates a new Unicode punctuation check.
func NewUnicodeCheck() *UnicodeCheck {
	return &UnicodeCheck{}
}

// Name returns the check name.
func (c *UnicodeCheck) Name() string {
	return "unicode-scan"
}

// Check scans every line of every corpus file. It produces one finding
// per offending line, carrying the full line text and the list of
// offending code points rendered as U+XXXX.
func (c *UnicodeCheck) Check(ctx context.Context, corpus *Corpus) ([]model.Finding, error) {
	var findings []model.Finding

	for _, src := range corpus.Files {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		for i, line := range src.Lines {
			codepoints, names := offendingRunes(line)
			if len(codepoints) == 0 {
				continue
			}

			f := model.NewFinding("unicode_punctuation",
				"Non-ASCII punctuation",
				strings.Join(names, "; "),
			)
			f.File = src.Path
			f.Line = i + 1
			f.Text = line
			f.Value = strings.Join(codepoints, ", ")
			findings = append(findings, f)
		}
	}

	return findings, nil
}

// offendingRunes returns the U+XXXX renderings and the named forms
// (e.g. "U+2014 EM DASH") of all non-ASCII punctuation and symbol runes
// in the line, in order of appearance.
func offendingRunes(line string) (codepoints, names []string) {
	for _, r := range line {
		if r <= 0x7F {
			continue
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			continue
		}
		cp := fmt.Sprintf("U+%04X", r)
		codepoints = append(codepoints, cp)
		names = append(names, cp+" "+runenames.Name(r))
	}
	return codepoints, names
}
