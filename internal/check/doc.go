// Package check implements the built-in source checks that are not
// delegated to external tools: the Unicode punctuation scan, the
// duplicate-import scan, and the whitespace/indentation/nesting style
// checks. All checks operate on a Corpus of loaded source files and
// report through model.Finding.
package check
