// Package report renders run reports in multiple output formats.
//
// Three writers are provided: a colorized console writer for interactive
// use, a JSON writer for tool integration, and a Markdown writer for
// documentation and sharing. All writers implement the same interface so
// the CLI can fan out a single run to several destinations at once.
package report
