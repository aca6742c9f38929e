// Package main provides the entry point for the lintsweep CLI.
//
// Lintsweep sweeps a Python source tree with a fixed suite of static
// analysis tools (flake8, isort, jscpd, pylint, lizard, vulture, radon)
// plus a handful of built-in checks, and renders the findings as a
// uniform report.
//
// Usage:
//
//	lintsweep check <directory> [exclude-dir...]
//	lintsweep clip <directory>
//
// See --help for all available options.
package main

// main is the entry point for lintsweep.
func main() {
	Execute()
}
