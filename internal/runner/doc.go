// Package runner invokes external analysis tools as subprocesses and
// normalizes their outcomes. Every tool invocation produces the same
// record: whether the binary was found, its exit status, and its captured
// output. A missing tool is an informational result, never an error.
package runner
