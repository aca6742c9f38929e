// Package main provides the entry point for the lintsweep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for lintsweep.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lintsweep",
		Short: "Static analysis sweep for Python source trees",
		Long: `Lintsweep runs a fixed suite of static analysis tools against a Python
source tree and renders their findings as one uniform report.

External tools (flake8, isort, jscpd, pylint, lizard, vulture, radon) are
invoked when present on PATH; missing tools are reported and skipped
without failing the run. Built-in checks cover Unicode punctuation,
duplicate imports, and basic style rules.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewClipCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
