package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nao1215/lintsweep/internal/clipboard"
	"github.com/nao1215/lintsweep/internal/log"
	"github.com/spf13/cobra"
)

// NewClipCmd creates the clip command.
func NewClipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip <directory>",
		Short: "Copy every text file under a directory to the clipboard",
		Long: `Clip concatenates every readable text file under the given directory
and places the result on the system clipboard.

Each file contributes a separator line, its relative path, and its raw
content. Binary files (detected by a null byte in the first kilobyte)
and unreadable files are skipped.

Examples:
  # Copy a source tree to the clipboard
  lintsweep clip ./src

  # Print the snapshot to stdout instead
  lintsweep clip --print ./src

  # Skip files larger than one megabyte
  lintsweep clip --max-file-size 1048576 ./src`,
		Args: cobra.ExactArgs(1),
		RunE: runClipCmd,
	}

	cmd.Flags().BoolP("print", "p", false,
		"Write the snapshot to stdout instead of the clipboard")
	cmd.Flags().Int64("max-file-size", 0,
		"Skip files larger than this many bytes (0 = no limit)")

	return cmd
}

// runClipCmd executes the clip command.
func runClipCmd(cmd *cobra.Command, args []string) error {
	printOnly, err := cmd.Flags().GetBool("print")
	if err != nil {
		return err
	}

	maxFileSize, err := cmd.Flags().GetInt64("max-file-size")
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))

	exporter := clipboard.New(
		clipboard.WithLogger(logger),
		clipboard.WithMaxFileSize(maxFileSize),
	)

	ctx := context.Background()

	if printOnly {
		text, err := exporter.Snapshot(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	n, err := exporter.Export(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Copied %d bytes from %s to the clipboard\n", n, args[0])
	return nil
}
