package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewInitCmd verifies the init command flags.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	if cmd.Use != "init" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	outputFlag := cmd.Flags().Lookup("output")
	if outputFlag == nil {
		t.Fatal("expected output flag")
	}
	if outputFlag.Shorthand != "o" {
		t.Errorf("expected shorthand 'o', got %q", outputFlag.Shorthand)
	}
	if outputFlag.DefValue != ".lintsweep.yaml" {
		t.Errorf("expected default '.lintsweep.yaml', got %q", outputFlag.DefValue)
	}

	forceFlag := cmd.Flags().Lookup("force")
	if forceFlag == nil {
		t.Fatal("expected force flag")
	}
	if forceFlag.Shorthand != "f" {
		t.Errorf("expected shorthand 'f', got %q", forceFlag.Shorthand)
	}
}

// TestRunInitCmd_CreatesConfigFile verifies the template is written.
func TestRunInitCmd_CreatesConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".lintsweep.yaml")

	cmd := NewInitCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-o", path})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if !strings.Contains(string(content), "defaults:") {
		t.Error("expected template to contain a defaults block")
	}
	if !strings.Contains(buf.String(), "Created configuration file") {
		t.Errorf("expected confirmation message, got %q", buf.String())
	}
}

// TestRunInitCmd_RefusesOverwrite verifies existing files are preserved
// without --force.
func TestRunInitCmd_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".lintsweep.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", path})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when config file already exists")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "existing" {
		t.Error("expected existing file to be untouched")
	}
}

// TestRunInitCmd_ForceOverwrite verifies --force replaces the file.
func TestRunInitCmd_ForceOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".lintsweep.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", path, "-f"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) == "existing" {
		t.Error("expected file to be overwritten")
	}
}

// TestRunInitCmd_CreatesParentDirectories verifies nested output paths
// work.
func TestRunInitCmd_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", path})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file at nested path: %v", err)
	}
}
