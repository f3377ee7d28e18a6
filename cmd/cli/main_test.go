package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	graphHCL := `
stage "data" {
  shape       = [64]
  placeholder = true
}

stage "relu" {
  shape  = [64]
  inputs = ["data"]
}

outputs = ["relu"]
`
	tempDir := t.TempDir()
	graphPath := filepath.Join(tempDir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphPath, []byte(graphHCL), 0600))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, []string{"-log-level", "error", graphPath})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "relu:", "expected the rendered schedule on stdout")
}

func TestRun_InvalidGraphFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A graph file with a syntax error must fail the run with a parse error.
	tempDir := t.TempDir()
	graphPath := filepath.Join(tempDir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphPath, []byte("stage \"a\" {\n"), 0600))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, []string{"-log-level", "error", graphPath})

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load graph definition")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text on the error stream")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
