package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const denseGraph = `
stage "data" {
  shape       = [32, 64]
  placeholder = true
}

stage "weight" {
  shape       = [64, 16]
  placeholder = true
}

stage "dense" {
  shape  = [32, 16]
  inputs = ["data", "weight"]
  reduce = [64]
}

stage "relu" {
  shape  = [32, 16]
  inputs = ["dense"]
}

outputs = ["relu"]
`

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRun_RendersSchedule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	graphPath := writeFile(t, dir, "dense.hcl", denseGraph)

	cfg, err := NewConfig(Config{GraphPath: graphPath, LogLevel: "error", LogFormat: "text"})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	a := NewApp(&out, &logs, cfg)

	require.NoError(t, a.Run(context.Background(), cfg))

	rendered := out.String()
	assert.Contains(t, rendered, "relu:")
	assert.Contains(t, rendered, "dense:")
	assert.Contains(t, rendered, "rfactor")
	assert.Contains(t, rendered, "at=relu")
}

func TestRun_MissingGraphFails(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{GraphPath: "does/not/exist.hcl", LogLevel: "error"})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	a := NewApp(&out, &logs, cfg)

	require.Error(t, a.Run(context.Background(), cfg))
	assert.Empty(t, out.String())
}

func TestNewConfig_RequiresGraphPath(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)
}
