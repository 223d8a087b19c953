package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	require.NoError(t, err)

	assert.Equal(t, New(), cfg)
	assert.Equal(t, DefaultOutDir, cfg.Out)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultDelimiter, cfg.Delimiter)
	assert.Equal(t, DefaultLabelExt, cfg.LabelExt)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "custom.yaml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_OverridesMergeOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	body := "labels: /data/labels\nworkers: 4\nlabel_ext: .lbl\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "/data/labels", cfg.Labels)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, ".lbl", cfg.LabelExt)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultOutDir, cfg.Out)
	assert.Equal(t, DefaultDelimiter, cfg.Delimiter)
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("workers: [nope"), 0o644))

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RejectsNegativeWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("workers: -2\n"), 0o644))

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be >= 1")
}
