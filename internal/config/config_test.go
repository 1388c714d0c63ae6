package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultConfigFile))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Thresholds.MaxParameters)
	assert.Equal(t, 20, cfg.Thresholds.MaxMethods)
	assert.Equal(t, 10, cfg.Thresholds.MinDuplicateLine)
	assert.Equal(t, 10, cfg.Analysis.TopDependencies)
	assert.Equal(t, []string{"**/*.py"}, cfg.Analysis.Include)
	assert.Equal(t, runtime.NumCPU(), cfg.Analysis.Workers)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	content := `
[project]
name = "demo"

[analysis]
workers = 2
top_dependencies = 5

[thresholds]
max_parameters = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, 5, cfg.Analysis.TopDependencies)
	assert.Equal(t, 8, cfg.Thresholds.MaxParameters)
	// Untouched thresholds keep their defaults
	assert.Equal(t, 20, cfg.Thresholds.MaxMethods)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("[analysis\nworkers = 2"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *pserrors.ConfigError
	assert.True(t, stderrors.As(err, &cfgErr))
}

func TestValidator_NegativeThreshold(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.MaxParameters = -1

	err := NewValidator().ValidateAndSetDefaults(cfg)
	require.Error(t, err)

	var cfgErr *pserrors.ConfigError
	require.True(t, stderrors.As(err, &cfgErr))
	assert.Equal(t, "thresholds", cfgErr.Field)
}

func TestValidator_NegativeWorkers(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Workers = -3

	err := NewValidator().ValidateAndSetDefaults(cfg)
	assert.Error(t, err)
}

func TestValidator_EmptyIncludePattern(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Include = []string{""}

	err := NewValidator().ValidateAndSetDefaults(cfg)
	assert.Error(t, err)
}
