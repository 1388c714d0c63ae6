package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/pyscope/internal/config"
	"github.com/standardbeagle/pyscope/internal/types"
)

// writeProject lays out a Python project under a temp dir.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, config.NewValidator().ValidateAndSetDefaults(cfg))
	m, err := NewMapper(cfg)
	require.NoError(t, err)
	return m
}

func analyzeFixture(t *testing.T) *types.ProjectReport {
	t.Helper()
	root := writeProject(t, map[string]string{
		"core/__init__.py": "",
		"core/engine.py":   "import os\nimport numpy\nfrom core import models\n",
		"core/models.py":   "import json\nfrom core import engine\n",
		"app.py":           "from core.engine import run\nimport requests\n",
		"lonely.py":        "x = 1\n",
	})
	report, err := newTestMapper(t).AnalyzeProject(context.Background(), root)
	require.NoError(t, err)
	return report
}

func TestAnalyzeProject_Modules(t *testing.T) {
	report := analyzeFixture(t)

	assert.False(t, report.Empty)
	assert.Len(t, report.Modules, 5)
	assert.Contains(t, report.Modules, "core")
	assert.Contains(t, report.Modules, "core.engine")
	assert.Contains(t, report.Modules, "core.models")
	assert.Contains(t, report.Modules, "app")
	assert.Contains(t, report.Modules, "lonely")
}

func TestAnalyzeProject_Summary(t *testing.T) {
	report := analyzeFixture(t)

	assert.Equal(t, 5, report.Summary.TotalModules)
	assert.Equal(t, 10, report.Summary.TotalDependencies)
	assert.Equal(t, 6, report.Summary.InternalDependencies)
	assert.Equal(t, 2, report.Summary.ExternalDependencies)
	assert.Equal(t, 2, report.Summary.BuiltinDependencies)
}

func TestAnalyzeProject_GraphEdges(t *testing.T) {
	report := analyzeFixture(t)

	engine := report.Graph["core.engine"]
	require.NotNil(t, engine)
	assert.ElementsMatch(t, []string{"core", "core.models"}, engine.InternalDeps)
	assert.Equal(t, []string{"numpy"}, engine.ExternalDeps)
	assert.Equal(t, []string{"os"}, engine.BuiltinDeps)
	assert.ElementsMatch(t, []string{"app", "core.models"}, engine.Dependents)

	app := report.Graph["app"]
	require.NotNil(t, app)
	assert.Equal(t, []string{"core.engine"}, app.InternalDeps)
	assert.Empty(t, app.Dependents)
}

func TestAnalyzeProject_CycleDetection(t *testing.T) {
	report := analyzeFixture(t)

	require.Len(t, report.Cycles, 1)
	cycle := report.Cycles[0]
	require.GreaterOrEqual(t, len(cycle), 3)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "cycle path returns to its start")
	assert.Contains(t, cycle, "core.engine")
	assert.Contains(t, cycle, "core.models")
}

func TestAnalyzeProject_Coupling(t *testing.T) {
	report := analyzeFixture(t)

	core := report.Coupling["core"]
	assert.Equal(t, 2, core.Afferent)
	assert.Equal(t, 0, core.Efferent)
	assert.InDelta(t, 0.0, core.Instability, 0.001)

	app := report.Coupling["app"]
	assert.Equal(t, 0, app.Afferent)
	assert.Equal(t, 1, app.Efferent)
	assert.InDelta(t, 1.0, app.Instability, 0.001)

	engine := report.Coupling["core.engine"]
	assert.Equal(t, 2, engine.Afferent)
	assert.Equal(t, 2, engine.Efferent)
	assert.InDelta(t, 0.5, engine.Instability, 0.001)

	for name, m := range report.Coupling {
		assert.GreaterOrEqual(t, m.Instability, 0.0, name)
		assert.LessOrEqual(t, m.Instability, 1.0, name)
	}
}

func TestAnalyzeProject_Orphans(t *testing.T) {
	report := analyzeFixture(t)

	// app imports core.engine but nothing imports app; it is still an orphan.
	assert.Equal(t, []string{"app", "lonely"}, report.Orphans)
}

func TestAnalyzeProject_OrphanIgnoresOutgoingEdges(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "x = 1\n",
	})

	report, err := newTestMapper(t).AnalyzeProject(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, report.Orphans)
}

func TestAnalyzeProject_TopDependencies(t *testing.T) {
	report := analyzeFixture(t)

	require.NotEmpty(t, report.TopDependencies)
	top := report.TopDependencies[0]
	assert.Equal(t, "core", top.Name)
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, types.ScopeInternal, top.Scope)
	assert.Equal(t, types.DepImport, top.Kind)

	assert.Equal(t, []string{"numpy", "requests"}, report.ExternalLibraries)
	assert.Equal(t, []string{"json", "os"}, report.BuiltinModules)
}

func TestAnalyzeProject_CountsCallRecords(t *testing.T) {
	root := writeProject(t, map[string]string{
		"loader.py": "import json\n\n" +
			"def load_a(raw):\n    return json.loads(raw)\n\n" +
			"def load_b(raw):\n    return json.loads(raw)\n",
	})

	report, err := newTestMapper(t).AnalyzeProject(context.Background(), root)
	require.NoError(t, err)

	// one import record plus one call record per function
	assert.Equal(t, 3, report.Summary.TotalDependencies)
	assert.Equal(t, []string{"json", "loads", "loads"}, report.Graph["loader"].Dependencies)

	var loads *types.DependencyUsage
	for i := range report.TopDependencies {
		if report.TopDependencies[i].Name == "loads" {
			loads = &report.TopDependencies[i]
		}
	}
	require.NotNil(t, loads, "call targets rank in most-used dependencies")
	assert.Equal(t, 2, loads.Count)
	assert.Equal(t, types.DepCall, loads.Kind)
}

func TestAnalyzeProject_EmptyProject(t *testing.T) {
	root := writeProject(t, map[string]string{"README.md": "nothing here\n"})

	report, err := newTestMapper(t).AnalyzeProject(context.Background(), root)
	require.NoError(t, err)

	assert.True(t, report.Empty)
	assert.Empty(t, report.Modules)
}

func TestAnalyzeProject_SkipsBrokenFiles(t *testing.T) {
	root := writeProject(t, map[string]string{
		"good.py":   "x = 1\n",
		"broken.py": "def broken(:\n    pass\n",
	})

	report, err := newTestMapper(t).AnalyzeProject(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, report.Modules, 1)
	assert.Contains(t, report.Modules, "good")
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "broken.py", report.Skipped[0].Path)
	assert.NotEmpty(t, report.Skipped[0].Reason)
}

func TestAnalyzeProject_HonorsExcludes(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app.py":           "x = 1\n",
		"venv/lib.py":      "x = 1\n",
		"sub/venv/deep.py": "x = 1\n",
	})

	report, err := newTestMapper(t).AnalyzeProject(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, report.Modules, 1)
	assert.Contains(t, report.Modules, "app")
}

func TestAnalyzeProject_SkipsOversizedFiles(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, config.NewValidator().ValidateAndSetDefaults(cfg))
	cfg.Analysis.MaxFileSize = 10

	root := writeProject(t, map[string]string{
		"big.py":   "value = 'well over ten bytes'\n",
		"small.py": "x = 1\n",
	})

	m, err := NewMapper(cfg)
	require.NoError(t, err)
	report, err := m.AnalyzeProject(context.Background(), root)
	require.NoError(t, err)

	assert.Contains(t, report.Modules, "small")
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "big.py", report.Skipped[0].Path)
}

func TestAnalyzeProject_ContextCancelled(t *testing.T) {
	root := writeProject(t, map[string]string{"app.py": "x = 1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestMapper(t).AnalyzeProject(ctx, root)
	assert.Error(t, err)
}

func TestModuleNameFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app.py", "app"},
		{"core/engine.py", "core.engine"},
		{"core/__init__.py", "core"},
		{"a/b/c.py", "a.b.c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, moduleNameFor(tt.path), tt.path)
	}
}
