package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/pyscope/internal/types"
)

func TestClassify(t *testing.T) {
	c := newClassifier([]string{"core", "core.engine", "utils"})

	tests := []struct {
		target string
		want   types.DependencyScope
	}{
		{"os", types.ScopeBuiltin},
		{"os.path", types.ScopeBuiltin},
		{"collections.abc", types.ScopeBuiltin},
		{"core", types.ScopeInternal},
		{"core.engine", types.ScopeInternal},
		{"core.engine.run", types.ScopeInternal},
		{".sibling", types.ScopeInternal},
		{"..parent.mod", types.ScopeInternal},
		{"requests", types.ScopeExternal},
		{"numpy.linalg", types.ScopeExternal},
		// builtin check runs on the root before project modules
		{"osutils", types.ScopeExternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.classify(tt.target), tt.target)
	}
}

func TestResolveInternal(t *testing.T) {
	c := newClassifier([]string{"core", "core.engine", "core.models", "utils"})

	tests := []struct {
		name   string
		source string
		target string
		want   string
	}{
		{"exact", "app", "core.engine", "core.engine"},
		{"symbol path resolves to module", "app", "core.engine.run", "core.engine"},
		{"package itself", "app", "core", "core"},
		{"unknown", "app", "requests", ""},
		{"relative sibling", "core.engine", ".models", "core.models"},
		{"relative parent", "core.engine", "..utils", "utils"},
		{"too many dots", "app", "...nowhere", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.resolveInternal(tt.source, tt.target))
		})
	}
}

func TestRootComponent(t *testing.T) {
	assert.Equal(t, "os", rootComponent("os.path"))
	assert.Equal(t, "requests", rootComponent("requests"))
	assert.Equal(t, "utils", rootComponent(".utils.helpers"))
}
