package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/pyscope/internal/types"
)

func writeTempSource(t *testing.T, content string) (string, os.FileInfo) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return path, info
}

func TestCache_MissThenHit(t *testing.T) {
	cache := NewCache()
	content := "x = 1\n"
	path, info := writeTempSource(t, content)

	_, ok := cache.Lookup(path, info, []byte(content))
	assert.False(t, ok)

	mod := &types.ModuleInfo{Path: path, Name: "mod"}
	cache.Store(path, info, []byte(content), mod)

	got, ok := cache.Lookup(path, info, []byte(content))
	require.True(t, ok)
	assert.Same(t, mod, got)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_ContentChangeInvalidates(t *testing.T) {
	cache := NewCache()
	path, info := writeTempSource(t, "x = 1\n")

	cache.Store(path, info, []byte("x = 1\n"), &types.ModuleInfo{Name: "mod"})

	changed := []byte("x = 2\n")
	require.NoError(t, os.WriteFile(path, changed, 0o644))
	newInfo, err := os.Stat(path)
	require.NoError(t, err)

	_, ok := cache.Lookup(path, newInfo, changed)
	assert.False(t, ok)
}

func TestCache_SameContentNewMtimeStillHits(t *testing.T) {
	cache := NewCache()
	content := []byte("x = 1\n")
	path, info := writeTempSource(t, string(content))

	mod := &types.ModuleInfo{Name: "mod"}
	cache.Store(path, info, content, mod)

	// Simulate a touch: identical bytes, different stat data.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
	newInfo, err := os.Stat(path)
	require.NoError(t, err)

	got, ok := cache.Lookup(path, newInfo, content)
	require.True(t, ok)
	assert.Same(t, mod, got)

	// The refreshed stat data makes the next lookup a fast-path hit.
	got, ok = cache.Lookup(path, newInfo, content)
	require.True(t, ok)
	assert.Same(t, mod, got)
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache()
	path, info := writeTempSource(t, "x = 1\n")

	cache.Store(path, info, []byte("x = 1\n"), &types.ModuleInfo{Name: "mod"})
	cache.Invalidate(path)

	_, ok := cache.Lookup(path, info, []byte("x = 1\n"))
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}
