package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError_Error(t *testing.T) {
	err := NewParseError("pkg/broken.py", 3, 7, "unbalanced parenthesis")

	assert.Contains(t, err.Error(), "pkg/broken.py")
	assert.Contains(t, err.Error(), "3:7")
	assert.Contains(t, err.Error(), "unbalanced parenthesis")
	assert.Equal(t, ErrorTypeParse, err.Type)
}

func TestParseError_As(t *testing.T) {
	var err error = NewParseError("a.py", 1, 0, "invalid syntax")

	var parseErr *ParseError
	require.True(t, stderrors.As(err, &parseErr))
	assert.Equal(t, 1, parseErr.Line)
	assert.Equal(t, 0, parseErr.Column)
}

func TestConfigError_Unwrap(t *testing.T) {
	underlying := stderrors.New("must be positive")
	err := NewConfigError("thresholds.max_parameters", "-1", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "thresholds.max_parameters")
	assert.Contains(t, err.Error(), "-1")
}

func TestAnalysisError_WithoutPath(t *testing.T) {
	underlying := stderrors.New("boom")
	err := NewAnalysisError("graph build", "", underlying)

	assert.Contains(t, err.Error(), "graph build failed: boom")
	assert.ErrorIs(t, err, underlying)
}

func TestMultiError_FiltersNil(t *testing.T) {
	first := stderrors.New("first")
	me := NewMultiError([]error{nil, first, nil})

	require.Len(t, me.Errors, 1)
	assert.Equal(t, "first", me.Error())
	assert.ErrorIs(t, me, first)
}

func TestMultiError_Empty(t *testing.T) {
	me := NewMultiError(nil)
	assert.Equal(t, "no errors", me.Error())
}
