package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/pyscope/internal/types"
)

func fixtureModule() *types.ModuleInfo {
	fetch := types.Function{
		Name:      "fetch",
		LineStart: 10,
		LineEnd:   20,
		Params: []types.Parameter{
			{Name: "url", Kind: types.ParamPositional, Annotation: "str"},
			{Name: "timeout", Kind: types.ParamKeyword, Annotation: "int", Default: "30"},
			{Name: "kwargs", Kind: types.ParamVarKeyword},
		},
		ReturnAnnotation: "Response",
		Docstring: "Fetch a URL.\n\nArgs:\n    url: Target address.\n    timeout: Seconds before giving up,\n        clamped to one minute.\n\nReturns:\n    The response object.\n\nRaises:\n    TimeoutError: When the deadline passes.",
		Complexity:       2,
		Calls:            []string{"parse"},
	}
	parse := types.Function{
		Name:       "parse",
		LineStart:  25,
		LineEnd:    30,
		Params:     []types.Parameter{{Name: "raw", Kind: types.ParamPositional}},
		Complexity: 1,
	}
	reader := types.Function{
		Name:        "read_all",
		LineStart:   40,
		LineEnd:     45,
		IsAsync:     true,
		IsGenerator: true,
		IsMethod:    true,
		Params:      []types.Parameter{{Name: "self", Kind: types.ParamPositional}},
		Docstring:   "Stream rows.",
		Complexity:  2,
	}
	return &types.ModuleInfo{
		Name:      "client",
		Path:      "client.py",
		Docstring: "HTTP client helpers.",
		Functions: []types.Function{fetch, parse, reader},
		Classes: []types.Class{
			{Name: "Reader", LineStart: 35, Methods: []types.Function{reader}},
		},
	}
}

func TestBuildModuleDocs_Stats(t *testing.T) {
	docs := BuildModuleDocs(fixtureModule())

	assert.Equal(t, 3, docs.Stats.Total)
	assert.Equal(t, 2, docs.Stats.Documented)
	assert.InDelta(t, 66.67, docs.Stats.Coverage, 0.01)
	assert.Equal(t, 1, docs.Stats.Async)
	assert.Equal(t, 1, docs.Stats.Generators)
	assert.Equal(t, 1, docs.Stats.Methods)
	assert.InDelta(t, 1.67, docs.Stats.AvgComplexity, 0.01)
	assert.Equal(t, 2, docs.Stats.MaxComplexity)
	assert.Equal(t, 1, docs.Stats.MinComplexity)
}

func TestBuildModuleDocs_CalledBy(t *testing.T) {
	docs := BuildModuleDocs(fixtureModule())

	byName := make(map[string]FunctionDoc)
	for _, fn := range docs.Functions {
		byName[fn.Name] = fn
	}
	assert.Equal(t, []string{"fetch"}, byName["parse"].CalledBy)
	assert.Empty(t, byName["fetch"].CalledBy)
}

func TestBuildModuleDocs_MethodOwner(t *testing.T) {
	docs := BuildModuleDocs(fixtureModule())

	byName := make(map[string]FunctionDoc)
	for _, fn := range docs.Functions {
		byName[fn.Name] = fn
	}
	assert.Equal(t, "Reader", byName["read_all"].Class)
	assert.Empty(t, byName["fetch"].Class)
}

func TestBuildModuleDocs_EmptyModule(t *testing.T) {
	docs := BuildModuleDocs(&types.ModuleInfo{Name: "empty"})
	assert.Equal(t, 0, docs.Stats.Total)
	assert.InDelta(t, 100.0, docs.Stats.Coverage, 0.01)
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		fn   types.Function
		want string
	}{
		{
			"plain",
			types.Function{Name: "go", Params: []types.Parameter{
				{Name: "a", Kind: types.ParamPositional},
				{Name: "b", Kind: types.ParamKeyword, Default: "1"},
			}},
			"def go(a, b=1)",
		},
		{
			"annotated with return",
			types.Function{
				Name: "fetch",
				Params: []types.Parameter{
					{Name: "url", Kind: types.ParamPositional, Annotation: "str"},
					{Name: "timeout", Kind: types.ParamKeyword, Annotation: "int", Default: "30"},
				},
				ReturnAnnotation: "Response",
			},
			"def fetch(url: str, timeout: int = 30) -> Response",
		},
		{
			"variadics and async",
			types.Function{
				Name:    "gather",
				IsAsync: true,
				Params: []types.Parameter{
					{Name: "args", Kind: types.ParamVarPositional},
					{Name: "kwargs", Kind: types.ParamVarKeyword},
				},
			},
			"async def gather(*args, **kwargs)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Signature(&tt.fn))
		})
	}
}

func TestParseDocstring_Sections(t *testing.T) {
	summary, sections := ParseDocstring(
		"Fetch a URL.\n\nArgs:\n    url: Target address.\n    timeout: Seconds before giving up,\n        clamped to one minute.\n\nReturns:\n    The response object.\n\nRaises:\n    TimeoutError: When the deadline passes.")

	assert.Equal(t, "Fetch a URL.", summary)

	require.Len(t, sections.Params, 2)
	assert.Equal(t, "url", sections.Params[0].Name)
	assert.Equal(t, "Target address.", sections.Params[0].Description)
	assert.Equal(t, "timeout", sections.Params[1].Name)
	assert.Equal(t, "Seconds before giving up, clamped to one minute.", sections.Params[1].Description)

	assert.Equal(t, "The response object.", sections.Returns)

	require.Len(t, sections.Raises, 1)
	assert.Equal(t, "TimeoutError", sections.Raises[0].Exception)
}

func TestParseDocstring_TypedArgs(t *testing.T) {
	_, sections := ParseDocstring("Args:\n    count (int): How many.\n")
	require.Len(t, sections.Params, 1)
	assert.Equal(t, "count", sections.Params[0].Name)
	assert.Equal(t, "How many.", sections.Params[0].Description)
}

func TestParseDocstring_NoSections(t *testing.T) {
	summary, sections := ParseDocstring("Just a summary.\nWith two lines.")
	assert.Equal(t, "Just a summary.\nWith two lines.", summary)
	assert.Empty(t, sections.Params)
	assert.Empty(t, sections.Returns)
}

func TestRenderMarkdown_Docs(t *testing.T) {
	out := RenderMarkdown(BuildModuleDocs(fixtureModule()))

	assert.Contains(t, out, "# client")
	assert.Contains(t, out, "## fetch")
	assert.Contains(t, out, "## Reader.read_all")
	assert.Contains(t, out, "def fetch(url: str, timeout: int = 30, **kwargs) -> Response")
	assert.Contains(t, out, "- `url`: Target address.")
	assert.Contains(t, out, "**Returns**: The response object.")
	assert.Contains(t, out, "Called by: fetch")
}

func TestRenderRST_Docs(t *testing.T) {
	out := RenderRST(BuildModuleDocs(fixtureModule()))

	assert.Contains(t, out, "client\n======")
	assert.Contains(t, out, "Reader.read_all\n---------------")
	assert.Contains(t, out, ":param url: Target address.")
	assert.Contains(t, out, ":raises TimeoutError: When the deadline passes.")
}
