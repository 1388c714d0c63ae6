package docs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/pyscope/internal/types"
)

// ModuleDocs is the documentation view of one extracted module: every
// function with its rebuilt signature, parsed docstring and local call
// relationships.
type ModuleDocs struct {
	Module    string        `json:"module"`
	Path      string        `json:"path"`
	Docstring string        `json:"docstring,omitempty"`
	Functions []FunctionDoc `json:"functions"`
	Stats     Stats         `json:"stats"`
}

// FunctionDoc documents a single function or method.
type FunctionDoc struct {
	Name        string      `json:"name"`
	Class       string      `json:"class,omitempty"` // owning class for methods
	Signature   string      `json:"signature"`
	LineStart   int         `json:"line_start"`
	LineEnd     int         `json:"line_end"`
	Summary     string      `json:"summary,omitempty"`
	Sections    DocSections `json:"sections"`
	Decorators  []string    `json:"decorators,omitempty"`
	IsAsync     bool        `json:"is_async"`
	IsGenerator bool        `json:"is_generator"`
	IsMethod    bool        `json:"is_method"`
	Calls       []string    `json:"calls,omitempty"`
	CalledBy    []string    `json:"called_by,omitempty"`
}

// Stats summarizes documentation health across the module.
type Stats struct {
	Total         int     `json:"total_functions"`
	Documented    int     `json:"documented"`
	Coverage      float64 `json:"coverage_percent"`
	Async         int     `json:"async_functions"`
	Generators    int     `json:"generators"`
	Methods       int     `json:"methods"`
	Decorated     int     `json:"decorated"`
	AvgComplexity float64 `json:"avg_complexity"`
	MaxComplexity int     `json:"max_complexity"`
	MinComplexity int     `json:"min_complexity"`
}

// BuildModuleDocs derives the documentation view from an extracted module.
// CalledBy links are resolved within the file only: a function is "called by"
// another when its bare name appears in the caller's call targets.
func BuildModuleDocs(mod *types.ModuleInfo) *ModuleDocs {
	docs := &ModuleDocs{
		Module:    mod.Name,
		Path:      mod.Path,
		Docstring: mod.Docstring,
	}

	owners := methodOwners(mod)
	complexityTotal := 0
	for _, fn := range mod.Functions {
		doc := FunctionDoc{
			Name:        fn.Name,
			Class:       owners[methodKey(fn)],
			Signature:   Signature(&fn),
			LineStart:   fn.LineStart,
			LineEnd:     fn.LineEnd,
			Decorators:  fn.Decorators,
			IsAsync:     fn.IsAsync,
			IsGenerator: fn.IsGenerator,
			IsMethod:    fn.IsMethod,
			Calls:       fn.Calls,
		}
		doc.Summary, doc.Sections = ParseDocstring(fn.Docstring)
		docs.Functions = append(docs.Functions, doc)

		docs.Stats.Total++
		if fn.Docstring != "" {
			docs.Stats.Documented++
		}
		if fn.IsAsync {
			docs.Stats.Async++
		}
		if fn.IsGenerator {
			docs.Stats.Generators++
		}
		if fn.IsMethod {
			docs.Stats.Methods++
		}
		if len(fn.Decorators) > 0 {
			docs.Stats.Decorated++
		}
		complexityTotal += fn.Complexity
		if fn.Complexity > docs.Stats.MaxComplexity {
			docs.Stats.MaxComplexity = fn.Complexity
		}
		if docs.Stats.MinComplexity == 0 || fn.Complexity < docs.Stats.MinComplexity {
			docs.Stats.MinComplexity = fn.Complexity
		}
	}

	if docs.Stats.Total > 0 {
		docs.Stats.Coverage = float64(docs.Stats.Documented) / float64(docs.Stats.Total) * 100
		docs.Stats.AvgComplexity = float64(complexityTotal) / float64(docs.Stats.Total)
	} else {
		docs.Stats.Coverage = 100
	}

	linkCallers(docs)
	return docs
}

// methodOwners maps each method to its class name, keyed by name and
// starting line so same-named methods on different classes stay distinct.
func methodOwners(mod *types.ModuleInfo) map[string]string {
	owners := make(map[string]string)
	for _, cls := range mod.Classes {
		for _, m := range cls.Methods {
			owners[methodKey(m)] = cls.Name
		}
	}
	return owners
}

func methodKey(fn types.Function) string {
	return fmt.Sprintf("%s:%d", fn.Name, fn.LineStart)
}

// linkCallers fills CalledBy from the intra-file call graph.
func linkCallers(docs *ModuleDocs) {
	byName := make(map[string][]int)
	for i, fn := range docs.Functions {
		byName[fn.Name] = append(byName[fn.Name], i)
	}

	for _, caller := range docs.Functions {
		for _, target := range caller.Calls {
			for _, idx := range byName[target] {
				callee := &docs.Functions[idx]
				if callee.Name == caller.Name && callee.LineStart == caller.LineStart {
					continue // direct recursion is not a separate caller
				}
				callee.CalledBy = appendUnique(callee.CalledBy, caller.Name)
			}
		}
	}
	for i := range docs.Functions {
		sort.Strings(docs.Functions[i].CalledBy)
	}
}

func appendUnique(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

// Signature rebuilds the def line from the extracted model.
func Signature(fn *types.Function) string {
	var b strings.Builder
	if fn.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	b.WriteString(fn.Name)
	b.WriteString("(")

	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Marker())
		if p.Annotation != "" {
			b.WriteString(": ")
			b.WriteString(p.Annotation)
		}
		if p.Default != "" {
			if p.Annotation != "" {
				b.WriteString(" = ")
			} else {
				b.WriteString("=")
			}
			b.WriteString(p.Default)
		}
	}
	b.WriteString(")")

	if fn.ReturnAnnotation != "" {
		b.WriteString(" -> ")
		b.WriteString(fn.ReturnAnnotation)
	}
	return b.String()
}
