package types

// Core data model for the Python analyzer. One ModuleInfo is produced per
// analyzed file; all nested symbols are owned by value and immutable after
// extraction. Re-analyzing a file always produces a fresh ModuleInfo.

// ParameterKind classifies how a parameter is bound at call time.
type ParameterKind string

const (
	ParamPositional    ParameterKind = "positional"
	ParamKeyword       ParameterKind = "keyword"
	ParamVarPositional ParameterKind = "var_positional" // *args
	ParamVarKeyword    ParameterKind = "var_keyword"    // **kwargs
)

// Parameter describes a single function parameter.
type Parameter struct {
	Name       string        `json:"name"`
	Kind       ParameterKind `json:"kind"`
	Annotation string        `json:"annotation,omitempty"` // literal source text
	Default    string        `json:"default,omitempty"`    // literal source text
}

// Marker returns the parameter name as it appears in a flat argument list,
// with the variadic prefix attached ("*args", "**kwargs").
func (p Parameter) Marker() string {
	switch p.Kind {
	case ParamVarPositional:
		return "*" + p.Name
	case ParamVarKeyword:
		return "**" + p.Name
	default:
		return p.Name
	}
}

// Function describes one function or method definition.
type Function struct {
	Name             string      `json:"name"`
	LineStart        int         `json:"line_start"` // 1-based, inclusive
	LineEnd          int         `json:"line_end"`   // 1-based, inclusive
	Params           []Parameter `json:"params"`
	ReturnAnnotation string      `json:"return_annotation,omitempty"`
	Docstring        string      `json:"docstring,omitempty"`
	Complexity       int         `json:"complexity"` // cyclomatic, >= 1
	Calls            []string    `json:"calls"`      // deduplicated call targets, sorted
	Decorators       []string    `json:"decorators"`
	IsAsync          bool        `json:"is_async"`
	IsGenerator      bool        `json:"is_generator"`
	IsMethod         bool        `json:"is_method"`
	IsStatic         bool        `json:"is_static"`
	IsClassMethod    bool        `json:"is_class_method"`
}

// ParameterNames returns the ordered parameter names with variadic markers,
// matching the positional, *args, keyword-only, **kwargs source order.
func (f *Function) ParameterNames() []string {
	names := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		names = append(names, p.Marker())
	}
	return names
}

// Class describes one class definition.
type Class struct {
	Name       string     `json:"name"`
	LineStart  int        `json:"line_start"`
	LineEnd    int        `json:"line_end"`
	Bases      []string   `json:"bases"` // dotted-name source text, in order
	Methods    []Function `json:"methods"`
	Attributes []string   `json:"attributes"` // direct class-body assignments
	Docstring  string     `json:"docstring,omitempty"`
	Decorators []string   `json:"decorators"`
	IsAbstract bool       `json:"is_abstract"`
}

// Import describes one bound import name. A from-import binding several names
// produces one Import per name; a bare import produces one with no names.
type Import struct {
	Module      string   `json:"module"`
	Names       []string `json:"names,omitempty"`
	Alias       string   `json:"alias,omitempty"`
	Line        int      `json:"line"`
	IsFromStyle bool     `json:"is_from_style"`
}

// Variable describes a module-level assignment.
type Variable struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // inferred from the literal kind, "unknown" otherwise
	Line       int    `json:"line"`
	IsConstant bool   `json:"is_constant"` // upper-case naming convention
}

// DependencyKind categorizes how one symbol depends on another.
type DependencyKind string

const (
	DepImport      DependencyKind = "import"
	DepCall        DependencyKind = "function_call"
	DepInheritance DependencyKind = "class_inheritance"
	DepVariableRef DependencyKind = "variable_reference"
)

// DependencyScope locates a dependency target relative to the project.
type DependencyScope string

const (
	ScopeInternal DependencyScope = "internal"
	ScopeExternal DependencyScope = "external"
	ScopeBuiltin  DependencyScope = "builtin"
)

// Dependency is one observed edge from a module to a target symbol or module.
// Scope is filled in by the dependency mapper once the full project module
// universe is known; the extractor leaves it empty.
type Dependency struct {
	Source  string          `json:"source"`
	Target  string          `json:"target"`
	Kind    DependencyKind  `json:"kind"`
	Scope   DependencyScope `json:"scope,omitempty"`
	Line    int             `json:"line"`
	Context string          `json:"context,omitempty"`
}

// ComplexityLevel buckets a file-level cyclomatic score.
type ComplexityLevel string

const (
	ComplexityLow      ComplexityLevel = "low"
	ComplexityMedium   ComplexityLevel = "medium"
	ComplexityHigh     ComplexityLevel = "high"
	ComplexityVeryHigh ComplexityLevel = "very_high"
)

// LevelForComplexity buckets a whole-file cyclomatic complexity score.
func LevelForComplexity(cc int) ComplexityLevel {
	switch {
	case cc <= 10:
		return ComplexityLow
	case cc <= 20:
		return ComplexityMedium
	case cc <= 50:
		return ComplexityHigh
	default:
		return ComplexityVeryHigh
	}
}

// FileComplexity is the whole-file complexity profile computed during the
// extraction pass. Cyclomatic counts every branch node at any nesting level;
// Cognitive weights each branch by its nesting depth.
type FileComplexity struct {
	Cyclomatic    int             `json:"cyclomatic"`
	Cognitive     int             `json:"cognitive"`
	MaxNesting    int             `json:"max_nesting"`
	FunctionCount int             `json:"function_count"`
	ClassCount    int             `json:"class_count"`
	Level         ComplexityLevel `json:"level"`
}

// ModuleInfo is the full symbol model for one source file.
type ModuleInfo struct {
	Path      string `json:"path"`
	Name      string `json:"name"` // dotted module path relative to project root
	Docstring string `json:"docstring,omitempty"`

	Imports    []Import `json:"imports"`
	RawImports []string `json:"raw_imports"` // deduplicated flat targets, source order
	Exports    []string `json:"exports"`

	Functions []Function `json:"functions"` // every def in the file, methods included
	Classes   []Class    `json:"classes"`
	Variables []Variable `json:"variables"` // module-level assignments only

	Dependencies []Dependency   `json:"dependencies"`
	Complexity   FileComplexity `json:"complexity"`
}

// TopLevelFunctions filters Functions down to the ones defined at module scope.
func (m *ModuleInfo) TopLevelFunctions() []Function {
	var out []Function
	for _, f := range m.Functions {
		if !f.IsMethod {
			out = append(out, f)
		}
	}
	return out
}

// ModuleEdges is one module's adjacency record in the dependency graph.
// Dependents is always the exact transpose of InternalDeps edges restricted
// to known project modules; it is derived during graph assembly and never
// mutated independently.
type ModuleEdges struct {
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
	InternalDeps []string `json:"internal_deps"`
	ExternalDeps []string `json:"external_deps"`
	BuiltinDeps  []string `json:"builtin_deps"`
}

// DependencyGraph maps module name to its adjacency record.
type DependencyGraph map[string]*ModuleEdges

// CouplingMetric holds per-module coupling numbers.
// Instability = Ce/(Ca+Ce), defined as 0 when both couplings are 0.
type CouplingMetric struct {
	Afferent    int     `json:"afferent_coupling"`
	Efferent    int     `json:"efferent_coupling"`
	Instability float64 `json:"instability"`
}

// CouplingAverages summarizes coupling across the whole project.
type CouplingAverages struct {
	Afferent    float64 `json:"afferent_coupling"`
	Efferent    float64 `json:"efferent_coupling"`
	Instability float64 `json:"instability"`
}

// DependencyUsage is one entry of the most-used-dependencies ranking.
type DependencyUsage struct {
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Scope DependencyScope `json:"scope"`
	Kind  DependencyKind  `json:"kind"`
}

// SkippedFile records a file the project scan could not analyze.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ReportSummary carries project-wide dependency counts.
type ReportSummary struct {
	TotalModules         int `json:"total_modules"`
	TotalDependencies    int `json:"total_dependencies"`
	InternalDependencies int `json:"internal_dependencies"`
	ExternalDependencies int `json:"external_dependencies"`
	BuiltinDependencies  int `json:"builtin_dependencies"`
}

// ProjectReport is the aggregate output of a project analysis run. It is
// rebuilt from scratch on every run; nothing in it is incrementally patched.
type ProjectReport struct {
	Empty   bool          `json:"empty"` // zero analyzable files found
	Summary ReportSummary `json:"summary"`

	Modules     map[string]*ModuleInfo    `json:"modules"`
	Graph       DependencyGraph           `json:"dependency_graph"`
	Cycles      [][]string                `json:"circular_dependencies"`
	Orphans     []string                  `json:"orphaned_modules"`
	Coupling    map[string]CouplingMetric `json:"coupling_metrics"`
	CouplingAvg CouplingAverages          `json:"coupling_averages"`

	TopDependencies   []DependencyUsage `json:"most_used_dependencies"`
	ExternalLibraries []string          `json:"external_libraries"`
	BuiltinModules    []string          `json:"builtin_modules_used"`

	Skipped []SkippedFile `json:"skipped_files,omitempty"`
}
