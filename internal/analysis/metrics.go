package analysis

import (
	"fmt"
	"math"

	"github.com/standardbeagle/pyscope/internal/config"
	pserrors "github.com/standardbeagle/pyscope/internal/errors"
	"github.com/standardbeagle/pyscope/internal/types"
)

// Analyzer computes quality metrics for extracted modules. Thresholds are
// fixed at construction; a zero or negative threshold is refused up front
// rather than silently producing empty reports.
type Analyzer struct {
	thresholds config.Thresholds
}

// NewAnalyzer creates a metrics analyzer from validated thresholds.
func NewAnalyzer(thresholds config.Thresholds) (*Analyzer, error) {
	if thresholds.MaxParameters <= 0 {
		return nil, pserrors.NewConfigError("thresholds.max_parameters",
			fmt.Sprintf("%d", thresholds.MaxParameters), fmt.Errorf("must be positive"))
	}
	if thresholds.MaxMethods <= 0 {
		return nil, pserrors.NewConfigError("thresholds.max_methods",
			fmt.Sprintf("%d", thresholds.MaxMethods), fmt.Errorf("must be positive"))
	}
	if thresholds.MinDuplicateLine <= 0 {
		return nil, pserrors.NewConfigError("thresholds.min_duplicate_line",
			fmt.Sprintf("%d", thresholds.MinDuplicateLine), fmt.Errorf("must be positive"))
	}
	if thresholds.MaxLineLength <= 0 {
		return nil, pserrors.NewConfigError("thresholds.max_line_length",
			fmt.Sprintf("%d", thresholds.MaxLineLength), fmt.Errorf("must be positive"))
	}
	return &Analyzer{thresholds: thresholds}, nil
}

// MetricsBundle is the full quality profile of one module.
type MetricsBundle struct {
	Lines                 LineMetrics       `json:"lines"`
	Maintainability       float64           `json:"maintainability_index"`
	DocstringCoverage     DocCoverage       `json:"docstring_coverage"`
	NamingCompliance      NamingCompliance  `json:"naming_compliance"`
	AvgFunctionComplexity float64           `json:"avg_function_complexity"`
	MaxFunctionComplexity int               `json:"max_function_complexity"`
	Smells                []Smell           `json:"code_smells"`
	NamingViolations      []NamingViolation `json:"naming_violations"`
	Duplicates            []DuplicateBlock  `json:"duplicate_blocks"`
}

// DocCoverage is the documented share per symbol category. A category with
// nothing to document is vacuously at 100.
type DocCoverage struct {
	Functions float64 `json:"functions"`
	Classes   float64 `json:"classes"`
}

// NamingCompliance is the all-pass flag per symbol category; the offending
// names are listed in NamingViolations.
type NamingCompliance struct {
	Functions bool `json:"functions"`
	Classes   bool `json:"classes"`
}

// LineMetrics breaks source lines down by kind.
type LineMetrics struct {
	Total     int   `json:"total"`
	Code      int   `json:"code"`
	Blank     int   `json:"blank"`
	Comment   int   `json:"comment"`
	LongLines []int `json:"long_lines,omitempty"` // 1-based line numbers
}

// Smell is one detected code smell with the value that tripped it.
type Smell struct {
	Kind      string `json:"kind"` // long_parameter_list, large_class
	Name      string `json:"name"`
	Line      int    `json:"line"`
	Value     int    `json:"value"`
	Threshold int    `json:"threshold"`
}

// NamingViolation flags an identifier that breaks PEP 8 conventions.
type NamingViolation struct {
	Kind string `json:"kind"` // function, class
	Name string `json:"name"`
	Line int    `json:"line"`
}

// DuplicateBlock is one line of code repeated verbatim across the file.
type DuplicateBlock struct {
	Content string `json:"content"`
	Lines   []int  `json:"lines"` // every occurrence, ascending
}

// AnalyzeMetrics computes the quality profile for one extracted module.
// It is a pure function of the module and its source text; modules extracted
// from the same bytes always produce the same bundle.
func (a *Analyzer) AnalyzeMetrics(mod *types.ModuleInfo, source []byte) *MetricsBundle {
	lines := a.countLines(source)

	bundle := &MetricsBundle{
		Lines:             lines,
		Maintainability:   maintainabilityIndex(mod.Complexity.Cyclomatic, lines.Code),
		DocstringCoverage: docstringCoverage(mod),
		Smells:            a.detectSmells(mod),
		NamingViolations:  detectNamingViolations(mod),
		Duplicates:        a.detectDuplicates(source),
	}
	bundle.NamingCompliance = namingCompliance(bundle.NamingViolations)

	if n := len(mod.Functions); n > 0 {
		total := 0
		for _, fn := range mod.Functions {
			total += fn.Complexity
			if fn.Complexity > bundle.MaxFunctionComplexity {
				bundle.MaxFunctionComplexity = fn.Complexity
			}
		}
		bundle.AvgFunctionComplexity = round2(float64(total) / float64(n))
	}
	return bundle
}

// maintainabilityIndex computes a 0..100 maintainability score from
// cyclomatic complexity and code line count. An empty file scores 100.
func maintainabilityIndex(cyclomatic, codeLines int) float64 {
	if codeLines == 0 {
		return 100.0
	}
	cc := float64(cyclomatic)
	loc := float64(codeLines)
	mi := (171 - 5.2*(cc/loc)*100 - 0.23*cc - 16.2*(loc/1000)) * 100 / 171
	return round2(math.Max(0, mi))
}

// docstringCoverage computes the documented share of each symbol category.
func docstringCoverage(mod *types.ModuleInfo) DocCoverage {
	coverage := DocCoverage{Functions: 100.0, Classes: 100.0}

	if len(mod.Functions) > 0 {
		documented := 0
		for _, fn := range mod.Functions {
			if fn.Docstring != "" {
				documented++
			}
		}
		coverage.Functions = round2(float64(documented) / float64(len(mod.Functions)) * 100)
	}
	if len(mod.Classes) > 0 {
		documented := 0
		for _, cls := range mod.Classes {
			if cls.Docstring != "" {
				documented++
			}
		}
		coverage.Classes = round2(float64(documented) / float64(len(mod.Classes)) * 100)
	}
	return coverage
}

// namingCompliance collapses the violation list into per-category flags.
func namingCompliance(violations []NamingViolation) NamingCompliance {
	compliance := NamingCompliance{Functions: true, Classes: true}
	for _, v := range violations {
		switch v.Kind {
		case "function":
			compliance.Functions = false
		case "class":
			compliance.Classes = false
		}
	}
	return compliance
}

func (a *Analyzer) detectSmells(mod *types.ModuleInfo) []Smell {
	var smells []Smell
	for _, fn := range mod.Functions {
		if len(fn.Params) > a.thresholds.MaxParameters {
			smells = append(smells, Smell{
				Kind:      "long_parameter_list",
				Name:      fn.Name,
				Line:      fn.LineStart,
				Value:     len(fn.Params),
				Threshold: a.thresholds.MaxParameters,
			})
		}
	}
	for _, cls := range mod.Classes {
		if len(cls.Methods) > a.thresholds.MaxMethods {
			smells = append(smells, Smell{
				Kind:      "large_class",
				Name:      cls.Name,
				Line:      cls.LineStart,
				Value:     len(cls.Methods),
				Threshold: a.thresholds.MaxMethods,
			})
		}
	}
	return smells
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
