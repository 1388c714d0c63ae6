package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/standardbeagle/pyscope/internal/types"
)

var (
	snakeCasePattern  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	pascalCasePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
)

// detectNamingViolations checks functions against snake_case and classes
// against PascalCase. Dunder names like __init__ already satisfy snake_case.
func detectNamingViolations(mod *types.ModuleInfo) []NamingViolation {
	var out []NamingViolation
	for _, fn := range mod.Functions {
		if !snakeCasePattern.MatchString(fn.Name) {
			out = append(out, NamingViolation{Kind: "function", Name: fn.Name, Line: fn.LineStart})
		}
	}
	for _, cls := range mod.Classes {
		if !pascalCasePattern.MatchString(cls.Name) {
			out = append(out, NamingViolation{Kind: "class", Name: cls.Name, Line: cls.LineStart})
		}
	}
	return out
}

// countLines classifies every source line. A line is a comment when its
// first non-space character is #; long lines are measured on the raw text.
func (a *Analyzer) countLines(source []byte) LineMetrics {
	lines := splitLines(source)
	metrics := LineMetrics{Total: len(lines)}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			metrics.Blank++
		case strings.HasPrefix(trimmed, "#"):
			metrics.Comment++
		default:
			metrics.Code++
		}
		if len(line) > a.thresholds.MaxLineLength {
			metrics.LongLines = append(metrics.LongLines, i+1)
		}
	}
	return metrics
}

// detectDuplicates finds code lines repeated verbatim. Blank lines, comments
// and short lines are excluded so trivial repetition (returns, pass, closing
// brackets) does not drown out real duplication. Every occurrence is
// reported, ordered by first appearance.
func (a *Analyzer) detectDuplicates(source []byte) []DuplicateBlock {
	occurrences := make(map[string][]int)
	for i, line := range splitLines(source) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len(trimmed) <= a.thresholds.MinDuplicateLine {
			continue
		}
		occurrences[trimmed] = append(occurrences[trimmed], i+1)
	}

	var blocks []DuplicateBlock
	for content, lines := range occurrences {
		if len(lines) > 1 {
			blocks = append(blocks, DuplicateBlock{Content: content, Lines: lines})
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Lines[0] < blocks[j].Lines[0]
	})
	return blocks
}

// splitLines splits source into lines without a phantom trailing entry.
func splitLines(source []byte) []string {
	if len(source) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(source), "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
