package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/pyscope/internal/types"
)

// RenderMarkdown formats a project report as a Markdown document.
func RenderMarkdown(report *types.ProjectReport) string {
	var b strings.Builder
	b.WriteString("# Dependency Analysis\n\n")

	if report.Empty {
		b.WriteString("No Python files found.\n")
		return b.String()
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Modules: %d\n", report.Summary.TotalModules)
	fmt.Fprintf(&b, "- Dependencies: %d (internal %d, external %d, builtin %d)\n\n",
		report.Summary.TotalDependencies,
		report.Summary.InternalDependencies,
		report.Summary.ExternalDependencies,
		report.Summary.BuiltinDependencies)

	b.WriteString("## Circular Dependencies\n\n")
	if len(report.Cycles) == 0 {
		b.WriteString("None detected.\n\n")
	} else {
		for _, cycle := range report.Cycles {
			fmt.Fprintf(&b, "- %s\n", strings.Join(cycle, " -> "))
		}
		b.WriteString("\n")
	}

	if len(report.Orphans) > 0 {
		b.WriteString("## Orphaned Modules\n\n")
		for _, orphan := range report.Orphans {
			fmt.Fprintf(&b, "- %s\n", orphan)
		}
		b.WriteString("\n")
	}

	if len(report.TopDependencies) > 0 {
		b.WriteString("## Most Used Dependencies\n\n")
		b.WriteString("| Dependency | Uses | Scope |\n|---|---|---|\n")
		for _, u := range report.TopDependencies {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", u.Name, u.Count, u.Scope)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Coupling\n\n")
	fmt.Fprintf(&b, "Project averages: Ca %.2f, Ce %.2f, instability %.2f\n\n",
		report.CouplingAvg.Afferent, report.CouplingAvg.Efferent, report.CouplingAvg.Instability)
	b.WriteString("| Module | Ca | Ce | Instability |\n|---|---|---|---|\n")
	for _, name := range sortedModuleNames(report) {
		m := report.Coupling[name]
		fmt.Fprintf(&b, "| %s | %d | %d | %.2f |\n", name, m.Afferent, m.Efferent, m.Instability)
	}

	if len(report.Skipped) > 0 {
		b.WriteString("\n## Skipped Files\n\n")
		for _, s := range report.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", s.Path, s.Reason)
		}
	}
	return b.String()
}

// RenderText formats a compact plain-text report for terminal output.
func RenderText(report *types.ProjectReport) string {
	var b strings.Builder
	if report.Empty {
		b.WriteString("no Python files found\n")
		return b.String()
	}

	fmt.Fprintf(&b, "modules: %d  dependencies: %d (internal %d, external %d, builtin %d)\n",
		report.Summary.TotalModules,
		report.Summary.TotalDependencies,
		report.Summary.InternalDependencies,
		report.Summary.ExternalDependencies,
		report.Summary.BuiltinDependencies)

	if len(report.Cycles) > 0 {
		fmt.Fprintf(&b, "circular dependencies: %d\n", len(report.Cycles))
		for _, cycle := range report.Cycles {
			fmt.Fprintf(&b, "  %s\n", strings.Join(cycle, " -> "))
		}
	} else {
		b.WriteString("circular dependencies: none\n")
	}

	if len(report.Orphans) > 0 {
		fmt.Fprintf(&b, "orphaned modules: %s\n", strings.Join(report.Orphans, ", "))
	}

	for _, name := range sortedModuleNames(report) {
		edges := report.Graph[name]
		fmt.Fprintf(&b, "%s -> internal:%d external:%d builtin:%d dependents:%d\n",
			name, len(edges.InternalDeps), len(edges.ExternalDeps),
			len(edges.BuiltinDeps), len(edges.Dependents))
	}
	return b.String()
}

// RenderDOT emits the internal dependency graph in Graphviz dot format.
// Modules on a cycle are highlighted.
func RenderDOT(report *types.ProjectReport) string {
	onCycle := make(map[string]bool)
	for _, cycle := range report.Cycles {
		for _, module := range cycle {
			onCycle[module] = true
		}
	}

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontname=\"Helvetica\"];\n")

	for _, name := range sortedModuleNames(report) {
		if onCycle[name] {
			fmt.Fprintf(&b, "  %q [color=red];\n", name)
		} else {
			fmt.Fprintf(&b, "  %q;\n", name)
		}
	}
	for _, name := range sortedModuleNames(report) {
		for _, dep := range report.Graph[name].InternalDeps {
			fmt.Fprintf(&b, "  %q -> %q;\n", name, dep)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func sortedModuleNames(report *types.ProjectReport) []string {
	names := make([]string, 0, len(report.Graph))
	for name := range report.Graph {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
