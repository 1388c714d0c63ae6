package graph

import (
	"sort"

	"github.com/standardbeagle/pyscope/internal/types"
)

// computeCoupling derives per-module coupling numbers from the graph.
// Afferent counts distinct modules that depend on this one, efferent counts
// distinct internal modules this one depends on. Instability Ce/(Ca+Ce) is
// defined as 0 for a module with no internal edges at all.
func computeCoupling(g types.DependencyGraph) (map[string]types.CouplingMetric, types.CouplingAverages) {
	metrics := make(map[string]types.CouplingMetric, len(g))
	var avg types.CouplingAverages

	for module, edges := range g {
		ca := len(edges.Dependents)
		ce := len(edges.InternalDeps)

		instability := 0.0
		if ca+ce > 0 {
			instability = float64(ce) / float64(ca+ce)
		}

		metrics[module] = types.CouplingMetric{
			Afferent:    ca,
			Efferent:    ce,
			Instability: instability,
		}
		avg.Afferent += float64(ca)
		avg.Efferent += float64(ce)
		avg.Instability += instability
	}

	if n := float64(len(g)); n > 0 {
		avg.Afferent /= n
		avg.Efferent /= n
		avg.Instability /= n
	}
	return metrics, avg
}

// findOrphans lists modules no other module depends on, sorted for
// stable output. Outgoing edges do not matter: an entry point that
// imports half the project is still an orphan when nothing imports it.
func findOrphans(g types.DependencyGraph) []string {
	var orphans []string
	for module, edges := range g {
		if len(edges.Dependents) == 0 {
			orphans = append(orphans, module)
		}
	}
	sort.Strings(orphans)
	return orphans
}
