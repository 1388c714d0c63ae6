package graph

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/pyscope/internal/config"
	pserrors "github.com/standardbeagle/pyscope/internal/errors"
	"github.com/standardbeagle/pyscope/internal/parser"
	"github.com/standardbeagle/pyscope/internal/types"
)

// Mapper runs whole-project analysis: file discovery, parallel symbol
// extraction, and dependency graph assembly. The module cache persists
// across runs so watch-mode rebuilds only re-parse changed files.
type Mapper struct {
	cfg       *config.Config
	extractor *parser.Extractor
	cache     *parser.Cache
}

// NewMapper creates a project mapper from a validated config.
func NewMapper(cfg *config.Config) (*Mapper, error) {
	extractor, err := parser.NewExtractor()
	if err != nil {
		return nil, err
	}
	return &Mapper{
		cfg:       cfg,
		extractor: extractor,
		cache:     parser.NewCache(),
	}, nil
}

// AnalyzeProject scans root for Python files and builds the project report.
// Files that cannot be analyzed are skipped with a logged warning and listed
// in the report; a project with no analyzable files yields an empty report,
// not an error. The report is rebuilt from scratch on every call.
func (m *Mapper) AnalyzeProject(ctx context.Context, root string) (*types.ProjectReport, error) {
	files, err := m.discoverFiles(root)
	if err != nil {
		return nil, pserrors.NewAnalysisError("file discovery", root, err)
	}
	if len(files) == 0 {
		return emptyReport(), nil
	}

	type result struct {
		module  *types.ModuleInfo
		skipped *types.SkippedFile
	}
	results := make([]result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	workers := m.cfg.Analysis.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, file := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			mod, skipped := m.extractOne(root, file)
			results[i] = result{module: mod, skipped: skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pserrors.NewAnalysisError("project scan", root, err)
	}

	report := emptyReport()
	for _, r := range results {
		if r.skipped != nil {
			report.Skipped = append(report.Skipped, *r.skipped)
			continue
		}
		report.Modules[r.module.Name] = r.module
	}
	if len(report.Modules) == 0 {
		report.Empty = true
		return report, nil
	}
	report.Empty = false

	m.assemble(report)
	return report, nil
}

// discoverFiles resolves the include globs under root and filters excludes.
// Paths come back relative to root, sorted for deterministic module order.
func (m *Mapper) discoverFiles(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range m.cfg.Analysis.Include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] || !strings.HasSuffix(match, ".py") {
				continue
			}
			if m.excluded(match) {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *Mapper) excluded(path string) bool {
	for _, pattern := range m.cfg.Analysis.Exclude {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// extractOne analyzes a single discovered file. All failure modes turn into
// a skip record; the scan never aborts because of one bad file.
func (m *Mapper) extractOne(root, relPath string) (*types.ModuleInfo, *types.SkippedFile) {
	fullPath := filepath.Join(root, relPath)

	info, err := os.Stat(fullPath)
	if err != nil {
		log.Printf("warning: skipping %s: %v", relPath, err)
		return nil, &types.SkippedFile{Path: relPath, Reason: err.Error()}
	}
	if m.cfg.Analysis.MaxFileSize > 0 && info.Size() > m.cfg.Analysis.MaxFileSize {
		log.Printf("warning: skipping %s: file exceeds %d bytes", relPath, m.cfg.Analysis.MaxFileSize)
		return nil, &types.SkippedFile{
			Path:   relPath,
			Reason: fmt.Sprintf("file too large (%d bytes)", info.Size()),
		}
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		log.Printf("warning: skipping %s: %v", relPath, err)
		return nil, &types.SkippedFile{Path: relPath, Reason: err.Error()}
	}

	if cached, ok := m.cache.Lookup(fullPath, info, content); ok {
		return cached, nil
	}

	mod, err := m.extractor.ExtractModule(content, relPath, moduleNameFor(relPath))
	if err != nil {
		log.Printf("warning: skipping %s: %v", relPath, err)
		return nil, &types.SkippedFile{Path: relPath, Reason: err.Error()}
	}

	m.cache.Store(fullPath, info, content, mod)
	return mod, nil
}

// moduleNameFor converts a root-relative file path to a dotted module name.
// Package markers collapse onto their directory: pkg/__init__.py is "pkg".
func moduleNameFor(relPath string) string {
	trimmed := strings.TrimSuffix(filepath.ToSlash(relPath), ".py")
	parts := strings.Split(trimmed, "/")
	if len(parts) > 1 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// assemble classifies every dependency record and fills in graph, cycles,
// coupling, rankings and summary. Single-writer: runs after all extraction
// finished, because scope classification needs the full module universe.
// Every record counts here: imports, function calls and inheritance alike.
func (m *Mapper) assemble(report *types.ProjectReport) {
	names := make([]string, 0, len(report.Modules))
	for name := range report.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	c := newClassifier(names)

	usage := make(map[string]*types.DependencyUsage)
	externals := make(map[string]bool)
	builtins := make(map[string]bool)

	for _, name := range names {
		mod := report.Modules[name]
		edges := &types.ModuleEdges{}
		report.Graph[name] = edges

		internalSeen := make(map[string]bool)
		for i := range mod.Dependencies {
			dep := &mod.Dependencies[i]
			dep.Scope = c.classify(dep.Target)

			edges.Dependencies = append(edges.Dependencies, dep.Target)
			report.Summary.TotalDependencies++

			root := rootComponent(dep.Target)
			switch dep.Scope {
			case types.ScopeInternal:
				report.Summary.InternalDependencies++
				resolved := c.resolveInternal(name, dep.Target)
				if resolved != "" && resolved != name && !internalSeen[resolved] {
					internalSeen[resolved] = true
					edges.InternalDeps = append(edges.InternalDeps, resolved)
				}
			case types.ScopeExternal:
				report.Summary.ExternalDependencies++
				externals[root] = true
				edges.ExternalDeps = appendUnique(edges.ExternalDeps, root)
			case types.ScopeBuiltin:
				report.Summary.BuiltinDependencies++
				builtins[root] = true
				edges.BuiltinDeps = appendUnique(edges.BuiltinDeps, root)
			}

			if u, ok := usage[dep.Target]; ok {
				u.Count++
			} else {
				usage[dep.Target] = &types.DependencyUsage{
					Name:  dep.Target,
					Count: 1,
					Scope: dep.Scope,
					Kind:  dep.Kind,
				}
			}
		}
	}
	report.Summary.TotalModules = len(report.Modules)

	// Dependents is the exact transpose of the internal edges.
	for name, edges := range report.Graph {
		for _, dep := range edges.InternalDeps {
			if target, ok := report.Graph[dep]; ok {
				target.Dependents = append(target.Dependents, name)
			}
		}
	}
	for _, edges := range report.Graph {
		sort.Strings(edges.Dependents)
	}

	report.Cycles = detectCycles(report.Graph)
	report.Coupling, report.CouplingAvg = computeCoupling(report.Graph)
	report.Orphans = findOrphans(report.Graph)
	report.TopDependencies = topUsage(usage, m.cfg.Analysis.TopDependencies)
	report.ExternalLibraries = sortedKeys(externals)
	report.BuiltinModules = sortedKeys(builtins)
}

// topUsage ranks dependency targets by use count, ties broken by name.
func topUsage(usage map[string]*types.DependencyUsage, limit int) []types.DependencyUsage {
	ranked := make([]types.DependencyUsage, 0, len(usage))
	for _, u := range usage {
		ranked = append(ranked, *u)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func appendUnique(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func emptyReport() *types.ProjectReport {
	return &types.ProjectReport{
		Empty:   true,
		Modules: make(map[string]*types.ModuleInfo),
		Graph:   make(types.DependencyGraph),
	}
}

// InvalidateFile drops one path from the module cache, used by watch mode
// when a file changes under the analyzer.
func (m *Mapper) InvalidateFile(path string) {
	m.cache.Invalidate(path)
}
