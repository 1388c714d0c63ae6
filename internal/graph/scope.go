package graph

import (
	"strings"

	"github.com/standardbeagle/pyscope/internal/types"
)

// stdlibModules lists the standard library roots an import target is checked
// against. Classification looks at the root component only, so "os.path"
// and "collections.abc" land in the builtin bucket with their parents.
var stdlibModules = map[string]bool{
	"os": true, "sys": true, "json": true, "datetime": true, "pathlib": true,
	"typing": true, "re": true, "collections": true, "itertools": true,
	"functools": true, "operator": true, "math": true, "random": true,
	"string": true, "time": true, "urllib": true, "http": true, "email": true,
	"html": true, "xml": true, "csv": true, "sqlite3": true, "logging": true,
	"unittest": true, "argparse": true, "configparser": true, "io": true,
	"tempfile": true, "shutil": true, "glob": true, "fnmatch": true,
	"pickle": true, "copy": true, "pprint": true, "textwrap": true,
	"unicodedata": true, "codecs": true, "base64": true, "binascii": true,
	"struct": true, "array": true, "weakref": true, "gc": true,
	"inspect": true, "dis": true, "ast": true, "keyword": true,
	"token": true, "tokenize": true, "traceback": true,
}

// classifier resolves import targets against the set of project modules.
type classifier struct {
	modules map[string]bool
}

func newClassifier(moduleNames []string) *classifier {
	modules := make(map[string]bool, len(moduleNames))
	for _, name := range moduleNames {
		modules[name] = true
	}
	return &classifier{modules: modules}
}

// classify buckets one import target. Builtin wins on the root component;
// anything matching a project module (exactly or as a dotted prefix) or
// written relative is internal; the rest is external.
func (c *classifier) classify(target string) types.DependencyScope {
	if target == "" {
		return types.ScopeExternal
	}
	if strings.HasPrefix(target, ".") {
		return types.ScopeInternal
	}
	root := target
	if idx := strings.Index(target, "."); idx >= 0 {
		root = target[:idx]
	}
	if stdlibModules[root] {
		return types.ScopeBuiltin
	}
	if c.matchModule(target) != "" {
		return types.ScopeInternal
	}
	return types.ScopeExternal
}

// matchModule returns the longest project module that the target names,
// either exactly or as the package of a deeper symbol path.
func (c *classifier) matchModule(target string) string {
	if c.modules[target] {
		return target
	}
	best := ""
	for name := range c.modules {
		if strings.HasPrefix(target, name+".") && len(name) > len(best) {
			best = name
		}
	}
	return best
}

// resolveInternal turns an import target into a project module name, or ""
// when no module matches. Relative targets are anchored at the importing
// module's package, one extra leading dot per parent hop.
func (c *classifier) resolveInternal(source, target string) string {
	if !strings.HasPrefix(target, ".") {
		return c.matchModule(target)
	}

	dots := 0
	for dots < len(target) && target[dots] == '.' {
		dots++
	}
	rest := target[dots:]

	parts := strings.Split(source, ".")
	// One dot addresses the current package, each further dot a parent.
	keep := len(parts) - dots
	if keep < 0 {
		return ""
	}
	base := strings.Join(parts[:keep], ".")

	absolute := rest
	if base != "" && rest != "" {
		absolute = base + "." + rest
	} else if base != "" {
		absolute = base
	}
	return c.matchModule(absolute)
}

// rootComponent returns the first dotted segment of a target.
func rootComponent(target string) string {
	trimmed := strings.TrimLeft(target, ".")
	if idx := strings.Index(trimmed, "."); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
