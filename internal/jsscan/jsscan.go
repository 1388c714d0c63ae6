// Package jsscan provides a line-oriented structural scan of JavaScript and
// TypeScript sources. It is a heuristic: declarations are matched by regular
// expressions at the start of a line, which covers conventional formatting
// but not minified or deeply nested code. Python files get the full
// syntax-tree treatment; this exists so mixed projects can at least inventory
// their frontend modules.
package jsscan

import (
	"os"
	"regexp"
	"strings"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
)

// FileStructure is the scanned outline of one JS/TS file.
type FileStructure struct {
	Path      string     `json:"path"`
	Functions []Symbol   `json:"functions"`
	Classes   []Symbol   `json:"classes"`
	Imports   []ImportJS `json:"imports"`
	Exports   []string   `json:"exports"`
}

// Symbol is one matched declaration.
type Symbol struct {
	Name    string `json:"name"`
	Line    int    `json:"line"`
	IsAsync bool   `json:"is_async,omitempty"`
	IsArrow bool   `json:"is_arrow,omitempty"`
}

// ImportJS is one matched import statement.
type ImportJS struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
}

var (
	funcDecl  = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`)
	arrowDecl = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`)
	classDecl = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	importSrc = regexp.MustCompile(`^\s*import\s+(?:[^'"]*\s+from\s+)?['"]([^'"]+)['"]`)
	requireRe = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	exportRe  = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function\s*\*?\s*|class\s+|const\s+|let\s+|var\s+)?([A-Za-z_$][\w$]*)`)
)

// ScanFile reads and scans one file from disk.
func ScanFile(path string) (*FileStructure, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, pserrors.NewFileError("read", path, err)
	}
	return Scan(content, path), nil
}

// Scan outlines the declarations found in content.
func Scan(content []byte, path string) *FileStructure {
	fs := &FileStructure{Path: path}
	seenExports := make(map[string]bool)

	for i, line := range strings.Split(string(content), "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
			continue
		}

		if m := funcDecl.FindStringSubmatch(line); m != nil {
			fs.Functions = append(fs.Functions, Symbol{
				Name: m[2], Line: lineNo, IsAsync: m[1] != "",
			})
		} else if m := arrowDecl.FindStringSubmatch(line); m != nil {
			fs.Functions = append(fs.Functions, Symbol{
				Name: m[1], Line: lineNo, IsAsync: m[2] != "", IsArrow: true,
			})
		}

		if m := classDecl.FindStringSubmatch(line); m != nil {
			fs.Classes = append(fs.Classes, Symbol{Name: m[1], Line: lineNo})
		}

		if m := importSrc.FindStringSubmatch(line); m != nil {
			fs.Imports = append(fs.Imports, ImportJS{Source: m[1], Line: lineNo})
		}
		for _, m := range requireRe.FindAllStringSubmatch(line, -1) {
			fs.Imports = append(fs.Imports, ImportJS{Source: m[1], Line: lineNo})
		}

		if m := exportRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if name != "" && !seenExports[name] {
				seenExports[name] = true
				fs.Exports = append(fs.Exports, name)
			}
		}
	}
	return fs
}

// IsScannable reports whether a path looks like a JS/TS source file.
func IsScannable(path string) bool {
	for _, ext := range []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
