package parser

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
)

// Parser owns the tree-sitter Python grammar and turns source text into a
// concrete syntax tree. Each Parse call creates its own tree-sitter parser
// instance, so a Parser is safe for concurrent use.
type Parser struct {
	language *tree_sitter.Language
}

// NewParser creates a parser bound to the Python grammar.
func NewParser() (*Parser, error) {
	language := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if language == nil {
		return nil, fmt.Errorf("failed to load python grammar")
	}
	return &Parser{language: language}, nil
}

// Parse produces the syntax tree for content. A tree containing syntax
// errors yields a ParseError locating the first error node; callers that
// drive a project scan are expected to skip the file and continue.
// The returned tree must be closed by the caller.
func (p *Parser) Parse(content []byte, path string) (*tree_sitter.Tree, error) {
	tsParser := tree_sitter.NewParser()
	defer tsParser.Close()

	if err := tsParser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set python grammar: %w", err)
	}

	tree := tsParser.Parse(content, nil)
	if tree == nil {
		return nil, pserrors.NewParseError(path, 1, 0, "parser returned no tree")
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, pserrors.NewParseError(path, 1, 0, "parser returned no root node")
	}

	if root.HasError() {
		line, column, message := firstSyntaxError(root)
		tree.Close()
		return nil, pserrors.NewParseError(path, line, column, message)
	}

	return tree, nil
}

// firstSyntaxError locates the first ERROR or missing node in source order.
func firstSyntaxError(root *tree_sitter.Node) (line, column int, message string) {
	var found *tree_sitter.Node
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return
		}
		if !n.HasError() {
			// Error is not in this subtree; skip it entirely.
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	if found == nil {
		return 1, 0, "invalid syntax"
	}

	point := found.StartPosition()
	if found.IsMissing() {
		return int(point.Row) + 1, int(point.Column), fmt.Sprintf("missing %s", found.Kind())
	}
	return int(point.Row) + 1, int(point.Column), "invalid syntax"
}

// nodeText returns the source text a node spans.
func nodeText(n *tree_sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start > end || end > uint(len(src)) {
		return ""
	}
	return string(src[start:end])
}

// startLine returns the 1-based first line of a node.
func startLine(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// endLine returns the 1-based last line of a node.
func endLine(n *tree_sitter.Node) int {
	return int(n.EndPosition().Row) + 1
}
