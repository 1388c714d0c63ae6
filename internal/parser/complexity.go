package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/pyscope/internal/types"
)

// Branch-node accounting shared by the per-function and whole-file scores.
// Chained boolean operators nest in the tree, so counting boolean_operator
// nodes yields one decision point per `and`/`or`, the same as counting
// operands minus one.

func isBranchNode(kind string) bool {
	switch kind {
	case "if_statement", "elif_clause", "while_statement",
		"for_statement", "with_statement", "except_clause":
		return true
	}
	return false
}

// countCyclomatic computes cyclomatic complexity for one subtree:
// 1 + branch nodes + boolean operators, at any nesting depth.
func countCyclomatic(n *tree_sitter.Node) int {
	count := 1
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		kind := n.Kind()
		if isBranchNode(kind) || kind == "boolean_operator" {
			count++
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(n)
	return count
}

// measureFile computes the whole-file complexity profile in one pass.
// Cognitive complexity charges each branch 1 plus its nesting level;
// with-statements raise the level but cost nothing themselves.
func measureFile(root *tree_sitter.Node, functions, classes int) types.FileComplexity {
	fc := types.FileComplexity{
		Cyclomatic:    1,
		FunctionCount: functions,
		ClassCount:    classes,
	}

	var walk func(n *tree_sitter.Node, level, depth int)
	walk = func(n *tree_sitter.Node, level, depth int) {
		if n == nil {
			return
		}
		kind := n.Kind()

		switch kind {
		case "if_statement", "elif_clause", "while_statement", "for_statement", "except_clause":
			fc.Cyclomatic++
			fc.Cognitive += 1 + level
			level++
		case "with_statement":
			fc.Cyclomatic++
			level++
		case "boolean_operator":
			fc.Cyclomatic++
		}

		switch kind {
		case "if_statement", "while_statement", "for_statement",
			"with_statement", "function_definition", "class_definition":
			depth++
			if depth > fc.MaxNesting {
				fc.MaxNesting = depth
			}
		}

		for i := uint(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i), level, depth)
		}
	}
	walk(root, 0, 0)

	fc.Level = types.LevelForComplexity(fc.Cyclomatic)
	return fc
}
