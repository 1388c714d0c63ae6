package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/pyscope/internal/types"
)

// extractClassShell builds the class model minus its methods, which the
// body walk fills in so nested defs land in the module symbol table too.
func extractClassShell(n *tree_sitter.Node, src []byte, decorators []string) types.Class {
	body := n.ChildByFieldName("body")

	return types.Class{
		Name:       nodeText(n.ChildByFieldName("name"), src),
		LineStart:  startLine(n),
		LineEnd:    endLine(n),
		Bases:      extractBases(n.ChildByFieldName("superclasses"), src),
		Attributes: extractClassAttributes(body, src),
		Docstring:  docstringOf(body, src),
		Decorators: decorators,
	}
}

// extractBases reads the superclass argument list, skipping keyword
// arguments such as metaclass=... which are not inheritance edges.
func extractBases(args *tree_sitter.Node, src []byte) []string {
	if args == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		switch child.Kind() {
		case "identifier", "attribute", "subscript":
			bases = append(bases, nodeText(child, src))
		}
	}
	return bases
}

// extractClassAttributes collects names assigned directly in the class body.
func extractClassAttributes(body *tree_sitter.Node, src []byte) []string {
	if body == nil {
		return nil
	}
	var attrs []string
	seen := make(map[string]bool)
	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}
		for j := uint(0); j < stmt.NamedChildCount(); j++ {
			assign := stmt.NamedChild(j)
			if assign.Kind() != "assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil {
				continue
			}
			for _, name := range assignedNames(left, src) {
				if !seen[name] {
					seen[name] = true
					attrs = append(attrs, name)
				}
			}
		}
	}
	return attrs
}

// classIsAbstract applies the usual heuristics once methods are known: any
// base naming abc/abstract, or any abstractmethod-decorated method.
func classIsAbstract(cls *types.Class) bool {
	for _, base := range cls.Bases {
		lower := strings.ToLower(base)
		if strings.Contains(lower, "abc") || strings.Contains(lower, "abstract") {
			return true
		}
	}
	for _, m := range cls.Methods {
		for _, dec := range m.Decorators {
			if dec == "abstractmethod" || strings.HasSuffix(dec, ".abstractmethod") {
				return true
			}
		}
	}
	return false
}
