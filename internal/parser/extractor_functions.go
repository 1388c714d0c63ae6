package parser

import (
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/pyscope/internal/types"
)

// extractFunction builds the Function model for one def node. decorators come
// from an enclosing decorated_definition, isMethod marks defs that are direct
// children of a class body.
func extractFunction(n *tree_sitter.Node, src []byte, decorators []string, isMethod bool) types.Function {
	body := n.ChildByFieldName("body")

	fn := types.Function{
		Name:             nodeText(n.ChildByFieldName("name"), src),
		LineStart:        startLine(n),
		LineEnd:          endLine(n),
		Params:           extractParameters(n.ChildByFieldName("parameters"), src),
		ReturnAnnotation: nodeText(n.ChildByFieldName("return_type"), src),
		Docstring:        docstringOf(body, src),
		Complexity:       countCyclomatic(body),
		Calls:            collectCalls(body, src),
		Decorators:       decorators,
		IsAsync:          isAsyncDef(n),
		IsGenerator:      containsYield(body),
		IsMethod:         isMethod,
	}

	for _, dec := range decorators {
		switch {
		case dec == "staticmethod" || strings.HasSuffix(dec, ".staticmethod"):
			fn.IsStatic = true
		case dec == "classmethod" || strings.HasSuffix(dec, ".classmethod"):
			fn.IsClassMethod = true
		}
	}
	return fn
}

// collectDecorators reads the decorator list of a decorated_definition,
// returning the expression text without the leading @.
func collectDecorators(n *tree_sitter.Node, src []byte) []string {
	var out []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(nodeText(child, src), "@")
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

func isAsyncDef(n *tree_sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == "async" {
			return true
		}
		if child.Kind() == "def" {
			break
		}
	}
	return false
}

// extractParameters walks a parameters node in source order. Everything
// before a bare * separator binds positionally; keyword-only parameters and
// parameters carrying defaults are classified as keyword.
func extractParameters(params *tree_sitter.Node, src []byte) []types.Parameter {
	if params == nil {
		return nil
	}
	var out []types.Parameter
	keywordOnly := false

	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			out = append(out, types.Parameter{
				Name: nodeText(child, src),
				Kind: positionalOr(keywordOnly),
			})
		case "typed_parameter":
			out = append(out, types.Parameter{
				Name:       firstIdentifierText(child, src),
				Kind:       positionalOr(keywordOnly),
				Annotation: nodeText(child.ChildByFieldName("type"), src),
			})
		case "default_parameter":
			out = append(out, types.Parameter{
				Name:    nodeText(child.ChildByFieldName("name"), src),
				Kind:    types.ParamKeyword,
				Default: nodeText(child.ChildByFieldName("value"), src),
			})
		case "typed_default_parameter":
			out = append(out, types.Parameter{
				Name:       nodeText(child.ChildByFieldName("name"), src),
				Kind:       types.ParamKeyword,
				Annotation: nodeText(child.ChildByFieldName("type"), src),
				Default:    nodeText(child.ChildByFieldName("value"), src),
			})
		case "list_splat_pattern":
			out = append(out, types.Parameter{
				Name: firstIdentifierText(child, src),
				Kind: types.ParamVarPositional,
			})
			keywordOnly = true
		case "dictionary_splat_pattern":
			out = append(out, types.Parameter{
				Name: firstIdentifierText(child, src),
				Kind: types.ParamVarKeyword,
			})
		case "keyword_separator":
			keywordOnly = true
		case "positional_separator":
			// The / marker; parameters before it were already positional.
		}
	}
	return out
}

func positionalOr(keywordOnly bool) types.ParameterKind {
	if keywordOnly {
		return types.ParamKeyword
	}
	return types.ParamPositional
}

// firstIdentifierText finds the identifier inside wrapper nodes such as
// typed_parameter and splat patterns.
func firstIdentifierText(n *tree_sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "identifier" {
		return nodeText(n, src)
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if text := firstIdentifierText(n.NamedChild(i), src); text != "" {
			return text
		}
	}
	return ""
}

// collectCalls gathers the deduplicated, sorted call targets in a function
// body. Bare calls resolve to the callee name; attribute calls resolve to
// the rightmost attribute.
func collectCalls(body *tree_sitter.Node, src []byte) []string {
	seen := make(map[string]bool)
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "call" {
			if target := callTarget(n.ChildByFieldName("function"), src); target != "" {
				seen[target] = true
			}
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for target := range seen {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

func callTarget(fn *tree_sitter.Node, src []byte) string {
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return nodeText(fn, src)
	case "attribute":
		return nodeText(fn.ChildByFieldName("attribute"), src)
	default:
		return ""
	}
}

// containsYield reports whether a body yields without descending into nested
// defs or lambdas, matching the scoping rule that makes a function a
// generator.
func containsYield(body *tree_sitter.Node) bool {
	if body == nil {
		return false
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		switch child.Kind() {
		case "yield":
			return true
		case "function_definition", "lambda":
			continue
		default:
			if containsYield(child) {
				return true
			}
		}
	}
	return false
}
