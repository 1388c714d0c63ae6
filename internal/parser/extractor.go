package parser

import (
	"os"
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
	"github.com/standardbeagle/pyscope/internal/types"
)

var constantNamePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Extractor turns Python source files into ModuleInfo symbol models.
// It is stateless apart from the shared grammar and safe for concurrent use.
type Extractor struct {
	parser *Parser
}

// NewExtractor creates an extractor with a freshly loaded Python grammar.
func NewExtractor() (*Extractor, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return &Extractor{parser: p}, nil
}

// ExtractFile reads and extracts a single file from disk.
func (e *Extractor) ExtractFile(path, moduleName string) (*types.ModuleInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, pserrors.NewFileError("read", path, err)
	}
	return e.ExtractModule(content, path, moduleName)
}

// ExtractModule parses content and builds the full symbol model in a single
// pass over the syntax tree: imports, exports, functions, classes, variables,
// dependency edges, and the whole-file complexity profile. Dependency scopes
// are left empty here; classification needs the full project module universe.
func (e *Extractor) ExtractModule(content []byte, path, moduleName string) (*types.ModuleInfo, error) {
	tree, err := e.parser.Parse(content, path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()

	mod := &types.ModuleInfo{
		Path:      path,
		Name:      moduleName,
		Docstring: docstringOf(root, content),
	}

	ctx := &extractContext{src: content, mod: mod}
	ctx.walkBody(root, nil, true)

	mod.RawImports = ctx.rawImports
	mod.Exports = ctx.exports()
	mod.Complexity = measureFile(root, len(mod.Functions), len(mod.Classes))

	attachCallDependencies(mod)
	return mod, nil
}

// extractContext accumulates state while walking one module tree.
type extractContext struct {
	src        []byte
	mod        *types.ModuleInfo
	rawImports []string
	rawSeen    map[string]bool
	allExports []string // __all__ contents, nil when absent
}

// walkBody visits the statements of a module, class body or function body.
// class is non-nil while visiting a class body; topLevel is true only for
// direct children of the module node.
func (c *extractContext) walkBody(body *tree_sitter.Node, class *types.Class, topLevel bool) {
	if body == nil {
		return
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		c.walkStatement(body.NamedChild(i), class, topLevel, nil)
	}
}

func (c *extractContext) walkStatement(n *tree_sitter.Node, class *types.Class, topLevel bool, decorators []string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "import_statement":
		c.addPlainImport(n)

	case "import_from_statement":
		c.addFromImport(n)

	case "decorated_definition":
		decs := collectDecorators(n, c.src)
		c.walkStatement(n.ChildByFieldName("definition"), class, topLevel, decs)

	case "function_definition":
		fn := extractFunction(n, c.src, decorators, class != nil)
		c.mod.Functions = append(c.mod.Functions, fn)
		if class != nil {
			class.Methods = append(class.Methods, fn)
		}
		// Nested defs are still part of the module symbol table.
		c.walkBody(n.ChildByFieldName("body"), nil, false)

	case "class_definition":
		cls := extractClassShell(n, c.src, decorators)
		c.addInheritanceDeps(&cls, n)
		c.walkBody(n.ChildByFieldName("body"), &cls, false)
		cls.IsAbstract = classIsAbstract(&cls)
		c.mod.Classes = append(c.mod.Classes, cls)

	case "expression_statement":
		if topLevel {
			c.addTopLevelAssignment(n)
		}

	case "if_statement", "while_statement", "for_statement", "with_statement", "try_statement":
		// Defs hidden under module-level control flow still count as symbols,
		// mirroring a whole-tree walk. Assignments inside them do not.
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			switch child.Kind() {
			case "block":
				c.walkBody(child, class, false)
			case "elif_clause", "else_clause", "except_clause", "finally_clause":
				c.walkBody(child.ChildByFieldName("body"), class, false)
				if b := lastBlockChild(child); b != nil && child.ChildByFieldName("body") == nil {
					c.walkBody(b, class, false)
				}
			}
		}
	}
}

// lastBlockChild finds a clause's block when the grammar exposes it as a
// plain child rather than a named field.
func lastBlockChild(n *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child.Kind() == "block" {
			return child
		}
	}
	return nil
}

// addPlainImport handles `import a.b, c as d`.
func (c *extractContext) addPlainImport(n *tree_sitter.Node) {
	line := startLine(n)
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "dotted_name":
			module := nodeText(child, c.src)
			c.mod.Imports = append(c.mod.Imports, types.Import{Module: module, Line: line})
			c.addRawImport(module)
			c.addImportDep(module, line)
		case "aliased_import":
			module := nodeText(child.ChildByFieldName("name"), c.src)
			alias := nodeText(child.ChildByFieldName("alias"), c.src)
			c.mod.Imports = append(c.mod.Imports, types.Import{Module: module, Alias: alias, Line: line})
			c.addRawImport(module)
			c.addImportDep(module, line)
		}
	}
}

// addFromImport handles `from a.b import x, y as z` and relative forms.
func (c *extractContext) addFromImport(n *tree_sitter.Node) {
	line := startLine(n)
	modNode := n.ChildByFieldName("module_name")
	module := nodeText(modNode, c.src)

	// `from . import x` has no module to depend on by itself; the edge
	// belongs to the qualified names instead.
	dotsOnly := module != "" && strings.Trim(module, ".") == ""
	if module != "" && !dotsOnly {
		c.addRawImport(module)
		c.addImportDep(module, line)
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if modNode != nil && child.StartByte() == modNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			name := nodeText(child, c.src)
			c.mod.Imports = append(c.mod.Imports, types.Import{
				Module: module, Names: []string{name}, Line: line, IsFromStyle: true,
			})
			c.addRawImport(qualify(module, name))
			c.addImportDep(qualify(module, name), line)
		case "aliased_import":
			name := nodeText(child.ChildByFieldName("name"), c.src)
			alias := nodeText(child.ChildByFieldName("alias"), c.src)
			c.mod.Imports = append(c.mod.Imports, types.Import{
				Module: module, Names: []string{name}, Alias: alias, Line: line, IsFromStyle: true,
			})
			c.addRawImport(qualify(module, name))
			c.addImportDep(qualify(module, name), line)
		case "wildcard_import":
			c.mod.Imports = append(c.mod.Imports, types.Import{
				Module: module, Names: []string{"*"}, Line: line, IsFromStyle: true,
			})
		}
	}
}

func qualify(module, name string) string {
	if module == "" {
		return name
	}
	if strings.HasSuffix(module, ".") {
		return module + name
	}
	return module + "." + name
}

func (c *extractContext) addRawImport(target string) {
	if c.rawSeen == nil {
		c.rawSeen = make(map[string]bool)
	}
	if target == "" || c.rawSeen[target] {
		return
	}
	c.rawSeen[target] = true
	c.rawImports = append(c.rawImports, target)
}

func (c *extractContext) addImportDep(target string, line int) {
	c.mod.Dependencies = append(c.mod.Dependencies, types.Dependency{
		Source: c.mod.Name,
		Target: target,
		Kind:   types.DepImport,
		Line:   line,
	})
}

func (c *extractContext) addInheritanceDeps(cls *types.Class, n *tree_sitter.Node) {
	line := startLine(n)
	for _, base := range cls.Bases {
		c.mod.Dependencies = append(c.mod.Dependencies, types.Dependency{
			Source:  c.mod.Name,
			Target:  base,
			Kind:    types.DepInheritance,
			Line:    line,
			Context: cls.Name,
		})
	}
}

// addTopLevelAssignment records module-level variables and captures __all__.
func (c *extractContext) addTopLevelAssignment(stmt *tree_sitter.Node) {
	for i := uint(0); i < stmt.NamedChildCount(); i++ {
		assign := stmt.NamedChild(i)
		if assign.Kind() != "assignment" {
			continue
		}
		left := assign.ChildByFieldName("left")
		right := assign.ChildByFieldName("right")
		annotation := assign.ChildByFieldName("type")
		if left == nil {
			continue
		}

		for _, name := range assignedNames(left, c.src) {
			if name == "__all__" {
				c.allExports = stringListElements(right, c.src)
				continue
			}
			c.mod.Variables = append(c.mod.Variables, types.Variable{
				Name:       name,
				Type:       inferValueType(right, annotation, c.src),
				Line:       startLine(assign),
				IsConstant: constantNamePattern.MatchString(name),
			})
		}
	}
}

// assignedNames collects plain identifier targets from an assignment left side.
func assignedNames(left *tree_sitter.Node, src []byte) []string {
	switch left.Kind() {
	case "identifier":
		return []string{nodeText(left, src)}
	case "pattern_list", "tuple_pattern":
		var names []string
		for i := uint(0); i < left.NamedChildCount(); i++ {
			if child := left.NamedChild(i); child.Kind() == "identifier" {
				names = append(names, nodeText(child, src))
			}
		}
		return names
	default:
		// Subscript and attribute targets are not module variables.
		return nil
	}
}

// stringListElements extracts the string contents of a list or tuple literal.
func stringListElements(n *tree_sitter.Node, src []byte) []string {
	out := []string{}
	if n == nil {
		return out
	}
	if n.Kind() != "list" && n.Kind() != "tuple" {
		return out
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "string" {
			out = append(out, stringContent(child, src))
		}
	}
	return out
}

// inferValueType maps a literal node to a Python type name. An annotation,
// when present, wins over inference.
func inferValueType(value, annotation *tree_sitter.Node, src []byte) string {
	if annotation != nil {
		return nodeText(annotation, src)
	}
	if value == nil {
		return "unknown"
	}
	switch value.Kind() {
	case "string", "concatenated_string":
		return "str"
	case "integer":
		return "int"
	case "float":
		return "float"
	case "true", "false":
		return "bool"
	case "none":
		return "NoneType"
	case "list", "list_comprehension":
		return "list"
	case "dictionary", "dictionary_comprehension":
		return "dict"
	case "set", "set_comprehension":
		return "set"
	case "tuple":
		return "tuple"
	case "call":
		return nodeText(value.ChildByFieldName("function"), src)
	default:
		return "unknown"
	}
}

// exports returns __all__ verbatim when declared, otherwise every public
// top-level name in definition order.
func (c *extractContext) exports() []string {
	if c.allExports != nil {
		return c.allExports
	}
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || strings.HasPrefix(name, "_") || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, f := range c.mod.TopLevelFunctions() {
		add(f.Name)
	}
	for _, cls := range c.mod.Classes {
		add(cls.Name)
	}
	for _, v := range c.mod.Variables {
		add(v.Name)
	}
	return out
}

// attachCallDependencies turns each function's resolved call targets into
// dependency edges attributed to the enclosing function.
func attachCallDependencies(mod *types.ModuleInfo) {
	for _, fn := range mod.Functions {
		for _, target := range fn.Calls {
			mod.Dependencies = append(mod.Dependencies, types.Dependency{
				Source:  mod.Name,
				Target:  target,
				Kind:    types.DepCall,
				Line:    fn.LineStart,
				Context: fn.Name,
			})
		}
	}
}

// docstringOf returns the cleaned docstring of a module, class or function
// body node: the leading expression statement holding a bare string literal.
func docstringOf(body *tree_sitter.Node, src []byte) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Kind() != "string" {
		return ""
	}
	return cleanDocstring(stringContent(str, src))
}

// stringContent concatenates the content fragments of a string node,
// dropping quote and prefix tokens.
func stringContent(str *tree_sitter.Node, src []byte) string {
	var b strings.Builder
	for i := uint(0); i < str.ChildCount(); i++ {
		child := str.Child(i)
		if child.Kind() == "string_content" || child.Kind() == "escape_sequence" {
			b.WriteString(nodeText(child, src))
		}
	}
	return b.String()
}

// cleanDocstring normalizes indentation the way inspect.cleandoc does:
// the first line keeps its own leading whitespace trimmed, continuation
// lines lose their common indent, and blank edges are dropped.
func cleanDocstring(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 0 {
		return ""
	}
	lines[0] = strings.TrimSpace(lines[0])

	indent := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		level := len(line) - len(trimmed)
		if indent < 0 || level < indent {
			indent = level
		}
	}
	for i, line := range lines[1:] {
		if indent > 0 && len(line) >= indent {
			lines[i+1] = line[indent:]
		} else {
			lines[i+1] = strings.TrimLeft(line, " \t")
		}
		lines[i+1] = strings.TrimRight(lines[i+1], " \t")
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
