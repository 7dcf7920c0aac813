package parser

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/ast"
	"fmt"
	"log/slog"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxNestingDepth bounds the recursive conversion of pathological input.
const maxNestingDepth = 10000

// nodeHandler converts one concrete syntax node. It returns zero or more
// AST nodes: a declaration with several declarators yields several VAR_DECLs,
// transparent wrappers yield their children.
type nodeHandler func(c *converter, n *sitter.Node) []*ast.Node

// Concrete nodes with no AST counterpart. Their subtrees are dropped.
var ignoredKinds = map[string]bool{
	"comment":                 true,
	"preproc_include":         true,
	"preproc_def":             true,
	"preproc_function_def":    true,
	"preproc_call":            true,
	"storage_class_specifier": true,
	"type_qualifier":          true,
	"primitive_type":          true,
	"sized_type_specifier":    true,
	"attribute_specifier":     true,
	"attribute_declaration":   true,
	"ms_declspec_modifier":    true,
	"statement_identifier":    true,
	"field_identifier":        true,
	"field_designator":        true,
	"subscript_designator":    true,
}

var declaratorKinds = map[string]bool{
	"identifier":               true,
	"field_identifier":         true,
	"type_identifier":          true,
	"init_declarator":          true,
	"pointer_declarator":       true,
	"array_declarator":         true,
	"function_declarator":      true,
	"parenthesized_declarator": true,
	"attributed_declarator":    true,
}

// converter maps the tree-sitter C syntax tree onto the clang-shaped AST:
// functions own their PARM_DECLs and body, block-scope declarations sit in
// DECL_STMTs, and calls carry the callee name as their spelling.
type converter struct {
	source     []byte
	path       string
	handlers   map[string]nodeHandler
	blockDepth int
	depth      int
	errorNodes int
	err        error
}

func newConverter(path string, source []byte) *converter {
	c := &converter{source: source, path: path}
	c.handlers = map[string]nodeHandler{
		"function_definition":         (*converter).functionDefinition,
		"declaration":                 (*converter).declaration,
		"type_definition":             (*converter).typeDefinition,
		"struct_specifier":            (*converter).tagSpecifier,
		"union_specifier":             (*converter).tagSpecifier,
		"enum_specifier":              (*converter).tagSpecifier,
		"field_declaration":           (*converter).fieldDeclaration,
		"enumerator":                  (*converter).enumerator,
		"compound_statement":          stmtHandler(ast.KindCompoundStmt),
		"if_statement":                conditionalHandler(ast.KindIfStmt),
		"while_statement":             conditionalHandler(ast.KindWhileStmt),
		"do_statement":                conditionalHandler(ast.KindDoStmt),
		"switch_statement":            conditionalHandler(ast.KindSwitchStmt),
		"for_statement":               stmtHandler(ast.KindForStmt),
		"return_statement":            stmtHandler(ast.KindReturnStmt),
		"break_statement":             stmtHandler(ast.KindBreakStmt),
		"continue_statement":          stmtHandler(ast.KindContinueStmt),
		"case_statement":              (*converter).caseStatement,
		"goto_statement":              (*converter).gotoStatement,
		"labeled_statement":           (*converter).labeledStatement,
		"expression_statement":        (*converter).expressionStatement,
		"call_expression":             (*converter).callExpression,
		"identifier":                  (*converter).identifier,
		"field_expression":            (*converter).fieldExpression,
		"number_literal":              (*converter).numberLiteral,
		"string_literal":              literalHandler(ast.KindStringLiteral),
		"concatenated_string":         literalHandler(ast.KindStringLiteral),
		"char_literal":                literalHandler(ast.KindCharacterLiteral),
		"binary_expression":           stmtHandler(ast.KindBinaryOperator),
		"assignment_expression":       stmtHandler(ast.KindBinaryOperator),
		"comma_expression":            stmtHandler(ast.KindBinaryOperator),
		"unary_expression":            stmtHandler(ast.KindUnaryOperator),
		"pointer_expression":          stmtHandler(ast.KindUnaryOperator),
		"update_expression":           stmtHandler(ast.KindUnaryOperator),
		"sizeof_expression":           stmtHandler(ast.KindUnaryOperator),
		"alignof_expression":          stmtHandler(ast.KindUnaryOperator),
		"subscript_expression":        stmtHandler(ast.KindArraySubscriptExpr),
		"parenthesized_expression":    stmtHandler(ast.KindParenExpr),
		"conditional_expression":      stmtHandler(ast.KindConditionalOperator),
		"cast_expression":             stmtHandler(ast.KindCStyleCastExpr),
		"initializer_list":            stmtHandler(ast.KindInitListExpr),
		"compound_literal_expression": stmtHandler(ast.KindUnexposedExpr),
		"initializer_pair":            (*converter).initializerPair,
		"type_descriptor":             (*converter).typeDescriptor,
		"type_identifier":             (*converter).typeIdentifier,
		"ERROR":                       (*converter).errorNode,
		"preproc_if":                  (*converter).preprocBlock,
		"preproc_ifdef":               (*converter).preprocBlock,
		"preproc_elif":                (*converter).preprocBlock,
		"preproc_elifdef":             (*converter).preprocBlock,
		"preproc_else":                (*converter).preprocBlock,
	}
	return c
}

func (c *converter) translationUnit(root *sitter.Node) (*ast.Node, error) {
	children := c.convertChildren(root)
	if c.err != nil {
		return nil, c.err
	}
	if c.errorNodes > 0 {
		slog.Debug("syntax errors converted to unexposed nodes", "path", c.path, "count", c.errorNodes)
	}
	return ast.New(ast.Attrs{Kind: ast.KindTranslationUnit, Spelling: c.path}, children...), nil
}

func (c *converter) convert(n *sitter.Node) []*ast.Node {
	if n == nil || c.err != nil || !n.IsNamed() || n.IsMissing() {
		return nil
	}
	if ignoredKinds[n.Kind()] {
		return nil
	}

	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxNestingDepth {
		c.err = errors.New(errors.CodeParseFailure, fmt.Sprintf("source nests deeper than %d levels", maxNestingDepth))
		return nil
	}

	if handler, ok := c.handlers[n.Kind()]; ok {
		return handler(c, n)
	}
	// Unknown wrappers (else_clause, argument_list, ...) are transparent.
	return c.convertChildren(n)
}

// convertChildren converts the named children of n in order, leaving out
// any child listed in skip.
func (c *converter) convertChildren(n *sitter.Node, skip ...*sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	var out []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || containsNode(skip, child) {
			continue
		}
		out = append(out, c.convert(child)...)
	}
	return out
}

func stmtHandler(kind ast.Kind) nodeHandler {
	return func(c *converter, n *sitter.Node) []*ast.Node {
		return one(c.node(kind, "", n, c.convertChildren(n)...))
	}
}

// conditionalHandler drops the parentheses around if/while/do/switch
// conditions; they are syntax of the statement, not a PAREN_EXPR.
func conditionalHandler(kind ast.Kind) nodeHandler {
	return func(c *converter, n *sitter.Node) []*ast.Node {
		cond := n.ChildByFieldName("condition")
		var children []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			if cond != nil && sameNode(child, cond) && child.Kind() == "parenthesized_expression" {
				children = append(children, c.convertChildren(child)...)
				continue
			}
			children = append(children, c.convert(child)...)
		}
		return one(c.node(kind, "", n, children...))
	}
}

func literalHandler(kind ast.Kind) nodeHandler {
	return func(c *converter, n *sitter.Node) []*ast.Node {
		return one(ast.New(ast.Attrs{Kind: kind, Location: c.location(n), Token: c.text(n)}))
	}
}

func (c *converter) functionDefinition(n *sitter.Node) []*ast.Node {
	info := unwrapDeclarator(n.ChildByFieldName("declarator"))
	return one(c.function(n, info, n.ChildByFieldName("body")))
}

func (c *converter) function(decl *sitter.Node, info declaratorInfo, body *sitter.Node) *ast.Node {
	name, loc := c.nameAndLocation(decl, info.name)

	var params []*ast.Node
	var types []string
	if info.fn != nil {
		params, types = c.parameters(info.fn.ChildByFieldName("parameters"))
	}

	children := params
	if body != nil {
		c.blockDepth++
		children = append(children, c.convert(body)...)
		c.blockDepth--
	}

	return ast.New(ast.Attrs{
		Kind:        ast.KindFunctionDecl,
		Spelling:    name,
		DisplayName: fmt.Sprintf("%s(%s)", name, strings.Join(types, ", ")),
		Location:    loc,
		Linkage:     c.functionLinkage(decl),
	}, children...)
}

// parameters returns the PARM_DECLs of a parameter_list and the parameter
// type spellings used in the function's display name.
func (c *converter) parameters(list *sitter.Node) ([]*ast.Node, []string) {
	if list == nil {
		return nil, nil
	}
	var (
		params []*ast.Node
		types  []string
	)
	for i := uint(0); i < list.NamedChildCount(); i++ {
		p := list.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "variadic_parameter":
			types = append(types, "...")
		case "parameter_declaration":
			typeNode := p.ChildByFieldName("type")
			declarator := p.ChildByFieldName("declarator")
			if declarator == nil && typeNode != nil && c.text(typeNode) == "void" {
				continue
			}
			info := unwrapDeclarator(declarator)
			name, loc := c.nameAndLocation(p, info.name)

			children := c.typeRefs(typeNode)
			for _, size := range info.sizes {
				children = append(children, c.convert(size)...)
			}
			params = append(params, ast.New(ast.Attrs{
				Kind:     ast.KindParmDecl,
				Spelling: name,
				Location: loc,
				Linkage:  ast.LinkageNone,
			}, children...))
			types = append(types, c.textWithout(p, info.name))
		}
	}
	return params, types
}

func (c *converter) declaration(n *sitter.Node) []*ast.Node {
	typeNode := n.ChildByFieldName("type")
	decls := c.tagDefinition(typeNode)
	for _, d := range declarators(n) {
		info := unwrapDeclarator(d)
		if info.fn != nil {
			decls = append(decls, c.function(n, info, nil))
			continue
		}
		decls = append(decls, c.variable(n, typeNode, info))
	}
	return c.declStmt(n, decls)
}

func (c *converter) variable(decl, typeNode *sitter.Node, info declaratorInfo) *ast.Node {
	name, loc := c.nameAndLocation(decl, info.name)
	children := c.typeRefs(typeNode)
	for _, size := range info.sizes {
		children = append(children, c.convert(size)...)
	}
	children = append(children, c.convert(info.value)...)
	return ast.New(ast.Attrs{
		Kind:     ast.KindVarDecl,
		Spelling: name,
		Location: loc,
		Linkage:  c.variableLinkage(decl),
	}, children...)
}

func (c *converter) typeDefinition(n *sitter.Node) []*ast.Node {
	typeNode := n.ChildByFieldName("type")
	decls := c.tagDefinition(typeNode)
	for _, d := range declarators(n) {
		info := unwrapDeclarator(d)
		name, loc := c.nameAndLocation(n, info.name)
		decls = append(decls, ast.New(ast.Attrs{
			Kind:     ast.KindTypedefDecl,
			Spelling: name,
			Location: loc,
			Linkage:  ast.LinkageNone,
		}, c.typeRefs(typeNode)...))
	}
	return c.declStmt(n, decls)
}

// declStmt wraps block-scope declarations the way clang does.
func (c *converter) declStmt(n *sitter.Node, decls []*ast.Node) []*ast.Node {
	if c.blockDepth == 0 || len(decls) == 0 {
		return decls
	}
	return one(c.node(ast.KindDeclStmt, "", n, decls...))
}

// tagDefinition returns a STRUCT/UNION/ENUM_DECL when typeNode defines a
// body inline, as in "struct point { int x; } origin;".
func (c *converter) tagDefinition(typeNode *sitter.Node) []*ast.Node {
	if typeNode == nil || typeNode.ChildByFieldName("body") == nil {
		return nil
	}
	switch typeNode.Kind() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		return c.tagSpecifier(typeNode)
	}
	return nil
}

func (c *converter) tagSpecifier(n *sitter.Node) []*ast.Node {
	var kind ast.Kind
	switch n.Kind() {
	case "union_specifier":
		kind = ast.KindUnionDecl
	case "enum_specifier":
		kind = ast.KindEnumDecl
	default:
		kind = ast.KindStructDecl
	}
	name, loc := c.nameAndLocation(n, n.ChildByFieldName("name"))
	children := c.convertChildren(n.ChildByFieldName("body"))
	return one(ast.New(ast.Attrs{
		Kind:     kind,
		Spelling: name,
		Location: loc,
		Linkage:  ast.LinkageNone,
	}, children...))
}

func (c *converter) fieldDeclaration(n *sitter.Node) []*ast.Node {
	typeNode := n.ChildByFieldName("type")
	fields := c.tagDefinition(typeNode)
	var width []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil && child.Kind() == "bitfield_clause" {
			width = c.convertChildren(child)
		}
	}
	for _, d := range declarators(n) {
		info := unwrapDeclarator(d)
		name, loc := c.nameAndLocation(n, info.name)
		children := c.typeRefs(typeNode)
		for _, size := range info.sizes {
			children = append(children, c.convert(size)...)
		}
		children = append(children, width...)
		width = nil
		fields = append(fields, ast.New(ast.Attrs{
			Kind:     ast.KindFieldDecl,
			Spelling: name,
			Location: loc,
			Linkage:  ast.LinkageNone,
		}, children...))
	}
	return fields
}

func (c *converter) enumerator(n *sitter.Node) []*ast.Node {
	name, loc := c.nameAndLocation(n, n.ChildByFieldName("name"))
	return one(ast.New(ast.Attrs{
		Kind:     ast.KindEnumConstantDecl,
		Spelling: name,
		Location: loc,
		Linkage:  ast.LinkageNone,
	}, c.convert(n.ChildByFieldName("value"))...))
}

func (c *converter) caseStatement(n *sitter.Node) []*ast.Node {
	kind := ast.KindCaseStmt
	if n.ChildByFieldName("value") == nil {
		kind = ast.KindDefaultStmt
	}
	return one(c.node(kind, "", n, c.convertChildren(n)...))
}

func (c *converter) gotoStatement(n *sitter.Node) []*ast.Node {
	return one(c.node(ast.KindGotoStmt, c.text(n.ChildByFieldName("label")), n))
}

func (c *converter) labeledStatement(n *sitter.Node) []*ast.Node {
	return one(c.node(ast.KindLabelStmt, c.text(n.ChildByFieldName("label")), n, c.convertChildren(n)...))
}

func (c *converter) expressionStatement(n *sitter.Node) []*ast.Node {
	children := c.convertChildren(n)
	if len(children) == 0 {
		return one(c.node(ast.KindNullStmt, "", n))
	}
	return children
}

func (c *converter) callExpression(n *sitter.Node) []*ast.Node {
	callee := n.ChildByFieldName("function")
	name := ""
	if callee != nil && callee.Kind() == "identifier" {
		name = c.text(callee)
	}
	children := c.convert(callee)
	children = append(children, c.convertChildren(n.ChildByFieldName("arguments"))...)
	return one(c.node(ast.KindCallExpr, name, n, children...))
}

func (c *converter) identifier(n *sitter.Node) []*ast.Node {
	return one(c.node(ast.KindDeclRefExpr, c.text(n), n))
}

func (c *converter) fieldExpression(n *sitter.Node) []*ast.Node {
	field := c.text(n.ChildByFieldName("field"))
	return one(c.node(ast.KindMemberRefExpr, field, n, c.convert(n.ChildByFieldName("argument"))...))
}

func (c *converter) numberLiteral(n *sitter.Node) []*ast.Node {
	text := c.text(n)
	kind := ast.KindIntegerLiteral
	if isFloatingLiteral(text) {
		kind = ast.KindFloatingLiteral
	}
	return one(ast.New(ast.Attrs{Kind: kind, Location: c.location(n), Token: text}))
}

// initializerPair keeps only the value of a designated initializer.
func (c *converter) initializerPair(n *sitter.Node) []*ast.Node {
	return c.convert(n.ChildByFieldName("value"))
}

func (c *converter) typeDescriptor(n *sitter.Node) []*ast.Node {
	return c.typeRefs(n.ChildByFieldName("type"))
}

func (c *converter) typeIdentifier(n *sitter.Node) []*ast.Node {
	return one(c.node(ast.KindTypeRef, c.text(n), n))
}

func (c *converter) errorNode(n *sitter.Node) []*ast.Node {
	c.errorNodes++
	return one(c.node(ast.KindUnexposedExpr, "", n, c.convertChildren(n)...))
}

// preprocBlock hoists the items of a conditional block; the guard itself
// is not code.
func (c *converter) preprocBlock(n *sitter.Node) []*ast.Node {
	return c.convertChildren(n, n.ChildByFieldName("name"), n.ChildByFieldName("condition"))
}

// typeRefs returns the TYPE_REF child clang attaches for named types.
func (c *converter) typeRefs(typeNode *sitter.Node) []*ast.Node {
	if typeNode == nil {
		return nil
	}
	switch typeNode.Kind() {
	case "type_identifier":
		return one(c.node(ast.KindTypeRef, c.text(typeNode), typeNode))
	case "struct_specifier", "union_specifier", "enum_specifier":
		name := typeNode.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		keyword := strings.TrimSuffix(typeNode.Kind(), "_specifier")
		return one(c.node(ast.KindTypeRef, keyword+" "+c.text(name), name))
	}
	return nil
}

func (c *converter) node(kind ast.Kind, spelling string, n *sitter.Node, children ...*ast.Node) *ast.Node {
	return ast.New(ast.Attrs{Kind: kind, Spelling: spelling, Location: c.location(n)}, children...)
}

// nameAndLocation returns the spelling of name and, as clang does for
// declarations, the name's position; unnamed declarations fall back to decl.
func (c *converter) nameAndLocation(decl, name *sitter.Node) (string, ast.Location) {
	if name == nil {
		return "", c.location(decl)
	}
	return c.text(name), c.location(name)
}

func (c *converter) functionLinkage(decl *sitter.Node) ast.Linkage {
	switch {
	case c.blockDepth > 0 && !c.hasStorageClass(decl, "extern"):
		return ast.LinkageNone
	case c.hasStorageClass(decl, "static"):
		return ast.LinkageInternal
	default:
		return ast.LinkageExternal
	}
}

func (c *converter) variableLinkage(decl *sitter.Node) ast.Linkage {
	switch {
	case c.blockDepth == 0 && c.hasStorageClass(decl, "static"):
		return ast.LinkageInternal
	case c.blockDepth == 0:
		return ast.LinkageExternal
	case c.hasStorageClass(decl, "extern"):
		return ast.LinkageExternal
	default:
		return ast.LinkageNone
	}
}

func (c *converter) hasStorageClass(decl *sitter.Node, class string) bool {
	for i := uint(0); i < decl.NamedChildCount(); i++ {
		child := decl.NamedChild(i)
		if child != nil && child.Kind() == "storage_class_specifier" && c.text(child) == class {
			return true
		}
	}
	return false
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(c.source[n.StartByte():n.EndByte()])
}

// textWithout returns the text of n minus the span of inner, with runs of
// whitespace collapsed: "char **argv" without argv is "char **".
func (c *converter) textWithout(n, inner *sitter.Node) string {
	text := c.text(n)
	if inner != nil {
		start := inner.StartByte() - n.StartByte()
		end := inner.EndByte() - n.StartByte()
		text = text[:start] + text[end:]
	}
	return strings.Join(strings.Fields(text), " ")
}

func (c *converter) location(n *sitter.Node) ast.Location {
	pos := n.StartPosition()
	row, rowErr := safecast.Conv[int](pos.Row)
	col, colErr := safecast.Conv[int](pos.Column)
	if rowErr != nil || colErr != nil {
		return ast.Location{File: c.path}
	}
	return ast.Location{File: c.path, Line: row + 1, Column: col + 1}
}

// declaratorInfo is what a (possibly nested) declarator says about the
// declared entity.
type declaratorInfo struct {
	name *sitter.Node
	// fn is set when the function_declarator directly wraps the name, i.e.
	// the entity is a function rather than a pointer to one.
	fn    *sitter.Node
	sizes []*sitter.Node
	value *sitter.Node
}

func unwrapDeclarator(d *sitter.Node) declaratorInfo {
	var (
		info    declaratorInfo
		wrapper *sitter.Node
	)
	for d != nil {
		switch d.Kind() {
		case "identifier", "field_identifier", "type_identifier":
			info.name = d
			if wrapper != nil && wrapper.Kind() == "function_declarator" {
				info.fn = wrapper
			}
			d = nil
		case "init_declarator":
			info.value = d.ChildByFieldName("value")
			d = d.ChildByFieldName("declarator")
		case "parenthesized_declarator", "attributed_declarator":
			d = innerDeclarator(d)
		case "array_declarator", "abstract_array_declarator":
			if size := d.ChildByFieldName("size"); size != nil {
				info.sizes = append(info.sizes, size)
			}
			wrapper = d
			d = d.ChildByFieldName("declarator")
		case "pointer_declarator", "function_declarator", "abstract_pointer_declarator", "abstract_function_declarator":
			wrapper = d
			d = d.ChildByFieldName("declarator")
		default:
			d = nil
		}
	}
	// Sizes were collected outermost first; source order is innermost first.
	for i, j := 0, len(info.sizes)-1; i < j; i, j = i+1, j-1 {
		info.sizes[i], info.sizes[j] = info.sizes[j], info.sizes[i]
	}
	return info
}

func innerDeclarator(d *sitter.Node) *sitter.Node {
	for i := uint(0); i < d.NamedChildCount(); i++ {
		child := d.NamedChild(i)
		if child != nil && (declaratorKinds[child.Kind()] || strings.HasPrefix(child.Kind(), "abstract_")) {
			return child
		}
	}
	return nil
}

// declarators returns the declarator children of a declaration-like node,
// skipping its type.
func declarators(n *sitter.Node) []*sitter.Node {
	typeNode := n.ChildByFieldName("type")
	var out []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || (typeNode != nil && sameNode(child, typeNode)) {
			continue
		}
		if declaratorKinds[child.Kind()] {
			out = append(out, child)
		}
	}
	return out
}

func isFloatingLiteral(text string) bool {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") {
		return strings.ContainsAny(lower, ".p")
	}
	return strings.ContainsAny(lower, ".e")
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

func containsNode(nodes []*sitter.Node, n *sitter.Node) bool {
	for _, candidate := range nodes {
		if candidate != nil && sameNode(candidate, n) {
			return true
		}
	}
	return false
}

func one(n *ast.Node) []*ast.Node {
	return []*ast.Node{n}
}
