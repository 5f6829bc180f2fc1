package javaast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

// Parser is the javaast front-end, one instance per orchestrator, shared by
// all of its workers. Tree-sitter parsers are not safe for concurrent Parse
// calls, so Parse creates a fresh tree-sitter parser for every call.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Extensions() []string { return []string{".java"} }

func (p *Parser) Parse(ctx context.Context, input parser.FileInput) (any, error) {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(java.GetLanguage())
	tree, err := tsParser.ParseCtx(ctx, nil, input.Content)
	if err != nil {
		return nil, fmt.Errorf("javaast: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	src := input.Content

	cu := &CompilationUnit{}
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "package_declaration":
			cu.Package = scopedName(child, src)
		case "import_declaration":
			if name := scopedName(child, src); name != "" {
				cu.Imports = append(cu.Imports, name)
			}
		case "class_declaration":
			cu.Types = append(cu.Types, extractTypeDecl(child, src, TypeKindClass))
		case "interface_declaration":
			cu.Types = append(cu.Types, extractTypeDecl(child, src, TypeKindInterface))
		case "enum_declaration":
			cu.Types = append(cu.Types, extractTypeDecl(child, src, TypeKindEnum))
		}
	}
	return cu, nil
}

func scopedName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}

func nodeIdentifier(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func extractModifiers(node *sitter.Node, src []byte) []string {
	mods := findChild(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		switch child.Type() {
		case "marker_annotation", "annotation":
			// annotations are extracted separately
		default:
			out = append(out, child.Content(src))
		}
	}
	return out
}

func extractAnnotations(node *sitter.Node, src []byte) []AnnotationRef {
	mods := findChild(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []AnnotationRef
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child.Type() == "marker_annotation" || child.Type() == "annotation" {
			out = append(out, parseAnnotation(child, src))
		}
	}
	return out
}

func parseAnnotation(node *sitter.Node, src []byte) AnnotationRef {
	raw := node.Content(src)
	name := strings.TrimPrefix(raw, "@")
	if idx := strings.IndexAny(name, "( \t\n"); idx >= 0 {
		name = name[:idx]
	}
	return AnnotationRef{
		Name:       name,
		RawText:    raw,
		Parameters: parseAnnotationParams(raw),
		Line:       int(node.StartPoint().Row) + 1,
	}
}

// parseAnnotationParams extracts key=value pairs (and the single
// unlabeled "value" shorthand) from an annotation's raw text via substring
// scanning, matching the teacher's approach rather than a full grammar
// over annotation argument lists. Quoted values are stored without their
// quotes; other keyed values (RequestMethod.POST, true) are stored as their
// trimmed source text. Array values ({...}) are not stored, and an
// unlabeled value is stored only when it is a quoted string.
func parseAnnotationParams(raw string) map[string]string {
	params := map[string]string{}
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return params
	}
	body := raw[open+1:]
	if close := strings.LastIndexByte(body, ')'); close >= 0 {
		body = body[:close]
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return params
	}
	if v, ok := unquote(body); ok {
		params["value"] = v
		return params
	}
	if !strings.Contains(body, "=") {
		return params
	}
	for _, part := range splitTopLevelCommas(body) {
		k, v, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if val, ok := unquote(v); ok {
			params[k] = val
		} else if v != "" && !strings.HasPrefix(v, "{") {
			params[k] = v
		}
	}
	return params
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquote(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// precedingComment returns the nearest preceding block comment sibling of
// node, skipping over line comments, or "" if the immediately preceding
// non-comment content isn't a comment at all. Tree-sitter keeps comments as
// ordinary siblings in source order, so this is how a Javadoc block above a
// class or method declaration is recovered.
func precedingComment(node *sitter.Node, src []byte) string {
	prev := node.PrevSibling()
	for prev != nil && prev.Type() == "line_comment" {
		prev = prev.PrevSibling()
	}
	if prev != nil && prev.Type() == "block_comment" {
		return prev.Content(src)
	}
	return ""
}

func extractTypeDecl(node *sitter.Node, src []byte, kind TypeKind) TypeDecl {
	decl := TypeDecl{
		Name:        nodeIdentifier(node, src),
		Kind:        kind,
		Modifiers:   extractModifiers(node, src),
		Annotations: extractAnnotations(node, src),
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
		DocComment:  precedingComment(node, src),
	}

	if sc := findChild(node, "superclass"); sc != nil {
		decl.Superclass = extractTypeIdent(sc, src)
	}
	if si := findChild(node, "super_interfaces"); si != nil {
		decl.Interfaces = extractTypeList(si, src)
	}
	// interface_declaration uses extends_interfaces for its supertypes.
	if ei := findChild(node, "extends_interfaces"); ei != nil {
		decl.Interfaces = append(decl.Interfaces, extractTypeList(ei, src)...)
	}

	var body *sitter.Node
	switch kind {
	case TypeKindInterface:
		body = findChild(node, "interface_body")
	case TypeKindEnum:
		body = findChild(node, "enum_body")
	default:
		body = findChild(node, "class_body")
	}
	if body != nil {
		extractMembers(body, src, &decl)
	}
	return decl
}

func extractTypeIdent(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "type_identifier" || child.Type() == "generic_type" || child.Type() == "identifier" {
			return firstIdentOf(child, src)
		}
	}
	return ""
}

// firstIdentOf strips generic type arguments, returning e.g. "JpaRepository"
// from "JpaRepository<User, Long>".
func firstIdentOf(node *sitter.Node, src []byte) string {
	text := node.Content(src)
	if idx := strings.IndexByte(text, '<'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func extractTypeList(node *sitter.Node, src []byte) []string {
	var types []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "type_identifier" || gc.Type() == "generic_type" {
					types = append(types, firstIdentOf(gc, src))
				}
			}
		case "type_identifier", "generic_type":
			types = append(types, firstIdentOf(child, src))
		}
	}
	return types
}

func extractMembers(body *sitter.Node, src []byte, decl *TypeDecl) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "field_declaration":
			if f, ok := extractField(child, src); ok {
				decl.Fields = append(decl.Fields, f)
			}
		case "method_declaration":
			decl.Methods = append(decl.Methods, extractMethod(child, src, false))
		case "constructor_declaration":
			m := extractMethod(child, src, true)
			m.Name = decl.Name
			decl.Methods = append(decl.Methods, m)
		case "class_declaration":
			decl.Nested = append(decl.Nested, extractTypeDecl(child, src, TypeKindClass))
		case "interface_declaration":
			decl.Nested = append(decl.Nested, extractTypeDecl(child, src, TypeKindInterface))
		case "enum_declaration":
			decl.Nested = append(decl.Nested, extractTypeDecl(child, src, TypeKindEnum))
		}
	}
}

func extractField(node *sitter.Node, src []byte) (FieldDecl, bool) {
	typeNode := findChild(node, "type_identifier")
	if typeNode == nil {
		typeNode = findChild(node, "generic_type")
	}
	declarator := findChild(node, "variable_declarator")
	if declarator == nil {
		return FieldDecl{}, false
	}
	name := nodeIdentifier(declarator, src)
	if name == "" {
		return FieldDecl{}, false
	}
	f := FieldDecl{
		Name:        name,
		Modifiers:   extractModifiers(node, src),
		Annotations: extractAnnotations(node, src),
		StartLine:   int(node.StartPoint().Row) + 1,
	}
	if typeNode != nil {
		f.Type = firstIdentOf(typeNode, src)
	}
	if init := findChild(declarator, "="); init != nil {
		for i := 0; i < int(declarator.ChildCount()); i++ {
			c := declarator.Child(i)
			if c.Type() != "identifier" && c.Type() != "=" {
				f.InitializerText = c.Content(src)
			}
		}
	}
	return f, true
}

func extractMethod(node *sitter.Node, src []byte, isConstructor bool) MethodDecl {
	m := MethodDecl{
		Name:          nodeIdentifier(node, src),
		IsConstructor: isConstructor,
		Modifiers:     extractModifiers(node, src),
		Annotations:   extractAnnotations(node, src),
		StartLine:     int(node.StartPoint().Row) + 1,
		EndLine:       int(node.EndPoint().Row) + 1,
		DocComment:    precedingComment(node, src),
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier", "generic_type", "void_type", "array_type", "integral_type", "boolean_type":
			if m.ReturnType == "" && !isConstructor {
				m.ReturnType = firstIdentOf(child, src)
			}
		case "formal_parameters":
			m.Parameters = extractParams(child, src)
		case "block":
			m.BodyText = child.Content(src)
			m.JDBCCalls = extractJDBCCalls(child, src)
			m.Calls = extractCallSites(child, src)
		}
	}
	return m
}

func extractParams(node *sitter.Node, src []byte) []ParamDecl {
	var params []ParamDecl
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "formal_parameter" && child.Type() != "spread_parameter" {
			continue
		}
		var name, typ string
		for j := 0; j < int(child.ChildCount()); j++ {
			gc := child.Child(j)
			switch gc.Type() {
			case "identifier":
				name = gc.Content(src)
			case "type_identifier", "generic_type", "array_type", "integral_type", "boolean_type":
				typ = firstIdentOf(gc, src)
			}
		}
		params = append(params, ParamDecl{Name: name, Type: typ})
	}
	return params
}

var jdbcMethods = map[string]bool{
	"prepareStatement":   true,
	"prepareCall":        true,
	"createQuery":        true,
	"createNativeQuery":  true,
}

func extractJDBCCalls(body *sitter.Node, src []byte) []JDBCCallSite {
	var sites []JDBCCallSite
	walk(body, func(n *sitter.Node) {
		if n.Type() != "method_invocation" {
			return
		}
		name := callTargetName(n, src)
		if !jdbcMethods[name] {
			return
		}
		site := JDBCCallSite{Method: name, Line: int(n.StartPoint().Row) + 1}
		if args := findChild(n, "argument_list"); args != nil {
			for i := 0; i < int(args.ChildCount()); i++ {
				if lit := args.Child(i); lit.Type() == "string_literal" {
					site.SQLText = strings.Trim(lit.Content(src), "\"")
					break
				}
			}
		}
		sites = append(sites, site)
	})
	return sites
}

// extractCallSites records every method_invocation in body by callee name,
// regardless of receiver, for internal/resolver's intra-project call pass.
func extractCallSites(body *sitter.Node, src []byte) []CallSite {
	var sites []CallSite
	walk(body, func(n *sitter.Node) {
		if n.Type() != "method_invocation" {
			return
		}
		if name := callTargetName(n, src); name != "" {
			sites = append(sites, CallSite{Name: name, Line: int(n.StartPoint().Row) + 1})
		}
	})
	return sites
}

// callTargetName returns the method name of a method_invocation node: the
// identifier immediately preceding its argument_list, which is the method
// name whether or not the call is qualified by a receiver (obj.foo() and
// foo() both end with "foo", "(args)").
func callTargetName(n *sitter.Node, src []byte) string {
	var last string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "argument_list" {
			return last
		}
		if child.Type() == "identifier" {
			last = child.Content(src)
		}
	}
	return last
}

func walk(node *sitter.Node, fn func(*sitter.Node)) {
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), fn)
	}
}
