// Package javaast is the Java front-end (C1): a tree-sitter based parse of
// one compilation unit into a typed AST that internal/extract turns into
// an ArtifactBundle. It does not resolve types or cross-file references —
// that is explicitly out of scope (spec.md Non-goals) and left to
// internal/resolver's post-parse passes over already-written nodes.
package javaast

// CompilationUnit is the parsed shape of one .java file.
type CompilationUnit struct {
	Package string
	Imports []string
	Types   []TypeDecl
}

// TypeKind distinguishes the declaration shapes tree-sitter's Java grammar
// exposes; annotations themselves are represented as AnnotationRef, not
// as a TypeDecl, even though @interface is syntactically a type.
type TypeKind string

const (
	TypeKindClass     TypeKind = "class"
	TypeKindInterface TypeKind = "interface"
	TypeKindEnum      TypeKind = "enum"
)

// TypeDecl is one class/interface/enum declaration, possibly nested.
type TypeDecl struct {
	Name        string
	Kind        TypeKind
	Modifiers   []string
	Superclass  string   // unqualified, empty if none
	Interfaces  []string // unqualified
	Annotations []AnnotationRef
	Fields      []FieldDecl
	Methods     []MethodDecl
	Nested      []TypeDecl
	StartLine   int
	EndLine     int
	DocComment  string // nearest preceding block comment, if any
}

// FieldDecl is one field declaration.
type FieldDecl struct {
	Name            string
	Type            string
	Modifiers       []string
	Annotations     []AnnotationRef
	InitializerText string
	StartLine       int
}

// ParamDecl is one formal parameter.
type ParamDecl struct {
	Name string
	Type string
}

// MethodDecl is one method or constructor declaration.
type MethodDecl struct {
	Name          string
	IsConstructor bool
	ReturnType    string
	Parameters    []ParamDecl
	Modifiers     []string
	Annotations   []AnnotationRef
	StartLine     int
	EndLine       int
	DocComment    string // nearest preceding block comment, if any
	// JDBCCalls records prepareStatement/prepareCall invocation sites found
	// in this method's body, carrying the literal SQL text when the
	// argument was a string literal and nil otherwise (spec.md C3 "SQL
	// literal extraction"). No extractor in internal/extract reads it.
	JDBCCalls []JDBCCallSite
	// Calls records every method_invocation in this method's body by
	// callee name, unresolved to a receiver type (spec.md Non-goals
	// exclude semantic type resolution) — internal/resolver's
	// intra-project call pass matches these against sibling Method nodes.
	Calls    []CallSite
	BodyText string // raw source text of the method body, for fallback scans
}

// CallSite is one intra-method-body invocation of another method by name.
type CallSite struct {
	Name string
	Line int
}

// JDBCCallSite is a single prepareStatement/prepareCall/createQuery call.
type JDBCCallSite struct {
	Method   string // prepareStatement, prepareCall, createQuery, createNativeQuery
	SQLText  string // literal argument text, empty if not a string literal
	Line     int
}

// AnnotationRef is one annotation occurrence, kept as its raw source text
// plus a best-effort parsed parameter map — mirroring the teacher's
// substring-based annotation parsing rather than a full semantic model,
// since spec.md's Non-goals exclude semantic type resolution.
type AnnotationRef struct {
	Name       string // e.g. "RequestMapping", without the leading @
	RawText    string
	Parameters map[string]string
	Line       int
}
