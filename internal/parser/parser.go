// Package parser defines the contract every front-end (C1) implements,
// a registry for dispatching a file to the right one by path, and the
// file-kind detection and exclusion rules the orchestrator uses to decide
// what to walk.
package parser

import "context"

// FileInput is one file handed to a front-end.
type FileInput struct {
	Path    string
	Content []byte
}

// FrontEnd turns one file's raw content into an opaque front-end-specific
// AST value. The orchestrator never inspects the AST; it hands the AST
// straight to the matching extractor in internal/extract. Parse must not
// block beyond what ctx allows — front-ends are called from worker
// goroutines and must respect cancellation on large files.
type FrontEnd interface {
	// Parse parses a single file and returns its AST, or a plain error on
	// failure; the orchestrator wraps that error with apperr.ParseError.
	Parse(ctx context.Context, input FileInput) (any, error)

	// Extensions lists the lowercase file extensions (with leading dot)
	// this front-end claims, e.g. ".java".
	Extensions() []string
}
