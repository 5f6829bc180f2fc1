package parser

import (
	"path/filepath"
	"strings"
)

// Registry maps file extensions to front-ends.
type Registry struct {
	frontEnds map[string]FrontEnd // extension -> front-end
}

func NewRegistry() *Registry {
	return &Registry{frontEnds: make(map[string]FrontEnd)}
}

// Register associates a front-end with every extension it claims.
func (r *Registry) Register(fe FrontEnd) {
	for _, ext := range fe.Extensions() {
		r.frontEnds[strings.ToLower(ext)] = fe
	}
}

// ForFile returns the front-end for a given file path, or nil if none matches.
func (r *Registry) ForFile(path string) FrontEnd {
	ext := strings.ToLower(filepath.Ext(path))
	return r.frontEnds[ext]
}

// SupportedExtensions returns all registered extensions.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.frontEnds))
	for ext := range r.frontEnds {
		exts = append(exts, ext)
	}
	return exts
}
