package parser

import (
	"context"
	"testing"
)

type fakeFrontEnd struct {
	exts []string
}

func (f *fakeFrontEnd) Extensions() []string { return f.exts }
func (f *fakeFrontEnd) Parse(ctx context.Context, input FileInput) (any, error) {
	return input.Path, nil
}

func TestRegistryDispatchesByExtension(t *testing.T) {
	java := &fakeFrontEnd{exts: []string{".java"}}
	sql := &fakeFrontEnd{exts: []string{".sql"}}

	reg := NewRegistry()
	reg.Register(java)
	reg.Register(sql)

	if fe := reg.ForFile("/src/Foo.java"); fe != FrontEnd(java) {
		t.Fatalf("ForFile(.java) = %v, want the java front-end", fe)
	}
	if fe := reg.ForFile("/db/schema.SQL"); fe != FrontEnd(sql) {
		t.Fatalf("ForFile(.SQL) should match case-insensitively, got %v", fe)
	}
	if fe := reg.ForFile("/README.md"); fe != nil {
		t.Fatalf("ForFile(.md) = %v, want nil (unregistered extension)", fe)
	}
}

func TestRegistrySupportedExtensions(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeFrontEnd{exts: []string{".java"}})
	reg.Register(&fakeFrontEnd{exts: []string{".xml", ".sql"}})

	exts := reg.SupportedExtensions()
	if len(exts) != 3 {
		t.Fatalf("SupportedExtensions() = %v, want 3 entries", exts)
	}
}
