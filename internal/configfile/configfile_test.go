package configfile

import (
	"context"
	"testing"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

func TestParseYAMLNested(t *testing.T) {
	p := New()
	ast, err := p.Parse(context.Background(), parser.FileInput{
		Path: "application.yml",
		Content: []byte(`
spring:
  datasource:
    url: jdbc:postgresql://localhost:5432/app
server:
  port: 8080
`),
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	values := ast.(map[string]string)
	if values["spring.datasource.url"] != "jdbc:postgresql://localhost:5432/app" {
		t.Fatalf("values = %+v", values)
	}
	if values["server.port"] != "8080" {
		t.Fatalf("values = %+v", values)
	}
}

func TestParseProperties(t *testing.T) {
	p := New()
	ast, err := p.Parse(context.Background(), parser.FileInput{
		Path:    "application.properties",
		Content: []byte("server.port=8080\n# comment\nspring.application.name=demo\n"),
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	values := ast.(map[string]string)
	if values["server.port"] != "8080" || values["spring.application.name"] != "demo" {
		t.Fatalf("values = %+v", values)
	}
}
