package extract

import (
	"context"
	"testing"

	"github.com/codegraph-labs/springgraph/internal/parser"
	"github.com/codegraph-labs/springgraph/internal/parser/ddlsql"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

func TestExtractTableAndColumns(t *testing.T) {
	p := ddlsql.New()
	ast, err := p.Parse(context.Background(), parser.FileInput{
		Path: "schema.sql",
		Content: []byte(`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			email VARCHAR(255) NOT NULL
		);`),
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	x := NewDDLExtractor("demo", "public")
	bundle := &models.ArtifactBundle{}
	x.Extract(ast.(*ddlsql.Script), bundle)

	if len(bundle.Tables) != 1 || bundle.Tables[0].Name != "users" {
		t.Fatalf("tables = %+v", bundle.Tables)
	}
	if len(bundle.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(bundle.Columns))
	}
	if len(bundle.Databases) != 1 || bundle.Databases[0].Name != "public" {
		t.Fatalf("databases = %+v", bundle.Databases)
	}
}
