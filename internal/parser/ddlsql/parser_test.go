package ddlsql

import (
	"context"
	"testing"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

func parseDDL(t *testing.T, sql string) *Script {
	t.Helper()
	p := New()
	ast, err := p.Parse(context.Background(), parser.FileInput{Path: "schema.sql", Content: []byte(sql)})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	script, ok := ast.(*Script)
	if !ok {
		t.Fatalf("Parse returned %T, want *Script", ast)
	}
	return script
}

func TestCreateTableWithConstraints(t *testing.T) {
	script := parseDDL(t, `
CREATE TABLE users (
    id BIGINT PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    created_at TIMESTAMPTZ DEFAULT now()
);
`)
	if len(script.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(script.Tables))
	}
	table := script.Tables[0]
	if table.Name != "users" {
		t.Fatalf("name = %q", table.Name)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(table.Columns))
	}
	if table.Columns[0].Nullable {
		t.Fatalf("id should be non-nullable via PRIMARY KEY")
	}
	foundPK, foundUnique := false, false
	for _, c := range script.Constraints {
		switch c.Kind {
		case ConstraintPrimaryKey:
			foundPK = true
		case ConstraintUnique:
			foundUnique = true
		}
	}
	if !foundPK || !foundUnique {
		t.Fatalf("constraints = %+v, want PK and unique", script.Constraints)
	}
}

func TestCreateIndex(t *testing.T) {
	script := parseDDL(t, `CREATE UNIQUE INDEX idx_users_email ON users (email);`)
	if len(script.Indexes) != 1 {
		t.Fatalf("indexes = %d, want 1", len(script.Indexes))
	}
	idx := script.Indexes[0]
	if idx.Name != "idx_users_email" || !idx.Unique || idx.Table != "users" {
		t.Fatalf("index = %+v", idx)
	}
}

func TestForeignKeyConstraint(t *testing.T) {
	script := parseDDL(t, `
CREATE TABLE orders (
    id BIGINT PRIMARY KEY,
    user_id BIGINT REFERENCES users(id)
);
`)
	var fk *ConstraintDecl
	for i := range script.Constraints {
		if script.Constraints[i].Kind == ConstraintForeignKey {
			fk = &script.Constraints[i]
		}
	}
	if fk == nil {
		t.Fatalf("expected a foreign key constraint, got %+v", script.Constraints)
	}
	if fk.RefTable != "users" {
		t.Fatalf("ref table = %q, want users", fk.RefTable)
	}
}

func TestAlterTableAddColumn(t *testing.T) {
	script := parseDDL(t, `ALTER TABLE users ADD COLUMN last_login TIMESTAMPTZ;`)
	if len(script.Tables) != 1 || len(script.Tables[0].Columns) != 1 {
		t.Fatalf("tables = %+v", script.Tables)
	}
	col := script.Tables[0].Columns[0]
	if col.Name != "last_login" || col.Dropped {
		t.Fatalf("column = %+v", col)
	}
}

func TestAlterTableDropColumn(t *testing.T) {
	script := parseDDL(t, `ALTER TABLE users DROP COLUMN last_login;`)
	if len(script.Tables) != 1 || len(script.Tables[0].Columns) != 1 {
		t.Fatalf("tables = %+v", script.Tables)
	}
	col := script.Tables[0].Columns[0]
	if col.Name != "last_login" || !col.Dropped {
		t.Fatalf("column = %+v, want dropped", col)
	}
}

func TestAlterTableAddAndDropConstraint(t *testing.T) {
	script := parseDDL(t, `
ALTER TABLE orders ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id);
ALTER TABLE orders DROP CONSTRAINT fk_orders_user;
`)
	if len(script.Constraints) != 2 {
		t.Fatalf("constraints = %+v, want 2", script.Constraints)
	}
	added, dropped := script.Constraints[0], script.Constraints[1]
	if added.Name != "fk_orders_user" || added.Kind != ConstraintForeignKey || added.Dropped {
		t.Fatalf("added constraint = %+v", added)
	}
	if dropped.Name != "fk_orders_user" || !dropped.Dropped {
		t.Fatalf("dropped constraint = %+v", dropped)
	}
}
