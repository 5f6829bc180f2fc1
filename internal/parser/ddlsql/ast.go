// Package ddlsql is the DDL front-end (C1): a real PostgreSQL-grammar
// parse of CREATE TABLE / ALTER TABLE / CREATE INDEX / CREATE SCHEMA
// statements into a typed AST, using the actual Postgres grammar rather
// than regex scraping of table names.
package ddlsql

// Script is the parsed shape of one .sql DDL file.
type Script struct {
	Schemas     []SchemaDecl
	Tables      []TableDecl
	Indexes     []IndexDecl
	Constraints []ConstraintDecl
}

// SchemaDecl is one CREATE SCHEMA statement.
type SchemaDecl struct {
	Name string
}

// ColumnDecl is one column, whether from a CREATE TABLE or an ALTER TABLE
// ADD/DROP COLUMN. Dropped columns carry only Name; the rest is left zero.
type ColumnDecl struct {
	Name     string
	DataType string
	Nullable bool
	Default  string
	Dropped  bool
}

// TableDecl is one CREATE TABLE statement.
type TableDecl struct {
	Schema  string
	Name    string
	Columns []ColumnDecl
	Line    int
}

// QualifiedName returns "schema.table", or just "table" when schema is empty.
func (t TableDecl) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// IndexDecl is one CREATE INDEX statement.
type IndexDecl struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
	Line    int
}

// ConstraintKind enumerates the constraint kinds this front-end recognizes.
type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "primary_key"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintDecl is one table- or column-level constraint, whether named
// explicitly or synthesized from an inline column constraint, or dropped
// by an ALTER TABLE DROP CONSTRAINT (Dropped true, everything but Name/
// Table/Line left zero).
type ConstraintDecl struct {
	Name       string
	Table      string
	Kind       ConstraintKind
	Columns    []string
	RefTable   string // foreign_key only
	RefColumns []string
	Line       int
	Dropped    bool
}
