package ddlsql

import (
	"context"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

// Parser is the ddlsql front-end, stateless and safe for concurrent use
// (pg_query.Parse allocates a fresh parse per call).
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Extensions() []string { return []string{".sql"} }

func (p *Parser) Parse(ctx context.Context, input parser.FileInput) (any, error) {
	tree, err := pg_query.Parse(string(input.Content))
	if err != nil {
		return nil, fmt.Errorf("ddlsql: %w", err)
	}

	script := &Script{}
	for _, raw := range tree.Stmts {
		if raw.Stmt == nil {
			continue
		}
		// StmtLocation is a byte offset that may include the whitespace left
		// after the previous statement's semicolon; count newlines up to the
		// statement's first non-blank byte.
		loc := int(raw.StmtLocation)
		if loc > len(input.Content) {
			loc = len(input.Content)
		}
		rest := string(input.Content[loc:])
		lead := rest[:len(rest)-len(strings.TrimLeft(rest, " \t\r\n"))]
		line := strings.Count(string(input.Content[:loc])+lead, "\n") + 1
		switch {
		case raw.Stmt.GetCreateSchemaStmt() != nil:
			script.Schemas = append(script.Schemas, SchemaDecl{Name: raw.Stmt.GetCreateSchemaStmt().Schemaname})
		case raw.Stmt.GetCreateStmt() != nil:
			walkCreateTable(raw.Stmt.GetCreateStmt(), line, script)
		case raw.Stmt.GetAlterTableStmt() != nil:
			walkAlterTable(raw.Stmt.GetAlterTableStmt(), line, script)
		case raw.Stmt.GetIndexStmt() != nil:
			walkCreateIndex(raw.Stmt.GetIndexStmt(), line, script)
		}
	}
	return script, nil
}

func walkCreateTable(stmt *pg_query.CreateStmt, line int, script *Script) {
	if stmt.Relation == nil {
		return
	}
	table := TableDecl{
		Schema: stmt.Relation.Schemaname,
		Name:   stmt.Relation.Relname,
		Line:   line,
	}
	qname := table.QualifiedName()

	for _, elt := range stmt.TableElts {
		switch {
		case elt.GetColumnDef() != nil:
			col, constraints := walkColumnDef(elt.GetColumnDef(), qname, line)
			table.Columns = append(table.Columns, col)
			script.Constraints = append(script.Constraints, constraints...)
		case elt.GetConstraint() != nil:
			if c, ok := walkTableConstraint(elt.GetConstraint(), qname, line); ok {
				script.Constraints = append(script.Constraints, c)
			}
		}
	}
	script.Tables = append(script.Tables, table)
}

func walkColumnDef(col *pg_query.ColumnDef, table string, line int) (ColumnDecl, []ConstraintDecl) {
	decl := ColumnDecl{
		Name:     col.Colname,
		DataType: typeNameToString(col.TypeName),
		Nullable: true,
	}
	var constraints []ConstraintDecl
	for _, cn := range col.Constraints {
		c := cn.GetConstraint()
		if c == nil {
			continue
		}
		switch c.Contype {
		case pg_query.ConstrType_CONSTR_NOTNULL:
			decl.Nullable = false
		case pg_query.ConstrType_CONSTR_PRIMARY:
			decl.Nullable = false
			constraints = append(constraints, ConstraintDecl{
				Name: c.Conname, Table: table, Kind: ConstraintPrimaryKey,
				Columns: []string{decl.Name}, Line: line,
			})
		case pg_query.ConstrType_CONSTR_UNIQUE:
			constraints = append(constraints, ConstraintDecl{
				Name: c.Conname, Table: table, Kind: ConstraintUnique,
				Columns: []string{decl.Name}, Line: line,
			})
		case pg_query.ConstrType_CONSTR_FOREIGN:
			constraints = append(constraints, ConstraintDecl{
				Name: c.Conname, Table: table, Kind: ConstraintForeignKey,
				Columns:    []string{decl.Name},
				RefTable:   rangeVarToQualified(c.Pktable),
				RefColumns: stringListValues(c.PkAttrs),
				Line:       line,
			})
		case pg_query.ConstrType_CONSTR_DEFAULT:
			if c.RawExpr != nil {
				decl.Default = exprToString(c.RawExpr)
			}
		case pg_query.ConstrType_CONSTR_CHECK:
			constraints = append(constraints, ConstraintDecl{
				Name: c.Conname, Table: table, Kind: ConstraintCheck, Line: line,
			})
		}
	}
	return decl, constraints
}

func walkTableConstraint(c *pg_query.Constraint, table string, line int) (ConstraintDecl, bool) {
	switch c.Contype {
	case pg_query.ConstrType_CONSTR_PRIMARY:
		return ConstraintDecl{
			Name: c.Conname, Table: table, Kind: ConstraintPrimaryKey,
			Columns: keyListValues(c.Keys), Line: line,
		}, true
	case pg_query.ConstrType_CONSTR_UNIQUE:
		return ConstraintDecl{
			Name: c.Conname, Table: table, Kind: ConstraintUnique,
			Columns: keyListValues(c.Keys), Line: line,
		}, true
	case pg_query.ConstrType_CONSTR_FOREIGN:
		return ConstraintDecl{
			Name: c.Conname, Table: table, Kind: ConstraintForeignKey,
			Columns:    keyListValues(c.FkAttrs),
			RefTable:   rangeVarToQualified(c.Pktable),
			RefColumns: stringListValues(c.PkAttrs),
			Line:       line,
		}, true
	case pg_query.ConstrType_CONSTR_CHECK:
		return ConstraintDecl{Name: c.Conname, Table: table, Kind: ConstraintCheck, Line: line}, true
	default:
		return ConstraintDecl{}, false
	}
}

// walkAlterTable handles ADD COLUMN, DROP COLUMN, ADD CONSTRAINT and DROP
// CONSTRAINT; the table targeted need not have a CREATE TABLE in this same
// script, since DDL is often split across migration files. Dropped columns
// and constraints are recorded rather than removed from the graph (this
// engine's writer only ever merges and sets, it has no delete path), so a
// dropped column is a Column node with dropped=true, still reachable.
func walkAlterTable(stmt *pg_query.AlterTableStmt, line int, script *Script) {
	if stmt.Relation == nil {
		return
	}
	qname := rangeVarToQualified(stmt.Relation)
	table := TableDecl{Schema: stmt.Relation.Schemaname, Name: stmt.Relation.Relname, Line: line}

	for _, rawCmd := range stmt.Cmds {
		cmd := rawCmd.GetAlterTableCmd()
		if cmd == nil {
			continue
		}
		switch cmd.Subtype {
		case pg_query.AlterTableType_AT_AddColumn:
			if def := cmd.GetDef().GetColumnDef(); def != nil {
				col, constraints := walkColumnDef(def, qname, line)
				table.Columns = append(table.Columns, col)
				script.Constraints = append(script.Constraints, constraints...)
			}
		case pg_query.AlterTableType_AT_DropColumn:
			// DataType/Nullable/Default are left zero: this front-end has no
			// cross-file column state to recover them from, so a drop in a
			// different migration file than the original CREATE TABLE will
			// blank those fields on the existing Column node along with
			// flagging it dropped.
			table.Columns = append(table.Columns, ColumnDecl{Name: cmd.Name, Dropped: true})
		case pg_query.AlterTableType_AT_AddConstraint:
			if c := cmd.GetDef().GetConstraint(); c != nil {
				if decl, ok := walkTableConstraint(c, qname, line); ok {
					script.Constraints = append(script.Constraints, decl)
				}
			}
		case pg_query.AlterTableType_AT_DropConstraint:
			script.Constraints = append(script.Constraints, ConstraintDecl{
				Name: cmd.Name, Table: qname, Line: line, Dropped: true,
			})
		}
	}
	if len(table.Columns) > 0 {
		script.Tables = append(script.Tables, table)
	}
}

func walkCreateIndex(stmt *pg_query.IndexStmt, line int, script *Script) {
	if stmt.Relation == nil {
		return
	}
	idx := IndexDecl{
		Name:   stmt.Idxname,
		Table:  rangeVarToQualified(stmt.Relation),
		Unique: stmt.Unique,
		Line:   line,
	}
	for _, p := range stmt.IndexParams {
		if elem := p.GetIndexElem(); elem != nil && elem.Name != "" {
			idx.Columns = append(idx.Columns, elem.Name)
		}
	}
	script.Indexes = append(script.Indexes, idx)
}

func rangeVarToQualified(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}
	if rv.Schemaname != "" {
		return rv.Schemaname + "." + rv.Relname
	}
	return rv.Relname
}

func typeNameToString(tn *pg_query.TypeName) string {
	if tn == nil {
		return ""
	}
	parts := make([]string, 0, len(tn.Names))
	for _, n := range tn.Names {
		if s := n.GetString_(); s != nil {
			if s.Sval == "pg_catalog" {
				continue
			}
			parts = append(parts, s.Sval)
		}
	}
	return strings.Join(parts, ".")
}

func keyListValues(nodes []*pg_query.Node) []string {
	var out []string
	for _, n := range nodes {
		if s := n.GetString_(); s != nil {
			out = append(out, s.Sval)
		}
	}
	return out
}

func stringListValues(nodes []*pg_query.Node) []string {
	return keyListValues(nodes)
}

// exprToString is a best-effort rendering of a DEFAULT expression; this
// engine does not evaluate defaults, only records their source text for
// the Column node's default attribute.
func exprToString(n *pg_query.Node) string {
	if v := n.GetAConst(); v != nil {
		if s := v.GetSval(); s != nil {
			return s.Sval
		}
		if i := v.GetIval(); i != nil {
			return fmt.Sprintf("%d", i.Ival)
		}
	}
	if fc := n.GetFuncCall(); fc != nil && len(fc.Funcname) > 0 {
		if s := fc.Funcname[len(fc.Funcname)-1].GetString_(); s != nil {
			return s.Sval + "()"
		}
	}
	return ""
}
