package extract

import (
	"github.com/codegraph-labs/springgraph/internal/parser/ddlsql"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

// DDLExtractor turns a ddlsql.Script into Database/Table/Column/Index/
// Constraint nodes and their containment edges.
type DDLExtractor struct {
	ProjectName string
	// DefaultDatabase names the Database a table belongs to when the DDL
	// script never issues a CREATE SCHEMA (the common single-schema case).
	DefaultDatabase string
}

func NewDDLExtractor(projectName, defaultDatabase string) *DDLExtractor {
	return &DDLExtractor{ProjectName: projectName, DefaultDatabase: defaultDatabase}
}

func (x *DDLExtractor) Extract(script *ddlsql.Script, bundle *models.ArtifactBundle) {
	for _, s := range script.Schemas {
		db := models.Database{ProjectName: x.ProjectName, Name: s.Name}
		bundle.Databases = append(bundle.Databases, db)
	}

	dbName := x.DefaultDatabase
	if len(script.Schemas) == 1 {
		dbName = script.Schemas[0].Name
	}
	if dbName != "" && len(script.Schemas) == 0 {
		bundle.Databases = append(bundle.Databases, models.Database{ProjectName: x.ProjectName, Name: dbName})
	}

	for _, t := range script.Tables {
		tableDBName := dbName
		if t.Schema != "" {
			tableDBName = t.Schema
		}
		table := models.Table{ProjectName: x.ProjectName, DatabaseName: tableDBName, Name: t.QualifiedName()}
		bundle.Tables = append(bundle.Tables, table)
		if tableDBName != "" {
			bundle.Edges = append(bundle.Edges, models.Edge{
				Label: models.EdgeContains, FromLabel: models.LabelDatabase, FromKey: models.DatabaseKey{ProjectName: x.ProjectName, Name: tableDBName},
				ToLabel: models.LabelTable, ToKey: table.Key(),
			})
		}
		for _, c := range t.Columns {
			col := models.Column{
				ProjectName: x.ProjectName, TableName: table.Name, Name: c.Name,
				DataType: c.DataType, Nullable: c.Nullable, Default: c.Default, Dropped: c.Dropped,
			}
			bundle.Columns = append(bundle.Columns, col)
			bundle.Edges = append(bundle.Edges, models.Edge{
				Label: models.EdgeHasColumn, FromLabel: models.LabelTable, FromKey: table.Key(),
				ToLabel: models.LabelColumn, ToKey: col.Key(),
			})
		}
	}

	for _, i := range script.Indexes {
		idx := models.Index{ProjectName: x.ProjectName, TableName: i.Table, Name: i.Name, Columns: i.Columns, Unique: i.Unique}
		bundle.Indexes = append(bundle.Indexes, idx)
	}

	for _, c := range script.Constraints {
		constraint := models.Constraint{
			ProjectName: x.ProjectName, TableName: c.Table, Name: c.Name,
			Kind: string(c.Kind), Columns: c.Columns, RefTable: c.RefTable, RefColumns: c.RefColumns,
			Dropped: c.Dropped,
		}
		bundle.Constraints = append(bundle.Constraints, constraint)
	}
}
