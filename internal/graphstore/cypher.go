package graphstore

import (
	"fmt"

	"github.com/codegraph-labs/springgraph/pkg/models"
)

// nodeStatement is one UNWIND..MERGE..SET batch for a single node kind.
type nodeStatement struct {
	cypher string
	rows   []map[string]any
}

// nodeKindSpec pairs a node label with the rows to upsert under it, letting
// nodeUpsertStatements iterate one ordered list instead of nineteen
// near-identical if blocks.
type nodeKindSpec struct {
	label models.NodeLabel
	rows  []map[string]any
}

func nodeUpsertStatements(b *models.ArtifactBundle) []nodeStatement {
	specs := []nodeKindSpec{
		{models.LabelPackage, paramListOf(b.Packages, packageParams)},
		{models.LabelClass, paramListOf(b.Classes, classParams)},
		{models.LabelAnnotation, paramListOf(b.Annotations, annotationParams)},
		{models.LabelMethod, paramListOf(b.Methods, methodParams)},
		{models.LabelField, paramListOf(b.Fields, fieldParams)},
		{models.LabelBean, paramListOf(b.Beans, beanParams)},
		{models.LabelEndpoint, paramListOf(b.Endpoints, endpointParams)},
		{models.LabelJpaEntity, paramListOf(b.JpaEntities, jpaEntityParams)},
		{models.LabelJpaRepository, paramListOf(b.JpaRepositories, jpaRepositoryParams)},
		{models.LabelJpaQuery, paramListOf(b.JpaQueries, jpaQueryParams)},
		{models.LabelMyBatisMapper, paramListOf(b.MyBatisMappers, myBatisMapperParams)},
		{models.LabelSqlStatement, paramListOf(b.SqlStatements, sqlStatementParams)},
		{models.LabelDatabase, paramListOf(b.Databases, databaseParams)},
		{models.LabelTable, paramListOf(b.Tables, tableParams)},
		{models.LabelColumn, paramListOf(b.Columns, columnParams)},
		{models.LabelIndex, paramListOf(b.Indexes, indexParams)},
		{models.LabelConstraint, paramListOf(b.Constraints, constraintParams)},
		{models.LabelTestClass, paramListOf(b.TestClasses, testClassParams)},
		{models.LabelConfigFile, paramListOf(b.ConfigFiles, configFileParams)},
	}

	stmts := make([]nodeStatement, 0, len(specs))
	for _, spec := range specs {
		if len(spec.rows) == 0 {
			continue
		}
		stmts = append(stmts, nodeStatement{cypher: nodeUpsertCypher(spec.label), rows: spec.rows})
	}
	return stmts
}

// identityFields lists the property names that identify a node of label,
// matching the field set keyParams produces for that label. MERGE matches
// on exactly these; every other property in the row is applied with SET,
// so re-parsing a changed file updates the node in place.
var identityFields = map[models.NodeLabel][]string{
	models.LabelPackage:       {"projectName", "name"},
	models.LabelClass:         {"projectName", "name"},
	models.LabelAnnotation:    {"projectName", "carrierLabel", "carrierRef", "name", "target"},
	models.LabelMethod:        {"projectName", "className", "name", "signature"},
	models.LabelField:         {"projectName", "className", "name"},
	models.LabelBean:          {"projectName", "name"},
	models.LabelEndpoint:      {"projectName", "controllerClass", "handlerMethod", "httpMethod", "path"},
	models.LabelJpaEntity:     {"projectName", "className"},
	models.LabelJpaRepository: {"projectName", "className"},
	models.LabelJpaQuery:      {"projectName", "repoClass", "methodName"},
	models.LabelMyBatisMapper: {"projectName", "name"},
	models.LabelSqlStatement:  {"projectName", "mapperName", "id"},
	models.LabelDatabase:      {"projectName", "name"},
	models.LabelTable:         {"projectName", "name"},
	models.LabelColumn:        {"projectName", "tableName", "name"},
	models.LabelIndex:         {"projectName", "tableName", "name"},
	models.LabelConstraint:    {"projectName", "tableName", "name"},
	models.LabelTestClass:     {"projectName", "className"},
	models.LabelConfigFile:    {"projectName", "path"},
}

// nodeUpsertCypher builds a MERGE-by-identity-key statement for label: the
// identity fields are matched in the MERGE predicate, every property in the
// row (identity fields included) is reapplied with SET, so a re-parsed file
// always reflects current source.
func nodeUpsertCypher(label models.NodeLabel) string {
	fields := identityFields[label]
	predicate := ""
	for i, f := range fields {
		if i > 0 {
			predicate += ", "
		}
		predicate += fmt.Sprintf("%s: row.%s", f, f)
	}
	return fmt.Sprintf(`
UNWIND $rows AS row
MERGE (n:%s {%s})
SET n += row
`, string(label), predicate)
}

type edgeGroupKey struct {
	Label     models.EdgeLabel
	FromLabel models.NodeLabel
	ToLabel   models.NodeLabel
}

func edgeRowsByGroup(edges []models.Edge) map[edgeGroupKey][]map[string]any {
	groups := map[edgeGroupKey][]map[string]any{}
	for _, e := range edges {
		gk := edgeGroupKey{Label: e.Label, FromLabel: e.FromLabel, ToLabel: e.ToLabel}
		groups[gk] = append(groups[gk], map[string]any{
			"from":  keyParams(e.FromLabel, e.FromKey),
			"to":    keyParams(e.ToLabel, e.ToKey),
			"attrs": e.Attributes,
		})
	}
	return groups
}

// edgeUpsertCypher is built once per (label,fromLabel,toLabel) group; the
// labels are drawn from the fixed NodeLabel/EdgeLabel enums, never from
// file content, so interpolating them into the query text is safe.
func edgeUpsertCypher(gk edgeGroupKey) string {
	return fmt.Sprintf(`
UNWIND $rows AS row
MATCH (a:%s) WHERE a.projectName = row.from.projectName AND all(k IN keys(row.from) WHERE a[k] = row.from[k])
MATCH (b:%s) WHERE b.projectName = row.to.projectName AND all(k IN keys(row.to) WHERE b[k] = row.to[k])
MERGE (a)-[r:%s]->(b)
SET r += coalesce(row.attrs, {})
`, string(gk.FromLabel), string(gk.ToLabel), string(gk.Label))
}
