package models

// EdgeLabel is a graph edge label, one per relationship kind in the data model.
type EdgeLabel string

const (
	EdgeHasPackage      EdgeLabel = "HAS_PACKAGE"
	EdgeContains        EdgeLabel = "CONTAINS"
	EdgeHasMethod       EdgeLabel = "HAS_METHOD"
	EdgeHasField        EdgeLabel = "HAS_FIELD"
	EdgeExtends         EdgeLabel = "EXTENDS"
	EdgeImplements      EdgeLabel = "IMPLEMENTS"
	EdgeHasAnnotation   EdgeLabel = "HAS_ANNOTATION"
	EdgeDeclaresBean    EdgeLabel = "DECLARES_BEAN"
	EdgeHasEndpoint     EdgeLabel = "HAS_ENDPOINT"
	EdgeDependsOn       EdgeLabel = "DEPENDS_ON"
	EdgeHasSqlStatement EdgeLabel = "HAS_SQL_STATEMENT"
	EdgeCalls           EdgeLabel = "CALLS"
	EdgeUsesTable       EdgeLabel = "USES_TABLE"
	EdgeHasColumn       EdgeLabel = "HAS_COLUMN"
	// EdgeMapsToTable is JpaEntity-carried Class->Table mapping metadata
	// (an @Entity's own declared or inflected table name). It is distinct
	// from USES_TABLE, which is always SqlStatement->Table and derived
	// from a SQL parse (spec.md's edge table) — sharing one label across
	// two (FromLabel, ToLabel) shapes would break any consumer, including
	// graphstore/cypher.go's edgeGroupKey grouping, that assumes a label
	// always connects the same pair of node kinds.
	EdgeMapsToTable EdgeLabel = "MAPS_TO_TABLE"
)

// Edge is a generic directed edge between two identity-keyed nodes, carrying
// the label-specific attributes the writer needs at upsert time. FromKey and
// ToKey are opaque values produced by a node's Key() method; the graph writer
// resolves them to the node's MERGE predicate for its label.
type Edge struct {
	Label      EdgeLabel
	FromLabel  NodeLabel
	FromKey    any
	ToLabel    NodeLabel
	ToKey      any
	Attributes map[string]any
}

// DependsOnMethod enumerates how a DEPENDS_ON edge between two Beans was derived.
type DependsOnMethod string

const (
	DependsOnField       DependsOnMethod = "field"
	DependsOnConstructor DependsOnMethod = "constructor"
	DependsOnSetter      DependsOnMethod = "setter"
)
