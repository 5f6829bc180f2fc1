package models

// ArtifactBundle is the per-file hand-off unit produced by a front-end and
// consumed by the extractors and writer: every node and edge a single file
// contributed, plus any dangling references the resolver will bind in a
// later pass. Bundles are applied to the graph store independently and in
// any order — ordering across bundles is never assumed (spec invariant I1).
type ArtifactBundle struct {
	File SourceFile

	Packages       []Package
	Classes        []Class
	Annotations    []Annotation
	Methods        []Method
	Fields         []Field
	Beans          []Bean
	Endpoints      []Endpoint
	JpaEntities    []JpaEntity
	JpaRepositories []JpaRepository
	JpaQueries     []JpaQuery
	MyBatisMappers []MyBatisMapper
	SqlStatements  []SqlStatement
	Databases      []Database
	Tables         []Table
	Columns        []Column
	Indexes        []Index
	Constraints    []Constraint
	TestClasses    []TestClass
	ConfigFiles    []ConfigFile

	Edges []Edge

	// Diagnostics collected while building this bundle (e.g. a malformed
	// annotation or an unparseable SQL fragment) that should surface in the
	// run summary without failing the file outright.
	Diagnostics []string
}

// Empty reports whether the bundle carries no nodes, edges, or diagnostics.
func (b *ArtifactBundle) Empty() bool {
	return len(b.Packages) == 0 && len(b.Classes) == 0 && len(b.Annotations) == 0 && len(b.Methods) == 0 &&
		len(b.Fields) == 0 && len(b.Beans) == 0 && len(b.Endpoints) == 0 &&
		len(b.JpaEntities) == 0 && len(b.JpaRepositories) == 0 && len(b.JpaQueries) == 0 &&
		len(b.MyBatisMappers) == 0 && len(b.SqlStatements) == 0 && len(b.Databases) == 0 &&
		len(b.Tables) == 0 && len(b.Columns) == 0 && len(b.Indexes) == 0 &&
		len(b.Constraints) == 0 && len(b.TestClasses) == 0 && len(b.ConfigFiles) == 0 &&
		len(b.Edges) == 0 && len(b.Diagnostics) == 0
}
