// Package models defines the graph node and edge shapes materialized by the
// ingestion engine, and the identity keys a graph writer upserts them by.
package models

// NodeLabel is a graph node label, one per entity kind in the data model.
type NodeLabel string

const (
	LabelProject        NodeLabel = "Project"
	LabelPackage        NodeLabel = "Package"
	LabelClass          NodeLabel = "Class"
	LabelMethod         NodeLabel = "Method"
	LabelField          NodeLabel = "Field"
	LabelAnnotation     NodeLabel = "Annotation"
	LabelBean           NodeLabel = "Bean"
	LabelEndpoint       NodeLabel = "Endpoint"
	LabelJpaEntity      NodeLabel = "JpaEntity"
	LabelJpaRepository  NodeLabel = "JpaRepository"
	LabelMyBatisMapper  NodeLabel = "MyBatisMapper"
	LabelSqlStatement   NodeLabel = "SqlStatement"
	LabelJpaQuery       NodeLabel = "JpaQuery"
	LabelDatabase       NodeLabel = "Database"
	LabelTable          NodeLabel = "Table"
	LabelColumn         NodeLabel = "Column"
	LabelIndex          NodeLabel = "Index"
	LabelConstraint     NodeLabel = "Constraint"
	LabelTestClass      NodeLabel = "TestClass"
	LabelConfigFile     NodeLabel = "ConfigFile"
)

// ClassKind enumerates the syntactic shape of a Class node.
type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAbstract   ClassKind = "abstract"
	ClassKindAnnotation ClassKind = "annotation"
)

// BeanType enumerates the Spring stereotype a Bean was declared with.
type BeanType string

const (
	BeanTypeComponent      BeanType = "component"
	BeanTypeService        BeanType = "service"
	BeanTypeRepository     BeanType = "repository"
	BeanTypeController     BeanType = "controller"
	BeanTypeConfiguration  BeanType = "configuration"
	BeanTypeFactoryMethod  BeanType = "factory_method"
)

// JpaRelationKind enumerates JPA association kinds.
type JpaRelationKind string

const (
	JpaOneToOne   JpaRelationKind = "one_to_one"
	JpaOneToMany  JpaRelationKind = "one_to_many"
	JpaManyToOne  JpaRelationKind = "many_to_one"
	JpaManyToMany JpaRelationKind = "many_to_many"
)

// SqlType enumerates the statement kind of a SqlStatement.
type SqlType string

const (
	SqlSelect  SqlType = "SELECT"
	SqlInsert  SqlType = "INSERT"
	SqlUpdate  SqlType = "UPDATE"
	SqlDelete  SqlType = "DELETE"
	SqlMerge   SqlType = "MERGE"
	SqlUnknown SqlType = "UNKNOWN"
)

// MapperSource tells whether a MyBatisMapper was declared as a Java interface
// or discovered from an XML mapper document.
type MapperSource string

const (
	MapperSourceInterface MapperSource = "interface"
	MapperSourceXML       MapperSource = "xml"
)

// InjectionType enumerates how a Bean acquired a dependency.
type InjectionType string

const (
	InjectionField       InjectionType = "field"
	InjectionConstructor InjectionType = "constructor"
	InjectionSetter      InjectionType = "setter"
)

// Project is the root container node; every other node is scoped to one
// by a project_name attribute and reachable from it via containment edges.
type Project struct {
	Name string
}

// Package is a dotted package path.
type Package struct {
	ProjectName string
	Name        string
	LogicalName string
}

func (p Package) Key() PackageKey { return PackageKey{ProjectName: p.ProjectName, Name: p.Name} }

// PackageKey is Package's identity key.
type PackageKey struct {
	ProjectName string
	Name        string
}

// Parameter is one formal parameter of a Method.
type Parameter struct {
	Name  string
	Type  string
	Order int
}

// AnnotationTarget enumerates what kind of carrier an Annotation is attached to.
type AnnotationTarget string

const (
	AnnotationTargetClass     AnnotationTarget = "class"
	AnnotationTargetMethod    AnnotationTarget = "method"
	AnnotationTargetField     AnnotationTarget = "field"
	AnnotationTargetParameter AnnotationTarget = "parameter"
)

// Annotation is persisted as its own HAS_ANNOTATION-linked node per spec,
// keyed by the identity of its carrier plus its own name+target — it is
// not deduplicated across carriers, each carrier gets its own Annotation
// node. CarrierRef is a human-readable rendering of the carrier's key
// (e.g. "UserService" or "UserService#save(Long,User)"), used only to
// keep the identity key legible; it is not parsed back.
type Annotation struct {
	ProjectName string
	CarrierLabel NodeLabel
	CarrierRef  string
	Name        string
	Parameters  map[string]string
	Target      AnnotationTarget
}

func (a Annotation) Key() AnnotationKey {
	return AnnotationKey{
		ProjectName: a.ProjectName, CarrierLabel: a.CarrierLabel, CarrierRef: a.CarrierRef,
		Name: a.Name, Target: a.Target,
	}
}

// AnnotationKey is Annotation's identity key.
type AnnotationKey struct {
	ProjectName  string
	CarrierLabel NodeLabel
	CarrierRef   string
	Name         string
	Target       AnnotationTarget
}

// Class is one top-level or nested Java type declaration.
type Class struct {
	ProjectName string
	Name        string // FQCN last segment
	PackageName string
	Kind        ClassKind
	Modifiers   []string
	FilePath    string
	SourceText  string // may be cleared after graph write
	LogicalName string
	Description string
	Annotations []Annotation
	Superclass  string // unqualified name, empty if none
	Interfaces  []string
}

func (c Class) Key() ClassKey { return ClassKey{ProjectName: c.ProjectName, Name: c.Name} }

// ClassKey is Class's identity key.
type ClassKey struct {
	ProjectName string
	Name string
}

// Method is one method or constructor declaration.
type Method struct {
	ProjectName string
	ClassName   string
	Name        string
	Signature   string // rendered parameter type list, disambiguates overloads
	Parameters  []Parameter
	ReturnType  string
	Modifiers   []string
	Annotations []Annotation
	LogicalName string
	IsConstructor bool
	// CalledMethodNames is the deduplicated set of callee names invoked
	// from this method's body (unresolved to a receiver type). The
	// intra-project call resolver pass matches these against sibling
	// Method nodes in the same class to produce CALLS edges.
	CalledMethodNames []string
}

func (m Method) Key() MethodKey {
	return MethodKey{ProjectName: m.ProjectName, ClassName: m.ClassName, Name: m.Name, Signature: m.Signature}
}

// MethodKey is Method's identity key.
type MethodKey struct {
	ProjectName string
	ClassName   string
	Name        string
	Signature   string
}

// Field is one field declaration.
type Field struct {
	ProjectName     string
	ClassName       string
	Name            string
	Type            string
	Modifiers       []string
	Annotations     []Annotation
	InitializerText string
	LogicalName     string
}

func (f Field) Key() FieldKey { return FieldKey{ProjectName: f.ProjectName, ClassName: f.ClassName, Name: f.Name} }

// FieldKey is Field's identity key.
type FieldKey struct {
	ProjectName string
	ClassName   string
	Name        string
}

// Bean is the Spring bean identity.
type Bean struct {
	ProjectName string
	Name        string
	Type        BeanType
	ClassName   string
	Scope       string // default "singleton"
}

func (b Bean) Key() BeanKey { return BeanKey{ProjectName: b.ProjectName, Name: b.Name} }

// BeanKey is Bean's identity key (spec I2: unique within a project).
type BeanKey struct {
	ProjectName string
	Name        string
}

// Endpoint is one (verb, path) binding to a handler method.
type Endpoint struct {
	ProjectName     string
	ControllerClass string
	HandlerMethod   string
	HTTPMethod      string
	Path            string
}

func (e Endpoint) Key() EndpointKey {
	return EndpointKey{
		ProjectName:     e.ProjectName,
		ControllerClass: e.ControllerClass,
		HandlerMethod:   e.HandlerMethod,
		HTTPMethod:      e.HTTPMethod,
		Path:            e.Path,
	}
}

// EndpointKey is Endpoint's identity key.
type EndpointKey struct {
	ProjectName     string
	ControllerClass string
	HandlerMethod   string
	HTTPMethod      string
	Path            string
}

// JpaRelationship is one association declared on a JpaEntity.
type JpaRelationship struct {
	Kind       JpaRelationKind
	FieldName  string
	TargetType string // declared target class name, resolved later if possible
}

// JpaEntity is a @Entity-annotated class.
type JpaEntity struct {
	ProjectName   string
	ClassName     string
	TableName     string
	IDFields      []string
	Relationships []JpaRelationship
}

func (j JpaEntity) Key() JpaEntityKey { return JpaEntityKey{ProjectName: j.ProjectName, ClassName: j.ClassName} }

// JpaEntityKey is JpaEntity's identity key.
type JpaEntityKey struct {
	ProjectName string
	ClassName   string
}

// DerivedQuery is one Spring-Data derived query method, parsed from its name.
type DerivedQuery struct {
	MethodName string
	Operation  string // find, count, delete, exists, read, get, query
	Selector   string // the "By..." clause, verbatim
	Projection string // field projected, empty if whole entity
}

// ExplicitQuery is one @Query-annotated repository method.
type ExplicitQuery struct {
	MethodName string
	QueryText  string
	Native     bool
}

// JpaRepository is a Spring Data repository interface.
type JpaRepository struct {
	ProjectName     string
	ClassName       string
	EntityType      string
	Capabilities    []string // e.g. "crud", "paging", "reactive"
	DerivedQueries  []DerivedQuery
	ExplicitQueries []ExplicitQuery
}

func (r JpaRepository) Key() JpaRepositoryKey {
	return JpaRepositoryKey{ProjectName: r.ProjectName, ClassName: r.ClassName}
}

// JpaRepositoryKey is JpaRepository's identity key.
type JpaRepositoryKey struct {
	ProjectName string
	ClassName   string
}

// MyBatisMapper is an interface-declared or XML-declared SQL mapper.
type MyBatisMapper struct {
	ProjectName string
	Name        string
	Source      MapperSource
	XMLPath     string
	Namespace   string
}

func (m MyBatisMapper) Key() MyBatisMapperKey {
	return MyBatisMapperKey{ProjectName: m.ProjectName, Name: m.Name}
}

// MyBatisMapperKey is MyBatisMapper's identity key.
type MyBatisMapperKey struct {
	ProjectName string
	Name        string
}

// SqlParameter is one bound parameter discovered in a SQL statement
// (e.g. #{id} in MyBatis, ? in JDBC, :name in JPQL).
type SqlParameter struct {
	Name  string
	Order int
}

// SqlStatement is one named SQL statement owned by a mapper.
type SqlStatement struct {
	ProjectName string
	MapperName  string
	ID          string
	SqlType     SqlType
	SqlContent  string
	Tables      []string // multiset, as parsed, duplicates preserved
	Parameters  []SqlParameter
}

func (s SqlStatement) Key() SqlStatementKey {
	return SqlStatementKey{ProjectName: s.ProjectName, MapperName: s.MapperName, ID: s.ID}
}

// SqlStatementKey is SqlStatement's identity key.
type SqlStatementKey struct {
	ProjectName string
	MapperName  string
	ID          string
}

// JpaQuery is kept distinct from SqlStatement per the open design question
// in spec.md — a derived or @Query-declared JPA query is never upgraded
// to a SqlStatement node, even though both eventually reference tables.
type JpaQuery struct {
	ProjectName  string
	RepoClass    string
	MethodName   string
	QueryText    string // empty for purely-derived queries
	Derived      bool
	ResolvedSql  SqlType
}

func (q JpaQuery) Key() JpaQueryKey {
	return JpaQueryKey{ProjectName: q.ProjectName, RepoClass: q.RepoClass, MethodName: q.MethodName}
}

// JpaQueryKey is JpaQuery's identity key.
type JpaQueryKey struct {
	ProjectName string
	RepoClass   string
	MethodName  string
}

// Database is one DDL-declared schema/database.
type Database struct {
	ProjectName string
	Name        string
}

func (d Database) Key() DatabaseKey { return DatabaseKey{ProjectName: d.ProjectName, Name: d.Name} }

// DatabaseKey is Database's identity key.
type DatabaseKey struct {
	ProjectName string
	Name        string
}

// Table is one DDL-declared table.
type Table struct {
	ProjectName  string
	DatabaseName string
	Name         string
}

func (t Table) Key() TableKey { return TableKey{ProjectName: t.ProjectName, Name: t.Name} }

// TableKey is Table's identity key. Table names are matched case-insensitively
// against SQL-parsed references (spec.md §4.1 DDL front-end); the key itself
// stores the DDL-declared casing.
type TableKey struct {
	ProjectName string
	Name        string
}

// Column is one column of a Table. Dropped is set when the column was
// observed via an ALTER TABLE DROP COLUMN rather than declared live; the
// node still exists (this engine never deletes graph state from a parse),
// it is just flagged.
type Column struct {
	ProjectName string
	TableName   string
	Name        string
	DataType    string
	Nullable    bool
	Default     string
	Dropped     bool
}

func (c Column) Key() ColumnKey {
	return ColumnKey{ProjectName: c.ProjectName, TableName: c.TableName, Name: c.Name}
}

// ColumnKey is Column's identity key.
type ColumnKey struct {
	ProjectName string
	TableName   string
	Name        string
}

// Index is one DDL-declared index.
type Index struct {
	ProjectName string
	TableName   string
	Name        string
	Columns     []string
	Unique      bool
}

func (i Index) Key() IndexKey {
	return IndexKey{ProjectName: i.ProjectName, TableName: i.TableName, Name: i.Name}
}

// IndexKey is Index's identity key.
type IndexKey struct {
	ProjectName string
	TableName   string
	Name        string
}

// Constraint is one DDL-declared constraint (PK/FK/unique/check). Dropped
// is set when observed via ALTER TABLE DROP CONSTRAINT.
type Constraint struct {
	ProjectName string
	TableName   string
	Name        string
	Kind        string // primary_key, foreign_key, unique, check
	Columns     []string
	RefTable    string // foreign_key only
	RefColumns  []string
	Dropped     bool
}

func (c Constraint) Key() ConstraintKey {
	return ConstraintKey{ProjectName: c.ProjectName, TableName: c.TableName, Name: c.Name}
}

// ConstraintKey is Constraint's identity key.
type ConstraintKey struct {
	ProjectName string
	TableName   string
	Name        string
}

// TestClass is a class carrying test-framework annotations/markers.
type TestClass struct {
	ProjectName string
	ClassName   string
	Subjects    []string // best-effort subject-under-test guesses
	Frameworks  []string // e.g. "junit5", "mockito", "spring-boot-test"
}

func (t TestClass) Key() TestClassKey {
	return TestClassKey{ProjectName: t.ProjectName, ClassName: t.ClassName}
}

// TestClassKey is TestClass's identity key.
type TestClassKey struct {
	ProjectName string
	ClassName   string
}

// ConfigFile is a parsed application.yml/application.properties file.
type ConfigFile struct {
	ProjectName string
	Path        string
	Values      map[string]string
}

func (c ConfigFile) Key() ConfigFileKey {
	return ConfigFileKey{ProjectName: c.ProjectName, Path: c.Path}
}

// ConfigFileKey is ConfigFile's identity key.
type ConfigFileKey struct {
	ProjectName string
	Path        string
}
