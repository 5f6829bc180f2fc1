// Package extract implements the artifact extractors (C3): each front-end's
// AST is turned into the node/edge shapes of pkg/models, bundled per file
// into a models.ArtifactBundle. Extractors never resolve cross-file
// references themselves — bean dependency injection, method-to-SQL, and
// SQL-to-table links are all produced later by internal/resolver, once
// every file's bundle has been applied to the graph store.
package extract

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/codegraph-labs/springgraph/internal/namerules"
	"github.com/codegraph-labs/springgraph/internal/parser/javaast"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

var httpMappingMethods = map[string]string{
	"GetMapping":     "GET",
	"PostMapping":    "POST",
	"PutMapping":     "PUT",
	"DeleteMapping":  "DELETE",
	"PatchMapping":   "PATCH",
	"RequestMapping": "",
}

var stereotypeBeanTypes = map[string]models.BeanType{
	"Component":  models.BeanTypeComponent,
	"Service":    models.BeanTypeService,
	"Repository": models.BeanTypeRepository,
	"Controller": models.BeanTypeController,
	"RestController": models.BeanTypeController,
	"Configuration": models.BeanTypeConfiguration,
}

var derivedQueryPrefixRe = regexp.MustCompile(`^(findBy|countBy|deleteBy|existsBy|readBy|getBy|queryBy)(.*)$`)

// JavaExtractor turns a javaast.CompilationUnit into the Class/Method/Field/
// Bean/Endpoint/JpaEntity/JpaRepository/JpaQuery/TestClass/MyBatisMapper
// portions of an ArtifactBundle.
type JavaExtractor struct {
	ProjectName string
	Rules       *namerules.LogicalNameRuleSet
}

func NewJavaExtractor(projectName string) *JavaExtractor {
	return &JavaExtractor{ProjectName: projectName, Rules: namerules.DefaultJavaRuleSet()}
}

// Extract walks every top-level and nested type declaration in cu and
// appends its artifacts to bundle.
func (x *JavaExtractor) Extract(cu *javaast.CompilationUnit, bundle *models.ArtifactBundle) {
	if cu.Package != "" {
		pkg := models.Package{
			ProjectName: x.ProjectName,
			Name:        cu.Package,
			LogicalName: namerules.SplitCamelCase(lastSegment(cu.Package))[0],
		}
		bundle.Packages = append(bundle.Packages, pkg)
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeHasPackage, FromLabel: models.LabelProject, FromKey: x.ProjectName,
			ToLabel: models.LabelPackage, ToKey: pkg.Key(),
		})
	}
	for _, t := range cu.Types {
		x.extractType(t, cu.Package, bundle)
	}
}

func lastSegment(dotted string) string {
	parts := strings.Split(dotted, ".")
	return parts[len(parts)-1]
}

func (x *JavaExtractor) extractType(t javaast.TypeDecl, pkg string, bundle *models.ArtifactBundle) {
	kind := models.ClassKindClass
	switch t.Kind {
	case javaast.TypeKindInterface:
		kind = models.ClassKindInterface
	case javaast.TypeKindEnum:
		kind = models.ClassKindEnum
	}

	logicalName, description := x.Rules.Extract(t.Name, t.DocComment)
	class := models.Class{
		ProjectName: x.ProjectName,
		Name:        t.Name,
		PackageName: pkg,
		Kind:        kind,
		Modifiers:   t.Modifiers,
		LogicalName: logicalName,
		Description: description,
		Superclass:  t.Superclass,
		Interfaces:  t.Interfaces,
	}
	for _, a := range t.Annotations {
		class.Annotations = append(class.Annotations, toModelAnnotation(a, models.AnnotationTargetClass))
	}
	bundle.Classes = append(bundle.Classes, class)
	for _, ann := range class.Annotations {
		x.materializeAnnotation(bundle, models.LabelClass, class.Key(), class.Name, ann)
	}

	if pkg != "" {
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeContains, FromLabel: models.LabelPackage, FromKey: models.PackageKey{ProjectName: x.ProjectName, Name: pkg},
			ToLabel: models.LabelClass, ToKey: class.Key(),
		})
	}
	if class.Superclass != "" {
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeExtends, FromLabel: models.LabelClass, FromKey: class.Key(),
			ToLabel: models.LabelClass, ToKey: models.ClassKey{ProjectName: x.ProjectName, Name: class.Superclass},
		})
	}
	for _, iface := range class.Interfaces {
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeImplements, FromLabel: models.LabelClass, FromKey: class.Key(),
			ToLabel: models.LabelClass, ToKey: models.ClassKey{ProjectName: x.ProjectName, Name: iface},
		})
	}

	x.extractFields(t, class, bundle)
	x.extractMethods(t, class, bundle)
	x.extractBean(t, class, bundle)
	x.extractEndpoints(t, class, bundle)
	x.extractJpaEntity(t, class, bundle)
	x.extractJpaRepository(t, class, bundle)
	x.extractMyBatisInterface(t, class, bundle)
	x.extractTestClass(t, class, bundle)

	for _, nested := range t.Nested {
		x.extractType(nested, pkg, bundle)
	}
}

func toModelAnnotation(a javaast.AnnotationRef, target models.AnnotationTarget) models.Annotation {
	return models.Annotation{Name: a.Name, Parameters: a.Parameters, Target: target}
}

// materializeAnnotation records ann as its own Annotation node linked to its
// carrier by HAS_ANNOTATION, so annotations are queryable independent of the
// carrier they decorate (spec's Annotation node kind).
func (x *JavaExtractor) materializeAnnotation(bundle *models.ArtifactBundle, carrierLabel models.NodeLabel, carrierKey any, carrierRef string, ann models.Annotation) {
	ann.ProjectName = x.ProjectName
	ann.CarrierLabel = carrierLabel
	ann.CarrierRef = carrierRef
	bundle.Annotations = append(bundle.Annotations, ann)
	bundle.Edges = append(bundle.Edges, models.Edge{
		Label: models.EdgeHasAnnotation, FromLabel: carrierLabel, FromKey: carrierKey,
		ToLabel: models.LabelAnnotation, ToKey: ann.Key(),
	})
}

func hasAnnotation(annos []javaast.AnnotationRef, name string) (javaast.AnnotationRef, bool) {
	for _, a := range annos {
		if a.Name == name {
			return a, true
		}
	}
	return javaast.AnnotationRef{}, false
}

func (x *JavaExtractor) extractFields(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	for _, f := range t.Fields {
		logicalName, _ := x.Rules.Extract(f.Name, "")
		field := models.Field{
			ProjectName:     x.ProjectName,
			ClassName:       class.Name,
			Name:            f.Name,
			Type:            f.Type,
			Modifiers:       f.Modifiers,
			InitializerText: f.InitializerText,
			LogicalName:     logicalName,
		}
		for _, a := range f.Annotations {
			field.Annotations = append(field.Annotations, toModelAnnotation(a, models.AnnotationTargetField))
		}
		bundle.Fields = append(bundle.Fields, field)
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeHasField, FromLabel: models.LabelClass, FromKey: class.Key(),
			ToLabel: models.LabelField, ToKey: field.Key(),
		})
		carrierRef := class.Name + "#" + field.Name
		for _, ann := range field.Annotations {
			x.materializeAnnotation(bundle, models.LabelField, field.Key(), carrierRef, ann)
		}
	}
}

func (x *JavaExtractor) extractMethods(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	for _, m := range t.Methods {
		logicalName, description := x.Rules.Extract(m.Name, m.DocComment)
		method := models.Method{
			ProjectName:       x.ProjectName,
			ClassName:         class.Name,
			Name:              m.Name,
			Signature:         methodSignature(m),
			ReturnType:        m.ReturnType,
			Modifiers:         m.Modifiers,
			LogicalName:       logicalName,
			IsConstructor:     m.IsConstructor,
			CalledMethodNames: calledMethodNames(m.Calls),
		}
		_ = description
		for _, p := range m.Parameters {
			method.Parameters = append(method.Parameters, models.Parameter{Name: p.Name, Type: p.Type, Order: len(method.Parameters)})
		}
		for _, a := range m.Annotations {
			method.Annotations = append(method.Annotations, toModelAnnotation(a, models.AnnotationTargetMethod))
		}
		bundle.Methods = append(bundle.Methods, method)
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeHasMethod, FromLabel: models.LabelClass, FromKey: class.Key(),
			ToLabel: models.LabelMethod, ToKey: method.Key(),
		})
		carrierRef := class.Name + "#" + method.Name + method.Signature
		for _, ann := range method.Annotations {
			x.materializeAnnotation(bundle, models.LabelMethod, method.Key(), carrierRef, ann)
		}
	}
}

// calledMethodNames deduplicates a method's call-site callee names,
// preserving first-seen order.
func calledMethodNames(calls []javaast.CallSite) []string {
	if len(calls) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for _, c := range calls {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	return names
}

func methodSignature(m javaast.MethodDecl) string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return "(" + strings.Join(types, ",") + ")"
}

// extractBean detects a Spring-managed bean from a class-level stereotype
// annotation (@Component/@Service/@Repository/@Controller/@RestController/
// @Configuration); @Bean factory methods are handled by extractFactoryBeans,
// which extractBean invokes for @Configuration classes.
func (x *JavaExtractor) extractBean(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	var beanType models.BeanType
	var matched bool
	for _, a := range t.Annotations {
		if bt, ok := stereotypeBeanTypes[a.Name]; ok {
			beanType, matched = bt, true
			break
		}
	}
	if !matched {
		return
	}
	name := a0Value(t.Annotations, stereotypeNames())
	if name == "" {
		name = decapitalize(class.Name)
	}
	bean := models.Bean{ProjectName: x.ProjectName, Name: name, Type: beanType, ClassName: class.Name, Scope: "singleton"}
	bundle.Beans = append(bundle.Beans, bean)
	bundle.Edges = append(bundle.Edges, models.Edge{
		Label: models.EdgeDeclaresBean, FromLabel: models.LabelClass, FromKey: class.Key(),
		ToLabel: models.LabelBean, ToKey: bean.Key(),
	})

	if beanType == models.BeanTypeConfiguration {
		x.extractFactoryBeans(t, bundle)
	}
}

func stereotypeNames() []string {
	names := make([]string, 0, len(stereotypeBeanTypes))
	for k := range stereotypeBeanTypes {
		names = append(names, k)
	}
	return names
}

func a0Value(annos []javaast.AnnotationRef, names []string) string {
	for _, n := range names {
		if a, ok := hasAnnotation(annos, n); ok {
			if v, ok := a.Parameters["value"]; ok {
				return v
			}
		}
	}
	return ""
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (x *JavaExtractor) extractFactoryBeans(t javaast.TypeDecl, bundle *models.ArtifactBundle) {
	for _, m := range t.Methods {
		a, ok := hasAnnotation(m.Annotations, "Bean")
		if !ok {
			continue
		}
		name := a.Parameters["value"]
		if name == "" {
			name = a.Parameters["name"]
		}
		if name == "" {
			name = m.Name
		}
		bean := models.Bean{
			ProjectName: x.ProjectName, Name: name, Type: models.BeanTypeFactoryMethod,
			ClassName: t.Name, Scope: "singleton",
		}
		bundle.Beans = append(bundle.Beans, bean)
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeDeclaresBean, FromLabel: models.LabelClass, FromKey: models.ClassKey{ProjectName: x.ProjectName, Name: t.Name},
			ToLabel: models.LabelBean, ToKey: bean.Key(),
		})
	}
}

// extractEndpoints emits one Endpoint per mapping annotation on a handler
// method (@GetMapping, @PostMapping, ..., @RequestMapping). A class carrying
// @RequestMapping contributes the controller's base path. The verb is the
// one the mapping annotation names; @RequestMapping takes it from a single
// method = RequestMethod.X value and is recorded as GET otherwise.
// Array-valued method or path attributes are not expanded: a mapping that
// lists several verbs or paths yields one Endpoint, not one per
// (verb, path) pair.
func (x *JavaExtractor) extractEndpoints(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	if _, isController := hasAnnotation(t.Annotations, "RestController"); !isController {
		if _, isController = hasAnnotation(t.Annotations, "Controller"); !isController {
			return
		}
	}

	basePath := ""
	if rm, ok := hasAnnotation(t.Annotations, "RequestMapping"); ok {
		basePath = mappingPath(rm)
	}

	for _, m := range t.Methods {
		for _, a := range m.Annotations {
			defaultVerb, known := httpMappingMethods[a.Name]
			if !known {
				continue
			}
			verb := defaultVerb
			if verb == "" {
				verb = parseRequestMethod(a.Parameters["method"])
			}
			path := combinePaths(basePath, mappingPath(a))
			path = normalizePathParams(path)

			ep := models.Endpoint{
				ProjectName:     x.ProjectName,
				ControllerClass: class.Name,
				HandlerMethod:   m.Name,
				HTTPMethod:      verb,
				Path:            path,
			}
			bundle.Endpoints = append(bundle.Endpoints, ep)
			bundle.Edges = append(bundle.Edges, models.Edge{
				Label: models.EdgeHasEndpoint, FromLabel: models.LabelClass, FromKey: class.Key(),
				ToLabel: models.LabelEndpoint, ToKey: ep.Key(),
			})
		}
	}
}

func mappingPath(a javaast.AnnotationRef) string {
	if v, ok := a.Parameters["value"]; ok {
		return v
	}
	if v, ok := a.Parameters["path"]; ok {
		return v
	}
	return ""
}

func parseRequestMethod(v string) string {
	v = strings.ToUpper(v)
	v = strings.TrimPrefix(v, "REQUESTMETHOD.")
	switch v {
	case "GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS":
		return v
	default:
		return "GET"
	}
}

func combinePaths(base, relative string) string {
	if base == "" {
		if relative == "" {
			return "/"
		}
		if !strings.HasPrefix(relative, "/") {
			return "/" + relative
		}
		return relative
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if relative == "" {
		return base
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(relative, "/") {
		relative = "/" + relative
	}
	return base + relative
}

var regexParamRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*):[^}]+\}`)

func normalizePathParams(path string) string {
	return regexParamRe.ReplaceAllString(path, "{$1}")
}

// extractJpaEntity detects an @Entity-annotated class, its table name
// (explicit @Table(name=...) or an inflected default), its @Id fields, and
// its association fields (@OneToOne/@OneToMany/@ManyToOne/@ManyToMany).
func (x *JavaExtractor) extractJpaEntity(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	if _, ok := hasAnnotation(t.Annotations, "Entity"); !ok {
		return
	}

	tableName := ""
	if tbl, ok := hasAnnotation(t.Annotations, "Table"); ok {
		tableName = tbl.Parameters["name"]
	}
	if tableName == "" {
		tableName = inflect.Pluralize(strings.ToLower(class.Name))
	}

	entity := models.JpaEntity{ProjectName: x.ProjectName, ClassName: class.Name, TableName: tableName}
	for _, f := range t.Fields {
		if _, ok := hasAnnotation(f.Annotations, "Id"); ok {
			entity.IDFields = append(entity.IDFields, f.Name)
		}
		for kind, annoName := range jpaRelationAnnotations {
			if _, ok := hasAnnotation(f.Annotations, annoName); ok {
				entity.Relationships = append(entity.Relationships, models.JpaRelationship{
					Kind: kind, FieldName: f.Name, TargetType: f.Type,
				})
			}
		}
	}
	bundle.JpaEntities = append(bundle.JpaEntities, entity)
	bundle.Edges = append(bundle.Edges, models.Edge{
		Label: models.EdgeMapsToTable, FromLabel: models.LabelClass, FromKey: class.Key(),
		ToLabel: models.LabelTable, ToKey: models.TableKey{ProjectName: x.ProjectName, Name: tableName},
	})
}

var jpaRelationAnnotations = map[models.JpaRelationKind]string{
	models.JpaOneToOne:   "OneToOne",
	models.JpaOneToMany:  "OneToMany",
	models.JpaManyToOne:  "ManyToOne",
	models.JpaManyToMany: "ManyToMany",
}

// extractJpaRepository detects a Spring Data repository interface,
// recognizing JpaRepository/CrudRepository/PagingAndSortingRepository
// extends clauses and the entity type parameter, plus derived-query and
// @Query-annotated methods.
func (x *JavaExtractor) extractJpaRepository(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	if t.Kind != javaast.TypeKindInterface {
		return
	}
	entityType, capability, ok := springDataSuperInterface(t.Interfaces)
	if !ok {
		return
	}

	repo := models.JpaRepository{ProjectName: x.ProjectName, ClassName: class.Name, EntityType: entityType, Capabilities: []string{capability}}
	for _, m := range t.Methods {
		if q, ok := hasAnnotation(m.Annotations, "Query"); ok {
			repo.ExplicitQueries = append(repo.ExplicitQueries, models.ExplicitQuery{
				MethodName: m.Name, QueryText: q.Parameters["value"], Native: q.Parameters["nativeQuery"] == "true",
			})
			bundle.JpaQueries = append(bundle.JpaQueries, models.JpaQuery{
				ProjectName: x.ProjectName, RepoClass: class.Name, MethodName: m.Name, QueryText: q.Parameters["value"],
			})
			continue
		}
		if dq, ok := parseDerivedQuery(m.Name); ok {
			repo.DerivedQueries = append(repo.DerivedQueries, dq)
			bundle.JpaQueries = append(bundle.JpaQueries, models.JpaQuery{
				ProjectName: x.ProjectName, RepoClass: class.Name, MethodName: m.Name, Derived: true,
			})
		}
	}
	bundle.JpaRepositories = append(bundle.JpaRepositories, repo)
}

// springDataSuperInterface returns whether one of ifaces is a recognized
// Spring Data repository supertype carrying an entity type parameter; the
// type parameter itself is not available from the unqualified interface
// name alone (spec.md Non-goals exclude semantic type resolution), so the
// returned entity type is always empty, and no later pass fills it in.
func springDataSuperInterface(ifaces []string) (entityType, capability string, ok bool) {
	for _, iface := range ifaces {
		switch iface {
		case "JpaRepository":
			return "", "crud", true
		case "CrudRepository":
			return "", "crud", true
		case "PagingAndSortingRepository":
			return "", "paging", true
		case "ReactiveCrudRepository":
			return "", "reactive", true
		}
	}
	return "", "", false
}

func parseDerivedQuery(methodName string) (models.DerivedQuery, bool) {
	m := derivedQueryPrefixRe.FindStringSubmatch(methodName)
	if m == nil {
		return models.DerivedQuery{}, false
	}
	op := strings.TrimSuffix(m[1], "By")
	return models.DerivedQuery{MethodName: methodName, Operation: strings.ToLower(op), Selector: m[2]}, true
}

// extractMyBatisInterface recognizes a @Mapper-annotated interface as a
// MyBatisMapper with source "interface"; its SQL statements (if declared
// inline via @Select/@Insert/@Update/@Delete) are recorded as
// SqlStatements keyed by method name.
func (x *JavaExtractor) extractMyBatisInterface(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	if t.Kind != javaast.TypeKindInterface {
		return
	}
	if _, ok := hasAnnotation(t.Annotations, "Mapper"); !ok {
		return
	}
	mapper := models.MyBatisMapper{ProjectName: x.ProjectName, Name: class.Name, Source: models.MapperSourceInterface}
	bundle.MyBatisMappers = append(bundle.MyBatisMappers, mapper)

	for _, m := range t.Methods {
		sqlType, sqlText, ok := inlineMyBatisSQL(m.Annotations)
		if !ok {
			continue
		}
		stmt := models.SqlStatement{
			ProjectName: x.ProjectName, MapperName: mapper.Name, ID: m.Name,
			SqlType: sqlType, SqlContent: sqlText,
		}
		bundle.SqlStatements = append(bundle.SqlStatements, stmt)
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeHasSqlStatement, FromLabel: models.LabelMyBatisMapper, FromKey: mapper.Key(),
			ToLabel: models.LabelSqlStatement, ToKey: stmt.Key(),
		})
	}
}

var inlineMyBatisAnnotations = map[string]models.SqlType{
	"Select": models.SqlSelect,
	"Insert": models.SqlInsert,
	"Update": models.SqlUpdate,
	"Delete": models.SqlDelete,
}

func inlineMyBatisSQL(annos []javaast.AnnotationRef) (models.SqlType, string, bool) {
	for name, sqlType := range inlineMyBatisAnnotations {
		if a, ok := hasAnnotation(annos, name); ok {
			return sqlType, a.Parameters["value"], true
		}
	}
	return "", "", false
}

var testFrameworkAnnotations = map[string]string{
	"Test":           "junit5",
	"SpringBootTest": "spring-boot-test",
	"DataJpaTest":    "spring-boot-test",
	"WebMvcTest":     "spring-boot-test",
	"Mock":           "mockito",
	"MockBean":       "mockito",
}

// extractTestClass flags a class as a test when it or any of its methods
// carries a recognized test-framework annotation, guessing the
// subject-under-test from the class name's "Test"/"Tests" suffix.
func (x *JavaExtractor) extractTestClass(t javaast.TypeDecl, class models.Class, bundle *models.ArtifactBundle) {
	frameworks := map[string]bool{}
	for _, a := range t.Annotations {
		if fw, ok := testFrameworkAnnotations[a.Name]; ok {
			frameworks[fw] = true
		}
	}
	for _, m := range t.Methods {
		for _, a := range m.Annotations {
			if fw, ok := testFrameworkAnnotations[a.Name]; ok {
				frameworks[fw] = true
			}
		}
	}
	if len(frameworks) == 0 {
		return
	}

	tc := models.TestClass{ProjectName: x.ProjectName, ClassName: class.Name}
	for fw := range frameworks {
		tc.Frameworks = append(tc.Frameworks, fw)
	}
	if subject, ok := strings.CutSuffix(class.Name, "Test"); ok {
		tc.Subjects = []string{subject}
	} else if subject, ok := strings.CutSuffix(class.Name, "Tests"); ok {
		tc.Subjects = []string{subject}
	}
	bundle.TestClasses = append(bundle.TestClasses, tc)
}
