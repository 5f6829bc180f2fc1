package graphstore

import "github.com/codegraph-labs/springgraph/pkg/models"

// keyParams renders a node's identity key as the property map a MERGE
// predicate matches on. One case per NodeLabel, matching the key struct
// pkg/models/node.go defines for that label.
func keyParams(label models.NodeLabel, key any) map[string]any {
	switch label {
	case models.LabelProject:
		return map[string]any{"name": key.(string)}
	case models.LabelPackage:
		k := key.(models.PackageKey)
		return map[string]any{"projectName": k.ProjectName, "name": k.Name}
	case models.LabelClass:
		k := key.(models.ClassKey)
		return map[string]any{"projectName": k.ProjectName, "name": k.Name}
	case models.LabelMethod:
		k := key.(models.MethodKey)
		return map[string]any{"projectName": k.ProjectName, "className": k.ClassName, "name": k.Name, "signature": k.Signature}
	case models.LabelField:
		k := key.(models.FieldKey)
		return map[string]any{"projectName": k.ProjectName, "className": k.ClassName, "name": k.Name}
	case models.LabelAnnotation:
		k := key.(models.AnnotationKey)
		return map[string]any{
			"projectName": k.ProjectName, "carrierLabel": string(k.CarrierLabel),
			"carrierRef": k.CarrierRef, "name": k.Name, "target": string(k.Target),
		}
	case models.LabelBean:
		k := key.(models.BeanKey)
		return map[string]any{"projectName": k.ProjectName, "name": k.Name}
	case models.LabelEndpoint:
		k := key.(models.EndpointKey)
		return map[string]any{
			"projectName": k.ProjectName, "controllerClass": k.ControllerClass,
			"handlerMethod": k.HandlerMethod, "httpMethod": k.HTTPMethod, "path": k.Path,
		}
	case models.LabelJpaEntity:
		k := key.(models.JpaEntityKey)
		return map[string]any{"projectName": k.ProjectName, "className": k.ClassName}
	case models.LabelJpaRepository:
		k := key.(models.JpaRepositoryKey)
		return map[string]any{"projectName": k.ProjectName, "className": k.ClassName}
	case models.LabelJpaQuery:
		k := key.(models.JpaQueryKey)
		return map[string]any{"projectName": k.ProjectName, "repoClass": k.RepoClass, "methodName": k.MethodName}
	case models.LabelMyBatisMapper:
		k := key.(models.MyBatisMapperKey)
		return map[string]any{"projectName": k.ProjectName, "name": k.Name}
	case models.LabelSqlStatement:
		k := key.(models.SqlStatementKey)
		return map[string]any{"projectName": k.ProjectName, "mapperName": k.MapperName, "id": k.ID}
	case models.LabelDatabase:
		k := key.(models.DatabaseKey)
		return map[string]any{"projectName": k.ProjectName, "name": k.Name}
	case models.LabelTable:
		k := key.(models.TableKey)
		return map[string]any{"projectName": k.ProjectName, "name": k.Name}
	case models.LabelColumn:
		k := key.(models.ColumnKey)
		return map[string]any{"projectName": k.ProjectName, "tableName": k.TableName, "name": k.Name}
	case models.LabelIndex:
		k := key.(models.IndexKey)
		return map[string]any{"projectName": k.ProjectName, "tableName": k.TableName, "name": k.Name}
	case models.LabelConstraint:
		k := key.(models.ConstraintKey)
		return map[string]any{"projectName": k.ProjectName, "tableName": k.TableName, "name": k.Name}
	case models.LabelTestClass:
		k := key.(models.TestClassKey)
		return map[string]any{"projectName": k.ProjectName, "className": k.ClassName}
	case models.LabelConfigFile:
		k := key.(models.ConfigFileKey)
		return map[string]any{"projectName": k.ProjectName, "path": k.Path}
	default:
		return map[string]any{}
	}
}

func paramListOf[T any](items []T, toParams func(T) map[string]any) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = toParams(item)
	}
	return out
}

func packageParams(p models.Package) map[string]any {
	return map[string]any{"projectName": p.ProjectName, "name": p.Name, "logicalName": p.LogicalName}
}

func classParams(c models.Class) map[string]any {
	return map[string]any{
		"projectName": c.ProjectName, "name": c.Name, "packageName": c.PackageName,
		"kind": string(c.Kind), "modifiers": c.Modifiers, "filePath": c.FilePath,
		"logicalName": c.LogicalName, "description": c.Description,
		"superclass": c.Superclass, "interfaces": c.Interfaces,
	}
}

func annotationParams(a models.Annotation) map[string]any {
	return map[string]any{
		"projectName": a.ProjectName, "carrierLabel": string(a.CarrierLabel), "carrierRef": a.CarrierRef,
		"name": a.Name, "target": string(a.Target), "parameters": flattenStringMap(a.Parameters),
	}
}

func methodParams(m models.Method) map[string]any {
	paramTypes := make([]string, len(m.Parameters))
	paramNames := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		paramTypes[i], paramNames[i] = p.Type, p.Name
	}
	return map[string]any{
		"projectName": m.ProjectName, "className": m.ClassName, "name": m.Name, "signature": m.Signature,
		"returnType": m.ReturnType, "modifiers": m.Modifiers, "logicalName": m.LogicalName,
		"isConstructor": m.IsConstructor, "paramTypes": paramTypes, "paramNames": paramNames,
		"calledMethodNames": m.CalledMethodNames,
	}
}

func fieldParams(f models.Field) map[string]any {
	return map[string]any{
		"projectName": f.ProjectName, "className": f.ClassName, "name": f.Name, "type": f.Type,
		"modifiers": f.Modifiers, "initializerText": f.InitializerText, "logicalName": f.LogicalName,
	}
}

func beanParams(b models.Bean) map[string]any {
	return map[string]any{
		"projectName": b.ProjectName, "name": b.Name, "type": string(b.Type),
		"className": b.ClassName, "scope": b.Scope,
	}
}

func endpointParams(e models.Endpoint) map[string]any {
	return map[string]any{
		"projectName": e.ProjectName, "controllerClass": e.ControllerClass, "handlerMethod": e.HandlerMethod,
		"httpMethod": e.HTTPMethod, "path": e.Path,
	}
}

func jpaEntityParams(j models.JpaEntity) map[string]any {
	relKinds := make([]string, len(j.Relationships))
	relFields := make([]string, len(j.Relationships))
	relTargets := make([]string, len(j.Relationships))
	for i, r := range j.Relationships {
		relKinds[i], relFields[i], relTargets[i] = string(r.Kind), r.FieldName, r.TargetType
	}
	return map[string]any{
		"projectName": j.ProjectName, "className": j.ClassName, "tableName": j.TableName,
		"idFields": j.IDFields, "relationshipKinds": relKinds, "relationshipFields": relFields,
		"relationshipTargets": relTargets,
	}
}

func jpaRepositoryParams(r models.JpaRepository) map[string]any {
	return map[string]any{
		"projectName": r.ProjectName, "className": r.ClassName, "entityType": r.EntityType,
		"capabilities": r.Capabilities,
	}
}

func jpaQueryParams(q models.JpaQuery) map[string]any {
	return map[string]any{
		"projectName": q.ProjectName, "repoClass": q.RepoClass, "methodName": q.MethodName,
		"queryText": q.QueryText, "derived": q.Derived, "resolvedSql": string(q.ResolvedSql),
	}
}

func myBatisMapperParams(m models.MyBatisMapper) map[string]any {
	return map[string]any{
		"projectName": m.ProjectName, "name": m.Name, "source": string(m.Source),
		"xmlPath": m.XMLPath, "namespace": m.Namespace,
	}
}

func sqlStatementParams(s models.SqlStatement) map[string]any {
	paramNames := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		paramNames[i] = p.Name
	}
	return map[string]any{
		"projectName": s.ProjectName, "mapperName": s.MapperName, "id": s.ID,
		"sqlType": string(s.SqlType), "sqlContent": s.SqlContent, "tables": s.Tables,
		"parameterNames": paramNames,
	}
}

func databaseParams(d models.Database) map[string]any {
	return map[string]any{"projectName": d.ProjectName, "name": d.Name}
}

func tableParams(t models.Table) map[string]any {
	return map[string]any{"projectName": t.ProjectName, "databaseName": t.DatabaseName, "name": t.Name}
}

func columnParams(c models.Column) map[string]any {
	return map[string]any{
		"projectName": c.ProjectName, "tableName": c.TableName, "name": c.Name,
		"dataType": c.DataType, "nullable": c.Nullable, "default": c.Default, "dropped": c.Dropped,
	}
}

func indexParams(i models.Index) map[string]any {
	return map[string]any{
		"projectName": i.ProjectName, "tableName": i.TableName, "name": i.Name,
		"columns": i.Columns, "unique": i.Unique,
	}
}

func constraintParams(c models.Constraint) map[string]any {
	return map[string]any{
		"projectName": c.ProjectName, "tableName": c.TableName, "name": c.Name, "kind": c.Kind,
		"columns": c.Columns, "refTable": c.RefTable, "refColumns": c.RefColumns, "dropped": c.Dropped,
	}
}

func testClassParams(t models.TestClass) map[string]any {
	return map[string]any{
		"projectName": t.ProjectName, "className": t.ClassName,
		"subjects": t.Subjects, "frameworks": t.Frameworks,
	}
}

func configFileParams(c models.ConfigFile) map[string]any {
	return map[string]any{"projectName": c.ProjectName, "path": c.Path, "values": flattenStringMap(c.Values)}
}

// flattenStringMap renders a map[string]string as alternating key/value
// pairs: Neo4j node properties cannot be maps, only primitives and arrays
// of primitives, so this is the one array shape every driver accepts.
func flattenStringMap(m map[string]string) []string {
	out := make([]string, 0, len(m)*2)
	for k, v := range m {
		out = append(out, k, v)
	}
	return out
}
