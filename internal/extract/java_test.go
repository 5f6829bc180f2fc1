package extract

import (
	"context"
	"testing"

	"github.com/codegraph-labs/springgraph/internal/parser"
	"github.com/codegraph-labs/springgraph/internal/parser/javaast"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

func parseJava(t *testing.T, src string) *javaast.CompilationUnit {
	t.Helper()
	p := javaast.New()
	ast, err := p.Parse(context.Background(), parser.FileInput{Path: "T.java", Content: []byte(src)})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ast.(*javaast.CompilationUnit)
}

func TestExtractController(t *testing.T) {
	cu := parseJava(t, `
package com.example.web;

@RestController
@RequestMapping("/api/users")
public class UserController {
    @GetMapping("/{id}")
    public User getUser(@PathVariable Long id) {
        return null;
    }

    @PostMapping
    public User createUser() {
        return null;
    }
}
`)
	x := NewJavaExtractor("demo")
	bundle := &models.ArtifactBundle{}
	x.Extract(cu, bundle)

	if len(bundle.Endpoints) != 2 {
		t.Fatalf("endpoints = %d, want 2: %+v", len(bundle.Endpoints), bundle.Endpoints)
	}
	foundGet, foundPost := false, false
	for _, e := range bundle.Endpoints {
		if e.HTTPMethod == "GET" && e.Path == "/api/users/{id}" {
			foundGet = true
		}
		if e.HTTPMethod == "POST" && e.Path == "/api/users" {
			foundPost = true
		}
	}
	if !foundGet || !foundPost {
		t.Fatalf("endpoints = %+v", bundle.Endpoints)
	}
}

func TestExtractJpaEntity(t *testing.T) {
	cu := parseJava(t, `
package com.example.domain;

@Entity
@Table(name = "app_users")
public class User {
    @Id
    private Long id;

    @OneToMany
    private List<Order> orders;
}
`)
	x := NewJavaExtractor("demo")
	bundle := &models.ArtifactBundle{}
	x.Extract(cu, bundle)

	if len(bundle.JpaEntities) != 1 {
		t.Fatalf("jpa entities = %d, want 1", len(bundle.JpaEntities))
	}
	entity := bundle.JpaEntities[0]
	if entity.TableName != "app_users" {
		t.Fatalf("table name = %q", entity.TableName)
	}
	if len(entity.IDFields) != 1 || entity.IDFields[0] != "id" {
		t.Fatalf("id fields = %v", entity.IDFields)
	}
	if len(entity.Relationships) != 1 || entity.Relationships[0].Kind != models.JpaOneToMany {
		t.Fatalf("relationships = %+v", entity.Relationships)
	}

	var mapsToTable *models.Edge
	for i := range bundle.Edges {
		if bundle.Edges[i].Label == models.EdgeMapsToTable {
			mapsToTable = &bundle.Edges[i]
		}
	}
	if mapsToTable == nil {
		t.Fatal("expected a MAPS_TO_TABLE edge from the entity class to its table")
	}
	if mapsToTable.FromLabel != models.LabelClass || mapsToTable.ToLabel != models.LabelTable {
		t.Fatalf("MAPS_TO_TABLE shape = %+v, want Class->Table", mapsToTable)
	}
	for _, e := range bundle.Edges {
		if e.Label == models.EdgeUsesTable {
			t.Fatalf("JPA entity extraction should not emit USES_TABLE (that label is reserved for SqlStatement->Table), got %+v", e)
		}
	}
}

func TestExtractJpaRepositoryDerivedQuery(t *testing.T) {
	cu := parseJava(t, `
package com.example.repo;

public interface UserRepository extends JpaRepository<User, Long> {
    List<User> findByEmail(String email);

    @Query("SELECT u FROM User u WHERE u.active = true")
    List<User> findActiveUsers();
}
`)
	x := NewJavaExtractor("demo")
	bundle := &models.ArtifactBundle{}
	x.Extract(cu, bundle)

	if len(bundle.JpaRepositories) != 1 {
		t.Fatalf("repositories = %d, want 1", len(bundle.JpaRepositories))
	}
	repo := bundle.JpaRepositories[0]
	if len(repo.DerivedQueries) != 1 || repo.DerivedQueries[0].Operation != "find" {
		t.Fatalf("derived queries = %+v", repo.DerivedQueries)
	}
	if len(repo.ExplicitQueries) != 1 {
		t.Fatalf("explicit queries = %+v", repo.ExplicitQueries)
	}
}

func TestExtractBeanStereotype(t *testing.T) {
	cu := parseJava(t, `
package com.example.service;

@Service
public class UserService {
}
`)
	x := NewJavaExtractor("demo")
	bundle := &models.ArtifactBundle{}
	x.Extract(cu, bundle)

	if len(bundle.Beans) != 1 {
		t.Fatalf("beans = %d, want 1", len(bundle.Beans))
	}
	if bundle.Beans[0].Name != "userService" || bundle.Beans[0].Type != models.BeanTypeService {
		t.Fatalf("bean = %+v", bundle.Beans[0])
	}
}
