package javaast

import (
	"context"
	"testing"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

func parseSrc(t *testing.T, src string) *CompilationUnit {
	t.Helper()
	p := New()
	ast, err := p.Parse(context.Background(), parser.FileInput{Path: "Test.java", Content: []byte(src)})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cu, ok := ast.(*CompilationUnit)
	if !ok {
		t.Fatalf("Parse returned %T, want *CompilationUnit", ast)
	}
	return cu
}

func TestBasicClass(t *testing.T) {
	cu := parseSrc(t, `
package com.example.app;

public class UserService {
    private UserRepository repo;

    public User findById(Long id) {
        return repo.findById(id).orElse(null);
    }
}
`)
	if cu.Package != "com.example.app" {
		t.Fatalf("package = %q, want com.example.app", cu.Package)
	}
	if len(cu.Types) != 1 {
		t.Fatalf("types = %d, want 1", len(cu.Types))
	}
	cls := cu.Types[0]
	if cls.Name != "UserService" || cls.Kind != TypeKindClass {
		t.Fatalf("class = %+v", cls)
	}
	if len(cls.Fields) != 1 || cls.Fields[0].Name != "repo" {
		t.Fatalf("fields = %+v", cls.Fields)
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "findById" {
		t.Fatalf("methods = %+v", cls.Methods)
	}
}

func TestEntityAnnotation(t *testing.T) {
	cu := parseSrc(t, `
package com.example.domain;

@Entity
@Table(name = "users")
public class User {
    @Id
    private Long id;
}
`)
	cls := cu.Types[0]
	var entity, table *AnnotationRef
	for i := range cls.Annotations {
		switch cls.Annotations[i].Name {
		case "Entity":
			entity = &cls.Annotations[i]
		case "Table":
			table = &cls.Annotations[i]
		}
	}
	if entity == nil {
		t.Fatalf("expected @Entity annotation, got %+v", cls.Annotations)
	}
	if table == nil || table.Parameters["name"] != "users" {
		t.Fatalf("expected @Table(name=\"users\"), got %+v", table)
	}
}

func TestRepositoryInterface(t *testing.T) {
	cu := parseSrc(t, `
package com.example.repo;

public interface UserRepository extends JpaRepository<User, Long> {
    List<User> findByEmail(String email);
    long countByActiveTrue();
}
`)
	iface := cu.Types[0]
	if iface.Kind != TypeKindInterface {
		t.Fatalf("kind = %v, want interface", iface.Kind)
	}
	if len(iface.Interfaces) != 1 || iface.Interfaces[0] != "JpaRepository" {
		t.Fatalf("interfaces = %v", iface.Interfaces)
	}
	if len(iface.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(iface.Methods))
	}
}

func TestJDBCCallSite(t *testing.T) {
	cu := parseSrc(t, `
package com.example.dao;

public class UserDao {
    public void save(Connection c) throws SQLException {
        PreparedStatement ps = c.prepareStatement("INSERT INTO users (name) VALUES (?)");
    }
}
`)
	method := cu.Types[0].Methods[0]
	if len(method.JDBCCalls) != 1 {
		t.Fatalf("jdbc calls = %d, want 1", len(method.JDBCCalls))
	}
	if method.JDBCCalls[0].SQLText != "INSERT INTO users (name) VALUES (?)" {
		t.Fatalf("sql text = %q", method.JDBCCalls[0].SQLText)
	}
}
