package mybatisxml

import (
	"context"
	"strings"
	"testing"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

func parseXML(t *testing.T, doc string) *Mapper {
	t.Helper()
	p := New()
	ast, err := p.Parse(context.Background(), parser.FileInput{Path: "UserMapper.xml", Content: []byte(doc)})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mapper, ok := ast.(*Mapper)
	if !ok {
		t.Fatalf("Parse returned %T, want *Mapper", ast)
	}
	return mapper
}

func TestMapperStatements(t *testing.T) {
	mapper := parseXML(t, `<?xml version="1.0" encoding="UTF-8"?>
<mapper namespace="com.example.UserMapper">
  <select id="findById" resultType="com.example.User">
    SELECT id, name FROM users WHERE id = #{id}
  </select>
  <insert id="insert">
    INSERT INTO users (name) VALUES (#{name})
  </insert>
</mapper>`)
	if mapper.Namespace != "com.example.UserMapper" {
		t.Fatalf("namespace = %q", mapper.Namespace)
	}
	if len(mapper.Statements) != 2 {
		t.Fatalf("statements = %d, want 2", len(mapper.Statements))
	}
	if mapper.Statements[0].Kind != StatementSelect || !strings.Contains(mapper.Statements[0].SQL, "FROM users") {
		t.Fatalf("select statement = %+v", mapper.Statements[0])
	}
}

func TestIncludeFragment(t *testing.T) {
	mapper := parseXML(t, `<mapper namespace="com.example.UserMapper">
  <sql id="baseColumns">id, name, email</sql>
  <select id="findAll" resultType="com.example.User">
    SELECT <include refid="baseColumns"/> FROM users
  </select>
</mapper>`)
	if len(mapper.Statements) != 1 {
		t.Fatalf("statements = %d, want 1", len(mapper.Statements))
	}
	if !strings.Contains(mapper.Statements[0].SQL, "id, name, email") {
		t.Fatalf("sql = %q, want included fragment inlined", mapper.Statements[0].SQL)
	}
}

func TestDynamicSqlTags(t *testing.T) {
	mapper := parseXML(t, `<mapper namespace="com.example.UserMapper">
  <select id="search" resultType="com.example.User">
    SELECT * FROM users
    <where>
      <if test="name != null">AND name = #{name}</if>
    </where>
  </select>
</mapper>`)
	sql := mapper.Statements[0].SQL
	if !strings.Contains(sql, "AND name = #{name}") {
		t.Fatalf("sql = %q, want dynamic tag text preserved", sql)
	}
}
