package extract

import (
	"regexp"
	"strings"

	"github.com/codegraph-labs/springgraph/internal/parser/mybatisxml"
	"github.com/codegraph-labs/springgraph/pkg/models"
)

// MyBatisXMLExtractor turns a mybatisxml.Mapper into a MyBatisMapper node
// (source "xml") and its SqlStatement children. Table references are
// pulled out of the SQL text with a keyword scan rather than a real SQL
// parse, since MyBatis statements routinely contain #{...}/${...}
// placeholders and <if>-gated fragments that are not valid standalone SQL
// (the same constraint the teacher's sqlutil package works around).
type MyBatisXMLExtractor struct {
	ProjectName string
}

func NewMyBatisXMLExtractor(projectName string) *MyBatisXMLExtractor {
	return &MyBatisXMLExtractor{ProjectName: projectName}
}

func (x *MyBatisXMLExtractor) Extract(xmlPath string, doc *mybatisxml.Mapper, bundle *models.ArtifactBundle) {
	mapper := models.MyBatisMapper{
		ProjectName: x.ProjectName, Name: doc.Namespace,
		Source: models.MapperSourceXML, XMLPath: xmlPath, Namespace: doc.Namespace,
	}
	bundle.MyBatisMappers = append(bundle.MyBatisMappers, mapper)

	for _, stmt := range doc.Statements {
		sqlType := models.SqlType(stmt.Kind)
		s := models.SqlStatement{
			ProjectName: x.ProjectName, MapperName: mapper.Name, ID: stmt.ID,
			SqlType: sqlType, SqlContent: stmt.SQL,
			Tables:     extractTableRefs(stmt.SQL),
			Parameters: extractMyBatisParams(stmt.SQL),
		}
		bundle.SqlStatements = append(bundle.SqlStatements, s)
		bundle.Edges = append(bundle.Edges, models.Edge{
			Label: models.EdgeHasSqlStatement, FromLabel: models.LabelMyBatisMapper, FromKey: mapper.Key(),
			ToLabel: models.LabelSqlStatement, ToKey: s.Key(),
		})
	}
}

var mybatisParamRe = regexp.MustCompile(`#\{([a-zA-Z_][a-zA-Z0-9_.]*)`)

func extractMyBatisParams(sql string) []models.SqlParameter {
	matches := mybatisParamRe.FindAllStringSubmatch(sql, -1)
	params := make([]models.SqlParameter, 0, len(matches))
	for i, m := range matches {
		params = append(params, models.SqlParameter{Name: m[1], Order: i})
	}
	return params
}

var tableRefKeywords = []string{"FROM", "JOIN", "INTO", "UPDATE"}

// extractTableRefs scans sql for table names following FROM/JOIN/INTO/
// UPDATE keywords, the same word-boundary-aware approach the teacher's
// sqlutil.ExtractTableRefs uses for T-SQL.
func extractTableRefs(sql string) []string {
	var tables []string
	upper := strings.ToUpper(sql)
	for _, kw := range tableRefKeywords {
		idx := 0
		for {
			pos := strings.Index(upper[idx:], kw+" ")
			if pos < 0 {
				break
			}
			kwStart := idx + pos
			pos = kwStart + len(kw) + 1
			idx = pos
			if kwStart > 0 {
				if c := upper[kwStart-1]; c == '_' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' {
					continue
				}
			}
			rest := strings.TrimSpace(sql[pos:])
			end := strings.IndexAny(rest, " \t\n\r,;)(")
			name := rest
			if end > 0 {
				name = rest[:end]
			}
			name = strings.TrimSpace(name)
			if name != "" && !isSQLKeyword(name) {
				tables = append(tables, name)
			}
		}
	}
	return tables
}

var sqlKeywords = map[string]bool{
	"SELECT": true, "WHERE": true, "AND": true, "OR": true, "SET": true,
	"VALUES": true, "AS": true, "ON": true, "IN": true, "NOT": true, "NULL": true,
	"LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true, "GROUP": true,
	"ORDER": true, "BY": true, "HAVING": true,
}

func isSQLKeyword(s string) bool { return sqlKeywords[strings.ToUpper(s)] }
