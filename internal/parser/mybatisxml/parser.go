package mybatisxml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

// Parser is the mybatisxml front-end. Stateless.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Extensions() []string { return []string{".xml"} }

var statementKinds = map[string]StatementKind{
	"select": StatementSelect,
	"insert": StatementInsert,
	"update": StatementUpdate,
	"delete": StatementDelete,
}

func (p *Parser) Parse(ctx context.Context, input parser.FileInput) (any, error) {
	dec := xml.NewDecoder(bytes.NewReader(input.Content))
	// MyBatis mapper documents declare an external DTD; we never fetch it.
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	mapper := &Mapper{}
	fragments := map[string]string{}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("mybatisxml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "mapper":
			mapper.Namespace = attr(start, "namespace")
		case "sql":
			id := attr(start, "id")
			text, _ := readElementText(dec, start.Name.Local, fragments)
			fragments[id] = text
		case "select", "insert", "update", "delete":
			kind := statementKinds[start.Name.Local]
			id := attr(start, "id")
			text, _ := readElementText(dec, start.Name.Local, fragments)
			mapper.Statements = append(mapper.Statements, Statement{
				ID:   id,
				Kind: kind,
				SQL:  strings.TrimSpace(collapseWhitespace(text)),
			})
		}
	}
	return mapper, nil
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// readElementText consumes tokens until the matching end element, returning
// the concatenation of character data from this element and every nested
// dynamic-SQL tag (<if>, <where>, <foreach>, ...), inlining any <include
// refid="..."> whose fragment has already been seen earlier in the file.
func readElementText(dec *xml.Decoder, rootName string, fragments map[string]string) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "include" {
				refid := attr(t, "refid")
				if frag, ok := fragments[refid]; ok {
					sb.WriteString(" ")
					sb.WriteString(frag)
				}
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
