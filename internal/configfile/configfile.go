// Package configfile is the application.yml / application.properties
// front-end: it flattens either format into a single key->value map, using
// Spring's dotted-path convention for nested YAML keys, and hands the
// result straight to internal/extract as a models.ConfigFile node (this
// front-end, unlike the others, has nothing worth modeling as an
// intermediate AST — a flat map is already the extractor's input shape).
package configfile

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codegraph-labs/springgraph/internal/parser"
)

// Parser is the configfile front-end. Stateless.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Extensions() []string { return []string{".yml", ".yaml", ".properties"} }

// Parse returns a map[string]string of dotted property path -> value.
func (p *Parser) Parse(ctx context.Context, input parser.FileInput) (any, error) {
	if strings.HasSuffix(strings.ToLower(input.Path), ".properties") {
		return parseProperties(input.Content), nil
	}
	return parseYAML(input.Content)
}

func parseProperties(content []byte) map[string]string {
	values := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, val, found := cutAny(line, "=", ":")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return values
}

func cutAny(s string, seps ...string) (before, after string, found bool) {
	idx := -1
	var sepLen int
	for _, sep := range seps {
		if i := strings.Index(s, sep); i >= 0 && (idx == -1 || i < idx) {
			idx = i
			sepLen = len(sep)
		}
	}
	if idx == -1 {
		return s, "", false
	}
	return s[:idx], s[idx+sepLen:], true
}

func parseYAML(content []byte) (map[string]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("configfile: %w", err)
	}
	values := map[string]string{}
	if len(root.Content) == 0 {
		return values, nil
	}
	flattenYAML(root.Content[0], "", values)
	return values, nil
}

func flattenYAML(node *yaml.Node, prefix string, out map[string]string) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			flattenYAML(node.Content[i+1], path, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			flattenYAML(item, fmt.Sprintf("%s[%d]", prefix, i), out)
		}
	case yaml.ScalarNode:
		out[prefix] = node.Value
	}
}

// SortedKeys returns the keys of a flattened config map in sorted order,
// for deterministic logging/diagnostics.
func SortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
