package parser

import (
	"path/filepath"
	"strings"

	"github.com/codegraph-labs/springgraph/pkg/models"
)

// excludedDirNames are directory basenames never walked into, regardless
// of source root: VCS metadata, build output, and dependency caches that
// would otherwise flood the graph with vendored or generated artifacts.
var excludedDirNames = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"target":       true, // Maven build output
	"build":        true, // Gradle build output
	"out":          true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	".settings":    true,
}

// ExcludeDir reports whether a directory (identified by its basename)
// should be skipped by the file walk entirely, including its subtree.
func ExcludeDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return excludedDirNames[name]
}

// DetectKind classifies a file by name/extension into the front-end that
// should own it, or returns ok=false for files no front-end claims.
func DetectKind(path string) (kind models.FileKind, ok bool) {
	base := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case ext == ".java":
		return models.FileKindJava, true
	case ext == ".xml" && looksLikeMyBatisMapper(base):
		return models.FileKindMyBatisXML, true
	case ext == ".sql":
		return models.FileKindDDL, true
	case base == "application.yml" || base == "application.yaml" ||
		base == "application.properties" ||
		strings.HasPrefix(base, "application-") &&
			(strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".properties")):
		return models.FileKindConfig, true
	default:
		return "", false
	}
}

// looksLikeMyBatisMapper applies a cheap name-based filter only; the file's
// root element is not checked, here or in internal/parser/mybatisxml.
func looksLikeMyBatisMapper(base string) bool {
	return strings.HasSuffix(base, "mapper.xml") || strings.Contains(base, "mapper")
}
