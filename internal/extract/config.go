package extract

import "github.com/codegraph-labs/springgraph/pkg/models"

// ConfigExtractor wraps a configfile front-end's flattened key->value map
// into a ConfigFile node. There is nothing further to derive from a
// config file in isolation — cross-references from a @Value("${...}")
// annotation to a ConfigFile entry are out of scope (spec.md Non-goals).
type ConfigExtractor struct {
	ProjectName string
}

func NewConfigExtractor(projectName string) *ConfigExtractor {
	return &ConfigExtractor{ProjectName: projectName}
}

func (x *ConfigExtractor) Extract(path string, values map[string]string, bundle *models.ArtifactBundle) {
	bundle.ConfigFiles = append(bundle.ConfigFiles, models.ConfigFile{
		ProjectName: x.ProjectName,
		Path:        path,
		Values:      values,
	})
}
