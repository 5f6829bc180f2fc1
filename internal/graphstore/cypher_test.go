package graphstore

import (
	"strings"
	"testing"

	"github.com/codegraph-labs/springgraph/pkg/models"
)

func TestNodeUpsertCypherMergesOnIdentityFields(t *testing.T) {
	cypher := nodeUpsertCypher(models.LabelClass)
	if !strings.Contains(cypher, "MERGE (n:Class {projectName: row.projectName, name: row.name})") {
		t.Fatalf("cypher = %q", cypher)
	}
	if !strings.Contains(cypher, "SET n += row") {
		t.Fatalf("cypher missing SET: %q", cypher)
	}
}

func TestEdgeUpsertCypherUsesLabelsVerbatim(t *testing.T) {
	gk := edgeGroupKey{Label: models.EdgeHasMethod, FromLabel: models.LabelClass, ToLabel: models.LabelMethod}
	cypher := edgeUpsertCypher(gk)
	if !strings.Contains(cypher, "MATCH (a:Class)") || !strings.Contains(cypher, "MATCH (b:Method)") {
		t.Fatalf("cypher = %q", cypher)
	}
	if !strings.Contains(cypher, "MERGE (a)-[r:HAS_METHOD]->(b)") {
		t.Fatalf("cypher missing relationship: %q", cypher)
	}
}

func TestKeyParamsClass(t *testing.T) {
	params := keyParams(models.LabelClass, models.ClassKey{ProjectName: "demo", Name: "UserService"})
	if params["projectName"] != "demo" || params["name"] != "UserService" {
		t.Fatalf("params = %+v", params)
	}
}

func TestEdgeRowsByGroupGroupsByTriple(t *testing.T) {
	edges := []models.Edge{
		{Label: models.EdgeHasMethod, FromLabel: models.LabelClass, FromKey: models.ClassKey{ProjectName: "demo", Name: "A"},
			ToLabel: models.LabelMethod, ToKey: models.MethodKey{ProjectName: "demo", ClassName: "A", Name: "m", Signature: "()"}},
		{Label: models.EdgeHasField, FromLabel: models.LabelClass, FromKey: models.ClassKey{ProjectName: "demo", Name: "A"},
			ToLabel: models.LabelField, ToKey: models.FieldKey{ProjectName: "demo", ClassName: "A", Name: "f"}},
	}
	groups := edgeRowsByGroup(edges)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
}

func TestSplitBundleHalvesClasses(t *testing.T) {
	bundle := &models.ArtifactBundle{
		Classes: []models.Class{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}},
	}
	a, b, ok := splitBundle(bundle)
	if !ok {
		t.Fatalf("expected split to succeed")
	}
	if len(a.Classes)+len(b.Classes) != 4 {
		t.Fatalf("split lost classes: %d + %d", len(a.Classes), len(b.Classes))
	}
}

func TestSplitBundleSingleItemCannotSplit(t *testing.T) {
	bundle := &models.ArtifactBundle{Classes: []models.Class{{Name: "Solo"}}}
	_, _, ok := splitBundle(bundle)
	if ok {
		t.Fatalf("expected a single-item bundle to be unsplittable")
	}
}
