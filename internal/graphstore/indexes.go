package graphstore

import "fmt"

// indexStatements creates one composite range index per node label over its
// identity fields, built from the same identityFields table the upsert
// Cypher uses, so the two can never drift out of sync.
var indexStatements = buildIndexStatements()

func buildIndexStatements() []string {
	stmts := make([]string, 0, len(identityFields))
	for label, fields := range identityFields {
		props := ""
		for i, f := range fields {
			if i > 0 {
				props += ", "
			}
			props += "n." + f
		}
		name := "idx_" + string(label)
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX %s IF NOT EXISTS FOR (n:%s) ON (%s)", name, string(label), props))
	}
	return stmts
}
