package db

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

func TestTablesFor_KnownRelations(t *testing.T) {
	for _, rel := range []roster.Relation{roster.SalesmanCustomers, roster.SalesmanDistributors, roster.DistributorProducts} {
		tables, err := tablesFor(rel)
		require.NoError(t, err, rel)
		assert.NotEmpty(t, tables.Member)
		assert.NotEmpty(t, tables.OwnerCounter)
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+tables.Member+" (")
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+tables.Owner+" (")
		assert.Contains(t, schemaSQL, tables.OwnerCounter)
	}
}

func TestTablesFor_Unknown(t *testing.T) {
	_, err := tablesFor(roster.Relation("salesman_products"))
	assert.Error(t, err)
}

var foreignKey = regexp.MustCompile(`(?i)\bREFERENCES\s+\w+\s*\(|\bFOREIGN\s+KEY\b`)

// schemaStatements returns the schema with -- comments removed
func schemaStatements() string {
	lines := strings.Split(schemaSQL, "\n")
	for i, line := range lines {
		if j := strings.Index(line, "--"); j >= 0 {
			lines[i] = line[:j]
		}
	}
	return strings.Join(lines, "\n")
}

func TestSchema_ReferencesHaveNoForeignKeys(t *testing.T) {
	// Deleting an owner must leave member references untouched.
	assert.NotRegexp(t, foreignKey, schemaStatements())
	assert.Regexp(t, foreignKey, "salesman_id TEXT REFERENCES salesmen (salesman_id)")
	assert.Contains(t, schemaSQL, "plain references", "comments are not mistaken for constraints")
	for constraint := range uniqueFields {
		assert.Contains(t, schemaSQL, "CONSTRAINT "+constraint+" UNIQUE")
	}
}
