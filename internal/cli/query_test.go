package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbcube/internal/store"
)

// storedProject builds both cubes into a store.
func storedProject(t *testing.T) (*project, string) {
	t.Helper()
	p := newProject(t, "")
	db := filepath.Join(p.dir, "cubes.db")
	_, _, err := p.run("build", "--store", db)
	require.NoError(t, err)
	return p, db
}

func TestQueryListGraphs(t *testing.T) {
	p, db := storedProject(t)
	stdout, _, err := p.run("--format", "json", "query", "--store", db)
	require.NoError(t, err)

	var infos []store.GraphInfo
	decodeResponse(t, stdout, &infos)
	require.Len(t, infos, 2)
	assert.Equal(t, "health_care", infos[0].Name)
	assert.Equal(t, "population", infos[1].Name)
	assert.Equal(t, infos[0].RunID, infos[1].RunID, "one build run")
}

func TestQueryEmptyStore(t *testing.T) {
	p := newProject(t, "")
	stdout, _, err := p.run("query", "--store", filepath.Join(p.dir, "empty.db"))
	require.NoError(t, err)
	assert.Equal(t, "No graphs saved.\n", stdout)
}

func TestQueryPattern(t *testing.T) {
	p, db := storedProject(t)
	stdout, _, err := p.run("--format", "json", "query", "--store", db,
		"--graph", "health_care", "--predicate", "rdf:type", "--object", "qb:Observation")
	require.NoError(t, err)

	var result QueryResult
	decodeResponse(t, stdout, &result)
	assert.Equal(t, "health_care", result.Graph)
	require.Len(t, result.Statements, 3)
	for _, st := range result.Statements {
		assert.Equal(t, "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", st.Predicate)
		assert.Equal(t, "<http://purl.org/linked-data/cube#Observation>", st.Object)
	}
}

func TestQueryLiteralObject(t *testing.T) {
	p, db := storedProject(t)
	stdout, _, err := p.run("query", "--store", db, "--graph", "population",
		"--subject", "res:observation-0001", "--predicate", "ont:mean_population")
	require.NoError(t, err)
	assert.Contains(t, stdout, "382405")
	assert.Contains(t, stdout, "@prefix res:")

	stdout, _, err = p.run("query", "--store", db, "--graph", "population",
		"--predicate", "ont:mean_population", "--object", "1")
	require.NoError(t, err)
	assert.Equal(t, "# no matches\n", stdout)
}

func TestQuerySyntax(t *testing.T) {
	p, db := storedProject(t)
	args := []string{"query", "--store", db, "--graph", "health_care",
		"--subject", "res:observation-0000", "--predicate", "ont:number_of_care_providers"}

	stdout, _, err := p.run(append(args, "--syntax", "ntriples")...)
	require.NoError(t, err)
	assert.Equal(t, "<https://milan252525.github.io/resources/observation-0000> "+
		"<https://milan252525.github.io/ontology#number_of_care_providers> "+
		`"2"^^<http://www.w3.org/2001/XMLSchema#integer> .`+"\n", stdout)

	stdout, _, err = p.run(append(args, "--syntax", "jsonld")...)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Contains(t, doc, "@graph")

	_, _, err = p.run(append(args, "--syntax", "rdfxml")...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCodeOf(err))
}

func TestQueryErrors(t *testing.T) {
	p, db := storedProject(t)
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no store", []string{"query", "--graph", "population"}, ErrCodeInvalidArgs},
		{"unknown graph", []string{"query", "--store", db, "--graph", "hospitals"}, ErrCodeNotFound},
		{"unknown prefix", []string{"query", "--store", db, "--graph", "population", "--subject", "nope:x"}, ErrCodeInvalidArgs},
		{"literal subject", []string{"query", "--store", db, "--graph", "population", "--subject", `"Praha"@cs`}, ErrCodeInvalidArgs},
		{"literal predicate", []string{"query", "--store", db, "--graph", "population", "--predicate", "42"}, ErrCodeInvalidArgs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := p.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, ExitCodeOf(err))
			assert.Contains(t, stdout, "Error ["+tt.code+"]")
		})
	}
}
