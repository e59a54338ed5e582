package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbcube/internal/queryir"
	"github.com/roach88/qbcube/internal/rdf"
)

const (
	county    = rdf.IRI("https://example.org/resource/CZ0100")
	prefLabel = rdf.IRI("http://www.w3.org/2004/02/skos/core#prefLabel")
)

func TestCompile(t *testing.T) {
	labelSel := queryir.Pattern("health_care", nil, prefLabel, rdf.NewLangString("Praha", "CS"))
	tests := []struct {
		name      string
		query     queryir.Query
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "whole graph",
			query:     queryir.Select{Graph: "population"},
			wantWhere: "graph = ?",
			wantArgs:  []any{"population"},
		},
		{
			name:      "subject",
			query:     queryir.Pattern("population", county, nil, nil),
			wantWhere: "graph = ? AND subject_kind = ? AND subject = ? COLLATE BINARY",
			wantArgs:  []any{"population", "iri", string(county)},
		},
		{
			name:  "predicate and literal object",
			query: &labelSel,
			wantWhere: "graph = ? AND predicate = ? COLLATE BINARY AND object_kind = ? " +
				"AND object = ? COLLATE BINARY AND datatype = ? AND lang = ?",
			wantArgs: []any{"health_care", string(prefLabel), "literal", "Praha", string(rdf.RDFLangString), "cs"},
		},
		{
			name:      "empty and",
			query:     queryir.Select{Graph: "g", Filter: queryir.And{}},
			wantWhere: "graph = ?",
			wantArgs:  []any{"g"},
		},
		{
			name: "nested and",
			query: queryir.Select{Graph: "g", Filter: &queryir.And{Predicates: []queryir.Predicate{
				queryir.And{Predicates: []queryir.Predicate{
					&queryir.Equals{Position: queryir.PositionPredicate, Term: prefLabel},
				}},
			}}},
			wantWhere: "graph = ? AND predicate = ? COLLATE BINARY",
			wantArgs:  []any{"g", string(prefLabel)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Compile(tt.query)
			require.NoError(t, err)
			assert.Equal(t, "SELECT "+Columns+" FROM statements WHERE "+tt.wantWhere+" ORDER BY seq ASC", st.SQL)
			assert.Equal(t, tt.wantArgs, st.Args)
			assert.NotContains(t, st.SQL, "CZ0100")
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   queryir.Query
		wantErr string
	}{
		{"nil query", nil, "nil query"},
		{"no graph", queryir.Select{}, "graph name"},
		{"literal predicate", queryir.Select{Graph: "g",
			Filter: queryir.Equals{Position: queryir.PositionPredicate, Term: rdf.NewString("x")}}, "must be an IRI"},
		{"nil term", queryir.Select{Graph: "g",
			Filter: queryir.Equals{Position: queryir.PositionObject}}, "nil term"},
		{"bad position", queryir.Select{Graph: "g",
			Filter: queryir.Equals{Position: queryir.Position(7), Term: county}}, "position(7)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.query)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEncodeDecodeTerms(t *testing.T) {
	for _, term := range []rdf.Term{
		county,
		rdf.Blank("b1"),
		rdf.NewString("Praha"),
		rdf.NewLangString("Praha", "cs"),
		rdf.NewInteger(1275406),
	} {
		got, err := Decode(Encode(term))
		require.NoError(t, err)
		assert.Equal(t, term, got)
	}

	_, err := Decode(Column{Kind: "bogus"})
	assert.Error(t, err)

	_, err = DecodeResource(Encode(rdf.NewString("x")))
	assert.Error(t, err)
}
