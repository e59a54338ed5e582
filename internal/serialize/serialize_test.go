package serialize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

const ex = vocab.Namespace("http://example.org/")

func prefixes() []vocab.Prefix {
	return append([]vocab.Prefix{{Name: "ex", Namespace: ex}}, vocab.StandardPrefixes()...)
}

func smallGraph() *graph.Graph {
	g := graph.New()
	g.Add(rdf.Blank("b1"), ex.Term("p"), rdf.NewString(`x"y`))
	g.Add(ex.Term("ds"), vocab.RDFSLabel, rdf.NewLangString("Population", "en"))
	g.Add(ex.Term("ds"), vocab.RDFType, vocab.QBDataSet)
	g.Add(ex.Term("ds"), ex.Term("count"), rdf.NewInteger(5))
	g.Add(ex.Term("ds"), vocab.RDFSLabel, rdf.NewLangString("Obyvatelé", "cs"))
	return g
}

func TestWriteTurtle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTurtle(&buf, smallGraph(), prefixes()))

	assert.Equal(t, "@prefix ex: <http://example.org/> .\n"+
		"@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .\n"+
		"@prefix qb: <http://purl.org/linked-data/cube#> .\n"+
		"\n"+
		"ex:ds a qb:DataSet ;\n"+
		"    ex:count 5 ;\n"+
		"    rdfs:label \"Obyvatelé\"@cs,\n"+
		"        \"Population\"@en .\n"+
		"\n"+
		"_:b1 ex:p \"x\\\"y\" .\n", buf.String())
}

func TestWriteTurtleFallsBackToFullIRIs(t *testing.T) {
	g := graph.New()
	g.Add(ex.Term("zubní_lékařství,ortodoncie"), vocab.SKOSNotation, rdf.NewTyped("1.5", vocab.XSD.Term("decimal")))

	var buf bytes.Buffer
	require.NoError(t, WriteTurtle(&buf, g, prefixes()))
	out := buf.String()

	assert.Contains(t, out, "<http://example.org/zubní_lékařství,ortodoncie> skos:notation \"1.5\"^^xsd:decimal .")
	assert.NotContains(t, out, "@prefix ex:")
}

func TestWriteNTriples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, smallGraph()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `<http://example.org/ds> <http://example.org/count> "5"^^<http://www.w3.org/2001/XMLSchema#integer> .`, lines[0])
	assert.Equal(t, `_:b1 <http://example.org/p> "x\"y" .`, lines[4])
}

func TestWriteTriG(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTriG(&buf, []NamedGraph{
		{Name: ex.Term("g1"), Graph: smallGraph()},
		{Graph: graph.FromStatements([]rdf.Statement{rdf.NewStatement(ex.Term("s"), ex.Term("p"), ex.Term("o"))})},
	}, prefixes())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ex:g1 {\n    ex:ds a qb:DataSet ;\n        ex:count 5 ;")
	assert.Contains(t, out, "\n{\n    ex:s ex:p ex:o .\n}\n")
}

func TestWriteJSONLD(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONLD(&buf, smallGraph(), prefixes()))

	var doc struct {
		Context map[string]string `json:"@context"`
		Graph   []map[string]any  `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "http://example.org/", doc.Context["ex"])
	require.Len(t, doc.Graph, 2)

	ds := doc.Graph[0]
	assert.Equal(t, "ex:ds", ds["@id"])
	assert.Equal(t, []any{"qb:DataSet"}, ds["@type"])
	assert.Equal(t, []any{map[string]any{"@value": "5", "@type": "xsd:integer"}}, ds["ex:count"])
	assert.Equal(t, "_:b1", doc.Graph[1]["@id"])
}

func TestReadTurtleFeatures(t *testing.T) {
	doc := `# cube fragment
@prefix ex: <http://example.org/> .
PREFIX qb: <http://purl.org/linked-data/cube#>
@base <http://example.org/base/> .

ex:ds a qb:DataSet ;
    ex:label "Praha"@CS, 'single' ;
    ex:note """two
lines""" ;
    ex:count 42 ; ex:ratio 1.5 ; ex:big 1e3 ; ex:flag true ;
    ex:rel <relative> ;
    ex:esc "tab\tquote\"\u00e9" ;
    ex:part [ a qb:ComponentSpecification ; qb:dimension ex:county ] ;
    ex:list ( ex:a ex:b ) .

_:x ex:p ex:o ;
    .
[ ex:standalone "yes" ] .
`
	g, decl, err := ReadTurtle(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, decl, 2)
	assert.Equal(t, "ex", decl[0].Name)
	assert.Equal(t, vocab.QB, decl[1].Namespace)

	ds := ex.Term("ds")
	assert.True(t, g.IsA(ds, vocab.QBDataSet))
	assert.True(t, g.Has(ds, ex.Term("label"), rdf.NewLangString("Praha", "cs")))
	assert.True(t, g.Has(ds, ex.Term("label"), rdf.NewString("single")))
	assert.True(t, g.Has(ds, ex.Term("note"), rdf.NewString("two\nlines")))
	assert.True(t, g.Has(ds, ex.Term("count"), rdf.NewInteger(42)))
	assert.True(t, g.Has(ds, ex.Term("ratio"), rdf.NewTyped("1.5", vocab.XSD.Term("decimal"))))
	assert.True(t, g.Has(ds, ex.Term("big"), rdf.NewTyped("1e3", vocab.XSD.Term("double"))))
	assert.True(t, g.Has(ds, ex.Term("flag"), rdf.NewBoolean(true)))
	assert.True(t, g.Has(ds, ex.Term("rel"), rdf.IRI("http://example.org/base/relative")))
	assert.True(t, g.Has(ds, ex.Term("esc"), rdf.NewString("tab\tquote\"é")))

	part, ok := g.Object(ds, ex.Term("part"))
	require.True(t, ok)
	assert.True(t, g.Has(part, vocab.QBDimension, ex.Term("county")))

	list, ok := g.Object(ds, ex.Term("list"))
	require.True(t, ok)
	first, _ := g.Object(list, vocab.RDF.Term("first"))
	assert.Equal(t, rdf.Term(ex.Term("a")), first)

	assert.True(t, g.Has(rdf.Blank("x"), ex.Term("p"), ex.Term("o")))
	assert.Len(t, g.Subjects(ex.Term("standalone"), rdf.NewString("yes")), 1)
}

func TestReadTriGMergesGraphs(t *testing.T) {
	doc := `@prefix ex: <http://example.org/> .
ex:g1 { ex:a ex:p ex:b . ex:c ex:p ex:d }
{ ex:e ex:p ex:f . }
GRAPH ex:g2 { ex:a ex:q 1 . }
`
	g, _, err := ReadTurtle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
}

func TestReadTurtleErrors(t *testing.T) {
	tests := map[string]string{
		"undeclared prefix":   "ex:a ex:b ex:c .",
		"missing dot":         "<http://a> <http://b> <http://c>",
		"unterminated string": "<http://a> <http://b> \"open .",
		"bad escape":          "<http://a> <http://b> \"\\q\" .",
		"literal subject":     "\"x\" <http://b> <http://c> .",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ReadTurtle(strings.NewReader(doc))
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, 1, perr.Line)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, _, err := ReadTurtle(strings.NewReader("<http://a> <http://b> <http://c> .\n<http://a> <http://b> ?x ."))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 23, perr.Col)
}

func TestParseTerm(t *testing.T) {
	tests := map[string]rdf.Term{
		"ex:ds":                  ex.Term("ds"),
		"<http://example.org/x>": rdf.IRI("http://example.org/x"),
		"qb:Observation":         vocab.QBObservation,
		`"Praha"@cs`:             rdf.NewLangString("Praha", "cs"),
		"2":                      rdf.NewInteger(2),
		`"2"^^xsd:integer`:       rdf.NewInteger(2),
		"_:b1":                   rdf.Blank("b1"),
		"  true ":                rdf.NewBoolean(true),
	}
	for text, want := range tests {
		got, err := ParseTerm(text, prefixes())
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	for _, bad := range []string{"", "nope:x", "ex:a ex:b", "[ ex:p 1 ]", "(1 2)"} {
		_, err := ParseTerm(bad, prefixes())
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, bad)
	}
}

func careProviderCube(t *testing.T) *graph.Graph {
	t.Helper()
	providers := table.New(
		[]string{cube.ColCounty, cube.ColCountyCode, cube.ColRegion, cube.ColRegionCode, cube.ColFieldOfCare},
		table.Row{cube.ColCounty: "Praha", cube.ColCountyCode: "CZ010", cube.ColRegion: "Hlavní město Praha", cube.ColRegionCode: "CZ01", cube.ColFieldOfCare: "zubní lékařství, ortodoncie"},
		table.Row{cube.ColCounty: "Brno-město", cube.ColCountyCode: "CZ064", cube.ColRegion: "Jihomoravský kraj", cube.ColRegionCode: "CZ06", cube.ColFieldOfCare: "praktický lékař pro \"děti\""},
	)
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	res, err := cube.BuildCareProviders(context.Background(), providers, cube.Options{
		Now:       func() time.Time { return now },
		CodeLists: true,
	})
	require.NoError(t, err)
	return res.Graph
}

func TestRoundTrip(t *testing.T) {
	g := careProviderCube(t)
	opts := Options{Prefixes: vocab.DefaultNamespaces().Prefixes(), GraphName: ex.Term("cube")}

	for _, format := range []Format{FormatTurtle, FormatNTriples, FormatTriG} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, g, format, opts))

			back, err := Read(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, g.Len(), back.Len())
			assert.Equal(t, g.Fingerprint(), back.Fingerprint())
		})
	}
}

func TestOutputIgnoresInsertionOrder(t *testing.T) {
	a := smallGraph()
	stmts := a.Statements()
	for i, j := 0, len(stmts)-1; i < j; i, j = i+1, j-1 {
		stmts[i], stmts[j] = stmts[j], stmts[i]
	}
	b := graph.FromStatements(stmts)

	var ba, bb bytes.Buffer
	require.NoError(t, WriteTurtle(&ba, a, prefixes()))
	require.NoError(t, WriteTurtle(&bb, b, prefixes()))
	assert.Equal(t, ba.String(), bb.String())
}

func TestFormatRegistry(t *testing.T) {
	f, err := ParseFormat("TTL")
	require.NoError(t, err)
	assert.Equal(t, FormatTurtle, f)

	f, err = ParseFormat("ntriples")
	require.NoError(t, err)
	assert.Equal(t, FormatNTriples, f)

	_, err = ParseFormat("rdfxml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	f, ok := FormatForPath("out/provenance.trig")
	assert.True(t, ok)
	assert.Equal(t, FormatTriG, f)

	info, ok := GetFormatInfo(FormatJSONLD)
	require.True(t, ok)
	assert.False(t, info.Readable)
	_, err = Read(strings.NewReader("{}"), FormatJSONLD)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Len(t, Formats(), 4)
}

func TestWriteFileIsAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path := filepath.Join(dir, "population.ttl")

	require.NoError(t, WriteGraphFile(path, smallGraph(), Options{Prefixes: prefixes()}))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(first), "ex:ds a qb:DataSet")

	boom := errors.New("boom")
	err = WriteFile(path, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	g, err := ReadGraphFile(path)
	require.NoError(t, err)
	assert.Equal(t, smallGraph().Fingerprint(), g.Fingerprint())
}
