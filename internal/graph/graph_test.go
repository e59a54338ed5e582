package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

const ex = vocab.Namespace("http://example.org/")

func TestAddSetSemantics(t *testing.T) {
	g := New()

	assert.True(t, g.Add(ex.Term("obs"), vocab.QBDataSetProp, ex.Term("ds")))
	assert.False(t, g.Add(ex.Term("obs"), vocab.QBDataSetProp, ex.Term("ds")))
	assert.Equal(t, 1, g.Len())
}

func TestAddRejectsIncomplete(t *testing.T) {
	g := New()

	assert.False(t, g.AddStatement(rdf.Statement{Predicate: vocab.RDFType, Object: ex.Term("x")}))
	assert.False(t, g.Add(ex.Term("s"), "", ex.Term("x")))
	assert.Zero(t, g.Len())
}

func TestStatementsInsertionOrder(t *testing.T) {
	g := New()
	g.Add(ex.Term("b"), vocab.RDFSLabel, rdf.NewString("second"))
	g.Add(ex.Term("a"), vocab.RDFSLabel, rdf.NewString("first"))
	g.Add(ex.Term("b"), vocab.RDFSLabel, rdf.NewString("second"))

	stmts := g.Statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, ex.Term("b"), stmts[0].Subject)
	assert.Equal(t, ex.Term("a"), stmts[1].Subject)
}

func TestMatchWildcards(t *testing.T) {
	g := New()
	g.Add(ex.Term("o1"), vocab.RDFType, vocab.QBObservation)
	g.Add(ex.Term("o2"), vocab.RDFType, vocab.QBObservation)
	g.Add(ex.Term("o1"), vocab.QBDataSetProp, ex.Term("ds"))
	g.Add(ex.Term("ds"), vocab.RDFType, vocab.QBDataSet)

	assert.Len(t, g.Match(nil, vocab.RDFType, vocab.QBObservation), 2)
	assert.Len(t, g.Match(ex.Term("o1"), "", nil), 2)
	assert.Len(t, g.Match(nil, "", ex.Term("ds")), 1)
	assert.Len(t, g.Match(nil, "", nil), 4)
	assert.Len(t, g.Match(ex.Term("o1"), vocab.RDFType, vocab.QBObservation), 1)
	assert.Empty(t, g.Match(ex.Term("o3"), "", nil))
	assert.Empty(t, g.Match(rdf.NewString("o1"), "", nil))
}

func TestHas(t *testing.T) {
	g := New()
	assert.False(t, g.Has(nil, "", nil))

	g.Add(ex.Term("o1"), vocab.RDFType, vocab.QBObservation)
	assert.True(t, g.Has(nil, "", nil))
	assert.True(t, g.Has(ex.Term("o1"), vocab.RDFType, nil))
	assert.True(t, g.IsA(ex.Term("o1"), vocab.QBObservation))
	assert.False(t, g.IsA(ex.Term("o1"), vocab.QBDataSet))
	assert.False(t, g.Has(nil, vocab.QBDataSetProp, nil))
}

func TestObjectsAndSubjects(t *testing.T) {
	g := New()
	g.Add(ex.Term("ds"), vocab.RDFSLabel, rdf.NewLangString("Population 2021", "en"))
	g.Add(ex.Term("ds"), vocab.RDFSLabel, rdf.NewLangString("Obyvatelé v okresech 2021", "cs"))
	g.Add(ex.Term("o1"), vocab.QBDataSetProp, ex.Term("ds"))
	g.Add(ex.Term("o2"), vocab.QBDataSetProp, ex.Term("ds"))

	labels := g.Objects(ex.Term("ds"), vocab.RDFSLabel)
	assert.Equal(t, []rdf.Term{
		rdf.NewLangString("Population 2021", "en"),
		rdf.NewLangString("Obyvatelé v okresech 2021", "cs"),
	}, labels)

	obs := g.Subjects(vocab.QBDataSetProp, ex.Term("ds"))
	assert.Equal(t, []rdf.Resource{ex.Term("o1"), ex.Term("o2")}, obs)

	first, ok := g.Object(ex.Term("ds"), vocab.RDFSLabel)
	require.True(t, ok)
	assert.Equal(t, rdf.NewLangString("Population 2021", "en"), first)

	_, ok = g.Object(ex.Term("ds"), vocab.QBStructure)
	assert.False(t, ok)
}

func TestRemoveAndSet(t *testing.T) {
	g := New()
	ds := ex.Term("ds")
	g.Add(ds, vocab.DCTermsModified, rdf.NewString("2023-03-11"))
	g.Add(ds, vocab.DCTermsModified, rdf.NewString("2023-03-12"))
	g.Add(ds, vocab.RDFType, vocab.QBDataSet)

	g.Set(ds, vocab.DCTermsModified, rdf.NewString("2024-01-01"))

	assert.Equal(t, []rdf.Term{rdf.NewString("2024-01-01")}, g.Objects(ds, vocab.DCTermsModified))
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.IsA(ds, vocab.QBDataSet))

	assert.Equal(t, 2, g.Remove(ds, "", nil))
	assert.Zero(t, g.Len())
	assert.Zero(t, g.Remove(ds, "", nil))
}

func TestNewBlankSkipsUsedLabels(t *testing.T) {
	g := New()
	g.Add(rdf.Blank("b1"), vocab.RDFType, vocab.QBComponentSpecification)

	b := g.NewBlank()
	assert.Equal(t, rdf.Blank("b2"), b)
	assert.Equal(t, rdf.Blank("b3"), g.NewBlank())
}

func TestFingerprintMatchesAcrossOrder(t *testing.T) {
	a := New()
	a.Add(ex.Term("s"), vocab.RDFSLabel, rdf.NewString("x"))
	a.Add(ex.Term("t"), vocab.RDFSLabel, rdf.NewString("y"))

	b := New()
	b.Add(ex.Term("t"), vocab.RDFSLabel, rdf.NewString("y"))
	b.Add(ex.Term("s"), vocab.RDFSLabel, rdf.NewString("x"))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestMerge(t *testing.T) {
	a := New()
	a.Add(ex.Term("s"), vocab.RDFSLabel, rdf.NewString("x"))
	b := New()
	b.Add(ex.Term("s"), vocab.RDFSLabel, rdf.NewString("x"))
	b.Add(ex.Term("t"), vocab.RDFSLabel, rdf.NewString("y"))

	assert.Equal(t, 1, a.Merge(b))
	assert.Equal(t, 2, a.Len())
}
