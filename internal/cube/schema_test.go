package cube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

func TestDeclareDimensionOverwrites(t *testing.T) {
	g := graph.New()
	s := NewSchema(g, vocab.DefaultNamespaces())

	spec := ComponentSpec{
		Name:   "county",
		Labels: []Label{{"cs", "Okres"}},
		Range:  vocab.XSDAnyURI,
	}
	d := s.DeclareDimension(spec)
	n := g.Len()

	spec.Labels = []Label{{"cs", "Okres"}, {"en", "County"}}
	again := s.DeclareDimension(spec)

	assert.Equal(t, d, again)
	assert.Equal(t, n+1, g.Len())
	assert.True(t, g.IsA(d.IRI, vocab.RDFProperty))
	assert.True(t, g.IsA(d.IRI, vocab.QBDimensionProperty))
}

func TestBuildStructureIsIdempotent(t *testing.T) {
	g := graph.New()
	s := NewSchema(g, vocab.DefaultNamespaces())
	d := s.DeclareDimension(ComponentSpec{Name: "county", Range: vocab.XSDAnyURI})
	m := s.DeclareMeasure(ComponentSpec{Name: "mean_population", Range: vocab.XSDInteger})

	structure := s.BuildStructure([]Dimension{d}, []Measure{m})
	n := g.Len()
	s.BuildStructure([]Dimension{d}, []Measure{m})

	assert.Equal(t, n, g.Len())
	components := g.Objects(structure, vocab.QBComponent)
	require.Len(t, components, 2)
	assert.True(t, g.Has(components[0], vocab.QBDimension, d.IRI))
	assert.True(t, g.Has(components[1], vocab.QBMeasure, m.IRI))
	assert.True(t, g.IsA(components[0], vocab.QBComponentSpecification))
}

func TestBuildDatasetReplacesMetadata(t *testing.T) {
	g := graph.New()
	s := NewSchema(g, vocab.DefaultNamespaces())
	structure := s.BuildStructure(nil, nil)

	spec := DatasetSpec{
		Titles:  []Label{{"en", "Population 2021"}},
		Issued:  time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
		Derived: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	ds := s.BuildDataset(structure, spec)
	spec.Derived = time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	s.BuildDataset(structure, spec)

	assert.Equal(t, []rdf.Term{rdf.NewTyped("2024-02-02", vocab.XSDDate)}, g.Objects(ds, vocab.DCTermsModified))
	assert.False(t, g.Has(ds, vocab.DCTermsPublisher, nil))
}
