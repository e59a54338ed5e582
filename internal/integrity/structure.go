package integrity

import (
	"slices"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// componentLinks are qb:componentProperty and its sub-properties.
var componentLinks = []rdf.IRI{
	vocab.QBComponentProperty,
	vocab.QBDimension,
	vocab.QBMeasure,
	vocab.QBAttribute,
	vocab.QBMeasureDimension,
}

// linkedProperties returns the component properties attached to spec
// through any component link.
func linkedProperties(g *graph.Graph, spec rdf.Term) []rdf.Term {
	var out []rdf.Term
	for _, link := range componentLinks {
		for _, p := range g.Objects(spec, link) {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func isDimension(g *graph.Graph, p rdf.Term) bool {
	return g.IsA(p, vocab.QBDimensionProperty) ||
		g.Has(nil, vocab.QBDimension, p) ||
		g.Has(nil, vocab.QBMeasureDimension, p)
}

func isMeasure(g *graph.Graph, p rdf.Term) bool {
	return g.IsA(p, vocab.QBMeasureProperty) || g.Has(nil, vocab.QBMeasure, p)
}

func isAttribute(g *graph.Graph, p rdf.Term) bool {
	return g.IsA(p, vocab.QBAttributeProperty) || g.Has(nil, vocab.QBAttribute, p)
}

// component is one (specification, property) pair of a structure.
type component struct {
	spec     rdf.Term
	property rdf.Term
}

// structure memoizes structure-definition lookups for the duration of one
// rule evaluation.
type structure struct {
	g          *graph.Graph
	components map[rdf.Term][]component
}

func newStructure(g *graph.Graph) *structure {
	return &structure{g: g, components: make(map[rdf.Term][]component)}
}

// componentsOf returns the components of dsd in statement order.
func (s *structure) componentsOf(dsd rdf.Term) []component {
	if cs, ok := s.components[dsd]; ok {
		return cs
	}
	var cs []component
	for _, spec := range s.g.Objects(dsd, vocab.QBComponent) {
		for _, p := range linkedProperties(s.g, spec) {
			cs = append(cs, component{spec: spec, property: p})
		}
	}
	s.components[dsd] = cs
	return cs
}

// properties returns the distinct component properties of dsd.
func (s *structure) properties(dsd rdf.Term) []rdf.Term {
	var out []rdf.Term
	for _, c := range s.componentsOf(dsd) {
		if !slices.Contains(out, c.property) {
			out = append(out, c.property)
		}
	}
	return out
}

// dimensions returns the dimension properties of dsd that can be used as
// predicates.
func (s *structure) dimensions(dsd rdf.Term) []rdf.IRI {
	return s.predicates(dsd, isDimension)
}

// measures returns the measure properties of dsd that can be used as
// predicates.
func (s *structure) measures(dsd rdf.Term) []rdf.IRI {
	return s.predicates(dsd, isMeasure)
}

func (s *structure) predicates(dsd rdf.Term, keep func(*graph.Graph, rdf.Term) bool) []rdf.IRI {
	var out []rdf.IRI
	for _, p := range s.properties(dsd) {
		iri, ok := p.(rdf.IRI)
		if ok && keep(s.g, p) {
			out = append(out, iri)
		}
	}
	return out
}

// usesMeasureType reports whether dsd has qb:measureType as a component
// property.
func (s *structure) usesMeasureType(dsd rdf.Term) bool {
	return slices.Contains(s.properties(dsd), rdf.Term(vocab.QBMeasureType))
}

// observations returns every subject typed qb:Observation or linked to a
// dataset, in statement order.
func observations(g *graph.Graph) []rdf.Resource {
	out := g.Subjects(vocab.QBDataSetProp, nil)
	for _, o := range g.InstancesOf(vocab.QBObservation) {
		if !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

// structuresOf follows obs qb:dataSet/qb:structure.
func structuresOf(g *graph.Graph, obs rdf.Term) []rdf.Term {
	return g.FollowPath(obs, vocab.QBDataSetProp, vocab.QBStructure)
}

// values returns the objects of (s, p, *) when p can be a predicate.
func values(g *graph.Graph, s rdf.Term, p rdf.Term) []rdf.Term {
	iri, ok := p.(rdf.IRI)
	if !ok {
		return nil
	}
	return g.Objects(s, iri)
}

// hasValue reports whether (s, p, *) is present.
func hasValue(g *graph.Graph, s rdf.Term, p rdf.Term) bool {
	iri, ok := p.(rdf.IRI)
	return ok && g.Has(s, iri, nil)
}

// dimensionProperties returns every property typed qb:DimensionProperty or
// linked from a component as a dimension.
func dimensionProperties(g *graph.Graph) []rdf.Term {
	var out []rdf.Term
	add := func(t rdf.Term) {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	for _, d := range g.InstancesOf(vocab.QBDimensionProperty) {
		add(d)
	}
	for _, link := range []rdf.IRI{vocab.QBDimension, vocab.QBMeasureDimension} {
		for _, st := range g.Match(nil, link, nil) {
			add(st.Object)
		}
	}
	return out
}
