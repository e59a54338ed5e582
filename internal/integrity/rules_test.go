package integrity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

const ex = vocab.Namespace("http://example.org/")

var (
	county  = ex.Term("county")
	count   = ex.Term("count")
	dataset = ex.Term("ds")
	dsd     = ex.Term("dsd")
)

// baseCube builds a clean two-observation cube with one dimension and one
// measure.
func baseCube() *graph.Graph {
	g := graph.New()
	g.Add(county, vocab.RDFType, vocab.QBDimensionProperty)
	g.Add(county, vocab.RDFSRange, vocab.XSDAnyURI)
	g.Add(count, vocab.RDFType, vocab.QBMeasureProperty)
	g.Add(count, vocab.RDFSRange, vocab.XSDInteger)

	g.Add(dsd, vocab.RDFType, vocab.QBDataStructureDefinition)
	g.Add(dsd, vocab.QBComponent, rdf.Blank("c1"))
	g.Add(rdf.Blank("c1"), vocab.QBDimension, county)
	g.Add(dsd, vocab.QBComponent, rdf.Blank("c2"))
	g.Add(rdf.Blank("c2"), vocab.QBMeasure, count)

	g.Add(dataset, vocab.RDFType, vocab.QBDataSet)
	g.Add(dataset, vocab.QBStructure, dsd)

	for i, code := range []string{"CZ010", "CZ064"} {
		obs := ex.Term(fmt.Sprintf("o%d", i))
		g.Add(obs, vocab.RDFType, vocab.QBObservation)
		g.Add(obs, vocab.QBDataSetProp, dataset)
		g.Add(obs, county, ex.Term(code))
		g.Add(obs, count, rdf.NewInteger(int64(i+1)))
	}
	return g
}

// measureTypeCube builds a clean measure-dimension cube: one point with two
// measures, one observation per measure.
func measureTypeCube() *graph.Graph {
	g := graph.New()
	m1, m2 := ex.Term("m1"), ex.Term("m2")
	g.Add(county, vocab.RDFType, vocab.QBDimensionProperty)
	g.Add(county, vocab.RDFSRange, vocab.XSDAnyURI)
	g.Add(vocab.QBMeasureType, vocab.RDFSRange, vocab.QBMeasureProperty)
	for _, m := range []rdf.IRI{m1, m2} {
		g.Add(m, vocab.RDFType, vocab.QBMeasureProperty)
		g.Add(m, vocab.RDFSRange, vocab.XSDInteger)
	}

	g.Add(dsd, vocab.RDFType, vocab.QBDataStructureDefinition)
	links := []struct {
		link rdf.IRI
		prop rdf.IRI
	}{
		{vocab.QBDimension, county},
		{vocab.QBDimension, vocab.QBMeasureType},
		{vocab.QBMeasure, m1},
		{vocab.QBMeasure, m2},
	}
	for i, l := range links {
		spec := rdf.Blank(fmt.Sprintf("c%d", i+1))
		g.Add(dsd, vocab.QBComponent, spec)
		g.Add(spec, l.link, l.prop)
	}

	g.Add(dataset, vocab.RDFType, vocab.QBDataSet)
	g.Add(dataset, vocab.QBStructure, dsd)
	for i, m := range []rdf.IRI{m1, m2} {
		obs := ex.Term(fmt.Sprintf("o%d", i))
		g.Add(obs, vocab.RDFType, vocab.QBObservation)
		g.Add(obs, vocab.QBDataSetProp, dataset)
		g.Add(obs, county, ex.Term("CZ010"))
		g.Add(obs, vocab.QBMeasureType, m)
		g.Add(obs, m, rdf.NewInteger(int64(i+10)))
	}
	return g
}

// withCodeList attaches list to the county dimension and types it.
func withCodeList(g *graph.Graph, class rdf.IRI) rdf.IRI {
	list := ex.Term("county-list")
	g.Add(county, vocab.QBCodeList, list)
	g.Add(list, vocab.RDFType, class)
	return list
}

func schemeCube() *graph.Graph {
	g := baseCube()
	list := withCodeList(g, vocab.SKOSConceptScheme)
	for _, code := range []string{"CZ010", "CZ064"} {
		g.Add(ex.Term(code), vocab.RDFType, vocab.SKOSConcept)
		g.Add(ex.Term(code), vocab.SKOSInScheme, list)
	}
	return g
}

func collectionCube() *graph.Graph {
	g := baseCube()
	list := withCodeList(g, vocab.SKOSCollection)
	nested := ex.Term("moravia")
	g.Add(list, vocab.SKOSMember, ex.Term("CZ010"))
	g.Add(list, vocab.SKOSMember, nested)
	g.Add(nested, vocab.SKOSMember, ex.Term("CZ064"))
	for _, code := range []string{"CZ010", "CZ064"} {
		g.Add(ex.Term(code), vocab.RDFType, vocab.SKOSConcept)
	}
	return g
}

func hierarchyCube() *graph.Graph {
	g := baseCube()
	list := withCodeList(g, vocab.QBHierarchicalCodeList)
	g.Add(list, vocab.QBHierarchyRoot, ex.Term("CZ0"))
	g.Add(list, vocab.QBParentChildProp, vocab.SKOSNarrower)
	g.Add(ex.Term("CZ0"), vocab.SKOSNarrower, ex.Term("CZ01"))
	g.Add(ex.Term("CZ01"), vocab.SKOSNarrower, ex.Term("CZ010"))
	g.Add(ex.Term("CZ0"), vocab.SKOSNarrower, ex.Term("CZ064"))
	return g
}

func inverseHierarchyCube() *graph.Graph {
	g := baseCube()
	list := withCodeList(g, vocab.QBHierarchicalCodeList)
	pcp := rdf.Blank("pcp")
	g.Add(list, vocab.QBHierarchyRoot, ex.Term("CZ0"))
	g.Add(list, vocab.QBParentChildProp, pcp)
	g.Add(pcp, vocab.OWLInverseOf, vocab.SKOSBroader)
	g.Add(ex.Term("CZ010"), vocab.SKOSBroader, ex.Term("CZ0"))
	g.Add(ex.Term("CZ064"), vocab.SKOSBroader, ex.Term("CZ0"))
	return g
}

func rule(t *testing.T, id string) Rule {
	t.Helper()
	rules, err := Select([]string{id}, false)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	return rules[0]
}

func TestCleanCubesViolateNothing(t *testing.T) {
	cubes := map[string]func() *graph.Graph{
		"base":              baseCube,
		"measure type":      measureTypeCube,
		"concept scheme":    schemeCube,
		"collection":        collectionCube,
		"hierarchy":         hierarchyCube,
		"inverse hierarchy": inverseHierarchyCube,
	}
	for name, build := range cubes {
		t.Run(name, func(t *testing.T) {
			g := build()
			for _, r := range Catalog() {
				assert.False(t, r.Check(g), "%s %s", r.ID, r.Name)
			}
		})
	}
}

func TestRuleDetectsDefect(t *testing.T) {
	o0, o1 := ex.Term("o0"), ex.Term("o1")
	key, slice := ex.Term("key"), ex.Term("slice")

	tests := []struct {
		name   string
		rule   string
		build  func() *graph.Graph
		mutate func(g *graph.Graph)
	}{
		{"observation without dataset", "IC-1", baseCube, func(g *graph.Graph) {
			g.Add(ex.Term("o9"), vocab.RDFType, vocab.QBObservation)
		}},
		{"observation in two datasets", "IC-1", baseCube, func(g *graph.Graph) {
			g.Add(o0, vocab.QBDataSetProp, ex.Term("ds2"))
		}},
		{"dataset without structure", "IC-2", baseCube, func(g *graph.Graph) {
			g.Add(ex.Term("ds2"), vocab.RDFType, vocab.QBDataSet)
		}},
		{"structure shared by datasets", "IC-2", baseCube, func(g *graph.Graph) {
			g.Add(ex.Term("ds2"), vocab.RDFType, vocab.QBDataSet)
			g.Add(ex.Term("ds2"), vocab.QBStructure, dsd)
		}},
		{"structure without measure", "IC-3", baseCube, func(g *graph.Graph) {
			g.Add(ex.Term("dsd2"), vocab.RDFType, vocab.QBDataStructureDefinition)
			g.Add(ex.Term("dsd2"), vocab.QBComponent, rdf.Blank("c9"))
			g.Add(rdf.Blank("c9"), vocab.QBDimension, county)
		}},
		{"dimension without range", "IC-4", baseCube, func(g *graph.Graph) {
			g.Remove(county, vocab.RDFSRange, nil)
		}},
		{"concept dimension without code list", "IC-5", baseCube, func(g *graph.Graph) {
			g.Set(county, vocab.RDFSRange, vocab.SKOSConcept)
		}},
		{"optional dimension", "IC-6", baseCube, func(g *graph.Graph) {
			g.Add(rdf.Blank("c1"), vocab.QBComponentRequired, rdf.NewBoolean(false))
		}},
		{"undeclared slice key", "IC-7", baseCube, func(g *graph.Graph) {
			g.Add(key, vocab.RDFType, vocab.QBSliceKey)
		}},
		{"slice key property outside structure", "IC-8", baseCube, func(g *graph.Graph) {
			g.Add(key, vocab.RDFType, vocab.QBSliceKey)
			g.Add(key, vocab.QBComponentProperty, ex.Term("elsewhere"))
			g.Add(dsd, vocab.QBSliceKeyProp, key)
		}},
		{"slice without structure", "IC-9", baseCube, func(g *graph.Graph) {
			g.Add(slice, vocab.RDFType, vocab.QBSlice)
		}},
		{"slice missing key dimension", "IC-10", baseCube, func(g *graph.Graph) {
			g.Add(key, vocab.QBComponentProperty, county)
			g.Add(slice, vocab.QBSliceStructure, key)
		}},
		{"observation missing dimension", "IC-11", baseCube, func(g *graph.Graph) {
			g.Remove(o1, county, nil)
		}},
		{"duplicate observation", "IC-12", baseCube, func(g *graph.Graph) {
			g.Set(o1, county, ex.Term("CZ010"))
		}},
		{"duplicate beside a multi-valued observation", "IC-12", baseCube, func(g *graph.Graph) {
			o2 := ex.Term("o2")
			g.Add(o2, vocab.QBDataSetProp, dataset)
			g.Add(o2, county, ex.Term("CZ010"))
			g.Add(o2, county, ex.Term("CZ064"))
			g.Set(o1, county, ex.Term("CZ010"))
		}},
		{"missing required attribute", "IC-13", baseCube, func(g *graph.Graph) {
			g.Add(dsd, vocab.QBComponent, rdf.Blank("c3"))
			g.Add(rdf.Blank("c3"), vocab.QBAttribute, ex.Term("unit"))
			g.Add(rdf.Blank("c3"), vocab.QBComponentRequired, rdf.NewBoolean(true))
		}},
		{"missing measure", "IC-14", baseCube, func(g *graph.Graph) {
			g.Remove(o0, count, nil)
		}},
		{"selected measure missing", "IC-15", measureTypeCube, func(g *graph.Graph) {
			g.Remove(o1, ex.Term("m2"), nil)
		}},
		{"second measure on observation", "IC-16", measureTypeCube, func(g *graph.Graph) {
			g.Add(o0, ex.Term("m2"), rdf.NewInteger(5))
		}},
		{"point missing a measure observation", "IC-17", measureTypeCube, func(g *graph.Graph) {
			g.Remove(o1, "", nil)
		}},
		{"slice observation outside dataset", "IC-18", baseCube, func(g *graph.Graph) {
			g.Add(dataset, vocab.QBSliceProp, slice)
			g.Add(slice, vocab.QBObservationProp, ex.Term("stray"))
		}},
		{"value outside concept scheme", "IC-19a", schemeCube, func(g *graph.Graph) {
			g.Remove(ex.Term("CZ064"), vocab.SKOSInScheme, nil)
		}},
		{"value not a concept", "IC-19a", schemeCube, func(g *graph.Graph) {
			g.Remove(ex.Term("CZ010"), vocab.RDFType, vocab.SKOSConcept)
		}},
		{"value outside collection", "IC-19b", collectionCube, func(g *graph.Graph) {
			g.Remove(ex.Term("moravia"), vocab.SKOSMember, nil)
		}},
		{"value outside hierarchy", "IC-20", hierarchyCube, func(g *graph.Graph) {
			g.Remove(ex.Term("CZ01"), vocab.SKOSNarrower, nil)
		}},
		{"value outside inverse hierarchy", "IC-21", inverseHierarchyCube, func(g *graph.Graph) {
			g.Remove(ex.Term("CZ064"), vocab.SKOSBroader, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.rule+" "+tt.name, func(t *testing.T) {
			r := rule(t, tt.rule)
			g := tt.build()
			require.False(t, r.Check(g), "clean cube already violates %s", tt.rule)

			tt.mutate(g)
			assert.True(t, r.Check(g))
		})
	}
}

func TestComponentPropertyFormIsRecognised(t *testing.T) {
	g := baseCube()
	g.Remove(rdf.Blank("c2"), vocab.QBMeasure, nil)
	g.Add(rdf.Blank("c2"), vocab.QBComponentProperty, count)

	assert.False(t, rule(t, "IC-3").Check(g))
	assert.False(t, rule(t, "IC-14").Check(g))

	g.Remove(ex.Term("o0"), count, nil)
	assert.True(t, rule(t, "IC-14").Check(g))
}

func TestOptionalAttributeIsAllowed(t *testing.T) {
	g := baseCube()
	g.Add(dsd, vocab.QBComponent, rdf.Blank("c3"))
	g.Add(rdf.Blank("c3"), vocab.QBAttribute, ex.Term("unit"))
	g.Add(rdf.Blank("c3"), vocab.QBComponentRequired, rdf.NewBoolean(false))

	assert.False(t, rule(t, "IC-6").Check(g))
	assert.False(t, rule(t, "IC-13").Check(g))
}

func TestObservationsWithoutSharedDimensionAreNotDuplicates(t *testing.T) {
	g := baseCube()
	g.Remove(ex.Term("o0"), county, nil)
	g.Remove(ex.Term("o1"), county, nil)

	assert.False(t, rule(t, "IC-12").Check(g))
	assert.True(t, rule(t, "IC-11").Check(g))
}

func TestMultiValuedDimensionIsNotADuplicate(t *testing.T) {
	g := baseCube()
	g.Add(ex.Term("o1"), county, ex.Term("CZ010"))

	assert.False(t, rule(t, "IC-12").Check(g))
}

func TestEmptyGraphViolatesNothing(t *testing.T) {
	g := graph.New()
	for _, r := range Catalog() {
		assert.False(t, r.Check(g), r.ID)
	}
}
