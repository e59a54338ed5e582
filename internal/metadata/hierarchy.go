package metadata

import (
	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

// RegionalAuthorities is the EuroVoc domain "regional and local
// authorities" that roots the area hierarchy.
var RegionalAuthorities = vocab.EuroVoc.Term("6034")

// BuildHierarchy returns the SKOS hierarchy of regions and counties found in
// the care-provider registry. The county and region schemes hang off the
// EuroVoc domain and every county points skos:broader at its region.
func BuildHierarchy(providers *table.Table, ns vocab.Namespaces) *graph.Graph {
	g := graph.New()
	county := ns.Ontology.Term("county")
	region := ns.Ontology.Term("region")

	g.Add(RegionalAuthorities, vocab.RDFType, vocab.SKOSConceptScheme)
	g.Add(RegionalAuthorities, vocab.SKOSPrefLabel, rdf.NewLangString("správní celek", "cs"))
	g.Add(RegionalAuthorities, vocab.SKOSPrefLabel, rdf.NewLangString("regional and local authorities", "en"))
	g.Add(RegionalAuthorities, vocab.SKOSNotation, rdf.NewString("6034"))
	g.Add(RegionalAuthorities, vocab.SKOSHasTopConcept, region)
	g.Add(RegionalAuthorities, vocab.SKOSHasTopConcept, county)

	schemes := []struct {
		iri    rdf.IRI
		cs, en string
	}{
		{region, "Kraj", "Region"},
		{county, "Okres", "County"},
	}
	for _, s := range schemes {
		g.Add(s.iri, vocab.RDFType, vocab.SKOSConceptScheme)
		g.Add(s.iri, vocab.SKOSInScheme, RegionalAuthorities)
		g.Add(s.iri, vocab.SKOSPrefLabel, rdf.NewLangString(s.cs, "cs"))
		g.Add(s.iri, vocab.SKOSPrefLabel, rdf.NewLangString(s.en, "en"))
	}

	rows := providers.Project(cube.ColCounty, cube.ColCountyCode, cube.ColRegion, cube.ColRegionCode)
	for _, r := range rows.Rows {
		c := ns.Resource.Term(r[cube.ColCountyCode])
		p := ns.Resource.Term(r[cube.ColRegionCode])
		concept(g, c, county, r[cube.ColCounty], r[cube.ColCountyCode])
		concept(g, p, region, r[cube.ColRegion], r[cube.ColRegionCode])
		g.Add(p, vocab.SKOSNarrower, c)
		g.Add(c, vocab.SKOSBroader, p)
	}
	return g
}

func concept(g *graph.Graph, iri, scheme rdf.IRI, label, notation string) {
	g.Add(iri, vocab.RDFType, vocab.SKOSConcept)
	g.Add(iri, vocab.SKOSPrefLabel, rdf.NewLangString(label, "cs"))
	g.Add(iri, vocab.SKOSNotation, rdf.NewString(notation))
	g.Add(iri, vocab.SKOSInScheme, scheme)
	g.Add(scheme, vocab.SKOSHasTopConcept, iri)
}
