package metadata

import (
	"bytes"
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
	"github.com/roach88/qbcube/internal/serialize"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

var (
	ns  = vocab.DefaultNamespaces()
	ont = ns.Ontology
	res = ns.Resource
)

func providers() *table.Table {
	cols := []string{cube.ColCounty, cube.ColCountyCode, cube.ColRegion, cube.ColRegionCode, cube.ColFieldOfCare}
	row := func(county, code, region, regionCode string) table.Row {
		return table.Row{
			cube.ColCounty:      county,
			cube.ColCountyCode:  code,
			cube.ColRegion:      region,
			cube.ColRegionCode:  regionCode,
			cube.ColFieldOfCare: "praktické lékařství",
		}
	}
	return table.New(cols,
		row("Praha", "CZ010", "Hlavní město Praha", "CZ01"),
		row("Praha", "CZ010", "Hlavní město Praha", "CZ01"),
		row("Benešov", "CZ0201", "Středočeský kraj", "CZ02"),
		row("Kladno", "CZ0203", "Středočeský kraj", "CZ02"),
		row("", "CZ0204", "Středočeský kraj", "CZ02"),
	)
}

func TestKinds(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(string(k))
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("lineage")
	assert.False(t, ok)

	assert.Equal(t, "skos_hierarchy.ttl", Hierarchy.FileName())
	assert.Equal(t, "dcat_dataset.ttl", Catalog.FileName())
	assert.Equal(t, "provenance.trig", Provenance.FileName())
}

func TestBuildHierarchy(t *testing.T) {
	g := BuildHierarchy(providers(), ns)

	county, region := ont.Term("county"), ont.Term("region")
	assert.True(t, g.IsA(RegionalAuthorities, vocab.SKOSConceptScheme))
	assert.ElementsMatch(t, []rdf.Term{region, county}, g.Objects(RegionalAuthorities, vocab.SKOSHasTopConcept))

	benesov := res.Term("CZ0201")
	stredocesky := res.Term("CZ02")
	assert.True(t, g.IsA(benesov, vocab.SKOSConcept))
	assert.True(t, g.Has(benesov, vocab.SKOSInScheme, county))
	assert.True(t, g.Has(stredocesky, vocab.SKOSInScheme, region))
	assert.True(t, g.Has(benesov, vocab.SKOSBroader, stredocesky))
	assert.True(t, g.Has(stredocesky, vocab.SKOSNarrower, benesov))
	assert.True(t, g.Has(benesov, vocab.SKOSNotation, rdf.NewString("CZ0201")))
	assert.True(t, g.Has(benesov, vocab.SKOSPrefLabel, rdf.NewLangString("Benešov", "cs")))

	assert.ElementsMatch(t,
		[]rdf.Term{res.Term("CZ010"), res.Term("CZ0201"), res.Term("CZ0203")},
		g.Objects(county, vocab.SKOSHasTopConcept))
	assert.ElementsMatch(t,
		[]rdf.Term{res.Term("CZ01"), res.Term("CZ02")},
		g.Objects(region, vocab.SKOSHasTopConcept))

	// The row without a county name is dropped.
	assert.Empty(t, g.Match(res.Term("CZ0204"), "", nil))
}

func TestBuildHierarchyIsBroaderTransitiveUpToRegion(t *testing.T) {
	g := BuildHierarchy(providers(), ns)
	assert.True(t, g.Reachable(res.Term("CZ0203"), res.Term("CZ02"), vocab.SKOSBroader, graph.Forward))
	assert.False(t, g.Reachable(res.Term("CZ0203"), res.Term("CZ01"), vocab.SKOSBroader, graph.Forward))
}

func TestPopulationRecord(t *testing.T) {
	g := PopulationRecord().Graph(ns)
	ds := res.Term("populationDataCubeInstance")

	assert.True(t, g.IsA(ds, vocab.DCATDataset))
	assert.Len(t, g.Objects(ds, vocab.DCTermsTitle), 2)
	assert.Len(t, g.Objects(ds, vocab.DCATKeyword), 3)
	assert.ElementsMatch(t,
		[]rdf.Term{vocab.EuroVoc.Term("4259"), vocab.EuroVoc.Term("3300")},
		g.Objects(ds, vocab.DCATTheme))
	assert.True(t, g.Has(ds, vocab.DCTermsSpatial, rdf.IRI("http://publications.europa.eu/resource/authority/atu/CZE")))

	period, ok := g.Object(ds, vocab.DCTermsTemporal)
	require.True(t, ok)
	assert.Equal(t, rdf.KindBlank, period.Kind())
	assert.True(t, g.Has(period, vocab.DCATStartDate, rdf.NewTyped("2021-01-01", vocab.XSDDate)))
	assert.True(t, g.Has(period, vocab.DCATEndDate, rdf.NewTyped("2021-12-31", vocab.XSDDate)))

	dist := res.Term("CubeDistribution")
	assert.True(t, g.Has(ds, vocab.DCATDistProp, dist))
	assert.True(t, g.IsA(dist, vocab.DCATDistribution))
	assert.True(t, g.Has(dist, vocab.DCTermsFormat, rdf.IRI("http://publications.europa.eu/resource/authority/file-type/RDF_TURTLE")))

	pub, ok := g.Object(ds, vocab.DCTermsPublisher)
	require.True(t, ok)
	assert.True(t, g.Has(ds, vocab.DCTermsCreator, pub))
	assert.True(t, g.Has(pub, vocab.FOAFLastName, rdf.NewString("Abrahám")))
}

func TestDatasetRecordOmitsEmptyParts(t *testing.T) {
	g := DatasetRecord{Local: "bare"}.Graph(ns)
	ds := res.Term("bare")
	assert.False(t, g.Has(ds, vocab.DCTermsTemporal, nil))
	assert.False(t, g.Has(ds, vocab.DCTermsPublisher, nil))
	assert.True(t, g.Has(ds, vocab.DCATDistProp, nil))
}

func TestBuildProvenance(t *testing.T) {
	start := time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC)
	run := Run{ID: "0190f3c4-1111-7000-8000-000000000001", Started: start, Ended: start.Add(5 * time.Minute)}
	g := BuildProvenance(ns, run)

	activity := res.Term("run-" + run.ID)
	assert.True(t, g.IsA(activity, vocab.PROVActivity))
	assert.ElementsMatch(t,
		[]rdf.Term{res.Term("careProvidersDataCubeInstance"), res.Term("populationDataCubeInstance")},
		g.Objects(activity, vocab.PROVGenerated))
	assert.True(t, g.Has(activity, vocab.PROVStartedAtTime, rdf.NewTyped("2024-05-01T09:30:00Z", rdf.XSDDateTime)))
	assert.True(t, g.Has(activity, vocab.PROVEndedAtTime, rdf.NewTyped("2024-05-01T09:35:00Z", rdf.XSDDateTime)))

	usage, ok := g.Object(activity, vocab.PROVQualifiedUsage)
	require.True(t, ok)
	assert.True(t, g.Has(usage, vocab.PROVEntityProp, res.Term("MilanAbraham")))
	assert.True(t, g.Has(usage, vocab.PROVHadRole, res.Term("ScriptAuthor")))
	assert.True(t, g.Has(usage, vocab.PROVAtTime, rdf.NewDateTime(start)))

	assert.True(t, g.Has(res.Term("populationDataCubeInstance"), vocab.PROVHadPrimarySource, PopulationSource))
	assert.True(t, g.IsA(PopulationSource, vocab.PROVEntity))
	assert.True(t, g.Has(res.Term("MilanAbraham"), vocab.PROVActedOnBehalfOf, res.Term("MFF")))
}

func TestBuild(t *testing.T) {
	in := Input{Providers: providers(), Run: Run{ID: "r1"}}
	for _, k := range Kinds() {
		doc, err := Build(k, in)
		require.NoError(t, err, k)
		assert.Equal(t, k, doc.Kind)
		assert.Positive(t, doc.Graph.Len())
	}

	_, err := Build(Hierarchy, Input{})
	assert.Error(t, err)
	_, err = Build(Provenance, Input{})
	assert.Error(t, err)
	_, err = Build(Kind("lineage"), in)
	assert.Error(t, err)
}

func TestDocumentWriteFormats(t *testing.T) {
	in := Input{Providers: providers(), Run: Run{ID: "r1"}}

	prov, err := Build(Provenance, in)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, prov.Write(&buf, ns.Prefixes()))
	assert.Contains(t, buf.String(), "res:provenance {\n")
	assert.Contains(t, buf.String(), "res:run-r1 a prov:Activity ;")

	hier, err := Build(Hierarchy, in)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, hier.Write(&buf, ns.Prefixes()))
	assert.False(t, strings.Contains(buf.String(), "{"), "hierarchy is plain Turtle")
	assert.Contains(t, buf.String(), "eurovoc:6034 a skos:ConceptScheme ;")
}

func TestDocumentWriteFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	in := Input{Providers: providers(), Run: Run{ID: "r1", Started: time.Unix(0, 0)}}

	for _, k := range Kinds() {
		doc, err := Build(k, in)
		require.NoError(t, err)
		path := filepath.Join(dir, k.FileName())
		require.NoError(t, doc.WriteFile(path, ns.Prefixes()))

		_, err = os.Stat(path)
		require.NoError(t, err)
		got, err := serialize.ReadGraphFile(path)
		require.NoError(t, err, k)
		assert.Equal(t, doc.Graph.Fingerprint(), got.Fingerprint(), k)
	}
}
