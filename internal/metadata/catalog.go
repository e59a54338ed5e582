package metadata

import (
	"time"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// EU publications office authority tables.
const (
	authority   = "http://publications.europa.eu/resource/authority/"
	repository  = "https://github.com/milan252525/NDBI046"
	turtleMedia = "http://www.iana.org/assignments/media-types/text/turtle"
)

// Text is a language-tagged string.
type Text struct {
	Lang  string
	Value string
}

// DatasetRecord describes a cube as a dcat:Dataset.
type DatasetRecord struct {
	// Local is the dataset's local name in the resource namespace.
	Local        string
	Titles       []Text
	Descriptions []Text
	Keywords     []Text
	Themes       []rdf.IRI
	Spatial      rdf.IRI
	Start, End   time.Time
	Periodicity  rdf.IRI
	Publisher    Person

	// Distribution
	AccessURL   rdf.IRI
	DownloadURL rdf.IRI
	MediaType   rdf.IRI
	Format      rdf.IRI
}

// PopulationRecord is the catalog record of the population cube.
func PopulationRecord() DatasetRecord {
	return DatasetRecord{
		Local: "populationDataCubeInstance",
		Titles: []Text{
			{"en", "Population 2021"},
			{"cs", "Obyvatelé v okresech 2021"},
		},
		Descriptions: []Text{
			{"cs", "Datová kostka obsahující obyvatele podle krajů a okresů v roce 2021"},
		},
		Keywords: []Text{
			{"cs", "populace"},
			{"cs", "okresy"},
			{"cs", "kraje"},
		},
		Themes: []rdf.IRI{
			vocab.EuroVoc.Term("4259"), // population statistics
			vocab.EuroVoc.Term("3300"), // geographical distribution of the population
		},
		Spatial:     authority + "atu/CZE",
		Start:       date(2021, time.January, 1),
		End:         date(2021, time.December, 31),
		Periodicity: authority + "frequency/IRREG",
		Publisher:   Author,
		AccessURL:   repository,
		DownloadURL: repository,
		MediaType:   turtleMedia,
		Format:      authority + "file-type/RDF_TURTLE",
	}
}

// Graph renders the record. The temporal coverage and the publisher are
// blank nodes; the distribution is res:CubeDistribution.
func (r DatasetRecord) Graph(ns vocab.Namespaces) *graph.Graph {
	g := graph.New()
	ds := ns.Resource.Term(r.Local)

	g.Add(ds, vocab.RDFType, vocab.DCATDataset)
	for _, t := range r.Titles {
		g.Add(ds, vocab.DCTermsTitle, rdf.NewLangString(t.Value, t.Lang))
	}
	for _, t := range r.Descriptions {
		g.Add(ds, vocab.DCTermsDescription, rdf.NewLangString(t.Value, t.Lang))
	}
	for _, t := range r.Keywords {
		g.Add(ds, vocab.DCATKeyword, rdf.NewLangString(t.Value, t.Lang))
	}
	for _, th := range r.Themes {
		g.Add(ds, vocab.DCATTheme, th)
	}
	if r.Spatial != "" {
		g.Add(ds, vocab.DCTermsSpatial, r.Spatial)
	}
	if !r.Start.IsZero() || !r.End.IsZero() {
		period := g.NewBlank()
		g.Add(ds, vocab.DCTermsTemporal, period)
		g.Add(period, vocab.RDFType, vocab.DCTermsPeriodOfTime)
		if !r.Start.IsZero() {
			g.Add(period, vocab.DCATStartDate, rdf.NewDate(r.Start))
		}
		if !r.End.IsZero() {
			g.Add(period, vocab.DCATEndDate, rdf.NewDate(r.End))
		}
	}

	dist := ns.Resource.Term("CubeDistribution")
	g.Add(ds, vocab.DCATDistProp, dist)
	g.Add(dist, vocab.RDFType, vocab.DCATDistribution)
	if r.AccessURL != "" {
		g.Add(dist, vocab.DCATAccessURL, r.AccessURL)
	}
	if r.DownloadURL != "" {
		g.Add(dist, vocab.DCATDownloadURL, r.DownloadURL)
	}
	if r.MediaType != "" {
		g.Add(dist, vocab.DCATMediaType, r.MediaType)
	}
	if r.Format != "" {
		g.Add(dist, vocab.DCTermsFormat, r.Format)
	}

	if r.Publisher != (Person{}) {
		pub := g.NewBlank()
		g.Add(ds, vocab.DCTermsPublisher, pub)
		g.Add(ds, vocab.DCTermsCreator, pub)
		g.Add(pub, vocab.RDFType, vocab.FOAFPerson)
		g.Add(pub, vocab.FOAFFirstName, rdf.NewString(r.Publisher.FirstName))
		g.Add(pub, vocab.FOAFLastName, rdf.NewString(r.Publisher.LastName))
	}
	if r.Periodicity != "" {
		g.Add(ds, vocab.DCTermsAccrualPeriodicity, r.Periodicity)
	}
	return g
}
