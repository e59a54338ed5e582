package metadata

import (
	"time"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// Primary sources of the cubes on the Czech national open data catalog.
const (
	CareProvidersSource rdf.IRI = "https://data.gov.cz/zdroj/datov%C3%A9-sady/00024341/aa4c99d9f1480cca59807389cf88d4dc"
	PopulationSource    rdf.IRI = "https://data.gov.cz/zdroj/datov%C3%A9-sady/00025593/12032e1445fd74fa08da79b14137fc29"
)

// Run describes one pipeline run.
type Run struct {
	ID      string
	Started time.Time
	Ended   time.Time
	// Authored is when the author's script was taken into use; it defaults
	// to Started.
	Authored time.Time
}

// BuildProvenance returns the PROV graph of a run: the two cubes and their
// sources as entities, the organization, author and the qbcube software
// agent, and the run activity with a qualified usage of the author in the
// script-author role.
func BuildProvenance(ns vocab.Namespaces, run Run) *graph.Graph {
	g := graph.New()
	res := ns.Resource

	care := res.Term("careProvidersDataCubeInstance")
	pop := res.Term("populationDataCubeInstance")
	entity(g, care, "Care Providers Datacube", CareProvidersSource,
		"Dataset - Národní registr poskytovatelů zdravotních služeb")
	entity(g, pop, "Population 2021 Datacube", PopulationSource,
		"Dataset - Pohyb obyvatel za ČR, kraje, okresy, SO ORP a obce - rok 2021")

	org := res.Term("MFF")
	g.Add(org, vocab.RDFType, vocab.PROVAgent)
	g.Add(org, vocab.RDFType, vocab.PROVOrganization)
	g.Add(org, vocab.FOAFName, rdf.NewLangString("MFF UK", "cs"))

	author := res.Term("MilanAbraham")
	g.Add(author, vocab.RDFType, vocab.PROVAgent)
	g.Add(author, vocab.RDFType, vocab.PROVPerson)
	g.Add(author, vocab.FOAFFirstName, rdf.NewLangString(Author.FirstName, "cs"))
	g.Add(author, vocab.FOAFSurname, rdf.NewLangString(Author.LastName, "cs"))
	g.Add(author, vocab.PROVActedOnBehalfOf, org)

	software := res.Term("qbcube")
	g.Add(software, vocab.RDFType, vocab.PROVAgent)
	g.Add(software, vocab.RDFType, vocab.PROVSoftwareAgent)
	g.Add(software, vocab.FOAFName, rdf.NewString("qbcube"))

	role := res.Term("ScriptAuthor")
	g.Add(role, vocab.RDFType, vocab.PROVRole)
	g.Add(role, vocab.FOAFName, rdf.NewLangString("Script Author", "cs"))

	activity := res.Term("run-" + run.ID)
	g.Add(activity, vocab.RDFType, vocab.PROVActivity)
	g.Add(activity, vocab.PROVGenerated, care)
	g.Add(activity, vocab.PROVGenerated, pop)
	g.Add(activity, vocab.PROVUsed, software)
	g.Add(activity, vocab.PROVWasAssociated, software)
	if !run.Started.IsZero() {
		g.Add(activity, vocab.PROVStartedAtTime, rdf.NewDateTime(run.Started))
	}
	if !run.Ended.IsZero() {
		g.Add(activity, vocab.PROVEndedAtTime, rdf.NewDateTime(run.Ended))
	}
	g.Add(care, vocab.PROVWasGeneratedBy, activity)
	g.Add(pop, vocab.PROVWasGeneratedBy, activity)

	usage := g.NewBlank()
	g.Add(activity, vocab.PROVQualifiedUsage, usage)
	g.Add(usage, vocab.RDFType, vocab.PROVUsage)
	g.Add(usage, vocab.PROVEntityProp, author)
	g.Add(usage, vocab.PROVHadRole, role)
	authored := run.Authored
	if authored.IsZero() {
		authored = run.Started
	}
	if !authored.IsZero() {
		g.Add(usage, vocab.PROVAtTime, rdf.NewDateTime(authored))
	}
	return g
}

func entity(g *graph.Graph, iri rdf.IRI, title string, source rdf.IRI, sourceTitle string) {
	g.Add(iri, vocab.RDFType, vocab.PROVEntity)
	g.Add(iri, vocab.DCTermsTitle, rdf.NewLangString(title, "cs"))
	g.Add(iri, vocab.PROVHadPrimarySource, source)
	g.Add(source, vocab.RDFType, vocab.PROVEntity)
	g.Add(source, vocab.DCTermsTitle, rdf.NewLangString(sourceTitle, "cs"))
}
