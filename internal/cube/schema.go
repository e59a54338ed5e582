package cube

import (
	"time"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// Local names of the fixed structure and dataset resources.
const (
	StructureName = "structure"
	DatasetName   = "dataCubeInstance"
)

// Label is a language-tagged human label.
type Label struct {
	Lang string
	Text string
}

// ComponentSpec describes a dimension or measure property.
type ComponentSpec struct {
	// Name is the local name in the ontology namespace.
	Name   string
	Labels []Label

	// Range is the declared value range (xsd:anyURI, xsd:integer, ...).
	Range rdf.IRI

	// SubPropertyOf links to a standard SDMX property. Optional.
	SubPropertyOf rdf.IRI

	// Concept is the qb:concept of a dimension. Optional.
	Concept rdf.IRI
}

// Dimension is a declared dimension property.
type Dimension struct {
	Name string
	IRI  rdf.IRI
}

// Measure is a declared measure property.
type Measure struct {
	Name string
	IRI  rdf.IRI
}

// DatasetSpec carries the dataset metadata.
type DatasetSpec struct {
	Titles    []Label
	Issued    time.Time
	Derived   time.Time
	Publisher string
	License   string
}

// Schema writes vocabulary declarations into a graph.
//
// Every declaration replaces whatever the graph already holds for the same
// resource, so running a declaration twice leaves one copy.
type Schema struct {
	g  *graph.Graph
	ns vocab.Namespaces
}

// NewSchema creates a Schema writing into g.
func NewSchema(g *graph.Graph, ns vocab.Namespaces) *Schema {
	return &Schema{g: g, ns: ns}
}

// DeclareDimension writes a dimension property.
func (s *Schema) DeclareDimension(spec ComponentSpec) Dimension {
	iri := s.declare(spec, vocab.QBDimensionProperty)
	return Dimension{Name: spec.Name, IRI: iri}
}

// DeclareMeasure writes a measure property.
func (s *Schema) DeclareMeasure(spec ComponentSpec) Measure {
	iri := s.declare(spec, vocab.QBMeasureProperty)
	return Measure{Name: spec.Name, IRI: iri}
}

func (s *Schema) declare(spec ComponentSpec, class rdf.IRI) rdf.IRI {
	iri := s.ns.Ontology.Term(spec.Name)
	s.g.Remove(iri, "", nil)

	s.g.Add(iri, vocab.RDFType, vocab.RDFProperty)
	s.g.Add(iri, vocab.RDFType, class)
	for _, l := range spec.Labels {
		s.g.Add(iri, vocab.RDFSLabel, rdf.NewLangString(l.Text, l.Lang))
	}
	if spec.Range != "" {
		s.g.Add(iri, vocab.RDFSRange, spec.Range)
	}
	if spec.SubPropertyOf != "" {
		s.g.Add(iri, vocab.RDFSSubPropOf, spec.SubPropertyOf)
	}
	if spec.Concept != "" {
		s.g.Add(iri, vocab.QBConcept, spec.Concept)
	}
	return iri
}

// BuildStructure writes the structure definition with one anonymous
// component per dimension and measure. Components from an earlier call are
// removed first.
func (s *Schema) BuildStructure(dims []Dimension, measures []Measure) rdf.IRI {
	structure := s.ns.Ontology.Term(StructureName)
	for _, c := range s.g.Objects(structure, vocab.QBComponent) {
		s.g.Remove(c, "", nil)
	}
	s.g.Remove(structure, "", nil)

	s.g.Add(structure, vocab.RDFType, vocab.QBDataStructureDefinition)
	for _, d := range dims {
		s.component(structure, vocab.QBDimension, d.IRI)
	}
	for _, m := range measures {
		s.component(structure, vocab.QBMeasure, m.IRI)
	}
	return structure
}

func (s *Schema) component(structure rdf.IRI, link, property rdf.IRI) {
	c := s.g.NewBlank()
	s.g.Add(structure, vocab.QBComponent, c)
	s.g.Add(c, vocab.RDFType, vocab.QBComponentSpecification)
	s.g.Add(c, link, property)
}

// BuildDataset writes the dataset resource linked to structure.
func (s *Schema) BuildDataset(structure rdf.IRI, spec DatasetSpec) rdf.IRI {
	ds := s.ns.Resource.Term(DatasetName)
	s.g.Remove(ds, "", nil)

	s.g.Add(ds, vocab.RDFType, vocab.QBDataSet)
	for _, l := range spec.Titles {
		s.g.Add(ds, vocab.RDFSLabel, rdf.NewLangString(l.Text, l.Lang))
	}
	s.g.Add(ds, vocab.QBStructure, structure)
	s.g.Add(ds, vocab.DCTermsIssued, rdf.NewDate(spec.Issued))
	s.g.Add(ds, vocab.DCTermsModified, rdf.NewDate(spec.Derived))
	if spec.Publisher != "" {
		s.g.Add(ds, vocab.DCTermsPublisher, rdf.NewString(spec.Publisher))
	}
	if spec.License != "" {
		s.g.Add(ds, vocab.DCTermsLicense, rdf.NewString(spec.License))
	}
	return ds
}
