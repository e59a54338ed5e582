// Package metadata builds the graphs published next to the cubes: the SKOS
// area hierarchy, the DCAT catalog record and the PROV provenance of a run.
package metadata

import (
	"fmt"
	"io"
	"time"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/serialize"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

// Kind names a metadata document.
type Kind string

const (
	Hierarchy  Kind = "hierarchy"
	Catalog    Kind = "catalog"
	Provenance Kind = "provenance"
)

// Kinds lists the metadata documents in generation order.
func Kinds() []Kind {
	return []Kind{Hierarchy, Catalog, Provenance}
}

// ParseKind accepts a document name.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// FileName is the output file of the document.
func (k Kind) FileName() string {
	switch k {
	case Hierarchy:
		return "skos_hierarchy.ttl"
	case Catalog:
		return "dcat_dataset.ttl"
	case Provenance:
		return "provenance.trig"
	default:
		return string(k)
	}
}

// Person is a named individual.
type Person struct {
	FirstName string
	LastName  string
}

// Author is the default author of the published cubes.
var Author = Person{FirstName: "Milan", LastName: "Abrahám"}

// Input is everything the documents are built from.
type Input struct {
	Namespaces vocab.Namespaces

	// Providers is the care-provider registry; only Hierarchy reads it.
	Providers *table.Table

	// Run describes the pipeline run; only Provenance reads it.
	Run Run
}

// Document is a built metadata graph.
type Document struct {
	Kind  Kind
	Graph *graph.Graph
	// Name is the graph name used for TriG output.
	Name rdf.IRI
}

// Build creates the document of the given kind.
func Build(kind Kind, in Input) (*Document, error) {
	if in.Namespaces == (vocab.Namespaces{}) {
		in.Namespaces = vocab.DefaultNamespaces()
	}
	switch kind {
	case Hierarchy:
		if in.Providers == nil {
			return nil, fmt.Errorf("hierarchy: missing care-provider table")
		}
		return &Document{Kind: kind, Graph: BuildHierarchy(in.Providers, in.Namespaces)}, nil
	case Catalog:
		return &Document{Kind: kind, Graph: PopulationRecord().Graph(in.Namespaces)}, nil
	case Provenance:
		if in.Run.ID == "" {
			return nil, fmt.Errorf("provenance: missing run id")
		}
		return &Document{
			Kind:  kind,
			Graph: BuildProvenance(in.Namespaces, in.Run),
			Name:  in.Namespaces.Resource.Term("provenance"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown metadata document %q", kind)
	}
}

// Write serializes the document: Turtle, or TriG for provenance.
func (d *Document) Write(w io.Writer, prefixes []vocab.Prefix) error {
	if d.Kind == Provenance {
		return serialize.WriteTriG(w, []serialize.NamedGraph{{Name: d.Name, Graph: d.Graph}}, prefixes)
	}
	return serialize.WriteTurtle(w, d.Graph, prefixes)
}

// WriteFile writes the document atomically to path.
func (d *Document) WriteFile(path string, prefixes []vocab.Prefix) error {
	return serialize.WriteFile(path, func(w io.Writer) error {
		return d.Write(w, prefixes)
	})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
