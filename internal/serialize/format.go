// Package serialize writes graphs as Turtle, N-Triples, TriG or JSON-LD and
// reads Turtle-family documents back into graphs.
//
// Output is deterministic: subjects, predicates and objects are sorted, so
// the same statement set always produces the same bytes regardless of
// insertion order.
package serialize

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// ErrUnknownFormat is returned for a format name or extension that is not
// registered.
var ErrUnknownFormat = errors.New("unknown serialization format")

// Format identifies a serialization.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatTriG     Format = "trig"
	FormatJSONLD   Format = "jsonld"
)

// FormatInfo provides metadata about a format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string

	// Readable formats can be parsed back with Read.
	Readable bool
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
		Readable:    true,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
		Readable:    true,
	},
	FormatTriG: {
		Name:        FormatTriG,
		MIMEType:    "application/trig",
		Extension:   ".trig",
		Description: "TriG - Turtle with named graphs",
		Readable:    true,
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Formats returns the registered format names in sorted order.
func Formats() []Format {
	out := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFormat accepts a format name ("turtle", "ttl" style extensions with
// or without the dot are also accepted).
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := FormatRegistry[Format(s)]; ok {
		return Format(s), nil
	}
	ext := s
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for f, info := range FormatRegistry {
		if info.Extension == ext {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for f, info := range FormatRegistry {
		if info.Extension == ext {
			return f, true
		}
	}
	return "", false
}

// Options controls writing.
type Options struct {
	// Prefixes used to abbreviate IRIs. Only prefixes that occur in the
	// output are declared.
	Prefixes []vocab.Prefix

	// GraphName names the graph in TriG output. Empty writes the default
	// graph.
	GraphName rdf.IRI
}

// Write serializes g in the given format.
func Write(w io.Writer, g *graph.Graph, format Format, opts Options) error {
	switch format {
	case FormatTurtle:
		return WriteTurtle(w, g, opts.Prefixes)
	case FormatNTriples:
		return WriteNTriples(w, g)
	case FormatTriG:
		return WriteTriG(w, []NamedGraph{{Name: opts.GraphName, Graph: g}}, opts.Prefixes)
	case FormatJSONLD:
		return WriteJSONLD(w, g, opts.Prefixes)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Read parses a document in the given format.
func Read(r io.Reader, format Format) (*graph.Graph, error) {
	switch format {
	case FormatTurtle, FormatTriG:
		g, _, err := ReadTurtle(r)
		return g, err
	case FormatNTriples:
		return ReadNTriples(r)
	default:
		return nil, fmt.Errorf("%w: %q is not readable", ErrUnknownFormat, format)
	}
}
