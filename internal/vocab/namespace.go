// Package vocab holds the vocabulary namespaces used to build and check
// cubes, plus the well-known terms of the standard vocabularies.
package vocab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/qbcube/internal/rdf"
)

// Namespace is an IRI prefix ending in '#' or '/'.
type Namespace string

// Term returns the IRI for a local name inside the namespace. Characters
// that may not appear in an IRI are percent-encoded.
func (ns Namespace) Term(local string) rdf.IRI {
	return rdf.IRI(string(ns) + escapeLocal(local))
}

// IRI returns the namespace itself as an IRI.
func (ns Namespace) IRI() rdf.IRI {
	return rdf.IRI(ns)
}

// Contains reports whether iri starts with the namespace.
func (ns Namespace) Contains(iri rdf.IRI) bool {
	return ns != "" && strings.HasPrefix(string(iri), string(ns))
}

// Local strips the namespace from iri. ok is false when iri is outside it.
func (ns Namespace) Local(iri rdf.IRI) (local string, ok bool) {
	if !ns.Contains(iri) {
		return "", false
	}
	return string(iri)[len(ns):], true
}

func (ns Namespace) validate(field string) error {
	s := string(ns)
	if s == "" {
		return fmt.Errorf("%s namespace is empty", field)
	}
	if !strings.Contains(s, "://") {
		return fmt.Errorf("%s namespace %q is not an absolute IRI", field, s)
	}
	if !strings.HasSuffix(s, "#") && !strings.HasSuffix(s, "/") {
		return fmt.Errorf("%s namespace %q must end with '#' or '/'", field, s)
	}
	return nil
}

// escapeLocal percent-encodes bytes outside the IRI-safe set. Non-ASCII
// runes are kept as-is since IRIs allow them.
func escapeLocal(local string) string {
	const unsafe = " <>\"{}|^`\\"
	if !strings.ContainsAny(local, unsafe) && !hasControl(local) {
		return local
	}
	var b strings.Builder
	for i := 0; i < len(local); i++ {
		c := local[i]
		if c < 0x20 || c == 0x7f || strings.IndexByte(unsafe, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// Prefix binds a short name to a namespace for serialization.
type Prefix struct {
	Name      string
	Namespace Namespace
}

// Namespaces is the immutable namespace configuration threaded through the
// cube builders. Ontology holds the dimension, measure and structure
// declarations; Resource holds datasets, coded values and observations.
type Namespaces struct {
	Ontology Namespace
	Resource Namespace
}

// Default namespace IRIs.
const (
	DefaultOntology Namespace = "https://milan252525.github.io/ontology#"
	DefaultResource Namespace = "https://milan252525.github.io/resources/"
)

// DefaultNamespaces returns the namespaces used by the published cubes.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Ontology: DefaultOntology,
		Resource: DefaultResource,
	}
}

// ErrInvalidNamespace is returned by Validate.
var ErrInvalidNamespace = errors.New("invalid namespace")

// Validate checks that both namespaces are absolute and properly terminated.
func (n Namespaces) Validate() error {
	if err := n.Ontology.validate("ontology"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNamespace, err)
	}
	if err := n.Resource.validate("resource"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNamespace, err)
	}
	if n.Ontology == n.Resource {
		return fmt.Errorf("%w: ontology and resource namespaces must differ", ErrInvalidNamespace)
	}
	return nil
}

// Prefixes returns the prefix table for serializing graphs built with these
// namespaces: the two project namespaces first, then the standard ones.
func (n Namespaces) Prefixes() []Prefix {
	prefixes := []Prefix{
		{Name: "ont", Namespace: n.Ontology},
		{Name: "res", Namespace: n.Resource},
	}
	return append(prefixes, StandardPrefixes()...)
}
