package querysql

import (
	"fmt"

	"github.com/roach88/qbcube/internal/rdf"
)

// Column holds the storage encoding of one term.
// IRIs and blank nodes leave Datatype and Lang empty.
type Column struct {
	Kind     string
	Value    string
	Datatype string
	Lang     string
}

// Encode flattens a term into its storage columns.
func Encode(t rdf.Term) Column {
	switch v := t.(type) {
	case rdf.IRI:
		return Column{Kind: v.Kind().String(), Value: string(v)}
	case rdf.Blank:
		return Column{Kind: v.Kind().String(), Value: string(v)}
	case rdf.Literal:
		return Column{Kind: v.Kind().String(), Value: v.Lexical, Datatype: string(v.Datatype), Lang: v.Lang}
	default:
		return Column{}
	}
}

// Decode rebuilds a term from its storage columns.
func Decode(c Column) (rdf.Term, error) {
	kind, ok := rdf.ParseKind(c.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown term kind %q", c.Kind)
	}
	switch kind {
	case rdf.KindIRI:
		return rdf.IRI(c.Value), nil
	case rdf.KindBlank:
		return rdf.Blank(c.Value), nil
	default:
		if c.Lang != "" {
			return rdf.NewLangString(c.Value, c.Lang), nil
		}
		return rdf.NewTyped(c.Value, rdf.IRI(c.Datatype)), nil
	}
}

// DecodeResource is Decode restricted to subject-capable terms.
func DecodeResource(c Column) (rdf.Resource, error) {
	t, err := Decode(c)
	if err != nil {
		return nil, err
	}
	r, ok := t.(rdf.Resource)
	if !ok {
		return nil, fmt.Errorf("term %s cannot be a subject", t)
	}
	return r, nil
}
