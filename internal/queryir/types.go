package queryir

import (
	"fmt"

	"github.com/roach88/qbcube/internal/rdf"
)

// Query is a lookup. Select is the only implementation.
type Query interface {
	queryNode()
}

// Predicate filters the statements of a Select: Equals or And.
type Predicate interface {
	predicateNode()
}

// Position names a slot of a statement.
type Position int

const (
	PositionSubject Position = iota + 1
	PositionPredicate
	PositionObject
)

// String returns the lowercase position name.
func (p Position) String() string {
	switch p {
	case PositionSubject:
		return "subject"
	case PositionPredicate:
		return "predicate"
	case PositionObject:
		return "object"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// Select returns the statements of one named graph that satisfy Filter, in
// the order they were saved. A nil Filter matches every statement.
type Select struct {
	Graph  string
	Filter Predicate
}

func (Select) queryNode() {}

// Equals fixes one statement position to a term.
//
// Literal terms match on lexical form, datatype and language tag together,
// so "5"^^xsd:integer never matches "5".
type Equals struct {
	Position Position
	Term     rdf.Term
}

func (Equals) predicateNode() {}

// And holds when all of Predicates hold; an empty And always holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Pattern builds the Select for a triple pattern. Nil terms are left open.
func Pattern(graph string, s, p, o rdf.Term) Select {
	var preds []Predicate
	if s != nil {
		preds = append(preds, Equals{Position: PositionSubject, Term: s})
	}
	if p != nil {
		preds = append(preds, Equals{Position: PositionPredicate, Term: p})
	}
	if o != nil {
		preds = append(preds, Equals{Position: PositionObject, Term: o})
	}

	sel := Select{Graph: graph}
	switch len(preds) {
	case 0:
	case 1:
		sel.Filter = preds[0]
	default:
		sel.Filter = And{Predicates: preds}
	}
	return sel
}
