package queryir

import (
	"fmt"
	"slices"

	"github.com/roach88/qbcube/internal/rdf"
)

// Diagnostics describes how a query will behave against a store. A query
// with warnings still compiles: it either matches nothing or scans a whole
// graph.
type Diagnostics struct {
	Fixed    []Position // positions fixed by the filter, in filter order
	Warnings []string
}

// Selective reports whether the query is well formed and fixes at least
// one position.
func (d Diagnostics) Selective() bool {
	return len(d.Warnings) == 0
}

// Validate inspects q for patterns that cannot match and for full scans.
func Validate(q Query) Diagnostics {
	var d Diagnostics
	warn := func(format string, args ...any) {
		d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
	}

	var sel Select
	switch q := q.(type) {
	case Select:
		sel = q
	case *Select:
		sel = *q
	case nil:
		warn("nil query")
		return d
	default:
		warn("unknown query type: %T", q)
		return d
	}

	if sel.Graph == "" {
		warn("empty graph name")
	}
	for eq := range equalities(sel.Filter, warn) {
		switch {
		case eq.Term == nil:
			warn("%s compared to nil term", eq.Position)
			continue
		case eq.Position == PositionSubject && eq.Term.Kind() == rdf.KindLiteral:
			warn("literal %s in subject position never matches", eq.Term)
		case eq.Position == PositionPredicate && eq.Term.Kind() != rdf.KindIRI:
			warn("%s %s in predicate position never matches", eq.Term.Kind(), eq.Term)
		case eq.Position < PositionSubject || eq.Position > PositionObject:
			warn("unknown position %s", eq.Position)
			continue
		}
		if slices.Contains(d.Fixed, eq.Position) {
			warn("%s fixed twice", eq.Position)
		}
		d.Fixed = append(d.Fixed, eq.Position)
	}
	if len(d.Fixed) == 0 {
		warn("no position fixed: query scans the whole graph")
	}
	return d
}

// equalities yields the Equals leaves of p, flattening nested And.
func equalities(p Predicate, warn func(string, ...any)) func(yield func(Equals) bool) {
	return func(yield func(Equals) bool) {
		var walk func(Predicate) bool
		walk = func(p Predicate) bool {
			switch p := p.(type) {
			case nil:
				return true
			case Equals:
				return yield(p)
			case *Equals:
				return yield(*p)
			case And:
				for _, sub := range p.Predicates {
					if !walk(sub) {
						return false
					}
				}
				return true
			case *And:
				return walk(*p)
			default:
				warn("unknown predicate type: %T", p)
				return true
			}
		}
		walk(p)
	}
}
