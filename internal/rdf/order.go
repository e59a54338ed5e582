package rdf

import (
	"cmp"
	"slices"
)

// CompareTerms orders terms by kind (IRI < Blank < Literal) and then by
// their components. Used wherever output must not depend on map iteration.
func CompareTerms(a, b Term) int {
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	switch x := a.(type) {
	case IRI:
		return cmp.Compare(x, b.(IRI))
	case Blank:
		return cmp.Compare(x, b.(Blank))
	case Literal:
		y := b.(Literal)
		if c := cmp.Compare(x.Lexical, y.Lexical); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Datatype, y.Datatype); c != 0 {
			return c
		}
		return cmp.Compare(x.Lang, y.Lang)
	default:
		return 0
	}
}

// CompareStatements orders statements by subject, predicate, then object.
func CompareStatements(a, b Statement) int {
	if c := CompareTerms(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	return CompareTerms(a.Object, b.Object)
}

// SortStatements sorts in place using CompareStatements.
func SortStatements(stmts []Statement) {
	slices.SortFunc(stmts, CompareStatements)
}

// SortTerms sorts in place using CompareTerms.
func SortTerms[T Term](terms []T) {
	slices.SortFunc(terms, func(a, b T) int { return CompareTerms(a, b) })
}
