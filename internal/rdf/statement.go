package rdf

import "strings"

// Statement is a single (subject, predicate, object) triple.
//
// All three fields hold comparable dynamic types, so Statement values can be
// compared with == and used as map keys.
type Statement struct {
	Subject   Resource
	Predicate IRI
	Object    Term
}

// NewStatement creates a Statement.
func NewStatement(s Resource, p IRI, o Term) Statement {
	return Statement{Subject: s, Predicate: p, Object: o}
}

// String renders the statement as one N-Triples line without the trailing
// newline.
func (st Statement) String() string {
	var b strings.Builder
	b.WriteString(st.Subject.String())
	b.WriteByte(' ')
	b.WriteString(st.Predicate.String())
	b.WriteByte(' ')
	b.WriteString(st.Object.String())
	b.WriteString(" .")
	return b.String()
}

// Valid reports whether every position is populated.
func (st Statement) Valid() bool {
	return st.Subject != nil && st.Predicate != "" && st.Object != nil
}
