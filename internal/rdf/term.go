package rdf

import (
	"strconv"
	"strings"
	"time"
)

// Datatype IRIs the constructors need. The full vocabulary lives in
// internal/vocab; these are duplicated here so rdf stays import-free.
const (
	XSDString     IRI = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger    IRI = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDate       IRI = "http://www.w3.org/2001/XMLSchema#date"
	XSDDateTime   IRI = "http://www.w3.org/2001/XMLSchema#dateTime"
	XSDBoolean    IRI = "http://www.w3.org/2001/XMLSchema#boolean"
	RDFLangString IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Kind identifies which variant a Term holds.
type Kind uint8

const (
	KindIRI Kind = iota + 1
	KindBlank
	KindLiteral
)

// String returns the lowercase kind name used in storage and JSON output.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "iri":
		return KindIRI, true
	case "blank":
		return KindBlank, true
	case "literal":
		return KindLiteral, true
	default:
		return 0, false
	}
}

// Term is a sealed interface representing a statement position value.
// Only IRI, Blank, and Literal implement this.
type Term interface {
	term() // Sealed - only these types implement it

	// Kind reports the variant.
	Kind() Kind

	// String renders the term in N-Triples syntax.
	String() string
}

// Resource is a Term that may appear in subject position.
// Only IRI and Blank implement this.
type Resource interface {
	Term
	resource()
}

// IRI is an absolute resource identifier.
//
// The value is stored verbatim; callers that build IRIs from arbitrary text
// should go through vocab.Namespace.Term, which percent-encodes characters
// that are not allowed in IRIs.
type IRI string

func (IRI) term()     {}
func (IRI) resource() {}

// Kind implements Term.
func (IRI) Kind() Kind { return KindIRI }

// String renders the IRI as <...>.
func (i IRI) String() string {
	return "<" + string(i) + ">"
}

// Blank is an anonymous node. The value is the label without the "_:" prefix.
// Labels are only meaningful within a single graph.
type Blank string

func (Blank) term()     {}
func (Blank) resource() {}

// Kind implements Term.
func (Blank) Kind() Kind { return KindBlank }

// String renders the node as _:label.
func (b Blank) String() string {
	return "_:" + string(b)
}

// Literal is a lexical value with a datatype and an optional language tag.
//
// Use the New* constructors rather than composite literals: two literals are
// equal only if all three fields match, and the constructors guarantee a
// single representation per value.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

func (Literal) term() {}

// Kind implements Term.
func (Literal) Kind() Kind { return KindLiteral }

// String renders the literal in N-Triples syntax. xsd:string literals are
// written without a datatype suffix.
func (l Literal) String() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(EscapeString(l.Lexical))
	b.WriteByte('"')
	switch {
	case l.Lang != "":
		b.WriteByte('@')
		b.WriteString(l.Lang)
	case l.Datatype != "" && l.Datatype != XSDString:
		b.WriteString("^^")
		b.WriteString(l.Datatype.String())
	}
	return b.String()
}

// Int64 returns the integer value of an xsd:integer literal.
func (l Literal) Int64() (int64, bool) {
	if l.Datatype != XSDInteger {
		return 0, false
	}
	n, err := strconv.ParseInt(l.Lexical, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NewString creates a plain xsd:string literal.
func NewString(s string) Literal {
	return Literal{Lexical: s, Datatype: XSDString}
}

// NewLangString creates a language-tagged literal. Language tags are
// case-insensitive and stored lowercased.
func NewLangString(s, lang string) Literal {
	if lang == "" {
		return NewString(s)
	}
	return Literal{Lexical: s, Datatype: RDFLangString, Lang: strings.ToLower(lang)}
}

// NewTyped creates a literal with an explicit datatype.
// An empty datatype or xsd:string yields the same value as NewString.
func NewTyped(lexical string, datatype IRI) Literal {
	if datatype == "" {
		datatype = XSDString
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// NewInteger creates an xsd:integer literal.
func NewInteger(n int64) Literal {
	return Literal{Lexical: strconv.FormatInt(n, 10), Datatype: XSDInteger}
}

// NewBoolean creates an xsd:boolean literal.
func NewBoolean(v bool) Literal {
	return Literal{Lexical: strconv.FormatBool(v), Datatype: XSDBoolean}
}

// NewDate creates an xsd:date literal from the calendar date of t.
// The time zone of t decides which calendar day is used.
func NewDate(t time.Time) Literal {
	return Literal{Lexical: t.Format(time.DateOnly), Datatype: XSDDate}
}

// NewDateTime creates an xsd:dateTime literal in UTC with second precision.
func NewDateTime(t time.Time) Literal {
	return Literal{Lexical: t.UTC().Format("2006-01-02T15:04:05Z"), Datatype: XSDDateTime}
}

// EscapeString escapes a lexical form for use inside a double-quoted
// N-Triples or Turtle string.
func EscapeString(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
