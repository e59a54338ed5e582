package serialize

import (
	"bufio"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

var integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)

// abbreviator renders terms in Turtle syntax and records which prefixes it
// used.
type abbreviator struct {
	prefixes []vocab.Prefix
	used     map[string]bool
}

func newAbbreviator(prefixes []vocab.Prefix) *abbreviator {
	// Longest namespace first so nested namespaces pick the closest prefix.
	sorted := slices.Clone(prefixes)
	slices.SortStableFunc(sorted, func(a, b vocab.Prefix) int {
		return len(b.Namespace) - len(a.Namespace)
	})
	return &abbreviator{prefixes: sorted, used: make(map[string]bool)}
}

// iri returns a prefixed name for iri when one applies.
func (a *abbreviator) iri(iri rdf.IRI) string {
	for _, p := range a.prefixes {
		local, ok := p.Namespace.Local(iri)
		if ok && validLocal(local) {
			a.used[p.Name] = true
			return p.Name + ":" + local
		}
	}
	return iri.String()
}

func (a *abbreviator) term(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return a.iri(v)
	case rdf.Blank:
		return v.String()
	case rdf.Literal:
		return a.literal(v)
	default:
		return ""
	}
}

func (a *abbreviator) literal(l rdf.Literal) string {
	switch {
	case l.Lang != "":
		return `"` + rdf.EscapeString(l.Lexical) + `"@` + l.Lang
	case l.Datatype == rdf.XSDString || l.Datatype == "":
		return `"` + rdf.EscapeString(l.Lexical) + `"`
	case l.Datatype == rdf.XSDInteger && integerLexical.MatchString(l.Lexical):
		return l.Lexical
	case l.Datatype == rdf.XSDBoolean && (l.Lexical == "true" || l.Lexical == "false"):
		return l.Lexical
	default:
		return `"` + rdf.EscapeString(l.Lexical) + `"^^` + a.iri(l.Datatype)
	}
}

// header returns the @prefix block for the prefixes that were used, in the
// order they were configured.
func (a *abbreviator) header(order []vocab.Prefix) string {
	var b strings.Builder
	for _, p := range order {
		if a.used[p.Name] {
			b.WriteString("@prefix " + p.Name + ": <" + string(p.Namespace) + "> .\n")
		}
	}
	return b.String()
}

// validLocal reports whether local can follow a prefix without escaping.
func validLocal(local string) bool {
	for i, r := range local {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}

// subjectBlocks groups statements by subject, sorting subjects, predicates
// (rdf:type first) and objects.
type subjectBlock struct {
	subject rdf.Resource
	preds   []predicateObjects
}

type predicateObjects struct {
	predicate rdf.IRI
	objects   []rdf.Term
}

func blocks(g *graph.Graph) []subjectBlock {
	stmts := g.Statements()
	slices.SortFunc(stmts, func(a, b rdf.Statement) int {
		if c := rdf.CompareTerms(a.Subject, b.Subject); c != 0 {
			return c
		}
		if a.Predicate != b.Predicate {
			switch {
			case a.Predicate == vocab.RDFType:
				return -1
			case b.Predicate == vocab.RDFType:
				return 1
			}
			return strings.Compare(string(a.Predicate), string(b.Predicate))
		}
		return rdf.CompareTerms(a.Object, b.Object)
	})

	var out []subjectBlock
	for _, st := range stmts {
		if len(out) == 0 || out[len(out)-1].subject != st.Subject {
			out = append(out, subjectBlock{subject: st.Subject})
		}
		blk := &out[len(out)-1]
		if len(blk.preds) == 0 || blk.preds[len(blk.preds)-1].predicate != st.Predicate {
			blk.preds = append(blk.preds, predicateObjects{predicate: st.Predicate})
		}
		po := &blk.preds[len(blk.preds)-1]
		po.objects = append(po.objects, st.Object)
	}
	return out
}

// writeBlocks renders subject blocks with the given indent.
func writeBlocks(b *strings.Builder, a *abbreviator, blks []subjectBlock, indent string) {
	for i, blk := range blks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString(a.term(blk.subject))
		for j, po := range blk.preds {
			if j == 0 {
				b.WriteString(" ")
			} else {
				b.WriteString(" ;\n" + indent + "    ")
			}
			if po.predicate == vocab.RDFType {
				b.WriteString("a")
			} else {
				b.WriteString(a.iri(po.predicate))
			}
			for k, o := range po.objects {
				if k == 0 {
					b.WriteString(" ")
				} else {
					b.WriteString(",\n" + indent + "        ")
				}
				b.WriteString(a.term(o))
			}
		}
		b.WriteString(" .\n")
	}
}

// WriteTurtle writes g as a Turtle document.
func WriteTurtle(w io.Writer, g *graph.Graph, prefixes []vocab.Prefix) error {
	a := newAbbreviator(prefixes)
	var body strings.Builder
	writeBlocks(&body, a, blocks(g), "")

	bw := bufio.NewWriter(w)
	if h := a.header(prefixes); h != "" {
		bw.WriteString(h)
		bw.WriteString("\n")
	}
	bw.WriteString(body.String())
	return bw.Flush()
}

// NamedGraph pairs a graph with its name in a dataset.
type NamedGraph struct {
	Name  rdf.IRI
	Graph *graph.Graph
}

// WriteTriG writes the graphs as one TriG document. A graph with an empty
// name is written as the default graph.
func WriteTriG(w io.Writer, graphs []NamedGraph, prefixes []vocab.Prefix) error {
	a := newAbbreviator(prefixes)
	var body strings.Builder
	for i, ng := range graphs {
		if i > 0 {
			body.WriteString("\n")
		}
		if ng.Name != "" {
			body.WriteString(a.iri(ng.Name))
			body.WriteString(" ")
		}
		body.WriteString("{\n")
		writeBlocks(&body, a, blocks(ng.Graph), "    ")
		body.WriteString("}\n")
	}

	bw := bufio.NewWriter(w)
	if h := a.header(prefixes); h != "" {
		bw.WriteString(h)
		bw.WriteString("\n")
	}
	bw.WriteString(body.String())
	return bw.Flush()
}

// WriteNTriples writes g one statement per line in sorted order.
func WriteNTriples(w io.Writer, g *graph.Graph) error {
	stmts := g.Statements()
	rdf.SortStatements(stmts)
	bw := bufio.NewWriter(w)
	for _, st := range stmts {
		bw.WriteString(st.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
