// Package graph provides the in-memory statement store that cube builders
// write into and integrity rules read from.
//
// A Graph has set semantics: adding a statement that is already present is
// a no-op. Iteration follows first-insertion order, so a graph built from
// the same inputs always serializes identically.
//
// A Graph is not safe for concurrent mutation. Concurrent reads of a graph
// that is no longer being written are safe; the integrity runner relies on
// this to evaluate rules in parallel.
package graph

import (
	"fmt"

	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// Graph is an indexed, insertion-ordered set of statements.
type Graph struct {
	stmts       []rdf.Statement
	present     map[rdf.Statement]struct{}
	bySubject   map[rdf.Term][]int
	byPredicate map[rdf.IRI][]int
	byObject    map[rdf.Term][]int
	blanks      map[rdf.Blank]struct{}
	nextBlank   int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		present:     make(map[rdf.Statement]struct{}),
		bySubject:   make(map[rdf.Term][]int),
		byPredicate: make(map[rdf.IRI][]int),
		byObject:    make(map[rdf.Term][]int),
		blanks:      make(map[rdf.Blank]struct{}),
	}
}

// FromStatements creates a graph holding stmts in order. Invalid and
// duplicate statements are skipped.
func FromStatements(stmts []rdf.Statement) *Graph {
	g := New()
	g.AddAll(stmts)
	return g
}

// Add inserts (s, p, o). Returns false if the statement was already present
// or is incomplete.
func (g *Graph) Add(s rdf.Resource, p rdf.IRI, o rdf.Term) bool {
	return g.AddStatement(rdf.NewStatement(s, p, o))
}

// AddStatement inserts st. Returns false if st was already present or is
// incomplete.
func (g *Graph) AddStatement(st rdf.Statement) bool {
	if !st.Valid() {
		return false
	}
	if _, ok := g.present[st]; ok {
		return false
	}
	g.present[st] = struct{}{}
	g.index(len(g.stmts), st)
	g.stmts = append(g.stmts, st)
	return true
}

// AddAll inserts every statement and returns how many were new.
func (g *Graph) AddAll(stmts []rdf.Statement) int {
	added := 0
	for _, st := range stmts {
		if g.AddStatement(st) {
			added++
		}
	}
	return added
}

// Merge copies every statement of other into g. Blank node labels are kept
// as-is, so callers merging independently built graphs must make sure the
// labels do not clash.
func (g *Graph) Merge(other *Graph) int {
	return g.AddAll(other.stmts)
}

func (g *Graph) index(pos int, st rdf.Statement) {
	g.bySubject[st.Subject] = append(g.bySubject[st.Subject], pos)
	g.byPredicate[st.Predicate] = append(g.byPredicate[st.Predicate], pos)
	g.byObject[st.Object] = append(g.byObject[st.Object], pos)
	if b, ok := st.Subject.(rdf.Blank); ok {
		g.blanks[b] = struct{}{}
	}
	if b, ok := st.Object.(rdf.Blank); ok {
		g.blanks[b] = struct{}{}
	}
}

// Remove deletes every statement matching the pattern (nil or empty
// positions are wildcards) and returns how many were removed.
func (g *Graph) Remove(s rdf.Term, p rdf.IRI, o rdf.Term) int {
	doomed := g.Match(s, p, o)
	if len(doomed) == 0 {
		return 0
	}
	for _, st := range doomed {
		delete(g.present, st)
	}

	kept := make([]rdf.Statement, 0, len(g.stmts)-len(doomed))
	for _, st := range g.stmts {
		if _, ok := g.present[st]; ok {
			kept = append(kept, st)
		}
	}

	// Rebuild indexes from scratch; removal is rare.
	g.stmts = kept
	g.bySubject = make(map[rdf.Term][]int)
	g.byPredicate = make(map[rdf.IRI][]int)
	g.byObject = make(map[rdf.Term][]int)
	for pos, st := range g.stmts {
		g.index(pos, st)
	}
	return len(doomed)
}

// Set replaces every (s, p, *) statement with the single statement (s, p, o).
func (g *Graph) Set(s rdf.Resource, p rdf.IRI, o rdf.Term) {
	g.Remove(s, p, nil)
	g.Add(s, p, o)
}

// NewBlank allocates a blank node label not yet used in the graph.
// Labels are b1, b2, ... in allocation order.
func (g *Graph) NewBlank() rdf.Blank {
	for {
		g.nextBlank++
		b := rdf.Blank(fmt.Sprintf("b%d", g.nextBlank))
		if _, used := g.blanks[b]; !used {
			g.blanks[b] = struct{}{}
			return b
		}
	}
}

// Len returns the number of statements.
func (g *Graph) Len() int {
	return len(g.stmts)
}

// Statements returns a copy of all statements in insertion order.
func (g *Graph) Statements() []rdf.Statement {
	out := make([]rdf.Statement, len(g.stmts))
	copy(out, g.stmts)
	return out
}

// Fingerprint returns the order-independent digest of the statement set.
func (g *Graph) Fingerprint() string {
	return rdf.Fingerprint(g.stmts)
}

// Match returns the statements matching the pattern in insertion order.
// A nil subject or object, or an empty predicate, matches anything.
func (g *Graph) Match(s rdf.Term, p rdf.IRI, o rdf.Term) []rdf.Statement {
	if s != nil && o != nil && p != "" {
		sub, ok := s.(rdf.Resource)
		if !ok {
			return nil
		}
		st := rdf.NewStatement(sub, p, o)
		if _, ok := g.present[st]; ok {
			return []rdf.Statement{st}
		}
		return nil
	}

	candidates, all := g.candidates(s, p, o)
	var out []rdf.Statement
	if all {
		return append(out, g.stmts...)
	}
	for _, pos := range candidates {
		st := g.stmts[pos]
		if s != nil && st.Subject != s {
			continue
		}
		if p != "" && st.Predicate != p {
			continue
		}
		if o != nil && st.Object != o {
			continue
		}
		out = append(out, st)
	}
	return out
}

// candidates picks the smallest index among the bound positions. all is
// true when nothing is bound.
func (g *Graph) candidates(s rdf.Term, p rdf.IRI, o rdf.Term) (positions []int, all bool) {
	var best []int
	found := false
	consider := func(list []int) {
		if !found || len(list) < len(best) {
			best = list
			found = true
		}
	}
	if s != nil {
		consider(g.bySubject[s])
	}
	if p != "" {
		consider(g.byPredicate[p])
	}
	if o != nil {
		consider(g.byObject[o])
	}
	return best, !found
}

// Has reports whether any statement matches the pattern.
func (g *Graph) Has(s rdf.Term, p rdf.IRI, o rdf.Term) bool {
	if s != nil && o != nil && p != "" {
		sub, ok := s.(rdf.Resource)
		if !ok {
			return false
		}
		_, ok = g.present[rdf.NewStatement(sub, p, o)]
		return ok
	}
	candidates, all := g.candidates(s, p, o)
	if all {
		return len(g.stmts) > 0
	}
	for _, pos := range candidates {
		st := g.stmts[pos]
		if (s == nil || st.Subject == s) && (p == "" || st.Predicate == p) && (o == nil || st.Object == o) {
			return true
		}
	}
	return false
}

// Objects returns the distinct objects of (s, p, *) in insertion order.
func (g *Graph) Objects(s rdf.Term, p rdf.IRI) []rdf.Term {
	var out []rdf.Term
	seen := make(map[rdf.Term]struct{})
	for _, st := range g.Match(s, p, nil) {
		if _, ok := seen[st.Object]; ok {
			continue
		}
		seen[st.Object] = struct{}{}
		out = append(out, st.Object)
	}
	return out
}

// Object returns the first object of (s, p, *).
func (g *Graph) Object(s rdf.Term, p rdf.IRI) (rdf.Term, bool) {
	objs := g.Match(s, p, nil)
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0].Object, true
}

// Subjects returns the distinct subjects of (*, p, o) in insertion order.
func (g *Graph) Subjects(p rdf.IRI, o rdf.Term) []rdf.Resource {
	var out []rdf.Resource
	seen := make(map[rdf.Resource]struct{})
	for _, st := range g.Match(nil, p, o) {
		if _, ok := seen[st.Subject]; ok {
			continue
		}
		seen[st.Subject] = struct{}{}
		out = append(out, st.Subject)
	}
	return out
}

// InstancesOf returns every subject typed with class via rdf:type.
func (g *Graph) InstancesOf(class rdf.IRI) []rdf.Resource {
	return g.Subjects(vocab.RDFType, class)
}

// IsA reports whether (r, rdf:type, class) is present.
func (g *Graph) IsA(r rdf.Term, class rdf.IRI) bool {
	return g.Has(r, vocab.RDFType, class)
}
