package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/integrity"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/serialize"
	"github.com/roach88/qbcube/internal/vocab"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// evaluate dispatches one assertion.
func evaluate(ctx context.Context, kind cube.Kind, g *graph.Graph, a Assertion, prefixes []vocab.Prefix) error {
	switch a.Type {
	case AssertStatement, AssertNoStatement:
		return assertStatement(g, a, prefixes)
	case AssertCount:
		return assertCount(g, a, prefixes)
	case AssertRules:
		return assertRules(ctx, kind, g, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// pattern parses the assertion terms. Empty terms stay open.
func pattern(a Assertion, prefixes []vocab.Prefix) (s rdf.Term, p rdf.IRI, o rdf.Term, err error) {
	if a.Subject != "" {
		if s, err = serialize.ParseTerm(a.Subject, prefixes); err != nil {
			return nil, "", nil, fmt.Errorf("subject %q: %w", a.Subject, err)
		}
		if _, ok := s.(rdf.Resource); !ok {
			return nil, "", nil, fmt.Errorf("subject %q is not a resource", a.Subject)
		}
	}
	if a.Predicate != "" {
		t, err := serialize.ParseTerm(a.Predicate, prefixes)
		if err != nil {
			return nil, "", nil, fmt.Errorf("predicate %q: %w", a.Predicate, err)
		}
		iri, ok := t.(rdf.IRI)
		if !ok {
			return nil, "", nil, fmt.Errorf("predicate %q is not an IRI", a.Predicate)
		}
		p = iri
	}
	if a.Object != "" {
		if o, err = serialize.ParseTerm(a.Object, prefixes); err != nil {
			return nil, "", nil, fmt.Errorf("object %q: %w", a.Object, err)
		}
	}
	return s, p, o, nil
}

// assertStatement checks presence (statement) or absence (no_statement) of
// one fully bound statement.
func assertStatement(g *graph.Graph, a Assertion, prefixes []vocab.Prefix) error {
	s, p, o, err := pattern(a, prefixes)
	if err != nil {
		return err
	}
	want := a.Type == AssertStatement
	if g.Has(s, p, o) == want {
		return nil
	}

	stmt := fmt.Sprintf("%s %s %s", a.Subject, a.Predicate, a.Object)
	if want {
		return &AssertionError{Type: a.Type, Expected: stmt, Actual: "not in graph"}
	}
	return &AssertionError{Type: a.Type, Expected: "no " + stmt, Actual: "present in graph"}
}

// assertCount checks the number of statements matching a pattern.
func assertCount(g *graph.Graph, a Assertion, prefixes []vocab.Prefix) error {
	s, p, o, err := pattern(a, prefixes)
	if err != nil {
		return err
	}
	if got := len(g.Match(s, p, o)); got != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d matches of %s", a.Count, describePattern(a)),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

func describePattern(a Assertion) string {
	open := func(s, v string) string {
		if s == "" {
			return v
		}
		return s
	}
	return fmt.Sprintf("(%s %s %s)", open(a.Subject, "?s"), open(a.Predicate, "?p"), open(a.Object, "?o"))
}

// assertRules runs the selected integrity rules and compares the set of
// violated rule ids. Rules that fail to evaluate are reported as errors.
func assertRules(ctx context.Context, kind cube.Kind, g *graph.Graph, a Assertion) error {
	rules, err := integrity.Select(a.Rules, a.IncludeDisabled)
	if err != nil {
		return err
	}
	report, err := integrity.Run(ctx, string(kind), g, rules)
	if err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("rule %s could not be evaluated: %s", failed[0].ID, failed[0].Error)
	}

	got := violatedIDs(report)
	want := make([]string, 0, len(a.Violated))
	for _, id := range a.Violated {
		want = append(want, strings.ToUpper(strings.TrimSpace(id)))
	}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertRules,
			Expected: fmt.Sprintf("violated %v", want),
			Actual:   fmt.Sprintf("violated %v", got),
		}
	}
	return nil
}

// violatedIDs returns the sorted ids of the violated rules of report.
func violatedIDs(report *integrity.Report) []string {
	ids := []string{}
	for _, r := range report.Violated() {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return ids
}
