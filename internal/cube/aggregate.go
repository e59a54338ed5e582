package cube

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// Policy selects how rows sharing a key become one measure value.
type Policy int

const (
	// Count sets the measure to the number of rows in the group.
	Count Policy = iota + 1
	// Sum adds the row values of the group.
	Sum
	// PassThrough keeps every row as its own fact, in input order, with the
	// row value as the measure.
	PassThrough
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case PassThrough:
		return "pass-through"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Keyed is an input row reduced to its resolved dimension codes and its
// measure input. Value is ignored under Count.
//
// Order, when set, is the sort key of the row in place of Codes. Builders
// that derive codes from labels set it to the source labels so groups are
// numbered in label order.
type Keyed struct {
	Codes []string
	Order []string
	Value int64
}

// Fact is one observation to emit: a code per dimension and the measure.
type Fact struct {
	Codes []string
	Value int64
}

// Aggregate turns keyed rows into facts.
//
// Count and Sum group rows whose code tuples are equal. Groups are
// enumerated by the smallest Order key among their rows, falling back to
// the code tuple, in ascending lexicographic order, so the same input
// always yields the same facts in the same order. PassThrough does not
// group.
func Aggregate(rows []Keyed, policy Policy) ([]Fact, error) {
	switch policy {
	case PassThrough:
		out := make([]Fact, len(rows))
		for i, r := range rows {
			out[i] = Fact{Codes: slices.Clone(r.Codes), Value: r.Value}
		}
		return out, nil
	case Count, Sum:
	default:
		return nil, fmt.Errorf("unknown aggregation policy %s", policy)
	}

	type group struct {
		fact  Fact
		order []string
	}
	groups := make(map[string]*group)
	for _, r := range rows {
		order := r.Order
		if order == nil {
			order = r.Codes
		}
		k := strings.Join(r.Codes, "\x1f")
		g, ok := groups[k]
		if !ok {
			g = &group{fact: Fact{Codes: slices.Clone(r.Codes)}, order: order}
			groups[k] = g
		} else if slices.Compare(order, g.order) < 0 {
			g.order = order
		}
		if policy == Count {
			g.fact.Value++
		} else {
			g.fact.Value += r.Value
		}
	}

	sorted := make([]*group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	slices.SortFunc(sorted, func(a, b *group) int {
		if c := slices.Compare(a.order, b.order); c != 0 {
			return c
		}
		return slices.Compare(a.fact.Codes, b.fact.Codes)
	})
	out := make([]Fact, len(sorted))
	for i, g := range sorted {
		out[i] = g.fact
	}
	return out, nil
}

// ObservationID returns the local name of the observation at index.
func ObservationID(index int) string {
	return fmt.Sprintf("observation-%04d", index)
}

// EmitObservations writes one observation per fact, numbered from zero in
// fact order. Each fact must carry one code per dimension.
func EmitObservations(g *graph.Graph, coder *Coder, dataset rdf.IRI, dims []Dimension, measure Measure, facts []Fact) (int, error) {
	for i, f := range facts {
		if len(f.Codes) != len(dims) {
			return i, fmt.Errorf("fact %d has %d codes for %d dimensions", i, len(f.Codes), len(dims))
		}
		obs := coder.ns.Resource.Term(ObservationID(i))
		g.Add(obs, vocab.RDFType, vocab.QBObservation)
		g.Add(obs, vocab.QBDataSetProp, dataset)
		for j, d := range dims {
			g.Add(obs, d.IRI, coder.Resource(f.Codes[j]))
		}
		g.Add(obs, measure.IRI, rdf.NewInteger(f.Value))
	}
	return len(facts), nil
}
