// Package cube builds statistical data cubes from tabular extracts.
//
// A build declares the dimension and measure vocabulary, the structure
// definition and the dataset, writes one coded resource per distinct
// dimension value and finally one observation per aggregated fact. Rows that
// are incomplete or fail a join are dropped and counted; they never abort a
// build.
package cube

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/qbcube/internal/graph"
)

// Kind names a cube type.
type Kind string

const (
	Population    Kind = "population"
	CareProviders Kind = "care-providers"
)

// Kinds lists the buildable cube types in build order.
func Kinds() []Kind {
	return []Kind{Population, CareProviders}
}

// ParseKind accepts a cube type name.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// GraphName is the name the cube is saved under in a store.
func (k Kind) GraphName() string {
	switch k {
	case CareProviders:
		return "health_care"
	default:
		return string(k)
	}
}

// FileName is the output file of the cube.
func (k Kind) FileName() string {
	return k.GraphName() + ".ttl"
}

// Title is the human name of the cube.
func (k Kind) Title() string {
	switch k {
	case Population:
		return "Population 2021"
	case CareProviders:
		return "Care providers"
	default:
		return string(k)
	}
}

// Stats summarizes one build.
type Stats struct {
	RowsRead       int
	Dropped        map[string]int
	CodedResources int
	Observations   int
}

func (s *Stats) drop(log *slog.Logger, kind Kind, row int, reason string) {
	if s.Dropped == nil {
		s.Dropped = make(map[string]int)
	}
	s.Dropped[reason]++
	log.Debug("row dropped", "cube", string(kind), "row", row, "reason", reason)
}

// DroppedTotal returns the number of dropped rows over all reasons.
func (s Stats) DroppedTotal() int {
	n := 0
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// DropReasons returns the reasons with a non-zero count, sorted.
func (s Stats) DropReasons() []string {
	return slices.Sorted(maps.Keys(s.Dropped))
}

// Result is a finished cube.
type Result struct {
	Kind  Kind
	Graph *graph.Graph
	Stats Stats
}
