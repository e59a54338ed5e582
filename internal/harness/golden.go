package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/integrity"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// Snapshot captures what a scenario built: the build summary, every
// observation as a flat record and the default rule verdicts.
type Snapshot struct {
	Scenario     string           `json:"scenario"`
	Cube         string           `json:"cube"`
	Stats        SnapshotStats    `json:"stats"`
	Observations []map[string]any `json:"observations"`
	Violated     []string         `json:"violated"`
}

// SnapshotStats mirrors cube.Stats.
type SnapshotStats struct {
	RowsRead       int            `json:"rows_read"`
	Dropped        map[string]int `json:"dropped,omitempty"`
	CodedResources int            `json:"coded_resources"`
	Observations   int            `json:"observations"`
}

// NewSnapshot builds the snapshot of a successful scenario result.
//
// Observation records are keyed by the local name of each component
// property; coded values are written as their local name and integer
// measures as numbers. Observations are ordered by id.
func NewSnapshot(ctx context.Context, name string, built *cube.Result) (*Snapshot, error) {
	report, err := integrity.Run(ctx, string(built.Kind), built.Graph, integrity.DefaultRules())
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Scenario: name,
		Cube:     string(built.Kind),
		Stats: SnapshotStats{
			RowsRead:       built.Stats.RowsRead,
			Dropped:        built.Stats.Dropped,
			CodedResources: built.Stats.CodedResources,
			Observations:   built.Stats.Observations,
		},
		Observations: observationRecords(built.Graph, vocab.DefaultNamespaces()),
		Violated:     violatedIDs(report),
	}, nil
}

func observationRecords(g *graph.Graph, ns vocab.Namespaces) []map[string]any {
	local := func(iri rdf.IRI) string {
		if l, ok := ns.Ontology.Local(iri); ok {
			return l
		}
		if l, ok := ns.Resource.Local(iri); ok {
			return l
		}
		return string(iri)
	}

	records := []map[string]any{}
	for _, obs := range g.InstancesOf(vocab.QBObservation) {
		id, ok := obs.(rdf.IRI)
		if !ok {
			continue
		}
		rec := map[string]any{"id": local(id)}
		for _, st := range g.Match(obs, "", nil) {
			if st.Predicate == vocab.RDFType || st.Predicate == vocab.QBDataSetProp {
				continue
			}
			key := local(st.Predicate)
			switch o := st.Object.(type) {
			case rdf.IRI:
				rec[key] = local(o)
			case rdf.Literal:
				if n, ok := o.Int64(); ok {
					rec[key] = n
				} else {
					rec[key] = o.Lexical
				}
			default:
				rec[key] = o.String()
			}
		}
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b map[string]any) int {
		return strings.Compare(a["id"].(string), b["id"].(string))
	})
	return records
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GoldenPath returns the golden file of a scenario file:
// <dir>/golden/<name>.golden next to the scenario.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// CompareGolden reports whether the snapshot of result matches the golden
// file at path.
func CompareGolden(ctx context.Context, scenario *Scenario, result *Result, path string) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := snapshotBytes(ctx, scenario, result)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// UpdateGolden writes the snapshot of result to path.
func UpdateGolden(ctx context.Context, scenario *Scenario, result *Result, path string) error {
	data, err := snapshotBytes(ctx, scenario, result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func snapshotBytes(ctx context.Context, scenario *Scenario, result *Result) ([]byte, error) {
	if result.Cube == nil {
		return nil, fmt.Errorf("scenario %s built no cube", scenario.Name)
	}
	snap, err := NewSnapshot(ctx, scenario.Name, result.Cube)
	if err != nil {
		return nil, err
	}
	return snap.Marshal()
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/scenarios/golden/{scenario.Name}.golden, the file GoldenPath
// gives for a scenario stored as testdata/scenarios/{scenario.Name}.yaml.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	data, err := snapshotBytes(t.Context(), scenario, result)
	if err != nil {
		return result, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/scenarios/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
