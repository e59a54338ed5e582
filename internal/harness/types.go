package harness

import (
	"fmt"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/graph"
)

// Result is the outcome of one scenario run.
type Result struct {
	Errors     []string     `json:"errors,omitempty"` // failed expectations, in check order
	BuildError string       `json:"build_error,omitempty"`
	Cube       *cube.Result `json:"-"` // nil when the build failed
}

// Passed reports whether the build outcome and every assertion matched.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

func (r *Result) failf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Graph returns the built graph, or nil when the build failed.
func (r *Result) Graph() *graph.Graph {
	if r.Cube == nil {
		return nil
	}
	return r.Cube.Graph
}
