// Package harness runs YAML conformance scenarios against the cube builders.
//
// A scenario names a cube type, the CSV inputs to build it from and the
// expected outcome:
//
//	name: care-providers-basic
//	description: "Rows are grouped by county, region and field of care"
//	cube: care-providers
//	inputs:
//	  care_providers: data/care-providers.csv
//	options:
//	  code_lists: true
//	expect:
//	  rows_read: 6
//	  observations: 3
//	  dropped: { incomplete: 1 }
//	assertions:
//	  - type: statement
//	    subject: res:observation-0000
//	    predicate: ont:number_of_care_providers
//	    object: 2
//	  - type: rules
//	    violated: []
//
// Builds run with a fixed clock, so the same scenario always produces the
// same graph. RunWithGolden additionally compares a JSON snapshot of the
// cube against a golden file.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/testutil"
	"github.com/roach88/qbcube/internal/vocab"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger *slog.Logger
}

// New creates a Harness that logs cube builds to logger. A nil logger
// discards build logs.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with build logging discarded.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New(nil).Run(ctx, scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Read the CSV inputs
// 2. Build the cube with a clock frozen at testutil.Epoch
// 3. Check the build outcome against expect
// 4. Evaluate the assertions against the built graph
//
// The returned error means the scenario could not be executed at all
// (unreadable input, cancelled context). Build failures and mismatches are
// reported through Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	kind, ok := cube.ParseKind(scenario.Cube)
	if !ok {
		return nil, fmt.Errorf("unknown cube %q", scenario.Cube)
	}

	built, buildErr := h.build(ctx, kind, scenario)
	if buildErr != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var inputErr *inputError
	if errors.As(buildErr, &inputErr) {
		return nil, inputErr.err
	}

	result := &Result{Cube: built}
	if buildErr != nil {
		result.BuildError = buildErr.Error()
	}

	if want := scenario.Expect.Error; want != "" {
		switch {
		case buildErr == nil:
			result.failf("build succeeded, expected error containing %q", want)
		case !strings.Contains(buildErr.Error(), want):
			result.failf("build failed with %q, expected error containing %q", buildErr, want)
		}
		return result, nil
	}
	if buildErr != nil {
		result.failf("build failed: %v", buildErr)
		return result, nil
	}

	checkStats(result, scenario.Expect, built.Stats)

	prefixes := vocab.DefaultNamespaces().Prefixes()
	for i, a := range scenario.Assertions {
		if err := evaluate(ctx, kind, built.Graph, a, prefixes); err != nil {
			result.failf("assertions[%d]: %v", i, err)
		}
	}
	return result, nil
}

// inputError marks a failure to read a scenario input.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }

func (h *Harness) build(ctx context.Context, kind cube.Kind, s *Scenario) (*cube.Result, error) {
	read := func(path string) (*table.Table, error) {
		t, err := table.ReadFile(path, table.Options{})
		if err != nil {
			return nil, &inputError{err: fmt.Errorf("read input: %w", err)}
		}
		return t, nil
	}

	opts := cube.Options{
		Now:             testutil.NewStepClock(testutil.Epoch, 0).Now,
		StrictCanonical: s.Options.StrictCanonical,
		CodeLists:       s.Options.CodeLists,
		Logger:          h.logger,
	}

	providers, err := read(s.Inputs.CareProviders)
	if err != nil {
		return nil, err
	}
	if kind == cube.CareProviders {
		return cube.BuildCareProviders(ctx, providers, opts)
	}

	population, err := read(s.Inputs.Population)
	if err != nil {
		return nil, err
	}
	enum, err := read(s.Inputs.CountyEnum)
	if err != nil {
		return nil, err
	}
	return cube.BuildPopulation(ctx, cube.PopulationInput{
		Population:    population,
		CountyEnum:    enum,
		CareProviders: providers,
	}, opts)
}

// checkStats compares the expected build summary fields that are set.
func checkStats(result *Result, want Expect, got cube.Stats) {
	check := func(name string, want *int, got int) {
		if want != nil && *want != got {
			result.failf("expect.%s: expected %d, got %d", name, *want, got)
		}
	}
	check("rows_read", want.RowsRead, got.RowsRead)
	check("observations", want.Observations, got.Observations)
	check("coded_resources", want.CodedResources, got.CodedResources)

	if want.Dropped != nil && !maps.Equal(want.Dropped, got.Dropped) {
		result.failf("expect.dropped: expected %v, got %v", want.Dropped, got.Dropped)
	}
}
