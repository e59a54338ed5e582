package integrity

import (
	"context"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/qbcube/internal/graph"
)

var tracer = otel.Tracer("qbcube.integrity")

// Run evaluates rules against g concurrently and returns the results in
// rule order. Rules only read the graph. A rule that panics is reported with
// an error instead of a verdict and does not stop the others.
//
// The returned error is non-nil only when ctx is cancelled.
func Run(ctx context.Context, cube string, g *graph.Graph, rules []Rule) (*Report, error) {
	ctx, span := tracer.Start(ctx, "integrity.Run",
		trace.WithAttributes(
			attribute.String("cube", cube),
			attribute.Int("rules", len(rules)),
			attribute.Int("statements", g.Len()),
		),
	)
	defer span.End()

	results := make([]Result, len(rules))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range rules {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(r, g)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("run integrity rules: %w", err)
	}

	report := &Report{Cube: cube, Results: results}
	span.SetAttributes(
		attribute.Int("violated", len(report.Violated())),
		attribute.Int("failed", len(report.Failed())),
	)
	span.SetStatus(codes.Ok, "")
	return report, nil
}

// evaluate runs one rule, turning a panic into an error result.
func evaluate(r Rule, g *graph.Graph) (res Result) {
	res = Result{ID: r.ID, Name: r.Name}
	defer func() {
		if p := recover(); p != nil {
			res.Violated = false
			res.Error = fmt.Sprintf("rule panicked: %v", p)
		}
	}()
	if r.Check == nil {
		res.Error = "rule has no check"
		return res
	}
	res.Violated = r.Check(g)
	return res
}
