// Package pipeline runs cube builds end to end: read the CSV inputs, build
// the requested cubes concurrently, write each one atomically to the output
// directory and optionally save it to a store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/qbcube/internal/config"
	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/metrics"
	"github.com/roach88/qbcube/internal/serialize"
	"github.com/roach88/qbcube/internal/store"
	"github.com/roach88/qbcube/internal/table"
)

var tracer = otel.Tracer("qbcube.pipeline")

// RunIDGenerator produces run identifiers.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Options are the collaborators of a Pipeline. Zero fields get defaults:
// the wall clock, UUIDv7 run ids, slog.Default and a fresh metrics
// registry. A nil Store disables saving.
type Options struct {
	Now     func() time.Time
	RunIDs  RunIDGenerator
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Store   *store.Store
}

// Pipeline builds cubes and metadata for one configuration.
type Pipeline struct {
	cfg     *config.Config
	now     func() time.Time
	runIDs  RunIDGenerator
	log     *slog.Logger
	metrics *metrics.Metrics
	store   *store.Store
}

// New creates a Pipeline. cfg must already be validated.
func New(cfg *config.Config, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	return &Pipeline{
		cfg:     cfg,
		now:     opts.Now,
		runIDs:  opts.RunIDs,
		log:     opts.Logger,
		metrics: opts.Metrics,
		store:   opts.Store,
	}
}

// Metrics returns the registry wrapper the pipeline records into.
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// Output is one written cube.
type Output struct {
	Kind    cube.Kind
	Path    string
	Result  *cube.Result
	Elapsed time.Duration
}

// Run is the record of one Build call.
type Run struct {
	ID      string
	Started time.Time
	Ended   time.Time
	Outputs []Output
}

// inputs holds the parsed CSV tables. Population and CountyEnum are nil
// when no population cube was requested.
type inputs struct {
	providers  *table.Table
	population *table.Table
	countyEnum *table.Table
}

// Build builds kinds concurrently and writes them to the output directory.
// Outputs follow the order of kinds. Any failure cancels the remaining
// builds; files already renamed into place are kept, but no build leaves a
// partial file.
func (p *Pipeline) Build(ctx context.Context, kinds []cube.Kind) (*Run, error) {
	run := &Run{ID: p.runIDs.Generate(), Started: p.now()}
	log := p.log.With("run", run.ID)

	in, err := p.readInputs(ctx, slices.Contains(kinds, cube.Population))
	if err != nil {
		return nil, err
	}

	outputs := make([]Output, len(kinds))
	// gctx is cancelled once Wait returns; saving uses ctx.
	eg, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		eg.Go(func() error {
			out, err := p.buildOne(gctx, kind, in, log)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if p.store != nil {
		for _, out := range outputs {
			if err := p.store.SaveGraph(ctx, out.Kind.GraphName(), run.ID, out.Result.Graph); err != nil {
				return nil, err
			}
			log.Info("cube saved", "cube", string(out.Kind), "graph", out.Kind.GraphName())
		}
	}

	run.Outputs = outputs
	run.Ended = p.now()
	return run, nil
}

func (p *Pipeline) buildOne(ctx context.Context, kind cube.Kind, in *inputs, log *slog.Logger) (Output, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Build/"+string(kind),
		trace.WithAttributes(attribute.String("cube", string(kind))),
	)
	defer span.End()

	start := time.Now()
	opts := p.cfg.CubeOptions(p.now, log)
	var (
		res *cube.Result
		err error
	)
	switch kind {
	case cube.Population:
		res, err = cube.BuildPopulation(ctx, cube.PopulationInput{
			Population:    in.population,
			CountyEnum:    in.countyEnum,
			CareProviders: in.providers,
		}, opts)
	case cube.CareProviders:
		res, err = cube.BuildCareProviders(ctx, in.providers, opts)
	default:
		err = fmt.Errorf("unknown cube %q", kind)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Output{}, err
	}

	path := filepath.Join(p.cfg.OutputDir, kind.FileName())
	prefixes := serialize.Options{Prefixes: p.cfg.VocabNamespaces().Prefixes()}
	if err := serialize.WriteGraphFile(path, res.Graph, prefixes); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Output{}, err
	}
	elapsed := time.Since(start)

	p.metrics.RecordBuild(res, elapsed)
	span.SetAttributes(
		attribute.Int("rows", res.Stats.RowsRead),
		attribute.Int("dropped", res.Stats.DroppedTotal()),
		attribute.Int("observations", res.Stats.Observations),
		attribute.Int("statements", res.Graph.Len()),
	)
	span.SetStatus(codes.Ok, "")
	log.Info("cube written", "cube", string(kind), "path", path, "elapsed", elapsed)
	return Output{Kind: kind, Path: path, Result: res, Elapsed: elapsed}, nil
}

// readInputs parses the CSV files concurrently.
func (p *Pipeline) readInputs(ctx context.Context, population bool) (*inputs, error) {
	in := &inputs{}
	eg, _ := errgroup.WithContext(ctx)
	read := func(path string, dst **table.Table) {
		eg.Go(func() error {
			t, err := table.ReadFile(path, table.Options{})
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			*dst = t
			p.log.Debug("input read", "path", path, "rows", t.Len())
			return nil
		})
	}
	read(p.cfg.Inputs.CareProviders, &in.providers)
	if population {
		read(p.cfg.Inputs.Population, &in.population)
		read(p.cfg.Inputs.CountyEnum, &in.countyEnum)
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// FlushMetrics writes the metrics textfile when one is configured.
func (p *Pipeline) FlushMetrics() error {
	if p.cfg.MetricsFile == "" {
		return nil
	}
	return p.metrics.WriteTextfile(p.cfg.MetricsFile)
}
