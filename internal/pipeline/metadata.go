package pipeline

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/roach88/qbcube/internal/metadata"
	"github.com/roach88/qbcube/internal/table"
)

// MetadataOutput is one written metadata document.
type MetadataOutput struct {
	Kind metadata.Kind
	Path string
	Doc  *metadata.Document
}

// Metadata writes the requested metadata documents. The provenance run id
// comes from run when set, otherwise from the run-id generator; missing
// times are taken from the clock.
func (p *Pipeline) Metadata(ctx context.Context, kinds []metadata.Kind, run metadata.Run) ([]MetadataOutput, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Metadata")
	defer span.End()

	if run.ID == "" {
		run.ID = p.runIDs.Generate()
	}
	if run.Started.IsZero() {
		run.Started = p.now()
	}

	in := metadata.Input{Namespaces: p.cfg.VocabNamespaces()}
	if slices.Contains(kinds, metadata.Hierarchy) {
		providers, err := table.ReadFile(p.cfg.Inputs.CareProviders, table.Options{})
		if err != nil {
			return nil, err
		}
		in.Providers = providers
	}

	prefixes := in.Namespaces.Prefixes()
	var outs []MetadataOutput
	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if kind == metadata.Provenance && run.Ended.IsZero() {
			run.Ended = p.now()
		}
		in.Run = run

		doc, err := metadata.Build(kind, in)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(p.cfg.OutputDir, kind.FileName())
		if err := doc.WriteFile(path, prefixes); err != nil {
			return nil, err
		}
		if p.store != nil {
			if err := p.store.SaveGraph(ctx, string(kind), run.ID, doc.Graph); err != nil {
				return nil, err
			}
		}
		p.log.Info("metadata written", "document", string(kind), "path", path, "statements", doc.Graph.Len())
		outs = append(outs, MetadataOutput{Kind: kind, Path: path, Doc: doc})
	}
	return outs, nil
}
