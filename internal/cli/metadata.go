package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qbcube/internal/config"
	"github.com/roach88/qbcube/internal/metadata"
	"github.com/roach88/qbcube/internal/pipeline"
)

// MetadataOptions holds flags for the metadata command.
type MetadataOptions struct {
	*RootOptions
	RunID     string
	OutputDir string
	Store     string
}

// MetadataResult lists the written documents.
type MetadataResult struct {
	Documents []WrittenDocument `json:"documents"`
}

// WrittenDocument summarizes one metadata document.
type WrittenDocument struct {
	Document   string `json:"document"`
	Path       string `json:"path"`
	Statements int    `json:"statements"`
}

// NewMetadataCommand creates the metadata command.
func NewMetadataCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MetadataOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "metadata [hierarchy|catalog|provenance|all]",
		Short: "Write the metadata documents of the cubes",
		Long: `Write the metadata published alongside the cubes:

  hierarchy   SKOS region > county > municipality hierarchy (skos_hierarchy.ttl)
  catalog     DCAT dataset description of the population cube (dcat_dataset.ttl)
  provenance  PROV-O record of the pipeline run, as TriG (provenance.trig)

Examples:
  qbcube metadata
  qbcube metadata provenance --run-id 2024-05-01
  qbcube metadata hierarchy --out ./out --store cubes.db`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     []string{string(metadata.Hierarchy), string(metadata.Catalog), string(metadata.Provenance), "all"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}
			return runMetadata(opts, target, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "provenance run id (default: a new UUIDv7)")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite store to save the documents to (overrides config)")

	return cmd
}

func parseMetadataKinds(target string) ([]metadata.Kind, error) {
	if target == "all" {
		return metadata.Kinds(), nil
	}
	kind, ok := metadata.ParseKind(target)
	if !ok {
		names := []string{"all"}
		for _, k := range metadata.Kinds() {
			names = append(names, string(k))
		}
		return nil, fmt.Errorf("unknown document %q: must be one of %s", target, strings.Join(names, ", "))
	}
	return []metadata.Kind{kind}, nil
}

func runMetadata(opts *MetadataOptions, target string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kinds, err := parseMetadataKinds(target)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid metadata target", err)
	}

	cfg, err := opts.loadConfig(formatter, &config.Config{OutputDir: opts.OutputDir, Store: opts.Store})
	if err != nil {
		return err
	}

	st, err := openStore(formatter, cfg.Store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	p := pipeline.New(cfg, pipeline.Options{Logger: opts.logger(), Store: st})
	outs, err := p.Metadata(cmd.Context(), kinds, metadata.Run{ID: opts.RunID})
	if err != nil {
		code := ErrCodeBuildFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return commandError(formatter, code, "metadata failed", err)
	}

	result := MetadataResult{Documents: make([]WrittenDocument, 0, len(outs))}
	for _, out := range outs {
		result.Documents = append(result.Documents, WrittenDocument{
			Document:   string(out.Kind),
			Path:       out.Path,
			Statements: out.Doc.Graph.Len(),
		})
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	for _, d := range result.Documents {
		fmt.Fprintf(formatter.Writer, "✓ %s -> %s (%d statements)\n", d.Document, d.Path, d.Statements)
	}
	return nil
}
