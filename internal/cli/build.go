package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qbcube/internal/config"
	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/pipeline"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	OutputDir string
	Store     string
	Strict    bool
	CodeLists bool
}

// BuildResult is the outcome of one build command.
type BuildResult struct {
	RunID string       `json:"run_id"`
	Cubes []BuiltCube `json:"cubes"`
}

// BuiltCube summarizes one written cube.
type BuiltCube struct {
	Cube           string         `json:"cube"`
	Path           string         `json:"path"`
	RowsRead       int            `json:"rows_read"`
	Dropped        map[string]int `json:"dropped,omitempty"`
	CodedResources int            `json:"coded_resources"`
	Observations   int            `json:"observations"`
	Statements     int            `json:"statements"`
	ElapsedMS      int64          `json:"elapsed_ms"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build [population|care-providers|all]",
		Short: "Build data cubes from the CSV inputs",
		Long: `Build the population and care-provider data cubes.

Reads the CSV inputs named in the configuration, builds the requested cubes
concurrently and writes each one as Turtle to the output directory. With a
store configured, the cubes are also saved as named graphs.

Exit codes:
  0 - All cubes written
  2 - Command error (missing input, invalid config, label collision, etc.)

Examples:
  qbcube build
  qbcube build care-providers --out ./out
  qbcube build all --store cubes.db --strict`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     []string{string(cube.Population), string(cube.CareProviders), "all"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}
			return runBuild(opts, target, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite store to save the cubes to (overrides config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when two labels canonicalize to one identifier")
	cmd.Flags().BoolVar(&opts.CodeLists, "code-lists", false, "attach SKOS code lists to coded dimensions")

	return cmd
}

// parseCubeKinds resolves a build target.
func parseCubeKinds(target string) ([]cube.Kind, error) {
	if target == "all" {
		return cube.Kinds(), nil
	}
	kind, ok := cube.ParseKind(target)
	if !ok {
		names := []string{"all"}
		for _, k := range cube.Kinds() {
			names = append(names, string(k))
		}
		return nil, fmt.Errorf("unknown cube %q: must be one of %s", target, strings.Join(names, ", "))
	}
	return []cube.Kind{kind}, nil
}

func runBuild(opts *BuildOptions, target string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kinds, err := parseCubeKinds(target)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid build target", err)
	}

	cfg, err := opts.loadConfig(formatter, &config.Config{
		OutputDir:       opts.OutputDir,
		Store:           opts.Store,
		StrictCanonical: opts.Strict,
		CodeLists:       opts.CodeLists,
	})
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
	formatter.VerboseLog("Building %d cube(s) into %s", len(kinds), cfg.OutputDir)

	run, err := p.Build(cmd.Context(), kinds)
	if err != nil {
		return commandError(formatter, buildErrorCode(err), "build failed", err)
	}
	if err := p.FlushMetrics(); err != nil {
		return commandError(formatter, ErrCodeWriteFailed, "cannot write metrics", err)
	}

	result := BuildResult{RunID: run.ID, Cubes: make([]BuiltCube, 0, len(run.Outputs))}
	for _, out := range run.Outputs {
		result.Cubes = append(result.Cubes, BuiltCube{
			Cube:           string(out.Kind),
			Path:           out.Path,
			RowsRead:       out.Result.Stats.RowsRead,
			Dropped:        out.Result.Stats.Dropped,
			CodedResources: out.Result.Stats.CodedResources,
			Observations:   out.Result.Stats.Observations,
			Statements:     out.Result.Graph.Len(),
			ElapsedMS:      out.Elapsed.Milliseconds(),
		})
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	w := formatter.Writer
	for _, c := range result.Cubes {
		fmt.Fprintf(w, "✓ %s -> %s (%d observations, %d statements)\n", c.Cube, c.Path, c.Observations, c.Statements)
		if len(c.Dropped) > 0 {
			fmt.Fprintf(w, "  dropped %s\n", formatDropped(c.Dropped))
		}
	}
	return nil
}

// buildErrorCode classifies a pipeline failure.
func buildErrorCode(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrCodeWriteFailed
	default:
		return ErrCodeBuildFailed
	}
}

// formatDropped renders drop counts as "incomplete=2, unmatched=1".
func formatDropped(dropped map[string]int) string {
	stats := cube.Stats{Dropped: dropped}
	parts := make([]string, 0, len(dropped))
	for _, reason := range stats.DropReasons() {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, dropped[reason]))
	}
	return strings.Join(parts, ", ")
}
