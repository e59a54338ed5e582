package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/roach88/qbcube/internal/config"
	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/integrity"
	"github.com/roach88/qbcube/internal/pipeline"
	"github.com/roach88/qbcube/internal/serialize"
	"github.com/roach88/qbcube/internal/store"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Store           string
	Graphs          []string
	Rules           []string
	IncludeDisabled bool
}

// ValidateResult is the outcome of one validate command.
type ValidateResult struct {
	Valid   bool                `json:"valid"`
	Reports []*integrity.Report `json:"reports"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [FILES...]",
		Short: "Check cubes against the Data Cube integrity constraints",
		Long: `Check data cubes against the integrity constraints IC-1 to IC-21.

Cubes are read from Turtle, TriG or N-Triples files (glob patterns with **
are expanded) or, with --graph, loaded from a store. Without arguments the
cube files in the output directory are checked.

IC-7 (slice keys must be declared) misreports on cubes without slices and
only runs when named with --rules or with --include-disabled.

Exit codes:
  0 - No rule violated
  1 - A rule is violated or could not be evaluated
  2 - Command error (unreadable file, unknown rule, etc.)

Examples:
  qbcube validate
  qbcube validate out/health_care.ttl
  qbcube validate "out/**/*.ttl" --rules IC-1,IC-14
  qbcube validate --store cubes.db --graph population`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite store to load graphs from (overrides config)")
	cmd.Flags().StringSliceVar(&opts.Graphs, "graph", nil, "named graph to validate from the store (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Rules, "rules", nil, "comma-separated rule ids to run (default: all reliable rules)")
	cmd.Flags().BoolVar(&opts.IncludeDisabled, "include-disabled", false, "also run the rules that are disabled by default")

	return cmd
}

// validationTarget is one graph to check.
type validationTarget struct {
	name   string
	source string
	load   func() (*graph.Graph, error)
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	rules, err := selectRules(opts.Rules, opts.IncludeDisabled)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid rule selection", err)
	}

	cfg, err := opts.loadConfig(formatter, &config.Config{Store: opts.Store})
	if err != nil {
		return err
	}

	var targets []validationTarget
	if len(opts.Graphs) > 0 {
		if cfg.Store == "" {
			return commandError(formatter, ErrCodeInvalidArgs, "--graph requires a store", nil)
		}
		st, err := openStore(formatter, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		for _, name := range opts.Graphs {
			targets = append(targets, validationTarget{
				name:   name,
				source: "graph " + name,
				load:   func() (*graph.Graph, error) { return st.LoadGraph(cmd.Context(), name) },
			})
		}
	}

	files, err := expandGraphFiles(args, cfg.OutputDir, len(opts.Graphs) == 0)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid file pattern", err)
	}
	for _, path := range files {
		targets = append(targets, validationTarget{
			name:   reportName(path),
			source: path,
			load:   func() (*graph.Graph, error) { return serialize.ReadGraphFile(path) },
		})
	}
	if len(targets) == 0 {
		return commandError(formatter, ErrCodeNoFiles, "no cubes to validate", nil)
	}

	p := pipeline.New(cfg, pipeline.Options{Logger: opts.logger()})
	result := ValidateResult{Valid: true}
	for _, target := range targets {
		formatter.VerboseLog("Validating %s with %d rule(s)", target.source, len(rules))
		g, err := target.load()
		if err != nil {
			return commandError(formatter, loadErrorCode(err), fmt.Sprintf("cannot load %s", target.source), err)
		}
		report, err := p.Validate(cmd.Context(), target.name, g, rules)
		if err != nil {
			return commandError(formatter, ErrCodeGeneric, "validation aborted", err)
		}
		result.Reports = append(result.Reports, report)
		if !report.OK() {
			result.Valid = false
		}
	}
	if err := p.FlushMetrics(); err != nil {
		return commandError(formatter, ErrCodeWriteFailed, "cannot write metrics", err)
	}

	if formatter.JSON() {
		if result.Valid {
			if err := formatter.Success(result); err != nil {
				return err
			}
		} else {
			_ = formatter.Error(ErrCodeViolation, "integrity constraints violated", result)
		}
	} else {
		for i, report := range result.Reports {
			if i > 0 {
				fmt.Fprintln(formatter.Writer)
			}
			if err := report.WriteText(formatter.Writer); err != nil {
				return err
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, ErrCodeViolation+": integrity constraints violated")
	}
	return nil
}

// selectRules resolves --rules, ignoring empty entries such as the one a
// trailing comma leaves.
func selectRules(ids []string, includeDisabled bool) ([]integrity.Rule, error) {
	ids = slices.DeleteFunc(slices.Clone(ids), func(id string) bool {
		return strings.TrimSpace(id) == ""
	})
	return integrity.Select(ids, includeDisabled)
}

// reportName names the report of a graph file after its base name.
func reportName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// expandGraphFiles expands glob patterns. With no patterns and
// useDefault set, the cube files present in outputDir are returned.
func expandGraphFiles(patterns []string, outputDir string, useDefault bool) ([]string, error) {
	if len(patterns) == 0 {
		if !useDefault {
			return nil, nil
		}
		var files []string
		for _, kind := range cube.Kinds() {
			path := filepath.Join(outputDir, kind.FileName())
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
			}
		}
		return files, nil
	}

	var files []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			files = append(files, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// loadErrorCode classifies a graph load failure.
func loadErrorCode(err error) string {
	var perr *serialize.ParseError
	switch {
	case errors.Is(err, store.ErrGraphNotFound), errors.Is(err, os.ErrNotExist):
		return ErrCodeNotFound
	case errors.As(err, &perr), errors.Is(err, serialize.ErrUnknownFormat):
		return ErrCodeParseFailed
	default:
		return ErrCodeGeneric
	}
}
