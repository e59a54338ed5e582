package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/roach88/qbcube/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool
	Filter string
}

// ScenarioResult is the verdict on one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult summarizes a test command.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios against the cube builders.

Each scenario builds one cube from its own CSV inputs and checks the build
statistics, statements in the graph and integrity rule verdicts. Scenarios
with a file in golden/ next to them are also compared against the snapshot.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  qbcube test ./scenarios
  qbcube test ./scenarios --filter "care-*"
  qbcube test ./scenarios --update
  qbcube test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", dir), nil)
	}
	if opts.Filter != "" && !doublestar.ValidatePattern(opts.Filter) {
		return commandError(formatter, ErrCodeInvalidArgs, fmt.Sprintf("invalid filter pattern %q", opts.Filter), nil)
	}
	files, err := scenarioFiles(dir, opts.Filter)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "cannot list scenarios", err)
	}

	result := TestResult{Scenarios: []ScenarioResult{}, Total: len(files)}
	if len(files) == 0 {
		if formatter.JSON() {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	r := scenarioRunner{
		harness: harness.New(opts.logger()),
		update:  opts.Update,
		log:     formatter,
	}
	for _, file := range files {
		sr := r.run(cmd.Context(), file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !formatter.JSON() {
			writeScenarioResult(formatter.Writer, sr)
		}
	}

	switch {
	case formatter.JSON() && result.Failed > 0:
		_ = formatter.Error(ErrCodeTestFailed, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total), result)
	case formatter.JSON():
		if err := formatter.Success(result); err != nil {
			return err
		}
	default:
		fmt.Fprintf(formatter.Writer, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		if result.Failed == 0 {
			fmt.Fprintln(formatter.Writer, "✓ All scenarios passed")
		}
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeTestFailed, result.Failed))
	}
	return nil
}

// scenarioFiles lists the YAML scenarios below dir in path order. Snapshot
// directories named golden are skipped. filter, when set, is matched
// against the file name without its extension.
func scenarioFiles(dir, filter string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{yaml,yml}", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	var files []string
	for _, m := range matches {
		if slices.Contains(strings.Split(path.Dir(m), "/"), "golden") {
			continue
		}
		if filter != "" {
			name := strings.TrimSuffix(path.Base(m), path.Ext(m))
			if ok, _ := doublestar.Match(filter, name); !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	slices.Sort(files)
	return files, nil
}

// scenarioRunner runs scenario files and checks them against their golden
// snapshots.
type scenarioRunner struct {
	harness *harness.Harness
	update  bool
	log     *OutputFormatter
}

func (r scenarioRunner) run(ctx context.Context, file string) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed(filepath.Base(file), "failed to load scenario: %v", err)
	}

	result, err := r.harness.Run(ctx, scenario)
	switch {
	case err != nil:
		return failed(scenario.Name, "execution failed: %v", err)
	case !result.Passed():
		return ScenarioResult{Name: scenario.Name, Errors: result.Errors}
	case result.Cube == nil:
		// expected build error; nothing to snapshot
		return ScenarioResult{Name: scenario.Name, Pass: true}
	}

	golden := harness.GoldenPath(file)
	if r.update {
		if err := harness.UpdateGolden(ctx, scenario, result, golden); err != nil {
			return failed(scenario.Name, "failed to update golden file: %v", err)
		}
		r.log.VerboseLog("updated %s", golden)
		return ScenarioResult{Name: scenario.Name, Pass: true}
	}
	if _, err := os.Stat(golden); errors.Is(err, fs.ErrNotExist) {
		return ScenarioResult{Name: scenario.Name, Pass: true}
	}
	match, err := harness.CompareGolden(ctx, scenario, result, golden)
	switch {
	case err != nil:
		return failed(scenario.Name, "golden comparison failed: %v", err)
	case !match:
		return failed(scenario.Name, "golden file mismatch (run with --update to regenerate)")
	}
	return ScenarioResult{Name: scenario.Name, Pass: true}
}

func failed(name, format string, args ...any) ScenarioResult {
	return ScenarioResult{Name: name, Errors: []string{fmt.Sprintf(format, args...)}}
}

func writeScenarioResult(w io.Writer, sr ScenarioResult) {
	mark := "✓"
	if !sr.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s\n", mark, sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
