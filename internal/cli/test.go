package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/traitir/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Golden string // golden file directory
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
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
		Use:   "test <scenarios>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios against every interner.

Executes each scenario file (.yaml, .yml or .cue) under the given path,
checking step expectations and assertions. With --golden, each trace is
also compared byte for byte against <dir>/<scenario>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  traitir test ./scenarios
  traitir test ./scenarios --filter "cache_*"
  traitir test ./scenarios --golden ./golden
  traitir test ./scenarios --golden ./golden --update
  traitir test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files (requires --golden)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenario files by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "directory of golden trace files")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	if opts.Update && opts.Golden == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}

	paths, err := findScenarioFiles(path, opts.Filter)
	var noScenarios *harness.NoScenariosError
	switch {
	case errors.As(err, &noScenarios):
		paths = nil
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(paths) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	suite, err := harness.RunSuite(cmd.Context(), paths, harness.Config{
		Logger: opts.Logger(cmd.ErrOrStderr()),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "test run interrupted", err)
	}

	result := TestResult{
		Scenarios: collectResults(paths, suite, opts),
		Total:     len(paths),
	}
	for _, s := range result.Scenarios {
		if s.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if err := outputTestJSON(cmd, result); err != nil {
			return err
		}
	} else {
		outputTestText(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}

// findScenarioFiles finds the scenario files under path whose base name
// (without extension) matches filter.
func findScenarioFiles(path, filter string) ([]string, error) {
	all, err := harness.FindScenarios(path)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return all, nil
	}

	var files []string
	for _, p := range all {
		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(filter, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			files = append(files, p)
		}
	}
	return files, nil
}

// collectResults lines suite outcomes up with paths, applying golden
// comparison to every scenario that ran.
func collectResults(paths []string, suite *harness.SuiteResult, opts *TestOptions) []ScenarioResult {
	ran := make(map[string]*harness.Result, len(suite.Results))
	for _, r := range suite.Results {
		ran[r.Path] = r
	}
	failed := make(map[string]harness.ScenarioFailure, len(suite.Failures))
	for _, f := range suite.Failures {
		failed[f.ScenarioPath] = f
	}

	results := make([]ScenarioResult, 0, len(paths))
	for _, path := range paths {
		r, ok := ran[path]
		if !ok {
			f := failed[path]
			results = append(results, ScenarioResult{
				Name:   scenarioLabel(f.Scenario, path),
				Path:   path,
				Errors: f.Errors,
			})
			continue
		}

		sr := ScenarioResult{Name: r.Scenario, Path: path, Pass: r.Pass, Errors: r.Errors}
		if opts.Golden != "" {
			if msg := checkGolden(r, opts.Golden, opts.Update); msg != "" {
				sr.Pass = false
				sr.Errors = append(sr.Errors, msg)
			}
		}
		results = append(results, sr)
	}
	return results
}

func scenarioLabel(name, path string) string {
	if name != "" {
		return name
	}
	return filepath.Base(path)
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(dir, scenario string) string {
	return filepath.Join(dir, scenario+".golden")
}

// checkGolden compares a result's trace against its golden file, or
// rewrites the file when update is set. A missing golden file is not a
// failure; the scenario is then checked by its assertions alone. It
// returns an error message, or "" when the golden trace matched.
func checkGolden(result *harness.Result, dir string, update bool) string {
	data, err := harness.MarshalTrace(result)
	if err != nil {
		return fmt.Sprintf("failed to marshal trace: %v", err)
	}
	goldenPath := goldenFilePath(dir, result.Scenario)

	if update {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, data, 0644); err != nil {
			return fmt.Sprintf("failed to write golden file: %v", err)
		}
		return ""
	}

	want, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		return fmt.Sprintf("failed to read golden file: %v", err)
	}
	if !bytes.Equal(want, data) {
		return "trace does not match golden file (run with --update to regenerate)"
	}
	return ""
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	out := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	return out.Encode(CLIResponse{
		Status: status,
		Data:   result,
	})
}

// outputTestText outputs the test result as human-readable text.
func outputTestText(cmd *cobra.Command, result TestResult) {
	w := cmd.OutOrStdout()

	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n",
		result.Passed, result.Failed, result.Total)
}
