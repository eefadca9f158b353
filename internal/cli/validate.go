package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/traitir/internal/harness"
)

// FileValidation holds the validation result of one scenario file.
type FileValidation struct {
	Path     string   `json:"path"`
	Scenario string   `json:"scenario,omitempty"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files without executing any step.

Checks each file against the scenario schema, then parses every term it
mentions. Faster than test for development feedback, and reports every
malformed term instead of stopping at the first failing step.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	paths, err := harness.FindScenarios(path)
	if err != nil {
		var noScenarios *harness.NoScenariosError
		if errors.As(err, &noScenarios) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, noScenarios.Error(), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	formatter.VerboseLog("Found %d scenario file(s) in %s", len(paths), path)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	invalid := 0
	for _, p := range paths {
		fv := validateFile(p)
		formatter.VerboseLog("Validated %s: %d error(s)", p, len(fv.Errors))
		if !fv.Valid {
			result.Valid = false
			invalid++
		}
		result.Files = append(result.Files, fv)
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result, invalid)
	}
	return outputValidateSuccess(formatter, result)
}

// validateFile loads one scenario and lints its terms.
func validateFile(path string) FileValidation {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return FileValidation{Path: path, Errors: []string{err.Error()}}
	}
	errs := harness.Lint(scenario)
	return FileValidation{
		Path:     path,
		Scenario: scenario.Name,
		Valid:    len(errs) == 0,
		Errors:   errs,
	}
}

// outputValidateSuccess outputs successful validation.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, f := range result.Files {
		fmt.Fprintf(w, "✓ %s\n", f.Path)
	}
	fmt.Fprintf(w, "\nAll %d scenario file(s) valid\n", len(result.Files))
	return nil
}

// outputValidationErrors outputs the failing files and returns an
// ExitFailure error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult, invalid int) error {
	message := fmt.Sprintf("%d of %d scenario file(s) invalid", invalid, len(result.Files))

	if formatter.IsJSON() {
		return formatter.Fail(ExitFailure, ErrCodeInvalid, message, result)
	}

	w := formatter.Writer
	for _, f := range result.Files {
		if f.Valid {
			fmt.Fprintf(w, "✓ %s\n", f.Path)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", f.Path)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintln(w)
	return formatter.Fail(ExitFailure, ErrCodeInvalid, message, nil)
}
