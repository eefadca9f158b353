package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/traitir/internal/interner"
	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/syntax"
	"github.com/roach88/traitir/internal/testutil"
)

// interners maps scenario interner names to constructors.
var interners = map[string]func() ir.Interner{
	"boxed":    func() ir.Interner { return interner.NewBoxed() },
	"hashcons": func() ir.Interner { return interner.NewHashCons() },
}

// DefaultInterners is the interner list of scenarios that name none.
var DefaultInterners = []string{"boxed", "hashcons"}

// NewInterner returns a fresh interner of the named implementation.
func NewInterner(name string) (ir.Interner, error) {
	newInterner, ok := interners[name]
	if !ok {
		return nil, fmt.Errorf("unknown interner %q", name)
	}
	return newInterner(), nil
}

// Config configures a harness run.
type Config struct {
	// Logger receives step and table events. Nil discards them.
	Logger *slog.Logger
}

// Harness executes scenarios with a deterministic step sequence and a
// fixed inference table session, so traces compare byte for byte.
type Harness struct {
	scenario *Scenario
	session  *testutil.FixedSession
	logger   *slog.Logger
	runID    string
}

// Run executes a scenario with default configuration.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithConfig(scenario, Config{})
}

// RunWithConfig executes a scenario once per interner and returns the
// result.
//
// Execution flow:
// 1. Declare the scenario's item names in a fresh symbol table
// 2. Execute every step, recording one trace event per step
// 3. Check step expectations against the first interner's trace
// 4. Check that every other interner produced the same trace
// 5. Evaluate assertions
func RunWithConfig(scenario *Scenario, cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &Harness{
		scenario: scenario,
		session:  testutil.NewFixedSession(scenario.Session),
		runID:    uuid.Must(uuid.NewV7()).String(),
	}
	h.logger = logger.With("run", h.runID, "scenario", scenario.Name)

	names := scenario.Interners
	if len(names) == 0 {
		names = DefaultInterners
	}

	result := NewResult(h.runID, scenario.Name)
	for i, name := range names {
		in, err := NewInterner(name)
		if err != nil {
			return nil, err
		}
		syms, err := h.symbols()
		if err != nil {
			return nil, err
		}
		trace := h.execute(name, in, syms)

		if i == 0 {
			result.Trace = trace
			for j, step := range scenario.Steps {
				for _, msg := range checkExpect(step, trace[j]) {
					result.AddError(msg)
				}
			}
			continue
		}
		for j := range trace {
			if diff := diffEvents(result.Trace[j], trace[j]); diff != "" {
				result.AddError(fmt.Sprintf("step %s: interner %s disagrees with %s: %s",
					trace[j].Step, name, names[0], diff))
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished", "pass", result.Pass, "steps", len(result.Trace), "errors", len(result.Errors))
	return result, nil
}

// symbols declares the scenario's items. Kinds are declared in id
// namespace order so the table does not depend on map iteration.
func (h *Harness) symbols() (*syntax.Symbols, error) {
	syms := syntax.NewSymbols()
	kinds := make([]ir.ItemKind, 0, len(h.scenario.Items))
	for name := range h.scenario.Items {
		kind, ok := ParseItemKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown item kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		for _, name := range h.scenario.Items[kind.String()] {
			syms.Intern(kind, name)
		}
	}
	return syms, nil
}

// execute runs every step against one interner.
func (h *Harness) execute(name string, in ir.Interner, syms *syntax.Symbols) []TraceEvent {
	seq := testutil.NewSequence()
	logger := h.logger.With("interner", name)
	s := newSession(in, syms, logger, h.session.TableOption())

	trace := make([]TraceEvent, 0, len(h.scenario.Steps))
	for _, step := range h.scenario.Steps {
		out, err := s.exec(step)
		event := TraceEvent{
			Seq:    seq.Next(),
			Step:   step.ID,
			Op:     step.Op,
			Input:  step.Input,
			Output: out.output,
			Subst:  out.subst,
			Back:   out.back,
		}
		if out.key != "" {
			event.Key = out.key.Short()
		}
		if err != nil {
			event.Error = ErrorCode(err)
			event.Detail = err.Error()
		}
		trace = append(trace, event)

		logger.Debug("step completed",
			"seq", event.Seq,
			"step", step.ID,
			"op", step.Op,
			"error", event.Error,
		)
	}
	return trace
}

// checkExpect compares a step's event with its expectation.
func checkExpect(step Step, event TraceEvent) []string {
	var errs []string
	expect := step.Expect
	if expect == nil || expect.Error == "" {
		if event.Error != "" {
			return []string{fmt.Sprintf("step %s: unexpected %s error: %s", step.ID, event.Error, event.Detail)}
		}
	}
	if expect == nil {
		return nil
	}

	if expect.Error != "" && event.Error != expect.Error {
		detail := "no error"
		if event.Error != "" {
			detail = event.Error + ": " + event.Detail
		}
		errs = append(errs, fmt.Sprintf("step %s: expected %s error, got %s", step.ID, expect.Error, detail))
	}
	check := func(field, want, got string) {
		if want != "" && want != got {
			errs = append(errs, fmt.Sprintf("step %s: expected %s %q, got %q", step.ID, field, want, got))
		}
	}
	check("output", expect.Output, event.Output)
	check("subst", expect.Subst, event.Subst)
	check("back", expect.Back, event.Back)
	return errs
}

// diffEvents describes the first golden field where a and b differ.
func diffEvents(a, b TraceEvent) string {
	fields := []struct {
		name string
		a, b string
	}{
		{"output", a.Output, b.Output},
		{"subst", a.Subst, b.Subst},
		{"back", a.Back, b.Back},
		{"key", a.Key, b.Key},
		{"error", a.Error, b.Error},
	}
	for _, f := range fields {
		if f.a != f.b {
			return fmt.Sprintf("%s %q vs %q", f.name, f.a, f.b)
		}
	}
	return ""
}
