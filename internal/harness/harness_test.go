package harness

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/canon"
	"github.com/roach88/traitir/internal/interner"
	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/syntax"
)

// TestScenarioFiles runs every scenario under testdata/scenarios. They
// serve as:
// 1. End-to-end validation of canonicalization and the term operations
// 2. Reference examples of the scenario format
// 3. Regression fixtures
func TestScenarioFiles(t *testing.T) {
	paths, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err, "failed to load scenario from %s", path)
			assert.NotEmpty(t, scenario.Description, "scenario should have description")

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed: %v", result.Errors)
			assert.Len(t, result.Trace, len(scenario.Steps))
		})
	}
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Steps: []Step{
			{ID: "only", Op: OpRender, Term: TermTy, Input: "(u32, bool)", Expect: &Expect{Output: "(u32, bool)"}},
		},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Op: OpRender},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, result.Trace, 1)
	event := result.Trace[0]
	assert.Equal(t, int64(1), event.Seq)
	assert.Equal(t, "only", event.Step)
	assert.Equal(t, OpRender, event.Op)
	assert.Equal(t, "(u32, bool)", event.Output)
	assert.Empty(t, event.Key)
}

func TestRun_ItemsRenderByName(t *testing.T) {
	scenario := &Scenario{
		Name:        "items",
		Description: "declared items keep their names",
		Items:       map[string][]string{"trait": {"Clone", "Copy"}, "adt": {"Vec", "Option"}},
		Steps: []Step{
			{ID: "a", Op: OpRender, Term: TermGoal, Input: "Implemented(Option<Vec<u8>>: Copy)"},
			{ID: "b", Op: OpRender, Term: TermGoal, Input: "Implemented(#1<#0<u8>>: #1)"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "%v", result.Errors)

	assert.Equal(t, "Implemented(Option<Vec<u8>>: Copy)", result.Trace[0].Output)
	assert.Equal(t, "Implemented(Option<Vec<u8>>: Copy)", result.Trace[1].Output, "declared ids are assigned in list order")
}

func TestRun_Canonicalize(t *testing.T) {
	scenario := &Scenario{
		Name:        "canonicalize",
		Description: "slots follow first occurrence",
		Items:       map[string][]string{"trait": {"Clone"}},
		Steps: []Step{
			{
				ID:    "ref",
				Op:    OpCanonicalize,
				Input: "Implemented(&'?1 ?0: Clone)",
				Vars:  "ty U0, lifetime U1",
				Expect: &Expect{
					Output: "ucanonical<2> { canonical<lifetime U1, ty U0> { env<U0> {} |- Implemented(&'^0.0 ^0.1: Clone) } }",
					Subst:  "['?1, ?0]",
				},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
	assert.Len(t, result.Trace[0].Key, 12)
}

func TestRun_CanonicalizeUndeclaredVariable(t *testing.T) {
	scenario := &Scenario{
		Name:        "undeclared",
		Description: "every variable must be declared in vars",
		Items:       map[string][]string{"trait": {"Clone"}},
		Steps: []Step{
			{ID: "s", Op: OpCanonicalize, Input: "Implemented(?3: Clone)", Vars: "ty U0", Expect: &Expect{Error: CodeError}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
	assert.Contains(t, result.Trace[0].Detail, "?3 is not declared")
}

func TestRun_ExpectationMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectations fail the scenario",
		Steps: []Step{
			{ID: "s", Op: OpRender, Term: TermTy, Input: "u32", Expect: &Expect{Output: "u64"}},
			{ID: "t", Op: OpRender, Term: TermTy, Input: "u32", Expect: &Expect{Error: "MISMATCH"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, `step s: expected output "u64", got "u32"`, result.Errors[0])
	assert.Equal(t, "step t: expected MISMATCH error, got no error", result.Errors[1])
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "errors without an expectation fail the scenario",
		Steps: []Step{
			{ID: "s", Op: OpRender, Term: TermTy, Input: "Vec<u32"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step s: unexpected PARSE error")
	assert.Equal(t, CodeParse, result.Trace[0].Error)
}

func TestRun_ErrorsDoNotAbortScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "continue",
		Description: "later steps still run",
		Steps: []Step{
			{ID: "panics", Op: OpCanonicalize, Input: "Implemented(^0.0: Copy)", Expect: &Expect{Error: CodePanic}},
			{ID: "after", Op: OpRender, Term: TermTy, Input: "bool", Expect: &Expect{Output: "bool"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
	assert.Contains(t, result.Trace[0].Detail, "free bound variable")
	assert.Equal(t, "bool", result.Trace[1].Output)
}

func TestRun_SingleInterner(t *testing.T) {
	scenario := &Scenario{
		Name:        "hashcons_only",
		Description: "runs under the named interner",
		Interners:   []string{"hashcons"},
		Steps:       []Step{{ID: "s", Op: OpRender, Term: TermTy, Input: "[u8; 4]", Expect: &Expect{Output: "[u8; 4]"}}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
}

func TestRun_UnknownInterner(t *testing.T) {
	scenario := &Scenario{
		Name:        "arena",
		Description: "unknown interners are rejected",
		Interners:   []string{"arena"},
		Steps:       []Step{{ID: "s", Op: OpRender, Term: TermTy, Input: "u32"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown interner "arena"`)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/universes.cue")
	require.NoError(t, err)

	// Run scenario twice
	result1, err := Run(scenario)
	require.NoError(t, err)

	result2, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result1.Pass, "%v", result1.Errors)
	assert.True(t, result2.Pass, "%v", result2.Errors)
	assert.NotEqual(t, result1.RunID, result2.RunID, "run ids are fresh")

	require.Equal(t, len(result1.Trace), len(result2.Trace))
	for i := range result1.Trace {
		assert.Equal(t, result1.Trace[i], result2.Trace[i], "trace mismatch at index %d", i)
	}
}

func TestRun_LogsThroughConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario := &Scenario{
		Name:        "logged",
		Description: "log records carry the scenario",
		Session:     "00000000-0000-7000-8000-000000000001",
		Items:       map[string][]string{"trait": {"Copy"}},
		Steps:       []Step{{ID: "s", Op: OpCanonicalize, Input: "Implemented(?0: Copy)", Vars: "ty U0"}},
	}

	result, err := RunWithConfig(scenario, Config{Logger: logger})
	require.NoError(t, err)
	require.True(t, result.Pass, "%v", result.Errors)

	logs := buf.String()
	assert.Contains(t, logs, `"msg":"scenario finished"`)
	assert.Contains(t, logs, `"scenario":"logged"`)
	assert.Contains(t, logs, `"session":"00000000-0000-7000-8000-000000000001"`)
	assert.Contains(t, logs, fmt.Sprintf(`"run":"%s"`, result.RunID))
}

func TestErrorCode(t *testing.T) {
	_, parseErr := syntax.NewParser(interner.NewBoxed(), nil).Ty("(u32")
	require.Error(t, parseErr)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"mismatch", ir.NewMismatchError("ty", "u32 vs u64"), "MISMATCH"},
		{"universe", ir.NewUniverseError(2, 1), "ESCAPING_PLACEHOLDER"},
		{"wrapped", fmt.Errorf("bind ?0: %w", ir.NewUniverseError(2, 1)), "ESCAPING_PLACEHOLDER"},
		{"floundered", ir.NewFlounderedError("too many clauses"), "FLOUNDERED"},
		{"parse", parseErr, CodeParse},
		{"panic", &PanicError{Value: "boom"}, CodePanic},
		{"other", errors.New("boom"), CodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestCheckExpect_NoExpectation(t *testing.T) {
	step := Step{ID: "s"}
	assert.Empty(t, checkExpect(step, TraceEvent{Output: "anything"}))
	assert.Equal(t, []string{"step s: unexpected PANIC error: panic: boom"},
		checkExpect(step, TraceEvent{Error: CodePanic, Detail: "panic: boom"}))
}

func TestDiffEvents(t *testing.T) {
	a := TraceEvent{Seq: 1, Output: "u32", Key: "k"}
	assert.Empty(t, diffEvents(a, a))

	b := a
	b.Key = "other"
	assert.Equal(t, `key "k" vs "other"`, diffEvents(a, b))
}

func TestNewSession_KeepsCallerOptions(t *testing.T) {
	in := interner.NewBoxed()
	opts := make([]canon.TableOption, 1, 4)
	opts[0] = canon.WithSession("fixed")

	first := newSession(in, syntax.NewSymbols(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), opts...)
	second := newSession(in, syntax.NewSymbols(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), opts...)

	assert.Len(t, first.tableOpts, 2)
	assert.Len(t, second.tableOpts, 2)
	assert.Nil(t, opts[:2][1])
	assert.Equal(t, "fixed", canon.NewInferenceTable(in, first.tableOpts...).Session())
}
