package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario file into dir and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
items:
  trait: [Clone]
steps:
  - op: render
    input: "Implemented(u32: Clone)"
  - id: named
    op: canonicalize
    input: "Implemented(?0: Clone)"
    vars: "ty U0"
    bind:
      "?0": "u32"
assertions:
  - type: trace_contains
    op: render
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, []string{"Clone"}, scenario.Items["trait"])
	require.Len(t, scenario.Steps, 2)
	assert.Len(t, scenario.Assertions, 1)
	assert.Equal(t, "step1", scenario.Steps[0].ID, "missing ids default to the 1-based position")
	assert.Equal(t, "named", scenario.Steps[1].ID)
	assert.Equal(t, map[string]string{"?0": "u32"}, scenario.Steps[1].Bind)
}

func TestLoadScenario_CUEFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/universes.cue")
	require.NoError(t, err)

	assert.Equal(t, "universes", scenario.Name)
	assert.Equal(t, []string{"Clone", "Copy"}, scenario.Items["trait"])
	require.Len(t, scenario.Steps, 10)

	assert.Equal(t, "compact", scenario.Steps[0].ID)
	require.NotNil(t, scenario.Steps[0].Expect)
	assert.Equal(t, "canonical<ty U3> { env<U5> {} |- Eq(!3_0, (^0.0, !5_1)) }", scenario.Steps[0].Expect.Back)

	assert.Equal(t, "step5", scenario.Steps[4].ID)
	assert.Equal(t, TermTy, scenario.Steps[4].Term)

	last := scenario.Steps[9]
	assert.Equal(t, map[string]string{"?0": "!1_0"}, last.Bind)
	assert.Equal(t, "ESCAPING_PLACEHOLDER", last.Expect.Error)

	require.Len(t, scenario.Assertions, 4)
	assert.Equal(t, []string{"compact", "compact_shifted"}, scenario.Assertions[0].Steps)
}

func TestLoadScenario_CUEUnifyPairs(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "pairs.cue", `
name:        "pairs"
description: "unify pairs decode as int slices"
steps: [{
	op:    "canonicalize"
	input: "Implemented((?0, ?1): Copy)"
	vars:  "ty U0, ty U0"
	unify: [[0, 1]]
}]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}}, scenario.Steps[0].Unify)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/path/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "bad.yaml", "name: [unclosed\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "typo.yaml", `
name: typo
description: "misspelled assertions key"
steps:
  - op: render
    input: "u32"
    term: ty
assertion:
  - type: trace_contains
    op: render
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_CUESchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "bad.cue", `
name:        "bad"
description: "unknown op"
steps: [{op: "frobnicate", input: "u32"}]
`)

	_, err := LoadScenario(path)
	require.Error(t, err)

	var scenarioErr *ScenarioError
	require.True(t, errors.As(err, &scenarioErr), "got %T: %v", err, err)
	assert.NotEmpty(t, scenarioErr.Message)
}

func TestLoadScenario_CUEUnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "closed.cue", `
name:        "closed"
description: "the schema is closed"
steps: [{op: "render", input: "u32", term: "ty"}]
flow: []
`)

	_, err := LoadScenario(path)
	require.Error(t, err)

	var scenarioErr *ScenarioError
	assert.True(t, errors.As(err, &scenarioErr), "got %T: %v", err, err)
}

func TestLoadScenario_CUESyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "syntax.cue", "name: \"unterminated\n")

	_, err := LoadScenario(path)
	require.Error(t, err)

	var scenarioErr *ScenarioError
	require.True(t, errors.As(err, &scenarioErr), "got %T: %v", err, err)
	assert.Contains(t, scenarioErr.Error(), "syntax.cue")
}

func TestValidateScenario(t *testing.T) {
	step := func(op, input string) Step { return Step{Op: op, Input: input} }
	valid := func() *Scenario {
		return &Scenario{
			Name:        "valid",
			Description: "valid scenario",
			Steps:       []Step{{ID: "a", Op: OpRender, Input: "u32", Term: TermTy}, {ID: "b", Op: OpKey, Input: "x"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no steps", func(s *Scenario) { s.Steps = nil }, "steps list is required"},
		{"unknown interner", func(s *Scenario) { s.Interners = []string{"arena"} }, `unknown interner "arena"`},
		{"unknown item kind", func(s *Scenario) { s.Items = map[string][]string{"struct": {"Vec"}} }, `unknown item kind "struct"`},
		{"duplicate id", func(s *Scenario) { s.Steps[1].ID = "a" }, `duplicate id "a"`},
		{"missing op", func(s *Scenario) { s.Steps[0].Op = "" }, "op is required"},
		{"unknown op", func(s *Scenario) { s.Steps[0].Op = "solve" }, `unknown op "solve"`},
		{"missing input", func(s *Scenario) { s.Steps[0].Input = "" }, "input is required"},
		{"unknown term", func(s *Scenario) { s.Steps[0].Term = "type" }, `unknown term kind "type"`},
		{"substitute without args", func(s *Scenario) { s.Steps[0] = step(OpSubstitute, "for<_> ^0.0") }, "args is required"},
		{"shift by zero", func(s *Scenario) { s.Steps[0] = step(OpShift, "^0.0") }, "amount must be non-zero"},
		{"equal without other", func(s *Scenario) { s.Steps[0] = step(OpEqual, "u32") }, "other is required for equal"},
		{"unify triple", func(s *Scenario) {
			s.Steps[0] = step(OpCanonicalize, "Implemented(?0: Copy)")
			s.Steps[0].Unify = [][]int{{0, 1, 2}}
		}, "want a pair of variables, got 3"},
		{"empty expect", func(s *Scenario) { s.Steps[0].Expect = &Expect{} }, "output or error is required"},
		{"assertion without type", func(s *Scenario) { s.Assertions = []Assertion{{Op: OpRender}} }, "type is required"},
		{"unknown assertion", func(s *Scenario) { s.Assertions = []Assertion{{Type: "final_state"}} }, `unknown assertion type "final_state"`},
		{"trace_contains without op", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertTraceContains}} }, "op is required for trace_contains"},
		{"trace_order without ops", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertTraceOrder}} }, "ops list is required"},
		{"negative count", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertTraceCount, Op: OpRender, Count: -1}}
		}, "count must be non-negative"},
		{"same_key with one step", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertSameKey, Steps: []string{"a"}}}
		}, "at least two steps"},
		{"distinct_keys unknown step", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertDistinctKeys, Steps: []string{"a", "z"}}}
		}, `unknown step "z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsScenarioFile(t *testing.T) {
	assert.True(t, IsScenarioFile("a.yaml"))
	assert.True(t, IsScenarioFile("dir/b.yml"))
	assert.True(t, IsScenarioFile("c.cue"))
	assert.False(t, IsScenarioFile("d.golden"))
	assert.False(t, IsScenarioFile("README.md"))
}

func TestParseItemKind(t *testing.T) {
	for _, name := range []string{"adt", "trait", "assoc_type", "opaque_ty", "fn_def", "closure", "generator", "foreign"} {
		kind, ok := ParseItemKind(name)
		require.True(t, ok, name)
		assert.Equal(t, name, kind.String())
	}
	_, ok := ParseItemKind("struct")
	assert.False(t, ok)
}
