package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint_ScenarioFilesAreClean(t *testing.T) {
	paths, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err)
		assert.Empty(t, Lint(scenario), path)
	}
}

func TestLint_ReportsEveryMalformedTerm(t *testing.T) {
	scenario := &Scenario{
		Name:        "lint",
		Description: "malformed terms",
		Items:       map[string][]string{"trait": {"Copy"}},
		Steps: []Step{
			{ID: "a", Op: OpRender, Term: TermTy, Input: "(u32"},
			{ID: "b", Op: OpSubstitute, Input: "for<_> ^0.0", Args: "[u32"},
			{ID: "c", Op: OpEqual, Input: "u32", Other: "&u32"},
			{ID: "d", Op: OpCanonicalize, Input: "Implemented(?0: Copy)", Vars: "ty X0", Bind: map[string]string{"?0": "Vec<"}},
			{ID: "e", Op: OpKey, Input: "canonical<> { CannotProve }"},
			{ID: "f", Op: OpRender, Input: "Implemented(", Expect: &Expect{Error: CodeParse}},
		},
	}

	errs := Lint(scenario)
	require.Len(t, errs, 6, "%v", errs)
	assert.Contains(t, errs[0], "step a: input:")
	assert.Contains(t, errs[1], "step b: args:")
	assert.Contains(t, errs[2], "step c: other:")
	assert.Contains(t, errs[3], "step d: vars:")
	assert.Contains(t, errs[4], "step d: bind ?0:")
	assert.Contains(t, errs[5], "step e: input:")
}

func TestLint_UnknownItemKind(t *testing.T) {
	scenario := &Scenario{
		Name:  "kinds",
		Items: map[string][]string{"struct": {"Vec"}},
		Steps: []Step{{ID: "a", Op: OpRender, Term: TermTy, Input: "u32"}},
	}
	assert.Equal(t, []string{`unknown item kind "struct"`}, Lint(scenario))
}
