package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/traitir/internal/ir"
)

// Scenario is a conformance scenario: a sequence of operations on terms
// written in fixture notation, each with an optional expected outcome,
// followed by assertions over the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// Session fixes the inference table session id for deterministic
	// traces. If empty, testutil.DefaultSession is used.
	Session string `yaml:"session,omitempty" json:"session,omitempty"`

	// Interners lists the interner strategies to run under. Every
	// strategy must produce the same trace. Defaults to all of them.
	Interners []string `yaml:"interners,omitempty" json:"interners,omitempty"`

	// Items declares item names per namespace, in id order, so they
	// render by name. Keys are item kinds: adt, trait, assoc_type, ...
	Items map[string][]string `yaml:"items,omitempty" json:"items,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps" json:"steps"`

	// Assertions validate the final trace.
	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// Step is one operation applied to a term.
type Step struct {
	// ID labels the step for assertions. Defaults to "step<n>", 1-based.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`

	// Op names the operation, see the Op* constants.
	Op string `yaml:"op" json:"op"`

	// Term selects how Input and Other are parsed for operations that
	// accept several term kinds: ty, arg, goal, clause or query.
	Term string `yaml:"term,omitempty" json:"term,omitempty"`

	// Input is the operation's main term in fixture notation.
	Input string `yaml:"input" json:"input"`

	// Other is the second term of equal and could_match.
	Other string `yaml:"other,omitempty" json:"other,omitempty"`

	// Args is the substitution of substitute, e.g. "[u32, 'static]".
	Args string `yaml:"args,omitempty" json:"args,omitempty"`

	// Amount is the number of binder levels for shift. Negative values
	// shift out.
	Amount int `yaml:"amount,omitempty" json:"amount,omitempty"`

	// Vars declares the inference variables of canonicalize, e.g.
	// "ty U0, lifetime U1". Variable ?n gets the n-th kind.
	Vars string `yaml:"vars,omitempty" json:"vars,omitempty"`

	// Unify lists pairs of variables unified before canonicalizing.
	Unify [][]int `yaml:"unify,omitempty" json:"unify,omitempty"`

	// Bind maps variables, written "?n", to the generic argument they
	// are bound to before canonicalizing.
	Bind map[string]string `yaml:"bind,omitempty" json:"bind,omitempty"`

	// Expect specifies the expected outcome. If nil, only panics and
	// parse errors fail the step.
	Expect *Expect `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Expect specifies a step's expected outcome.
type Expect struct {
	// Output is the expected rendering of the result, with declared
	// items shown by name.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// Subst is the expected rendering of the substitution produced by
	// instantiate.
	Subst string `yaml:"subst,omitempty" json:"subst,omitempty"`

	// Back is the expected rendering of a ucanonicalize result mapped
	// back to the original universes.
	Back string `yaml:"back,omitempty" json:"back,omitempty"`

	// Error is the expected error code: a SolveError code, PARSE or
	// PANIC.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": some step of Op produced Output
	// - "trace_order": steps of Ops appear in this order
	// - "trace_count": Op appears exactly Count times
	// - "same_key": Steps all produced the same cache key
	// - "distinct_keys": Steps produced pairwise different cache keys
	Type string `yaml:"type" json:"type"`

	// Op is the operation name (trace_contains, trace_count).
	Op string `yaml:"op,omitempty" json:"op,omitempty"`

	// Output is the expected output (trace_contains).
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty" json:"ops,omitempty"`

	// Steps are the step ids compared by key assertions.
	Steps []string `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertSameKey       = "same_key"
	AssertDistinctKeys  = "distinct_keys"
)

// Operation names.
const (
	OpRender         = "render"
	OpCanonicalize   = "canonicalize"
	OpUCanonicalize  = "ucanonicalize"
	OpInstantiate    = "instantiate"
	OpRoundTrip      = "roundtrip"
	OpKey            = "key"
	OpSubstitute     = "substitute"
	OpShift          = "shift"
	OpEqual          = "equal"
	OpCouldMatch     = "could_match"
	OpMaxUniverse    = "max_universe"
	OpCheckUniverses = "check_universes"
	OpClosedGoal     = "closed_goal"
	OpPeeledGoal     = "peeled_goal"
)

// Term kinds.
const (
	TermTy     = "ty"
	TermArg    = "arg"
	TermGoal   = "goal"
	TermClause = "clause"
	TermQuery  = "query"
)

var termKinds = []string{TermTy, TermArg, TermGoal, TermClause, TermQuery}

// LoadScenario reads and parses a scenario file. Files ending in .cue
// are checked against the scenario schema; anything else is read as
// YAML. Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	if filepath.Ext(path) == ".cue" {
		scenario, err = ParseScenarioCUE(path, data)
	} else {
		scenario, err = ParseScenarioYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenarioYAML decodes a YAML scenario without validating it.
func ParseScenarioYAML(data []byte) (*Scenario, error) {
	// Reject unknown fields so typos like "assertion:" fail loudly.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// IsScenarioFile reports whether path has a scenario file extension.
func IsScenarioFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".cue":
		return true
	}
	return false
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, name := range s.Interners {
		if _, ok := interners[name]; !ok {
			return fmt.Errorf("unknown interner %q", name)
		}
	}
	for kind := range s.Items {
		if _, ok := ParseItemKind(kind); !ok {
			return fmt.Errorf("items: unknown item kind %q", kind)
		}
	}

	ids := make(map[string]bool)
	for i := range s.Steps {
		step := &s.Steps[i]
		if step.ID == "" {
			step.ID = fmt.Sprintf("step%d", i+1)
		}
		if ids[step.ID] {
			return fmt.Errorf("steps[%d]: duplicate id %q", i, step.ID)
		}
		ids[step.ID] = true
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, ids); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	if step.Input == "" {
		return fmt.Errorf("steps[%d]: input is required", index)
	}
	if step.Term != "" && !slices.Contains(termKinds, step.Term) {
		return fmt.Errorf("steps[%d]: unknown term kind %q (want one of %s)", index, step.Term, strings.Join(termKinds, ", "))
	}

	switch step.Op {
	case OpRender, OpCanonicalize, OpUCanonicalize, OpInstantiate, OpRoundTrip, OpKey,
		OpMaxUniverse, OpCheckUniverses, OpClosedGoal, OpPeeledGoal:
	case OpSubstitute:
		if step.Args == "" {
			return fmt.Errorf("steps[%d]: args is required for substitute", index)
		}
	case OpShift:
		if step.Amount == 0 {
			return fmt.Errorf("steps[%d]: amount must be non-zero for shift", index)
		}
	case OpEqual, OpCouldMatch:
		if step.Other == "" {
			return fmt.Errorf("steps[%d]: other is required for %s", index, step.Op)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	for j, pair := range step.Unify {
		if len(pair) != 2 {
			return fmt.Errorf("steps[%d].unify[%d]: want a pair of variables, got %d", index, j, len(pair))
		}
	}
	if step.Expect != nil && *step.Expect == (Expect{}) {
		return fmt.Errorf("steps[%d].expect: output or error is required", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, ids map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertSameKey, AssertDistinctKeys:
		if len(a.Steps) < 2 {
			return fmt.Errorf("assertions[%d]: at least two steps are required for %s", index, a.Type)
		}
		for _, id := range a.Steps {
			if !ids[id] {
				return fmt.Errorf("assertions[%d]: unknown step %q", index, id)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// ParseItemKind returns the item kind with the given name, such as "adt" or
// "trait".
func ParseItemKind(name string) (ir.ItemKind, bool) {
	for k := ir.ItemAdt; k <= ir.ItemForeign; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
