package harness

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed scenario.cue
var scenarioSchema string

// ScenarioError is a CUE scenario that failed to compile or does not
// satisfy the scenario schema.
type ScenarioError struct {
	Message string
	Pos     token.Pos
}

func (e *ScenarioError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// ParseScenarioCUE compiles a CUE scenario, unifies it with the
// #Scenario schema and decodes it. The schema is closed, so unknown
// fields are rejected just as they are for YAML. filename is used in
// error positions.
func ParseScenarioCUE(filename string, data []byte) (*Scenario, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var scenario Scenario
	if err := unified.Decode(&scenario); err != nil {
		return nil, formatCUEError(err)
	}
	return &scenario, nil
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	scenarioErr := &ScenarioError{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		scenarioErr.Pos = positions[0]
	}
	return scenarioErr
}
