package harness

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/traitir/internal/interner"
	"github.com/roach88/traitir/internal/syntax"
)

// Lint parses every term a scenario mentions without executing any
// step. It returns one message per malformed term, so a scenario can be
// checked for fixture notation errors before it is run. Steps that expect
// a PARSE error are skipped.
func Lint(s *Scenario) []string {
	h := &Harness{scenario: s}
	syms, err := h.symbols()
	if err != nil {
		return []string{err.Error()}
	}
	p := syntax.NewParser(interner.NewHashCons(), syms)

	var errs []string
	report := func(step Step, field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Sprintf("step %s: %s: %v", step.ID, field, err))
		}
	}
	for _, step := range s.Steps {
		if step.Expect != nil && step.Expect.Error == CodeParse {
			continue
		}
		report(step, "input", lintInput(p, step))
		switch step.Op {
		case OpSubstitute:
			_, err := p.Subst(step.Args)
			report(step, "args", err)
		case OpEqual, OpCouldMatch:
			_, err := parseTerm(p, step.Term, TermTy, step.Other)
			report(step, "other", err)
		case OpCanonicalize:
			_, err := p.VarKinds(step.Vars)
			report(step, "vars", err)
			for _, name := range slices.Sorted(maps.Keys(step.Bind)) {
				_, err := p.Arg(step.Bind[name])
				report(step, "bind "+name, err)
			}
		}
	}
	return errs
}

func lintInput(p *syntax.Parser, step Step) error {
	var err error
	switch step.Op {
	case OpCanonicalize, OpCheckUniverses:
		_, err = p.Query(step.Input)
	case OpUCanonicalize:
		_, err = p.Canonical(step.Input)
	case OpInstantiate, OpRoundTrip, OpKey:
		_, err = p.UCanonical(step.Input)
	case OpSubstitute:
		_, err = p.BindersTy(step.Input)
	case OpClosedGoal, OpPeeledGoal:
		_, err = p.Goal(step.Input)
	case OpShift, OpEqual, OpCouldMatch:
		_, err = parseTerm(p, step.Term, TermTy, step.Input)
	default:
		_, err = parseTerm(p, step.Term, TermQuery, step.Input)
	}
	return err
}
