package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/traitir/internal/canon"
	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/syntax"
)

// Error codes reported for steps that fail outside the solve error
// vocabulary.
const (
	CodeParse = "PARSE"
	CodePanic = "PANIC"
	CodeError = "ERROR"
)

// PanicError is a recovered contract violation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorCode classifies a step error: the SolveError code, PARSE for
// fixture syntax errors, PANIC for contract violations and ERROR for
// anything else.
func ErrorCode(err error) string {
	var solveErr *ir.SolveError
	var parseErr *syntax.ParseError
	var lexErr *syntax.LexError
	var panicErr *PanicError
	switch {
	case errors.As(err, &solveErr):
		return string(solveErr.Code)
	case errors.As(err, &parseErr), errors.As(err, &lexErr):
		return CodeParse
	case errors.As(err, &panicErr):
		return CodePanic
	}
	return CodeError
}

// outcome is what a successful step produced.
type outcome struct {
	output string
	subst  string
	back   string
	key    ir.CacheKey
}

// session executes steps against one interner. Item names persist
// across the steps of a scenario.
type session struct {
	in        ir.Interner
	parser    *syntax.Parser
	tableOpts []canon.TableOption
	logger    *slog.Logger
}

func newSession(in ir.Interner, syms *syntax.Symbols, logger *slog.Logger, tableOpts ...canon.TableOption) *session {
	return &session{
		in:        in,
		parser:    syntax.NewParser(in, syms),
		tableOpts: append(slices.Clone(tableOpts), canon.WithLogger(logger)),
		logger:    logger,
	}
}

func (s *session) render(v any) string {
	return ir.RenderWith(s.in, s.parser.Symbols(), v)
}

// exec runs one step. Panics from the term layer are contract
// violations; they are reported as PANIC errors instead of aborting the
// scenario.
func (s *session) exec(step Step) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = outcome{}, &PanicError{Value: r}
		}
	}()

	switch step.Op {
	case OpRender:
		return s.renderTerm(step)
	case OpCanonicalize:
		return s.canonicalize(step)
	case OpUCanonicalize:
		return s.ucanonicalize(step)
	case OpInstantiate:
		return s.instantiate(step)
	case OpRoundTrip:
		return s.roundTrip(step)
	case OpKey:
		return s.key(step)
	case OpSubstitute:
		return s.substitute(step)
	case OpShift:
		return s.shift(step)
	case OpEqual, OpCouldMatch:
		return s.compare(step)
	case OpMaxUniverse:
		return s.maxUniverse(step)
	case OpCheckUniverses:
		return s.checkUniverses(step)
	case OpClosedGoal, OpPeeledGoal:
		return s.intoGoal(step)
	}
	return outcome{}, fmt.Errorf("unknown op %q", step.Op)
}

// term parses src as the step's term kind, or as def when the step
// names none.
func (s *session) term(kind, def, src string) (any, error) {
	return parseTerm(s.parser, kind, def, src)
}

func parseTerm(p *syntax.Parser, kind, def, src string) (any, error) {
	if kind == "" {
		kind = def
	}
	switch kind {
	case TermTy:
		return p.Ty(src)
	case TermArg:
		return p.Arg(src)
	case TermGoal:
		return p.Goal(src)
	case TermClause:
		return p.Clause(src)
	default:
		return p.Query(src)
	}
}

func (s *session) renderTerm(step Step) (outcome, error) {
	v, err := s.term(step.Term, TermQuery, step.Input)
	if err != nil {
		return outcome{}, err
	}
	return outcome{output: s.render(v)}, nil
}

func (s *session) canonicalize(step Step) (outcome, error) {
	q, err := s.parser.Query(step.Input)
	if err != nil {
		return outcome{}, err
	}
	kinds, err := s.parser.VarKinds(step.Vars)
	if err != nil {
		return outcome{}, fmt.Errorf("vars: %w", err)
	}

	t := canon.NewInferenceTable(s.in, s.tableOpts...)
	for _, k := range kinds {
		t.EnsureUniverse(k.Value)
		t.NewVariableOfKind(k.Kind, k.Value)
	}
	declared := func(v int) error {
		if v < 0 || v >= t.Len() {
			return fmt.Errorf("inference variable ?%d is not declared in vars", v)
		}
		return nil
	}
	for _, v := range ir.InferenceVars(s.in, q) {
		if err := declared(int(v)); err != nil {
			return outcome{}, err
		}
	}

	for _, pair := range step.Unify {
		for _, v := range pair {
			if err := declared(v); err != nil {
				return outcome{}, fmt.Errorf("unify: %w", err)
			}
		}
		if err := t.UnifyVars(ir.InferenceVar(pair[0]), ir.InferenceVar(pair[1])); err != nil {
			return outcome{}, fmt.Errorf("unify ?%d with ?%d: %w", pair[0], pair[1], err)
		}
	}

	names := make([]string, 0, len(step.Bind))
	for name := range step.Bind {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		v, err := strconv.Atoi(strings.TrimPrefix(name, "?"))
		if err != nil || !strings.HasPrefix(name, "?") {
			return outcome{}, fmt.Errorf("bind: %q is not an inference variable", name)
		}
		if err := declared(v); err != nil {
			return outcome{}, fmt.Errorf("bind: %w", err)
		}
		arg, err := s.parser.Arg(step.Bind[name])
		if err != nil {
			return outcome{}, fmt.Errorf("bind %s: %w", name, err)
		}
		if err := t.Bind(ir.InferenceVar(v), arg); err != nil {
			return outcome{}, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	uc, free := canon.CanonicalizeGoal(t, q)
	key := ir.KeyOf(s.in, uc.Quantified)
	s.logger.Debug("canonicalized query",
		"session", t.Session(),
		"slots", len(free),
		"universes", uc.Quantified.Universes,
		"key", key.Short(),
	)
	return outcome{
		output: s.render(uc.Quantified),
		subst:  renderVars(free),
		key:    key,
	}, nil
}

// renderVars writes the variables canonical slots stand for, in slot
// order.
func renderVars(vars []ir.WithKind[ir.InferenceVar]) string {
	var b strings.Builder
	b.WriteString("[")
	for i, v := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		if v.Kind.Class == ir.ClassLifetime {
			b.WriteString("'")
		}
		fmt.Fprintf(&b, "?%d", v.Value)
	}
	b.WriteString("]")
	return b.String()
}

func (s *session) ucanonicalize(step Step) (outcome, error) {
	c, err := s.parser.Canonical(step.Input)
	if err != nil {
		return outcome{}, err
	}
	u := canon.UCanonicalize(s.in, c)
	back := canon.MapFromCanonical(s.in, u.UniverseMap, u.Quantified.Canonical)
	return outcome{
		output: s.render(u.Quantified),
		back:   s.render(back),
		key:    ir.KeyOf(s.in, u.Quantified),
	}, nil
}

func (s *session) instantiate(step Step) (outcome, error) {
	uc, err := s.parser.UCanonical(step.Input)
	if err != nil {
		return outcome{}, err
	}
	t, subst, value := canon.FromCanonical(s.in, uc, s.tableOpts...)
	s.logger.Debug("instantiated query", "session", t.Session(), "vars", t.Len())
	return outcome{output: s.render(value), subst: s.render(subst)}, nil
}

func (s *session) roundTrip(step Step) (outcome, error) {
	uc, err := s.parser.UCanonical(step.Input)
	if err != nil {
		return outcome{}, err
	}
	t, _, value := canon.FromCanonical(s.in, uc, s.tableOpts...)
	again, _ := canon.CanonicalizeGoal(t, value)
	out := outcome{output: s.render(again.Quantified), key: ir.KeyOf(s.in, again.Quantified)}
	if !ir.Equal(s.in, uc, again.Quantified) {
		return out, ir.NewMismatchError("ucanonical", "round trip of %s gave %s", s.render(uc), out.output)
	}
	return out, nil
}

func (s *session) key(step Step) (outcome, error) {
	uc, err := s.parser.UCanonical(step.Input)
	if err != nil {
		return outcome{}, err
	}
	key := ir.KeyOf(s.in, uc)
	return outcome{output: key.Short(), key: key}, nil
}

func (s *session) substitute(step Step) (outcome, error) {
	b, err := s.parser.BindersTy(step.Input)
	if err != nil {
		return outcome{}, err
	}
	args, err := s.parser.Subst(step.Args)
	if err != nil {
		return outcome{}, fmt.Errorf("args: %w", err)
	}
	return outcome{output: s.render(b.Substitute(s.in, args))}, nil
}

func (s *session) shift(step Step) (outcome, error) {
	v, err := s.term(step.Term, TermTy, step.Input)
	if err != nil {
		return outcome{}, err
	}
	var shifted any
	switch v := v.(type) {
	case ir.Ty:
		shifted, err = shiftBy(s.in, v, step.Amount)
	case ir.GenericArg:
		shifted, err = shiftBy(s.in, v, step.Amount)
	case ir.Goal:
		shifted, err = shiftBy(s.in, v, step.Amount)
	case ir.ProgramClause:
		shifted, err = shiftBy(s.in, v, step.Amount)
	case ir.InEnvironment[ir.Goal]:
		shifted, err = shiftBy(s.in, v, step.Amount)
	}
	if err != nil {
		return outcome{}, err
	}
	return outcome{output: s.render(shifted)}, nil
}

func shiftBy[T any](in ir.Interner, v T, amount int) (T, error) {
	if amount > 0 {
		return ir.ShiftedInFrom(in, v, ir.DebruijnIndex(amount)), nil
	}
	return ir.ShiftedOutTo(in, v, ir.DebruijnIndex(-amount))
}

func (s *session) compare(step Step) (outcome, error) {
	a, err := s.term(step.Term, TermTy, step.Input)
	if err != nil {
		return outcome{}, err
	}
	b, err := s.term(step.Term, TermTy, step.Other)
	if err != nil {
		return outcome{}, fmt.Errorf("other: %w", err)
	}

	var ok bool
	switch a := a.(type) {
	case ir.Ty:
		ok = compareTerms(s.in, step.Op, a, b.(ir.Ty))
	case ir.GenericArg:
		ok = compareTerms(s.in, step.Op, a, b.(ir.GenericArg))
	case ir.Goal:
		ok = compareTerms(s.in, step.Op, a, b.(ir.Goal))
	case ir.ProgramClause:
		ok = compareTerms(s.in, step.Op, a, b.(ir.ProgramClause))
	case ir.InEnvironment[ir.Goal]:
		ok = compareTerms(s.in, step.Op, a, b.(ir.InEnvironment[ir.Goal]))
	}
	return outcome{output: strconv.FormatBool(ok)}, nil
}

func compareTerms[T any](in ir.Interner, op string, a, b T) bool {
	if op == OpCouldMatch {
		return ir.CouldMatch(in, nil, a, b)
	}
	return ir.Equal(in, a, b)
}

func (s *session) maxUniverse(step Step) (outcome, error) {
	v, err := s.term(step.Term, TermQuery, step.Input)
	if err != nil {
		return outcome{}, err
	}
	var u ir.UniverseIndex
	switch v := v.(type) {
	case ir.Ty:
		u = ir.MaxUniverse(s.in, v)
	case ir.GenericArg:
		u = ir.MaxUniverse(s.in, v)
	case ir.Goal:
		u = ir.MaxUniverse(s.in, v)
	case ir.ProgramClause:
		u = ir.MaxUniverse(s.in, v)
	case ir.InEnvironment[ir.Goal]:
		u = ir.MaxUniverse(s.in, v)
	}
	return outcome{output: u.String()}, nil
}

func (s *session) checkUniverses(step Step) (outcome, error) {
	q, err := s.parser.Query(step.Input)
	if err != nil {
		return outcome{}, err
	}
	if err := ir.CheckUniverses(s.in, q.Environment, q.Goal); err != nil {
		return outcome{}, err
	}
	return outcome{output: "ok"}, nil
}

func (s *session) intoGoal(step Step) (outcome, error) {
	g, err := s.parser.Goal(step.Input)
	if err != nil {
		return outcome{}, err
	}
	var uc ir.UCanonical[ir.InEnvironment[ir.Goal]]
	if step.Op == OpClosedGoal {
		if vars := ir.InferenceVars(s.in, g); len(vars) > 0 {
			return outcome{}, fmt.Errorf("closed goal mentions inference variable ?%d", vars[0])
		}
		uc = ir.IntoClosedGoal(s.in, g)
	} else {
		uc = ir.IntoPeeledGoal(s.in, g)
	}
	return outcome{output: s.render(uc), key: ir.KeyOf(s.in, uc)}, nil
}
