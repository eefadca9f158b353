package ir

// Queries built on Visitor. Each uses the type flags to skip subtrees that
// cannot contain what it is looking for.

type freeVarFinder struct{ VisitorBase }

func (f freeVarFinder) VisitTy(ty Ty, outer DebruijnIndex) ControlFlow {
	if !ty.Flags(f.In).Intersects(FlagHasBoundVars) {
		return Continue
	}
	return SuperVisitTy(f, ty, outer)
}

func (freeVarFinder) VisitFreeVar(BoundVar, DebruijnIndex) ControlFlow { return Break }

// HasFreeVars reports whether v refers to a binder outside itself.
func HasFreeVars[T any](in Interner, v T) bool {
	return Visit(freeVarFinder{VisitorBase{In: in}}, v, Innermost).IsBreak()
}

type inferenceFinder struct{ VisitorBase }

func (f inferenceFinder) VisitTy(ty Ty, outer DebruijnIndex) ControlFlow {
	if !ty.Flags(f.In).Intersects(FlagsHasInfer) {
		return Continue
	}
	return SuperVisitTy(f, ty, outer)
}

func (inferenceFinder) VisitInferenceVar(InferenceVar, DebruijnIndex) ControlFlow { return Break }

// HasInferenceVars reports whether v contains an inference variable.
func HasInferenceVars[T any](in Interner, v T) bool {
	return Visit(inferenceFinder{VisitorBase{In: in}}, v, Innermost).IsBreak()
}

type placeholderFinder struct{ VisitorBase }

func (f placeholderFinder) VisitTy(ty Ty, outer DebruijnIndex) ControlFlow {
	if !ty.Flags(f.In).Intersects(FlagsHasPlaceholder) {
		return Continue
	}
	return SuperVisitTy(f, ty, outer)
}

func (placeholderFinder) VisitFreePlaceholder(PlaceholderIndex, DebruijnIndex) ControlFlow {
	return Break
}

// HasPlaceholders reports whether v contains a placeholder.
func HasPlaceholders[T any](in Interner, v T) bool {
	return Visit(placeholderFinder{VisitorBase{In: in}}, v, Innermost).IsBreak()
}

type inferenceCollector struct {
	VisitorBase
	seen map[InferenceVar]struct{}
	vars []InferenceVar
}

func (c *inferenceCollector) VisitInferenceVar(v InferenceVar, _ DebruijnIndex) ControlFlow {
	if _, ok := c.seen[v]; !ok {
		c.seen[v] = struct{}{}
		c.vars = append(c.vars, v)
	}
	return Continue
}

// InferenceVars lists the distinct inference variables of v in
// first-occurrence order.
func InferenceVars[T any](in Interner, v T) []InferenceVar {
	c := &inferenceCollector{VisitorBase: VisitorBase{In: in}, seen: map[InferenceVar]struct{}{}}
	Visit(c, v, Innermost)
	return c.vars
}

type maxUniverse struct {
	VisitorBase
	max UniverseIndex
}

func (m *maxUniverse) VisitFreePlaceholder(idx PlaceholderIndex, _ DebruijnIndex) ControlFlow {
	m.max = max(m.max, idx.UI)
	return Continue
}

// MaxUniverse returns the largest universe of any placeholder in v, or
// the root universe when v has none.
func MaxUniverse[T any](in Interner, v T) UniverseIndex {
	m := &maxUniverse{VisitorBase: VisitorBase{In: in}}
	Visit(m, v, Innermost)
	return m.max
}

type universeChecker struct {
	VisitorBase
	visible UniverseIndex
	err     error
}

func (c *universeChecker) VisitFreePlaceholder(idx PlaceholderIndex, _ DebruijnIndex) ControlFlow {
	if !c.visible.CanSee(idx.UI) {
		c.err = NewUniverseError(idx.UI, c.visible)
		return Break
	}
	return Continue
}

// CheckUniverses verifies that every placeholder in v is visible from the
// environment's universe. The error is an ESCAPING_PLACEHOLDER
// SolveError, which counts as NoSolution.
func CheckUniverses[T any](in Interner, env Environment, v T) error {
	c := &universeChecker{VisitorBase: VisitorBase{In: in}, visible: env.Universe}
	Visit(c, v, Innermost)
	return c.err
}
