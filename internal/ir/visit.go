package ir

import "fmt"

// ControlFlow tells a traversal whether to keep going.
type ControlFlow bool

const (
	Continue ControlFlow = false
	Break    ControlFlow = true
)

// IsBreak reports whether the traversal should stop.
func (c ControlFlow) IsBreak() bool { return c == Break }

// Visitor inspects a term without rebuilding it. Like Folder, it sees only
// the variable-carrying leaves; free bound variables arrive shifted out by
// outer. Results are accumulated in the visitor's own state.
type Visitor interface {
	Interner() Interner

	VisitFreeVar(bv BoundVar, outer DebruijnIndex) ControlFlow
	VisitFreePlaceholder(idx PlaceholderIndex, outer DebruijnIndex) ControlFlow
	VisitInferenceVar(v InferenceVar, outer DebruijnIndex) ControlFlow
}

// Optional overrides; each takes over a whole subtree.
type (
	TyVisitor interface {
		VisitTy(ty Ty, outer DebruijnIndex) ControlFlow
	}
	GoalVisitor interface {
		VisitGoal(g Goal, outer DebruijnIndex) ControlFlow
	}
	// UniverseVisitor sees the visible universe of each environment.
	UniverseVisitor interface {
		VisitUniverse(u UniverseIndex) ControlFlow
	}
)

// VisitorBase continues at every leaf.
type VisitorBase struct {
	In Interner
}

func (b VisitorBase) Interner() Interner { return b.In }

func (VisitorBase) VisitFreeVar(BoundVar, DebruijnIndex) ControlFlow { return Continue }

func (VisitorBase) VisitFreePlaceholder(PlaceholderIndex, DebruijnIndex) ControlFlow {
	return Continue
}

func (VisitorBase) VisitInferenceVar(InferenceVar, DebruijnIndex) ControlFlow { return Continue }

// Visitable is implemented by every concrete term type.
type Visitable interface {
	VisitWith(v Visitor, outer DebruijnIndex) ControlFlow
}

// Visit walks any term, dispatching like Fold.
func Visit[T any](v Visitor, x T, outer DebruijnIndex) ControlFlow {
	if vx, ok := any(x).(Visitable); ok {
		return vx.VisitWith(v, outer)
	}
	switch p := any(&x).(type) {
	case *WhereClause:
		return VisitWhereClause(v, *p, outer)
	case *DomainGoal:
		return VisitDomainGoal(v, *p, outer)
	case *AliasTy:
		return VisitAliasTy(v, *p, outer)
	case *Constraint:
		return VisitConstraint(v, *p, outer)
	}
	panic(fmt.Sprintf("ir: %T is not visitable", x))
}

func visitList[E any](xs []E, visit func(E) ControlFlow) ControlFlow {
	for _, x := range xs {
		if visit(x).IsBreak() {
			return Break
		}
	}
	return Continue
}

func visitEach(visits ...func() ControlFlow) ControlFlow {
	for _, visit := range visits {
		if visit().IsBreak() {
			return Break
		}
	}
	return Continue
}

// VisitWith walks the type, deferring to a TyVisitor when v is one.
func (t Ty) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	if tv, ok := v.(TyVisitor); ok {
		return tv.VisitTy(t, outer)
	}
	return SuperVisitTy(v, t, outer)
}

// SuperVisitTy is the default walk of a type.
func SuperVisitTy(v Visitor, ty Ty, outer DebruijnIndex) ControlFlow {
	in := v.Interner()
	switch k := ty.Kind(in).(type) {
	case TyBoundVar:
		if bv, ok := k.Var.ShiftedOutTo(outer); ok {
			return v.VisitFreeVar(bv, outer)
		}
		return Continue
	case TyPlaceholder:
		return v.VisitFreePlaceholder(k.Index, outer)
	case TyInferenceVar:
		return v.VisitInferenceVar(k.Var, outer)
	case TyAdt:
		return k.Substitution.VisitWith(v, outer)
	case TyAssociatedType:
		return k.Substitution.VisitWith(v, outer)
	case TyTuple:
		return k.Substitution.VisitWith(v, outer)
	case TyOpaqueType:
		return k.Substitution.VisitWith(v, outer)
	case TyFnDef:
		return k.Substitution.VisitWith(v, outer)
	case TyClosure:
		return k.Substitution.VisitWith(v, outer)
	case TyGenerator:
		return k.Substitution.VisitWith(v, outer)
	case TyGeneratorWitness:
		return k.Substitution.VisitWith(v, outer)
	case TyArray:
		return visitEach(
			func() ControlFlow { return k.Ty.VisitWith(v, outer) },
			func() ControlFlow { return k.Len.VisitWith(v, outer) },
		)
	case TySlice:
		return k.Ty.VisitWith(v, outer)
	case TyRaw:
		return k.Ty.VisitWith(v, outer)
	case TyRef:
		return visitEach(
			func() ControlFlow { return k.Lifetime.VisitWith(v, outer) },
			func() ControlFlow { return k.Ty.VisitWith(v, outer) },
		)
	case FnPointer:
		return k.Substitution.VisitWith(v, outer.ShiftedIn())
	case DynTy:
		return visitEach(
			func() ControlFlow { return k.Bounds.VisitWith(v, outer) },
			func() ControlFlow { return k.Lifetime.VisitWith(v, outer) },
		)
	case TyAlias:
		return VisitAliasTy(v, k.Alias, outer)
	default:
		return Continue
	}
}

// VisitWith walks the lifetime.
func (l Lifetime) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	switch d := l.Data(v.Interner()).(type) {
	case LifetimeBoundVar:
		if bv, ok := d.Var.ShiftedOutTo(outer); ok {
			return v.VisitFreeVar(bv, outer)
		}
	case LifetimePlaceholder:
		return v.VisitFreePlaceholder(d.Index, outer)
	case LifetimeInferenceVar:
		return v.VisitInferenceVar(d.Var, outer)
	}
	return Continue
}

// VisitWith walks the constant's type, then its value.
func (c Const) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	data := c.Data(v.Interner())
	if data.Ty.VisitWith(v, outer).IsBreak() {
		return Break
	}
	switch val := data.Value.(type) {
	case ConstBoundVar:
		if bv, ok := val.Var.ShiftedOutTo(outer); ok {
			return v.VisitFreeVar(bv, outer)
		}
	case ConstPlaceholder:
		return v.VisitFreePlaceholder(val.Index, outer)
	case ConstInferenceVar:
		return v.VisitInferenceVar(val.Var, outer)
	}
	return Continue
}

// VisitWith walks the argument.
func (a GenericArg) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	switch d := a.Data(v.Interner()).(type) {
	case Ty:
		return d.VisitWith(v, outer)
	case Lifetime:
		return d.VisitWith(v, outer)
	case Const:
		return d.VisitWith(v, outer)
	}
	return Continue
}

// VisitWith walks every argument.
func (s Substitution) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitList(s.AsSlice(v.Interner()), func(a GenericArg) ControlFlow {
		return a.VisitWith(v, outer)
	})
}

// VisitWith walks the goal, deferring to a GoalVisitor when v is one.
func (g Goal) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	if gv, ok := v.(GoalVisitor); ok {
		return gv.VisitGoal(g, outer)
	}
	return SuperVisitGoal(v, g, outer)
}

// SuperVisitGoal is the default walk of a goal.
func SuperVisitGoal(v Visitor, g Goal, outer DebruijnIndex) ControlFlow {
	switch d := g.Data(v.Interner()).(type) {
	case GoalQuantified:
		return d.Binders.VisitWith(v, outer)
	case GoalImplies:
		return visitEach(
			func() ControlFlow { return d.Clauses.VisitWith(v, outer) },
			func() ControlFlow { return d.Goal.VisitWith(v, outer) },
		)
	case GoalAll:
		return d.Goals.VisitWith(v, outer)
	case GoalAny:
		return d.Goals.VisitWith(v, outer)
	case GoalNot:
		return d.Goal.VisitWith(v, outer)
	case EqGoal:
		return visitEach(
			func() ControlFlow { return d.A.VisitWith(v, outer) },
			func() ControlFlow { return d.B.VisitWith(v, outer) },
		)
	case SubtypeGoal:
		return visitEach(
			func() ControlFlow { return d.A.VisitWith(v, outer) },
			func() ControlFlow { return d.B.VisitWith(v, outer) },
		)
	case GoalCannotProve:
		return Continue
	case DomainGoal:
		return VisitDomainGoal(v, d, outer)
	}
	return Continue
}

// VisitWith walks every goal.
func (g Goals) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitList(g.AsSlice(v.Interner()), func(x Goal) ControlFlow {
		return x.VisitWith(v, outer)
	})
}

// VisitDomainGoal walks a domain goal.
func VisitDomainGoal(v Visitor, g DomainGoal, outer DebruijnIndex) ControlFlow {
	switch d := g.(type) {
	case DomainHolds:
		return VisitWhereClause(v, d.Clause, outer)
	case DomainWellFormedTrait:
		return d.TraitRef.VisitWith(v, outer)
	case DomainWellFormedTy:
		return d.Ty.VisitWith(v, outer)
	case DomainFromEnvTrait:
		return d.TraitRef.VisitWith(v, outer)
	case DomainFromEnvTy:
		return d.Ty.VisitWith(v, outer)
	case DomainNormalize:
		return visitEach(
			func() ControlFlow { return VisitAliasTy(v, d.Alias, outer) },
			func() ControlFlow { return d.Ty.VisitWith(v, outer) },
		)
	case DomainIsLocal:
		return d.Ty.VisitWith(v, outer)
	case DomainIsUpstream:
		return d.Ty.VisitWith(v, outer)
	case DomainIsFullyVisible:
		return d.Ty.VisitWith(v, outer)
	case DomainLocalImplAllowed:
		return d.TraitRef.VisitWith(v, outer)
	case DomainDownstreamType:
		return d.Ty.VisitWith(v, outer)
	}
	return Continue
}

// VisitWhereClause walks a where-clause.
func VisitWhereClause(v Visitor, wc WhereClause, outer DebruijnIndex) ControlFlow {
	switch w := wc.(type) {
	case Implemented:
		return w.TraitRef.VisitWith(v, outer)
	case AliasEq:
		return visitEach(
			func() ControlFlow { return VisitAliasTy(v, w.Alias, outer) },
			func() ControlFlow { return w.Ty.VisitWith(v, outer) },
		)
	case LifetimeOutlives:
		return visitEach(
			func() ControlFlow { return w.A.VisitWith(v, outer) },
			func() ControlFlow { return w.B.VisitWith(v, outer) },
		)
	case TypeOutlives:
		return visitEach(
			func() ControlFlow { return w.Ty.VisitWith(v, outer) },
			func() ControlFlow { return w.Lifetime.VisitWith(v, outer) },
		)
	}
	return Continue
}

// VisitAliasTy walks an alias's arguments.
func VisitAliasTy(v Visitor, a AliasTy, outer DebruijnIndex) ControlFlow {
	switch x := a.(type) {
	case ProjectionTy:
		return x.Substitution.VisitWith(v, outer)
	case OpaqueTy:
		return x.Substitution.VisitWith(v, outer)
	}
	return Continue
}

// VisitConstraint walks a region constraint.
func VisitConstraint(v Visitor, c Constraint, outer DebruijnIndex) ControlFlow {
	switch x := c.(type) {
	case OutlivesConstraint:
		return visitEach(
			func() ControlFlow { return x.A.VisitWith(v, outer) },
			func() ControlFlow { return x.B.VisitWith(v, outer) },
		)
	case TypeOutlivesConstraint:
		return visitEach(
			func() ControlFlow { return x.Ty.VisitWith(v, outer) },
			func() ControlFlow { return x.Lifetime.VisitWith(v, outer) },
		)
	}
	return Continue
}

// VisitWith walks the trait's arguments.
func (t TraitRef) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return t.Substitution.VisitWith(v, outer)
}

// VisitWith walks the argument and return types.
func (s FnSubst) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return s.Substitution.VisitWith(v, outer)
}

// VisitWith walks the clause body under its binder.
func (c ProgramClause) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return c.Implication(v.Interner()).VisitWith(v, outer)
}

// VisitWith walks the consequence, conditions and constraints.
func (i ProgramClauseImplication) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitEach(
		func() ControlFlow { return VisitDomainGoal(v, i.Consequence, outer) },
		func() ControlFlow { return i.Conditions.VisitWith(v, outer) },
		func() ControlFlow { return i.Constraints.VisitWith(v, outer) },
	)
}

// VisitWith walks every clause.
func (c ProgramClauses) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitList(c.AsSlice(v.Interner()), func(x ProgramClause) ControlFlow {
		return x.VisitWith(v, outer)
	})
}

// VisitWith walks every where-clause.
func (q QuantifiedWhereClauses) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitList(q.AsSlice(v.Interner()), func(x QuantifiedWhereClause) ControlFlow {
		return x.VisitWith(v, outer)
	})
}

// VisitWith walks every constraint.
func (c Constraints) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitList(c.AsSlice(v.Interner()), func(x InEnvironment[Constraint]) ControlFlow {
		return x.VisitWith(v, outer)
	})
}

// VisitWith walks the types of const declarations.
func (k VariableKinds) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitList(k.AsSlice(v.Interner()), func(kind VariableKind) ControlFlow {
		if kind.Class != ClassConst {
			return Continue
		}
		return Visit(v, kind.ConstTy, outer)
	})
}

// VisitWith walks the declarations at the current level, then the value
// one binder level deeper.
func (b Binders[T]) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	if b.Kinds.VisitWith(v, outer).IsBreak() {
		return Break
	}
	return Visit(v, b.Value, outer.ShiftedIn())
}

// VisitWith walks the environment's universe and clauses.
func (e Environment) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	if uv, ok := v.(UniverseVisitor); ok && uv.VisitUniverse(e.Universe).IsBreak() {
		return Break
	}
	return e.Clauses.VisitWith(v, outer)
}

// VisitWith walks the environment, then the goal.
func (e InEnvironment[G]) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	if e.Environment.VisitWith(v, outer).IsBreak() {
		return Break
	}
	return Visit(v, e.Goal, outer)
}

// VisitWith walks the binder kinds' universes, then the value under the
// canonical binder.
func (c Canonical[T]) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	if uv, ok := v.(UniverseVisitor); ok {
		for _, k := range c.Binders.AsSlice(v.Interner()) {
			if uv.VisitUniverse(k.Value).IsBreak() {
				return Break
			}
		}
	}
	return Visit(v, c.Value, outer.ShiftedIn())
}

// VisitWith walks the canonical value.
func (u UCanonical[T]) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return u.Canonical.VisitWith(v, outer)
}

// VisitWith walks the substitution and constraints.
func (c ConstrainedSubst) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitEach(
		func() ControlFlow { return c.Subst.VisitWith(v, outer) },
		func() ControlFlow { return c.Constraints.VisitWith(v, outer) },
	)
}

// VisitWith walks the substitution, constraints and delayed goals.
func (a AnswerSubst) VisitWith(v Visitor, outer DebruijnIndex) ControlFlow {
	return visitEach(
		func() ControlFlow { return a.Subst.VisitWith(v, outer) },
		func() ControlFlow { return a.Constraints.VisitWith(v, outer) },
		func() ControlFlow { return a.DelayedGoals.VisitWith(v, outer) },
	)
}
