package ir

import "fmt"

// Upcasts between the narrow wrappers and the wider term kinds. Each is
// total: a narrower value always has exactly one representation in the
// wider kind.

func (w Implemented) ToDomainGoal() DomainGoal      { return DomainHolds{Clause: w} }
func (w AliasEq) ToDomainGoal() DomainGoal          { return DomainHolds{Clause: w} }
func (w LifetimeOutlives) ToDomainGoal() DomainGoal { return DomainHolds{Clause: w} }
func (w TypeOutlives) ToDomainGoal() DomainGoal     { return DomainHolds{Clause: w} }

func (w Implemented) ToGoal(in Interner) Goal      { return HoldsGoal(in, w) }
func (w AliasEq) ToGoal(in Interner) Goal          { return HoldsGoal(in, w) }
func (w LifetimeOutlives) ToGoal(in Interner) Goal { return HoldsGoal(in, w) }
func (w TypeOutlives) ToGoal(in Interner) Goal     { return HoldsGoal(in, w) }

// ToWhereClause states that the trait reference is implemented.
func (t TraitRef) ToWhereClause() WhereClause { return Implemented{TraitRef: t} }

// ToDomainGoal is Holds(Implemented(t)).
func (t TraitRef) ToDomainGoal() DomainGoal { return t.ToWhereClause().ToDomainGoal() }

// ToGoal interns Holds(Implemented(t)).
func (t TraitRef) ToGoal(in Interner) Goal { return t.ToWhereClause().ToGoal(in) }

// WellFormed is WellFormed(t).
func (t TraitRef) WellFormed() DomainGoal { return DomainWellFormedTrait{TraitRef: t} }

// FromEnv is FromEnv(t).
func (t TraitRef) FromEnv() DomainGoal { return DomainFromEnvTrait{TraitRef: t} }

// ToGoal interns the equality goal.
func (e EqGoal) ToGoal(in Interner) Goal { return NewGoal(in, e) }

// ToGoal interns the subtyping goal.
func (s SubtypeGoal) ToGoal(in Interner) Goal { return NewGoal(in, s) }

// ToGenericArg wraps the type as an argument.
func (t Ty) ToGenericArg(in Interner) GenericArg { return NewGenericArg(in, t) }

// ToGenericArg wraps the lifetime as an argument.
func (l Lifetime) ToGenericArg(in Interner) GenericArg { return NewGenericArg(in, l) }

// ToGenericArg wraps the constant as an argument.
func (c Const) ToGenericArg(in Interner) GenericArg { return NewGenericArg(in, c) }

// ToGenericArg wraps the opaque type as an argument.
func (o OpaqueTy) ToGenericArg(in Interner) GenericArg { return o.ToTy(in).ToGenericArg(in) }

// ToTy interns the scalar type.
func (s Scalar) ToTy(in Interner) Ty { return NewTy(in, s) }

// ToProgramClause interns the implication under an empty binder, shifting
// it in so references to enclosing binders keep their meaning.
func (i ProgramClauseImplication) ToProgramClause(in Interner) ProgramClause {
	return NewProgramClause(in, EmptyBinders(in, ShiftedIn(in, i)))
}

// ToGoal converts a value under binders into forall<kinds> { value }. An
// empty binder is dropped and its body shifted out.
func (b Binders[T]) ToGoal(in Interner) Goal {
	if b.Len(in) == 0 {
		value, err := ShiftedOut(in, b.Value)
		if err != nil {
			panic("ir: empty binder refers to itself: " + err.Error())
		}
		return ToGoal(in, value)
	}
	return NewGoal(in, GoalQuantified{Kind: ForAll, Binders: MapBinders(b, func(v T) Goal {
		return ToGoal(in, v)
	})})
}

// ToProgramClause converts forall<kinds> { consequence } into a clause.
// The value must be a DomainGoal, WhereClause, TraitRef or
// ProgramClauseImplication.
func (b Binders[T]) ToProgramClause(in Interner) ProgramClause {
	return NewProgramClause(in, MapBinders(b, func(v T) ProgramClauseImplication {
		return toImplication(in, v)
	}))
}

// ToGoal upcasts any goal-like value. Supported are Goal, GoalData and its
// variants, WhereClause, TraitRef and Binders of those.
func ToGoal(in Interner, v any) Goal {
	switch x := v.(type) {
	case Goal:
		return x
	case interface{ ToGoal(Interner) Goal }:
		return x.ToGoal(in)
	case GoalData:
		return NewGoal(in, x)
	}
	panic(fmt.Sprintf("ir: cannot cast %T to a goal", v))
}

func toImplication(in Interner, v any) ProgramClauseImplication {
	var consequence DomainGoal
	switch x := v.(type) {
	case ProgramClauseImplication:
		return x
	case DomainGoal:
		consequence = x
	case WhereClause:
		consequence = x.ToDomainGoal()
	case TraitRef:
		consequence = x.ToDomainGoal()
	default:
		panic(fmt.Sprintf("ir: cannot cast %T to a program clause", v))
	}
	return ProgramClauseImplication{
		Consequence: consequence,
		Conditions:  NewGoals(in),
		Constraints: NewConstraints(in),
		Priority:    PriorityHigh,
	}
}

// CastAll converts every element with conv.
func CastAll[S, T any](in Interner, xs []S, conv func(S, Interner) T) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = conv(x, in)
	}
	return out
}
