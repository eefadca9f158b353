package ir

// GoalData is the closed set of goal variants. Every DomainGoal is also a
// GoalData.
type GoalData interface {
	isGoalData()
}

// QuantifierKind distinguishes forall from exists.
type QuantifierKind uint8

const (
	ForAll QuantifierKind = iota
	Exists
)

// String returns "forall" or "exists".
func (q QuantifierKind) String() string {
	if q == ForAll {
		return "forall"
	}
	return "exists"
}

// GoalQuantified is forall<..> { goal } or exists<..> { goal }.
type GoalQuantified struct {
	Kind    QuantifierKind
	Binders Binders[Goal]
}

// GoalImplies proves Goal with Clauses added to the environment.
type GoalImplies struct {
	Clauses ProgramClauses
	Goal    Goal
}

// GoalAll is a conjunction; the empty conjunction is trivially true.
type GoalAll struct {
	Goals Goals
}

// GoalAny is a disjunction; the empty disjunction is false.
type GoalAny struct {
	Goals Goals
}

// GoalNot is negation as failure.
type GoalNot struct {
	Goal Goal
}

// EqGoal requires two generic arguments to be equal.
type EqGoal struct {
	A GenericArg
	B GenericArg
}

// SubtypeGoal requires A to be a subtype of B.
type SubtypeGoal struct {
	A Ty
	B Ty
}

// GoalCannotProve is a goal that can never be proven or disproven.
type GoalCannotProve struct{}

func (GoalQuantified) isGoalData()  {}
func (GoalImplies) isGoalData()     {}
func (GoalAll) isGoalData()         {}
func (GoalAny) isGoalData()         {}
func (GoalNot) isGoalData()         {}
func (EqGoal) isGoalData()          {}
func (SubtypeGoal) isGoalData()     {}
func (GoalCannotProve) isGoalData() {}

// NewGoal interns a goal.
func NewGoal(in Interner, data GoalData) Goal {
	return in.InternGoal(data)
}

// Data resolves the handle.
func (g Goal) Data(in Interner) GoalData { return in.GoalData(g) }

// DomainGoal is a predicate whose meaning belongs to the solver. This
// layer only carries and traverses it.
type DomainGoal interface {
	GoalData
	isDomainGoal()
}

// DomainHolds states that a where-clause holds.
type DomainHolds struct{ Clause WhereClause }

// DomainWellFormedTrait states that a trait reference is well-formed.
type DomainWellFormedTrait struct{ TraitRef TraitRef }

// DomainWellFormedTy states that a type is well-formed.
type DomainWellFormedTy struct{ Ty Ty }

// DomainFromEnvTrait states that a trait reference is assumed by the
// environment.
type DomainFromEnvTrait struct{ TraitRef TraitRef }

// DomainFromEnvTy states that a type is assumed well-formed by the
// environment.
type DomainFromEnvTy struct{ Ty Ty }

// DomainNormalize states that Alias normalizes to Ty.
type DomainNormalize struct {
	Alias AliasTy
	Ty    Ty
}

// DomainIsLocal states that a type is local to the current crate.
type DomainIsLocal struct{ Ty Ty }

// DomainIsUpstream states that a type is from an upstream crate.
type DomainIsUpstream struct{ Ty Ty }

// DomainIsFullyVisible states that a type contains no type parameters.
type DomainIsFullyVisible struct{ Ty Ty }

// DomainLocalImplAllowed states that the orphan rules permit an impl of
// the trait reference.
type DomainLocalImplAllowed struct{ TraitRef TraitRef }

// DomainCompatible activates the compatible modality.
type DomainCompatible struct{}

// DomainDownstreamType states that a type may be defined downstream.
type DomainDownstreamType struct{ Ty Ty }

// DomainReveal allows opaque types to be revealed.
type DomainReveal struct{}

// DomainObjectSafe states that a trait is object safe.
type DomainObjectSafe struct{ TraitID TraitID }

func (DomainHolds) isGoalData()            {}
func (DomainWellFormedTrait) isGoalData()  {}
func (DomainWellFormedTy) isGoalData()     {}
func (DomainFromEnvTrait) isGoalData()     {}
func (DomainFromEnvTy) isGoalData()        {}
func (DomainNormalize) isGoalData()        {}
func (DomainIsLocal) isGoalData()          {}
func (DomainIsUpstream) isGoalData()       {}
func (DomainIsFullyVisible) isGoalData()   {}
func (DomainLocalImplAllowed) isGoalData() {}
func (DomainCompatible) isGoalData()       {}
func (DomainDownstreamType) isGoalData()   {}
func (DomainReveal) isGoalData()           {}
func (DomainObjectSafe) isGoalData()       {}

func (DomainHolds) isDomainGoal()            {}
func (DomainWellFormedTrait) isDomainGoal()  {}
func (DomainWellFormedTy) isDomainGoal()     {}
func (DomainFromEnvTrait) isDomainGoal()     {}
func (DomainFromEnvTy) isDomainGoal()        {}
func (DomainNormalize) isDomainGoal()        {}
func (DomainIsLocal) isDomainGoal()          {}
func (DomainIsUpstream) isDomainGoal()       {}
func (DomainIsFullyVisible) isDomainGoal()   {}
func (DomainLocalImplAllowed) isDomainGoal() {}
func (DomainCompatible) isDomainGoal()       {}
func (DomainDownstreamType) isDomainGoal()   {}
func (DomainReveal) isDomainGoal()           {}
func (DomainObjectSafe) isDomainGoal()       {}

// WhereClause is the closed set of predicates that appear both as
// hypotheses and as conclusions.
type WhereClause interface {
	isWhereClause()
	// ToDomainGoal wraps the clause in DomainHolds.
	ToDomainGoal() DomainGoal
	// ToGoal interns the clause as a goal.
	ToGoal(in Interner) Goal
}

// TraitRef is a trait applied to its self type and generic arguments; the
// self type is argument 0.
type TraitRef struct {
	TraitID      TraitID
	Substitution Substitution
}

// SelfTy returns argument 0.
func (t TraitRef) SelfTy(in Interner) Ty {
	return t.Substitution.At(in, 0).AssertTy(in)
}

// Implemented states that the trait reference holds.
type Implemented struct{ TraitRef TraitRef }

// AliasEq states that Alias is equal to Ty.
type AliasEq struct {
	Alias AliasTy
	Ty    Ty
}

// LifetimeOutlives states 'A: 'B.
type LifetimeOutlives struct {
	A Lifetime
	B Lifetime
}

// TypeOutlives states Ty: 'Lifetime.
type TypeOutlives struct {
	Ty       Ty
	Lifetime Lifetime
}

func (Implemented) isWhereClause()      {}
func (AliasEq) isWhereClause()          {}
func (LifetimeOutlives) isWhereClause() {}
func (TypeOutlives) isWhereClause()     {}

// QuantifiedWhereClause is a where-clause under its own binder.
type QuantifiedWhereClause = Binders[WhereClause]

// Quantify wraps g in a quantifier over kinds. With no kinds it returns g
// unchanged.
func Quantify(in Interner, g Goal, kind QuantifierKind, kinds VariableKinds) Goal {
	if kinds.Len(in) == 0 {
		return g
	}
	return NewGoal(in, GoalQuantified{Kind: kind, Binders: NewBinders(kinds, g)})
}

// Negate wraps g in not { g }.
func Negate(in Interner, g Goal) Goal {
	return NewGoal(in, GoalNot{Goal: g})
}

// CompatibleGoal desugars compatible { g } into
// forall<T> { if (Compatible; DownstreamType(T)) { g } }, activating the
// compatible modality and introducing an anonymous downstream type.
func CompatibleGoal(in Interner, g Goal) Goal {
	return NewGoal(in, GoalQuantified{
		Kind: ForAll,
		Binders: WithFreshTypeVar(in, func(ty Ty) Goal {
			clauses := NewProgramClauses(in,
				FactClause(in, DomainCompatible{}),
				FactClause(in, DomainDownstreamType{Ty: ty}),
			)
			return NewGoal(in, GoalImplies{Clauses: clauses, Goal: ShiftedIn(in, g)})
		}),
	})
}

// Implies wraps g in if (clauses) { g }.
func Implies(in Interner, clauses ProgramClauses, g Goal) Goal {
	return NewGoal(in, GoalImplies{Clauses: clauses, Goal: g})
}

// AllGoals builds the conjunction of goals. A single goal is returned
// unchanged.
func AllGoals(in Interner, goals ...Goal) Goal {
	if len(goals) == 1 {
		return goals[0]
	}
	return NewGoal(in, GoalAll{Goals: NewGoals(in, goals...)})
}

// AnyGoals builds the disjunction of goals. A single goal is returned
// unchanged.
func AnyGoals(in Interner, goals ...Goal) Goal {
	if len(goals) == 1 {
		return goals[0]
	}
	return NewGoal(in, GoalAny{Goals: NewGoals(in, goals...)})
}

// TrueGoal returns the empty conjunction.
func TrueGoal(in Interner) Goal {
	return NewGoal(in, GoalAll{Goals: NewGoals(in)})
}

// IsTriviallyTrue reports whether g is an empty conjunction.
func (g Goal) IsTriviallyTrue(in Interner) bool {
	all, ok := g.Data(in).(GoalAll)
	return ok && all.Goals.Len(in) == 0
}

// HoldsGoal interns a where-clause as a goal.
func HoldsGoal(in Interner, wc WhereClause) Goal {
	return NewGoal(in, DomainHolds{Clause: wc})
}
