package ir

// Interner is the storage contract every term kind is built against.
//
// For each kind, InternX stores a payload and returns an opaque handle and
// XData resolves a handle back to its payload. Implementations may
// deduplicate equal payloads into a single handle, but nothing in this
// package relies on it: handle equality is only ever used as a fast path
// before a structural comparison.
//
// Slices returned by the *Data methods are shared with the interner and
// must not be modified. Implementations shared between goroutines must
// serialize interning themselves.
type Interner interface {
	InternTy(data TyData) Ty
	TyData(ty Ty) TyData

	InternLifetime(data LifetimeData) Lifetime
	LifetimeData(lt Lifetime) LifetimeData

	InternConst(data ConstData) Const
	ConstData(c Const) ConstData

	InternGenericArg(data GenericArgData) GenericArg
	GenericArgData(arg GenericArg) GenericArgData

	InternGoal(data GoalData) Goal
	GoalData(g Goal) GoalData

	InternGoals(data []Goal) Goals
	GoalsData(gs Goals) []Goal

	InternSubstitution(data []GenericArg) Substitution
	SubstitutionData(s Substitution) []GenericArg

	InternProgramClause(data ProgramClauseData) ProgramClause
	ProgramClauseData(c ProgramClause) ProgramClauseData

	InternProgramClauses(data []ProgramClause) ProgramClauses
	ProgramClausesData(cs ProgramClauses) []ProgramClause

	InternQuantifiedWhereClauses(data []QuantifiedWhereClause) QuantifiedWhereClauses
	QuantifiedWhereClausesData(qs QuantifiedWhereClauses) []QuantifiedWhereClause

	InternVariableKinds(data []VariableKind) VariableKinds
	VariableKindsData(ks VariableKinds) []VariableKind

	InternCanonicalVarKinds(data []CanonicalVarKind) CanonicalVarKinds
	CanonicalVarKindsData(ks CanonicalVarKinds) []CanonicalVarKind

	InternConstraints(data []InEnvironment[Constraint]) Constraints
	ConstraintsData(cs Constraints) []InEnvironment[Constraint]
}

// Handles. Each wraps whatever the interner returned; the zero value is
// not a valid handle.

// Ty is a handle to a TyData.
type Ty struct{ interned any }

// Lifetime is a handle to a LifetimeData.
type Lifetime struct{ interned any }

// Const is a handle to a ConstData.
type Const struct{ interned any }

// GenericArg is a handle to a GenericArgData.
type GenericArg struct{ interned any }

// Goal is a handle to a GoalData.
type Goal struct{ interned any }

// Goals is a handle to a list of goals.
type Goals struct{ interned any }

// Substitution is a handle to an ordered list of generic arguments.
type Substitution struct{ interned any }

// ProgramClause is a handle to a ProgramClauseData.
type ProgramClause struct{ interned any }

// ProgramClauses is a handle to a list of program clauses.
type ProgramClauses struct{ interned any }

// QuantifiedWhereClauses is a handle to a list of quantified where-clauses.
type QuantifiedWhereClauses struct{ interned any }

// VariableKinds is a handle to the kind list of a binder.
type VariableKinds struct{ interned any }

// CanonicalVarKinds is a handle to the kind list of a canonical binder.
type CanonicalVarKinds struct{ interned any }

// Constraints is a handle to a list of region constraints.
type Constraints struct{ interned any }

// Constructors used by Interner implementations.

func TyFromInterned(h any) Ty                     { return Ty{h} }
func LifetimeFromInterned(h any) Lifetime         { return Lifetime{h} }
func ConstFromInterned(h any) Const               { return Const{h} }
func GenericArgFromInterned(h any) GenericArg     { return GenericArg{h} }
func GoalFromInterned(h any) Goal                 { return Goal{h} }
func GoalsFromInterned(h any) Goals               { return Goals{h} }
func SubstitutionFromInterned(h any) Substitution { return Substitution{h} }
func ProgramClauseFromInterned(h any) ProgramClause {
	return ProgramClause{h}
}
func ProgramClausesFromInterned(h any) ProgramClauses {
	return ProgramClauses{h}
}
func QuantifiedWhereClausesFromInterned(h any) QuantifiedWhereClauses {
	return QuantifiedWhereClauses{h}
}
func VariableKindsFromInterned(h any) VariableKinds { return VariableKinds{h} }
func CanonicalVarKindsFromInterned(h any) CanonicalVarKinds {
	return CanonicalVarKinds{h}
}
func ConstraintsFromInterned(h any) Constraints { return Constraints{h} }

// Interned returns the interner's representation of the handle.
func (t Ty) Interned() any                     { return t.interned }
func (l Lifetime) Interned() any               { return l.interned }
func (c Const) Interned() any                  { return c.interned }
func (a GenericArg) Interned() any             { return a.interned }
func (g Goal) Interned() any                   { return g.interned }
func (g Goals) Interned() any                  { return g.interned }
func (s Substitution) Interned() any           { return s.interned }
func (c ProgramClause) Interned() any          { return c.interned }
func (c ProgramClauses) Interned() any         { return c.interned }
func (q QuantifiedWhereClauses) Interned() any { return q.interned }
func (k VariableKinds) Interned() any          { return k.interned }
func (k CanonicalVarKinds) Interned() any      { return k.interned }
func (c Constraints) Interned() any            { return c.interned }

// IsZero reports whether the handle was never interned.
func (t Ty) IsZero() bool { return t.interned == nil }

// List constructors and accessors.

// NewGoals interns a goal list.
func NewGoals(in Interner, goals ...Goal) Goals {
	return in.InternGoals(goals)
}

// AsSlice returns the goals. The slice must not be modified.
func (g Goals) AsSlice(in Interner) []Goal { return in.GoalsData(g) }

// Len returns the number of goals.
func (g Goals) Len(in Interner) int { return len(in.GoalsData(g)) }

// NewProgramClauses interns a clause list.
func NewProgramClauses(in Interner, clauses ...ProgramClause) ProgramClauses {
	return in.InternProgramClauses(clauses)
}

// AsSlice returns the clauses. The slice must not be modified.
func (c ProgramClauses) AsSlice(in Interner) []ProgramClause {
	return in.ProgramClausesData(c)
}

// Len returns the number of clauses.
func (c ProgramClauses) Len(in Interner) int { return len(in.ProgramClausesData(c)) }

// NewQuantifiedWhereClauses interns a where-clause list.
func NewQuantifiedWhereClauses(in Interner, clauses ...QuantifiedWhereClause) QuantifiedWhereClauses {
	return in.InternQuantifiedWhereClauses(clauses)
}

// AsSlice returns the where-clauses. The slice must not be modified.
func (q QuantifiedWhereClauses) AsSlice(in Interner) []QuantifiedWhereClause {
	return in.QuantifiedWhereClausesData(q)
}

// NewVariableKinds interns a binder kind list.
func NewVariableKinds(in Interner, kinds ...VariableKind) VariableKinds {
	return in.InternVariableKinds(kinds)
}

// AsSlice returns the kinds. The slice must not be modified.
func (k VariableKinds) AsSlice(in Interner) []VariableKind {
	return in.VariableKindsData(k)
}

// Len returns the number of declared slots.
func (k VariableKinds) Len(in Interner) int { return len(in.VariableKindsData(k)) }

// NewCanonicalVarKinds interns a canonical kind list.
func NewCanonicalVarKinds(in Interner, kinds ...CanonicalVarKind) CanonicalVarKinds {
	return in.InternCanonicalVarKinds(kinds)
}

// AsSlice returns the kinds. The slice must not be modified.
func (k CanonicalVarKinds) AsSlice(in Interner) []CanonicalVarKind {
	return in.CanonicalVarKindsData(k)
}

// Len returns the number of canonical slots.
func (k CanonicalVarKinds) Len(in Interner) int {
	return len(in.CanonicalVarKindsData(k))
}

// NewConstraints interns a constraint list.
func NewConstraints(in Interner, constraints ...InEnvironment[Constraint]) Constraints {
	return in.InternConstraints(constraints)
}

// AsSlice returns the constraints. The slice must not be modified.
func (c Constraints) AsSlice(in Interner) []InEnvironment[Constraint] {
	return in.ConstraintsData(c)
}

// Len returns the number of constraints.
func (c Constraints) Len(in Interner) int { return len(in.ConstraintsData(c)) }

// Len returns the number of where-clauses.
func (q QuantifiedWhereClauses) Len(in Interner) int {
	return len(in.QuantifiedWhereClausesData(q))
}
