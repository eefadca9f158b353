package ir

// ClausePriority breaks ties when several clauses match a goal.
type ClausePriority uint8

const (
	PriorityHigh ClausePriority = iota
	PriorityLow
)

// ProgramClauseData is a universally quantified Horn clause.
type ProgramClauseData struct {
	Implication Binders[ProgramClauseImplication]
}

// ProgramClauseImplication is consequence :- conditions. Constraints are
// region constraints that hold whenever the clause is used.
type ProgramClauseImplication struct {
	Consequence DomainGoal
	Conditions  Goals
	Constraints Constraints
	Priority    ClausePriority
}

// NewProgramClause interns a clause.
func NewProgramClause(in Interner, implication Binders[ProgramClauseImplication]) ProgramClause {
	return in.InternProgramClause(ProgramClauseData{Implication: implication})
}

// FactClause interns consequence as an unconditional clause with no
// binders. Bound variables in consequence refer to binders outside the
// clause.
func FactClause(in Interner, consequence DomainGoal) ProgramClause {
	return ProgramClauseImplication{
		Consequence: consequence,
		Conditions:  NewGoals(in),
		Constraints: NewConstraints(in),
		Priority:    PriorityHigh,
	}.ToProgramClause(in)
}

// Data resolves the handle.
func (c ProgramClause) Data(in Interner) ProgramClauseData { return in.ProgramClauseData(c) }

// Implication returns the clause body under its binder.
func (c ProgramClause) Implication(in Interner) Binders[ProgramClauseImplication] {
	return c.Data(in).Implication
}

// IsFact reports whether the clause has no conditions.
func (i ProgramClauseImplication) IsFact(in Interner) bool {
	return i.Conditions.Len(in) == 0
}

// Constraint is a region constraint produced by solving.
type Constraint interface {
	isConstraint()
}

// OutlivesConstraint requires 'A: 'B.
type OutlivesConstraint struct {
	A Lifetime
	B Lifetime
}

// TypeOutlivesConstraint requires Ty: 'Lifetime.
type TypeOutlivesConstraint struct {
	Ty       Ty
	Lifetime Lifetime
}

func (OutlivesConstraint) isConstraint()     {}
func (TypeOutlivesConstraint) isConstraint() {}

// ConstrainedSubst is a solution: values for the query's variables plus
// the region constraints they require.
type ConstrainedSubst struct {
	Subst       Substitution
	Constraints Constraints
}

// AnswerSubst is a solution that may still carry subgoals whose proof was
// delayed.
type AnswerSubst struct {
	Subst        Substitution
	Constraints  Constraints
	DelayedGoals Goals
}

// Variance of a generic parameter position.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
	Bivariant
)

// String returns the variance name.
func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	case Bivariant:
		return "bivariant"
	default:
		return "invariant"
	}
}

// Xform composes v with the variance of a nested position.
func (v Variance) Xform(other Variance) Variance {
	switch v {
	case Invariant:
		return Invariant
	case Covariant:
		return other
	case Contravariant:
		return other.Invert()
	default:
		return Bivariant
	}
}

// Invert flips covariance and contravariance.
func (v Variance) Invert() Variance {
	switch v {
	case Covariant:
		return Contravariant
	case Contravariant:
		return Covariant
	default:
		return v
	}
}
