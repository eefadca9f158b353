package interner

import (
	"fmt"
	"slices"

	"github.com/roach88/traitir/internal/ir"
)

// Boxed allocates a fresh box for every payload.
type Boxed struct{}

var _ ir.Interner = Boxed{}

// NewBoxed returns a Boxed interner.
func NewBoxed() Boxed { return Boxed{} }

func box[T any](v T) *T { return &v }

func boxSlice[E any](xs []E) *[]E {
	s := slices.Clone(xs)
	return &s
}

func unbox[T any](h any) T {
	p, ok := h.(*T)
	if !ok {
		panic(fmt.Sprintf("interner: %T handle was not produced by a Boxed interner", h))
	}
	return *p
}

func (Boxed) InternTy(data ir.TyData) ir.Ty { return ir.TyFromInterned(box(data)) }
func (Boxed) TyData(t ir.Ty) ir.TyData      { return unbox[ir.TyData](t.Interned()) }

func (Boxed) InternLifetime(data ir.LifetimeData) ir.Lifetime {
	return ir.LifetimeFromInterned(box(data))
}

func (Boxed) LifetimeData(l ir.Lifetime) ir.LifetimeData {
	return unbox[ir.LifetimeData](l.Interned())
}

func (Boxed) InternConst(data ir.ConstData) ir.Const { return ir.ConstFromInterned(box(data)) }
func (Boxed) ConstData(c ir.Const) ir.ConstData      { return unbox[ir.ConstData](c.Interned()) }

func (Boxed) InternGenericArg(data ir.GenericArgData) ir.GenericArg {
	return ir.GenericArgFromInterned(box(data))
}

func (Boxed) GenericArgData(a ir.GenericArg) ir.GenericArgData {
	return unbox[ir.GenericArgData](a.Interned())
}

func (Boxed) InternGoal(data ir.GoalData) ir.Goal { return ir.GoalFromInterned(box(data)) }
func (Boxed) GoalData(g ir.Goal) ir.GoalData      { return unbox[ir.GoalData](g.Interned()) }

func (Boxed) InternGoals(data []ir.Goal) ir.Goals { return ir.GoalsFromInterned(boxSlice(data)) }
func (Boxed) GoalsData(gs ir.Goals) []ir.Goal     { return unbox[[]ir.Goal](gs.Interned()) }

func (Boxed) InternSubstitution(data []ir.GenericArg) ir.Substitution {
	return ir.SubstitutionFromInterned(boxSlice(data))
}

func (Boxed) SubstitutionData(s ir.Substitution) []ir.GenericArg {
	return unbox[[]ir.GenericArg](s.Interned())
}

func (Boxed) InternProgramClause(data ir.ProgramClauseData) ir.ProgramClause {
	return ir.ProgramClauseFromInterned(box(data))
}

func (Boxed) ProgramClauseData(c ir.ProgramClause) ir.ProgramClauseData {
	return unbox[ir.ProgramClauseData](c.Interned())
}

func (Boxed) InternProgramClauses(data []ir.ProgramClause) ir.ProgramClauses {
	return ir.ProgramClausesFromInterned(boxSlice(data))
}

func (Boxed) ProgramClausesData(cs ir.ProgramClauses) []ir.ProgramClause {
	return unbox[[]ir.ProgramClause](cs.Interned())
}

func (Boxed) InternQuantifiedWhereClauses(data []ir.QuantifiedWhereClause) ir.QuantifiedWhereClauses {
	return ir.QuantifiedWhereClausesFromInterned(boxSlice(data))
}

func (Boxed) QuantifiedWhereClausesData(qs ir.QuantifiedWhereClauses) []ir.QuantifiedWhereClause {
	return unbox[[]ir.QuantifiedWhereClause](qs.Interned())
}

func (Boxed) InternVariableKinds(data []ir.VariableKind) ir.VariableKinds {
	return ir.VariableKindsFromInterned(boxSlice(data))
}

func (Boxed) VariableKindsData(ks ir.VariableKinds) []ir.VariableKind {
	return unbox[[]ir.VariableKind](ks.Interned())
}

func (Boxed) InternCanonicalVarKinds(data []ir.CanonicalVarKind) ir.CanonicalVarKinds {
	return ir.CanonicalVarKindsFromInterned(boxSlice(data))
}

func (Boxed) CanonicalVarKindsData(ks ir.CanonicalVarKinds) []ir.CanonicalVarKind {
	return unbox[[]ir.CanonicalVarKind](ks.Interned())
}

func (Boxed) InternConstraints(data []ir.InEnvironment[ir.Constraint]) ir.Constraints {
	return ir.ConstraintsFromInterned(boxSlice(data))
}

func (Boxed) ConstraintsData(cs ir.Constraints) []ir.InEnvironment[ir.Constraint] {
	return unbox[[]ir.InEnvironment[ir.Constraint]](cs.Interned())
}
