package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/testutil"
)

func TestCast_TraitRef(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		tr := b.TraitRef(2, b.U32(), b.Bool())

		assert.Equal(t, "Implemented(u32: #2<bool>)", ir.Render(in, tr.ToGoal(in)))
		assert.Equal(t, "Implemented(u32: #2<bool>)", ir.Render(in, tr.ToDomainGoal()))
		assert.Equal(t, "WellFormed(u32: #2<bool>)", ir.Render(in, tr.WellFormed()))
		assert.Equal(t, "FromEnv(u32: #2<bool>)", ir.Render(in, tr.FromEnv()))
	})
}

func TestCast_BindersToGoal(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)

		quantified := ir.NewBinders(b.TyKinds(1), b.TraitRef(0, b.Bound(0, 0)))
		assert.Equal(t, "forall<_> { Implemented(^0.0: #0) }", ir.Render(in, quantified.ToGoal(in)))

		// An empty binder disappears and its body loses a level.
		empty := ir.EmptyBinders(in, b.TraitRef(0, b.Bound(1, 0)))
		assert.Equal(t, "Implemented(^0.0: #0)", ir.Render(in, empty.ToGoal(in)))

		escaping := ir.EmptyBinders(in, b.TraitRef(0, b.Bound(0, 0)))
		assert.Panics(t, func() { escaping.ToGoal(in) })
	})
}

func TestCast_ToProgramClause(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)

		fact := ir.EmptyBinders(in, ir.WhereClause(ir.Implemented{TraitRef: b.TraitRef(1, b.U32())})).ToProgramClause(in)
		assert.Equal(t, "Implemented(u32: #1)", ir.Render(in, fact))
		assert.True(t, fact.Implication(in).Value.IsFact(in))

		rule := ir.NewBinders(b.TyKinds(1), ir.ProgramClauseImplication{
			Consequence: b.TraitRef(1, b.Adt(0, b.Bound(0, 0))).ToDomainGoal(),
			Conditions:  ir.NewGoals(in, b.Implemented(1, b.Bound(0, 0))),
			Constraints: ir.NewConstraints(in),
			Priority:    ir.PriorityLow,
		}).ToProgramClause(in)
		assert.Equal(t, "forall<_> { Implemented(#0<^0.0>: #1) :- Implemented(^0.0: #1) [low] }", ir.Render(in, rule))
	})
}

func TestCast_ToGoalUpcasts(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)

		assert.Equal(t, "CannotProve", ir.Render(in, ir.ToGoal(in, ir.GoalCannotProve{})))
		assert.Equal(t, "Outlives('static: '?4)",
			ir.Render(in, ir.ToGoal(in, ir.LifetimeOutlives{A: b.Static(), B: b.InferLt(4)})))
		assert.Equal(t, "Subtype(u32, bool)", ir.Render(in, ir.ToGoal(in, ir.SubtypeGoal{A: b.U32(), B: b.Bool()})))
		assert.Panics(t, func() { ir.ToGoal(in, 42) })
	})
}

func TestCastAll(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		args := ir.CastAll(in, []ir.Ty{b.U32(), b.Str()}, ir.Ty.ToGenericArg)
		assert.Equal(t, "[u32, str]", ir.Render(in, ir.NewSubstitution(in, args...)))
	})
}

func TestScalarToTy(t *testing.T) {
	in := testutil.Interners()[0].In
	s, ok := ir.ScalarByName("isize")
	assert.True(t, ok)
	assert.Equal(t, "isize", ir.Render(in, s.ToTy(in)))
	_, ok = ir.ScalarByName("int")
	assert.False(t, ok)
}
