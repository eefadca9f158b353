package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/testutil"
)

func TestHasFreeVars(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)

		assert.False(t, ir.HasFreeVars(in, b.ForAll(1, b.Implemented(0, b.Bound(0, 0)))))
		assert.True(t, ir.HasFreeVars(in, b.ForAll(1, b.Implemented(0, b.Bound(1, 0)))))
		assert.True(t, ir.HasFreeVars(in, b.Ref(b.BoundLt(0, 0), b.U32())))
		assert.False(t, ir.HasFreeVars(in, b.Adt(0, b.Infer(0), b.Placeholder(1, 0))))
	})
}

func TestHasInferenceVarsAndPlaceholders(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		ty := b.Tuple(b.U32(), b.Ref(b.InferLt(4), b.Str()))

		assert.True(t, ir.HasInferenceVars(in, ty))
		assert.False(t, ir.HasPlaceholders(in, ty))
		assert.True(t, ir.HasPlaceholders(in, b.Slice(b.Placeholder(2, 1))))
		assert.False(t, ir.HasInferenceVars(in, b.Slice(b.Placeholder(2, 1))))
	})
}

func TestInferenceVars_FirstOccurrenceDeduplicated(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		g := b.InEnv(
			b.Env(0, b.Fact(0, b.Infer(3))),
			ir.AllGoals(in, b.Eq(b.Infer(1), b.Infer(3)), b.Implemented(1, b.Ref(b.InferLt(6), b.Infer(1)))),
		)

		assert.Equal(t, []ir.InferenceVar{3, 1, 6}, ir.InferenceVars(in, g))
	})
}

func TestMaxUniverse(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)

		assert.Equal(t, ir.RootUniverse, ir.MaxUniverse(in, b.Adt(0, b.Infer(9))))
		ty := b.Adt(0, b.Placeholder(2, 0), b.Ref(b.PlaceholderLt(5, 0), b.Placeholder(1, 3)))
		assert.Equal(t, ir.UniverseIndex(5), ir.MaxUniverse(in, ty))
	})
}

func TestCheckUniverses(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		g := b.Implemented(0, b.Placeholder(2, 0))

		assert.NoError(t, ir.CheckUniverses(in, b.Env(2), g))
		assert.NoError(t, ir.CheckUniverses(in, b.Env(3), g))

		err := ir.CheckUniverses(in, b.Env(1), g)
		require.Error(t, err)
		assert.True(t, ir.IsEscapingPlaceholder(err))
		assert.True(t, ir.IsNoSolution(err))
	})
}

// universeRecorder records every universe a traversal reports.
type universeRecorder struct {
	ir.VisitorBase
	universes []ir.UniverseIndex
}

func (r *universeRecorder) VisitUniverse(u ir.UniverseIndex) ir.ControlFlow {
	r.universes = append(r.universes, u)
	return ir.Continue
}

func (r *universeRecorder) VisitFreePlaceholder(idx ir.PlaceholderIndex, _ ir.DebruijnIndex) ir.ControlFlow {
	r.universes = append(r.universes, idx.UI)
	return ir.Continue
}

func TestVisit_UniverseOrder(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		c := ir.Canonical[ir.InEnvironment[ir.Goal]]{
			Value: b.InEnv(b.Env(4), b.Implemented(0, b.Placeholder(3, 0))),
			Binders: ir.NewCanonicalVarKinds(in,
				ir.NewWithKind(ir.TyVariable(ir.TyVarGeneral), ir.UniverseIndex(1)),
				ir.NewWithKind(ir.LifetimeVariable(), ir.UniverseIndex(2)),
			),
		}

		r := &universeRecorder{VisitorBase: ir.VisitorBase{In: in}}
		ir.Visit(r, c, ir.Innermost)
		assert.Equal(t, []ir.UniverseIndex{1, 2, 4, 3}, r.universes)
	})
}

// firstPlaceholder stops at the first placeholder it meets.
type firstPlaceholder struct {
	ir.VisitorBase
	found *ir.PlaceholderIndex
}

func (f *firstPlaceholder) VisitFreePlaceholder(idx ir.PlaceholderIndex, _ ir.DebruijnIndex) ir.ControlFlow {
	f.found = &idx
	return ir.Break
}

func TestVisit_BreakStopsEarly(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		f := &firstPlaceholder{VisitorBase: ir.VisitorBase{In: in}}

		flow := ir.Visit(f, b.Tuple(b.Placeholder(1, 7), b.Placeholder(2, 0)), ir.Innermost)
		assert.True(t, flow.IsBreak())
		require.NotNil(t, f.found)
		assert.Equal(t, ir.PlaceholderIndex{UI: 1, Idx: 7}, *f.found)
	})
}
