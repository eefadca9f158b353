package canon_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/canon"
	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/testutil"
)

// ?7: Clone with ?7 in universe 2 canonicalizes to one type slot, and the
// universe collapses to canonical U0.
func TestCanonicalizeGoal_SingleVariableInUniverseTwo(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := canon.NewInferenceTable(in)
		for range 7 {
			table.NewVariable(ir.RootUniverse)
		}
		v7 := table.NewVariable(2)
		require.Equal(t, ir.InferenceVar(7), v7)

		goal := b.InEnv(b.Env(2), b.Implemented(0, b.Infer(7)))
		c := canon.Canonicalize(table, goal)
		assert.Equal(t, "canonical<ty U2> { env<U2> {} |- Implemented(^0.0: #0) }", ir.Render(in, c.Quantified))
		require.Len(t, c.FreeVars, 1)
		assert.Equal(t, v7, c.FreeVars[0].Value)

		uc, free := canon.CanonicalizeGoal(table, goal)
		assert.Equal(t, c.FreeVars, free)
		assert.Equal(t, 1, uc.Quantified.Universes)
		assert.Equal(t, []ir.UniverseIndex{2}, uc.UniverseMap.Universes)
		assert.Equal(t,
			"ucanonical<1> { canonical<ty U0> { env<U0> {} |- Implemented(^0.0: #0) } }",
			ir.Render(in, uc.Quantified))
	})
}

func TestCanonicalize_UnifiedVariablesShareSlot(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)
		require.NoError(t, table.UnifyVars(0, 1))

		c := canon.Canonicalize(table, b.Eq(b.Infer(1), b.Infer(0)))
		assert.Equal(t, 1, c.Quantified.Len(in))
		assert.Equal(t, "canonical<ty U0> { Eq(^0.0, ^0.0) }", ir.Render(in, c.Quantified))
	})
}

func TestCanonicalize_SlotsInFirstOccurrenceOrder(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)

		c := canon.Canonicalize(table, b.Tuple(b.Infer(2), b.Ref(b.InferLt(5), b.Infer(0)), b.Infer(2)))
		assert.Equal(t, "canonical<ty U0, lifetime U0, ty U0> { (^0.0, &'^0.1 ^0.2, ^0.0) }", ir.Render(in, c.Quantified))
		vars := []ir.InferenceVar{}
		for _, v := range c.FreeVars {
			vars = append(vars, v.Value)
		}
		assert.Equal(t, []ir.InferenceVar{2, 5, 0}, vars)
	})
}

func TestCanonicalize_ResolvesBoundVariables(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)
		require.NoError(t, table.Bind(0, b.Adt(1, b.Infer(1)).ToGenericArg(in)))

		c := canon.Canonicalize(table, b.Implemented(0, b.Infer(0)))
		assert.Equal(t, "canonical<ty U0> { Implemented(#1<^0.0>: #0) }", ir.Render(in, c.Quantified))
		assert.Equal(t, ir.InferenceVar(1), c.FreeVars[0].Value)
	})
}

func TestCanonicalize_ShiftsSlotsUnderBinders(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)

		g := b.ForAll(1, b.Implemented(0, b.Bound(0, 0), b.Infer(3)))
		c := canon.Canonicalize(table, g)
		want := b.ForAll(1, b.Implemented(0, b.Bound(0, 0), b.Bound(1, 0)))
		assert.True(t, ir.Equal(in, want, c.Quantified.Value))
	})
}

func TestCanonicalize_KeepsIntegerKind(t *testing.T) {
	in := testutil.Interners()[0].In
	b := testutil.NewBuilder(in)
	table := canon.NewInferenceTable(in)
	table.NewVariableOfKind(ir.TyVariable(ir.TyVarInteger), 0)

	c := canon.Canonicalize(table, b.IntVar(0))
	assert.Equal(t, "canonical<int U0> { ^0.0 }", ir.Render(in, c.Quantified))
}

func TestCanonicalize_FreeBoundVariablePanics(t *testing.T) {
	in := testutil.Interners()[0].In
	b := testutil.NewBuilder(in)
	table := testutil.NewTable(in, nil)
	assert.Panics(t, func() {
		canon.Canonicalize(table, b.Adt(0, b.Bound(0, 0)))
	})
}

func TestCanonicalize_ClosedValueHasNoSlots(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)
		goal := b.InEnv(b.Env(0), b.Implemented(0, b.U32()))

		c := canon.Canonicalize(table, goal)
		assert.True(t, c.Quantified.IsTriviallyClosed(in))
		uc := canon.UCanonicalize(in, c.Quantified)
		assert.True(t, ir.Equal(in, ir.IntoClosedGoal(in, goal.Goal), uc.Quantified))
	})
}

func TestUCanonicalize_CompactsPreservingOrder(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, []ir.UniverseIndex{3})
		goal := b.InEnv(b.Env(5), b.Implemented(0, b.Placeholder(5, 0), b.Placeholder(1, 1), b.Infer(0)))

		uc, _ := canon.CanonicalizeGoal(table, goal)
		assert.Equal(t, []ir.UniverseIndex{1, 3, 5}, uc.UniverseMap.Universes)
		assert.Equal(t, 3, uc.Quantified.Universes)
		assert.Equal(t,
			"ucanonical<3> { canonical<ty U1> { env<U2> {} |- Implemented(!2_0: #0<!0_1, ^0.0>) } }",
			ir.Render(in, uc.Quantified))
	})
}

func TestUCanonicalize_ClampsEnvironmentUniverse(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)
		goal := b.InEnv(b.Env(4), b.Implemented(0, b.Placeholder(2, 0)))

		uc, _ := canon.CanonicalizeGoal(table, goal)
		assert.Equal(t, ir.UniverseIndex(0), uc.Quantified.Canonical.Value.Environment.Universe)
		assert.Equal(t, 1, uc.Quantified.Universes)
	})
}

func TestUCanonicalize_EnvironmentBelowEveryPlaceholderKeepsItsSlot(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		hidden := b.InEnv(b.Env(1), b.Implemented(0, b.Placeholder(3, 0)))
		visible := b.InEnv(b.Env(3), b.Implemented(0, b.Placeholder(3, 0)))
		require.Error(t, ir.CheckUniverses(in, hidden.Environment, hidden.Goal))

		a, _ := canon.CanonicalizeGoal(testutil.NewTable(in, nil), hidden)
		assert.Equal(t, []ir.UniverseIndex{1, 3}, a.UniverseMap.Universes)
		assert.Equal(t,
			"ucanonical<2> { canonical<> { env<U0> {} |- Implemented(!1_0: #0) } }",
			ir.Render(in, a.Quantified))
		value := a.Quantified.Canonical.Value
		err := ir.CheckUniverses(in, value.Environment, value.Goal)
		assert.True(t, ir.IsEscapingPlaceholder(err))

		c, _ := canon.CanonicalizeGoal(testutil.NewTable(in, nil), visible)
		assert.Equal(t,
			"ucanonical<1> { canonical<> { env<U0> {} |- Implemented(!0_0: #0) } }",
			ir.Render(in, c.Quantified))
		assert.NotEqual(t, ir.KeyOf(in, a.Quantified), ir.KeyOf(in, c.Quantified))
	})
}

func TestUCanonicalize_EnvironmentBelowEveryBinderKeepsItsSlot(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, []ir.UniverseIndex{2})
		goal := b.InEnv(b.Env(0), b.Implemented(0, b.Infer(0)))

		uc, _ := canon.CanonicalizeGoal(table, goal)
		assert.Equal(t, []ir.UniverseIndex{0, 2}, uc.UniverseMap.Universes)
		assert.Equal(t,
			"ucanonical<2> { canonical<ty U1> { env<U0> {} |- Implemented(^0.0: #0) } }",
			ir.Render(in, uc.Quantified))
	})
}

// Renumbering universes without changing their order yields the same key.
func TestUCanonicalize_InvariantUnderUniverseRenumbering(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		goalAt := func(lo, hi int) ir.InEnvironment[ir.Goal] {
			return b.InEnv(b.Env(hi), b.Implemented(0, b.Placeholder(lo, 0), b.Placeholder(hi, 0)))
		}

		a, _ := canon.CanonicalizeGoal(testutil.NewTable(in, nil), goalAt(1, 3))
		c, _ := canon.CanonicalizeGoal(testutil.NewTable(in, nil), goalAt(2, 7))
		assert.True(t, ir.Equal(in, a.Quantified, c.Quantified))
		assert.Equal(t, ir.KeyOf(in, a.Quantified), ir.KeyOf(in, c.Quantified))
	})
}

func TestMapFromCanonical_RestoresUniverses(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, []ir.UniverseIndex{2})
		goal := b.InEnv(b.Env(2), b.Implemented(0, b.Placeholder(2, 0), b.Infer(0)))

		c := canon.Canonicalize(table, goal)
		uc := canon.UCanonicalize(in, c.Quantified)
		back := canon.MapFromCanonical(in, uc.UniverseMap, uc.Quantified.Canonical)
		assert.True(t, ir.Equal(in, c.Quantified, back))
	})
}

func TestFromCanonical_AllocatesUniversesAndVariables(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, []ir.UniverseIndex{0, 4})
		goal := b.InEnv(b.Env(4), b.Implemented(0, b.Infer(1), b.Infer(0)))
		uc, _ := canon.CanonicalizeGoal(table, goal)

		fresh, subst, value := canon.FromCanonical(in, uc.Quantified, canon.WithSession("replay"))
		assert.Equal(t, "replay", fresh.Session())
		assert.Equal(t, ir.UniverseIndex(1), fresh.MaxUniverse())
		assert.Equal(t, 2, subst.Len(in))
		assert.Equal(t, "env<U1> {} |- Implemented(?0: #0<?1>)", ir.Render(in, value))
		assert.Equal(t, ir.UniverseIndex(1), fresh.UniverseOfUnboundVar(0))
		assert.Equal(t, ir.UniverseIndex(0), fresh.UniverseOfUnboundVar(1))
	})
}

func TestInstantiateBinders(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := canon.NewInferenceTable(in)
		binders := ir.NewBinders(b.TyKinds(2), b.Implemented(0, b.Bound(0, 1), b.Bound(0, 0)))

		ex := canon.InstantiateBindersExistentially(table, binders)
		assert.Equal(t, "Implemented(?1: #0<?0>)", ir.Render(in, ex))
		assert.Equal(t, ir.RootUniverse, table.UniverseOfUnboundVar(1))

		univ := canon.InstantiateBindersUniversally(table, binders)
		assert.Equal(t, "Implemented(!1_1: #0<!1_0>)", ir.Render(in, univ))
		assert.Equal(t, ir.UniverseIndex(1), table.MaxUniverse())

		later := canon.InstantiateBindersExistentially(table, binders)
		vars := ir.InferenceVars(in, later)
		require.Len(t, vars, 2)
		assert.Equal(t, ir.UniverseIndex(1), table.UniverseOfUnboundVar(vars[0]))
	})
}

func TestInstantiateBindersUniversally_NestedUniversesIncrease(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := canon.NewInferenceTable(in)
		// for<T> for<U> (T, U)
		nested := ir.NewBinders(b.TyKinds(1), ir.NewBinders(b.TyKinds(1), b.Tuple(b.Bound(1, 0), b.Bound(0, 0))))

		inner := canon.InstantiateBindersUniversally(table, nested)
		outerUniverse := table.MaxUniverse()
		assert.Equal(t, "(!1_0, ^0.0)", ir.Render(in, inner.Value))

		got := canon.InstantiateBindersUniversally(table, inner)
		innerUniverse := table.MaxUniverse()
		assert.Greater(t, innerUniverse, outerUniverse)
		assert.Equal(t, "(!1_0, !2_0)", ir.Render(in, got))

		// A variable created in the outer universe cannot name the inner
		// placeholder.
		v := table.NewVariable(outerUniverse)
		assert.True(t, ir.IsEscapingPlaceholder(table.Bind(v, b.Placeholder(int(innerUniverse), 0).ToGenericArg(in))))
	})
}

func TestCanonicalize_ConstKindTypes(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		table := testutil.NewTable(in, nil)
		kinds := ir.NewVariableKinds(in, ir.ConstVariable(b.Infer(2)))
		value := ir.NewBinders(kinds, b.Tuple(b.Infer(2), b.U32()))

		c := canon.Canonicalize(table, value)
		assert.False(t, ir.HasInferenceVars(in, c.Quantified))
		require.Equal(t, 1, c.Quantified.Len(in))
		got := c.Quantified.Value.Kinds.AsSlice(in)[0].ConstTy
		assert.True(t, ir.Equal(in, b.Bound(0, 0), got))
		assert.True(t, ir.Equal(in, b.Tuple(b.Bound(1, 0), b.U32()), c.Quantified.Value.Value))
	})
}

// renamer permutes type variables ?0..?MaxVar-1 and lifetime variables
// ?MaxVar..?2*MaxVar-1 within their ranges.
type renamer struct {
	ir.FolderBase
}

func (r renamer) FoldInferenceTy(v ir.InferenceVar, kind ir.TyVariableKind, _ ir.DebruijnIndex) (ir.Ty, error) {
	return (testutil.MaxVar - 1 - v).ToTy(r.In, kind), nil
}

func (r renamer) FoldInferenceLifetime(v ir.InferenceVar, _ ir.DebruijnIndex) (ir.Lifetime, error) {
	return (3*testutil.MaxVar - 1 - v).ToLifetime(r.In), nil
}

func canonicalProperties(t *testing.T) *gopter.Properties {
	t.Helper()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestCanonicalizeProperties(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		properties := canonicalProperties(t)
		universes := []ir.UniverseIndex{0, 2, 1, 3}

		properties.Property("canonical values contain no inference variables", prop.ForAll(
			func(r testutil.Recipe) bool {
				uc, _ := canon.CanonicalizeGoal(testutil.NewTable(in, universes), r.Goal(in))
				return !ir.HasInferenceVars(in, uc.Quantified)
			},
			testutil.GenRecipe(),
		))

		properties.Property("canonicalization is deterministic", prop.ForAll(
			func(r testutil.Recipe) bool {
				a, _ := canon.CanonicalizeGoal(testutil.NewTable(in, universes), r.Goal(in))
				b, _ := canon.CanonicalizeGoal(testutil.NewTable(in, universes), r.Goal(in))
				return ir.KeyOf(in, a.Quantified) == ir.KeyOf(in, b.Quantified)
			},
			testutil.GenRecipe(),
		))

		properties.Property("renaming variables does not change the key", prop.ForAll(
			func(r testutil.Recipe) bool {
				goal := r.Goal(in)
				renamed, err := ir.Fold(renamer{ir.FolderBase{In: in}}, goal, ir.Innermost)
				if err != nil {
					return false
				}
				a, _ := canon.CanonicalizeGoal(testutil.NewTable(in, nil), goal)
				b, _ := canon.CanonicalizeGoal(testutil.NewTable(in, nil), renamed)
				return ir.Equal(in, a.Quantified, b.Quantified)
			},
			testutil.GenRecipe(),
		))

		properties.Property("instantiating and recanonicalizing is the identity", prop.ForAll(
			func(r testutil.Recipe) bool {
				first, _ := canon.CanonicalizeGoal(testutil.NewTable(in, universes), r.Goal(in))
				table, _, value := canon.FromCanonical(in, first.Quantified)
				second, _ := canon.CanonicalizeGoal(table, value)
				return ir.Equal(in, first.Quantified, second.Quantified)
			},
			testutil.GenRecipe(),
		))

		properties.Property("universe map preserves order and bounds the count", prop.ForAll(
			func(r testutil.Recipe) bool {
				uc, _ := canon.CanonicalizeGoal(testutil.NewTable(in, universes), r.Goal(in))
				us := uc.UniverseMap.Universes
				for i := 1; i < len(us); i++ {
					if us[i-1] >= us[i] {
						return false
					}
				}
				for _, k := range uc.Quantified.Canonical.Binders.AsSlice(in) {
					if int(k.Value) >= uc.Quantified.Universes {
						return false
					}
				}
				return uc.Quantified.Universes == max(1, len(us)) &&
					ir.MaxUniverse(in, uc.Quantified) < ir.UniverseIndex(uc.Quantified.Universes)
			},
			testutil.GenRecipe(),
		))

		properties.TestingRun(t)
	})
}
