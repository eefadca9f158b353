package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/testutil"
)

func queryIn(in ir.Interner, universes int) ir.UCanonical[ir.InEnvironment[ir.Goal]] {
	b := testutil.NewBuilder(in)
	return ir.UCanonical[ir.InEnvironment[ir.Goal]]{
		Canonical: ir.Canonical[ir.InEnvironment[ir.Goal]]{
			Value: b.InEnv(b.Env(0), b.Implemented(0, b.Bound(0, 0), b.Placeholder(1, 0))),
			Binders: ir.NewCanonicalVarKinds(in,
				ir.NewWithKind(ir.TyVariable(ir.TyVarGeneral), ir.RootUniverse)),
		},
		Universes: universes,
	}
}

func TestKeyOf_StableAcrossInterners(t *testing.T) {
	var keys []ir.CacheKey
	for _, ni := range testutil.Interners() {
		keys = append(keys, ir.KeyOf(ni.In, queryIn(ni.In, 2)))
	}
	require.NotEmpty(t, keys)
	for _, k := range keys[1:] {
		assert.Equal(t, keys[0], k)
	}
}

func TestKeyOf_DistinguishesQueries(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		base := queryIn(in, 2)

		moreUniverses := queryIn(in, 3)
		assert.NotEqual(t, ir.KeyOf(in, base), ir.KeyOf(in, moreUniverses))

		intSlot := base
		intSlot.Canonical.Binders = ir.NewCanonicalVarKinds(in,
			ir.NewWithKind(ir.TyVariable(ir.TyVarInteger), ir.RootUniverse))
		assert.NotEqual(t, ir.KeyOf(in, base), ir.KeyOf(in, intSlot))

		otherGoal := base
		otherGoal.Canonical.Value = b.InEnv(b.Env(0), b.Implemented(1, b.Bound(0, 0), b.Placeholder(1, 0)))
		assert.NotEqual(t, ir.KeyOf(in, base), ir.KeyOf(in, otherGoal))

		assert.Equal(t, ir.KeyOf(in, base), ir.KeyOf(in, queryIn(in, 2)))
	})
}

func TestCacheKey_Short(t *testing.T) {
	in := testutil.Interners()[0].In
	k := ir.KeyOf(in, queryIn(in, 1))

	assert.Len(t, k.Short(), 12)
	assert.Equal(t, string(k)[:12], k.Short())
	assert.Equal(t, "abc", ir.CacheKey("abc").Short())
}
