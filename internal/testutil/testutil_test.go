package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/ir"
)

func TestInterners_CoverEveryStrategy(t *testing.T) {
	names := []string{}
	for _, ni := range Interners() {
		names = append(names, ni.Name)
	}
	assert.Equal(t, []string{"boxed", "hashcons"}, names)
}

func TestRecipe_DecodesDeterministically(t *testing.T) {
	r := Recipe{5, 17, 3, 99, 2, 40, 8, 1}
	ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		a, b := r.Ty(in), r.Ty(in)
		assert.True(t, ir.Equal(in, a, b))
		assert.Equal(t, ir.Render(in, a), ir.Render(in, b))
	})
}

func TestRecipe_EmptyDecodes(t *testing.T) {
	in := Interners()[0].In
	assert.Equal(t, "bool", ir.Render(in, Recipe(nil).Ty(in)))
}

func TestRecipe_GoalEnvironmentSeesPlaceholders(t *testing.T) {
	ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		for seed := range 50 {
			r := Recipe{seed, seed * 7, seed * 13, 3, seed + 1, 11, seed * 5, 2}
			g := r.Goal(in)
			require.NoError(t, ir.CheckUniverses(in, g.Environment, g.Goal))
			assert.False(t, ir.HasFreeVars(in, g))
		}
	})
}

func TestNewTable_VariableKinds(t *testing.T) {
	in := Interners()[0].In
	table := NewTable(in, []ir.UniverseIndex{0, 2})
	require.Equal(t, 2*MaxVar, table.Len())
	assert.Equal(t, ir.ClassTy, table.Kind(0).Class)
	assert.Equal(t, ir.ClassLifetime, table.Kind(MaxVar).Class)
	assert.Equal(t, ir.UniverseIndex(2), table.UniverseOfUnboundVar(1))
	assert.Equal(t, ir.UniverseIndex(2), table.MaxUniverse())
}
