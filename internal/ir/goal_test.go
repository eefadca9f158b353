package ir_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/testutil"
)

func TestGoalHelpers(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		g := b.Implemented(0, b.U32())

		assert.Equal(t, g, ir.Quantify(in, g, ir.ForAll, ir.NewVariableKinds(in)))
		assert.Equal(t, g, ir.AllGoals(in, g))
		assert.Equal(t, g, ir.AnyGoals(in, g))
		assert.Equal(t, "exists<_, _> { Implemented(u32: #0) }", ir.Render(in, ir.Quantify(in, g, ir.Exists, b.TyKinds(2))))
		assert.Equal(t, "all(Implemented(u32: #0), Implemented(u32: #0))", ir.Render(in, ir.AllGoals(in, g, g)))

		assert.True(t, ir.TrueGoal(in).IsTriviallyTrue(in))
		assert.True(t, ir.AllGoals(in).IsTriviallyTrue(in))
		assert.False(t, g.IsTriviallyTrue(in))
		assert.False(t, ir.AnyGoals(in).IsTriviallyTrue(in))
	})
}

func TestCompatibleGoal(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		g := ir.CompatibleGoal(in, b.ForAll(1, b.Implemented(0, b.Bound(0, 0))))

		assert.Equal(t,
			"forall<_> { if (Compatible; DownstreamType(^1.0)) { forall<_> { Implemented(^0.0: #0) } } }",
			ir.Render(in, g))

		peeled := ir.IntoPeeledGoal(in, g)
		env := peeled.Canonical.Value.Environment
		assert.True(t, env.HasCompatibleClause(in))
		assert.False(t, b.Env(0, b.Fact(0, b.U32())).HasCompatibleClause(in))
	})
}

func TestIntoClosedGoal(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		uc := ir.IntoClosedGoal(in, b.Implemented(0, b.U32()))

		assert.Equal(t, 1, uc.Universes)
		assert.True(t, uc.Canonical.IsTriviallyClosed(in))
		assert.Equal(t, "ucanonical<1> { canonical<> { env<U0> {} |- Implemented(u32: #0) } }", ir.Render(in, uc))
	})
}

func TestIntoPeeledGoal(t *testing.T) {
	tests := []struct {
		name      string
		goal      func(b testutil.Builder) ir.Goal
		want      string
		universes int
	}{
		{
			name: "forall with hypothesis",
			goal: func(b testutil.Builder) ir.Goal {
				hyp := ir.NewProgramClauses(b.In, b.Fact(1, b.Bound(0, 0)))
				return b.ForAll(1, ir.Implies(b.In, hyp, b.Implemented(0, b.Bound(0, 0))))
			},
			want:      "env<U1> { Implemented(!1_0: #1) } |- Implemented(!1_0: #0)",
			universes: 2,
		},
		{
			name: "nested foralls",
			goal: func(b testutil.Builder) ir.Goal {
				return b.ForAll(1, b.ForAll(1, b.Eq(b.Bound(0, 0), b.Bound(1, 0))))
			},
			want:      "env<U2> {} |- Eq(!2_0, !1_0)",
			universes: 3,
		},
		{
			name: "exists stops peeling",
			goal: func(b testutil.Builder) ir.Goal {
				return b.Exists(1, b.Implemented(0, b.Bound(0, 0)))
			},
			want:      "env<U0> {} |- exists<_> { Implemented(^0.0: #0) }",
			universes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
				uc := ir.IntoPeeledGoal(in, tt.goal(testutil.NewBuilder(in)))

				assert.Equal(t, tt.want, ir.Render(in, uc.Canonical.Value))
				assert.Equal(t, tt.universes, uc.Universes)
				assert.False(t, ir.HasFreeVars(in, uc.Canonical.Value))
			})
		})
	}
}

// Each peeled forall gets a universe above the one enclosing it.
func TestIntoPeeledGoal_NestedUniversesIncrease(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		properties := gopter.NewProperties(gopter.DefaultTestParameters())

		properties.Property("placeholders follow quantifier nesting", prop.ForAll(
			func(depth int) bool {
				// The innermost goal names every enclosing parameter,
				// outermost first.
				rest := make([]ir.Ty, 0, depth-1)
				for d := depth - 2; d >= 0; d-- {
					rest = append(rest, b.Bound(d, 0))
				}
				g := b.Implemented(0, b.Bound(depth-1, 0), rest...)
				for range depth {
					g = b.ForAll(1, g)
				}

				uc := ir.IntoPeeledGoal(in, g)
				names := make([]string, depth)
				for i := range names {
					names[i] = fmt.Sprintf("!%d_0", i+1)
				}
				want := "Implemented(" + names[0] + ": #0"
				if depth > 1 {
					want += "<" + strings.Join(names[1:], ", ") + ">"
				}
				want += ")"

				value := uc.Canonical.Value
				return uc.Universes == depth+1 &&
					value.Environment.Universe == ir.UniverseIndex(depth) &&
					ir.Render(in, value.Goal) == want &&
					ir.CheckUniverses(in, value.Environment, value.Goal) == nil
			},
			gen.IntRange(1, 5),
		))

		properties.TestingRun(t)
	})
}

func TestEnvironment(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		env := ir.NewEnvironment(in)
		assert.Equal(t, "env<U0> {}", ir.Render(in, env))

		env2 := env.AddClauses(in, b.Fact(0, b.U32())).WithUniverse(3)
		assert.Equal(t, "env<U3> { Implemented(u32: #0) }", ir.Render(in, env2))
		assert.Equal(t, "env<U0> {}", ir.Render(in, env), "AddClauses must not mutate the receiver")
	})
}
