package ir_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/testutil"
)

type renderCase struct {
	name  string
	build func(b testutil.Builder) any
}

func renderCases() []renderCase {
	proj := func(b testutil.Builder) ir.ProjectionTy {
		return ir.ProjectionTy{AssocTypeID: 2, Substitution: b.Subst(b.U32())}
	}
	env := func(b testutil.Builder) ir.Environment { return b.Env(0) }
	canonical := func(b testutil.Builder) ir.Canonical[ir.Ty] {
		return ir.Canonical[ir.Ty]{
			Value: b.Ref(b.BoundLt(0, 1), b.Bound(0, 0)),
			Binders: ir.NewCanonicalVarKinds(b.In,
				ir.NewWithKind(ir.TyVariable(ir.TyVarInteger), ir.UniverseIndex(0)),
				ir.NewWithKind(ir.LifetimeVariable(), ir.UniverseIndex(1)),
				ir.NewWithKind(ir.ConstVariable(b.Scalar(ir.ScalarUsize)), ir.UniverseIndex(0)),
			),
		}
	}

	return []renderCase{
		{"scalar", func(b testutil.Builder) any { return b.U32() }},
		{"adt", func(b testutil.Builder) any { return b.Adt(1, b.U32(), b.Str()) }},
		{"adt_const_arg", func(b testutil.Builder) any { return b.AdtArgs(1, b.Usize(3).ToGenericArg(b.In)) }},
		{"unit", func(b testutil.Builder) any { return b.Tuple() }},
		{"one_tuple", func(b testutil.Builder) any { return b.Tuple(b.U32()) }},
		{"array", func(b testutil.Builder) any { return b.Array(b.Bool(), 4) }},
		{"array_typed_len", func(b testutil.Builder) any {
			return ir.NewTy(b.In, ir.TyArray{Ty: b.Bool(), Len: ir.NewConst(b.In, b.U32(), ir.ConcreteConst{Bits: 7})})
		}},
		{"slice", func(b testutil.Builder) any { return b.Slice(b.Ref(b.Static(), b.Str())) }},
		{"ref_mut", func(b testutil.Builder) any { return b.RefMut(b.PlaceholderLt(1, 0), b.Infer(2)) }},
		{"raw_mut", func(b testutil.Builder) any {
			return ir.NewTy(b.In, ir.TyRaw{Mutability: ir.Mut, Ty: b.Scalar(ir.ScalarU8)})
		}},
		{"raw_const", func(b testutil.Builder) any {
			return ir.NewTy(b.In, ir.TyRaw{Mutability: ir.Not, Ty: b.Scalar(ir.ScalarU8)})
		}},
		{"int_var", func(b testutil.Builder) any { return b.IntVar(3) }},
		{"float_var", func(b testutil.Builder) any { return ir.InferenceVar(4).ToTy(b.In, ir.TyVarFloat) }},
		{"never", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyNever{}) }},
		{"error", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyError{}) }},
		{"fn_variadic", func(b testutil.Builder) any {
			return ir.NewTy(b.In, ir.FnPointer{
				NumBinders:   1,
				Sig:          ir.FnSig{Safety: ir.Unsafe, Variadic: true},
				Substitution: b.Subst(b.Ref(b.BoundLt(0, 0), b.U32()), b.Bool()),
			})
		}},
		{"fn_nullary", func(b testutil.Builder) any {
			return ir.NewTy(b.In, ir.FnPointer{Substitution: b.Subst(b.Bool())})
		}},
		{"projection", func(b testutil.Builder) any { return proj(b).ToTy(b.In) }},
		{"opaque", func(b testutil.Builder) any {
			return ir.OpaqueTy{OpaqueTyID: 1, Substitution: b.Subst()}.ToTy(b.In)
		}},
		{"dyn", func(b testutil.Builder) any {
			in := b.In
			lifetimeBound := ir.TraitRef{TraitID: 4, Substitution: ir.NewSubstitution(in,
				b.Bound(2, 0).ToGenericArg(in), b.BoundLt(0, 0).ToGenericArg(in))}
			bounds := ir.NewQuantifiedWhereClauses(in,
				ir.EmptyBinders(in, ir.WhereClause(ir.Implemented{TraitRef: b.TraitRef(3, b.Bound(1, 0))})),
				ir.NewBinders(ir.NewVariableKinds(in, ir.LifetimeVariable()), ir.WhereClause(ir.Implemented{TraitRef: lifetimeBound})),
			)
			return ir.NewTy(in, ir.DynTy{Bounds: ir.NewBinders(b.TyKinds(1), bounds), Lifetime: b.Static()})
		}},
		{"closure", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyClosure{ID: 1, Substitution: b.Subst()}) }},
		{"fn_def", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyFnDef{ID: 2, Substitution: b.Subst(b.U32())}) }},
		{"foreign", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyForeign{ID: 3}) }},
		{"assoc", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyAssociatedType{ID: 4, Substitution: b.Subst()}) }},
		{"generator", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyGenerator{ID: 5, Substitution: b.Subst()}) }},
		{"opaque_ty", func(b testutil.Builder) any { return ir.NewTy(b.In, ir.TyOpaqueType{ID: 6, Substitution: b.Subst()}) }},
		{"quantifiers", func(b testutil.Builder) any {
			return b.ForAll(1, b.Exists(1, b.Eq(b.Bound(0, 0), b.Bound(1, 0))))
		}},
		{"implies", func(b testutil.Builder) any {
			return ir.Implies(b.In, ir.NewProgramClauses(b.In, b.Fact(1, b.U32())), b.Implemented(1, b.U32()))
		}},
		{"any_not", func(b testutil.Builder) any {
			return ir.AnyGoals(b.In, ir.Negate(b.In, b.Implemented(0, b.U32())), ir.ToGoal(b.In, ir.GoalCannotProve{}))
		}},
		{"true", func(b testutil.Builder) any { return ir.TrueGoal(b.In) }},
		{"alias_eq", func(b testutil.Builder) any {
			return ir.ToGoal(b.In, ir.AliasEq{Alias: proj(b), Ty: b.Bool()})
		}},
		{"type_outlives", func(b testutil.Builder) any {
			return ir.ToGoal(b.In, ir.TypeOutlives{Ty: b.Infer(0), Lifetime: b.Static()})
		}},
		{"normalize", func(b testutil.Builder) any { return ir.DomainNormalize{Alias: proj(b), Ty: b.Bool()} }},
		{"is_local", func(b testutil.Builder) any { return ir.DomainIsLocal{Ty: b.U32()} }},
		{"is_upstream", func(b testutil.Builder) any { return ir.DomainIsUpstream{Ty: b.U32()} }},
		{"is_fully_visible", func(b testutil.Builder) any { return ir.DomainIsFullyVisible{Ty: b.U32()} }},
		{"local_impl_allowed", func(b testutil.Builder) any {
			return ir.DomainLocalImplAllowed{TraitRef: b.TraitRef(1, b.U32())}
		}},
		{"well_formed_ty", func(b testutil.Builder) any { return ir.DomainWellFormedTy{Ty: b.Str()} }},
		{"from_env_ty", func(b testutil.Builder) any { return ir.DomainFromEnvTy{Ty: b.Str()} }},
		{"downstream", func(b testutil.Builder) any { return ir.DomainDownstreamType{Ty: b.Str()} }},
		{"object_safe", func(b testutil.Builder) any { return ir.DomainObjectSafe{TraitID: 3} }},
		{"compatible", func(b testutil.Builder) any { return ir.DomainCompatible{} }},
		{"reveal", func(b testutil.Builder) any { return ir.DomainReveal{} }},
		{"in_environment", func(b testutil.Builder) any {
			return b.InEnv(b.Env(1, b.Fact(1, b.U32()), b.Fact(2, b.Str())), b.Implemented(1, b.Placeholder(1, 0)))
		}},
		{"clause_constraints", func(b testutil.Builder) any {
			return ir.ProgramClauseImplication{
				Consequence: b.TraitRef(1, b.U32()).ToDomainGoal(),
				Conditions:  ir.NewGoals(b.In),
				Constraints: ir.NewConstraints(b.In, ir.NewInEnvironment(env(b),
					ir.Constraint(ir.TypeOutlivesConstraint{Ty: b.U32(), Lifetime: b.Static()}))),
			}.ToProgramClause(b.In)
		}},
		{"clauses", func(b testutil.Builder) any {
			return ir.NewProgramClauses(b.In, b.Fact(1, b.U32()), b.Fact(2, b.Str()))
		}},
		{"goals", func(b testutil.Builder) any {
			return ir.NewGoals(b.In, ir.ToGoal(b.In, ir.GoalCannotProve{}), ir.TrueGoal(b.In))
		}},
		{"binders", func(b testutil.Builder) any {
			kinds := ir.NewVariableKinds(b.In,
				ir.TyVariable(ir.TyVarGeneral),
				ir.TyVariable(ir.TyVarInteger),
				ir.TyVariable(ir.TyVarFloat),
				ir.LifetimeVariable(),
				ir.ConstVariable(b.Scalar(ir.ScalarUsize)),
			)
			return ir.NewBinders(kinds, b.Str())
		}},
		{"canonical", func(b testutil.Builder) any { return canonical(b) }},
		{"ucanonical", func(b testutil.Builder) any {
			return ir.UCanonical[ir.Ty]{Canonical: canonical(b), Universes: 2}
		}},
		{"constrained_subst", func(b testutil.Builder) any {
			return ir.ConstrainedSubst{
				Subst: b.Subst(b.Infer(0)),
				Constraints: ir.NewConstraints(b.In, ir.NewInEnvironment(env(b),
					ir.Constraint(ir.OutlivesConstraint{A: b.InferLt(4), B: b.Static()}))),
			}
		}},
		{"answer_subst", func(b testutil.Builder) any {
			return ir.AnswerSubst{
				Subst:        b.Subst(b.U32()),
				Constraints:  ir.NewConstraints(b.In),
				DelayedGoals: ir.NewGoals(b.In, ir.ToGoal(b.In, ir.GoalCannotProve{})),
			}
		}},
	}
}

func renderAll(in ir.Interner) []byte {
	b := testutil.NewBuilder(in)
	var sb strings.Builder
	for _, c := range renderCases() {
		sb.WriteString(c.name)
		sb.WriteString(": ")
		sb.WriteString(ir.Render(in, c.build(b)))
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

func TestRender_Golden(t *testing.T) {
	interners := testutil.Interners()
	got := renderAll(interners[0].In)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render", got)

	// Rendering never depends on the interner.
	for _, ni := range interners[1:] {
		assert.Equal(t, string(got), string(renderAll(ni.In)), ni.Name)
	}
}

type namer map[uint32]string

func (n namer) ItemName(kind ir.ItemKind, id uint32) (string, bool) {
	if kind != ir.ItemAdt && kind != ir.ItemTrait {
		return "", false
	}
	name, ok := n[id]
	return name, ok
}

func TestRenderWith_Names(t *testing.T) {
	testutil.ForEachInterner(t, func(t *testing.T, in ir.Interner) {
		b := testutil.NewBuilder(in)
		names := namer{0: "Vec", 1: "Clone"}

		assert.Equal(t, "Implemented(Vec<u32>: Clone)", ir.RenderWith(in, names, b.Implemented(1, b.Adt(0, b.U32()))))
		assert.Equal(t, "#7<u32>", ir.RenderWith(in, names, b.Adt(7, b.U32())))
		assert.Equal(t, "fn_def #0", ir.RenderWith(in, names, ir.NewTy(in, ir.TyFnDef{ID: 0, Substitution: b.Subst()})))
	})
}

func TestRender_UnknownValuePanics(t *testing.T) {
	in := testutil.Interners()[0].In
	assert.Panics(t, func() { ir.Render(in, struct{}{}) })
}
