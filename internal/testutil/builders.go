package testutil

import "github.com/roach88/traitir/internal/ir"

// Builder constructs terms tersely for tests. Ids are plain numbers; the
// renderer shows them as #id.
type Builder struct {
	In ir.Interner
}

// NewBuilder returns a builder over in.
func NewBuilder(in ir.Interner) Builder {
	return Builder{In: in}
}

func (b Builder) Scalar(s ir.Scalar) ir.Ty { return s.ToTy(b.In) }
func (b Builder) U32() ir.Ty               { return b.Scalar(ir.ScalarU32) }
func (b Builder) Bool() ir.Ty              { return b.Scalar(ir.ScalarBool) }
func (b Builder) Str() ir.Ty               { return ir.NewTy(b.In, ir.TyStr{}) }

// Adt applies ADT id to type arguments.
func (b Builder) Adt(id uint32, args ...ir.Ty) ir.Ty {
	return ir.NewTy(b.In, ir.TyAdt{ID: ir.AdtID(id), Substitution: ir.SubstitutionFromTys(b.In, args...)})
}

// AdtArgs applies ADT id to arbitrary generic arguments.
func (b Builder) AdtArgs(id uint32, args ...ir.GenericArg) ir.Ty {
	return ir.NewTy(b.In, ir.TyAdt{ID: ir.AdtID(id), Substitution: ir.NewSubstitution(b.In, args...)})
}

func (b Builder) Tuple(tys ...ir.Ty) ir.Ty {
	return ir.NewTy(b.In, ir.TyTuple{Arity: len(tys), Substitution: ir.SubstitutionFromTys(b.In, tys...)})
}

func (b Builder) Slice(ty ir.Ty) ir.Ty { return ir.NewTy(b.In, ir.TySlice{Ty: ty}) }

func (b Builder) Ref(lt ir.Lifetime, ty ir.Ty) ir.Ty {
	return ir.NewTy(b.In, ir.TyRef{Mutability: ir.Not, Lifetime: lt, Ty: ty})
}

func (b Builder) RefMut(lt ir.Lifetime, ty ir.Ty) ir.Ty {
	return ir.NewTy(b.In, ir.TyRef{Mutability: ir.Mut, Lifetime: lt, Ty: ty})
}

func (b Builder) Array(ty ir.Ty, n uint64) ir.Ty {
	return ir.NewTy(b.In, ir.TyArray{Ty: ty, Len: b.Usize(n)})
}

// Infer is the general type variable ?v.
func (b Builder) Infer(v uint32) ir.Ty { return ir.InferenceVar(v).ToTy(b.In, ir.TyVarGeneral) }

// IntVar is the integer type variable ?vi.
func (b Builder) IntVar(v uint32) ir.Ty { return ir.InferenceVar(v).ToTy(b.In, ir.TyVarInteger) }

func (b Builder) Placeholder(ui, idx int) ir.Ty {
	return ir.PlaceholderIndex{UI: ir.UniverseIndex(ui), Idx: idx}.ToTy(b.In)
}

func (b Builder) Bound(d, i int) ir.Ty {
	return ir.NewBoundVar(ir.DebruijnIndex(d), i).ToTy(b.In)
}

func (b Builder) Static() ir.Lifetime { return ir.StaticLifetime(b.In) }

func (b Builder) InferLt(v uint32) ir.Lifetime { return ir.InferenceVar(v).ToLifetime(b.In) }

func (b Builder) PlaceholderLt(ui, idx int) ir.Lifetime {
	return ir.PlaceholderIndex{UI: ir.UniverseIndex(ui), Idx: idx}.ToLifetime(b.In)
}

func (b Builder) BoundLt(d, i int) ir.Lifetime {
	return ir.NewBoundVar(ir.DebruijnIndex(d), i).ToLifetime(b.In)
}

// Usize is a concrete usize constant.
func (b Builder) Usize(n uint64) ir.Const {
	return ir.NewConst(b.In, b.Scalar(ir.ScalarUsize), ir.ConcreteConst{Bits: n})
}

// Args converts types to generic arguments.
func (b Builder) Args(tys ...ir.Ty) []ir.GenericArg {
	args := make([]ir.GenericArg, len(tys))
	for i, ty := range tys {
		args[i] = ty.ToGenericArg(b.In)
	}
	return args
}

// Subst builds a substitution of types.
func (b Builder) Subst(tys ...ir.Ty) ir.Substitution {
	return ir.SubstitutionFromTys(b.In, tys...)
}

// TraitRef builds self: Trait<rest>.
func (b Builder) TraitRef(trait uint32, self ir.Ty, rest ...ir.Ty) ir.TraitRef {
	return ir.TraitRef{TraitID: ir.TraitID(trait), Substitution: b.Subst(append([]ir.Ty{self}, rest...)...)}
}

// Implemented builds the goal Implemented(self: Trait<rest>).
func (b Builder) Implemented(trait uint32, self ir.Ty, rest ...ir.Ty) ir.Goal {
	return b.TraitRef(trait, self, rest...).ToGoal(b.In)
}

// Eq builds the goal Eq(a, b) over types.
func (b Builder) Eq(x, y ir.Ty) ir.Goal {
	return ir.EqGoal{A: x.ToGenericArg(b.In), B: y.ToGenericArg(b.In)}.ToGoal(b.In)
}

// TyKinds declares n general type parameters.
func (b Builder) TyKinds(n int) ir.VariableKinds {
	kinds := make([]ir.VariableKind, n)
	for i := range kinds {
		kinds[i] = ir.TyVariable(ir.TyVarGeneral)
	}
	return ir.NewVariableKinds(b.In, kinds...)
}

// ForAll quantifies g universally over n type parameters.
func (b Builder) ForAll(n int, g ir.Goal) ir.Goal {
	return ir.Quantify(b.In, g, ir.ForAll, b.TyKinds(n))
}

// Exists quantifies g existentially over n type parameters.
func (b Builder) Exists(n int, g ir.Goal) ir.Goal {
	return ir.Quantify(b.In, g, ir.Exists, b.TyKinds(n))
}

// Env builds an environment in universe u holding clauses.
func (b Builder) Env(u int, clauses ...ir.ProgramClause) ir.Environment {
	return ir.NewEnvironment(b.In).AddClauses(b.In, clauses...).WithUniverse(ir.UniverseIndex(u))
}

// InEnv pairs g with env.
func (b Builder) InEnv(env ir.Environment, g ir.Goal) ir.InEnvironment[ir.Goal] {
	return ir.NewInEnvironment(env, g)
}

// Fact builds the clause `Implemented(self: Trait<rest>)` with no
// conditions.
func (b Builder) Fact(trait uint32, self ir.Ty, rest ...ir.Ty) ir.ProgramClause {
	return ir.FactClause(b.In, b.TraitRef(trait, self, rest...).ToDomainGoal())
}
