package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Zipper walks two terms in lockstep. The traversal checks that both have
// the same shape and hands matching leaves to the zipper; unification,
// equality and matching are all zippers.
type Zipper interface {
	ZipTys(variance Variance, a, b Ty) error
	ZipLifetimes(variance Variance, a, b Lifetime) error
	ZipConsts(variance Variance, a, b Const) error
	// ZipBinders zips two values under binders. Implementations usually
	// call ZipBindersStructurally or instantiate both sides first.
	ZipBinders(variance Variance, a, b ZippableBinders) error

	UnificationDatabase() UnificationDatabase
	Interner() Interner
}

// UnificationDatabase supplies the declared variance of generic
// parameters. A nil slice means every parameter is invariant.
type UnificationDatabase interface {
	FnDefVariance(id FnDefID) []Variance
	AdtVariance(id AdtID) []Variance
}

// InvariantDatabase treats every parameter as invariant.
type InvariantDatabase struct{}

func (InvariantDatabase) FnDefVariance(FnDefID) []Variance { return nil }
func (InvariantDatabase) AdtVariance(AdtID) []Variance     { return nil }

// ZippableBinders is the type-erased view of a Binders[T] a zipper needs.
type ZippableBinders interface {
	BinderKinds() VariableKinds
	// ZipValues zips the bodies without instantiating the binders.
	ZipValues(z Zipper, variance Variance, other ZippableBinders) error
	// ZipInstantiated substitutes args into this binder and otherArgs into
	// other's, then zips the results.
	ZipInstantiated(z Zipper, variance Variance, args Substitution, other ZippableBinders, otherArgs Substitution) error
}

// BinderKinds returns the declared kinds.
func (b Binders[T]) BinderKinds() VariableKinds { return b.Kinds }

// ZipValues implements ZippableBinders.
func (b Binders[T]) ZipValues(z Zipper, variance Variance, other ZippableBinders) error {
	o, ok := other.(Binders[T])
	if !ok {
		return NewMismatchError("binders", "%T vs %T", b, other)
	}
	return ZipValues(z, variance, b.Value, o.Value)
}

// ZipInstantiated implements ZippableBinders.
func (b Binders[T]) ZipInstantiated(z Zipper, variance Variance, args Substitution, other ZippableBinders, otherArgs Substitution) error {
	o, ok := other.(Binders[T])
	if !ok {
		return NewMismatchError("binders", "%T vs %T", b, other)
	}
	in := z.Interner()
	return ZipValues(z, variance, b.Substitute(in, args), o.Substitute(in, otherArgs))
}

// ZipBindersStructurally requires both binders to declare the same kinds
// and zips their bodies as they stand. Bound variables then compare by
// index, which is alpha-equivalence.
func ZipBindersStructurally(z Zipper, variance Variance, a, b ZippableBinders) error {
	in := z.Interner()
	if !variableKindsEqual(in, a.BinderKinds().AsSlice(in), b.BinderKinds().AsSlice(in)) {
		return NewMismatchError("binders", "binder kinds differ")
	}
	return a.ZipValues(z, variance, b)
}

func variableKindsEqual(in Interner, a, b []VariableKind) bool {
	return slices.EqualFunc(a, b, func(x, y VariableKind) bool {
		return variableKindEqual(in, x, y)
	})
}

// variableKindEqual compares kinds structurally; const slot types may be
// equal without sharing a handle.
func variableKindEqual(in Interner, a, b VariableKind) bool {
	if a.Class != b.Class || a.TyKind != b.TyKind {
		return false
	}
	if a.Class != ClassConst || a.ConstTy == b.ConstTy {
		return true
	}
	return Equal(in, a.ConstTy, b.ConstTy)
}

// Zippable is implemented by every concrete term type.
type Zippable[T any] interface {
	ZipWith(z Zipper, variance Variance, other T) error
}

// ZipValues zips any two terms of the same type, dispatching like Fold.
func ZipValues[T any](z Zipper, variance Variance, a, b T) error {
	if x, ok := any(a).(Zippable[T]); ok {
		return x.ZipWith(z, variance, b)
	}
	switch p := any(&a).(type) {
	case *WhereClause:
		return ZipWhereClauses(z, variance, *p, castTo[WhereClause](b))
	case *DomainGoal:
		return ZipDomainGoals(z, variance, *p, castTo[DomainGoal](b))
	case *AliasTy:
		return ZipAliasTys(z, variance, *p, castTo[AliasTy](b))
	case *Constraint:
		return ZipConstraints(z, variance, *p, castTo[Constraint](b))
	}
	panic(fmt.Sprintf("ir: %T is not zippable", a))
}

func termName(v any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "ir.")
}

func zipListLen(term string, a, b int) error {
	if a != b {
		return NewMismatchError(term, "length %d vs %d", a, b)
	}
	return nil
}

// ZipWith hands both types to the zipper.
func (t Ty) ZipWith(z Zipper, variance Variance, other Ty) error {
	return z.ZipTys(variance, t, other)
}

// ZipWith hands both lifetimes to the zipper.
func (l Lifetime) ZipWith(z Zipper, variance Variance, other Lifetime) error {
	return z.ZipLifetimes(variance, l, other)
}

// ZipWith hands both constants to the zipper.
func (c Const) ZipWith(z Zipper, variance Variance, other Const) error {
	return z.ZipConsts(variance, c, other)
}

// ZipWith zips two arguments of the same class.
func (a GenericArg) ZipWith(z Zipper, variance Variance, other GenericArg) error {
	in := z.Interner()
	switch x := a.Data(in).(type) {
	case Ty:
		if y, ok := other.Data(in).(Ty); ok {
			return z.ZipTys(variance, x, y)
		}
	case Lifetime:
		if y, ok := other.Data(in).(Lifetime); ok {
			return z.ZipLifetimes(variance, x, y)
		}
	case Const:
		if y, ok := other.Data(in).(Const); ok {
			return z.ZipConsts(variance, x, y)
		}
	}
	return NewMismatchError("generic arg", "%s vs %s", a.Class(in), other.Class(in))
}

// ZipWith zips the arguments pairwise. Without declared variances every
// position is invariant.
func (s Substitution) ZipWith(z Zipper, variance Variance, other Substitution) error {
	return zipSubsts(z, variance, nil, s, other)
}

func zipSubsts(z Zipper, ambient Variance, variances []Variance, a, b Substitution) error {
	in := z.Interner()
	as, bs := a.AsSlice(in), b.AsSlice(in)
	if err := zipListLen("substitution", len(as), len(bs)); err != nil {
		return err
	}
	for i := range as {
		v := Invariant
		if i < len(variances) {
			v = variances[i]
		}
		if err := as[i].ZipWith(z, ambient.Xform(v), bs[i]); err != nil {
			return err
		}
	}
	return nil
}

func covariantAll(n int) []Variance {
	vs := make([]Variance, n)
	for i := range vs {
		vs[i] = Covariant
	}
	return vs
}

// ZipWith zips argument types contravariantly and the return type
// covariantly.
func (s FnSubst) ZipWith(z Zipper, variance Variance, other FnSubst) error {
	n := s.Substitution.Len(z.Interner())
	variances := make([]Variance, n)
	for i := range variances {
		variances[i] = Contravariant
	}
	if n > 0 {
		variances[n-1] = Covariant
	}
	return zipSubsts(z, variance, variances, s.Substitution, other.Substitution)
}

// SuperZipTys is the default structural zip of two types whose shapes
// must agree. Zippers call it after handling variables themselves.
func SuperZipTys(z Zipper, variance Variance, a, b Ty) error {
	in := z.Interner()
	ka, kb := a.Kind(in), b.Kind(in)
	mismatch := func() error {
		return NewMismatchError("ty", "%s vs %s", Render(in, a), Render(in, b))
	}

	switch x := ka.(type) {
	case TyAdt:
		y, ok := kb.(TyAdt)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, z.UnificationDatabase().AdtVariance(x.ID), x.Substitution, y.Substitution)
	case TyAssociatedType:
		y, ok := kb.(TyAssociatedType)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
	case Scalar, TyStr, TyNever, TyError, TyForeign, TyPlaceholder, TyBoundVar, TyInferenceVar:
		if ka != kb {
			return mismatch()
		}
		return nil
	case TyTuple:
		y, ok := kb.(TyTuple)
		if !ok || x.Arity != y.Arity {
			return mismatch()
		}
		return zipSubsts(z, variance, covariantAll(x.Arity), x.Substitution, y.Substitution)
	case TyArray:
		y, ok := kb.(TyArray)
		if !ok {
			return mismatch()
		}
		if err := z.ZipTys(variance.Xform(Covariant), x.Ty, y.Ty); err != nil {
			return err
		}
		return z.ZipConsts(variance.Xform(Invariant), x.Len, y.Len)
	case TySlice:
		y, ok := kb.(TySlice)
		if !ok {
			return mismatch()
		}
		return z.ZipTys(variance.Xform(Covariant), x.Ty, y.Ty)
	case TyRaw:
		y, ok := kb.(TyRaw)
		if !ok || x.Mutability != y.Mutability {
			return mismatch()
		}
		return z.ZipTys(variance.Xform(pointeeVariance(x.Mutability)), x.Ty, y.Ty)
	case TyRef:
		y, ok := kb.(TyRef)
		if !ok || x.Mutability != y.Mutability {
			return mismatch()
		}
		if err := z.ZipLifetimes(variance.Xform(Contravariant), x.Lifetime, y.Lifetime); err != nil {
			return err
		}
		return z.ZipTys(variance.Xform(pointeeVariance(x.Mutability)), x.Ty, y.Ty)
	case TyOpaqueType:
		y, ok := kb.(TyOpaqueType)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
	case TyFnDef:
		y, ok := kb.(TyFnDef)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, z.UnificationDatabase().FnDefVariance(x.ID), x.Substitution, y.Substitution)
	case TyClosure:
		y, ok := kb.(TyClosure)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
	case TyGenerator:
		y, ok := kb.(TyGenerator)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
	case TyGeneratorWitness:
		y, ok := kb.(TyGeneratorWitness)
		if !ok || x.ID != y.ID {
			return mismatch()
		}
		return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
	case TyAlias:
		y, ok := kb.(TyAlias)
		if !ok {
			return mismatch()
		}
		return ZipAliasTys(z, variance, x.Alias, y.Alias)
	case DynTy:
		y, ok := kb.(DynTy)
		if !ok {
			return mismatch()
		}
		if err := z.ZipBinders(variance.Xform(Invariant), x.Bounds, y.Bounds); err != nil {
			return err
		}
		return z.ZipLifetimes(variance.Xform(Contravariant), x.Lifetime, y.Lifetime)
	case FnPointer:
		y, ok := kb.(FnPointer)
		if !ok || x.NumBinders != y.NumBinders || x.Sig != y.Sig {
			return mismatch()
		}
		return z.ZipBinders(variance, x.IntoBinders(in), y.IntoBinders(in))
	}
	return mismatch()
}

func pointeeVariance(m Mutability) Variance {
	if m == Mut {
		return Invariant
	}
	return Covariant
}

// SuperZipConsts compares two constants structurally: their types through
// the zipper, their values exactly.
func SuperZipConsts(z Zipper, variance Variance, a, b Const) error {
	in := z.Interner()
	da, db := a.Data(in), b.Data(in)
	if err := z.ZipTys(variance.Xform(Invariant), da.Ty, db.Ty); err != nil {
		return err
	}
	if da.Value != db.Value {
		return NewMismatchError("const", "%s vs %s", Render(in, a), Render(in, b))
	}
	return nil
}

// ZipWith zips the goals structurally.
func (g Goal) ZipWith(z Zipper, variance Variance, other Goal) error {
	in := z.Interner()
	if g == other {
		return nil
	}
	ga, gb := g.Data(in), other.Data(in)
	mismatch := func() error {
		return NewMismatchError("goal", "%s vs %s", termName(ga), termName(gb))
	}
	switch x := ga.(type) {
	case GoalQuantified:
		y, ok := gb.(GoalQuantified)
		if !ok || x.Kind != y.Kind {
			return mismatch()
		}
		return z.ZipBinders(variance, x.Binders, y.Binders)
	case GoalImplies:
		y, ok := gb.(GoalImplies)
		if !ok {
			return mismatch()
		}
		if err := x.Clauses.ZipWith(z, variance, y.Clauses); err != nil {
			return err
		}
		return x.Goal.ZipWith(z, variance, y.Goal)
	case GoalAll:
		y, ok := gb.(GoalAll)
		if !ok {
			return mismatch()
		}
		return x.Goals.ZipWith(z, variance, y.Goals)
	case GoalAny:
		y, ok := gb.(GoalAny)
		if !ok {
			return mismatch()
		}
		return x.Goals.ZipWith(z, variance, y.Goals)
	case GoalNot:
		y, ok := gb.(GoalNot)
		if !ok {
			return mismatch()
		}
		return x.Goal.ZipWith(z, variance, y.Goal)
	case EqGoal:
		y, ok := gb.(EqGoal)
		if !ok {
			return mismatch()
		}
		if err := x.A.ZipWith(z, variance, y.A); err != nil {
			return err
		}
		return x.B.ZipWith(z, variance, y.B)
	case SubtypeGoal:
		y, ok := gb.(SubtypeGoal)
		if !ok {
			return mismatch()
		}
		if err := x.A.ZipWith(z, variance, y.A); err != nil {
			return err
		}
		return x.B.ZipWith(z, variance, y.B)
	case GoalCannotProve:
		if _, ok := gb.(GoalCannotProve); !ok {
			return mismatch()
		}
		return nil
	case DomainGoal:
		y, ok := gb.(DomainGoal)
		if !ok {
			return mismatch()
		}
		return ZipDomainGoals(z, variance, x, y)
	}
	return mismatch()
}

// ZipWith zips the goals pairwise.
func (g Goals) ZipWith(z Zipper, variance Variance, other Goals) error {
	in := z.Interner()
	as, bs := g.AsSlice(in), other.AsSlice(in)
	if err := zipListLen("goals", len(as), len(bs)); err != nil {
		return err
	}
	for i := range as {
		if err := as[i].ZipWith(z, variance, bs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ZipDomainGoals zips two domain goals of the same variant.
func ZipDomainGoals(z Zipper, variance Variance, a, b DomainGoal) error {
	mismatch := NewMismatchError("domain goal", "%s vs %s", termName(a), termName(b))
	switch x := a.(type) {
	case DomainHolds:
		if y, ok := b.(DomainHolds); ok {
			return ZipWhereClauses(z, variance, x.Clause, y.Clause)
		}
	case DomainWellFormedTrait:
		if y, ok := b.(DomainWellFormedTrait); ok {
			return x.TraitRef.ZipWith(z, variance, y.TraitRef)
		}
	case DomainWellFormedTy:
		if y, ok := b.(DomainWellFormedTy); ok {
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainFromEnvTrait:
		if y, ok := b.(DomainFromEnvTrait); ok {
			return x.TraitRef.ZipWith(z, variance, y.TraitRef)
		}
	case DomainFromEnvTy:
		if y, ok := b.(DomainFromEnvTy); ok {
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainNormalize:
		if y, ok := b.(DomainNormalize); ok {
			if err := ZipAliasTys(z, variance, x.Alias, y.Alias); err != nil {
				return err
			}
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainIsLocal:
		if y, ok := b.(DomainIsLocal); ok {
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainIsUpstream:
		if y, ok := b.(DomainIsUpstream); ok {
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainIsFullyVisible:
		if y, ok := b.(DomainIsFullyVisible); ok {
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainLocalImplAllowed:
		if y, ok := b.(DomainLocalImplAllowed); ok {
			return x.TraitRef.ZipWith(z, variance, y.TraitRef)
		}
	case DomainDownstreamType:
		if y, ok := b.(DomainDownstreamType); ok {
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case DomainCompatible, DomainReveal, DomainObjectSafe:
		if a == b {
			return nil
		}
	}
	return mismatch
}

// ZipWhereClauses zips two where-clauses of the same variant.
func ZipWhereClauses(z Zipper, variance Variance, a, b WhereClause) error {
	switch x := a.(type) {
	case Implemented:
		if y, ok := b.(Implemented); ok {
			return x.TraitRef.ZipWith(z, variance, y.TraitRef)
		}
	case AliasEq:
		if y, ok := b.(AliasEq); ok {
			if err := ZipAliasTys(z, variance, x.Alias, y.Alias); err != nil {
				return err
			}
			return x.Ty.ZipWith(z, variance, y.Ty)
		}
	case LifetimeOutlives:
		if y, ok := b.(LifetimeOutlives); ok {
			if err := z.ZipLifetimes(variance, x.A, y.A); err != nil {
				return err
			}
			return z.ZipLifetimes(variance, x.B, y.B)
		}
	case TypeOutlives:
		if y, ok := b.(TypeOutlives); ok {
			if err := z.ZipTys(variance, x.Ty, y.Ty); err != nil {
				return err
			}
			return z.ZipLifetimes(variance, x.Lifetime, y.Lifetime)
		}
	}
	return NewMismatchError("where clause", "%s vs %s", termName(a), termName(b))
}

// ZipAliasTys zips two aliases of the same variant and item.
func ZipAliasTys(z Zipper, variance Variance, a, b AliasTy) error {
	switch x := a.(type) {
	case ProjectionTy:
		if y, ok := b.(ProjectionTy); ok && x.AssocTypeID == y.AssocTypeID {
			return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
		}
	case OpaqueTy:
		if y, ok := b.(OpaqueTy); ok && x.OpaqueTyID == y.OpaqueTyID {
			return zipSubsts(z, variance, nil, x.Substitution, y.Substitution)
		}
	}
	return NewMismatchError("alias", "%s vs %s", termName(a), termName(b))
}

// ZipConstraints zips two region constraints of the same variant.
func ZipConstraints(z Zipper, variance Variance, a, b Constraint) error {
	switch x := a.(type) {
	case OutlivesConstraint:
		if y, ok := b.(OutlivesConstraint); ok {
			if err := z.ZipLifetimes(variance, x.A, y.A); err != nil {
				return err
			}
			return z.ZipLifetimes(variance, x.B, y.B)
		}
	case TypeOutlivesConstraint:
		if y, ok := b.(TypeOutlivesConstraint); ok {
			if err := z.ZipTys(variance, x.Ty, y.Ty); err != nil {
				return err
			}
			return z.ZipLifetimes(variance, x.Lifetime, y.Lifetime)
		}
	}
	return NewMismatchError("constraint", "%s vs %s", termName(a), termName(b))
}

// ZipWith zips two trait references to the same trait.
func (t TraitRef) ZipWith(z Zipper, variance Variance, other TraitRef) error {
	if t.TraitID != other.TraitID {
		return NewMismatchError("trait ref", "trait #%d vs #%d", t.TraitID, other.TraitID)
	}
	return zipSubsts(z, variance, nil, t.Substitution, other.Substitution)
}

// ZipWith zips the clause bodies under their binders.
func (c ProgramClause) ZipWith(z Zipper, variance Variance, other ProgramClause) error {
	if c == other {
		return nil
	}
	in := z.Interner()
	return z.ZipBinders(variance, c.Implication(in), other.Implication(in))
}

// ZipWith zips consequence, conditions and constraints. Priorities must
// agree.
func (i ProgramClauseImplication) ZipWith(z Zipper, variance Variance, other ProgramClauseImplication) error {
	if i.Priority != other.Priority {
		return NewMismatchError("program clause", "priority %d vs %d", i.Priority, other.Priority)
	}
	if err := ZipDomainGoals(z, variance, i.Consequence, other.Consequence); err != nil {
		return err
	}
	if err := i.Conditions.ZipWith(z, variance, other.Conditions); err != nil {
		return err
	}
	return i.Constraints.ZipWith(z, variance, other.Constraints)
}

// ZipWith zips the clauses pairwise.
func (c ProgramClauses) ZipWith(z Zipper, variance Variance, other ProgramClauses) error {
	in := z.Interner()
	as, bs := c.AsSlice(in), other.AsSlice(in)
	if err := zipListLen("program clauses", len(as), len(bs)); err != nil {
		return err
	}
	for i := range as {
		if err := as[i].ZipWith(z, variance, bs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ZipWith zips the quantified where-clauses pairwise through the zipper's
// binder handling.
func (q QuantifiedWhereClauses) ZipWith(z Zipper, variance Variance, other QuantifiedWhereClauses) error {
	in := z.Interner()
	as, bs := q.AsSlice(in), other.AsSlice(in)
	if err := zipListLen("where clauses", len(as), len(bs)); err != nil {
		return err
	}
	for i := range as {
		if err := z.ZipBinders(variance, as[i], bs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ZipWith zips the constraints pairwise.
func (c Constraints) ZipWith(z Zipper, variance Variance, other Constraints) error {
	in := z.Interner()
	as, bs := c.AsSlice(in), other.AsSlice(in)
	if err := zipListLen("constraints", len(as), len(bs)); err != nil {
		return err
	}
	for i := range as {
		if err := as[i].ZipWith(z, variance, bs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ZipWith routes binders through the zipper.
func (b Binders[T]) ZipWith(z Zipper, variance Variance, other Binders[T]) error {
	return z.ZipBinders(variance, b, other)
}

// ZipWith requires equal universes and zips the clauses invariantly.
func (e Environment) ZipWith(z Zipper, _ Variance, other Environment) error {
	if e.Universe != other.Universe {
		return NewMismatchError("environment", "universe %s vs %s", e.Universe, other.Universe)
	}
	return e.Clauses.ZipWith(z, Invariant, other.Clauses)
}

// ZipWith zips the environments, then the goals.
func (e InEnvironment[G]) ZipWith(z Zipper, variance Variance, other InEnvironment[G]) error {
	if err := e.Environment.ZipWith(z, variance, other.Environment); err != nil {
		return err
	}
	return ZipValues(z, variance, e.Goal, other.Goal)
}

// ZipWith requires identical binder kinds and zips the values.
func (c Canonical[T]) ZipWith(z Zipper, variance Variance, other Canonical[T]) error {
	in := z.Interner()
	if !slices.EqualFunc(c.Binders.AsSlice(in), other.Binders.AsSlice(in), func(x, y CanonicalVarKind) bool {
		return x.Value == y.Value && variableKindEqual(in, x.Kind, y.Kind)
	}) {
		return NewMismatchError("canonical", "binder kinds differ")
	}
	return ZipValues(z, variance, c.Value, other.Value)
}

// ZipWith requires equal universe counts and zips the canonical values.
func (u UCanonical[T]) ZipWith(z Zipper, variance Variance, other UCanonical[T]) error {
	if u.Universes != other.Universes {
		return NewMismatchError("ucanonical", "%d vs %d universes", u.Universes, other.Universes)
	}
	return u.Canonical.ZipWith(z, variance, other.Canonical)
}

// equalZipper succeeds only on structurally identical terms.
type equalZipper struct {
	in Interner
}

func (e equalZipper) Interner() Interner                     { return e.in }
func (equalZipper) UnificationDatabase() UnificationDatabase { return InvariantDatabase{} }

func (e equalZipper) ZipTys(_ Variance, a, b Ty) error {
	if a == b {
		return nil
	}
	return SuperZipTys(e, Invariant, a, b)
}

func (e equalZipper) ZipLifetimes(_ Variance, a, b Lifetime) error {
	if a == b || a.Data(e.in) == b.Data(e.in) {
		return nil
	}
	return NewMismatchError("lifetime", "%s vs %s", Render(e.in, a), Render(e.in, b))
}

func (e equalZipper) ZipConsts(_ Variance, a, b Const) error {
	if a == b {
		return nil
	}
	return SuperZipConsts(e, Invariant, a, b)
}

func (e equalZipper) ZipBinders(variance Variance, a, b ZippableBinders) error {
	return ZipBindersStructurally(e, variance, a, b)
}

// Equal reports whether a and b are structurally equal. Under de Bruijn
// indices this is alpha-equivalence; handle identity is never required.
func Equal[T any](in Interner, a, b T) bool {
	return ZipValues(equalZipper{in: in}, Invariant, a, b) == nil
}

// matchZipper is a conservative unification pre-check: variables and
// aliases match anything, lifetimes and constants always match.
type matchZipper struct {
	in Interner
	db UnificationDatabase
}

func (m matchZipper) Interner() Interner                       { return m.in }
func (m matchZipper) UnificationDatabase() UnificationDatabase { return m.db }

func (m matchZipper) ZipTys(variance Variance, a, b Ty) error {
	if isFlexible(m.in, a) || isFlexible(m.in, b) {
		return nil
	}
	return SuperZipTys(m, variance, a, b)
}

func isFlexible(in Interner, ty Ty) bool {
	switch ty.Kind(in).(type) {
	case TyInferenceVar, TyBoundVar, TyAlias:
		return true
	}
	return false
}

func (matchZipper) ZipLifetimes(Variance, Lifetime, Lifetime) error { return nil }
func (matchZipper) ZipConsts(Variance, Const, Const) error          { return nil }

func (m matchZipper) ZipBinders(variance Variance, a, b ZippableBinders) error {
	return a.ZipValues(m, variance, b)
}

// CouldMatch reports whether a and b might unify. A false answer is
// definitive; a true answer may still fail under full unification.
func CouldMatch[T any](in Interner, db UnificationDatabase, a, b T) bool {
	if db == nil {
		db = InvariantDatabase{}
	}
	return ZipValues(matchZipper{in: in, db: db}, Invariant, a, b) == nil
}

// CouldMatch reports whether the clause's consequence might unify with
// goal.
func (c ProgramClause) CouldMatch(in Interner, db UnificationDatabase, goal DomainGoal) bool {
	return CouldMatch(in, db, c.Implication(in).Value.Consequence, goal)
}
