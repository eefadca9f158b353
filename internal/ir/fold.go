package ir

import (
	"fmt"
	"slices"
)

// Folder rewrites a term. The traversal rebuilds all structure itself and
// offers the folder only the leaves that carry variables: free bound
// variables, placeholders and inference variables of each kind.
//
// outer is the number of binders crossed since the fold started. Free
// bound variables are passed already shifted out by outer, so they are
// relative to the fold's starting point; a folder that returns a term
// containing bound variables must shift it in by outer itself.
type Folder interface {
	Interner() Interner

	FoldFreeVarTy(bv BoundVar, outer DebruijnIndex) (Ty, error)
	FoldFreeVarLifetime(bv BoundVar, outer DebruijnIndex) (Lifetime, error)
	FoldFreeVarConst(ty Ty, bv BoundVar, outer DebruijnIndex) (Const, error)

	FoldFreePlaceholderTy(idx PlaceholderIndex, outer DebruijnIndex) (Ty, error)
	FoldFreePlaceholderLifetime(idx PlaceholderIndex, outer DebruijnIndex) (Lifetime, error)
	FoldFreePlaceholderConst(ty Ty, idx PlaceholderIndex, outer DebruijnIndex) (Const, error)

	FoldInferenceTy(v InferenceVar, kind TyVariableKind, outer DebruijnIndex) (Ty, error)
	FoldInferenceLifetime(v InferenceVar, outer DebruijnIndex) (Lifetime, error)
	FoldInferenceConst(ty Ty, v InferenceVar, outer DebruijnIndex) (Const, error)
}

// Optional overrides. A folder implementing one of these takes over the
// whole subtree; it calls the matching SuperFold function to continue the
// default traversal.
type (
	TyFolder interface {
		FoldTy(ty Ty, outer DebruijnIndex) (Ty, error)
	}
	LifetimeFolder interface {
		FoldLifetime(lt Lifetime, outer DebruijnIndex) (Lifetime, error)
	}
	ConstFolder interface {
		FoldConst(c Const, outer DebruijnIndex) (Const, error)
	}
	GoalFolder interface {
		FoldGoal(g Goal, outer DebruijnIndex) (Goal, error)
	}
	// UniverseFolder rewrites the visible universe of environments.
	UniverseFolder interface {
		FoldUniverse(u UniverseIndex) (UniverseIndex, error)
	}
)

// FolderBase implements every leaf hook as the identity. Embed it and
// override the hooks a strategy cares about.
type FolderBase struct {
	In Interner
}

func (b FolderBase) Interner() Interner { return b.In }

func (b FolderBase) FoldFreeVarTy(bv BoundVar, outer DebruijnIndex) (Ty, error) {
	return bv.ShiftedInFrom(outer).ToTy(b.In), nil
}

func (b FolderBase) FoldFreeVarLifetime(bv BoundVar, outer DebruijnIndex) (Lifetime, error) {
	return bv.ShiftedInFrom(outer).ToLifetime(b.In), nil
}

func (b FolderBase) FoldFreeVarConst(ty Ty, bv BoundVar, outer DebruijnIndex) (Const, error) {
	return bv.ShiftedInFrom(outer).ToConst(b.In, ty), nil
}

func (b FolderBase) FoldFreePlaceholderTy(idx PlaceholderIndex, _ DebruijnIndex) (Ty, error) {
	return idx.ToTy(b.In), nil
}

func (b FolderBase) FoldFreePlaceholderLifetime(idx PlaceholderIndex, _ DebruijnIndex) (Lifetime, error) {
	return idx.ToLifetime(b.In), nil
}

func (b FolderBase) FoldFreePlaceholderConst(ty Ty, idx PlaceholderIndex, _ DebruijnIndex) (Const, error) {
	return idx.ToConst(b.In, ty), nil
}

func (b FolderBase) FoldInferenceTy(v InferenceVar, kind TyVariableKind, _ DebruijnIndex) (Ty, error) {
	return v.ToTy(b.In, kind), nil
}

func (b FolderBase) FoldInferenceLifetime(v InferenceVar, _ DebruijnIndex) (Lifetime, error) {
	return v.ToLifetime(b.In), nil
}

func (b FolderBase) FoldInferenceConst(ty Ty, v InferenceVar, _ DebruijnIndex) (Const, error) {
	return v.ToConst(b.In, ty), nil
}

// Foldable is implemented by every concrete term type.
type Foldable[T any] interface {
	FoldWith(f Folder, outer DebruijnIndex) (T, error)
}

// Fold folds any term: concrete term types and the sealed interfaces
// WhereClause, DomainGoal, AliasTy and Constraint. Other types are a
// contract violation.
func Fold[T any](f Folder, v T, outer DebruijnIndex) (T, error) {
	if x, ok := any(v).(Foldable[T]); ok {
		return x.FoldWith(f, outer)
	}
	switch p := any(&v).(type) {
	case *WhereClause:
		r, err := FoldWhereClause(f, *p, outer)
		return castTo[T](r), err
	case *DomainGoal:
		r, err := FoldDomainGoal(f, *p, outer)
		return castTo[T](r), err
	case *AliasTy:
		r, err := FoldAliasTy(f, *p, outer)
		return castTo[T](r), err
	case *Constraint:
		r, err := FoldConstraint(f, *p, outer)
		return castTo[T](r), err
	}
	panic(fmt.Sprintf("ir: %T is not foldable", v))
}

func castTo[T any](v any) T {
	t, _ := v.(T)
	return t
}

// foldList folds each element, allocating a new slice only once an
// element changes. changed is false when every element came back equal.
func foldList[E comparable](xs []E, fold func(E) (E, error)) (out []E, changed bool, err error) {
	for i, x := range xs {
		fx, err := fold(x)
		if err != nil {
			return nil, false, err
		}
		if out == nil && fx != x {
			out = make([]E, len(xs))
			copy(out, xs[:i])
		}
		if out != nil {
			out[i] = fx
		}
	}
	return out, out != nil, nil
}

// FoldWith folds the type, deferring to a TyFolder when f is one.
func (t Ty) FoldWith(f Folder, outer DebruijnIndex) (Ty, error) {
	if tf, ok := f.(TyFolder); ok {
		return tf.FoldTy(t, outer)
	}
	return SuperFoldTy(f, t, outer)
}

// SuperFoldTy is the default traversal of a type.
func SuperFoldTy(f Folder, ty Ty, outer DebruijnIndex) (Ty, error) {
	in := f.Interner()
	kind := ty.Kind(in)
	switch k := kind.(type) {
	case TyBoundVar:
		if bv, ok := k.Var.ShiftedOutTo(outer); ok {
			return f.FoldFreeVarTy(bv, outer)
		}
		return ty, nil
	case TyPlaceholder:
		return f.FoldFreePlaceholderTy(k.Index, outer)
	case TyInferenceVar:
		return f.FoldInferenceTy(k.Var, k.Kind, outer)
	}

	folded, err := foldTyKind(f, kind, outer)
	if err != nil {
		return Ty{}, err
	}
	if folded == kind {
		return ty, nil
	}
	return NewTy(in, folded), nil
}

func foldTyKind(f Folder, kind TyKind, outer DebruijnIndex) (TyKind, error) {
	var err error
	switch k := kind.(type) {
	case TyAdt:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyAssociatedType:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyTuple:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyOpaqueType:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyFnDef:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyClosure:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyGenerator:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyGeneratorWitness:
		k.Substitution, err = k.Substitution.FoldWith(f, outer)
		return k, err
	case TyArray:
		if k.Ty, err = k.Ty.FoldWith(f, outer); err != nil {
			return nil, err
		}
		k.Len, err = k.Len.FoldWith(f, outer)
		return k, err
	case TySlice:
		k.Ty, err = k.Ty.FoldWith(f, outer)
		return k, err
	case TyRaw:
		k.Ty, err = k.Ty.FoldWith(f, outer)
		return k, err
	case TyRef:
		if k.Lifetime, err = k.Lifetime.FoldWith(f, outer); err != nil {
			return nil, err
		}
		k.Ty, err = k.Ty.FoldWith(f, outer)
		return k, err
	case FnPointer:
		k.Substitution, err = k.Substitution.FoldWith(f, outer.ShiftedIn())
		return k, err
	case DynTy:
		if k.Bounds, err = k.Bounds.FoldWith(f, outer); err != nil {
			return nil, err
		}
		k.Lifetime, err = k.Lifetime.FoldWith(f, outer)
		return k, err
	case TyAlias:
		k.Alias, err = FoldAliasTy(f, k.Alias, outer)
		return k, err
	default:
		// Scalars, str, never, error and foreign types have no children.
		return kind, nil
	}
}

// FoldWith folds the lifetime, deferring to a LifetimeFolder when f is one.
func (l Lifetime) FoldWith(f Folder, outer DebruijnIndex) (Lifetime, error) {
	if lf, ok := f.(LifetimeFolder); ok {
		return lf.FoldLifetime(l, outer)
	}
	return SuperFoldLifetime(f, l, outer)
}

// SuperFoldLifetime is the default traversal of a lifetime.
func SuperFoldLifetime(f Folder, lt Lifetime, outer DebruijnIndex) (Lifetime, error) {
	switch d := lt.Data(f.Interner()).(type) {
	case LifetimeBoundVar:
		if bv, ok := d.Var.ShiftedOutTo(outer); ok {
			return f.FoldFreeVarLifetime(bv, outer)
		}
		return lt, nil
	case LifetimePlaceholder:
		return f.FoldFreePlaceholderLifetime(d.Index, outer)
	case LifetimeInferenceVar:
		return f.FoldInferenceLifetime(d.Var, outer)
	default:
		return lt, nil
	}
}

// FoldWith folds the constant, deferring to a ConstFolder when f is one.
func (c Const) FoldWith(f Folder, outer DebruijnIndex) (Const, error) {
	if cf, ok := f.(ConstFolder); ok {
		return cf.FoldConst(c, outer)
	}
	return SuperFoldConst(f, c, outer)
}

// SuperFoldConst is the default traversal of a constant. The constant's
// type is folded first and handed to the leaf hooks.
func SuperFoldConst(f Folder, c Const, outer DebruijnIndex) (Const, error) {
	in := f.Interner()
	data := c.Data(in)
	ty, err := data.Ty.FoldWith(f, outer)
	if err != nil {
		return Const{}, err
	}
	switch v := data.Value.(type) {
	case ConstBoundVar:
		if bv, ok := v.Var.ShiftedOutTo(outer); ok {
			return f.FoldFreeVarConst(ty, bv, outer)
		}
	case ConstPlaceholder:
		return f.FoldFreePlaceholderConst(ty, v.Index, outer)
	case ConstInferenceVar:
		return f.FoldInferenceConst(ty, v.Var, outer)
	}
	if ty == data.Ty {
		return c, nil
	}
	return NewConst(in, ty, data.Value), nil
}

// FoldWith folds the argument.
func (a GenericArg) FoldWith(f Folder, outer DebruijnIndex) (GenericArg, error) {
	in := f.Interner()
	var folded GenericArgData
	var err error
	switch d := a.Data(in).(type) {
	case Ty:
		folded, err = d.FoldWith(f, outer)
	case Lifetime:
		folded, err = d.FoldWith(f, outer)
	case Const:
		folded, err = d.FoldWith(f, outer)
	}
	if err != nil {
		return GenericArg{}, err
	}
	if folded == a.Data(in) {
		return a, nil
	}
	return NewGenericArg(in, folded), nil
}

// FoldWith folds every argument.
func (s Substitution) FoldWith(f Folder, outer DebruijnIndex) (Substitution, error) {
	in := f.Interner()
	out, changed, err := foldList(s.AsSlice(in), func(a GenericArg) (GenericArg, error) {
		return a.FoldWith(f, outer)
	})
	if err != nil || !changed {
		return s, err
	}
	return NewSubstitution(in, out...), nil
}

// FoldWith folds the goal, deferring to a GoalFolder when f is one.
func (g Goal) FoldWith(f Folder, outer DebruijnIndex) (Goal, error) {
	if gf, ok := f.(GoalFolder); ok {
		return gf.FoldGoal(g, outer)
	}
	return SuperFoldGoal(f, g, outer)
}

// SuperFoldGoal is the default traversal of a goal.
func SuperFoldGoal(f Folder, g Goal, outer DebruijnIndex) (Goal, error) {
	in := f.Interner()
	data := g.Data(in)
	folded, err := foldGoalData(f, data, outer)
	if err != nil {
		return Goal{}, err
	}
	if folded == data {
		return g, nil
	}
	return NewGoal(in, folded), nil
}

func foldGoalData(f Folder, data GoalData, outer DebruijnIndex) (GoalData, error) {
	var err error
	switch d := data.(type) {
	case GoalQuantified:
		d.Binders, err = d.Binders.FoldWith(f, outer)
		return d, err
	case GoalImplies:
		if d.Clauses, err = d.Clauses.FoldWith(f, outer); err != nil {
			return nil, err
		}
		d.Goal, err = d.Goal.FoldWith(f, outer)
		return d, err
	case GoalAll:
		d.Goals, err = d.Goals.FoldWith(f, outer)
		return d, err
	case GoalAny:
		d.Goals, err = d.Goals.FoldWith(f, outer)
		return d, err
	case GoalNot:
		d.Goal, err = d.Goal.FoldWith(f, outer)
		return d, err
	case EqGoal:
		return d.FoldWith(f, outer)
	case SubtypeGoal:
		return d.FoldWith(f, outer)
	case GoalCannotProve:
		return d, nil
	case DomainGoal:
		return FoldDomainGoal(f, d, outer)
	}
	panic(fmt.Sprintf("ir: unknown goal variant %T", data))
}

// FoldWith folds both sides.
func (e EqGoal) FoldWith(f Folder, outer DebruijnIndex) (EqGoal, error) {
	var err error
	if e.A, err = e.A.FoldWith(f, outer); err != nil {
		return EqGoal{}, err
	}
	e.B, err = e.B.FoldWith(f, outer)
	return e, err
}

// FoldWith folds both sides.
func (s SubtypeGoal) FoldWith(f Folder, outer DebruijnIndex) (SubtypeGoal, error) {
	var err error
	if s.A, err = s.A.FoldWith(f, outer); err != nil {
		return SubtypeGoal{}, err
	}
	s.B, err = s.B.FoldWith(f, outer)
	return s, err
}

// FoldWith folds every goal.
func (g Goals) FoldWith(f Folder, outer DebruijnIndex) (Goals, error) {
	in := f.Interner()
	out, changed, err := foldList(g.AsSlice(in), func(x Goal) (Goal, error) {
		return x.FoldWith(f, outer)
	})
	if err != nil || !changed {
		return g, err
	}
	return NewGoals(in, out...), nil
}

// FoldDomainGoal folds a domain goal.
func FoldDomainGoal(f Folder, g DomainGoal, outer DebruijnIndex) (DomainGoal, error) {
	var err error
	switch d := g.(type) {
	case DomainHolds:
		d.Clause, err = FoldWhereClause(f, d.Clause, outer)
		return d, err
	case DomainWellFormedTrait:
		d.TraitRef, err = d.TraitRef.FoldWith(f, outer)
		return d, err
	case DomainWellFormedTy:
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainFromEnvTrait:
		d.TraitRef, err = d.TraitRef.FoldWith(f, outer)
		return d, err
	case DomainFromEnvTy:
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainNormalize:
		if d.Alias, err = FoldAliasTy(f, d.Alias, outer); err != nil {
			return nil, err
		}
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainIsLocal:
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainIsUpstream:
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainIsFullyVisible:
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainLocalImplAllowed:
		d.TraitRef, err = d.TraitRef.FoldWith(f, outer)
		return d, err
	case DomainDownstreamType:
		d.Ty, err = d.Ty.FoldWith(f, outer)
		return d, err
	case DomainCompatible, DomainReveal, DomainObjectSafe:
		return g, nil
	}
	panic(fmt.Sprintf("ir: unknown domain goal %T", g))
}

// FoldWhereClause folds a where-clause.
func FoldWhereClause(f Folder, wc WhereClause, outer DebruijnIndex) (WhereClause, error) {
	var err error
	switch w := wc.(type) {
	case Implemented:
		w.TraitRef, err = w.TraitRef.FoldWith(f, outer)
		return w, err
	case AliasEq:
		if w.Alias, err = FoldAliasTy(f, w.Alias, outer); err != nil {
			return nil, err
		}
		w.Ty, err = w.Ty.FoldWith(f, outer)
		return w, err
	case LifetimeOutlives:
		if w.A, err = w.A.FoldWith(f, outer); err != nil {
			return nil, err
		}
		w.B, err = w.B.FoldWith(f, outer)
		return w, err
	case TypeOutlives:
		if w.Ty, err = w.Ty.FoldWith(f, outer); err != nil {
			return nil, err
		}
		w.Lifetime, err = w.Lifetime.FoldWith(f, outer)
		return w, err
	}
	panic(fmt.Sprintf("ir: unknown where-clause %T", wc))
}

// FoldAliasTy folds an alias.
func FoldAliasTy(f Folder, a AliasTy, outer DebruijnIndex) (AliasTy, error) {
	switch x := a.(type) {
	case ProjectionTy:
		return x.FoldWith(f, outer)
	case OpaqueTy:
		return x.FoldWith(f, outer)
	}
	panic(fmt.Sprintf("ir: unknown alias %T", a))
}

// FoldConstraint folds a region constraint.
func FoldConstraint(f Folder, c Constraint, outer DebruijnIndex) (Constraint, error) {
	var err error
	switch x := c.(type) {
	case OutlivesConstraint:
		if x.A, err = x.A.FoldWith(f, outer); err != nil {
			return nil, err
		}
		x.B, err = x.B.FoldWith(f, outer)
		return x, err
	case TypeOutlivesConstraint:
		if x.Ty, err = x.Ty.FoldWith(f, outer); err != nil {
			return nil, err
		}
		x.Lifetime, err = x.Lifetime.FoldWith(f, outer)
		return x, err
	}
	panic(fmt.Sprintf("ir: unknown constraint %T", c))
}

// FoldWith folds the trait's arguments.
func (t TraitRef) FoldWith(f Folder, outer DebruijnIndex) (TraitRef, error) {
	var err error
	t.Substitution, err = t.Substitution.FoldWith(f, outer)
	return t, err
}

// FoldWith folds the projection's arguments.
func (p ProjectionTy) FoldWith(f Folder, outer DebruijnIndex) (ProjectionTy, error) {
	var err error
	p.Substitution, err = p.Substitution.FoldWith(f, outer)
	return p, err
}

// FoldWith folds the opaque type's arguments.
func (o OpaqueTy) FoldWith(f Folder, outer DebruijnIndex) (OpaqueTy, error) {
	var err error
	o.Substitution, err = o.Substitution.FoldWith(f, outer)
	return o, err
}

// FoldWith folds the argument and return types.
func (s FnSubst) FoldWith(f Folder, outer DebruijnIndex) (FnSubst, error) {
	var err error
	s.Substitution, err = s.Substitution.FoldWith(f, outer)
	return s, err
}

// FoldWith folds the clause body under its binder.
func (c ProgramClause) FoldWith(f Folder, outer DebruijnIndex) (ProgramClause, error) {
	in := f.Interner()
	data := c.Data(in)
	implication, err := data.Implication.FoldWith(f, outer)
	if err != nil {
		return ProgramClause{}, err
	}
	if implication == data.Implication {
		return c, nil
	}
	return NewProgramClause(in, implication), nil
}

// FoldWith folds the consequence, conditions and constraints.
func (i ProgramClauseImplication) FoldWith(f Folder, outer DebruijnIndex) (ProgramClauseImplication, error) {
	var err error
	if i.Consequence, err = FoldDomainGoal(f, i.Consequence, outer); err != nil {
		return ProgramClauseImplication{}, err
	}
	if i.Conditions, err = i.Conditions.FoldWith(f, outer); err != nil {
		return ProgramClauseImplication{}, err
	}
	i.Constraints, err = i.Constraints.FoldWith(f, outer)
	return i, err
}

// FoldWith folds every clause.
func (c ProgramClauses) FoldWith(f Folder, outer DebruijnIndex) (ProgramClauses, error) {
	in := f.Interner()
	out, changed, err := foldList(c.AsSlice(in), func(x ProgramClause) (ProgramClause, error) {
		return x.FoldWith(f, outer)
	})
	if err != nil || !changed {
		return c, err
	}
	return NewProgramClauses(in, out...), nil
}

// FoldWith folds every where-clause.
func (q QuantifiedWhereClauses) FoldWith(f Folder, outer DebruijnIndex) (QuantifiedWhereClauses, error) {
	in := f.Interner()
	out, changed, err := foldList(q.AsSlice(in), func(x QuantifiedWhereClause) (QuantifiedWhereClause, error) {
		return x.FoldWith(f, outer)
	})
	if err != nil || !changed {
		return q, err
	}
	return NewQuantifiedWhereClauses(in, out...), nil
}

// FoldWith folds every constraint.
func (c Constraints) FoldWith(f Folder, outer DebruijnIndex) (Constraints, error) {
	in := f.Interner()
	out, changed, err := foldList(c.AsSlice(in), func(x InEnvironment[Constraint]) (InEnvironment[Constraint], error) {
		return x.FoldWith(f, outer)
	})
	if err != nil || !changed {
		return c, err
	}
	return NewConstraints(in, out...), nil
}

// FoldWith folds the types of const declarations. The list is rebuilt
// only when one of them changes.
func (k VariableKinds) FoldWith(f Folder, outer DebruijnIndex) (VariableKinds, error) {
	in := f.Interner()
	kinds := k.AsSlice(in)
	var folded []VariableKind
	for i, kind := range kinds {
		if kind.Class != ClassConst {
			continue
		}
		ty, err := Fold(f, kind.ConstTy, outer)
		if err != nil {
			return VariableKinds{}, err
		}
		if Equal(in, ty, kind.ConstTy) {
			continue
		}
		if folded == nil {
			folded = slices.Clone(kinds)
		}
		folded[i].ConstTy = ty
	}
	if folded == nil {
		return k, nil
	}
	return NewVariableKinds(in, folded...), nil
}

// FoldWith folds the declarations at the current level and the value one
// binder level deeper.
func (b Binders[T]) FoldWith(f Folder, outer DebruijnIndex) (Binders[T], error) {
	kinds, err := b.Kinds.FoldWith(f, outer)
	if err != nil {
		return Binders[T]{}, err
	}
	value, err := Fold(f, b.Value, outer.ShiftedIn())
	if err != nil {
		return Binders[T]{}, err
	}
	return Binders[T]{Kinds: kinds, Value: value}, nil
}

// FoldWith folds the environment's clauses and, for a UniverseFolder, its
// universe.
func (e Environment) FoldWith(f Folder, outer DebruijnIndex) (Environment, error) {
	clauses, err := e.Clauses.FoldWith(f, outer)
	if err != nil {
		return Environment{}, err
	}
	universe := e.Universe
	if uf, ok := f.(UniverseFolder); ok {
		if universe, err = uf.FoldUniverse(universe); err != nil {
			return Environment{}, err
		}
	}
	return Environment{Clauses: clauses, Universe: universe}, nil
}

// FoldWith folds the environment, then the goal.
func (e InEnvironment[G]) FoldWith(f Folder, outer DebruijnIndex) (InEnvironment[G], error) {
	env, err := e.Environment.FoldWith(f, outer)
	if err != nil {
		return InEnvironment[G]{}, err
	}
	goal, err := Fold(f, e.Goal, outer)
	if err != nil {
		return InEnvironment[G]{}, err
	}
	return InEnvironment[G]{Environment: env, Goal: goal}, nil
}

// FoldWith folds the value under the canonical binder. The binder kinds
// are kept.
func (c Canonical[T]) FoldWith(f Folder, outer DebruijnIndex) (Canonical[T], error) {
	value, err := Fold(f, c.Value, outer.ShiftedIn())
	if err != nil {
		return Canonical[T]{}, err
	}
	return Canonical[T]{Value: value, Binders: c.Binders}, nil
}

// FoldWith folds the canonical value.
func (u UCanonical[T]) FoldWith(f Folder, outer DebruijnIndex) (UCanonical[T], error) {
	c, err := u.Canonical.FoldWith(f, outer)
	if err != nil {
		return UCanonical[T]{}, err
	}
	return UCanonical[T]{Canonical: c, Universes: u.Universes}, nil
}

// FoldWith folds the substitution and constraints.
func (c ConstrainedSubst) FoldWith(f Folder, outer DebruijnIndex) (ConstrainedSubst, error) {
	var err error
	if c.Subst, err = c.Subst.FoldWith(f, outer); err != nil {
		return ConstrainedSubst{}, err
	}
	c.Constraints, err = c.Constraints.FoldWith(f, outer)
	return c, err
}

// FoldWith folds the substitution, constraints and delayed goals.
func (a AnswerSubst) FoldWith(f Folder, outer DebruijnIndex) (AnswerSubst, error) {
	var err error
	if a.Subst, err = a.Subst.FoldWith(f, outer); err != nil {
		return AnswerSubst{}, err
	}
	if a.Constraints, err = a.Constraints.FoldWith(f, outer); err != nil {
		return AnswerSubst{}, err
	}
	a.DelayedGoals, err = a.DelayedGoals.FoldWith(f, outer)
	return a, err
}
