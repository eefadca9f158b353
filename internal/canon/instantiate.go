package canon

import "github.com/roach88/traitir/internal/ir"

// CanonicalizeGoal canonicalizes and universe-compacts a goal in its
// environment, producing the cache key form of a query. The returned
// variables are the ones each canonical slot stands for.
func CanonicalizeGoal(t *InferenceTable, goal ir.InEnvironment[ir.Goal]) (UCanonicalized[ir.InEnvironment[ir.Goal]], []ir.WithKind[ir.InferenceVar]) {
	c := Canonicalize(t, goal)
	return UCanonicalize(t.in, c.Quantified), c.FreeVars
}

// Instantiate replaces each slot of c with a fresh variable of the slot's
// kind and universe. It returns the substitution of fresh variables along
// with the instantiated value.
func Instantiate[T any](t *InferenceTable, c ir.Canonical[T]) (ir.Substitution, T) {
	kinds := c.Binders.AsSlice(t.in)
	args := make([]ir.GenericArg, len(kinds))
	for i, k := range kinds {
		args[i] = t.NewArg(k.Kind, k.Value)
	}
	subst := ir.NewSubstitution(t.in, args...)
	return subst, ir.Apply(t.in, subst, c.Value)
}

// FromCanonical starts a new solving session for a canonical query. The
// table gets uc.Universes universes and one fresh variable per slot.
func FromCanonical[T any](in ir.Interner, uc ir.UCanonical[T], opts ...TableOption) (*InferenceTable, ir.Substitution, T) {
	t := NewInferenceTable(in, opts...)
	for range uc.Universes - 1 {
		t.NewUniverse()
	}
	subst, value := Instantiate(t, uc.Canonical)
	t.logger.Debug("from canonical", "session", t.session, "universes", uc.Universes, "slots", subst.Len(in))
	return t, subst, value
}

// InstantiateBindersExistentially replaces each variable bound by b with
// a fresh inference variable in the table's largest universe.
func InstantiateBindersExistentially[T any](t *InferenceTable, b ir.Binders[T]) T {
	ui := t.MaxUniverse()
	kinds := b.Kinds.AsSlice(t.in)
	args := make([]ir.GenericArg, len(kinds))
	for i, k := range kinds {
		args[i] = t.NewArg(k, ui)
	}
	return b.SubstituteArgs(t.in, args)
}

// InstantiateBindersUniversally enters a fresh universe and replaces each
// variable bound by b with a placeholder from it.
func InstantiateBindersUniversally[T any](t *InferenceTable, b ir.Binders[T]) T {
	kinds := b.Kinds.AsSlice(t.in)
	ui := t.NewUniverse()
	args := make([]ir.GenericArg, len(kinds))
	for i, k := range kinds {
		args[i] = ir.PlaceholderIndex{UI: ui, Idx: i}.ToGenericArg(t.in, k)
	}
	return b.SubstituteArgs(t.in, args)
}
