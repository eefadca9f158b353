package ir

// Canonical is a value whose free inference variables have been replaced
// by references to its own binder. Binders records the kind and universe
// of each slot in first-occurrence order. A canonical value contains no
// inference variables.
type Canonical[T any] struct {
	Value   T
	Binders CanonicalVarKinds
}

// UCanonical is a canonical value whose universes have also been
// compacted to 0..Universes-1. Two UCanonical values are interchangeable
// as cache keys exactly when they are structurally equal.
type UCanonical[T any] struct {
	Canonical Canonical[T]
	Universes int
}

// Len returns the number of canonical slots.
func (c Canonical[T]) Len(in Interner) int {
	return c.Binders.Len(in)
}

// IsTriviallyClosed reports whether the value needed no canonical slots.
func (c Canonical[T]) IsTriviallyClosed(in Interner) bool {
	return c.Binders.Len(in) == 0
}

// IntoClosedGoal wraps a goal that has no inference variables as a
// canonical query in the empty environment.
func IntoClosedGoal(in Interner, g Goal) UCanonical[InEnvironment[Goal]] {
	return UCanonical[InEnvironment[Goal]]{
		Canonical: Canonical[InEnvironment[Goal]]{
			Value:   NewInEnvironment(NewEnvironment(in), g),
			Binders: NewCanonicalVarKinds(in),
		},
		Universes: 1,
	}
}

// IntoPeeledGoal strips leading forall quantifiers and implications from
// a closed goal. Each forall enters a fresh universe and replaces its
// slots with placeholders; each implication moves its clauses into the
// environment.
func IntoPeeledGoal(in Interner, g Goal) UCanonical[InEnvironment[Goal]] {
	universe := RootUniverse
	env := NewEnvironment(in)
	for {
		switch d := g.Data(in).(type) {
		case GoalQuantified:
			if d.Kind != ForAll {
				return peeled(in, env, g, universe)
			}
			universe = universe.Next()
			kinds := d.Binders.Kinds.AsSlice(in)
			args := make([]GenericArg, len(kinds))
			for i, k := range kinds {
				args[i] = PlaceholderIndex{UI: universe, Idx: i}.ToGenericArg(in, k)
			}
			g = d.Binders.SubstituteArgs(in, args)
			env = env.WithUniverse(universe)
		case GoalImplies:
			env = env.AddClauses(in, d.Clauses.AsSlice(in)...)
			g = d.Goal
		default:
			return peeled(in, env, g, universe)
		}
	}
}

func peeled(in Interner, env Environment, g Goal, universe UniverseIndex) UCanonical[InEnvironment[Goal]] {
	return UCanonical[InEnvironment[Goal]]{
		Canonical: Canonical[InEnvironment[Goal]]{
			Value:   NewInEnvironment(env, g),
			Binders: NewCanonicalVarKinds(in),
		},
		Universes: int(universe) + 1,
	}
}
