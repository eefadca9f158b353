package ir

import "fmt"

// Binders places Value under one binder level declaring the slots in
// Kinds. Inside Value, a bound variable at depth 0 with slot i < len(Kinds)
// refers to Kinds[i].
type Binders[T any] struct {
	Kinds VariableKinds
	Value T
}

// NewBinders wraps value under kinds. The kinds are recorded, not
// validated against the value.
func NewBinders[T any](kinds VariableKinds, value T) Binders[T] {
	return Binders[T]{Kinds: kinds, Value: value}
}

// EmptyBinders wraps value under a binder with no slots. Free variables of
// value must already be shifted in.
func EmptyBinders[T any](in Interner, value T) Binders[T] {
	return Binders[T]{Kinds: NewVariableKinds(in), Value: value}
}

// Len returns the number of declared slots.
func (b Binders[T]) Len(in Interner) int {
	return b.Kinds.Len(in)
}

// SkipBinders returns the value with its bound variables left dangling.
func (b Binders[T]) SkipBinders() T {
	return b.Value
}

// Substitute replaces the binder's slots with args. len(args) must equal
// the number of declared slots; anything else is a contract violation and
// panics.
func (b Binders[T]) Substitute(in Interner, args Substitution) T {
	if got, want := args.Len(in), b.Len(in); got != want {
		panic(fmt.Sprintf("ir: substitution of %d arguments for %d binders", got, want))
	}
	return Apply(in, args, b.Value)
}

// SubstituteArgs is Substitute for an argument slice.
func (b Binders[T]) SubstituteArgs(in Interner, args []GenericArg) T {
	return b.Substitute(in, NewSubstitution(in, args...))
}

// IdentitySubstitution returns the substitution mapping every slot to
// itself, as seen from directly inside the binder.
func (b Binders[T]) IdentitySubstitution(in Interner) Substitution {
	kinds := b.Kinds.AsSlice(in)
	args := make([]GenericArg, len(kinds))
	for i, k := range kinds {
		args[i] = k.ToBoundVariable(in, NewBoundVar(Innermost, i))
	}
	return NewSubstitution(in, args...)
}

// MapBinders applies f to the value, keeping the kinds. f must not move
// the value across binder levels.
func MapBinders[T, U any](b Binders[T], f func(T) U) Binders[U] {
	return Binders[U]{Kinds: b.Kinds, Value: f(b.Value)}
}

// WithFreshTypeVar builds a binder with one general type slot; f receives
// the type referring to it.
func WithFreshTypeVar[T any](in Interner, f func(Ty) T) Binders[T] {
	ty := NewBoundVar(Innermost, 0).ToTy(in)
	return NewBinders(NewVariableKinds(in, TyVariable(TyVarGeneral)), f(ty))
}

// FuseBinders collapses two nested binders into one whose slots are the
// outer slots followed by the inner slots.
func FuseBinders[T any](in Interner, b Binders[Binders[T]]) Binders[T] {
	outer := b.Kinds.AsSlice(in)
	inner := b.Value.Kinds.AsSlice(in)

	// Inside the inner binder, outer slot i is ^1.i and inner slot j is
	// ^0.j; after fusing they become ^0.i and ^0.(len(outer)+j).
	args := make([]GenericArg, 0, len(inner))
	for j, k := range inner {
		args = append(args, k.ToBoundVariable(in, NewBoundVar(Innermost, len(outer)+j)))
	}
	value := Apply(in, NewSubstitution(in, args...), b.Value.Value)

	kinds := make([]VariableKind, 0, len(outer)+len(inner))
	kinds = append(kinds, outer...)
	kinds = append(kinds, inner...)
	return NewBinders(NewVariableKinds(in, kinds...), value)
}
