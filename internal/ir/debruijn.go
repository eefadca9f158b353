package ir

// DebruijnIndex counts binders outward from the point of use: 0 is the
// innermost enclosing binder.
type DebruijnIndex uint32

// Innermost refers to the nearest enclosing binder.
const Innermost DebruijnIndex = 0

// One is the index of the binder just outside the innermost one.
const One DebruijnIndex = 1

// ShiftedIn adjusts the index for being placed under one more binder.
func (d DebruijnIndex) ShiftedIn() DebruijnIndex {
	return d + 1
}

// ShiftedInFrom adjusts the index for being placed under outer binders.
func (d DebruijnIndex) ShiftedInFrom(outer DebruijnIndex) DebruijnIndex {
	return d + outer
}

// ShiftedOut removes one binder level; it fails if d is the innermost.
func (d DebruijnIndex) ShiftedOut() (DebruijnIndex, bool) {
	return d.ShiftedOutTo(One)
}

// ShiftedOutTo removes outer binder levels. It fails when d refers to one
// of the binders being removed.
func (d DebruijnIndex) ShiftedOutTo(outer DebruijnIndex) (DebruijnIndex, bool) {
	if d.Within(outer) {
		return 0, false
	}
	return d - outer, true
}

// Within reports whether d refers to a binder inside outer (d < outer).
func (d DebruijnIndex) Within(outer DebruijnIndex) bool {
	return d < outer
}

// BoundVar is the full address of a bound occurrence: the binder it refers
// to and the slot within that binder's kind list.
type BoundVar struct {
	Debruijn DebruijnIndex
	Index    int
}

// NewBoundVar constructs a BoundVar.
func NewBoundVar(debruijn DebruijnIndex, index int) BoundVar {
	return BoundVar{Debruijn: debruijn, Index: index}
}

// ShiftedIn moves the reference under one more binder.
func (b BoundVar) ShiftedIn() BoundVar {
	return BoundVar{Debruijn: b.Debruijn.ShiftedIn(), Index: b.Index}
}

// ShiftedInFrom moves the reference under outer more binders.
func (b BoundVar) ShiftedInFrom(outer DebruijnIndex) BoundVar {
	return BoundVar{Debruijn: b.Debruijn.ShiftedInFrom(outer), Index: b.Index}
}

// ShiftedOut removes one binder level.
func (b BoundVar) ShiftedOut() (BoundVar, bool) {
	return b.ShiftedOutTo(One)
}

// ShiftedOutTo removes outer binder levels; it fails when the reference is
// bound by one of them.
func (b BoundVar) ShiftedOutTo(outer DebruijnIndex) (BoundVar, bool) {
	d, ok := b.Debruijn.ShiftedOutTo(outer)
	if !ok {
		return BoundVar{}, false
	}
	return BoundVar{Debruijn: d, Index: b.Index}, true
}

// IndexIfBoundAt returns the slot index when the reference points at
// binder d.
func (b BoundVar) IndexIfBoundAt(d DebruijnIndex) (int, bool) {
	if b.Debruijn != d {
		return 0, false
	}
	return b.Index, true
}

// IndexIfInnermost returns the slot index when the reference points at the
// innermost binder.
func (b BoundVar) IndexIfInnermost() (int, bool) {
	return b.IndexIfBoundAt(Innermost)
}

// BoundWithin reports whether the reference is bound by a binder inside
// outer.
func (b BoundVar) BoundWithin(outer DebruijnIndex) bool {
	return b.Debruijn.Within(outer)
}

// ToTy builds a type referring to this bound variable.
func (b BoundVar) ToTy(in Interner) Ty {
	return NewTy(in, TyBoundVar{Var: b})
}

// ToLifetime builds a lifetime referring to this bound variable.
func (b BoundVar) ToLifetime(in Interner) Lifetime {
	return NewLifetime(in, LifetimeBoundVar{Var: b})
}

// ToConst builds a constant of type ty referring to this bound variable.
func (b BoundVar) ToConst(in Interner, ty Ty) Const {
	return NewConst(in, ty, ConstBoundVar{Var: b})
}

// InferenceVar names an unknown within one solving session. It has no
// meaning across canonicalization boundaries.
type InferenceVar uint32

// ToTy builds an inference type of the given variable kind.
func (v InferenceVar) ToTy(in Interner, kind TyVariableKind) Ty {
	return NewTy(in, TyInferenceVar{Var: v, Kind: kind})
}

// ToLifetime builds an inference lifetime.
func (v InferenceVar) ToLifetime(in Interner) Lifetime {
	return NewLifetime(in, LifetimeInferenceVar{Var: v})
}

// ToConst builds an inference constant of type ty.
func (v InferenceVar) ToConst(in Interner, ty Ty) Const {
	return NewConst(in, ty, ConstInferenceVar{Var: v})
}

// TyVariableKind restricts what an inference type variable may unify with.
type TyVariableKind uint8

const (
	TyVarGeneral TyVariableKind = iota
	TyVarInteger
	TyVarFloat
)

// VariableClass is the sort of a bound or canonical variable.
type VariableClass uint8

const (
	ClassTy VariableClass = iota
	ClassLifetime
	ClassConst
)

// String returns the class name used in renderings.
func (c VariableClass) String() string {
	switch c {
	case ClassTy:
		return "ty"
	case ClassLifetime:
		return "lifetime"
	case ClassConst:
		return "const"
	default:
		return "unknown"
	}
}

// VariableKind declares one slot of a binder. TyKind is meaningful for
// ClassTy; ConstTy for ClassConst.
type VariableKind struct {
	Class   VariableClass
	TyKind  TyVariableKind
	ConstTy Ty
}

// TyVariable declares a type slot.
func TyVariable(kind TyVariableKind) VariableKind {
	return VariableKind{Class: ClassTy, TyKind: kind}
}

// LifetimeVariable declares a lifetime slot.
func LifetimeVariable() VariableKind {
	return VariableKind{Class: ClassLifetime}
}

// ConstVariable declares a constant slot of type ty.
func ConstVariable(ty Ty) VariableKind {
	return VariableKind{Class: ClassConst, ConstTy: ty}
}

// ToBoundVariable builds the generic argument referring to bv with this
// kind.
func (k VariableKind) ToBoundVariable(in Interner, bv BoundVar) GenericArg {
	switch k.Class {
	case ClassTy:
		return NewGenericArg(in, bv.ToTy(in))
	case ClassLifetime:
		return NewGenericArg(in, bv.ToLifetime(in))
	default:
		return NewGenericArg(in, bv.ToConst(in, k.ConstTy))
	}
}

// WithKind pairs a value with a variable kind. Canonical binders use it to
// record the universe of each slot.
type WithKind[T any] struct {
	Kind  VariableKind
	Value T
}

// NewWithKind constructs a WithKind.
func NewWithKind[T any](kind VariableKind, value T) WithKind[T] {
	return WithKind[T]{Kind: kind, Value: value}
}

// Skip returns the payload without its kind.
func (w WithKind[T]) Skip() T {
	return w.Value
}

// CanonicalVarKind is a canonical binder slot: its kind and universe.
type CanonicalVarKind = WithKind[UniverseIndex]
