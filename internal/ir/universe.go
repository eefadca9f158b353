package ir

import (
	"fmt"
	"slices"
	"sort"
)

// UniverseIndex orders universal quantifiers by when they were entered.
// A placeholder created in universe U may only be named by terms whose
// universe can see U.
type UniverseIndex uint32

// RootUniverse contains no placeholders.
const RootUniverse UniverseIndex = 0

// Next returns the universe immediately after u.
func (u UniverseIndex) Next() UniverseIndex {
	return u + 1
}

// CanSee reports whether names from other are visible from u.
func (u UniverseIndex) CanSee(other UniverseIndex) bool {
	return u >= other
}

// String renders the universe as "U<n>".
func (u UniverseIndex) String() string {
	return fmt.Sprintf("U%d", uint32(u))
}

// PlaceholderIndex identifies a rigid unknown: the universe it was created
// in and its slot within that universe.
type PlaceholderIndex struct {
	UI  UniverseIndex
	Idx int
}

// ToTy builds a placeholder type.
func (p PlaceholderIndex) ToTy(in Interner) Ty {
	return NewTy(in, TyPlaceholder{Index: p})
}

// ToLifetime builds a placeholder lifetime.
func (p PlaceholderIndex) ToLifetime(in Interner) Lifetime {
	return NewLifetime(in, LifetimePlaceholder{Index: p})
}

// ToConst builds a placeholder constant of type ty.
func (p PlaceholderIndex) ToConst(in Interner, ty Ty) Const {
	return NewConst(in, ty, ConstPlaceholder{Index: p})
}

// UniverseMap records, for each canonical universe i, the original
// universe Universes[i]. Universes is strictly increasing, so the mapping
// preserves order.
type UniverseMap struct {
	Universes []UniverseIndex
}

// NewUniverseMap builds a map from the universes encountered in a value.
// Duplicates are removed and the result is sorted.
func NewUniverseMap(encountered []UniverseIndex) UniverseMap {
	universes := slices.Clone(encountered)
	slices.Sort(universes)
	return UniverseMap{Universes: slices.Compact(universes)}
}

// Len returns the number of canonical universes.
func (m UniverseMap) Len() int {
	return len(m.Universes)
}

// MapUniverseIn translates an original universe into the canonical
// numbering. It fails when u was not recorded.
func (m UniverseMap) MapUniverseIn(u UniverseIndex) (UniverseIndex, bool) {
	i, found := slices.BinarySearch(m.Universes, u)
	if !found {
		return 0, false
	}
	return UniverseIndex(i), true
}

// ClampUniverseIn maps u to the largest canonical universe whose original
// does not exceed u, or the root when there is none. It is used for
// universe bounds that need not be recorded themselves.
func (m UniverseMap) ClampUniverseIn(u UniverseIndex) UniverseIndex {
	n := sort.Search(len(m.Universes), func(i int) bool { return m.Universes[i] > u })
	if n == 0 {
		return RootUniverse
	}
	return UniverseIndex(n - 1)
}

// MapUniverseOut translates a canonical universe back to the original
// numbering. Canonical universes past the end of the map denote universes
// created after canonicalization and land after the last original one.
func (m UniverseMap) MapUniverseOut(u UniverseIndex) UniverseIndex {
	if len(m.Universes) == 0 {
		return u
	}
	if int(u) < len(m.Universes) {
		return m.Universes[u]
	}
	last := m.Universes[len(m.Universes)-1]
	return last + 1 + (u - UniverseIndex(len(m.Universes)))
}

// ToGenericArg builds the placeholder of the given kind.
func (p PlaceholderIndex) ToGenericArg(in Interner, kind VariableKind) GenericArg {
	switch kind.Class {
	case ClassTy:
		return NewGenericArg(in, p.ToTy(in))
	case ClassLifetime:
		return NewGenericArg(in, p.ToLifetime(in))
	default:
		return NewGenericArg(in, p.ToConst(in, kind.ConstTy))
	}
}
