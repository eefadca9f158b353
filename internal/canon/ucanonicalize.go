package canon

import (
	"fmt"
	"slices"

	"github.com/roach88/traitir/internal/ir"
)

// UCanonicalized is the result of UCanonicalize: the universe-compacted
// value and the map needed to translate answers back.
type UCanonicalized[T any] struct {
	Quantified  ir.UCanonical[T]
	UniverseMap ir.UniverseMap
}

// UCanonicalize renumbers the universes a canonical value mentions to
// 0..n-1, preserving their order. The universes considered are those of
// its placeholders and of its binder slots. An environment's visible
// universe is clamped to the largest compacted universe not above it; an
// environment below every such universe gets a slot of its own, so a
// placeholder it cannot see stays out of reach after compaction.
//
// Two canonical values that differ only in which universe numbers they
// use produce the same result.
func UCanonicalize[T any](in ir.Interner, c ir.Canonical[T]) UCanonicalized[T] {
	binders := c.Binders.AsSlice(in)
	collector := &universeCollector{VisitorBase: ir.VisitorBase{In: in}}
	for _, k := range binders {
		collector.universes = append(collector.universes, k.Value)
	}
	ir.Visit(collector, c.Value, ir.Innermost)
	umap := ir.NewUniverseMap(collector.withBounds())

	mapper := universeMapper{FolderBase: ir.FolderBase{In: in}, umap: umap}
	value, err := ir.Fold(mapper, c.Value, ir.Innermost)
	if err != nil {
		panic("canon: universe compaction cannot fail: " + err.Error())
	}
	kinds := make([]ir.CanonicalVarKind, len(binders))
	for i, k := range binders {
		kinds[i] = ir.NewWithKind(k.Kind, mapper.universeIn(k.Value))
	}

	return UCanonicalized[T]{
		Quantified: ir.UCanonical[T]{
			Canonical: ir.Canonical[T]{Value: value, Binders: ir.NewCanonicalVarKinds(in, kinds...)},
			Universes: max(1, umap.Len()),
		},
		UniverseMap: umap,
	}
}

// MapFromCanonical translates the universes of c from the compacted
// numbering of umap back to the original one.
func MapFromCanonical[T any](in ir.Interner, umap ir.UniverseMap, c ir.Canonical[T]) ir.Canonical[T] {
	mapper := universeMapper{FolderBase: ir.FolderBase{In: in}, umap: umap, out: true}
	value, err := ir.Fold(mapper, c.Value, ir.Innermost)
	if err != nil {
		panic("canon: universe mapping cannot fail: " + err.Error())
	}
	binders := c.Binders.AsSlice(in)
	kinds := make([]ir.CanonicalVarKind, len(binders))
	for i, k := range binders {
		kinds[i] = ir.NewWithKind(k.Kind, umap.MapUniverseOut(k.Value))
	}
	return ir.Canonical[T]{Value: value, Binders: ir.NewCanonicalVarKinds(in, kinds...)}
}

type universeCollector struct {
	ir.VisitorBase
	universes []ir.UniverseIndex
	bounds    []ir.UniverseIndex // environment universes, clamped rather than recorded
}

func (c *universeCollector) VisitUniverse(u ir.UniverseIndex) ir.ControlFlow {
	c.bounds = append(c.bounds, u)
	return ir.Continue
}

// withBounds returns the recorded universes plus the smallest bound when
// no recorded universe lies at or below it. Every bound then clamps onto a
// universe it can see.
func (c *universeCollector) withBounds() []ir.UniverseIndex {
	if len(c.bounds) == 0 {
		return c.universes
	}
	lowest := slices.Min(c.bounds)
	if len(c.universes) > 0 && slices.Min(c.universes) <= lowest {
		return c.universes
	}
	return append(c.universes, lowest)
}

func (c *universeCollector) VisitTy(ty ir.Ty, outer ir.DebruijnIndex) ir.ControlFlow {
	if !ty.Flags(c.In).Intersects(ir.FlagsHasPlaceholder) {
		return ir.Continue
	}
	return ir.SuperVisitTy(c, ty, outer)
}

func (c *universeCollector) VisitFreePlaceholder(idx ir.PlaceholderIndex, _ ir.DebruijnIndex) ir.ControlFlow {
	c.universes = append(c.universes, idx.UI)
	return ir.Continue
}

// universeMapper moves placeholders and environment universes into the
// compacted numbering, or back out of it.
type universeMapper struct {
	ir.FolderBase
	umap ir.UniverseMap
	out  bool
}

func (m universeMapper) universeIn(u ir.UniverseIndex) ir.UniverseIndex {
	mapped, ok := m.umap.MapUniverseIn(u)
	if !ok {
		panic(fmt.Sprintf("canon: universe %s was not collected", u))
	}
	return mapped
}

func (m universeMapper) mapPlaceholder(idx ir.PlaceholderIndex) ir.PlaceholderIndex {
	if m.out {
		idx.UI = m.umap.MapUniverseOut(idx.UI)
	} else {
		idx.UI = m.universeIn(idx.UI)
	}
	return idx
}

func (m universeMapper) FoldUniverse(u ir.UniverseIndex) (ir.UniverseIndex, error) {
	if m.out {
		return m.umap.MapUniverseOut(u), nil
	}
	return m.umap.ClampUniverseIn(u), nil
}

func (m universeMapper) FoldTy(ty ir.Ty, outer ir.DebruijnIndex) (ir.Ty, error) {
	if !ty.Flags(m.In).Intersects(ir.FlagsHasPlaceholder) {
		return ty, nil
	}
	return ir.SuperFoldTy(m, ty, outer)
}

func (m universeMapper) FoldFreePlaceholderTy(idx ir.PlaceholderIndex, _ ir.DebruijnIndex) (ir.Ty, error) {
	return m.mapPlaceholder(idx).ToTy(m.In), nil
}

func (m universeMapper) FoldFreePlaceholderLifetime(idx ir.PlaceholderIndex, _ ir.DebruijnIndex) (ir.Lifetime, error) {
	return m.mapPlaceholder(idx).ToLifetime(m.In), nil
}

func (m universeMapper) FoldFreePlaceholderConst(ty ir.Ty, idx ir.PlaceholderIndex, _ ir.DebruijnIndex) (ir.Const, error) {
	return m.mapPlaceholder(idx).ToConst(m.In, ty), nil
}
