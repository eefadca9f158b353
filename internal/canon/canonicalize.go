package canon

import (
	"fmt"

	"github.com/roach88/traitir/internal/ir"
)

// Canonicalized is the result of Canonicalize: the canonical value and,
// for each of its slots, the inference variable the slot stands for.
type Canonicalized[T any] struct {
	Quantified ir.Canonical[T]
	FreeVars   []ir.WithKind[ir.InferenceVar]
}

// Canonicalize resolves value against the table and replaces each
// distinct unbound variable with a slot of a fresh canonical binder.
// Slots are numbered in order of first occurrence; variables unified with
// each other share a slot. Each slot records the variable's kind and
// universe.
//
// value must not contain free bound variables; Canonicalize panics if it
// does.
func Canonicalize[T any](t *InferenceTable, value T) Canonicalized[T] {
	c := &canonicalizer{
		FolderBase: ir.FolderBase{In: t.in},
		table:      t,
		slots:      make(map[ir.InferenceVar]int),
	}
	out, err := ir.Fold[T](c, value, ir.Innermost)
	if err != nil {
		panic("canon: canonicalization cannot fail: " + err.Error())
	}

	kinds := make([]ir.CanonicalVarKind, len(c.free))
	for i, v := range c.free {
		kinds[i] = ir.NewWithKind(v.Kind, t.UniverseOfUnboundVar(v.Value))
	}
	t.logger.Debug("canonicalized", "session", t.session, "slots", len(kinds))
	return Canonicalized[T]{
		Quantified: ir.Canonical[T]{Value: out, Binders: ir.NewCanonicalVarKinds(t.in, kinds...)},
		FreeVars:   c.free,
	}
}

type canonicalizer struct {
	ir.FolderBase
	table *InferenceTable
	free  []ir.WithKind[ir.InferenceVar]
	slots map[ir.InferenceVar]int
}

// slot returns the canonical index for v's class, allocating one on first
// sight.
func (c *canonicalizer) slot(v ir.InferenceVar) ir.BoundVar {
	root := c.table.Root(v)
	i, ok := c.slots[root]
	if !ok {
		i = len(c.free)
		c.slots[root] = i
		c.free = append(c.free, ir.NewWithKind(c.table.Kind(root), root))
	}
	return ir.NewBoundVar(ir.Innermost, i)
}

func (c *canonicalizer) FoldTy(ty ir.Ty, outer ir.DebruijnIndex) (ir.Ty, error) {
	if !ty.Flags(c.In).Intersects(ir.FlagsHasInfer | ir.FlagHasBoundVars) {
		return ty, nil
	}
	return ir.SuperFoldTy(c, ty, outer)
}

func (c *canonicalizer) FoldFreeVarTy(bv ir.BoundVar, _ ir.DebruijnIndex) (ir.Ty, error) {
	panic(fmt.Sprintf("canon: cannot canonicalize free bound variable ^%d.%d", bv.Debruijn, bv.Index))
}

func (c *canonicalizer) FoldFreeVarLifetime(bv ir.BoundVar, _ ir.DebruijnIndex) (ir.Lifetime, error) {
	panic(fmt.Sprintf("canon: cannot canonicalize free bound variable '^%d.%d", bv.Debruijn, bv.Index))
}

func (c *canonicalizer) FoldFreeVarConst(_ ir.Ty, bv ir.BoundVar, _ ir.DebruijnIndex) (ir.Const, error) {
	panic(fmt.Sprintf("canon: cannot canonicalize free bound variable ^%d.%d", bv.Debruijn, bv.Index))
}

func (c *canonicalizer) FoldInferenceTy(v ir.InferenceVar, _ ir.TyVariableKind, outer ir.DebruijnIndex) (ir.Ty, error) {
	if val, ok := c.table.Probe(v); ok {
		ty, err := val.AssertTy(c.In).FoldWith(c, ir.Innermost)
		return ir.ShiftedInFrom(c.In, ty, outer), err
	}
	return c.slot(v).ShiftedInFrom(outer).ToTy(c.In), nil
}

func (c *canonicalizer) FoldInferenceLifetime(v ir.InferenceVar, outer ir.DebruijnIndex) (ir.Lifetime, error) {
	if val, ok := c.table.Probe(v); ok {
		lt, err := val.AssertLifetime(c.In).FoldWith(c, ir.Innermost)
		return ir.ShiftedInFrom(c.In, lt, outer), err
	}
	return c.slot(v).ShiftedInFrom(outer).ToLifetime(c.In), nil
}

func (c *canonicalizer) FoldInferenceConst(ty ir.Ty, v ir.InferenceVar, outer ir.DebruijnIndex) (ir.Const, error) {
	if val, ok := c.table.Probe(v); ok {
		ct, err := val.AssertConst(c.In).FoldWith(c, ir.Innermost)
		return ir.ShiftedInFrom(c.In, ct, outer), err
	}
	return c.slot(v).ShiftedInFrom(outer).ToConst(c.In, ty), nil
}
