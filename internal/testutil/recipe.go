package testutil

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/roach88/traitir/internal/ir"
)

// Recipe is a list of choices that decodes deterministically into a term.
// Generating recipes instead of terms keeps generators independent of the
// interner and lets gopter shrink them like any slice.
type Recipe []int

// MaxVar bounds the inference variables a decoded term mentions: they
// are drawn from ?0..?MaxVar-1.
const MaxVar = 4

// MaxPlaceholderUniverse bounds the universes of decoded placeholders.
const MaxPlaceholderUniverse = 3

const maxDepth = 3

// GenRecipe generates recipes of a fixed length.
func GenRecipe() gopter.Gen {
	return gen.SliceOfN(32, gen.IntRange(0, 1<<10)).Map(func(xs []int) Recipe {
		return Recipe(xs)
	})
}

type decoder struct {
	b   Builder
	r   Recipe
	pos int
}

func (d *decoder) next(n int) int {
	if len(d.r) == 0 {
		return 0
	}
	v := d.r[d.pos%len(d.r)]
	d.pos++
	return v % n
}

// Ty decodes a type. The type contains no bound variables.
func (r Recipe) Ty(in ir.Interner) ir.Ty {
	d := &decoder{b: NewBuilder(in), r: r}
	return d.ty(maxDepth)
}

// Goal decodes a goal in an environment whose universe sees every
// placeholder the goal mentions. The goal contains no free bound
// variables.
func (r Recipe) Goal(in ir.Interner) ir.InEnvironment[ir.Goal] {
	d := &decoder{b: NewBuilder(in), r: r}
	var g ir.Goal
	switch d.next(4) {
	case 0:
		g = d.b.Implemented(uint32(d.next(3)), d.ty(maxDepth), d.ty(2))
	case 1:
		g = d.b.Eq(d.ty(maxDepth), d.ty(maxDepth))
	case 2:
		g = ir.AllGoals(in, d.b.Implemented(uint32(d.next(3)), d.ty(2)), d.b.Eq(d.ty(2), d.ty(2)))
	default:
		// forall<T> { Implemented(T: Trait<ty>) }
		g = d.b.ForAll(1, d.b.Implemented(uint32(d.next(3)), d.b.Bound(0, 0), d.ty(2)))
	}
	env := d.b.Env(int(ir.MaxUniverse(in, g)))
	return d.b.InEnv(env, g)
}

func (d *decoder) ty(depth int) ir.Ty {
	if depth == 0 {
		return d.leaf()
	}
	switch d.next(9) {
	case 0, 1:
		return d.leaf()
	case 2:
		args := make([]ir.Ty, d.next(3))
		for i := range args {
			args[i] = d.ty(depth - 1)
		}
		return d.b.Adt(uint32(d.next(3)), args...)
	case 3:
		return d.b.Tuple(d.ty(depth-1), d.ty(depth-1))
	case 4:
		return d.b.Ref(d.lifetime(), d.ty(depth-1))
	case 5:
		return d.b.RefMut(d.lifetime(), d.ty(depth-1))
	case 6:
		return d.b.Slice(d.ty(depth - 1))
	case 7:
		return d.b.Array(d.ty(depth-1), uint64(d.next(4)))
	default:
		return d.b.Adt(uint32(d.next(3)), d.ty(depth-1))
	}
}

func (d *decoder) leaf() ir.Ty {
	switch d.next(5) {
	case 0:
		return d.b.Scalar(ir.Scalar(d.next(int(ir.ScalarF64) + 1)))
	case 1, 2:
		return d.b.Infer(uint32(d.next(MaxVar)))
	case 3:
		return d.b.Placeholder(1+d.next(MaxPlaceholderUniverse), d.next(2))
	default:
		return d.b.Str()
	}
}

func (d *decoder) lifetime() ir.Lifetime {
	switch d.next(3) {
	case 0:
		return d.b.Static()
	case 1:
		return d.b.InferLt(uint32(MaxVar + d.next(MaxVar)))
	default:
		return d.b.PlaceholderLt(1+d.next(MaxPlaceholderUniverse), d.next(2))
	}
}
