package testutil

import (
	"testing"

	"github.com/roach88/traitir/internal/interner"
	"github.com/roach88/traitir/internal/ir"
)

// NamedInterner pairs an interner with a label for subtest names.
type NamedInterner struct {
	Name string
	In   ir.Interner
}

// Interners returns one fresh instance of every interner strategy.
// Behavior that does not depend on the strategy must hold for all of them.
func Interners() []NamedInterner {
	return []NamedInterner{
		{Name: "boxed", In: interner.NewBoxed()},
		{Name: "hashcons", In: interner.NewHashCons()},
	}
}

// ForEachInterner runs fn as a subtest once per interner strategy.
func ForEachInterner(t *testing.T, fn func(t *testing.T, in ir.Interner)) {
	t.Helper()
	for _, ni := range Interners() {
		t.Run(ni.Name, func(t *testing.T) {
			fn(t, ni.In)
		})
	}
}
