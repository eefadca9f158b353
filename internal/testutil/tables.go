package testutil

import (
	"github.com/roach88/traitir/internal/canon"
	"github.com/roach88/traitir/internal/ir"
)

// NewTable returns an inference table holding the variables decoded
// recipes use: type variables ?0..?MaxVar-1 then lifetime variables
// ?MaxVar..?2*MaxVar-1. Variable i lives in universes[i % len(universes)],
// or the root when universes is empty.
func NewTable(in ir.Interner, universes []ir.UniverseIndex, opts ...canon.TableOption) *canon.InferenceTable {
	t := canon.NewInferenceTable(in, opts...)
	for i := range 2 * MaxVar {
		ui := ir.RootUniverse
		if len(universes) > 0 {
			ui = universes[i%len(universes)]
		}
		kind := ir.TyVariable(ir.TyVarGeneral)
		if i >= MaxVar {
			kind = ir.LifetimeVariable()
		}
		t.NewVariableOfKind(kind, ui)
	}
	return t
}
