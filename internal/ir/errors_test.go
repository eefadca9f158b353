package ir_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/ir"
)

func TestSolveError_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		noSolution  bool
		floundered  bool
		mismatch    bool
		placeholder bool
	}{
		{"mismatch", ir.NewMismatchError("ty", "%s vs %s", "u32", "bool"), true, false, true, false},
		{"universe", ir.NewUniverseError(2, 1), true, false, false, true},
		{"escaping", ir.NewEscapingBoundVarError(ir.NewBoundVar(ir.Innermost, 0)), true, false, false, false},
		{"floundered", ir.NewFlounderedError("self type is a variable"), false, true, false, false},
		{"plain", errors.New("boom"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("solving: %w", tt.err)
			for _, err := range []error{tt.err, wrapped} {
				assert.Equal(t, tt.noSolution, ir.IsNoSolution(err))
				assert.Equal(t, tt.floundered, ir.IsFloundered(err))
				assert.Equal(t, tt.mismatch, ir.IsMismatch(err))
				assert.Equal(t, tt.placeholder, ir.IsEscapingPlaceholder(err))
			}
		})
	}
}

func TestSolveError_Messages(t *testing.T) {
	assert.Equal(t, "MISMATCH: u32 vs bool (ty)", ir.NewMismatchError("ty", "%s vs %s", "u32", "bool").Error())
	assert.Equal(t, "ESCAPING_PLACEHOLDER: placeholder in U2 is not visible from U1", ir.NewUniverseError(2, 1).Error())
	assert.Equal(t, "ESCAPING_BOUND_VAR: bound variable ^0.3 escapes its binder",
		ir.NewEscapingBoundVarError(ir.NewBoundVar(ir.Innermost, 3)).Error())
	assert.Equal(t, "FLOUNDERED: too general", ir.NewFlounderedError("too general").Error())
}

func TestSolveError_As(t *testing.T) {
	err := fmt.Errorf("outer: %w", ir.NewUniverseError(3, 0))

	var se *ir.SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ir.ErrCodeEscapingPlaceholder, se.Code)
	assert.Empty(t, se.Term)
}
