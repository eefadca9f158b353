package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/traitir/internal/ir"
)

func TestUniverseMap(t *testing.T) {
	m := ir.NewUniverseMap([]ir.UniverseIndex{5, 1, 3, 5})
	assert.Equal(t, []ir.UniverseIndex{1, 3, 5}, m.Universes)
	assert.Equal(t, 3, m.Len())

	tests := []struct {
		name  string
		in    ir.UniverseIndex
		want  ir.UniverseIndex
		found bool
	}{
		{"first", 1, 0, true},
		{"middle", 3, 1, true},
		{"last", 5, 2, true},
		{"missing", 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.MapUniverseIn(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniverseMap_Clamp(t *testing.T) {
	m := ir.NewUniverseMap([]ir.UniverseIndex{2, 4})
	assert.Equal(t, ir.RootUniverse, m.ClampUniverseIn(0))
	assert.Equal(t, ir.RootUniverse, m.ClampUniverseIn(1))
	assert.Equal(t, ir.UniverseIndex(0), m.ClampUniverseIn(3))
	assert.Equal(t, ir.UniverseIndex(1), m.ClampUniverseIn(4))
	assert.Equal(t, ir.UniverseIndex(1), m.ClampUniverseIn(9))
}

func TestUniverseMap_MapOut(t *testing.T) {
	m := ir.NewUniverseMap([]ir.UniverseIndex{2, 4})
	assert.Equal(t, ir.UniverseIndex(2), m.MapUniverseOut(0))
	assert.Equal(t, ir.UniverseIndex(4), m.MapUniverseOut(1))
	// Universes created after canonicalization land past the last one.
	assert.Equal(t, ir.UniverseIndex(5), m.MapUniverseOut(2))
	assert.Equal(t, ir.UniverseIndex(6), m.MapUniverseOut(3))

	empty := ir.NewUniverseMap(nil)
	assert.Equal(t, ir.UniverseIndex(3), empty.MapUniverseOut(3))
}

func TestUniverseIndex(t *testing.T) {
	u := ir.UniverseIndex(2)
	assert.Equal(t, ir.UniverseIndex(3), u.Next())
	assert.True(t, u.CanSee(2))
	assert.True(t, u.CanSee(ir.RootUniverse))
	assert.False(t, u.CanSee(3))
	assert.Equal(t, "U2", u.String())
}

func TestDebruijnIndex(t *testing.T) {
	d := ir.DebruijnIndex(1)
	assert.Equal(t, ir.DebruijnIndex(2), d.ShiftedIn())
	out, ok := d.ShiftedOut()
	assert.True(t, ok)
	assert.Equal(t, ir.Innermost, out)
	_, ok = ir.Innermost.ShiftedOut()
	assert.False(t, ok)
	assert.True(t, ir.Innermost.Within(d))
	assert.False(t, d.Within(d))
}

func TestBoundVar(t *testing.T) {
	bv := ir.NewBoundVar(ir.One, 3)
	_, ok := bv.IndexIfInnermost()
	assert.False(t, ok)
	i, ok := bv.IndexIfBoundAt(ir.One)
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	assert.True(t, bv.BoundWithin(2))
	assert.False(t, bv.BoundWithin(ir.One))
	assert.Equal(t, ir.NewBoundVar(2, 3), bv.ShiftedIn())
}
