package syntax

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/traitir/internal/ir"
)

func TestSymbols_InternPerNamespace(t *testing.T) {
	s := NewSymbols()

	assert.Equal(t, uint32(0), s.Intern(ir.ItemAdt, "Vec"))
	assert.Equal(t, uint32(1), s.Intern(ir.ItemAdt, "Option"))
	assert.Equal(t, uint32(0), s.Intern(ir.ItemAdt, "Vec"))
	assert.Equal(t, uint32(0), s.Intern(ir.ItemTrait, "Clone"))

	name, ok := s.ItemName(ir.ItemAdt, 1)
	assert.True(t, ok)
	assert.Equal(t, "Option", name)

	_, ok = s.ItemName(ir.ItemTrait, 1)
	assert.False(t, ok)
	assert.Equal(t, []string{"Vec", "Option"}, s.Names(ir.ItemAdt))
}

func TestSymbols_ReservedAndDeclaredIDsAreSkipped(t *testing.T) {
	s := NewSymbols()
	s.Reserve(ir.ItemAdt, 0)
	assert.True(t, s.Declare(ir.ItemAdt, "Box", 1))

	assert.Equal(t, uint32(2), s.Intern(ir.ItemAdt, "Vec"))
	assert.True(t, s.Declare(ir.ItemAdt, "Box", 1))
	assert.False(t, s.Declare(ir.ItemAdt, "Box", 3))
	assert.False(t, s.Declare(ir.ItemAdt, "Rc", 2))
	assert.False(t, s.Declare(ir.ItemAdt, "Rc", 0))
}

func TestSymbols_NFC(t *testing.T) {
	s := NewSymbols()
	id := s.Intern(ir.ItemTrait, "Cafe\u0301")

	got, ok := s.Lookup(ir.ItemTrait, "Caf\u00e9")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestSymbols_Concurrent(t *testing.T) {
	s := NewSymbols()
	names := []string{"A", "B", "C", "D"}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range names {
				s.Intern(ir.ItemAdt, n)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.Names(ir.ItemAdt), len(names))
}
