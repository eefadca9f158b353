package syntax

import (
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/traitir/internal/ir"
)

// Symbols assigns item ids to names, one namespace per ir.ItemKind. Ids
// are handed out in first-use order and skip ids that were written
// explicitly as #id. Safe for concurrent use.
type Symbols struct {
	mu       sync.RWMutex
	ids      map[ir.ItemKind]map[string]uint32
	names    map[ir.ItemKind]map[uint32]string
	reserved map[ir.ItemKind]map[uint32]bool
	next     map[ir.ItemKind]uint32
}

var _ ir.Namer = (*Symbols)(nil)

// NewSymbols returns an empty table.
func NewSymbols() *Symbols {
	return &Symbols{
		ids:      make(map[ir.ItemKind]map[string]uint32),
		names:    make(map[ir.ItemKind]map[uint32]string),
		reserved: make(map[ir.ItemKind]map[uint32]bool),
		next:     make(map[ir.ItemKind]uint32),
	}
}

// Intern returns the id of name, assigning the next free id on first use.
func (s *Symbols) Intern(kind ir.ItemKind, name string) uint32 {
	name = norm.NFC.String(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[kind][name]; ok {
		return id
	}
	id := s.next[kind]
	for s.taken(kind, id) {
		id++
	}
	s.next[kind] = id + 1
	s.bind(kind, name, id)
	return id
}

// Declare binds name to a specific id. It reports false when name or id
// is already bound to something else.
func (s *Symbols) Declare(kind ir.ItemKind, name string, id uint32) bool {
	name = norm.NFC.String(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.ids[kind][name]; ok {
		return existing == id
	}
	if s.taken(kind, id) {
		return false
	}
	s.bind(kind, name, id)
	return true
}

// Reserve marks id as used so that Intern never assigns it to a name.
func (s *Symbols) Reserve(kind ir.ItemKind, id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, named := s.names[kind][id]; named {
		return
	}
	if s.reserved[kind] == nil {
		s.reserved[kind] = make(map[uint32]bool)
	}
	s.reserved[kind][id] = true
}

func (s *Symbols) taken(kind ir.ItemKind, id uint32) bool {
	_, named := s.names[kind][id]
	return named || s.reserved[kind][id]
}

func (s *Symbols) bind(kind ir.ItemKind, name string, id uint32) {
	if s.ids[kind] == nil {
		s.ids[kind] = make(map[string]uint32)
		s.names[kind] = make(map[uint32]string)
	}
	s.ids[kind][name] = id
	s.names[kind][id] = name
}

// Lookup returns the id bound to name.
func (s *Symbols) Lookup(kind ir.ItemKind, name string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[kind][norm.NFC.String(name)]
	return id, ok
}

// ItemName implements ir.Namer.
func (s *Symbols) ItemName(kind ir.ItemKind, id uint32) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[kind][id]
	return name, ok
}

// Names returns the names bound in kind's namespace, ordered by id.
func (s *Symbols) Names(kind ir.ItemKind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint32, 0, len(s.names[kind]))
	for id := range s.names[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.names[kind][id]
	}
	return out
}
