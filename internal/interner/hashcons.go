package interner

import (
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/traitir/internal/ir"
)

// HashCons deduplicates payloads: interning an equal payload twice returns
// the same handle.
//
// Lists are interned as chains of cells keyed by (prefix, element), so a
// list is found by walking its elements rather than hashing the whole
// slice. Lists sharing a prefix share cells.
type HashCons struct {
	mu sync.RWMutex

	tys       valueTable[ir.TyData]
	lifetimes valueTable[ir.LifetimeData]
	consts    valueTable[ir.ConstData]
	args      valueTable[ir.GenericArgData]
	goals     valueTable[ir.GoalData]
	clauses   valueTable[ir.ProgramClauseData]

	goalLists   listTable[ir.Goal]
	substs      listTable[ir.GenericArg]
	clauseLists listTable[ir.ProgramClause]
	whereLists  listTable[ir.QuantifiedWhereClause]
	kindLists   listTable[ir.VariableKind]
	canonLists  listTable[ir.CanonicalVarKind]
	constraints listTable[ir.InEnvironment[ir.Constraint]]
}

var _ ir.Interner = (*HashCons)(nil)

// HashConsOption configures a HashCons.
type HashConsOption func(*HashCons)

// WithCapacity pre-sizes the type, argument and goal tables for about n
// distinct payloads each.
func WithCapacity(n int) HashConsOption {
	return func(h *HashCons) {
		h.tys.ids = make(map[ir.TyData]uint32, n)
		h.args.ids = make(map[ir.GenericArgData]uint32, n)
		h.goals.ids = make(map[ir.GoalData]uint32, n)
	}
}

// NewHashCons returns an empty hash-consing interner.
func NewHashCons(opts ...HashConsOption) *HashCons {
	h := &HashCons{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// handle is the interned value inside every HashCons handle. owner lets a
// lookup reject handles minted by a different interner.
type handle struct {
	owner *HashCons
	id    uint32
}

func (h *HashCons) own(x any) uint32 {
	hd, ok := x.(handle)
	if !ok || hd.owner != h {
		panic(fmt.Sprintf("interner: %T handle was not produced by this HashCons interner", x))
	}
	return hd.id
}

type valueTable[T comparable] struct {
	ids  map[T]uint32
	vals []T
}

func internValue[T comparable](h *HashCons, t *valueTable[T], v T) handle {
	h.mu.RLock()
	id, ok := t.ids[v]
	h.mu.RUnlock()
	if ok {
		return handle{owner: h, id: id}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if id, ok := t.ids[v]; ok {
		return handle{owner: h, id: id}
	}
	if t.ids == nil {
		t.ids = make(map[T]uint32)
	}
	id = uint32(len(t.vals))
	t.vals = append(t.vals, v)
	t.ids[v] = id
	return handle{owner: h, id: id}
}

func lookupValue[T comparable](h *HashCons, t *valueTable[T], x any) T {
	id := h.own(x)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return t.vals[id]
}

// listTable interns lists as cell chains. Node 0 is the empty list.
// items[n] holds the contents of node n once some list ending there has
// been interned; prefixes that were never interned themselves stay nil.
type listTable[E comparable] struct {
	cells map[cell[E]]uint32
	items [][]E
}

type cell[E comparable] struct {
	prefix uint32
	elem   E
}

// find walks the chain for xs without modifying the table.
func (t *listTable[E]) find(xs []E) (uint32, bool) {
	node := uint32(0)
	for _, x := range xs {
		next, ok := t.cells[cell[E]{prefix: node, elem: x}]
		if !ok {
			return 0, false
		}
		node = next
	}
	if int(node) >= len(t.items) || (len(xs) > 0 && t.items[node] == nil) {
		return 0, false
	}
	return node, true
}

func (t *listTable[E]) intern(xs []E) uint32 {
	if t.cells == nil {
		t.cells = make(map[cell[E]]uint32)
		t.items = [][]E{nil}
	}
	node := uint32(0)
	for _, x := range xs {
		key := cell[E]{prefix: node, elem: x}
		next, ok := t.cells[key]
		if !ok {
			next = uint32(len(t.items))
			t.items = append(t.items, nil)
			t.cells[key] = next
		}
		node = next
	}
	if len(xs) > 0 && t.items[node] == nil {
		t.items[node] = slices.Clone(xs)
	}
	return node
}

func internList[E comparable](h *HashCons, t *listTable[E], xs []E) handle {
	h.mu.RLock()
	id, ok := t.find(xs)
	h.mu.RUnlock()
	if ok {
		return handle{owner: h, id: id}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return handle{owner: h, id: t.intern(xs)}
}

func lookupList[E comparable](h *HashCons, t *listTable[E], x any) []E {
	id := h.own(x)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return t.items[id]
}

func (h *HashCons) InternTy(data ir.TyData) ir.Ty {
	return ir.TyFromInterned(internValue(h, &h.tys, data))
}

func (h *HashCons) TyData(t ir.Ty) ir.TyData {
	return lookupValue(h, &h.tys, t.Interned())
}

func (h *HashCons) InternLifetime(data ir.LifetimeData) ir.Lifetime {
	return ir.LifetimeFromInterned(internValue(h, &h.lifetimes, data))
}

func (h *HashCons) LifetimeData(l ir.Lifetime) ir.LifetimeData {
	return lookupValue(h, &h.lifetimes, l.Interned())
}

func (h *HashCons) InternConst(data ir.ConstData) ir.Const {
	return ir.ConstFromInterned(internValue(h, &h.consts, data))
}

func (h *HashCons) ConstData(c ir.Const) ir.ConstData {
	return lookupValue(h, &h.consts, c.Interned())
}

func (h *HashCons) InternGenericArg(data ir.GenericArgData) ir.GenericArg {
	return ir.GenericArgFromInterned(internValue(h, &h.args, data))
}

func (h *HashCons) GenericArgData(a ir.GenericArg) ir.GenericArgData {
	return lookupValue(h, &h.args, a.Interned())
}

func (h *HashCons) InternGoal(data ir.GoalData) ir.Goal {
	return ir.GoalFromInterned(internValue(h, &h.goals, data))
}

func (h *HashCons) GoalData(g ir.Goal) ir.GoalData {
	return lookupValue(h, &h.goals, g.Interned())
}

func (h *HashCons) InternProgramClause(data ir.ProgramClauseData) ir.ProgramClause {
	return ir.ProgramClauseFromInterned(internValue(h, &h.clauses, data))
}

func (h *HashCons) ProgramClauseData(c ir.ProgramClause) ir.ProgramClauseData {
	return lookupValue(h, &h.clauses, c.Interned())
}

func (h *HashCons) InternGoals(data []ir.Goal) ir.Goals {
	return ir.GoalsFromInterned(internList(h, &h.goalLists, data))
}

func (h *HashCons) GoalsData(gs ir.Goals) []ir.Goal {
	return lookupList(h, &h.goalLists, gs.Interned())
}

func (h *HashCons) InternSubstitution(data []ir.GenericArg) ir.Substitution {
	return ir.SubstitutionFromInterned(internList(h, &h.substs, data))
}

func (h *HashCons) SubstitutionData(s ir.Substitution) []ir.GenericArg {
	return lookupList(h, &h.substs, s.Interned())
}

func (h *HashCons) InternProgramClauses(data []ir.ProgramClause) ir.ProgramClauses {
	return ir.ProgramClausesFromInterned(internList(h, &h.clauseLists, data))
}

func (h *HashCons) ProgramClausesData(cs ir.ProgramClauses) []ir.ProgramClause {
	return lookupList(h, &h.clauseLists, cs.Interned())
}

func (h *HashCons) InternQuantifiedWhereClauses(data []ir.QuantifiedWhereClause) ir.QuantifiedWhereClauses {
	return ir.QuantifiedWhereClausesFromInterned(internList(h, &h.whereLists, data))
}

func (h *HashCons) QuantifiedWhereClausesData(qs ir.QuantifiedWhereClauses) []ir.QuantifiedWhereClause {
	return lookupList(h, &h.whereLists, qs.Interned())
}

func (h *HashCons) InternVariableKinds(data []ir.VariableKind) ir.VariableKinds {
	return ir.VariableKindsFromInterned(internList(h, &h.kindLists, data))
}

func (h *HashCons) VariableKindsData(ks ir.VariableKinds) []ir.VariableKind {
	return lookupList(h, &h.kindLists, ks.Interned())
}

func (h *HashCons) InternCanonicalVarKinds(data []ir.CanonicalVarKind) ir.CanonicalVarKinds {
	return ir.CanonicalVarKindsFromInterned(internList(h, &h.canonLists, data))
}

func (h *HashCons) CanonicalVarKindsData(ks ir.CanonicalVarKinds) []ir.CanonicalVarKind {
	return lookupList(h, &h.canonLists, ks.Interned())
}

func (h *HashCons) InternConstraints(data []ir.InEnvironment[ir.Constraint]) ir.Constraints {
	return ir.ConstraintsFromInterned(internList(h, &h.constraints, data))
}

func (h *HashCons) ConstraintsData(cs ir.Constraints) []ir.InEnvironment[ir.Constraint] {
	return lookupList(h, &h.constraints, cs.Interned())
}

// Stats counts the distinct payloads interned so far.
type Stats struct {
	Tys       int
	Lifetimes int
	Consts    int
	Args      int
	Goals     int
	Clauses   int
}

// Stats reports table sizes.
func (h *HashCons) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		Tys:       len(h.tys.vals),
		Lifetimes: len(h.lifetimes.vals),
		Consts:    len(h.consts.vals),
		Args:      len(h.args.vals),
		Goals:     len(h.goals.vals),
		Clauses:   len(h.clauses.vals),
	}
}
