package canon

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/traitir/internal/ir"
)

// InferenceTable tracks the inference variables of one solving session.
type InferenceTable struct {
	in       ir.Interner
	session  string
	logger   *slog.Logger
	vars     []varEntry
	universe ir.UniverseIndex // largest universe allocated so far
}

type varEntry struct {
	kind     ir.VariableKind
	universe ir.UniverseIndex
	parent   ir.InferenceVar
	value    ir.GenericArg
	bound    bool
}

// TableOption configures an InferenceTable.
type TableOption func(*InferenceTable)

// WithLogger sets the logger for table events. Events are logged at
// Debug level.
func WithLogger(l *slog.Logger) TableOption {
	return func(t *InferenceTable) {
		t.logger = l
	}
}

// WithSession fixes the session id, for deterministic traces.
func WithSession(id string) TableOption {
	return func(t *InferenceTable) {
		t.session = id
	}
}

// NewInferenceTable returns an empty table whose largest universe is the
// root. The session id defaults to a fresh UUIDv7.
func NewInferenceTable(in ir.Interner, opts ...TableOption) *InferenceTable {
	t := &InferenceTable{
		in:     in,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.session == "" {
		t.session = uuid.Must(uuid.NewV7()).String()
	}
	return t
}

// Interner returns the interner the table builds terms with.
func (t *InferenceTable) Interner() ir.Interner { return t.in }

// Session returns the session id.
func (t *InferenceTable) Session() string { return t.session }

// Len returns the number of variables ever created.
func (t *InferenceTable) Len() int { return len(t.vars) }

// MaxUniverse returns the largest universe allocated so far.
func (t *InferenceTable) MaxUniverse() ir.UniverseIndex { return t.universe }

// NewUniverse allocates a universe strictly greater than every existing
// one.
func (t *InferenceTable) NewUniverse() ir.UniverseIndex {
	t.universe = t.universe.Next()
	t.logger.Debug("new universe", "session", t.session, "universe", t.universe)
	return t.universe
}

// EnsureUniverse raises the largest universe to at least u.
func (t *InferenceTable) EnsureUniverse(u ir.UniverseIndex) {
	t.universe = max(t.universe, u)
}

// NewVariable creates a general type variable in universe ui.
func (t *InferenceTable) NewVariable(ui ir.UniverseIndex) ir.InferenceVar {
	return t.NewVariableOfKind(ir.TyVariable(ir.TyVarGeneral), ui)
}

// NewVariableOfKind creates a variable of the given kind in universe ui.
func (t *InferenceTable) NewVariableOfKind(kind ir.VariableKind, ui ir.UniverseIndex) ir.InferenceVar {
	v := ir.InferenceVar(len(t.vars))
	t.vars = append(t.vars, varEntry{kind: kind, universe: ui, parent: v})
	t.EnsureUniverse(ui)
	t.logger.Debug("new variable", "session", t.session, "var", uint32(v), "class", kind.Class, "universe", ui)
	return v
}

// NewArg creates a variable of the given kind in universe ui and returns
// the generic argument referring to it.
func (t *InferenceTable) NewArg(kind ir.VariableKind, ui ir.UniverseIndex) ir.GenericArg {
	return t.ToArg(t.NewVariableOfKind(kind, ui))
}

// ToArg builds the generic argument referring to v with its declared
// kind.
func (t *InferenceTable) ToArg(v ir.InferenceVar) ir.GenericArg {
	kind := t.Kind(v)
	switch kind.Class {
	case ir.ClassTy:
		return ir.NewGenericArg(t.in, v.ToTy(t.in, kind.TyKind))
	case ir.ClassLifetime:
		return ir.NewGenericArg(t.in, v.ToLifetime(t.in))
	default:
		return ir.NewGenericArg(t.in, v.ToConst(t.in, kind.ConstTy))
	}
}

func (t *InferenceTable) entry(v ir.InferenceVar) *varEntry {
	if int(v) >= len(t.vars) {
		panic(fmt.Sprintf("canon: ?%d does not belong to session %s", v, t.session))
	}
	return &t.vars[v]
}

// Root returns the union-find representative of v.
func (t *InferenceTable) Root(v ir.InferenceVar) ir.InferenceVar {
	for {
		e := t.entry(v)
		if e.parent == v {
			return v
		}
		// Path halving.
		grand := t.entry(e.parent).parent
		e.parent = grand
		v = grand
	}
}

// Kind returns the kind of v's equivalence class.
func (t *InferenceTable) Kind(v ir.InferenceVar) ir.VariableKind {
	return t.entry(t.Root(v)).kind
}

// Probe returns the value v is bound to, if any.
func (t *InferenceTable) Probe(v ir.InferenceVar) (ir.GenericArg, bool) {
	e := t.entry(t.Root(v))
	return e.value, e.bound
}

// UniverseOfUnboundVar returns the universe of an unbound variable. It
// panics if v is bound.
func (t *InferenceTable) UniverseOfUnboundVar(v ir.InferenceVar) ir.UniverseIndex {
	e := t.entry(t.Root(v))
	if e.bound {
		panic(fmt.Sprintf("canon: ?%d is bound", v))
	}
	return e.universe
}

// UnifyVars merges the equivalence classes of a and b. The merged class
// lives in the smaller of the two universes. If both are bound their
// values must be equal; if one is bound its value must be visible from
// the merged universe.
func (t *InferenceTable) UnifyVars(a, b ir.InferenceVar) error {
	ra, rb := t.Root(a), t.Root(b)
	if ra == rb {
		return nil
	}
	ea, eb := t.entry(ra), t.entry(rb)
	if ea.kind.Class != eb.kind.Class {
		panic(fmt.Sprintf("canon: cannot unify %s ?%d with %s ?%d", ea.kind.Class, a, eb.kind.Class, b))
	}
	kind, err := mergeKinds(ea.kind, eb.kind)
	if err != nil {
		return err
	}

	universe := min(ea.universe, eb.universe)
	value, bound := ea.value, ea.bound
	switch {
	case ea.bound && eb.bound:
		if !ir.Equal(t.in, t.resolveArg(ea.value), t.resolveArg(eb.value)) {
			return ir.NewMismatchError("var", "?%d and ?%d are bound to different values", a, b)
		}
	case eb.bound:
		value, bound = eb.value, true
	}
	var resolved ir.GenericArg
	if bound {
		resolved = t.resolveArg(value)
		if u := ir.MaxUniverse(t.in, resolved); !universe.CanSee(u) {
			return ir.NewUniverseError(u, universe)
		}
		for _, other := range ir.InferenceVars(t.in, resolved) {
			if r := t.Root(other); r == ra || r == rb {
				return ir.NewMismatchError("var", "?%d occurs in the value of ?%d", other, b)
			}
		}
	}

	eb.parent = ra
	ea.kind, ea.universe, ea.value, ea.bound = kind, universe, value, bound
	if bound {
		t.lowerUniverses(resolved, universe)
	}
	t.logger.Debug("unify variables", "session", t.session, "a", uint32(a), "b", uint32(b), "universe", universe)
	return nil
}

func mergeKinds(a, b ir.VariableKind) (ir.VariableKind, error) {
	if a.Class != ir.ClassTy || a.TyKind == b.TyKind || b.TyKind == ir.TyVarGeneral {
		return a, nil
	}
	if a.TyKind == ir.TyVarGeneral {
		return b, nil
	}
	return ir.VariableKind{}, ir.NewMismatchError("var", "integer and float variables do not unify")
}

// Bind records value as the solution for v. It fails when value, with
// its bound variables resolved, names a placeholder v's universe cannot
// see, or mentions v itself. Unbound variables in value move down to v's
// universe when they live above it, so nothing bound to them later can
// escape through v. Binding an already bound variable panics; callers
// probe first.
func (t *InferenceTable) Bind(v ir.InferenceVar, value ir.GenericArg) error {
	root := t.Root(v)
	e := t.entry(root)
	if e.bound {
		panic(fmt.Sprintf("canon: ?%d is already bound", v))
	}
	if class := value.Class(t.in); class != e.kind.Class {
		panic(fmt.Sprintf("canon: cannot bind %s ?%d to a %s", e.kind.Class, v, class))
	}
	resolved := t.resolveArg(value)
	if u := ir.MaxUniverse(t.in, resolved); !e.universe.CanSee(u) {
		return ir.NewUniverseError(u, e.universe)
	}
	for _, other := range ir.InferenceVars(t.in, resolved) {
		if t.Root(other) == root {
			return ir.NewMismatchError("var", "?%d occurs in its own value %s", v, ir.Render(t.in, value))
		}
	}
	t.lowerUniverses(resolved, e.universe)
	e.value, e.bound = value, true
	t.logger.Debug("bind", "session", t.session, "var", uint32(v), "value", ir.Render(t.in, value))
	return nil
}

// lowerUniverses moves every unbound variable in resolved into ui when it
// lives in a later universe.
func (t *InferenceTable) lowerUniverses(resolved ir.GenericArg, ui ir.UniverseIndex) {
	for _, other := range ir.InferenceVars(t.in, resolved) {
		e := t.entry(t.Root(other))
		if !e.bound && e.universe > ui {
			t.logger.Debug("lower universe", "session", t.session, "var", uint32(other), "from", e.universe, "to", ui)
			e.universe = ui
		}
	}
}

func (t *InferenceTable) resolveArg(a ir.GenericArg) ir.GenericArg {
	return Resolve(t, a)
}

// resolver replaces bound variables with their values, recursively, and
// unbound ones with their representative.
type resolver struct {
	ir.FolderBase
	table *InferenceTable
}

func (r resolver) FoldInferenceTy(v ir.InferenceVar, kind ir.TyVariableKind, outer ir.DebruijnIndex) (ir.Ty, error) {
	if val, ok := r.table.Probe(v); ok {
		ty, err := val.AssertTy(r.In).FoldWith(r, ir.Innermost)
		return ir.ShiftedInFrom(r.In, ty, outer), err
	}
	return r.table.Root(v).ToTy(r.In, r.table.Kind(v).TyKind), nil
}

func (r resolver) FoldInferenceLifetime(v ir.InferenceVar, outer ir.DebruijnIndex) (ir.Lifetime, error) {
	if val, ok := r.table.Probe(v); ok {
		lt, err := val.AssertLifetime(r.In).FoldWith(r, ir.Innermost)
		return ir.ShiftedInFrom(r.In, lt, outer), err
	}
	return r.table.Root(v).ToLifetime(r.In), nil
}

func (r resolver) FoldInferenceConst(ty ir.Ty, v ir.InferenceVar, outer ir.DebruijnIndex) (ir.Const, error) {
	if val, ok := r.table.Probe(v); ok {
		c, err := val.AssertConst(r.In).FoldWith(r, ir.Innermost)
		return ir.ShiftedInFrom(r.In, c, outer), err
	}
	return r.table.Root(v).ToConst(r.In, ty), nil
}

// Resolve replaces every bound inference variable in value with its
// value, recursively, and every unbound one with its class representative.
func Resolve[T any](t *InferenceTable, value T) T {
	out, err := ir.Fold[T](resolver{FolderBase: ir.FolderBase{In: t.in}, table: t}, value, ir.Innermost)
	if err != nil {
		panic("canon: resolution cannot fail: " + err.Error())
	}
	return out
}
