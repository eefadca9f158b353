package syntax

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/traitir/internal/ir"
)

// ParseError reports a syntax or scoping error at a 1-based line and
// column.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser reads fixture notation into terms of one interner. Item names
// are shared through its Symbols table across calls.
type Parser struct {
	in   ir.Interner
	syms *Symbols
}

// NewParser returns a parser interning into in. A nil syms starts an
// empty table.
func NewParser(in ir.Interner, syms *Symbols) *Parser {
	if syms == nil {
		syms = NewSymbols()
	}
	return &Parser{in: in, syms: syms}
}

// Interner returns the interner terms are built in.
func (p *Parser) Interner() ir.Interner { return p.in }

// Symbols returns the item name table.
func (p *Parser) Symbols() *Symbols { return p.syms }

// Ty parses a type.
func (p *Parser) Ty(src string) (ir.Ty, error) { return parseAll(p, src, (*state).ty) }

// Lifetime parses a lifetime.
func (p *Parser) Lifetime(src string) (ir.Lifetime, error) {
	return parseAll(p, src, (*state).lifetime)
}

// Arg parses a generic argument: a type, a quoted lifetime or a constant.
func (p *Parser) Arg(src string) (ir.GenericArg, error) { return parseAll(p, src, (*state).arg) }

// Subst parses a substitution written [arg, ...].
func (p *Parser) Subst(src string) (ir.Substitution, error) {
	return parseAll(p, src, (*state).subst)
}

// Goal parses a goal.
func (p *Parser) Goal(src string) (ir.Goal, error) { return parseAll(p, src, (*state).goal) }

// Clause parses a program clause.
func (p *Parser) Clause(src string) (ir.ProgramClause, error) {
	return parseAll(p, src, (*state).clause)
}

// Environment parses env<Un> { clause; ... }.
func (p *Parser) Environment(src string) (ir.Environment, error) {
	return parseAll(p, src, (*state).env)
}

// Query parses `env<Un> { ... } |- goal`. Without an environment prefix
// the goal is placed in an empty environment whose universe is the
// largest placeholder universe the goal mentions.
func (p *Parser) Query(src string) (ir.InEnvironment[ir.Goal], error) {
	return parseAll(p, src, (*state).query)
}

// BindersTy parses `for<params> ty`.
func (p *Parser) BindersTy(src string) (ir.Binders[ir.Ty], error) {
	return parseAll(p, src, (*state).bindersTy)
}

// Canonical parses `canonical<kinds> { query }`.
func (p *Parser) Canonical(src string) (ir.Canonical[ir.InEnvironment[ir.Goal]], error) {
	return parseAll(p, src, (*state).canonical)
}

// UCanonical parses `ucanonical<n> { canonical<kinds> { query } }`.
func (p *Parser) UCanonical(src string) (ir.UCanonical[ir.InEnvironment[ir.Goal]], error) {
	return parseAll(p, src, (*state).ucanonical)
}

// VarKinds parses a comma-separated list of inference variable kinds in
// canonical binder notation, e.g. `ty U0, lifetime U1, const usize U0`.
// An empty source yields no kinds.
func (p *Parser) VarKinds(src string) ([]ir.CanonicalVarKind, error) {
	return parseAll(p, src, func(s *state) ([]ir.CanonicalVarKind, error) {
		var kinds []ir.CanonicalVarKind
		if s.peek().Type == EOF {
			return kinds, nil
		}
		for {
			k, err := s.canonicalKind()
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, k)
			if !s.match(COMMA) {
				return kinds, nil
			}
		}
	})
}

func parseAll[T any](p *Parser, src string, f func(*state) (T, error)) (T, error) {
	var zero T
	toks, err := Lex(src)
	if err != nil {
		return zero, err
	}
	s := &state{in: p.in, syms: p.syms, toks: toks}
	v, err := f(s)
	if err != nil {
		return zero, err
	}
	if tok := s.peek(); tok.Type != EOF {
		return zero, s.errorf(tok, "unexpected %s after end of term", describe(tok))
	}
	return v, nil
}

// scope is one binder level: parameter names and kinds in slot order.
// Anonymous parameters are named "_" and can only be referenced as ^d.i.
type scope struct {
	names []string
	kinds []ir.VariableKind
}

type state struct {
	in     ir.Interner
	syms   *Symbols
	toks   []Token
	pos    int
	scopes []scope
}

func scoped[T any](s *state, sc scope, f func() (T, error)) (T, error) {
	s.scopes = append(s.scopes, sc)
	defer func() { s.scopes = s.scopes[:len(s.scopes)-1] }()
	return f()
}

// lookup resolves a parameter name to a bound variable, counting binder
// levels from the innermost scope.
func (s *state) lookup(name string) (ir.BoundVar, ir.VariableKind, bool) {
	if name == "_" {
		return ir.BoundVar{}, ir.VariableKind{}, false
	}
	for d := range len(s.scopes) {
		sc := s.scopes[len(s.scopes)-1-d]
		if i := slices.Index(sc.names, name); i >= 0 {
			return ir.NewBoundVar(ir.DebruijnIndex(d), i), sc.kinds[i], true
		}
	}
	return ir.BoundVar{}, ir.VariableKind{}, false
}

func (s *state) peek() Token { return s.toks[s.pos] }

func (s *state) peekAt(n int) Token {
	if s.pos+n >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[s.pos+n]
}

func (s *state) next() Token {
	tok := s.toks[s.pos]
	if tok.Type != EOF {
		s.pos++
	}
	return tok
}

func (s *state) match(tt TokenType) bool {
	if s.peek().Type == tt {
		s.next()
		return true
	}
	return false
}

func (s *state) need(tt TokenType) (Token, error) {
	tok := s.peek()
	if tok.Type != tt {
		return tok, s.errorf(tok, "expected %s, found %s", tt, describe(tok))
	}
	return s.next(), nil
}

func (s *state) isKeyword(word string) bool {
	tok := s.peek()
	return tok.Type == IDENT && tok.Literal.(string) == word
}

func (s *state) matchKeyword(word string) bool {
	if s.isKeyword(word) {
		s.next()
		return true
	}
	return false
}

func (s *state) needKeyword(word string) error {
	if !s.matchKeyword(word) {
		tok := s.peek()
		return s.errorf(tok, "expected %q, found %s", word, describe(tok))
	}
	return nil
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of input"
	}
	return strconv.Quote(tok.Lexeme)
}

func (s *state) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

// list parses items separated by sep up to and including close. A
// trailing separator is accepted.
func (s *state) list(sep, close TokenType, item func() error) error {
	for {
		if s.match(close) {
			return nil
		}
		if err := item(); err != nil {
			return err
		}
		if s.match(close) {
			return nil
		}
		if _, err := s.need(sep); err != nil {
			return err
		}
	}
}

func (s *state) block(f func() error) error {
	if _, err := s.need(LBRACE); err != nil {
		return err
	}
	if err := f(); err != nil {
		return err
	}
	_, err := s.need(RBRACE)
	return err
}

func (s *state) kinds(sc scope) ir.VariableKinds {
	return ir.NewVariableKinds(s.in, sc.kinds...)
}

// params parses <param, ...>. Parameter types of const parameters are
// resolved in the enclosing scope.
func (s *state) params() (scope, error) {
	var sc scope
	if _, err := s.need(LANGLE); err != nil {
		return sc, err
	}
	err := s.list(COMMA, RANGLE, func() error { return s.param(&sc) })
	return sc, err
}

func (s *state) param(sc *scope) error {
	tok := s.peek()
	var name string
	var kind ir.VariableKind
	switch {
	case tok.Type == LIFETIME:
		s.next()
		name, kind = tok.Literal.(string), ir.LifetimeVariable()
		if name == "static" || name == "erased" {
			return s.errorf(tok, "'%s cannot be declared", name)
		}
	case s.isKeyword("const"):
		s.next()
		nameTok, err := s.need(IDENT)
		if err != nil {
			return err
		}
		if _, err := s.need(COLON); err != nil {
			return err
		}
		ty, err := s.ty()
		if err != nil {
			return err
		}
		name, kind = nameTok.Literal.(string), ir.ConstVariable(ty)
	case (s.isKeyword("int") || s.isKeyword("float")) && s.peekAt(1).Type == IDENT:
		tyKind := ir.TyVarInteger
		if s.next().Literal.(string) == "float" {
			tyKind = ir.TyVarFloat
		}
		name, kind = s.next().Literal.(string), ir.TyVariable(tyKind)
	case tok.Type == IDENT:
		s.next()
		name, kind = tok.Literal.(string), ir.TyVariable(ir.TyVarGeneral)
	default:
		return s.errorf(tok, "expected a binder parameter, found %s", describe(tok))
	}
	if name != "_" && slices.Contains(sc.names, name) {
		return s.errorf(tok, "duplicate parameter %q", name)
	}
	sc.names = append(sc.names, name)
	sc.kinds = append(sc.kinds, kind)
	return nil
}

func (s *state) item(kind ir.ItemKind) (uint32, error) {
	tok := s.next()
	switch tok.Type {
	case ITEM:
		n := tok.Literal.(uint64)
		if n > math.MaxUint32 {
			return 0, s.errorf(tok, "item id %d out of range", n)
		}
		s.syms.Reserve(kind, uint32(n))
		return uint32(n), nil
	case IDENT:
		return s.syms.Intern(kind, tok.Literal.(string)), nil
	}
	return 0, s.errorf(tok, "expected %s name, found %s", kind, describe(tok))
}

func (s *state) generics() (ir.Substitution, error) {
	if !s.match(LANGLE) {
		return ir.EmptySubstitution(s.in), nil
	}
	var args []ir.GenericArg
	err := s.list(COMMA, RANGLE, func() error {
		a, err := s.arg()
		args = append(args, a)
		return err
	})
	return ir.NewSubstitution(s.in, args...), err
}

func (s *state) subst() (ir.Substitution, error) {
	if _, err := s.need(LSQUARE); err != nil {
		return ir.Substitution{}, err
	}
	var args []ir.GenericArg
	err := s.list(COMMA, RSQUARE, func() error {
		a, err := s.arg()
		args = append(args, a)
		return err
	})
	return ir.NewSubstitution(s.in, args...), err
}

func (s *state) arg() (ir.GenericArg, error) {
	tok := s.peek()
	switch {
	case tok.Type == LIFETIME || tok.Type == QUOTE:
		lt, err := s.lifetime()
		if err != nil {
			return ir.GenericArg{}, err
		}
		return lt.ToGenericArg(s.in), nil
	case s.isKeyword("const"):
		c, err := s.constArg()
		if err != nil {
			return ir.GenericArg{}, err
		}
		return c.ToGenericArg(s.in), nil
	case tok.Type == IDENT:
		if _, kind, ok := s.lookup(tok.Literal.(string)); ok && kind.Class == ir.ClassConst {
			c, err := s.constant(kind.ConstTy)
			if err != nil {
				return ir.GenericArg{}, err
			}
			return c.ToGenericArg(s.in), nil
		}
	}
	ty, err := s.ty()
	if err != nil {
		return ir.GenericArg{}, err
	}
	return ty.ToGenericArg(s.in), nil
}

func (s *state) lifetime() (ir.Lifetime, error) {
	tok := s.next()
	switch tok.Type {
	case LIFETIME:
		name := tok.Literal.(string)
		switch name {
		case "static":
			return ir.StaticLifetime(s.in), nil
		case "erased":
			return ir.NewLifetime(s.in, ir.LifetimeErased{}), nil
		}
		bv, kind, ok := s.lookup(name)
		if !ok {
			return ir.Lifetime{}, s.errorf(tok, "undeclared lifetime '%s", name)
		}
		if kind.Class != ir.ClassLifetime {
			return ir.Lifetime{}, s.errorf(tok, "'%s is a %s parameter", name, kind.Class)
		}
		return bv.ToLifetime(s.in), nil
	case QUOTE:
		inner := s.next()
		switch inner.Type {
		case INFER:
			lit := inner.Literal.(InferLiteral)
			if lit.Kind != ir.TyVarGeneral {
				return ir.Lifetime{}, s.errorf(inner, "lifetime variables have no int or float kind")
			}
			return lit.Var.ToLifetime(s.in), nil
		case PLACEHOLDER:
			return inner.Literal.(ir.PlaceholderIndex).ToLifetime(s.in), nil
		case BOUND:
			return inner.Literal.(ir.BoundVar).ToLifetime(s.in), nil
		}
		return ir.Lifetime{}, s.errorf(inner, "expected a lifetime after ', found %s", describe(inner))
	}
	return ir.Lifetime{}, s.errorf(tok, "expected a lifetime, found %s", describe(tok))
}

// constant parses a constant's value. Named const parameters carry their
// declared type; every other form takes ty.
func (s *state) constant(ty ir.Ty) (ir.Const, error) {
	tok := s.next()
	var value ir.ConstValue
	switch tok.Type {
	case INT:
		value = ir.ConcreteConst{Bits: tok.Literal.(uint64)}
	case BOUND:
		value = ir.ConstBoundVar{Var: tok.Literal.(ir.BoundVar)}
	case INFER:
		lit := tok.Literal.(InferLiteral)
		if lit.Kind != ir.TyVarGeneral {
			return ir.Const{}, s.errorf(tok, "const variables have no int or float kind")
		}
		value = ir.ConstInferenceVar{Var: lit.Var}
	case PLACEHOLDER:
		value = ir.ConstPlaceholder{Index: tok.Literal.(ir.PlaceholderIndex)}
	case IDENT:
		name := tok.Literal.(string)
		bv, kind, ok := s.lookup(name)
		if !ok || kind.Class != ir.ClassConst {
			return ir.Const{}, s.errorf(tok, "%q is not a const parameter", name)
		}
		return bv.ToConst(s.in, kind.ConstTy), nil
	default:
		return ir.Const{}, s.errorf(tok, "expected a constant, found %s", describe(tok))
	}
	return ir.NewConst(s.in, ty, value), nil
}

// constArg parses `const value: ty`.
func (s *state) constArg() (ir.Const, error) {
	if err := s.needKeyword("const"); err != nil {
		return ir.Const{}, err
	}
	valuePos := s.pos
	s.next()
	if _, err := s.need(COLON); err != nil {
		return ir.Const{}, err
	}
	ty, err := s.ty()
	if err != nil {
		return ir.Const{}, err
	}
	end := s.pos
	s.pos = valuePos
	c, err := s.constant(ty)
	s.pos = end
	return c, err
}

func (s *state) usize() ir.Ty { return ir.ScalarUsize.ToTy(s.in) }

var rigidItems = map[string]ir.ItemKind{
	"assoc":             ir.ItemAssocType,
	"opaque_ty":         ir.ItemOpaqueTy,
	"fn_def":            ir.ItemFnDef,
	"closure":           ir.ItemClosure,
	"generator":         ir.ItemGenerator,
	"generator_witness": ir.ItemGenerator,
}

func (s *state) ty() (ir.Ty, error) {
	tok := s.peek()
	switch tok.Type {
	case IDENT:
		return s.namedTy()
	case ITEM:
		return s.adt()
	case BOUND:
		s.next()
		return tok.Literal.(ir.BoundVar).ToTy(s.in), nil
	case INFER:
		s.next()
		lit := tok.Literal.(InferLiteral)
		return lit.Var.ToTy(s.in, lit.Kind), nil
	case PLACEHOLDER:
		s.next()
		return tok.Literal.(ir.PlaceholderIndex).ToTy(s.in), nil
	case BANG:
		s.next()
		return ir.NewTy(s.in, ir.TyNever{}), nil
	case LPAREN:
		return s.tuple()
	case LSQUARE:
		return s.sliceOrArray()
	case AMP:
		return s.ref()
	case STAR:
		return s.raw()
	case LBRACE:
		s.next()
		if err := s.needKeyword("error"); err != nil {
			return ir.Ty{}, err
		}
		if _, err := s.need(RBRACE); err != nil {
			return ir.Ty{}, err
		}
		return ir.NewTy(s.in, ir.TyError{}), nil
	}
	return ir.Ty{}, s.errorf(tok, "expected a type, found %s", describe(tok))
}

func (s *state) namedTy() (ir.Ty, error) {
	tok := s.peek()
	name := tok.Literal.(string)
	switch name {
	case "str":
		s.next()
		return ir.NewTy(s.in, ir.TyStr{}), nil
	case "fn", "unsafe", "for":
		return s.fnPointer()
	case "dyn":
		return s.dyn()
	case "proj", "opaque":
		alias, err := s.alias()
		if err != nil {
			return ir.Ty{}, err
		}
		return alias.ToTy(s.in), nil
	case "foreign":
		s.next()
		id, err := s.item(ir.ItemForeign)
		if err != nil {
			return ir.Ty{}, err
		}
		return ir.NewTy(s.in, ir.TyForeign{ID: ir.ForeignDefID(id)}), nil
	}
	if _, ok := rigidItems[name]; ok {
		return s.rigid()
	}
	if scalar, ok := ir.ScalarByName(name); ok {
		s.next()
		return scalar.ToTy(s.in), nil
	}
	if bv, kind, ok := s.lookup(name); ok {
		s.next()
		if kind.Class != ir.ClassTy {
			return ir.Ty{}, s.errorf(tok, "%q is a %s parameter, not a type", name, kind.Class)
		}
		return bv.ToTy(s.in), nil
	}
	return s.adt()
}

func (s *state) adt() (ir.Ty, error) {
	id, err := s.item(ir.ItemAdt)
	if err != nil {
		return ir.Ty{}, err
	}
	args, err := s.generics()
	if err != nil {
		return ir.Ty{}, err
	}
	return ir.NewTy(s.in, ir.TyAdt{ID: ir.AdtID(id), Substitution: args}), nil
}

func (s *state) rigid() (ir.Ty, error) {
	kw := s.next().Literal.(string)
	id, err := s.item(rigidItems[kw])
	if err != nil {
		return ir.Ty{}, err
	}
	args, err := s.generics()
	if err != nil {
		return ir.Ty{}, err
	}
	var kind ir.TyKind
	switch kw {
	case "assoc":
		kind = ir.TyAssociatedType{ID: ir.AssocTypeID(id), Substitution: args}
	case "opaque_ty":
		kind = ir.TyOpaqueType{ID: ir.OpaqueTyID(id), Substitution: args}
	case "fn_def":
		kind = ir.TyFnDef{ID: ir.FnDefID(id), Substitution: args}
	case "closure":
		kind = ir.TyClosure{ID: ir.ClosureID(id), Substitution: args}
	case "generator":
		kind = ir.TyGenerator{ID: ir.GeneratorID(id), Substitution: args}
	default:
		kind = ir.TyGeneratorWitness{ID: ir.GeneratorID(id), Substitution: args}
	}
	return ir.NewTy(s.in, kind), nil
}

// tuple parses (), (T,), (A, B). A single parenthesized type without a
// trailing comma is grouping, not a tuple.
func (s *state) tuple() (ir.Ty, error) {
	s.next()
	var tys []ir.Ty
	trailingComma := false
	for !s.match(RPAREN) {
		ty, err := s.ty()
		if err != nil {
			return ir.Ty{}, err
		}
		tys = append(tys, ty)
		if trailingComma = s.match(COMMA); !trailingComma {
			if _, err := s.need(RPAREN); err != nil {
				return ir.Ty{}, err
			}
			break
		}
	}
	if len(tys) == 1 && !trailingComma {
		return tys[0], nil
	}
	return ir.NewTy(s.in, ir.TyTuple{Arity: len(tys), Substitution: ir.SubstitutionFromTys(s.in, tys...)}), nil
}

func (s *state) sliceOrArray() (ir.Ty, error) {
	s.next()
	elem, err := s.ty()
	if err != nil {
		return ir.Ty{}, err
	}
	if !s.match(SEMI) {
		if _, err := s.need(RSQUARE); err != nil {
			return ir.Ty{}, err
		}
		return ir.NewTy(s.in, ir.TySlice{Ty: elem}), nil
	}
	var n ir.Const
	if s.isKeyword("const") {
		n, err = s.constArg()
	} else {
		n, err = s.constant(s.usize())
	}
	if err != nil {
		return ir.Ty{}, err
	}
	if _, err := s.need(RSQUARE); err != nil {
		return ir.Ty{}, err
	}
	return ir.NewTy(s.in, ir.TyArray{Ty: elem, Len: n}), nil
}

func (s *state) ref() (ir.Ty, error) {
	s.next()
	lt, err := s.lifetime()
	if err != nil {
		return ir.Ty{}, err
	}
	mutability := ir.Not
	if s.matchKeyword("mut") {
		mutability = ir.Mut
	}
	ty, err := s.ty()
	if err != nil {
		return ir.Ty{}, err
	}
	return ir.NewTy(s.in, ir.TyRef{Mutability: mutability, Lifetime: lt, Ty: ty}), nil
}

func (s *state) raw() (ir.Ty, error) {
	s.next()
	var mutability ir.Mutability
	switch tok := s.peek(); {
	case s.matchKeyword("mut"):
		mutability = ir.Mut
	case s.matchKeyword("const"):
		mutability = ir.Not
	default:
		return ir.Ty{}, s.errorf(tok, "expected const or mut after *, found %s", describe(tok))
	}
	ty, err := s.ty()
	if err != nil {
		return ir.Ty{}, err
	}
	return ir.NewTy(s.in, ir.TyRaw{Mutability: mutability, Ty: ty}), nil
}

// fnPointer parses [for<'a, ...>] [unsafe] fn(args[, ...]) -> ret. The
// arguments and return type sit under the pointer's own binder even when
// it declares no lifetimes.
func (s *state) fnPointer() (ir.Ty, error) {
	var sc scope
	if s.isKeyword("for") {
		forTok := s.next()
		var err error
		if sc, err = s.params(); err != nil {
			return ir.Ty{}, err
		}
		for _, k := range sc.kinds {
			if k.Class != ir.ClassLifetime {
				return ir.Ty{}, s.errorf(forTok, "fn pointers only bind lifetimes")
			}
		}
	}
	var sig ir.FnSig
	if s.matchKeyword("unsafe") {
		sig.Safety = ir.Unsafe
	}
	if err := s.needKeyword("fn"); err != nil {
		return ir.Ty{}, err
	}
	tys, err := scoped(s, sc, func() ([]ir.Ty, error) {
		if _, err := s.need(LPAREN); err != nil {
			return nil, err
		}
		var tys []ir.Ty
		err := s.list(COMMA, RPAREN, func() error {
			if s.match(ELLIPSIS) {
				sig.Variadic = true
				return nil
			}
			ty, err := s.ty()
			tys = append(tys, ty)
			return err
		})
		if err != nil {
			return nil, err
		}
		if s.match(ARROW) {
			ret, err := s.ty()
			return append(tys, ret), err
		}
		if len(tys) > 0 || sig.Variadic {
			tok := s.peek()
			return nil, s.errorf(tok, "expected -> after fn arguments, found %s", describe(tok))
		}
		return tys, nil
	})
	if err != nil {
		return ir.Ty{}, err
	}
	return ir.NewTy(s.in, ir.FnPointer{
		NumBinders:   len(sc.kinds),
		Sig:          sig,
		Substitution: ir.SubstitutionFromTys(s.in, tys...),
	}), nil
}

// dyn parses dyn exists<params> { bound, ... } + 'lt.
func (s *state) dyn() (ir.Ty, error) {
	s.next()
	if err := s.needKeyword("exists"); err != nil {
		return ir.Ty{}, err
	}
	sc, err := s.params()
	if err != nil {
		return ir.Ty{}, err
	}
	bounds, err := scoped(s, sc, func() ([]ir.QuantifiedWhereClause, error) {
		if _, err := s.need(LBRACE); err != nil {
			return nil, err
		}
		var bounds []ir.QuantifiedWhereClause
		err := s.list(COMMA, RBRACE, func() error {
			b, err := s.quantifiedWhereClause()
			bounds = append(bounds, b)
			return err
		})
		return bounds, err
	})
	if err != nil {
		return ir.Ty{}, err
	}
	if _, err := s.need(PLUS); err != nil {
		return ir.Ty{}, err
	}
	lt, err := s.lifetime()
	if err != nil {
		return ir.Ty{}, err
	}
	return ir.NewTy(s.in, ir.DynTy{
		Bounds:   ir.NewBinders(s.kinds(sc), ir.NewQuantifiedWhereClauses(s.in, bounds...)),
		Lifetime: lt,
	}), nil
}

func (s *state) quantifiedWhereClause() (ir.QuantifiedWhereClause, error) {
	var sc scope
	if s.matchKeyword("forall") {
		var err error
		if sc, err = s.params(); err != nil {
			return ir.QuantifiedWhereClause{}, err
		}
		wc, err := scoped(s, sc, func() (ir.WhereClause, error) {
			var wc ir.WhereClause
			err := s.block(func() error {
				var err error
				wc, err = s.whereClause()
				return err
			})
			return wc, err
		})
		return ir.NewBinders(s.kinds(sc), wc), err
	}
	wc, err := scoped(s, sc, s.whereClause)
	return ir.NewBinders(s.kinds(sc), wc), err
}

func (s *state) alias() (ir.AliasTy, error) {
	tok := s.next()
	var kind ir.ItemKind
	switch {
	case tok.Type == IDENT && tok.Literal.(string) == "proj":
		kind = ir.ItemAssocType
	case tok.Type == IDENT && tok.Literal.(string) == "opaque":
		kind = ir.ItemOpaqueTy
	default:
		return nil, s.errorf(tok, "expected proj or opaque, found %s", describe(tok))
	}
	id, err := s.item(kind)
	if err != nil {
		return nil, err
	}
	args, err := s.generics()
	if err != nil {
		return nil, err
	}
	if kind == ir.ItemAssocType {
		return ir.ProjectionTy{AssocTypeID: ir.AssocTypeID(id), Substitution: args}, nil
	}
	return ir.OpaqueTy{OpaqueTyID: ir.OpaqueTyID(id), Substitution: args}, nil
}

// traitRef parses `: Trait<args>` after an already parsed self type.
func (s *state) traitRef(self ir.Ty) (ir.TraitRef, error) {
	if _, err := s.need(COLON); err != nil {
		return ir.TraitRef{}, err
	}
	id, err := s.item(ir.ItemTrait)
	if err != nil {
		return ir.TraitRef{}, err
	}
	args, err := s.generics()
	if err != nil {
		return ir.TraitRef{}, err
	}
	all := append([]ir.GenericArg{self.ToGenericArg(s.in)}, args.AsSlice(s.in)...)
	return ir.TraitRef{TraitID: ir.TraitID(id), Substitution: ir.NewSubstitution(s.in, all...)}, nil
}

func (s *state) selfTraitRef() (ir.TraitRef, error) {
	self, err := s.ty()
	if err != nil {
		return ir.TraitRef{}, err
	}
	return s.traitRef(self)
}

// parens parses ( f ).
func parens[T any](s *state, f func() (T, error)) (T, error) {
	var zero T
	if _, err := s.need(LPAREN); err != nil {
		return zero, err
	}
	v, err := f()
	if err != nil {
		return zero, err
	}
	if _, err := s.need(RPAREN); err != nil {
		return zero, err
	}
	return v, nil
}

func (s *state) whereClause() (ir.WhereClause, error) {
	tok := s.next()
	if tok.Type == IDENT {
		switch tok.Literal.(string) {
		case "Implemented":
			tr, err := parens(s, s.selfTraitRef)
			return ir.Implemented{TraitRef: tr}, err
		case "AliasEq":
			return parens(s, func() (ir.WhereClause, error) {
				alias, err := s.alias()
				if err != nil {
					return nil, err
				}
				if _, err := s.need(EQUALS); err != nil {
					return nil, err
				}
				ty, err := s.ty()
				return ir.AliasEq{Alias: alias, Ty: ty}, err
			})
		case "Outlives":
			return parens(s, func() (ir.WhereClause, error) {
				a, err := s.lifetime()
				if err != nil {
					return nil, err
				}
				if _, err := s.need(COLON); err != nil {
					return nil, err
				}
				b, err := s.lifetime()
				return ir.LifetimeOutlives{A: a, B: b}, err
			})
		case "TypeOutlives":
			return parens(s, func() (ir.WhereClause, error) {
				ty, err := s.ty()
				if err != nil {
					return nil, err
				}
				if _, err := s.need(COLON); err != nil {
					return nil, err
				}
				lt, err := s.lifetime()
				return ir.TypeOutlives{Ty: ty, Lifetime: lt}, err
			})
		}
	}
	return nil, s.errorf(tok, "expected a where clause, found %s", describe(tok))
}

var tyPredicates = map[string]func(ir.Ty) ir.DomainGoal{
	"IsLocal":        func(ty ir.Ty) ir.DomainGoal { return ir.DomainIsLocal{Ty: ty} },
	"IsUpstream":     func(ty ir.Ty) ir.DomainGoal { return ir.DomainIsUpstream{Ty: ty} },
	"IsFullyVisible": func(ty ir.Ty) ir.DomainGoal { return ir.DomainIsFullyVisible{Ty: ty} },
	"DownstreamType": func(ty ir.Ty) ir.DomainGoal { return ir.DomainDownstreamType{Ty: ty} },
}

func (s *state) domainGoal() (ir.DomainGoal, error) {
	tok := s.peek()
	if tok.Type != IDENT {
		return nil, s.errorf(tok, "expected a goal, found %s", describe(tok))
	}
	name := tok.Literal.(string)
	switch name {
	case "Implemented", "AliasEq", "Outlives", "TypeOutlives":
		wc, err := s.whereClause()
		return ir.DomainHolds{Clause: wc}, err
	case "WellFormed", "FromEnv":
		s.next()
		return parens(s, func() (ir.DomainGoal, error) {
			ty, err := s.ty()
			if err != nil {
				return nil, err
			}
			if s.peek().Type != COLON {
				if name == "WellFormed" {
					return ir.DomainWellFormedTy{Ty: ty}, nil
				}
				return ir.DomainFromEnvTy{Ty: ty}, nil
			}
			tr, err := s.traitRef(ty)
			if name == "WellFormed" {
				return tr.WellFormed(), err
			}
			return tr.FromEnv(), err
		})
	case "Normalize":
		s.next()
		return parens(s, func() (ir.DomainGoal, error) {
			alias, err := s.alias()
			if err != nil {
				return nil, err
			}
			if _, err := s.need(ARROW); err != nil {
				return nil, err
			}
			ty, err := s.ty()
			return ir.DomainNormalize{Alias: alias, Ty: ty}, err
		})
	case "LocalImplAllowed":
		s.next()
		tr, err := parens(s, s.selfTraitRef)
		return ir.DomainLocalImplAllowed{TraitRef: tr}, err
	case "ObjectSafe":
		s.next()
		id, err := parens(s, func() (uint32, error) { return s.item(ir.ItemTrait) })
		return ir.DomainObjectSafe{TraitID: ir.TraitID(id)}, err
	case "Compatible":
		s.next()
		return ir.DomainCompatible{}, nil
	case "Reveal":
		s.next()
		return ir.DomainReveal{}, nil
	}
	if mk, ok := tyPredicates[name]; ok {
		s.next()
		ty, err := parens(s, s.ty)
		return mk(ty), err
	}
	return nil, s.errorf(tok, "expected a goal, found %s", describe(tok))
}

func (s *state) goals(close TokenType) ([]ir.Goal, error) {
	var goals []ir.Goal
	err := s.list(COMMA, close, func() error {
		g, err := s.goal()
		goals = append(goals, g)
		return err
	})
	return goals, err
}

func (s *state) goal() (ir.Goal, error) {
	tok := s.peek()
	if tok.Type != IDENT {
		return ir.Goal{}, s.errorf(tok, "expected a goal, found %s", describe(tok))
	}
	switch tok.Literal.(string) {
	case "forall", "exists":
		s.next()
		kind := ir.ForAll
		if tok.Literal.(string) == "exists" {
			kind = ir.Exists
		}
		sc, err := s.params()
		if err != nil {
			return ir.Goal{}, err
		}
		body, err := scoped(s, sc, func() (ir.Goal, error) { return s.blockGoal() })
		if err != nil {
			return ir.Goal{}, err
		}
		return ir.NewGoal(s.in, ir.GoalQuantified{Kind: kind, Binders: ir.NewBinders(s.kinds(sc), body)}), nil
	case "if":
		s.next()
		if _, err := s.need(LPAREN); err != nil {
			return ir.Goal{}, err
		}
		clauses, err := s.clauses(RPAREN)
		if err != nil {
			return ir.Goal{}, err
		}
		body, err := s.blockGoal()
		if err != nil {
			return ir.Goal{}, err
		}
		return ir.Implies(s.in, ir.NewProgramClauses(s.in, clauses...), body), nil
	case "all", "any":
		s.next()
		if _, err := s.need(LPAREN); err != nil {
			return ir.Goal{}, err
		}
		goals, err := s.goals(RPAREN)
		if err != nil {
			return ir.Goal{}, err
		}
		if tok.Literal.(string) == "all" {
			return ir.NewGoal(s.in, ir.GoalAll{Goals: ir.NewGoals(s.in, goals...)}), nil
		}
		return ir.NewGoal(s.in, ir.GoalAny{Goals: ir.NewGoals(s.in, goals...)}), nil
	case "not":
		s.next()
		g, err := s.blockGoal()
		if err != nil {
			return ir.Goal{}, err
		}
		return ir.Negate(s.in, g), nil
	case "compatible":
		s.next()
		g, err := s.blockGoal()
		if err != nil {
			return ir.Goal{}, err
		}
		return ir.CompatibleGoal(s.in, g), nil
	case "Eq":
		s.next()
		return parens(s, func() (ir.Goal, error) {
			a, err := s.arg()
			if err != nil {
				return ir.Goal{}, err
			}
			if _, err := s.need(COMMA); err != nil {
				return ir.Goal{}, err
			}
			b, err := s.arg()
			if err != nil {
				return ir.Goal{}, err
			}
			return ir.EqGoal{A: a, B: b}.ToGoal(s.in), nil
		})
	case "Subtype":
		s.next()
		return parens(s, func() (ir.Goal, error) {
			a, err := s.ty()
			if err != nil {
				return ir.Goal{}, err
			}
			if _, err := s.need(COMMA); err != nil {
				return ir.Goal{}, err
			}
			b, err := s.ty()
			if err != nil {
				return ir.Goal{}, err
			}
			return ir.SubtypeGoal{A: a, B: b}.ToGoal(s.in), nil
		})
	case "CannotProve":
		s.next()
		return ir.NewGoal(s.in, ir.GoalCannotProve{}), nil
	}
	dg, err := s.domainGoal()
	if err != nil {
		return ir.Goal{}, err
	}
	return ir.NewGoal(s.in, dg), nil
}

func (s *state) blockGoal() (ir.Goal, error) {
	var g ir.Goal
	err := s.block(func() error {
		var err error
		g, err = s.goal()
		return err
	})
	return g, err
}

// clause parses forall<params> { implication } or a bare implication.
// Either way the implication sits under the clause's binder.
func (s *state) clause() (ir.ProgramClause, error) {
	var sc scope
	braced := false
	if s.matchKeyword("forall") {
		var err error
		if sc, err = s.params(); err != nil {
			return ir.ProgramClause{}, err
		}
		braced = true
	}
	impl, err := scoped(s, sc, func() (ir.ProgramClauseImplication, error) {
		if !braced {
			return s.implication()
		}
		var impl ir.ProgramClauseImplication
		err := s.block(func() error {
			var err error
			impl, err = s.implication()
			return err
		})
		return impl, err
	})
	if err != nil {
		return ir.ProgramClause{}, err
	}
	return ir.NewProgramClause(s.in, ir.NewBinders(s.kinds(sc), impl)), nil
}

func (s *state) implication() (ir.ProgramClauseImplication, error) {
	consequence, err := s.domainGoal()
	if err != nil {
		return ir.ProgramClauseImplication{}, err
	}
	var conditions []ir.Goal
	if s.match(IMPLIEDBY) {
		for {
			g, err := s.goal()
			if err != nil {
				return ir.ProgramClauseImplication{}, err
			}
			conditions = append(conditions, g)
			if !s.match(COMMA) {
				break
			}
		}
	}
	priority := ir.PriorityHigh
	if s.peek().Type == LSQUARE && s.peekAt(1).Type == IDENT && s.peekAt(1).Literal.(string) == "low" {
		s.next()
		s.next()
		if _, err := s.need(RSQUARE); err != nil {
			return ir.ProgramClauseImplication{}, err
		}
		priority = ir.PriorityLow
	}
	return ir.ProgramClauseImplication{
		Consequence: consequence,
		Conditions:  ir.NewGoals(s.in, conditions...),
		Constraints: ir.NewConstraints(s.in),
		Priority:    priority,
	}, nil
}

func (s *state) clauses(close TokenType) ([]ir.ProgramClause, error) {
	var clauses []ir.ProgramClause
	err := s.list(SEMI, close, func() error {
		c, err := s.clause()
		clauses = append(clauses, c)
		return err
	})
	return clauses, err
}

func (s *state) universe() (ir.UniverseIndex, error) {
	tok, err := s.need(IDENT)
	if err != nil {
		return 0, err
	}
	name := tok.Literal.(string)
	n, convErr := strconv.ParseUint(strings.TrimPrefix(name, "U"), 10, 31)
	if !strings.HasPrefix(name, "U") || convErr != nil {
		return 0, s.errorf(tok, "expected a universe like U1, found %s", describe(tok))
	}
	return ir.UniverseIndex(n), nil
}

func (s *state) env() (ir.Environment, error) {
	if err := s.needKeyword("env"); err != nil {
		return ir.Environment{}, err
	}
	if _, err := s.need(LANGLE); err != nil {
		return ir.Environment{}, err
	}
	u, err := s.universe()
	if err != nil {
		return ir.Environment{}, err
	}
	if _, err := s.need(RANGLE); err != nil {
		return ir.Environment{}, err
	}
	if _, err := s.need(LBRACE); err != nil {
		return ir.Environment{}, err
	}
	clauses, err := s.clauses(RBRACE)
	if err != nil {
		return ir.Environment{}, err
	}
	return ir.NewEnvironment(s.in).AddClauses(s.in, clauses...).WithUniverse(u), nil
}

func (s *state) query() (ir.InEnvironment[ir.Goal], error) {
	if !s.isKeyword("env") {
		g, err := s.goal()
		if err != nil {
			return ir.InEnvironment[ir.Goal]{}, err
		}
		env := ir.NewEnvironment(s.in).WithUniverse(ir.MaxUniverse(s.in, g))
		return ir.NewInEnvironment(env, g), nil
	}
	env, err := s.env()
	if err != nil {
		return ir.InEnvironment[ir.Goal]{}, err
	}
	if _, err := s.need(TURNSTILE); err != nil {
		return ir.InEnvironment[ir.Goal]{}, err
	}
	g, err := s.goal()
	if err != nil {
		return ir.InEnvironment[ir.Goal]{}, err
	}
	return ir.NewInEnvironment(env, g), nil
}

func (s *state) bindersTy() (ir.Binders[ir.Ty], error) {
	if err := s.needKeyword("for"); err != nil {
		return ir.Binders[ir.Ty]{}, err
	}
	sc, err := s.params()
	if err != nil {
		return ir.Binders[ir.Ty]{}, err
	}
	ty, err := scoped(s, sc, s.ty)
	if err != nil {
		return ir.Binders[ir.Ty]{}, err
	}
	return ir.NewBinders(s.kinds(sc), ty), nil
}

// canonicalKind parses one canonical binder entry: ty U0, int U0,
// float U0, lifetime U1 or const usize U0.
func (s *state) canonicalKind() (ir.CanonicalVarKind, error) {
	tok, err := s.need(IDENT)
	if err != nil {
		return ir.CanonicalVarKind{}, err
	}
	var kind ir.VariableKind
	switch tok.Literal.(string) {
	case "ty":
		kind = ir.TyVariable(ir.TyVarGeneral)
	case "int":
		kind = ir.TyVariable(ir.TyVarInteger)
	case "float":
		kind = ir.TyVariable(ir.TyVarFloat)
	case "lifetime":
		kind = ir.LifetimeVariable()
	case "const":
		ty, err := s.ty()
		if err != nil {
			return ir.CanonicalVarKind{}, err
		}
		kind = ir.ConstVariable(ty)
	default:
		return ir.CanonicalVarKind{}, s.errorf(tok, "expected ty, int, float, lifetime or const, found %s", describe(tok))
	}
	u, err := s.universe()
	if err != nil {
		return ir.CanonicalVarKind{}, err
	}
	return ir.NewWithKind(kind, u), nil
}

func (s *state) canonical() (ir.Canonical[ir.InEnvironment[ir.Goal]], error) {
	var c ir.Canonical[ir.InEnvironment[ir.Goal]]
	if err := s.needKeyword("canonical"); err != nil {
		return c, err
	}
	if _, err := s.need(LANGLE); err != nil {
		return c, err
	}
	var kinds []ir.CanonicalVarKind
	var sc scope
	err := s.list(COMMA, RANGLE, func() error {
		k, err := s.canonicalKind()
		kinds = append(kinds, k)
		sc.names = append(sc.names, "_")
		sc.kinds = append(sc.kinds, k.Kind)
		return err
	})
	if err != nil {
		return c, err
	}
	value, err := scoped(s, sc, func() (ir.InEnvironment[ir.Goal], error) {
		var q ir.InEnvironment[ir.Goal]
		err := s.block(func() error {
			var err error
			q, err = s.query()
			return err
		})
		return q, err
	})
	if err != nil {
		return c, err
	}
	c.Value = value
	c.Binders = ir.NewCanonicalVarKinds(s.in, kinds...)
	return c, nil
}

func (s *state) ucanonical() (ir.UCanonical[ir.InEnvironment[ir.Goal]], error) {
	var uc ir.UCanonical[ir.InEnvironment[ir.Goal]]
	if err := s.needKeyword("ucanonical"); err != nil {
		return uc, err
	}
	if _, err := s.need(LANGLE); err != nil {
		return uc, err
	}
	n, err := s.need(INT)
	if err != nil {
		return uc, err
	}
	if _, err := s.need(RANGLE); err != nil {
		return uc, err
	}
	if count := n.Literal.(uint64); count < 1 || count > math.MaxInt32 {
		return uc, s.errorf(n, "universe count must be positive")
	}
	uc.Universes = int(n.Literal.(uint64))
	err = s.block(func() error {
		var err error
		uc.Canonical, err = s.canonical()
		return err
	})
	return uc, err
}
