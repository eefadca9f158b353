package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Render writes v in fixture notation with items named "#id". The output
// is deterministic and depends only on the structure of v, never on
// handle identity, so equal terms render identically under any interner.
// Bound variables are written as raw de Bruijn references (^depth.slot)
// and binder parameters are anonymous, which makes alpha-equivalent terms
// render identically as well.
func Render(in Interner, v any) string {
	return RenderWith(in, nil, v)
}

// RenderWith is Render with item names resolved through names.
func RenderWith(in Interner, names Namer, v any) string {
	r := &renderer{in: in, names: names}
	r.value(v)
	return r.sb.String()
}

type renderer struct {
	in    Interner
	names Namer
	sb    strings.Builder
}

// renderable is implemented by the generic wrappers, which a type switch
// cannot match for every instantiation.
type renderable interface {
	render(r *renderer)
}

func (r *renderer) write(ss ...string) {
	for _, s := range ss {
		r.sb.WriteString(s)
	}
}

func (r *renderer) uint(n uint64) {
	r.sb.WriteString(strconv.FormatUint(n, 10))
}

func (r *renderer) value(v any) {
	switch x := v.(type) {
	case Ty:
		r.ty(x)
	case Lifetime:
		r.lifetime(x)
	case Const:
		r.constArg(x)
	case GenericArg:
		r.arg(x)
	case Substitution:
		r.write("[")
		r.args(x.AsSlice(r.in))
		r.write("]")
	case FnSubst:
		r.value(x.Substitution)
	case Goal:
		r.goal(x)
	case Goals:
		r.write("(")
		r.goals(x.AsSlice(r.in))
		r.write(")")
	case DomainGoal:
		r.domainGoal(x)
	case GoalData:
		r.goalData(x)
	case WhereClause:
		r.whereClause(x)
	case TraitRef:
		r.traitRef(x)
	case AliasTy:
		r.alias(x)
	case TyKind:
		r.tyKind(x)
	case ProgramClause:
		r.clause(x)
	case ProgramClauses:
		r.write("(")
		r.clauses(x.AsSlice(r.in))
		r.write(")")
	case ProgramClauseImplication:
		r.implication(x)
	case QuantifiedWhereClauses:
		r.quantifiedWhereClauses(x)
	case Environment:
		r.env(x)
	case Constraint:
		r.constraint(x)
	case Constraints:
		r.constraints(x)
	case VariableKinds:
		r.params(x.AsSlice(r.in))
	case CanonicalVarKinds:
		r.canonicalParams(x.AsSlice(r.in))
	case ConstrainedSubst:
		r.value(x.Subst)
		r.write(" with ")
		r.constraints(x.Constraints)
	case AnswerSubst:
		r.value(x.Subst)
		r.write(" with ")
		r.constraints(x.Constraints)
		r.write(" delayed ")
		r.value(x.DelayedGoals)
	case UniverseIndex:
		r.write(x.String())
	case renderable:
		x.render(r)
	default:
		panic(fmt.Sprintf("ir: cannot render %T", v))
	}
}

func (b Binders[T]) render(r *renderer) {
	r.write("for")
	r.params(b.Kinds.AsSlice(r.in))
	r.write(" ")
	r.value(b.Value)
}

func (e InEnvironment[G]) render(r *renderer) {
	r.env(e.Environment)
	r.write(" |- ")
	r.value(e.Goal)
}

func (c Canonical[T]) render(r *renderer) {
	r.write("canonical")
	r.canonicalParams(c.Binders.AsSlice(r.in))
	r.write(" { ")
	r.value(c.Value)
	r.write(" }")
}

func (u UCanonical[T]) render(r *renderer) {
	r.write("ucanonical<")
	r.uint(uint64(u.Universes))
	r.write("> { ")
	u.Canonical.render(r)
	r.write(" }")
}

func (w WithKind[T]) render(r *renderer) {
	r.param(w.Kind)
	r.write(" ")
	r.value(w.Value)
}

func (r *renderer) item(kind ItemKind, id uint32) {
	if r.names != nil {
		if name, ok := r.names.ItemName(kind, id); ok {
			r.write(name)
			return
		}
	}
	r.write("#")
	r.uint(uint64(id))
}

func (r *renderer) boundVar(bv BoundVar) {
	r.write("^")
	r.uint(uint64(bv.Debruijn))
	r.write(".")
	r.uint(uint64(bv.Index))
}

func (r *renderer) placeholder(p PlaceholderIndex) {
	r.write("!")
	r.uint(uint64(p.UI))
	r.write("_")
	r.uint(uint64(p.Idx))
}

func (r *renderer) inferenceVar(v InferenceVar) {
	r.write("?")
	r.uint(uint64(v))
}

func (r *renderer) ty(t Ty) {
	r.tyKind(t.Kind(r.in))
}

func (r *renderer) tyKind(kind TyKind) {
	switch k := kind.(type) {
	case TyAdt:
		r.item(ItemAdt, uint32(k.ID))
		r.generics(k.Substitution)
	case TyAssociatedType:
		r.write("assoc ")
		r.item(ItemAssocType, uint32(k.ID))
		r.generics(k.Substitution)
	case Scalar:
		r.write(k.String())
	case TyTuple:
		args := k.Substitution.AsSlice(r.in)
		r.write("(")
		r.args(args)
		if len(args) == 1 {
			r.write(",")
		}
		r.write(")")
	case TyArray:
		r.write("[")
		r.ty(k.Ty)
		r.write("; ")
		r.arrayLen(k.Len)
		r.write("]")
	case TySlice:
		r.write("[")
		r.ty(k.Ty)
		r.write("]")
	case TyRaw:
		if k.Mutability == Mut {
			r.write("*mut ")
		} else {
			r.write("*const ")
		}
		r.ty(k.Ty)
	case TyRef:
		r.write("&")
		r.lifetime(k.Lifetime)
		r.write(" ")
		if k.Mutability == Mut {
			r.write("mut ")
		}
		r.ty(k.Ty)
	case TyOpaqueType:
		r.write("opaque_ty ")
		r.item(ItemOpaqueTy, uint32(k.ID))
		r.generics(k.Substitution)
	case TyFnDef:
		r.write("fn_def ")
		r.item(ItemFnDef, uint32(k.ID))
		r.generics(k.Substitution)
	case TyStr:
		r.write("str")
	case TyNever:
		r.write("!")
	case TyError:
		r.write("{error}")
	case TyClosure:
		r.write("closure ")
		r.item(ItemClosure, uint32(k.ID))
		r.generics(k.Substitution)
	case TyGenerator:
		r.write("generator ")
		r.item(ItemGenerator, uint32(k.ID))
		r.generics(k.Substitution)
	case TyGeneratorWitness:
		r.write("generator_witness ")
		r.item(ItemGenerator, uint32(k.ID))
		r.generics(k.Substitution)
	case TyForeign:
		r.write("foreign ")
		r.item(ItemForeign, uint32(k.ID))
	case TyPlaceholder:
		r.placeholder(k.Index)
	case TyBoundVar:
		r.boundVar(k.Var)
	case TyInferenceVar:
		r.inferenceVar(k.Var)
		switch k.Kind {
		case TyVarInteger:
			r.write("i")
		case TyVarFloat:
			r.write("f")
		}
	case TyAlias:
		r.alias(k.Alias)
	case DynTy:
		r.write("dyn exists")
		r.params(k.Bounds.Kinds.AsSlice(r.in))
		r.write(" { ")
		r.quantifiedWhereClauses(k.Bounds.Value)
		r.write(" } + ")
		r.lifetime(k.Lifetime)
	case FnPointer:
		r.fnPointer(k)
	default:
		panic(fmt.Sprintf("ir: cannot render type %T", kind))
	}
}

func (r *renderer) fnPointer(f FnPointer) {
	if f.NumBinders > 0 {
		r.write("for<")
		for i := range f.NumBinders {
			if i > 0 {
				r.write(", ")
			}
			r.write("'_")
		}
		r.write("> ")
	}
	if f.Sig.Safety == Unsafe {
		r.write("unsafe ")
	}
	r.write("fn(")
	args := f.Substitution.AsSlice(r.in)
	if len(args) == 0 {
		r.write(")")
		return
	}
	r.args(args[:len(args)-1])
	if f.Sig.Variadic {
		if len(args) > 1 {
			r.write(", ")
		}
		r.write("...")
	}
	r.write(") -> ")
	r.arg(args[len(args)-1])
}

func (r *renderer) alias(a AliasTy) {
	switch x := a.(type) {
	case ProjectionTy:
		r.write("proj ")
		r.item(ItemAssocType, uint32(x.AssocTypeID))
		r.generics(x.Substitution)
	case OpaqueTy:
		r.write("opaque ")
		r.item(ItemOpaqueTy, uint32(x.OpaqueTyID))
		r.generics(x.Substitution)
	}
}

func (r *renderer) generics(s Substitution) {
	args := s.AsSlice(r.in)
	if len(args) == 0 {
		return
	}
	r.write("<")
	r.args(args)
	r.write(">")
}

func (r *renderer) args(args []GenericArg) {
	for i, a := range args {
		if i > 0 {
			r.write(", ")
		}
		r.arg(a)
	}
}

func (r *renderer) arg(a GenericArg) {
	switch d := a.Data(r.in).(type) {
	case Ty:
		r.ty(d)
	case Lifetime:
		r.lifetime(d)
	case Const:
		r.constArg(d)
	}
}

func (r *renderer) lifetime(l Lifetime) {
	r.write("'")
	switch d := l.Data(r.in).(type) {
	case LifetimeStatic:
		r.write("static")
	case LifetimeErased:
		r.write("erased")
	case LifetimeBoundVar:
		r.boundVar(d.Var)
	case LifetimeInferenceVar:
		r.inferenceVar(d.Var)
	case LifetimePlaceholder:
		r.placeholder(d.Index)
	}
}

func (r *renderer) constValue(v ConstValue) {
	switch x := v.(type) {
	case ConcreteConst:
		r.uint(x.Bits)
	case ConstBoundVar:
		r.boundVar(x.Var)
	case ConstInferenceVar:
		r.inferenceVar(x.Var)
	case ConstPlaceholder:
		r.placeholder(x.Index)
	}
}

func (r *renderer) constArg(c Const) {
	data := c.Data(r.in)
	r.write("const ")
	r.constValue(data.Value)
	r.write(": ")
	r.ty(data.Ty)
}

// arrayLen elides the type of usize lengths.
func (r *renderer) arrayLen(c Const) {
	data := c.Data(r.in)
	if s, ok := data.Ty.Kind(r.in).(Scalar); ok && s == ScalarUsize {
		r.constValue(data.Value)
		return
	}
	r.constArg(c)
}

func (r *renderer) param(k VariableKind) {
	switch k.Class {
	case ClassTy:
		switch k.TyKind {
		case TyVarInteger:
			r.write("int _")
		case TyVarFloat:
			r.write("float _")
		default:
			r.write("_")
		}
	case ClassLifetime:
		r.write("'_")
	case ClassConst:
		r.write("const _: ")
		r.ty(k.ConstTy)
	}
}

func (r *renderer) params(kinds []VariableKind) {
	r.write("<")
	for i, k := range kinds {
		if i > 0 {
			r.write(", ")
		}
		r.param(k)
	}
	r.write(">")
}

func (r *renderer) canonicalParams(kinds []CanonicalVarKind) {
	r.write("<")
	for i, k := range kinds {
		if i > 0 {
			r.write(", ")
		}
		switch k.Kind.Class {
		case ClassTy:
			switch k.Kind.TyKind {
			case TyVarInteger:
				r.write("int ")
			case TyVarFloat:
				r.write("float ")
			default:
				r.write("ty ")
			}
		case ClassLifetime:
			r.write("lifetime ")
		case ClassConst:
			r.write("const ")
			r.ty(k.Kind.ConstTy)
			r.write(" ")
		}
		r.write(k.Value.String())
	}
	r.write(">")
}

func (r *renderer) goal(g Goal) {
	r.goalData(g.Data(r.in))
}

func (r *renderer) goals(gs []Goal) {
	for i, g := range gs {
		if i > 0 {
			r.write(", ")
		}
		r.goal(g)
	}
}

func (r *renderer) goalData(data GoalData) {
	switch d := data.(type) {
	case GoalQuantified:
		r.write(d.Kind.String())
		r.params(d.Binders.Kinds.AsSlice(r.in))
		r.write(" { ")
		r.goal(d.Binders.Value)
		r.write(" }")
	case GoalImplies:
		r.write("if (")
		r.clauses(d.Clauses.AsSlice(r.in))
		r.write(") { ")
		r.goal(d.Goal)
		r.write(" }")
	case GoalAll:
		r.write("all(")
		r.goals(d.Goals.AsSlice(r.in))
		r.write(")")
	case GoalAny:
		r.write("any(")
		r.goals(d.Goals.AsSlice(r.in))
		r.write(")")
	case GoalNot:
		r.write("not { ")
		r.goal(d.Goal)
		r.write(" }")
	case EqGoal:
		r.write("Eq(")
		r.arg(d.A)
		r.write(", ")
		r.arg(d.B)
		r.write(")")
	case SubtypeGoal:
		r.write("Subtype(")
		r.ty(d.A)
		r.write(", ")
		r.ty(d.B)
		r.write(")")
	case GoalCannotProve:
		r.write("CannotProve")
	case DomainGoal:
		r.domainGoal(d)
	}
}

func (r *renderer) domainGoal(g DomainGoal) {
	wrapTy := func(name string, ty Ty) {
		r.write(name, "(")
		r.ty(ty)
		r.write(")")
	}
	wrapTrait := func(name string, t TraitRef) {
		r.write(name, "(")
		r.traitRef(t)
		r.write(")")
	}
	switch d := g.(type) {
	case DomainHolds:
		r.whereClause(d.Clause)
	case DomainWellFormedTrait:
		wrapTrait("WellFormed", d.TraitRef)
	case DomainWellFormedTy:
		wrapTy("WellFormed", d.Ty)
	case DomainFromEnvTrait:
		wrapTrait("FromEnv", d.TraitRef)
	case DomainFromEnvTy:
		wrapTy("FromEnv", d.Ty)
	case DomainNormalize:
		r.write("Normalize(")
		r.alias(d.Alias)
		r.write(" -> ")
		r.ty(d.Ty)
		r.write(")")
	case DomainIsLocal:
		wrapTy("IsLocal", d.Ty)
	case DomainIsUpstream:
		wrapTy("IsUpstream", d.Ty)
	case DomainIsFullyVisible:
		wrapTy("IsFullyVisible", d.Ty)
	case DomainLocalImplAllowed:
		wrapTrait("LocalImplAllowed", d.TraitRef)
	case DomainCompatible:
		r.write("Compatible")
	case DomainDownstreamType:
		wrapTy("DownstreamType", d.Ty)
	case DomainReveal:
		r.write("Reveal")
	case DomainObjectSafe:
		r.write("ObjectSafe(")
		r.item(ItemTrait, uint32(d.TraitID))
		r.write(")")
	}
}

func (r *renderer) whereClause(wc WhereClause) {
	switch w := wc.(type) {
	case Implemented:
		r.write("Implemented(")
		r.traitRef(w.TraitRef)
		r.write(")")
	case AliasEq:
		r.write("AliasEq(")
		r.alias(w.Alias)
		r.write(" = ")
		r.ty(w.Ty)
		r.write(")")
	case LifetimeOutlives:
		r.write("Outlives(")
		r.lifetime(w.A)
		r.write(": ")
		r.lifetime(w.B)
		r.write(")")
	case TypeOutlives:
		r.write("TypeOutlives(")
		r.ty(w.Ty)
		r.write(": ")
		r.lifetime(w.Lifetime)
		r.write(")")
	}
}

// traitRef writes SelfTy: Trait<rest>.
func (r *renderer) traitRef(t TraitRef) {
	args := t.Substitution.AsSlice(r.in)
	if len(args) > 0 {
		r.arg(args[0])
		args = args[1:]
	}
	r.write(": ")
	r.item(ItemTrait, uint32(t.TraitID))
	if len(args) > 0 {
		r.write("<")
		r.args(args)
		r.write(">")
	}
}

func (r *renderer) quantifiedWhereClauses(q QuantifiedWhereClauses) {
	for i, qwc := range q.AsSlice(r.in) {
		if i > 0 {
			r.write(", ")
		}
		kinds := qwc.Kinds.AsSlice(r.in)
		if len(kinds) == 0 {
			r.whereClause(qwc.Value)
			continue
		}
		r.write("forall")
		r.params(kinds)
		r.write(" { ")
		r.whereClause(qwc.Value)
		r.write(" }")
	}
}

func (r *renderer) clause(c ProgramClause) {
	implication := c.Implication(r.in)
	kinds := implication.Kinds.AsSlice(r.in)
	if len(kinds) == 0 {
		r.implication(implication.Value)
		return
	}
	r.write("forall")
	r.params(kinds)
	r.write(" { ")
	r.implication(implication.Value)
	r.write(" }")
}

func (r *renderer) clauses(cs []ProgramClause) {
	for i, c := range cs {
		if i > 0 {
			r.write("; ")
		}
		r.clause(c)
	}
}

func (r *renderer) implication(i ProgramClauseImplication) {
	r.domainGoal(i.Consequence)
	if conditions := i.Conditions.AsSlice(r.in); len(conditions) > 0 {
		r.write(" :- ")
		r.goals(conditions)
	}
	if i.Priority == PriorityLow {
		r.write(" [low]")
	}
	if i.Constraints.Len(r.in) > 0 {
		r.write(" [")
		r.constraints(i.Constraints)
		r.write("]")
	}
}

func (r *renderer) env(e Environment) {
	r.write("env<", e.Universe.String(), "> {")
	if cs := e.Clauses.AsSlice(r.in); len(cs) > 0 {
		r.write(" ")
		r.clauses(cs)
		r.write(" ")
	}
	r.write("}")
}

func (r *renderer) constraint(c Constraint) {
	switch x := c.(type) {
	case OutlivesConstraint:
		r.lifetime(x.A)
		r.write(": ")
		r.lifetime(x.B)
	case TypeOutlivesConstraint:
		r.ty(x.Ty)
		r.write(": ")
		r.lifetime(x.Lifetime)
	}
}

func (r *renderer) constraints(cs Constraints) {
	r.write("constraints(")
	for i, c := range cs.AsSlice(r.in) {
		if i > 0 {
			r.write(", ")
		}
		c.render(r)
	}
	r.write(")")
}
