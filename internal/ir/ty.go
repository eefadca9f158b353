package ir

// TyData is the payload behind a Ty handle. Flags summarize the subtree and
// are computed by NewTy.
type TyData struct {
	Kind  TyKind
	Flags TypeFlags
}

// TyKind is the closed set of type variants.
type TyKind interface {
	isTyKind()
}

// NewTy interns kind, computing its flags.
func NewTy(in Interner, kind TyKind) Ty {
	return in.InternTy(TyData{Kind: kind, Flags: computeTyFlags(in, kind)})
}

// Data resolves the handle.
func (t Ty) Data(in Interner) TyData { return in.TyData(t) }

// Kind returns the type's variant.
func (t Ty) Kind(in Interner) TyKind { return in.TyData(t).Kind }

// Flags returns the type's summary flags.
func (t Ty) Flags(in Interner) TypeFlags { return in.TyData(t).Flags }

// BoundVar returns the bound variable when the type is one.
func (t Ty) BoundVar(in Interner) (BoundVar, bool) {
	if k, ok := t.Kind(in).(TyBoundVar); ok {
		return k.Var, true
	}
	return BoundVar{}, false
}

// InferenceVar returns the inference variable when the type is one.
func (t Ty) InferenceVar(in Interner) (InferenceVar, bool) {
	if k, ok := t.Kind(in).(TyInferenceVar); ok {
		return k.Var, true
	}
	return 0, false
}

// IsGeneral reports whether the type is a general (not integer or float)
// inference variable.
func (t Ty) IsGeneral(in Interner) bool {
	k, ok := t.Kind(in).(TyInferenceVar)
	return ok && k.Kind == TyVarGeneral
}

// Scalar is a primitive numeric, boolean or character type.
type Scalar uint8

const (
	ScalarBool Scalar = iota
	ScalarChar
	ScalarI8
	ScalarI16
	ScalarI32
	ScalarI64
	ScalarI128
	ScalarIsize
	ScalarU8
	ScalarU16
	ScalarU32
	ScalarU64
	ScalarU128
	ScalarUsize
	ScalarF32
	ScalarF64
)

var scalarNames = [...]string{
	ScalarBool:  "bool",
	ScalarChar:  "char",
	ScalarI8:    "i8",
	ScalarI16:   "i16",
	ScalarI32:   "i32",
	ScalarI64:   "i64",
	ScalarI128:  "i128",
	ScalarIsize: "isize",
	ScalarU8:    "u8",
	ScalarU16:   "u16",
	ScalarU32:   "u32",
	ScalarU64:   "u64",
	ScalarU128:  "u128",
	ScalarUsize: "usize",
	ScalarF32:   "f32",
	ScalarF64:   "f64",
}

// String returns the scalar's source name.
func (s Scalar) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return "scalar?"
}

// ScalarByName looks up a scalar by its source name.
func ScalarByName(name string) (Scalar, bool) {
	for i, n := range scalarNames {
		if n == name {
			return Scalar(i), true
		}
	}
	return 0, false
}

// IsInteger reports whether s is a signed or unsigned integer.
func (s Scalar) IsInteger() bool { return s >= ScalarI8 && s <= ScalarUsize }

// IsFloat reports whether s is a float.
func (s Scalar) IsFloat() bool { return s == ScalarF32 || s == ScalarF64 }

// Mutability of references and raw pointers.
type Mutability uint8

const (
	Not Mutability = iota
	Mut
)

// Safety of function pointers.
type Safety uint8

const (
	Safe Safety = iota
	Unsafe
)

// TyAdt is a struct, enum or union applied to generic arguments.
type TyAdt struct {
	ID           AdtID
	Substitution Substitution
}

// TyAssociatedType is a rigid (unnormalizable) associated type.
type TyAssociatedType struct {
	ID           AssocTypeID
	Substitution Substitution
}

// TyTuple is a tuple; Substitution holds Arity element types.
type TyTuple struct {
	Arity        int
	Substitution Substitution
}

// TyArray is [Ty; Len].
type TyArray struct {
	Ty  Ty
	Len Const
}

// TySlice is [Ty].
type TySlice struct {
	Ty Ty
}

// TyRaw is a raw pointer.
type TyRaw struct {
	Mutability Mutability
	Ty         Ty
}

// TyRef is a reference.
type TyRef struct {
	Mutability Mutability
	Lifetime   Lifetime
	Ty         Ty
}

// TyOpaqueType is a rigid opaque type.
type TyOpaqueType struct {
	ID           OpaqueTyID
	Substitution Substitution
}

// TyFnDef is the zero-sized type of a function item.
type TyFnDef struct {
	ID           FnDefID
	Substitution Substitution
}

// TyClosure is a closure type.
type TyClosure struct {
	ID           ClosureID
	Substitution Substitution
}

// TyGenerator is a generator type.
type TyGenerator struct {
	ID           GeneratorID
	Substitution Substitution
}

// TyGeneratorWitness is the type of values a generator holds across
// suspension points.
type TyGeneratorWitness struct {
	ID           GeneratorID
	Substitution Substitution
}

// TyForeign is an extern type.
type TyForeign struct {
	ID ForeignDefID
}

// TyStr is the string slice type.
type TyStr struct{}

// TyNever is the never type.
type TyNever struct{}

// TyError stands in for a type that failed to lower.
type TyError struct{}

// TyPlaceholder is a rigid unknown scoped to a universe.
type TyPlaceholder struct {
	Index PlaceholderIndex
}

// TyBoundVar is a de Bruijn reference.
type TyBoundVar struct {
	Var BoundVar
}

// TyInferenceVar is an inference variable.
type TyInferenceVar struct {
	Var  InferenceVar
	Kind TyVariableKind
}

// TyAlias is a type that may normalize: a projection or an opaque type.
type TyAlias struct {
	Alias AliasTy
}

// FnSig carries the parts of a function pointer's signature that are not
// types.
type FnSig struct {
	Safety   Safety
	Variadic bool
}

// FnPointer is a function pointer type. Substitution holds the argument
// types followed by the return type, all under one binder level declaring
// NumBinders lifetimes.
type FnPointer struct {
	NumBinders   int
	Sig          FnSig
	Substitution Substitution
}

// DynTy is a trait object: Bounds quantify over the erased self type
// (slot 0 of the outer binder), Lifetime bounds the object.
type DynTy struct {
	Bounds   Binders[QuantifiedWhereClauses]
	Lifetime Lifetime
}

// IntoBinders exposes the function pointer's binder as lifetime slots over
// its argument and return types.
func (f FnPointer) IntoBinders(in Interner) Binders[FnSubst] {
	kinds := make([]VariableKind, f.NumBinders)
	for i := range kinds {
		kinds[i] = LifetimeVariable()
	}
	return NewBinders(NewVariableKinds(in, kinds...), FnSubst{Substitution: f.Substitution})
}

// FnSubst is a function pointer's argument and return types. When zipped,
// arguments are contravariant and the return type covariant.
type FnSubst struct {
	Substitution Substitution
}

// AliasTy is the closed set of normalizable types.
type AliasTy interface {
	isAliasTy()
	// ToTy wraps the alias as a type.
	ToTy(in Interner) Ty
}

// ProjectionTy is an associated type applied to the trait's and the
// associated type's own generic arguments.
type ProjectionTy struct {
	AssocTypeID  AssocTypeID
	Substitution Substitution
}

// OpaqueTy is an opaque type alias applied to generic arguments.
type OpaqueTy struct {
	OpaqueTyID   OpaqueTyID
	Substitution Substitution
}

func (ProjectionTy) isAliasTy() {}
func (OpaqueTy) isAliasTy()     {}

// ToTy wraps the projection as an alias type.
func (p ProjectionTy) ToTy(in Interner) Ty { return NewTy(in, TyAlias{Alias: p}) }

// ToTy wraps the opaque type as an alias type.
func (o OpaqueTy) ToTy(in Interner) Ty { return NewTy(in, TyAlias{Alias: o}) }

// ToGenericArg wraps the alias type as a generic argument.
func (p ProjectionTy) ToGenericArg(in Interner) GenericArg {
	return NewGenericArg(in, p.ToTy(in))
}

// SelfTy returns the trait's self type, the first argument.
func (p ProjectionTy) SelfTy(in Interner) Ty {
	return p.Substitution.At(in, 0).AssertTy(in)
}

func (TyAdt) isTyKind()              {}
func (TyAssociatedType) isTyKind()   {}
func (Scalar) isTyKind()             {}
func (TyTuple) isTyKind()            {}
func (TyArray) isTyKind()            {}
func (TySlice) isTyKind()            {}
func (TyRaw) isTyKind()              {}
func (TyRef) isTyKind()              {}
func (TyOpaqueType) isTyKind()       {}
func (TyFnDef) isTyKind()            {}
func (TyStr) isTyKind()              {}
func (TyNever) isTyKind()            {}
func (TyClosure) isTyKind()          {}
func (TyGenerator) isTyKind()        {}
func (TyGeneratorWitness) isTyKind() {}
func (TyForeign) isTyKind()          {}
func (TyError) isTyKind()            {}
func (TyPlaceholder) isTyKind()      {}
func (DynTy) isTyKind()              {}
func (FnPointer) isTyKind()          {}
func (TyBoundVar) isTyKind()         {}
func (TyInferenceVar) isTyKind()     {}
func (TyAlias) isTyKind()            {}
