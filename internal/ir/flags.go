package ir

// TypeFlags summarize what a type's subtree contains. They are
// conservative: a flag may be set for variables that are bound inside the
// type, never cleared for ones that occur.
type TypeFlags uint16

const (
	FlagHasTyInfer TypeFlags = 1 << iota
	FlagHasReInfer
	FlagHasCtInfer
	FlagHasTyPlaceholder
	FlagHasRePlaceholder
	FlagHasCtPlaceholder
	FlagHasBoundVars
	FlagHasError
	FlagHasProjection
	FlagHasOpaque
	FlagHasReStatic
)

const (
	FlagsHasInfer       = FlagHasTyInfer | FlagHasReInfer | FlagHasCtInfer
	FlagsHasPlaceholder = FlagHasTyPlaceholder | FlagHasRePlaceholder | FlagHasCtPlaceholder
)

// Intersects reports whether any flag in other is set.
func (f TypeFlags) Intersects(other TypeFlags) bool {
	return f&other != 0
}

func computeTyFlags(in Interner, kind TyKind) TypeFlags {
	switch k := kind.(type) {
	case TyAdt:
		return substitutionFlags(in, k.Substitution)
	case TyAssociatedType:
		return substitutionFlags(in, k.Substitution)
	case TyTuple:
		return substitutionFlags(in, k.Substitution)
	case TyOpaqueType:
		return substitutionFlags(in, k.Substitution)
	case TyFnDef:
		return substitutionFlags(in, k.Substitution)
	case TyClosure:
		return substitutionFlags(in, k.Substitution)
	case TyGenerator:
		return substitutionFlags(in, k.Substitution)
	case TyGeneratorWitness:
		return substitutionFlags(in, k.Substitution)
	case TyArray:
		return k.Ty.Flags(in) | constFlags(in, k.Len)
	case TySlice:
		return k.Ty.Flags(in)
	case TyRaw:
		return k.Ty.Flags(in)
	case TyRef:
		return lifetimeFlags(in, k.Lifetime) | k.Ty.Flags(in)
	case FnPointer:
		return substitutionFlags(in, k.Substitution)
	case DynTy:
		flags := lifetimeFlags(in, k.Lifetime)
		for _, qwc := range k.Bounds.Value.AsSlice(in) {
			flags |= whereClauseFlags(in, qwc.Value)
		}
		return flags
	case TyAlias:
		switch a := k.Alias.(type) {
		case ProjectionTy:
			return FlagHasProjection | substitutionFlags(in, a.Substitution)
		case OpaqueTy:
			return FlagHasOpaque | substitutionFlags(in, a.Substitution)
		}
	case TyPlaceholder:
		return FlagHasTyPlaceholder
	case TyBoundVar:
		return FlagHasBoundVars
	case TyInferenceVar:
		return FlagHasTyInfer
	case TyError:
		return FlagHasError
	}
	return 0
}

func lifetimeFlags(in Interner, lt Lifetime) TypeFlags {
	switch lt.Data(in).(type) {
	case LifetimeBoundVar:
		return FlagHasBoundVars
	case LifetimeInferenceVar:
		return FlagHasReInfer
	case LifetimePlaceholder:
		return FlagHasRePlaceholder
	case LifetimeStatic:
		return FlagHasReStatic
	}
	return 0
}

func constFlags(in Interner, c Const) TypeFlags {
	data := c.Data(in)
	flags := data.Ty.Flags(in)
	switch data.Value.(type) {
	case ConstBoundVar:
		flags |= FlagHasBoundVars
	case ConstInferenceVar:
		flags |= FlagHasCtInfer
	case ConstPlaceholder:
		flags |= FlagHasCtPlaceholder
	}
	return flags
}

func genericArgFlags(in Interner, arg GenericArg) TypeFlags {
	switch a := arg.Data(in).(type) {
	case Ty:
		return a.Flags(in)
	case Lifetime:
		return lifetimeFlags(in, a)
	case Const:
		return constFlags(in, a)
	}
	return 0
}

func substitutionFlags(in Interner, s Substitution) TypeFlags {
	var flags TypeFlags
	for _, arg := range s.AsSlice(in) {
		flags |= genericArgFlags(in, arg)
	}
	return flags
}

func whereClauseFlags(in Interner, wc WhereClause) TypeFlags {
	switch w := wc.(type) {
	case Implemented:
		return substitutionFlags(in, w.TraitRef.Substitution)
	case AliasEq:
		return computeTyFlags(in, TyAlias{Alias: w.Alias}) | w.Ty.Flags(in)
	case LifetimeOutlives:
		return lifetimeFlags(in, w.A) | lifetimeFlags(in, w.B)
	case TypeOutlives:
		return w.Ty.Flags(in) | lifetimeFlags(in, w.Lifetime)
	}
	return 0
}
