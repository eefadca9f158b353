package ir

// shifter moves every free bound variable under amount more binders.
type shifter struct {
	FolderBase
	amount DebruijnIndex
}

func (s shifter) FoldTy(ty Ty, outer DebruijnIndex) (Ty, error) {
	if !ty.Flags(s.In).Intersects(FlagHasBoundVars) {
		return ty, nil
	}
	return SuperFoldTy(s, ty, outer)
}

func (s shifter) FoldFreeVarTy(bv BoundVar, outer DebruijnIndex) (Ty, error) {
	return bv.ShiftedInFrom(s.amount).ShiftedInFrom(outer).ToTy(s.In), nil
}

func (s shifter) FoldFreeVarLifetime(bv BoundVar, outer DebruijnIndex) (Lifetime, error) {
	return bv.ShiftedInFrom(s.amount).ShiftedInFrom(outer).ToLifetime(s.In), nil
}

func (s shifter) FoldFreeVarConst(ty Ty, bv BoundVar, outer DebruijnIndex) (Const, error) {
	return bv.ShiftedInFrom(s.amount).ShiftedInFrom(outer).ToConst(s.In, ty), nil
}

// downShifter removes amount binder levels from every free bound variable.
type downShifter struct {
	FolderBase
	amount DebruijnIndex
}

func (d downShifter) FoldTy(ty Ty, outer DebruijnIndex) (Ty, error) {
	if !ty.Flags(d.In).Intersects(FlagHasBoundVars) {
		return ty, nil
	}
	return SuperFoldTy(d, ty, outer)
}

func (d downShifter) adjust(bv BoundVar, outer DebruijnIndex) (BoundVar, error) {
	shifted, ok := bv.ShiftedOutTo(d.amount)
	if !ok {
		return BoundVar{}, NewEscapingBoundVarError(bv)
	}
	return shifted.ShiftedInFrom(outer), nil
}

func (d downShifter) FoldFreeVarTy(bv BoundVar, outer DebruijnIndex) (Ty, error) {
	adjusted, err := d.adjust(bv, outer)
	if err != nil {
		return Ty{}, err
	}
	return adjusted.ToTy(d.In), nil
}

func (d downShifter) FoldFreeVarLifetime(bv BoundVar, outer DebruijnIndex) (Lifetime, error) {
	adjusted, err := d.adjust(bv, outer)
	if err != nil {
		return Lifetime{}, err
	}
	return adjusted.ToLifetime(d.In), nil
}

func (d downShifter) FoldFreeVarConst(ty Ty, bv BoundVar, outer DebruijnIndex) (Const, error) {
	adjusted, err := d.adjust(bv, outer)
	if err != nil {
		return Const{}, err
	}
	return adjusted.ToConst(d.In, ty), nil
}

// ShiftedIn moves v under one more binder: every free bound variable's
// depth grows by one. Variables bound inside v are untouched.
func ShiftedIn[T any](in Interner, v T) T {
	return ShiftedInFrom(in, v, One)
}

// ShiftedInFrom moves v under amount more binders.
func ShiftedInFrom[T any](in Interner, v T, amount DebruijnIndex) T {
	if amount == Innermost {
		return v
	}
	out, err := Fold[T](shifter{FolderBase: FolderBase{In: in}, amount: amount}, v, Innermost)
	if err != nil {
		panic("ir: shifting in cannot fail: " + err.Error())
	}
	return out
}

// ShiftedOut removes one binder level from v. It fails with an
// ESCAPING_BOUND_VAR error when v refers to the removed binder.
func ShiftedOut[T any](in Interner, v T) (T, error) {
	return ShiftedOutTo(in, v, One)
}

// ShiftedOutTo removes amount binder levels from v.
func ShiftedOutTo[T any](in Interner, v T, amount DebruijnIndex) (T, error) {
	if amount == Innermost {
		return v, nil
	}
	return Fold[T](downShifter{FolderBase: FolderBase{In: in}, amount: amount}, v, Innermost)
}
