package ir

import "fmt"

// substFolder replaces references to the innermost binder with args.
// Deeper references lose the removed binder level.
type substFolder struct {
	FolderBase
	args []GenericArg
}

func (s substFolder) FoldTy(ty Ty, outer DebruijnIndex) (Ty, error) {
	if !ty.Flags(s.In).Intersects(FlagHasBoundVars) {
		return ty, nil
	}
	return SuperFoldTy(s, ty, outer)
}

func (s substFolder) arg(i int) GenericArg {
	if i >= len(s.args) {
		panic(fmt.Sprintf("ir: bound variable slot %d out of range for %d arguments", i, len(s.args)))
	}
	return s.args[i]
}

func (s substFolder) FoldFreeVarTy(bv BoundVar, outer DebruijnIndex) (Ty, error) {
	if i, ok := bv.IndexIfInnermost(); ok {
		return ShiftedInFrom(s.In, s.arg(i).AssertTy(s.In), outer), nil
	}
	return s.outerVar(bv).ShiftedInFrom(outer).ToTy(s.In), nil
}

func (s substFolder) FoldFreeVarLifetime(bv BoundVar, outer DebruijnIndex) (Lifetime, error) {
	if i, ok := bv.IndexIfInnermost(); ok {
		return ShiftedInFrom(s.In, s.arg(i).AssertLifetime(s.In), outer), nil
	}
	return s.outerVar(bv).ShiftedInFrom(outer).ToLifetime(s.In), nil
}

func (s substFolder) FoldFreeVarConst(ty Ty, bv BoundVar, outer DebruijnIndex) (Const, error) {
	if i, ok := bv.IndexIfInnermost(); ok {
		return ShiftedInFrom(s.In, s.arg(i).AssertConst(s.In), outer), nil
	}
	return s.outerVar(bv).ShiftedInFrom(outer).ToConst(s.In, ty), nil
}

func (s substFolder) outerVar(bv BoundVar) BoundVar {
	shifted, _ := bv.ShiftedOut()
	return shifted
}

// Apply instantiates the innermost binder of value with subst: a
// reference ^0.i becomes subst[i], shifted in past any binders crossed
// inside value, and references to outer binders drop one level.
//
// value is the body of a Binders whose kinds subst matches; Binders.
// Substitute checks the arity before calling Apply. A reference to a slot
// past the end of subst, or an argument of the wrong class, panics.
func Apply[T any](in Interner, subst Substitution, value T) T {
	out, err := Fold[T](substFolder{FolderBase: FolderBase{In: in}, args: subst.AsSlice(in)}, value, Innermost)
	if err != nil {
		panic("ir: substitution cannot fail: " + err.Error())
	}
	return out
}
