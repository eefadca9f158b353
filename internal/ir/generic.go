package ir

import "fmt"

// GenericArgData is a type, lifetime or constant handle.
type GenericArgData interface {
	isGenericArgData()
}

func (Ty) isGenericArgData()       {}
func (Lifetime) isGenericArgData() {}
func (Const) isGenericArgData()    {}

// NewGenericArg interns a generic argument.
func NewGenericArg(in Interner, data GenericArgData) GenericArg {
	return in.InternGenericArg(data)
}

// Data resolves the handle.
func (a GenericArg) Data(in Interner) GenericArgData { return in.GenericArgData(a) }

// Ty returns the argument's type when it is one.
func (a GenericArg) Ty(in Interner) (Ty, bool) {
	ty, ok := a.Data(in).(Ty)
	return ty, ok
}

// Lifetime returns the argument's lifetime when it is one.
func (a GenericArg) Lifetime(in Interner) (Lifetime, bool) {
	lt, ok := a.Data(in).(Lifetime)
	return lt, ok
}

// Const returns the argument's constant when it is one.
func (a GenericArg) Const(in Interner) (Const, bool) {
	c, ok := a.Data(in).(Const)
	return c, ok
}

// AssertTy returns the argument's type and panics when it is not one.
func (a GenericArg) AssertTy(in Interner) Ty {
	ty, ok := a.Ty(in)
	if !ok {
		panic(fmt.Sprintf("ir: expected type argument, found %T", a.Data(in)))
	}
	return ty
}

// AssertLifetime returns the argument's lifetime and panics when it is not
// one.
func (a GenericArg) AssertLifetime(in Interner) Lifetime {
	lt, ok := a.Lifetime(in)
	if !ok {
		panic(fmt.Sprintf("ir: expected lifetime argument, found %T", a.Data(in)))
	}
	return lt
}

// AssertConst returns the argument's constant and panics when it is not
// one.
func (a GenericArg) AssertConst(in Interner) Const {
	c, ok := a.Const(in)
	if !ok {
		panic(fmt.Sprintf("ir: expected const argument, found %T", a.Data(in)))
	}
	return c
}

// Class reports whether the argument is a type, lifetime or constant.
func (a GenericArg) Class(in Interner) VariableClass {
	switch a.Data(in).(type) {
	case Lifetime:
		return ClassLifetime
	case Const:
		return ClassConst
	default:
		return ClassTy
	}
}

// NewSubstitution interns an argument list.
func NewSubstitution(in Interner, args ...GenericArg) Substitution {
	return in.InternSubstitution(args)
}

// EmptySubstitution interns the empty argument list.
func EmptySubstitution(in Interner) Substitution {
	return in.InternSubstitution(nil)
}

// SubstitutionFromTys interns a list of type arguments.
func SubstitutionFromTys(in Interner, tys ...Ty) Substitution {
	args := make([]GenericArg, len(tys))
	for i, ty := range tys {
		args[i] = NewGenericArg(in, ty)
	}
	return in.InternSubstitution(args)
}

// AsSlice returns the arguments. The slice must not be modified.
func (s Substitution) AsSlice(in Interner) []GenericArg { return in.SubstitutionData(s) }

// Len returns the number of arguments.
func (s Substitution) Len(in Interner) int { return len(in.SubstitutionData(s)) }

// IsEmpty reports whether there are no arguments.
func (s Substitution) IsEmpty(in Interner) bool { return s.Len(in) == 0 }

// At returns argument i.
func (s Substitution) At(in Interner, i int) GenericArg {
	return in.SubstitutionData(s)[i]
}

// TypeParameters returns the type arguments, skipping lifetimes and
// constants.
func (s Substitution) TypeParameters(in Interner) []Ty {
	var tys []Ty
	for _, arg := range s.AsSlice(in) {
		if ty, ok := arg.Ty(in); ok {
			tys = append(tys, ty)
		}
	}
	return tys
}

// IsIdentity reports whether argument i is the innermost bound variable
// with slot i, for every i.
func (s Substitution) IsIdentity(in Interner) bool {
	for i, arg := range s.AsSlice(in) {
		var bv BoundVar
		var ok bool
		switch d := arg.Data(in).(type) {
		case Ty:
			bv, ok = d.BoundVar(in)
		case Lifetime:
			bv, ok = d.BoundVar(in)
		case Const:
			bv, ok = d.BoundVar(in)
		}
		if !ok || bv != NewBoundVar(Innermost, i) {
			return false
		}
	}
	return true
}
