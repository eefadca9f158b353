package ir

// ConstData is the payload behind a Const handle.
type ConstData struct {
	Ty    Ty
	Value ConstValue
}

// ConstValue is the closed set of constant variants.
type ConstValue interface {
	isConstValue()
}

// ConstBoundVar is a de Bruijn reference.
type ConstBoundVar struct{ Var BoundVar }

// ConstInferenceVar is an inference variable.
type ConstInferenceVar struct{ Var InferenceVar }

// ConstPlaceholder is a rigid constant scoped to a universe.
type ConstPlaceholder struct{ Index PlaceholderIndex }

// ConcreteConst is a known value, stored as its bit pattern.
type ConcreteConst struct{ Bits uint64 }

func (ConstBoundVar) isConstValue()     {}
func (ConstInferenceVar) isConstValue() {}
func (ConstPlaceholder) isConstValue()  {}
func (ConcreteConst) isConstValue()     {}

// NewConst interns a constant of type ty.
func NewConst(in Interner, ty Ty, value ConstValue) Const {
	return in.InternConst(ConstData{Ty: ty, Value: value})
}

// Data resolves the handle.
func (c Const) Data(in Interner) ConstData { return in.ConstData(c) }

// BoundVar returns the bound variable when the constant is one.
func (c Const) BoundVar(in Interner) (BoundVar, bool) {
	if v, ok := c.Data(in).Value.(ConstBoundVar); ok {
		return v.Var, true
	}
	return BoundVar{}, false
}

// InferenceVar returns the inference variable when the constant is one.
func (c Const) InferenceVar(in Interner) (InferenceVar, bool) {
	if v, ok := c.Data(in).Value.(ConstInferenceVar); ok {
		return v.Var, true
	}
	return 0, false
}
