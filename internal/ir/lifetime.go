package ir

// LifetimeData is the closed set of lifetime variants.
type LifetimeData interface {
	isLifetimeData()
}

// LifetimeBoundVar is a de Bruijn reference.
type LifetimeBoundVar struct{ Var BoundVar }

// LifetimeInferenceVar is an inference variable.
type LifetimeInferenceVar struct{ Var InferenceVar }

// LifetimePlaceholder is a rigid lifetime scoped to a universe.
type LifetimePlaceholder struct{ Index PlaceholderIndex }

// LifetimeStatic is 'static.
type LifetimeStatic struct{}

// LifetimeErased is a lifetime that is no longer tracked.
type LifetimeErased struct{}

func (LifetimeBoundVar) isLifetimeData()     {}
func (LifetimeInferenceVar) isLifetimeData() {}
func (LifetimePlaceholder) isLifetimeData()  {}
func (LifetimeStatic) isLifetimeData()       {}
func (LifetimeErased) isLifetimeData()       {}

// NewLifetime interns a lifetime.
func NewLifetime(in Interner, data LifetimeData) Lifetime {
	return in.InternLifetime(data)
}

// StaticLifetime returns 'static.
func StaticLifetime(in Interner) Lifetime {
	return in.InternLifetime(LifetimeStatic{})
}

// Data resolves the handle.
func (l Lifetime) Data(in Interner) LifetimeData { return in.LifetimeData(l) }

// BoundVar returns the bound variable when the lifetime is one.
func (l Lifetime) BoundVar(in Interner) (BoundVar, bool) {
	if d, ok := l.Data(in).(LifetimeBoundVar); ok {
		return d.Var, true
	}
	return BoundVar{}, false
}

// InferenceVar returns the inference variable when the lifetime is one.
func (l Lifetime) InferenceVar(in Interner) (InferenceVar, bool) {
	if d, ok := l.Data(in).(LifetimeInferenceVar); ok {
		return d.Var, true
	}
	return 0, false
}
