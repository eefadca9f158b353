package ir

// Environment is the set of hypotheses a goal is proven under, together
// with the largest universe visible at that point. Environments are
// persistent: extending one never changes it.
type Environment struct {
	Clauses  ProgramClauses
	Universe UniverseIndex
}

// NewEnvironment returns an empty environment in the root universe.
func NewEnvironment(in Interner) Environment {
	return Environment{Clauses: NewProgramClauses(in), Universe: RootUniverse}
}

// AddClauses returns a new environment with clauses appended.
func (e Environment) AddClauses(in Interner, clauses ...ProgramClause) Environment {
	existing := e.Clauses.AsSlice(in)
	merged := make([]ProgramClause, 0, len(existing)+len(clauses))
	merged = append(merged, existing...)
	merged = append(merged, clauses...)
	return Environment{Clauses: NewProgramClauses(in, merged...), Universe: e.Universe}
}

// WithUniverse returns a copy of the environment whose visible universe is
// u.
func (e Environment) WithUniverse(u UniverseIndex) Environment {
	e.Universe = u
	return e
}

// HasCompatibleClause reports whether the compatible modality is active.
func (e Environment) HasCompatibleClause(in Interner) bool {
	for _, c := range e.Clauses.AsSlice(in) {
		impl := c.Implication(in).Value
		if _, ok := impl.Consequence.(DomainCompatible); ok && impl.IsFact(in) {
			return true
		}
	}
	return false
}

// InEnvironment pairs a goal with the environment it is proven in.
type InEnvironment[G any] struct {
	Environment Environment
	Goal        G
}

// NewInEnvironment pairs env and goal.
func NewInEnvironment[G any](env Environment, goal G) InEnvironment[G] {
	return InEnvironment[G]{Environment: env, Goal: goal}
}
