package ir

import (
	"errors"
	"fmt"
)

// Sentinel outcomes. Both are expected results, not bugs: NoSolution means
// a branch does not apply, Floundered means the answer is unknown. Callers
// must not treat Floundered as failure.
var (
	ErrNoSolution = errors.New("no solution")
	ErrFloundered = errors.New("floundered")
)

// SolveError carries the reason for a NoSolution or Floundered outcome.
//
// Mismatch and universe errors match ErrNoSolution under errors.Is;
// floundering errors match ErrFloundered.
type SolveError struct {
	// Code identifies the error category.
	Code SolveErrorCode

	// Term names the term kind being compared ("ty", "goal", ...).
	Term string

	// Message is a human-readable description.
	Message string
}

// SolveErrorCode categorizes solve errors.
type SolveErrorCode string

const (
	// ErrCodeMismatch indicates two terms differ in variant or arity.
	ErrCodeMismatch SolveErrorCode = "MISMATCH"

	// ErrCodeEscapingPlaceholder indicates a placeholder would become
	// visible in a universe that cannot see it.
	ErrCodeEscapingPlaceholder SolveErrorCode = "ESCAPING_PLACEHOLDER"

	// ErrCodeEscapingBoundVar indicates a shift out would expose a variable
	// bound by a removed binder.
	ErrCodeEscapingBoundVar SolveErrorCode = "ESCAPING_BOUND_VAR"

	// ErrCodeFloundered indicates the applicable clauses cannot be
	// enumerated.
	ErrCodeFloundered SolveErrorCode = "FLOUNDERED"
)

// Error implements the error interface.
func (e *SolveError) Error() string {
	if e.Term != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Term)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches the sentinel for the error's outcome.
func (e *SolveError) Is(target error) bool {
	if e.Code == ErrCodeFloundered {
		return target == ErrFloundered
	}
	return target == ErrNoSolution
}

// IsNoSolution reports whether err is a NoSolution outcome.
func IsNoSolution(err error) bool {
	return errors.Is(err, ErrNoSolution)
}

// IsFloundered reports whether err is a Floundered outcome.
func IsFloundered(err error) bool {
	return errors.Is(err, ErrFloundered)
}

// IsMismatch reports whether err came from a structural mismatch.
// Uses errors.As to handle wrapped errors.
func IsMismatch(err error) bool {
	var se *SolveError
	if errors.As(err, &se) {
		return se.Code == ErrCodeMismatch
	}
	return false
}

// IsEscapingPlaceholder reports whether err came from a universe check.
func IsEscapingPlaceholder(err error) bool {
	var se *SolveError
	if errors.As(err, &se) {
		return se.Code == ErrCodeEscapingPlaceholder
	}
	return false
}

// NewMismatchError reports a shape divergence while zipping term.
func NewMismatchError(term, format string, args ...any) error {
	return &SolveError{Code: ErrCodeMismatch, Term: term, Message: fmt.Sprintf(format, args...)}
}

// NewUniverseError reports a placeholder from universe placeholder that is
// not visible from universe visible.
func NewUniverseError(placeholder, visible UniverseIndex) error {
	return &SolveError{
		Code:    ErrCodeEscapingPlaceholder,
		Message: fmt.Sprintf("placeholder in %s is not visible from %s", placeholder, visible),
	}
}

// NewFlounderedError reports that a goal is too unconstrained to solve.
func NewFlounderedError(reason string) error {
	return &SolveError{Code: ErrCodeFloundered, Message: reason}
}

// NewEscapingBoundVarError reports a bound variable that would refer to a
// binder removed by a shift out.
func NewEscapingBoundVarError(bv BoundVar) error {
	return &SolveError{
		Code:    ErrCodeEscapingBoundVar,
		Message: fmt.Sprintf("bound variable ^%d.%d escapes its binder", bv.Debruijn, bv.Index),
	}
}
