package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s(%s)", event.Seq, event.Step, event.Op, event.Input)
		if event.Error != "" {
			fmt.Fprintf(&buf, " error %s\n", event.Error)
		} else {
			fmt.Fprintf(&buf, " = %s\n", event.Output)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against the result's trace and
// returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertSameKey:
		return assertSameKey(result, a)
	case AssertDistinctKeys:
		return assertDistinctKeys(result, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertTraceContains checks that some successful step of the operation
// produced the expected output. An empty Output matches any output.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Op != assertion.Op || event.Error != "" {
			continue
		}
		if assertion.Output == "" || event.Output == assertion.Output {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with output %q", assertion.Op, assertion.Output),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that operations first appear in the specified
// order. Operations don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Ops); i++ {
		prev := assertion.Ops[i-1]
		curr := assertion.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the operation ran exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// stepKeys returns the cache key of each named step, failing if a step
// is missing or produced no key.
func stepKeys(result *Result, a Assertion) ([]string, error) {
	keys := make([]string, len(a.Steps))
	for i, id := range a.Steps {
		event, ok := result.eventFor(id)
		if !ok {
			return nil, &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("step %s in trace", id),
				Actual:   "not found",
				Trace:    result.Trace,
			}
		}
		if event.Key == "" {
			return nil, &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("step %s to produce a cache key", id),
				Actual:   fmt.Sprintf("%s produced none", event.Op),
				Trace:    result.Trace,
			}
		}
		keys[i] = event.Key
	}
	return keys, nil
}

// assertSameKey checks that the steps produced one cache key: their
// queries are the same modulo variable and universe numbering.
func assertSameKey(result *Result, a Assertion) error {
	keys, err := stepKeys(result, a)
	if err != nil {
		return err
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[0] {
			return &AssertionError{
				Type:     AssertSameKey,
				Expected: fmt.Sprintf("steps %v to share a key", a.Steps),
				Actual:   fmt.Sprintf("%s has %s, %s has %s", a.Steps[0], keys[0], a.Steps[i], keys[i]),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertDistinctKeys checks that no two of the steps share a cache key.
func assertDistinctKeys(result *Result, a Assertion) error {
	keys, err := stepKeys(result, a)
	if err != nil {
		return err
	}
	seen := make(map[string]string, len(keys))
	for i, key := range keys {
		if prev, dup := seen[key]; dup {
			return &AssertionError{
				Type:     AssertDistinctKeys,
				Expected: fmt.Sprintf("steps %v to have distinct keys", a.Steps),
				Actual:   fmt.Sprintf("%s and %s share %s", prev, a.Steps[i], key),
				Trace:    result.Trace,
			}
		}
		seen[key] = a.Steps[i]
	}
	return nil
}
