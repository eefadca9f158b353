package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/traitir/internal/digest"
)

// TraceSnapshot captures the golden part of a scenario execution: the
// run id and error details are left out so snapshots are reproducible.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for
// canonical JSON serialization.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":   event.Seq,
			"step":  event.Step,
			"op":    event.Op,
			"input": event.Input,
		}
		optional := map[string]string{
			"output": event.Output,
			"subst":  event.Subst,
			"back":   event.Back,
			"key":    event.Key,
			"error":  event.Error,
		}
		for k, v := range optional {
			if v != "" {
				eventMap[k] = v
			}
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

// MarshalTrace returns the canonical JSON of a result's golden trace.
func MarshalTrace(result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: result.Scenario, Trace: result.Trace}
	return digest.MarshalCanonical(snapshot.toCanonicalMap())
}

// Fingerprint hashes a result's golden trace. Two runs of a scenario
// have the same fingerprint exactly when their golden traces match.
func Fingerprint(result *Result) (string, error) {
	snapshot := TraceSnapshot{ScenarioName: result.Scenario, Trace: result.Trace}
	return digest.Hash(digest.DomainTrace, snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, traceJSON)
	return nil
}
