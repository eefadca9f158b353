package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Step   string `json:"step"`
	Op     string `json:"op"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Subst  string `json:"subst,omitempty"`
	Back   string `json:"back,omitempty"` // ucanonicalize: the result mapped back to the original universes
	Key    string `json:"key,omitempty"` // cache key, when the op produced a u-canonical query
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"` // error message; not part of golden traces
}

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies this execution in logs. It is a fresh UUIDv7 and
	// is excluded from golden traces.
	RunID string `json:"run_id"`

	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Path is the scenario file the result came from. RunSuite sets it;
	// it is excluded from golden traces.
	Path string `json:"path,omitempty"`

	// Pass indicates overall success: every expectation and assertion
	// held and all interners agreed.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order. It is the trace of
	// the first interner run.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID, scenario string) *Result {
	return &Result{
		RunID:    runID,
		Scenario: scenario,
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// eventFor returns the trace event of the step with the given id.
func (r *Result) eventFor(step string) (TraceEvent, bool) {
	for _, e := range r.Trace {
		if e.Step == step {
			return e, true
		}
	}
	return TraceEvent{}, false
}
