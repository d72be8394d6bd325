package core

// Status is the terminal state a run ended in.
type Status string

const (
	// StatusDone means the decision-maker signalled completion.
	StatusDone Status = "done"
	// StatusBudgetExhausted means the iteration budget ran out first.
	StatusBudgetExhausted Status = "budget_exhausted"
	// StatusErrored means an unrecoverable error (remote call, transport)
	// terminated the run.
	StatusErrored Status = "errored"
	// StatusInterrupted means a hook or reaction deliberately aborted the run.
	StatusInterrupted Status = "interrupted"
)

// Terminal reports whether s is a terminal state.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusBudgetExhausted, StatusErrored, StatusInterrupted:
		return true
	}
	return false
}

// Step is one observable unit of progress in step-wise execution: either a
// single requested-operation outcome, or the final reasoning-only step
// emitted when the decision-maker completes.
type Step struct {
	Iteration int           `json:"iteration"`
	Action    ActionType    `json:"action,omitempty"`
	Reasoning string        `json:"reasoning,omitempty"`
	Result    *ActionResult `json:"result,omitempty"`
}

// RunResult summarizes a terminated run. State and History remain accessible
// on every terminal status, including errored and interrupted runs.
type RunResult struct {
	Status     Status         `json:"status"`
	Completed  bool           `json:"completed"`
	Iterations int            `json:"iterations"`
	State      map[string]any `json:"state,omitempty"`
	History    []ActionResult `json:"history,omitempty"`
	Err        error          `json:"-"`
}
