package core

// Context carries the mutable per-run state shared by the agent loop with
// hooks, conditional reactions and custom tools. A run is single-threaded
// and cooperative, so the context is deliberately unsynchronized: everything
// that touches it runs on the loop's goroutine, in order.
//
// The loop resets the context at the start of every run; extension code must
// not retain it across runs.
type Context struct {
	// RunID identifies the run this context belongs to. Hooks and tools can
	// use it to key run-scoped storage.
	RunID string
	// State is an open key/value bag scoped to one run. Hooks and tools
	// read and write it by reference.
	State map[string]any
	// Iteration is the zero-based loop pass currently executing. It
	// strictly increases by one per pass and never resets mid-run.
	Iteration int
	// History is the append-only sequence of dispatch outcomes.
	History []ActionResult
	// LastScreenshot holds the most recent capture, if any.
	LastScreenshot *Screenshot
}

// NewContext creates an empty run context.
func NewContext() *Context {
	return &Context{State: map[string]any{}}
}

// GetState returns the value stored under key and whether it was present.
func (c *Context) GetState(key string) (any, bool) {
	v, ok := c.State[key]
	return v, ok
}

// SetState stores value under key, replacing any previous value.
func (c *Context) SetState(key string, value any) {
	c.State[key] = value
}

// Record appends a dispatch outcome to the run history.
func (c *Context) Record(result ActionResult) {
	c.History = append(c.History, result)
}
