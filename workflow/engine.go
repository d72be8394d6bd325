package workflow

import (
	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/logging"
	"github.com/hupe1980/computeruse/model"
)

// Predicate gates a conditional reaction. It must be side-effect free.
type Predicate func(ctx *core.Context, action map[string]any) bool

// Reaction runs when its paired predicate matched an action. A Reaction may
// interrupt the run by returning an error built with core.Abort; every other
// error is logged and swallowed so one bad handler cannot break the loop.
type Reaction func(ctx *core.Context, action map[string]any) error

type handler struct {
	predicate Predicate
	reaction  Reaction
}

// Options configures the workflow Engine.
type Options struct {
	Logger logging.Logger
}

// Engine holds the custom-tool registry and the per-action-type conditional
// handler lists. Registration happens before a run; an Engine is not safe
// for concurrent registration.
type Engine struct {
	tools    map[string]Tool
	order    []string
	handlers map[core.ActionType][]handler
	logger   logging.Logger
}

// New creates an empty workflow engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		tools:    make(map[string]Tool),
		handlers: make(map[core.ActionType][]handler),
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Register binds a tool under its name. Registering a second tool under an
// existing name silently replaces the first; the schema position in the
// toolset is kept stable.
func (e *Engine) Register(t Tool) {
	if _, exists := e.tools[t.Name()]; !exists {
		e.order = append(e.order, t.Name())
	}
	e.tools[t.Name()] = t
}

// Has reports whether a tool is registered under name.
func (e *Engine) Has(name string) bool {
	_, ok := e.tools[name]
	return ok
}

// Execute resolves name and invokes the bound tool with args. Resolution
// failure surfaces as a *ToolError with CodeNotFound, never a silent no-op.
func (e *Engine) Execute(ctx *core.Context, name string, args map[string]any) (any, error) {
	t, ok := e.tools[name]
	if !ok {
		return nil, &ToolError{Tool: name, Message: "tool \"" + name + "\" not found", Code: CodeNotFound}
	}
	return t.Call(ctx, args)
}

// Schemas returns the declarations of all registered tools in registration
// order, reflecting the registry state at call time.
func (e *Engine) Schemas() []model.ToolSchema {
	schemas := make([]model.ToolSchema, 0, len(e.order))
	for _, name := range e.order {
		t := e.tools[name]
		schemas = append(schemas, model.ToolSchema{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return schemas
}

// When appends a (predicate, reaction) pair to the handler list of an
// action type. Handlers are evaluated in registration order.
func (e *Engine) When(action core.ActionType, predicate Predicate, reaction Reaction) {
	e.handlers[action] = append(e.handlers[action], handler{predicate: predicate, reaction: reaction})
}

// Dispatch evaluates every handler registered for the action type against
// the (possibly hook-rewritten) action. Each matching reaction runs; a
// reaction failure is logged without aborting the remaining handlers. Only
// a deliberate core.Abort from a reaction propagates to the caller.
func (e *Engine) Dispatch(ctx *core.Context, action core.ActionType, input map[string]any) error {
	for _, h := range e.handlers[action] {
		if !h.predicate(ctx, input) {
			continue
		}
		if err := h.reaction(ctx, input); err != nil {
			if _, ok := core.AsAbort(err); ok {
				return err
			}
			e.logger.Error("workflow.handler.error", "action", string(action), "error", err.Error())
		}
	}
	return nil
}
