package hook

import (
	"github.com/hupe1980/computeruse/core"
)

// Wildcard is the tool-call hook key matching every tool name.
const Wildcard = "*"

// BeforeScreenshotFunc runs before a capture is taken.
type BeforeScreenshotFunc func(ctx *core.Context) error

// AfterScreenshotFunc observes a completed capture.
type AfterScreenshotFunc func(ctx *core.Context, shot core.Screenshot) error

// BeforeActionFunc runs before a built-in action executes. Returning a
// non-nil map replaces the pending action arguments for all downstream
// consumers within that step.
type BeforeActionFunc func(ctx *core.Context, action map[string]any) (map[string]any, error)

// AfterActionFunc observes a completed built-in action and its outcome.
type AfterActionFunc func(ctx *core.Context, action map[string]any, result core.ActionResult) error

// ToolCallFunc runs when the decision-maker requests a tool. Returning a
// non-nil map replaces the argument set, exactly like BeforeActionFunc.
type ToolCallFunc func(ctx *core.Context, name string, args map[string]any) (map[string]any, error)

// IterationFunc runs at an iteration boundary.
type IterationFunc func(ctx *core.Context, iteration int) error

// Registry holds the ordered hook lists for every interception category.
// Registration happens before a run begins; the zero-value-per-category
// Registry triggers nothing. Not safe for concurrent registration.
type Registry struct {
	beforeScreenshot []BeforeScreenshotFunc
	afterScreenshot  []AfterScreenshotFunc
	beforeAction     []BeforeActionFunc
	afterAction      []AfterActionFunc
	onToolCall       map[string][]ToolCallFunc
	iterationStart   []IterationFunc
	iterationEnd     []IterationFunc
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{onToolCall: make(map[string][]ToolCallFunc)}
}

// OnBeforeScreenshot appends a before-screenshot hook.
func (r *Registry) OnBeforeScreenshot(fn BeforeScreenshotFunc) {
	r.beforeScreenshot = append(r.beforeScreenshot, fn)
}

// OnAfterScreenshot appends an after-screenshot hook.
func (r *Registry) OnAfterScreenshot(fn AfterScreenshotFunc) {
	r.afterScreenshot = append(r.afterScreenshot, fn)
}

// OnBeforeAction appends a before-action hook.
func (r *Registry) OnBeforeAction(fn BeforeActionFunc) {
	r.beforeAction = append(r.beforeAction, fn)
}

// OnAfterAction appends an after-action hook.
func (r *Registry) OnAfterAction(fn AfterActionFunc) {
	r.afterAction = append(r.afterAction, fn)
}

// OnToolCall appends a tool-call hook keyed to name. An empty name registers
// under the wildcard key, matching every tool.
func (r *Registry) OnToolCall(name string, fn ToolCallFunc) {
	if name == "" {
		name = Wildcard
	}
	r.onToolCall[name] = append(r.onToolCall[name], fn)
}

// OnIterationStart appends an iteration-start hook.
func (r *Registry) OnIterationStart(fn IterationFunc) {
	r.iterationStart = append(r.iterationStart, fn)
}

// OnIterationEnd appends an iteration-end hook.
func (r *Registry) OnIterationEnd(fn IterationFunc) {
	r.iterationEnd = append(r.iterationEnd, fn)
}

// TriggerBeforeScreenshot fires all before-screenshot hooks in order.
func (r *Registry) TriggerBeforeScreenshot(ctx *core.Context) error {
	for _, fn := range r.beforeScreenshot {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterScreenshot fires all after-screenshot hooks in order.
func (r *Registry) TriggerAfterScreenshot(ctx *core.Context, shot core.Screenshot) error {
	for _, fn := range r.afterScreenshot {
		if err := fn(ctx, shot); err != nil {
			return err
		}
	}
	return nil
}

// TriggerBeforeAction chains all before-action hooks. The returned map is
// the last non-nil replacement produced by the chain, or the original action
// when every hook returned nil.
func (r *Registry) TriggerBeforeAction(ctx *core.Context, action map[string]any) (map[string]any, error) {
	for _, fn := range r.beforeAction {
		replacement, err := fn(ctx, action)
		if err != nil {
			return nil, err
		}
		if replacement != nil {
			action = replacement
		}
	}
	return action, nil
}

// TriggerAfterAction fires all after-action hooks in order.
func (r *Registry) TriggerAfterAction(ctx *core.Context, action map[string]any, result core.ActionResult) error {
	for _, fn := range r.afterAction {
		if err := fn(ctx, action, result); err != nil {
			return err
		}
	}
	return nil
}

// TriggerToolCall chains tool-call hooks for name: exact-name hooks first,
// wildcard hooks second, each able to rewrite the argument set.
func (r *Registry) TriggerToolCall(ctx *core.Context, name string, args map[string]any) (map[string]any, error) {
	for _, key := range []string{name, Wildcard} {
		if key == Wildcard && name == Wildcard {
			break
		}
		for _, fn := range r.onToolCall[key] {
			replacement, err := fn(ctx, name, args)
			if err != nil {
				return nil, err
			}
			if replacement != nil {
				args = replacement
			}
		}
	}
	return args, nil
}

// TriggerIterationStart fires all iteration-start hooks in order.
func (r *Registry) TriggerIterationStart(ctx *core.Context, iteration int) error {
	for _, fn := range r.iterationStart {
		if err := fn(ctx, iteration); err != nil {
			return err
		}
	}
	return nil
}

// TriggerIterationEnd fires all iteration-end hooks in order.
func (r *Registry) TriggerIterationEnd(ctx *core.Context, iteration int) error {
	for _, fn := range r.iterationEnd {
		if err := fn(ctx, iteration); err != nil {
			return err
		}
	}
	return nil
}
