package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/computeruse/action"
	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/hook"
	"github.com/hupe1980/computeruse/logging"
	"github.com/hupe1980/computeruse/model"
	"github.com/hupe1980/computeruse/screen"
	"github.com/hupe1980/computeruse/workflow"
)

// defaultSystemPrompt is used when neither the loop nor the run supplies
// system instructions.
const defaultSystemPrompt = "You are a computer use agent. You can see the screen and take actions " +
	"like clicking, typing, and scrolling. Analyze what you see and take " +
	"appropriate actions to achieve the given goal."

// Options configures a Loop.
type Options struct {
	// Workflow holds custom tools and conditional handlers. Defaults to an
	// empty engine.
	Workflow *workflow.Engine
	// Hooks holds the interception pipeline. Defaults to an empty registry.
	Hooks *hook.Registry
	// SystemPrompt overrides the default system instructions for every run.
	SystemPrompt string

	Logger logging.Logger
}

// Loop drives the iterate-until-done state machine. It owns the Session
// State, the Transcript and the Iteration Counter of the run currently
// executing. A Loop serves one run at a time: a run must reach a terminal
// state before Run or RunIter is called again on the same instance.
type Loop struct {
	model    model.Model
	screen   *screen.Capture
	executor *action.Executor
	workflow *workflow.Engine
	hooks    *hook.Registry
	system   string
	logger   logging.Logger
}

// New creates a Loop over the given decision-maker, capture and executor.
func New(m model.Model, capture *screen.Capture, executor *action.Executor, optFns ...func(o *Options)) *Loop {
	opts := Options{
		SystemPrompt: defaultSystemPrompt,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workflow == nil {
		opts.Workflow = workflow.New()
	}
	if opts.Hooks == nil {
		opts.Hooks = hook.NewRegistry()
	}

	return &Loop{
		model:    m,
		screen:   capture,
		executor: executor,
		workflow: opts.Workflow,
		hooks:    opts.Hooks,
		system:   opts.SystemPrompt,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Workflow returns the tool registry / conditional dispatch engine.
func (l *Loop) Workflow() *workflow.Engine { return l.workflow }

// Hooks returns the hook registry.
func (l *Loop) Hooks() *hook.Registry { return l.hooks }

// buildTools assembles the full toolset: built-ins plus the registry's
// schemas as they stand right now.
func (l *Loop) buildTools() []model.ToolSchema {
	return append(builtinTools(), l.workflow.Schemas()...)
}

// interruptErr marks an error raised by extension code (a hook or a
// conditional reaction). The state machine maps it to the interrupted
// terminal state instead of the errored one.
type interruptErr struct {
	err error
}

func (e *interruptErr) Error() string { return "run interrupted: " + e.err.Error() }

func (e *interruptErr) Unwrap() error { return e.err }

// takeScreenshot captures an observation through the before/after-screenshot
// hooks. Hook failures come back as *interruptErr; capture failures come
// back plain so the caller can decide between a failed outcome and a
// terminated run.
func (l *Loop) takeScreenshot(ctx context.Context, runCtx *core.Context, region *core.Region) (core.Screenshot, error) {
	if err := l.hooks.TriggerBeforeScreenshot(runCtx); err != nil {
		return core.Screenshot{}, &interruptErr{err: err}
	}

	shot, err := l.screen.Take(ctx, region)
	if err != nil {
		return core.Screenshot{}, err
	}
	runCtx.LastScreenshot = &shot

	if err := l.hooks.TriggerAfterScreenshot(runCtx, shot); err != nil {
		return core.Screenshot{}, &interruptErr{err: err}
	}

	l.logger.Debug("screen.captured", "width", shot.Width, "height", shot.Height)
	return shot, nil
}

// executeTool runs one requested operation: tool-call interception first,
// then either the custom-tool registry or a built-in primitive behind the
// before/after-action hooks and the conditional dispatch table. The returned
// error is non-nil only for interrupts; every ordinary failure is folded
// into the ActionResult.
func (l *Loop) executeTool(ctx context.Context, runCtx *core.Context, tu core.ToolUsePart) (core.ActionResult, error) {
	args := cloneArgs(tu.Input)

	args, err := l.hooks.TriggerToolCall(runCtx, tu.Name, args)
	if err != nil {
		return core.ActionResult{}, &interruptErr{err: err}
	}

	if l.workflow.Has(tu.Name) {
		start := time.Now()
		result, err := l.workflow.Execute(runCtx, tu.Name, args)
		if err != nil {
			l.logger.Error("tool.call.failed", "tool", tu.Name, "error", err.Error())
			return core.Failed(core.ActionTool, "%v", err), nil
		}
		l.logger.Info("tool.call.success", "tool", tu.Name, "duration_ms", time.Since(start).Milliseconds())
		return core.Succeeded(core.ActionTool, map[string]any{"result": result}), nil
	}

	kind, ok := builtinNames[tu.Name]
	if !ok {
		return core.Failed(core.ActionTool, "tool %q not found", tu.Name), nil
	}

	if kind == core.ActionScreenshot {
		shot, err := l.takeScreenshot(ctx, runCtx, regionArg(args, "region"))
		if err != nil {
			var intr *interruptErr
			if errors.As(err, &intr) {
				return core.ActionResult{}, intr
			}
			return core.Failed(core.ActionScreenshot, "%v", err), nil
		}
		return core.Succeeded(core.ActionScreenshot, map[string]any{
			"image":  shot.Data,
			"width":  shot.Width,
			"height": shot.Height,
		}), nil
	}

	// Built-in input primitive: before-action hooks may rewrite the
	// arguments; the rewritten action feeds execution, after-action hooks
	// and conditional dispatch alike.
	args, err = l.hooks.TriggerBeforeAction(runCtx, args)
	if err != nil {
		return core.ActionResult{}, &interruptErr{err: err}
	}

	result := l.executePrimitive(ctx, kind, args)

	if err := l.hooks.TriggerAfterAction(runCtx, args, result); err != nil {
		return core.ActionResult{}, &interruptErr{err: err}
	}
	if err := l.workflow.Dispatch(runCtx, kind, args); err != nil {
		return core.ActionResult{}, &interruptErr{err: err}
	}

	return result, nil
}

// executePrimitive parses the argument map for one built-in primitive and
// invokes the executor.
func (l *Loop) executePrimitive(ctx context.Context, kind core.ActionType, args map[string]any) core.ActionResult {
	switch kind {
	case core.ActionMouseMove:
		return l.executor.MouseMove(ctx,
			intArg(args, "x", 0),
			intArg(args, "y", 0),
			durationArg(args, "duration", 500*time.Millisecond),
		)
	case core.ActionClick:
		return l.executor.Click(ctx,
			intArg(args, "x", 0),
			intArg(args, "y", 0),
			core.MouseButton(strArg(args, "button", string(core.MouseLeft))),
			intArg(args, "clicks", 1),
		)
	case core.ActionTypeText:
		return l.executor.TypeText(ctx,
			strArg(args, "text", ""),
			durationArg(args, "interval", 0),
		)
	case core.ActionKey:
		return l.executor.PressKey(ctx, strArg(args, "key", ""))
	case core.ActionScroll:
		var at *core.Point
		if x, okX := numArg(args, "x"); okX {
			if y, okY := numArg(args, "y"); okY {
				at = &core.Point{X: x, Y: y}
			}
		}
		return l.executor.Scroll(ctx,
			core.ScrollDirection(strArg(args, "direction", string(core.ScrollDown))),
			intArg(args, "amount", 3),
			at,
		)
	}
	return core.Failed(kind, "unsupported primitive %q", kind)
}

// translateResult converts a dispatch outcome into the tool-result transcript
// part keyed to the originating request. Screenshot successes feed the image
// back; every other success a payload summary; failures the error text.
func translateResult(tu core.ToolUsePart, rec core.ActionResult) core.ToolResultPart {
	part := core.ToolResultPart{ToolUseID: tu.ID}

	if !rec.Success {
		part.IsError = true
		part.Content = []core.Part{core.TextPart{Text: "Error: " + rec.Error}}
		return part
	}

	if rec.Action == core.ActionScreenshot {
		if image, ok := rec.Data["image"].(string); ok {
			part.Content = []core.Part{core.ImagePart{MediaType: "image/png", Data: image}}
			return part
		}
	}

	part.Content = []core.Part{core.TextPart{Text: fmt.Sprintf("Success: %v", rec.Data)}}
	return part
}
