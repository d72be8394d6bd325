// Package computeruse provides a high-level façade over the orchestration
// loop and its supporting services (screen capture, action execution, tool
// registry, hook pipeline & logging) enabling rapid construction of
// screen-driving agents. Most applications interact with this package by:
//  1. Creating an Agent via New() over a decision-maker and a surface
//  2. Registering custom tools, conditional handlers and hooks
//  3. Running a goal to completion (Run) or step by step (RunIter)
//
// The façade delegates orchestration to agent.Loop while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply an allowed region, pacing
// limits and a structured logger.
package computeruse

import (
	"context"
	"time"

	"github.com/hupe1980/computeruse/action"
	"github.com/hupe1980/computeruse/agent"
	"github.com/hupe1980/computeruse/artifact"
	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/hook"
	"github.com/hupe1980/computeruse/logging"
	"github.com/hupe1980/computeruse/model"
	"github.com/hupe1980/computeruse/screen"
	"github.com/hupe1980/computeruse/session"
	"github.com/hupe1980/computeruse/workflow"
)

// Surface is a controlled display that can be observed and acted upon. A
// single implementation (for example browser.Browser) usually provides both
// halves.
type Surface interface {
	screen.Source
	action.Driver
}

// Options configures the Agent instance.
type Options struct {
	// AllowedRegion constrains every coordinate-bearing action. Nil allows
	// the full surface.
	AllowedRegion *core.Region
	// CaptureRegion restricts screenshots by default. Nil captures the full
	// surface.
	CaptureRegion *core.Region
	// SettleDelay elapses after each successful action.
	SettleDelay time.Duration
	// MinInterval paces consecutive actions.
	MinInterval time.Duration
	// DryRun validates and reports actions without touching the surface.
	DryRun bool
	// SystemPrompt overrides the default system instructions.
	SystemPrompt string

	// Artifacts, when set, receives every screenshot taken during runs as a
	// sequentially named PNG artifact keyed by run id.
	Artifacts artifact.Store
	// Runs, when set, records a session.Record for every completed Run call.
	Runs session.Store

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Agent is the high-level façade aggregating the loop and its services.
type Agent struct {
	loop     *agent.Loop
	executor *action.Executor
	capture  *screen.Capture
	runs     session.Store
	logger   logging.Logger
}

// New creates a new Agent over the given decision-maker and surface.
func New(m model.Model, surface Surface, optFns ...func(o *Options)) *Agent {
	opts := Options{
		SettleDelay: 100 * time.Millisecond,
		MinInterval: 50 * time.Millisecond,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	capture := screen.New(surface, func(o *screen.Options) {
		o.Region = opts.CaptureRegion
	})

	executor := action.New(surface, func(o *action.Options) {
		o.AllowedRegion = opts.AllowedRegion
		o.SettleDelay = opts.SettleDelay
		o.MinInterval = opts.MinInterval
		o.DryRun = opts.DryRun
		o.Logger = logger
	})

	loop := agent.New(m, capture, executor, func(o *agent.Options) {
		if opts.SystemPrompt != "" {
			o.SystemPrompt = opts.SystemPrompt
		}
		o.Logger = logger
	})

	if opts.Artifacts != nil {
		loop.Hooks().OnAfterScreenshot(artifact.ScreenshotHook(opts.Artifacts))
	}

	return &Agent{
		loop:     loop,
		executor: executor,
		capture:  capture,
		runs:     opts.Runs,
		logger:   logger,
	}
}

// RegisterTool adds a custom tool to the registry. Registering a name twice
// replaces the earlier tool.
func (a *Agent) RegisterTool(t workflow.Tool) { a.loop.Workflow().Register(t) }

// Tool registers a function as a custom tool under the given name and schema.
func (a *Agent) Tool(name, description string, inputSchema map[string]any, fn func(ctx *core.Context, args map[string]any) (any, error)) {
	a.loop.Workflow().Register(workflow.NewFuncTool(name, description, inputSchema, fn))
}

// When installs a conditional handler: after every execution of the given
// built-in action kind whose predicate holds, the reaction runs.
func (a *Agent) When(kind core.ActionType, predicate workflow.Predicate, reaction workflow.Reaction) {
	a.loop.Workflow().When(kind, predicate, reaction)
}

// OnBeforeScreenshot registers a hook firing before each capture.
func (a *Agent) OnBeforeScreenshot(fn hook.BeforeScreenshotFunc) {
	a.loop.Hooks().OnBeforeScreenshot(fn)
}

// OnAfterScreenshot registers a hook firing after each capture.
func (a *Agent) OnAfterScreenshot(fn hook.AfterScreenshotFunc) {
	a.loop.Hooks().OnAfterScreenshot(fn)
}

// OnBeforeAction registers a hook that may rewrite the arguments of each
// built-in input action before it executes.
func (a *Agent) OnBeforeAction(fn hook.BeforeActionFunc) {
	a.loop.Hooks().OnBeforeAction(fn)
}

// OnAfterAction registers a hook firing after each built-in input action.
func (a *Agent) OnAfterAction(fn hook.AfterActionFunc) {
	a.loop.Hooks().OnAfterAction(fn)
}

// OnToolCall registers an interception hook for requests of the given tool
// name. Use hook.Wildcard to match every request.
func (a *Agent) OnToolCall(name string, fn hook.ToolCallFunc) {
	a.loop.Hooks().OnToolCall(name, fn)
}

// OnIterationStart registers a hook firing at the top of each iteration.
func (a *Agent) OnIterationStart(fn hook.IterationFunc) {
	a.loop.Hooks().OnIterationStart(fn)
}

// OnIterationEnd registers a hook firing at the bottom of each iteration.
func (a *Agent) OnIterationEnd(fn hook.IterationFunc) {
	a.loop.Hooks().OnIterationEnd(fn)
}

// CallTool invokes a registered custom tool directly, outside any run.
func (a *Agent) CallTool(runCtx *core.Context, name string, args map[string]any) (any, error) {
	if runCtx == nil {
		runCtx = core.NewContext()
	}
	return a.loop.Workflow().Execute(runCtx, name, args)
}

// Screenshot captures the surface (or a region of it) outside any run.
func (a *Agent) Screenshot(ctx context.Context, region *core.Region) (core.Screenshot, error) {
	return a.capture.Take(ctx, region)
}

// ScreenSize returns the full surface dimensions in pixels.
func (a *Agent) ScreenSize(ctx context.Context) (int, int, error) {
	return a.capture.Size(ctx)
}

// AllowedRegion returns the configured spatial boundary, nil if unconstrained.
func (a *Agent) AllowedRegion() *core.Region { return a.executor.AllowedRegion() }

// Run executes the goal to a terminal state and returns the summary. When a
// run store is configured the completed run is recorded there.
func (a *Agent) Run(ctx context.Context, goal string, optFns ...func(o *agent.RunOptions)) core.RunResult {
	steps := a.loop.RunIter(ctx, goal, optFns...)
	started := time.Now()
	for steps.Next() {
	}
	result := steps.Result()

	if a.runs != nil {
		record := session.Record{
			RunID:      steps.RunID(),
			Goal:       goal,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Result:     result,
		}
		if err := a.runs.Save(record); err != nil {
			a.logger.Error("session.record.failed", "run_id", record.RunID, "error", err.Error())
		}
	}

	return result
}

// RunIter starts the goal in step-wise mode, handing control back to the
// caller after every executed operation.
func (a *Agent) RunIter(ctx context.Context, goal string, optFns ...func(o *agent.RunOptions)) *agent.Steps {
	return a.loop.RunIter(ctx, goal, optFns...)
}
