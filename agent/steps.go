package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/model"
)

// RunOptions configures a single run.
type RunOptions struct {
	// MaxIterations is the iteration budget. The run terminates with
	// core.StatusBudgetExhausted once the counter reaches it.
	MaxIterations int
	// SystemPrompt overrides the loop's system instructions for this run.
	SystemPrompt string
}

// Run executes the loop to a terminal state and returns the summary. It is
// the blocking counterpart of RunIter: both share the same state machine,
// Run simply drains it.
func (l *Loop) Run(ctx context.Context, goal string, optFns ...func(o *RunOptions)) core.RunResult {
	steps := l.RunIter(ctx, goal, optFns...)
	for steps.Next() {
	}
	return steps.Result()
}

// RunIter starts a run in step-wise mode. The returned Steps iterator is
// lazy, finite and non-restartable: each Next advances the loop until the
// next requested-operation outcome (or the final completion step) and
// suspends.
func (l *Loop) RunIter(ctx context.Context, goal string, optFns ...func(o *RunOptions)) *Steps {
	opts := RunOptions{MaxIterations: 20, SystemPrompt: l.system}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 1
	}

	return &Steps{
		loop:  l,
		ctx:   ctx,
		goal:  goal,
		opts:  opts,
		runID: uuid.NewString(),
	}
}

// Steps is the pull-based iterator over one run. Use it scanner-style:
//
//	steps := loop.RunIter(ctx, goal)
//	for steps.Next() {
//	    step := steps.Step()
//	    ...
//	}
//	result := steps.Result()
type Steps struct {
	loop  *Loop
	ctx   context.Context
	goal  string
	opts  RunOptions
	runID string

	runCtx   *core.Context
	messages []core.Message

	iteration   int
	inIteration bool
	pending     []core.ToolUsePart
	results     []core.Part
	reasoning   string

	started bool
	status  core.Status
	err     error
	cur     core.Step
}

// Next advances the run to the next step record. It returns false once the
// run has reached a terminal state; inspect Result (and Err) afterwards.
func (s *Steps) Next() bool {
	if s.status != "" {
		return false
	}

	if !s.started {
		s.started = true
		if err := s.begin(); err != nil {
			s.terminate(err)
			return false
		}
	}

	for {
		// Drain the requested operations of the current reply, one step
		// per outcome, in the order the decision-maker listed them.
		if len(s.pending) > 0 {
			tu := s.pending[0]
			s.pending = s.pending[1:]

			rec, err := s.loop.executeTool(s.ctx, s.runCtx, tu)
			if err != nil {
				s.terminate(err)
				return false
			}

			s.runCtx.Record(rec)
			s.results = append(s.results, translateResult(tu, rec))
			s.cur = core.Step{
				Iteration: s.iteration,
				Action:    actionKind(tu.Name),
				Reasoning: s.reasoning,
				Result:    &rec,
			}
			return true
		}

		// Reply fully executed: feed all outcomes back as a single user
		// turn, close the iteration and advance the counter.
		if s.inIteration {
			if len(s.results) > 0 {
				s.messages = append(s.messages, core.Message{Role: "user", Parts: s.results})
				s.results = nil
			}
			if err := s.loop.hooks.TriggerIterationEnd(s.runCtx, s.iteration); err != nil {
				s.terminate(&interruptErr{err: err})
				return false
			}
			s.inIteration = false
			s.iteration++
			s.runCtx.Iteration = s.iteration

			if s.iteration >= s.opts.MaxIterations {
				s.status = core.StatusBudgetExhausted
				s.loop.logger.Warn("agent.run.budget_exhausted", "iterations", s.iteration)
				return false
			}
		}

		// Open the next iteration and ask the decision-maker.
		if err := s.loop.hooks.TriggerIterationStart(s.runCtx, s.iteration); err != nil {
			s.terminate(&interruptErr{err: err})
			return false
		}
		s.inIteration = true

		resp, err := s.decide()
		if err != nil {
			s.terminate(err)
			return false
		}
		s.reasoning = firstText(resp.Parts)

		uses := resp.ToolUses()
		if resp.StopReason != model.StopToolUse || len(uses) == 0 {
			// Completion: close the iteration and yield the final
			// reasoning-only step.
			pass := s.iteration
			if err := s.loop.hooks.TriggerIterationEnd(s.runCtx, pass); err != nil {
				s.terminate(&interruptErr{err: err})
				return false
			}
			s.inIteration = false
			s.iteration++
			s.runCtx.Iteration = s.iteration
			s.status = core.StatusDone
			s.loop.logger.Info("agent.run.done", "iterations", s.iteration)
			s.cur = core.Step{Iteration: pass, Reasoning: s.reasoning}
			return true
		}

		s.pending = uses
	}
}

// Step returns the record produced by the last successful Next call.
func (s *Steps) Step() core.Step { return s.cur }

// RunID returns the identifier assigned to this run.
func (s *Steps) RunID() string { return s.runID }

// Goal returns the natural-language goal this run is pursuing.
func (s *Steps) Goal() string { return s.goal }

// Err returns the error that terminated the run, if any.
func (s *Steps) Err() error { return s.err }

// Result summarizes the run. Valid once Next has returned false; the
// session state and history stay accessible on every terminal status.
func (s *Steps) Result() core.RunResult {
	result := core.RunResult{
		Status:     s.status,
		Completed:  s.status == core.StatusDone,
		Iterations: s.iteration,
		Err:        s.err,
	}
	if s.runCtx != nil {
		result.State = s.runCtx.State
		result.History = s.runCtx.History
	}
	return result
}

// begin resets the run state, captures the initial observation and seeds
// the transcript with it plus the goal.
func (s *Steps) begin() error {
	s.runCtx = core.NewContext()
	s.runCtx.RunID = s.runID
	s.loop.logger.Info("agent.run.start", "run_id", s.runID, "goal", s.goal, "max_iterations", s.opts.MaxIterations)

	shot, err := s.loop.takeScreenshot(s.ctx, s.runCtx, nil)
	if err != nil {
		return err
	}

	s.messages = []core.Message{{
		Role: "user",
		Parts: []core.Part{
			core.ImagePart{MediaType: shot.MediaType, Data: shot.Data},
			core.TextPart{Text: s.goal},
		},
	}}
	return nil
}

// decide sends the transcript plus the full toolset to the decision-maker
// and appends the reply to the transcript.
func (s *Steps) decide() (*model.Response, error) {
	req := model.Request{
		System:   s.opts.SystemPrompt,
		Messages: append([]core.Message(nil), s.messages...),
		Tools:    s.loop.buildTools(),
	}

	start := time.Now()
	resp, err := s.loop.model.Generate(s.ctx, req)
	if err != nil {
		s.loop.logger.Error("model.call.failed", "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("model call: %w", err)
	}
	s.loop.logger.Debug("model.call.completed", "stop_reason", string(resp.StopReason), "duration_ms", time.Since(start).Milliseconds())

	s.messages = append(s.messages, core.Message{Role: "assistant", Parts: resp.Parts})
	return resp, nil
}

// terminate maps the error to its terminal state: extension-raised errors
// interrupt, everything else errors out.
func (s *Steps) terminate(err error) {
	var intr *interruptErr
	if errors.As(err, &intr) {
		s.status = core.StatusInterrupted
		s.err = err
		s.loop.logger.Warn("agent.run.interrupted", "reason", intr.err.Error())
		return
	}
	s.status = core.StatusErrored
	s.err = err
	s.loop.logger.Error("agent.run.errored", "error", err.Error())
}

func firstText(parts []core.Part) string {
	for _, p := range parts {
		if tp, ok := p.(core.TextPart); ok {
			return tp.Text
		}
	}
	return ""
}
