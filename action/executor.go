package action

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/logging"
)

// Driver is the thin platform boundary executing raw input primitives.
// Implementations must be synchronous: a method returns once the input has
// been delivered to the surface.
type Driver interface {
	MouseMove(ctx context.Context, x, y int, duration time.Duration) error
	Click(ctx context.Context, x, y int, button core.MouseButton, clicks int) error
	TypeText(ctx context.Context, text string, interval time.Duration) error
	PressKey(ctx context.Context, key string) error
	Scroll(ctx context.Context, direction core.ScrollDirection, amount int) error
}

// Options configures the Executor.
type Options struct {
	// AllowedRegion constrains coordinate-bearing primitives. Nil allows
	// the full surface.
	AllowedRegion *core.Region
	// SettleDelay elapses after each successful driver call before the
	// result is returned, letting the surface visually stabilize.
	SettleDelay time.Duration
	// MinInterval is the minimum pacing delay between the end of one
	// operation and the start of the next.
	MinInterval time.Duration
	// DryRun short-circuits every primitive: no driver call happens and
	// the result carries a {"dry_run": true} marker payload.
	DryRun bool

	Logger logging.Logger
}

// Executor enforces the safety discipline around a Driver.
type Executor struct {
	driver  Driver
	opts    Options
	limiter *rate.Limiter
	logger  logging.Logger
}

// New creates an Executor over the given driver.
func New(driver Driver, optFns ...func(o *Options)) *Executor {
	opts := Options{
		SettleDelay: 100 * time.Millisecond,
		MinInterval: 50 * time.Millisecond,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	interval := opts.MinInterval
	if interval <= 0 {
		interval = time.Nanosecond
	}

	return &Executor{
		driver:  driver,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logging.OrNoOp(opts.Logger),
	}
}

// AllowedRegion returns the configured spatial boundary, nil if unconstrained.
func (e *Executor) AllowedRegion() *core.Region { return e.opts.AllowedRegion }

// allowed reports whether (x, y) is inside the permitted region.
func (e *Executor) allowed(x, y int) bool {
	if e.opts.AllowedRegion == nil {
		return true
	}
	return e.opts.AllowedRegion.Contains(x, y)
}

func (e *Executor) boundaryViolation(action core.ActionType, x, y int) core.ActionResult {
	e.logger.Warn("action.boundary_violation", "action", string(action), "x", x, "y", y)
	return core.Failed(action, "coordinates (%d, %d) outside allowed region %s", x, y, e.opts.AllowedRegion)
}

// execute runs fn under the safety discipline: dry-run short-circuit, pacing
// wait, driver call, settle delay.
func (e *Executor) execute(ctx context.Context, action core.ActionType, data map[string]any, fn func() error) core.ActionResult {
	if e.opts.DryRun {
		return core.Succeeded(action, map[string]any{"dry_run": true})
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return core.Failed(action, "rate limit wait: %v", err)
	}

	if err := fn(); err != nil {
		e.logger.Error("action.failed", "action", string(action), "error", err.Error())
		return core.Failed(action, "%v", err)
	}

	if e.opts.SettleDelay > 0 {
		select {
		case <-time.After(e.opts.SettleDelay):
		case <-ctx.Done():
			return core.Failed(action, "settle interrupted: %v", ctx.Err())
		}
	}

	e.logger.Debug("action.completed", "action", string(action))
	return core.Succeeded(action, data)
}

// MouseMove moves the cursor to (x, y) over the given duration.
func (e *Executor) MouseMove(ctx context.Context, x, y int, duration time.Duration) core.ActionResult {
	if !e.allowed(x, y) {
		return e.boundaryViolation(core.ActionMouseMove, x, y)
	}
	data := map[string]any{"x": x, "y": y}
	return e.execute(ctx, core.ActionMouseMove, data, func() error {
		return e.driver.MouseMove(ctx, x, y, duration)
	})
}

// Click presses button at (x, y) the given number of times.
func (e *Executor) Click(ctx context.Context, x, y int, button core.MouseButton, clicks int) core.ActionResult {
	if !e.allowed(x, y) {
		return e.boundaryViolation(core.ActionClick, x, y)
	}
	if button == "" {
		button = core.MouseLeft
	}
	if clicks <= 0 {
		clicks = 1
	}
	data := map[string]any{"x": x, "y": y, "button": string(button), "clicks": clicks}
	return e.execute(ctx, core.ActionClick, data, func() error {
		return e.driver.Click(ctx, x, y, button, clicks)
	})
}

// DoubleClick performs two left clicks at (x, y), recorded as its own
// action kind so conditional handlers can target it separately.
func (e *Executor) DoubleClick(ctx context.Context, x, y int) core.ActionResult {
	if !e.allowed(x, y) {
		return e.boundaryViolation(core.ActionDoubleClick, x, y)
	}
	data := map[string]any{"x": x, "y": y, "button": string(core.MouseLeft), "clicks": 2}
	return e.execute(ctx, core.ActionDoubleClick, data, func() error {
		return e.driver.Click(ctx, x, y, core.MouseLeft, 2)
	})
}

// TypeText types text with the given inter-keystroke interval.
func (e *Executor) TypeText(ctx context.Context, text string, interval time.Duration) core.ActionResult {
	data := map[string]any{"text": text, "length": len(text)}
	return e.execute(ctx, core.ActionTypeText, data, func() error {
		return e.driver.TypeText(ctx, text, interval)
	})
}

// PressKey presses a single named key (enter, tab, escape, ...).
func (e *Executor) PressKey(ctx context.Context, key string) core.ActionResult {
	data := map[string]any{"key": key}
	return e.execute(ctx, core.ActionKey, data, func() error {
		return e.driver.PressKey(ctx, key)
	})
}

// Scroll scrolls the surface. When at is non-nil the cursor moves there
// first, and the target is subject to the allowed region like any other
// coordinate-bearing operation.
func (e *Executor) Scroll(ctx context.Context, direction core.ScrollDirection, amount int, at *core.Point) core.ActionResult {
	if at != nil && !e.allowed(at.X, at.Y) {
		return e.boundaryViolation(core.ActionScroll, at.X, at.Y)
	}
	if amount <= 0 {
		amount = 3
	}
	data := map[string]any{"direction": string(direction), "amount": amount}
	return e.execute(ctx, core.ActionScroll, data, func() error {
		if at != nil {
			if err := e.driver.MouseMove(ctx, at.X, at.Y, 0); err != nil {
				return err
			}
		}
		return e.driver.Scroll(ctx, direction, amount)
	})
}
