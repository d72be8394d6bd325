package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/screen"
)

// Options configures the browser surface.
type Options struct {
	Headless bool
	// Width and Height size the browser window (and thus the surface).
	Width  int
	Height int
	// StartURL, when set, is navigated to right after launch.
	StartURL string
	// AllocatorOptions are appended to the default exec allocator options.
	AllocatorOptions []chromedp.ExecAllocatorOption
}

// Browser owns a Chrome instance and a single page target.
type Browser struct {
	ctx         context.Context
	cancelPage  context.CancelFunc
	cancelAlloc context.CancelFunc

	// last known cursor position, where wheel events are dispatched
	lastX, lastY float64
}

// New launches Chrome and opens a blank page.
func New(ctx context.Context, optFns ...func(o *Options)) (*Browser, error) {
	opts := Options{Headless: true, Width: 1280, Height: 800}
	for _, fn := range optFns {
		fn(&opts)
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	allocOpts = append(allocOpts, opts.AllocatorOptions...)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)

	// Force target creation so the first capture does not pay startup cost.
	if err := chromedp.Run(pageCtx); err != nil {
		cancelPage()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := &Browser{ctx: pageCtx, cancelPage: cancelPage, cancelAlloc: cancelAlloc}

	if opts.StartURL != "" {
		if err := b.Navigate(ctx, opts.StartURL); err != nil {
			b.Close()
			return nil, err
		}
	}

	return b, nil
}

// Navigate loads a URL in the controlled page.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := chromedp.Run(b.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Close tears down the page and the Chrome process.
func (b *Browser) Close() {
	b.cancelPage()
	b.cancelAlloc()
}

// run executes CDP actions after checking the caller's context.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(b.ctx, actions...)
}

// MouseMove implements action.Driver. A positive duration spreads the move
// over a handful of interpolated events so pages tracking mousemove see a
// continuous path.
func (b *Browser) MouseMove(ctx context.Context, x, y int, duration time.Duration) error {
	const steps = 8
	fx, fy := float64(x), float64(y)

	return b.run(ctx, chromedp.ActionFunc(func(cdp context.Context) error {
		if duration <= 0 {
			if err := input.DispatchMouseEvent(input.MouseMoved, fx, fy).Do(cdp); err != nil {
				return err
			}
			b.lastX, b.lastY = fx, fy
			return nil
		}

		startX, startY := b.lastX, b.lastY
		pause := duration / steps
		for i := 1; i <= steps; i++ {
			t := float64(i) / steps
			ix := startX + (fx-startX)*t
			iy := startY + (fy-startY)*t
			if err := input.DispatchMouseEvent(input.MouseMoved, ix, iy).Do(cdp); err != nil {
				return err
			}
			select {
			case <-time.After(pause):
			case <-cdp.Done():
				return cdp.Err()
			}
		}
		b.lastX, b.lastY = fx, fy
		return nil
	}))
}

// Click implements action.Driver with paired press/release events.
func (b *Browser) Click(ctx context.Context, x, y int, button core.MouseButton, clicks int) error {
	fx, fy := float64(x), float64(y)
	btn := input.MouseButton(string(button))

	return b.run(ctx, chromedp.ActionFunc(func(cdp context.Context) error {
		if err := input.DispatchMouseEvent(input.MouseMoved, fx, fy).Do(cdp); err != nil {
			return err
		}
		for i := 1; i <= clicks; i++ {
			press := input.DispatchMouseEvent(input.MousePressed, fx, fy).
				WithButton(btn).
				WithClickCount(int64(i))
			if err := press.Do(cdp); err != nil {
				return err
			}
			release := input.DispatchMouseEvent(input.MouseReleased, fx, fy).
				WithButton(btn).
				WithClickCount(int64(i))
			if err := release.Do(cdp); err != nil {
				return err
			}
		}
		b.lastX, b.lastY = fx, fy
		return nil
	}))
}

// TypeText implements action.Driver by sending key events per rune.
func (b *Browser) TypeText(ctx context.Context, text string, interval time.Duration) error {
	if interval <= 0 {
		return b.run(ctx, chromedp.KeyEvent(text))
	}

	return b.run(ctx, chromedp.ActionFunc(func(cdp context.Context) error {
		for _, r := range text {
			if err := chromedp.KeyEvent(string(r)).Do(cdp); err != nil {
				return err
			}
			select {
			case <-time.After(interval):
			case <-cdp.Done():
				return cdp.Err()
			}
		}
		return nil
	}))
}

// keyCodes maps friendly key names to chromedp key runes.
var keyCodes = map[string]string{
	"enter":     kb.Enter,
	"return":    kb.Enter,
	"tab":       kb.Tab,
	"escape":    kb.Escape,
	"esc":       kb.Escape,
	"backspace": kb.Backspace,
	"delete":    kb.Delete,
	"space":     " ",
	"up":        kb.ArrowUp,
	"down":      kb.ArrowDown,
	"left":      kb.ArrowLeft,
	"right":     kb.ArrowRight,
	"home":      kb.Home,
	"end":       kb.End,
	"pageup":    kb.PageUp,
	"pagedown":  kb.PageDown,
}

// PressKey implements action.Driver. Unrecognized names are sent literally,
// which covers single printable characters.
func (b *Browser) PressKey(ctx context.Context, key string) error {
	code, ok := keyCodes[key]
	if !ok {
		code = key
	}
	return b.run(ctx, chromedp.KeyEvent(code))
}

// scrollTick is the wheel delta dispatched per scroll unit, matching the
// classic 120-unit wheel notch.
const scrollTick = 120

// Scroll implements action.Driver with wheel events at the last cursor
// position.
func (b *Browser) Scroll(ctx context.Context, direction core.ScrollDirection, amount int) error {
	var dx, dy float64
	switch direction {
	case core.ScrollUp:
		dy = -float64(amount * scrollTick)
	case core.ScrollDown:
		dy = float64(amount * scrollTick)
	case core.ScrollLeft:
		dx = -float64(amount * scrollTick)
	case core.ScrollRight:
		dx = float64(amount * scrollTick)
	default:
		return fmt.Errorf("unknown scroll direction %q", direction)
	}

	return b.run(ctx, chromedp.ActionFunc(func(cdp context.Context) error {
		ev := input.DispatchMouseEvent(input.MouseWheel, b.lastX, b.lastY).
			WithDeltaX(dx).
			WithDeltaY(dy)
		return ev.Do(cdp)
	}))
}

// Grab implements screen.Source via a CDP page screenshot, clipped to the
// region when one is given.
func (b *Browser) Grab(ctx context.Context, region *core.Region) (screen.Frame, error) {
	var frame screen.Frame

	err := b.run(ctx, chromedp.ActionFunc(func(cdp context.Context) error {
		params := page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng)
		if region != nil {
			params = params.WithClip(&page.Viewport{
				X:      float64(region.X),
				Y:      float64(region.Y),
				Width:  float64(region.Width),
				Height: float64(region.Height),
				Scale:  1,
			})
		}
		buf, err := params.Do(cdp)
		if err != nil {
			return err
		}
		frame.PNG = buf
		if region != nil {
			frame.Width, frame.Height = region.Width, region.Height
			return nil
		}
		_, _, _, _, cssVisualViewport, _, err := page.GetLayoutMetrics().Do(cdp)
		if err != nil {
			return err
		}
		frame.Width = int(cssVisualViewport.ClientWidth)
		frame.Height = int(cssVisualViewport.ClientHeight)
		return nil
	}))
	if err != nil {
		return screen.Frame{}, fmt.Errorf("capture screenshot: %w", err)
	}

	return frame, nil
}

// Size implements screen.Source using the CSS visual viewport.
func (b *Browser) Size(ctx context.Context) (int, int, error) {
	var width, height int
	err := b.run(ctx, chromedp.ActionFunc(func(cdp context.Context) error {
		_, _, _, _, cssVisualViewport, _, err := page.GetLayoutMetrics().Do(cdp)
		if err != nil {
			return err
		}
		width = int(cssVisualViewport.ClientWidth)
		height = int(cssVisualViewport.ClientHeight)
		return nil
	}))
	if err != nil {
		return 0, 0, fmt.Errorf("layout metrics: %w", err)
	}
	return width, height, nil
}
