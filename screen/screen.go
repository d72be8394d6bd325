package screen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hupe1980/computeruse/core"
)

// Frame is one raw capture produced by a Source.
type Frame struct {
	PNG    []byte
	Width  int
	Height int
}

// Source grabs raw frames from the controlled surface. A nil region means
// full surface.
type Source interface {
	// Grab captures the surface (or region of it) as a PNG frame.
	Grab(ctx context.Context, region *core.Region) (Frame, error)

	// Size returns the full surface dimensions in pixels.
	Size(ctx context.Context) (width, height int, err error)
}

// Options configures a Capture.
type Options struct {
	// Region restricts every capture to this rectangle unless a call-site
	// region overrides it. Nil captures the full surface.
	Region *core.Region
}

// Capture takes screenshots through a Source and encodes them for the
// decision-maker.
type Capture struct {
	source Source
	opts   Options
}

// New creates a Capture over the given source.
func New(source Source, optFns ...func(o *Options)) *Capture {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Capture{source: source, opts: opts}
}

// Take captures a screenshot. A non-nil region overrides the configured one
// for this call only.
func (c *Capture) Take(ctx context.Context, region *core.Region) (core.Screenshot, error) {
	if region == nil {
		region = c.opts.Region
	}

	frame, err := c.source.Grab(ctx, region)
	if err != nil {
		return core.Screenshot{}, fmt.Errorf("screen capture: %w", err)
	}

	return core.Screenshot{
		Data:      base64.StdEncoding.EncodeToString(frame.PNG),
		MediaType: "image/png",
		Width:     frame.Width,
		Height:    frame.Height,
		Region:    region,
	}, nil
}

// Size returns the full surface dimensions.
func (c *Capture) Size(ctx context.Context) (int, int, error) {
	return c.source.Size(ctx)
}

// StaticSource serves a fixed frame on every Grab. It backs dry runs and
// tests that must not touch a real display.
type StaticSource struct {
	Frame Frame
}

// Grab implements Source.
func (s *StaticSource) Grab(_ context.Context, _ *core.Region) (Frame, error) {
	return s.Frame, nil
}

// Size implements Source.
func (s *StaticSource) Size(_ context.Context) (int, int, error) {
	return s.Frame.Width, s.Frame.Height, nil
}
