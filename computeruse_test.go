package computeruse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/computeruse/artifact"
	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/model"
	"github.com/hupe1980/computeruse/screen"
	"github.com/hupe1980/computeruse/session"
)

// fakeSurface is a Surface that serves a static frame and swallows input.
type fakeSurface struct {
	clicks []core.Point
}

func (s *fakeSurface) Grab(context.Context, *core.Region) (screen.Frame, error) {
	return screen.Frame{PNG: []byte("frame"), Width: 1280, Height: 720}, nil
}

func (s *fakeSurface) Size(context.Context) (int, int, error) { return 1280, 720, nil }

func (s *fakeSurface) MouseMove(context.Context, int, int, time.Duration) error { return nil }

func (s *fakeSurface) Click(_ context.Context, x, y int, _ core.MouseButton, _ int) error {
	s.clicks = append(s.clicks, core.Point{X: x, Y: y})
	return nil
}

func (s *fakeSurface) TypeText(context.Context, string, time.Duration) error { return nil }

func (s *fakeSurface) PressKey(context.Context, string) error { return nil }

func (s *fakeSurface) Scroll(context.Context, core.ScrollDirection, int) error { return nil }

func newFakeAgent(m model.Model, optFns ...func(o *Options)) (*Agent, *fakeSurface) {
	surface := &fakeSurface{}
	fns := append([]func(o *Options){func(o *Options) {
		o.SettleDelay = 0
		o.MinInterval = 0
	}}, optFns...)
	return New(m, surface, fns...), surface
}

func TestAgentRun(t *testing.T) {
	scripted := model.NewScriptedModel(
		model.ToolUseResponse(core.ToolUsePart{Name: "click", Input: map[string]any{
			"x": float64(10), "y": float64(20),
		}}),
		model.TextResponse("done"),
	)
	agent, surface := newFakeAgent(scripted)

	result := agent.Run(context.Background(), "click something")

	assert.Equal(t, core.StatusDone, result.Status)
	assert.Equal(t, []core.Point{{X: 10, Y: 20}}, surface.clicks)
}

func TestAgentToolRegistration(t *testing.T) {
	scripted := model.NewScriptedModel(model.TextResponse("done"))
	agent, _ := newFakeAgent(scripted)

	agent.Tool("lookup", "Look something up", nil,
		func(_ *core.Context, args map[string]any) (any, error) {
			return "found", nil
		})

	out, err := agent.CallTool(nil, "lookup", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "found", out)

	agent.Run(context.Background(), "goal")
	tools := scripted.Requests()[0].Tools
	assert.Equal(t, "lookup", tools[len(tools)-1].Name)
}

func TestAgentScreenSize(t *testing.T) {
	agent, _ := newFakeAgent(model.NewScriptedModel())

	w, h, err := agent.ScreenSize(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestAgentAllowedRegion(t *testing.T) {
	region := &core.Region{X: 0, Y: 0, Width: 100, Height: 100}
	agent, surface := newFakeAgent(
		model.NewScriptedModel(
			model.ToolUseResponse(core.ToolUsePart{Name: "click", Input: map[string]any{
				"x": float64(500), "y": float64(500),
			}}),
			model.TextResponse("done"),
		),
		func(o *Options) { o.AllowedRegion = region },
	)

	assert.Equal(t, region, agent.AllowedRegion())

	result := agent.Run(context.Background(), "goal")
	assert.Equal(t, core.StatusDone, result.Status)
	assert.Empty(t, surface.clicks, "out-of-region click never reaches the surface")
	assert.Len(t, result.History, 1)
	assert.False(t, result.History[0].Success)
}

func TestAgentRecordsRunsAndScreenshots(t *testing.T) {
	runs := session.NewInMemoryStore()
	shots := artifact.NewInMemoryStore()

	agent, _ := newFakeAgent(
		model.NewScriptedModel(
			model.ToolUseResponse(core.ToolUsePart{Name: "screenshot", Input: map[string]any{}}),
			model.TextResponse("done"),
		),
		func(o *Options) {
			o.Runs = runs
			o.Artifacts = shots
		},
	)

	result := agent.Run(context.Background(), "observe the screen")
	assert.Equal(t, core.StatusDone, result.Status)

	records, err := runs.List()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "observe the screen", records[0].Goal)
	assert.Equal(t, core.StatusDone, records[0].Result.Status)
	assert.NotEmpty(t, records[0].RunID)

	// Initial observation plus the requested screenshot.
	ids, err := shots.List(records[0].RunID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"screenshot_0001.png", "screenshot_0002.png"}, ids)
}

func TestAgentHooksViaFacade(t *testing.T) {
	agent, surface := newFakeAgent(model.NewScriptedModel(
		model.ToolUseResponse(core.ToolUsePart{Name: "click", Input: map[string]any{
			"x": float64(100), "y": float64(100),
		}}),
		model.TextResponse("done"),
	))

	agent.OnBeforeAction(func(_ *core.Context, action map[string]any) (map[string]any, error) {
		return map[string]any{"x": float64(1), "y": float64(2)}, nil
	})

	var after int
	agent.OnAfterAction(func(_ *core.Context, _ map[string]any, _ core.ActionResult) error {
		after++
		return nil
	})

	result := agent.Run(context.Background(), "goal")
	assert.Equal(t, core.StatusDone, result.Status)
	assert.Equal(t, []core.Point{{X: 1, Y: 2}}, surface.clicks)
	assert.Equal(t, 1, after)
}

func TestAgentDryRun(t *testing.T) {
	agent, surface := newFakeAgent(
		model.NewScriptedModel(
			model.ToolUseResponse(core.ToolUsePart{Name: "click", Input: map[string]any{
				"x": float64(10), "y": float64(10),
			}}),
			model.TextResponse("done"),
		),
		func(o *Options) { o.DryRun = true },
	)

	result := agent.Run(context.Background(), "goal")
	assert.Equal(t, core.StatusDone, result.Status)
	assert.Empty(t, surface.clicks)
	assert.Equal(t, map[string]any{"dry_run": true}, result.History[0].Data)
}
