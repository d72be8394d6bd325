package hook

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/computeruse/core"
)

func TestTriggerBeforeActionChaining(t *testing.T) {
	registry := NewRegistry()

	registry.OnBeforeAction(func(_ *core.Context, action map[string]any) (map[string]any, error) {
		out := map[string]any{"x": 1, "source": "first"}
		return out, nil
	})
	registry.OnBeforeAction(func(_ *core.Context, action map[string]any) (map[string]any, error) {
		// Observe only: nil keeps the previous replacement.
		assert.Equal(t, "first", action["source"])
		return nil, nil
	})
	registry.OnBeforeAction(func(_ *core.Context, action map[string]any) (map[string]any, error) {
		return map[string]any{"x": 2, "source": "third"}, nil
	})

	result, err := registry.TriggerBeforeAction(core.NewContext(), map[string]any{"x": 0})
	assert.NoError(t, err)
	assert.Equal(t, 2, result["x"])
	assert.Equal(t, "third", result["source"])
}

func TestTriggerBeforeActionNoHooks(t *testing.T) {
	registry := NewRegistry()
	original := map[string]any{"x": 42}

	result, err := registry.TriggerBeforeAction(core.NewContext(), original)
	assert.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestTriggerBeforeActionError(t *testing.T) {
	registry := NewRegistry()
	registry.OnBeforeAction(func(_ *core.Context, _ map[string]any) (map[string]any, error) {
		return nil, fmt.Errorf("rejected")
	})

	var secondRan bool
	registry.OnBeforeAction(func(_ *core.Context, _ map[string]any) (map[string]any, error) {
		secondRan = true
		return nil, nil
	})

	_, err := registry.TriggerBeforeAction(core.NewContext(), map[string]any{})
	assert.Error(t, err)
	assert.False(t, secondRan, "chain stops at the first error")
}

func TestScreenshotHooksOrder(t *testing.T) {
	registry := NewRegistry()

	var order []string
	registry.OnBeforeScreenshot(func(_ *core.Context) error {
		order = append(order, "before-1")
		return nil
	})
	registry.OnBeforeScreenshot(func(_ *core.Context) error {
		order = append(order, "before-2")
		return nil
	})
	registry.OnAfterScreenshot(func(_ *core.Context, shot core.Screenshot) error {
		order = append(order, fmt.Sprintf("after %dx%d", shot.Width, shot.Height))
		return nil
	})

	runCtx := core.NewContext()
	assert.NoError(t, registry.TriggerBeforeScreenshot(runCtx))
	assert.NoError(t, registry.TriggerAfterScreenshot(runCtx, core.Screenshot{Width: 800, Height: 600}))
	assert.Equal(t, []string{"before-1", "before-2", "after 800x600"}, order)
}

func TestTriggerToolCallKeyedAndWildcard(t *testing.T) {
	registry := NewRegistry()

	var order []string
	registry.OnToolCall("save_note", func(_ *core.Context, name string, args map[string]any) (map[string]any, error) {
		order = append(order, "exact")
		return map[string]any{"note": "rewritten"}, nil
	})
	registry.OnToolCall(Wildcard, func(_ *core.Context, name string, args map[string]any) (map[string]any, error) {
		order = append(order, "wildcard:"+name)
		return nil, nil
	})

	args, err := registry.TriggerToolCall(core.NewContext(), "save_note", map[string]any{"note": "original"})
	assert.NoError(t, err)
	assert.Equal(t, "rewritten", args["note"])
	assert.Equal(t, []string{"exact", "wildcard:save_note"}, order)

	// A tool without exact hooks still passes through the wildcard list.
	order = nil
	_, err = registry.TriggerToolCall(core.NewContext(), "other", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"wildcard:other"}, order)
}

func TestOnToolCallEmptyNameIsWildcard(t *testing.T) {
	registry := NewRegistry()

	var count int
	registry.OnToolCall("", func(_ *core.Context, _ string, _ map[string]any) (map[string]any, error) {
		count++
		return nil, nil
	})

	_, err := registry.TriggerToolCall(core.NewContext(), "anything", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIterationHooks(t *testing.T) {
	registry := NewRegistry()

	var starts, ends []int
	registry.OnIterationStart(func(_ *core.Context, iteration int) error {
		starts = append(starts, iteration)
		return nil
	})
	registry.OnIterationEnd(func(_ *core.Context, iteration int) error {
		ends = append(ends, iteration)
		return nil
	})

	runCtx := core.NewContext()
	for i := 0; i < 3; i++ {
		assert.NoError(t, registry.TriggerIterationStart(runCtx, i))
		assert.NoError(t, registry.TriggerIterationEnd(runCtx, i))
	}
	assert.Equal(t, []int{0, 1, 2}, starts)
	assert.Equal(t, []int{0, 1, 2}, ends)
}

func TestAfterActionHookReceivesResult(t *testing.T) {
	registry := NewRegistry()

	var seen core.ActionResult
	registry.OnAfterAction(func(_ *core.Context, _ map[string]any, result core.ActionResult) error {
		seen = result
		return nil
	})

	result := core.Succeeded(core.ActionClick, map[string]any{"x": 1})
	assert.NoError(t, registry.TriggerAfterAction(core.NewContext(), map[string]any{}, result))
	assert.True(t, seen.Success)
	assert.Equal(t, core.ActionClick, seen.Action)
}
