package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/internal/schema"
)

func echoTool(name string) *FuncTool {
	return NewFuncTool(name, "Echo the input", nil,
		func(_ *core.Context, args map[string]any) (any, error) {
			return args, nil
		})
}

func TestEngineRegisterAndExecute(t *testing.T) {
	engine := New()
	engine.Register(NewFuncTool("greet", "Greet someone",
		schema.Object(map[string]any{
			"name": map[string]any{"type": "string"},
		}, []string{"name"}),
		func(_ *core.Context, args map[string]any) (any, error) {
			return "hello " + args["name"].(string), nil
		}))

	assert.True(t, engine.Has("greet"))
	assert.False(t, engine.Has("other"))

	result, err := engine.Execute(core.NewContext(), "greet", map[string]any{"name": "world"})
	assert.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestEngineExecuteNotFound(t *testing.T) {
	engine := New()

	_, err := engine.Execute(core.NewContext(), "missing", map[string]any{})
	assert.Error(t, err)

	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, toolErr.Code)
	assert.Contains(t, toolErr.Message, `"missing" not found`)
}

func TestEngineRegisterLastWins(t *testing.T) {
	engine := New()
	engine.Register(NewFuncTool("calc", "v1", nil,
		func(_ *core.Context, _ map[string]any) (any, error) { return "v1", nil }))
	engine.Register(echoTool("other"))
	engine.Register(NewFuncTool("calc", "v2", nil,
		func(_ *core.Context, _ map[string]any) (any, error) { return "v2", nil }))

	result, err := engine.Execute(core.NewContext(), "calc", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "v2", result)

	// Re-registration keeps the original schema position.
	schemas := engine.Schemas()
	assert.Len(t, schemas, 2)
	assert.Equal(t, "calc", schemas[0].Name)
	assert.Equal(t, "v2", schemas[0].Description)
	assert.Equal(t, "other", schemas[1].Name)
}

func TestEngineSchemasReflectCurrentState(t *testing.T) {
	engine := New()
	assert.Empty(t, engine.Schemas())

	engine.Register(echoTool("a"))
	engine.Register(echoTool("b"))

	schemas := engine.Schemas()
	assert.Len(t, schemas, 2)
	assert.Equal(t, "a", schemas[0].Name)
	assert.Equal(t, "object", schemas[0].InputSchema["type"])
}

func TestEngineDispatch(t *testing.T) {
	engine := New()
	runCtx := core.NewContext()

	var fired []string
	engine.When(core.ActionClick,
		func(_ *core.Context, action map[string]any) bool {
			x, _ := action["x"].(int)
			return x > 100
		},
		func(_ *core.Context, _ map[string]any) error {
			fired = append(fired, "far")
			return nil
		})
	engine.When(core.ActionClick,
		func(_ *core.Context, _ map[string]any) bool { return true },
		func(_ *core.Context, _ map[string]any) error {
			fired = append(fired, "always")
			return nil
		})

	err := engine.Dispatch(runCtx, core.ActionClick, map[string]any{"x": 10})
	assert.NoError(t, err)
	assert.Equal(t, []string{"always"}, fired)

	fired = nil
	err = engine.Dispatch(runCtx, core.ActionClick, map[string]any{"x": 200})
	assert.NoError(t, err)
	assert.Equal(t, []string{"far", "always"}, fired)

	// No handlers registered for this action type.
	assert.NoError(t, engine.Dispatch(runCtx, core.ActionScroll, map[string]any{}))
}

func TestEngineDispatchIsolatesReactionErrors(t *testing.T) {
	engine := New()

	var secondRan bool
	engine.When(core.ActionClick,
		func(_ *core.Context, _ map[string]any) bool { return true },
		func(_ *core.Context, _ map[string]any) error {
			return fmt.Errorf("handler blew up")
		})
	engine.When(core.ActionClick,
		func(_ *core.Context, _ map[string]any) bool { return true },
		func(_ *core.Context, _ map[string]any) error {
			secondRan = true
			return nil
		})

	err := engine.Dispatch(core.NewContext(), core.ActionClick, map[string]any{})
	assert.NoError(t, err, "ordinary reaction errors are swallowed")
	assert.True(t, secondRan, "remaining handlers still run")
}

func TestEngineDispatchAbortPropagates(t *testing.T) {
	engine := New()
	engine.When(core.ActionTypeText,
		func(_ *core.Context, _ map[string]any) bool { return true },
		func(_ *core.Context, _ map[string]any) error {
			return core.Abort("sensitive input detected")
		})

	err := engine.Dispatch(core.NewContext(), core.ActionTypeText, map[string]any{"text": "secret"})
	assert.Error(t, err)

	abort, ok := core.AsAbort(err)
	assert.True(t, ok)
	assert.Equal(t, "sensitive input detected", abort.Reason)
}
