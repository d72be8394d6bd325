package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/internal/schema"
)

func TestFuncToolDefaults(t *testing.T) {
	tool := NewFuncTool("noop", "", nil,
		func(_ *core.Context, _ map[string]any) (any, error) { return nil, nil })

	assert.Equal(t, "noop", tool.Name())
	assert.Equal(t, "Execute noop", tool.Description())
	assert.Equal(t, "object", tool.InputSchema()["type"])
}

func TestFuncToolValidation(t *testing.T) {
	tool := NewFuncTool("add", "Add two numbers",
		schema.Object(map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		}, []string{"a", "b"}),
		func(_ *core.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		})

	result, err := tool.Call(core.NewContext(), map[string]any{"a": 1.5, "b": 2.5})
	assert.NoError(t, err)
	assert.Equal(t, 4.0, result)

	_, err = tool.Call(core.NewContext(), map[string]any{"a": 1.5})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "add", toolErr.Tool)
}

func TestFuncToolExecutionError(t *testing.T) {
	tool := NewFuncTool("fail", "Always fails", nil,
		func(_ *core.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("backend unavailable")
		})

	_, err := tool.Call(core.NewContext(), map[string]any{})
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "backend unavailable", toolErr.Message)
}

func TestFuncToolForwardsToolError(t *testing.T) {
	custom := &ToolError{Tool: "fail", Message: "quota exceeded", Code: "QUOTA"}
	tool := NewFuncTool("fail", "Always fails", nil,
		func(_ *core.Context, _ map[string]any) (any, error) {
			return nil, custom
		})

	_, err := tool.Call(core.NewContext(), map[string]any{})
	assert.Same(t, custom, err)
}

func TestNewFuncToolFromStruct(t *testing.T) {
	type searchArgs struct {
		Query string `json:"query" description:"Search query"`
		Limit int    `json:"limit,omitempty"`
	}

	tool := NewFuncToolFromStruct("search", "Search the index", searchArgs{},
		func(_ *core.Context, args map[string]any) (any, error) {
			return args["query"], nil
		})

	s := tool.InputSchema()
	properties := s["properties"].(map[string]any)
	assert.Contains(t, properties, "query")
	assert.Contains(t, properties, "limit")
	assert.Equal(t, []string{"query"}, s["required"])

	_, err := tool.Call(core.NewContext(), map[string]any{})
	assert.Error(t, err, "missing required query")
}

func TestToolErrorMessage(t *testing.T) {
	withCode := &ToolError{Tool: "x", Message: "boom", Code: CodeExecution}
	assert.Equal(t, "tool error [EXECUTION_ERROR] in x: boom", withCode.Error())

	plain := &ToolError{Tool: "x", Message: "boom"}
	assert.Equal(t, "tool error in x: boom", plain.Error())
}
