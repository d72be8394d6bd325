package workflow

import (
	"fmt"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/internal/schema"
)

// Tool is a named, schema-described callable the decision-maker can request.
//
// Implementations should provide a clear snake_case name, a concise
// imperative description and a minimal JSON-schema object describing the
// accepted arguments. Call receives the run Context so tools can read and
// write session state.
type Tool interface {
	// Name returns the unique registry key for this tool.
	Name() string

	// Description is shown to the decision-maker to guide tool selection.
	Description() string

	// InputSchema returns the JSON-schema object for the arguments.
	InputSchema() map[string]any

	// Call executes the tool with already-interception-rewritten arguments.
	Call(ctx *core.Context, args map[string]any) (any, error)
}

// Error codes attached to ToolError for uniform downstream handling.
const (
	// CodeNotFound marks a dispatch to an unregistered tool name.
	CodeNotFound = "NOT_FOUND"
	// CodeValidation marks an argument/schema mismatch.
	CodeValidation = "VALIDATION_ERROR"
	// CodeExecution marks a failure raised by the tool implementation.
	CodeExecution = "EXECUTION_ERROR"
)

// ToolError represents a failure during tool resolution or execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// FuncTool adapts a plain Go function into a Tool. It validates arguments
// against the declared schema before invoking the function and normalizes
// failures into *ToolError values.
//
// A FuncTool has no mutable state after construction.
type FuncTool struct {
	name        string
	description string
	inputSchema map[string]any
	fn          func(ctx *core.Context, args map[string]any) (any, error)
}

// NewFuncTool constructs a FuncTool from an explicit schema and function.
//
// Example:
//
//	add := workflow.NewFuncTool(
//	  "add", "Add two numbers",
//	  schema.Object(map[string]any{
//	    "a": map[string]any{"type": "number"},
//	    "b": map[string]any{"type": "number"},
//	  }, []string{"a", "b"}),
//	  func(_ *core.Context, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFuncTool(
	name, description string,
	inputSchema map[string]any,
	fn func(ctx *core.Context, args map[string]any) (any, error),
) *FuncTool {
	if description == "" {
		description = fmt.Sprintf("Execute %s", name)
	}
	if inputSchema == nil {
		inputSchema = schema.Object(map[string]any{}, nil)
	}
	return &FuncTool{name: name, description: description, inputSchema: inputSchema, fn: fn}
}

// NewFuncToolFromStruct derives the argument schema from a struct prototype.
// Each exported field becomes a typed property; fields without omitempty and
// non-pointer type are required. See schema.FromStruct for the mapping.
func NewFuncToolFromStruct(
	name, description string,
	prototype any,
	fn func(ctx *core.Context, args map[string]any) (any, error),
) *FuncTool {
	return NewFuncTool(name, description, schema.FromStruct(prototype), fn)
}

// Name returns the unique tool name.
func (t *FuncTool) Name() string { return t.name }

// Description returns the description exposed to the decision-maker.
func (t *FuncTool) Description() string { return t.description }

// InputSchema returns the declared argument schema.
func (t *FuncTool) InputSchema() map[string]any { return t.inputSchema }

// Call validates args against the declared schema then invokes the wrapped
// function.
//
// Error semantics:
//
//	*ToolError (returned directly) -> forwarded unchanged
//	validation failure             -> *ToolError{Code: CodeValidation}
//	other error                    -> *ToolError{Code: CodeExecution}
func (t *FuncTool) Call(ctx *core.Context, args map[string]any) (any, error) {
	if err := schema.Validate(args, t.inputSchema); err != nil {
		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
		}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return nil, toolErr
		}
		return nil, &ToolError{Tool: t.name, Message: err.Error(), Code: CodeExecution}
	}

	return result, nil
}
