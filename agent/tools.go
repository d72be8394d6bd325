package agent

import (
	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/internal/schema"
	"github.com/hupe1980/computeruse/model"
)

// builtinTools returns the declarations of the built-in primitives exposed
// to the decision-maker on every turn.
func builtinTools() []model.ToolSchema {
	return []model.ToolSchema{
		{
			Name:        "screenshot",
			Description: "Take a screenshot of the current screen or a specific region",
			InputSchema: schema.Object(map[string]any{
				"region": map[string]any{
					"type":        "object",
					"description": "Optional region to capture",
					"properties": map[string]any{
						"x":      map[string]any{"type": "integer"},
						"y":      map[string]any{"type": "integer"},
						"width":  map[string]any{"type": "integer"},
						"height": map[string]any{"type": "integer"},
					},
				},
			}, nil),
		},
		{
			Name:        "mouse_move",
			Description: "Move the mouse cursor to specific coordinates",
			InputSchema: schema.Object(map[string]any{
				"x":        map[string]any{"type": "integer", "description": "X coordinate to move to"},
				"y":        map[string]any{"type": "integer", "description": "Y coordinate to move to"},
				"duration": map[string]any{"type": "number", "description": "Duration of movement in seconds", "default": 0.5},
			}, []string{"x", "y"}),
		},
		{
			Name:        "click",
			Description: "Click at specific coordinates",
			InputSchema: schema.Object(map[string]any{
				"x":      map[string]any{"type": "integer", "description": "X coordinate to click"},
				"y":      map[string]any{"type": "integer", "description": "Y coordinate to click"},
				"button": map[string]any{"type": "string", "enum": []string{"left", "right", "middle"}, "description": "Mouse button to click", "default": "left"},
				"clicks": map[string]any{"type": "integer", "description": "Number of clicks", "default": 1},
			}, []string{"x", "y"}),
		},
		{
			Name:        "type",
			Description: "Type text using the keyboard",
			InputSchema: schema.Object(map[string]any{
				"text":     map[string]any{"type": "string", "description": "Text to type"},
				"interval": map[string]any{"type": "number", "description": "Interval between keystrokes in seconds", "default": 0.0},
			}, []string{"text"}),
		},
		{
			Name:        "key",
			Description: "Press a keyboard key",
			InputSchema: schema.Object(map[string]any{
				"key": map[string]any{"type": "string", "description": "Key to press (e.g., 'enter', 'tab', 'escape', 'backspace')"},
			}, []string{"key"}),
		},
		{
			Name:        "scroll",
			Description: "Scroll in a direction",
			InputSchema: schema.Object(map[string]any{
				"direction": map[string]any{"type": "string", "enum": []string{"up", "down", "left", "right"}, "description": "Direction to scroll"},
				"amount":    map[string]any{"type": "integer", "description": "Amount to scroll (number of clicks)", "default": 3},
				"x":         map[string]any{"type": "integer", "description": "Optional X coordinate to scroll at"},
				"y":         map[string]any{"type": "integer", "description": "Optional Y coordinate to scroll at"},
			}, []string{"direction"}),
		},
	}
}

// builtinNames indexes the built-in tool names for dispatch decisions.
var builtinNames = map[string]core.ActionType{
	"screenshot": core.ActionScreenshot,
	"mouse_move": core.ActionMouseMove,
	"click":      core.ActionClick,
	"type":       core.ActionTypeText,
	"key":        core.ActionKey,
	"scroll":     core.ActionScroll,
}

// actionKind maps a requested tool name to the action-kind tag recorded in
// history: the matching built-in kind, or core.ActionTool for everything
// routed through the registry.
func actionKind(name string) core.ActionType {
	if kind, ok := builtinNames[name]; ok {
		return kind
	}
	return core.ActionTool
}
