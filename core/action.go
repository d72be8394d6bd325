package core

import "fmt"

// ActionType tags the kind of primitive (or custom tool) an outcome
// originated from. Values match the built-in tool names exposed to the model.
type ActionType string

const (
	// ActionScreenshot captures the screen or a region of it.
	ActionScreenshot ActionType = "screenshot"
	// ActionMouseMove moves the cursor to absolute coordinates.
	ActionMouseMove ActionType = "mouse_move"
	// ActionClick presses a mouse button at absolute coordinates.
	ActionClick ActionType = "click"
	// ActionDoubleClick is a two-click convenience variant of ActionClick.
	ActionDoubleClick ActionType = "double_click"
	// ActionTypeText types a string of text.
	ActionTypeText ActionType = "type"
	// ActionKey presses a single named key.
	ActionKey ActionType = "key"
	// ActionScroll scrolls the surface in a direction.
	ActionScroll ActionType = "scroll"
	// ActionTool marks the outcome of a custom (registry) tool dispatch.
	ActionTool ActionType = "tool"
)

// MouseButton identifies which mouse button a click uses.
type MouseButton string

const (
	// MouseLeft is the primary button.
	MouseLeft MouseButton = "left"
	// MouseRight is the secondary button.
	MouseRight MouseButton = "right"
	// MouseMiddle is the wheel button.
	MouseMiddle MouseButton = "middle"
)

// ScrollDirection identifies the axis and sign of a scroll operation.
type ScrollDirection string

const (
	// ScrollUp scrolls content upward.
	ScrollUp ScrollDirection = "up"
	// ScrollDown scrolls content downward.
	ScrollDown ScrollDirection = "down"
	// ScrollLeft scrolls content to the left.
	ScrollLeft ScrollDirection = "left"
	// ScrollRight scrolls content to the right.
	ScrollRight ScrollDirection = "right"
)

// Point is an absolute screen coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Region is a rectangle on the screen. It constrains where coordinate-bearing
// actions may land (allowed region) or what part of the screen a capture
// covers (capture region).
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point (x, y) lies inside the region.
// Edges are inclusive.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// String renders the region as "x,y wxh" for log output.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// ActionResult is the immutable record of one primitive or tool dispatch
// attempt. Every dispatch, including failed ones, produces exactly one
// ActionResult which the loop appends to the run history.
type ActionResult struct {
	Success bool           `json:"success"`
	Action  ActionType     `json:"action"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Succeeded builds a successful ActionResult carrying a structured payload.
func Succeeded(action ActionType, data map[string]any) ActionResult {
	return ActionResult{Success: true, Action: action, Data: data}
}

// Failed builds a failed ActionResult carrying an error description.
func Failed(action ActionType, format string, args ...any) ActionResult {
	return ActionResult{Success: false, Action: action, Error: fmt.Sprintf(format, args...)}
}

// Screenshot is an encoded capture of the screen plus its metadata.
type Screenshot struct {
	// Data is the base64 encoded image payload.
	Data string `json:"data"`
	// MediaType is the MIME type of the encoded image (image/png).
	MediaType string `json:"media_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	// Region is the source rectangle, nil for a full-surface capture.
	Region *Region `json:"region,omitempty"`
}
