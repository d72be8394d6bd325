package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/computeruse/core"
)

// StopReason signals how the decision-maker finished its turn.
type StopReason string

const (
	// StopEndTurn means the decision-maker is done and requests nothing.
	StopEndTurn StopReason = "end_turn"
	// StopToolUse means the reply carries one or more requested operations.
	StopToolUse StopReason = "tool_use"
)

// ToolSchema declaratively exposes one callable to the decision-maker.
// InputSchema is a minimal JSON-schema object (typed properties, required).
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Request captures the normalized decision-maker input: system instructions,
// the ordered transcript and the full toolset for this turn.
type Request struct {
	System   string
	Messages []core.Message
	Tools    []ToolSchema
}

// Response is a complete decision-maker reply: a stop reason plus ordered
// content parts (TextPart reasoning and/or ToolUsePart requests).
type Response struct {
	StopReason StopReason
	Parts      []core.Part
}

// ToolUses returns the requested operations of the reply in order.
func (r *Response) ToolUses() []core.ToolUsePart {
	var uses []core.ToolUsePart
	for _, p := range r.Parts {
		if tu, ok := p.(core.ToolUsePart); ok {
			uses = append(uses, tu)
		}
	}
	return uses
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the agent loop needs to drive decisions.
// Generate blocks until the provider returns a complete reply.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// GenerateFunc adapts a plain function to the Model interface.
type GenerateFunc func(ctx context.Context, req Request) (*Response, error)

// Generate implements Model.
func (f GenerateFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Info implements Model.
func (f GenerateFunc) Info() Info { return Info{Name: "func", Provider: "local"} }

// ScriptedModel replays a fixed sequence of responses and records every
// request it receives. Once the script is exhausted it keeps returning the
// final response, which makes budget-exhaustion scenarios trivial to stage.
type ScriptedModel struct {
	script   []Response
	requests []Request
	calls    int
	// Err, when set, is returned once the script is exhausted instead of
	// repeating the final response.
	Err error
}

// NewScriptedModel constructs a ScriptedModel from an ordered script.
func NewScriptedModel(script ...Response) *ScriptedModel {
	return &ScriptedModel{script: script}
}

// Generate implements Model.
func (m *ScriptedModel) Generate(_ context.Context, req Request) (*Response, error) {
	m.requests = append(m.requests, req)
	m.calls++
	if m.calls > len(m.script) {
		if m.Err != nil {
			return nil, m.Err
		}
		if len(m.script) == 0 {
			return &Response{StopReason: StopEndTurn}, nil
		}
	}
	idx := m.calls - 1
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	resp := m.script[idx]
	return &resp, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return Info{Name: "scripted", Provider: "test"} }

// Calls returns how many times Generate was invoked.
func (m *ScriptedModel) Calls() int { return m.calls }

// Requests returns the recorded requests in call order.
func (m *ScriptedModel) Requests() []Request { return m.requests }

// TextResponse builds an end-turn reply with optional reasoning text.
func TextResponse(text string) Response {
	resp := Response{StopReason: StopEndTurn}
	if text != "" {
		resp.Parts = []core.Part{core.TextPart{Text: text}}
	}
	return resp
}

// ToolUseResponse builds a tool-use reply requesting the given operations.
// Correlation ids are derived from the position when not meaningful to the
// caller.
func ToolUseResponse(uses ...core.ToolUsePart) Response {
	parts := make([]core.Part, 0, len(uses))
	for i, tu := range uses {
		if tu.ID == "" {
			tu.ID = fmt.Sprintf("toolu_%02d", i)
		}
		parts = append(parts, tu)
	}
	return Response{StopReason: StopToolUse, Parts: parts}
}
