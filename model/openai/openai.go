// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (including function/tool calling and vision input).
// It adapts the normalized Request/Response structures into the SDK's
// message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/computeruse/core"
	"github.com/hupe1980/computeruse/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate adapts OpenAI Chat Completions (with tool calling) into the
// normalized model.Response shape.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	choice := resp.Choices[0]
	parts := make([]core.Part, 0, len(choice.Message.ToolCalls)+1)
	if choice.Message.Content != "" {
		parts = append(parts, core.TextPart{Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		input := map[string]any{}
		if tc.Function.Arguments != "" {
			_ = json.Unmarshal([]byte(tc.Function.Arguments), &input)
		}
		parts = append(parts, core.ToolUsePart{
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: input,
		})
	}

	stop := model.StopEndTurn
	if choice.FinishReason == "tool_calls" || len(choice.Message.ToolCalls) > 0 {
		stop = model.StopToolUse
	}

	return &model.Response{StopReason: stop, Parts: parts}, nil
}

// buildMessages converts the normalized transcript into OpenAI chat
// messages. Assistant tool requests become tool_calls; each outcome becomes
// a tool message keyed to its call id. Chat tool messages carry text only,
// so image outcomes additionally travel as a follow-up user image part.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			messages = append(messages, buildAssistantMessage(msg))
		default:
			messages = append(messages, buildUserMessages(msg)...)
		}
	}

	return messages
}

func buildAssistantMessage(msg core.Message) openai.ChatCompletionMessageParamUnion {
	var text string
	var toolCalls []openai.ChatCompletionMessageToolCallParam

	for _, p := range msg.Parts {
		switch part := p.(type) {
		case core.TextPart:
			text += part.Text
		case core.ToolUsePart:
			args := "{}"
			if raw, err := json.Marshal(part.Input); err == nil {
				args = string(raw)
			}
			toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
				ID:   part.ID,
				Type: "function",
				Function: openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      part.Name,
					Arguments: args,
				},
			})
		}
	}

	if len(toolCalls) == 0 {
		return openai.AssistantMessage(text)
	}

	assistant := &openai.ChatCompletionAssistantMessageParam{
		Role:      "assistant",
		ToolCalls: toolCalls,
	}
	if text != "" {
		assistant.Content.OfString = openai.String(text)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: assistant}
}

// buildUserMessages renders a user turn. Tool outcomes map to tool
// messages; loose text and image parts accumulate into one user message.
func buildUserMessages(msg core.Message) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	var userParts []openai.ChatCompletionContentPartUnionParam

	for _, p := range msg.Parts {
		switch part := p.(type) {
		case core.TextPart:
			userParts = append(userParts, openai.TextContentPart(part.Text))
		case core.ImagePart:
			userParts = append(userParts, imagePart(part))
		case core.ToolResultPart:
			text, image := splitToolResult(part)
			messages = append(messages, openai.ToolMessage(text, part.ToolUseID))
			if image != nil {
				userParts = append(userParts, *image)
			}
		}
	}

	if len(userParts) > 0 {
		messages = append(messages, openai.UserMessage(userParts))
	}

	return messages
}

// splitToolResult flattens a tool outcome into the text content of the tool
// message plus an optional image part for the next user turn.
func splitToolResult(part core.ToolResultPart) (string, *openai.ChatCompletionContentPartUnionParam) {
	var text string
	var image *openai.ChatCompletionContentPartUnionParam

	for _, inner := range part.Content {
		switch c := inner.(type) {
		case core.TextPart:
			text += c.Text
		case core.ImagePart:
			p := imagePart(c)
			image = &p
		}
	}

	if text == "" {
		if image != nil {
			text = "Screenshot captured, see attached image."
		} else {
			text = "OK"
		}
	}

	return text, image
}

func imagePart(part core.ImagePart) openai.ChatCompletionContentPartUnionParam {
	url := fmt.Sprintf("data:%s;base64,%s", part.MediaType, part.Data)
	return openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url})
}

// buildTools converts tool declarations to the OpenAI function format.
func buildTools(tools []model.ToolSchema) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, tool := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  tool.InputSchema,
			},
		}
	}
	return out
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
