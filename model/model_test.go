package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/computeruse/core"
)

func TestScriptedModelReplaysScript(t *testing.T) {
	scripted := NewScriptedModel(
		TextResponse("first"),
		TextResponse("second"),
	)

	resp, err := scripted.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "first", resp.Parts[0].(core.TextPart).Text)

	resp, _ = scripted.Generate(context.Background(), Request{})
	assert.Equal(t, "second", resp.Parts[0].(core.TextPart).Text)

	// Exhausted scripts repeat the final response.
	resp, err = scripted.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "second", resp.Parts[0].(core.TextPart).Text)

	assert.Equal(t, 3, scripted.Calls())
	assert.Len(t, scripted.Requests(), 3)
}

func TestScriptedModelErrAfterExhaustion(t *testing.T) {
	scripted := NewScriptedModel(TextResponse("only"))
	scripted.Err = fmt.Errorf("script over")

	_, err := scripted.Generate(context.Background(), Request{})
	assert.NoError(t, err)

	_, err = scripted.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestToolUseResponse(t *testing.T) {
	resp := ToolUseResponse(
		core.ToolUsePart{Name: "click"},
		core.ToolUsePart{ID: "custom", Name: "type"},
	)

	assert.Equal(t, StopToolUse, resp.StopReason)
	uses := resp.ToolUses()
	assert.Len(t, uses, 2)
	assert.Equal(t, "toolu_00", uses[0].ID, "missing ids are derived from position")
	assert.Equal(t, "custom", uses[1].ID)
}

func TestTextResponse(t *testing.T) {
	resp := TextResponse("reasoning")
	assert.Equal(t, StopEndTurn, resp.StopReason)
	assert.Empty(t, resp.ToolUses())

	empty := TextResponse("")
	assert.Empty(t, empty.Parts)
}

func TestGenerateFunc(t *testing.T) {
	m := GenerateFunc(func(_ context.Context, _ Request) (*Response, error) {
		resp := TextResponse("from func")
		return &resp, nil
	})

	resp, err := m.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "from func", resp.Parts[0].(core.TextPart).Text)
	assert.Equal(t, "func", m.Info().Name)
}
