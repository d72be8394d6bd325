package core

// Part represents a polymorphic segment of transcript content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// ImagePart is a base64 encoded image segment.
type ImagePart struct {
	MediaType string // MIME type, e.g. image/png
	Data      string // base64 encoded bytes
}

func (ImagePart) isPart() {}

// ToolUsePart is an operation requested by the decision-maker. ID correlates
// the request with the tool result fed back in a later turn.
type ToolUsePart struct {
	ID    string
	Name  string
	Input map[string]any
}

func (ToolUsePart) isPart() {}

// ToolResultPart carries the outcome of one requested operation back to the
// decision-maker, keyed to the originating ToolUsePart by ToolUseID.
type ToolResultPart struct {
	ToolUseID string
	Content   []Part // TextPart and/or ImagePart
	IsError   bool
}

func (ToolResultPart) isPart() {}

// Message is one transcript turn: a role plus ordered heterogeneous parts.
type Message struct {
	Role  string // user or assistant
	Parts []Part
}

// FirstText returns the first text segment of the message, or "".
func (m Message) FirstText() string {
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			return tp.Text
		}
	}
	return ""
}
