// Package model defines the provider-agnostic message and tool-call types
// used by the NL interpreters. It models messages as typed parts (text, tool
// use/result) plus conversation roles, independent of any specific LLM SDK.
package model

import (
	"context"
	"encoding/json"
	"errors"
)

// ConversationRole is the role for a message in a conversation.
type ConversationRole string

const (
	// ConversationRoleSystem is the role for system messages.
	ConversationRoleSystem ConversationRole = "system"
	// ConversationRoleUser is the role for user messages.
	ConversationRoleUser ConversationRole = "user"
	// ConversationRoleAssistant is the role for assistant messages.
	ConversationRoleAssistant ConversationRole = "assistant"
)

type (
	// Part is a marker interface implemented by all message parts.
	Part interface {
		isPart()
	}

	// TextPart is a plain text content block in a message.
	TextPart struct {
		Text string
	}

	// ToolUsePart declares a tool invocation by the assistant.
	ToolUsePart struct {
		ID string
		Name string
		Input json.RawMessage
	}

	// ToolResultPart carries a tool result provided by the user side.
	ToolResultPart struct {
		ToolUseID string
		Content any
		IsError bool
	}

	// Message is a single chat message.
	Message struct {
		Role ConversationRole
		Parts []Part
	}

	// ToolDefinition describes a single tool exposed to the model, including
	// its JSON Schema input so the provider adapter can force the model to
	// emit schema-conformant arguments.
	ToolDefinition struct {
		// Name is the tool identifier as seen by the model.
		Name string
		// Description is presented to the model to explain the tool's purpose.
		Description string
		// InputSchema is a JSON Schema object describing the tool's arguments.
		InputSchema json.RawMessage
	}

	// ToolChoiceMode controls how the model uses tools for a request.
	ToolChoiceMode string

	// ToolChoice configures tool-use behavior for a Request. NL interpreters
	// always set Mode to ToolChoiceModeTool so the model is forced to
	// commit to exactly one structured output.
	ToolChoice struct {
		Mode ToolChoiceMode
		Name string
	}

	// TokenUsage tracks token counts for a model call.
	TokenUsage struct {
		InputTokens int
		OutputTokens int
	}

	// Request captures inputs for a single (non-streaming) model invocation.
	Request struct {
		// Model is the provider-specific model identifier; empty selects the
		// adapter's configured default.
		Model string
		// Messages is the ordered transcript provided to the model.
		Messages []*Message
		// Temperature controls sampling when supported by the provider.
		Temperature float32
		// Tools lists the tool definitions available to the model.
		Tools []*ToolDefinition
		// ToolChoice optionally constrains how the model uses tools.
		ToolChoice *ToolChoice
		// MaxTokens caps the number of output tokens when supported.
		MaxTokens int
	}

	// Response is the result of a model invocation.
	Response struct {
		// Content is the ordered list of assistant text parts produced.
		Content []Message
		// ToolCalls lists tool invocations requested by the model.
		ToolCalls []ToolCall
		// Usage reports token consumption for the request.
		Usage TokenUsage
		// StopReason records why generation stopped (provider-specific).
		StopReason string
	}

	// ToolCall is a requested tool invocation from the model.
	ToolCall struct {
		// Name is the tool identifier requested by the model.
		Name string
		// Arguments is the canonical JSON arguments supplied by the model.
		Arguments json.RawMessage
		// ID is an optional provider-issued identifier for the tool call.
		ID string
	}

	// Client is the provider-agnostic model client. Implementations translate
	// Requests into a specific LLM provider's API and adapt its response back
	// into the generic types above.
	Client interface {
		// Complete performs a single non-streaming model invocation.
		Complete(ctx context.Context, req *Request) (*Response, error)
	}
)

const (
	// ToolChoiceModeAuto lets the provider decide whether to call tools.
	ToolChoiceModeAuto ToolChoiceMode = "auto"
	// ToolChoiceModeTool forces the model to call the tool identified by
	// ToolChoice.Name. NL interpreters always use this mode.
	ToolChoiceModeTool ToolChoiceMode = "tool"
)

// ErrNoToolCall indicates the model responded without invoking the forced
// tool. Interpreters surface this as InterpretationFailed; there is
// no heuristic fallback.
var ErrNoToolCall = errors.New("model: no tool call in response")

// ErrRateLimited indicates the provider rejected the request due to rate
// limiting. Callers must not retry in a tight loop.
var ErrRateLimited = errors.New("model: rate limited")

func (TextPart) isPart() {}
func (ToolUsePart) isPart() {}
func (ToolResultPart) isPart() {}

// Text returns the concatenated text of a Response's content parts. Useful
// for logging/debugging when a tool call was not returned.
func (r *Response) Text() string {
	var out string
	for _, m := range r.Content {
		for _, p := range m.Parts {
			if t, ok := p.(TextPart); ok {
				out += t.Text
			}
		}
	}
	return out
}
