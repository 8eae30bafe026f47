// Package interpret wraps model.Client with the structured-extraction
// contract: every interpreter forces a single tool call, validates its JSON
// arguments against a compiled schema, and decodes them into a typed domain
// value. A missing or invalid tool call is surfaced as
// pipeline.ErrorKindInterpretationFailed — there is no heuristic fallback
// except for single-entity resolution, which falls back to a normalized
// substring match.
package interpret

import (
	"context"
	"encoding/json"
	"fmt"

	"agentcal/internal/model"
	"agentcal/internal/pipeline"
	"agentcal/internal/tools"
)

// Interpreter is the shared driver every NL interpreter embeds. It holds no
// per-request state; callers construct one Interpreter per model.Client and
// reuse it across requests (the client itself carries no credentials).
type Interpreter struct {
	client model.Client
}

// New builds an Interpreter over a provider-agnostic model.Client.
func New(client model.Client) *Interpreter {
	return &Interpreter{client: client}
}

// callTool sends systemPrompt + query to the model with ToolChoice forced to
// spec.Name, validates the returned arguments against spec's compiled
// schema, and decodes them into out. Any failure collapses to a single
// pipeline.Error of kind InterpretationFailed: a failed validation or
// missing tool call is never retried with a relaxed schema.
func (i *Interpreter) callTool(ctx context.Context, spec *tools.Compiled, systemPrompt, query string, out any) error {
	req := &model.Request{
		Messages: []*model.Message{
			{Role: model.ConversationRoleSystem, Parts: []model.Part{model.TextPart{Text: systemPrompt}}},
			{Role: model.ConversationRoleUser, Parts: []model.Part{model.TextPart{Text: query}}},
		},
		Tools: []*model.ToolDefinition{{
			Name: spec.Name,
			Description: spec.Description,
			InputSchema: spec.Schema,
		}},
		ToolChoice: &model.ToolChoice{Mode: model.ToolChoiceModeTool, Name: spec.Name},
	}
	resp, err := i.client.Complete(ctx, req)
	if err != nil {
		return pipeline.Wrap(pipeline.ErrorKindInterpretationFailed, "model call failed", err)
	}
	var call *model.ToolCall
	for idx := range resp.ToolCalls {
		if resp.ToolCalls[idx].Name == spec.Name {
			call = &resp.ToolCalls[idx]
			break
		}
	}
	if call == nil {
		return pipeline.Wrap(pipeline.ErrorKindInterpretationFailed, "model returned no tool call", model.ErrNoToolCall)
	}
	var raw any
	if err := json.Unmarshal(call.Arguments, &raw); err != nil {
		return pipeline.Wrap(pipeline.ErrorKindInterpretationFailed, "tool arguments were not valid JSON", err)
	}
	if err := spec.Validate(raw); err != nil {
		return pipeline.Wrap(pipeline.ErrorKindInterpretationFailed, "tool arguments failed schema validation", err)
	}
	if err := json.Unmarshal(call.Arguments, out); err != nil {
		return pipeline.Wrap(pipeline.ErrorKindInterpretationFailed, "failed to decode tool arguments", err)
	}
	return nil
}

// schemaObject is a small helper for hand-authoring flat JSON Schema object
// documents inline in each interpreter file.
func schemaObject(properties map[string]any, required []string) []byte {
	doc := map[string]any{
		"type": "object",
		"properties": properties,
		"required": required,
		"additionalProperties": false,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("interpret: marshaling schema: %v", err))
	}
	return b
}

func stringProp(description string, enum...string) map[string]any {
	p := map[string]any{"type": "string", "description": description}
	if len(enum) > 0 {
		vals := make([]any, len(enum))
		for i, e := range enum {
			vals[i] = e
		}
		p["enum"] = vals
	}
	return p
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func numberProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func arrayOfStringsProp(description string) map[string]any {
	return map[string]any{"type": "array", "description": description, "items": map[string]any{"type": "string"}}
}

func objectProp(description string) map[string]any {
	return map[string]any{"type": "object", "description": description}
}

// mustCompile compiles a tool spec at package init time; a schema that fails
// to compile is a programmer error, not a runtime condition.
func mustCompile(s tools.Spec) *tools.Compiled {
	c, err := tools.Compile(s)
	if err != nil {
		panic(fmt.Sprintf("interpret: compiling schema %q: %v", s.Name, err))
	}
	return c
}
