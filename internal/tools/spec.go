// Package tools exposes the JSON Schema metadata used to force structured
// extraction from the NL interpreters. Each tool Spec is hand-authored
// rather than code-generated.
package tools

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Spec describes a single forced-function-call tool: its name, the prompt
// sent alongside it, and the JSON Schema its arguments must satisfy.
type Spec struct {
	// Name is the tool identifier presented to the model and used as the
	// ToolChoice target (forces exactly this tool to be called).
	Name string
	// Description explains to the model what structured output to produce.
	Description string
	// Schema is the raw JSON Schema document for the tool's arguments.
	Schema []byte
}

// Compiled holds a Spec alongside its compiled jsonschema.Schema, used to
// validate model-returned arguments before they are decoded into a typed Go
// value.
type Compiled struct {
	Spec
	schema *jsonschema.Schema
}

// Compile parses and compiles the tool's JSON Schema document.
func Compile(s Spec) (*Compiled, error) {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(newReader(s.Schema))
	if err != nil {
		return nil, fmt.Errorf("tools: parsing schema for %q: %w", s.Name, err)
	}
	url := "mem://" + s.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("tools: adding schema resource for %q: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("tools: compiling schema for %q: %w", s.Name, err)
	}
	return &Compiled{Spec: s, schema: sch}, nil
}

// Validate checks a decoded JSON value (as returned by json.Unmarshal into
// `any`) against the compiled schema.
func (c *Compiled) Validate(v any) error {
	if err := c.schema.Validate(v); err != nil {
		return fmt.Errorf("tools: %q arguments failed schema validation: %w", c.Name, err)
	}
	return nil
}
