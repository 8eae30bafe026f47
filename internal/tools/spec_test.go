package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() Spec {
	return Spec{
		Name:        "greet",
		Description: "Say hello to someone.",
		Schema: []byte(`{
			"type": "object",
			"properties": {
				"name": {"type": "string"}
			},
			"required": ["name"],
			"additionalProperties": false
		}`),
	}
}

func TestCompileAndValidateAccepts(t *testing.T) {
	c, err := Compile(testSpec())
	require.NoError(t, err)
	assert.NoError(t, c.Validate(map[string]any{"name": "Ada"}))
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	c, err := Compile(testSpec())
	require.NoError(t, err)
	err = c.Validate(map[string]any{})
	assert.Error(t, err)
}

func TestValidateRejectsAdditionalProperties(t *testing.T) {
	c, err := Compile(testSpec())
	require.NoError(t, err)
	err = c.Validate(map[string]any{"name": "Ada", "extra": true})
	assert.Error(t, err)
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	s := testSpec()
	s.Schema = []byte(`not json`)
	_, err := Compile(s)
	assert.Error(t, err)
}
