package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAgentCardNoSchemes(t *testing.T) {
	card := BuildAgentCard("agentcal", "1.0.0", "http://localhost/a2a/rpc", false, false)
	assert.Empty(t, card.SecuritySchemes)
	assert.Equal(t, "agentcal", card.ID)
	assert.Equal(t, "http://localhost/a2a/rpc", card.RPCEndpoint)
	assert.NotEmpty(t, card.Capabilities)
}

func TestBuildAgentCardDevSecretOnly(t *testing.T) {
	card := BuildAgentCard("agentcal", "1.0.0", "http://localhost/a2a/rpc", true, false)
	assert.Contains(t, card.SecuritySchemes, "devSecret")
	assert.NotContains(t, card.SecuritySchemes, "oidc")
}

func TestBuildAgentCardBothSchemes(t *testing.T) {
	card := BuildAgentCard("agentcal", "1.0.0", "http://localhost/a2a/rpc", true, true)
	assert.Contains(t, card.SecuritySchemes, "devSecret")
	assert.Contains(t, card.SecuritySchemes, "oidc")
	assert.Equal(t, "apiKey", card.SecuritySchemes["devSecret"].Type)
	assert.Equal(t, "bearer", card.SecuritySchemes["oidc"].Scheme)
}
