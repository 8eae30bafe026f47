package pipeline

import (
	"testing"

	"agentcal/internal/interpret"

	"github.com/stretchr/testify/assert"
)

func TestAmbiguousOrNotFoundNoMatches(t *testing.T) {
	err := ambiguousOrNotFound(&interpret.Resolution{Found: false})
	assert.Equal(t, ErrorKindNotFound, err.Kind)
	assert.Empty(t, err.Candidates)
}

func TestAmbiguousOrNotFoundWithMatches(t *testing.T) {
	res := &interpret.Resolution{
		Found: false,
		AmbiguousMatches: []interpret.Candidate{
			{ID: "1", Title: "Team meeting prep"},
			{ID: "2", Title: "Team meeting notes"},
		},
	}
	err := ambiguousOrNotFound(res)
	assert.Equal(t, ErrorKindAmbiguous, err.Kind)
	assert.Len(t, err.Candidates, 2)
	assert.Contains(t, err.Message, "Team meeting prep")
	assert.Contains(t, err.Message, "Team meeting notes")
}
