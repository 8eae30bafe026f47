package pipeline

import (
	"testing"

	"agentcal/internal/usercontext"
)

// mustContext builds a usercontext.Context for tests that only need a valid
// timezone and clock, not real provider credentials.
func mustContext(t *testing.T) *usercontext.Context {
	t.Helper()
	uc, err := usercontext.New("UTC", "2026-08-03", "09:00:00", "Tester", "tester@example.com", nil)
	if err != nil {
		t.Fatalf("usercontext.New: %v", err)
	}
	return uc
}
