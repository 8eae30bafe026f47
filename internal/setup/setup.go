// Package setup backs GET /mcp/needs-setup: a no-op-unless-configured check
// of which provider credentials are present.
package setup

import "agentcal/internal/auth"

// Status is the response body for GET /mcp/needs-setup.
type Status struct {
	NeedsSetup bool `json:"needs_setup"`
	Missing []string `json:"missing"`
}

// Check reports whether any required credential is absent from creds.
func Check(creds map[string]string) Status {
	missing := auth.MissingCredentials(creds)
	if missing == nil {
		missing = []string{}
	}
	return Status{NeedsSetup: len(missing) > 0, Missing: missing}
}
