// Package auth implements the /a2a/rpc and legacy-endpoint authentication
// schemes and the credential-header extraction shared by both.
package auth

import (
	"net/http"
	"strings"
)

// credentialKeys are the provider credential names accepted in headers of
// the form X-User-Credential-<KEY>, case-insensitive, hyphen or underscore.
var credentialKeys = []string{"RECLAIM_API_KEY", "NYLAS_API_KEY", "NYLAS_GRANT_ID"}

const headerPrefix = "x-user-credential-"

// ExtractCredentials reads the per-request provider credential headers off
// r, normalizing header-name spelling variants (case, hyphen/underscore) so
// that X-User-Credential-RECLAIM_API_KEY, x-user-credential-reclaim-api-key,
// and every spelling in between resolve to the same map key.
func ExtractCredentials(r *http.Request) map[string]string {
	out := make(map[string]string, len(credentialKeys))
	normalized := make(map[string]string, len(r.Header))
	for name := range r.Header {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, headerPrefix) {
			continue
		}
		key := strings.ToUpper(strings.ReplaceAll(lower[len(headerPrefix):], "-", "_"))
		normalized[key] = r.Header.Get(name)
	}
	for _, key := range credentialKeys {
		if v, ok := normalized[key]; ok && v != "" {
			out[key] = v
		}
	}
	return out
}

// MissingCredentials reports which of the known credential keys are absent
// from creds, in the fixed order defined by credentialKeys. Used by
// internal/setup to populate the {needs_setup, missing} response.
func MissingCredentials(creds map[string]string) []string {
	var missing []string
	for _, key := range credentialKeys {
		if creds[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
