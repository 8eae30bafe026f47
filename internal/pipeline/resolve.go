package pipeline

import (
	"fmt"
	"strings"

	"agentcal/internal/interpret"
)

// ambiguousOrNotFound turns a failed interpret.Resolution into the
// NotFound/Ambiguous Error shape: up to three candidate titles are
// listed so the caller can ask the user to disambiguate.
func ambiguousOrNotFound(res *interpret.Resolution) *Error {
	if len(res.AmbiguousMatches) == 0 {
		return New(ErrorKindNotFound, "no matching item was found")
	}
	titles := make([]string, len(res.AmbiguousMatches))
	candidates := make([]Candidate, len(res.AmbiguousMatches))
	for i, m := range res.AmbiguousMatches {
		titles[i] = m.Title
		candidates[i] = Candidate{ID: m.ID, Title: m.Title}
	}
	e := New(ErrorKindAmbiguous, fmt.Sprintf("multiple items match: %s", strings.Join(titles, "; ")))
	e.Candidates = candidates
	return e
}
