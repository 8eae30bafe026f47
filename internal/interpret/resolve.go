package interpret

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"agentcal/internal/tools"
)

// Candidate is one item eligible for single-entity resolution: an active
// task or non-cancelled event, pre-filtered and capped by the caller.
type Candidate struct {
	ID string
	Title string
}

// Resolution is the result of single-entity resolution.
type Resolution struct {
	Found bool
	ID string
	Confidence float64
	Reasoning string
	AmbiguousMatches []Candidate
}

const maxCandidates = 100

var resolveSchema = mustCompile(tools.Spec{
	Name: "resolve_entity",
	Description: "Resolve a free-text reference to exactly one candidate item, or report ambiguity.",
	Schema: schemaObject(map[string]any{
		"found": boolProp("Whether a single candidate was confidently identified."),
		"id": stringProp("The id of the resolved candidate, if found."),
		"confidence": numberProp("Confidence in [0,1] that the resolved id is correct."),
		"reasoning": stringProp("Brief justification for the match or lack thereof."),
		"ambiguous_matches": arrayOfStringsProp("Up to three candidate ids that tie, if not found."),
	}, []string{"found", "confidence", "reasoning"}),
})

// ResolveEntity resolves a free-text reference by semantic match against a
// candidate list, required over substring matching for the primary path.
// Candidates are capped at the 100 most recent before being sent to the
// model. On interpreter failure, falls back to normalized substring match
// with confidence 0.9 if exactly one candidate hits, else ambiguous.
func (i *Interpreter) ResolveEntity(ctx context.Context, reference, operation string, candidates []Candidate) (*Resolution, error) {
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	var list strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&list, "- id=%q title=%q\n", c.ID, c.Title)
	}
	systemPrompt := fmt.Sprintf(`You resolve a free-text reference to exactly one item from a candidate list for
a %q operation. Match semantically, not by substring: "the budget task" should match a candidate
titled "Review Q4 budget"; a reference to "meeting tomorrow" should filter by date if dates are
present in titles. Only set found=true when your confidence exceeds 0.8. If multiple candidates
tie for the best match, set found=false and list up to three candidate ids in ambiguous_matches.

Candidates:
%s`, operation, list.String())

	var out struct {
		Found bool `json:"found"`
		ID string `json:"id"`
		Confidence float64 `json:"confidence"`
		Reasoning string `json:"reasoning"`
		AmbiguousMatches []string `json:"ambiguous_matches"`
	}
	if err := i.callTool(ctx, resolveSchema, systemPrompt, reference, &out); err != nil {
		return fallbackResolve(reference, candidates), nil
	}

	res := &Resolution{
		Found: out.Found && out.Confidence > 0.8,
		ID: out.ID,
		Confidence: out.Confidence,
		Reasoning: out.Reasoning,
	}
	if !res.Found {
		res.AmbiguousMatches = matchCandidates(candidates, out.AmbiguousMatches)
		sort.Slice(res.AmbiguousMatches, func(a, b int) bool {
			return res.AmbiguousMatches[a].Title < res.AmbiguousMatches[b].Title
		})
		if len(res.AmbiguousMatches) > 3 {
			res.AmbiguousMatches = res.AmbiguousMatches[:3]
		}
	}
	return res, nil
}

// fallbackResolve implements the interpreter-failure fallback:
// normalized substring match, confidence 0.9 if exactly one hit, else
// ambiguous with every substring hit listed (capped at three).
func fallbackResolve(reference string, candidates []Candidate) *Resolution {
	needle := normalize(reference)
	var hits []Candidate
	for _, c := range candidates {
		if strings.Contains(normalize(c.Title), needle) {
			hits = append(hits, c)
		}
	}
	switch len(hits) {
	case 1:
		return &Resolution{Found: true, ID: hits[0].ID, Confidence: 0.9, Reasoning: "substring fallback: exactly one match"}
	default:
		if len(hits) > 3 {
			hits = hits[:3]
		}
		return &Resolution{Found: false, Reasoning: "substring fallback: ambiguous or no match", AmbiguousMatches: hits}
	}
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func matchCandidates(all []Candidate, ids []string) []Candidate {
	byID := make(map[string]Candidate, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
