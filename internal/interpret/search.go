package interpret

import (
	"context"
	"fmt"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/tools"
)

var searchSchema = mustCompile(tools.Spec{
	Name: "parse_search_intent",
	Description: "Extract a structured find_and_analyze query from a user request.",
	Schema: schemaObject(map[string]any{
		"intent": stringProp("The kind of search/analysis requested.", "view_schedule", "find_specific", "workload_analysis", "find_overdue"),
		"named_range": stringProp("A recognized relative time window, if any.", "today", "tomorrow", "this_week", "next_week", "overdue"),
		"search_text": stringProp("Free-text search keywords, if any."),
		"priority": stringProp("Priority filter.", "P1", "P2", "P3", "P4"),
		"status": stringProp("Task status filter."),
		"participants": arrayOfStringsProp("Participant name filter."),
		"scope": stringProp("Which provider(s) to search.", "tasks", "events", "both"),
		"include_completed": boolProp("Whether to include completed/cancelled/archived tasks."),
	}, []string{"intent", "scope"}),
})

// ParseSearchIntent implements the find_and_analyze specifics.
func (i *Interpreter) ParseSearchIntent(ctx context.Context, query string, now time.Time) (*domain.SearchIntent, error) {
	systemPrompt := fmt.Sprintf(`You extract a structured search/analysis request. The current date and time
is %s. Recognize the named time ranges today/tomorrow/this_week/next_week/overdue when the query
implies one. Choose scope=tasks, events, or both based on what the user is asking about.`, now.Format(time.RFC3339))

	var out struct {
		Intent string `json:"intent"`
		NamedRange string `json:"named_range"`
		SearchText string `json:"search_text"`
		Priority string `json:"priority"`
		Status string `json:"status"`
		Participants []string `json:"participants"`
		Scope string `json:"scope"`
		IncludeCompleted bool `json:"include_completed"`
	}
	if err := i.callTool(ctx, searchSchema, systemPrompt, query, &out); err != nil {
		return nil, err
	}
	return &domain.SearchIntent{
		Intent: domain.SearchKind(out.Intent),
		Named: domain.NamedTimeRange(out.NamedRange),
		SearchText: out.SearchText,
		Priority: domain.Priority(out.Priority),
		Status: domain.TaskStatus(out.Status),
		Participants: out.Participants,
		Scope: domain.SearchScope(out.Scope),
		IncludeCompleted: out.IncludeCompleted,
	}, nil
}

var semanticMatchSchema = mustCompile(tools.Spec{
	Name: "semantic_match",
	Description: "Select which candidate items semantically match a free-text search.",
	Schema: schemaObject(map[string]any{
		"matched_ids": arrayOfStringsProp("IDs of candidates that semantically match the search text."),
	}, []string{"matched_ids"}),
})

// SemanticMatch implements the Semantic Search interpreter referenced in the
// find_and_analyze specifics: used when search keywords are
// present; pure time queries skip it entirely.
func (i *Interpreter) SemanticMatch(ctx context.Context, searchText string, candidates []Candidate) ([]string, error) {
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	var list string
	for _, c := range candidates {
		list += fmt.Sprintf("- id=%q title=%q\n", c.ID, c.Title)
	}
	systemPrompt := fmt.Sprintf(`Select which of the following candidates semantically match the search text.
Match meaning, not just substrings.

Candidates:
%s`, list)

	var out struct {
		MatchedIDs []string `json:"matched_ids"`
	}
	if err := i.callTool(ctx, semanticMatchSchema, systemPrompt, searchText, &out); err != nil {
		return nil, err
	}
	return out.MatchedIDs, nil
}
