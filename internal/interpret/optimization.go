package interpret

import (
	"context"
	"fmt"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/tools"
)

var optimizationSchema = mustCompile(tools.Spec{
	Name: "parse_optimization_intent",
	Description: "Extract a structured schedule-optimization request from a user query.",
	Schema: schemaObject(map[string]any{
		"type": stringProp("The optimization strategy requested.", "focus_time", "workload_balance", "energy_alignment", "priority_based", "meeting_reduction", "general"),
		"goals": arrayOfStringsProp("Specific goals the user mentioned."),
		"range_start": stringProp("Start of the time range to optimize, RFC3339."),
		"range_end": stringProp("End of the time range to optimize, RFC3339."),
	}, []string{"type", "range_start", "range_end"}),
})

// ParseOptimizationIntent parses the strategy and time range for
// optimize_schedule from the query.
func (i *Interpreter) ParseOptimizationIntent(ctx context.Context, query string, now time.Time) (*domain.OptimizationIntent, error) {
	systemPrompt := fmt.Sprintf(`You extract a structured schedule-optimization request. The current date and
time is %s. If no explicit range is given, default to the next 7 days.`, now.Format(time.RFC3339))

	var out struct {
		Type string `json:"type"`
		Goals []string `json:"goals"`
		RangeStart string `json:"range_start"`
		RangeEnd string `json:"range_end"`
	}
	if err := i.callTool(ctx, optimizationSchema, systemPrompt, query, &out); err != nil {
		return nil, err
	}
	intent := &domain.OptimizationIntent{
		Type: domain.OptimizationType(out.Type),
		Goals: out.Goals,
		TimeRange: domain.TimeRange{
			Start: now,
			End: now.AddDate(0, 0, 7),
		},
	}
	if start, err := time.ParseInLocation(time.RFC3339, out.RangeStart, now.Location()); err == nil {
		intent.TimeRange.Start = start
	}
	if end, err := time.ParseInLocation(time.RFC3339, out.RangeEnd, now.Location()); err == nil {
		intent.TimeRange.End = end
	}
	return intent, nil
}

var suggestionsSchema = mustCompile(tools.Spec{
	Name: "generate_suggestions",
	Description: "Propose up to N concrete schedule-optimization actions referencing actual item titles.",
	Schema: schemaObject(map[string]any{
		"suggestions": map[string]any{
			"type": "array",
			"description": "Concrete, specific optimization suggestions.",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": stringProp("Which optimization strategy this suggestion serves."),
					"action": stringProp("Short human-readable description of the action."),
					"command": objectProp("Machine-applyable command the handler can execute on approval."),
					"impact": stringProp("Expected impact of applying this suggestion."),
					"reasoning": stringProp("Why this suggestion was chosen."),
					"affects_others": boolProp("True if applying this suggestion changes a meeting involving other participants."),
				},
				"required": []string{"type", "action", "impact", "reasoning", "affects_others"},
			},
		},
	}, []string{"suggestions"}),
})

// GenerateSuggestions asks the optimization interpreter for up to maxN
// specific suggestions given a computed schedule summary.
func (i *Interpreter) GenerateSuggestions(ctx context.Context, goals []string, summary string, maxN int) ([]domain.OptimizationSuggestion, error) {
	systemPrompt := fmt.Sprintf(`Propose up to %d specific, concrete schedule-optimization suggestions based on
the summary below. Reference actual item titles, never generic advice. Goals: %v.

%s`, maxN, goals, summary)

	var out struct {
		Suggestions []struct {
			Type string `json:"type"`
			Action string `json:"action"`
			Command map[string]any `json:"command"`
			Impact string `json:"impact"`
			Reasoning string `json:"reasoning"`
			AffectsOthers bool `json:"affects_others"`
		} `json:"suggestions"`
	}
	if err := i.callTool(ctx, suggestionsSchema, systemPrompt, summary, &out); err != nil {
		return nil, err
	}
	suggestions := make([]domain.OptimizationSuggestion, 0, len(out.Suggestions))
	for _, s := range out.Suggestions {
		if len(suggestions) >= maxN {
			break
		}
		suggestions = append(suggestions, domain.OptimizationSuggestion{
			Type: domain.OptimizationType(s.Type),
			Action: s.Action,
			Command: s.Command,
			Impact: s.Impact,
			Reasoning: s.Reasoning,
			AffectsOthers: s.AffectsOthers,
		})
	}
	return suggestions, nil
}
