package interpret

import (
	"context"
	"fmt"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/tools"
)

var availabilitySchema = mustCompile(tools.Spec{
	Name: "parse_availability_intent",
	Description: "Extract a structured availability query from a user request.",
	Schema: schemaObject(map[string]any{
		"kind": stringProp("Whether this checks one specific instant or searches for slots.", "specific_time", "find_slots"),
		"at": stringProp("The specific instant to check, RFC3339, for kind=specific_time."),
		"duration_minutes": numberProp("Requested duration in minutes."),
		"range_start": stringProp("Start of an explicit search window, RFC3339, if given."),
		"range_end": stringProp("End of an explicit search window, RFC3339, if given."),
		"prefer_morning": boolProp("True if the user prefers mornings."),
		"prefer_afternoon": boolProp("True if the user prefers afternoons."),
		"prefer_evening": boolProp("True if the user prefers evenings."),
		"deep_work": boolProp("True if the user wants a long uninterrupted block."),
	}, []string{"kind", "duration_minutes"}),
})

// ParseAvailabilityIntent extracts a structured availability query: either a
// specific time to check, or a duration plus preferences to search for open
// slots.
func (i *Interpreter) ParseAvailabilityIntent(ctx context.Context, query string, now time.Time) (*domain.AvailabilityIntent, error) {
	systemPrompt := fmt.Sprintf(`You extract a structured availability query. The current date and time is %s.
"specific_time" queries ask whether one instant is free; "find_slots" queries search for open time
in a window, optionally with morning/afternoon/evening/deep-work preferences.`, now.Format(time.RFC3339))

	var out struct {
		Kind string `json:"kind"`
		At string `json:"at"`
		DurationMinutes int `json:"duration_minutes"`
		RangeStart string `json:"range_start"`
		RangeEnd string `json:"range_end"`
		PreferMorning bool `json:"prefer_morning"`
		PreferAfternoon bool `json:"prefer_afternoon"`
		PreferEvening bool `json:"prefer_evening"`
		DeepWork bool `json:"deep_work"`
	}
	if err := i.callTool(ctx, availabilitySchema, systemPrompt, query, &out); err != nil {
		return nil, err
	}

	intent := &domain.AvailabilityIntent{
		Kind: domain.AvailabilityKind(out.Kind),
		DurationMinutes: out.DurationMinutes,
		Preferences: domain.AvailabilityPreferences{
			PreferMorning: out.PreferMorning,
			PreferAfternoon: out.PreferAfternoon,
			PreferEvening: out.PreferEvening,
			DeepWork: out.DeepWork,
		},
	}
	if out.At != "" {
		if t, err := time.ParseInLocation(time.RFC3339, out.At, now.Location()); err == nil {
			intent.At = t
		}
	}
	if out.RangeStart != "" && out.RangeEnd != "" {
		start, errS := time.ParseInLocation(time.RFC3339, out.RangeStart, now.Location())
		end, errE := time.ParseInLocation(time.RFC3339, out.RangeEnd, now.Location())
		if errS == nil && errE == nil {
			intent.TimeRange = &domain.TimeRange{Start: start, End: end}
		}
	}
	return intent, nil
}
