package interpret

import (
	"context"
	"fmt"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/tools"
)

var eventSchema = mustCompile(tools.Spec{
	Name: "parse_event_intent",
	Description: "Extract a structured calendar event operation from a user query.",
	Schema: schemaObject(map[string]any{
		"operation": stringProp("The event operation requested.", "create", "update", "cancel"),
		"title": stringProp("Event title."),
		"start": stringProp("Event start in RFC3339, if a full date+time was specified."),
		"end": stringProp("Event end in RFC3339, if known."),
		"has_explicit_date": boolProp("True if the user specified a calendar date, false if only a time-of-day was given."),
		"participants": arrayOfStringsProp("Participant names or emails mentioned."),
		"location": stringProp("Event location, if mentioned."),
		"description": stringProp("Event description, if mentioned."),
		"event_reference": stringProp("Free-text reference to an existing event, for update/cancel."),
	}, []string{"operation", "has_explicit_date"}),
})

// ParseEventIntent implements the domain-specific parse for calendar-provider
// utterances. Start/End are the model's RFC3339 values, parsed as given; this
// function does no splicing. When the user gave only a time-of-day
// (has_explicit_date=false), the prompt has the model put it on today's date
// as a placeholder, and callers splice the time onto the date they need
// (`now`'s date for creation, the original event's date for updates).
func (i *Interpreter) ParseEventIntent(ctx context.Context, query string, now time.Time) (*domain.EventIntent, error) {
	systemPrompt := fmt.Sprintf(`You extract a structured calendar event operation from a user request. The
current date and time is %s. Resolve relative dates (e.g. "tomorrow", "next Tuesday") against it.
If the user gives only a time of day with no explicit date ("at 3pm"), set has_explicit_date=false
and still return a start/end using today's date as a placeholder; the caller will re-splice the
time onto the correct date. Only populate fields the user specified.`, now.Format(time.RFC3339))

	var out struct {
		Operation string `json:"operation"`
		Title string `json:"title"`
		Start string `json:"start"`
		End string `json:"end"`
		HasExplicitDate bool `json:"has_explicit_date"`
		Participants []string `json:"participants"`
		Location string `json:"location"`
		Description string `json:"description"`
		EventReference string `json:"event_reference"`
	}
	if err := i.callTool(ctx, eventSchema, systemPrompt, query, &out); err != nil {
		return nil, err
	}

	intent := &domain.EventIntent{
		Operation: domain.EventOperation(out.Operation),
		Title: out.Title,
		Participants: out.Participants,
		Location: out.Location,
		Description: out.Description,
		EventReference: out.EventReference,
		HasExplicitDate: out.HasExplicitDate,
	}
	if out.Start != "" {
		if t, err := time.ParseInLocation(time.RFC3339, out.Start, now.Location()); err == nil {
			intent.Start = t
		}
	}
	if out.End != "" {
		if t, err := time.ParseInLocation(time.RFC3339, out.End, now.Location()); err == nil {
			intent.End = t
		}
	}
	return intent, nil
}

// SpliceTimeOfDay replaces t's date with date's date, keeping t's
// hour/minute/second — the merge rule requires when the model
// returned only a time-of-day against the wrong placeholder date.
func SpliceTimeOfDay(t, date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}
