package interpret

import (
	"context"
	"fmt"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/tools"
)

var taskSchema = mustCompile(tools.Spec{
	Name: "parse_task_intent",
	Description: "Extract a structured task operation from a user query.",
	Schema: schemaObject(map[string]any{
		"operation": stringProp("The task operation requested.", "create", "update", "complete", "delete", "add_time"),
		"title": stringProp("Task title, for create/update."),
		"notes": stringProp("Free-form notes for the task."),
		"priority": stringProp("Task priority.", "P1", "P2", "P3", "P4"),
		"due": stringProp("Due date/time in RFC3339, if mentioned."),
		"duration_hours": numberProp("Estimated duration in hours."),
		"task_reference": stringProp("Free-text reference to an existing task, for update/complete/delete/add_time."),
		"time_to_add_hours": numberProp("Hours to add to an existing task's duration, for add_time."),
	}, []string{"operation"}),
})

// ParseTaskIntent implements the domain-specific parse for task-provider
// utterances.
func (i *Interpreter) ParseTaskIntent(ctx context.Context, query string, now time.Time) (*domain.TaskIntent, error) {
	systemPrompt := fmt.Sprintf(`You extract a structured task operation from a user request. The current date
and time is %s. Resolve relative dates (e.g. "by Friday", "tomorrow") against it. Only populate
fields the user actually specified; omit the rest.`, now.Format(time.RFC3339))

	var out struct {
		Operation string `json:"operation"`
		Title string `json:"title"`
		Notes string `json:"notes"`
		Priority string `json:"priority"`
		Due string `json:"due"`
		DurationHours float64 `json:"duration_hours"`
		TaskReference string `json:"task_reference"`
		TimeToAddHours float64 `json:"time_to_add_hours"`
	}
	if err := i.callTool(ctx, taskSchema, systemPrompt, query, &out); err != nil {
		return nil, err
	}

	intent := &domain.TaskIntent{
		Operation: domain.TaskOperation(out.Operation),
		TaskReference: out.TaskReference,
		TimeToAddHours: out.TimeToAddHours,
	}
	if out.Title != "" {
		draft := &domain.TaskDraft{
			Title: out.Title,
			Notes: out.Notes,
			Priority: domain.Priority(out.Priority),
			DurationHours: out.DurationHours,
		}
		if out.Due != "" {
			if due, err := time.Parse(time.RFC3339, out.Due); err == nil {
				draft.Due = &due
			}
		}
		intent.Task = draft
	}
	return intent, nil
}
