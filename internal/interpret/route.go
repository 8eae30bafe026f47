package interpret

import (
	"context"

	"agentcal/internal/domain"
	"agentcal/internal/tools"
)

var routeSchema = mustCompile(tools.Spec{
	Name: "route_query",
	Description: "Classify which productivity provider a user's query targets, and whether it concerns a task or an event.",
	Schema: schemaObject(map[string]any{
		"provider": stringProp("The provider this query targets.", "task", "calendar"),
		"intent_type": stringProp("Whether the query concerns a task or an event.", "task", "event"),
	}, []string{"provider", "intent_type"}),
})

const routeSystemPrompt = `You classify a productivity query into exactly one provider and intent type.
Apply these rules in order and stop at the first match:
1. If the query contains the literal word "task", the provider is "task" and intent_type is "task".
2. Else if the query mentions a meeting, appointment, or calendar, OR contains a specific clock time
 (e.g. "at 3pm", "tomorrow morning" counts as a specific time, treated as 09:00), the provider is
 "calendar" and intent_type is "event".
3. Otherwise the provider is "task" and intent_type is "task".
Do not explain your reasoning. Commit to exactly one classification by calling the tool.`

// RouteQuery implements the intent router: a forced
// function-calling classification with no free-form reasoning in the
// output schema, so the model is made to commit to one answer.
func (i *Interpreter) RouteQuery(ctx context.Context, query string) (*domain.RouteIntent, error) {
	var out struct {
		Provider string `json:"provider"`
		IntentType string `json:"intent_type"`
	}
	if err := i.callTool(ctx, routeSchema, routeSystemPrompt, query, &out); err != nil {
		return nil, err
	}
	return &domain.RouteIntent{
		Provider: domain.Provider(out.Provider),
		IntentType: domain.Provider(out.IntentType),
	}, nil
}
