package a2a

import "agentcal/internal/pipeline"

// skillDescriptions gives the human-readable metadata for tool.list and the
// agent card. Kept as a literal table rather than derived
// from the dispatcher since the dispatcher only knows capability names, not
// prose descriptions.
var skillDescriptions = []Skill{
	{
		Name: pipeline.CapabilityManageProductivity,
		Description: "Create, update, complete, cancel, or delete tasks and calendar events from natural language, gated by an approval policy",
	},
	{
		Name: pipeline.CapabilityFindAndAnalyze,
		Description: "Search tasks and events by time range, status, participants, or free text, or summarize current workload",
	},
	{
		Name: pipeline.CapabilityCheckAvailability,
		Description: "Check a specific time for conflicts, or find candidate open slots ranked by confidence",
	},
	{
		Name: pipeline.CapabilityOptimizeSchedule,
		Description: "Suggest and, on approval, apply schedule changes that reduce overload or improve focus time",
	},
}

// BuildAgentCard constructs the AgentCard served by agent.card and the
// /.well-known/a2a.json discovery endpoint, advertising whichever of the two
// accepted auth schemes the deployment has configured.
func BuildAgentCard(agentID, version, rpcEndpoint string, devSecretEnabled, oidcEnabled bool) AgentCard {
	schemes := map[string]*SecurityScheme{}
	if devSecretEnabled {
		schemes["devSecret"] = &SecurityScheme{Type: "apiKey", In: "header", Name: "X-A2A-Dev-Secret"}
	}
	if oidcEnabled {
		schemes["oidc"] = &SecurityScheme{Type: "http", Scheme: "bearer"}
	}
	return AgentCard{
		ID: agentID,
		Name: "agentcal",
		Version: version,
		Description: "Conversational task and calendar orchestration agent",
		Capabilities: skillDescriptions,
		RPCEndpoint: rpcEndpoint,
		SecuritySchemes: schemes,
	}
}
