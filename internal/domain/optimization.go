package domain

import "time"

// SlotCandidate is one ranked result from the check_availability find_slots
// search.
type SlotCandidate struct {
	Start time.Time `json:"start"`
	End time.Time `json:"end"`
	Confidence float64 `json:"confidence"`
	OutsidePreferredHours bool `json:"outside_preferred_hours"`
}

// OptimizationSuggestion is one concrete, actionable item produced by the
// optimization interpreter. Command
// is a machine-applyable encoding of Action; the handler dispatches on Type
// to apply it (task-update, event-update, or event-create with busy=true).
type OptimizationSuggestion struct {
	Type OptimizationType `json:"type"`
	Action string `json:"action"`
	Command map[string]any `json:"command"`
	Impact string `json:"impact"`
	Reasoning string `json:"reasoning"`
	AffectsOthers bool `json:"affects_others"`
}
