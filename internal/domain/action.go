package domain

import "encoding/json"

// ActionKind identifies one branch of the approval decision table and
// doubles as the discriminator of ActionRecord.
type ActionKind string

const (
	ActionTaskCreate ActionKind = "task_create"
	ActionTaskUpdate ActionKind = "task_update"
	ActionTaskComplete ActionKind = "task_complete"
	ActionTaskDelete ActionKind = "task_delete"
	ActionTaskCancel ActionKind = "task_cancel"

	ActionEventCreate ActionKind = "event_create"
	ActionEventUpdate ActionKind = "event_update"
	ActionEventCancel ActionKind = "event_cancel"
	ActionEventDelete ActionKind = "event_delete"

	ActionEventCreateWithParticipants ActionKind = "event_create_with_participants"
	ActionEventUpdateWithParticipants ActionKind = "event_update_with_participants"
	ActionEventCancelWithParticipants ActionKind = "event_cancel_with_participants"

	ActionTaskCreateDuplicate ActionKind = "task_create_duplicate"
	ActionEventCreateDuplicate ActionKind = "event_create_duplicate"
	ActionEventCreateConflictReschedule ActionKind = "event_create_conflict_reschedule"

	ActionBulkDelete ActionKind = "bulk_delete"
	ActionBulkUpdate ActionKind = "bulk_update"
	ActionBulkComplete ActionKind = "bulk_complete"
	ActionBulkReschedule ActionKind = "bulk_reschedule"
	ActionBulkCancel ActionKind = "bulk_cancel"

	ActionRecurringCreate ActionKind = "recurring_create"
	ActionWorkingHoursUpdate ActionKind = "working_hours_update"
)

// Preview is the human-readable summary attached to an ActionRecord so the
// caller can render an approval prompt without re-deriving the decision.
type Preview struct {
	Summary string `json:"summary"`
	Details map[string]any `json:"details,omitempty"`
	Risks []string `json:"risks,omitempty"`
}

// ActionRecord is the unit the approval protocol acts on. The entire record
// is echoed back to the caller in the NeedsApproval response's action_data
// field and carried verbatim in the next RPC; it is never persisted
// server-side.
type ActionRecord struct {
	Kind ActionKind `json:"kind"`
	Params json.RawMessage `json:"params"`
	Intent json.RawMessage `json:"intent"`
	Draft json.RawMessage `json:"draft,omitempty"`
	Preview Preview `json:"preview"`
}
