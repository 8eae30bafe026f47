// Package approval implements the pure approval-decision function: a table
// lookup from ActionKind to a yes/no approval requirement, plus the
// context-sensitive rewrites (with_participants, bulk_*) that run before the
// table lookup, and the closed-phrase bulk detector.
package approval

import (
	"strings"

	"agentcal/internal/domain"
)

// requiresApproval is the static approval-requirement table, keyed by the
// resolved ActionKind after any context rewrite has been applied.
var requiresApproval = map[domain.ActionKind]bool{
	domain.ActionTaskCreate: false,
	domain.ActionTaskUpdate: false,
	domain.ActionTaskComplete: false,
	domain.ActionTaskDelete: false,
	domain.ActionTaskCancel: false,

	domain.ActionEventCreate: false,
	domain.ActionEventUpdate: false,
	domain.ActionEventCancel: false,
	domain.ActionEventDelete: false,

	domain.ActionEventCreateWithParticipants: true,
	domain.ActionEventUpdateWithParticipants: true,
	domain.ActionEventCancelWithParticipants: true,

	domain.ActionTaskCreateDuplicate: true,
	domain.ActionEventCreateDuplicate: true,
	domain.ActionEventCreateConflictReschedule: true,

	domain.ActionBulkDelete: true,
	domain.ActionBulkUpdate: true,
	domain.ActionBulkComplete: true,
	domain.ActionBulkReschedule: true,
	domain.ActionBulkCancel: true,

	domain.ActionRecurringCreate: true,
	domain.ActionWorkingHoursUpdate: true,
}

// Context carries the facts the rewrite rules and table lookup need.
type Context struct {
	HasParticipants bool
	IsBulk bool
}

// bulkEligibleKinds are the base kinds the bulk rewrite applies to: it only
// fires when the operation is a complete, cancel, delete, or update.
var bulkEligibleKinds = map[domain.ActionKind]domain.ActionKind{
	domain.ActionTaskComplete: domain.ActionBulkComplete,
	domain.ActionTaskCancel: domain.ActionBulkCancel,
	domain.ActionTaskDelete: domain.ActionBulkDelete,
	domain.ActionTaskUpdate: domain.ActionBulkUpdate,
	domain.ActionEventCancel: domain.ActionBulkCancel,
	domain.ActionEventDelete: domain.ActionBulkDelete,
	domain.ActionEventUpdate: domain.ActionBulkUpdate,
}

// withParticipantsRewrite maps a base create/update/cancel kind to its
// with-participants variant.
var withParticipantsRewrite = map[domain.ActionKind]domain.ActionKind{
	domain.ActionEventCreate: domain.ActionEventCreateWithParticipants,
	domain.ActionEventUpdate: domain.ActionEventUpdateWithParticipants,
	domain.ActionEventCancel: domain.ActionEventCancelWithParticipants,
}

// Resolve applies the context-sensitive rewrites and then looks up the
// resulting kind in the approval table, returning the rewritten kind and
// whether it requires approval. The bulk rewrite is checked first — a bulk
// operation on events-with-participants still surfaces as bulk_*, since bulk
// mode subsumes the participant distinction.
func Resolve(kind domain.ActionKind, ctx Context) (domain.ActionKind, bool) {
	resolved := kind
	if ctx.IsBulk {
		if bulkKind, ok := bulkEligibleKinds[kind]; ok {
			resolved = bulkKind
		}
	} else if ctx.HasParticipants {
		if withKind, ok := withParticipantsRewrite[kind]; ok {
			resolved = withKind
		}
	}
	return resolved, requiresApproval[resolved]
}

// bulkPhrases is the closed phrase list that triggers bulk mode. Matching is
// case-insensitive substring on the normalized query.
var bulkPhrases = []string{
	"all tasks", "all of them", "all my tasks", "every task",
	"multiple tasks", "many tasks", "everything", "all the",
	"all events", "all my events", "every event", "all meetings", "all my meetings",
}

// IsBulkQuery reports whether query contains one of the closed bulk phrases.
func IsBulkQuery(query string) bool {
	q := strings.ToLower(query)
	for _, p := range bulkPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}
