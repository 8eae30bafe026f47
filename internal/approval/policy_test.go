package approval

import (
	"testing"

	"agentcal/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestResolveNoContext(t *testing.T) {
	tests := []struct {
		kind         domain.ActionKind
		wantKind     domain.ActionKind
		wantApproval bool
	}{
		{domain.ActionTaskCreate, domain.ActionTaskCreate, false},
		{domain.ActionTaskUpdate, domain.ActionTaskUpdate, false},
		{domain.ActionTaskComplete, domain.ActionTaskComplete, false},
		{domain.ActionTaskDelete, domain.ActionTaskDelete, false},
		{domain.ActionEventCreate, domain.ActionEventCreate, false},
		{domain.ActionEventUpdate, domain.ActionEventUpdate, false},
		{domain.ActionEventCancel, domain.ActionEventCancel, false},
		{domain.ActionTaskCreateDuplicate, domain.ActionTaskCreateDuplicate, true},
		{domain.ActionEventCreateDuplicate, domain.ActionEventCreateDuplicate, true},
		{domain.ActionEventCreateConflictReschedule, domain.ActionEventCreateConflictReschedule, true},
		{domain.ActionRecurringCreate, domain.ActionRecurringCreate, true},
		{domain.ActionWorkingHoursUpdate, domain.ActionWorkingHoursUpdate, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			gotKind, gotApproval := Resolve(tt.kind, Context{})
			assert.Equal(t, tt.wantKind, gotKind)
			assert.Equal(t, tt.wantApproval, gotApproval)
		})
	}
}

func TestResolveWithParticipantsRewrite(t *testing.T) {
	tests := []struct {
		kind     domain.ActionKind
		wantKind domain.ActionKind
	}{
		{domain.ActionEventCreate, domain.ActionEventCreateWithParticipants},
		{domain.ActionEventUpdate, domain.ActionEventUpdateWithParticipants},
		{domain.ActionEventCancel, domain.ActionEventCancelWithParticipants},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			gotKind, gotApproval := Resolve(tt.kind, Context{HasParticipants: true})
			assert.Equal(t, tt.wantKind, gotKind)
			assert.True(t, gotApproval, "every with-participants variant requires approval")
		})
	}
}

func TestResolveWithParticipantsDoesNotAffectUnrelatedKinds(t *testing.T) {
	gotKind, gotApproval := Resolve(domain.ActionTaskCreate, Context{HasParticipants: true})
	assert.Equal(t, domain.ActionTaskCreate, gotKind)
	assert.False(t, gotApproval)
}

func TestResolveBulkRewrite(t *testing.T) {
	tests := []struct {
		kind     domain.ActionKind
		wantKind domain.ActionKind
	}{
		{domain.ActionTaskComplete, domain.ActionBulkComplete},
		{domain.ActionTaskCancel, domain.ActionBulkCancel},
		{domain.ActionTaskDelete, domain.ActionBulkDelete},
		{domain.ActionTaskUpdate, domain.ActionBulkUpdate},
		{domain.ActionEventCancel, domain.ActionBulkCancel},
		{domain.ActionEventDelete, domain.ActionBulkDelete},
		{domain.ActionEventUpdate, domain.ActionBulkUpdate},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			gotKind, gotApproval := Resolve(tt.kind, Context{IsBulk: true})
			assert.Equal(t, tt.wantKind, gotKind)
			assert.True(t, gotApproval)
		})
	}
}

func TestResolveBulkSubsumesParticipants(t *testing.T) {
	// bulk mode on an event cancel with participants still surfaces as
	// bulk_cancel, not event_cancel_with_participants.
	gotKind, gotApproval := Resolve(domain.ActionEventCancel, Context{IsBulk: true, HasParticipants: true})
	assert.Equal(t, domain.ActionBulkCancel, gotKind)
	assert.True(t, gotApproval)
}

func TestResolveBulkIneligibleKindPassesThrough(t *testing.T) {
	gotKind, gotApproval := Resolve(domain.ActionTaskCreate, Context{IsBulk: true})
	assert.Equal(t, domain.ActionTaskCreate, gotKind)
	assert.False(t, gotApproval)
}

func TestIsBulkQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"delete all my tasks", true},
		{"cancel ALL EVENTS today", true},
		{"mark everything done", true},
		{"complete multiple tasks from this sprint", true},
		{"update the quarterly report task", false},
		{"delete my 3pm meeting", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBulkQuery(tt.query))
		})
	}
}
