// Package domain defines the typed records the pipeline passes between
// stages: TaskDraft/EventDraft, the tagged Intent variants an NL interpreter
// produces, the ActionRecord the approval protocol round-trips, and the
// tagged Response returned to the caller.
package domain

import (
	"fmt"
	"time"
)

// Priority is a task priority level.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// TaskStatus is a task lifecycle state as reported by the task provider.
type TaskStatus string

const (
	TaskStatusNew TaskStatus = "NEW"
	TaskStatusScheduled TaskStatus = "SCHEDULED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusComplete TaskStatus = "COMPLETE"
	TaskStatusCancelled TaskStatus = "CANCELLED"
	TaskStatusArchived TaskStatus = "ARCHIVED"
)

// ActiveTaskStatuses are the statuses eligible for single-entity resolution
// and duplicate detection.
var ActiveTaskStatuses = map[TaskStatus]bool{
	TaskStatusNew: true,
	TaskStatusScheduled: true,
	TaskStatusInProgress: true,
}

// TaskDraft is the payload for creating or describing a task.
type TaskDraft struct {
	Title string
	Notes string
	Priority Priority
	Due *time.Time
	DurationHours float64
	MinWorkHours float64
	MaxWorkHours float64
}

// Validate enforces the TaskDraft invariant: if present, 0 < min <= duration <= max.
func (d *TaskDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("domain: task draft requires a title")
	}
	if d.MinWorkHours > 0 || d.MaxWorkHours > 0 {
		minH, maxH := d.MinWorkHours, d.MaxWorkHours
		if minH <= 0 {
			minH = d.DurationHours
		}
		if maxH <= 0 {
			maxH = d.DurationHours
		}
		if !(minH > 0 && minH <= d.DurationHours && d.DurationHours <= maxH) {
			return fmt.Errorf("domain: task draft requires 0 < min(%v) <= duration(%v) <= max(%v)", minH, d.DurationHours, maxH)
		}
	}
	return nil
}

// ParticipantStatus is the RSVP-like status of an event participant.
type ParticipantStatus string

const (
	ParticipantStatusNoReply ParticipantStatus = "noreply"
	ParticipantStatusYes ParticipantStatus = "yes"
	ParticipantStatusNo ParticipantStatus = "no"
	ParticipantStatusMaybe ParticipantStatus = "maybe"
)

// Participant is a calendar event participant.
type Participant struct {
	Email string
	Name string
	Status ParticipantStatus
}

// EventDraft is the payload for creating or describing an event.
type EventDraft struct {
	Title string
	Start time.Time
	End time.Time
	Participants []Participant
	Location string
	Description string
	RemindersMinutes []int
	Busy bool
}

// Validate enforces the EventDraft invariant: start < end.
func (d *EventDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("domain: event draft requires a title")
	}
	if !d.Start.Before(d.End) {
		return fmt.Errorf("domain: event draft requires start < end")
	}
	return nil
}

// Solo reports whether the event has no participants (solo vs.
// with-participants branch).
func (d *EventDraft) Solo() bool { return len(d.Participants) == 0 }
