package domain

import "time"

// Provider identifies which third-party provider an action targets.
type Provider string

const (
	ProviderTask Provider = "task"
	ProviderCalendar Provider = "calendar"
)

// RouteIntent is produced by the intent router.
type RouteIntent struct {
	Provider Provider
	IntentType Provider // "task" or "event"
}

// TaskOperation enumerates the operations a TaskIntent may carry.
type TaskOperation string

const (
	TaskOpCreate TaskOperation = "create"
	TaskOpUpdate TaskOperation = "update"
	TaskOpComplete TaskOperation = "complete"
	TaskOpDelete TaskOperation = "delete"
	TaskOpAddTime TaskOperation = "add_time"
)

// TaskIntent is the structured extraction for a task-provider utterance.
type TaskIntent struct {
	Operation TaskOperation
	Task *TaskDraft
	TaskReference string
	Updates map[string]any
	TimeToAddHours float64
}

// EventOperation enumerates the operations an EventIntent may carry.
type EventOperation string

const (
	EventOpCreate EventOperation = "create"
	EventOpUpdate EventOperation = "update"
	EventOpCancel EventOperation = "cancel"
)

// EventIntent is the structured extraction for a calendar-provider utterance.
type EventIntent struct {
	Operation EventOperation
	Title string
	Start time.Time
	End time.Time
	Participants []string
	Location string
	Description string
	EventReference string
	Updates map[string]any
	// HasExplicitDate reports whether Start/End carry a caller-specified date
	// component, as opposed to a bare time-of-day the handler must splice onto
	// an existing event's date.
	HasExplicitDate bool
}

// AvailabilityKind distinguishes the two check_availability sub-queries.
type AvailabilityKind string

const (
	AvailabilitySpecificTime AvailabilityKind = "specific_time"
	AvailabilityFindSlots AvailabilityKind = "find_slots"
)

// AvailabilityPreferences narrows find_slots results.
type AvailabilityPreferences struct {
	PreferMorning bool
	PreferAfternoon bool
	PreferEvening bool
	EarliestHour int
	LatestHour int
	DeepWork bool
}

// TimeRange is an explicit [Start, End) window.
type TimeRange struct {
	Start time.Time
	End time.Time
}

// AvailabilityIntent is the structured extraction for check_availability.
type AvailabilityIntent struct {
	Kind AvailabilityKind
	At time.Time
	DurationMinutes int
	TimeRange *TimeRange
	Preferences AvailabilityPreferences
}

// SearchScope selects which providers find_and_analyze queries.
type SearchScope string

const (
	SearchScopeTasks SearchScope = "tasks"
	SearchScopeEvents SearchScope = "events"
	SearchScopeBoth SearchScope = "both"
)

// SearchKind enumerates the find_and_analyze query shapes.
type SearchKind string

const (
	SearchViewSchedule SearchKind = "view_schedule"
	SearchFindSpecific SearchKind = "find_specific"
	SearchWorkloadAnalyze SearchKind = "workload_analysis"
	SearchFindOverdue SearchKind = "find_overdue"
)

// NamedTimeRange is one of the recognized relative time windows (
// find_and_analyze specifics).
type NamedTimeRange string

const (
	TimeRangeToday NamedTimeRange = "today"
	TimeRangeTomorrow NamedTimeRange = "tomorrow"
	TimeRangeThisWeek NamedTimeRange = "this_week"
	TimeRangeNextWeek NamedTimeRange = "next_week"
	TimeRangeOverdue NamedTimeRange = "overdue"
)

// SearchIntent is the structured extraction for find_and_analyze.
type SearchIntent struct {
	Intent SearchKind
	Named NamedTimeRange
	SearchText string
	Priority Priority
	Status TaskStatus
	Participants []string
	Scope SearchScope
	IncludeCompleted bool
}

// OptimizationType enumerates the optimize_schedule strategies.
type OptimizationType string

const (
	OptimizeFocusTime OptimizationType = "focus_time"
	OptimizeWorkloadBalance OptimizationType = "workload_balance"
	OptimizeEnergyAlignment OptimizationType = "energy_alignment"
	OptimizePriorityBased OptimizationType = "priority_based"
	OptimizeMeetingReduce OptimizationType = "meeting_reduction"
	OptimizeGeneral OptimizationType = "general"
)

// OptimizationIntent is the structured extraction for optimize_schedule.
type OptimizationIntent struct {
	Type OptimizationType
	Goals []string
	TimeRange TimeRange
	Preferences map[string]any
}
