// Package statemachine names the action lifecycle states a single capability
// invocation moves through. No other package imports it: the pipeline
// dispatcher neither names spans after these states nor checks handler
// progress against the transition table.
package statemachine

// State is one stage of the action lifecycle.
type State string

const (
	// StateFresh is the initial state for a request with no action_data.
	StateFresh State = "fresh"
	// StateInterpreted follows a successful NL interpretation.
	StateInterpreted State = "interpreted"
	// StateChecked follows duplicate/conflict safety checks.
	StateChecked State = "checked"
	// StatePendingApproval is reached when the approval gate requires consent.
	StatePendingApproval State = "pending_approval"
	// StateExecuted is reached after a successful provider mutation.
	StateExecuted State = "executed"
	// StateRejected is reached when an approval was declined by the caller.
	StateRejected State = "rejected"
	// StateFailed is reached on any handler error.
	StateFailed State = "failed"
)

// transitions is the set of state pairs a handler may legally traverse. It
// exists to document the lifecycle, not to gate execution at runtime — the
// handlers themselves are straight-line code, not a generic driver loop.
var transitions = map[State][]State{
	StateFresh: {StateInterpreted, StateFailed},
	StateInterpreted: {StateChecked, StateFailed},
	StateChecked: {StatePendingApproval, StateExecuted, StateFailed},
	StatePendingApproval: {StateExecuted, StateRejected, StateFailed},
}

// CanTransition reports whether moving from `from` to `to` is a legal step
// in the action lifecycle.
func CanTransition(from, to State) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
