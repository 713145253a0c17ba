package alert

import "github.com/overseerhq/overseer/task"

// State is a task's derived alert state for one tick. It is computed
// fresh each pass; only the task's overdue mark carries between ticks.
type State string

const (
	// StatePending means the task is not yet overdue.
	StatePending State = "pending"

	// StateCrossed means the task became overdue since the previous
	// evaluation. This is the only state that can owe a dispatch.
	StateCrossed State = "crossed"

	// StateOverdue means the task was already overdue on a prior tick.
	StateOverdue State = "overdue"

	// StateSuppressed means alerting is frozen: the task is done, its
	// level is Off, or alerts are globally disabled.
	StateSuppressed State = "suppressed"
)

// Decision is the outcome of one state machine step for one task.
type Decision struct {
	State State

	// Dispatch is true when a Notifier call is owed this tick: a fresh
	// crossing with alerts globally enabled and level >= System.
	// Visual-level crossings are rendered by the presentation layer
	// from the overdue classification and never reach the Notifier.
	Dispatch bool
}

// Decide runs one step of the alert state machine for a task. t's
// LastOverdue is the classification from the previous tick; nowOverdue
// is the fresh one. Pure: the caller writes nowOverdue back to the
// task as the final step of the tick, after this decision.
func Decide(t task.Task, nowOverdue, globalEnabled bool) Decision {
	crossed := nowOverdue && !t.LastOverdue

	switch {
	case t.Status == task.StatusDone,
		t.AlertLevel == task.AlertOff,
		!globalEnabled:
		return Decision{State: StateSuppressed}
	case !nowOverdue:
		return Decision{State: StatePending}
	case crossed:
		return Decision{
			State:    StateCrossed,
			Dispatch: t.AlertLevel >= task.AlertSystem,
		}
	default:
		// Remained overdue: at most one dispatch per crossing, never a
		// repeating alarm.
		return Decision{State: StateOverdue}
	}
}
