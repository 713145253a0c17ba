// Package task defines the task model, its alert-level cycle, and the
// in-memory repository that owns canonical task state.
package task

import "time"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusDone
}

// AlertLevel is the ordinal alert severity of a task.
type AlertLevel int

const (
	AlertOff    AlertLevel = 0 // never surfaced
	AlertVisual AlertLevel = 1 // rendered by the presentation layer only
	AlertSystem AlertLevel = 2 // OS notification on crossing
	AlertForce  AlertLevel = 3 // OS notification plus forced escalation
)

// Next returns the following level in the fixed cycle
// Off -> Visual -> System -> Force -> Off.
func (l AlertLevel) Next() AlertLevel {
	return (l + 1) % 4
}

// Valid reports whether l is within the closed enum.
func (l AlertLevel) Valid() bool {
	return l >= AlertOff && l <= AlertForce
}

func (l AlertLevel) String() string {
	switch l {
	case AlertOff:
		return "off"
	case AlertVisual:
		return "visual"
	case AlertSystem:
		return "system"
	case AlertForce:
		return "force"
	}
	return "unknown"
}

// Task is a unit of tracked work with a deadline and alert policy.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Deadline   time.Time  `json:"deadline"`
	Status     Status     `json:"status"`
	AlertLevel AlertLevel `json:"alertLevel"`

	// LastOverdue is the overdue classification as of the previous
	// evaluation. The tick path compares the fresh classification
	// against it to detect a crossing, then overwrites it as the
	// final step of the tick. Session-local, not user-facing.
	LastOverdue bool `json:"-"`
}

// Record is the wire and persisted form of a Task.
type Record struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Deadline   string `json:"deadline"` // RFC3339
	Status     string `json:"status"`
	AlertLevel int    `json:"alertLevel"`
}

// Record converts the task to its wire form.
func (t Task) Record() Record {
	return Record{
		ID:         t.ID,
		Title:      t.Title,
		Deadline:   t.Deadline.UTC().Format(time.RFC3339),
		Status:     string(t.Status),
		AlertLevel: int(t.AlertLevel),
	}
}

// Task converts a wire record back to a Task. The deadline must parse
// as RFC3339 and status/alertLevel must be within their enums.
func (r Record) Task() (Task, error) {
	deadline, err := time.Parse(time.RFC3339, r.Deadline)
	if err != nil {
		return Task{}, &ValidationError{Field: "deadline", Reason: "not RFC3339: " + r.Deadline}
	}
	status := Status(r.Status)
	if !status.Valid() {
		return Task{}, &ValidationError{Field: "status", Reason: "unknown status " + r.Status}
	}
	level := AlertLevel(r.AlertLevel)
	if !level.Valid() {
		return Task{}, &ValidationError{Field: "alertLevel", Reason: "out of range"}
	}
	return Task{
		ID:         r.ID,
		Title:      r.Title,
		Deadline:   deadline,
		Status:     status,
		AlertLevel: level,
	}, nil
}
