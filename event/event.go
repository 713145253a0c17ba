// Package event provides the in-process bus that fans engine events
// out to presentation-layer observers. Visual-level alerting is
// rendered from these events; the bus never performs OS-level
// notification itself.
package event

import (
	"context"
	"time"

	"github.com/overseerhq/overseer/task"
)

// Kind identifies the kind of engine event.
type Kind string

const (
	KindCrossing      Kind = "crossing" // a task just became overdue
	KindTaskCreated   Kind = "task_created"
	KindTaskUpdated   Kind = "task_updated"
	KindTaskDeleted   Kind = "task_deleted"
	KindAlertsToggled Kind = "alerts_toggled" // global alerts switch flipped
)

// Event is a single engine occurrence.
type Event struct {
	Kind    Kind            `json:"kind"`
	TaskID  string          `json:"task_id,omitempty"`
	Title   string          `json:"title,omitempty"`
	Level   task.AlertLevel `json:"level,omitempty"`
	Overdue time.Duration   `json:"overdue,omitempty"` // magnitude past the deadline, crossings only
	Enabled bool            `json:"enabled,omitempty"` // alerts_toggled only
	At      time.Time       `json:"at"`
}

// Handler processes a published event.
type Handler func(ctx context.Context, ev Event) error
