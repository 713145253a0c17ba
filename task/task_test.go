package task

import (
	"testing"
	"time"
)

func TestAlertLevel_CycleBijection(t *testing.T) {
	// Applying the cycle four times returns the original level, for
	// every starting level.
	seen := make(map[AlertLevel]bool)
	for start := AlertOff; start <= AlertForce; start++ {
		l := start
		for i := 0; i < 4; i++ {
			l = l.Next()
			if !l.Valid() {
				t.Fatalf("Next from %v left the enum: %v", start, l)
			}
		}
		if l != start {
			t.Errorf("cycle^4(%v) = %v, want %v", start, l, start)
		}
		seen[start.Next()] = true
	}
	if len(seen) != 4 {
		t.Errorf("Next is not a bijection: %d distinct images, want 4", len(seen))
	}
}

func TestAlertLevel_CycleOrder(t *testing.T) {
	want := []AlertLevel{AlertVisual, AlertSystem, AlertForce, AlertOff}
	l := AlertOff
	for i, w := range want {
		l = l.Next()
		if l != w {
			t.Fatalf("step %d: got %v, want %v", i, l, w)
		}
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	deadline := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	orig := Task{
		ID:         "id-1",
		Title:      "Ship report",
		Deadline:   deadline,
		Status:     StatusDone,
		AlertLevel: AlertForce,
	}

	got, err := orig.Record().Task()
	if err != nil {
		t.Fatalf("Task from record: %v", err)
	}
	if got.ID != orig.ID || got.Title != orig.Title {
		t.Errorf("identity fields changed: %+v", got)
	}
	if !got.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v, want %v", got.Deadline, deadline)
	}
	if got.Status != StatusDone || got.AlertLevel != AlertForce {
		t.Errorf("Status/AlertLevel = %v/%v, want done/force", got.Status, got.AlertLevel)
	}
	if got.LastOverdue {
		t.Error("LastOverdue should not round-trip through the wire form")
	}
}

func TestRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"bad deadline", Record{ID: "x", Title: "t", Deadline: "yesterday", Status: "todo", AlertLevel: 1}},
		{"bad status", Record{ID: "x", Title: "t", Deadline: "2026-01-01T00:00:00Z", Status: "later", AlertLevel: 1}},
		{"level too high", Record{ID: "x", Title: "t", Deadline: "2026-01-01T00:00:00Z", Status: "todo", AlertLevel: 4}},
		{"level negative", Record{ID: "x", Title: "t", Deadline: "2026-01-01T00:00:00Z", Status: "todo", AlertLevel: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.rec.Task(); !IsValidation(err) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}
