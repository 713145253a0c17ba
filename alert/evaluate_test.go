package alert

import (
	"testing"
	"time"
)

func TestEvaluate_Monotonic(t *testing.T) {
	deadline := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	// Sweep across the deadline: overdue must flip false->true exactly
	// once and stay true.
	flipped := false
	for offset := -10 * time.Second; offset <= 10*time.Second; offset += time.Second {
		now := deadline.Add(offset)
		ev := Evaluate(deadline, now)
		if ev.Overdue && !flipped {
			flipped = true
		}
		if flipped && !ev.Overdue {
			t.Fatalf("overdue regressed at offset %v", offset)
		}
		if offset < 0 && ev.Overdue {
			t.Errorf("overdue before deadline at offset %v", offset)
		}
		if offset > 0 && !ev.Overdue {
			t.Errorf("not overdue after deadline at offset %v", offset)
		}
	}
	if !flipped {
		t.Error("overdue never became true")
	}
}

func TestEvaluate_AtDeadline(t *testing.T) {
	deadline := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	if Evaluate(deadline, deadline).Overdue {
		t.Error("the deadline instant itself is not overdue")
	}
}

func TestEvaluate_Magnitude(t *testing.T) {
	deadline := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		offset time.Duration
		want   time.Duration
	}{
		{-90 * time.Second, 90 * time.Second},
		{0, 0},
		{42 * time.Second, 42 * time.Second},
	}
	for _, tt := range tests {
		ev := Evaluate(deadline, deadline.Add(tt.offset))
		if ev.Magnitude != tt.want {
			t.Errorf("offset %v: Magnitude = %v, want %v", tt.offset, ev.Magnitude, tt.want)
		}
		if ev.Magnitude < 0 {
			t.Errorf("offset %v: negative magnitude", tt.offset)
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	deadline := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	now := deadline.Add(3 * time.Second)
	first := Evaluate(deadline, now)
	for i := 0; i < 5; i++ {
		if got := Evaluate(deadline, now); got != first {
			t.Fatalf("Evaluate not deterministic: %+v vs %+v", got, first)
		}
	}
}
