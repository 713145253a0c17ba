// Package alert implements deadline evaluation and the per-tick alert
// state machine that detects overdue crossings and decides whether a
// dispatch is owed.
package alert

import "time"

// Evaluation is the temporal classification of a deadline at an instant.
type Evaluation struct {
	// Overdue is true once the instant has passed the deadline.
	Overdue bool

	// Magnitude is the absolute distance to the deadline, used by the
	// presentation layer as a countdown or countup. Always >= 0.
	Magnitude time.Duration
}

// Evaluate classifies deadline against now. Pure: same inputs, same
// result, no hidden state.
func Evaluate(deadline, now time.Time) Evaluation {
	d := now.Sub(deadline)
	overdue := d > 0
	if d < 0 {
		d = -d
	}
	return Evaluation{Overdue: overdue, Magnitude: d}
}
