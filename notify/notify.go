// Package notify delivers user-visible alerts through the host OS and
// opens the default browser for forced escalation.
package notify

import "context"

// Notifier delivers an alert for a task. Implementations are external
// collaborators; delivery failures are reported, not retried.
type Notifier interface {
	Dispatch(ctx context.Context, title, body string) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, title, body string) error

// Dispatch calls f.
func (f Func) Dispatch(ctx context.Context, title, body string) error {
	return f(ctx, title, body)
}
