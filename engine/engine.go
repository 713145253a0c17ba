// Package engine composes the repository, deadline evaluator, alert
// state machine, notifier, and event bus into the session-scoped task
// deadline engine consumed by the presentation layer.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/overseerhq/overseer/alert"
	"github.com/overseerhq/overseer/clock"
	"github.com/overseerhq/overseer/event"
	"github.com/overseerhq/overseer/notify"
	"github.com/overseerhq/overseer/task"
)

const (
	notifyTitle = "The Overseer"
	notifyBody  = "Task '%s' is overdue! Get back to work."
)

// Config bundles the engine's collaborators and policy.
type Config struct {
	Store    task.Store      // durability sink; nil disables persistence
	Clock    clock.Clock     // defaults to the system clock
	Notifier notify.Notifier // defaults to the OS notifier
	Bus      *event.Bus      // defaults to a fresh bus
	Logger   *slog.Logger

	Tick          time.Duration // evaluation cadence, defaults to 1s
	AlertsEnabled bool          // initial global alerts switch
	AutoOpenURLs  []string      // Force-level escalation targets

	// OpenURL opens a URL in the default browser. Overridable in tests;
	// defaults to notify.OpenURL.
	OpenURL func(url string) error
}

// Engine is the per-session task deadline and alert engine.
type Engine struct {
	repo     *task.Repository
	store    task.Store
	clk      clock.Clock
	notifier notify.Notifier
	bus      *event.Bus
	logger   *slog.Logger

	tick     time.Duration
	openURLs []string
	openURL  func(string) error

	mu      sync.Mutex
	enabled bool
}

// New creates an Engine from cfg. Call Load to materialize persisted
// tasks and Run to start the tick scheduler.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.OSNotifier{}
	}
	if cfg.Bus == nil {
		cfg.Bus = event.NewBus()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	if cfg.OpenURL == nil {
		cfg.OpenURL = notify.OpenURL
	}
	return &Engine{
		repo:     task.NewRepository(cfg.Store, cfg.Clock, cfg.Logger),
		store:    cfg.Store,
		clk:      cfg.Clock,
		notifier: cfg.Notifier,
		bus:      cfg.Bus,
		logger:   cfg.Logger,
		tick:     cfg.Tick,
		openURLs: cfg.AutoOpenURLs,
		openURL:  cfg.OpenURL,
		enabled:  cfg.AlertsEnabled,
	}
}

// Bus returns the engine's event bus for presentation-layer observers.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Load materializes the task collection from the Store. Each task's
// overdue mark is initialized from a fresh evaluation against the
// current clock, so a task already overdue at boot is known overdue
// and does not fire a spurious crossing on the first tick.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	recs, err := e.store.Load()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	now := e.clk.Now()
	tasks := make([]task.Task, 0, len(recs))
	for _, rec := range recs {
		t, err := rec.Task()
		if err != nil {
			return fmt.Errorf("load task %s: %w", rec.ID, err)
		}
		t.LastOverdue = alert.Evaluate(t.Deadline, now).Overdue
		tasks = append(tasks, t)
	}
	e.repo.Load(tasks)
	e.logger.Info("tasks loaded", "count", len(tasks))
	_ = ctx
	return nil
}

// CreateTask adds a new task with the default status and alert level.
func (e *Engine) CreateTask(ctx context.Context, title string, deadline time.Time) (task.Task, error) {
	t, err := e.repo.Create(title, deadline)
	if err != nil {
		return task.Task{}, err
	}
	e.publish(ctx, event.Event{Kind: event.KindTaskCreated, TaskID: t.ID, Title: t.Title, Level: t.AlertLevel, At: e.clk.Now()})
	return t, nil
}

// UpdateTask applies a partial update to the task with the given id.
func (e *Engine) UpdateTask(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	t, err := e.repo.Update(id, p)
	if err != nil {
		return task.Task{}, err
	}
	e.publish(ctx, event.Event{Kind: event.KindTaskUpdated, TaskID: t.ID, Title: t.Title, Level: t.AlertLevel, At: e.clk.Now()})
	return t, nil
}

// DeleteTask removes the task with the given id.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	if err := e.repo.Delete(id); err != nil {
		return err
	}
	e.publish(ctx, event.Event{Kind: event.KindTaskDeleted, TaskID: id, At: e.clk.Now()})
	return nil
}

// ListTasks returns a snapshot of all tasks, newest first.
func (e *Engine) ListTasks() []task.Task {
	return e.repo.List()
}

// CycleAlertLevel advances the task's alert level one step through
// Off -> Visual -> System -> Force -> Off.
func (e *Engine) CycleAlertLevel(ctx context.Context, id string) (task.Task, error) {
	t, err := e.repo.CycleAlertLevel(id)
	if err != nil {
		return task.Task{}, err
	}
	e.publish(ctx, event.Event{Kind: event.KindTaskUpdated, TaskID: t.ID, Title: t.Title, Level: t.AlertLevel, At: e.clk.Now()})
	return t, nil
}

// SetGlobalAlertsEnabled flips the session-wide alerts switch.
func (e *Engine) SetGlobalAlertsEnabled(ctx context.Context, enabled bool) {
	e.mu.Lock()
	changed := e.enabled != enabled
	e.enabled = enabled
	e.mu.Unlock()
	if changed {
		e.publish(ctx, event.Event{Kind: event.KindAlertsToggled, Enabled: enabled, At: e.clk.Now()})
	}
}

// AlertsEnabled reports the current global alerts switch.
func (e *Engine) AlertsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// crossing records a task whose overdue classification flipped to true
// during a sweep.
type crossing struct {
	t        task.Task
	eval     alert.Evaluation
	dispatch bool
}

// Tick runs one evaluation pass over the whole collection: classify
// every task, update its overdue mark, then surface the crossings
// detected. Dispatch side effects happen after the collection lock is
// released; one task's delivery failure never stops the pass.
func (e *Engine) Tick(ctx context.Context) {
	now := e.clk.Now()
	enabled := e.AlertsEnabled()

	var crossings []crossing
	e.repo.Sweep(func(t task.Task) bool {
		ev := alert.Evaluate(t.Deadline, now)
		d := alert.Decide(t, ev.Overdue, enabled)
		if d.State == alert.StateCrossed {
			crossings = append(crossings, crossing{t: t, eval: ev, dispatch: d.Dispatch})
		}
		return ev.Overdue
	})

	for _, c := range crossings {
		e.publish(ctx, event.Event{
			Kind:    event.KindCrossing,
			TaskID:  c.t.ID,
			Title:   c.t.Title,
			Level:   c.t.AlertLevel,
			Overdue: c.eval.Magnitude,
			At:      now,
		})
		if !c.dispatch {
			continue
		}
		body := fmt.Sprintf(notifyBody, c.t.Title)
		if err := e.notifier.Dispatch(ctx, notifyTitle, body); err != nil {
			// Lost for this crossing; the mark is not rolled back.
			e.logger.Warn("alert dispatch failed", "task", c.t.ID, "error", err)
		}
		if c.t.AlertLevel == task.AlertForce {
			e.forceOpen(c.t)
		}
	}
}

// forceOpen escalates a Force-level crossing by opening the first
// configured auto-open URL in the user's browser.
func (e *Engine) forceOpen(t task.Task) {
	if len(e.openURLs) == 0 {
		return
	}
	url := e.openURLs[0]
	if err := e.openURL(url); err != nil {
		e.logger.Warn("force escalation failed", "task", t.ID, "url", url, "error", err)
	}
}

// Run drives the tick scheduler until ctx is canceled. One ticking
// goroutine serves the whole session; there is no per-task timer.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	e.logger.Info("tick scheduler started", "interval", e.tick)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("tick scheduler stopped")
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Close flushes pending persistence and releases the repository.
func (e *Engine) Close() {
	e.repo.Close()
}

func (e *Engine) publish(ctx context.Context, ev event.Event) {
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.logger.Warn("event publish failed", "kind", string(ev.Kind), "error", err)
	}
}
