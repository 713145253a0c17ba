package task

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/overseerhq/overseer/clock"
)

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Title      *string
	Deadline   *time.Time
	Status     *Status
	AlertLevel *AlertLevel
}

// Repository is the sole owner of canonical task state for a session.
// All reads and writes of a task's mutable fields go through it; a
// coarse collection lock serializes user mutations against the tick
// sweep. Committed mutations are written through to the Store by a
// single background writer that always persists the latest snapshot,
// so a slow write can never overwrite a later edit.
type Repository struct {
	mu    sync.Mutex
	tasks []*Task // insertion order, newest first
	index map[string]*Task

	clock  clock.Clock
	store  Store
	logger *slog.Logger

	pending chan []Record // latest-wins slot for the writer
	done    chan struct{}
	closed  bool
}

// NewRepository creates a Repository backed by store. A nil store
// disables persistence (in-memory session only).
func NewRepository(store Store, clk clock.Clock, logger *slog.Logger) *Repository {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Repository{
		index:   make(map[string]*Task),
		clock:   clk,
		store:   store,
		logger:  logger,
		pending: make(chan []Record, 1),
		done:    make(chan struct{}),
	}
	if store != nil {
		go r.writeLoop()
	} else {
		close(r.done)
	}
	return r
}

// Create validates and inserts a new task at the front of the
// collection. The task starts as todo at the Visual alert level; its
// overdue mark is computed against the clock now, so a task created
// already past its deadline does not register a crossing on the next
// tick.
func (r *Repository) Create(title string, deadline time.Time) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if deadline.IsZero() {
		return Task{}, &ValidationError{Field: "deadline", Reason: "must be a valid instant"}
	}

	now := r.clock.Now()
	t := &Task{
		ID:          uuid.NewString(),
		Title:       title,
		Deadline:    deadline,
		Status:      StatusTodo,
		AlertLevel:  AlertVisual,
		LastOverdue: now.After(deadline),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append([]*Task{t}, r.tasks...)
	r.index[t.ID] = t
	r.scheduleSaveLocked()
	return *t, nil
}

// Update applies the non-nil fields of p to the task with the given id.
func (r *Repository) Update(id string, p Patch) (Task, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return Task{}, &ValidationError{Field: "deadline", Reason: "must be a valid instant"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return Task{}, &ValidationError{Field: "status", Reason: "unknown status " + string(*p.Status)}
	}
	if p.AlertLevel != nil && !p.AlertLevel.Valid() {
		return Task{}, &ValidationError{Field: "alertLevel", Reason: "out of range"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.index[id]
	if !ok {
		return Task{}, notFound(id)
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AlertLevel != nil {
		t.AlertLevel = *p.AlertLevel
	}
	r.scheduleSaveLocked()
	return *t, nil
}

// Delete removes the task with the given id. A second delete of the
// same id fails with ErrNotFound; callers treat that as non-fatal.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[id]; !ok {
		return notFound(id)
	}
	delete(r.index, id)
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			break
		}
	}
	r.scheduleSaveLocked()
	return nil
}

// CycleAlertLevel advances the task's alert level one step through the
// fixed cycle. This is the only way alertLevel changes.
func (r *Repository) CycleAlertLevel(id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.index[id]
	if !ok {
		return Task{}, notFound(id)
	}
	t.AlertLevel = t.AlertLevel.Next()
	r.scheduleSaveLocked()
	return *t, nil
}

// Get returns a snapshot of the task with the given id.
func (r *Repository) Get(id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.index[id]
	if !ok {
		return Task{}, notFound(id)
	}
	return *t, nil
}

// List returns a snapshot of all tasks, newest first. Safe to call
// while the tick sweep runs.
func (r *Repository) List() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = *t
	}
	return out
}

// Load replaces the entire collection, preserving the given order.
// The caller is responsible for having computed each task's
// LastOverdue against the current clock. No persistence write is
// scheduled; the snapshot just came from the Store.
func (r *Repository) Load(tasks []Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = make([]*Task, len(tasks))
	r.index = make(map[string]*Task, len(tasks))
	for i := range tasks {
		t := tasks[i]
		r.tasks[i] = &t
		r.index[t.ID] = &t
	}
}

// Sweep runs one evaluation pass. For each task, fn receives a
// snapshot (including the previous LastOverdue) and returns the fresh
// overdue classification, which Sweep stores as the new LastOverdue.
// fn must be pure: the collection lock is held for the whole pass so
// the read-decide-write of each task's mark is atomic with respect to
// concurrent user mutation.
func (r *Repository) Sweep(fn func(Task) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		t.LastOverdue = fn(*t)
	}
}

// Records returns the collection snapshot in wire form.
func (r *Repository) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordsLocked()
}

// Close flushes any pending persistence write and stops the writer.
func (r *Repository) Close() {
	r.mu.Lock()
	if r.closed || r.store == nil {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.pending)
	r.mu.Unlock()
	<-r.done
}

func (r *Repository) recordsLocked() []Record {
	recs := make([]Record, len(r.tasks))
	for i, t := range r.tasks {
		recs[i] = t.Record()
	}
	return recs
}

// scheduleSaveLocked hands the current snapshot to the writer,
// replacing any unsent older snapshot. Called with mu held.
func (r *Repository) scheduleSaveLocked() {
	if r.store == nil || r.closed {
		return
	}
	recs := r.recordsLocked()
	for {
		select {
		case r.pending <- recs:
			return
		default:
		}
		// Slot occupied by a stale snapshot; discard it.
		select {
		case <-r.pending:
		default:
		}
	}
}

func (r *Repository) writeLoop() {
	defer close(r.done)
	for recs := range r.pending {
		if err := r.store.Save(recs); err != nil {
			// Durability failed but the in-memory edit stands.
			r.logger.Warn("task store save failed", "error", err, "tasks", len(recs))
		}
	}
}

func notFound(id string) error {
	return &notFoundError{id: id}
}

type notFoundError struct{ id string }

func (e *notFoundError) Error() string { return "task " + e.id + ": " + ErrNotFound.Error() }
func (e *notFoundError) Unwrap() error { return ErrNotFound }
