// Package todos holds the client-side state machines: the task collection
// controller, the single active edit buffer and the creation form. None of
// it depends on bubbletea; views drive it and render from its accessors.
package todos

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
)

// Result is the outcome of a controller operation.
type Result struct {
	// Applied is true when the service accepted a mutation.
	Applied bool
	// Refreshed is true when the collection was re-fetched successfully.
	Refreshed bool
	// Err is the first failure, local or remote.
	Err error
}

// OK reports whether the operation finished without error.
func (r Result) OK() bool { return r.Err == nil }

// Invalid reports whether the operation was rejected by local validation
// before any network call.
func (r Result) Invalid() bool {
	var ve *task.ValidationError
	return errors.As(r.Err, &ve)
}

// State is a consistent copy of the controller's observable fields.
type State struct {
	Tasks     []task.Task
	Loading   bool
	LastError string
}

// Pending returns the pending subset in service order.
func (s State) Pending() []task.Task {
	p, _ := task.Partition(s.Tasks)
	return p
}

// Completed returns the completed subset in service order.
func (s State) Completed() []task.Task {
	_, c := task.Partition(s.Tasks)
	return c
}

// Controller owns the task collection as last returned by the service. Every
// successful mutation is followed by a full re-fetch; nothing is patched
// locally.
//
// Operations may run concurrently. State fields are guarded, but operations
// are not serialized: the collection reflects whichever refresh resolved
// last.
type Controller struct {
	svc  remote.Service
	list remote.ListOptions
	log  zerolog.Logger

	mu        sync.RWMutex
	tasks     []task.Task
	inflight  int
	lastError string
}

// NewController builds a controller over svc. list is sent with every
// refresh.
func NewController(svc remote.Service, list remote.ListOptions, log zerolog.Logger) *Controller {
	return &Controller{
		svc:   svc,
		list:  list,
		log:   log,
		tasks: []task.Task{},
	}
}

// Refresh replaces the collection with the service's current list. On
// failure the collection is left as it was and the error is recorded.
func (c *Controller) Refresh(ctx context.Context) Result {
	c.mu.Lock()
	c.inflight++
	c.lastError = ""
	c.mu.Unlock()

	items, err := c.svc.List(ctx, c.list)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if err != nil {
		c.lastError = err.Error()
		c.log.Error().Err(err).Msg("refresh failed")
		return Result{Err: err}
	}

	if items == nil {
		items = []task.Task{}
	}
	c.tasks = items
	c.lastError = ""
	c.log.Debug().Int("count", len(items)).Msg("refreshed")

	return Result{Refreshed: true}
}

// Create validates draft, sends it and refreshes on success. Invalid drafts
// return a *task.ValidationError without touching any state.
func (c *Controller) Create(ctx context.Context, draft task.Draft) Result {
	req, err := draft.Request()
	if err != nil {
		return Result{Err: err}
	}

	c.clearError()

	if err := c.svc.Create(ctx, req); err != nil {
		c.fail(ctx, err, "create failed")
		return Result{Err: err}
	}

	c.log.Info().Str("title", req.Title).Str("due", req.DueDate).Msg("task created")
	return c.refreshAfter(ctx)
}

// Update sends a partial update for id and refreshes on success.
func (c *Controller) Update(ctx context.Context, id string, patch task.Patch) Result {
	if err := patch.Validate(); err != nil {
		return Result{Err: err}
	}

	ctx = logging.WithTaskID(ctx, id)
	c.clearError()

	if err := c.svc.Update(ctx, id, patch); err != nil {
		c.fail(ctx, err, "update failed")
		return Result{Err: err}
	}

	c.log.Info().Ctx(ctx).Msg("task updated")
	return c.refreshAfter(ctx)
}

// ToggleComplete flips the status of id as currently held in the collection.
// An id missing from the collection fails without a network call.
func (c *Controller) ToggleComplete(ctx context.Context, id string) Result {
	t, ok := c.Find(id)
	if !ok {
		c.fail(logging.WithTaskID(ctx, id), task.ErrNotFound, "toggle failed")
		return Result{Err: task.ErrNotFound}
	}

	return c.Update(ctx, id, task.Patch{Status: task.Ptr(t.Status.Toggle())})
}

// Remove deletes id and refreshes on success. Confirmation is the caller's
// concern.
func (c *Controller) Remove(ctx context.Context, id string) Result {
	ctx = logging.WithTaskID(ctx, id)
	c.clearError()

	if err := c.svc.Delete(ctx, id); err != nil {
		c.fail(ctx, err, "delete failed")
		return Result{Err: err}
	}

	c.log.Info().Ctx(ctx).Msg("task deleted")
	return c.refreshAfter(ctx)
}

func (c *Controller) refreshAfter(ctx context.Context) Result {
	r := c.Refresh(ctx)
	r.Applied = true
	return r
}

func (c *Controller) clearError() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
}

func (c *Controller) fail(ctx context.Context, err error, msg string) {
	c.mu.Lock()
	c.lastError = err.Error()
	c.mu.Unlock()
	c.log.Error().Ctx(ctx).Err(err).Msg(msg)
}

// Tasks returns a copy of the collection in service order.
func (c *Controller) Tasks() []task.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Pending returns pending tasks in service order.
func (c *Controller) Pending() []task.Task {
	return c.Snapshot().Pending()
}

// Completed returns completed tasks in service order.
func (c *Controller) Completed() []task.Task {
	return c.Snapshot().Completed()
}

// Find looks up a task in the current collection.
func (c *Controller) Find(id string) (task.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return task.Find(c.tasks, id)
}

// Loading reports whether a refresh is in flight.
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

// LastError returns the most recent failure message, or "".
func (c *Controller) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Snapshot returns tasks, loading and last error read under one lock.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tasks := make([]task.Task, len(c.tasks))
	copy(tasks, c.tasks)
	return State{
		Tasks:     tasks,
		Loading:   c.inflight > 0,
		LastError: c.lastError,
	}
}
