package todos

import (
	"context"
	"errors"
	"sync"

	"github.com/hay-kot/todos/internal/core/task"
)

// ErrNotEditing is returned by Save when no edit session is open.
var ErrNotEditing = errors.New("no edit in progress")

// Updater applies a partial update. *Controller satisfies it.
type Updater interface {
	Update(ctx context.Context, id string, patch task.Patch) Result
}

// EditDraft holds the editable fields of one task. Status, due date and
// timestamps are never edited here.
type EditDraft struct {
	Title       string
	Description string
	Priority    task.Priority
}

// Patch converts the draft to an update carrying all three fields.
func (d EditDraft) Patch() task.Patch {
	return task.Patch{
		Title:       task.Ptr(d.Title),
		Description: task.Ptr(d.Description),
		Priority:    task.Ptr(d.Priority),
	}
}

// Editor is the single active edit buffer. At most one task is being edited
// at a time; beginning an edit on another task discards the open draft.
type Editor struct {
	mu      sync.Mutex
	id      string
	editing bool
	session uint64
	draft   EditDraft
}

// NewEditor returns an editor in the viewing state.
func NewEditor() *Editor {
	return &Editor{}
}

// Begin opens an edit session seeded from t.
func (e *Editor) Begin(t task.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.id = t.ID
	e.editing = true
	e.session++
	e.draft = EditDraft{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
	}
}

// SetTitle updates the draft title. Ignored while viewing.
func (e *Editor) SetTitle(s string) {
	e.mutate(func(d *EditDraft) { d.Title = s })
}

// SetDescription updates the draft description. Ignored while viewing.
func (e *Editor) SetDescription(s string) {
	e.mutate(func(d *EditDraft) { d.Description = s })
}

// SetPriority updates the draft priority. Ignored while viewing.
func (e *Editor) SetPriority(p task.Priority) {
	e.mutate(func(d *EditDraft) { d.Priority = p })
}

func (e *Editor) mutate(fn func(d *EditDraft)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing {
		fn(&e.draft)
	}
}

// Cancel discards the draft without contacting the service.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.close()
}

func (e *Editor) close() {
	e.id = ""
	e.editing = false
	e.draft = EditDraft{}
}

// Editing reports whether id is the task being edited.
func (e *Editor) Editing(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing && e.id == id
}

// EditingID returns the id under edit, if any.
func (e *Editor) EditingID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id, e.editing
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() EditDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Save sends the draft through u and returns to viewing whether or not the
// service accepted it; failures surface through the controller's last error.
//
// The one case that does not close the session is a draft rejected by local
// validation, such as a blank title: nothing was sent, so the draft stays open
// for correction instead of being discarded. If another edit was begun while
// the call was in flight, that newer session is left alone.
func (e *Editor) Save(ctx context.Context, u Updater) Result {
	e.mu.Lock()
	if !e.editing {
		e.mu.Unlock()
		return Result{Err: ErrNotEditing}
	}
	id, session, patch := e.id, e.session, e.draft.Patch()
	e.mu.Unlock()

	res := u.Update(ctx, id, patch)
	if res.Invalid() {
		return res
	}

	e.mu.Lock()
	if e.session == session {
		e.close()
	}
	e.mu.Unlock()

	return res
}
