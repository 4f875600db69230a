package todos

import (
	"context"
	"errors"
	"sync"

	"github.com/hay-kot/todos/internal/core/task"
)

// ErrSubmitting is returned when Submit is called while a previous submission
// is still in flight.
var ErrSubmitting = errors.New("a submission is already in progress")

// Creator creates tasks from drafts. *Controller satisfies it.
type Creator interface {
	Create(ctx context.Context, draft task.Draft) Result
}

// CreateForm accumulates input for a new task. Input survives failed
// submissions and is reset only after the service accepts the task.
type CreateForm struct {
	mu         sync.Mutex
	draft      task.Draft
	submitting bool
}

// NewCreateForm returns an empty form with MEDIUM priority.
func NewCreateForm() *CreateForm {
	f := &CreateForm{}
	f.reset()
	return f
}

func (f *CreateForm) reset() {
	f.draft = task.Draft{Priority: task.PriorityMedium}
}

// SetTitle sets the title field.
func (f *CreateForm) SetTitle(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Title = s
}

// SetDescription sets the description field.
func (f *CreateForm) SetDescription(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Description = s
}

// SetDueDate sets the due day, as typed.
func (f *CreateForm) SetDueDate(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.DueDate = s
}

// SetPriority sets the priority field.
func (f *CreateForm) SetPriority(p task.Priority) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Priority = p
}

// SetDraft replaces every field at once.
func (f *CreateForm) SetDraft(d task.Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// Draft returns a copy of the current input.
func (f *CreateForm) Draft() task.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submitting reports whether a submission is in flight.
func (f *CreateForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Begin validates the input and marks the form as submitting. It returns the
// draft to send. Callers that run the create themselves must call Finish.
func (f *CreateForm) Begin() (task.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return task.Draft{}, ErrSubmitting
	}
	if err := f.draft.Validate(); err != nil {
		return task.Draft{}, err
	}

	f.submitting = true
	return f.draft, nil
}

// Finish ends a submission started with Begin, resetting the fields when the
// task was created.
func (f *CreateForm) Finish(res Result) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitting = false
	if res.Applied {
		f.reset()
	}
}

// Submit validates the input, creates the task through c and resets the form
// on success. Invalid input returns a *task.ValidationError and leaves the
// fields untouched.
func (f *CreateForm) Submit(ctx context.Context, c Creator) Result {
	draft, err := f.Begin()
	if err != nil {
		return Result{Err: err}
	}

	res := c.Create(ctx, draft)
	f.Finish(res)
	return res
}
