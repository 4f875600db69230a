package task

import (
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/todos/internal/core/validate"
)

// ErrEmptyPatch is returned when an update carries no fields.
var ErrEmptyPatch = errors.New("no fields to update")

// Patch is a partial update. Only non-nil fields are sent to the service.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil
}

// Validate checks the fields that are present.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return newValidationError(ErrEmptyPatch)
	}

	var errs criterio.FieldErrorsBuilder
	if p.Title != nil {
		if err := validate.Required(*p.Title); err != nil {
			errs = errs.Append("title", err)
		}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		errs = errs.Append("priority", fmt.Errorf("invalid priority %q", *p.Priority))
	}
	if p.Status != nil && !p.Status.IsValid() {
		errs = errs.Append("status", fmt.Errorf("invalid status %q", *p.Status))
	}

	if err := errs.ToError(); err != nil {
		return newValidationError(err)
	}
	return nil
}

// Apply returns a copy of t with the patch fields applied.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}
