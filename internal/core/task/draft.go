package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/todos/internal/core/validate"
)

const (
	// DayLayout is the calendar-day format used by the creation form.
	DayLayout = "2006-01-02"
	// ISOLayout matches the millisecond ISO-8601 instants the service stores.
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ValidationError is a local, pre-network failure. It is reported to the
// caller directly and never stored as the controller's last error.
type ValidationError struct {
	err error
}

func newValidationError(err error) *ValidationError {
	return &ValidationError{err: err}
}

func (e *ValidationError) Error() string { return "invalid task: " + e.err.Error() }
func (e *ValidationError) Unwrap() error { return e.err }

// Draft is the unsaved input for a new task. DueDate holds the calendar day as
// typed by the user.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
}

// CreateRequest is the body sent to the service to create a task.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
}

// Validate checks the required fields without touching the network.
func (d Draft) Validate() error {
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	err := criterio.ValidateStruct(
		criterio.Run("title", d.Title, validate.Required),
		criterio.Run("dueDate", d.DueDate, validate.Required),
		criterio.Run("priority", string(priority), validatePriority),
	)
	if err != nil {
		return newValidationError(err)
	}

	if _, err := ParseDueDay(d.DueDate); err != nil {
		return newValidationError(criterio.NewFieldErrors("dueDate", err))
	}

	return nil
}

// Request validates the draft and converts it into a create request, pinning
// the due date to the end of the selected day in UTC.
func (d Draft) Request() (CreateRequest, error) {
	if err := d.Validate(); err != nil {
		return CreateRequest{}, err
	}

	day, _ := ParseDueDay(d.DueDate)

	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	return CreateRequest{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     FormatInstant(EndOfDay(day)),
		Priority:    priority,
	}, nil
}

// ParseDueDay parses a calendar day. YYYY-MM-DD is tried first; other
// unambiguous formats ("Jan 20 2025", "2025/01/20") are accepted as well.
// Only the calendar components of the result are meaningful.
func ParseDueDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}

	if t, err := time.ParseInLocation(DayLayout, s, time.UTC); err == nil {
		return t, nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseDue parses a stored due date. Instants are returned as sent; a bare
// calendar day becomes the end of that day in UTC.
func ParseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	day, err := ParseDueDay(s)
	if err != nil {
		return time.Time{}, err
	}
	return EndOfDay(day), nil
}

// EndOfDay returns 23:59:59 UTC on the calendar day of t.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// FormatInstant renders t as a UTC ISO-8601 instant with milliseconds.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func validatePriority(s string) error {
	if !Priority(s).IsValid() {
		return fmt.Errorf("must be one of HIGH, MEDIUM, LOW")
	}
	return nil
}
