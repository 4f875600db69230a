// Package task defines the task record domain model shared by the controller,
// the remote client and the views.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a task id is not present in the collection.
var ErrNotFound = errors.New("task not found")

// Priority ranks a task. The zero value is treated as PriorityMedium by drafts.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities returns all priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Icon returns the marker shown next to the priority in list views.
func (p Priority) Icon() string {
	switch p {
	case PriorityHigh:
		return "●"
	case PriorityMedium:
		return "◐"
	case PriorityLow:
		return "○"
	default:
		return "·"
	}
}

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status. Anything that is not COMPLETED is
// treated as pending and toggles to COMPLETED.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single to-do item as returned by the remote task service.
type Task struct {
	ID          string    `json:"taskId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts dueDate either as an instant or as a bare calendar
// day. Bare days are pinned to the end of that day, matching what the
// creation form sends.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		DueDate string `json:"dueDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Task(raw.plain)
	t.DueDate = time.Time{}
	if raw.DueDate == "" {
		return nil
	}

	due, err := ParseDue(raw.DueDate)
	if err != nil {
		return fmt.Errorf("task %s: dueDate: %w", raw.ID, err)
	}
	t.DueDate = due
	return nil
}

// Completed reports whether the task is in the completed section.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Partition splits tasks into pending and completed subsets, preserving the
// order they were given in. Every task lands in exactly one subset.
func Partition(tasks []Task) (pending, completed []Task) {
	for _, t := range tasks {
		if t.Completed() {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}

// Find returns the task with the given id.
func Find(tasks []Task, id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
