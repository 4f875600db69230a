package todos

import (
	"context"
	"errors"
	"sync"

	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
)

// fakeService records calls and returns canned results.
type fakeService struct {
	mu sync.Mutex

	items []task.Task

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	lists   int
	creates []task.CreateRequest
	updates []update
	deletes []string

	// onList, when set, runs inside List before it returns.
	onList func(call int) ([]task.Task, error)
}

type update struct {
	id    string
	patch task.Patch
}

var _ remote.Service = (*fakeService)(nil)

func (f *fakeService) List(_ context.Context, _ remote.ListOptions) ([]task.Task, error) {
	f.mu.Lock()
	f.lists++
	call := f.lists
	hook := f.onList
	items, err := f.items, f.listErr
	f.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	return items, err
}

func (f *fakeService) Create(_ context.Context, req task.CreateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	return f.createErr
}

func (f *fakeService) Update(_ context.Context, id string, patch task.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update{id: id, patch: patch})
	return f.updateErr
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists + len(f.creates) + len(f.updates) + len(f.deletes)
}

var errServer = errors.New("failed to fetch todos: Internal Server Error")

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "1", Title: "Buy milk", Status: task.StatusPending, Priority: task.PriorityHigh},
		{ID: "2", Title: "Pay rent", Status: task.StatusCompleted, Priority: task.PriorityMedium},
		{ID: "3", Title: "Call mom", Status: task.StatusPending, Priority: task.PriorityLow, Description: "Sunday"},
	}
}
