package tui

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/config"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/pkg/tuitest"
)

var errUnavailable = errors.New("failed to fetch todos: Service Unavailable")

// memService is an in-memory remote.Service that applies mutations so
// refreshes observe them.
type memService struct {
	mu sync.Mutex

	tasks  []task.Task
	nextID int

	listErr   error
	createErr error

	lists   int
	creates []task.CreateRequest
	updates map[string][]task.Patch
	deletes []string
}

var _ remote.Service = (*memService)(nil)

func newMemService(tasks ...task.Task) *memService {
	return &memService{tasks: tasks, updates: map[string][]task.Patch{}}
}

func (s *memService) List(context.Context, remote.ListOptions) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]task.Task{}, s.tasks...), nil
}

func (s *memService) Create(_ context.Context, req task.CreateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, req)
	if s.createErr != nil {
		return s.createErr
	}

	s.nextID++
	due, _ := time.Parse(time.RFC3339, req.DueDate)
	s.tasks = append(s.tasks, task.Task{
		ID:          "new-" + strconv.Itoa(s.nextID),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
		Status:      task.StatusPending,
	})
	return nil
}

func (s *memService) Update(_ context.Context, id string, patch task.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = append(s.updates[id], patch)
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i] = patch.Apply(t)
			return nil
		}
	}
	return task.ErrNotFound
}

func (s *memService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return task.ErrNotFound
}

func (s *memService) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.updates {
		n += len(u)
	}
	return n
}

var testNow = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "1", Title: "Buy milk", Description: "two **litres**", DueDate: time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC), Priority: task.PriorityHigh, Status: task.StatusPending},
		{ID: "2", Title: "File taxes", DueDate: time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC), Priority: task.PriorityMedium, Status: task.StatusCompleted},
		{ID: "3", Title: "Call mom", DueDate: time.Date(2025, 1, 12, 23, 59, 59, 0, time.UTC), Priority: task.PriorityLow, Status: task.StatusPending},
	}
}

func newTestApp(t *testing.T, svc remote.Service, mutate ...func(*config.Config)) *todos.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	for _, fn := range mutate {
		fn(&cfg)
	}
	return todos.NewApp(&cfg, svc, auth.StaticSource("opaque-token"), nil)
}

// start builds a model and settles its Init commands.
func start(t *testing.T, app *todos.App) Model {
	t.Helper()
	m := New(app, Options{Now: func() time.Time { return testNow }})
	next, _ := m.Update(tuitest.WindowSize(120, 40))
	return settle(t, next.(Model), m.Init())
}

// press feeds msgs to the model one at a time, settling the commands each
// produces.
func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = settle(t, next.(Model), cmd)
	}
	return m
}

// settle runs cmd and feeds operation results back into the model. Other
// messages such as spinner ticks and cursor blinks are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case opDoneMsg, identityMsg:
			next, cmd := m.Update(msg)
			m = settle(t, next.(Model), cmd)
		}
	}
	return m
}

// collect runs cmd, expanding batches. Commands that block, such as cursor
// blink timers, are abandoned.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func render(m Model) string {
	return tuitest.StripANSI(m.render())
}
