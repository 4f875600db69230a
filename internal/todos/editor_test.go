package todos

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/todos/internal/core/task"
)

func TestEditor_BeginSeedsDraft(t *testing.T) {
	e := NewEditor()
	orig := sampleTasks()[2]

	e.Begin(orig)

	assert.True(t, e.Editing("3"))
	assert.False(t, e.Editing("1"))
	id, ok := e.EditingID()
	assert.True(t, ok)
	assert.Equal(t, "3", id)
	assert.Equal(t, EditDraft{Title: "Call mom", Description: "Sunday", Priority: task.PriorityLow}, e.Draft())
}

func TestEditor_SingleActiveSession(t *testing.T) {
	e := NewEditor()
	tasks := sampleTasks()

	e.Begin(tasks[0])
	e.SetTitle("changed")
	e.Begin(tasks[1])

	assert.False(t, e.Editing("1"), "previous edit discarded")
	assert.True(t, e.Editing("2"))
	assert.Equal(t, "Pay rent", e.Draft().Title)
}

func TestEditor_SettersIgnoredWhileViewing(t *testing.T) {
	e := NewEditor()
	e.SetTitle("x")
	e.SetDescription("y")
	e.SetPriority(task.PriorityHigh)

	assert.Equal(t, EditDraft{}, e.Draft())
}

func TestEditor_CancelMakesNoCall(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)
	c.Refresh(context.Background())
	calls := svc.calls()

	e := NewEditor()
	e.Begin(sampleTasks()[0])
	e.SetTitle("something else")
	e.SetPriority(task.PriorityLow)
	e.Cancel()

	_, editing := e.EditingID()
	assert.False(t, editing)
	assert.Equal(t, calls, svc.calls(), "no update call")

	got, _ := c.Find("1")
	assert.Equal(t, "Buy milk", got.Title, "original values shown")

	e.Begin(got)
	assert.Equal(t, "Buy milk", e.Draft().Title, "re-entering edit starts from the record")
}

func TestEditor_SaveSendsAllFields(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)
	c.Refresh(context.Background())

	e := NewEditor()
	e.Begin(sampleTasks()[0])
	e.SetTitle("Buy oat milk")
	e.SetDescription("2 cartons")

	res := e.Save(context.Background(), c)

	require.True(t, res.OK())
	require.Len(t, svc.updates, 1)
	assert.Equal(t, "1", svc.updates[0].id)
	assert.Equal(t, task.Patch{
		Title:       task.Ptr("Buy oat milk"),
		Description: task.Ptr("2 cartons"),
		Priority:    task.Ptr(task.PriorityHigh),
	}, svc.updates[0].patch)

	_, editing := e.EditingID()
	assert.False(t, editing)
}

func TestEditor_SaveClosesOnRemoteFailure(t *testing.T) {
	svc := &fakeService{items: sampleTasks(), updateErr: errors.New("failed to update todo: Internal Server Error")}
	c := newController(svc)
	c.Refresh(context.Background())

	e := NewEditor()
	e.Begin(sampleTasks()[0])
	e.SetTitle("new")

	res := e.Save(context.Background(), c)

	assert.Error(t, res.Err)
	_, editing := e.EditingID()
	assert.False(t, editing, "session closes regardless of outcome")
	assert.NotEmpty(t, c.LastError())
}

func TestEditor_SaveKeepsSessionOnInvalidDraft(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)

	e := NewEditor()
	e.Begin(sampleTasks()[0])
	e.SetTitle("   ")

	res := e.Save(context.Background(), c)

	assert.True(t, res.Invalid())
	assert.True(t, e.Editing("1"))
	assert.Empty(t, svc.updates)
}

func TestEditor_SaveWithoutSession(t *testing.T) {
	res := NewEditor().Save(context.Background(), newController(&fakeService{}))
	assert.ErrorIs(t, res.Err, ErrNotEditing)
}

type updaterFunc func(ctx context.Context, id string, patch task.Patch) Result

func (f updaterFunc) Update(ctx context.Context, id string, patch task.Patch) Result {
	return f(ctx, id, patch)
}

func TestEditor_SaveLeavesNewerSessionOpen(t *testing.T) {
	e := NewEditor()
	tasks := sampleTasks()
	e.Begin(tasks[0])

	res := e.Save(context.Background(), updaterFunc(func(context.Context, string, task.Patch) Result {
		e.Begin(tasks[1]) // user starts another edit while the save is in flight
		return Result{Applied: true, Refreshed: true}
	}))

	require.True(t, res.OK())
	assert.True(t, e.Editing("2"))
}
