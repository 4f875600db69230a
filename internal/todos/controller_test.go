package todos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
)

func newController(svc *fakeService) *Controller {
	return NewController(svc, remote.ListOptions{}, zerolog.Nop())
}

func TestRefresh_ReplacesCollection(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)

	res := c.Refresh(context.Background())

	require.True(t, res.OK())
	assert.True(t, res.Refreshed)
	assert.Equal(t, sampleTasks(), c.Tasks(), "tasks equal the service sequence")
	assert.Empty(t, c.LastError())
	assert.False(t, c.Loading())

	pending, completed := c.Pending(), c.Completed()
	assert.Len(t, pending, 2)
	assert.Len(t, completed, 1)
	assert.Equal(t, len(c.Tasks()), len(pending)+len(completed))
	assert.Equal(t, []string{"1", "3"}, []string{pending[0].ID, pending[1].ID})
}

func TestRefresh_NilItemsIsEmpty(t *testing.T) {
	c := newController(&fakeService{})

	c.Refresh(context.Background())

	assert.NotNil(t, c.Tasks())
	assert.Empty(t, c.Tasks())
}

func TestRefresh_FailureKeepsTasks(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)
	c.Refresh(context.Background())

	svc.items, svc.listErr = nil, errServer
	res := c.Refresh(context.Background())

	assert.ErrorIs(t, res.Err, errServer)
	assert.Equal(t, errServer.Error(), c.LastError())
	assert.False(t, c.Loading())
	assert.Equal(t, sampleTasks(), c.Tasks(), "tasks unchanged after failure")
}

func TestRefresh_AuthFailure(t *testing.T) {
	svc := &fakeService{listErr: auth.ErrNoSession}
	c := newController(svc)

	c.Refresh(context.Background())

	assert.Equal(t, "no authentication token available", c.LastError())
}

func TestRefresh_Idempotent(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)

	c.Refresh(context.Background())
	first := c.Snapshot()
	c.Refresh(context.Background())

	assert.Equal(t, first, c.Snapshot())
}

func TestRefresh_LoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	svc := &fakeService{onList: func(int) ([]task.Task, error) {
		close(entered)
		<-release
		return sampleTasks(), nil
	}}
	c := newController(svc)

	done := make(chan Result)
	go func() { done <- c.Refresh(context.Background()) }()

	<-entered
	assert.True(t, c.Loading())

	close(release)
	<-done
	assert.False(t, c.Loading())
}

func TestRefresh_LastResolvedWins(t *testing.T) {
	slowRelease := make(chan struct{})
	svc := &fakeService{}
	svc.onList = func(call int) ([]task.Task, error) {
		if call == 1 {
			<-slowRelease
			return []task.Task{{ID: "slow"}}, nil
		}
		return []task.Task{{ID: "fast"}}, nil
	}
	c := newController(svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(context.Background())
	}()

	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return svc.lists == 1
	}, time.Second, time.Millisecond)

	c.Refresh(context.Background())
	assert.True(t, c.Loading(), "slow refresh still in flight")

	close(slowRelease)
	wg.Wait()

	require.Len(t, c.Tasks(), 1)
	assert.Equal(t, "slow", c.Tasks()[0].ID)
	assert.False(t, c.Loading())
}

func TestCreate_InvalidDraftNoNetwork(t *testing.T) {
	tests := []struct {
		name  string
		draft task.Draft
	}{
		{"empty title", task.Draft{DueDate: "2025-01-20"}},
		{"empty due date", task.Draft{Title: "Buy milk"}},
		{"both empty", task.Draft{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{items: sampleTasks()}
			c := newController(svc)
			c.Refresh(context.Background())
			before := c.Snapshot()
			calls := svc.calls()

			res := c.Create(context.Background(), tt.draft)

			assert.True(t, res.Invalid())
			assert.False(t, res.Applied)
			assert.Equal(t, calls, svc.calls(), "no service call")
			assert.Equal(t, before, c.Snapshot(), "state unchanged")
		})
	}
}

func TestCreate_SendsNormalizedDraftAndRefreshes(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)

	res := c.Create(context.Background(), task.Draft{Title: "Buy milk", DueDate: "2025-01-20"})

	require.True(t, res.OK())
	assert.True(t, res.Applied)
	assert.True(t, res.Refreshed)
	require.Len(t, svc.creates, 1)
	assert.Equal(t, "2025-01-20T23:59:59.000Z", svc.creates[0].DueDate)
	assert.Equal(t, task.PriorityMedium, svc.creates[0].Priority)
	assert.Equal(t, 1, svc.lists, "refresh follows the create")
}

func TestCreate_FailureSetsErrorNoRefresh(t *testing.T) {
	svc := &fakeService{createErr: errors.New("failed to create todo: Bad Request")}
	c := newController(svc)

	res := c.Create(context.Background(), task.Draft{Title: "x", DueDate: "2025-01-20"})

	assert.Error(t, res.Err)
	assert.False(t, res.Applied)
	assert.Equal(t, "failed to create todo: Bad Request", c.LastError())
	assert.Zero(t, svc.lists)
}

func TestMutation_ClearsPreviousError(t *testing.T) {
	svc := &fakeService{listErr: errServer}
	c := newController(svc)
	c.Refresh(context.Background())
	require.NotEmpty(t, c.LastError())

	svc.listErr = nil
	svc.items = sampleTasks()
	res := c.Remove(context.Background(), "1")

	require.True(t, res.OK())
	assert.Empty(t, c.LastError())
}

func TestToggleComplete(t *testing.T) {
	tests := []struct {
		id   string
		want task.Status
	}{
		{"1", task.StatusCompleted},
		{"2", task.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			svc := &fakeService{items: sampleTasks()}
			c := newController(svc)
			c.Refresh(context.Background())

			res := c.ToggleComplete(context.Background(), tt.id)

			require.True(t, res.OK())
			require.Len(t, svc.updates, 1)
			assert.Equal(t, tt.id, svc.updates[0].id)
			assert.Equal(t, task.Patch{Status: task.Ptr(tt.want)}, svc.updates[0].patch)
			assert.Equal(t, 2, svc.lists, "refresh follows the update")
		})
	}
}

func TestToggleComplete_UnknownID(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)
	c.Refresh(context.Background())
	calls := svc.calls()

	res := c.ToggleComplete(context.Background(), "missing")

	assert.ErrorIs(t, res.Err, task.ErrNotFound)
	assert.Equal(t, "task not found", c.LastError())
	assert.Equal(t, calls, svc.calls())
}

func TestUpdate_FailureSetsError(t *testing.T) {
	svc := &fakeService{items: sampleTasks(), updateErr: errors.New("failed to update todo: Not Found")}
	c := newController(svc)
	c.Refresh(context.Background())

	res := c.Update(context.Background(), "1", task.Patch{Title: task.Ptr("new")})

	assert.Error(t, res.Err)
	assert.Equal(t, "failed to update todo: Not Found", c.LastError())
	assert.Equal(t, 1, svc.lists, "no refresh after failure")
	assert.Equal(t, sampleTasks(), c.Tasks())
}

func TestUpdate_EmptyPatchIsLocal(t *testing.T) {
	svc := &fakeService{}
	c := newController(svc)

	res := c.Update(context.Background(), "1", task.Patch{})

	assert.True(t, res.Invalid())
	assert.Zero(t, svc.calls())
}

func TestRemove(t *testing.T) {
	svc := &fakeService{items: sampleTasks()}
	c := newController(svc)

	res := c.Remove(context.Background(), "2")

	require.True(t, res.OK())
	assert.Equal(t, []string{"2"}, svc.deletes)
	assert.Equal(t, 1, svc.lists)
}

func TestRemove_Failure(t *testing.T) {
	svc := &fakeService{deleteErr: errors.New("failed to delete todo: Not Found")}
	c := newController(svc)

	res := c.Remove(context.Background(), "2")

	assert.Error(t, res.Err)
	assert.Equal(t, "failed to delete todo: Not Found", c.LastError())
	assert.Zero(t, svc.lists)
}

func TestMutation_RefreshFailureAfterSuccess(t *testing.T) {
	svc := &fakeService{listErr: errServer}
	c := newController(svc)

	res := c.Remove(context.Background(), "1")

	assert.True(t, res.Applied, "delete went through")
	assert.False(t, res.Refreshed)
	assert.ErrorIs(t, res.Err, errServer)
	assert.Equal(t, errServer.Error(), c.LastError())
}
