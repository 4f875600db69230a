package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote/devserver"
)

func newClient(t *testing.T, endpoint string, tokens auth.TokenSource) *Client {
	t.Helper()
	c, err := NewClient(Options{
		Endpoint: endpoint,
		Tokens:   tokens,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return c
}

func newDevClient(t *testing.T) (*Client, *devserver.Server) {
	t.Helper()
	srv := devserver.New(devserver.Options{Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return newClient(t, ts.URL, auth.StaticSource("alice")), srv
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Options{Endpoint: "not a url", Tokens: auth.StaticSource("x")})
	assert.Error(t, err)

	_, err = NewClient(Options{Endpoint: "http://localhost:1"})
	assert.ErrorContains(t, err, "token source")
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, srv := newDevClient(t)

	tasks, err := c.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, tasks, "empty list is a non-nil slice")
	assert.Empty(t, tasks)

	req, err := task.Draft{Title: "Buy milk", DueDate: "2025-01-20"}.Request()
	require.NoError(t, err)
	require.NoError(t, c.Create(ctx, req))

	tasks, err = c.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	got := tasks[0]
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Equal(t, task.StatusPending, got.Status)
	assert.Equal(t, time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC), got.DueDate.UTC())

	require.NoError(t, c.Update(ctx, got.ID, task.Patch{Status: task.Ptr(task.StatusCompleted)}))
	assert.Equal(t, task.StatusCompleted, srv.Tasks("alice")[0].Status)

	tasks, err = c.List(ctx, ListOptions{Status: task.StatusPending, Limit: 5, SortBy: "createdAt"})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, c.Delete(ctx, got.ID))
	assert.Empty(t, srv.Tasks("alice"))
}

func TestClient_StatusErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := newDevClient(t)

	err := c.Delete(ctx, "missing")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpDelete, se.Op)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "failed to delete todo: Not Found (Task not found)", err.Error())
	assert.True(t, IsNotFound(err))

	err = c.Update(ctx, "missing", task.Patch{Title: task.Ptr("x")})
	assert.ErrorContains(t, err, "failed to update todo: Not Found")

	err = c.Create(ctx, task.CreateRequest{Title: "x"})
	assert.ErrorContains(t, err, "failed to create todo: Bad Request")
}

func TestClient_ListFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	c := newClient(t, ts.URL, auth.StaticSource("t"))
	_, err := c.List(context.Background(), ListOptions{})

	assert.EqualError(t, err, "failed to fetch todos: Internal Server Error")
}

func TestClient_ListAcceptsCalendarDayDueDates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[
			{"taskId":"a","title":"Buy milk","dueDate":"2025-01-20T23:59:59.000Z","priority":"HIGH","status":"PENDING"},
			{"taskId":"b","title":"File taxes","dueDate":"2025-01-25","priority":"LOW","status":"PENDING"}
		],"count":2}`))
	}))
	t.Cleanup(ts.Close)

	c := newClient(t, ts.URL, auth.StaticSource("t"))
	tasks, err := c.List(context.Background(), ListOptions{})
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC), tasks[0].DueDate.UTC())
	assert.Equal(t, time.Date(2025, 1, 25, 23, 59, 59, 0, time.UTC), tasks[1].DueDate)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := devserver.New(devserver.Options{Secret: "shh", Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c := newClient(t, ts.URL, auth.StaticSource("forged"))
	_, err := c.List(context.Background(), ListOptions{})
	assert.True(t, IsUnauthorized(err))
}

func TestClient_NoToken(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(ts.Close)

	c := newClient(t, ts.URL, auth.StaticSource(""))
	_, err := c.List(context.Background(), ListOptions{})

	assert.ErrorIs(t, err, auth.ErrNoSession)
	assert.Equal(t, "no authentication token available", err.Error())
	assert.Zero(t, hits.Load(), "no request is sent without a token")
}

func TestClient_RequestShape(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"count":0}`))
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(Options{
		Endpoint:  ts.URL + "/Prod/",
		Tokens:    auth.StaticSource("tok"),
		UserAgent: "todos-test",
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	tasks, err := c.List(context.Background(), ListOptions{Status: task.StatusCompleted, Limit: 3, SortBy: "dueDate"})
	require.NoError(t, err)
	assert.NotNil(t, tasks, "missing items decodes to an empty slice")

	require.NotNil(t, got)
	assert.Equal(t, "/Prod/todos", got.URL.Path)
	assert.Equal(t, "COMPLETED", got.URL.Query().Get("status"))
	assert.Equal(t, "3", got.URL.Query().Get("limit"))
	assert.Equal(t, "dueDate", got.URL.Query().Get("sortBy"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "todos-test", got.Header.Get("User-Agent"))
	assert.NotEmpty(t, got.Header.Get("X-Request-Id"))
}

func TestClient_InvalidTaskID(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:1", auth.StaticSource("t"))

	err := c.Delete(context.Background(), "a/b")
	assert.ErrorContains(t, err, "invalid characters")
}
