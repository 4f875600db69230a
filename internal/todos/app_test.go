package todos

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/config"
	"github.com/hay-kot/todos/internal/core/task"
)

func newTestApp(t *testing.T, svc *fakeService, tokens auth.TokenSource) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return NewApp(&cfg, svc, tokens, nil)
}

func TestApp_Whoami(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-1",
		"email": "me@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	app := newTestApp(t, &fakeService{}, auth.StaticSource(tok))
	id, err := app.Whoami(context.Background())
	require.NoError(t, err)
	assert.False(t, id.Opaque)
	assert.Equal(t, "me@example.com", id.Display())

	app = newTestApp(t, &fakeService{}, auth.StaticSource("opaque"))
	id, err = app.Whoami(context.Background())
	require.NoError(t, err)
	assert.True(t, id.Opaque)

	app = newTestApp(t, &fakeService{}, auth.StaticSource(""))
	_, err = app.Whoami(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestApp_ExportICS(t *testing.T) {
	svc := &fakeService{items: []task.Task{
		{ID: "1", Title: "Buy milk", DueDate: time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC), Status: task.StatusPending},
	}}
	app := newTestApp(t, svc, auth.StaticSource("t"))

	var buf bytes.Buffer
	n, err := app.ExportICS(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "SUMMARY:Buy milk")
}

func TestApp_ExportICS_RefreshFailure(t *testing.T) {
	app := newTestApp(t, &fakeService{listErr: errServer}, auth.StaticSource("t"))

	var buf bytes.Buffer
	_, err := app.ExportICS(context.Background(), &buf)
	assert.ErrorIs(t, err, errServer)
	assert.Empty(t, buf.String())
}
