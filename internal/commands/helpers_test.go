package commands

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/config"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/remote"
	"github.com/hay-kot/todos/internal/remote/devserver"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/pkg/tuitest"
)

const testUser = "alice"

type testEnv struct {
	flags *Flags
	app   *todos.App
	srv   *devserver.Server

	out bytes.Buffer // command writer
	msg bytes.Buffer // printer output
}

// newTestEnv wires an App against an in-memory task service reached over
// HTTP, authenticated as testUser.
func newTestEnv(t *testing.T, mutate ...func(cfg *config.Config)) *testEnv {
	t.Helper()

	srv := devserver.New(devserver.Options{Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.API.Endpoint = ts.URL
	for _, fn := range mutate {
		fn(&cfg)
	}

	sessions, err := auth.OpenSessionStore(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	tokens := auth.Chain{auth.StaticSource(testUser)}
	client, err := remote.NewClient(remote.Options{
		Endpoint: ts.URL,
		Tokens:   tokens,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	return &testEnv{
		flags: &Flags{Config: &cfg},
		app:   todos.NewApp(&cfg, client, tokens, sessions),
		srv:   srv,
	}
}

// run registers a command on a fresh root and runs it with args.
func (e *testEnv) run(t *testing.T, register func(*cli.Command) *cli.Command, args ...string) error {
	t.Helper()

	e.out.Reset()
	e.msg.Reset()

	root := register(rootCommand(&e.out))
	ctx := printer.NewContext(context.Background(), printer.New(&e.msg))
	return root.Run(ctx, append([]string{"todos"}, args...))
}

func rootCommand(w io.Writer) *cli.Command {
	return &cli.Command{Name: "todos", Writer: w}
}

// messages returns the printer output without styling.
func (e *testEnv) messages() string {
	return tuitest.StripANSI(e.msg.String())
}

func (e *testEnv) seed(tasks ...task.Task) {
	e.srv.Seed(testUser, tasks...)
}

func (e *testEnv) stored(t *testing.T, id string) task.Task {
	t.Helper()
	for _, tk := range e.srv.Tasks(testUser) {
		if tk.ID == id {
			return tk
		}
	}
	t.Fatalf("task %s not stored", id)
	return task.Task{}
}

func sampleTasks() []task.Task {
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	return []task.Task{
		{
			ID:        "t-1",
			Title:     "Buy milk",
			DueDate:   time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC),
			Priority:  task.PriorityHigh,
			Status:    task.StatusPending,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "t-2",
			Title:     "File taxes",
			DueDate:   time.Date(2025, 4, 15, 23, 59, 59, 0, time.UTC),
			Priority:  task.PriorityMedium,
			Status:    task.StatusCompleted,
			CreatedAt: created.Add(time.Hour),
			UpdatedAt: created.Add(time.Hour),
		},
	}
}
