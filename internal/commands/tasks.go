package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/todos"
)

// taskIDArg returns the single positional task id.
func taskIDArg(c *cli.Command) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", fmt.Errorf("task id is required")
	}
	if c.Args().Len() > 1 {
		return "", fmt.Errorf("expected a single task id, got %d arguments", c.Args().Len())
	}
	return id, nil
}

// lookup refreshes the collection and returns the task with id. Operations
// act on the record as last returned by the service.
func lookup(ctx context.Context, app *todos.App, id string) (task.Task, error) {
	if res := app.Tasks.Refresh(ctx); !res.OK() {
		return task.Task{}, fmt.Errorf("refresh: %w", res.Err)
	}

	t, ok := app.Tasks.Find(id)
	if !ok {
		return task.Task{}, notFound(app, id)
	}
	return t, nil
}

// notFound reports a missing id. When the list query may have hidden the
// task, the error names the setting that did.
func notFound(app *todos.App, id string) error {
	list := app.Config.List
	switch {
	case list.Status != "":
		return fmt.Errorf("%w: %s (list.status only loads %s tasks)", task.ErrNotFound, id, list.Status)
	case list.Limit > 0 && len(app.Tasks.Tasks()) >= list.Limit:
		return fmt.Errorf("%w: %s (not among the first %d tasks; raise list.limit)", task.ErrNotFound, id, list.Limit)
	default:
		return fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
}

// resultError turns a controller result into a command error. A mutation the
// service accepted is not an error even when the follow-up refresh failed.
func resultError(action string, res todos.Result) error {
	if res.OK() || res.Applied {
		return nil
	}
	return fmt.Errorf("%s: %w", action, res.Err)
}
