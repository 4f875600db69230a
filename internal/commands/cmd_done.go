package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/todos"
)

type DoneCmd struct {
	flags *Flags
	app   *todos.App
}

// NewDoneCmd creates the done and toggle commands
func NewDoneCmd(flags *Flags, app *todos.App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done and toggle commands to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "done",
			Usage:     "Mark a task completed",
			UsageText: "todos done <id>",
			Description: `Marks a pending task as completed. A task that is already completed is
left as it is. The task must be in the list loaded with list.limit and
list.status.`,
			ShellComplete: TaskIDCompleter(cmd.app, true),
			Action:        cmd.runDone,
		},
		&cli.Command{
			Name:          "toggle",
			Usage:         "Flip a task between pending and completed",
			UsageText:     "todos toggle <id>",
			Description:   "Flips a task's status. The task must be in the list loaded with list.limit and list.status.",
			ShellComplete: TaskIDCompleter(cmd.app, false),
			Action:        cmd.runToggle,
		},
	)

	return app
}

func (cmd *DoneCmd) runDone(ctx context.Context, c *cli.Command) error {
	id, err := taskIDArg(c)
	if err != nil {
		return err
	}

	t, err := lookup(ctx, cmd.app, id)
	if err != nil {
		return err
	}

	if t.Completed() {
		printer.Ctx(ctx).Infof("%s is already completed", t.Title)
		return nil
	}

	return cmd.toggle(ctx, t)
}

func (cmd *DoneCmd) runToggle(ctx context.Context, c *cli.Command) error {
	id, err := taskIDArg(c)
	if err != nil {
		return err
	}

	t, err := lookup(ctx, cmd.app, id)
	if err != nil {
		return err
	}

	return cmd.toggle(ctx, t)
}

func (cmd *DoneCmd) toggle(ctx context.Context, t task.Task) error {
	res := cmd.app.Tasks.ToggleComplete(ctx, t.ID)
	if err := resultError("toggle task", res); err != nil {
		return err
	}

	printer.Ctx(ctx).Success(t.Title, "is now "+string(t.Status.Toggle()))
	return nil
}
