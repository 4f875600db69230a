package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/todos"
)

type EditCmd struct {
	flags *Flags
	app   *todos.App

	title       string
	description string
	priority    string
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *todos.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Change a task's title, description or priority",
		UsageText: "todos edit <id> [--title <title>] [--description <text>] [--priority <priority>]",
		Description: `Edits a task starting from its current values. Fields whose flag is not
given keep their value. The task must be in the list loaded with list.limit
and list.status.

Examples:
  todos edit 8c1e --title "Buy oat milk"
  todos edit 8c1e --priority low --description ""`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "new description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "new priority (high, medium, low)",
				Destination: &cmd.priority,
			},
		},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	id, err := taskIDArg(c)
	if err != nil {
		return err
	}

	if !c.IsSet("title") && !c.IsSet("description") && !c.IsSet("priority") {
		return fmt.Errorf("nothing to change: pass --title, --description or --priority")
	}

	t, err := lookup(ctx, cmd.app, id)
	if err != nil {
		return err
	}

	editor := cmd.app.Editor
	editor.Begin(t)
	if c.IsSet("title") {
		editor.SetTitle(cmd.title)
	}
	if c.IsSet("description") {
		editor.SetDescription(cmd.description)
	}
	if c.IsSet("priority") {
		editor.SetPriority(task.Priority(strings.ToUpper(cmd.priority)))
	}

	res := editor.Save(ctx, cmd.app.Tasks)
	if res.Invalid() {
		editor.Cancel()
	}
	if err := resultError("update task", res); err != nil {
		return err
	}

	p.Success("Task updated", t.ID)
	return nil
}
