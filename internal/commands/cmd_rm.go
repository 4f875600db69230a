package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/remote"
	"github.com/hay-kot/todos/internal/todos"
)

type RmCmd struct {
	flags *Flags
	app   *todos.App

	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *todos.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete a task",
		UsageText: "todos rm <id> [--yes]",
		Description: `Deletes a task after confirmation. Nothing is sent to the service when the
prompt is declined. Without a terminal --yes is required.

The prompt looks the task up in the list loaded with list.limit and
list.status, so ids outside that window need --yes.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	id, err := taskIDArg(c)
	if err != nil {
		return err
	}

	if !cmd.yes && cmd.app.Config.TUI.ShouldConfirmDelete() {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to delete without confirmation; pass --yes")
		}

		t, err := lookup(ctx, cmd.app, id)
		if err != nil {
			return err
		}

		confirmed := false
		err = huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", t.Title)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			WithTheme(styles.FormTheme()).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			p.Infof("Cancelled")
			return nil
		}
	}

	// Deletes go straight to the service so ids outside the loaded list
	// window still resolve.
	res := cmd.app.Tasks.Remove(ctx, id)
	if remote.IsNotFound(res.Err) {
		return fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	if err := resultError("delete task", res); err != nil {
		return err
	}

	p.Success("Task deleted", id)
	return nil
}
