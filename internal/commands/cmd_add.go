package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/todos"
)

type AddCmd struct {
	flags *Flags
	app   *todos.App

	title       string
	description string
	due         string
	priority    string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *todos.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		UsageText: "todos add [--title <title>] [--due <day>] [--description <text>] [--priority <priority>]",
		Description: `Creates a task. The due day is pinned to 23:59:59 UTC.

When --title is omitted and stdin is a terminal an interactive form is shown.

Examples:
  todos add --title "Buy milk" --due 2025-01-20
  todos add -t "File taxes" --due "Apr 15 2025" -p high -d "forms in drawer"
  todos add`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "task title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "optional description (markdown)",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due day, e.g. 2025-01-20",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (high, medium, low)",
				Value:       "medium",
				Destination: &cmd.priority,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	// Show interactive form if title not provided via flag
	if cmd.title == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	form := cmd.app.Form
	form.SetDraft(task.Draft{
		Title:       cmd.title,
		Description: cmd.description,
		DueDate:     cmd.due,
		Priority:    task.Priority(strings.ToUpper(cmd.priority)),
	})

	res := form.Submit(ctx, cmd.app.Tasks)
	if err := resultError("create task", res); err != nil {
		return err
	}

	p.Success("Task created", cmd.title)
	if !res.Refreshed {
		p.Warnf("refresh after create failed: %s", cmd.app.Tasks.LastError())
	}

	return nil
}

func (cmd *AddCmd) runForm() error {
	options := make([]huh.Option[string], 0, 3)
	for _, pr := range task.Priorities() {
		options = append(options, huh.NewOption(pr.Icon()+" "+string(pr), strings.ToLower(string(pr))))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(required("title")).
				Value(&cmd.title),
			huh.NewText().
				Title("Description").
				Description("Optional, markdown").
				Value(&cmd.description),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD").
				Validate(validateDue).
				Value(&cmd.due),
			huh.NewSelect[string]().
				Title("Priority").
				Options(options...).
				Value(&cmd.priority),
		),
	).WithTheme(styles.FormTheme()).Run()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateDue(s string) error {
	_, err := task.ParseDueDay(s)
	return err
}
