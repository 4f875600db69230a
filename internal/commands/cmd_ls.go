package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *todos.App

	// flags
	status     string
	limit      int
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *todos.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List tasks",
		UsageText: "todos ls [--status <status>] [--limit <n>] [--json]",
		Description: `Fetches the task list and prints pending tasks followed by completed ones.

Use --json to print one task per line as returned by the service.

Examples:
  todos ls
  todos ls --status pending
  todos ls --json | jq .title`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "only list tasks with this status (pending, completed)",
				Destination: &cmd.status,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of tasks to fetch (defaults to list.limit)",
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	opts := remote.ListOptions{
		Status: cmd.app.Config.List.Status,
		Limit:  cmd.app.Config.List.Limit,
		SortBy: cmd.app.Config.List.SortBy,
	}
	if cmd.status != "" {
		opts.Status = task.Status(strings.ToUpper(cmd.status))
		if !opts.Status.IsValid() {
			return fmt.Errorf("invalid status %q: must be pending or completed", cmd.status)
		}
	}
	if cmd.limit > 0 {
		opts.Limit = cmd.limit
	}

	ctrl := todos.NewController(cmd.app.Remote, opts, logging.Component("controller"))
	if res := ctrl.Refresh(ctx); !res.OK() {
		return fmt.Errorf("list tasks: %w", res.Err)
	}

	tasks := ctrl.Tasks()
	w := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(w, t); err != nil {
				return err
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	return writeTable(w, ctrl.Snapshot(), time.Now())
}

func writeTable(w io.Writer, state todos.State, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	section := func(title string, tasks []task.Task) {
		if len(tasks) == 0 {
			return
		}
		_, _ = fmt.Fprintf(tw, "%s (%d)\n", title, len(tasks))
		_, _ = fmt.Fprintln(tw, "ID\tPRIORITY\tDUE\tTITLE")
		for _, t := range tasks {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Priority, dueText(t, now), t.Title)
		}
		_, _ = fmt.Fprintln(tw)
	}

	section("Pending", state.Pending())
	section("Completed", state.Completed())

	return tw.Flush()
}

func dueText(t task.Task, now time.Time) string {
	if t.DueDate.IsZero() {
		return "-"
	}
	s := t.DueDate.UTC().Format(time.DateOnly)
	if !t.Completed() && t.DueDate.Before(now) {
		s += " (overdue)"
	}
	return s
}
