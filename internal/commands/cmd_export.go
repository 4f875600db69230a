package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/todos"
)

type ExportCmd struct {
	flags *Flags
	app   *todos.App

	output string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *todos.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export tasks as an iCalendar file",
		UsageText: "todos export [-o <file>]",
		Description: `Writes the current task list as iCalendar VTODO entries, suitable for
importing into a calendar or task app. Writes to stdout unless -o is given.

Examples:
  todos export > tasks.ics
  todos export -o ~/tasks.ics`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "file to write (defaults to stdout)",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	var w io.Writer = c.Root().Writer

	if cmd.output != "" {
		f, err := os.Create(cmd.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", cmd.output, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	n, err := cmd.app.ExportICS(ctx, w)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if cmd.output != "" {
		printer.Ctx(ctx).Success(fmt.Sprintf("Exported %d tasks", n), cmd.output)
	}
	return nil
}
