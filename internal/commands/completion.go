package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/todos"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests task ids as
// positional completions. Set this as the ShellComplete field on any
// cli.Command that accepts a task id.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(app *todos.App, pendingOnly bool) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if res := app.Tasks.Refresh(ctx); !res.OK() {
			return
		}

		w := cmd.Root().Writer
		for _, t := range app.Tasks.Tasks() {
			if pendingOnly && t.Completed() {
				continue
			}
			_, _ = fmt.Fprintln(w, t.ID)
		}
	}
}
