package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *todos.App
	fr    *iojson.FileReader[ImportInput]
}

func NewImportCmd(flags *Flags, app *todos.App) *ImportCmd {
	return &ImportCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[ImportInput]{},
	}
}

func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "import",
		Usage: "Create multiple tasks from JSON input",
		UsageText: `todos import [options]

Read from stdin:
  echo '{"tasks":[{"title":"Buy milk","dueDate":"2025-01-20"}]}' | todos import

Read from file:
  todos import -f tasks.json`,
		Description: `Creates tasks from a JSON document, one at a time, in input order.

Every task is validated before any is sent. Processing stops after 3
failures and tasks not attempted are marked as skipped.

Input JSON schema:
  {
    "tasks": [
      {
        "title": "required",
        "dueDate": "required, e.g. 2025-01-20",
        "description": "optional",
        "priority": "optional HIGH, MEDIUM or LOW (default MEDIUM)"
      }
    ]
  }

Output is JSON with an import ID and the result for each task.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	importID := uuid.NewString()
	logger := logging.Component("import").With().Str("import_id", importID).Logger()

	input, err := cmd.fr.Read()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return fmt.Errorf("read input: %w", err)
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return fmt.Errorf("invalid input: %w", err)
	}

	output := ImportOutput{
		ImportID: importID,
		Results:  make([]ImportResult, 0, len(input.Tasks)),
	}

	failures := 0
	for i, draft := range input.Tasks {
		if failures >= maxFailures {
			logger.Warn().Str("title", draft.Title).Msg("skipping task due to failure threshold")
			for j := i; j < len(input.Tasks); j++ {
				output.Results = append(output.Results, ImportResult{
					Title:  input.Tasks[j].Title,
					Status: StatusSkipped,
				})
			}
			break
		}

		result := cmd.createTask(ctx, draft)
		output.Results = append(output.Results, result)

		if result.Status == StatusFailed {
			failures++
			logger.Error().Str("title", draft.Title).Str("error", result.Error).Msg("task creation failed")
		} else {
			logger.Info().Str("title", draft.Title).Int("index", i).Msg("task created")
		}
	}

	logger.Info().
		Int("total", len(input.Tasks)).
		Int("created", countByStatus(output.Results, StatusCreated)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("import complete")

	return iojson.WriteWith(c.Root().Writer, os.Stderr, output)
}

func (cmd *ImportCmd) createTask(ctx context.Context, draft task.Draft) ImportResult {
	if draft.Priority == "" {
		draft.Priority = task.PriorityMedium
	}

	cmd.app.Form.SetDraft(draft)
	res := cmd.app.Form.Submit(ctx, cmd.app.Tasks)
	if err := resultError("create task", res); err != nil {
		return ImportResult{
			Title:  draft.Title,
			Status: StatusFailed,
			Error:  err.Error(),
		}
	}

	return ImportResult{
		Title:  draft.Title,
		Status: StatusCreated,
	}
}

const (
	StatusCreated = "created" // StatusCreated indicates the task was created successfully.
	StatusFailed  = "failed"  // StatusFailed indicates the task creation failed.
	StatusSkipped = "skipped" // StatusSkipped indicates the task was not attempted due to failure threshold.
	maxFailures   = 3         // maxFailures is the number of failures before stopping the import.
)

// ImportInput is the JSON input schema for bulk task creation.
type ImportInput struct {
	Tasks []task.Draft `json:"tasks"`
}

// Validate checks every draft using criterio.
func (in ImportInput) Validate() error {
	if len(in.Tasks) == 0 {
		return criterio.NewFieldErrors("tasks", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, d := range in.Tasks {
		if err := d.Validate(); err != nil {
			errs = errs.Append(fmt.Sprintf("tasks[%d]", i), err)
		}
	}

	return errs.ToError()
}

// ImportOutput is the JSON output written after an import.
type ImportOutput struct {
	ImportID string         `json:"import_id"`
	Results  []ImportResult `json:"results"`
}

// ImportResult is the outcome for a single task.
type ImportResult struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func countByStatus(results []ImportResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
