package tui

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/internal/tui/components"
	"github.com/hay-kot/todos/internal/tui/components/form"
)

const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldDueDate     = "dueDate"
	fieldPriority    = "priority"
)

func priorityOptions() []string {
	opts := make([]string, 0, 3)
	for _, p := range task.Priorities() {
		opts = append(opts, string(p))
	}
	return opts
}

func newCreateDialog(d task.Draft) *form.Dialog {
	fields := []form.Field{
		form.NewTextField("Title", "what needs doing", d.Title),
		form.NewTextAreaField("Description", "optional, markdown", d.Description),
		form.NewTextField("Due date", "YYYY-MM-DD", d.DueDate),
		form.NewSelectField("Priority", priorityOptions(), string(d.Priority)),
	}
	return form.NewDialog("New Task", fields, []string{fieldTitle, fieldDescription, fieldDueDate, fieldPriority})
}

func newEditDialog(d todos.EditDraft) *form.Dialog {
	fields := []form.Field{
		form.NewTextField("Title", "", d.Title),
		form.NewTextField("Description", "", d.Description),
		form.NewSelectField("Priority", priorityOptions(), string(d.Priority)),
	}
	return form.NewDialog("Edit Task", fields, []string{fieldTitle, fieldDescription, fieldPriority})
}

// openCreateForm shows the create dialog seeded from the form state, so
// input left behind by a cancelled or failed submission is restored.
func (m Model) openCreateForm() (tea.Model, tea.Cmd) {
	m.createDialog = newCreateDialog(m.app.Form.Draft())
	m.state = stateCreating
	return m, nil
}

func (m Model) handleCreateKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.app.Form.Submitting() {
		return m, nil
	}

	var cmd tea.Cmd
	m.createDialog, cmd = m.createDialog.Update(msg)
	m.syncCreateForm()

	switch {
	case m.createDialog.Cancelled():
		m.createDialog = nil
		m.state = stateNormal
		return m, nil
	case m.createDialog.Submitted():
		submit := m.submitCreate()
		return m, tea.Batch(cmd, submit)
	}

	return m, cmd
}

func (m Model) syncCreateForm() {
	v := m.createDialog.Values()
	m.app.Form.SetDraft(task.Draft{
		Title:       v[fieldTitle],
		Description: v[fieldDescription],
		DueDate:     v[fieldDueDate],
		Priority:    task.Priority(v[fieldPriority]),
	})
}

// submitCreate validates synchronously and only then issues the create.
// Invalid input is shown in the dialog and never reaches the controller.
func (m *Model) submitCreate() tea.Cmd {
	draft, err := m.app.Form.Begin()
	if err != nil {
		m.createDialog.SetError(validationText(err))
		return nil
	}

	m.createDialog.SetError("")
	return m.runOp(opCreate, func(ctx context.Context, app *todos.App) todos.Result {
		return app.Tasks.Create(ctx, draft)
	})
}

// finishCreate ends a submission. Accepted tasks close the dialog and reset
// the form; failures keep the dialog open with the input intact.
func (m *Model) finishCreate(res todos.Result) tea.Cmd {
	m.app.Form.Finish(res)

	if res.Applied {
		m.createDialog = nil
		if m.state == stateCreating {
			m.state = stateNormal
		}
		return nil
	}

	if m.createDialog != nil {
		m.createDialog.SetError(m.app.Tasks.LastError())
	}
	return nil
}

func (m Model) openEditForm(t task.Task) (tea.Model, tea.Cmd) {
	m.app.Editor.Begin(t)
	m.editDialog = newEditDialog(m.app.Editor.Draft())
	m.editSaving = false
	m.state = stateEditing
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.editSaving {
		return m, nil
	}

	var cmd tea.Cmd
	m.editDialog, cmd = m.editDialog.Update(msg)
	m.syncEditor()

	switch {
	case m.editDialog.Cancelled():
		m.app.Editor.Cancel()
		m.editDialog = nil
		m.state = stateNormal
		return m, nil
	case m.editDialog.Submitted():
		submit := m.submitEdit()
		return m, tea.Batch(cmd, submit)
	}

	return m, cmd
}

func (m Model) syncEditor() {
	v := m.editDialog.Values()
	m.app.Editor.SetTitle(v[fieldTitle])
	m.app.Editor.SetDescription(v[fieldDescription])
	m.app.Editor.SetPriority(task.Priority(v[fieldPriority]))
}

func (m *Model) submitEdit() tea.Cmd {
	if err := m.app.Editor.Draft().Patch().Validate(); err != nil {
		m.editDialog.SetError(validationText(err))
		return nil
	}

	m.editSaving = true
	return m.runOp(opSave, func(ctx context.Context, app *todos.App) todos.Result {
		return app.Editor.Save(ctx, app.Tasks)
	})
}

// finishEdit returns to viewing once the editor has closed the session,
// which it does whether or not the service accepted the change.
func (m *Model) finishEdit(res todos.Result) {
	m.editSaving = false

	if _, editing := m.app.Editor.EditingID(); editing {
		if m.editDialog != nil {
			m.editDialog.SetError(validationText(res.Err))
		}
		return
	}

	m.editDialog = nil
	if m.state == stateEditing {
		m.state = stateNormal
	}
}

func (m Model) requestDelete(t task.Task) (tea.Model, tea.Cmd) {
	if !m.app.Config.TUI.ShouldConfirmDelete() {
		cmd := m.removeTask(t.ID)
		return m, cmd
	}

	m.confirm = components.NewConfirmModal("Delete task", fmt.Sprintf("Delete %q?", t.Title))
	m.pendingDelete = t.ID
	m.state = stateConfirming
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.confirm, _ = m.confirm.Update(msg)
	if !m.confirm.Done() {
		return m, nil
	}

	id := m.pendingDelete
	m.pendingDelete = ""
	m.state = stateNormal

	if m.confirm.Confirmed() {
		cmd := m.removeTask(id)
		return m, cmd
	}
	return m, nil
}

func (m *Model) removeTask(id string) tea.Cmd {
	return m.runOp(opRemove, func(ctx context.Context, app *todos.App) todos.Result {
		return app.Tasks.Remove(ctx, id)
	})
}

// validationText unwraps a validation error to its field messages.
func validationText(err error) string {
	if err == nil {
		return ""
	}
	var ve *task.ValidationError
	if errors.As(err, &ve) && errors.Unwrap(ve) != nil {
		return errors.Unwrap(ve).Error()
	}
	return err.Error()
}
