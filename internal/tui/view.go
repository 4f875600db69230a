package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/tui/components"
)

const dueLayout = "Mon Jan 2 2006"

// View renders the list with any modal layered on top.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	main := m.renderMain()

	var content string
	switch {
	case m.state == stateCreating && m.createDialog != nil:
		content = components.Overlay(main, m.renderCreateDialog(), m.width, m.height)
	case m.state == stateConfirming:
		content = m.confirm.Overlay(main, m.width, m.height)
	case m.state == statePreviewing && m.preview != nil:
		content = m.preview.Overlay(main, m.width, m.height)
	case m.state == stateShowingHelp && m.help != nil:
		content = m.help.Overlay(main, m.width, m.height)
	default:
		content = main
	}
	return m.toasts.overlay(content, m.width, m.height)
}

func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}

	if msg := m.app.Tasks.LastError(); msg != "" {
		parts = append(parts, styles.ErrorBannerStyle.Render(styles.IconError+" "+msg))
		if m.needsLogin {
			parts = append(parts, styles.MutedStyle.Render("Run 'todos login' to sign in."))
		}
	}
	if m.loading() {
		parts = append(parts, m.spinner.View()+styles.LoadingStyle.Render(" Loading…"))
	}

	parts = append(parts, "", m.renderTasks(), "", m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	header := styles.HeaderStyle.Render("todos")
	if m.identity != "" {
		header += styles.MutedStyle.Render("  " + m.identity)
	}
	return header
}

func (m Model) renderTasks() string {
	rows := m.rows()
	if len(rows) == 0 {
		if m.loading() {
			return ""
		}
		return styles.EmptyStyle.Render("No tasks yet. Press n to add one.")
	}

	pending, completed := task.Partition(rows)
	now := m.now()

	lines := []string{styles.HeaderStyle.Render(fmt.Sprintf("My Tasks (%d)", len(rows)))}

	section := func(title string, tasks []task.Task, offset int) {
		lines = append(lines, "", styles.SectionStyle.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
		for i, t := range tasks {
			if m.state == stateEditing && m.editDialog != nil && m.app.Editor.Editing(t.ID) {
				lines = append(lines, m.renderInlineEdit())
				continue
			}
			lines = append(lines, renderRow(t, offset+i == m.cursor, now))
		}
	}

	section("Pending", pending, 0)
	section("Completed", completed, len(pending))

	return strings.Join(lines, "\n")
}

func renderRow(t task.Task, selected bool, now time.Time) string {
	cursor := " "
	titleStyle := styles.TitleStyle
	if selected {
		cursor = styles.CursorStyle.Render(styles.IconCursor)
		titleStyle = styles.TitleSelectedStyle
	}

	check := styles.IconPending
	if t.Completed() {
		check = styles.IconCompleted
		titleStyle = styles.TitleCompletedStyle
	}

	row := fmt.Sprintf("%s %s %s %s", cursor, check, styles.RenderPriority(t.Priority), titleStyle.Render(t.Title))
	if due := renderDue(t, now); due != "" {
		row += "  " + due
	}
	return row
}

func renderDue(t task.Task, now time.Time) string {
	if t.DueDate.IsZero() {
		return ""
	}
	text := "due " + t.DueDate.UTC().Format(dueLayout)
	if !t.Completed() && t.DueDate.Before(now) {
		return styles.DueOverdueStyle.Render(text + " (overdue)")
	}
	return styles.DueStyle.Render(text)
}

func (m Model) renderInlineEdit() string {
	body := m.editDialog.View()
	if m.editSaving {
		body = lipgloss.JoinVertical(lipgloss.Left, body, styles.LoadingStyle.Render("Saving…"))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(body)
}

func (m Model) renderCreateDialog() string {
	body := m.createDialog.View()
	if m.app.Form.Submitting() {
		body = lipgloss.JoinVertical(lipgloss.Left, body, styles.LoadingStyle.Render("Creating…"))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.createDialog.Title),
		"",
		body,
	)
	return styles.ModalStyle.Render(content)
}

func (m Model) renderFooter() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.HelpStyle.Render(strings.Join(parts, " • "))
}

// newPreview builds the details dialog for t, rendering its description as
// markdown.
func newPreview(t task.Task, now time.Time, width, height int) *components.InfoDialog {
	status := components.InfoItem{Label: "Status", Value: string(t.Status)}
	if t.Completed() {
		status.Status = components.InfoStatusPass
	}

	due := components.InfoItem{Label: "Due", Value: "none"}
	if !t.DueDate.IsZero() {
		due.Value = t.DueDate.UTC().Format(dueLayout)
		if !t.Completed() && t.DueDate.Before(now) {
			due.Value += " (overdue)"
			due.Status = components.InfoStatusWarn
		}
	}

	items := []components.InfoItem{
		{Label: "Priority", Value: t.Priority.Icon() + " " + string(t.Priority)},
		status,
		due,
	}
	if !t.CreatedAt.IsZero() {
		items = append(items, components.InfoItem{Label: "Created", Value: t.CreatedAt.Local().Format(time.DateTime)})
	}
	if !t.UpdatedAt.IsZero() {
		items = append(items, components.InfoItem{Label: "Updated", Value: t.UpdatedAt.Local().Format(time.DateTime)})
	}
	items = append(items, components.InfoItem{Label: "ID", Value: t.ID})

	body := t.Description
	if strings.TrimSpace(body) == "" {
		body = "_No description._"
	}

	return components.NewInfoDialog(
		t.Title,
		[]components.InfoSection{{Title: "Details", Items: items}},
		body,
		"[j/k] scroll  [esc] close",
		width,
		height,
	)
}
