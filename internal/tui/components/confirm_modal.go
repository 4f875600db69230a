package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/todos/internal/core/styles"
)

// ConfirmModal is a yes/no confirmation dialog. y and n answer directly;
// left/right/tab move between the buttons and enter picks the selected one.
type ConfirmModal struct {
	title           string
	message         string
	confirmSelected bool
	confirmed       bool
	cancelled       bool
}

// NewConfirmModal creates a new confirmation modal. Cancel is selected by
// default so a stray enter does not confirm.
func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{
		title:   title,
		message: message,
	}
}

// Update handles input for the confirmation modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.confirmed = true
	case "n", "N", "esc", "q":
		m.cancelled = true
	case "left", "right", "tab", "h", "l":
		m.confirmSelected = !m.confirmSelected
	case "enter":
		if m.confirmSelected {
			m.confirmed = true
		} else {
			m.cancelled = true
		}
	}

	return m, nil
}

// ConfirmSelected returns true if the confirm button is selected.
func (m ConfirmModal) ConfirmSelected() bool { return m.confirmSelected }

// Confirmed returns true if the user confirmed.
func (m ConfirmModal) Confirmed() bool { return m.confirmed }

// Cancelled returns true if the user declined.
func (m ConfirmModal) Cancelled() bool { return m.cancelled }

// Done returns true once the user answered either way.
func (m ConfirmModal) Done() bool { return m.confirmed || m.cancelled }

// View renders the modal box.
func (m ConfirmModal) View() string {
	confirmBtn := styles.ModalButtonStyle.Render("Delete")
	cancelBtn := styles.ModalButtonSelectedStyle.Render("Cancel")
	if m.confirmSelected {
		confirmBtn = styles.ModalButtonSelectedStyle.Render("Delete")
		cancelBtn = styles.ModalButtonStyle.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		styles.ModalHelpStyle.Render("y/n answer  ←/→ select  enter confirm  esc cancel"),
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the modal centered over background.
func (m ConfirmModal) Overlay(background string, width, height int) string {
	return Overlay(background, m.View(), width, height)
}
