package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/todos/internal/core/styles"
)

// HelpEntry is one key and what it does.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups entries under a heading.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpDialog lists key bindings grouped by section. Keys are aligned to the
// widest key across all sections.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
	keyWidth int
}

func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	width := 0
	for _, s := range sections {
		for _, e := range s.Entries {
			width = max(width, lipgloss.Width(e.Key))
		}
	}
	return &HelpDialog{title: title, sections: sections, keyWidth: width + 2}
}

func (h *HelpDialog) View() string {
	blocks := make([]string, 0, len(h.sections)*2)
	for _, s := range h.sections {
		if len(blocks) > 0 {
			blocks = append(blocks, "")
		}
		blocks = append(blocks, h.renderSection(s))
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		"",
		lipgloss.JoinVertical(lipgloss.Left, blocks...),
		styles.ModalHelpStyle.Render("esc/? close"),
	))
}

func (h *HelpDialog) renderSection(s HelpDialogSection) string {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(styles.SectionStyle.Render(s.Title))
	}
	for _, e := range s.Entries {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styles.HeaderStyle.Render(PadRight(e.Key, h.keyWidth)))
		b.WriteString(styles.TitleStyle.Render(e.Desc))
	}
	return b.String()
}

// Overlay centers the dialog over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return Overlay(background, h.View(), width, height)
}
