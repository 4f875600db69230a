package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/todos/internal/core/styles"
)

const (
	infoModalMaxHeight = 30
	infoModalMargin    = 4
	infoModalChrome    = 6 // title + divider + help + spacing
	infoModalMinWidth  = 50
)

// InfoStatus represents the status of an info item.
type InfoStatus int

const (
	InfoStatusNone InfoStatus = iota
	InfoStatusPass
	InfoStatusWarn
	InfoStatusFail
)

// InfoItem is a single labeled row in an info section.
type InfoItem struct {
	Label  string
	Value  string
	Status InfoStatus
}

// InfoSection groups related info items under a section title.
type InfoSection struct {
	Title string
	Items []InfoItem
}

// InfoDialog is a scrollable modal showing labeled fields followed by a
// markdown body.
type InfoDialog struct {
	title    string
	sections []InfoSection
	body     string
	helpText string
	width    int
	height   int
	viewport viewport.Model
}

// NewInfoDialog creates a new info dialog sized for a width x height screen.
// body is rendered as markdown below the sections.
func NewInfoDialog(title string, sections []InfoSection, body, helpText string, width, height int) *InfoDialog {
	modalWidth, modalHeight := infoModalSize(width, height)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(max(modalHeight-infoModalChrome, 1)),
	)

	d := &InfoDialog{
		title:    title,
		sections: sections,
		body:     body,
		helpText: helpText,
		width:    width,
		height:   height,
		viewport: vp,
	}
	d.viewport.SetContent(d.renderContent(modalWidth))
	return d
}

func infoModalSize(width, height int) (int, int) {
	w := min(max(int(float64(width)*0.65), infoModalMinWidth), width-infoModalMargin)
	h := min(height-infoModalMargin, infoModalMaxHeight)
	return max(w, 10), max(h, infoModalChrome+1)
}

func (d *InfoDialog) renderContent(modalWidth int) string {
	separator := styles.DividerStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))

	lines := make([]string, 0)
	for i, section := range d.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if section.Title != "" {
			lines = append(lines, styles.SectionStyle.Render(section.Title), separator)
		}
		for _, item := range section.Items {
			lines = append(lines, formatInfoItem(item))
		}
	}

	if strings.TrimSpace(d.body) != "" {
		body, err := RenderMarkdown(d.body, modalWidth-6)
		if err != nil {
			log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
			body = d.body
		}
		lines = append(lines, "", body)
	}

	return strings.Join(lines, "\n")
}

func formatInfoItem(item InfoItem) string {
	label := styles.TitleStyle.Bold(true).Render(item.Label)
	value := styles.MutedStyle.Render(item.Value)
	if icon := statusIcon(item.Status); icon != "" {
		return fmt.Sprintf("%s %s  %s", icon, label, value)
	}
	return fmt.Sprintf("%s  %s", label, value)
}

func statusIcon(s InfoStatus) string {
	switch s {
	case InfoStatusPass:
		return styles.SuccessStyle.Render("✔")
	case InfoStatusWarn:
		return styles.WarningStyle.Render("●")
	case InfoStatusFail:
		return styles.ErrorStyle.Render("✘")
	default:
		return ""
	}
}

// ScrollUp scrolls the viewport up.
func (d *InfoDialog) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (d *InfoDialog) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// Overlay renders the dialog centered over the provided background.
func (d *InfoDialog) Overlay(background string, width, height int) string {
	modalWidth, modalHeight := infoModalSize(width, height)

	scrollInfo := ""
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		scrollInfo = styles.MutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.DividerStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(d.title+scrollInfo),
		divider,
		d.viewport.View(),
		styles.ModalHelpStyle.Render(d.helpText),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(content)

	return Overlay(background, modal, width, height)
}
