// Package styles provides shared lipgloss v2 styles for CLI and TUI output.
package styles

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/todos/internal/core/task"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	SectionStyle lipgloss.Style
	DividerStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	IDStyle      lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style

	// Task rows.
	TitleStyle          lipgloss.Style
	TitleCompletedStyle lipgloss.Style
	TitleSelectedStyle  lipgloss.Style
	DueStyle            lipgloss.Style
	DueOverdueStyle     lipgloss.Style
	CursorStyle         lipgloss.Style

	// Banners and status.
	ErrorBannerStyle lipgloss.Style
	LoadingStyle     lipgloss.Style
	EmptyStyle       lipgloss.Style
	HelpStyle        lipgloss.Style

	// Toasts.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	// Modals and forms.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	FormTitleStyle        lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormErrorStyle        lipgloss.Style
	FormHelpStyle         lipgloss.Style

	priorityStyles map[task.Priority]lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	SectionStyle = lipgloss.NewStyle().Foreground(p.Secondary).Bold(true)
	DividerStyle = lipgloss.NewStyle().Foreground(p.Muted)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	IDStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)

	TitleStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	TitleCompletedStyle = lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true)
	TitleSelectedStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	DueStyle = lipgloss.NewStyle().Foreground(p.Muted)
	DueOverdueStyle = lipgloss.NewStyle().Foreground(p.Error)
	CursorStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)

	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Error).
		Padding(0, 1)
	LoadingStyle = lipgloss.NewStyle().Foreground(p.Warning)
	EmptyStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toast.BorderForeground(p.Success).Foreground(p.Foreground)
	ToastWarningStyle = toast.BorderForeground(p.Warning).Foreground(p.Warning)
	ToastErrorStyle = toast.BorderForeground(p.Error).Foreground(p.Error)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Foreground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Surface).
		Foreground(p.Muted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Primary).
		Foreground(p.Background).
		Bold(true)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Muted).
		PaddingLeft(1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Primary).
		PaddingLeft(1)
	FormErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	FormHelpStyle = lipgloss.NewStyle().Foreground(p.Muted)

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(p.Error),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(p.Warning),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(p.Success),
	}
}

// PriorityStyle returns the style for a priority marker.
func PriorityStyle(p task.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return MutedStyle
}

// RenderPriority renders the priority icon in its color.
func RenderPriority(p task.Priority) string {
	return PriorityStyle(p).Render(p.Icon())
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
