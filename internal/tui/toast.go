package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/todos/internal/core/styles"
)

const (
	defaultToastTTL   = 4 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 40
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastWarning
	toastError
)

type toast struct {
	level     toastLevel
	message   string
	remaining time.Duration
}

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// toasts is the stack of short-lived notices shown after a mutation lands.
// Oldest first; the stack is capped at defaultMaxToasts.
type toasts struct {
	items   []toast
	ticking bool
}

func (s *toasts) push(level toastLevel, message string) {
	s.items = append(s.items, toast{level: level, message: message, remaining: defaultToastTTL})
	if len(s.items) > defaultMaxToasts {
		s.items = s.items[len(s.items)-defaultMaxToasts:]
	}
}

// tick ages every toast by d and drops the expired ones.
func (s *toasts) tick(d time.Duration) {
	alive := s.items[:0]
	for _, t := range s.items {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	s.items = alive
}

func (s *toasts) dismiss() {
	if len(s.items) > 0 {
		s.items = s.items[:len(s.items)-1]
	}
}

func (s *toasts) empty() bool {
	return len(s.items) == 0
}

func (s *toasts) view() string {
	if s.empty() {
		return ""
	}

	rendered := make([]string, 0, len(s.items))
	for _, t := range s.items {
		rendered = append(rendered, renderToast(t))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	icon, style := styles.IconNotifyInfo, styles.ToastInfoStyle
	switch t.level {
	case toastWarning:
		icon, style = styles.IconNotifyWarning, styles.ToastWarningStyle
	case toastError:
		icon, style = styles.IconNotifyError, styles.ToastErrorStyle
	}
	return style.Width(toastWidth).Render(icon + " " + t.message)
}

// overlay composites the stack over background in the lower-right corner.
func (s *toasts) overlay(background string, width, height int) string {
	content := s.view()
	if content == "" {
		return background
	}

	bg := lipgloss.NewLayer(background)
	layer := lipgloss.NewLayer(content)

	x := max(width-lipgloss.Width(content)-1, 0)
	y := max(height-lipgloss.Height(content), 0)
	layer.X(x).Y(y).Z(2)

	return lipgloss.NewCompositor(bg, layer).Render()
}

// notify queues a toast and starts the expiry timer if it is not running.
func (m *Model) notify(level toastLevel, message string) tea.Cmd {
	m.toasts.push(level, message)
	if m.toasts.ticking {
		return nil
	}
	m.toasts.ticking = true
	return scheduleToastTick()
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toasts.tick(toastTickInterval)
	if m.toasts.empty() {
		m.toasts.ticking = false
		return m, nil
	}
	return m, scheduleToastTick()
}
