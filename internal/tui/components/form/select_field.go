package form

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hay-kot/todos/internal/core/styles"
)

// SelectField picks one of a small fixed set of options laid out on a single
// line. left/right (or h/l) move the selection.
type SelectField struct {
	options  []string
	selected int
	label    string
	focused  bool
}

// NewSelectField creates a single-select field. value pre-selects the
// matching option; unknown values select the first.
func NewSelectField(label string, options []string, value string) *SelectField {
	f := &SelectField{
		options: options,
		label:   label,
	}
	f.SetValue(value)
	return f
}

func (f *SelectField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused || len(f.options) == 0 {
		return f, nil
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return f, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		f.selected = (f.selected - 1 + len(f.options)) % len(f.options)
	case "right", "l", "space":
		f.selected = (f.selected + 1) % len(f.options)
	}
	return f, nil
}

func (f *SelectField) View() string {
	parts := make([]string, len(f.options))
	for i, opt := range f.options {
		switch {
		case i == f.selected && f.focused:
			parts[i] = styles.ModalButtonSelectedStyle.Render(opt)
		case i == f.selected:
			parts[i] = styles.ModalButtonStyle.Render(opt)
		default:
			parts[i] = styles.MutedStyle.Render(" " + opt + " ")
		}
	}
	return renderField(f.label, strings.Join(parts, " "), f.focused)
}

func (f *SelectField) Focus() tea.Cmd {
	f.focused = true
	return nil
}

func (f *SelectField) Blur() {
	f.focused = false
}

func (f *SelectField) Focused() bool { return f.focused }
func (f *SelectField) Label() string { return f.label }

func (f *SelectField) Value() string {
	if len(f.options) == 0 {
		return ""
	}
	return f.options[f.selected]
}

func (f *SelectField) SetValue(v string) {
	f.selected = 0
	for i, opt := range f.options {
		if opt == v {
			f.selected = i
			return
		}
	}
}
