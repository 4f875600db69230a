package form

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/todos/internal/core/styles"
)

// Dialog is a form container that manages focus cycling, submission and
// cancellation across a set of keyed fields.
type Dialog struct {
	Title string

	fields       []Field
	keys         []string // parallel slice: key for each field
	focusedField int
	submitted    bool
	cancelled    bool
	err          string
}

// NewDialog creates a form dialog with the given fields and keys. The first
// field is focused automatically.
func NewDialog(title string, fields []Field, keys []string) *Dialog {
	d := &Dialog{
		Title:  title,
		fields: fields,
		keys:   keys,
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return d
}

// Update handles key input, managing focus cycling and submit/cancel.
// Enter on the last field or ctrl+s anywhere submits.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	switch keyMsg.String() {
	case "tab":
		return d.advanceFocus()
	case "shift+tab":
		return d.retreatFocus()
	case "ctrl+s":
		d.submitted = true
		return d, nil
	case "enter":
		if d.isTextAreaFocused() {
			return d.updateFocusedField(msg)
		}
		return d.advanceFocus()
	case "esc":
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders all fields vertically with the current error and help text.
func (d *Dialog) View() string {
	parts := make([]string, 0, len(d.fields)*2+3)
	for i, field := range d.fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, field.View())
	}

	if d.err != "" {
		parts = append(parts, "", styles.FormErrorStyle.Render(d.err))
	}

	help := styles.FormHelpStyle.Render("tab: next  shift+tab: prev  ctrl+s: save  esc: cancel")
	parts = append(parts, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Values returns the field values keyed by field key.
func (d *Dialog) Values() map[string]string {
	result := make(map[string]string, len(d.fields))
	for i, field := range d.fields {
		result[d.keys[i]] = field.Value()
	}
	return result
}

// Value returns the value of the field registered under key.
func (d *Dialog) Value(key string) string {
	for i, k := range d.keys {
		if k == key {
			return d.fields[i].Value()
		}
	}
	return ""
}

// SetError shows msg under the fields and reopens the dialog for input. An
// empty msg clears it.
func (d *Dialog) SetError(msg string) {
	d.err = msg
	d.submitted = false
}

// Err returns the error currently shown.
func (d *Dialog) Err() string { return d.err }

// Submitted returns whether the form was submitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

func (d *Dialog) advanceFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	next := d.focusedField + 1
	if next >= len(d.fields) {
		d.submitted = true
		return d, nil
	}

	d.fields[d.focusedField].Blur()
	d.focusedField = next
	cmd := d.fields[d.focusedField].Focus()
	return d, cmd
}

func (d *Dialog) retreatFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 || d.focusedField == 0 {
		return d, nil
	}

	d.fields[d.focusedField].Blur()
	d.focusedField--
	cmd := d.fields[d.focusedField].Focus()
	return d, cmd
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	return d, cmd
}

func (d *Dialog) isTextAreaFocused() bool {
	if len(d.fields) == 0 {
		return false
	}
	_, ok := d.fields[d.focusedField].(*TextAreaField)
	return ok
}
