package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/hay-kot/todos/internal/tui/components"
)

// KeyMap holds the list-view key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Edit    key.Binding
	Delete  key.Binding
	New     key.Binding
	Preview key.Binding
	Refresh key.Binding
	Help    key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys("space", "x"), key.WithHelp("space/x", "toggle complete")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Preview: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss notice")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Delete, k.New, k.Refresh, k.Help, k.Quit}
}

// helpSections groups the bindings for the help dialog.
func (k KeyMap) helpSections() []components.HelpDialogSection {
	entries := func(bindings ...key.Binding) []components.HelpEntry {
		out := make([]components.HelpEntry, 0, len(bindings))
		for _, b := range bindings {
			h := b.Help()
			out = append(out, components.HelpEntry{Key: h.Key, Desc: h.Desc})
		}
		return out
	}

	return []components.HelpDialogSection{
		{Title: "Navigation", Entries: entries(k.Up, k.Down, k.Preview)},
		{Title: "Tasks", Entries: entries(k.New, k.Toggle, k.Edit, k.Delete, k.Refresh)},
		{Title: "Forms", Entries: []components.HelpEntry{
			{Key: "tab", Desc: "next field"},
			{Key: "ctrl+s", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}},
		{Title: "App", Entries: entries(k.Help, k.Dismiss, k.Quit)},
	}
}
