package tui

import (
	"github.com/appscaffold/appscaffold/internal/i18n"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines keyboard shortcuts of the settings view. Help descriptions
// are message keys translated at render time.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Edit     key.Binding
	Cancel   key.Binding
	Save     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", i18n.MsgHelpUp),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", i18n.MsgHelpDown),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("→/space", i18n.MsgHelpExpand),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", i18n.MsgHelpExpand),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.MsgHelpEdit),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", i18n.MsgHelpCancel),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", i18n.MsgHelpSave),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", i18n.MsgHelpReload),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", i18n.MsgHelpToggleHelp),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", i18n.MsgHelpQuit),
		),
	}
}

// browseHelp lists the bindings shown while navigating
func (k KeyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Edit, k.Save, k.Reload, k.Help, k.Quit}
}

// editHelp lists the bindings shown while editing a value
func (k KeyMap) editHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Cancel}
}
