package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the dashboard's key bindings. Help text is read from the
// bindings so the footer and help modal never drift from what Update handles.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Enter        key.Binding
	Space        key.Binding
	Subtask      key.Binding
	Focus        key.Binding
	Summary      key.Binding
	Tab          key.Binding
	ToggleExpand key.Binding
	Reload       key.Binding
	Search       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse or go to parent")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fold/unfold")),
		Space:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle task or checkpoint")),
		Subtask:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle subtask")),
		Focus:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish next focus task")),
		Summary:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "life summary")),
		Tab:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		ToggleExpand: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "fold/unfold everything")),
		Reload:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the footer line.
func (k KeyMap) ShortHelp() string {
	parts := []string{"↑↓ nav", "←→ fold"}
	for _, b := range []struct {
		binding key.Binding
		label   string
	}{
		{k.Space, "toggle"},
		{k.Subtask, "subtask"},
		{k.Focus, "focus done"},
		{k.Summary, "summary"},
		{k.Search, "search"},
		{k.Help, "help"},
	} {
		parts = append(parts, b.binding.Help().Key+" "+b.label)
	}
	return strings.Join(parts, "  ")
}

// FullHelp lists every binding as {key, description} for the help modal.
func (k KeyMap) FullHelp() [][]string {
	bindings := []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.Enter,
		k.Space, k.Subtask, k.Focus, k.Summary,
		k.Tab, k.Search, k.ToggleExpand, k.Reload, k.Help, k.Quit,
	}
	rows := make([][]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		rows[i] = []string{h.Key, h.Desc}
	}
	return rows
}
