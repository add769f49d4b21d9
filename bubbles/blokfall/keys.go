package blokfall

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghthor/blokwell/engine"
)

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	SoftDown key.Binding
	Rotate   key.Binding
	HardDown key.Binding

	Pause key.Binding
	Start key.Binding
	Debug key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "move"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "move"),
		),
		SoftDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "soft drop"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "rotate"),
		),
		HardDown: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hard drop"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter", "new game"),
		),
		Debug: key.NewBinding(
			key.WithKeys("ctrl+d"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Command maps a key press to the engine command it triggers.
func (k keyMap) Command(msg tea.KeyMsg) engine.Command {
	switch {
	case key.Matches(msg, k.Left):
		return engine.MoveLeft
	case key.Matches(msg, k.Right):
		return engine.MoveRight
	case key.Matches(msg, k.SoftDown):
		return engine.SoftDrop
	case key.Matches(msg, k.Rotate):
		return engine.Rotate
	case key.Matches(msg, k.HardDown):
		return engine.HardDrop
	default:
		return engine.CommandNone
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Rotate},
		{k.SoftDown, k.HardDown},
		{k.Start, k.Pause, k.Quit},
	}
}
