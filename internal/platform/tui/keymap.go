package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/block-buddy/internal/core"
)

// KeyMap defines the key bindings for the build screen.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Place       key.Binding
	Grass       key.Binding
	Wood        key.Binding
	Stone       key.Binding
	Flower      key.Binding
	Erase       key.Binding
	Undo        key.Binding
	Hint        key.Binding
	NextMission key.Binding
	DailyMode   key.Binding
	CalmMode    key.Binding
	Missions    key.Binding
	Dismiss     key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Place, k.Erase, k.Undo, k.Hint, k.NextMission, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Place},
		{k.Grass, k.Wood, k.Stone, k.Flower, k.Erase},
		{k.Undo, k.Hint, k.NextMission, k.Missions},
		{k.DailyMode, k.CalmMode, k.Dismiss, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left/h", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("right/l", "right")),
		Place:       key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "build")),
		Grass:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "grass")),
		Wood:        key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "wood")),
		Stone:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "stone")),
		Flower:      key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "flower")),
		Erase:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "erase")),
		Undo:        key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Hint:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "hint")),
		NextMission: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next mission")),
		DailyMode:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "daily mode")),
		CalmMode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "calm colors")),
		Missions:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "missions")),
		Dismiss:     key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "close")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// MapKey translates a key message to an action.
func (k KeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Place):
		return core.ActionPlace
	case key.Matches(msg, k.Grass):
		return core.ActionSelectGrass
	case key.Matches(msg, k.Wood):
		return core.ActionSelectWood
	case key.Matches(msg, k.Stone):
		return core.ActionSelectStone
	case key.Matches(msg, k.Flower):
		return core.ActionSelectFlower
	case key.Matches(msg, k.Erase):
		return core.ActionToggleErase
	case key.Matches(msg, k.Undo):
		return core.ActionUndo
	case key.Matches(msg, k.Hint):
		return core.ActionHint
	case key.Matches(msg, k.NextMission):
		return core.ActionNextMission
	case key.Matches(msg, k.DailyMode):
		return core.ActionDailyMode
	case key.Matches(msg, k.CalmMode):
		return core.ActionCalmMode
	case key.Matches(msg, k.Missions):
		return core.ActionMissions
	case key.Matches(msg, k.Dismiss):
		return core.ActionDismiss
	}
	return core.ActionNone
}
