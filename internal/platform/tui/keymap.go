package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/guess-the-met/internal/core"
)

// KeyMapper translates Bubble Tea key messages to actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message on the play screen.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Input {
	key := msg.String()

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if i, ok := core.OptionKey(msg.Runes[0]); ok {
			return core.Input{Action: core.ActionSelect, Option: i}
		}
	}

	in := core.Input{Option: -1}
	switch key {
	case "ctrl+c", "q":
		in.Action = core.ActionQuit
	case "up", "k", "w":
		in.Action = core.ActionUp
	case "down", "j":
		in.Action = core.ActionDown
	case "enter", " ":
		in.Action = core.ActionConfirm
	case "esc", "b":
		in.Action = core.ActionBack
	case "r":
		in.Action = core.ActionRetry
	case "s", "tab":
		in.Action = core.ActionScores
	}
	return in
}

// MapFormKey translates a key message on the settings form. Letters are
// left alone so the year fields can receive input.
func (km *KeyMapper) MapFormKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c":
		return core.ActionQuit
	case "up", "shift+tab":
		return core.ActionUp
	case "down", "tab":
		return core.ActionDown
	case "left":
		return core.ActionLeft
	case "right":
		return core.ActionRight
	case "enter":
		return core.ActionConfirm
	case "esc":
		return core.ActionBack
	case "ctrl+s":
		return core.ActionScores
	}
	return core.ActionNone
}
