package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/guess-the-met/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		option int
	}{
		{"digit one", runeKey('1'), core.ActionSelect, 0},
		{"digit nine", runeKey('9'), core.ActionSelect, 8},
		{"digit zero is tenth", runeKey('0'), core.ActionSelect, 9},
		{"quit", runeKey('q'), core.ActionQuit, -1},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, -1},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, -1},
		{"vim down", runeKey('j'), core.ActionDown, -1},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, -1},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, -1},
		{"retry", runeKey('r'), core.ActionRetry, -1},
		{"scores", runeKey('s'), core.ActionScores, -1},
		{"unmapped", runeKey('x'), core.ActionNone, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := km.MapKey(tc.msg)
			if got.Action != tc.action || got.Option != tc.option {
				t.Errorf("MapKey() = %v/%d, expected %v/%d", got.Action, got.Option, tc.action, tc.option)
			}
		})
	}
}

func TestMapFormKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
	}{
		{"tab moves down", tea.KeyMsg{Type: tea.KeyTab}, core.ActionDown},
		{"shift+tab moves up", tea.KeyMsg{Type: tea.KeyShiftTab}, core.ActionUp},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{"letters are not bound", runeKey('q'), core.ActionNone},
		{"digits are not bound", runeKey('1'), core.ActionNone},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := km.MapFormKey(tc.msg); got != tc.action {
				t.Errorf("MapFormKey() = %v, expected %v", got, tc.action)
			}
		})
	}
}
