package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-linka/internal/core"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEngineKey(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Key
	}{
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.KeyUp},
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, core.KeyDown},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.KeyLeft},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.KeyRight},
		{"w", runes("w"), core.KeyUp},
		{"a", runes("a"), core.KeyLeft},
		{"s", runes("s"), core.KeyDown},
		{"d", runes("d"), core.KeyRight},
		{"space", runes(" "), core.KeyAction},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.KeyConfirm},
		{"quit is not an engine key", runes("q"), core.KeyNone},
		{"unbound key", runes("x"), core.KeyNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := keys.EngineKey(tc.msg); got != tc.expected {
				t.Errorf("EngineKey(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
			}
		})
	}
}

func TestFullHelpListsEveryBinding(t *testing.T) {
	keys := DefaultKeyMap()
	n := 0
	for _, col := range keys.FullHelp() {
		n += len(col)
	}
	if n != 9 {
		t.Errorf("FullHelp() lists %d bindings, expected 9", n)
	}
}
