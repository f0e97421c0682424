package keymaps

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestBuildKeyMap_Defaults(t *testing.T) {
	km := BuildKeyMap(nil)
	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")}, km.PickUp) {
		t.Errorf("expected m to pick up")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, km.Drop) {
		t.Errorf("expected enter to drop")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, km.ToggleStatus) {
		t.Errorf("expected space bar to toggle status")
	}
	if got := km.CursorLeft.Help().Key; got != "left" {
		t.Errorf("expected help to show first key, got %q", got)
	}
}

func TestBuildKeyMap_OverridesAreCaseInsensitive(t *testing.T) {
	km := BuildKeyMap(map[string]string{"pickup": "x, y"})
	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, km.PickUp) {
		t.Errorf("expected override to apply")
	}
	if key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")}, km.PickUp) {
		t.Errorf("expected default key replaced")
	}
}

func TestEveryDefinitionIsBound(t *testing.T) {
	km := BuildKeyMap(nil)
	b := km.bindings()
	if len(b) != len(KeyDefinitions) {
		t.Fatalf("expected %d bindings, got %d", len(KeyDefinitions), len(b))
	}
	for action, binding := range b {
		if _, ok := KeyDefinitions[action]; !ok {
			t.Errorf("binding %s has no definition", action)
		}
		if len(binding.Keys()) == 0 {
			t.Errorf("binding %s has no keys", action)
		}
	}
}
