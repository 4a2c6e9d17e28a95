package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, s Selector, msgs ...tea.KeyMsg) (Selector, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = s.Update(msg)
		var ok bool
		s, ok = model.(Selector)
		require.True(t, ok, "Update must return a Selector")
	}
	return s, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyJ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
)

func TestSelector_NavigateAndSelect(t *testing.T) {
	s := NewSelector("Select table", OptionsFromStrings([]string{"alpha", "beta", "gamma"}))

	s, cmd := press(t, s, keyDown, keyJ, keyDown, keyUp, keyEnter)

	assert.True(t, s.Submitted())
	assert.False(t, s.Cancelled())
	assert.Equal(t, 1, s.Selected())
	assert.Equal(t, "beta", s.Value())
	require.NotNil(t, cmd, "enter quits the program")
}

func TestSelector_CursorStaysInBounds(t *testing.T) {
	s := NewSelector("Select table", OptionsFromStrings([]string{"alpha", "beta"}))

	s, _ = press(t, s, keyUp, keyUp, keyDown, keyDown, keyDown, keyEnter)

	assert.Equal(t, "beta", s.Value())
}

func TestSelector_Cancel(t *testing.T) {
	s := NewSelector("Select table", OptionsFromStrings([]string{"alpha"}))

	s, cmd := press(t, s, keyEsc)

	assert.True(t, s.Cancelled())
	assert.False(t, s.Submitted())
	assert.Equal(t, -1, s.Selected())
	assert.Nil(t, s.SelectedOption())
	assert.Equal(t, "", s.Value())
	assert.NotNil(t, cmd)
}

func TestSelector_EnterWithNoOptionsIsIgnored(t *testing.T) {
	s := NewSelector("Select table", nil)

	s, cmd := press(t, s, keyEnter)

	assert.False(t, s.Submitted())
	assert.Nil(t, cmd)
}

func TestSelector_View(t *testing.T) {
	s := NewSelector("Select table", []Option{
		{Label: "alpha", Value: "alpha", Description: "public.alpha"},
		{Label: "beta", Value: "beta"},
	})

	view := s.View()
	assert.Contains(t, view, "Select table")
	assert.Contains(t, view, "● alpha")
	assert.Contains(t, view, "○ beta")
	assert.Contains(t, view, "public.alpha")
	assert.Contains(t, view, "enter select")

	assert.NotContains(t, s.WithShowHelp(false).View(), "enter select")
}
