package input

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"YES", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"anything else", "maybe\n", true, false},
		{"empty uses default yes", "\n", true, true},
		{"empty uses default no", "\n", false, false},
		{"missing newline", "yes", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewLineConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm("Proceed?", tt.defaultYes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Proceed?")
		})
	}
}

func TestLineConfirmer_Hint(t *testing.T) {
	var out bytes.Buffer
	c := NewLineConfirmer(strings.NewReader("\n\n"), &out)

	_, _ = c.Confirm("A", true)
	assert.Contains(t, out.String(), "[Y/n]")

	out.Reset()
	_, _ = c.Confirm("B", false)
	assert.Contains(t, out.String(), "[y/N]")
}

func TestLineConfirmer_ClosedInput(t *testing.T) {
	c := NewLineConfirmer(strings.NewReader(""), &bytes.Buffer{})

	got, err := c.Confirm("Proceed?", true)
	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.False(t, got)
}

func TestLineConfirmer_SequentialAnswers(t *testing.T) {
	c := NewLineConfirmer(strings.NewReader("y\nn\n"), &bytes.Buffer{})

	first, err := c.Confirm("one", false)
	require.NoError(t, err)
	second, err := c.Confirm("two", false)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestFixed(t *testing.T) {
	yes, err := Fixed(true).Confirm("x", false)
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := Fixed(false).Confirm("x", true)
	require.NoError(t, err)
	assert.False(t, no)
}

func update(m confirmModel, key string) confirmModel {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(confirmModel)
}

func TestConfirmModel(t *testing.T) {
	t.Run("default cursor follows default answer", func(t *testing.T) {
		assert.Equal(t, 0, newConfirmModel("q", true).cursor)
		assert.Equal(t, 1, newConfirmModel("q", false).cursor)
	})

	t.Run("enter on default no", func(t *testing.T) {
		m := update(newConfirmModel("q", false), "enter")
		require.NotNil(t, m.selected)
		assert.False(t, *m.selected)
	})

	t.Run("navigate up then enter", func(t *testing.T) {
		m := newConfirmModel("q", false)
		m = update(m, "up")
		m = update(m, "enter")
		require.NotNil(t, m.selected)
		assert.True(t, *m.selected)
	})

	t.Run("cursor stays in bounds", func(t *testing.T) {
		m := newConfirmModel("q", false)
		m = update(m, "down")
		assert.Equal(t, 1, m.cursor)
		m = update(m, "up")
		m = update(m, "up")
		assert.Equal(t, 0, m.cursor)
	})

	t.Run("shortcut keys", func(t *testing.T) {
		m := update(newConfirmModel("q", false), "y")
		require.NotNil(t, m.selected)
		assert.True(t, *m.selected)

		m = update(newConfirmModel("q", true), "n")
		require.NotNil(t, m.selected)
		assert.False(t, *m.selected)
	})

	t.Run("escape leaves no selection", func(t *testing.T) {
		m := update(newConfirmModel("q", true), "esc")
		assert.Nil(t, m.selected)
	})

	t.Run("view shows message and choices", func(t *testing.T) {
		view := newConfirmModel("Overwrite?", false).View()
		assert.Contains(t, view, "Overwrite?")
		assert.Contains(t, view, "Yes, proceed")
		assert.Contains(t, view, "No, abort")
	})
}
