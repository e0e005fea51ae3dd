package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
)

func TestNewChatInput_Defaults(t *testing.T) {
	c := NewChatInput(nil)

	assert.True(t, c.Focused())
	assert.Empty(t, c.Value())
}

func TestChatInput_TypingUpdatesValue(t *testing.T) {
	c := NewChatInput(styles.DefaultStyles())

	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})

	assert.Equal(t, "hi", c.Value())
}

func TestChatInput_SetValueAndReset(t *testing.T) {
	c := NewChatInput(styles.DefaultStyles())

	c.SetValue("draft question")
	assert.Equal(t, "draft question", c.Value())

	c.Reset()
	assert.Empty(t, c.Value())
}

func TestChatInput_FocusBlur(t *testing.T) {
	c := NewChatInput(styles.DefaultStyles())

	c.Blur()
	assert.False(t, c.Focused())

	c.Focus()
	assert.True(t, c.Focused())
}

func TestChatInput_SetWidthClampsMinimum(t *testing.T) {
	c := NewChatInput(styles.DefaultStyles())

	c.SetWidth(10)
	assert.Equal(t, 10, c.Width())

	c.SetWidth(120)
	assert.Equal(t, 120, c.Width())
}

func TestChatInput_View(t *testing.T) {
	c := NewChatInput(styles.DefaultStyles())
	c.SetValue("hello")

	assert.Contains(t, c.View(), "hello")
}
