package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, theme.Primary)
	assert.NotEmpty(t, theme.User)
	assert.NotEmpty(t, theme.Model)
	assert.NotEmpty(t, theme.Error)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestNewStyles_CustomTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.Primary = "#FF0000"

	s := NewStyles(theme)

	assert.Equal(t, theme, s.Theme())
}

func TestDefaultStyles_RenderDoesNotPanic(t *testing.T) {
	s := DefaultStyles()

	assert.NotPanics(t, func() {
		_ = s.Title.Render("title")
		_ = s.UserLabel.Render("You")
		_ = s.ModelLabel.Render("Assistant")
		_ = s.StatusBar.Render("status")
	})
}
