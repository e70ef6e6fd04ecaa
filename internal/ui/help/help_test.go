package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/zjrosen/posters/internal/keys"
)

func TestHelp_SetSize(t *testing.T) {
	m := New(keys.DefaultKeyMap()).SetSize(120, 40)
	m2 := m.SetSize(80, 24)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 80, m2.width)
	assert.Equal(t, 24, m2.height)
}

func TestHelp_View_Sections(t *testing.T) {
	view := New(keys.DefaultKeyMap()).SetSize(100, 30).View()

	for _, section := range []string{"Keybindings", "Navigation", "Actions", "General", "Mouse"} {
		assert.Contains(t, view, section)
	}
	assert.Contains(t, view, "Press ? or Esc to close")
}

func TestHelp_View_Bindings(t *testing.T) {
	view := New(keys.DefaultKeyMap()).SetSize(100, 30).View()

	assert.Contains(t, view, "previous poster")
	assert.Contains(t, view, "next poster")
	assert.Contains(t, view, "toggle autoplay")
	assert.Contains(t, view, "toggle caption panel")
	assert.Contains(t, view, "debug log")
	for _, g := range Gestures() {
		assert.Contains(t, view, g.Desc)
	}
}

func TestHelp_View_FillsPage(t *testing.T) {
	view := New(keys.DefaultKeyMap()).SetSize(100, 30).View()

	assert.Equal(t, 30, lipgloss.Height(view))
	assert.Equal(t, 100, lipgloss.Width(view))
}

func TestHelp_Overlay_KeepsBackgroundEdges(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 100)+"\n", 30), "\n")

	out := New(keys.DefaultKeyMap()).SetSize(100, 30).Overlay(bg)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 30)
	assert.Equal(t, strings.Repeat(".", 100), lines[0])
	assert.Contains(t, out, "Keybindings")
}
