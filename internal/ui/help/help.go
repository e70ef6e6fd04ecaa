// Package help renders the keybinding and gesture reference page.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/posters/internal/keys"
	"github.com/zjrosen/posters/internal/ui/overlay"
	"github.com/zjrosen/posters/internal/ui/styles"
)

// Gesture is a mouse interaction and what it does.
type Gesture struct {
	Input string
	Desc  string
}

// Gestures returns the mouse interactions the gallery understands.
func Gestures() []Gesture {
	return []Gesture{
		{Input: "click ‹ ›", Desc: "previous / next poster"},
		{Input: "click ● ○", Desc: "jump to poster"},
		{Input: "drag", Desc: "fast flick left/right to swipe"},
		{Input: "hover", Desc: "pause autoplay"},
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextDescriptionColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Model is the help page.
type Model struct {
	keys   keys.KeyMap
	width  int
	height int
}

// New creates a help page for km.
func New(km keys.KeyMap) Model {
	return Model{keys: km}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered on an empty page.
func (m Model) View() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.box())
}

// Overlay renders the help box over background.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.box(), background)
}

func (m Model) box() string {
	column := lipgloss.NewStyle().MarginRight(4)

	var nav strings.Builder
	nav.WriteString(sectionStyle.Render("Navigation"))
	nav.WriteString("\n")
	nav.WriteString(binding(m.keys.Prev))
	nav.WriteString(binding(m.keys.Next))

	var actions strings.Builder
	actions.WriteString(sectionStyle.Render("Actions"))
	actions.WriteString("\n")
	actions.WriteString(binding(m.keys.ToggleAutoplay))
	actions.WriteString(binding(m.keys.ToggleCaptions))
	actions.WriteString(binding(m.keys.Refresh))

	var general strings.Builder
	general.WriteString(sectionStyle.Render("General"))
	general.WriteString("\n")
	general.WriteString(binding(m.keys.Logs))
	general.WriteString(binding(m.keys.Help))
	general.WriteString(binding(m.keys.Escape))
	general.WriteString(binding(m.keys.Quit))

	var mouse strings.Builder
	mouse.WriteString(sectionStyle.Render("Mouse"))
	mouse.WriteString("\n")
	for _, g := range Gestures() {
		mouse.WriteString(keyDesc(g.Input, g.Desc))
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		column.Render(nav.String()),
		column.Render(actions.String()),
		general.String(),
	)
	body := lipgloss.NewStyle().Padding(0, 2).Render(
		columns + "\n" + mouse.String() + footerStyle.Render("Press ? or Esc to close"))
	width := lipgloss.Width(body)

	return boxStyle.Width(width).Render(
		titleStyle.Render("Keybindings") + "\n" +
			dividerStyle.Render(strings.Repeat("─", width)) + "\n" +
			body)
}

func binding(b key.Binding) string {
	h := b.Help()
	return keyDesc(h.Key, h.Desc)
}

func keyDesc(k, desc string) string {
	return keyStyle.Render(k) + descStyle.Render(desc) + "\n"
}
