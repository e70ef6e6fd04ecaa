// Package toaster shows short-lived notifications over the gallery.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/posters/internal/ui/overlay"
	"github.com/zjrosen/posters/internal/ui/styles"
)

// Style picks the toast's icon and border color.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

func (s Style) decorate() (string, lipgloss.TerminalColor) {
	switch s {
	case StyleError:
		return "❌ ", styles.ToastBorderErrorColor
	case StyleInfo:
		return "ℹ️ ", styles.ToastBorderInfoColor
	case StyleWarn:
		return "⚠️ ", styles.ToastBorderWarnColor
	default:
		return "✅ ", styles.ToastBorderSuccessColor
	}
}

// Model holds the current toast. Each Show gets a new sequence number so a
// dismissal scheduled for an older toast leaves a newer one alone.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates an empty toaster.
func New() Model {
	return Model{}
}

// Show replaces the current toast.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether a toast is showing.
func (m Model) Visible() bool {
	return m.visible && m.message != ""
}

// Message returns the text of the showing toast.
func (m Model) Message() string {
	if !m.Visible() {
		return ""
	}
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}
	icon, color := m.style.decorate()
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(icon + m.message)
}

// Overlay draws the toast at the bottom of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg asks the toaster to hide the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

// Dismiss handles a DismissMsg. A message for an older toast is ignored.
func (m Model) Dismiss(msg DismissMsg) Model {
	if msg.seq != m.seq {
		return m
	}
	return m.Hide()
}

// ScheduleDismiss returns a command that dismisses the current toast after d.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
