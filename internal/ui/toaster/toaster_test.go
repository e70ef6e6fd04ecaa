package toaster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShowHide(t *testing.T) {
	m := New().Show("Autoplay paused", StyleInfo)
	require.True(t, m.Visible())
	assert.Equal(t, "Autoplay paused", m.Message())

	m = m.Hide()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().Show("First", StyleSuccess).Show("Second", StyleError)

	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✅"},
		{StyleError, "❌"},
		{StyleInfo, "ℹ️"},
		{StyleWarn, "⚠️"},
	}
	for _, tt := range tests {
		view := New().Show("msg", tt.style).View()
		assert.Contains(t, view, tt.icon)
		assert.Contains(t, view, "msg")
		assert.Contains(t, view, "╭")
	}
}

func TestShow_Immutable(t *testing.T) {
	m1 := New()
	m2 := m1.Show("Hello", StyleSuccess)

	assert.False(t, m1.Visible())
	assert.True(t, m2.Visible())
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 10), "\n")

	assert.Equal(t, bg, New().Overlay(bg, 30, 10))

	lines := strings.Split(New().Show("Toast", StyleSuccess).Overlay(bg, 30, 10), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[7], "Toast")
	assert.Equal(t, strings.Repeat(".", 30), lines[9])
}

func TestDismiss_IgnoresStaleMessage(t *testing.T) {
	m := New().Show("first", StyleInfo)
	stale := m.ScheduleDismiss(0)().(DismissMsg)

	m = m.Show("second", StyleInfo)
	m = m.Dismiss(stale)
	assert.Equal(t, "second", m.Message())

	current := m.ScheduleDismiss(0)().(DismissMsg)
	m = m.Dismiss(current)
	assert.False(t, m.Visible())
}
