package app

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/zjrosen/posters/internal/carousel"
	"github.com/zjrosen/posters/internal/config"
	"github.com/zjrosen/posters/internal/deck"
	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
	"github.com/zjrosen/posters/internal/pubsub"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testDeck(t *testing.T) *deck.Deck {
	t.Helper()
	dir := t.TempDir()
	d := &deck.Deck{Title: "Test", Dir: dir}
	for _, name := range []string{"alpha", "beta", "gamma"} {
		f, err := os.Create(filepath.Join(dir, name+".png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 300, 450))))
		require.NoError(t, f.Close())
		d.Slides = append(d.Slides, deck.Slide{
			Title:   name,
			Image:   name + ".png",
			Caption: "A **bold** caption for " + name,
		})
	}
	return d
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.Watch = false
	cfg.UI.PosterRows = 6
	return cfg
}

// createTestModel creates a sized Model on a virtual clock.
func createTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Scheduler == nil {
		opts.Scheduler = loop.NewVirtual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	m := New(testDeck(t), testConfig(), opts)
	t.Cleanup(func() { _ = m.Close() })
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newModel.(Model)
}

func press(m Model, msg tea.KeyMsg) Model {
	newModel, _ := m.Update(msg)
	return newModel.(Model)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t, Options{})

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = newModel.(Model)

	assert.Equal(t, 100, m.width, "expected width to be updated")
	assert.Equal(t, 30, m.height, "expected height to be updated")
	assert.Equal(t, PageGallery, m.Page())
}

func TestApp_HelpPageScopesKeyboard(t *testing.T) {
	m := createTestModel(t, Options{})
	start := m.Gallery().Carousel().State().CurrentIndex

	m = press(m, runeKey('?'))
	require.Equal(t, PageHelp, m.Page())
	assert.False(t, m.scope.Present())
	assert.Contains(t, m.View(), "Navigation")

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, start, m.Gallery().Carousel().State().CurrentIndex, "arrow keys are ignored off the gallery page")

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, PageGallery, m.Page())
	assert.True(t, m.scope.Present())

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, start+1, m.Gallery().Carousel().State().CurrentIndex)
}

func TestApp_ToggleAutoplayPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	m := createTestModel(t, Options{ConfigPath: path})
	require.True(t, m.Gallery().AutoplayEnabled())

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Gallery().AutoplayEnabled())
	assert.Equal(t, "Autoplay off", m.toaster.Message())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "autoplay: false")

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.Gallery().AutoplayEnabled())
	assert.Equal(t, "Autoplay on", m.toaster.Message())
}

func TestApp_ToggleAutoplayWithoutConfigPath(t *testing.T) {
	m := createTestModel(t, Options{})

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Gallery().AutoplayEnabled())
	assert.Equal(t, "Autoplay off", m.toaster.Message())
}

func TestApp_CaptionPanel(t *testing.T) {
	m := createTestModel(t, Options{})
	require.Zero(t, m.panelWidth())
	assert.NotContains(t, ansi.Strip(m.View()), "caption for alpha")

	m = press(m, runeKey('i'))
	assert.Equal(t, 40, m.panelWidth())
	assert.True(t, m.cfg.UI.ShowCaptions)
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "caption for alpha")
	for _, line := range bytes.Split([]byte(view), []byte("\n")) {
		assert.LessOrEqual(t, lipgloss.Width(string(line)), 120)
	}

	m = press(m, runeKey('i'))
	assert.Zero(t, m.panelWidth())
}

func TestApp_CaptionPanelNeedsRoom(t *testing.T) {
	m := createTestModel(t, Options{})
	m = press(m, runeKey('i'))

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	m = newModel.(Model)
	assert.Zero(t, m.panelWidth(), "a narrow terminal hides the panel")
}

func TestApp_CarouselEventsUpdateStatus(t *testing.T) {
	m := createTestModel(t, Options{})

	newModel, cmd := m.Update(pubsub.Event[engine.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: engine.Event{Kind: engine.EventLoopReset, Source: "loop"},
	})
	m = newModel.(Model)
	assert.Equal(t, "looped", m.status)
	assert.NotNil(t, cmd, "the listener re-subscribes")

	newModel, _ = m.Update(pubsub.Event[engine.Event]{Payload: engine.Event{Kind: engine.EventSettled}})
	m = newModel.(Model)
	assert.Equal(t, "looped", m.status, "settling keeps the last status")

	newModel, _ = m.Update(pubsub.Event[engine.Event]{Payload: engine.Event{Kind: engine.EventNavigated, Source: "keyboard"}})
	m = newModel.(Model)
	assert.Equal(t, "keyboard → alpha", m.status)
	assert.Contains(t, m.View(), "keyboard → alpha")
}

func TestApp_WatcherEventShowsToast(t *testing.T) {
	m := createTestModel(t, Options{})

	newModel, _ := m.Update(pubsub.Event[[]string]{
		Payload: []string{"beta.png"},
	})
	m = newModel.(Model)
	assert.Equal(t, "Posters updated", m.toaster.Message())
}

func TestApp_LogOverlayRequiresDebug(t *testing.T) {
	m := createTestModel(t, Options{})
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.logOverlay.Visible())

	m = createTestModel(t, Options{Debug: true})
	newModel, _ := m.Update(log.LogEvent{Payload: "12:00:00 [INFO] [ui] hello"})
	m = newModel.(Model)
	assert.Equal(t, 1, m.logOverlay.Len())

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, m.logOverlay.Visible())

	// Keys go to the overlay while it is open.
	m = press(m, runeKey('?'))
	assert.Equal(t, PageGallery, m.Page())

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.logOverlay.Visible())
}

func TestApp_Quit(t *testing.T) {
	m := createTestModel(t, Options{})
	_, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_EmptyDeck(t *testing.T) {
	m := New(&deck.Deck{Title: "Empty"}, testConfig(), Options{Scheduler: loop.NewVirtual(time.Now())})
	t.Cleanup(func() { _ = m.Close() })
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = newModel.(Model)

	assert.Contains(t, m.View(), "No posters to show")

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.toaster.Visible(), "autoplay cannot be toggled without slides")
}

func TestApp_Program(t *testing.T) {
	m := New(testDeck(t), testConfig(), Options{})
	t.Cleanup(func() { _ = m.Close() })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Test")) && bytes.Contains(out, []byte("1/3"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runeKey('?'))
	tm.Send(runeKey('q'))

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	assert.Equal(t, PageHelp, final.Page())
}
