// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	bubbleshelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	engine "github.com/zjrosen/posters/internal/carousel"
	"github.com/zjrosen/posters/internal/config"
	"github.com/zjrosen/posters/internal/deck"
	"github.com/zjrosen/posters/internal/keys"
	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
	"github.com/zjrosen/posters/internal/pubsub"
	"github.com/zjrosen/posters/internal/ui/gallery"
	"github.com/zjrosen/posters/internal/ui/help"
	"github.com/zjrosen/posters/internal/ui/markdown"
	"github.com/zjrosen/posters/internal/ui/shared/logoverlay"
	"github.com/zjrosen/posters/internal/ui/styles"
	"github.com/zjrosen/posters/internal/ui/toaster"
	"github.com/zjrosen/posters/internal/watcher"
)

const (
	toastDuration  = 3 * time.Second
	panelMinWidth  = 24
	panelMaxWidth  = 48
	galleryMinWide = 30
)

// Page is the screen the app is showing.
type Page int

const (
	PageGallery Page = iota
	PageHelp
)

// Options holds the dependencies the root model is built with.
type Options struct {
	// ConfigPath is where toggles are persisted. Empty disables saving.
	ConfigPath string
	// Debug enables the log overlay (ctrl+x).
	Debug  bool
	Tracer trace.Tracer
	Prober *deck.Prober
	// Scheduler overrides the gallery's Bubble Tea scheduler, for tests.
	Scheduler loop.Scheduler
}

// Model is the root application state.
type Model struct {
	page    Page
	gallery gallery.Model
	help    help.Model
	footer  bubbleshelp.Model
	keys    keys.KeyMap
	scope   *engine.Marker

	cfg        config.Config
	configPath string

	// Global state
	width  int
	height int
	status string

	captions *markdown.Renderer

	toaster toaster.Model

	debugMode   bool
	logOverlay  logoverlay.Model
	logListener *log.LogListener

	ctx    context.Context
	cancel context.CancelFunc

	events         *pubsub.Broker[engine.Event]
	eventsListener *pubsub.ContinuousListener[engine.Event]

	// File watcher for image changes (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[[]string]
}

// New creates the root model for d.
func New(d *deck.Deck, cfg config.Config, opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())
	km := keys.DefaultKeyMap()
	scope := engine.NewMarker(true)
	events := pubsub.NewBroker[engine.Event]()

	m := Model{
		page:       PageGallery,
		help:       help.New(km),
		footer:     bubbleshelp.New(),
		keys:       km,
		scope:      scope,
		cfg:        cfg,
		configPath: opts.ConfigPath,
		toaster:    toaster.New(),
		debugMode:  opts.Debug,
		logOverlay: logoverlay.New(),
		ctx:        ctx,
		cancel:     cancel,
		events:     events,
	}
	m.eventsListener = pubsub.NewContinuousListener[engine.Event](ctx, events)
	m.gallery = gallery.New(d, gallery.Options{
		UI:         cfg.UI,
		Timing:     cfg.Carousel.Timing(),
		Thresholds: cfg.Carousel.Thresholds(),
		Autoplay:   cfg.Carousel.Autoplay,
		Keys:       km,
		Scope:      scope,
		Events:     events,
		Tracer:     opts.Tracer,
		Prober:     opts.Prober,
		Scheduler:  opts.Scheduler,
		Context:    ctx,
	})

	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}

	if cfg.Watch && d != nil && d.Dir != "" && m.gallery.Err() == nil {
		wcfg := watcher.DefaultConfig(d.Dir)
		wcfg.Match = deck.IsImage
		w, err := watcher.New(wcfg)
		if err == nil {
			if err := w.Start(); err == nil {
				m.watcherHandle = w
				m.watcherListener = pubsub.NewContinuousListener[[]string](ctx, w)
			} else {
				log.Warn(log.CatWatcher, "Watcher failed to start", "error", err)
				_ = w.Stop()
			}
		} else {
			log.Warn(log.CatWatcher, "Watcher unavailable", "error", err)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.gallery.Init(),
		m.eventsListener.Listen(),
	}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m.layout()

	case log.LogEvent:
		m.logOverlay.Append(msg.Payload)
		return m, m.logListener.Listen()

	case pubsub.Event[engine.Event]:
		if status := describe(msg.Payload, m.gallery); status != "" {
			m.status = status
		}
		return m, m.eventsListener.Listen()

	case pubsub.Event[[]string]:
		log.Debug(log.CatWatcher, "Images changed", "paths", msg.Payload)
		var cmd tea.Cmd
		m.gallery, cmd = m.gallery.ImagesChanged(msg.Payload)
		m.toaster = m.toaster.Show("Posters updated", toaster.StyleInfo)
		return m, tea.Batch(cmd, m.toaster.ScheduleDismiss(toastDuration), m.watcherListener.Listen())

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case logoverlay.CloseMsg:
		return m, nil

	case tea.MouseMsg:
		if m.logOverlay.Visible() || m.page != PageGallery {
			return m, nil
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.gallery, cmd = m.gallery.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debugMode && key.Matches(msg, m.keys.Logs) {
		m.logOverlay.Toggle()
		return m, nil
	}

	// The debug log overlay takes precedence while it is open.
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case m.page == PageHelp && key.Matches(msg, m.keys.Help, m.keys.Escape):
		m.setPage(PageGallery)
		return m, nil

	case m.page == PageGallery && key.Matches(msg, m.keys.Help):
		m.setPage(PageHelp)
		return m, nil

	case key.Matches(msg, m.keys.ToggleAutoplay):
		return m.toggleAutoplay()

	case key.Matches(msg, m.keys.ToggleCaptions):
		return m.toggleCaptions()

	case key.Matches(msg, m.keys.Refresh):
		var cmd tea.Cmd
		m.gallery, cmd = m.gallery.Reload()
		m.toaster = m.toaster.Show("Reloading posters", toaster.StyleInfo)
		return m, tea.Batch(cmd, m.toaster.ScheduleDismiss(toastDuration))
	}

	// Navigation keys reach the gallery on every page; the carousel ignores
	// them unless the gallery page is showing.
	var cmd tea.Cmd
	m.gallery, cmd = m.gallery.Update(msg)
	return m, cmd
}

func (m *Model) setPage(p Page) {
	log.Debug(log.CatUI, "Switching page", "from", m.page, "to", p)
	m.page = p
	m.scope.Set(p == PageGallery)
}

func (m Model) toggleAutoplay() (tea.Model, tea.Cmd) {
	if m.gallery.Err() != nil {
		return m, nil
	}
	enabled := !m.gallery.AutoplayEnabled()
	var cmd tea.Cmd
	m.gallery, cmd = m.gallery.SetAutoplay(enabled)
	m.cfg.Carousel.Autoplay = enabled

	msg, style := "Autoplay on", toaster.StyleSuccess
	if !enabled {
		msg, style = "Autoplay off", toaster.StyleInfo
	}
	if err := m.save(config.SaveAutoplay, enabled); err != nil {
		msg, style = "Autoplay changed but not saved: "+err.Error(), toaster.StyleWarn
	}
	m.toaster = m.toaster.Show(msg, style)
	return m, tea.Batch(cmd, m.toaster.ScheduleDismiss(toastDuration))
}

func (m Model) toggleCaptions() (tea.Model, tea.Cmd) {
	m.cfg.UI.ShowCaptions = !m.cfg.UI.ShowCaptions
	var saveCmd tea.Cmd
	if err := m.save(config.SaveShowCaptions, m.cfg.UI.ShowCaptions); err != nil {
		m.toaster = m.toaster.Show("Caption setting not saved: "+err.Error(), toaster.StyleWarn)
		saveCmd = m.toaster.ScheduleDismiss(toastDuration)
	}
	next, cmd := m.layout()
	return next, tea.Batch(cmd, saveCmd)
}

func (m Model) save(fn func(string, bool) error, value bool) error {
	if m.configPath == "" {
		return nil
	}
	if err := fn(m.configPath, value); err != nil {
		log.ErrorErr(log.CatConfig, "Saving setting failed", err, "path", m.configPath)
		return err
	}
	return nil
}

// panelWidth returns the caption panel width, or 0 when it is hidden or
// there is no room for it.
func (m Model) panelWidth() int {
	if !m.cfg.UI.ShowCaptions {
		return 0
	}
	w := min(max(m.width/3, panelMinWidth), panelMaxWidth)
	if m.width-w < galleryMinWide {
		return 0
	}
	return w
}

// layout sizes the gallery and the caption renderer. Opening or closing the
// caption panel changes the gallery's track width without a terminal
// resize.
func (m Model) layout() (tea.Model, tea.Cmd) {
	panel := m.panelWidth()
	if panel > 0 {
		inner := panel - styles.CaptionPanelStyle.GetHorizontalFrameSize()
		if m.captions == nil || m.captions.Width() != inner {
			r, err := markdown.New(inner, m.cfg.UI.MarkdownStyle)
			if err != nil {
				log.Warn(log.CatUI, "Caption renderer unavailable", "error", err)
			}
			m.captions = r
		}
	}
	var cmd tea.Cmd
	m.gallery, cmd = m.gallery.Resize(m.width-panel, m.width, max(m.height-1, 0))
	return m, cmd
}

// describe turns a carousel event into the footer's status text.
func describe(e engine.Event, g gallery.Model) string {
	switch e.Kind {
	case engine.EventNavigated:
		slide, _ := g.ActiveSlide()
		return fmt.Sprintf("%s → %s", e.Source, slide.Title)
	case engine.EventLoopReset:
		return "looped"
	case engine.EventAutoplayPaused:
		return "autoplay paused"
	case engine.EventAutoplayResumed:
		return "autoplay resumed"
	}
	return ""
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var view string
	switch m.page {
	case PageHelp:
		view = m.help.View()
	default:
		view = lipgloss.JoinVertical(lipgloss.Left, m.body(), m.statusLine())
	}

	view = m.toaster.Overlay(view, m.width, m.height)
	if m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}
	return zone.Scan(view)
}

func (m Model) body() string {
	height := max(m.height-1, 0)
	g := lipgloss.NewStyle().Width(m.width - m.panelWidth()).Height(height).MaxHeight(height).
		Render(m.gallery.View())
	panel := m.panelWidth()
	if panel == 0 {
		return g
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, g, m.captionPanel(panel, height))
}

func (m Model) captionPanel(width, height int) string {
	style := styles.CaptionPanelStyle.Width(width - styles.CaptionPanelStyle.GetHorizontalBorderSize()).
		Height(height).MaxHeight(height)
	slide, real := m.gallery.ActiveSlide()
	if real < 0 {
		return style.Render("")
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).Render(slide.Title)
	body := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No caption")
	switch {
	case slide.Caption == "":
	case m.captions == nil:
		body = markdown.Plain(slide.Caption, width-style.GetHorizontalFrameSize())
	default:
		body = m.captions.Render(slide.Caption)
	}
	return style.Render(title + "\n\n" + body)
}

func (m Model) statusLine() string {
	inner := max(m.width-styles.StatusBarStyle.GetHorizontalFrameSize(), 0)
	right := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(m.status)
	footer := m.footer
	footer.Width = max(inner-lipgloss.Width(right)-1, 0)
	left := footer.View(m.keys)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.StatusBarStyle.MaxWidth(m.width).Render(left)
	}
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// Page returns the page on screen.
func (m Model) Page() Page {
	return m.page
}

// Gallery returns the gallery component.
func (m Model) Gallery() gallery.Model {
	return m.gallery
}

// Close releases resources held by the model: the carousel's timers, the
// file watcher and every subscription.
func (m Model) Close() error {
	m.gallery.Stop()
	if m.cancel != nil {
		m.cancel()
	}
	m.events.Close()
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
