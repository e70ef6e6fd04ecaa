// Package gallery is the terminal host for the carousel engine: it measures
// and draws the slide track, animates its translation, and turns keys,
// mouse gestures, focus and resizes into carousel input.
package gallery

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
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
	"github.com/zjrosen/posters/internal/ui/styles"
)

// Zone names, prefixed per instance.
const (
	zoneTrack     = "track"
	zonePrev      = "prev"
	zoneNext      = "next"
	zoneIndicator = "indicator-"
)

// Options configures a gallery.
type Options struct {
	UI         config.UIConfig
	Timing     engine.Timing
	Thresholds engine.Thresholds
	Autoplay   bool
	Keys       keys.KeyMap

	// Scope gates keyboard navigation; nil disables it.
	Scope  engine.Scope
	Events pubsub.Publisher[engine.Event]
	Tracer trace.Tracer
	Prober *deck.Prober

	// Scheduler overrides the Bubble Tea scheduler, for tests.
	Scheduler     loop.Scheduler
	FrameInterval time.Duration
	Context       context.Context
}

// probedMsg carries one image probe result back to Update.
type probedMsg struct {
	owner   string
	index   int
	metrics deck.Metrics
	err     error
	none    bool
}

// pointer holds gesture state shared by every copy of the model.
type pointer struct {
	pressed  bool
	hovering bool
	reprobe  bool
}

// Model is the gallery component.
type Model struct {
	deck   *deck.Deck
	keys   keys.KeyMap
	ctx    context.Context
	prober *deck.Prober

	tea   *loop.Tea // nil when Options.Scheduler is set
	sched loop.Scheduler
	track *track
	car   *engine.Carousel
	err   error
	ready *deck.Readiness
	ptr   *pointer

	spinner spinner.Model
	zones   string
	height  int
}

// New builds a gallery over d. When the carousel cannot be built (no
// slides), the model renders an empty state and ignores input.
func New(d *deck.Deck, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = loop.DefaultFrameInterval
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Prober == nil {
		opts.Prober = deck.NewProber()
	}

	m := Model{
		deck:   d,
		keys:   opts.Keys,
		ctx:    opts.Context,
		prober: opts.Prober,
		sched:  opts.Scheduler,
		ptr:    &pointer{},
		zones:  zone.NewPrefix(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.SpinnerColor)),
		),
	}
	if m.sched == nil {
		m.tea = loop.NewTea(opts.FrameInterval)
		m.sched = m.tea
	}

	var slides []deck.Slide
	if d != nil {
		slides = d.Slides
	}
	m.track = newTrack(opts.UI, slides, m.sched, opts.FrameInterval.Seconds())

	var geo engine.Geometry
	var surface engine.Surface
	if d != nil {
		geo, surface = m.track, m.track
	}
	m.car, m.err = engine.New(engine.Options{
		Slides:       len(slides),
		Geometry:     geo,
		Surface:      surface,
		Scheduler:    m.sched,
		Scope:        opts.Scope,
		Timing:       opts.Timing,
		Thresholds:   opts.Thresholds,
		Autoplay:     opts.Autoplay,
		Tracer:       opts.Tracer,
		Events:       opts.Events,
		OnSettlePass: func() { m.ptr.reprobe = true },
	})
	if m.err != nil {
		log.Warn(log.CatUI, "Gallery has nothing to show", "error", m.err)
		m.ready = deck.NewReadiness(0)
		return m
	}
	m.track.attach(m.car)
	m.ready = deck.NewReadiness(m.car.Registry().Len())
	return m
}

// Init starts the carousel and probes every slide image, clones included.
func (m Model) Init() tea.Cmd {
	if m.err != nil {
		return nil
	}
	m.car.Start()
	return tea.Batch(m.spinner.Tick, m.probeAll(), m.flush())
}

func (m Model) flush() tea.Cmd {
	if m.tea == nil {
		return nil
	}
	return m.tea.Flush()
}

func (m Model) probeAll() tea.Cmd {
	slides := m.car.Registry().Slides()
	cmds := make([]tea.Cmd, 0, len(slides))
	for _, s := range slides {
		cmds = append(cmds, m.probe(s.Index, m.deck.ImagePath(s.Real)))
	}
	return tea.Batch(cmds...)
}

func (m Model) probe(index int, path string) tea.Cmd {
	owner, ctx, prober := m.car.ID(), m.ctx, m.prober
	return func() tea.Msg {
		if path == "" {
			return probedMsg{owner: owner, index: index, none: true}
		}
		metrics, err := prober.Probe(ctx, path)
		return probedMsg{owner: owner, index: index, metrics: metrics, err: err}
	}
}

// Update handles carousel timers, probe results and input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case loop.FiredMsg:
		if m.tea != nil {
			m.tea.Handle(msg)
		}
	case probedMsg:
		if msg.owner == m.car.ID() {
			m.handleProbe(msg)
		}
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.FocusMsg:
		m.car.Input().VisibilityChanged(false)
	case tea.BlurMsg:
		m.car.Input().VisibilityChanged(true)
	case spinner.TickMsg:
		if !m.ready.Done() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.ptr.reprobe {
		m.ptr.reprobe = false
		cmds = append(cmds, m.probeAll())
	}
	cmds = append(cmds, m.flush())
	return m, tea.Batch(cmds...)
}

func (m Model) handleProbe(msg probedMsg) {
	changed := m.track.setImage(msg.index, msg.metrics, msg.err, msg.none)
	if msg.err != nil {
		log.Warn(log.CatUI, "Slide image failed", "index", msg.index, "error", msg.err)
	}
	if m.ready.Settle(msg.index, msg.err) {
		_, total := m.ready.Progress()
		log.Info(log.CatUI, "Slide images settled", "total", total, "failed", m.ready.Failed())
		m.car.ImagesSettled()
		return
	}
	if changed && m.ready.Done() {
		m.car.Refresh()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.car.Input().KeyDown(engine.KeyArrowLeft)
	case key.Matches(msg, m.keys.Next):
		m.car.Input().KeyDown(engine.KeyArrowRight)
	}
}

// handleMouse maps the terminal mouse onto the carousel: a left press and
// release on the track is a touch, motion across the track edge is pointer
// enter/leave, and wheel events over the track are swallowed.
func (m Model) handleMouse(msg tea.MouseMsg) {
	in := m.car.Input()
	overTrack := m.inZone(zoneTrack, msg)

	if tea.MouseEvent(msg).IsWheel() {
		if overTrack {
			in.Wheel()
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.hover(overTrack)
		switch {
		case m.inZone(zonePrev, msg):
			in.PrevControl()
		case m.inZone(zoneNext, msg):
			in.NextControl()
		case overTrack:
			m.ptr.pressed = true
			in.TouchStart(m.track.px(msg.X))
		default:
			if real, ok := m.indicatorAt(msg); ok {
				in.IndicatorClick(real)
			}
		}
	case tea.MouseActionMotion:
		if m.ptr.pressed {
			in.TouchMove()
		}
		m.hover(overTrack)
	case tea.MouseActionRelease:
		if m.ptr.pressed {
			m.ptr.pressed = false
			in.TouchEnd(m.track.px(msg.X))
		}
	}
}

func (m Model) hover(over bool) {
	if over == m.ptr.hovering {
		return
	}
	m.ptr.hovering = over
	if over {
		m.car.Input().PointerEnter()
	} else {
		m.car.Input().PointerLeave()
	}
}

func (m Model) zoneID(name string) string {
	return m.zones + name
}

func (m Model) inZone(name string, msg tea.MouseMsg) bool {
	z := zone.Get(m.zoneID(name))
	return z != nil && z.InBounds(msg)
}

func (m Model) indicatorAt(msg tea.MouseMsg) (int, bool) {
	for r := 0; r < m.car.Registry().RealCount(); r++ {
		if m.inZone(zoneIndicator+strconv.Itoa(r), msg) {
			return r, true
		}
	}
	return 0, false
}

// Resize sets the visible track width and the terminal width, in cells. A
// terminal resize goes through the debounced window path; a track width
// change (the caption panel opening) relayouts immediately.
func (m Model) Resize(wrapper, window, height int) (Model, tea.Cmd) {
	m.height = height
	windowChanged := window != m.track.window
	wrapperChanged := wrapper != m.track.wrapper
	m.track.window = window
	m.track.wrapper = wrapper
	if m.err != nil {
		return m, nil
	}
	if windowChanged {
		m.car.Input().WindowResized()
	}
	if wrapperChanged {
		m.car.Input().WrapperResized()
	}
	return m, m.flush()
}

// Reload re-probes every image and relayouts.
func (m Model) Reload() (Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}
	m.car.Refresh()
	return m, tea.Batch(m.probeAll(), m.flush())
}

// ImagesChanged re-probes the slides showing any of paths.
func (m Model) ImagesChanged(paths []string) (Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}
	reals := make(map[int]bool)
	for _, p := range paths {
		for _, r := range m.deck.SlidesForImage(p) {
			reals[r] = true
		}
	}
	var cmds []tea.Cmd
	for _, s := range m.car.Registry().Slides() {
		if reals[s.Real] {
			cmds = append(cmds, m.probe(s.Index, m.deck.ImagePath(s.Real)))
		}
	}
	if len(cmds) > 0 {
		log.Debug(log.CatUI, "Re-probing changed images", "paths", len(paths), "slides", len(cmds))
	}
	return m, tea.Batch(cmds...)
}

// SetAutoplay turns autoplay on or off.
func (m Model) SetAutoplay(enabled bool) (Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}
	m.car.Autoplay().SetEnabled(enabled)
	return m, m.flush()
}

// AutoplayEnabled reports whether autoplay is on.
func (m Model) AutoplayEnabled() bool {
	return m.err == nil && m.car.Autoplay().Enabled()
}

// ActiveSlide returns the slide on screen and its real index, or -1 when
// there is none.
func (m Model) ActiveSlide() (deck.Slide, int) {
	real := m.car.ActiveReal()
	if m.deck == nil || real < 0 || real >= m.deck.Len() {
		return deck.Slide{}, -1
	}
	return m.deck.Slides[real], real
}

// Carousel returns the underlying engine, nil when it could not be built.
func (m Model) Carousel() *engine.Carousel {
	return m.car
}

// Err returns why the carousel could not be built.
func (m Model) Err() error {
	return m.err
}

// Loading reports whether images are still being probed.
func (m Model) Loading() bool {
	return m.err == nil && !m.ready.Done()
}

// Stop cancels the carousel's timers and the track animation.
func (m Model) Stop() {
	m.car.Stop()
	m.track.stop()
}

// View renders the header, the track and the controls. Zone markers are
// left in; the root model scans them.
func (m Model) View() string {
	width := m.track.wrapper
	if m.err != nil {
		msg := lipgloss.JoinVertical(lipgloss.Center,
			"No posters to show",
			lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(m.err.Error()))
		return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, styles.ErrorStyle.Render(msg))
	}

	sections := []string{
		m.header(width),
		"",
		zone.Mark(m.zoneID(zoneTrack), m.track.view()),
		"",
		m.controls(width),
	}
	if m.Loading() {
		settled, total := m.ready.Progress()
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			fmt.Sprintf("%s Loading posters %d/%d", m.spinner.View(), settled, total)))
	}
	return strings.Join(sections, "\n")
}

func (m Model) header(width int) string {
	title := "posters"
	if m.deck.Title != "" {
		title = m.deck.Title
	}
	slide, real := m.ActiveSlide()
	left := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).Render(truncate(title, width/2))
	if slide.Title != "" {
		left += lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Render(" · " + truncate(slide.Title, width/3))
	}

	state := "▶ autoplay"
	switch {
	case !m.car.Autoplay().Enabled():
		state = "autoplay off"
	case !m.car.Autoplay().Running():
		state = "⏸ paused"
	}
	right := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(
		fmt.Sprintf("%s  %d/%d", state, real+1, m.deck.Len()))

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) controls(width int) string {
	control := lipgloss.NewStyle().Foreground(styles.ControlColor).Bold(true)
	dot := lipgloss.NewStyle().Foreground(styles.IndicatorColor)
	activeDot := lipgloss.NewStyle().Foreground(styles.IndicatorActiveColor)

	active := m.car.ActiveReal()
	dots := make([]string, 0, m.deck.Len())
	for r := 0; r < m.deck.Len(); r++ {
		d := dot.Render("○")
		if r == active {
			d = activeDot.Render("●")
		}
		dots = append(dots, zone.Mark(m.zoneID(zoneIndicator+strconv.Itoa(r)), d))
	}

	row := zone.Mark(m.zoneID(zonePrev), control.Render(" ‹ ")) + "  " +
		strings.Join(dots, " ") + "  " +
		zone.Mark(m.zoneID(zoneNext), control.Render(" › "))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}
