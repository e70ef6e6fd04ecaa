package gallery

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	engine "github.com/zjrosen/posters/internal/carousel"
	"github.com/zjrosen/posters/internal/config"
	"github.com/zjrosen/posters/internal/deck"
	"github.com/zjrosen/posters/internal/loop"
)

// Spring settles a slide-width move in roughly the transition time.
const (
	springFrequency = 14.0
	springDamping   = 1.0
	settleEpsilon   = 0.5 // px
)

// imageState is what the gallery knows about one extended slide's image.
type imageState struct {
	metrics deck.Metrics
	loaded  bool
	failed  bool
	none    bool // the slide has no image
}

// track is the terminal rendition of the carousel track. It measures the
// rendered slide boxes for the engine and animates the translation it is
// told to paint. Lengths handed to the engine are pixels; one cell is
// ui.pixels_per_cell pixels.
type track struct {
	ui       config.UIConfig
	extended []deck.Slide // deck slides by extended index
	reg      *engine.Registry
	widths func(index int) (float64, engine.WidthSource)
	sched  loop.Scheduler

	images  []imageState // by extended index
	natural []int        // measured box widths in cells, by extended index
	wrapper int          // cells
	window  int          // cells

	active      int
	activeReal  int
	transitions bool

	pos, vel, target float64
	placed           bool
	spring           harmonica.Spring
	anim             loop.Slot
}

func newTrack(ui config.UIConfig, slides []deck.Slide, sched loop.Scheduler, frame float64) *track {
	return &track{
		ui:          ui,
		extended:    engine.Extend(slides),
		sched:       sched,
		images:      make([]imageState, len(slides)+2),
		transitions: true,
		activeReal:  -1,
		spring:      harmonica.NewSpring(frame, springFrequency, springDamping),
	}
}

// attach connects the track to the carousel built on top of it.
func (t *track) attach(c *engine.Carousel) {
	t.reg = c.Registry()
	t.widths = c.Layout().SlideWidth
}

func (t *track) px(cells int) float64 {
	return float64(cells) * t.ui.PixelsPerCell
}

func (t *track) cells(px float64) int {
	return int(math.Round(px / t.ui.PixelsPerCell))
}

// setImage records a probe result. It reports whether anything about the
// slide's image changed.
func (t *track) setImage(index int, m deck.Metrics, err error, none bool) bool {
	if index < 0 || index >= len(t.images) {
		return false
	}
	next := imageState{metrics: m, loaded: err == nil && !none, failed: err != nil, none: none}
	if next == t.images[index] {
		return false
	}
	t.images[index] = next
	return true
}

// real returns the deck slide shown at an extended index.
func (t *track) real(index int) deck.Slide {
	if index < 0 || index >= len(t.extended) {
		return deck.Slide{}
	}
	return t.extended[index]
}

// Flush measures every slide box at its natural size.
func (t *track) Flush() {
	if t.reg == nil {
		return
	}
	n := t.reg.Len()
	if len(t.natural) != n {
		t.natural = make([]int, n)
	}
	for i := 0; i < n; i++ {
		t.natural[i] = lipgloss.Width(t.renderSlide(i, 0))
	}
}

// TrackStyle returns the track's left padding and gap.
func (t *track) TrackStyle() (paddingLeft, gap float64) {
	return t.px(t.ui.TrackPaddingCells), t.px(t.ui.GapCells)
}

// WrapperWidth returns the visible track width.
func (t *track) WrapperWidth() float64 {
	return t.px(t.wrapper)
}

// WindowWidth returns the terminal width.
func (t *track) WindowWidth() float64 {
	return t.px(t.window)
}

// SlideWidth returns the measured box width, or 0 before the first Flush.
func (t *track) SlideWidth(index int) float64 {
	if index < 0 || index >= len(t.natural) {
		return 0
	}
	return t.px(t.natural[index])
}

// ImageNaturalWidth returns the scaled image width, or 0 when the image has
// not loaded.
func (t *track) ImageNaturalWidth(index int) float64 {
	if index < 0 || index >= len(t.images) || !t.images[index].loaded {
		return 0
	}
	return float64(t.images[index].metrics.Width) / t.ui.ImageScale
}

// SlidePadding returns the slide's horizontal padding.
func (t *track) SlidePadding(int) (left, right float64) {
	p := t.px(t.ui.SlidePaddingCells)
	return p, p
}

// SetActive marks the active slide.
func (t *track) SetActive(index, real int) {
	t.active = index
	t.activeReal = real
}

// SetTransitions turns animation on or off. Turning it off lands any move in
// flight.
func (t *track) SetTransitions(enabled bool) {
	t.transitions = enabled
	if !enabled && t.anim.Stop() {
		t.land()
	}
}

// Translate moves the track to offset, animated unless transitions are off
// or nothing has been painted yet.
func (t *track) Translate(offset float64) {
	t.target = offset
	if !t.transitions || !t.placed {
		t.anim.Stop()
		t.placed = true
		t.land()
		return
	}
	if !t.anim.Pending() {
		t.step()
	}
}

func (t *track) step() {
	t.anim.Set(t.sched.RequestFrame(func() {
		t.anim.Clear()
		t.pos, t.vel = t.spring.Update(t.pos, t.vel, t.target)
		if math.Abs(t.pos-t.target) < settleEpsilon && math.Abs(t.vel) < settleEpsilon {
			t.land()
			return
		}
		t.step()
	}))
}

func (t *track) land() {
	t.pos = t.target
	t.vel = 0
}

// Animating reports whether a move is in flight.
func (t *track) Animating() bool {
	return t.anim.Pending()
}

// offsetCells is the translation currently on screen.
func (t *track) offsetCells() int {
	return t.cells(t.pos)
}

// boxWidth is the width a slide is drawn at: the engine's resolved width,
// which equals the measured width unless a fallback applied.
func (t *track) boxWidth(index int) int {
	if t.widths == nil {
		return lipgloss.Width(t.renderSlide(index, 0))
	}
	w, _ := t.widths(index)
	return max(t.cells(w), t.frameWidth()+1)
}

func (t *track) stop() {
	t.anim.Stop()
}
