package carousel

import (
	"math"
	"time"

	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
)

// StyleCache holds the track metrics read by CacheStyles.
type StyleCache struct {
	PaddingLeft float64
	Gap         float64
}

// WidthSource names which measurement produced a slide width.
type WidthSource int

const (
	WidthMeasured WidthSource = iota // rendered width
	WidthImage                       // image natural width plus slide padding
	WidthFallback                    // min(max width, ratio * window width)
)

func (s WidthSource) String() string {
	switch s {
	case WidthMeasured:
		return "measured"
	case WidthImage:
		return "image"
	case WidthFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Placement describes where one extended slide sits when it is active.
type Placement struct {
	Slide
	Width  float64
	Source WidthSource
	Offset float64
}

// Layout computes the centering offset and paints it. Paint requests are
// coalesced onto one pending frame.
type Layout struct {
	geo      Geometry
	surface  Surface
	sched    loop.Scheduler
	reg      *Registry
	state    *State
	th       Thresholds
	reenable time.Duration

	styles      StyleCache
	pending     loop.Slot
	pendingSkip bool
	restore     loop.Slot
	lastOffset  float64
	paints      int

	// onReenabled runs after transitions come back on following a skipped
	// transition paint.
	onReenabled func()
}

func newLayout(o Options, reg *Registry, state *State) *Layout {
	return &Layout{
		geo:      o.Geometry,
		surface:  o.Surface,
		sched:    o.Scheduler,
		reg:      reg,
		state:    state,
		th:       o.Thresholds,
		reenable: o.Timing.Reenable,
	}
}

// CacheStyles reads the track's padding and gap. Call again after any
// layout-affecting resize.
func (l *Layout) CacheStyles() {
	pad, gap := l.geo.TrackStyle()
	l.styles = StyleCache{PaddingLeft: finite(pad), Gap: finite(gap)}
	log.Debug(log.CatLayout, "Cached track styles", "paddingLeft", l.styles.PaddingLeft, "gap", l.styles.Gap)
}

// Styles returns the cached track metrics.
func (l *Layout) Styles() StyleCache {
	return l.styles
}

// Schedule requests a paint on the next frame. A request made while another
// is pending replaces it; a replaced request that skipped transitions hands
// the skip on to its replacement.
func (l *Layout) Schedule(skipTransition bool) {
	if l.pending.Stop() && l.pendingSkip {
		skipTransition = true
	}
	l.pendingSkip = skipTransition
	l.pending.Set(l.sched.RequestFrame(func() {
		l.pending.Clear()
		skip := l.pendingSkip
		l.pendingSkip = false
		l.paint(skip)
	}))
}

// Pending reports whether a paint is waiting for its frame.
func (l *Layout) Pending() bool {
	return l.pending.Pending()
}

// LastOffset returns the offset of the most recent paint.
func (l *Layout) LastOffset() float64 {
	return l.lastOffset
}

// Paints returns how many paints have run.
func (l *Layout) Paints() int {
	return l.paints
}

func (l *Layout) paint(skipTransition bool) {
	index := l.reg.Clamp(l.state.CurrentIndex)
	l.surface.SetActive(index, l.reg.RealIndex(index))
	l.surface.SetTransitions(!skipTransition)

	l.geo.Flush()
	offset := l.ComputeOffset(index)
	l.Apply(offset, skipTransition)
	l.paints++

	log.Debug(log.CatLayout, "Painted", "index", index, "offset", offset, "skipTransition", skipTransition)
}

// Apply writes offset to the surface. With skipTransition set the write is
// not animated and transitions come back on after the re-enable delay.
func (l *Layout) Apply(offset float64, skipTransition bool) {
	if skipTransition {
		l.surface.SetTransitions(false)
	}
	l.surface.Translate(offset)
	l.lastOffset = offset

	if !skipTransition {
		return
	}
	l.restore.Set(l.sched.AfterFunc(l.reenable, func() {
		l.restore.Clear()
		l.surface.SetTransitions(true)
		if l.onReenabled != nil {
			l.onReenabled()
		}
	}))
}

// ComputeOffset returns the translation that centers the slide at index in
// the wrapper.
func (l *Layout) ComputeOffset(index int) float64 {
	center := l.geo.WrapperWidth() / 2
	return center - l.activeCenter(index)
}

// activeCenter is the distance from the track origin to the center of the
// slide at index.
func (l *Layout) activeCenter(index int) float64 {
	total := l.styles.PaddingLeft
	for i := 0; i < index; i++ {
		w, _ := l.SlideWidth(i)
		total += w + l.styles.Gap
	}
	w, _ := l.SlideWidth(index)
	return total + w/2
}

// SlideWidth returns the width used for the slide at index and where it
// came from. A measurement below the minimum width falls back to the image's
// natural width plus the slide's padding, then to a share of the window.
func (l *Layout) SlideWidth(index int) (float64, WidthSource) {
	if w := l.geo.SlideWidth(index); l.valid(w) {
		return w, WidthMeasured
	}
	if img := l.geo.ImageNaturalWidth(index); img > 0 {
		left, right := l.geo.SlidePadding(index)
		if w := img + finite(left) + finite(right); l.valid(w) {
			return w, WidthImage
		}
	}
	w := math.Min(l.th.FallbackMaxWidth, l.geo.WindowWidth()*l.th.FallbackViewportRatio)
	log.Debug(log.CatLayout, "Slide width unavailable, using fallback", "index", index, "width", w)
	return w, WidthFallback
}

// Describe returns the placement of every extended slide.
func (l *Layout) Describe() []Placement {
	out := make([]Placement, 0, l.reg.Len())
	for _, s := range l.reg.Slides() {
		w, src := l.SlideWidth(s.Index)
		out = append(out, Placement{
			Slide:  s,
			Width:  w,
			Source: src,
			Offset: l.ComputeOffset(s.Index),
		})
	}
	return out
}

func (l *Layout) valid(w float64) bool {
	return !math.IsNaN(w) && w >= l.th.MinSlideWidth
}

func (l *Layout) stop() {
	l.pending.Stop()
	l.pendingSkip = false
	if l.restore.Stop() {
		l.surface.SetTransitions(true)
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
