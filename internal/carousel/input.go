package carousel

import (
	"math"
	"time"

	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
)

// Key is a navigation key name.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// Router turns host input into navigation requests. A nil Router ignores
// every call.
type Router struct {
	machine  *Machine
	autoplay *Autoplay
	layout   *Layout
	sched    loop.Scheduler
	scope    Scope
	th       Thresholds
	debounce time.Duration

	touching     bool
	touchStartX  float64
	touchStartAt time.Time
	resize       loop.Slot
}

func newRouter(o Options, m *Machine, a *Autoplay, l *Layout) *Router {
	return &Router{
		machine:  m,
		autoplay: a,
		layout:   l,
		sched:    o.Scheduler,
		scope:    o.Scope,
		th:       o.Thresholds,
		debounce: o.Timing.ResizeDebounce,
	}
}

// KeyDown handles a key press. It reports whether the key navigated.
// Keys are ignored while the page-scope marker is absent.
func (r *Router) KeyDown(k Key) bool {
	if r == nil || r.scope == nil || !r.scope.Present() {
		return false
	}
	switch k {
	case KeyArrowLeft:
		return r.machine.Prev("keyboard")
	case KeyArrowRight:
		return r.machine.Next("keyboard")
	}
	return false
}

// PrevControl handles a click on the previous control.
func (r *Router) PrevControl() bool {
	if r == nil {
		return false
	}
	return r.machine.Prev("control")
}

// NextControl handles a click on the next control.
func (r *Router) NextControl() bool {
	if r == nil {
		return false
	}
	return r.machine.Next("control")
}

// IndicatorClick handles a click on the indicator for real.
func (r *Router) IndicatorClick(real int) bool {
	if r == nil {
		return false
	}
	return r.machine.GoToIndicator(real)
}

// TouchStart records where and when a touch began and suspends autoplay.
func (r *Router) TouchStart(x float64) {
	if r == nil {
		return
	}
	r.touching = true
	r.touchStartX = x
	r.touchStartAt = r.sched.Now()
	r.autoplay.TouchStart()
}

// TouchMove reports whether the host should suppress its default handling
// of the move. The track never scrolls, so it always does.
func (r *Router) TouchMove() bool {
	return r != nil
}

// TouchEnd finishes a touch at x. A fast horizontal flick navigates:
// moving left (start - end > 0) goes to the next slide.
func (r *Router) TouchEnd(x float64) bool {
	if r == nil || !r.touching {
		return false
	}
	r.touching = false
	elapsed := r.sched.Now().Sub(r.touchStartAt)
	navigated := r.swipe(r.touchStartX-x, elapsed)
	r.autoplay.TouchEnd()
	return navigated
}

func (r *Router) swipe(dx float64, elapsed time.Duration) bool {
	if math.Abs(dx) <= r.th.SwipeDistance || elapsed >= r.th.SwipeMaxDuration {
		log.Debug(log.CatInput, "Swipe ignored", "dx", dx, "elapsed", elapsed)
		return false
	}
	if dx > 0 {
		return r.machine.Next("swipe")
	}
	return r.machine.Prev("swipe")
}

// Wheel reports whether a wheel event over the track is suppressed. It
// always is.
func (r *Router) Wheel() bool {
	return r != nil
}

// PointerEnter handles the pointer entering the track.
func (r *Router) PointerEnter() {
	if r == nil {
		return
	}
	r.autoplay.PointerEnter()
}

// PointerLeave handles the pointer leaving the track.
func (r *Router) PointerLeave() {
	if r == nil {
		return
	}
	r.autoplay.PointerLeave()
}

// VisibilityChanged handles the page becoming hidden or visible.
func (r *Router) VisibilityChanged(hidden bool) {
	if r == nil {
		return
	}
	log.Debug(log.CatInput, "Visibility changed", "hidden", hidden)
	r.autoplay.VisibilityChanged(hidden)
}

// WindowResized debounces window resizes; once they stop, styles are
// re-cached and a paint is scheduled.
func (r *Router) WindowResized() {
	if r == nil {
		return
	}
	r.resize.Set(r.sched.AfterFunc(r.debounce, func() {
		r.resize.Clear()
		r.relayout("window")
	}))
}

// WrapperResized handles a size change of the wrapper element. It takes the
// same path as a window resize without the debounce; the layout's single
// pending paint absorbs bursts.
func (r *Router) WrapperResized() {
	if r == nil {
		return
	}
	r.relayout("wrapper")
}

func (r *Router) relayout(reason string) {
	log.Debug(log.CatInput, "Relayout", "reason", reason)
	r.layout.CacheStyles()
	r.layout.Schedule(false)
}

func (r *Router) stop() {
	r.resize.Stop()
	r.touching = false
}
