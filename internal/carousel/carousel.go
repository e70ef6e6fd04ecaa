// Package carousel implements an infinite-loop slide carousel. The real
// slides are extended with a clone at each end; navigating onto a clone
// animates normally and then teleports, unanimated, to the matching real
// slide so the loop never shows a jump.
//
// The engine owns no rendering. A host supplies Geometry (measurements),
// Surface (paint instructions) and a loop.Scheduler, and forwards input
// through the Router. Every callback runs on the scheduler's goroutine.
package carousel

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
)

var (
	// ErrMissingElement is returned when a required host element is absent.
	// The carousel is then inert: every method on the nil *Carousel is a no-op.
	ErrMissingElement = errors.New("carousel: required element missing")
	// ErrNoSlides is returned when there are no real slides.
	ErrNoSlides = errors.New("carousel: no slides")
)

// Carousel wires the registry, layout, transition machine, autoplay and
// input router together.
type Carousel struct {
	id       string
	opts     Options
	state    State
	reg      *Registry
	layout   *Layout
	machine  *Machine
	autoplay *Autoplay
	router   *Router

	initial loop.Slot
	settle  loop.Slot
	started bool
}

// New builds a carousel. It fails with ErrMissingElement when Geometry,
// Surface or Scheduler is nil and with ErrNoSlides when Slides is not
// positive. On failure the returned *Carousel is nil, which is safe to use.
func New(opts Options) (*Carousel, error) {
	switch {
	case opts.Geometry == nil:
		return nil, fmt.Errorf("%w: geometry", ErrMissingElement)
	case opts.Surface == nil:
		return nil, fmt.Errorf("%w: surface", ErrMissingElement)
	case opts.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler", ErrMissingElement)
	case opts.Slides <= 0:
		return nil, ErrNoSlides
	}
	opts = opts.withDefaults()

	c := &Carousel{
		id:   uuid.NewString(),
		opts: opts,
		reg:  NewRegistry(opts.Slides),
	}
	c.layout = newLayout(opts, c.reg, &c.state)
	c.machine = newMachine(c.id, opts, c.reg, &c.state, c.layout)
	c.autoplay = newAutoplay(opts, func() { c.machine.Next("autoplay") })
	c.router = newRouter(opts, c.machine, c.autoplay, c.layout)
	c.layout.CacheStyles()

	log.Info(log.CatCarousel, "Carousel created", "id", c.id, "slides", opts.Slides, "extended", c.reg.Len())
	return c, nil
}

// Start runs the first layout pass after the initial-update delay, starts
// autoplay and arms the settle pass. Calling it again does nothing.
func (c *Carousel) Start() {
	if c == nil || c.started {
		return
	}
	c.started = true
	c.initial.Set(c.opts.Scheduler.AfterFunc(c.opts.Timing.InitialUpdate, func() {
		c.initial.Clear()
		c.layout.Schedule(false)
	}))
	c.settle.Set(c.opts.Scheduler.AfterFunc(c.opts.Timing.SettlePass, func() {
		c.settle.Clear()
		if c.opts.OnSettlePass != nil {
			c.opts.OnSettlePass()
		}
		c.layout.Schedule(false)
	}))
	c.autoplay.Start()
}

// ImagesSettled signals that every slide image, clones included, has loaded
// or failed. It triggers a layout update.
func (c *Carousel) ImagesSettled() {
	if c == nil {
		return
	}
	log.Debug(log.CatCarousel, "Images settled", "id", c.id)
	c.layout.Schedule(false)
}

// Refresh re-reads track styles and schedules a layout update.
func (c *Carousel) Refresh() {
	if c == nil {
		return
	}
	c.layout.CacheStyles()
	c.layout.Schedule(false)
}

// Next advances one slide.
func (c *Carousel) Next() bool {
	if c == nil {
		return false
	}
	return c.machine.Next("api")
}

// Prev moves back one slide.
func (c *Carousel) Prev() bool {
	if c == nil {
		return false
	}
	return c.machine.Prev("api")
}

// GoToIndicator jumps to a real slide.
func (c *Carousel) GoToIndicator(real int) bool {
	if c == nil {
		return false
	}
	return c.machine.GoToIndicator(real)
}

// State returns a copy of the navigation state.
func (c *Carousel) State() State {
	if c == nil {
		return State{}
	}
	return c.state
}

// Phase returns the transition phase.
func (c *Carousel) Phase() Phase {
	if c == nil {
		return PhaseIdle
	}
	return c.machine.Phase()
}

// ActiveReal returns the real index of the active slide.
func (c *Carousel) ActiveReal() int {
	if c == nil {
		return -1
	}
	return c.reg.RealIndex(c.state.CurrentIndex)
}

// Registry returns the slide registry.
func (c *Carousel) Registry() *Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// Layout returns the layout engine.
func (c *Carousel) Layout() *Layout {
	if c == nil {
		return nil
	}
	return c.layout
}

// Autoplay returns the autoplay scheduler.
func (c *Carousel) Autoplay() *Autoplay {
	if c == nil {
		return nil
	}
	return c.autoplay
}

// Input returns the input router. It is nil for a nil carousel, and a nil
// Router ignores input.
func (c *Carousel) Input() *Router {
	if c == nil {
		return nil
	}
	return c.router
}

// ID returns the carousel's instance id.
func (c *Carousel) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Stop cancels every pending timer and frame and releases a transition that
// was in flight, so navigation works again afterwards. Start is not re-armed.
func (c *Carousel) Stop() {
	if c == nil {
		return
	}
	c.initial.Stop()
	c.settle.Stop()
	c.router.stop()
	c.autoplay.stop()
	c.machine.stop()
	c.layout.stop()
	log.Debug(log.CatCarousel, "Carousel stopped", "id", c.id)
}
