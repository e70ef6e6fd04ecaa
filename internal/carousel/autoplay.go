package carousel

import (
	"time"

	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
	"github.com/zjrosen/posters/internal/pubsub"
)

// Autoplay advances the carousel on a fixed period while it is running.
// Interaction and page visibility suspend and resume it.
type Autoplay struct {
	sched    loop.Scheduler
	interval time.Duration
	grace    time.Duration
	advance  func()
	events   pubsub.Publisher[Event]

	enabled  bool
	hovering bool
	tick     loop.Slot
	resume  loop.Slot
}

func newAutoplay(o Options, advance func()) *Autoplay {
	return &Autoplay{
		sched:    o.Scheduler,
		interval: o.Timing.AutoplayInterval,
		grace:    o.Timing.TouchResume,
		advance:  advance,
		events:   o.Events,
		enabled:  o.Autoplay,
	}
}

// Start (re)starts the period from now. It does nothing while disabled.
func (a *Autoplay) Start() {
	wasRunning := a.tick.Stop()
	if !a.enabled {
		return
	}
	a.arm()
	if !wasRunning {
		log.Debug(log.CatAutoplay, "Autoplay running", "interval", a.interval)
		publish(a.events, Event{Kind: EventAutoplayResumed, Source: "autoplay"})
	}
}

func (a *Autoplay) arm() {
	a.tick.Set(a.sched.AfterFunc(a.interval, func() {
		a.tick.Clear()
		a.arm()
		a.advance()
	}))
}

// Stop suspends the period.
func (a *Autoplay) Stop() {
	if a.tick.Stop() {
		log.Debug(log.CatAutoplay, "Autoplay suspended")
		publish(a.events, Event{Kind: EventAutoplayPaused, Source: "autoplay"})
	}
}

// Running reports whether a tick is scheduled.
func (a *Autoplay) Running() bool {
	return a.tick.Pending()
}

// Enabled reports whether autoplay is allowed to run at all.
func (a *Autoplay) Enabled() bool {
	return a.enabled
}

// SetEnabled turns autoplay on or off. Turning it on starts it immediately.
func (a *Autoplay) SetEnabled(enabled bool) {
	a.enabled = enabled
	if enabled {
		a.Start()
		return
	}
	a.resume.Stop()
	a.Stop()
}

// PointerEnter suspends autoplay.
func (a *Autoplay) PointerEnter() {
	a.hovering = true
	a.Stop()
}

// PointerLeave resumes autoplay.
func (a *Autoplay) PointerLeave() {
	a.hovering = false
	a.Start()
}

// TouchStart suspends autoplay and cancels a pending touch-end resume.
func (a *Autoplay) TouchStart() {
	a.resume.Stop()
	a.Stop()
}

// TouchEnd resumes autoplay after the grace delay. A pointer still over the
// carousel keeps it paused until PointerLeave.
func (a *Autoplay) TouchEnd() {
	a.resume.Set(a.sched.AfterFunc(a.grace, func() {
		a.resume.Clear()
		if a.hovering {
			return
		}
		a.Start()
	}))
}

// VisibilityChanged suspends autoplay while the page is hidden and resumes
// it when the page becomes visible.
func (a *Autoplay) VisibilityChanged(hidden bool) {
	if hidden {
		a.Stop()
		return
	}
	a.Start()
}

func (a *Autoplay) stop() {
	a.resume.Stop()
	a.tick.Stop()
}
