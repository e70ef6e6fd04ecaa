package carousel

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/posters/internal/loop"
	"github.com/zjrosen/posters/internal/pubsub"
)

// Timing holds the engine's fixed delays.
type Timing struct {
	Transition       time.Duration // lock held by one navigation
	Reenable         time.Duration // transitions stay off after a teleport paint
	ResizeDebounce   time.Duration
	AutoplayInterval time.Duration
	TouchResume      time.Duration // autoplay grace after touch-end
	InitialUpdate    time.Duration // first layout pass after Start
	SettlePass       time.Duration // second image/layout pass after Start
}

// DefaultTiming returns the standard delays.
func DefaultTiming() Timing {
	return Timing{
		Transition:       500 * time.Millisecond,
		Reenable:         50 * time.Millisecond,
		ResizeDebounce:   150 * time.Millisecond,
		AutoplayInterval: 4000 * time.Millisecond,
		TouchResume:      1000 * time.Millisecond,
		InitialUpdate:    100 * time.Millisecond,
		SettlePass:       500 * time.Millisecond,
	}
}

// Thresholds holds the gesture and geometry limits.
type Thresholds struct {
	SwipeDistance         float64       // px; a swipe must move further than this
	SwipeMaxDuration      time.Duration // a swipe must finish faster than this
	MinSlideWidth         float64       // px; narrower measurements are invalid
	FallbackMaxWidth      float64       // px; cap of the last-resort width
	FallbackViewportRatio float64       // share of the window used by the last-resort width
}

// DefaultThresholds returns the standard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SwipeDistance:         50,
		SwipeMaxDuration:      300 * time.Millisecond,
		MinSlideWidth:         50,
		FallbackMaxWidth:      400,
		FallbackViewportRatio: 0.75,
	}
}

// Options configures New. Geometry, Surface, Scheduler and a positive Slides
// count are required.
type Options struct {
	Slides     int
	Geometry   Geometry
	Surface    Surface
	Scheduler  loop.Scheduler
	Scope      Scope
	Timing     Timing
	Thresholds Thresholds
	Autoplay   bool

	// Tracer records one span per transition. Nil disables tracing.
	Tracer trace.Tracer
	// Events receives navigation and autoplay notifications. Optional.
	Events pubsub.Publisher[Event]
	// OnSettlePass runs when the settle pass fires, before its layout update.
	// The UI uses it to re-request eager image loads.
	OnSettlePass func()
}

func (o Options) withDefaults() Options {
	def := DefaultTiming()
	if o.Timing.Transition <= 0 {
		o.Timing.Transition = def.Transition
	}
	if o.Timing.Reenable <= 0 {
		o.Timing.Reenable = def.Reenable
	}
	if o.Timing.ResizeDebounce <= 0 {
		o.Timing.ResizeDebounce = def.ResizeDebounce
	}
	if o.Timing.AutoplayInterval <= 0 {
		o.Timing.AutoplayInterval = def.AutoplayInterval
	}
	if o.Timing.TouchResume <= 0 {
		o.Timing.TouchResume = def.TouchResume
	}
	if o.Timing.InitialUpdate <= 0 {
		o.Timing.InitialUpdate = def.InitialUpdate
	}
	if o.Timing.SettlePass <= 0 {
		o.Timing.SettlePass = def.SettlePass
	}

	th := DefaultThresholds()
	if o.Thresholds.SwipeDistance <= 0 {
		o.Thresholds.SwipeDistance = th.SwipeDistance
	}
	if o.Thresholds.SwipeMaxDuration <= 0 {
		o.Thresholds.SwipeMaxDuration = th.SwipeMaxDuration
	}
	if o.Thresholds.MinSlideWidth <= 0 {
		o.Thresholds.MinSlideWidth = th.MinSlideWidth
	}
	if o.Thresholds.FallbackMaxWidth <= 0 {
		o.Thresholds.FallbackMaxWidth = th.FallbackMaxWidth
	}
	if o.Thresholds.FallbackViewportRatio <= 0 {
		o.Thresholds.FallbackViewportRatio = th.FallbackViewportRatio
	}
	return o
}
