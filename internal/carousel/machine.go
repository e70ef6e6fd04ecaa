package carousel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
	"github.com/zjrosen/posters/internal/pubsub"
	"github.com/zjrosen/posters/internal/tracing"
)

// State is the carousel's navigation state. Only the Machine writes it.
type State struct {
	CurrentIndex    int
	IsTransitioning bool
	AllowTransition bool
}

// Phase is the machine's position in its transition cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTransitioning
	PhaseLoopReset
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseLoopReset:
		return "loop_reset"
	default:
		return "unknown"
	}
}

// Machine serializes navigation. Next and Prev need both locks free
// (AllowTransition set, IsTransitioning clear); GoToIndicator only checks
// IsTransitioning.
type Machine struct {
	id       string
	state    *State
	phase    Phase
	reg      *Registry
	layout   *Layout
	sched    loop.Scheduler
	duration time.Duration
	timer    loop.Slot
	tracer   trace.Tracer
	span     trace.Span
	events   pubsub.Publisher[Event]
}

func newMachine(id string, o Options, reg *Registry, state *State, layout *Layout) *Machine {
	m := &Machine{
		id:       id,
		state:    state,
		reg:      reg,
		layout:   layout,
		sched:    o.Scheduler,
		duration: o.Timing.Transition,
		tracer:   o.Tracer,
		events:   o.Events,
	}
	state.CurrentIndex = reg.Initial()
	state.AllowTransition = true
	layout.onReenabled = m.completeLoopReset
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Next advances one slide. It reports whether the request was accepted.
func (m *Machine) Next(source string) bool {
	return m.step(1, "next", source)
}

// Prev moves back one slide. It reports whether the request was accepted.
func (m *Machine) Prev(source string) bool {
	return m.step(-1, "prev", source)
}

func (m *Machine) step(delta int, direction, source string) bool {
	if !m.state.AllowTransition || m.state.IsTransitioning {
		log.Debug(log.CatCarousel, "Navigation rejected", "direction", direction, "source", source,
			"phase", m.phase, "allowTransition", m.state.AllowTransition)
		return false
	}

	from := m.state.CurrentIndex
	m.state.CurrentIndex = m.reg.Clamp(from + delta)
	m.state.IsTransitioning = true
	m.state.AllowTransition = false
	m.phase = PhaseTransitioning

	m.startSpan(direction, source, from)
	m.layout.Schedule(false)
	m.timer.Set(m.sched.AfterFunc(m.duration, m.finishStep))

	log.Debug(log.CatCarousel, "Navigated", "direction", direction, "source", source,
		"from", from, "to", m.state.CurrentIndex)
	m.emit(EventNavigated, source)
	return true
}

// finishStep runs when a Next/Prev transition has played out. Landing on a
// clone teleports to the mirrored real position with an unanimated paint;
// the locks stay held until the layout re-enables transitions.
func (m *Machine) finishStep() {
	m.timer.Clear()
	index := m.state.CurrentIndex
	if m.reg.IsBoundary(index) {
		m.state.CurrentIndex = m.reg.Mirror(index)
		m.phase = PhaseLoopReset
		if m.span != nil {
			m.span.AddEvent(tracing.EventLoopReset, trace.WithAttributes(
				attribute.Int(tracing.AttrIndexFrom, index),
				attribute.Int(tracing.AttrIndexTo, m.state.CurrentIndex),
			))
		}
		m.layout.Schedule(true)
		log.Debug(log.CatCarousel, "Loop reset", "from", index, "to", m.state.CurrentIndex)
		m.emit(EventLoopReset, "loop")
		return
	}
	m.settle()
}

// completeLoopReset releases the locks once the teleport paint has
// re-enabled transitions.
func (m *Machine) completeLoopReset() {
	if m.phase != PhaseLoopReset {
		return
	}
	m.settle()
}

func (m *Machine) settle() {
	m.state.IsTransitioning = false
	m.state.AllowTransition = true
	m.phase = PhaseIdle
	m.endSpan()
	m.emit(EventSettled, "")
}

// GoToIndicator jumps to a real slide. Only IsTransitioning gates it, so it
// may run while AllowTransition is still cleared.
func (m *Machine) GoToIndicator(real int) bool {
	if m.state.IsTransitioning {
		log.Debug(log.CatCarousel, "Indicator navigation rejected", "real", real, "phase", m.phase)
		return false
	}
	if real < 0 || real >= m.reg.RealCount() {
		log.Warn(log.CatCarousel, "Indicator out of range", "real", real, "count", m.reg.RealCount())
		return false
	}

	from := m.state.CurrentIndex
	m.state.CurrentIndex = real + 1
	m.state.IsTransitioning = true
	m.phase = PhaseTransitioning

	m.startSpan("indicator", "indicator", from)
	m.layout.Schedule(false)
	m.timer.Set(m.sched.AfterFunc(m.duration, func() {
		m.timer.Clear()
		m.state.IsTransitioning = false
		if m.state.AllowTransition {
			m.phase = PhaseIdle
		}
		m.endSpan()
		m.emit(EventSettled, "indicator")
	}))

	log.Debug(log.CatCarousel, "Indicator navigation", "from", from, "to", m.state.CurrentIndex)
	m.emit(EventNavigated, "indicator")
	return true
}

func (m *Machine) emit(kind EventKind, source string) {
	publish(m.events, Event{
		Kind:   kind,
		Source: source,
		Index:  m.state.CurrentIndex,
		Real:   m.reg.RealIndex(m.state.CurrentIndex),
	})
}

func (m *Machine) startSpan(direction, source string, from int) {
	if m.tracer == nil {
		return
	}
	m.endSpan()
	_, m.span = m.tracer.Start(context.Background(), tracing.SpanPrefixTransition+direction,
		trace.WithAttributes(
			attribute.String(tracing.AttrCarouselID, m.id),
			attribute.String(tracing.AttrSource, source),
			attribute.Int(tracing.AttrIndexFrom, from),
			attribute.Int(tracing.AttrIndexTo, m.state.CurrentIndex),
			attribute.Int(tracing.AttrRealIndex, m.reg.RealIndex(m.state.CurrentIndex)),
		))
}

func (m *Machine) endSpan() {
	if m.span == nil {
		return
	}
	m.span.End()
	m.span = nil
}

// stop cancels the settle timer and drops any held lock without emitting.
func (m *Machine) stop() {
	m.timer.Stop()
	m.endSpan()
	if m.phase != PhaseIdle {
		m.state.IsTransitioning = false
		m.state.AllowTransition = true
		m.phase = PhaseIdle
	}
}
