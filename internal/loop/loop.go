// Package loop provides the timers and frame callbacks the carousel engine
// runs on. Implementations invoke every callback on one goroutine, one at a
// time, so callers never need locks around state touched only by callbacks.
//
// Tea drives callbacks from the Bubble Tea update loop. Virtual drives them
// from a manual clock for deterministic tests.
package loop

import "time"

// DefaultFrameInterval is the repaint cadence used for frame callbacks.
const DefaultFrameInterval = time.Second / 60

// Timer is a pending callback. Stop prevents it from running and reports
// whether it was still pending.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay or on the next frame.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// AfterFunc runs f once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
	// RequestFrame runs f on the next frame.
	RequestFrame(f func()) Timer
}

// Slot holds at most one pending timer. Replacing the slot stops whatever
// was pending before, so a slot never queues work.
type Slot struct {
	timer Timer
}

// Set stops the pending timer, if any, and stores t.
func (s *Slot) Set(t Timer) {
	s.Stop()
	s.timer = t
}

// Stop cancels the pending timer. It reports whether one was pending.
func (s *Slot) Stop() bool {
	if s.timer == nil {
		return false
	}
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}

// Clear forgets the pending timer without stopping it. Callbacks call this
// when they fire so the slot reads as empty.
func (s *Slot) Clear() {
	s.timer = nil
}

// Pending reports whether the slot holds a timer.
func (s *Slot) Pending() bool {
	return s.timer != nil
}
