package loop

import "time"

// Virtual is a Scheduler whose clock only moves when Advance is called.
// Callbacks due within an Advance run in deadline order, ties broken by
// scheduling order, with the clock set to each callback's deadline.
type Virtual struct {
	start   time.Time
	now     time.Time
	frame   time.Duration
	seq     uint64
	pending []*virtualTimer
}

type virtualTimer struct {
	when    time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *virtualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewVirtual creates a virtual scheduler starting at start with the default
// frame interval.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{
		start: start,
		now:   start,
		frame: DefaultFrameInterval,
	}
}

// WithFrameInterval sets the delay used by RequestFrame.
func (v *Virtual) WithFrameInterval(d time.Duration) *Virtual {
	v.frame = d
	return v
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time {
	return v.now
}

// Elapsed returns the virtual time passed since creation.
func (v *Virtual) Elapsed() time.Duration {
	return v.now.Sub(v.start)
}

// AfterFunc schedules f to run d after the current virtual time.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	v.seq++
	t := &virtualTimer{when: v.now.Add(d), seq: v.seq, fn: f}
	v.pending = append(v.pending, t)
	return t
}

// RequestFrame schedules f one frame interval from now.
func (v *Virtual) RequestFrame(f func()) Timer {
	return v.AfterFunc(v.frame, f)
}

// Advance moves the clock forward by d, running every callback that comes
// due, including callbacks scheduled by callbacks.
func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceTo(v.now.Add(d))
}

// AdvanceToElapsed moves the clock to the offset at, measured from the start.
func (v *Virtual) AdvanceToElapsed(at time.Duration) {
	v.AdvanceTo(v.start.Add(at))
}

// AdvanceTo moves the clock to deadline, running due callbacks.
func (v *Virtual) AdvanceTo(deadline time.Time) {
	for {
		t := v.popDue(deadline)
		if t == nil {
			break
		}
		v.now = t.when
		t.fired = true
		t.fn()
	}
	if deadline.After(v.now) {
		v.now = deadline
	}
}

// Pending returns the number of callbacks still scheduled.
func (v *Virtual) Pending() int {
	n := 0
	for _, t := range v.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (v *Virtual) popDue(deadline time.Time) *virtualTimer {
	best := -1
	live := v.pending[:0]
	for _, t := range v.pending {
		if t.stopped || t.fired {
			continue
		}
		live = append(live, t)
	}
	v.pending = live

	for i, t := range v.pending {
		if t.when.After(deadline) {
			continue
		}
		if best < 0 || t.when.Before(v.pending[best].when) ||
			(t.when.Equal(v.pending[best].when) && t.seq < v.pending[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := v.pending[best]
	v.pending = append(v.pending[:best], v.pending[best+1:]...)
	return t
}
