package loop

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var teaInstances atomic.Uint64

// FiredMsg is delivered to Update when a Tea timer or frame comes due.
// Pass it to Tea.Handle.
type FiredMsg struct {
	owner uint64
	id    uint64
}

// Tea is a Scheduler backed by tea.Tick. Scheduling a callback queues a
// command; the owning model returns Flush() from Update so Bubble Tea runs
// the tick, and routes the resulting FiredMsg back through Handle, which
// runs the callback on the update goroutine. A stopped timer's message is
// dropped on arrival.
type Tea struct {
	owner  uint64
	frame  time.Duration
	nextID uint64
	active map[uint64]func()
	outbox []tea.Cmd
	now    func() time.Time
}

// NewTea creates a Bubble Tea scheduler with the given frame interval.
func NewTea(frame time.Duration) *Tea {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &Tea{
		owner:  teaInstances.Add(1),
		frame:  frame,
		active: make(map[uint64]func()),
		now:    time.Now,
	}
}

type teaTimer struct {
	loop *Tea
	id   uint64
}

func (t teaTimer) Stop() bool {
	if _, ok := t.loop.active[t.id]; !ok {
		return false
	}
	delete(t.loop.active, t.id)
	return true
}

// Now returns the wall clock time.
func (t *Tea) Now() time.Time {
	return t.now()
}

// AfterFunc queues a tick that runs f after d.
func (t *Tea) AfterFunc(d time.Duration, f func()) Timer {
	t.nextID++
	id := t.nextID
	owner := t.owner
	t.active[id] = f
	t.outbox = append(t.outbox, tea.Tick(d, func(time.Time) tea.Msg {
		return FiredMsg{owner: owner, id: id}
	}))
	return teaTimer{loop: t, id: id}
}

// RequestFrame queues f for the next frame tick.
func (t *Tea) RequestFrame(f func()) Timer {
	return t.AfterFunc(t.frame, f)
}

// Handle runs the callback for msg if msg is one of this scheduler's live
// timers. It reports whether msg belonged to this scheduler.
func (t *Tea) Handle(msg tea.Msg) bool {
	fired, ok := msg.(FiredMsg)
	if !ok || fired.owner != t.owner {
		return false
	}
	f, live := t.active[fired.id]
	if !live {
		return true
	}
	delete(t.active, fired.id)
	f()
	return true
}

// Flush returns the commands queued since the last Flush.
func (t *Tea) Flush() tea.Cmd {
	if len(t.outbox) == 0 {
		return nil
	}
	cmds := t.outbox
	t.outbox = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// Pending returns the number of live timers.
func (t *Tea) Pending() int {
	return len(t.active)
}
