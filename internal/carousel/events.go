package carousel

import "github.com/zjrosen/posters/internal/pubsub"

// EventKind identifies a carousel notification.
type EventKind string

const (
	EventNavigated       EventKind = "navigated"
	EventLoopReset       EventKind = "loop_reset"
	EventSettled         EventKind = "settled"
	EventAutoplayPaused  EventKind = "autoplay_paused"
	EventAutoplayResumed EventKind = "autoplay_resumed"
)

// Event describes a state change. Index and Real are the extended and real
// index after the change.
type Event struct {
	Kind   EventKind
	Source string
	Index  int
	Real   int
}

func publish(p pubsub.Publisher[Event], e Event) {
	if p == nil {
		return
	}
	p.Publish(pubsub.UpdatedEvent, e)
}
