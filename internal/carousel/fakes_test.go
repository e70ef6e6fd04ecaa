package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/posters/internal/loop"
	"github.com/zjrosen/posters/internal/pubsub"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeGeometry serves fixed measurements. Slides without an entry in widths
// or images measure 0.
type fakeGeometry struct {
	wrapper  float64
	window   float64
	padLeft  float64
	gap      float64
	widths   map[int]float64
	images   map[int]float64
	slidePad [2]float64
	flushes  int
}

func uniformGeometry(extended int, width float64) *fakeGeometry {
	g := &fakeGeometry{
		wrapper: 800,
		window:  1000,
		padLeft: 20,
		gap:     10,
		widths:  make(map[int]float64),
		images:  make(map[int]float64),
	}
	for i := 0; i < extended; i++ {
		g.widths[i] = width
	}
	return g
}

func (g *fakeGeometry) Flush() { g.flushes++ }
func (g *fakeGeometry) TrackStyle() (float64, float64) { return g.padLeft, g.gap }
func (g *fakeGeometry) WrapperWidth() float64 { return g.wrapper }
func (g *fakeGeometry) WindowWidth() float64 { return g.window }
func (g *fakeGeometry) SlideWidth(i int) float64 { return g.widths[i] }
func (g *fakeGeometry) ImageNaturalWidth(i int) float64 { return g.images[i] }
func (g *fakeGeometry) SlidePadding(int) (float64, float64) { return g.slidePad[0], g.slidePad[1] }

type translate struct {
	offset   float64
	animated bool
	at       time.Duration
}

// fakeSurface records paint instructions.
type fakeSurface struct {
	clock       *loop.Virtual
	index       int
	real        int
	transitions bool
	translates  []translate
}

func (s *fakeSurface) SetActive(index, real int) {
	s.index, s.real = index, real
}

func (s *fakeSurface) SetTransitions(enabled bool) {
	s.transitions = enabled
}

func (s *fakeSurface) Translate(offset float64) {
	s.translates = append(s.translates, translate{offset: offset, animated: s.transitions, at: s.clock.Elapsed()})
}

func (s *fakeSurface) last() translate {
	if len(s.translates) == 0 {
		return translate{}
	}
	return s.translates[len(s.translates)-1]
}

type recorded struct {
	at    time.Duration
	event Event
}

// recorder is a pubsub.Publisher that keeps every event with its virtual
// timestamp.
type recorder struct {
	clock  *loop.Virtual
	events []recorded
}

var _ pubsub.Publisher[Event] = (*recorder)(nil)

func (r *recorder) Publish(_ pubsub.EventType, e Event) {
	r.events = append(r.events, recorded{at: r.clock.Elapsed(), event: e})
}

func (r *recorder) times(kind EventKind, source string) []time.Duration {
	var out []time.Duration
	for _, rec := range r.events {
		if rec.event.Kind == kind && (source == "" || rec.event.Source == source) {
			out = append(out, rec.at)
		}
	}
	return out
}

type harness struct {
	c     *Carousel
	clock *loop.Virtual
	geo   *fakeGeometry
	surf  *fakeSurface
	rec   *recorder
	scope *Marker
}

// newHarness builds a carousel over slides real slides, each 200px wide,
// in an 800px wrapper with 20px padding and a 10px gap.
func newHarness(t *testing.T, slides int, opts ...func(*Options)) *harness {
	t.Helper()
	clock := loop.NewVirtual(epoch)
	h := &harness{
		clock: clock,
		geo:   uniformGeometry(slides+2, 200),
		surf:  &fakeSurface{clock: clock, transitions: true},
		rec:   &recorder{clock: clock},
		scope: NewMarker(true),
	}
	o := Options{
		Slides:    slides,
		Geometry:  h.geo,
		Surface:   h.surf,
		Scheduler: clock,
		Scope:     h.scope,
		Events:    h.rec,
	}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	require.NoError(t, err)
	h.c = c
	return h
}

func withAutoplay(o *Options) { o.Autoplay = true }

func (h *harness) at(d time.Duration) {
	h.clock.AdvanceToElapsed(d)
}

// screenCenter is where the active slide's center lands in the wrapper
// after the last paint.
func (h *harness) screenCenter() float64 {
	return h.surf.last().offset + h.c.layout.activeCenter(h.surf.index)
}
