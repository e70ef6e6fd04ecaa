package carousel

// Geometry reads live layout measurements from the host. All values are in
// pixels. Indices are extended indices.
type Geometry interface {
	// Flush forces a synchronous layout of every slide and its image so the
	// following reads are not stale.
	Flush()
	// TrackStyle returns the track's computed left padding and inter-slide gap.
	TrackStyle() (paddingLeft, gap float64)
	// WrapperWidth is the width of the element the active slide is centered in.
	WrapperWidth() float64
	// WindowWidth is the width of the whole window.
	WindowWidth() float64
	// SlideWidth is the rendered width of a slide. Values under the minimum
	// slide width mean the slide has not been laid out yet.
	SlideWidth(index int) float64
	// ImageNaturalWidth is the natural width of the slide's image, or 0 when
	// the slide has no loaded image.
	ImageNaturalWidth(index int) float64
	// SlidePadding returns the slide's own left and right padding.
	SlidePadding(index int) (left, right float64)
}

// Surface receives paint instructions.
type Surface interface {
	// SetActive marks the slide at index and the indicator for real active;
	// every other slide and indicator is inactive.
	SetActive(index, real int)
	// SetTransitions enables or disables animated transforms.
	SetTransitions(enabled bool)
	// Translate moves the track so its origin sits at offset.
	Translate(offset float64)
}

// Scope reports whether the page-scope marker is present. Keyboard
// navigation is only active while it is.
type Scope interface {
	Present() bool
}

// Marker is a Scope toggled by its owner.
type Marker struct {
	present bool
}

// NewMarker creates a marker in the given state.
func NewMarker(present bool) *Marker {
	return &Marker{present: present}
}

// Set adds or removes the marker.
func (m *Marker) Set(present bool) {
	m.present = present
}

// Present reports whether the marker is set.
func (m *Marker) Present() bool {
	return m != nil && m.present
}
