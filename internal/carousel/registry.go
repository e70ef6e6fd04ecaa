package carousel

// Slide is one entry of the extended sequence. The two boundary entries are
// clones: index 0 mirrors the last real slide, the final index mirrors the
// first.
type Slide struct {
	Index int
	Real  int
	Clone bool
}

// Registry holds the extended slide sequence. It is built once and never
// changes afterwards.
type Registry struct {
	slides    []Slide
	realCount int
}

// NewRegistry builds the extended sequence for realCount slides: a clone of
// the last slide, the real slides, then a clone of the first. It returns nil
// when there are no slides.
func NewRegistry(realCount int) *Registry {
	if realCount <= 0 {
		return nil
	}
	slides := make([]Slide, 0, realCount+2)
	slides = append(slides, Slide{Index: 0, Real: realCount - 1, Clone: true})
	for i := 0; i < realCount; i++ {
		slides = append(slides, Slide{Index: i + 1, Real: i})
	}
	slides = append(slides, Slide{Index: realCount + 1, Real: 0, Clone: true})
	return &Registry{slides: slides, realCount: realCount}
}

// Extend returns real padded with a copy of its last element in front and a
// copy of its first element at the end, matching the registry's layout.
func Extend[T any](real []T) []T {
	if len(real) == 0 {
		return nil
	}
	out := make([]T, 0, len(real)+2)
	out = append(out, real[len(real)-1])
	out = append(out, real...)
	return append(out, real[0])
}

// Slides returns a copy of the extended sequence.
func (r *Registry) Slides() []Slide {
	out := make([]Slide, len(r.slides))
	copy(out, r.slides)
	return out
}

// Len returns the extended count, always RealCount()+2.
func (r *Registry) Len() int {
	return len(r.slides)
}

// RealCount returns the number of real slides.
func (r *Registry) RealCount() int {
	return r.realCount
}

// Initial is the extended index of the first real slide.
func (r *Registry) Initial() int {
	return 1
}

// RealIndex maps an extended index to the real slide it shows. It returns -1
// for indices outside the extended sequence.
func (r *Registry) RealIndex(index int) int {
	switch {
	case index < 0 || index >= len(r.slides):
		return -1
	case index == 0:
		return r.realCount - 1
	case index == len(r.slides)-1:
		return 0
	default:
		return index - 1
	}
}

// IsBoundary reports whether index is one of the two clone positions.
func (r *Registry) IsBoundary(index int) bool {
	return index == 0 || index == len(r.slides)-1
}

// Mirror returns the real-slide position that shows the same content as the
// clone at index. Interior indices map to themselves.
func (r *Registry) Mirror(index int) int {
	switch index {
	case 0:
		return r.realCount
	case len(r.slides) - 1:
		return 1
	default:
		return index
	}
}

// Clamp limits index to the extended sequence.
func (r *Registry) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(r.slides) {
		return len(r.slides) - 1
	}
	return index
}
