package deck

// Readiness tracks which slide images have settled, loaded or failed. It
// counts extended slides, so a clone's image settles separately from the
// slide it copies.
type Readiness struct {
	settled map[int]bool
	total   int
	failed  int
	done    bool
}

// NewReadiness tracks total images.
func NewReadiness(total int) *Readiness {
	return &Readiness{settled: make(map[int]bool, total), total: total}
}

// Settle records the outcome for index. It returns true exactly once: on
// the call that settles the last outstanding image. Repeat reports for an
// index are ignored.
func (r *Readiness) Settle(index int, err error) bool {
	if r.done || index < 0 || index >= r.total || r.settled[index] {
		return false
	}
	r.settled[index] = true
	if err != nil {
		r.failed++
	}
	if len(r.settled) == r.total {
		r.done = true
		return true
	}
	return false
}

// Done reports whether every image has settled.
func (r *Readiness) Done() bool {
	return r.done
}

// Progress returns settled and total counts.
func (r *Readiness) Progress() (settled, total int) {
	return len(r.settled), r.total
}

// Failed returns how many images failed to load.
func (r *Readiness) Failed() int {
	return r.failed
}
