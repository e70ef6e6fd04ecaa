package tracing

// Span attribute keys.
const (
	AttrCarouselID = "carousel.id"
	AttrSource     = "carousel.source"
	AttrIndexFrom  = "carousel.index.from"
	AttrIndexTo    = "carousel.index.to"
	AttrRealIndex  = "carousel.index.real"
)

// SpanPrefixTransition prefixes transition span names; the direction
// (next, prev, indicator) follows.
const SpanPrefixTransition = "carousel.transition."

// EventLoopReset marks the teleport from a clone to its real slide.
const EventLoopReset = "loop_reset"
