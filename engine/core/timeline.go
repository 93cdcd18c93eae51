package core

// SpanFunc receives the frame time and the progress of its span in [0, 1].
type SpanFunc func(elapsed, progress float32)

type span struct {
	length    float32
	remaining float32
	fn        SpanFunc
}

// Timeline runs spans one after another. Time left over when a span finishes is
// carried into the next one, so zero length spans complete in the same update.
type Timeline struct {
	spans   []span
	current int
	paused  bool
}

// NewTimeline creates an empty timeline.
//
// Parameters:
//   - paused: whether Update is ignored until Resume
//
// Returns:
//   - *Timeline: the timeline
func NewTimeline(paused bool) *Timeline {
	return &Timeline{paused: paused}
}

// Span appends a span of the given length in seconds.
func (t *Timeline) Span(length float32, fn SpanFunc) *Timeline {
	if fn == nil {
		fn = func(float32, float32) {}
	}
	t.spans = append(t.spans, span{length: max(length, 0), remaining: max(length, 0), fn: fn})
	return t
}

// Wait appends a span that does nothing.
func (t *Timeline) Wait(length float32) *Timeline {
	return t.Span(length, nil)
}

// Once appends a zero length span; fn is called once with progress 1.
func (t *Timeline) Once(fn func()) *Timeline {
	return t.Span(0, func(float32, float32) { fn() })
}

// Resume starts a paused timeline.
func (t *Timeline) Resume() {
	t.paused = false
}

// Paused reports whether the timeline waits for Resume.
func (t *Timeline) Paused() bool {
	return t.paused
}

// Done reports whether every span has completed.
func (t *Timeline) Done() bool {
	return t.current >= len(t.spans)
}

// Update advances the current span by ctx.Elapsed.
func (t *Timeline) Update(ctx *Context) {
	t.Advance(ctx.Elapsed)
}

// Advance moves the timeline forward by elapsed seconds. A finishing span is called with
// progress 1; the span that takes over is called with the progress of the carried time.
func (t *Timeline) Advance(elapsed float32) {
	if t.paused {
		return
	}
	carry := elapsed
	for t.current < len(t.spans) {
		s := &t.spans[t.current]
		s.remaining -= carry
		if s.remaining > 0 {
			s.fn(elapsed, 1-s.remaining/s.length)
			return
		}
		s.fn(elapsed, 1)
		carry = -s.remaining
		s.remaining = 0
		t.current++
	}
}
