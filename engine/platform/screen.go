package platform

import "sync"

// ScreenSubscriber is notified of screen size changes.
type ScreenSubscriber interface {
	// OnScreenResize is called with the new size in pixels.
	OnScreenResize(width, height int)
}

// Screen holds the drawable size of the window and notifies subscribers when it changes.
type Screen struct {
	mu          *sync.Mutex
	width       int
	height      int
	subscribers []ScreenSubscriber
}

// NewScreen creates a Screen of the given size.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - *Screen: the screen
func NewScreen(width, height int) *Screen {
	return &Screen{
		mu:     &sync.Mutex{},
		width:  width,
		height: height,
	}
}

// Width returns the width in pixels.
func (s *Screen) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Height returns the height in pixels.
func (s *Screen) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// Ratio returns height divided by width.
func (s *Screen) Ratio() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return 1
	}
	return float32(s.height) / float32(s.width)
}

// Subscribe registers sub and immediately notifies it of the current size.
//
// Parameters:
//   - sub: the subscriber
func (s *Screen) Subscribe(sub ScreenSubscriber) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	w, h := s.width, s.height
	s.mu.Unlock()

	sub.OnScreenResize(w, h)
}

// Unsubscribe removes sub. Unknown subscribers are ignored.
//
// Parameters:
//   - sub: the subscriber
func (s *Screen) Unsubscribe(sub ScreenSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.subscribers {
		if existing == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Resize stores the new size and notifies every subscriber in subscription order.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
func (s *Screen) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	subs := append([]ScreenSubscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.OnScreenResize(width, height)
	}
}
