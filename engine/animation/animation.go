package animation

import "github.com/chewxy/math32"

// FrameRate is the sample rate of animation frames in frames per second.
const FrameRate = 24

// Animation plays a sequence of frames of one skeleton.
//
// A looping animation of N frames has a period of N / FrameRate seconds; between the last
// frame and the next period it blends back into the first frame. A non-looping animation
// holds its last frame.
type Animation struct {
	skeleton *Skeleton
	frames   []*Frame
	loop     bool
	time     float32
}

// NewAnimation creates an animation.
//
// Parameters:
//   - skeleton: the skeleton the frames pose
//   - frames: the frames, at least one
//   - loop: whether playback wraps around
//
// Returns:
//   - *Animation: the animation
func NewAnimation(skeleton *Skeleton, frames []*Frame, loop bool) *Animation {
	if len(frames) == 0 {
		panic("animation: NewAnimation requires frames")
	}
	return &Animation{skeleton: skeleton, frames: frames, loop: loop}
}

// Skeleton returns the posed skeleton.
func (a *Animation) Skeleton() *Skeleton {
	return a.skeleton
}

// Frames returns the key frames.
func (a *Animation) Frames() []*Frame {
	return a.frames
}

// Loop reports whether playback wraps around.
func (a *Animation) Loop() bool {
	return a.loop
}

// Update advances the playback time by dt seconds.
func (a *Animation) Update(dt float32) {
	a.time += dt
}

// Reset rewinds to the first frame.
func (a *Animation) Reset() {
	a.time = 0
}

// Time returns the playback time in seconds.
func (a *Animation) Time() float32 {
	return a.time
}

// Duration returns the length of one period in seconds.
func (a *Animation) Duration() float32 {
	return float32(len(a.frames)) / FrameRate
}

// CurrentFrame blends the two key frames around the playback time.
func (a *Animation) CurrentFrame() *Frame {
	n := len(a.frames)
	if n == 1 {
		return a.frames[0]
	}
	pos := a.time * FrameRate
	if !a.loop {
		if pos >= float32(n-1) {
			return a.frames[n-1]
		}
	} else {
		pos = math32.Mod(pos, float32(n))
		if pos < 0 {
			pos += float32(n)
		}
	}
	k := int(pos)
	if k >= n {
		k = n - 1
	}
	return Interpolate(a.frames[k], a.frames[(k+1)%n], pos-float32(k))
}
