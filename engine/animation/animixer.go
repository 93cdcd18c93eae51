package animation

import (
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/entity"
	"github.com/pkg/errors"
)

// MaxBones is the number of bones the skinning shaders accept.
const MaxBones = 64

// MaxStrips is the number of animations an Animixer blends at once.
const MaxStrips = 2

var (
	// ErrNoStrips is returned when binding an Animixer that plays nothing.
	ErrNoStrips = errors.New("animation: no animations in animixer")

	// ErrTooManyBones is returned when a skeleton exceeds MaxBones.
	ErrTooManyBones = errors.New("animation: too many bones")
)

// strip is one animation of the cross-fade stack. A strip with a zero duration is
// fully faded in.
type strip struct {
	anim     *Animation
	duration float32
	elapsed  float32
}

// Animixer cross-fades animations of one skeleton.
//
// The oldest strip is the base pose. Each newer strip fades in over its duration; when
// a fade completes the oldest strip is dropped. Play is ignored while MaxStrips
// animations are active.
type Animixer struct {
	skeleton *Skeleton
	strips   []strip
}

var _ entity.Animatable = &Animixer{}
var _ entity.Updatable = &Animixer{}

// NewAnimixer creates an empty mixer.
//
// Parameters:
//   - skeleton: the skeleton of every played animation
//
// Returns:
//   - *Animixer: the mixer
func NewAnimixer(skeleton *Skeleton) *Animixer {
	if skeleton == nil {
		panic("animation: NewAnimixer requires a skeleton")
	}
	return &Animixer{skeleton: skeleton}
}

// Skeleton returns the mixed skeleton.
func (m *Animixer) Skeleton() *Skeleton {
	return m.skeleton
}

// Len returns the number of active strips.
func (m *Animixer) Len() int {
	return len(m.strips)
}

// Play rewinds a and fades it in over fade seconds.
//
// Parameters:
//   - a: the animation to transition to
//   - fade: the transition length in seconds
//
// Returns:
//   - bool: false if MaxStrips animations are already active and a was ignored
func (m *Animixer) Play(a *Animation, fade float32) bool {
	if len(m.strips) >= MaxStrips {
		return false
	}
	a.Reset()
	m.strips = append(m.strips, strip{anim: a, duration: max(fade, 0)})
	return true
}

// Update advances the mixer by the frame time.
func (m *Animixer) Update(ctx *core.Context) error {
	m.Advance(ctx.Elapsed)
	return nil
}

// Advance moves every animation and fade forward by dt seconds and drops one strip from
// the bottom of the stack per completed fade.
func (m *Animixer) Advance(dt float32) {
	pop := 0
	for i := range m.strips {
		s := &m.strips[i]
		s.anim.Update(dt)
		switch {
		case s.duration > 0:
			s.elapsed += dt
			if s.elapsed >= s.duration {
				s.duration = 0
				pop++
			}
		case i > 0:
			// Played without a fade on top of another strip.
			pop++
		}
	}
	pop = min(pop, len(m.strips))
	m.strips = append(m.strips[:0], m.strips[pop:]...)
}

func (s *strip) progress() float32 {
	if s.duration <= 0 {
		return 1
	}
	return min(s.elapsed/s.duration, 1)
}

// Blended folds every strip into one frame, starting from the oldest.
//
// Returns:
//   - *Frame: the blended, baked frame
//   - error: ErrNoStrips if nothing plays
func (m *Animixer) Blended() (*Frame, error) {
	if len(m.strips) == 0 {
		return nil, ErrNoStrips
	}
	f := m.strips[0].anim.CurrentFrame()
	for i := 1; i < len(m.strips); i++ {
		s := &m.strips[i]
		f = Interpolate(f, s.anim.CurrentFrame(), s.progress())
	}
	return f, nil
}

// Bind uploads the blended pose as dual quaternions.
func (m *Animixer) Bind(ctx *core.Context, target entity.BoneTarget) error {
	if m.skeleton.NumBones() > MaxBones {
		return errors.Wrapf(ErrTooManyBones, "%d > %d", m.skeleton.NumBones(), MaxBones)
	}
	f, err := m.Blended()
	if err != nil {
		return err
	}
	reals, duals := DualQuats(f, m.skeleton.Rest)
	target.SetBones(reals, duals)
	return nil
}
