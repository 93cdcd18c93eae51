package physics

import "github.com/go-gl/mathgl/mgl32"

// BackendOption is a functional option for configuring the built-in physics world.
type BackendOption func(w *world)

// WithGravity sets the world gravity applied to bodies without their own.
//
// Parameters:
//   - g: gravity acceleration
//
// Returns:
//   - BackendOption: option function to apply
func WithGravity(g mgl32.Vec3) BackendOption {
	return func(w *world) {
		w.gravity = g
	}
}

// WithFixedStep sets the simulation step length in seconds.
//
// Parameters:
//   - step: seconds per sub step
//
// Returns:
//   - BackendOption: option function to apply
func WithFixedStep(step float32) BackendOption {
	return func(w *world) {
		if step > 0 {
			w.fixedStep = step
		}
	}
}

// WithMaxSubSteps caps the number of sub steps taken per Update.
//
// Parameters:
//   - n: maximum sub steps
//
// Returns:
//   - BackendOption: option function to apply
func WithMaxSubSteps(n int) BackendOption {
	return func(w *world) {
		if n > 0 {
			w.maxSubSteps = n
		}
	}
}
