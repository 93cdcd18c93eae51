package graphics

import "github.com/cogentcore/webgpu/wgpu"

// backendConfig holds construction parameters shared by every backend type.
type backendConfig struct {
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	width, height        int
	vsync                bool
	forceFallbackAdapter bool
}

// BackendOption is a functional option for configuring a graphics Backend.
type BackendOption func(c *backendConfig)

// WithSurfaceDescriptor sets the window surface the backend presents to.
//
// Parameters:
//   - desc: the platform surface descriptor
//
// Returns:
//   - BackendOption: option function to apply
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) BackendOption {
	return func(c *backendConfig) {
		c.surfaceDescriptor = desc
	}
}

// WithSize sets the initial screen size.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - BackendOption: option function to apply
func WithSize(width, height int) BackendOption {
	return func(c *backendConfig) {
		c.width = width
		c.height = height
	}
}

// WithVSync toggles presentation synchronized to the display refresh.
//
// Parameters:
//   - enabled: true to wait for vertical blank
//
// Returns:
//   - BackendOption: option function to apply
func WithVSync(enabled bool) BackendOption {
	return func(c *backendConfig) {
		c.vsync = enabled
	}
}

// WithFallbackAdapter forces the software adapter.
//
// Returns:
//   - BackendOption: option function to apply
func WithFallbackAdapter() BackendOption {
	return func(c *backendConfig) {
		c.forceFallbackAdapter = true
	}
}
