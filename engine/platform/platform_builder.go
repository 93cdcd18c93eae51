package platform

// windowConfig holds window creation parameters.
type windowConfig struct {
	title     string
	width     int
	height    int
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int
}

// BackendOption is a functional option for configuring the platform window.
type BackendOption func(c *windowConfig)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - BackendOption: option function to apply
func WithTitle(title string) BackendOption {
	return func(c *windowConfig) {
		c.title = title
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - BackendOption: option function to apply
func WithSize(width, height int) BackendOption {
	return func(c *windowConfig) {
		c.width = width
		c.height = height
	}
}

// WithMinSize sets the smallest size the window can be resized to.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - BackendOption: option function to apply
func WithMinSize(width, height int) BackendOption {
	return func(c *windowConfig) {
		c.minWidth = width
		c.minHeight = height
	}
}

// WithMaxSize sets the largest size the window can be resized to. Zero leaves it unbounded.
//
// Parameters:
//   - width: maximum width in pixels
//   - height: maximum height in pixels
//
// Returns:
//   - BackendOption: option function to apply
func WithMaxSize(width, height int) BackendOption {
	return func(c *windowConfig) {
		c.maxWidth = width
		c.maxHeight = height
	}
}
