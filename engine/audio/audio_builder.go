package audio

// backendConfig holds audio device parameters.
type backendConfig struct {
	sampleRate int
	bufferSize int
}

// BackendOption is a functional option for configuring the audio backend.
type BackendOption func(c *backendConfig)

// WithSampleRate sets the output sample rate. Sounds at other rates are resampled on load.
//
// Parameters:
//   - rate: samples per second
//
// Returns:
//   - BackendOption: option function to apply
func WithSampleRate(rate int) BackendOption {
	return func(c *backendConfig) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// WithBufferMillis sets the speaker buffer length.
//
// Parameters:
//   - ms: buffer length in milliseconds
//
// Returns:
//   - BackendOption: option function to apply
func WithBufferMillis(ms int) BackendOption {
	return func(c *backendConfig) {
		if ms > 0 {
			c.bufferSize = ms
		}
	}
}
