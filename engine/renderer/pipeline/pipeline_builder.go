package pipeline

type pipelineConfig struct {
	source string
}

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipelineConfig)

// WithSource replaces the built-in program source of the pipeline.
// The source must declare the inputs the pipeline resolves; missing ones are logged and ignored.
//
// Parameters:
//   - source: the program source in the graphics backend's shading language
//
// Returns:
//   - PipelineBuilderOption: a function that sets the program source
func WithSource(source string) PipelineBuilderOption {
	return func(c *pipelineConfig) {
		c.source = source
	}
}
