package text

// TextBuilderOption is a functional option for configuring a Text during construction.
type TextBuilderOption func(*Text)

// WithLineSpacing sets the line advance in multiples of the space glyph height.
//
// Parameters:
//   - spacing: the line spacing, DefaultLineSpacing if not positive
//
// Returns:
//   - TextBuilderOption: functional option to set the line spacing
func WithLineSpacing(spacing float32) TextBuilderOption {
	return func(t *Text) {
		if spacing <= 0 {
			spacing = DefaultLineSpacing
		}
		t.lineSpacing = spacing
	}
}

// WithLabel names the uploaded surface.
//
// Parameters:
//   - label: the surface label
//
// Returns:
//   - TextBuilderOption: functional option to set the label
func WithLabel(label string) TextBuilderOption {
	return func(t *Text) {
		t.label = label
	}
}
