package entity

// Closer is implemented by content releasing resources when its owner is closed.
type Closer interface {
	Close() error
}

// Container owns its content. Closing the container closes the content.
type Container[T any] struct {
	content *T
	facets  Facets
}

var _ Holder = &Container[struct{}]{}

// NewContainer takes ownership of content and resolves its facets.
//
// Parameters:
//   - content: the owned value
//
// Returns:
//   - *Container[T]: the container
func NewContainer[T any](content *T) *Container[T] {
	if content == nil {
		panic("entity: NewContainer requires content")
	}
	return &Container[T]{content: content, facets: Resolve(content)}
}

func (c *Container[T]) Content() any {
	return c.content
}

// Get returns the typed content.
func (c *Container[T]) Get() *T {
	return c.content
}

// Facets returns the facets resolved at construction.
func (c *Container[T]) Facets() Facets {
	return c.facets
}

// Close closes the content if it implements Closer.
func (c *Container[T]) Close() error {
	if cl, ok := any(c.content).(Closer); ok {
		return cl.Close()
	}
	return nil
}

// Ref borrows its content. Closing is left to the owner.
type Ref[T any] struct {
	content *T
	facets  Facets
}

var _ Holder = &Ref[struct{}]{}

// NewRef wraps borrowed content and resolves its facets.
//
// Parameters:
//   - content: the borrowed value
//
// Returns:
//   - *Ref[T]: the reference
func NewRef[T any](content *T) *Ref[T] {
	if content == nil {
		panic("entity: NewRef requires content")
	}
	return &Ref[T]{content: content, facets: Resolve(content)}
}

func (r *Ref[T]) Content() any {
	return r.content
}

// Get returns the typed content.
func (r *Ref[T]) Get() *T {
	return r.content
}

// Facets returns the facets resolved at construction.
func (r *Ref[T]) Facets() Facets {
	return r.facets
}
