package loader

import (
	"io"

	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
)

// loaderBackend decodes one model file format.
// Concrete implementations (smdLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Model decodes the meshes of a file.
	//
	// Parameters:
	//   - src: the file to decode
	//
	// Returns:
	//   - *model.Model: the decoded model
	//   - error: error if decoding fails
	Model(src source) (*model.Model, error)

	// Skeleton decodes the bone hierarchy and rest pose of a file.
	//
	// Parameters:
	//   - src: the file to decode
	//
	// Returns:
	//   - *animation.Skeleton: the decoded skeleton
	//   - error: error if decoding fails or the file has no skeleton
	Skeleton(src source) (*animation.Skeleton, error)

	// Frames decodes the key frames of an animation, sampled at animation.FrameRate.
	//
	// Parameters:
	//   - src: the file to decode
	//   - clip: the animation name, empty for the first one
	//
	// Returns:
	//   - []*animation.Frame: the key frames
	//   - error: error if decoding fails or the file has no such animation
	Frames(src source, clip string) ([]*animation.Frame, error)
}

// source is an opened model file. Path resolves files the model references, such as
// external glTF buffers; it is empty for streams.
type source struct {
	name string
	path string
	r    io.Reader
}
