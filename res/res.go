// Package res embeds the engine's built-in resources.
package res

import (
	"embed"
	"path"

	"github.com/pkg/errors"
)

//go:embed shaders/*.wgsl shaders/include/*.wgsl
var shaders embed.FS

// Shader returns the WGSL source of a built-in program, e.g. "forward", with its includes
// expanded.
//
// Parameters:
//   - name: the program name without extension
//
// Returns:
//   - string: the WGSL source
//   - error: error if no such program exists or an include fails
func Shader(name string) (string, error) {
	raw, err := shaders.ReadFile(path.Join("shaders", name+".wgsl"))
	if err != nil {
		return "", errors.Wrapf(err, "no built-in shader %q", name)
	}
	src, err := NewPreProcessor(Chunk).Process(string(raw))
	if err != nil {
		return "", errors.Wrapf(err, "shader %s", name)
	}
	return src, nil
}

// Chunk returns a shared WGSL chunk, e.g. "skinning".
//
// Parameters:
//   - name: the chunk name without extension
//
// Returns:
//   - string: the raw chunk source
//   - error: error if no such chunk exists
func Chunk(name string) (string, error) {
	raw, err := shaders.ReadFile(path.Join("shaders", "include", name+".wgsl"))
	if err != nil {
		return "", errors.Wrapf(err, "no shader chunk %q", name)
	}
	return string(raw), nil
}
