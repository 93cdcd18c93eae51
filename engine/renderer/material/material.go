package material

import "github.com/Carmen-Shannon/gdt-go/engine/graphics"

type material struct {
	name     string
	diffuse  *graphics.Texture
	normal   *graphics.Texture
	specular *graphics.Texture
}

// Material is the set of textures a drawable binds before its surfaces are drawn.
// A nil texture falls back to the backend's white texture.
type Material interface {
	// Name returns the material name.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// Diffuse returns the albedo texture bound to tex_diffuse.
	//
	// Returns:
	//   - *graphics.Texture: the texture or nil
	Diffuse() *graphics.Texture

	// Normal returns the tangent space normal map bound to tex_normal.
	//
	// Returns:
	//   - *graphics.Texture: the texture or nil
	Normal() *graphics.Texture

	// Specular returns the specular map bound to tex_specular.
	//
	// Returns:
	//   - *graphics.Texture: the texture or nil
	Specular() *graphics.Texture
}

var _ Material = &material{}

// NewMaterial creates a new Material with the given options.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the newly created material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{name: "default"}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Diffuse() *graphics.Texture {
	return m.diffuse
}

func (m *material) Normal() *graphics.Texture {
	return m.normal
}

func (m *material) Specular() *graphics.Texture {
	return m.specular
}
