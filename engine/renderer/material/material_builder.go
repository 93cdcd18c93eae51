package material

import "github.com/Carmen-Shannon/gdt-go/engine/graphics"

// MaterialBuilderOption is a functional option for configuring a Material.
type MaterialBuilderOption func(*material)

// WithName sets the material name.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithDiffuse sets the albedo texture.
//
// Parameters:
//   - tex: the diffuse texture
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithDiffuse(tex *graphics.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = tex
	}
}

// WithNormal sets the normal map.
//
// Parameters:
//   - tex: the normal texture
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithNormal(tex *graphics.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.normal = tex
	}
}

// WithSpecular sets the specular map.
//
// Parameters:
//   - tex: the specular texture
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithSpecular(tex *graphics.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.specular = tex
	}
}
