package asset

import "github.com/Carmen-Shannon/gdt-go/engine/renderer/material"

// AssetBuilderOption is a functional option for configuring an Asset during construction.
type AssetBuilderOption func(*Asset)

// WithName overrides the model name.
//
// Parameters:
//   - name: the asset name
//
// Returns:
//   - AssetBuilderOption: functional option to set the name
func WithName(name string) AssetBuilderOption {
	return func(a *Asset) {
		a.name = name
	}
}

// WithMaterial sets the material bound before the surfaces are drawn.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - AssetBuilderOption: functional option to set the material
func WithMaterial(mat material.Material) AssetBuilderOption {
	return func(a *Asset) {
		a.material = mat
	}
}

// WithEnabled sets whether the asset issues draws.
//
// Parameters:
//   - enabled: false to skip the asset's draws
//
// Returns:
//   - AssetBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) AssetBuilderOption {
	return func(a *Asset) {
		a.enabled.Store(enabled)
	}
}

// WithDebug logs the computed bounds.
//
// Parameters:
//   - debug: true to log
//
// Returns:
//   - AssetBuilderOption: functional option to set debug logging
func WithDebug(debug bool) AssetBuilderOption {
	return func(a *Asset) {
		a.debug = debug
	}
}
