// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
)

// TextureData holds RGBA pixel data for a texture pending GPU upload.
type TextureData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major, first row at the bottom of the image.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SolidTexture returns a 1x1 texture of the given color.
// Used as the fallback for materials with a missing map.
//
// Parameters:
//   - r, g, b, a: the color channels
//
// Returns:
//   - TextureData: the single pixel texture
func SolidTexture(r, g, b, a byte) TextureData {
	return TextureData{Pixels: []byte{r, g, b, a}, Width: 1, Height: 1}
}

// DecodeTexture decodes PNG or JPEG bytes into RGBA pixels flipped vertically so that
// texture coordinate (0, 0) addresses the bottom-left pixel.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - TextureData: the decoded texture
//   - error: error if decoding fails
func DecodeTexture(r io.Reader) (TextureData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureData{}, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	width, height := bounds.Dx(), bounds.Dy()
	stride := width * 4
	flipped := make([]byte, len(rgba.Pix))
	for y := 0; y < height; y++ {
		copy(flipped[(height-1-y)*stride:(height-y)*stride], rgba.Pix[y*rgba.Stride:y*rgba.Stride+stride])
	}

	return TextureData{Pixels: flipped, Width: uint32(width), Height: uint32(height)}, nil
}

// DecodeTextureFile opens and decodes an image file with DecodeTexture.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - TextureData: the decoded texture
//   - error: error if the file cannot be read or decoded
func DecodeTextureFile(path string) (TextureData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TextureData{}, errors.Wrapf(err, "failed to open texture file %s", path)
	}
	tex, err := DecodeTexture(bytes.NewReader(raw))
	if err != nil {
		return TextureData{}, errors.Wrapf(err, "texture %s", path)
	}
	return tex, nil
}
