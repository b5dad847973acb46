package texture

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureBuilderOption is a functional option applied to a texture during construction.
type TextureBuilderOption func(*Texture)

// WithLabel sets the texture's debug label, visible in GPU debugging tools
// and error messages. LoadFile defaults the label to the file path.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - TextureBuilderOption: a function that applies the label option to a texture
func WithLabel(label string) TextureBuilderOption {
	return func(t *Texture) {
		t.label = label
	}
}

// WithFormat sets the texture's pixel format. The default is RGBA8UnormSrgb.
// Single-channel formats such as R8Unorm create mask textures: the renderer
// samples the channel as alpha and takes the color from the sprite tint.
//
// Parameters:
//   - format: the pixel format
//
// Returns:
//   - TextureBuilderOption: a function that applies the format option to a texture
func WithFormat(format wgpu.TextureFormat) TextureBuilderOption {
	return func(t *Texture) {
		t.format = format
	}
}
