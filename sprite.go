package spright

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is the renderer's view of a 2D GPU texture. The renderer never owns
// the texture; it only reads the view and metadata during Prepare, so the
// texture must stay alive until the draw calls that sample it have been
// submitted. Implementations are expected to be pointer types: the batcher
// groups sprites by plain interface equality.
type Texture interface {
	// View returns the texture view bound into per-group bind groups.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture's sampling view
	View() *wgpu.TextureView

	// Width returns the texture width in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	Width() uint32

	// Height returns the texture height in pixels.
	//
	// Returns:
	//   - uint32: height in pixels
	Height() uint32

	// Format returns the texture's pixel format. Single-channel formats are
	// treated as masks: the shader replicates white across the color channels
	// and uses the channel value as alpha.
	//
	// Returns:
	//   - wgpu.TextureFormat: the pixel format
	Format() wgpu.TextureFormat
}

// Sprite is a single textured, transformed, tinted quad. The quad is sized to
// the source rectangle with its local origin at (0, 0); Transform maps it into
// target space.
type Sprite struct {
	// Texture is the texture sampled by this sprite. Borrowed, never owned.
	Texture Texture

	// Src is the region of the texture to draw, in texture pixel space.
	Src Rect

	// Transform maps the quad's local space into target space.
	Transform AffineTransform

	// Tint is multiplied with the sampled color. White leaves it unchanged.
	Tint Color
}

// isMaskFormat reports whether a pixel format is single-channel, in which case
// the shader samples it as an alpha mask.
func isMaskFormat(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatR8Unorm,
		wgpu.TextureFormatR8Snorm,
		wgpu.TextureFormatR16Float,
		wgpu.TextureFormatR32Float:
		return true
	default:
		return false
	}
}
