package spright

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*spriteRenderer)

// WithLabel sets the prefix used on the debug labels of every GPU object
// the renderer creates. The default is "spright"; set a distinct prefix when
// running several renderers so captures in GPU debugging tools stay readable.
//
// Parameters:
//   - prefix: the label prefix, e.g. "hud"
//
// Returns:
//   - RendererBuilderOption: a function that applies the label option to a renderer
func WithLabel(prefix string) RendererBuilderOption {
	return func(r *spriteRenderer) {
		r.labelPrefix = prefix
	}
}

// WithBlendState replaces the pipeline's blend state. The default is
// AlphaBlending; pass nil to disable blending entirely (opaque overwrite).
//
// Parameters:
//   - blend: the blend state to build the pipeline with, or nil for none
//
// Returns:
//   - RendererBuilderOption: a function that applies the blend state option to a renderer
func WithBlendState(blend *wgpu.BlendState) RendererBuilderOption {
	return func(r *spriteRenderer) {
		r.blend = blend
	}
}

// WithFilterMode sets the sampler's magnification and minification filter.
// The default is nearest, which keeps pixel art crisp; use linear for smooth
// scaling of high-resolution art.
//
// Parameters:
//   - mode: the filter mode for both magnification and minification
//
// Returns:
//   - RendererBuilderOption: a function that applies the filter mode option to a renderer
func WithFilterMode(mode wgpu.FilterMode) RendererBuilderOption {
	return func(r *spriteRenderer) {
		r.filter = mode
	}
}
