package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUContextBuilderOption is a functional option applied to a GPUContext during construction via NewGPUContext.
type GPUContextBuilderOption func(*gpuContext)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
// The default is PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the present mode option to a context
func WithPresentMode(mode PresentMode) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.SetPresentMode(mode)
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the force software renderer option to a context
func WithForceSoftwareRenderer(force bool) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.forceFallbackAdapter = force
	}
}

// WithClearColor sets the color the surface is cleared to at the start of each frame.
// The default is a dark gray (0.1, 0.1, 0.1, 1.0).
//
// Parameters:
//   - color: the clear color in linear RGBA, each channel in [0, 1]
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the clear color option to a context
func WithClearColor(color wgpu.Color) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.clearColor = color
	}
}
