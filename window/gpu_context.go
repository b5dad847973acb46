package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting,
	// capping the frame rate to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for
	// vertical blank. May cause tearing but provides the lowest latency.
	PresentModeUncapped
)

// GPUContext owns the WebGPU objects bound to one window surface: instance,
// surface, adapter, device and queue, plus the per-frame encoder state. It
// drives the frame lifecycle for a sprite application:
//
//	BeginFrame -> record into Pass() -> EndFrame -> Present
//
// A GPUContext is not safe for concurrent use; drive it from the goroutine
// running the window's message loop.
type GPUContext interface {
	// Device returns the WebGPU device.
	Device() *wgpu.Device

	// Queue returns the device's queue, used for buffer and texture uploads.
	Queue() *wgpu.Queue

	// SurfaceFormat returns the texture format of the window surface. Create
	// renderers against this format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface's preferred format
	SurfaceFormat() wgpu.TextureFormat

	// Configure sizes the surface. Call it once the window reports its first
	// framebuffer size and again on every resize; a pending present mode
	// change takes effect here.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Configure(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next
	// Configure call.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next surface texture and opens a render pass
	// that clears it. Fails if the previous frame was never presented or the
	// surface cannot provide a texture (e.g. mid-resize); skip the frame on
	// error.
	//
	// Returns:
	//   - error: nil on success, or an error if the frame cannot start
	BeginFrame() error

	// Pass returns the render pass opened by BeginFrame, or nil outside a
	// frame. Hand it to Renderer.Render.
	//
	// Returns:
	//   - *wgpu.RenderPassEncoder: the open render pass
	Pass() *wgpu.RenderPassEncoder

	// EndFrame closes the render pass and submits the frame's commands to
	// the queue.
	EndFrame()

	// Present shows the submitted frame on the window surface and releases
	// the frame's surface texture.
	Present()

	// Release frees every WebGPU object the context owns. The context must
	// not be used afterwards.
	Release()
}

// gpuContext is the implementation of the GPUContext interface.
type gpuContext struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        wgpu.TextureFormat
	presentMode          wgpu.PresentMode
	clearColor           wgpu.Color
	forceFallbackAdapter bool

	// Frame state between BeginFrame and Present.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ GPUContext = &gpuContext{}

// NewGPUContext creates the WebGPU instance, surface, adapter, device and
// queue for a window and configures the surface to the window's current
// framebuffer size.
//
// Parameters:
//   - w: the window to bind the surface to
//   - options: optional configuration, see GPUContextBuilderOption
//
// Returns:
//   - GPUContext: the initialized context
//   - error: nil on success, or an error if no adapter or device is available
func NewGPUContext(w Window, options ...GPUContextBuilderOption) (GPUContext, error) {
	runtime.LockOSThread()

	c := &gpuContext{
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	for _, opt := range options {
		opt(c)
	}

	desc := w.SurfaceDescriptor()
	if desc == nil {
		return nil, errors.New("window has no surface descriptor")
	}

	ok := false
	defer func() {
		if !ok {
			c.Release()
		}
	}()

	c.instance = wgpu.CreateInstance(nil)
	c.surface = c.instance.CreateSurface(desc)

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	c.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "spright device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	c.device = device
	c.queue = device.GetQueue()

	c.surfaceFormat = c.surface.GetCapabilities(c.adapter).Formats[0]
	c.Configure(w.Width(), w.Height())

	ok = true
	return c, nil
}

func (c *gpuContext) Device() *wgpu.Device {
	return c.device
}

func (c *gpuContext) Queue() *wgpu.Queue {
	return c.queue
}

func (c *gpuContext) SurfaceFormat() wgpu.TextureFormat {
	return c.surfaceFormat
}

func (c *gpuContext) Configure(width, height int) {
	capabilities := c.surface.GetCapabilities(c.adapter)

	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: c.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (c *gpuContext) SetPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeVSync:
		c.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		c.presentMode = wgpu.PresentModeImmediate
	}
}

func (c *gpuContext) BeginFrame() error {
	// Refuse to acquire a second surface texture while one is held; that is
	// how wgpu-native reports "Surface image is already acquired".
	if c.frameSurface != nil {
		return errors.New("previous frame not yet presented")
	}

	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("failed to create surface view: %w", err)
	}

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("failed to create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: c.clearColor,
			},
		},
	})

	c.frameEncoder = encoder
	c.framePass = pass
	c.frameSurface = surfaceTexture
	c.frameView = view

	return nil
}

func (c *gpuContext) Pass() *wgpu.RenderPassEncoder {
	return c.framePass
}

func (c *gpuContext) EndFrame() {
	if c.framePass == nil {
		return
	}

	c.framePass.End()

	commandBuffer, err := c.frameEncoder.Finish(nil)
	if err != nil {
		c.frameEncoder.Release()
		c.frameView.Release()
		c.frameSurface.Release()
		c.frameEncoder = nil
		c.framePass = nil
		c.frameSurface = nil
		c.frameView = nil
		return
	}

	c.queue.Submit(commandBuffer)

	commandBuffer.Release()
	c.frameEncoder.Release()
	c.frameEncoder = nil
	c.framePass = nil
}

func (c *gpuContext) Present() {
	if c.frameSurface == nil {
		return
	}

	c.surface.Present()

	if c.frameView != nil {
		c.frameView.Release()
		c.frameView = nil
	}
	c.frameSurface.Release()
	c.frameSurface = nil
}

func (c *gpuContext) Release() {
	if c.frameEncoder != nil {
		c.frameEncoder.Release()
		c.frameEncoder = nil
		c.framePass = nil
	}
	if c.frameView != nil {
		c.frameView.Release()
		c.frameView = nil
	}
	if c.frameSurface != nil {
		c.frameSurface.Release()
		c.frameSurface = nil
	}

	// The instance, surface, adapter, device and queue live for the life of
	// the process; dropping the references is enough.
	c.queue = nil
	c.device = nil
	c.adapter = nil
	c.surface = nil
	c.instance = nil
}
