package spright

import (
	_ "embed"
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/teenygame/spright/common"
)

//go:embed assets/shader.wgsl
var shaderSource string

const (
	targetUniformsSize  = uint64(unsafe.Sizeof(targetUniforms{}))
	textureUniformsSize = uint64(unsafe.Sizeof(textureUniforms{}))
	vertexStride        = uint64(unsafe.Sizeof(vertex{}))
)

// AlphaBlending is the default blend state: classic source-over blending with
// straight (non-premultiplied) alpha. Combined with submission-order draws this
// gives correct back-to-front compositing of translucent sprites.
var AlphaBlending = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// Renderer batches sprites into contiguous same-texture runs and draws each
// run with a single indexed draw call. A frame is two phases: Prepare uploads
// the frame's vertex, index and uniform data and builds one bind group per
// run, then Render records the draw calls into an externally opened render
// pass. Sprites are drawn in submission order, so overlapping translucent
// sprites composite exactly as submitted.
//
// A Renderer is not safe for concurrent use; drive it from the single
// goroutine that owns the render loop.
type Renderer interface {
	// Prepare stages one frame of sprites for drawing. It batches the sprites
	// into contiguous same-texture runs, uploads vertices, indices and uniform
	// records, and replaces the prepared state of the previous frame. The
	// frame buffers grow to fit and are reused across frames, never shrunk.
	//
	// On error the prepared state is cleared and the next Render draws
	// nothing.
	//
	// Parameters:
	//   - device: the device this renderer was created from
	//   - queue: the queue used for buffer uploads
	//   - targetWidth: render target width in pixels
	//   - targetHeight: render target height in pixels
	//   - sprites: the sprites to draw, back to front
	//
	// Returns:
	//   - error: nil on success, or an error if a sprite has a nil texture,
	//     the sprite count exceeds the 32-bit index budget, or a GPU
	//     allocation or upload fails
	Prepare(device *wgpu.Device, queue *wgpu.Queue, targetWidth, targetHeight uint32, sprites []Sprite) error

	// Render records the prepared draw calls into pass. The pass must target
	// a texture with the format the renderer was created for. Render issues
	// no uploads and cannot fail; with zero prepared sprites it records
	// nothing. Calling Render before the first successful Prepare panics.
	//
	// Parameters:
	//   - pass: an open render pass to record into
	Render(pass *wgpu.RenderPassEncoder)

	// Stats returns counters describing the most recent Prepare call.
	//
	// Returns:
	//   - FrameStats: sprite and draw call counts plus frame buffer capacities
	Stats() FrameStats

	// Release frees every GPU resource owned by the renderer. The renderer
	// must not be used afterwards.
	Release()
}

// FrameStats describes the work staged by the most recent Prepare call.
type FrameStats struct {
	// Sprites is the number of sprites submitted.
	Sprites int
	// Groups is the number of contiguous same-texture runs; each run is one
	// indexed draw call.
	Groups int
	// VertexBufferBytes, IndexBufferBytes and UniformBufferBytes are the
	// current capacities of the grow-only frame buffers.
	VertexBufferBytes  uint64
	IndexBufferBytes   uint64
	UniformBufferBytes uint64
}

// preparedGroup is one staged draw call: the bind group for its run's texture
// and the half-open range [indexStart, indexEnd) it draws from the shared
// index buffer.
type preparedGroup struct {
	bindGroup  *wgpu.BindGroup
	indexStart uint32
	indexEnd   uint32
}

type spriteRenderer struct {
	labelPrefix string
	blend       *wgpu.BlendState
	filter      wgpu.FilterMode

	// uniformStride is the spacing between per-group uniform records in the
	// texture uniform buffer, at least the device's minimum uniform buffer
	// offset alignment.
	uniformStride uint64

	pipeline               *wgpu.RenderPipeline
	textureBindGroupLayout *wgpu.BindGroupLayout
	sampler                *wgpu.Sampler

	targetUniformBuffer    *wgpu.Buffer
	targetUniformBindGroup *wgpu.BindGroup

	vertexBuffer         *dynamicBuffer
	indexBuffer          *dynamicBuffer
	textureUniformBuffer *dynamicBuffer

	prepared []preparedGroup
	ready    bool
	stats    FrameStats
}

var _ Renderer = &spriteRenderer{}

// NewRenderer creates a sprite renderer that draws into render targets of the
// given texture format. The pipeline, sampler and target uniform state are
// allocated up front; the per-frame buffers are allocated lazily by Prepare.
//
// Parameters:
//   - device: the device to allocate GPU resources from
//   - format: the texture format of the render targets Render will draw into
//   - opts: optional configuration, see RendererBuilderOption
//
// Returns:
//   - Renderer: the new renderer
//   - error: nil on success, or an error if the device reports no uniform
//     buffer offset alignment or a GPU object cannot be created
func NewRenderer(device *wgpu.Device, format wgpu.TextureFormat, opts ...RendererBuilderOption) (Renderer, error) {
	r := &spriteRenderer{
		labelPrefix: "spright",
		blend:       &AlphaBlending,
		filter:      wgpu.FilterModeNearest,
	}
	for _, opt := range opts {
		opt(r)
	}

	alignment := device.GetLimits().Limits.MinUniformBufferOffsetAlignment
	if alignment == 0 {
		return nil, errors.New("device reports a zero min uniform buffer offset alignment")
	}
	r.uniformStride = common.AlignUp(textureUniformsSize, uint64(alignment))

	ok := false
	defer func() {
		if !ok {
			r.Release()
		}
	}()

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: r.label("shader"),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module: %w", err)
	}
	defer shaderModule.Release()

	targetBindGroupLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: r.label("target_bind_group_layout"),
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: targetUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create target bind group layout: %w", err)
	}
	defer targetBindGroupLayout.Release()

	r.textureBindGroupLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: r.label("texture_bind_group_layout"),
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
			{
				// Texture uniforms feed both stages: the vertex stage
				// normalizes texel coordinates, the fragment stage reads the
				// mask flag.
				Binding:    2,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: textureUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture bind group layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            r.label("pipeline_layout"),
		BindGroupLayouts: []*wgpu.BindGroupLayout{targetBindGroupLayout, r.textureBindGroupLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	r.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  r.label("render_pipeline"),
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     r.blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline: %w", err)
	}

	r.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         r.label("sampler"),
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     r.filter,
		MinFilter:     r.filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	r.targetUniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: r.label("target_uniform_buffer"),
		Size:  targetUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create target uniform buffer: %w", err)
	}

	r.targetUniformBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  r.label("target_bind_group"),
		Layout: targetBindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.targetUniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create target bind group: %w", err)
	}

	r.vertexBuffer = newDynamicBuffer(device, r.label("vertex_buffer"), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	r.indexBuffer = newDynamicBuffer(device, r.label("index_buffer"), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	r.textureUniformBuffer = newDynamicBuffer(device, r.label("texture_uniform_buffer"), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)

	ok = true
	return r, nil
}

func (r *spriteRenderer) Prepare(device *wgpu.Device, queue *wgpu.Queue, targetWidth, targetHeight uint32, sprites []Sprite) error {
	// The previous frame's bind groups die here either way: on error the
	// renderer must draw nothing, on success they are rebuilt below.
	r.releasePrepared()
	r.stats = FrameStats{}

	if len(sprites) > maxSpritesPerPrepare {
		return fmt.Errorf("sprite count %d exceeds the 32-bit index budget of %d sprites", len(sprites), maxSpritesPerPrepare)
	}
	for i := range sprites {
		if sprites[i].Texture == nil {
			return fmt.Errorf("sprite %d has a nil texture", i)
		}
	}

	target := targetUniforms{Size: [2]float32{float32(targetWidth), float32(targetHeight)}}
	if err := queue.WriteBuffer(r.targetUniformBuffer, 0, common.StructToBytes(&target)); err != nil {
		return fmt.Errorf("failed to write target uniforms: %w", err)
	}

	groups := batchSprites(sprites)
	if len(groups) > 0 {
		records := make([]textureUniforms, len(groups))
		for i, g := range groups {
			records[i] = textureUniforms{
				Size: [2]float32{float32(g.texture.Width()), float32(g.texture.Height())},
			}
			if isMaskFormat(g.texture.Format()) {
				records[i].IsMask = 1
			}
		}
		packed := packPadded(records, r.uniformStride)
		if err := r.textureUniformBuffer.ensure(uint64(len(packed))); err != nil {
			return err
		}
		if err := queue.WriteBuffer(r.textureUniformBuffer.buffer, 0, packed); err != nil {
			return fmt.Errorf("failed to write texture uniforms: %w", err)
		}

		vertices, indices := synthesize(sprites)
		vertexData := common.SliceToBytes(vertices)
		if err := r.vertexBuffer.ensure(uint64(len(vertexData))); err != nil {
			return err
		}
		if err := queue.WriteBuffer(r.vertexBuffer.buffer, 0, vertexData); err != nil {
			return fmt.Errorf("failed to write vertices: %w", err)
		}

		indexData := common.SliceToBytes(indices)
		if err := r.indexBuffer.ensure(uint64(len(indexData))); err != nil {
			return err
		}
		if err := queue.WriteBuffer(r.indexBuffer.buffer, 0, indexData); err != nil {
			return fmt.Errorf("failed to write indices: %w", err)
		}

		prepared := make([]preparedGroup, 0, len(groups))
		indexStart := uint32(0)
		for i, g := range groups {
			bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  r.label("texture_bind_group"),
				Layout: r.textureBindGroupLayout,
				Entries: []wgpu.BindGroupEntry{
					{
						Binding:     0,
						TextureView: g.texture.View(),
					},
					{
						Binding: 1,
						Sampler: r.sampler,
					},
					{
						// Each group binds its own slice of the shared
						// uniform buffer, one record per stride.
						Binding: 2,
						Buffer:  r.textureUniformBuffer.buffer,
						Offset:  uint64(i) * r.uniformStride,
						Size:    textureUniformsSize,
					},
				},
			})
			if err != nil {
				for _, p := range prepared {
					p.bindGroup.Release()
				}
				return fmt.Errorf("failed to create bind group for group %d: %w", i, err)
			}
			indexEnd := indexStart + uint32(g.count)*indicesPerSprite
			prepared = append(prepared, preparedGroup{bindGroup: bindGroup, indexStart: indexStart, indexEnd: indexEnd})
			indexStart = indexEnd
		}
		r.prepared = prepared
	}

	r.ready = true
	r.stats = FrameStats{
		Sprites:            len(sprites),
		Groups:             len(groups),
		VertexBufferBytes:  r.vertexBuffer.size,
		IndexBufferBytes:   r.indexBuffer.size,
		UniformBufferBytes: r.textureUniformBuffer.size,
	}
	return nil
}

func (r *spriteRenderer) Render(pass *wgpu.RenderPassEncoder) {
	if !r.ready {
		panic("spright: Render called before a successful Prepare")
	}
	if len(r.prepared) == 0 {
		return
	}

	pass.SetPipeline(r.pipeline)
	pass.SetVertexBuffer(0, r.vertexBuffer.buffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(r.indexBuffer.buffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.SetBindGroup(0, r.targetUniformBindGroup, nil)
	for _, g := range r.prepared {
		pass.SetBindGroup(1, g.bindGroup, nil)
		pass.DrawIndexed(g.indexEnd-g.indexStart, 1, g.indexStart, 0, 0)
	}
}

func (r *spriteRenderer) Stats() FrameStats {
	return r.stats
}

func (r *spriteRenderer) Release() {
	r.releasePrepared()
	r.ready = false
	if r.textureUniformBuffer != nil {
		r.textureUniformBuffer.release()
		r.textureUniformBuffer = nil
	}
	if r.indexBuffer != nil {
		r.indexBuffer.release()
		r.indexBuffer = nil
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.release()
		r.vertexBuffer = nil
	}
	if r.targetUniformBindGroup != nil {
		r.targetUniformBindGroup.Release()
		r.targetUniformBindGroup = nil
	}
	if r.targetUniformBuffer != nil {
		r.targetUniformBuffer.Release()
		r.targetUniformBuffer = nil
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.textureBindGroupLayout != nil {
		r.textureBindGroupLayout.Release()
		r.textureBindGroupLayout = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
}

// releasePrepared drops the staged draw calls and their bind groups.
func (r *spriteRenderer) releasePrepared() {
	for _, g := range r.prepared {
		g.bindGroup.Release()
	}
	r.prepared = nil
}

// label prefixes a resource name with the renderer's label prefix for GPU
// debugging tools.
func (r *spriteRenderer) label(name string) string {
	return r.labelPrefix + ": " + name
}

// vertexBufferLayout describes the vertex struct to the pipeline. Offsets
// mirror the Go struct layout so a frame's vertices upload with a single copy.
func vertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: vertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         0,
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(vertex{}.texCoords)),
				ShaderLocation: 1,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         uint64(unsafe.Offsetof(vertex{}.tint)),
				ShaderLocation: 2,
			},
		},
	}
}
