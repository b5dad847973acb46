package texture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/teenygame/spright"
)

// StagingData is decoded pixel data ready for upload: tightly packed rows with
// no padding, matching the byte layout of the target texture format.
type StagingData struct {
	// Pixels is the raw pixel data, Width*Height*bytesPerPixel bytes.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
}

// Texture is a 2D GPU texture together with the sampling view and metadata
// the sprite renderer binds. Create one with New, FromImage or LoadFile and
// release it once no submitted frame samples it anymore.
type Texture struct {
	label   string
	format  wgpu.TextureFormat
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
}

var _ spright.Texture = &Texture{}

// New creates a texture from staging data and uploads the pixels. The default
// format is RGBA8UnormSrgb; single-channel formats such as R8Unorm produce
// mask textures, which the renderer draws as tint-colored alpha.
//
// Parameters:
//   - device: the device to allocate the texture from
//   - queue: the queue used for the pixel upload
//   - data: the pixels to upload, sized to match the texture format
//   - opts: optional configuration, see TextureBuilderOption
//
// Returns:
//   - *Texture: the uploaded texture
//   - error: nil on success, or an error if the staging data does not match
//     the format or a GPU object cannot be created
func New(device *wgpu.Device, queue *wgpu.Queue, data StagingData, opts ...TextureBuilderOption) (*Texture, error) {
	t := &Texture{
		label:  "texture",
		format: wgpu.TextureFormatRGBA8UnormSrgb,
	}
	for _, opt := range opts {
		opt(t)
	}

	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("texture %q has zero extent %dx%d", t.label, data.Width, data.Height)
	}
	bpp, err := bytesPerPixel(t.format)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", t.label, err)
	}
	if want := uint64(data.Width) * uint64(data.Height) * uint64(bpp); uint64(len(data.Pixels)) != want {
		return nil, fmt.Errorf("texture %q has %d pixel bytes, want %d for %dx%d", t.label, len(data.Pixels), want, data.Width, data.Height)
	}

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     t.label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        t.format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", t.label, err)
	}

	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * bpp,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create view for texture %q: %w", t.label, err)
	}

	t.texture = tex
	t.view = view
	t.width = data.Width
	t.height = data.Height
	return t, nil
}

// FromImage converts img to staging data for the configured format and
// uploads it. RGBA formats convert through a full RGBA raster; R8Unorm
// extracts the alpha channel, turning the image into a mask.
//
// Parameters:
//   - device: the device to allocate the texture from
//   - queue: the queue used for the pixel upload
//   - img: the source image
//   - opts: optional configuration, see TextureBuilderOption
//
// Returns:
//   - *Texture: the uploaded texture
//   - error: nil on success, or an error from New
func FromImage(device *wgpu.Device, queue *wgpu.Queue, img image.Image, opts ...TextureBuilderOption) (*Texture, error) {
	probe := &Texture{format: wgpu.TextureFormatRGBA8UnormSrgb}
	for _, opt := range opts {
		opt(probe)
	}

	var data StagingData
	if bpp, err := bytesPerPixel(probe.format); err == nil && bpp == 1 {
		data = AlphaStaging(img)
	} else {
		data = Staging(img)
	}
	return New(device, queue, data, opts...)
}

// LoadFile decodes an image file (PNG or JPEG) and uploads it. The file path
// becomes the texture's label unless WithLabel overrides it.
//
// Parameters:
//   - device: the device to allocate the texture from
//   - queue: the queue used for the pixel upload
//   - path: the image file to load
//   - opts: optional configuration, see TextureBuilderOption
//
// Returns:
//   - *Texture: the uploaded texture
//   - error: nil on success, or an error if the file cannot be read or decoded
func LoadFile(device *wgpu.Device, queue *wgpu.Queue, path string, opts ...TextureBuilderOption) (*Texture, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return FromImage(device, queue, img, append([]TextureBuilderOption{WithLabel(path)}, opts...)...)
}

// Staging converts an image to tightly packed RGBA staging data.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - StagingData: 4 bytes per pixel, row-major
func Staging(img image.Image) StagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return StagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// AlphaStaging extracts an image's alpha channel into single-channel staging
// data, for R8Unorm mask textures.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - StagingData: 1 byte per pixel, row-major
func AlphaStaging(img image.Image) StagingData {
	bounds := img.Bounds()
	pixels := make([]byte, bounds.Dx()*bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			pixels[i] = uint8(a >> 8)
			i++
		}
	}
	return StagingData{
		Pixels: pixels,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// View returns the texture's sampling view.
func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 {
	return t.height
}

// Format returns the texture's pixel format.
func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

// Label returns the texture's debug label.
func (t *Texture) Label() string {
	return t.label
}

// Release frees the GPU texture and its view. Safe to call more than once.
func (t *Texture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// bytesPerPixel returns the packed byte size of one pixel in format.
func bytesPerPixel(format wgpu.TextureFormat) (uint32, error) {
	switch format {
	case wgpu.TextureFormatRGBA8Unorm,
		wgpu.TextureFormatRGBA8UnormSrgb,
		wgpu.TextureFormatBGRA8Unorm,
		wgpu.TextureFormatBGRA8UnormSrgb:
		return 4, nil
	case wgpu.TextureFormatR8Unorm,
		wgpu.TextureFormatR8Snorm:
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported texture format %v", format)
	}
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}
	return img, nil
}
