package spright

import (
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTexture satisfies Texture without any GPU state so batching and
// synthesis can be exercised in plain unit tests.
type fakeTexture struct {
	width  uint32
	height uint32
	format wgpu.TextureFormat
}

func (f *fakeTexture) View() *wgpu.TextureView    { return nil }
func (f *fakeTexture) Width() uint32              { return f.width }
func (f *fakeTexture) Height() uint32             { return f.height }
func (f *fakeTexture) Format() wgpu.TextureFormat { return f.format }

func newFakeTexture(w, h uint32) *fakeTexture {
	return &fakeTexture{width: w, height: h, format: wgpu.TextureFormatRGBA8UnormSrgb}
}

func spritesOn(textures ...Texture) []Sprite {
	sprites := make([]Sprite, len(textures))
	for i, tex := range textures {
		sprites[i] = Sprite{
			Texture:   tex,
			Src:       NewRect(0, 0, tex.Width(), tex.Height()),
			Transform: Identity(),
			Tint:      White,
		}
	}
	return sprites
}

func TestBatchEmpty(t *testing.T) {
	assert.Empty(t, batchSprites(nil))
	assert.Empty(t, batchSprites([]Sprite{}))
}

func TestBatchSingleTexture(t *testing.T) {
	tex := newFakeTexture(16, 16)
	groups := batchSprites(spritesOn(tex, tex, tex, tex, tex))

	require.Len(t, groups, 1)
	assert.Equal(t, Texture(tex), groups[0].texture)
	assert.Equal(t, 0, groups[0].start)
	assert.Equal(t, 5, groups[0].count)
}

func TestBatchSplitsOnTextureChange(t *testing.T) {
	a := newFakeTexture(16, 16)
	b := newFakeTexture(32, 32)
	groups := batchSprites(spritesOn(a, a, b, b, b, a))

	// The trailing a starts a new run: runs never merge across a different
	// texture, so submission order survives into draw order.
	require.Len(t, groups, 3)
	assert.Equal(t, group{texture: a, start: 0, count: 2}, groups[0])
	assert.Equal(t, group{texture: b, start: 2, count: 3}, groups[1])
	assert.Equal(t, group{texture: a, start: 5, count: 1}, groups[2])
}

func TestBatchGroupsPartitionInput(t *testing.T) {
	a := newFakeTexture(8, 8)
	b := newFakeTexture(8, 8)
	c := newFakeTexture(8, 8)
	sprites := spritesOn(a, b, b, c, a, a, a, c)
	groups := batchSprites(sprites)

	next := 0
	for _, g := range groups {
		assert.Equal(t, next, g.start)
		assert.Positive(t, g.count)
		for i := g.start; i < g.start+g.count; i++ {
			assert.Equal(t, g.texture, sprites[i].Texture)
		}
		next = g.start + g.count
	}
	assert.Equal(t, len(sprites), next)
}

func TestSynthesizeQuadGeometry(t *testing.T) {
	tex := newFakeTexture(64, 64)
	sprites := []Sprite{{
		Texture:   tex,
		Src:       NewRect(0, 0, 10, 20),
		Transform: Identity(),
		Tint:      White,
	}}

	vertices, indices := synthesize(sprites)
	require.Len(t, vertices, 4)
	require.Len(t, indices, 6)

	// Top-left, bottom-left, top-right, bottom-right.
	assert.Equal(t, [3]float32{0, 0, 0}, vertices[0].position)
	assert.Equal(t, [3]float32{0, 20, 0}, vertices[1].position)
	assert.Equal(t, [3]float32{10, 0, 0}, vertices[2].position)
	assert.Equal(t, [3]float32{10, 20, 0}, vertices[3].position)

	assert.Equal(t, [2]float32{0, 0}, vertices[0].texCoords)
	assert.Equal(t, [2]float32{0, 20}, vertices[1].texCoords)
	assert.Equal(t, [2]float32{10, 0}, vertices[2].texCoords)
	assert.Equal(t, [2]float32{10, 20}, vertices[3].texCoords)

	assert.Equal(t, []uint32{0, 1, 2, 1, 2, 3}, indices)
}

func TestSynthesizeSrcOffsetMovesTexCoordsOnly(t *testing.T) {
	tex := newFakeTexture(64, 64)
	sprites := []Sprite{{
		Texture:   tex,
		Src:       NewRect(5, 7, 10, 20),
		Transform: Identity(),
		Tint:      White,
	}}

	vertices, _ := synthesize(sprites)
	require.Len(t, vertices, 4)

	// The quad stays anchored at the local origin; only the sampled region
	// shifts.
	assert.Equal(t, [3]float32{0, 0, 0}, vertices[0].position)
	assert.Equal(t, [3]float32{10, 20, 0}, vertices[3].position)

	assert.Equal(t, [2]float32{5, 7}, vertices[0].texCoords)
	assert.Equal(t, [2]float32{5, 27}, vertices[1].texCoords)
	assert.Equal(t, [2]float32{15, 7}, vertices[2].texCoords)
	assert.Equal(t, [2]float32{15, 27}, vertices[3].texCoords)
}

func TestSynthesizeAppliesTransform(t *testing.T) {
	tex := newFakeTexture(64, 64)
	sprites := []Sprite{{
		Texture:   tex,
		Src:       NewRect(0, 0, 10, 10),
		Transform: Translation(100, 50).Mul(Scaling(2, 3)),
		Tint:      White,
	}}

	vertices, _ := synthesize(sprites)
	require.Len(t, vertices, 4)
	assert.Equal(t, [3]float32{100, 50, 0}, vertices[0].position)
	assert.Equal(t, [3]float32{100, 80, 0}, vertices[1].position)
	assert.Equal(t, [3]float32{120, 50, 0}, vertices[2].position)
	assert.Equal(t, [3]float32{120, 80, 0}, vertices[3].position)
}

func TestSynthesizeReplicatesTint(t *testing.T) {
	tex := newFakeTexture(16, 16)
	sprites := spritesOn(tex)
	sprites[0].Tint = RGBA(255, 0, 51, 102)

	vertices, _ := synthesize(sprites)
	require.Len(t, vertices, 4)
	want := [4]float32{1, 0, 0.2, 0.4}
	for _, v := range vertices {
		for ch := range want {
			assert.InDelta(t, want[ch], v.tint[ch], 1e-6)
		}
	}
}

func TestSynthesizeIndexBases(t *testing.T) {
	tex := newFakeTexture(16, 16)
	vertices, indices := synthesize(spritesOn(tex, tex, tex))

	require.Len(t, vertices, 12)
	require.Len(t, indices, 18)
	assert.Equal(t, []uint32{4, 5, 6, 5, 6, 7}, indices[6:12])
	assert.Equal(t, []uint32{8, 9, 10, 9, 10, 11}, indices[12:18])

	for _, idx := range indices {
		assert.Less(t, int(idx), len(vertices))
	}
}

func TestSpriteBudgetFitsIndexFormat(t *testing.T) {
	// Index values and the index count both have to stay inside 32 bits.
	assert.LessOrEqual(t, uint64(maxSpritesPerPrepare)*indicesPerSprite, uint64(math.MaxUint32))
	assert.Greater(t, uint64(maxSpritesPerPrepare+1)*indicesPerSprite, uint64(math.MaxUint32))
}

func TestIsMaskFormat(t *testing.T) {
	assert.True(t, isMaskFormat(wgpu.TextureFormatR8Unorm))
	assert.True(t, isMaskFormat(wgpu.TextureFormatR16Float))
	assert.True(t, isMaskFormat(wgpu.TextureFormatR32Float))
	assert.False(t, isMaskFormat(wgpu.TextureFormatRGBA8UnormSrgb))
	assert.False(t, isMaskFormat(wgpu.TextureFormatBGRA8Unorm))
	assert.False(t, isMaskFormat(wgpu.TextureFormatRG8Unorm))
}
