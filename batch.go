package spright

const (
	verticesPerSprite = 4
	indicesPerSprite  = 6
)

// maxSpritesPerPrepare is the largest sprite count whose index data still fits
// the 32-bit index format: every index value and the total index count must
// stay below 2^32.
const maxSpritesPerPrepare = ((1 << 32) - 1) / indicesPerSprite

// group is a maximal contiguous run of sprites sharing one texture identity.
// Runs are never merged across a sprite with a different texture: batching
// preserves submission order so back-to-front alpha blending stays correct.
// Callers wanting fewer groups must sort their sprites by texture themselves,
// trading draw order for batch count.
type group struct {
	texture Texture
	start   int
	count   int
}

// batchSprites partitions sprites into ordered maximal contiguous runs by
// texture identity in a single linear pass. Concatenating the runs reproduces
// the input order exactly. Empty input yields no groups.
func batchSprites(sprites []Sprite) []group {
	var groups []group
	for i, s := range sprites {
		if len(groups) == 0 || groups[len(groups)-1].texture != s.Texture {
			groups = append(groups, group{texture: s.Texture, start: i})
		}
		groups[len(groups)-1].count++
	}
	return groups
}

// vertex matches the vertex layout consumed by the shader: position, texel-space
// texture coordinates, and a normalized tint.
type vertex struct {
	position  [3]float32
	texCoords [2]float32
	tint      [4]float32
}

// synthesize expands every sprite into 4 vertices and 6 indices in submission
// order. Corner order is top-left, bottom-left, top-right, bottom-right; the
// quad is sized to the source rect with its local origin at (0, 0) and mapped
// through the sprite's transform. Texture coordinates stay in texel units; the
// shader divides by the texture size. Index values carry the global vertex
// base, so the index buffer addresses the shared vertex buffer directly.
func synthesize(sprites []Sprite) ([]vertex, []uint32) {
	vertices := make([]vertex, 0, len(sprites)*verticesPerSprite)
	indices := make([]uint32, 0, len(sprites)*indicesPerSprite)

	for _, s := range sprites {
		base := uint32(len(vertices))

		width := float32(s.Src.Width)
		height := float32(s.Src.Height)
		left := float32(s.Src.Left())
		top := float32(s.Src.Top())
		right := float32(s.Src.Right())
		bottom := float32(s.Src.Bottom())
		tint := s.Tint.normalized()

		x0, y0 := s.Transform.Apply(0, 0)
		x1, y1 := s.Transform.Apply(0, height)
		x2, y2 := s.Transform.Apply(width, 0)
		x3, y3 := s.Transform.Apply(width, height)

		vertices = append(vertices,
			vertex{position: [3]float32{x0, y0, 0}, texCoords: [2]float32{left, top}, tint: tint},
			vertex{position: [3]float32{x1, y1, 0}, texCoords: [2]float32{left, bottom}, tint: tint},
			vertex{position: [3]float32{x2, y2, 0}, texCoords: [2]float32{right, top}, tint: tint},
			vertex{position: [3]float32{x3, y3, 0}, texCoords: [2]float32{right, bottom}, tint: tint},
		)
		indices = append(indices,
			base+0, base+1, base+2,
			base+1, base+2, base+3,
		)
	}

	return vertices, indices
}
