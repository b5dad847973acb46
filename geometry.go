package spright

// Rect is an axis-aligned rectangle with an integer top-left corner and an unsigned size,
// typically addressing a region of a texture in pixel space.
type Rect struct {
	// X is the x coordinate of the top-left corner.
	X int32
	// Y is the y coordinate of the top-left corner.
	Y int32
	// Width is the horizontal extent in pixels.
	Width uint32
	// Height is the vertical extent in pixels.
	Height uint32
}

// NewRect creates a Rect from a top-left corner and a size.
//
// Parameters:
//   - x, y: the top-left corner
//   - width, height: the size in pixels
//
// Returns:
//   - Rect: the rectangle
func NewRect(x, y int32, width, height uint32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() int32 {
	return r.X
}

// Top returns the y coordinate of the top edge.
func (r Rect) Top() int32 {
	return r.Y
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int32 {
	return r.X + int32(r.Width)
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int32 {
	return r.Y + int32(r.Height)
}

// Color is an 8-bit-per-channel RGBA color. Channels are normalized to [0, 1]
// floats when vertices are synthesized.
type Color struct {
	R, G, B, A uint8
}

// RGBA creates a Color from four 8-bit channels.
//
// Parameters:
//   - r, g, b, a: the red, green, blue, and alpha channels
//
// Returns:
//   - Color: the color
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// White is fully opaque white, the neutral tint.
var White = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// normalized returns the color's channels as floats in [0, 1].
func (c Color) normalized() [4]float32 {
	return [4]float32{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
		float32(c.A) / 255.0,
	}
}
