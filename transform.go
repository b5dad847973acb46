package spright

import "math"

// AffineTransform is a 2D affine transform, stored as the top two rows of a
// 3x3 matrix:
//
//	| XX  XY  TX |
//	| YX  YY  TY |
//	|  0   0   1 |
//
// A point (x, y) maps to (XX*x + XY*y + TX, YX*x + YY*y + TY).
type AffineTransform struct {
	XX, XY, TX float32
	YX, YY, TY float32
}

// Identity returns the identity transform, which leaves points unchanged.
//
// Returns:
//   - AffineTransform: the identity transform
func Identity() AffineTransform {
	return AffineTransform{
		XX: 1, XY: 0, TX: 0,
		YX: 0, YY: 1, TY: 0,
	}
}

// Translation returns a transform that moves points by (x, y).
//
// Parameters:
//   - x, y: the translation offsets
//
// Returns:
//   - AffineTransform: the translation transform
func Translation(x, y float32) AffineTransform {
	return AffineTransform{
		XX: 1, XY: 0, TX: x,
		YX: 0, YY: 1, TY: y,
	}
}

// Scaling returns a transform that scales points by (x, y) about the origin.
//
// Parameters:
//   - x, y: the scale factors along each axis
//
// Returns:
//   - AffineTransform: the scaling transform
func Scaling(x, y float32) AffineTransform {
	return AffineTransform{
		XX: x, XY: 0, TX: 0,
		YX: 0, YY: y, TY: 0,
	}
}

// Rotation returns a transform that rotates points about the origin.
// With y pointing down (the usual sprite coordinate convention) a positive
// angle rotates clockwise.
//
// Parameters:
//   - angle: the rotation angle in radians
//
// Returns:
//   - AffineTransform: the rotation transform
func Rotation(angle float32) AffineTransform {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return AffineTransform{
		XX: c, XY: -s, TX: 0,
		YX: s, YY: c, TY: 0,
	}
}

// Mul composes two transforms. The result applies u first, then t:
// t.Mul(u).Apply(p) == t.Apply(u.Apply(p)).
//
// Parameters:
//   - u: the transform applied first
//
// Returns:
//   - AffineTransform: the composed transform
func (t AffineTransform) Mul(u AffineTransform) AffineTransform {
	return AffineTransform{
		XX: t.XX*u.XX + t.XY*u.YX,
		XY: t.XX*u.XY + t.XY*u.YY,
		TX: t.XX*u.TX + t.XY*u.TY + t.TX,
		YX: t.YX*u.XX + t.YY*u.YX,
		YY: t.YX*u.XY + t.YY*u.YY,
		TY: t.YX*u.TX + t.YY*u.TY + t.TY,
	}
}

// Apply transforms the point (x, y).
//
// Parameters:
//   - x, y: the point to transform
//
// Returns:
//   - float32: the transformed x coordinate
//   - float32: the transformed y coordinate
func (t AffineTransform) Apply(x, y float32) (float32, float32) {
	return t.XX*x + t.XY*y + t.TX, t.YX*x + t.YY*y + t.TY
}
