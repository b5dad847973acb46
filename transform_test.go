package spright

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const transformTol = 1e-5

func assertApply(t *testing.T, tr AffineTransform, x, y, wantX, wantY float32) {
	t.Helper()
	gotX, gotY := tr.Apply(x, y)
	assert.InDelta(t, wantX, gotX, transformTol)
	assert.InDelta(t, wantY, gotY, transformTol)
}

func TestIdentity(t *testing.T) {
	assertApply(t, Identity(), 3, -4, 3, -4)
}

func TestTranslation(t *testing.T) {
	assertApply(t, Translation(10, -5), 1, 2, 11, -3)
}

func TestScaling(t *testing.T) {
	assertApply(t, Scaling(2, 3), 4, 5, 8, 15)
}

func TestRotation(t *testing.T) {
	quarter := float32(math.Pi / 2)

	// With y pointing down a positive angle turns clockwise on screen:
	// +x rotates onto +y.
	assertApply(t, Rotation(quarter), 1, 0, 0, 1)
	assertApply(t, Rotation(quarter), 0, 1, -1, 0)
	assertApply(t, Rotation(-quarter), 1, 0, 0, -1)
	assertApply(t, Rotation(2*quarter), 1, 0, -1, 0)
}

func TestMulAppliesRightHandSideFirst(t *testing.T) {
	scale := Scaling(2, 2)
	translate := Translation(10, 0)

	// Scale then translate: (1, 1) -> (2, 2) -> (12, 2).
	assertApply(t, translate.Mul(scale), 1, 1, 12, 2)
	// Translate then scale: (1, 1) -> (11, 1) -> (22, 2).
	assertApply(t, scale.Mul(translate), 1, 1, 22, 2)
}

func TestMulMatchesSequentialApply(t *testing.T) {
	a := Translation(3, -2).Mul(Rotation(0.7))
	b := Scaling(1.5, 0.5).Mul(Translation(-1, 4))

	x, y := float32(2.5), float32(-3.25)
	ux, uy := b.Apply(x, y)
	wantX, wantY := a.Apply(ux, uy)
	gotX, gotY := a.Mul(b).Apply(x, y)

	assert.InDelta(t, wantX, gotX, transformTol)
	assert.InDelta(t, wantY, gotY, transformTol)
}
