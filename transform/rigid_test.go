package transform_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/transform_tree/transform"
)

const eps = 1e-9

func TestInverseRoundTrip(t *testing.T) {
	a := transform.New(
		mgl64.Vec3{1.5, -2, 0.25},
		mgl64.QuatRotate(1.1, mgl64.Vec3{1, 2, 3}.Normalize()))

	assert.True(t, a.Inv().Inv().ApproxEqual(a, eps))
	assert.True(t, a.Mul(a.Inv()).ApproxEqual(transform.Identity(), eps))
	assert.True(t, a.Inv().Mul(a).ApproxEqual(transform.Identity(), eps))
}

func TestApproxEqualAbsoluteTolerance(t *testing.T) {
	// composing a transform with its inverse leaves ~1e-16 rounding
	// residue on zero translation components; the comparison must
	// treat that as equal under any sane absolute epsilon
	residue := transform.FromTranslation(-2.3e-16, 0, 2.3e-16)
	assert.True(t, residue.ApproxEqual(transform.Identity(), eps))

	off := transform.FromTranslation(2*eps, 0, 0)
	assert.False(t, off.ApproxEqual(transform.Identity(), eps))
}

func TestComposeTranslations(t *testing.T) {
	a := transform.FromTranslation(1, 0, 0)
	b := transform.FromTranslation(0, 2, 0)

	c := a.Mul(b)
	assert.InDelta(t, 1, c.Translation.X(), eps)
	assert.InDelta(t, 2, c.Translation.Y(), eps)
	assert.InDelta(t, 0, c.Translation.Z(), eps)
}

func TestComposeRotatesTranslation(t *testing.T) {
	// a rotates 90 degrees around Z, so b's x offset lands on y
	a := transform.FromAxisAngle(math.Pi/2, mgl64.Vec3{0, 0, 1})
	b := transform.FromTranslation(1, 0, 0)

	c := a.Mul(b)
	assert.InDelta(t, 0, c.Translation.X(), eps)
	assert.InDelta(t, 1, c.Translation.Y(), eps)
}

func TestInterpolateEndpoints(t *testing.T) {
	a := transform.FromTranslation(1, 0, 0)
	b := transform.New(
		mgl64.Vec3{3, 4, 5},
		mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0}))

	assert.True(t, transform.Interpolate(a, b, 0).ApproxEqual(a, eps))
	assert.True(t, transform.Interpolate(a, b, 1).ApproxEqual(b, eps))
	// out of range clamps instead of extrapolating
	assert.True(t, transform.Interpolate(a, b, -3).ApproxEqual(a, eps))
	assert.True(t, transform.Interpolate(a, b, 7).ApproxEqual(b, eps))
}

func TestInterpolateMidpoint(t *testing.T) {
	a := transform.FromTranslation(1, 0, 0)
	b := transform.FromTranslation(3, 0, 0)
	b.Rotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})

	m := transform.Interpolate(a, b, 0.5)
	assert.InDelta(t, 2, m.Translation.X(), eps)

	want := transform.FromAxisAngle(math.Pi/4, mgl64.Vec3{0, 0, 1})
	assert.True(t, math.Abs(m.Rotation.Dot(want.Rotation)) > 1-eps,
		"midpoint rotation should be the half angle")
	assert.InDelta(t, 1, m.Rotation.Len(), eps, "interpolated rotation must stay unit length")
}

func TestInterpolateAntipodal(t *testing.T) {
	a := transform.Identity()
	b := transform.Identity()
	// same orientation as identity, opposite sign representation
	b.Rotation = b.Rotation.Scale(-1)

	for _, frac := range []float64{0.1, 0.5, 0.9} {
		m := transform.Interpolate(a, b, frac)
		assert.InDelta(t, 1, m.Rotation.Len(), eps)
		assert.True(t, math.Abs(m.Rotation.Dot(mgl64.QuatIdent())) > 1-1e-6,
			"shortest arc between antipodal representations is no rotation at all")
	}
}

func TestInterpolateKeepsUnitRotation(t *testing.T) {
	a := transform.FromAxisAngle(0.3, mgl64.Vec3{1, 0, 0})
	b := transform.FromAxisAngle(2.8, mgl64.Vec3{0, 1, 0})
	for frac := 0.0; frac <= 1.0; frac += 0.125 {
		m := transform.Interpolate(a, b, frac)
		assert.InDelta(t, 1, m.Rotation.Len(), 1e-7, "t=%v", frac)
	}
}

func TestTransformPose(t *testing.T) {
	// 90 degrees around Z plus a shift along X
	a := transform.New(
		mgl64.Vec3{1, 0, 0},
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	p := transform.IdentityPose()
	p.Position = mgl64.Vec3{1, 0, 0}

	out := a.TransformPose(p)
	assert.InDelta(t, 1, out.Position.X(), eps)
	assert.InDelta(t, 1, out.Position.Y(), eps)
	assert.InDelta(t, 0, out.Position.Z(), eps)
	assert.InDelta(t, 1, out.Orientation.Len(), eps)
}

func TestNewNormalizesRotation(t *testing.T) {
	q := mgl64.Quat{W: 2, V: mgl64.Vec3{0, 0, 0}}
	a := transform.New(mgl64.Vec3{}, q)
	require.InDelta(t, 1, a.Rotation.Len(), eps)

	// zero-magnitude rotation falls back to identity instead of NaN
	z := transform.New(mgl64.Vec3{1, 2, 3}, mgl64.Quat{})
	assert.True(t, z.Rotation.ApproxEqual(mgl64.QuatIdent()))
	out := z.TransformPose(transform.IdentityPose())
	assert.False(t, math.IsNaN(out.Position.X()))
}
