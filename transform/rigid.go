package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// quaternion shorter than this cannot be normalized reliably
const minRotationLen = 1e-9

// Rigid is a rigid motion: rotate, then translate. Values are
// immutable, algebra operations always return a new Rigid.
type Rigid struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// Pose is the public query payload: a position and an orientation
// expressed in some frame. Kept separate from Rigid so the algebra
// type stays internal to transform math.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

func Identity() Rigid {
	return Rigid{Rotation: mgl64.QuatIdent()}
}

func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// New builds a Rigid from a translation and rotation. The rotation is
// normalized; a zero-magnitude (or NaN) rotation is replaced with the
// identity rotation instead of poisoning every later query.
func New(translation mgl64.Vec3, rotation mgl64.Quat) Rigid {
	return Rigid{
		Translation: translation,
		Rotation:    sanitizeQuat(rotation),
	}
}

func FromTranslation(x, y, z float64) Rigid {
	return Rigid{
		Translation: mgl64.Vec3{x, y, z},
		Rotation:    mgl64.QuatIdent(),
	}
}

func FromAxisAngle(angle float64, axis mgl64.Vec3) Rigid {
	return Rigid{Rotation: mgl64.QuatRotate(angle, axis).Normalize()}
}

// Mul composes two rigid motions: (a.Mul(b)) means apply b first,
// then a. The combined rotation is renormalized to counter drift.
func (a Rigid) Mul(b Rigid) Rigid {
	return Rigid{
		Translation: a.Translation.Add(a.Rotation.Rotate(b.Translation)),
		Rotation:    a.Rotation.Mul(b.Rotation).Normalize(),
	}
}

// Inv returns the exact algebraic inverse, so a.Mul(a.Inv()) is the
// identity motion up to floating point error.
func (a Rigid) Inv() Rigid {
	ir := a.Rotation.Conjugate().Normalize()
	return Rigid{
		Translation: ir.Rotate(a.Translation).Mul(-1),
		Rotation:    ir,
	}
}

// Interpolate blends two rigid motions: linear on translation,
// spherical on rotation. t is clamped to [0, 1]. Antipodal quaternion
// pairs are sign-corrected first so the rotation always takes the
// shortest arc.
func Interpolate(a, b Rigid, t float64) Rigid {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	br := b.Rotation
	if a.Rotation.Dot(br) < 0 {
		br = br.Scale(-1)
	}
	return Rigid{
		Translation: a.Translation.Mul(1 - t).Add(b.Translation.Mul(t)),
		Rotation:    mgl64.QuatSlerp(a.Rotation, br, t).Normalize(),
	}
}

// TransformPose expresses p, given in the source frame of a, in the
// destination frame of a.
func (a Rigid) TransformPose(p Pose) Pose {
	return Pose{
		Position:    a.Translation.Add(a.Rotation.Rotate(p.Position)),
		Orientation: a.Rotation.Mul(p.Orientation).Normalize(),
	}
}

// ApproxEqual compares two rigid motions under an absolute tolerance:
// translation by euclidean distance, rotation by quaternion dot with
// q and -q treated as the same orientation.
func (a Rigid) ApproxEqual(b Rigid, epsilon float64) bool {
	if a.Translation.Sub(b.Translation).Len() > epsilon {
		return false
	}
	return math.Abs(a.Rotation.Dot(b.Rotation)) > 1-epsilon
}

func sanitizeQuat(q mgl64.Quat) mgl64.Quat {
	l := q.Len()
	if math.IsNaN(l) || l < minRotationLen {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
