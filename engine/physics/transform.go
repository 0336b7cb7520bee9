package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid placement: a translation and a unit quaternion rotation.
type Transform struct {
	Origin   mgl32.Vec3
	Rotation mgl32.Quat
}

// IdentityTransform returns the transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Basis returns the 3x3 rotation matrix of the transform.
func (t Transform) Basis() mgl32.Mat3 {
	return t.Rotation.Mat4().Mat3()
}

// Matrix returns the 4x4 homogeneous matrix of the transform.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Origin.X(), t.Origin.Y(), t.Origin.Z()).Mul4(t.Rotation.Mat4())
}

// Apply maps a local-space point into world space.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return t.Origin.Add(t.Rotation.Rotate(p))
}

// MotionState is the bridge between a simulated body and whatever mirrors its placement.
// The engine seeds a body from WorldTransform and writes back through SetWorldTransform
// after every StepSimulation call.
type MotionState interface {
	// WorldTransform returns the placement the body should start from.
	//
	// Returns:
	//   - Transform: the current world transform
	WorldTransform() Transform

	// SetWorldTransform receives the simulated placement of the body.
	//
	// Parameters:
	//   - t: the new world transform
	SetWorldTransform(t Transform)
}

// DefaultMotionState stores the last transform written by the engine.
type DefaultMotionState struct {
	transform Transform
}

var _ MotionState = &DefaultMotionState{}

// NewDefaultMotionState creates a motion state seeded with the given start transform.
//
// Parameters:
//   - start: the initial world transform
//
// Returns:
//   - *DefaultMotionState: the new motion state
func NewDefaultMotionState(start Transform) *DefaultMotionState {
	start.Rotation = normalizeQuat(start.Rotation)
	return &DefaultMotionState{transform: start}
}

func (m *DefaultMotionState) WorldTransform() Transform {
	return m.transform
}

func (m *DefaultMotionState) SetWorldTransform(t Transform) {
	m.transform = t
}
