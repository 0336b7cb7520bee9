package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for floating point comparisons across the engine.
const Epsilon = 1e-5

// NormalMatrix returns the inverse-transpose of the upper 3x3 of a model-view matrix.
// Falls back to the plain upper 3x3 when the matrix is singular.
//
// Parameters:
//   - modelView: the model-view matrix
//
// Returns:
//   - mgl32.Mat3: the matrix that maps object-space normals to view space
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	m := modelView.Mat3()
	if math.Abs(float64(m.Det())) < Epsilon*Epsilon {
		return m
	}
	return m.Inv().Transpose()
}

// RotationOnly strips the translation column from a 4x4 transform.
// Used to move directions (not points) into view space.
//
// Parameters:
//   - m: the source transform
//
// Returns:
//   - mgl32.Mat4: m with its translation zeroed
func RotationOnly(m mgl32.Mat4) mgl32.Mat4 {
	m[12], m[13], m[14] = 0, 0, 0
	return m
}

// ModelMatrix builds translation * rotation for an entity transform.
//
// Parameters:
//   - position: world-space translation
//   - orientation: unit quaternion
//
// Returns:
//   - mgl32.Mat4: the model matrix
func ModelMatrix(position mgl32.Vec3, orientation mgl32.Quat) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).Mul4(orientation.Mat4())
}

// TransformPoint applies a 4x4 transform to a point (w = 1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies a 4x4 transform to a direction (w = 0).
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// NormalizeQuat returns q normalized, or the identity when q has zero length.
func NormalizeQuat(q mgl32.Quat) mgl32.Quat {
	if q.Len() < Epsilon {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Flatten3 packs a slice of vectors into a tightly packed float slice for buffer uploads.
func Flatten3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Flatten2 packs a slice of 2D vectors into a tightly packed float slice.
func Flatten2(vs []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		out = append(out, v[0], v[1])
	}
	return out
}
