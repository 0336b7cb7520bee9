package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	mv := mgl32.Scale3D(2, 1, 1)
	n := NormalMatrix(mv)

	// A plane tilted 45 degrees in XY keeps a normal perpendicular to its scaled surface.
	tangent := mv.Mat3().Mul3x1(mgl32.Vec3{1, -1, 0})
	normal := n.Mul3x1(mgl32.Vec3{1, 1, 0})
	assert.InDelta(t, 0, tangent.Dot(normal), 1e-5)
}

func TestNormalMatrixSingularFallsBack(t *testing.T) {
	mv := mgl32.Scale3D(0, 1, 1)
	assert.Equal(t, mv.Mat3(), NormalMatrix(mv))
}

func TestRotationOnlyDropsTranslation(t *testing.T) {
	m := mgl32.Translate3D(4, 5, 6).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	r := RotationOnly(m)

	d := TransformDirection(r, mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, -1, d.X(), 1e-5)
	assert.InDelta(t, 0, d.Z(), 1e-5)
	assert.Equal(t, mgl32.Vec3{}, TransformPoint(r, mgl32.Vec3{}))
}

func TestModelMatrixAppliesRotationThenTranslation(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	m := ModelMatrix(mgl32.Vec3{1, 2, 3}, q)

	p := TransformPoint(m, mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 2, p.Z(), 1e-5)
}

func TestNormalizeQuat(t *testing.T) {
	assert.Equal(t, mgl32.QuatIdent(), NormalizeQuat(mgl32.Quat{}))
	q := NormalizeQuat(mgl32.Quat{W: 2})
	assert.InDelta(t, 1, q.Len(), 1e-6)
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, Flatten3([]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, []float32{1, 2, 3, 4}, Flatten2([]mgl32.Vec2{{1, 2}, {3, 4}}))
	assert.Equal(t, float32(1), Clamp(3, -1, 1))
	assert.Equal(t, float32(-1), Clamp(-3, -1, 1))
}
