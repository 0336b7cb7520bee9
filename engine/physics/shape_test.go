package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBoxInertia(t *testing.T) {
	box := NewBoxShape(mgl32.Vec3{1, 2, 3})
	i := box.CalculateLocalInertia(3)
	assert.InDelta(t, 13, i.X(), 1e-5)
	assert.InDelta(t, 10, i.Y(), 1e-5)
	assert.InDelta(t, 5, i.Z(), 1e-5)
	assert.Equal(t, mgl32.Vec3{}, box.CalculateLocalInertia(0))
}

func TestSphereInertia(t *testing.T) {
	i := NewSphereShape(2).CalculateLocalInertia(5)
	assert.InDelta(t, 8, i.X(), 1e-5)
	assert.Equal(t, i.X(), i.Z())
}

func TestBoxAABBRotated(t *testing.T) {
	box := NewBoxShape(mgl32.Vec3{1, 1, 1})
	tr := Transform{
		Origin:   mgl32.Vec3{0, 2, 0},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0}),
	}
	lo, hi := box.AABB(tr)
	assert.InDelta(t, -1.41421, lo.X(), 1e-4)
	assert.InDelta(t, 1.41421, hi.Z(), 1e-4)
	assert.InDelta(t, 1, lo.Y(), 1e-5)
	assert.InDelta(t, 3, hi.Y(), 1e-5)
}

func TestStaticPlaneWorld(t *testing.T) {
	p := NewStaticPlaneShape(mgl32.Vec3{0, 2, 0}, 1)
	n, k := p.world(Transform{Origin: mgl32.Vec3{0, 3, 0}, Rotation: mgl32.QuatIdent()})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, n)
	assert.InDelta(t, 4, k, 1e-6)
	assert.Equal(t, mgl32.Vec3{}, p.CalculateLocalInertia(10))
}

func TestNewRigidBodyStatic(t *testing.T) {
	b := NewRigidBody(NewRigidBodyConstructionInfo(0, nil, NewSphereShape(1), mgl32.Vec3{}))
	assert.True(t, b.IsStatic())
	assert.Equal(t, float32(0), b.InvMass())
	b.ApplyCentralImpulse(mgl32.Vec3{10, 0, 0})
	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity())
	assert.Equal(t, IdentityTransform(), b.WorldTransform())
}

func TestNewRigidBodyRequiresShape(t *testing.T) {
	assert.Panics(t, func() {
		NewRigidBody(RigidBodyConstructionInfo{Mass: 1})
	})
}
