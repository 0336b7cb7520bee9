package object

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an entity in world space. Orientation is always a unit quaternion.
type Transform struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityTransform returns the transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Orientation: mgl32.QuatIdent()}
}

// Matrix returns translation * rotation.
func (t Transform) Matrix() mgl32.Mat4 {
	return common.ModelMatrix(t.Position, t.Orientation)
}

func (t Transform) physics() physics.Transform {
	return physics.Transform{Origin: t.Position, Rotation: t.Orientation}
}

func fromPhysics(t physics.Transform) Transform {
	return Transform{Position: t.Origin, Orientation: common.NormalizeQuat(t.Rotation)}
}

// Entity is anything with a world transform.
type Entity struct {
	transform Transform
}

// Transform returns the current world transform.
func (e *Entity) Transform() Transform {
	return e.transform
}

// SetTransform replaces the world transform, normalizing the orientation.
func (e *Entity) SetTransform(t Transform) {
	t.Orientation = common.NormalizeQuat(t.Orientation)
	e.transform = t
}

// Position returns the world position.
func (e *Entity) Position() mgl32.Vec3 {
	return e.transform.Position
}

// Orientation returns the world orientation.
func (e *Entity) Orientation() mgl32.Quat {
	return e.transform.Orientation
}
