package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind identifies a collision shape. The ordering is used by the
// dispatcher to pick a canonical pair ordering.
type ShapeKind int

const (
	// ShapeBox is an oriented box described by its half extents.
	ShapeBox ShapeKind = iota

	// ShapeSphere is a sphere described by its radius.
	ShapeSphere

	// ShapeStaticPlane is an infinite plane n·x = d. Only valid on static bodies.
	ShapeStaticPlane
)

// planeExtent bounds the AABB of an infinite plane.
const planeExtent = 1e30

// Shape is a collision shape attached to a rigid body.
type Shape interface {
	// Kind returns the shape discriminator.
	//
	// Returns:
	//   - ShapeKind: the kind of this shape
	Kind() ShapeKind

	// CalculateLocalInertia returns the diagonal of the local inertia tensor for the given mass.
	// A zero mass yields a zero vector.
	//
	// Parameters:
	//   - mass: the body mass
	//
	// Returns:
	//   - mgl32.Vec3: principal moments of inertia
	CalculateLocalInertia(mass float32) mgl32.Vec3

	// AABB returns the world-space axis aligned bounds of the shape under t.
	//
	// Parameters:
	//   - t: the world transform of the owning body
	//
	// Returns:
	//   - min, max: the bounds corners
	AABB(t Transform) (min, max mgl32.Vec3)
}

// BoxShape is an oriented box centered on the body origin.
type BoxShape struct {
	HalfExtents mgl32.Vec3
}

// NewBoxShape creates a box shape from half extents.
func NewBoxShape(halfExtents mgl32.Vec3) *BoxShape {
	return &BoxShape{HalfExtents: halfExtents}
}

func (b *BoxShape) Kind() ShapeKind {
	return ShapeBox
}

func (b *BoxShape) CalculateLocalInertia(mass float32) mgl32.Vec3 {
	x2 := b.HalfExtents.X() * b.HalfExtents.X()
	y2 := b.HalfExtents.Y() * b.HalfExtents.Y()
	z2 := b.HalfExtents.Z() * b.HalfExtents.Z()
	return mgl32.Vec3{y2 + z2, x2 + z2, x2 + y2}.Mul(mass / 3)
}

func (b *BoxShape) AABB(t Transform) (mgl32.Vec3, mgl32.Vec3) {
	basis := t.Basis()
	var ext mgl32.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			ext[row] += absf(basis.At(row, col)) * b.HalfExtents[col]
		}
	}
	return t.Origin.Sub(ext), t.Origin.Add(ext)
}

// corners returns the 8 world-space corners of the box under t.
func (b *BoxShape) corners(t Transform) [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	h := b.HalfExtents
	for i := 0; i < 8; i++ {
		local := mgl32.Vec3{-h.X(), -h.Y(), -h.Z()}
		if i&1 != 0 {
			local[0] = h.X()
		}
		if i&2 != 0 {
			local[1] = h.Y()
		}
		if i&4 != 0 {
			local[2] = h.Z()
		}
		out[i] = t.Apply(local)
	}
	return out
}

// SphereShape is a sphere centered on the body origin.
type SphereShape struct {
	Radius float32
}

// NewSphereShape creates a sphere shape.
func NewSphereShape(radius float32) *SphereShape {
	return &SphereShape{Radius: radius}
}

func (s *SphereShape) Kind() ShapeKind {
	return ShapeSphere
}

func (s *SphereShape) CalculateLocalInertia(mass float32) mgl32.Vec3 {
	i := 0.4 * mass * s.Radius * s.Radius
	return mgl32.Vec3{i, i, i}
}

func (s *SphereShape) AABB(t Transform) (mgl32.Vec3, mgl32.Vec3) {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return t.Origin.Sub(r), t.Origin.Add(r)
}

// StaticPlaneShape is the infinite plane Normal·x = Constant in body space.
type StaticPlaneShape struct {
	Normal   mgl32.Vec3
	Constant float32
}

// NewStaticPlaneShape creates a plane shape. The normal is normalized.
func NewStaticPlaneShape(normal mgl32.Vec3, constant float32) *StaticPlaneShape {
	return &StaticPlaneShape{Normal: normal.Normalize(), Constant: constant}
}

func (p *StaticPlaneShape) Kind() ShapeKind {
	return ShapeStaticPlane
}

func (p *StaticPlaneShape) CalculateLocalInertia(mass float32) mgl32.Vec3 {
	return mgl32.Vec3{}
}

func (p *StaticPlaneShape) AABB(t Transform) (mgl32.Vec3, mgl32.Vec3) {
	return mgl32.Vec3{-planeExtent, -planeExtent, -planeExtent}, mgl32.Vec3{planeExtent, planeExtent, planeExtent}
}

// world returns the plane normal and constant in world space under t.
func (p *StaticPlaneShape) world(t Transform) (mgl32.Vec3, float32) {
	n := t.Rotation.Rotate(p.Normal)
	return n, p.Constant + n.Dot(t.Origin)
}

func absf(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
