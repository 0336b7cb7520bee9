package object

import (
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind tags the builder an Object came from.
type Kind int

const (
	KindBox Kind = iota
	KindPlane
	KindMesh
	KindMirror
	KindLightBulb
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindPlane:
		return "plane"
	case KindMesh:
		return "mesh"
	case KindMirror:
		return "mirror"
	case KindLightBulb:
		return "light_bulb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GPUHandle identifies the GPU resources a Drawer created for an Object.
// Owner is the Drawer's ID (never 0) and Index its slot in that Drawer's arena.
type GPUHandle struct {
	Owner uint64
	Index int
}

var nextID atomic.Uint64

// Object is a drawable, simulated scene entity. Objects are created by the
// builders in this package and released by the World that holds them.
type Object struct {
	Entity

	id       uint64
	name     string
	kind     Kind
	geometry Geometry
	material material.Material
	emissive mgl32.Vec4

	mass    float32
	inertia mgl32.Vec3
	shape   physics.Shape
	body    *physics.RigidBody

	gpu      GPUHandle
	released bool
}

func newObject(kind Kind, name string) *Object {
	return &Object{
		id:   nextID.Add(1),
		name: name,
		kind: kind,
	}
}

// ID returns the process-unique, monotonically increasing object ID.
func (o *Object) ID() uint64 {
	return o.id
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) Kind() Kind {
	return o.kind
}

// Geometry returns the mesh data. Callers must not modify the slices.
func (o *Object) Geometry() Geometry {
	return o.geometry
}

func (o *Object) Material() material.Material {
	return o.material
}

// Emissive returns the self-illumination color used by light bulbs.
func (o *Object) Emissive() mgl32.Vec4 {
	return o.emissive
}

func (o *Object) Mass() float32 {
	return o.mass
}

func (o *Object) Inertia() mgl32.Vec3 {
	return o.inertia
}

func (o *Object) Shape() physics.Shape {
	return o.shape
}

// Body returns the rigid body. The physics Engine the body is registered with owns it.
func (o *Object) Body() *physics.RigidBody {
	return o.body
}

func (o *Object) IsStatic() bool {
	return o.mass == 0
}

// SetTransform moves the object and teleports its rigid body with it.
func (o *Object) SetTransform(t Transform) {
	o.Entity.SetTransform(t)
	if o.body != nil {
		o.body.SetWorldTransform(o.transform.physics())
	}
}

// ModelMatrix returns the object-to-world matrix.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	return o.transform.Matrix()
}

// SyncFromBody copies the motion state's transform into the entity.
// It reports false when the object has no live body.
func (o *Object) SyncFromBody() bool {
	if o.body == nil {
		return false
	}
	ms := o.body.MotionState()
	if ms == nil {
		return false
	}
	o.transform = fromPhysics(ms.WorldTransform())
	return true
}

// TriangleCount returns the number of indexed triangles.
func (o *Object) TriangleCount() int {
	return len(o.geometry.Indices) / 3
}

// GPUHandle returns the handle set by a Drawer and whether one is set.
func (o *Object) GPUHandle() (GPUHandle, bool) {
	return o.gpu, o.gpu.Owner != 0
}

// SetGPUHandle records the Drawer resources for this object. The zero handle clears it.
func (o *Object) SetGPUHandle(h GPUHandle) {
	o.gpu = h
}

// Released reports whether Release has been called.
func (o *Object) Released() bool {
	return o.released
}

// Release drops the object's references to its body and GPU handle.
// It returns false if the object was already released.
func (o *Object) Release() bool {
	if o.released {
		return false
	}
	common.LogDebug("releasing %s %q (id %d)", o.kind, o.name, o.id)
	o.released = true
	o.body = nil
	o.shape = nil
	o.gpu = GPUHandle{}
	return true
}

func (o *Object) String() string {
	return fmt.Sprintf("%s %q", o.kind, o.name)
}
