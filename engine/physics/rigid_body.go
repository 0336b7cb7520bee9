package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RigidBodyConstructionInfo carries everything needed to build a RigidBody.
// A zero Mass makes the body static: it is never integrated and behaves as
// infinitely heavy in the solver.
type RigidBodyConstructionInfo struct {
	Mass           float32
	MotionState    MotionState
	Shape          Shape
	LocalInertia   mgl32.Vec3
	Friction       float32
	Restitution    float32
	LinearDamping  float32
	AngularDamping float32
}

// NewRigidBodyConstructionInfo fills in the default material and damping values.
//
// Parameters:
//   - mass: body mass (0 = static)
//   - motionState: the motion state the body reads from and writes to
//   - shape: the collision shape
//   - localInertia: principal moments of inertia, usually from Shape.CalculateLocalInertia
//
// Returns:
//   - RigidBodyConstructionInfo: the populated construction info
func NewRigidBodyConstructionInfo(mass float32, motionState MotionState, shape Shape, localInertia mgl32.Vec3) RigidBodyConstructionInfo {
	return RigidBodyConstructionInfo{
		Mass:           mass,
		MotionState:    motionState,
		Shape:          shape,
		LocalInertia:   localInertia,
		Friction:       0.5,
		Restitution:    0.0,
		LinearDamping:  0.01,
		AngularDamping: 0.05,
	}
}

// RigidBody is a simulated body. Bodies are created standalone and become
// owned by an Engine once registered with AddRigidBody.
type RigidBody struct {
	mass            float32
	invMass         float32
	localInertia    mgl32.Vec3
	invInertiaLocal mgl32.Vec3

	shape       Shape
	motionState MotionState

	transform       Transform
	linearVelocity  mgl32.Vec3
	angularVelocity mgl32.Vec3

	friction       float32
	restitution    float32
	linearDamping  float32
	angularDamping float32

	sleeping bool
	idleTime float32

	owner *engineImpl
}

// NewRigidBody creates a body from the construction info, seeding its
// transform from the motion state.
//
// Parameters:
//   - info: the construction parameters
//
// Returns:
//   - *RigidBody: the new, unregistered body
func NewRigidBody(info RigidBodyConstructionInfo) *RigidBody {
	if info.Shape == nil {
		panic("physics: NewRigidBody requires a non-nil Shape")
	}
	if info.MotionState == nil {
		info.MotionState = NewDefaultMotionState(IdentityTransform())
	}
	b := &RigidBody{
		mass:           info.Mass,
		localInertia:   info.LocalInertia,
		shape:          info.Shape,
		motionState:    info.MotionState,
		transform:      info.MotionState.WorldTransform(),
		friction:       info.Friction,
		restitution:    info.Restitution,
		linearDamping:  info.LinearDamping,
		angularDamping: info.AngularDamping,
	}
	b.transform.Rotation = normalizeQuat(b.transform.Rotation)
	if info.Mass > 0 {
		b.invMass = 1 / info.Mass
		for i := 0; i < 3; i++ {
			if info.LocalInertia[i] > 0 {
				b.invInertiaLocal[i] = 1 / info.LocalInertia[i]
			}
		}
	}
	return b
}

// Mass returns the body mass. Zero means static.
func (b *RigidBody) Mass() float32 {
	return b.mass
}

// InvMass returns the inverse mass (zero for static bodies).
func (b *RigidBody) InvMass() float32 {
	return b.invMass
}

// LocalInertia returns the principal moments of inertia.
func (b *RigidBody) LocalInertia() mgl32.Vec3 {
	return b.localInertia
}

// IsStatic reports whether the body has zero mass.
func (b *RigidBody) IsStatic() bool {
	return b.invMass == 0
}

// Shape returns the collision shape, or nil after the owning engine has been closed.
func (b *RigidBody) Shape() Shape {
	return b.shape
}

// MotionState returns the attached motion state, or nil after the owning engine has been closed.
func (b *RigidBody) MotionState() MotionState {
	return b.motionState
}

// Registered reports whether the body is currently owned by an engine.
func (b *RigidBody) Registered() bool {
	return b.owner != nil
}

// WorldTransform returns the simulated placement of the body.
func (b *RigidBody) WorldTransform() Transform {
	return b.transform
}

// SetWorldTransform teleports the body and pushes the placement to its motion state.
func (b *RigidBody) SetWorldTransform(t Transform) {
	t.Rotation = normalizeQuat(t.Rotation)
	b.transform = t
	if b.motionState != nil {
		b.motionState.SetWorldTransform(t)
	}
	b.Activate()
}

func (b *RigidBody) LinearVelocity() mgl32.Vec3 {
	return b.linearVelocity
}

func (b *RigidBody) SetLinearVelocity(v mgl32.Vec3) {
	if b.IsStatic() {
		return
	}
	b.linearVelocity = v
	b.Activate()
}

func (b *RigidBody) AngularVelocity() mgl32.Vec3 {
	return b.angularVelocity
}

func (b *RigidBody) SetAngularVelocity(w mgl32.Vec3) {
	if b.IsStatic() {
		return
	}
	b.angularVelocity = w
	b.Activate()
}

func (b *RigidBody) Friction() float32 {
	return b.friction
}

func (b *RigidBody) Restitution() float32 {
	return b.restitution
}

// ApplyCentralImpulse changes the linear velocity by impulse / mass.
func (b *RigidBody) ApplyCentralImpulse(impulse mgl32.Vec3) {
	if b.IsStatic() {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.Activate()
}

// ApplyImpulse applies an impulse at a point relative to the body center.
func (b *RigidBody) ApplyImpulse(impulse, relPos mgl32.Vec3) {
	if b.IsStatic() {
		return
	}
	b.applyImpulse(impulse, relPos)
	b.Activate()
}

// IsSleeping reports whether the body has come to rest and is skipped by integration.
func (b *RigidBody) IsSleeping() bool {
	return b.sleeping
}

// Activate wakes a sleeping body.
func (b *RigidBody) Activate() {
	b.sleeping = false
	b.idleTime = 0
}

func (b *RigidBody) applyImpulse(impulse, relPos mgl32.Vec3) {
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.angularVelocity = b.angularVelocity.Add(b.invInertiaWorld().Mul3x1(relPos.Cross(impulse)))
}

// invInertiaWorld returns R * diag(1/I) * R^T.
func (b *RigidBody) invInertiaWorld() mgl32.Mat3 {
	if b.invMass == 0 {
		return mgl32.Mat3{}
	}
	r := b.transform.Basis()
	return r.Mul3(mgl32.Diag3(b.invInertiaLocal)).Mul3(r.Transpose())
}

// velocityAt returns the velocity of the material point at relPos from the center.
func (b *RigidBody) velocityAt(relPos mgl32.Vec3) mgl32.Vec3 {
	return b.linearVelocity.Add(b.angularVelocity.Cross(relPos))
}

func (b *RigidBody) integrateVelocities(gravity mgl32.Vec3, dt float32) {
	b.linearVelocity = b.linearVelocity.Add(gravity.Mul(dt))
	b.linearVelocity = b.linearVelocity.Mul(dampingFactor(b.linearDamping, dt))
	b.angularVelocity = b.angularVelocity.Mul(dampingFactor(b.angularDamping, dt))
}

func (b *RigidBody) integratePositions(dt float32) {
	b.transform.Origin = b.transform.Origin.Add(b.linearVelocity.Mul(dt))
	if b.angularVelocity.LenSqr() > 0 {
		spin := mgl32.Quat{W: 0, V: b.angularVelocity.Mul(0.5 * dt)}
		b.transform.Rotation = normalizeQuat(b.transform.Rotation.Add(spin.Mul(b.transform.Rotation)))
	}
}

// updateIdle accumulates the time the body has spent below threshold. A zero
// threshold never accumulates, which disables sleeping.
func (b *RigidBody) updateIdle(threshold, dt float32) {
	if b.linearVelocity.Len() < threshold && b.angularVelocity.Len() < threshold {
		b.idleTime += dt
		return
	}
	b.idleTime = 0
}

func (b *RigidBody) sleep() {
	b.sleeping = true
	b.linearVelocity = mgl32.Vec3{}
	b.angularVelocity = mgl32.Vec3{}
}

// moving reports whether the body is awake and was above the sleep threshold last step.
func (b *RigidBody) moving() bool {
	return active(b) && b.idleTime == 0
}

// detach drops the references the engine handed out when the body was registered.
func (b *RigidBody) detach() {
	b.owner = nil
	b.shape = nil
	b.motionState = nil
}

func dampingFactor(damping, dt float32) float32 {
	return float32(math.Pow(float64(1-damping), float64(dt)))
}

func normalizeQuat(q mgl32.Quat) mgl32.Quat {
	if q.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}
