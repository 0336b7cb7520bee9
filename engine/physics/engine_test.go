package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixedStep = 1.0 / 60.0

func newBody(t *testing.T, shape Shape, mass float32, origin mgl32.Vec3) *RigidBody {
	t.Helper()
	ms := NewDefaultMotionState(Transform{Origin: origin, Rotation: mgl32.QuatIdent()})
	info := NewRigidBodyConstructionInfo(mass, ms, shape, shape.CalculateLocalInertia(mass))
	return NewRigidBody(info)
}

func TestStaticBodiesNeverMove(t *testing.T) {
	e := NewEngine()
	ground := newBody(t, NewBoxShape(mgl32.Vec3{5, 0.5, 5}), 0, mgl32.Vec3{0, -0.5, 0})
	crate := newBody(t, NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}), 1, mgl32.Vec3{0.2, 3, 0})
	require.NoError(t, e.AddRigidBody(ground))
	require.NoError(t, e.AddRigidBody(crate))

	start := ground.WorldTransform()
	for i := 0; i < 240; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
		assert.Equal(t, start, ground.WorldTransform())
		assert.Equal(t, start, ground.MotionState().WorldTransform())
	}
	assert.Less(t, crate.WorldTransform().Origin.Y(), float32(3))
}

func TestFreeFallDecreasesMonotonically(t *testing.T) {
	e := NewEngine()
	ball := newBody(t, NewSphereShape(0.5), 1, mgl32.Vec3{0, 10, 0})
	require.NoError(t, e.AddRigidBody(ball))

	prev := ball.MotionState().WorldTransform().Origin.Y()
	for i := 0; i < 60; i++ {
		require.Equal(t, 1, e.StepSimulation(fixedStep, 1, fixedStep))
		y := ball.MotionState().WorldTransform().Origin.Y()
		assert.Less(t, y, prev, "step %d", i)
		prev = y
	}
}

func TestStepSimulationBoundsSubSteps(t *testing.T) {
	clamped := NewEngine()
	reference := NewEngine()
	a := newBody(t, NewSphereShape(0.5), 1, mgl32.Vec3{0, 10, 0})
	b := newBody(t, NewSphereShape(0.5), 1, mgl32.Vec3{0, 10, 0})
	require.NoError(t, clamped.AddRigidBody(a))
	require.NoError(t, reference.AddRigidBody(b))

	assert.Equal(t, 60, clamped.StepSimulation(1.0, 3, fixedStep))
	for i := 0; i < 3; i++ {
		reference.StepSimulation(fixedStep, 1, fixedStep)
	}
	assert.Equal(t, b.WorldTransform(), a.WorldTransform())
}

func TestStepSimulationAccumulatesPartialSteps(t *testing.T) {
	e := NewEngine()
	ball := newBody(t, NewSphereShape(0.5), 1, mgl32.Vec3{0, 10, 0})
	require.NoError(t, e.AddRigidBody(ball))

	assert.Equal(t, 0, e.StepSimulation(fixedStep/2, 1, fixedStep))
	assert.Equal(t, float32(10), ball.WorldTransform().Origin.Y())
	assert.Equal(t, 1, e.StepSimulation(fixedStep/2+1e-9, 1, fixedStep))
	assert.Less(t, ball.WorldTransform().Origin.Y(), float32(10))
}

func TestStepSimulationVariableStep(t *testing.T) {
	e := NewEngine()
	ball := newBody(t, NewSphereShape(0.5), 1, mgl32.Vec3{0, 10, 0})
	require.NoError(t, e.AddRigidBody(ball))

	assert.Equal(t, 1, e.StepSimulation(0.1, 0, fixedStep))
	assert.Less(t, ball.WorldTransform().Origin.Y(), float32(10))
	assert.Equal(t, 0, e.StepSimulation(0, 0, fixedStep))
}

func TestBoxComesToRestOnPlane(t *testing.T) {
	e := NewEngine()
	floor := newBody(t, NewStaticPlaneShape(mgl32.Vec3{0, 1, 0}, 0), 0, mgl32.Vec3{})
	crate := newBody(t, NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}), 2, mgl32.Vec3{0, 2, 0})
	require.NoError(t, e.AddRigidBody(floor))
	require.NoError(t, e.AddRigidBody(crate))

	for i := 0; i < 240; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
	}
	assert.InDelta(t, 0.5, crate.WorldTransform().Origin.Y(), 0.05)
	assert.InDelta(t, 0, crate.LinearVelocity().Len(), 0.1)
}

func TestSpheresSeparate(t *testing.T) {
	e := NewEngine(WithGravity(mgl32.Vec3{}))
	a := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{-0.9, 0, 0})
	b := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{0.9, 0, 0})
	require.NoError(t, e.AddRigidBody(a))
	require.NoError(t, e.AddRigidBody(b))

	for i := 0; i < 30; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
	}
	gap := b.WorldTransform().Origin.Sub(a.WorldTransform().Origin).Len()
	assert.GreaterOrEqual(t, gap, float32(1.9))
}

func TestAddRigidBodyRejectsDuplicates(t *testing.T) {
	e1 := NewEngine()
	e2 := NewEngine()
	body := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{})

	require.NoError(t, e1.AddRigidBody(body))
	assert.ErrorIs(t, e1.AddRigidBody(body), ErrBodyRegistered)
	assert.ErrorIs(t, e2.AddRigidBody(body), ErrBodyRegistered)
	assert.ErrorIs(t, e2.RemoveRigidBody(body), ErrBodyNotRegistered)

	require.NoError(t, e1.RemoveRigidBody(body))
	assert.Equal(t, 0, e1.NumRigidBodies())
	assert.NoError(t, e2.AddRigidBody(body))
}

func TestCloseReleasesBodiesOnce(t *testing.T) {
	e := NewEngine()
	bodies := []*RigidBody{
		newBody(t, NewStaticPlaneShape(mgl32.Vec3{0, 1, 0}, 0), 0, mgl32.Vec3{}),
		newBody(t, NewBoxShape(mgl32.Vec3{1, 1, 1}), 1, mgl32.Vec3{0, 3, 0}),
		newBody(t, NewSphereShape(1), 1, mgl32.Vec3{0, 6, 0}),
	}
	for _, b := range bodies {
		require.NoError(t, e.AddRigidBody(b))
	}

	assert.Equal(t, 3, e.Close())
	for _, b := range bodies {
		assert.False(t, b.Registered())
		assert.Nil(t, b.Shape())
		assert.Nil(t, b.MotionState())
	}
	assert.Equal(t, 0, e.Close())
	assert.Equal(t, 0, e.NumRigidBodies())
	assert.ErrorIs(t, e.AddRigidBody(bodies[0]), ErrEngineClosed)
	assert.Equal(t, 0, e.StepSimulation(fixedStep, 1, fixedStep))
}

func TestSetGravityWakesBodies(t *testing.T) {
	e := NewEngine(WithGravity(mgl32.Vec3{}), WithSleeping(0.05, 0.1))
	ball := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{0, 5, 0})
	require.NoError(t, e.AddRigidBody(ball))

	for i := 0; i < 20; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
	}
	require.True(t, ball.IsSleeping())

	e.SetGravity(mgl32.Vec3{0, -9.81, 0})
	assert.False(t, ball.IsSleeping())
	e.StepSimulation(fixedStep, 1, fixedStep)
	assert.Less(t, ball.WorldTransform().Origin.Y(), float32(5))
}

func TestRestingStackSleepsAsOne(t *testing.T) {
	e := NewEngine()
	floor := newBody(t, NewStaticPlaneShape(mgl32.Vec3{0, 1, 0}, 0), 0, mgl32.Vec3{})
	bottom := newBody(t, NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}), 1, mgl32.Vec3{0, 0.5, 0})
	top := newBody(t, NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}), 1, mgl32.Vec3{0, 1.5, 0})
	for _, b := range []*RigidBody{floor, bottom, top} {
		require.NoError(t, e.AddRigidBody(b))
	}

	for i := 0; i < 240; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
	}
	require.True(t, bottom.IsSleeping())
	require.True(t, top.IsSleeping())
	assert.InDelta(t, 1.5, top.WorldTransform().Origin.Y(), 0.05)

	rest := top.WorldTransform()
	for i := 0; i < 60; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
	}
	assert.Equal(t, rest, top.WorldTransform())

	// a falling crate wakes the stack it lands on
	crate := newBody(t, NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}), 1, mgl32.Vec3{0, 4, 0})
	require.NoError(t, e.AddRigidBody(crate))
	woke := false
	for i := 0; i < 90 && !woke; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
		woke = !top.IsSleeping()
	}
	assert.True(t, woke)
}

func TestSleepingDisabled(t *testing.T) {
	e := NewEngine(WithGravity(mgl32.Vec3{}), WithSleeping(0, 0))
	ball := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{})
	require.NoError(t, e.AddRigidBody(ball))
	for i := 0; i < 120; i++ {
		e.StepSimulation(fixedStep, 1, fixedStep)
	}
	assert.False(t, ball.IsSleeping())
}

func TestIslandsUnion(t *testing.T) {
	a := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{})
	b := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{})
	c := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{})
	d := newBody(t, NewSphereShape(1), 1, mgl32.Vec3{})

	is := newIslands()
	assert.Same(t, a, is.find(a))
	is.union(a, b)
	is.union(c, b)
	assert.Same(t, is.find(a), is.find(c))
	assert.NotSame(t, is.find(a), is.find(d))
}
