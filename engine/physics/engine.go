package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrEngineClosed is returned when registering bodies with a closed engine.
	ErrEngineClosed = errors.New("physics: engine is closed")

	// ErrBodyRegistered is returned when a body is already owned by an engine.
	ErrBodyRegistered = errors.New("physics: rigid body already registered")

	// ErrBodyNotRegistered is returned when removing a body this engine does not own.
	ErrBodyNotRegistered = errors.New("physics: rigid body not registered with this engine")
)

// engineImpl is the implementation of the Engine interface.
type engineImpl struct {
	gravity mgl32.Vec3

	broadphase *sweepAndPrune
	dispatcher *collisionDispatcher
	solver     *sequentialImpulseSolver

	bodies    []*RigidBody
	localTime float64

	solverIterations int
	sleepThreshold   float32
	sleepTime        float32

	closed bool
}

// Engine is a discrete-time rigid-body simulation.
//
// The engine is the sole owner of every body registered with AddRigidBody.
// Callers keep non-owning references and read simulated placements through
// the bodies' motion states.
type Engine interface {
	// Gravity returns the acceleration applied to dynamic bodies.
	//
	// Returns:
	//   - mgl32.Vec3: the gravity vector
	Gravity() mgl32.Vec3

	// SetGravity sets the acceleration applied to dynamic bodies and wakes every sleeping body.
	//
	// Parameters:
	//   - g: the new gravity vector
	SetGravity(g mgl32.Vec3)

	// AddRigidBody transfers ownership of a body to the engine.
	//
	// Parameters:
	//   - body: the body to register
	//
	// Returns:
	//   - error: ErrEngineClosed, ErrBodyRegistered, or nil
	AddRigidBody(body *RigidBody) error

	// RemoveRigidBody releases a body from the engine without closing it.
	//
	// Parameters:
	//   - body: the body to remove
	//
	// Returns:
	//   - error: ErrBodyNotRegistered if the body is not owned by this engine
	RemoveRigidBody(body *RigidBody) error

	// NumRigidBodies returns the number of registered bodies.
	//
	// Returns:
	//   - int: the body count
	NumRigidBodies() int

	// StepSimulation advances the simulation by timeStep seconds using fixed sub-steps.
	//
	// Elapsed time accumulates across calls. Each whole fixedTimeStep of accumulated time
	// is one internal step, but at most maxSubSteps internal steps run per call; the rest
	// of the time is dropped. When maxSubSteps <= 0 a single variable step of timeStep runs.
	// Every registered body's motion state receives its world transform afterwards.
	//
	// Parameters:
	//   - timeStep: elapsed wall time in seconds
	//   - maxSubSteps: upper bound on internal steps for this call
	//   - fixedTimeStep: the internal step quantum in seconds
	//
	// Returns:
	//   - int: the number of fixed steps the elapsed time called for (before clamping)
	StepSimulation(timeStep float64, maxSubSteps int, fixedTimeStep float64) int

	// Close removes every body in reverse registration order, detaches their shapes
	// and motion states, then releases the solver, dispatcher and broadphase.
	// Safe to call multiple times; later calls return 0.
	//
	// Returns:
	//   - int: the number of bodies released
	Close() int
}

var _ Engine = &engineImpl{}

// NewEngine creates a physics engine with Earth gravity along -Y.
//
// Parameters:
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the new engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engineImpl{
		gravity:          mgl32.Vec3{0, -9.81, 0},
		broadphase:       newSweepAndPrune(),
		dispatcher:       newCollisionDispatcher(),
		solverIterations: 10,
		sleepThreshold:   0.1,
		sleepTime:        0.5,
	}
	for _, opt := range options {
		opt(e)
	}
	e.solver = newSequentialImpulseSolver(e.solverIterations)
	return e
}

func (e *engineImpl) Gravity() mgl32.Vec3 {
	return e.gravity
}

func (e *engineImpl) SetGravity(g mgl32.Vec3) {
	e.gravity = g
	for _, b := range e.bodies {
		b.Activate()
	}
}

func (e *engineImpl) AddRigidBody(body *RigidBody) error {
	if e.closed {
		return ErrEngineClosed
	}
	if body == nil {
		return fmt.Errorf("physics: AddRigidBody: nil body")
	}
	if body.owner != nil {
		return ErrBodyRegistered
	}
	body.owner = e
	e.bodies = append(e.bodies, body)
	return nil
}

func (e *engineImpl) RemoveRigidBody(body *RigidBody) error {
	if body == nil || body.owner != e {
		return ErrBodyNotRegistered
	}
	for i, b := range e.bodies {
		if b == body {
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			break
		}
	}
	body.owner = nil
	return nil
}

func (e *engineImpl) NumRigidBodies() int {
	return len(e.bodies)
}

func (e *engineImpl) StepSimulation(timeStep float64, maxSubSteps int, fixedTimeStep float64) int {
	if e.closed {
		return 0
	}

	numSteps := 0
	if maxSubSteps > 0 && fixedTimeStep > 0 {
		e.localTime += timeStep
		if e.localTime >= fixedTimeStep {
			numSteps = int(e.localTime / fixedTimeStep)
			e.localTime -= float64(numSteps) * fixedTimeStep
		}
	} else {
		fixedTimeStep = timeStep
		maxSubSteps = 1
		if timeStep > 0 {
			numSteps = 1
		}
	}

	for i := 0; i < min(numSteps, maxSubSteps); i++ {
		e.internalSingleStep(float32(fixedTimeStep))
	}
	e.synchronizeMotionStates()
	return numSteps
}

// internalSingleStep advances every body by one quantum.
func (e *engineImpl) internalSingleStep(dt float32) {
	for _, b := range e.bodies {
		if active(b) {
			b.integrateVelocities(e.gravity, dt)
		}
	}

	pairs := e.broadphase.findPairs(e.bodies)
	manifolds := e.dispatcher.dispatch(pairs)
	e.solver.solve(manifolds)

	for _, b := range e.bodies {
		if active(b) {
			b.integratePositions(dt)
		}
	}
	e.solver.correctPositions(manifolds)

	for _, b := range e.bodies {
		if active(b) {
			b.updateIdle(e.sleepThreshold, dt)
		}
	}
	e.deactivateIslands(manifolds)
}

// deactivateIslands puts touching dynamic bodies to sleep together once every
// one of them has rested for sleepTime. Static bodies do not join islands.
func (e *engineImpl) deactivateIslands(manifolds []manifold) {
	if e.sleepThreshold <= 0 {
		return
	}
	is := newIslands()
	for _, m := range manifolds {
		if !m.a.IsStatic() && !m.b.IsStatic() {
			is.union(m.a, m.b)
		}
	}

	ready := make(map[*RigidBody]bool)
	for _, b := range e.bodies {
		if b.IsStatic() {
			continue
		}
		root := is.find(b)
		r, seen := ready[root]
		ready[root] = (r || !seen) && (b.sleeping || b.idleTime > e.sleepTime)
	}
	for _, b := range e.bodies {
		if active(b) && ready[is.find(b)] {
			b.sleep()
		}
	}
}

func (e *engineImpl) synchronizeMotionStates() {
	for _, b := range e.bodies {
		if b.motionState != nil && !b.IsStatic() {
			b.motionState.SetWorldTransform(b.transform)
		}
	}
}

func (e *engineImpl) Close() int {
	if e.closed {
		return 0
	}
	e.closed = true

	released := 0
	for i := len(e.bodies) - 1; i >= 0; i-- {
		e.bodies[i].detach()
		released++
	}
	e.bodies = nil

	e.solver = nil
	e.dispatcher.release()
	e.dispatcher = nil
	e.broadphase.release()
	e.broadphase = nil
	return released
}
