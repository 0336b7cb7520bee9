package world

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrWorldClosed is returned when adding to a closed World.
	ErrWorldClosed = errors.New("world is closed")

	// ErrInvalidObject is returned for nil, released or already added objects.
	ErrInvalidObject = errors.New("invalid object")

	// ErrLightSlot is returned when a light's slot does not match its insertion position.
	ErrLightSlot = errors.New("light slot out of order")
)

// world is the implementation of the World interface.
type world struct {
	mu sync.RWMutex

	engine  physics.Engine
	objects []*object.Object
	ids     map[uint64]struct{}
	lights  []*light.Light

	ambientColor    mgl32.Vec4
	backgroundColor mgl32.Vec4
	gravity         *mgl32.Vec3
	stepsPerSecond  float64
	maxSubSteps     int

	dependents []io.Closer
	closed     bool
}

// World owns the objects and lights of a scene together with the physics Engine
// that owns their rigid bodies.
//
// Objects are drawn in insertion order and lights occupy shader slots in
// insertion order. Every object in the World has its body registered with the Engine.
type World interface {
	// AddObject registers the object's rigid body with the Engine, then appends the object.
	//
	// Parameters:
	//   - o: the object to add
	//
	// Returns:
	//   - error: ErrInvalidObject, ErrWorldClosed or the Engine's registration error
	AddObject(o *object.Object) error

	// AddLight appends a light. Its slot must equal the current light count.
	//
	// Parameters:
	//   - l: the light to add
	//
	// Returns:
	//   - error: ErrLightSlot, ErrWorldClosed or an error for nil/released lights
	AddLight(l *light.Light) error

	// Objects returns the objects in insertion order.
	//
	// Returns:
	//   - View[*object.Object]: a snapshot of the objects
	Objects() View[*object.Object]

	// Lights returns the lights in slot order.
	//
	// Returns:
	//   - View[*light.Light]: a snapshot of the lights
	Lights() View[*light.Light]

	// LightsNumber returns the number of lights, i.e. the value of the lightsNumber uniform.
	LightsNumber() int

	// AmbientColor returns the global ambient light color.
	AmbientColor() mgl32.Vec4

	// SetAmbientColor sets the global ambient light color.
	SetAmbientColor(c mgl32.Vec4)

	// BackgroundColor returns the color the frame is cleared to.
	BackgroundColor() mgl32.Vec4

	// SetBackgroundColor sets the color the frame is cleared to.
	SetBackgroundColor(c mgl32.Vec4)

	// Gravity returns the Engine's gravity.
	Gravity() mgl32.Vec3

	// SetGravity sets the Engine's gravity and wakes sleeping bodies.
	SetGravity(g mgl32.Vec3)

	// StepsPerSecond returns the fixed simulation rate.
	StepsPerSecond() float64

	// Engine returns the physics Engine.
	Engine() physics.Engine

	// StepSimulation advances the simulation by one fixed quantum 1/StepsPerSecond
	// and copies every body's transform into its object.
	//
	// Returns:
	//   - int: the number of fixed steps the Engine ran
	StepSimulation() int

	// Advance advances the simulation by real elapsed time, bounded by the
	// maximum number of sub-steps, and syncs object transforms.
	//
	// Parameters:
	//   - elapsed: time since the previous call
	//
	// Returns:
	//   - int: the number of fixed steps the elapsed time called for
	Advance(elapsed time.Duration) int

	// Attach registers a dependent that must be closed before the World releases its objects.
	// Dependents are closed in reverse attach order. Attaching the same closer twice is a no-op.
	//
	// Parameters:
	//   - c: the dependent, typically a Drawer
	Attach(c io.Closer)

	// Close closes the dependents, releases every object and light exactly once,
	// then closes the Engine. A second call returns zeros.
	//
	// Returns:
	//   - objects: the number of objects released
	//   - lights: the number of lights released
	//   - err: the joined errors of the dependents' Close calls
	Close() (objects, lights int, err error)
}

var _ World = &world{}

// NewWorld creates an empty World.
//
// Parameters:
//   - options: functional options to configure the world
//
// Returns:
//   - World: the new world
func NewWorld(options ...WorldBuilderOption) World {
	w := &world{
		ids:             map[uint64]struct{}{},
		ambientColor:    mgl32.Vec4{0.2, 0.2, 0.2, 1},
		backgroundColor: mgl32.Vec4{0, 0, 0, 1},
		stepsPerSecond:  60,
		maxSubSteps:     5,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.engine == nil {
		w.engine = physics.NewEngine()
	}
	if w.gravity != nil {
		w.engine.SetGravity(*w.gravity)
	}
	return w
}

func (w *world) AddObject(o *object.Object) error {
	if o == nil {
		return fmt.Errorf("%w: nil", ErrInvalidObject)
	}
	if o.Released() || o.Body() == nil {
		return fmt.Errorf("%w: %s is released", ErrInvalidObject, o)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorldClosed
	}
	if _, dup := w.ids[o.ID()]; dup {
		return fmt.Errorf("%w: %s already added", ErrInvalidObject, o)
	}
	if err := w.engine.AddRigidBody(o.Body()); err != nil {
		return fmt.Errorf("failed to register body of %s: %w", o, err)
	}
	w.ids[o.ID()] = struct{}{}
	w.objects = append(w.objects, o)
	return nil
}

func (w *world) AddLight(l *light.Light) error {
	if l == nil || l.Released() {
		return errors.New("light is nil or released")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorldClosed
	}
	if l.Slot() != len(w.lights) {
		return fmt.Errorf("%w: slot %d, expected %d", ErrLightSlot, l.Slot(), len(w.lights))
	}
	w.lights = append(w.lights, l)
	return nil
}

func (w *world) Objects() View[*object.Object] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return newView(w.objects)
}

func (w *world) Lights() View[*light.Light] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return newView(w.lights)
}

func (w *world) LightsNumber() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.lights)
}

func (w *world) AmbientColor() mgl32.Vec4 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ambientColor
}

func (w *world) SetAmbientColor(c mgl32.Vec4) {
	w.mu.Lock()
	w.ambientColor = c
	w.mu.Unlock()
}

func (w *world) BackgroundColor() mgl32.Vec4 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.backgroundColor
}

func (w *world) SetBackgroundColor(c mgl32.Vec4) {
	w.mu.Lock()
	w.backgroundColor = c
	w.mu.Unlock()
}

func (w *world) Gravity() mgl32.Vec3 {
	return w.engine.Gravity()
}

func (w *world) SetGravity(g mgl32.Vec3) {
	w.engine.SetGravity(g)
}

func (w *world) StepsPerSecond() float64 {
	return w.stepsPerSecond
}

func (w *world) Engine() physics.Engine {
	return w.engine
}

func (w *world) StepSimulation() int {
	quantum := 1 / w.stepsPerSecond
	return w.step(quantum, quantum)
}

func (w *world) Advance(elapsed time.Duration) int {
	return w.step(elapsed.Seconds(), 1/w.stepsPerSecond)
}

func (w *world) step(timeStep, fixedTimeStep float64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0
	}
	steps := w.engine.StepSimulation(timeStep, w.maxSubSteps, fixedTimeStep)
	for _, o := range w.objects {
		if !o.IsStatic() {
			o.SyncFromBody()
		}
	}
	return steps
}

func (w *world) Attach(c io.Closer) {
	if c == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.dependents {
		if d == c {
			return
		}
	}
	w.dependents = append(w.dependents, c)
}

func (w *world) Close() (int, int, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return 0, 0, nil
	}
	w.closed = true
	dependents := w.dependents
	objects, lights := w.objects, w.lights
	w.dependents, w.objects, w.lights = nil, nil, nil
	w.ids = map[uint64]struct{}{}
	w.mu.Unlock()

	var errs []error
	for i := len(dependents) - 1; i >= 0; i-- {
		if err := dependents[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	releasedObjects := 0
	for _, o := range objects {
		if o.Release() {
			releasedObjects++
		}
	}
	releasedLights := 0
	for _, l := range lights {
		if l.Release() {
			releasedLights++
		}
	}
	bodies := w.engine.Close()

	common.LogDebug("world closed: %d objects, %d lights, %d bodies", releasedObjects, releasedLights, bodies)
	return releasedObjects, releasedLights, errors.Join(errs...)
}
