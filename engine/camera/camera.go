package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch bounds the pitch angle in degrees so the view never flips over the pole.
const MaxPitch = 89.0

// forward is the camera's looking direction in its own space.
var forward = mgl32.Vec4{0, 0, -1, 1}

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec4
	yaw      float32
	pitch    float32

	step         float32
	sensitivity  float32
	rotationStep float32

	fov    float32
	aspect float32
	near   float32
	far    float32
}

// Camera is a first-person viewer with a position and two rotation angles.
// It has no roll. Movement is always relative to the current orientation.
// All angles are in degrees.
type Camera interface {
	// MoveForward translates the camera one step along its local forward axis.
	MoveForward()

	// MoveBackward translates the camera one step against its local forward axis.
	MoveBackward()

	// MoveLeft translates the camera one step along its local -X axis.
	MoveLeft()

	// MoveRight translates the camera one step along its local +X axis.
	MoveRight()

	// MoveUp translates the camera one step along its local +Y axis.
	MoveUp()

	// MoveDown translates the camera one step along its local -Y axis.
	MoveDown()

	// Rotate applies a mouse-look delta. Yaw grows with dx and pitch falls with dy,
	// both scaled by the sensitivity. Pitch is clamped to ±MaxPitch.
	//
	// Parameters:
	//   - dx, dy: cursor travel in pixels
	Rotate(dx, dy float32)

	// RotateLeft turns the camera left by the fixed rotation step.
	RotateLeft()

	// RotateRight turns the camera right by the fixed rotation step.
	RotateRight()

	// ApplyView builds the view matrix from the current position and orientation.
	//
	// Returns:
	//   - mgl32.Mat4: the world-to-view matrix
	ApplyView() mgl32.Mat4

	// Projection returns the perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view-to-clip matrix
	Projection() mgl32.Mat4

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view
	Fov() float32

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition moves the camera to a world-space position.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p mgl32.Vec3)

	// Yaw returns the heading in degrees. Zero looks down -Z, positive turns right.
	//
	// Returns:
	//   - float32: yaw angle
	Yaw() float32

	// Pitch returns the elevation in degrees. Positive looks up.
	//
	// Returns:
	//   - float32: pitch angle
	Pitch() float32

	// SetOrientation sets both angles. Pitch is clamped to ±MaxPitch.
	//
	// Parameters:
	//   - yaw: heading in degrees
	//   - pitch: elevation in degrees
	SetOrientation(yaw, pitch float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:           &sync.Mutex{},
		position:     mgl32.Vec4{0, 0, 0, 1},
		step:         0.1,
		sensitivity:  0.1,
		rotationStep: 2,
		fov:          45,
		aspect:       1,
		near:         0.1,
		far:          100,
	}
	for _, option := range options {
		option(c)
	}
	c.pitch = clampPitch(c.pitch)
	return c
}

func (c *cameraImpl) MoveForward() {
	c.move(mgl32.Vec3{0, 0, -1})
}

func (c *cameraImpl) MoveBackward() {
	c.move(mgl32.Vec3{0, 0, 1})
}

func (c *cameraImpl) MoveLeft() {
	c.move(mgl32.Vec3{-1, 0, 0})
}

func (c *cameraImpl) MoveRight() {
	c.move(mgl32.Vec3{1, 0, 0})
}

func (c *cameraImpl) MoveUp() {
	c.move(mgl32.Vec3{0, 1, 0})
}

func (c *cameraImpl) MoveDown() {
	c.move(mgl32.Vec3{0, -1, 0})
}

func (c *cameraImpl) Rotate(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += dx * c.sensitivity
	c.pitch = clampPitch(c.pitch - dy*c.sensitivity)
}

func (c *cameraImpl) RotateLeft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw -= c.rotationStep
}

func (c *cameraImpl) RotateRight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += c.rotationStep
}

func (c *cameraImpl) ApplyView() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.transform()
	eye := t.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	common.Assert(eye == c.position, "camera eye %v drifted from position %v", eye, c.position)

	target := t.Mul4x1(forward)
	up := t.Mul4x1(mgl32.Vec4{0, 1, 0, 0})
	return mgl32.LookAtV(eye.Vec3(), target.Vec3(), up.Vec3())
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position.Vec3()
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p.Vec4(1)
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *cameraImpl) SetOrientation(yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
}

// move pushes a unit local-space direction through the orientation transform
// and stores the resulting world position. Caller must not hold the mutex.
func (c *cameraImpl) move(dir mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.transform().Mul4x1(dir.Mul(c.step).Vec4(1))
}

// transform is translate(position) · rotY(-yaw) · rotX(pitch). Caller must hold the mutex.
func (c *cameraImpl) transform() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(-c.yaw)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.pitch)))
	return mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z()).Mul4(rot)
}

func clampPitch(p float32) float32 {
	return common.Clamp(p, -MaxPitch, MaxPitch)
}
