package camera

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/input"
)

// Controller maps one frame of input onto Camera commands.
//
// Default bindings: W/S and Up/Down move forward and back, A/D strafe,
// Q/E move up and down, Left/Right turn by the rotation step, and mouse
// travel drives Rotate.
type Controller interface {
	// Apply consumes a frame's input state and issues the matching camera commands.
	//
	// Parameters:
	//   - s: the input snapshot for this frame
	Apply(s input.State)

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera receiving commands
	Camera() Camera
}

type cameraController struct {
	camera    Camera
	mouseLook bool
	bindings  []binding
}

type binding struct {
	key    uint32
	action func(Camera)
}

var _ Controller = &cameraController{}

// NewController creates a Controller driving cam.
// Panics if cam is nil.
//
// Parameters:
//   - cam: the camera to control
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the new controller
func NewController(cam Camera, options ...CameraControllerOption) Controller {
	if cam == nil {
		panic("camera: NewController requires a Camera")
	}
	cc := &cameraController{
		camera:    cam,
		mouseLook: true,
		bindings: []binding{
			{common.KeyW, Camera.MoveForward},
			{common.KeyUp, Camera.MoveForward},
			{common.KeyS, Camera.MoveBackward},
			{common.KeyDown, Camera.MoveBackward},
			{common.KeyA, Camera.MoveLeft},
			{common.KeyD, Camera.MoveRight},
			{common.KeyQ, Camera.MoveUp},
			{common.KeyE, Camera.MoveDown},
			{common.KeyLeft, Camera.RotateLeft},
			{common.KeyRight, Camera.RotateRight},
		},
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *cameraController) Apply(s input.State) {
	for _, b := range cc.bindings {
		if s.Pressed(b.key) {
			b.action(cc.camera)
		}
	}
	if cc.mouseLook && (s.MouseDX != 0 || s.MouseDY != 0) {
		cc.camera.Rotate(s.MouseDX, s.MouseDY)
	}
}

func (cc *cameraController) Camera() Camera {
	return cc.camera
}
