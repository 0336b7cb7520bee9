package camera

// CameraControllerOption is a functional option for configuring a Controller.
type CameraControllerOption func(*cameraController)

// WithMouseLook enables or disables mouse-driven rotation. Enabled by default.
//
// Parameters:
//   - enabled: true to rotate the camera from mouse travel
//
// Returns:
//   - CameraControllerOption: functional option to set mouse look
func WithMouseLook(enabled bool) CameraControllerOption {
	return func(cc *cameraController) {
		cc.mouseLook = enabled
	}
}

// WithBinding adds a key binding evaluated after the defaults.
//
// Parameters:
//   - key: the virtual key code
//   - action: the command to run while the key is held
//
// Returns:
//   - CameraControllerOption: functional option to add the binding
func WithBinding(key uint32, action func(Camera)) CameraControllerOption {
	return func(cc *cameraController) {
		cc.bindings = append(cc.bindings, binding{key, action})
	}
}

// WithoutDefaultBindings clears the default key bindings. Apply it before any WithBinding.
//
// Returns:
//   - CameraControllerOption: functional option that clears bindings
func WithoutDefaultBindings() CameraControllerOption {
	return func(cc *cameraController) {
		cc.bindings = nil
	}
}
