package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - p: eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p.Vec4(1)
	}
}

// WithYaw sets the initial heading in degrees.
//
// Parameters:
//   - yaw: heading in degrees, positive turns right
//
// Returns:
//   - CameraBuilderOption: a function that sets the yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the initial elevation in degrees, clamped to ±MaxPitch.
//
// Parameters:
//   - pitch: elevation in degrees, positive looks up
//
// Returns:
//   - CameraBuilderOption: a function that sets the pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
	}
}

// WithStep sets the distance covered by one Move call.
//
// Parameters:
//   - step: world units per move
//
// Returns:
//   - CameraBuilderOption: a function that sets the step
func WithStep(step float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if step > 0 {
			c.step = step
		}
	}
}

// WithSensitivity sets the degrees of rotation per pixel of mouse travel.
//
// Parameters:
//   - s: degrees per pixel
//
// Returns:
//   - CameraBuilderOption: a function that sets the sensitivity
func WithSensitivity(s float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sensitivity = s
	}
}

// WithRotationStep sets the yaw increment of RotateLeft and RotateRight.
//
// Parameters:
//   - deg: degrees per call
//
// Returns:
//   - CameraBuilderOption: a function that sets the rotation step
func WithRotationStep(deg float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotationStep = deg
	}
}

// WithFov sets the vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fov > 0 && fov < 180 {
			c.fov = fov
		}
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
