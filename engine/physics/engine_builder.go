package physics

import "github.com/go-gl/mathgl/mgl32"

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engineImpl)

// WithGravity sets the initial gravity vector.
//
// Parameters:
//   - g: acceleration applied to dynamic bodies
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGravity(g mgl32.Vec3) EngineBuilderOption {
	return func(e *engineImpl) {
		e.gravity = g
	}
}

// WithSolverIterations sets how many velocity iterations the contact solver runs per step.
//
// Parameters:
//   - n: iteration count (values <= 0 fall back to 10)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSolverIterations(n int) EngineBuilderOption {
	return func(e *engineImpl) {
		e.solverIterations = n
	}
}

// WithSleeping configures when resting bodies are put to sleep. Touching
// bodies sleep together once all of them have rested. A zero threshold disables sleeping.
//
// Parameters:
//   - threshold: linear and angular speed under which a body counts as resting
//   - seconds: how long a body must rest before it sleeps
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSleeping(threshold, seconds float32) EngineBuilderOption {
	return func(e *engineImpl) {
		e.sleepThreshold = threshold
		e.sleepTime = seconds
	}
}
