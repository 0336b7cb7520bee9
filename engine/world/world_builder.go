package world

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldBuilderOption is a functional option for configuring a World.
type WorldBuilderOption func(*world)

// WithGravity sets the gravity of the World's Engine.
//
// Parameters:
//   - g: gravity acceleration
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithGravity(g mgl32.Vec3) WorldBuilderOption {
	return func(w *world) {
		w.gravity = &g
	}
}

// WithAmbientColor sets the global ambient light color.
//
// Parameters:
//   - c: RGBA color
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithAmbientColor(c mgl32.Vec4) WorldBuilderOption {
	return func(w *world) {
		w.ambientColor = c
	}
}

// WithBackgroundColor sets the clear color.
//
// Parameters:
//   - c: RGBA color
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithBackgroundColor(c mgl32.Vec4) WorldBuilderOption {
	return func(w *world) {
		w.backgroundColor = c
	}
}

// WithStepsPerSecond sets the fixed simulation rate. Non-positive values are ignored.
//
// Parameters:
//   - n: simulation steps per second
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithStepsPerSecond(n float64) WorldBuilderOption {
	return func(w *world) {
		if n > 0 {
			w.stepsPerSecond = n
		}
	}
}

// WithMaxSubSteps bounds how many fixed steps one StepSimulation or Advance call may run.
// Zero or less makes every call a single variable-length step.
//
// Parameters:
//   - n: the maximum number of sub-steps
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithMaxSubSteps(n int) WorldBuilderOption {
	return func(w *world) {
		w.maxSubSteps = n
	}
}

// WithEngine uses an existing physics Engine instead of creating one.
// The World takes ownership and closes it.
//
// Parameters:
//   - e: the physics engine
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithEngine(e physics.Engine) WorldBuilderOption {
	return func(w *world) {
		w.engine = e
	}
}
