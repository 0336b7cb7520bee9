package object

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// BoxBuilder creates box objects with a box collision shape.
type BoxBuilder struct {
	params
	sides mgl32.Vec3
}

// NewBoxBuilder creates a box builder. Sides must be set before Create.
//
// Parameters:
//   - options: shared object options
//
// Returns:
//   - *BoxBuilder: the builder
func NewBoxBuilder(options ...Option) *BoxBuilder {
	return &BoxBuilder{params: newParams(options)}
}

// Set applies more shared options. They persist for later Create calls.
func (b *BoxBuilder) Set(options ...Option) *BoxBuilder {
	b.apply(options)
	return b
}

// Sides sets the side lengths along x, y and z.
func (b *BoxBuilder) Sides(x, y, z float32) *BoxBuilder {
	b.sides = mgl32.Vec3{x, y, z}
	return b
}

// Create builds a new box object from the current parameters.
//
// Returns:
//   - *Object: the box
//   - error: ErrMissingParameter if any side is not positive
func (b *BoxBuilder) Create() (*Object, error) {
	if b.sides.X() <= 0 || b.sides.Y() <= 0 || b.sides.Z() <= 0 {
		return nil, fmt.Errorf("box: %w: sides must be positive, got %v", ErrMissingParameter, b.sides)
	}
	o := newObject(KindBox, b.objectName())
	o.geometry = BoxGeometry(b.sides)
	o.material = material.NewMaterial(b.material...)
	return b.finish(o, physics.NewBoxShape(b.sides.Mul(0.5)), b.mass), nil
}
