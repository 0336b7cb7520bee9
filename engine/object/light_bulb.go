package object

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	bulbStacks = 12
	bulbSlices = 16
)

// LightBulbBuilder creates small emissive spheres, usually placed at a positional light.
type LightBulbBuilder struct {
	params
	radius float32
	color  mgl32.Vec4
}

// NewLightBulbBuilder creates a light bulb builder. Radius must be set before Create.
// Bulbs are static unless WithMass is given.
func NewLightBulbBuilder(options ...Option) *LightBulbBuilder {
	return &LightBulbBuilder{params: newParams(options), color: mgl32.Vec4{1, 1, 1, 1}}
}

// Set applies more shared options. They persist for later Create calls.
func (b *LightBulbBuilder) Set(options ...Option) *LightBulbBuilder {
	b.apply(options)
	return b
}

// Radius sets the sphere radius.
func (b *LightBulbBuilder) Radius(r float32) *LightBulbBuilder {
	b.radius = r
	return b
}

// Color sets the emissive color.
func (b *LightBulbBuilder) Color(c mgl32.Vec4) *LightBulbBuilder {
	b.color = c
	return b
}

// Create builds a light bulb.
//
// Returns:
//   - *Object: the bulb
//   - error: ErrMissingParameter if the radius is not positive
func (b *LightBulbBuilder) Create() (*Object, error) {
	if b.radius <= 0 {
		return nil, fmt.Errorf("light bulb: %w: radius must be positive, got %v", ErrMissingParameter, b.radius)
	}
	o := newObject(KindLightBulb, b.objectName())
	o.geometry = SphereGeometry(b.radius, bulbStacks, bulbSlices)
	o.material = material.NewMaterial(b.material...)
	o.emissive = b.color
	return b.finish(o, physics.NewSphereShape(b.radius), b.mass), nil
}
