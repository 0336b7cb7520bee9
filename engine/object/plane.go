package object

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// planeThickness is the half height of the box a finite plane collides as.
const planeThickness = 0.01

type planeParams struct {
	side   float32
	repeat float32
}

// slab is the collision box covering the plane's square.
func (pp planeParams) slab() physics.Shape {
	return physics.NewBoxShape(mgl32.Vec3{pp.side / 2, planeThickness, pp.side / 2})
}

func (pp planeParams) validate(what string) error {
	if pp.side <= 0 {
		return fmt.Errorf("%s: %w: side must be positive, got %v", what, ErrMissingParameter, pp.side)
	}
	return nil
}

// PlaneBuilder creates square planes lying in the local XZ plane, facing +Y.
type PlaneBuilder struct {
	params
	planeParams
	infinite bool
}

// NewPlaneBuilder creates a plane builder. Side must be set before Create.
func NewPlaneBuilder(options ...Option) *PlaneBuilder {
	return &PlaneBuilder{params: newParams(options), planeParams: planeParams{repeat: 1}}
}

// Set applies more shared options. They persist for later Create calls.
func (b *PlaneBuilder) Set(options ...Option) *PlaneBuilder {
	b.apply(options)
	return b
}

// Side sets the edge length.
func (b *PlaneBuilder) Side(side float32) *PlaneBuilder {
	b.side = side
	return b
}

// TextureRepeat sets how many times the texture tiles along each edge.
func (b *PlaneBuilder) TextureRepeat(n float32) *PlaneBuilder {
	b.repeat = n
	return b
}

// Infinite makes a static plane collide as the unbounded plane through its
// square, for ground planes. Ignored when the plane has mass.
func (b *PlaneBuilder) Infinite() *PlaneBuilder {
	b.infinite = true
	return b
}

// Create builds a plane. It collides as a thin box covering its square unless
// it is static and Infinite was set.
//
// Returns:
//   - *Object: the plane
//   - error: ErrMissingParameter if the side is not positive
func (b *PlaneBuilder) Create() (*Object, error) {
	if err := b.validate("plane"); err != nil {
		return nil, err
	}
	o := newObject(KindPlane, b.objectName())
	o.geometry = PlaneGeometry(b.side, b.repeat)
	o.material = material.NewMaterial(b.material...)

	shape := b.slab()
	if b.infinite && b.mass <= 0 {
		shape = physics.NewStaticPlaneShape(mgl32.Vec3{0, 1, 0}, 0)
	}
	return b.finish(o, shape, b.mass), nil
}

// MirrorBuilder creates static reflective planes drawn with the mirror program.
type MirrorBuilder struct {
	params
	planeParams
}

// NewMirrorBuilder creates a mirror builder. Side must be set before Create.
// Any configured mass is ignored: mirrors are always static.
func NewMirrorBuilder(options ...Option) *MirrorBuilder {
	return &MirrorBuilder{params: newParams(options), planeParams: planeParams{repeat: 1}}
}

// Set applies more shared options. They persist for later Create calls.
func (b *MirrorBuilder) Set(options ...Option) *MirrorBuilder {
	b.apply(options)
	return b
}

// Side sets the edge length.
func (b *MirrorBuilder) Side(side float32) *MirrorBuilder {
	b.side = side
	return b
}

// TextureRepeat sets how many times the texture tiles along each edge.
func (b *MirrorBuilder) TextureRepeat(n float32) *MirrorBuilder {
	b.repeat = n
	return b
}

// Create builds a mirror. It collides as a thin static box covering its square.
//
// Returns:
//   - *Object: the mirror
//   - error: ErrMissingParameter if the side is not positive
func (b *MirrorBuilder) Create() (*Object, error) {
	if err := b.validate("mirror"); err != nil {
		return nil, err
	}
	o := newObject(KindMirror, b.objectName())
	o.geometry = PlaneGeometry(b.side, b.repeat)
	o.material = material.NewMaterial(append([]material.MaterialBuilderOption{
		material.WithSpecular(mgl32.Vec4{1, 1, 1, 1}),
		material.WithShininess(128),
	}, b.material...)...)
	return b.finish(o, b.slab(), 0), nil
}
