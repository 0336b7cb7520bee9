package object

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrMissingParameter is wrapped by Create when a required builder parameter is unset or invalid.
var ErrMissingParameter = errors.New("missing parameter")

// params is the parameter block shared by every builder. It persists across Create calls.
type params struct {
	name        string
	position    mgl32.Vec3
	orientation mgl32.Quat
	mass        float32
	inertia     *mgl32.Vec3
	friction    *float32
	restitution *float32
	material    []material.MaterialBuilderOption
}

func newParams(options []Option) params {
	p := params{orientation: mgl32.QuatIdent()}
	p.apply(options)
	return p
}

func (p *params) apply(options []Option) {
	for _, opt := range options {
		opt(p)
	}
}

func (p *params) objectName() string {
	if p.name != "" {
		return p.name
	}
	return uuid.NewString()
}

func (p *params) transform() Transform {
	return Transform{Position: p.position, Orientation: p.orientation}
}

// finish wires the physics side of an object whose geometry, kind and material are set.
// mass overrides the parameter block's mass (static-only builders pass 0).
func (p *params) finish(o *Object, shape physics.Shape, mass float32) *Object {
	o.mass = mass
	o.shape = shape
	if p.inertia != nil {
		o.inertia = *p.inertia
	} else {
		o.inertia = shape.CalculateLocalInertia(mass)
	}
	o.Entity.SetTransform(p.transform())

	ms := physics.NewDefaultMotionState(o.transform.physics())
	info := physics.NewRigidBodyConstructionInfo(mass, ms, shape, o.inertia)
	if p.friction != nil {
		info.Friction = *p.friction
	}
	if p.restitution != nil {
		info.Restitution = *p.restitution
	}
	o.body = physics.NewRigidBody(info)
	return o
}

// Option configures the parameter block shared by all builders.
type Option func(*params)

// WithName sets the object name. Unnamed objects get a random UUID.
//
// Parameters:
//   - name: the object name
//
// Returns:
//   - Option: option function to apply
func WithName(name string) Option {
	return func(p *params) {
		p.name = name
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - pos: world-space position
//
// Returns:
//   - Option: option function to apply
func WithPosition(pos mgl32.Vec3) Option {
	return func(p *params) {
		p.position = pos
	}
}

// WithOrientation sets the initial world orientation. The quaternion is normalized.
//
// Parameters:
//   - q: orientation quaternion
//
// Returns:
//   - Option: option function to apply
func WithOrientation(q mgl32.Quat) Option {
	return func(p *params) {
		p.orientation = q
	}
}

// WithMass sets the body mass. Zero (the default) makes the object static.
//
// Parameters:
//   - mass: mass in kilograms, negative values are treated as 0
//
// Returns:
//   - Option: option function to apply
func WithMass(mass float32) Option {
	return func(p *params) {
		p.mass = max(mass, 0)
	}
}

// WithInertia overrides the local inertia computed from the collision shape.
//
// Parameters:
//   - inertia: principal moments of inertia
//
// Returns:
//   - Option: option function to apply
func WithInertia(inertia mgl32.Vec3) Option {
	return func(p *params) {
		p.inertia = &inertia
	}
}

// WithFriction sets the Coulomb friction coefficient.
func WithFriction(friction float32) Option {
	return func(p *params) {
		p.friction = &friction
	}
}

// WithRestitution sets the bounciness in [0, 1].
func WithRestitution(restitution float32) Option {
	return func(p *params) {
		p.restitution = &restitution
	}
}

// WithAmbient sets the material ambient reflectance.
func WithAmbient(color mgl32.Vec4) Option {
	return func(p *params) {
		p.material = append(p.material, material.WithAmbient(color))
	}
}

// WithDiffuse sets the material diffuse reflectance.
func WithDiffuse(color mgl32.Vec4) Option {
	return func(p *params) {
		p.material = append(p.material, material.WithDiffuse(color))
	}
}

// WithSpecular sets the material specular reflectance.
func WithSpecular(color mgl32.Vec4) Option {
	return func(p *params) {
		p.material = append(p.material, material.WithSpecular(color))
	}
}

// WithShininess sets the material specular exponent.
func WithShininess(shininess float32) Option {
	return func(p *params) {
		p.material = append(p.material, material.WithShininess(shininess))
	}
}

// WithTexture sets the diffuse texture file. An empty path removes it.
//
// Parameters:
//   - path: PNG, JPEG, BMP or TIFF file
//
// Returns:
//   - Option: option function to apply
func WithTexture(path string) Option {
	return func(p *params) {
		p.material = append(p.material, material.WithTextureFile(path))
	}
}

// WithNormalMap sets the tangent-space normal map file.
func WithNormalMap(path string) Option {
	return func(p *params) {
		p.material = append(p.material, material.WithNormalTexture(textureFile(path)))
	}
}

func textureFile(path string) *common.ImportedTexture {
	if path == "" {
		return nil
	}
	return &common.ImportedTexture{Path: path}
}
