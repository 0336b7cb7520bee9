package light

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoFreeSlot is returned when every light slot has been handed out.
var ErrNoFreeSlot = errors.New("no free light slot")

// LightBuilderOption configures a light during construction.
type LightBuilderOption func(*Light)

// Builder creates lights and assigns slots 0..MaxLights-1 in creation order,
// regardless of kind.
type Builder struct {
	mu   sync.Mutex
	next int
}

// NewBuilder creates a Builder whose first light gets slot 0.
func NewBuilder() *Builder {
	return &Builder{}
}

// Directional creates a directional light.
//
// Parameters:
//   - options: light options; WithDirection is the relevant geometric option
//
// Returns:
//   - *Light: the light with the next slot
//   - error: ErrNoFreeSlot when MaxLights lights already exist
func (b *Builder) Directional(options ...LightBuilderOption) (*Light, error) {
	return b.create(LightTypeDirectional, options)
}

// Positional creates a positional light.
//
// Parameters:
//   - options: light options; WithPosition and WithAttenuation are the relevant geometric options
//
// Returns:
//   - *Light: the light with the next slot
//   - error: ErrNoFreeSlot when MaxLights lights already exist
func (b *Builder) Positional(options ...LightBuilderOption) (*Light, error) {
	return b.create(LightTypePositional, options)
}

// Spot creates a spot light.
//
// Parameters:
//   - options: light options; positional options plus WithDirection, WithCutoff and WithExponent
//
// Returns:
//   - *Light: the light with the next slot
//   - error: ErrNoFreeSlot when MaxLights lights already exist
func (b *Builder) Spot(options ...LightBuilderOption) (*Light, error) {
	return b.create(LightTypeSpot, options)
}

// Count returns the number of slots handed out so far.
func (b *Builder) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next
}

// Unassign hands l's slot back when it is the most recent one, so a light the
// world rejected does not use up a slot. The light is released either way.
//
// Parameters:
//   - l: a light created by this builder
//
// Returns:
//   - bool: true if the slot will be handed out again
func (b *Builder) Unassign(l *Light) bool {
	if l == nil {
		return false
	}
	l.Release()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.next == 0 || l.Slot() != b.next-1 {
		return false
	}
	b.next--
	return true
}

func (b *Builder) create(t LightType, options []LightBuilderOption) (*Light, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.next >= MaxLights {
		return nil, fmt.Errorf("%s light: %w (max %d)", t, ErrNoFreeSlot, MaxLights)
	}
	l := newLight(t, b.next)
	for _, opt := range options {
		opt(l)
	}
	b.next++
	return l, nil
}

// WithAmbient sets the ambient contribution of the light.
//
// Parameters:
//   - c: RGBA color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithAmbient(c mgl32.Vec4) LightBuilderOption {
	return func(l *Light) {
		l.ambient = c
	}
}

// WithDiffuse sets the diffuse contribution of the light.
//
// Parameters:
//   - c: RGBA color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDiffuse(c mgl32.Vec4) LightBuilderOption {
	return func(l *Light) {
		l.diffuse = c
	}
}

// WithSpecular sets the specular contribution of the light.
//
// Parameters:
//   - c: RGBA color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithSpecular(c mgl32.Vec4) LightBuilderOption {
	return func(l *Light) {
		l.specular = c
	}
}

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithPosition(p mgl32.Vec3) LightBuilderOption {
	return func(l *Light) {
		l.position = p
	}
}

// WithDirection sets the direction of the light. The vector is normalized
// and zero vectors are ignored.
//
// Parameters:
//   - d: world-space direction
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDirection(d mgl32.Vec3) LightBuilderOption {
	return func(l *Light) {
		l.SetDirection(d)
	}
}

// WithAttenuation sets 1 / (constant + linear*d + quadratic*d^2) distance attenuation.
//
// Parameters:
//   - constant, linear, quadratic: the attenuation factors
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(l *Light) {
		l.constantAttenuation = constant
		l.linearAttenuation = linear
		l.quadraticAttenuation = quadratic
	}
}

// WithCutoff sets the spot cone half-angle, clamped to [0, 90] degrees.
//
// Parameters:
//   - degrees: the half-angle
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithCutoff(degrees float32) LightBuilderOption {
	return func(l *Light) {
		l.cutoff = common.Clamp(degrees, 0, 90)
	}
}

// WithExponent sets the spot falloff exponent. Zero gives a hard-edged cone.
//
// Parameters:
//   - exponent: the falloff exponent
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithExponent(exponent float32) LightBuilderOption {
	return func(l *Light) {
		l.exponent = max(exponent, 0)
	}
}
