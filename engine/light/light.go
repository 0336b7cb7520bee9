package light

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the number of light slots a lit program exposes.
const MaxLights = shader.MaxLights

// LightType identifies the kind of light source. The values match the kind
// field of the shader's Light struct.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. No distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePositional represents a light that emits in all directions from a position
	// and attenuates with distance.
	LightTypePositional

	// LightTypeSpot is a positional light restricted to a cone around its direction.
	LightTypeSpot
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePositional:
		return "positional"
	case LightTypeSpot:
		return "spot"
	default:
		return fmt.Sprintf("light(%d)", int(t))
	}
}

// UniformWriter is the subset of a shader program a Light writes to.
type UniformWriter interface {
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
}

// Light is one light source bound to a fixed slot of the shader's lights array.
// Lights are created by a Builder, which assigns slots in creation order.
type Light struct {
	lightType LightType
	slot      int

	ambient  mgl32.Vec4
	diffuse  mgl32.Vec4
	specular mgl32.Vec4

	position  mgl32.Vec3
	direction mgl32.Vec3

	constantAttenuation  float32
	linearAttenuation    float32
	quadraticAttenuation float32

	cutoff   float32 // degrees
	exponent float32

	released bool
}

func newLight(t LightType, slot int) *Light {
	return &Light{
		lightType:           t,
		slot:                slot,
		ambient:             mgl32.Vec4{0, 0, 0, 1},
		diffuse:             mgl32.Vec4{1, 1, 1, 1},
		specular:            mgl32.Vec4{1, 1, 1, 1},
		direction:           mgl32.Vec3{0, -1, 0},
		constantAttenuation: 1,
		cutoff:              30,
	}
}

func (l *Light) Type() LightType {
	return l.lightType
}

// Slot returns the index of this light in the shader's lights array.
func (l *Light) Slot() int {
	return l.slot
}

func (l *Light) Ambient() mgl32.Vec4 {
	return l.ambient
}

func (l *Light) Diffuse() mgl32.Vec4 {
	return l.diffuse
}

func (l *Light) Specular() mgl32.Vec4 {
	return l.specular
}

// Position returns the world-space position. Meaningless for directional lights.
func (l *Light) Position() mgl32.Vec3 {
	return l.position
}

// Direction returns the unit world-space direction. Meaningless for positional lights.
func (l *Light) Direction() mgl32.Vec3 {
	return l.direction
}

// Attenuation returns the constant, linear and quadratic distance attenuation factors.
func (l *Light) Attenuation() (constant, linear, quadratic float32) {
	return l.constantAttenuation, l.linearAttenuation, l.quadraticAttenuation
}

// Cutoff returns the spot cone half-angle in degrees.
func (l *Light) Cutoff() float32 {
	return l.cutoff
}

// Exponent returns the spot falloff exponent.
func (l *Light) Exponent() float32 {
	return l.exponent
}

func (l *Light) SetPosition(p mgl32.Vec3) {
	l.position = p
}

// SetDirection sets the direction. Zero vectors are ignored.
func (l *Light) SetDirection(d mgl32.Vec3) {
	if d.Len() < common.Epsilon {
		return
	}
	l.direction = d.Normalize()
}

// SetUniforms writes lights[slot].* for the current program. Positions are
// transformed by the full view matrix and directions by its rotation only,
// so lighting is computed in view space.
//
// Parameters:
//   - w: the program in use
//   - view: the camera view matrix
func (l *Light) SetUniforms(w UniformWriter, view mgl32.Mat4) {
	prefix := fmt.Sprintf("lights[%d].", l.slot)
	w.SetInt(prefix+"kind", int32(l.lightType))
	w.SetVec4(prefix+"ambient", l.ambient)
	w.SetVec4(prefix+"diffuse", l.diffuse)
	w.SetVec4(prefix+"specular", l.specular)

	rotation := common.RotationOnly(view)
	switch l.lightType {
	case LightTypeDirectional:
		w.SetVec3(prefix+"direction", common.TransformDirection(rotation, l.direction))
	case LightTypePositional, LightTypeSpot:
		w.SetFloat(prefix+"constantAttenuation", l.constantAttenuation)
		w.SetFloat(prefix+"linearAttenuation", l.linearAttenuation)
		w.SetFloat(prefix+"quadraticAttenuation", l.quadraticAttenuation)
		w.SetVec3(prefix+"position", common.TransformPoint(view, l.position))
		if l.lightType == LightTypeSpot {
			w.SetVec3(prefix+"direction", common.TransformDirection(rotation, l.direction))
			w.SetFloat(prefix+"cutoff", float32(math.Cos(float64(mgl32.DegToRad(l.cutoff)))))
			w.SetFloat(prefix+"exponent", l.exponent)
		}
	}
}

// Released reports whether Release has been called.
func (l *Light) Released() bool {
	return l.released
}

// Release marks the light as torn down. It returns false if it already was.
func (l *Light) Release() bool {
	if l.released {
		return false
	}
	l.released = true
	return true
}
