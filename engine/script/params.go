package script

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/go-gl/mathgl/mgl32"
)

// Param configures one scene-building call. Params that do not apply to the
// thing being built are ignored.
type Param func(*paramSet)

type paramSet struct {
	object []object.Option
	light  []light.LightBuilderOption

	size   mgl32.Vec3
	side   float32
	repeat float32
	radius float32
	color  *mgl32.Vec4

	infinite bool
}

func newParamSet(params []Param) *paramSet {
	s := &paramSet{size: mgl32.Vec3{1, 1, 1}, side: 1, repeat: 1, radius: 0.1}
	for _, p := range params {
		if p != nil {
			p(s)
		}
	}
	return s
}

func Name(name string) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithName(name)) }
}

// Position places an object or a positional/spot light.
func Position(x, y, z float32) Param {
	return func(s *paramSet) {
		s.object = append(s.object, object.WithPosition(mgl32.Vec3{x, y, z}))
		s.light = append(s.light, light.WithPosition(mgl32.Vec3{x, y, z}))
	}
}

// Rotation orients an object by yaw (Y), pitch (X) and roll (Z) in degrees, applied in that order.
func Rotation(yaw, pitch, roll float32) Param {
	q := mgl32.AnglesToQuat(mgl32.DegToRad(yaw), mgl32.DegToRad(pitch), mgl32.DegToRad(roll), mgl32.YXZ)
	return func(s *paramSet) { s.object = append(s.object, object.WithOrientation(q)) }
}

func Mass(m float32) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithMass(m)) }
}

func Friction(f float32) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithFriction(f)) }
}

func Restitution(r float32) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithRestitution(r)) }
}

func Ambient(r, g, b, a float32) Param {
	return func(s *paramSet) {
		s.object = append(s.object, object.WithAmbient(mgl32.Vec4{r, g, b, a}))
		s.light = append(s.light, light.WithAmbient(mgl32.Vec4{r, g, b, a}))
	}
}

func Diffuse(r, g, b, a float32) Param {
	return func(s *paramSet) {
		s.object = append(s.object, object.WithDiffuse(mgl32.Vec4{r, g, b, a}))
		s.light = append(s.light, light.WithDiffuse(mgl32.Vec4{r, g, b, a}))
	}
}

func Specular(r, g, b, a float32) Param {
	return func(s *paramSet) {
		s.object = append(s.object, object.WithSpecular(mgl32.Vec4{r, g, b, a}))
		s.light = append(s.light, light.WithSpecular(mgl32.Vec4{r, g, b, a}))
	}
}

func Shininess(v float32) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithShininess(v)) }
}

func Texture(path string) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithTexture(path)) }
}

func NormalMap(path string) Param {
	return func(s *paramSet) { s.object = append(s.object, object.WithNormalMap(path)) }
}

// Size sets box side lengths. Defaults to a unit cube.
func Size(x, y, z float32) Param {
	return func(s *paramSet) { s.size = mgl32.Vec3{x, y, z} }
}

// Side sets plane and mirror edge length. Defaults to 1.
func Side(v float32) Param {
	return func(s *paramSet) { s.side = v }
}

// Infinite makes a static plane collide everywhere on its level, not just over its square.
func Infinite() Param {
	return func(s *paramSet) { s.infinite = true }
}

func Repeat(n float32) Param {
	return func(s *paramSet) { s.repeat = n }
}

// Radius sets the light bulb radius. Defaults to 0.1.
func Radius(r float32) Param {
	return func(s *paramSet) { s.radius = r }
}

// Color sets the light bulb emissive color.
func Color(r, g, b, a float32) Param {
	return func(s *paramSet) { s.color = &mgl32.Vec4{r, g, b, a} }
}

func Direction(x, y, z float32) Param {
	return func(s *paramSet) { s.light = append(s.light, light.WithDirection(mgl32.Vec3{x, y, z})) }
}

func Attenuation(constant, linear, quadratic float32) Param {
	return func(s *paramSet) { s.light = append(s.light, light.WithAttenuation(constant, linear, quadratic)) }
}

// Cutoff sets the spot cone half angle in degrees.
func Cutoff(deg float32) Param {
	return func(s *paramSet) { s.light = append(s.light, light.WithCutoff(deg)) }
}

func Exponent(e float32) Param {
	return func(s *paramSet) { s.light = append(s.light, light.WithExponent(e)) }
}
