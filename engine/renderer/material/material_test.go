package material

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type recorder map[string]any

func (r recorder) SetFloat(name string, v float32)   { r[name] = v }
func (r recorder) SetVec4(name string, v mgl32.Vec4) { r[name] = v }

func TestSetUniforms(t *testing.T) {
	m := NewMaterial(
		WithAmbient(mgl32.Vec4{0.1, 0.1, 0.1, 1}),
		WithDiffuse(mgl32.Vec4{1, 0, 0, 0.5}),
		WithSpecular(mgl32.Vec4{1, 1, 1, 1}),
		WithShininess(64),
	)
	r := recorder{}
	m.SetUniforms(r)

	assert.Equal(t, recorder{
		"material.ambient":   mgl32.Vec4{0.1, 0.1, 0.1, 1},
		"material.diffuse":   mgl32.Vec4{1, 0, 0, 0.5},
		"material.specular":  mgl32.Vec4{1, 1, 1, 1},
		"material.shininess": float32(64),
	}, r)
}

func TestShininessFloor(t *testing.T) {
	assert.Equal(t, float32(1), NewMaterial(WithShininess(0)).Shininess())
}

func TestCloneLeavesOriginal(t *testing.T) {
	base := NewMaterial(WithName("crate"), WithTextureFile("crate.png"))
	red := base.Clone(WithDiffuse(mgl32.Vec4{1, 0, 0, 1}), WithTextureFile(""))

	assert.Equal(t, "crate", red.Name())
	assert.Nil(t, red.DiffuseTexture())
	assert.Equal(t, "crate.png", base.DiffuseTexture().Path)
	assert.Equal(t, mgl32.Vec4{0.8, 0.8, 0.8, 1}, base.Diffuse())
}
