package material

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformWriter is the subset of a shader program a Material writes to.
type UniformWriter interface {
	SetFloat(name string, v float32)
	SetVec4(name string, v mgl32.Vec4)
}

// material is the implementation of the Material interface.
type material struct {
	name           string
	ambient        mgl32.Vec4
	diffuse        mgl32.Vec4
	specular       mgl32.Vec4
	shininess      float32
	diffuseTexture *common.ImportedTexture
	normalTexture  *common.ImportedTexture
}

// Material defines the Phong surface response of an object: ambient, diffuse and
// specular RGBA reflectances, a specular exponent and optional texture references.
//
// Materials are immutable after construction; Clone with extra options to derive a variant.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the ambient reflectance.
	//
	// Returns:
	//   - mgl32.Vec4: RGBA ambient color
	Ambient() mgl32.Vec4

	// Diffuse retrieves the diffuse reflectance. Its alpha is the fragment alpha.
	//
	// Returns:
	//   - mgl32.Vec4: RGBA diffuse color
	Diffuse() mgl32.Vec4

	// Specular retrieves the specular reflectance.
	//
	// Returns:
	//   - mgl32.Vec4: RGBA specular color
	Specular() mgl32.Vec4

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the Phong exponent
	Shininess() float32

	// DiffuseTexture retrieves the diffuse texture reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// NormalTexture retrieves the tangent-space normal map reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the normal texture, or nil
	NormalTexture() *common.ImportedTexture

	// SetUniforms writes the material.* uniforms of the current program.
	//
	// Parameters:
	//   - w: the program in use
	SetUniforms(w UniformWriter)

	// Clone returns a copy of the material with additional options applied.
	//
	// Parameters:
	//   - options: options applied on top of the copied values
	//
	// Returns:
	//   - Material: the derived material
	Clone(options ...MaterialBuilderOption) Material
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults are a matte light grey surface.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
		diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		specular:  mgl32.Vec4{0, 0, 0, 1},
		shininess: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() mgl32.Vec4 {
	return m.ambient
}

func (m *material) Diffuse() mgl32.Vec4 {
	return m.diffuse
}

func (m *material) Specular() mgl32.Vec4 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) NormalTexture() *common.ImportedTexture {
	return m.normalTexture
}

func (m *material) SetUniforms(w UniformWriter) {
	w.SetVec4("material.ambient", m.ambient)
	w.SetVec4("material.diffuse", m.diffuse)
	w.SetVec4("material.specular", m.specular)
	w.SetFloat("material.shininess", m.shininess)
}

func (m *material) Clone(options ...MaterialBuilderOption) Material {
	c := *m
	for _, opt := range options {
		opt(&c)
	}
	return &c
}
