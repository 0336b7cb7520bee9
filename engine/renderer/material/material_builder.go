package material

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient is an option builder that sets the ambient reflectance.
//
// Parameters:
//   - color: RGBA ambient color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a material
func WithAmbient(color mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = color
	}
}

// WithDiffuse is an option builder that sets the diffuse reflectance.
//
// Parameters:
//   - color: RGBA diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(color mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = color
	}
}

// WithSpecular is an option builder that sets the specular reflectance.
//
// Parameters:
//   - color: RGBA specular color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(color mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.specular = color
	}
}

// WithShininess is an option builder that sets the specular exponent.
// Values below 1 are raised to 1.
//
// Parameters:
//   - shininess: the Phong exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = max(shininess, 1)
	}
}

// WithDiffuseTexture is an option builder that sets the diffuse texture reference.
//
// Parameters:
//   - tex: the texture to modulate the diffuse and ambient colors with
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

// WithTextureFile sets the diffuse texture to an image file on disk.
// An empty path clears the texture.
func WithTextureFile(path string) MaterialBuilderOption {
	return func(m *material) {
		if path == "" {
			m.diffuseTexture = nil
			return
		}
		m.diffuseTexture = &common.ImportedTexture{Path: path}
	}
}

// WithNormalTexture is an option builder that sets the normal map texture reference.
//
// Parameters:
//   - tex: the imported texture data for the normal map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal texture option to a material
func WithNormalTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.normalTexture = tex
	}
}
