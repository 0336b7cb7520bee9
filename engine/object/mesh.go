package object

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// MeshLoader reads geometry and its material from a model file.
type MeshLoader interface {
	// LoadGeometry loads (or returns a cached copy of) the mesh at path.
	//
	// Parameters:
	//   - path: the model file
	//
	// Returns:
	//   - Geometry: the triangle mesh
	//   - material.Material: the file's material, or nil
	//   - error: read or parse error
	LoadGeometry(path string) (Geometry, material.Material, error)
}

// minHalfExtent keeps the collision box of flat meshes from collapsing.
const minHalfExtent = 0.005

// MeshBuilder creates objects from model files. The collision shape is the
// box spanned by the mesh bounds.
type MeshBuilder struct {
	params
	source string
	loader MeshLoader
}

// NewMeshBuilder creates a mesh builder. Source and Loader must be set before Create.
func NewMeshBuilder(options ...Option) *MeshBuilder {
	return &MeshBuilder{params: newParams(options)}
}

// Set applies more shared options. They persist for later Create calls.
func (b *MeshBuilder) Set(options ...Option) *MeshBuilder {
	b.apply(options)
	return b
}

// Source sets the model file path.
func (b *MeshBuilder) Source(path string) *MeshBuilder {
	b.source = path
	return b
}

// Loader sets the loader used to read the source.
func (b *MeshBuilder) Loader(l MeshLoader) *MeshBuilder {
	b.loader = l
	return b
}

// Create loads the source and builds a mesh object. Material options given to
// the builder are applied on top of the file's material.
//
// Returns:
//   - *Object: the mesh
//   - error: ErrMissingParameter without a source or loader, or the loader's error
func (b *MeshBuilder) Create() (*Object, error) {
	if b.source == "" {
		return nil, fmt.Errorf("mesh: %w: source file", ErrMissingParameter)
	}
	if b.loader == nil {
		return nil, fmt.Errorf("mesh: %w: loader", ErrMissingParameter)
	}
	g, m, err := b.loader.LoadGeometry(b.source)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", b.source, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %s: %w", b.source, err)
	}
	if len(g.TexCoords) != 0 && len(g.Tangents) == 0 {
		g.Tangents = ComputeTangents(g)
	}
	if m == nil {
		m = material.NewMaterial()
	}

	o := newObject(KindMesh, b.objectName())
	o.geometry = g
	o.material = m.Clone(b.material...)

	lo, hi := g.Bounds()
	half := hi.Sub(lo).Mul(0.5)
	for a := 0; a < 3; a++ {
		half[a] = max(half[a], minHalfExtent)
	}
	return b.finish(o, physics.NewBoxShape(half), b.mass), nil
}
