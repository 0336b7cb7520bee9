package loader

import (
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// xmlLoaderBackend reads the markup mesh format:
//
//	<mesh name="crate" positions="x y z ..." normals="..." texcoords="u v ..." indices="0 1 2 ...">
//	  <material ambient="r g b [a]" diffuse="..." specular="..." shininess="32" texture="crate.png"/>
//	</mesh>
//
// The <mesh> element may be the document root or the first <mesh> child of it.
// Missing normals are computed by averaging face normals.
type xmlLoaderBackend struct{}

var _ loaderBackend = &xmlLoaderBackend{}

type xmlMesh struct {
	Name      string       `xml:"name,attr"`
	Positions string       `xml:"positions,attr"`
	Normals   string       `xml:"normals,attr"`
	TexCoords string       `xml:"texcoords,attr"`
	Indices   string       `xml:"indices,attr"`
	Material  *xmlMaterial `xml:"material"`
	Meshes    []xmlMesh    `xml:"mesh"`
}

type xmlMaterial struct {
	Name      string `xml:"name,attr"`
	Ambient   string `xml:"ambient,attr"`
	Diffuse   string `xml:"diffuse,attr"`
	Specular  string `xml:"specular,attr"`
	Shininess string `xml:"shininess,attr"`
	Texture   string `xml:"texture,attr"`
}

func (b *xmlLoaderBackend) Decode(name string, r io.Reader, dir string, _ opener) (*Mesh, error) {
	dec := xml.NewDecoder(r)
	var root xmlMesh
	if err := dec.Decode(&root); err != nil {
		line, _ := dec.InputPos()
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			line = se.Line
		}
		return nil, malformed(name, line, "%v", err)
	}
	line, _ := dec.InputPos()
	errf := func(format string, args ...any) error {
		return malformed(name, line, format, args...)
	}

	m := root
	if m.Positions == "" {
		if len(root.Meshes) == 0 {
			return nil, errf("no <mesh> element with positions")
		}
		m = root.Meshes[0]
	}

	pos, err := parseFloats(m.Positions)
	if err != nil {
		return nil, errf("positions: %v", err)
	}
	if len(pos) == 0 || len(pos)%3 != 0 {
		return nil, errf("positions: %d values is not a positive multiple of 3", len(pos))
	}
	g := object.Geometry{Points: toVec3(pos)}
	n := len(g.Points)

	idx, err := parseIndices(m.Indices)
	if err != nil {
		return nil, errf("indices: %v", err)
	}
	if len(idx) == 0 || len(idx)%3 != 0 {
		return nil, errf("indices: %d values is not a positive multiple of 3", len(idx))
	}
	for _, i := range idx {
		if int(i) >= n {
			return nil, errf("indices: %d out of range (%d vertices)", i, n)
		}
	}
	g.Indices = idx

	if m.Normals != "" {
		nrm, err := parseFloats(m.Normals)
		if err != nil {
			return nil, errf("normals: %v", err)
		}
		if len(nrm) != 3*n {
			return nil, errf("normals: %d values for %d vertices", len(nrm), n)
		}
		g.Normals = toVec3(nrm)
	} else {
		g.Normals = smoothNormals(g.Points, g.Indices)
	}

	if m.TexCoords != "" {
		tc, err := parseFloats(m.TexCoords)
		if err != nil {
			return nil, errf("texcoords: %v", err)
		}
		if len(tc) != 2*n {
			return nil, errf("texcoords: %d values for %d vertices", len(tc), n)
		}
		g.TexCoords = make([]mgl32.Vec2, n)
		for i := range g.TexCoords {
			g.TexCoords[i] = mgl32.Vec2{tc[2*i], tc[2*i+1]}
		}
	}

	meshName := m.Name
	if meshName == "" {
		meshName = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	mat, err := m.Material.material(meshName, dir)
	if err != nil {
		return nil, errf("material: %v", err)
	}
	return &Mesh{Name: meshName, Geometry: g, Material: mat}, nil
}

func (x *xmlMaterial) material(meshName, dir string) (material.Material, error) {
	if x == nil {
		return material.NewMaterial(material.WithName(meshName)), nil
	}
	name := x.Name
	if name == "" {
		name = meshName
	}
	opts := []material.MaterialBuilderOption{material.WithName(name)}
	for _, c := range []struct {
		attr string
		with func(mgl32.Vec4) material.MaterialBuilderOption
	}{
		{x.Ambient, material.WithAmbient},
		{x.Diffuse, material.WithDiffuse},
		{x.Specular, material.WithSpecular},
	} {
		if c.attr == "" {
			continue
		}
		col, err := parseColor(c.attr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, c.with(col))
	}
	if x.Shininess != "" {
		s, err := strconv.ParseFloat(strings.TrimSpace(x.Shininess), 32)
		if err != nil {
			return nil, err
		}
		opts = append(opts, material.WithShininess(float32(s)))
	}
	if x.Texture != "" {
		tex := x.Texture
		if !filepath.IsAbs(tex) {
			tex = filepath.Join(dir, tex)
		}
		opts = append(opts, material.WithTextureFile(tex))
	}
	return material.NewMaterial(opts...), nil
}

func parseFloats(s string) ([]float32, error) {
	fields := strings.Fields(s)
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseIndices(s string) ([]uint32, error) {
	fields := strings.Fields(s)
	out := make([]uint32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, err
		}
		out[i] = uint32(v)
	}
	return out, nil
}

// parseColor accepts "r g b" (alpha 1) or "r g b a".
func parseColor(s string) (mgl32.Vec4, error) {
	v, err := parseFloats(s)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	switch len(v) {
	case 3:
		return mgl32.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
	default:
		return mgl32.Vec4{}, errors.New("color needs 3 or 4 components, got " + strconv.Itoa(len(v)))
	}
}

func toVec3(f []float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(f)/3)
	for i := range out {
		out[i] = mgl32.Vec3{f[3*i], f[3*i+1], f[3*i+2]}
	}
	return out
}
