package object

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidGeometry is wrapped by Geometry.Validate failures.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is an indexed triangle list. Normals, TexCoords and Tangents are
// per-vertex; TexCoords and Tangents may be empty.
type Geometry struct {
	Points    []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Tangents  []mgl32.Vec3
	Indices   []uint32
}

// Validate checks the per-vertex array lengths and the index range.
//
// Returns:
//   - error: an ErrInvalidGeometry-wrapped error describing the first violation
func (g Geometry) Validate() error {
	n := len(g.Points)
	if n == 0 {
		return fmt.Errorf("%w: no points", ErrInvalidGeometry)
	}
	if len(g.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d points", ErrInvalidGeometry, len(g.Normals), n)
	}
	if len(g.TexCoords) != 0 && len(g.TexCoords) != n {
		return fmt.Errorf("%w: %d texture coordinates for %d points", ErrInvalidGeometry, len(g.TexCoords), n)
	}
	if len(g.Tangents) != 0 && len(g.Tangents) != n {
		return fmt.Errorf("%w: %d tangents for %d points", ErrInvalidGeometry, len(g.Tangents), n)
	}
	if len(g.Indices) == 0 || len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a positive multiple of 3", ErrInvalidGeometry, len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInvalidGeometry, idx, i)
		}
	}
	return nil
}

// Bounds returns the axis-aligned extents of the points.
func (g Geometry) Bounds() (lo, hi mgl32.Vec3) {
	if len(g.Points) == 0 {
		return
	}
	lo, hi = g.Points[0], g.Points[0]
	for _, p := range g.Points[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], p[a])
			hi[a] = max(hi[a], p[a])
		}
	}
	return lo, hi
}

// boxFaces lists each face's outward normal and the in-plane axes u, v with u x v = normal,
// so that the corner order (-u-v, +u-v, +u+v, -u+v) is counter-clockwise seen from outside.
var boxFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

var quadUV = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
var quadSigns = [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// BoxGeometry builds a box centered on the origin with the given side lengths:
// 6 faces of 4 unshared vertices and two triangles each.
//
// Parameters:
//   - sides: the side lengths along x, y and z
//
// Returns:
//   - Geometry: 24 vertices with normals, texture coordinates and tangents, and 36 indices
func BoxGeometry(sides mgl32.Vec3) Geometry {
	half := sides.Mul(0.5)
	g := Geometry{
		Points:    make([]mgl32.Vec3, 0, 24),
		Normals:   make([]mgl32.Vec3, 0, 24),
		TexCoords: make([]mgl32.Vec2, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		center := mul(n, half)
		hu, hv := mul(u, half), mul(v, half)
		base := uint32(len(g.Points))
		for c := 0; c < 4; c++ {
			p := center.Add(hu.Mul(quadSigns[c][0])).Add(hv.Mul(quadSigns[c][1]))
			g.Points = append(g.Points, p)
			g.Normals = append(g.Normals, n)
			g.TexCoords = append(g.TexCoords, quadUV[c])
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	g.Tangents = ComputeTangents(g)
	return g
}

// PlaneGeometry builds a square of the given side in the XZ plane at y = 0 facing +Y.
//
// Parameters:
//   - side: the side length
//   - repeat: how many times the texture repeats along each edge
//
// Returns:
//   - Geometry: 4 vertices and 6 indices
func PlaneGeometry(side, repeat float32) Geometry {
	h := side / 2
	if repeat <= 0 {
		repeat = 1
	}
	g := Geometry{
		Points:    []mgl32.Vec3{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}},
		Normals:   []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		TexCoords: []mgl32.Vec2{{0, 0}, {repeat, 0}, {repeat, repeat}, {0, repeat}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	g.Tangents = ComputeTangents(g)
	return g
}

// SphereGeometry builds a UV sphere. Vertices are duplicated along the seam
// so texture coordinates stay continuous; pole triangles are not emitted twice.
//
// Parameters:
//   - radius: the sphere radius
//   - stacks: latitude bands (at least 2)
//   - slices: longitude segments (at least 3)
//
// Returns:
//   - Geometry: the sphere mesh with analytic normals and tangents
func SphereGeometry(radius float32, stacks, slices int) Geometry {
	stacks = max(stacks, 2)
	slices = max(slices, 3)
	var g Geometry
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		sp, cp := math.Sincos(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			st, ct := math.Sincos(theta)
			n := mgl32.Vec3{float32(sp * ct), float32(cp), float32(sp * st)}
			g.Points = append(g.Points, n.Mul(radius))
			g.Normals = append(g.Normals, n)
			g.TexCoords = append(g.TexCoords, mgl32.Vec2{float32(j) / float32(slices), 1 - float32(i)/float32(stacks)})
			g.Tangents = append(g.Tangents, mgl32.Vec3{float32(-st), 0, float32(ct)})
		}
	}
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			if i != 0 {
				g.Indices = append(g.Indices, a, a+1, b)
			}
			if i != stacks-1 {
				g.Indices = append(g.Indices, a+1, b+1, b)
			}
		}
	}
	return g
}

// ComputeTangents derives per-vertex tangents from triangle edges and texture
// coordinate deltas, orthogonalized against the vertex normal.
// Returns nil when the geometry has no texture coordinates.
//
// Parameters:
//   - g: the geometry to analyse
//
// Returns:
//   - []mgl32.Vec3: one unit tangent per vertex, or nil
func ComputeTangents(g Geometry) []mgl32.Vec3 {
	if len(g.TexCoords) != len(g.Points) || len(g.Normals) != len(g.Points) {
		return nil
	}
	acc := make([]mgl32.Vec3, len(g.Points))
	for t := 0; t+2 < len(g.Indices); t += 3 {
		i0, i1, i2 := g.Indices[t], g.Indices[t+1], g.Indices[t+2]
		e1 := g.Points[i1].Sub(g.Points[i0])
		e2 := g.Points[i2].Sub(g.Points[i0])
		d1 := g.TexCoords[i1].Sub(g.TexCoords[i0])
		d2 := g.TexCoords[i2].Sub(g.TexCoords[i0])
		det := d1.X()*d2.Y() - d2.X()*d1.Y()
		if math.Abs(float64(det)) < 1e-12 {
			continue
		}
		tangent := e1.Mul(d2.Y()).Sub(e2.Mul(d1.Y())).Mul(1 / det)
		acc[i0] = acc[i0].Add(tangent)
		acc[i1] = acc[i1].Add(tangent)
		acc[i2] = acc[i2].Add(tangent)
	}
	for i, t := range acc {
		n := g.Normals[i]
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.Len() < 1e-6 {
			t = perpendicular(n)
		}
		acc[i] = t.Normalize()
	}
	return acc
}

// perpendicular returns some unit vector orthogonal to n.
func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if math.Abs(float64(n.X())) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return n.Cross(axis).Normalize()
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
