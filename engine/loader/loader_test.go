package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = `# one triangle
mtllib tri.mtl
o tri
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
usemtl red
s off
f 1/1/1 2/2/1 3/3/1
`

const triangleMTL = `newmtl red
Ka 0.1 0 0
Kd 0.9 0 0
Ks 0.5 0.5 0.5
Ns 64
d 0.5
map_Kd -s 2 2 red.png
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadOBJTriangle(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triangleOBJ, "tri.mtl": triangleMTL})
	l := NewLoader()

	m, err := l.Load(filepath.Join(dir, "tri.obj"))
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name)
	assert.Len(t, m.Geometry.Points, 3)
	assert.Equal(t, []uint32{0, 1, 2}, m.Geometry.Indices)
	assert.Equal(t, mgl32.Vec2{1, 0}, m.Geometry.TexCoords[1])
	for _, n := range m.Geometry.Normals {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)
	}
	require.NoError(t, m.Geometry.Validate())

	mat := m.Material
	assert.Equal(t, "red", mat.Name())
	assert.Equal(t, mgl32.Vec4{0.9, 0, 0, 0.5}, mat.Diffuse())
	assert.Equal(t, float32(64), mat.Shininess())
	require.NotNil(t, mat.DiffuseTexture())
	assert.Equal(t, filepath.Join(dir, "red.png"), mat.DiffuseTexture().Path)

	again, err := l.Load(filepath.Join(dir, "tri.obj"))
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Same(t, m, l.Get(filepath.Join(dir, "tri.obj")))
}

func TestOBJFaceForms(t *testing.T) {
	src := `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vn 0 0 1
f 1 2 3
f 1//1 3//1 4//1
f -4/1 -3/1 -2/1 -1/1
`
	m, err := NewLoader().LoadReader("forms.obj", strings.NewReader(src), FormatOBJ)
	require.NoError(t, err)

	g := m.Geometry
	assert.Len(t, g.Indices, 12, "quad is fanned into two triangles")
	// three corner styles produce three distinct vertex sets: 3 + 3 + 4
	assert.Len(t, g.Points, 10)
	assert.Len(t, g.TexCoords, 10, "any texcoord makes the array per-vertex")
	require.NoError(t, g.Validate())

	// the first face had no normals, so they are computed for it
	assert.InDelta(t, 1, g.Normals[0].Z(), 1e-6)
	assert.Equal(t, "forms", m.Name)
	assert.NotNil(t, m.Material)
}

func TestOBJVertexSharing(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	m, err := NewLoader().LoadReader("quad", strings.NewReader(src), FormatOBJ)
	require.NoError(t, err)
	assert.Len(t, m.Geometry.Points, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Geometry.Indices)
	assert.Empty(t, m.Geometry.TexCoords)
}

func TestOBJMalformed(t *testing.T) {
	cases := map[string]struct {
		src  string
		line string
	}{
		"bad float":      {"v 0 0 0\nv 1 x 0\n", ":2:"},
		"short vertex":   {"v 0 0\n", ":1:"},
		"zero index":     {"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ":4:"},
		"out of range":   {"v 0 0 0\nv 1 0 0\nv 0 1 0\n\n# gap\nf 1 2 9\n", ":6:"},
		"two corners":    {"v 0 0 0\nf 1 1\n", ":2:"},
		"no faces":       {"v 0 0 0\n", ":1:"},
		"missing mtllib": {"mtllib nowhere.mtl\n", ":1:"},
		"bad smoothing":  {"s maybe\n", ":1:"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().LoadReader("bad.obj", strings.NewReader(tc.src), FormatOBJ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Contains(t, err.Error(), "bad.obj"+tc.line)
		})
	}
}

func TestMTLMalformed(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.obj": "mtllib a.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
		"a.mtl": "newmtl a\nKd 1 1\n",
	})
	_, err := NewLoader().Load(filepath.Join(dir, "a.obj"))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "a.mtl:2:")
}

const crateXML = `<?xml version="1.0"?>
<model>
  <mesh name="crate"
        positions="0 0 0  1 0 0  0 1 0"
        texcoords="0 0  1 0  0 1"
        indices="0 1 2">
    <material diffuse="0.2 0.4 0.6" specular="1 1 1 1" shininess="16" texture="crate.png"/>
  </mesh>
</model>
`

func TestLoadXML(t *testing.T) {
	dir := writeFiles(t, map[string]string{"crate.xml": crateXML})
	l := NewLoader()
	g, mat, err := l.LoadGeometry(filepath.Join(dir, "crate.xml"))
	require.NoError(t, err)

	assert.Len(t, g.Points, 3)
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	assert.Len(t, g.TexCoords, 3)
	require.Len(t, g.Normals, 3)
	assert.InDelta(t, 1, g.Normals[0].Z(), 1e-6, "normals computed from winding")

	assert.Equal(t, "crate", mat.Name())
	assert.Equal(t, mgl32.Vec4{0.2, 0.4, 0.6, 1}, mat.Diffuse())
	assert.Equal(t, float32(16), mat.Shininess())
	assert.Equal(t, filepath.Join(dir, "crate.png"), mat.DiffuseTexture().Path)
}

func TestXMLMalformed(t *testing.T) {
	cases := map[string]string{
		"syntax":        "<mesh positions=\"0 0 0\"\n<oops",
		"no mesh":       "<model></model>",
		"ragged":        `<mesh positions="0 0 0 1" indices="0 0 0"/>`,
		"index range":   `<mesh positions="0 0 0 1 0 0 0 1 0" indices="0 1 3"/>`,
		"normals count": `<mesh positions="0 0 0 1 0 0 0 1 0" normals="0 0 1" indices="0 1 2"/>`,
		"bad color":     `<mesh positions="0 0 0 1 0 0 0 1 0" indices="0 1 2"><material diffuse="1 1"/></mesh>`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().LoadReader("bad.xml", strings.NewReader(src), FormatXML)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), "bad.xml:")
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := NewLoader().Load("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadAll(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"tri.obj":   triangleOBJ,
		"tri.mtl":   triangleMTL,
		"crate.xml": crateXML,
		"bad.obj":   "v 1 2\n",
	})
	l := NewLoader(WithWorkers(2))
	paths := []string{
		filepath.Join(dir, "tri.obj"),
		filepath.Join(dir, "crate.xml"),
		filepath.Join(dir, "bad.obj"),
		filepath.Join(dir, "tri.obj"),
	}
	meshes, err := l.LoadAll(paths...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	require.Len(t, meshes, 4)
	assert.Equal(t, "tri", meshes[0].Name)
	assert.Equal(t, "crate", meshes[1].Name)
	assert.Nil(t, meshes[2])
	assert.Same(t, meshes[0], meshes[3])
	assert.Len(t, l.Meshes(), 2)
}

func TestLoaderFeedsMeshBuilder(t *testing.T) {
	dir := writeFiles(t, map[string]string{"crate.xml": crateXML})
	o, err := object.NewMeshBuilder(object.WithMass(1)).
		Loader(NewLoader()).
		Source(filepath.Join(dir, "crate.xml")).
		Create()
	require.NoError(t, err)
	assert.Equal(t, object.KindMesh, o.Kind())
	assert.Equal(t, 1, o.TriangleCount())
	assert.Len(t, o.Geometry().Tangents, 3)
}

func TestPrepopulatedCache(t *testing.T) {
	m := &Mesh{Name: "cached"}
	l := NewLoader(WithMesh("virtual.obj", m))
	got, err := l.Load("virtual.obj")
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestLoadOBJSharedNormalSample(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"

	m, err := NewLoader().LoadReader("sample.obj", strings.NewReader(src), FormatOBJ)
	require.NoError(t, err)
	assert.Len(t, m.Geometry.Points, 3)
	assert.Len(t, m.Geometry.Normals, 3)
	assert.Empty(t, m.Geometry.TexCoords)
	assert.Equal(t, []uint32{0, 1, 2}, m.Geometry.Indices)
}
