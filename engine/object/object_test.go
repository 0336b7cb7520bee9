package object

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	geometry Geometry
	material material.Material
	err      error
	calls    int
}

func (s *stubLoader) LoadGeometry(path string) (Geometry, material.Material, error) {
	s.calls++
	return s.geometry, s.material, s.err
}

func TestBoxBuilder(t *testing.T) {
	b := NewBoxBuilder(WithPosition(mgl32.Vec3{0, 5, 0}), WithMass(2), WithName("crate")).Sides(1, 1, 1)
	box, err := b.Create()
	require.NoError(t, err)

	assert.Equal(t, KindBox, box.Kind())
	assert.Equal(t, "crate", box.Name())
	assert.Equal(t, 12, box.TriangleCount())
	assert.False(t, box.IsStatic())
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, box.Position())
	require.NotNil(t, box.Body())
	assert.Equal(t, float32(2), box.Body().Mass())
	assert.Equal(t, box.Shape().CalculateLocalInertia(2), box.Inertia())
	assert.Equal(t, physics.ShapeBox, box.Shape().Kind())

	// parameters persist
	again, err := b.Create()
	require.NoError(t, err)
	assert.Greater(t, again.ID(), box.ID())
	assert.Equal(t, box.Position(), again.Position())
	assert.NotSame(t, box.Body(), again.Body())
}

func TestBuildersRequireParameters(t *testing.T) {
	tests := []struct {
		name   string
		create func() (*Object, error)
	}{
		{"box without sides", NewBoxBuilder().Create},
		{"box with zero side", NewBoxBuilder().Sides(1, 0, 1).Create},
		{"plane without side", NewPlaneBuilder().Create},
		{"mirror without side", NewMirrorBuilder().Create},
		{"bulb without radius", NewLightBulbBuilder().Create},
		{"mesh without source", NewMeshBuilder().Loader(&stubLoader{}).Create},
		{"mesh without loader", NewMeshBuilder().Source("teapot.obj").Create},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := tt.create()
			assert.Nil(t, o)
			assert.ErrorIs(t, err, ErrMissingParameter)
		})
	}
}

func TestDefaultNameIsUnique(t *testing.T) {
	b := NewBoxBuilder().Sides(1, 1, 1)
	a, err := b.Create()
	require.NoError(t, err)
	c, err := b.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, a.Name())
	assert.NotEqual(t, a.Name(), c.Name())
}

func TestExplicitInertiaOverridesShape(t *testing.T) {
	box, err := NewBoxBuilder(WithMass(1), WithInertia(mgl32.Vec3{7, 8, 9})).Sides(1, 1, 1).Create()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{7, 8, 9}, box.Inertia())
	assert.Equal(t, mgl32.Vec3{7, 8, 9}, box.Body().LocalInertia())
}

func TestPlaneShapes(t *testing.T) {
	static, err := NewPlaneBuilder().Side(10).TextureRepeat(5).Create()
	require.NoError(t, err)
	assert.True(t, static.IsStatic())
	require.Equal(t, physics.ShapeBox, static.Shape().Kind())
	assert.Equal(t, mgl32.Vec3{5, planeThickness, 5}, static.Shape().(*physics.BoxShape).HalfExtents)
	assert.Equal(t, mgl32.Vec2{5, 5}, static.Geometry().TexCoords[2])

	ground, err := NewPlaneBuilder().Side(10).Infinite().Create()
	require.NoError(t, err)
	assert.Equal(t, physics.ShapeStaticPlane, ground.Shape().Kind())

	dynamic, err := NewPlaneBuilder(WithMass(1)).Side(2).Infinite().Create()
	require.NoError(t, err)
	assert.Equal(t, physics.ShapeBox, dynamic.Shape().Kind())
}

func TestMirrorIsAlwaysStatic(t *testing.T) {
	m, err := NewMirrorBuilder(WithMass(5)).Side(3).Create()
	require.NoError(t, err)
	assert.Equal(t, KindMirror, m.Kind())
	assert.True(t, m.IsStatic())
	assert.Equal(t, float32(0), m.Body().Mass())
	require.Equal(t, physics.ShapeBox, m.Shape().Kind())
	assert.Equal(t, mgl32.Vec3{1.5, planeThickness, 1.5}, m.Shape().(*physics.BoxShape).HalfExtents)
}

func TestLightBulb(t *testing.T) {
	bulb, err := NewLightBulbBuilder(WithPosition(mgl32.Vec3{1, 3, 1})).Radius(0.2).Color(mgl32.Vec4{1, 0.9, 0.6, 1}).Create()
	require.NoError(t, err)
	assert.Equal(t, KindLightBulb, bulb.Kind())
	assert.True(t, bulb.IsStatic())
	assert.Equal(t, mgl32.Vec4{1, 0.9, 0.6, 1}, bulb.Emissive())
	assert.Equal(t, physics.ShapeSphere, bulb.Shape().Kind())
	require.NoError(t, bulb.Geometry().Validate())
}

func TestMeshBuilder(t *testing.T) {
	loader := &stubLoader{
		geometry: Geometry{
			Points:    []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 4, 0}},
			Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
			Indices:   []uint32{0, 1, 2},
		},
		material: material.NewMaterial(material.WithName("file"), material.WithShininess(10)),
	}
	mesh, err := NewMeshBuilder(WithDiffuse(mgl32.Vec4{0, 1, 0, 1})).Source("tri.obj").Loader(loader).Create()
	require.NoError(t, err)

	assert.Equal(t, KindMesh, mesh.Kind())
	assert.Equal(t, 1, mesh.TriangleCount())
	assert.Len(t, mesh.Geometry().Tangents, 3)
	assert.Equal(t, "file", mesh.Material().Name())
	assert.Equal(t, float32(10), mesh.Material().Shininess())
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, mesh.Material().Diffuse())

	box, ok := mesh.Shape().(*physics.BoxShape)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, minHalfExtent}, box.HalfExtents)
}

func TestMeshBuilderPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewMeshBuilder().Source("x.obj").Loader(&stubLoader{err: boom}).Create()
	assert.ErrorIs(t, err, boom)

	_, err = NewMeshBuilder().Source("x.obj").Loader(&stubLoader{geometry: Geometry{}}).Create()
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestSyncFromBody(t *testing.T) {
	ball, err := NewLightBulbBuilder(WithMass(1), WithPosition(mgl32.Vec3{0, 10, 0})).Radius(0.5).Create()
	require.NoError(t, err)

	engine := physics.NewEngine()
	require.NoError(t, engine.AddRigidBody(ball.Body()))
	engine.StepSimulation(1.0/60, 1, 1.0/60)

	assert.Equal(t, float32(10), ball.Position().Y(), "entity changes only on sync")
	require.True(t, ball.SyncFromBody())
	assert.Less(t, ball.Position().Y(), float32(10))
	assert.Equal(t, ball.Transform().Matrix(), ball.ModelMatrix())

	engine.Close()
	assert.False(t, ball.SyncFromBody())
}

func TestSetTransformTeleportsBody(t *testing.T) {
	box, err := NewBoxBuilder(WithMass(1)).Sides(1, 1, 1).Create()
	require.NoError(t, err)

	box.SetTransform(Transform{Position: mgl32.Vec3{3, 4, 5}, Orientation: mgl32.Quat{W: 2}})
	assert.Equal(t, mgl32.QuatIdent(), box.Orientation())
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, box.Body().WorldTransform().Origin)
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, box.Body().MotionState().WorldTransform().Origin)
}

func TestGPUHandleAndRelease(t *testing.T) {
	box, err := NewBoxBuilder().Sides(1, 1, 1).Create()
	require.NoError(t, err)

	_, ok := box.GPUHandle()
	assert.False(t, ok)
	box.SetGPUHandle(GPUHandle{Owner: 3, Index: 1})
	h, ok := box.GPUHandle()
	assert.True(t, ok)
	assert.Equal(t, GPUHandle{Owner: 3, Index: 1}, h)

	assert.True(t, box.Release())
	assert.False(t, box.Release())
	assert.True(t, box.Released())
	assert.Nil(t, box.Body())
	_, ok = box.GPUHandle()
	assert.False(t, ok)
}
