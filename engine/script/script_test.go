package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneScript = `package setup

import "oxy"

func Build() {
	oxy.SetGravity(0, -5, 0)
	oxy.SetBackground(0, 0, 0.2, 1)
	oxy.SetAmbient(0.3, 0.3, 0.3, 1)
	oxy.SetCamera(0, 3, 12, 10, -15)

	oxy.AddPlane(oxy.Name("floor"), oxy.Side(40), oxy.Repeat(8), oxy.Infinite())
	for i := 0; i < 3; i++ {
		oxy.AddBox(oxy.Position(float32(i), 4+float32(i), 0), oxy.Size(1, 2, 1), oxy.Mass(1), oxy.Diffuse(1, 0, 0, 1))
	}
	oxy.AddMirror(oxy.Position(0, 2, -5), oxy.Rotation(0, 90, 0), oxy.Side(4))
	oxy.AddLightBulb(oxy.Position(2, 6, 2), oxy.Radius(0.2), oxy.Color(1, 1, 0.8, 1))

	oxy.AddDirectionalLight(oxy.Direction(0, -1, -1))
	oxy.AddPositionalLight(oxy.Position(2, 6, 2), oxy.Attenuation(1, 0.09, 0.032))
	oxy.AddSpotLight(oxy.Position(0, 8, 0), oxy.Direction(0, -1, 0), oxy.Cutoff(25), oxy.Exponent(8))
}
`

func TestRunBuildsScene(t *testing.T) {
	w := world.NewWorld()
	defer w.Close()
	cam := camera.NewCamera()

	require.NoError(t, NewRunner(w, cam).RunSource("scene.go", sceneScript))

	objs := w.Objects()
	require.Equal(t, 6, objs.Len())
	assert.Equal(t, "floor", objs.At(0).Name())
	assert.Equal(t, object.KindPlane, objs.At(0).Kind())
	assert.Equal(t, physics.ShapeStaticPlane, objs.At(0).Shape().Kind())
	assert.Equal(t, physics.ShapeBox, objs.At(4).Shape().Kind())
	assert.Equal(t, object.KindBox, objs.At(1).Kind())
	assert.Equal(t, float32(1), objs.At(1).Mass())
	assert.Equal(t, mgl32.Vec3{1, 5, 0}, objs.At(2).Position())
	assert.Equal(t, object.KindMirror, objs.At(4).Kind())
	assert.Equal(t, object.KindLightBulb, objs.At(5).Kind())
	assert.Equal(t, mgl32.Vec4{1, 1, 0.8, 1}, objs.At(5).Emissive())

	lights := w.Lights()
	require.Equal(t, 3, lights.Len())
	for i, l := range lights.All() {
		assert.Equal(t, i, l.Slot())
	}
	assert.Equal(t, light.LightTypeSpot, lights.At(2).Type())
	assert.InDelta(t, 25, lights.At(2).Cutoff(), 1e-5)

	assert.Equal(t, mgl32.Vec3{0, -5, 0}, w.Gravity())
	assert.Equal(t, mgl32.Vec4{0, 0, 0.2, 1}, w.BackgroundColor())
	assert.Equal(t, mgl32.Vec4{0.3, 0.3, 0.3, 1}, w.AmbientColor())
	assert.Equal(t, mgl32.Vec3{0, 3, 12}, cam.Position())
	assert.Equal(t, float32(10), cam.Yaw())
	assert.Equal(t, float32(-15), cam.Pitch())
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.go")
	require.NoError(t, os.WriteFile(path, []byte(sceneScript), 0o644))

	w := world.NewWorld()
	defer w.Close()
	require.NoError(t, NewRunner(w, camera.NewCamera()).Run(path))
	assert.Equal(t, 6, w.Objects().Len())

	assert.Error(t, NewRunner(w, nil).Run(filepath.Join(t.TempDir(), "none.go")))
}

type fixedLoader struct{}

func (fixedLoader) LoadGeometry(string) (object.Geometry, material.Material, error) {
	return object.BoxGeometry(mgl32.Vec3{1, 1, 1}), material.NewMaterial(material.WithName("crate")), nil
}

func TestAddMeshUsesLoader(t *testing.T) {
	src := `package setup
import "oxy"
func Setup() { oxy.AddMesh("crate.obj", oxy.Position(0, 1, 0)) }
`
	w := world.NewWorld()
	defer w.Close()

	err := NewRunner(w, nil, WithEntry("Setup")).RunSource("mesh.go", src)
	require.ErrorIs(t, err, ErrNoLoader)

	require.NoError(t, NewRunner(w, nil, WithEntry("Setup"), WithLoader(fixedLoader{})).RunSource("mesh.go", src))
	require.Equal(t, 1, w.Objects().Len())
	assert.Equal(t, object.KindMesh, w.Objects().At(0).Kind())
	assert.Equal(t, "crate", w.Objects().At(0).Material().Name())
}

func TestSharedLightBuilder(t *testing.T) {
	w := world.NewWorld()
	defer w.Close()
	lb := light.NewBuilder()
	first, err := lb.Directional()
	require.NoError(t, err)
	require.NoError(t, w.AddLight(first))

	src := `package setup
import "oxy"
func Build() { oxy.AddPositionalLight(oxy.Position(1, 1, 1)) }
`
	require.NoError(t, NewRunner(w, nil, WithLightBuilder(lb)).RunSource("l.go", src))
	assert.Equal(t, 1, w.Lights().At(1).Slot())
}

func TestRejectedLightGivesSlotBack(t *testing.T) {
	lb := light.NewBuilder()
	closed := world.NewWorld()
	closed.Close()

	src := `package setup
import "oxy"
func Build() { oxy.AddSpotLight(oxy.Position(0, 4, 0)) }
`
	for range light.MaxLights + 1 {
		err := NewRunner(closed, nil, WithLightBuilder(lb)).RunSource("l.go", src)
		require.ErrorIs(t, err, world.ErrWorldClosed)
	}
	assert.Zero(t, lb.Count())

	w := world.NewWorld()
	defer w.Close()
	require.NoError(t, NewRunner(w, nil, WithLightBuilder(lb)).RunSource("l.go", src))
	assert.Equal(t, 0, w.Lights().At(0).Slot())
}

func TestRunErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		want error
	}{
		"syntax":    {src: "package setup\nfunc Build() {", want: nil},
		"no entry":  {src: "package setup\nfunc Other() {}\n", want: ErrNoEntry},
		"bad entry": {src: "package setup\nfunc Build(n int) {}\n", want: ErrNoEntry},
		"no camera": {src: "package setup\nimport \"oxy\"\nfunc Build() { oxy.SetCamera(0, 0, 0, 0, 0) }\n", want: ErrNoCamera},
		"bad box":   {src: "package setup\nimport \"oxy\"\nfunc Build() { oxy.AddBox(oxy.Size(0, 1, 1)) }\n", want: object.ErrMissingParameter},
		"panic":     {src: "package setup\nfunc Build() { var m map[string]int; m[\"x\"] = 1 }\n", want: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := world.NewWorld()
			defer w.Close()
			err := NewRunner(w, nil).RunSource(name+".go", tc.src)
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestNewRunnerRequiresWorld(t *testing.T) {
	assert.Panics(t, func() { NewRunner(nil, nil) })
}
