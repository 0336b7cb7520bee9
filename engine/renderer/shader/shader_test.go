package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu/gputest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedProgramsReflectUniforms(t *testing.T) {
	backend := gputest.NewBackend()
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			p, err := NewProgram(backend, k)
			require.NoError(t, err)
			defer p.Close()

			for _, name := range requiredUniforms(k) {
				assert.True(t, p.HasUniform(name), name)
			}
			_, ok := p.Attribute("vertexPosition")
			assert.True(t, ok)
			assert.Equal(t, k.Lit(), p.HasUniform("lights[0].diffuse"))
		})
	}
}

func TestLitProgramsExposeEveryLightSlot(t *testing.T) {
	p, err := NewProgram(gputest.NewBackend(), KindPhong)
	require.NoError(t, err)

	assert.True(t, p.HasUniform("lights[7].cutoff"))
	assert.False(t, p.HasUniform("lights[8].cutoff"))
}

func TestLightedObjectAttributes(t *testing.T) {
	p, err := NewProgram(gputest.NewBackend(), KindLightedObject)
	require.NoError(t, err)

	for _, name := range []string{"vertexPosition", "vertexNormal", "vertexTextureCoordinates", "vertexTangent"} {
		_, ok := p.Attribute(name)
		assert.True(t, ok, name)
	}
	_, ok := p.Attribute("vertexColor")
	assert.False(t, ok)
}

func TestSettersWriteToBackend(t *testing.T) {
	backend := gputest.NewBackend()
	p, err := NewProgram(backend, KindPhong)
	require.NoError(t, err)
	p.Use()

	p.SetInt("lightsNumber", 3)
	p.SetFloat("material.shininess", 32)
	p.SetVec4("ambientColor", mgl32.Vec4{0.1, 0.2, 0.3, 1})
	p.SetMat4("projectionMatrix", mgl32.Ident4())
	p.SetMat3("normalMatrix", mgl32.Ident3())
	p.SetVec3("lights[1].position", mgl32.Vec3{1, 2, 3})

	h := p.Handle()
	v, _ := backend.Uniform(h, "lightsNumber")
	assert.Equal(t, int32(3), v)
	v, _ = backend.Uniform(h, "material.shininess")
	assert.Equal(t, float32(32), v)
	v, _ = backend.Uniform(h, "ambientColor")
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 1}, v)
	v, _ = backend.Uniform(h, "lights[1].position")
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, v)
}

func TestUnknownUniformIsIgnored(t *testing.T) {
	backend := gputest.NewBackend()
	p, err := NewProgram(backend, KindLightBulb)
	require.NoError(t, err)
	p.Use()

	assert.NotPanics(t, func() {
		p.SetVec4("material.diffuse", mgl32.Vec4{1, 1, 1, 1})
		p.SetVec4("material.diffuse", mgl32.Vec4{1, 1, 1, 1})
	})
	assert.Empty(t, backend.Uniforms[p.Handle()])
}

func TestCompileFailure(t *testing.T) {
	_, err := NewProgram(gputest.NewBackend(), KindPhong, WithSource("#error broken", "void main() {}"))
	require.ErrorIs(t, err, gputest.ErrCompile)
}

func TestPreProcessFailureNamesStage(t *testing.T) {
	_, err := NewProgram(gputest.NewBackend(), KindPhong, WithSource("void main() {}", "//@oxy:include fog"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fragment pre-process")
}

func TestSourceDirAndReload(t *testing.T) {
	dir := t.TempDir()
	vs, fs := EmbeddedSource(KindMirror)
	vsPath := filepath.Join(dir, "mirror.vert")
	fsPath := filepath.Join(dir, "mirror.frag")
	require.NoError(t, os.WriteFile(vsPath, []byte(vs), 0o644))
	require.NoError(t, os.WriteFile(fsPath, []byte(fs), 0o644))

	backend := gputest.NewBackend()
	p, err := NewProgram(backend, KindMirror, WithSourceDir(dir))
	require.NoError(t, err)

	gotVS, gotFS := p.Paths()
	assert.Equal(t, vsPath, gotVS)
	assert.Equal(t, fsPath, gotFS)

	first := p.Handle()
	assert.Equal(t, 1, ReloadChanged([]Program{p}, fsPath))
	assert.NotEqual(t, first, p.Handle())
	assert.False(t, backend.Programs[first], "old program is deleted after relink")

	// a broken edit keeps the previous program
	current := p.Handle()
	require.NoError(t, os.WriteFile(fsPath, []byte("#error oops"), 0o644))
	assert.Equal(t, 0, ReloadChanged([]Program{p}, fsPath))
	assert.Equal(t, current, p.Handle())
	assert.True(t, backend.Programs[current])

	assert.Equal(t, 0, ReloadChanged([]Program{p}, filepath.Join(dir, "phong.frag")))
}

func TestSourceDirFallsBackToEmbedded(t *testing.T) {
	p, err := NewProgram(gputest.NewBackend(), KindPhong, WithSourceDir(t.TempDir()))
	require.NoError(t, err)

	vs, fs := p.Paths()
	assert.Empty(t, vs)
	assert.Empty(t, fs)
	assert.True(t, p.HasUniform("normalMatrix"))
}

func TestCloseIsIdempotent(t *testing.T) {
	backend := gputest.NewBackend()
	p, err := NewProgram(backend, KindPhong)
	require.NoError(t, err)

	p.Close()
	p.Close()
	assert.Zero(t, p.Handle())
	assert.Zero(t, backend.DoubleFrees)
	assert.Empty(t, backend.Programs)
}
