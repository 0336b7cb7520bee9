package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs at most maxFrames loop iterations without a display.
type fakeWindow struct {
	width, height int
	maxFrames     int
	frames        int
	closed        bool
	stop          bool

	beforeFrame func(f *fakeWindow)

	onUpdate    func()
	onResize    func(width, height int)
	onKeyDown   func(uint32)
	onKeyUp     func(uint32)
	onMouseMove func(x, y float64)
}

var _ window.Window = &fakeWindow{}

func (f *fakeWindow) SetUpdateCallback(cb func())                  { f.onUpdate = cb }
func (f *fakeWindow) SetResizeCallback(cb func(width, height int)) { f.onResize = cb }
func (f *fakeWindow) SetScrollCallback(func(delta float32))        {}
func (f *fakeWindow) SetKeyDownCallback(cb func(uint32))           { f.onKeyDown = cb }
func (f *fakeWindow) SetKeyUpCallback(cb func(uint32))             { f.onKeyUp = cb }
func (f *fakeWindow) SetMouseMoveCallback(cb func(x, y float64))   { f.onMouseMove = cb }
func (f *fakeWindow) MakeCurrent()                                 {}
func (f *fakeWindow) IsRunning() bool                              { return !f.stop && !f.closed && f.frames < f.maxFrames }
func (f *fakeWindow) RequestClose()                                { f.stop = true }
func (f *fakeWindow) Width() int                                   { return f.width }
func (f *fakeWindow) Height() int                                  { return f.height }

func (f *fakeWindow) Close() error {
	f.closed = true
	return nil
}

func (f *fakeWindow) ProcessMessages() {
	for f.IsRunning() {
		f.frames++
		if f.beforeFrame != nil {
			f.beforeFrame(f)
		}
		if f.onUpdate != nil {
			f.onUpdate()
		}
	}
}

// withClock replaces the wall clock with one that advances by step on every read.
func withClock(step time.Duration) EngineBuilderOption {
	return func(e *engine) {
		t := time.Unix(0, 0)
		e.now = func() time.Time {
			t = t.Add(step)
			return t
		}
	}
}

func newTestEngine(t *testing.T, frames int, options ...EngineBuilderOption) (*engine, *fakeWindow, *gputest.Backend) {
	t.Helper()
	win := &fakeWindow{width: 800, height: 600, maxFrames: frames}
	backend := gputest.NewBackend()
	cfg := config.Default()
	cfg.Log.Level = "error"
	options = append([]EngineBuilderOption{
		WithConfig(cfg),
		WithWindow(win),
		WithBackend(backend),
		withClock(20 * time.Millisecond),
	}, options...)
	e, err := NewEngine(options...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e.(*engine), win, backend
}

func TestNewEngineFromConfig(t *testing.T) {
	e, win, backend := newTestEngine(t, 0)

	assert.Equal(t, mgl32.Vec3{0, 2, 10}, e.Camera().Position())
	assert.InDelta(t, 800.0/600.0, e.Camera().Aspect(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, -9.81, 0}, e.World().Gravity())
	assert.Equal(t, mgl32.Vec4{0.1, 0.1, 0.12, 1}, e.World().BackgroundColor())
	assert.Equal(t, int32(800), backend.ViewportW)
	assert.Equal(t, int32(600), backend.ViewportH)
	assert.NotNil(t, win.onUpdate)
	assert.NotNil(t, win.onKeyDown)
	assert.NotNil(t, win.onMouseMove)
	assert.NotNil(t, e.Loader())
	assert.NotNil(t, e.Lights())
}

func TestRunStepsAndDraws(t *testing.T) {
	e, win, backend := newTestEngine(t, 3)

	box, err := object.NewBoxBuilder(object.WithMass(1), object.WithPosition(mgl32.Vec3{0, 5, 0})).Sides(1, 1, 1).Create()
	require.NoError(t, err)
	require.NoError(t, e.World().AddObject(box))

	var deltas []float32
	e.SetTickCallback(func(dt float32) { deltas = append(deltas, dt) })

	require.NoError(t, e.Run())

	assert.Equal(t, 3, win.frames)
	assert.Len(t, backend.Draws, 3)
	assert.Equal(t, 1, e.drawer.Initialized())
	assert.Less(t, box.Position().Y(), float32(5))
	require.Len(t, deltas, 3)
	for _, dt := range deltas {
		assert.InDelta(t, 0.02, dt, 1e-6)
	}
	assert.Equal(t, uint64(3), e.profiler.Tick(time.Now()).Frames)
	assert.False(t, e.running.Load())
	assert.False(t, e.input.Running())
}

func TestKeyboardMovesCamera(t *testing.T) {
	e, win, _ := newTestEngine(t, 2)
	win.beforeFrame = func(f *fakeWindow) {
		if f.frames == 1 {
			f.onKeyDown(common.KeyW)
		}
	}

	require.NoError(t, e.Run())

	// forward is -Z at zero yaw; one step per frame
	assert.InDelta(t, 9.8, e.Camera().Position().Z(), 1e-5)

	win.onKeyUp(common.KeyW)
	win.maxFrames = 3
	require.NoError(t, e.Run())
	assert.InDelta(t, 9.8, e.Camera().Position().Z(), 1e-5)
}

func TestQuitCompletesCurrentFrame(t *testing.T) {
	e, win, _ := newTestEngine(t, 100)

	ticks := 0
	e.SetTickCallback(func(float32) {
		ticks++
		if ticks == 2 {
			e.Quit()
		}
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 2, win.frames)
	assert.Equal(t, 2, ticks)
}

func TestResizeUpdatesViewportAndAspect(t *testing.T) {
	e, win, backend := newTestEngine(t, 0)

	win.onResize(1000, 500)
	assert.InDelta(t, 2.0, e.Camera().Aspect(), 1e-6)
	assert.Equal(t, int32(1000), backend.ViewportW)

	// a minimized window reports zero and is ignored
	win.onResize(0, 0)
	assert.InDelta(t, 2.0, e.Camera().Aspect(), 1e-6)
}

func TestCloseReleasesWorldThenDrawer(t *testing.T) {
	e, win, backend := newTestEngine(t, 1)

	for i := range 3 {
		box, err := object.NewBoxBuilder(object.WithPosition(mgl32.Vec3{float32(i), 0, 0})).Sides(1, 1, 1).Create()
		require.NoError(t, err)
		require.NoError(t, e.World().AddObject(box))
	}
	require.NoError(t, e.Run())
	require.Greater(t, backend.Live(), 0)

	require.NoError(t, e.Close())
	assert.Zero(t, backend.Live())
	assert.Zero(t, backend.DoubleFrees)
	assert.True(t, win.closed)
	assert.Zero(t, e.drawer.Initialized())

	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Run(), ErrClosed)
}

func TestRunScriptAndPreload(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	dir := t.TempDir()

	model := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(model, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))
	require.NoError(t, e.Preload(model))
	require.NotNil(t, e.Loader().Get(model))

	src := `package setup

import "oxy"

func Build() {
	oxy.SetCamera(1, 2, 3, 0, 0)
	oxy.AddPlane(oxy.Side(10))
	oxy.AddMesh("` + filepath.ToSlash(model) + `", oxy.Position(0, 1, 0))
	oxy.AddPositionalLight(oxy.Position(0, 4, 0))
}
`
	script := filepath.Join(dir, "scene.go")
	require.NoError(t, os.WriteFile(script, []byte(src), 0o644))

	require.NoError(t, e.RunScript(script))
	assert.Equal(t, 2, e.World().Objects().Len())
	assert.Equal(t, 1, e.World().LightsNumber())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, e.Camera().Position())

	l, err := e.Lights().Positional()
	require.NoError(t, err)
	assert.Equal(t, 1, l.Slot())

	assert.Error(t, e.Preload(filepath.Join(dir, "missing.obj")))
}
