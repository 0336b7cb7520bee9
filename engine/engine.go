package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/input"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/physics"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/opengl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/script"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/Carmen-Shannon/oxy-gl/engine/world"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrRunning is returned by Run while a frame loop is already active.
var ErrRunning = errors.New("engine is already running")

// ErrClosed is returned when running a closed engine.
var ErrClosed = errors.New("engine is closed")

// engine implements the Engine interface.
// Every collaborator that touches the GL context is used from the thread that created the window.
type engine struct {
	mu sync.Mutex

	cfg config.Config

	window     window.Window
	backend    gpu.Backend
	programs   *renderer.ProgramSet
	drawer     renderer.Drawer
	watcher    shader.Watcher
	world      world.World
	camera     camera.Camera
	controller camera.Controller
	input      input.Manager
	loader     loader.Loader
	lights     *light.Builder

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(deltaTime float32)

	now       func() time.Time
	lastFrame time.Time
	lastError string

	running atomic.Bool
	closed  bool
}

// Engine is the main entry point for the engine.
// It owns the World, the Camera and the Drawer, and runs the frame loop on the window's thread.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// World returns the simulated scene.
	//
	// Returns:
	//   - world.World: the world drawn every frame
	World() world.World

	// Camera returns the camera the frame is drawn from.
	//
	// Returns:
	//   - camera.Camera: the active camera
	Camera() camera.Camera

	// Loader returns the mesh loader shared with scene scripts.
	//
	// Returns:
	//   - loader.Loader: the loader
	Loader() loader.Loader

	// Lights returns the light builder that assigns the world's light slots.
	//
	// Returns:
	//   - *light.Builder: the shared light builder
	Lights() *light.Builder

	// EnableProfiler starts the periodic frame rate and memory report.
	EnableProfiler()

	// DisableProfiler stops the periodic report.
	DisableProfiler()

	// SetTickCallback registers a function called once per frame after physics is stepped.
	//
	// Parameters:
	//   - callback: function receiving the frame's delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Preload loads model files in parallel so later AddMesh calls hit the cache.
	//
	// Parameters:
	//   - paths: model files
	//
	// Returns:
	//   - error: the joined load errors
	Preload(paths ...string) error

	// RunScript builds the scene from a Go scene script.
	//
	// Parameters:
	//   - path: the script file
	//
	// Returns:
	//   - error: interpretation or scene building errors
	RunScript(path string) error

	// Run starts the input and profiler timers and runs the frame loop.
	// Blocks until the window closes or Quit is called; the current frame always completes.
	//
	// Returns:
	//   - error: ErrRunning or ErrClosed
	Run() error

	// Quit asks the frame loop to stop after the current frame. Safe to call from any goroutine.
	Quit()

	// Close stops the timers, closes the world (and with it the Drawer) before
	// deleting the programs, then destroys the window. Safe to call multiple times.
	//
	// Returns:
	//   - error: the joined errors of the closed collaborators
	Close() error
}

var _ Engine = &engine{}

// NewEngine creates the window (unless one is given), the OpenGL backend, the
// shader programs and every scene collaborator from the configuration.
// Must be called from the goroutine that will call Run.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: window, backend or shader compile errors
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		cfg: config.Default(),
		now: time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	cfg := e.cfg

	if !common.SetLogLevel(cfg.Log.Level) {
		common.LogWarn("unknown log level %q, keeping the default", cfg.Log.Level)
	}

	if e.window == nil {
		w, err := window.NewWindow(
			window.WithTitle(common.Coalesce(cfg.Window.Title, "oxy")),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
			window.WithVSync(cfg.Window.VSync),
			window.WithCaptureCursor(cfg.Camera.MouseLook),
		)
		if err != nil {
			return nil, err
		}
		e.window = w
	}

	if e.backend == nil {
		b, err := opengl.NewBackend()
		if err != nil {
			e.window.Close()
			return nil, err
		}
		e.backend = b
	}

	var shaderOptions []shader.ProgramBuilderOption
	if cfg.Render.ShaderDir != "" {
		shaderOptions = append(shaderOptions, shader.WithSourceDir(cfg.Render.ShaderDir))
	}
	programs, err := renderer.NewProgramSet(e.backend, shaderOptions...)
	if err != nil {
		e.window.Close()
		return nil, err
	}
	e.programs = programs

	if cfg.Render.HotReload && cfg.Render.ShaderDir != "" {
		watcher, err := shader.NewWatcher(cfg.Render.ShaderDir)
		if err != nil {
			common.LogWarn("shader hot reload disabled: %v", err)
		} else {
			e.watcher = watcher
		}
	}

	e.drawer = renderer.NewDrawer(e.backend, renderer.WithErrorChecks(cfg.Render.ErrorChecks))

	if e.world == nil {
		e.world = newWorld(cfg)
	}
	if e.camera == nil {
		e.camera = newCamera(cfg, e.window.Width(), e.window.Height())
	}
	e.controller = camera.NewController(e.camera, camera.WithMouseLook(cfg.Camera.MouseLook))
	e.input = input.NewManager(
		input.WithInterval(cfg.Camera.MouseInterval.Duration),
		input.WithInvertY(cfg.Camera.InvertY),
	)
	e.profiler = profiler.NewProfiler(profiler.WithInterval(cfg.Log.ProfileInterval.Duration))
	e.profilingEnabled = e.profilingEnabled || cfg.Log.Profile
	e.loader = loader.NewLoader(loader.WithWorkers(cfg.Scene.Workers))
	e.lights = light.NewBuilder()

	e.window.SetKeyDownCallback(e.input.KeyDown)
	e.window.SetKeyUpCallback(e.input.KeyUp)
	e.window.SetMouseMoveCallback(e.input.MouseMoved)
	e.window.SetResizeCallback(e.resize)
	e.window.SetUpdateCallback(e.frame)
	e.resize(e.window.Width(), e.window.Height())

	return e, nil
}

// newWorld builds the world and its physics engine from the configuration.
func newWorld(cfg config.Config) world.World {
	gravity := mgl32.Vec3(cfg.Physics.Gravity)
	physicsOptions := []physics.EngineBuilderOption{
		physics.WithSolverIterations(cfg.Physics.SolverIterations),
	}
	if !cfg.Physics.Sleeping {
		physicsOptions = append(physicsOptions, physics.WithSleeping(0, 0))
	}
	return world.NewWorld(
		world.WithEngine(physics.NewEngine(physicsOptions...)),
		world.WithGravity(gravity),
		world.WithAmbientColor(mgl32.Vec4(cfg.Render.Ambient)),
		world.WithBackgroundColor(mgl32.Vec4(cfg.Render.Background)),
		world.WithStepsPerSecond(cfg.Physics.StepsPerSecond),
		world.WithMaxSubSteps(cfg.Physics.MaxSubSteps),
	)
}

// newCamera builds the camera from the configuration and the framebuffer size.
func newCamera(cfg config.Config, width, height int) camera.Camera {
	c := cfg.Camera
	options := []camera.CameraBuilderOption{
		camera.WithPosition(mgl32.Vec3(c.Position)),
		camera.WithYaw(c.Yaw),
		camera.WithPitch(c.Pitch),
		camera.WithStep(c.Step),
		camera.WithSensitivity(c.Sensitivity),
		camera.WithRotationStep(c.RotationStep),
		camera.WithFov(c.Fov),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
	}
	if width > 0 && height > 0 {
		options = append(options, camera.WithAspect(float32(width)/float32(height)))
	}
	return camera.NewCamera(options...)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) World() world.World {
	return e.world
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Lights() *light.Builder {
	return e.lights
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
	if e.running.Load() {
		e.profiler.Start()
	}
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
	e.profiler.Stop()
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) Preload(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	start := e.now()
	meshes, err := e.loader.LoadAll(paths...)
	if err != nil {
		return fmt.Errorf("failed to preload models: %w", err)
	}
	common.LogInfo("preloaded %d models in %s", len(meshes), e.now().Sub(start))
	return nil
}

func (e *engine) RunScript(path string) error {
	runner := script.NewRunner(e.world, e.camera,
		script.WithLightBuilder(e.lights),
		script.WithLoader(e.loader),
	)
	if err := runner.Run(path); err != nil {
		return err
	}
	common.LogInfo("scene %s: %d objects, %d lights", path, e.world.Objects().Len(), e.world.LightsNumber())
	return nil
}

func (e *engine) Run() error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer e.running.Store(false)

	e.input.Start()
	defer e.input.Stop()
	if e.profilingEnabled {
		e.profiler.Start()
		defer e.profiler.Stop()
	}

	e.lastFrame = e.now()
	e.window.ProcessMessages()
	return nil
}

func (e *engine) Quit() {
	e.window.RequestClose()
}

// frame runs one iteration of the loop: input, physics, shader reload, draw.
// The window swaps buffers after it returns.
func (e *engine) frame() {
	now := e.now()
	elapsed := now.Sub(e.lastFrame)
	e.lastFrame = now

	e.controller.Apply(e.input.Snapshot())
	e.world.Advance(elapsed)
	if e.tickCallback != nil {
		e.tickCallback(float32(elapsed.Seconds()))
	}

	e.reloadShaders()

	if err := e.drawer.DrawWorld(e.world, e.camera, e.programs); err != nil {
		// the same failure repeats every frame; log it when it changes
		if msg := err.Error(); msg != e.lastError {
			common.LogError("draw: %v", err)
			e.lastError = msg
		}
	} else {
		e.lastError = ""
	}

	e.profiler.Frame()
}

// reloadShaders drains the watcher's pending paths without blocking.
func (e *engine) reloadShaders() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-e.watcher.Changes():
			if !ok {
				e.watcher = nil
				return
			}
			shader.ReloadChanged(e.programs.All(), path)
		default:
			return
		}
	}
}

// resize updates the viewport and the camera aspect ratio.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.drawer.Resize(width, height)
	e.camera.SetAspect(float32(width) / float32(height))
}

func (e *engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	e.input.Stop()
	e.profiler.Stop()

	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
	}

	// the world closes the attached Drawer before releasing its objects
	objects, lights, err := e.world.Close()
	errs = append(errs, err)
	errs = append(errs, e.drawer.Close())
	e.programs.Close()
	common.LogInfo("engine closed: released %d objects and %d lights", objects, lights)

	errs = append(errs, e.window.Close())
	return errors.Join(errs...)
}
