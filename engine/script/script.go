package script

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ImportPath is the package path scene scripts import the building API from.
const ImportPath = "oxy"

var (
	// ErrNoEntry is returned when the script does not declare the entry function.
	ErrNoEntry = errors.New("script entry function not found")

	// ErrNoCamera is returned by SetCamera when the runner has no camera.
	ErrNoCamera = errors.New("no camera bound")

	// ErrNoLoader is returned by AddMesh when the runner has no mesh loader.
	ErrNoLoader = errors.New("no mesh loader bound")
)

// Runner interprets Go scene scripts against a World and Camera.
//
// A script declares any package name, imports "oxy", and defines the entry
// function (Build by default):
//
//	package setup
//
//	import "oxy"
//
//	func Build() {
//		oxy.SetGravity(0, -9.81, 0)
//		oxy.AddPlane(oxy.Side(20))
//		oxy.AddBox(oxy.Position(0, 5, 0), oxy.Mass(1))
//	}
type Runner interface {
	// Run reads and runs a script file.
	//
	// Parameters:
	//   - path: the script file
	//
	// Returns:
	//   - error: read, compile or entry errors, joined with every failed API call
	Run(path string) error

	// RunSource runs script source held in memory.
	//
	// Parameters:
	//   - name: the name used in error messages
	//   - src: Go source
	//
	// Returns:
	//   - error: compile or entry errors, joined with every failed API call
	RunSource(name, src string) error
}

type runner struct {
	mu sync.Mutex

	world  world.World
	camera camera.Camera
	lights *light.Builder
	loader object.MeshLoader
	entry  string
}

var _ Runner = &runner{}

// NewRunner creates a Runner that builds into w. Panics if w is nil.
//
// Parameters:
//   - w: the world objects and lights are added to
//   - cam: the camera SetCamera moves (may be nil)
//   - options: functional options to configure the runner
//
// Returns:
//   - Runner: the runner
func NewRunner(w world.World, cam camera.Camera, options ...RunnerBuilderOption) Runner {
	if w == nil {
		panic("script: NewRunner requires a World")
	}
	r := &runner{
		world:  w,
		camera: cam,
		entry:  "Build",
	}
	for _, opt := range options {
		opt(r)
	}
	if r.lights == nil {
		r.lights = light.NewBuilder()
	}
	return r
}

func (r *runner) Run(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return r.RunSource(path, string(src))
}

func (r *runner) RunSource(name, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := parser.ParseFile(token.NewFileSet(), name, src, parser.PackageClauseOnly)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}

	a := &api{r: r}
	in := interp.New(interp.Options{})
	if err := in.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	if err := in.Use(a.exports()); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	if _, err := in.Eval(src); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}

	v, err := in.Eval(file.Name.Name + "." + r.entry)
	if err != nil {
		return fmt.Errorf("script %s: %w: %s", name, ErrNoEntry, r.entry)
	}
	build, ok := v.Interface().(func())
	if !ok {
		return fmt.Errorf("script %s: %w: %s must be func()", name, ErrNoEntry, r.entry)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s: panic in %s: %v", name, r.entry, p)
		}
	}()
	build()

	if err := errors.Join(a.errs...); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	common.LogInfo("script %s: %d objects, %d lights", name, a.objects, a.lightCount)
	return nil
}

// api is the per-run binding behind the "oxy" package.
type api struct {
	r          *runner
	errs       []error
	objects    int
	lightCount int
}

func (a *api) exports() interp.Exports {
	fns := map[string]any{
		"AddBox":              a.AddBox,
		"AddPlane":            a.AddPlane,
		"AddMirror":           a.AddMirror,
		"AddMesh":             a.AddMesh,
		"AddLightBulb":        a.AddLightBulb,
		"AddDirectionalLight": a.AddDirectionalLight,
		"AddPositionalLight":  a.AddPositionalLight,
		"AddSpotLight":        a.AddSpotLight,
		"SetCamera":           a.SetCamera,
		"SetGravity":          a.SetGravity,
		"SetBackground":       a.SetBackground,
		"SetAmbient":          a.SetAmbient,

		"Name":        Name,
		"Position":    Position,
		"Rotation":    Rotation,
		"Mass":        Mass,
		"Friction":    Friction,
		"Restitution": Restitution,
		"Ambient":     Ambient,
		"Diffuse":     Diffuse,
		"Specular":    Specular,
		"Shininess":   Shininess,
		"Texture":     Texture,
		"NormalMap":   NormalMap,
		"Size":        Size,
		"Side":        Side,
		"Repeat":      Repeat,
		"Infinite":    Infinite,
		"Radius":      Radius,
		"Color":       Color,
		"Direction":   Direction,
		"Attenuation": Attenuation,
		"Cutoff":      Cutoff,
		"Exponent":    Exponent,
	}
	syms := make(map[string]reflect.Value, len(fns)+1)
	for k, fn := range fns {
		syms[k] = reflect.ValueOf(fn)
	}
	syms["Param"] = reflect.ValueOf((*Param)(nil))
	return interp.Exports{ImportPath + "/" + ImportPath: syms}
}

func (a *api) fail(err error) error {
	a.errs = append(a.errs, err)
	return err
}

func (a *api) addObject(o *object.Object, err error) error {
	if err != nil {
		return a.fail(err)
	}
	if err := a.r.world.AddObject(o); err != nil {
		return a.fail(fmt.Errorf("%s: %w", o, err))
	}
	a.objects++
	return nil
}

func (a *api) addLight(l *light.Light, err error) error {
	if err != nil {
		return a.fail(err)
	}
	if err := a.r.world.AddLight(l); err != nil {
		a.r.lights.Unassign(l)
		return a.fail(fmt.Errorf("light %d: %w", l.Slot(), err))
	}
	a.lightCount++
	return nil
}

func (a *api) AddBox(params ...Param) error {
	s := newParamSet(params)
	return a.addObject(object.NewBoxBuilder(s.object...).Sides(s.size.X(), s.size.Y(), s.size.Z()).Create())
}

func (a *api) AddPlane(params ...Param) error {
	s := newParamSet(params)
	b := object.NewPlaneBuilder(s.object...).Side(s.side).TextureRepeat(s.repeat)
	if s.infinite {
		b.Infinite()
	}
	return a.addObject(b.Create())
}

func (a *api) AddMirror(params ...Param) error {
	s := newParamSet(params)
	return a.addObject(object.NewMirrorBuilder(s.object...).Side(s.side).TextureRepeat(s.repeat).Create())
}

func (a *api) AddMesh(path string, params ...Param) error {
	if a.r.loader == nil {
		return a.fail(fmt.Errorf("mesh %s: %w", path, ErrNoLoader))
	}
	s := newParamSet(params)
	return a.addObject(object.NewMeshBuilder(s.object...).Loader(a.r.loader).Source(path).Create())
}

func (a *api) AddLightBulb(params ...Param) error {
	s := newParamSet(params)
	b := object.NewLightBulbBuilder(s.object...).Radius(s.radius)
	if s.color != nil {
		b.Color(*s.color)
	}
	return a.addObject(b.Create())
}

func (a *api) AddDirectionalLight(params ...Param) error {
	return a.addLight(a.r.lights.Directional(newParamSet(params).light...))
}

func (a *api) AddPositionalLight(params ...Param) error {
	return a.addLight(a.r.lights.Positional(newParamSet(params).light...))
}

func (a *api) AddSpotLight(params ...Param) error {
	return a.addLight(a.r.lights.Spot(newParamSet(params).light...))
}

// SetCamera moves the camera and sets its yaw and pitch in degrees.
func (a *api) SetCamera(x, y, z, yaw, pitch float32) error {
	if a.r.camera == nil {
		return a.fail(ErrNoCamera)
	}
	a.r.camera.SetPosition(mgl32.Vec3{x, y, z})
	a.r.camera.SetOrientation(yaw, pitch)
	return nil
}

func (a *api) SetGravity(x, y, z float32) {
	a.r.world.SetGravity(mgl32.Vec3{x, y, z})
}

func (a *api) SetBackground(r, g, b, alpha float32) {
	a.r.world.SetBackgroundColor(mgl32.Vec4{r, g, b, alpha})
}

func (a *api) SetAmbient(r, g, b, alpha float32) {
	a.r.world.SetAmbientColor(mgl32.Vec4{r, g, b, alpha})
}
