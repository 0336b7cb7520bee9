package renderer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/world"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrObjectNotInitialized is returned by DrawObject for objects this Drawer has no resources for.
var ErrObjectNotInitialized = errors.New("object has no GPU resources from this drawer")

// ErrDrawerClosed is returned when using a closed Drawer.
var ErrDrawerClosed = errors.New("drawer is closed")

const (
	diffuseTextureUnit uint32 = 0
	normalTextureUnit  uint32 = 1
)

var nextDrawerID atomic.Uint64

// Viewer supplies the camera matrices for a frame.
type Viewer interface {
	ApplyView() mgl32.Mat4
	Projection() mgl32.Mat4
}

// gpuObject is one arena slot: the resources created for an object.
type gpuObject struct {
	object     *object.Object
	vao        uint32
	buffers    []uint32
	texture    uint32
	normalMap  uint32
	indexCount int32
}

// drawer is the implementation of the Drawer interface.
type drawer struct {
	mu sync.Mutex

	id      uint64
	backend gpu.Backend

	arena    []*gpuObject
	textures map[string]uint32

	checkErrors bool
	closed      bool
}

// Drawer creates GPU resources for objects once and submits their draw calls every frame.
//
// Resources are tracked in an arena; each initialized Object stores an explicit
// GPUHandle naming this Drawer and its arena slot. All methods must be called
// on the thread that owns the graphics context.
type Drawer interface {
	// ID returns the owner ID written into every GPUHandle this Drawer creates.
	//
	// Returns:
	//   - uint64: the drawer ID (never 0)
	ID() uint64

	// InitGPUObjects uploads geometry and textures for every object of the world that
	// has no handle from this Drawer, then attaches the Drawer to the world so it is
	// closed before the world releases its objects.
	//
	// Parameters:
	//   - program: the program whose attribute table names the vertex inputs
	//   - w: the world holding the objects
	//
	// Returns:
	//   - error: ErrDrawerClosed, or a texture decode error
	InitGPUObjects(program shader.Program, w world.World) error

	// DrawObject draws one object with the given program and view matrix.
	// Material (or emissive) and matrix uniforms are set; frame uniforms
	// (projection, lights) must already be set on the program.
	//
	// Parameters:
	//   - o: the object to draw
	//   - program: the program to draw with
	//   - view: the camera view matrix
	//
	// Returns:
	//   - error: ErrObjectNotInitialized if the object has no resources from this Drawer
	DrawObject(o *object.Object, program shader.Program, view mgl32.Mat4) error

	// DrawWorld clears the frame, sets the per-frame uniforms of every program and
	// draws all objects in insertion order with the program chosen by ProgramKind.
	// Objects added since the last call are initialized first.
	//
	// Parameters:
	//   - w: the world to draw
	//   - camera: supplies the view and projection matrices
	//   - programs: the compiled programs
	//
	// Returns:
	//   - error: the joined errors of initialization and draw calls
	DrawWorld(w world.World, camera Viewer, programs *ProgramSet) error

	// Resize sets the viewport. Ignored once the Drawer is closed.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	Resize(width, height int)

	// Initialized returns the number of objects with live resources.
	//
	// Returns:
	//   - int: the arena size
	Initialized() int

	// Close deletes every buffer, VAO and texture exactly once and clears the
	// handles of the objects it initialized. Safe to call multiple times.
	//
	// Returns:
	//   - error: always nil; present to satisfy io.Closer
	Close() error
}

var _ Drawer = &drawer{}

// NewDrawer creates a Drawer over a backend.
//
// Parameters:
//   - backend: the graphics backend
//   - options: functional options to configure the drawer
//
// Returns:
//   - Drawer: the new drawer
func NewDrawer(backend gpu.Backend, options ...DrawerBuilderOption) Drawer {
	if backend == nil {
		panic("renderer: NewDrawer requires a non-nil Backend")
	}
	d := &drawer{
		id:          nextDrawerID.Add(1),
		backend:     backend,
		textures:    map[string]uint32{},
		checkErrors: true,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *drawer) ID() uint64 {
	return d.id
}

func (d *drawer) InitGPUObjects(program shader.Program, w world.World) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDrawerClosed
	}
	for _, o := range w.Objects().All() {
		if d.owns(o) {
			continue
		}
		if err := d.initObject(program, o); err != nil {
			return err
		}
	}
	w.Attach(d)
	return nil
}

func (d *drawer) DrawObject(o *object.Object, program shader.Program, view mgl32.Mat4) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDrawerClosed
	}
	return d.drawObject(o, program, view)
}

func (d *drawer) DrawWorld(w world.World, camera Viewer, programs *ProgramSet) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDrawerClosed
	}

	d.backend.Clear(w.BackgroundColor())
	view := camera.ApplyView()
	projection := camera.Projection()

	lights := w.Lights()
	for _, p := range programs.All() {
		p.Use()
		p.SetMat4("projectionMatrix", projection)
		if !p.Kind().Lit() {
			continue
		}
		p.SetVec4("ambientColor", w.AmbientColor())
		p.SetInt("lightsNumber", int32(lights.Len()))
		for _, l := range lights.All() {
			l.SetUniforms(p, view)
		}
	}

	var errs []error
	attached := false
	for _, o := range w.Objects().All() {
		program := programs.For(o)
		if program == nil {
			errs = append(errs, fmt.Errorf("no program for %s", o))
			continue
		}
		if !d.owns(o) {
			if err := d.initObject(program, o); err != nil {
				errs = append(errs, err)
				continue
			}
			if !attached {
				w.Attach(d)
				attached = true
			}
		}
		if err := d.drawObject(o, program, view); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *drawer) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.backend.Viewport(int32(width), int32(height))
}

func (d *drawer) Initialized() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.arena)
}

func (d *drawer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	d.backend.BindVertexArray(0)
	for _, g := range d.arena {
		for _, b := range g.buffers {
			d.backend.DeleteBuffer(b)
		}
		d.backend.DeleteVertexArray(g.vao)
		if h, ok := g.object.GPUHandle(); ok && h.Owner == d.id {
			g.object.SetGPUHandle(object.GPUHandle{})
		}
	}
	for _, tex := range d.textures {
		d.backend.DeleteTexture(tex)
	}
	common.LogDebug("drawer %d closed: %d objects, %d textures", d.id, len(d.arena), len(d.textures))
	d.arena = nil
	d.textures = nil
	return nil
}

// owns reports whether o carries a valid handle from this drawer.
func (d *drawer) owns(o *object.Object) bool {
	_, ok := d.lookup(o)
	return ok
}

func (d *drawer) lookup(o *object.Object) (*gpuObject, bool) {
	if o == nil {
		return nil, false
	}
	h, ok := o.GPUHandle()
	if !ok || h.Owner != d.id || h.Index < 0 || h.Index >= len(d.arena) {
		return nil, false
	}
	g := d.arena[h.Index]
	if g.object != o {
		return nil, false
	}
	return g, true
}

func (d *drawer) initObject(program shader.Program, o *object.Object) error {
	geo := o.Geometry()
	if err := geo.Validate(); err != nil {
		return fmt.Errorf("cannot upload %s: %w", o, err)
	}

	g := &gpuObject{object: o, indexCount: int32(o.TriangleCount() * 3)}
	if m := o.Material(); m != nil {
		var err error
		if g.texture, err = d.texture(m.DiffuseTexture()); err != nil {
			return fmt.Errorf("texture of %s: %w", o, err)
		}
		if g.normalMap, err = d.texture(m.NormalTexture()); err != nil {
			return fmt.Errorf("normal map of %s: %w", o, err)
		}
	}

	g.vao = d.backend.GenVertexArray()
	d.backend.BindVertexArray(g.vao)

	d.attribute(g, program, "vertexPosition", 3, common.Flatten3(geo.Points))

	indices := d.backend.GenBuffer()
	g.buffers = append(g.buffers, indices)
	d.backend.BindBuffer(gpu.ElementArrayBuffer, indices)
	d.backend.BufferUint32(gpu.ElementArrayBuffer, indices, geo.Indices)

	d.attribute(g, program, "vertexNormal", 3, common.Flatten3(geo.Normals))
	if len(geo.TexCoords) > 0 {
		d.attribute(g, program, "vertexTextureCoordinates", 2, common.Flatten2(geo.TexCoords))
	}
	if len(geo.Tangents) > 0 {
		d.attribute(g, program, "vertexTangent", 3, common.Flatten3(geo.Tangents))
	}
	d.backend.BindVertexArray(0)

	o.SetGPUHandle(object.GPUHandle{Owner: d.id, Index: len(d.arena)})
	d.arena = append(d.arena, g)
	d.checkError("init " + o.String())
	return nil
}

// attribute uploads one vertex stream into a new buffer of the bound VAO.
func (d *drawer) attribute(g *gpuObject, program shader.Program, name string, size int32, data []float32) {
	loc, ok := program.Attribute(name)
	if !ok {
		loc = gpu.AttributeLocations[name]
	}
	buf := d.backend.GenBuffer()
	g.buffers = append(g.buffers, buf)
	d.backend.BindBuffer(gpu.ArrayBuffer, buf)
	d.backend.BufferFloat32(gpu.ArrayBuffer, buf, data)
	d.backend.VertexAttribPointer(loc, size)
}

// texture uploads an image once per path (or per embedded texture) and returns its name.
func (d *drawer) texture(t *common.ImportedTexture) (uint32, error) {
	if t == nil {
		return 0, nil
	}
	key := t.Path
	if key == "" {
		key = fmt.Sprintf("embedded:%p", t)
	}
	if tex, ok := d.textures[key]; ok {
		return tex, nil
	}
	pixels, w, h, err := t.Decode()
	if err != nil {
		return 0, err
	}
	tex := d.backend.CreateTexture2D(pixels, w, h)
	d.textures[key] = tex
	return tex, nil
}

func (d *drawer) drawObject(o *object.Object, program shader.Program, view mgl32.Mat4) error {
	g, ok := d.lookup(o)
	if !ok {
		return fmt.Errorf("%w: %v", ErrObjectNotInitialized, o)
	}
	program.Use()

	modelView := view.Mul4(o.ModelMatrix())
	program.SetMat4("modelViewMatrix", modelView)
	if program.Kind().Lit() {
		program.SetMat3("normalMatrix", common.NormalMatrix(modelView))
		if m := o.Material(); m != nil {
			m.SetUniforms(program)
			if program.Kind() == shader.KindMirror {
				program.SetVec4("mirrorTint", m.Diffuse())
			}
		}
	} else {
		program.SetVec4("emissiveColor", o.Emissive())
	}

	if program.HasUniform("hasTexture") {
		program.SetInt("hasTexture", boolToInt(g.texture != 0))
		if g.texture != 0 {
			d.backend.BindTexture2D(diffuseTextureUnit, g.texture)
			program.SetInt("textureSampler", int32(diffuseTextureUnit))
		}
	}
	if program.HasUniform("hasNormalMap") {
		program.SetInt("hasNormalMap", boolToInt(g.normalMap != 0))
		if g.normalMap != 0 {
			d.backend.BindTexture2D(normalTextureUnit, g.normalMap)
			program.SetInt("normalSampler", int32(normalTextureUnit))
		}
	}

	d.backend.BindVertexArray(g.vao)
	d.backend.DrawElements(g.indexCount)
	d.backend.BindVertexArray(0)
	d.checkError("draw " + o.String())
	return nil
}

// checkError drains the backend error queue, logging every code.
func (d *drawer) checkError(op string) {
	if !d.checkErrors {
		return
	}
	for code := d.backend.GetError(); code != gpu.NoError; code = d.backend.GetError() {
		common.LogWarn("gpu error 0x%04x after %s", code, op)
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
