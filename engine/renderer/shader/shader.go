package shader

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the lights uniform array in every lit program.
const MaxLights = 8

// Kind identifies a program variant.
type Kind int

const (
	// KindPhong is untextured per-fragment Phong lighting.
	KindPhong Kind = iota

	// KindLightedObject is Phong lighting with an optional diffuse texture and tangent-space normal map.
	KindLightedObject

	// KindMirror shades reflective surfaces with a tinted fresnel term.
	KindMirror

	// KindLightBulb draws an unlit emissive surface.
	KindLightBulb
)

//go:embed assets/phong.vert
var phongVert string

//go:embed assets/phong.frag
var phongFrag string

//go:embed assets/lighted_object.vert
var lightedObjectVert string

//go:embed assets/lighted_object.frag
var lightedObjectFrag string

//go:embed assets/mirror.vert
var mirrorVert string

//go:embed assets/mirror.frag
var mirrorFrag string

//go:embed assets/light_bulb.vert
var lightBulbVert string

//go:embed assets/light_bulb.frag
var lightBulbFrag string

// String returns the file stem used for the kind's shader sources.
func (k Kind) String() string {
	switch k {
	case KindPhong:
		return "phong"
	case KindLightedObject:
		return "lighted_object"
	case KindMirror:
		return "mirror"
	case KindLightBulb:
		return "light_bulb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Lit reports whether programs of this kind consume the material and light uniforms.
func (k Kind) Lit() bool {
	return k != KindLightBulb
}

// Kinds returns every program kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindPhong, KindLightedObject, KindMirror, KindLightBulb}
}

// EmbeddedSource returns the built-in vertex and fragment sources for a kind.
//
// Parameters:
//   - k: the program kind
//
// Returns:
//   - vertex, fragment: raw (unprocessed) GLSL sources
func EmbeddedSource(k Kind) (vertex, fragment string) {
	switch k {
	case KindPhong:
		return phongVert, phongFrag
	case KindLightedObject:
		return lightedObjectVert, lightedObjectFrag
	case KindMirror:
		return mirrorVert, mirrorFrag
	case KindLightBulb:
		return lightBulbVert, lightBulbFrag
	}
	return "", ""
}

// requiredUniforms lists the uniforms the renderer writes for a kind.
func requiredUniforms(k Kind) []string {
	base := []string{"modelViewMatrix", "projectionMatrix"}
	switch k {
	case KindLightBulb:
		return append(base, "emissiveColor")
	case KindLightedObject:
		base = append(base, "hasTexture", "textureSampler")
	case KindMirror:
		base = append(base, "mirrorTint")
	}
	return append(base, "normalMatrix", "lightsNumber", "ambientColor",
		"material.ambient", "material.diffuse", "material.specular", "material.shininess")
}

// program is the implementation of the Program interface.
type program struct {
	mu sync.Mutex

	backend gpu.Backend
	kind    Kind
	handle  uint32

	vertexSource   string
	fragmentSource string
	vertexPath     string
	fragmentPath   string

	uniforms   map[string]int32
	attributes map[string]uint32
	warned     map[string]bool
	pp         PreProcessor
}

// Program is a linked vertex/fragment pair with reflected uniform and attribute tables.
//
// Uniform setters write to the program currently in use; call Use before setting values.
// Setting a name the program does not declare is a soft error: it is logged once and ignored.
type Program interface {
	// Kind returns the program variant.
	//
	// Returns:
	//   - Kind: the program kind
	Kind() Kind

	// Handle returns the backend program name.
	//
	// Returns:
	//   - uint32: the program handle (0 after Close)
	Handle() uint32

	// Use makes this program current on the backend.
	Use()

	// HasUniform reports whether the linked program declares an active uniform.
	//
	// Parameters:
	//   - name: the uniform name, e.g. "lights[2].diffuse"
	//
	// Returns:
	//   - bool: true if the uniform is active
	HasUniform(name string) bool

	// UniformNames returns the sorted names in the uniform table.
	//
	// Returns:
	//   - []string: active uniform names
	UniformNames() []string

	// Attribute looks up a vertex attribute location by name.
	//
	// Parameters:
	//   - name: the attribute name, e.g. "vertexPosition"
	//
	// Returns:
	//   - uint32: the attribute location
	//   - bool: false if the program has no such active attribute
	Attribute(name string) (uint32, bool)

	// SetInt sets an int or sampler uniform.
	SetInt(name string, v int32)

	// SetFloat sets a float uniform.
	SetFloat(name string, v float32)

	// SetVec3 sets a vec3 uniform.
	SetVec3(name string, v mgl32.Vec3)

	// SetVec4 sets a vec4 uniform.
	SetVec4(name string, v mgl32.Vec4)

	// SetMat3 sets a mat3 uniform.
	SetMat3(name string, m mgl32.Mat3)

	// SetMat4 sets a mat4 uniform.
	SetMat4(name string, m mgl32.Mat4)

	// Paths returns the source files the program was loaded from, empty for embedded sources.
	//
	// Returns:
	//   - vertex, fragment: source file paths
	Paths() (vertex, fragment string)

	// Reload re-reads the source files (or the embedded sources) and relinks the program.
	// On failure the previous program stays in use.
	//
	// Returns:
	//   - error: read, pre-process, compile or link error
	Reload() error

	// Close deletes the backend program. Safe to call multiple times.
	Close()
}

var _ Program = &program{}

// NewProgram compiles and links the program for a kind.
//
// Sources come from WithSource if given, otherwise from "<dir>/<kind>.vert" and
// "<dir>/<kind>.frag" when WithSourceDir names a directory containing them,
// otherwise from the embedded defaults.
//
// Parameters:
//   - backend: the graphics backend
//   - kind: the program variant
//   - options: functional options to configure the program
//
// Returns:
//   - Program: the linked program
//   - error: read, pre-process, compile or link error
func NewProgram(backend gpu.Backend, kind Kind, options ...ProgramBuilderOption) (Program, error) {
	if backend == nil {
		panic("shader: NewProgram requires a non-nil Backend")
	}
	p := &program{
		backend: backend,
		kind:    kind,
		warned:  map[string]bool{},
		pp:      NewPreProcessor(),
	}
	for _, opt := range options {
		opt(p)
	}
	if err := p.Reload(); err != nil {
		return nil, fmt.Errorf("shader %s: %w", kind, err)
	}

	missing := p.missingUniforms()
	common.Assert(len(missing) == 0, "shader %s: uniform table is missing %v", kind, missing)
	if len(missing) > 0 {
		common.LogDebug("shader %s: inactive uniforms %v", kind, missing)
	}
	return p, nil
}

func (p *program) Kind() Kind {
	return p.kind
}

func (p *program) Handle() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

func (p *program) Use() {
	p.backend.UseProgram(p.Handle())
}

func (p *program) HasUniform(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.uniforms[name]
	return ok
}

func (p *program) UniformNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.uniforms))
	for n := range p.uniforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *program) Attribute(name string) (uint32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	loc, ok := p.attributes[name]
	return loc, ok
}

func (p *program) SetInt(name string, v int32) {
	if loc, ok := p.location(name); ok {
		p.backend.Uniform1i(loc, v)
	}
}

func (p *program) SetFloat(name string, v float32) {
	if loc, ok := p.location(name); ok {
		p.backend.Uniform1f(loc, v)
	}
}

func (p *program) SetVec3(name string, v mgl32.Vec3) {
	if loc, ok := p.location(name); ok {
		p.backend.Uniform3f(loc, v)
	}
}

func (p *program) SetVec4(name string, v mgl32.Vec4) {
	if loc, ok := p.location(name); ok {
		p.backend.Uniform4f(loc, v)
	}
}

func (p *program) SetMat3(name string, m mgl32.Mat3) {
	if loc, ok := p.location(name); ok {
		p.backend.UniformMatrix3f(loc, m)
	}
}

func (p *program) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := p.location(name); ok {
		p.backend.UniformMatrix4f(loc, m)
	}
}

func (p *program) Paths() (string, string) {
	return p.vertexPath, p.fragmentPath
}

func (p *program) Reload() error {
	vs, fs, err := p.readSources()
	if err != nil {
		return err
	}
	if vs, err = p.pp.Process(vs); err != nil {
		return fmt.Errorf("vertex pre-process: %w", err)
	}
	if fs, err = p.pp.Process(fs); err != nil {
		return fmt.Errorf("fragment pre-process: %w", err)
	}

	handle, err := p.backend.CompileProgram(vs, fs)
	if err != nil {
		return err
	}
	uniforms := p.backend.ActiveUniforms(handle)
	attributes := p.backend.ActiveAttributes(handle)

	p.mu.Lock()
	old := p.handle
	p.handle = handle
	p.uniforms = uniforms
	p.attributes = attributes
	p.warned = map[string]bool{}
	p.mu.Unlock()

	if old != 0 {
		p.backend.DeleteProgram(old)
	}
	return nil
}

func (p *program) Close() {
	p.mu.Lock()
	handle := p.handle
	p.handle = 0
	p.mu.Unlock()
	if handle != 0 {
		p.backend.DeleteProgram(handle)
	}
}

// readSources resolves the raw sources in priority order: explicit, files, embedded.
func (p *program) readSources() (string, string, error) {
	if p.vertexSource != "" && p.fragmentSource != "" {
		return p.vertexSource, p.fragmentSource, nil
	}
	if p.vertexPath != "" && p.fragmentPath != "" {
		vs, err := os.ReadFile(p.vertexPath)
		if err != nil {
			return "", "", fmt.Errorf("failed to read vertex shader: %w", err)
		}
		fs, err := os.ReadFile(p.fragmentPath)
		if err != nil {
			return "", "", fmt.Errorf("failed to read fragment shader: %w", err)
		}
		return string(vs), string(fs), nil
	}
	vs, fs := EmbeddedSource(p.kind)
	if vs == "" {
		return "", "", fmt.Errorf("no embedded source for %s", p.kind)
	}
	return vs, fs, nil
}

// location resolves a uniform, logging unknown names once per link.
func (p *program) location(name string) (int32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	loc, ok := p.uniforms[name]
	if !ok && !p.warned[name] {
		p.warned[name] = true
		common.LogWarn("shader %s: unknown uniform %q", p.kind, name)
	}
	return loc, ok
}

func (p *program) missingUniforms() []string {
	var missing []string
	for _, name := range requiredUniforms(p.kind) {
		if !p.HasUniform(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// sourcePaths returns the conventional file pair for a kind inside dir,
// or empty strings when either file is absent.
func sourcePaths(dir string, k Kind) (string, string) {
	vs := filepath.Join(dir, k.String()+".vert")
	fs := filepath.Join(dir, k.String()+".frag")
	if _, err := os.Stat(vs); err != nil {
		return "", ""
	}
	if _, err := os.Stat(fs); err != nil {
		return "", ""
	}
	return vs, fs
}
