// Package gputest provides an in-memory gpu.Backend for tests.
package gputest

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrCompile is returned by CompileProgram for sources that contain "#error".
var ErrCompile = errors.New("gputest: compile failed")

// DrawCall records one DrawElements invocation.
type DrawCall struct {
	Program uint32
	VAO     uint32
	Texture uint32
	Count   int32
}

type program struct {
	uniforms   map[string]int32
	attributes map[string]uint32
	names      map[int32]string
}

// Backend is a recording gpu.Backend. Programs are reflected from their GLSL
// source: top-level uniforms (including arrays of structs) and vertex "in" attributes.
type Backend struct {
	nextName uint32

	VAOs     map[uint32]bool
	Buffers  map[uint32]bool
	Textures map[uint32]bool
	Programs map[uint32]bool

	// Attributes maps a VAO to attribute location -> component count.
	Attributes map[uint32]map[uint32]int32
	// FloatData and IndexData hold the last upload per buffer.
	FloatData map[uint32][]float32
	IndexData map[uint32][]uint32

	// Uniforms holds the last value written per program and uniform name.
	Uniforms map[uint32]map[string]any

	Draws       []DrawCall
	DoubleFrees int
	Errors      []uint32

	programs   map[uint32]*program
	current    uint32
	boundVAO   uint32
	boundTex   uint32
	ClearColor mgl32.Vec4
	ViewportW  int32
	ViewportH  int32
}

var _ gpu.Backend = &Backend{}

// NewBackend creates an empty recording backend.
func NewBackend() *Backend {
	return &Backend{
		VAOs:       map[uint32]bool{},
		Buffers:    map[uint32]bool{},
		Textures:   map[uint32]bool{},
		Programs:   map[uint32]bool{},
		Attributes: map[uint32]map[uint32]int32{},
		FloatData:  map[uint32][]float32{},
		IndexData:  map[uint32][]uint32{},
		Uniforms:   map[uint32]map[string]any{},
		programs:   map[uint32]*program{},
	}
}

// Live returns the number of VAOs, buffers and textures not yet deleted.
func (b *Backend) Live() int {
	return len(b.VAOs) + len(b.Buffers) + len(b.Textures)
}

// Uniform returns the last value written to a named uniform of a program.
func (b *Backend) Uniform(prog uint32, name string) (any, bool) {
	v, ok := b.Uniforms[prog][name]
	return v, ok
}

func (b *Backend) name() uint32 {
	b.nextName++
	return b.nextName
}

func (b *Backend) Type() gpu.BackendType {
	return gpu.BackendTypeOpenGL
}

func (b *Backend) GenVertexArray() uint32 {
	n := b.name()
	b.VAOs[n] = true
	b.Attributes[n] = map[uint32]int32{}
	return n
}

func (b *Backend) BindVertexArray(vao uint32) {
	b.boundVAO = vao
}

func (b *Backend) DeleteVertexArray(vao uint32) {
	if !b.VAOs[vao] {
		b.DoubleFrees++
		return
	}
	delete(b.VAOs, vao)
}

func (b *Backend) GenBuffer() uint32 {
	n := b.name()
	b.Buffers[n] = true
	return n
}

func (b *Backend) BindBuffer(target gpu.BufferTarget, buffer uint32) {}

func (b *Backend) DeleteBuffer(buffer uint32) {
	if !b.Buffers[buffer] {
		b.DoubleFrees++
		return
	}
	delete(b.Buffers, buffer)
}

func (b *Backend) BufferFloat32(target gpu.BufferTarget, buffer uint32, data []float32) {
	b.FloatData[buffer] = append([]float32(nil), data...)
}

func (b *Backend) BufferUint32(target gpu.BufferTarget, buffer uint32, data []uint32) {
	b.IndexData[buffer] = append([]uint32(nil), data...)
}

func (b *Backend) VertexAttribPointer(location uint32, size int32) {
	if attrs, ok := b.Attributes[b.boundVAO]; ok {
		attrs[location] = size
	}
}

func (b *Backend) DrawElements(count int32) {
	b.Draws = append(b.Draws, DrawCall{Program: b.current, VAO: b.boundVAO, Texture: b.boundTex, Count: count})
}

var (
	structRe  = regexp.MustCompile(`(?s)struct\s+(\w+)\s*\{(.*?)\}`)
	fieldRe   = regexp.MustCompile(`(\w+)\s+(\w+)\s*;`)
	uniformRe = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*(?:\[(\w+)\])?\s*;`)
	inRe      = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?in\s+\w+\s+(\w+)\s*;`)
	defineRe  = regexp.MustCompile(`(?m)^\s*#define\s+(\w+)\s+(\d+)`)
)

func (b *Backend) CompileProgram(vertexSource, fragmentSource string) (uint32, error) {
	if strings.TrimSpace(vertexSource) == "" || strings.TrimSpace(fragmentSource) == "" {
		return 0, fmt.Errorf("%w: empty source", ErrCompile)
	}
	if strings.Contains(vertexSource, "#error") || strings.Contains(fragmentSource, "#error") {
		return 0, ErrCompile
	}

	p := &program{uniforms: map[string]int32{}, attributes: map[string]uint32{}, names: map[int32]string{}}
	var uniformNames []string
	for _, src := range []string{vertexSource, fragmentSource} {
		defines := map[string]int{}
		for _, m := range defineRe.FindAllStringSubmatch(src, -1) {
			defines[m[1]], _ = strconv.Atoi(m[2])
		}
		structs := map[string][]string{}
		for _, m := range structRe.FindAllStringSubmatch(src, -1) {
			for _, f := range fieldRe.FindAllStringSubmatch(m[2], -1) {
				structs[m[1]] = append(structs[m[1]], f[2])
			}
		}
		for _, m := range uniformRe.FindAllStringSubmatch(src, -1) {
			typ, name, size := m[1], m[2], m[3]
			count := 0
			if size != "" {
				if n, err := strconv.Atoi(size); err == nil {
					count = n
				} else {
					count = defines[size]
				}
			}
			expand := func(prefix string) {
				if fields, ok := structs[typ]; ok {
					for _, f := range fields {
						uniformNames = append(uniformNames, prefix+"."+f)
					}
					return
				}
				uniformNames = append(uniformNames, prefix)
			}
			if count == 0 {
				expand(name)
				continue
			}
			for i := 0; i < count; i++ {
				expand(fmt.Sprintf("%s[%d]", name, i))
			}
		}
	}
	sort.Strings(uniformNames)
	for _, n := range uniformNames {
		if _, dup := p.uniforms[n]; dup {
			continue
		}
		loc := int32(len(p.uniforms))
		p.uniforms[n] = loc
		p.names[loc] = n
	}
	next := uint32(len(gpu.AttributeLocations))
	for _, m := range inRe.FindAllStringSubmatch(vertexSource, -1) {
		if loc, ok := gpu.AttributeLocations[m[1]]; ok {
			p.attributes[m[1]] = loc
			continue
		}
		p.attributes[m[1]] = next
		next++
	}

	n := b.name()
	b.Programs[n] = true
	b.programs[n] = p
	b.Uniforms[n] = map[string]any{}
	return n, nil
}

func (b *Backend) DeleteProgram(prog uint32) {
	if !b.Programs[prog] {
		b.DoubleFrees++
		return
	}
	delete(b.Programs, prog)
}

func (b *Backend) UseProgram(prog uint32) {
	b.current = prog
}

func (b *Backend) ActiveUniforms(prog uint32) map[string]int32 {
	out := map[string]int32{}
	if p, ok := b.programs[prog]; ok {
		for k, v := range p.uniforms {
			out[k] = v
		}
	}
	return out
}

func (b *Backend) ActiveAttributes(prog uint32) map[string]uint32 {
	out := map[string]uint32{}
	if p, ok := b.programs[prog]; ok {
		for k, v := range p.attributes {
			out[k] = v
		}
	}
	return out
}

func (b *Backend) set(location int32, v any) {
	p, ok := b.programs[b.current]
	if !ok {
		return
	}
	if name, ok := p.names[location]; ok {
		b.Uniforms[b.current][name] = v
	}
}

func (b *Backend) Uniform1i(location int32, v int32)            { b.set(location, v) }
func (b *Backend) Uniform1f(location int32, v float32)          { b.set(location, v) }
func (b *Backend) Uniform3f(location int32, v mgl32.Vec3)       { b.set(location, v) }
func (b *Backend) Uniform4f(location int32, v mgl32.Vec4)       { b.set(location, v) }
func (b *Backend) UniformMatrix3f(location int32, m mgl32.Mat3) { b.set(location, m) }
func (b *Backend) UniformMatrix4f(location int32, m mgl32.Mat4) { b.set(location, m) }

func (b *Backend) CreateTexture2D(pixels []byte, width, height int32) uint32 {
	n := b.name()
	b.Textures[n] = true
	return n
}

func (b *Backend) BindTexture2D(unit uint32, texture uint32) {
	b.boundTex = texture
}

func (b *Backend) DeleteTexture(texture uint32) {
	if !b.Textures[texture] {
		b.DoubleFrees++
		return
	}
	delete(b.Textures, texture)
}

func (b *Backend) Viewport(width, height int32) {
	b.ViewportW, b.ViewportH = width, height
}

func (b *Backend) Clear(color mgl32.Vec4) {
	b.ClearColor = color
}

// GetError pops the next queued error code.
func (b *Backend) GetError() uint32 {
	if len(b.Errors) == 0 {
		return gpu.NoError
	}
	e := b.Errors[0]
	b.Errors = b.Errors[1:]
	return e
}
