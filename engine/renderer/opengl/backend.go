// Package opengl implements gpu.Backend on the OpenGL 4.1 core profile.
package opengl

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// backendImpl issues go-gl calls against the context current on the calling thread.
type backendImpl struct {
	cullFace  bool
	depthTest bool
}

var _ gpu.Backend = &backendImpl{}

// NewBackend loads the OpenGL function pointers for the current context and
// sets the fixed pipeline state. The context must already be current.
//
// Parameters:
//   - options: functional options to configure the backend
//
// Returns:
//   - gpu.Backend: the OpenGL backend
//   - error: error if the function pointers cannot be loaded
func NewBackend(options ...BackendBuilderOption) (gpu.Backend, error) {
	b := &backendImpl{
		depthTest: true,
	}
	for _, opt := range options {
		opt(b)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	common.LogInfo("OpenGL %s, GLSL %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	if b.depthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	}
	if b.cullFace {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}
	return b, nil
}

func (b *backendImpl) Type() gpu.BackendType {
	return gpu.BackendTypeOpenGL
}

func (b *backendImpl) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (b *backendImpl) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (b *backendImpl) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (b *backendImpl) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (b *backendImpl) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	gl.BindBuffer(glTarget(target), buffer)
}

func (b *backendImpl) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (b *backendImpl) BufferFloat32(target gpu.BufferTarget, buffer uint32, data []float32) {
	t := glTarget(target)
	gl.BindBuffer(t, buffer)
	if len(data) == 0 {
		gl.BufferData(t, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(t, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (b *backendImpl) BufferUint32(target gpu.BufferTarget, buffer uint32, data []uint32) {
	t := glTarget(target)
	gl.BindBuffer(t, buffer)
	if len(data) == 0 {
		gl.BufferData(t, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(t, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (b *backendImpl) VertexAttribPointer(location uint32, size int32) {
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
}

func (b *backendImpl) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (b *backendImpl) CompileProgram(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	for name, loc := range gpu.AttributeLocations {
		gl.BindAttribLocation(prog, loc, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(prog, vs)
	gl.DetachShader(prog, fs)
	return prog, nil
}

func (b *backendImpl) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *backendImpl) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (b *backendImpl) ActiveUniforms(program uint32) map[string]int32 {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	out := make(map[string]int32, count)
	buf := make([]uint8, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])

		base, isArray := strings.CutSuffix(name, "[0]")
		if !isArray || size <= 1 {
			out[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
			continue
		}
		for e := int32(0); e < size; e++ {
			elem := fmt.Sprintf("%s[%d]", base, e)
			out[elem] = gl.GetUniformLocation(program, gl.Str(elem+"\x00"))
		}
	}
	return out
}

func (b *backendImpl) ActiveAttributes(program uint32) map[string]uint32 {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLen)

	out := make(map[string]uint32, count)
	buf := make([]uint8, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		loc := gl.GetAttribLocation(program, gl.Str(name+"\x00"))
		if loc >= 0 {
			out[name] = uint32(loc)
		}
	}
	return out
}

func (b *backendImpl) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *backendImpl) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *backendImpl) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3fv(location, 1, &v[0])
}

func (b *backendImpl) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4fv(location, 1, &v[0])
}

func (b *backendImpl) UniformMatrix3f(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (b *backendImpl) UniformMatrix4f(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *backendImpl) CreateTexture2D(pixels []byte, width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (b *backendImpl) BindTexture2D(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (b *backendImpl) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (b *backendImpl) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (b *backendImpl) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *backendImpl) GetError() uint32 {
	return gl.GetError()
}

// compileShader compiles one stage and returns the driver log on failure.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func glTarget(t gpu.BufferTarget) uint32 {
	if t == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}
