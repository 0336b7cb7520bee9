// Package gpu defines the graphics backend contract used by the renderer, shader,
// light and material packages. It carries no driver dependency so that everything
// above it can be exercised against an in-memory backend.
package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BackendType identifies the graphics API implementation behind a Backend.
type BackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core profile backend.
	BackendTypeOpenGL BackendType = iota
)

// BufferTarget selects the binding point a buffer upload goes to.
type BufferTarget int

const (
	// ArrayBuffer holds per-vertex attribute data.
	ArrayBuffer BufferTarget = iota

	// ElementArrayBuffer holds triangle indices.
	ElementArrayBuffer
)

// NoError is the value GetError returns when no error is pending.
const NoError uint32 = 0

// Vertex attribute locations shared by every program. Backends bind these
// names before linking so one VAO layout works with any program.
const (
	AttribPosition uint32 = iota
	AttribNormal
	AttribTextureCoordinates
	AttribTangent
)

// AttributeLocations maps the engine's vertex attribute names to their fixed locations.
var AttributeLocations = map[string]uint32{
	"vertexPosition":           AttribPosition,
	"vertexNormal":             AttribNormal,
	"vertexTextureCoordinates": AttribTextureCoordinates,
	"vertexTangent":            AttribTangent,
}

// Backend is a named-uniform, named-attribute rasterization API.
// All methods must be called from the goroutine that owns the graphics context.
type Backend interface {
	// Type returns the graphics API this backend drives.
	//
	// Returns:
	//   - BackendType: the backend type
	Type() BackendType

	// GenVertexArray allocates a vertex array object.
	//
	// Returns:
	//   - uint32: the new VAO name
	GenVertexArray() uint32

	// BindVertexArray makes a VAO current. Zero unbinds.
	//
	// Parameters:
	//   - vao: the VAO name
	BindVertexArray(vao uint32)

	// DeleteVertexArray frees a VAO.
	//
	// Parameters:
	//   - vao: the VAO name
	DeleteVertexArray(vao uint32)

	// GenBuffer allocates a buffer object.
	//
	// Returns:
	//   - uint32: the new buffer name
	GenBuffer() uint32

	// BindBuffer binds a buffer to a target. Zero unbinds.
	//
	// Parameters:
	//   - target: the binding point
	//   - buffer: the buffer name
	BindBuffer(target BufferTarget, buffer uint32)

	// DeleteBuffer frees a buffer object.
	//
	// Parameters:
	//   - buffer: the buffer name
	DeleteBuffer(buffer uint32)

	// BufferFloat32 binds a buffer and uploads float data with static usage.
	//
	// Parameters:
	//   - target: the binding point
	//   - buffer: the buffer name
	//   - data: the payload
	BufferFloat32(target BufferTarget, buffer uint32, data []float32)

	// BufferUint32 binds a buffer and uploads unsigned integer data with static usage.
	//
	// Parameters:
	//   - target: the binding point
	//   - buffer: the buffer name
	//   - data: the payload
	BufferUint32(target BufferTarget, buffer uint32, data []uint32)

	// VertexAttribPointer describes tightly packed float components for the bound array buffer
	// at an attribute location and enables the attribute.
	//
	// Parameters:
	//   - location: the attribute location
	//   - size: components per vertex (1-4)
	VertexAttribPointer(location uint32, size int32)

	// DrawElements draws indexed triangles from the bound VAO.
	//
	// Parameters:
	//   - count: number of indices
	DrawElements(count int32)

	// CompileProgram compiles and links a vertex/fragment pair.
	//
	// Parameters:
	//   - vertexSource: GLSL vertex shader source
	//   - fragmentSource: GLSL fragment shader source
	//
	// Returns:
	//   - uint32: the program name
	//   - error: compile or link error including the driver log
	CompileProgram(vertexSource, fragmentSource string) (uint32, error)

	// DeleteProgram frees a program.
	//
	// Parameters:
	//   - program: the program name
	DeleteProgram(program uint32)

	// UseProgram makes a program current.
	//
	// Parameters:
	//   - program: the program name
	UseProgram(program uint32)

	// ActiveUniforms reflects the active uniforms of a linked program.
	// Array uniforms are expanded to one entry per element ("lights[0].diffuse").
	//
	// Parameters:
	//   - program: the program name
	//
	// Returns:
	//   - map[string]int32: uniform name to location
	ActiveUniforms(program uint32) map[string]int32

	// ActiveAttributes reflects the active vertex attributes of a linked program.
	//
	// Parameters:
	//   - program: the program name
	//
	// Returns:
	//   - map[string]uint32: attribute name to location
	ActiveAttributes(program uint32) map[string]uint32

	// Uniform1i sets an int or sampler uniform on the current program.
	Uniform1i(location int32, v int32)

	// Uniform1f sets a float uniform on the current program.
	Uniform1f(location int32, v float32)

	// Uniform3f sets a vec3 uniform on the current program.
	Uniform3f(location int32, v mgl32.Vec3)

	// Uniform4f sets a vec4 uniform on the current program.
	Uniform4f(location int32, v mgl32.Vec4)

	// UniformMatrix3f sets a mat3 uniform on the current program.
	UniformMatrix3f(location int32, m mgl32.Mat3)

	// UniformMatrix4f sets a mat4 uniform on the current program.
	UniformMatrix4f(location int32, m mgl32.Mat4)

	// CreateTexture2D uploads RGBA8 pixels with mipmaps and repeat wrapping.
	//
	// Parameters:
	//   - pixels: RGBA data, bottom row first
	//   - width, height: dimensions in pixels
	//
	// Returns:
	//   - uint32: the texture name
	CreateTexture2D(pixels []byte, width, height int32) uint32

	// BindTexture2D binds a texture to a texture unit. Zero unbinds.
	//
	// Parameters:
	//   - unit: texture unit index
	//   - texture: the texture name
	BindTexture2D(unit uint32, texture uint32)

	// DeleteTexture frees a texture.
	//
	// Parameters:
	//   - texture: the texture name
	DeleteTexture(texture uint32)

	// Viewport sets the drawable rectangle.
	Viewport(width, height int32)

	// Clear clears color and depth with the given color.
	Clear(color mgl32.Vec4)

	// GetError returns and clears the pending error code, NoError if none.
	//
	// Returns:
	//   - uint32: the error code
	GetError() uint32
}
