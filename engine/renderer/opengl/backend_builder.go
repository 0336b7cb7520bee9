package opengl

// BackendBuilderOption is a functional option for configuring the OpenGL backend.
type BackendBuilderOption func(*backendImpl)

// WithCullFace enables back-face culling with counter-clockwise front faces.
//
// Parameters:
//   - enabled: true to cull back faces
//
// Returns:
//   - BackendBuilderOption: option function to apply
func WithCullFace(enabled bool) BackendBuilderOption {
	return func(b *backendImpl) {
		b.cullFace = enabled
	}
}

// WithDepthTest toggles depth testing. Enabled by default.
//
// Parameters:
//   - enabled: true to enable the depth test
//
// Returns:
//   - BackendBuilderOption: option function to apply
func WithDepthTest(enabled bool) BackendBuilderOption {
	return func(b *backendImpl) {
		b.depthTest = enabled
	}
}
