package shader

// ProgramBuilderOption is a functional option for configuring a Program.
type ProgramBuilderOption func(*program)

// WithSource sets explicit vertex and fragment sources, overriding files and embedded defaults.
//
// Parameters:
//   - vertex: GLSL vertex shader source
//   - fragment: GLSL fragment shader source
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithSource(vertex, fragment string) ProgramBuilderOption {
	return func(p *program) {
		p.vertexSource = vertex
		p.fragmentSource = fragment
	}
}

// WithSourceDir loads "<kind>.vert" and "<kind>.frag" from dir when both exist.
// Reload re-reads those files, which is what the Watcher relies on.
//
// Parameters:
//   - dir: directory holding shader source files
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithSourceDir(dir string) ProgramBuilderOption {
	return func(p *program) {
		if dir == "" {
			return
		}
		p.vertexPath, p.fragmentPath = sourcePaths(dir, p.kind)
	}
}

// WithPreProcessor replaces the default GLSL pre-processor.
//
// Parameters:
//   - pp: the pre-processor to use
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithPreProcessor(pp PreProcessor) ProgramBuilderOption {
	return func(p *program) {
		p.pp = pp
	}
}
