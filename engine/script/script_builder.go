package script

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
)

// RunnerBuilderOption is a functional option for configuring a Runner.
type RunnerBuilderOption func(*runner)

// WithLightBuilder shares a light Builder so slots continue across scripts and Go code.
// Without it the runner starts its own Builder at slot 0.
//
// Parameters:
//   - b: the light builder
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithLightBuilder(b *light.Builder) RunnerBuilderOption {
	return func(r *runner) {
		r.lights = b
	}
}

// WithLoader sets the mesh loader AddMesh reads through.
//
// Parameters:
//   - l: the mesh loader
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithLoader(l object.MeshLoader) RunnerBuilderOption {
	return func(r *runner) {
		r.loader = l
	}
}

// WithEntry changes the entry function name. Defaults to "Build".
//
// Parameters:
//   - name: a func() declared by the script
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithEntry(name string) RunnerBuilderOption {
	return func(r *runner) {
		if name != "" {
			r.entry = name
		}
	}
}
