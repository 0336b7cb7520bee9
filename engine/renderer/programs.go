package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ProgramSet holds one linked program per shader kind.
type ProgramSet struct {
	programs map[shader.Kind]shader.Program
}

// NewProgramSet compiles every shader kind.
//
// Parameters:
//   - backend: the graphics backend
//   - options: options passed to every shader.NewProgram call, e.g. shader.WithSourceDir
//
// Returns:
//   - *ProgramSet: the compiled programs
//   - error: the first compile or link error; programs compiled so far are closed
func NewProgramSet(backend gpu.Backend, options ...shader.ProgramBuilderOption) (*ProgramSet, error) {
	ps := &ProgramSet{programs: map[shader.Kind]shader.Program{}}
	for _, k := range shader.Kinds() {
		p, err := shader.NewProgram(backend, k, options...)
		if err != nil {
			ps.Close()
			return nil, fmt.Errorf("failed to build program set: %w", err)
		}
		ps.programs[k] = p
	}
	return ps, nil
}

// Get returns the program of a kind, or nil.
func (ps *ProgramSet) Get(k shader.Kind) shader.Program {
	return ps.programs[k]
}

// All returns the programs in shader.Kinds order.
func (ps *ProgramSet) All() []shader.Program {
	out := make([]shader.Program, 0, len(ps.programs))
	for _, k := range shader.Kinds() {
		if p, ok := ps.programs[k]; ok {
			out = append(out, p)
		}
	}
	return out
}

// For picks the program an object is drawn with.
func (ps *ProgramSet) For(o *object.Object) shader.Program {
	return ps.programs[ProgramKind(o)]
}

// Close deletes every program.
func (ps *ProgramSet) Close() {
	for _, p := range ps.programs {
		p.Close()
	}
}

// ProgramKind maps an object to its shader kind: mirrors and bulbs have their
// own programs, textured or normal-mapped surfaces use the lighted-object
// program and everything else plain Phong.
func ProgramKind(o *object.Object) shader.Kind {
	switch o.Kind() {
	case object.KindMirror:
		return shader.KindMirror
	case object.KindLightBulb:
		return shader.KindLightBulb
	}
	if m := o.Material(); m != nil && (m.DiffuseTexture() != nil || m.NormalTexture() != nil) {
		return shader.KindLightedObject
	}
	return shader.KindPhong
}
