// pre_processor.go implements the GLSL pre-processor. It scans shader source for
// //@oxy: annotation lines and replaces them with embedded GLSL chunks or engine
// constants so that every program shares one definition of the light and material
// uniform layout.
//
// Supported annotations:
//   - //@oxy:include <chunk>   injects a registered chunk ("light", "material")
//   - //@oxy:define <constant> emits "#define <constant> <value>" for a registered constant
package shader

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a GLSL line comment.
const annotationPrefix = "//@oxy:"

//go:embed assets/light.glsl
var lightChunk string

//go:embed assets/material.glsl
var materialChunk string

// AnnotationType identifies the action requested by an annotation line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered GLSL chunk at the annotation site.
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeDefine emits a preprocessor #define for a registered engine constant.
	AnnotationTypeDefine AnnotationType = "define"
)

// Annotation is one parsed //@oxy: line.
type Annotation struct {
	Type AnnotationType
	Arg  string
	Line int
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	chunks    map[string]string
	constants map[string]int

	annotations []Annotation
}

// PreProcessor expands //@oxy: annotations in GLSL source.
type PreProcessor interface {
	// Process expands every annotation in source. Lines without annotations pass through.
	// A chunk is included at most once per call; repeated includes expand to nothing.
	//
	// Parameters:
	//   - source: GLSL source containing annotations
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the line of a malformed or unknown annotation
	Process(source string) (string, error)

	// Annotations returns the annotations found by the most recent Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the parsed annotations
	Annotations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's chunks and constants registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		chunks: map[string]string{
			"light":    lightChunk,
			"material": materialChunk,
		},
		constants: map[string]int{
			"MAX_LIGHTS": MaxLights,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.annotations = p.annotations[:0]
	included := map[string]bool{}

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}
		p.annotations = append(p.annotations, *a)

		switch a.Type {
		case AnnotationTypeInclude:
			chunk, ok := p.chunks[a.Arg]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", a.Line, a.Arg)
			}
			if included[a.Arg] {
				continue
			}
			included[a.Arg] = true
			out = append(out, chunk)
		case AnnotationTypeDefine:
			v, ok := p.constants[a.Arg]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:define argument %q", a.Line, a.Arg)
			}
			out = append(out, "#define "+a.Arg+" "+strconv.Itoa(v))
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", a.Line, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Annotations() []Annotation {
	return p.annotations
}

// parseAnnotation returns nil for lines that are not annotations.
func parseAnnotation(line string, lineNumber int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return nil, fmt.Errorf("line %d: annotation %q needs exactly one argument", lineNumber, trimmed)
	}
	return &Annotation{Type: AnnotationType(fields[0]), Arg: fields[1], Line: lineNumber}, nil
}
