package loader

import (
	"io"
)

// opener resolves a file referenced from inside a model file (a material library).
type opener func(path string) (io.ReadCloser, error)

// loaderBackend decodes one model file format into a Mesh.
// Concrete implementations (objLoaderBackend, xmlLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode parses a model stream.
	//
	// Parameters:
	//   - name: the file name used in error messages and as the default mesh name
	//   - r: the model data
	//   - dir: the directory relative references are resolved against
	//   - open: resolves referenced files such as material libraries
	//
	// Returns:
	//   - *Mesh: the decoded mesh
	//   - error: ErrMalformed-wrapped error naming the file and line
	Decode(name string, r io.Reader, dir string, open opener) (*Mesh, error)
}
