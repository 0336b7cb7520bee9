package loader

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrMalformed is wrapped by every parse error. The message names the file and line.
	ErrMalformed = errors.New("malformed model file")

	// ErrUnsupportedFormat is returned for file extensions with no backend.
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// Format identifies a model file format.
type Format int

const (
	// FormatOBJ is the Wavefront line format with optional .mtl material library.
	FormatOBJ Format = iota
	// FormatXML is the markup format with flattened attribute arrays.
	FormatXML
)

// Mesh is a decoded model: one indexed triangle list and its material.
type Mesh struct {
	Name     string
	Geometry object.Geometry
	Material material.Material
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[string]*Mesh

	backends map[Format]loaderBackend

	workers int
	pool    worker.DynamicWorkerPool
}

// Loader loads and caches meshes. The backend is chosen by file extension:
// .obj selects the line format, .xml and .dae the markup format.
type Loader interface {
	object.MeshLoader

	// Load imports a model file and caches the result by path.
	// A cached mesh is returned without touching the file system.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *Mesh: the loaded and cached mesh
	//   - error: ErrUnsupportedFormat, an I/O error, or an ErrMalformed parse error
	Load(path string) (*Mesh, error)

	// LoadReader imports a model from a reader stream and caches it by name.
	// Material libraries are resolved relative to the working directory.
	//
	// Parameters:
	//   - name: the cache key and error-message name
	//   - r: the reader providing model data
	//   - format: the stream's format
	//
	// Returns:
	//   - *Mesh: the loaded mesh
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader, format Format) (*Mesh, error)

	// LoadAll loads several files in parallel on the loader's worker pool.
	// Results keep the order of paths; failures are joined into one error.
	//
	// Parameters:
	//   - paths: model files to load
	//
	// Returns:
	//   - []*Mesh: one entry per path, nil where loading failed
	//   - error: every failure joined, or nil
	LoadAll(paths ...string) ([]*Mesh, error)

	// Get retrieves a cached mesh by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Mesh: the cached mesh or nil
	Get(name string) *Mesh

	// Meshes returns a copy of the mesh cache.
	//
	// Returns:
	//   - map[string]*Mesh: all cached meshes keyed by name
	Meshes() map[string]*Mesh
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the OBJ and XML backends registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[string]*Mesh),
		backends: map[Format]loaderBackend{
			FormatOBJ: &objLoaderBackend{},
			FormatXML: &xmlLoaderBackend{},
		},
		workers: 4,
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (*Mesh, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	format, err := resolveFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer f.Close()

	m, err := l.backends[format].Decode(path, f, filepath.Dir(path), openFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	common.LogDebug("loader: %s: %d vertices, %d triangles", path, len(m.Geometry.Points), len(m.Geometry.Indices)/3)

	return l.store(path, m), nil
}

func (l *loader) LoadReader(name string, r io.Reader, format Format) (*Mesh, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[format]
	if !ok {
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
	m, err := backend.Decode(name, r, ".", openFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, m), nil
}

func (l *loader) LoadGeometry(path string) (object.Geometry, material.Material, error) {
	m, err := l.Load(path)
	if err != nil {
		return object.Geometry{}, nil, err
	}
	return m.Geometry, m.Material, nil
}

func (l *loader) LoadAll(paths ...string) ([]*Mesh, error) {
	meshes := make([]*Mesh, len(paths))
	errs := make([]error, len(paths))

	// The WaitGroup is the barrier; pool.Wait blocks until idle workers exit.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[i], errs[i] = l.Load(path)
				return meshes[i], errs[i]
			},
		})
	}
	wg.Wait()
	return meshes, errors.Join(errs...)
}

func (l *loader) Get(name string) *Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Meshes() map[string]*Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.meshCache)
}

// store caches m under key unless another goroutine got there first, and
// returns whichever mesh ended up cached.
func (l *loader) store(key string, m *Mesh) *Mesh {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.meshCache[key]; ok {
		return cached
	}
	l.meshCache[key] = m
	return m
}

// resolveFormat selects a backend from the file extension.
func resolveFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return FormatOBJ, nil
	case ".xml", ".dae":
		return FormatXML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// smoothNormals averages the face normals around each vertex. Vertices that
// belong to no triangle get +Y.
func smoothNormals(points []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(points))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := points[b].Sub(points[a]).Cross(points[c].Sub(points[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() < common.Epsilon {
			normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}

func malformed(name string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", ErrMalformed, name, line, fmt.Sprintf(format, args...))
}
