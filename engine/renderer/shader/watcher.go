package shader

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when adding paths to a closed Watcher.
var ErrWatcherClosed = errors.New("shader watcher already closed")

// watcher is the implementation of the Watcher interface.
type watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	changes  chan string
	done     chan struct{}
	isClosed bool
	wg       sync.WaitGroup
}

// Watcher publishes the paths of shader source files that were written or created.
// Programs must be recompiled on the thread that owns the GL context, so the
// watcher only reports paths and never touches a Program itself.
type Watcher interface {
	// Add starts watching a file or directory (non-recursively).
	//
	// Parameters:
	//   - path: the file or directory to watch
	//
	// Returns:
	//   - error: ErrWatcherClosed or an fsnotify error
	Add(path string) error

	// Changes returns the channel of changed file paths. It is closed by Close.
	//
	// Returns:
	//   - <-chan string: cleaned absolute or relative paths as reported by the OS
	Changes() <-chan string

	// Close stops the watch goroutine. Safe to call multiple times.
	//
	// Returns:
	//   - error: the error from closing the underlying fsnotify watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts a watcher over the given directories.
//
// Parameters:
//   - dirs: directories holding shader sources
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if fsnotify could not be started or a directory could not be added
func NewWatcher(dirs ...string) (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		fs:      fs,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()

	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isClosed {
		return ErrWatcherClosed
	}
	return w.fs.Add(path)
}

func (w *watcher) Changes() <-chan string {
	return w.changes
}

func (w *watcher) Close() error {
	w.mu.Lock()
	if w.isClosed {
		w.mu.Unlock()
		return nil
	}
	w.isClosed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.changes)
	return err
}

func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			select {
			case w.changes <- filepath.Clean(e.Name):
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			common.LogError("shader watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

// ReloadChanged relinks every program loaded from path. Failures are logged and
// the program keeps its previous binary.
//
// Parameters:
//   - programs: the candidate programs
//   - path: a changed source file path
//
// Returns:
//   - int: the number of programs successfully relinked
func ReloadChanged(programs []Program, path string) int {
	path = filepath.Clean(path)
	reloaded := 0
	for _, p := range programs {
		if p == nil {
			continue
		}
		vs, fs := p.Paths()
		if (vs == "" || filepath.Clean(vs) != path) && (fs == "" || filepath.Clean(fs) != path) {
			continue
		}
		if err := p.Reload(); err != nil {
			common.LogError("shader %s: hot reload failed: %v", p.Kind(), err)
			continue
		}
		common.LogInfo("shader %s: reloaded from %s", p.Kind(), path)
		reloaded++
	}
	return reloaded
}
