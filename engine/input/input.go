package input

import (
	"maps"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// State is a per-frame snapshot of the keyboard and the mouse-look delta
// accumulated since the previous snapshot.
type State struct {
	keys map[uint32]bool

	// MouseDX is the horizontal cursor travel in pixels, positive to the right.
	MouseDX float32

	// MouseDY is the vertical cursor travel in pixels, positive downward.
	MouseDY float32
}

// NewState builds a State by hand, for replaying input or driving a Controller without a window.
//
// Parameters:
//   - dx, dy: mouse travel in pixels
//   - keys: the held keys
//
// Returns:
//   - State: the assembled state
func NewState(dx, dy float32, keys ...uint32) State {
	held := make(map[uint32]bool, len(keys))
	for _, k := range keys {
		held[k] = true
	}
	return State{keys: held, MouseDX: dx, MouseDY: dy}
}

// Pressed reports whether key was held when the snapshot was taken.
func (s State) Pressed(key uint32) bool {
	return s.keys[key]
}

// Manager collects window input events and hands them to the frame loop.
// Key and cursor callbacks may arrive on any goroutine. A periodic timer folds
// the latest cursor movement into atomic accumulators that Snapshot drains.
type Manager interface {
	// KeyDown marks a key as held.
	//
	// Parameters:
	//   - key: the virtual key code (see common.Key*)
	KeyDown(key uint32)

	// KeyUp marks a key as released.
	//
	// Parameters:
	//   - key: the virtual key code
	KeyUp(key uint32)

	// MouseMoved records the latest absolute cursor position.
	// The first call only establishes the baseline.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	MouseMoved(x, y float64)

	// Pressed reports whether a key is currently held.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is held
	Pressed(key uint32) bool

	// Start launches the mouse-look timer. Calling Start on a running Manager does nothing.
	Start()

	// Stop halts the mouse-look timer and waits for it to exit. Safe to call more than once.
	Stop()

	// Running reports whether the mouse-look timer is active.
	//
	// Returns:
	//   - bool: true between Start and Stop
	Running() bool

	// Snapshot copies the key state and drains the mouse accumulators to zero.
	//
	// Returns:
	//   - State: the input since the previous Snapshot
	Snapshot() State
}

type manager struct {
	mu *sync.Mutex

	keys map[uint32]bool

	cursorX, cursorY   float64
	sampledX, sampledY float64
	hasCursor          bool
	hasSample          bool

	accX atomic.Uint64
	accY atomic.Uint64

	interval time.Duration
	invertY  bool

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	running   atomic.Bool
	quit      chan struct{}
	done      chan struct{}
}

var _ Manager = &manager{}

// NewManager creates an input Manager. The mouse-look timer is not started.
//
// Parameters:
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the new manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:       &sync.Mutex{},
		keys:     make(map[uint32]bool),
		interval: 10 * time.Millisecond,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) KeyDown(key uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = true
}

func (m *manager) KeyUp(key uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
}

func (m *manager) MouseMoved(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorX, m.cursorY = x, y
	m.hasCursor = true
}

func (m *manager) Pressed(key uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key]
}

func (m *manager) Start() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.running.Load() {
		return
	}
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.quit, m.done)
	m.running.Store(true)
}

func (m *manager) Stop() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if !m.running.Load() {
		return
	}
	close(m.quit)
	<-m.done
	m.running.Store(false)
}

func (m *manager) Running() bool {
	return m.running.Load()
}

func (m *manager) Snapshot() State {
	m.mu.Lock()
	keys := maps.Clone(m.keys)
	m.mu.Unlock()

	return State{
		keys:    keys,
		MouseDX: float32(math.Float64frombits(m.accX.Swap(0))),
		MouseDY: float32(math.Float64frombits(m.accY.Swap(0))),
	}
}

func (m *manager) loop(quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

// sample folds the cursor travel since the last sample into the accumulators.
func (m *manager) sample() {
	m.mu.Lock()
	if !m.hasCursor {
		m.mu.Unlock()
		return
	}
	if !m.hasSample {
		m.sampledX, m.sampledY = m.cursorX, m.cursorY
		m.hasSample = true
		m.mu.Unlock()
		return
	}
	dx := m.cursorX - m.sampledX
	dy := m.cursorY - m.sampledY
	m.sampledX, m.sampledY = m.cursorX, m.cursorY
	m.mu.Unlock()

	if m.invertY {
		dy = -dy
	}
	addFloat(&m.accX, dx)
	addFloat(&m.accY, dy)
}

func addFloat(acc *atomic.Uint64, delta float64) {
	if delta == 0 {
		return
	}
	for {
		old := acc.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if acc.CompareAndSwap(old, next) {
			return
		}
	}
}
