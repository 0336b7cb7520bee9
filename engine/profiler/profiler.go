package profiler

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Stats is one reporting interval's worth of frame and memory statistics.
type Stats struct {
	Frames      uint64
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// The frame loop calls Frame once per frame; a periodic timer swaps the counter
// to zero and reports the interval's stats.
type Profiler struct {
	frames   atomic.Uint64
	fpsBits  atomic.Uint64
	interval time.Duration
	report   func(Stats)

	mu             sync.Mutex
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// lifecycle serializes Start and Stop; mu is taken by Tick on the timer goroutine.
	lifecycle sync.Mutex
	running   atomic.Bool
	quit      chan struct{}
	done      chan struct{}
}

// NewProfiler creates a new Profiler. The interval defaults to 1 second and
// stats are logged at info level.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		interval: time.Second,
		report:   logStats,
		lastTime: time.Now(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Frame counts one rendered frame. Safe to call from any goroutine.
func (p *Profiler) Frame() {
	p.frames.Add(1)
}

// FPS returns the frame rate measured over the last completed interval.
//
// Returns:
//   - float64: frames per second, zero before the first report
func (p *Profiler) FPS() float64 {
	return math.Float64frombits(p.fpsBits.Load())
}

// Start launches the reporting timer. Calling Start twice does nothing.
func (p *Profiler) Start() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()
	if p.running.Load() {
		return
	}
	p.mu.Lock()
	p.lastTime = time.Now()
	p.mu.Unlock()
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	go func(quit <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case now := <-ticker.C:
				p.Tick(now)
			}
		}
	}(p.quit, p.done)
	p.running.Store(true)
}

// Stop halts the reporting timer and waits for it to exit. Safe to call from any goroutine.
func (p *Profiler) Stop() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()
	if !p.running.Load() {
		return
	}
	close(p.quit)
	<-p.done
	p.running.Store(false)
}

// Tick closes the current interval at now: the frame counter is swapped to
// zero and the interval's stats are computed and reported.
//
// Parameters:
//   - now: the end of the interval
//
// Returns:
//   - Stats: the interval's statistics
func (p *Profiler) Tick(now time.Time) Stats {
	frames := p.frames.Swap(0)

	p.mu.Lock()
	elapsed := now.Sub(p.lastTime)
	if elapsed <= 0 {
		elapsed = p.interval
	}
	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
	s := Stats{
		Frames:      frames,
		FPS:         float64(frames) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
	}
	if s.NumGC > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.NumGC-1)%256] / 1000
		start := p.lastGCCount
		if s.NumGC-start > 256 {
			start = s.NumGC - 256
		}
		for i := start; i < s.NumGC; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}
	p.lastTime = now
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.mu.Unlock()

	p.fpsBits.Store(math.Float64bits(s.FPS))
	if p.report != nil {
		p.report(s)
	}
	return s
}

func logStats(s Stats) {
	common.LogInfo("profiler: FPS %.2f | Heap %.2f MB | Alloc Rate %.2f MB/s | GC %d (last %d µs, max %d µs) | Sys %.2f MB",
		s.FPS, s.HeapMB, s.AllocRateMB, s.NumGC, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
}
