package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets the reporting period. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting period
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithReporter replaces the default log reporter. A nil reporter disables reporting.
//
// Parameters:
//   - fn: receives each interval's stats on the timer goroutine
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithReporter(fn func(Stats)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.report = fn
	}
}
