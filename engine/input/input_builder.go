package input

import "time"

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(*manager)

// WithInterval sets the mouse-look sampling period. Non-positive values are ignored.
//
// Parameters:
//   - d: the timer period
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithInterval(d time.Duration) ManagerBuilderOption {
	return func(m *manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithInvertY flips the sign of vertical mouse travel.
//
// Parameters:
//   - invert: true to invert
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithInvertY(invert bool) ManagerBuilderOption {
	return func(m *manager) {
		m.invertY = invert
	}
}
