package renderer

// DrawerBuilderOption is a functional option applied to a drawer during construction via NewDrawer.
type DrawerBuilderOption func(*drawer)

// WithErrorChecks toggles draining the backend error queue after every upload and draw.
// Enabled by default; turning it off avoids a driver round trip per draw call.
//
// Parameters:
//   - enabled: whether to check for errors
//
// Returns:
//   - DrawerBuilderOption: a function that applies the option to a drawer
func WithErrorChecks(enabled bool) DrawerBuilderOption {
	return func(d *drawer) {
		d.checkErrors = enabled
	}
}
