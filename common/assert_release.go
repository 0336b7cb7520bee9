//go:build !debug

package common

// Debug reports whether invariant checks are compiled in.
const Debug = false

// Assert is a no-op outside of debug builds.
func Assert(cond bool, format string, args ...any) {}
