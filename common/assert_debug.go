//go:build debug

package common

import "fmt"

// Debug reports whether invariant checks are compiled in.
const Debug = true

// Assert panics with the formatted message when cond is false.
// Only active in builds tagged "debug".
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
