// File: clock/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monotonic timestamp source for frame timing estimates. Platform
// implementations live in build-tag-partitioned files.

package clock

// Monotonic returns the current monotonic timestamp in nanoseconds.
// The zero point is unspecified; only differences are meaningful.
func Monotonic() int64 {
	return monotonic()
}
