// File: clock/clock_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback monotonic clock for non-Linux platforms.

//go:build !linux

package clock

import "time"

var base = time.Now()

func monotonic() int64 {
	// time.Since reads the runtime's monotonic reading of base.
	return int64(time.Since(base))
}
