// File: internal/pacing/errsink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Latched single-fire notifier for transport failure.

package pacing

import (
	"github.com/momentics/framepace/api"
)

// ErrorSink funnels all externally caused failures through exactly one
// notification. It fires at most once, on the first failure indication;
// every later indication is ignored.
//
// Not safe for concurrent use.
type ErrorSink struct {
	cb    api.ErrorCallback
	fired bool
}

// NewErrorSink wraps the caller's error callback. A nil callback is
// allowed; the sink still latches so Fired stays accurate.
func NewErrorSink(cb api.ErrorCallback) *ErrorSink {
	return &ErrorSink{cb: cb}
}

// Fire delivers err to the callback if the sink has not fired yet.
// Reports whether this call actually fired.
func (s *ErrorSink) Fire(err error) bool {
	if s.fired {
		return false
	}
	s.fired = true
	if s.cb != nil {
		s.cb(err)
	}
	return true
}

// Fired reports whether the notification has been delivered.
func (s *ErrorSink) Fired() bool {
	return s.fired
}
