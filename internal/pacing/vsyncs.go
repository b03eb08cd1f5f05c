// File: internal/pacing/vsyncs.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FIFO queue of pending vsync timing callbacks.

package pacing

import (
	"github.com/eapache/queue"

	"github.com/momentics/framepace/api"
)

// VsyncQueue holds caller-registered timing callbacks until a credit
// replenishment event makes the next frame's timing known. Each event
// resolves exactly the oldest callback, never a batch. Every callback
// is invoked at most once; teardown discards without invoking.
//
// Not safe for concurrent use.
type VsyncQueue struct {
	q *queue.Queue
}

// NewVsyncQueue returns an empty callback queue.
func NewVsyncQueue() *VsyncQueue {
	return &VsyncQueue{q: queue.New()}
}

// Push appends a callback in registration order.
func (v *VsyncQueue) Push(cb api.VsyncCallback) {
	if cb == nil {
		panic("pacing: nil vsync callback")
	}
	v.q.Add(cb)
}

// ResolveOldest invokes the oldest queued callback with the given
// timing estimate and removes it. Reports whether a callback fired;
// resolving an empty queue is a no-op.
func (v *VsyncQueue) ResolveOldest(timing api.FrameTiming) bool {
	if v.q.Length() == 0 {
		return false
	}
	cb := v.q.Remove().(api.VsyncCallback)
	cb(timing.FrameStart, timing.FrameEnd)
	return true
}

// Len returns the number of callbacks awaiting resolution.
func (v *VsyncQueue) Len() int {
	return v.q.Length()
}

// DiscardAll drops all pending callbacks without invoking them.
// Non-invocation means "never arrived", not failure.
func (v *VsyncQueue) DiscardAll() {
	for v.q.Length() > 0 {
		v.q.Remove()
	}
}
