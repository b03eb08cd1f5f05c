// File: internal/pacing/fences.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Double-buffered staging of release fences between submissions.

package pacing

import (
	"github.com/momentics/framepace/api"
)

// FenceStagingQueue buffers caller-supplied release fences with a
// one-submission-cycle handoff delay. Two buffers are held at all
// times: a pending buffer receiving new enqueues and a staged buffer
// whose contents ride on the next dispatched submission. The roles
// swap exactly once per dispatch.
//
// The lag is the contract, not a buffering artifact: a release fence
// pertains to resources retired by the submission most recently
// acknowledged by the server, which at enqueue time is still the
// in-flight one. A fence enqueued between dispatch N-1 and dispatch N
// is therefore attached to dispatch N+1.
//
// Not safe for concurrent use.
type FenceStagingQueue struct {
	staged  []api.FenceHandle
	pending []api.FenceHandle
}

// NewFenceStagingQueue returns an empty staging queue.
func NewFenceStagingQueue() *FenceStagingQueue {
	return &FenceStagingQueue{}
}

// Enqueue appends a fence to the pending buffer, taking ownership.
// Non-blocking, unconditionally successful.
func (q *FenceStagingQueue) Enqueue(fence api.FenceHandle) {
	q.pending = append(q.pending, fence)
}

// Drain hands the staged buffer to the caller in enqueue order and
// promotes the pending buffer to staged. Ownership of the returned
// fences passes to the caller (the outgoing transport call).
func (q *FenceStagingQueue) Drain() []api.FenceHandle {
	out := q.staged
	q.staged = q.pending
	q.pending = nil
	return out
}

// StagedLen returns the number of fences riding on the next dispatch.
func (q *FenceStagingQueue) StagedLen() int {
	return len(q.staged)
}

// PendingLen returns the number of fences awaiting promotion.
func (q *FenceStagingQueue) PendingLen() int {
	return len(q.pending)
}

// DiscardAll drops every owned fence without transmitting it. Used on
// teardown; ownership of the fences simply ends.
func (q *FenceStagingQueue) DiscardAll() {
	q.staged = nil
	q.pending = nil
}
