// File: adapters/dispatcher_adapter.go
// Package adapters provides glue between core/concurrency and api.Dispatcher.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// DispatcherAdapter exposes a core RunLoop through the api.Dispatcher
// contract while keeping the pumping surface (RunOne/RunUntilIdle)
// available for the embedding event loop and for tests.

package adapters

import (
	"github.com/momentics/framepace/api"
	"github.com/momentics/framepace/core/concurrency"
)

// DispatcherAdapter wraps a concurrency.RunLoop to satisfy api.Dispatcher.
type DispatcherAdapter struct {
	loop *concurrency.RunLoop
}

// NewDispatcherAdapter constructs a dispatcher backed by a fresh run loop.
func NewDispatcherAdapter() *DispatcherAdapter {
	return &DispatcherAdapter{loop: concurrency.NewRunLoop()}
}

// Post dispatches a task onto the run loop in FIFO order.
func (da *DispatcherAdapter) Post(task func()) error {
	return da.loop.Post(task)
}

// RunOne executes the oldest queued task, if any.
func (da *DispatcherAdapter) RunOne() bool {
	return da.loop.RunOne()
}

// RunUntilIdle pumps queued tasks, and tasks they post, to exhaustion.
func (da *DispatcherAdapter) RunUntilIdle() int {
	return da.loop.RunUntilIdle()
}

// Len returns the number of queued tasks.
func (da *DispatcherAdapter) Len() int {
	return da.loop.Len()
}

// Close rejects further posts and discards queued tasks.
func (da *DispatcherAdapter) Close() {
	da.loop.Close()
}

var _ api.Dispatcher = (*DispatcherAdapter)(nil)
