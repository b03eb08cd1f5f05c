// Package api
// Author: momentics
//
// Dispatcher contract for cooperative single-threaded task execution.

package api

// Dispatcher abstracts the cooperative run queue that drives a session
// handle. Implementations must run posted tasks to completion in FIFO
// order on one logical thread; inbound transport events are delivered
// as tasks on the same queue.
//
// A session handle never schedules work on its own thread: every
// asynchronous effect happens strictly inside a dispatcher run turn.
type Dispatcher interface {
	// Post enqueues a task for execution on the next run turn.
	// Non-blocking. Returns an error if the dispatcher is closed.
	Post(task func()) error
}
