// File: core/concurrency/runloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RunLoop is a serial cooperative task queue. It is the reference
// implementation of the dispatcher contract that drives a session
// handle: tasks run to completion in FIFO order, on whichever
// goroutine pumps the loop, and the loop never spawns threads of its
// own. Tests drive it deterministically with RunOne/RunUntilIdle.

package concurrency

import (
	"github.com/eapache/queue"

	"github.com/momentics/framepace/api"
)

// RunLoop implements api.Dispatcher over a FIFO queue.
// Not safe for concurrent use: producers and the pumping goroutine
// must be the same logical thread.
type RunLoop struct {
	tasks  *queue.Queue
	closed bool
}

// NewRunLoop creates an empty, open run loop.
func NewRunLoop() *RunLoop {
	return &RunLoop{tasks: queue.New()}
}

// Post enqueues a task for the next run turn. Tasks posted while the
// loop is being pumped are executed within the same pump, after all
// previously queued tasks.
func (l *RunLoop) Post(task func()) error {
	if l.closed {
		return api.ErrDispatcherClosed
	}
	if task == nil {
		return api.ErrInvalidArgument
	}
	l.tasks.Add(task)
	return nil
}

// RunOne executes the oldest queued task. Reports whether a task ran.
func (l *RunLoop) RunOne() bool {
	if l.tasks.Length() == 0 {
		return false
	}
	task := l.tasks.Remove().(func())
	task()
	return true
}

// RunUntilIdle pumps the loop until no tasks remain, including tasks
// posted by tasks executed during this pump. Returns the number of
// tasks executed.
func (l *RunLoop) RunUntilIdle() int {
	n := 0
	for l.RunOne() {
		n++
	}
	return n
}

// Len returns the number of queued tasks.
func (l *RunLoop) Len() int {
	return l.tasks.Length()
}

// Close rejects further posts. Already queued tasks are discarded
// without running.
func (l *RunLoop) Close() {
	l.closed = true
	for l.tasks.Length() > 0 {
		l.tasks.Remove()
	}
}
