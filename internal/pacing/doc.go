// File: internal/pacing/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pure state machines consulted and mutated by the session handle:
// present credit tracking, double-buffered release fence staging,
// FIFO vsync callback queuing, and the single-fire error latch.
//
// Nothing in this package touches the transport, schedules work, or
// holds locks. All state is owned by one logical thread: the
// dispatcher driving the session handle.
package pacing
