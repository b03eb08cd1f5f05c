// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations for the frame pacing client.

package api

// FenceHandle is an opaque synchronization token supplied by the caller.
// Ownership is transferred on enqueue and again on transmission; a handle
// must never be duplicated or reused after it has been handed off.
type FenceHandle uint64

// InvalidFence is the zero value of FenceHandle and is never transmitted.
const InvalidFence FenceHandle = 0

// FrameTiming is the predicted start/end of one presentation interval,
// as monotonic nanosecond instants. FrameEnd - FrameStart equals the
// configured presentation interval unless refined by server timing data.
type FrameTiming struct {
	FrameStart int64
	FrameEnd   int64
}

// SubmitArgs is the payload of one frame submission.
type SubmitArgs struct {
	// ReleaseFences gate reuse of per-frame resources. Transmitted in
	// enqueue order; ownership passes to the transport on Submit.
	ReleaseFences []FenceHandle
}

// VsyncCallback receives a frame timing estimate. Invoked exactly once.
type VsyncCallback func(frameStart, frameEnd int64)

// FramePresentedCallback receives the timing payload of one completion
// event, forwarded unchanged. Invoked once per event.
type FramePresentedCallback func(ev FramePresentedEvent)

// ErrorCallback receives the single transport-failure notification.
type ErrorCallback func(err error)

// ConnState enumerates the connection state of a session handle.
// Disconnected is terminal; there is no transition back.
type ConnState int

const (
	Connected ConnState = iota
	Disconnected
)

func (s ConnState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
