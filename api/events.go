// File: api/events.go
// Package api defines the inbound event shapes of the compositor channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// CreditGrantEvent replenishes the present credit budget and optionally
// carries refined timing for the frame about to begin.
type CreditGrantEvent struct {
	// AdditionalCredits is added to the present credit counter.
	AdditionalCredits uint32

	// NextPresentationTime is the predicted presentation instant of the
	// upcoming frame, in monotonic nanoseconds. Zero means the server
	// supplied no timing and the configured interval applies.
	NextPresentationTime int64

	// PresentationInterval is the server-refined frame interval in
	// nanoseconds. Zero means unrefined.
	PresentationInterval int64
}

// FramePresentedEvent reports that a previously submitted frame was
// actually displayed. The payload is forwarded to the registered
// completion callback without interpretation.
type FramePresentedEvent struct {
	// ActualPresentationTime is the display instant in monotonic
	// nanoseconds.
	ActualPresentationTime int64

	// NumPresentsAllowed mirrors the scheduling headroom reported by
	// the server alongside the completion.
	NumPresentsAllowed uint64
}

// EventSink receives the three inbound event kinds of the session
// channel. The transport must deliver each call as a continuation on
// the dispatcher it was constructed with, in arrival order.
type EventSink interface {
	// OnNextFrameBegin delivers a credit replenishment event.
	OnNextFrameBegin(ev CreditGrantEvent)

	// OnFramePresented delivers a completion event.
	OnFramePresented(ev FramePresentedEvent)

	// OnDisconnect delivers a channel closure or peer-reported
	// protocol error. Terminal.
	OnDisconnect(code ErrorCode)
}
