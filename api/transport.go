// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the asynchronous compositor session transport abstraction,
// the single channel a session handle submits frames over.

package api

// CompositorTransport abstracts one asynchronous session channel to a
// remote compositor. All calls are fire-and-forget at the protocol
// level: no synchronous reply is consumed. Inbound events flow back
// through the EventSink bound with Bind.
//
// The transport is exclusively owned by one session handle and must
// only be touched from dispatcher run turns.
type CompositorTransport interface {
	// Bind registers the sink that receives inbound events. Must be
	// called once, before any event can be delivered.
	Bind(sink EventSink)

	// SetDebugName transmits the server-visible debug name.
	SetDebugName(name string) error

	// Submit transmits one frame submission. Ownership of the release
	// fences passes to the transport.
	Submit(args SubmitArgs) error

	// Close shuts down the channel. Pending inbound events are dropped.
	Close() error
}
