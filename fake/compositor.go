// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides a fully scripted in-memory compositor transport.

package fake

import (
	"github.com/momentics/framepace/api"
)

// Compositor is a fake api.CompositorTransport. Outgoing calls are
// recorded for inspection; inbound events are fired by the test and
// delivered as continuations on the dispatcher, matching the contract
// of a real asynchronous channel.
//
// Like the session handle it serves, the fake is driven on one logical
// thread and holds no locks.
type Compositor struct {
	disp api.Dispatcher
	sink api.EventSink

	debugName string
	submits   []api.SubmitArgs
	closed    bool

	submitErr error
	nameErr   error
}

var _ api.CompositorTransport = (*Compositor)(nil)

// NewCompositor creates a fake transport delivering events through disp.
func NewCompositor(disp api.Dispatcher) *Compositor {
	return &Compositor{disp: disp}
}

// Bind implements api.CompositorTransport.Bind.
func (f *Compositor) Bind(sink api.EventSink) {
	f.sink = sink
}

// SetDebugName implements api.CompositorTransport.SetDebugName.
func (f *Compositor) SetDebugName(name string) error {
	if f.closed {
		return api.ErrTransportClosed
	}
	if f.nameErr != nil {
		return f.nameErr
	}
	f.debugName = name
	return nil
}

// Submit implements api.CompositorTransport.Submit. The submission is
// recorded with its release fences in transmission order.
func (f *Compositor) Submit(args api.SubmitArgs) error {
	if f.closed {
		return api.ErrTransportClosed
	}
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submits = append(f.submits, args)
	return nil
}

// Close implements api.CompositorTransport.Close.
func (f *Compositor) Close() error {
	f.closed = true
	return nil
}

// DebugName returns the server-visible name, empty until the name-set
// call has been dispatched.
func (f *Compositor) DebugName() string {
	return f.debugName
}

// Submits returns all recorded submissions in transmission order.
func (f *Compositor) Submits() []api.SubmitArgs {
	return f.submits
}

// SubmitCount returns the number of transmitted submissions.
func (f *Compositor) SubmitCount() int {
	return len(f.submits)
}

// LastSubmit returns the most recent submission and whether one exists.
func (f *Compositor) LastSubmit() (api.SubmitArgs, bool) {
	if len(f.submits) == 0 {
		return api.SubmitArgs{}, false
	}
	return f.submits[len(f.submits)-1], true
}

// SetSubmitError configures Submit to fail, simulating a dead channel.
func (f *Compositor) SetSubmitError(err error) {
	f.submitErr = err
}

// SetDebugNameError configures SetDebugName to fail.
func (f *Compositor) SetDebugNameError(err error) {
	f.nameErr = err
}

// FireOnNextFrameBegin posts a credit replenishment event to the sink.
func (f *Compositor) FireOnNextFrameBegin(ev api.CreditGrantEvent) {
	f.post(func() { f.sink.OnNextFrameBegin(ev) })
}

// FireOnFramePresented posts a completion event to the sink.
func (f *Compositor) FireOnFramePresented(ev api.FramePresentedEvent) {
	f.post(func() { f.sink.OnFramePresented(ev) })
}

// Disconnect posts a channel-failure event to the sink. May be called
// repeatedly; every indication is delivered, letting tests verify the
// sink's single-fire latching.
func (f *Compositor) Disconnect(code api.ErrorCode) {
	f.post(func() { f.sink.OnDisconnect(code) })
}

func (f *Compositor) post(task func()) {
	if f.sink == nil {
		panic("fake: event fired before Bind")
	}
	// Post errors mean the dispatcher was closed mid-test; events on a
	// dead loop are dropped like on a dead channel.
	_ = f.disp.Post(task)
}
