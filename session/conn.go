// File: session/conn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Conn is the session handle owning the compositor channel. It is the
// only component that talks to the transport; credit tracking, fence
// staging, and vsync queuing are pure state machines it consults.

package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/momentics/framepace/api"
	"github.com/momentics/framepace/clock"
	"github.com/momentics/framepace/control"
	"github.com/momentics/framepace/internal/pacing"
)

// DefaultPresentationInterval is the 60Hz frame interval assumed until
// configuration or server timing says otherwise.
const DefaultPresentationInterval = 16666667 * time.Nanosecond

// ParkPolicy selects how a Present requested at zero credit is handled
// while another present is already parked.
type ParkPolicy int

const (
	// ParkCoalesce merges the duplicate into the parked request. One
	// transmission results. Default.
	ParkCoalesce ParkPolicy = iota

	// ParkStrict rejects the duplicate with api.ErrPresentPending.
	ParkStrict
)

// Config carries the construction arguments of a Conn.
type Config struct {
	// DebugName is transmitted to the server lazily: the name-set call
	// is queued at construction and sent on the first dispatcher turn.
	DebugName string

	// Transport is the asynchronous compositor channel. Required.
	// Exclusively owned by the Conn after Connect.
	Transport api.CompositorTransport

	// Dispatcher drives all asynchronous effects. Required.
	Dispatcher api.Dispatcher

	// OnError receives the single transport-failure notification.
	OnError api.ErrorCallback

	// OnFramePresented receives one call per completion event, with
	// the event's timing payload forwarded unchanged.
	OnFramePresented api.FramePresentedCallback

	// InitialCredits is the present budget granted at connect time.
	InitialCredits uint32

	// PresentationInterval is the default frame interval for timing
	// estimates. Zero selects DefaultPresentationInterval.
	PresentationInterval time.Duration

	// ParkPolicy selects duplicate-park handling. Default ParkCoalesce.
	ParkPolicy ParkPolicy

	// Now overrides the monotonic timestamp source. Nil selects
	// clock.Monotonic. Tests inject a deterministic source here.
	Now func() int64

	// Logger receives lifecycle and pacing events at debug level.
	// The zero value is silent.
	Logger zerolog.Logger
}

// Conn is a frame-presentation scheduling client over one compositor
// session channel.
//
// Not safe for concurrent use: Present, EnqueueReleaseFence, AwaitVsync
// and the inbound event methods must all run on the same logical
// thread as the dispatcher.
type Conn struct {
	id   string
	name string

	tr   api.CompositorTransport
	disp api.Dispatcher

	credits *pacing.CreditTracker
	fences  *pacing.FenceStagingQueue
	vsyncs  *pacing.VsyncQueue
	errs    *pacing.ErrorSink

	onFramePresented api.FramePresentedCallback

	state      api.ConnState
	parked     bool
	parkPolicy ParkPolicy

	// awaitingBegin is set while a transmitted present has not yet been
	// answered by a credit replenishment event. While set, AwaitVsync
	// queues instead of resolving immediately.
	awaitingBegin bool

	interval time.Duration
	now      func() int64
	closed   bool

	log zerolog.Logger
}

var _ api.EventSink = (*Conn)(nil)

// Connect builds a session handle over the given transport and binds
// it as the transport's event sink. No call reaches the server until
// the dispatcher runs: the debug-name transmission is queued, not sent.
func Connect(cfg Config) (*Conn, error) {
	if cfg.Transport == nil || cfg.Dispatcher == nil {
		return nil, api.ErrInvalidArgument
	}
	interval := cfg.PresentationInterval
	if interval <= 0 {
		interval = DefaultPresentationInterval
	}
	now := cfg.Now
	if now == nil {
		now = clock.Monotonic
	}
	control.RegisterMetrics()

	c := &Conn{
		id:               uuid.NewString(),
		name:             cfg.DebugName,
		tr:               cfg.Transport,
		disp:             cfg.Dispatcher,
		credits:          pacing.NewCreditTracker(cfg.InitialCredits),
		fences:           pacing.NewFenceStagingQueue(),
		vsyncs:           pacing.NewVsyncQueue(),
		errs:             pacing.NewErrorSink(cfg.OnError),
		onFramePresented: cfg.OnFramePresented,
		parkPolicy:       cfg.ParkPolicy,
		interval:         interval,
		now:              now,
	}
	c.log = cfg.Logger.With().Str("conn_id", c.id).Str("debug_name", c.name).Logger()

	cfg.Transport.Bind(c)
	if err := cfg.Dispatcher.Post(c.sendDebugName); err != nil {
		return nil, err
	}
	control.SetCredits(c.name, c.credits.Available())
	c.log.Debug().Uint32("initial_credits", cfg.InitialCredits).Msg("session connected")
	return c, nil
}

// ID returns the locally assigned connection identifier.
func (c *Conn) ID() string {
	return c.id
}

// DebugName returns the server-visible session name.
func (c *Conn) DebugName() string {
	return c.name
}

// State returns the current connection state.
func (c *Conn) State() api.ConnState {
	return c.state
}

// Present requests dispatch of a new frame submission. Transmission
// happens inside a dispatcher run turn, never synchronously here. If
// no credit is available when the turn runs, the request is parked and
// flushed automatically by the next credit grant.
//
// Under ParkStrict, a Present while another is already parked returns
// api.ErrPresentPending. After disconnect, Present is a no-op.
func (c *Conn) Present() error {
	if c.closed || c.state == api.Disconnected {
		return nil
	}
	if c.parkPolicy == ParkStrict && c.parked {
		return api.ErrPresentPending
	}
	return c.disp.Post(c.presentTask)
}

// EnqueueReleaseFence appends a fence to the pending buffer, taking
// ownership. The fence rides on the submission after the next one: a
// release fence pertains to resources retired by the in-flight frame.
// After disconnect, ownership ends silently.
func (c *Conn) EnqueueReleaseFence(fence api.FenceHandle) {
	if c.closed || c.state == api.Disconnected {
		return
	}
	c.fences.Enqueue(fence)
}

// AwaitVsync registers a timing callback. If no dispatch is awaiting
// server confirmation and nothing is queued ahead, the callback
// resolves synchronously with the default interval. Otherwise it joins
// the FIFO and resolves on the next credit replenishment event.
// After disconnect, the callback is dropped without invocation.
func (c *Conn) AwaitVsync(cb api.VsyncCallback) {
	if cb == nil {
		return
	}
	if c.closed || c.state == api.Disconnected {
		return
	}
	if !c.awaitingBegin && c.vsyncs.Len() == 0 {
		start := c.now()
		cb(start, start+int64(c.interval))
		control.RecordVsyncResolved(c.name)
		return
	}
	c.vsyncs.Push(cb)
}

// OnNextFrameBegin implements api.EventSink. Grants credits, resolves
// the oldest pending vsync callback with the event's timing (or the
// default interval), and flushes a parked present within this turn.
func (c *Conn) OnNextFrameBegin(ev api.CreditGrantEvent) {
	if c.closed || c.state == api.Disconnected {
		return
	}
	c.credits.Grant(ev.AdditionalCredits)
	c.awaitingBegin = false
	if c.vsyncs.ResolveOldest(c.timingFrom(ev)) {
		control.RecordVsyncResolved(c.name)
	}
	if c.parked && c.credits.HasCredit() {
		c.parked = false
		control.SetParked(c.name, false)
		c.log.Debug().Msg("parked present flushed")
		c.transmit()
	}
	control.SetCredits(c.name, c.credits.Available())
}

// OnFramePresented implements api.EventSink. Forwards the timing
// payload to the completion callback, once per event.
func (c *Conn) OnFramePresented(ev api.FramePresentedEvent) {
	if c.closed || c.state == api.Disconnected {
		return
	}
	control.RecordFramePresented(c.name)
	if c.onFramePresented != nil {
		c.onFramePresented(ev)
	}
}

// OnDisconnect implements api.EventSink. Transitions to Disconnected
// and fires the error sink. Terminal: later indications are ignored.
func (c *Conn) OnDisconnect(code api.ErrorCode) {
	if c.closed || c.state == api.Disconnected {
		return
	}
	c.fail(api.NewError(code, "compositor channel lost"))
}

// Close tears the session down. Pending vsync callbacks are discarded
// without invocation and owned fences are dropped without transmission.
// The error sink does not fire on a local close. Idempotent.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.vsyncs.DiscardAll()
	c.fences.DiscardAll()
	if c.parked {
		c.parked = false
		control.SetParked(c.name, false)
	}
	c.state = api.Disconnected
	c.log.Debug().Msg("session closed")
	return c.tr.Close()
}

// RegisterProbes exposes internal pacing state through a debug probe
// registry.
func (c *Conn) RegisterProbes(dp *control.DebugProbes) {
	prefix := "session." + c.name + "."
	dp.RegisterProbe(prefix+"credits", func() any { return c.credits.Available() })
	dp.RegisterProbe(prefix+"parked", func() any { return c.parked })
	dp.RegisterProbe(prefix+"staged_fences", func() any { return c.fences.StagedLen() })
	dp.RegisterProbe(prefix+"pending_fences", func() any { return c.fences.PendingLen() })
	dp.RegisterProbe(prefix+"pending_vsyncs", func() any { return c.vsyncs.Len() })
	dp.RegisterProbe(prefix+"state", func() any { return c.state.String() })
}

// sendDebugName runs on the first dispatcher turn after Connect. The
// underlying call is asynchronous and needs a scheduling turn, so the
// name stays unset on the server until the dispatcher is pumped.
func (c *Conn) sendDebugName() {
	if c.closed || c.state == api.Disconnected {
		return
	}
	if err := c.tr.SetDebugName(c.name); err != nil {
		c.fail(api.NewError(api.ErrCodeChannelClosed, "set debug name failed").
			WithContext("cause", err.Error()))
	}
}

// presentTask performs the credit-gated dispatch of one submission.
func (c *Conn) presentTask() {
	if c.closed || c.state == api.Disconnected {
		return
	}
	if !c.credits.HasCredit() {
		if c.parked {
			if c.parkPolicy == ParkStrict {
				c.log.Warn().Msg("present dropped: one already parked")
				return
			}
			c.log.Debug().Msg("present coalesced into parked request")
			return
		}
		c.parked = true
		control.SetParked(c.name, true)
		c.log.Debug().Msg("present parked awaiting credit")
		return
	}
	c.transmit()
}

// transmit moves the staged fences into the outgoing call, spends one
// credit, and sends. A transport failure here funnels through the same
// single-fire sink as a peer-reported disconnect.
func (c *Conn) transmit() {
	fences := c.fences.Drain()
	c.credits.Consume()
	c.awaitingBegin = true
	if err := c.tr.Submit(api.SubmitArgs{ReleaseFences: fences}); err != nil {
		c.fail(api.NewError(api.ErrCodeChannelClosed, "submit failed").
			WithContext("cause", err.Error()))
		return
	}
	control.RecordPresent(c.name)
	control.SetCredits(c.name, c.credits.Available())
	c.log.Debug().
		Int("release_fences", len(fences)).
		Uint32("credits_left", c.credits.Available()).
		Msg("present transmitted")
}

// timingFrom builds the frame timing estimate for one credit grant,
// preferring server-refined values over the configured interval.
func (c *Conn) timingFrom(ev api.CreditGrantEvent) api.FrameTiming {
	start := ev.NextPresentationTime
	if start == 0 {
		start = c.now()
	}
	interval := ev.PresentationInterval
	if interval == 0 {
		interval = int64(c.interval)
	}
	return api.FrameTiming{FrameStart: start, FrameEnd: start + interval}
}

// fail latches the Disconnected state and delivers the one error
// notification.
func (c *Conn) fail(err *api.Error) {
	c.state = api.Disconnected
	control.RecordDisconnect(c.name, err.Code.String())
	c.log.Error().Str("code", err.Code.String()).Msg("session disconnected")
	c.errs.Fire(err)
}
