package session_test

import (
	"testing"
	"time"

	"github.com/momentics/framepace/adapters"
	"github.com/momentics/framepace/api"
	"github.com/momentics/framepace/control"
	"github.com/momentics/framepace/fake"
	"github.com/momentics/framepace/session"
)

const testInterval = 10 * time.Millisecond

// harness wires a Conn to a fake compositor on a manually pumped loop.
type harness struct {
	loop      *adapters.DispatcherAdapter
	comp      *fake.Compositor
	conn      *session.Conn
	errs      []error
	presented []api.FramePresentedEvent
}

func newHarness(t *testing.T, mut func(*session.Config)) *harness {
	t.Helper()
	h := &harness{
		loop: adapters.NewDispatcherAdapter(),
	}
	h.comp = fake.NewCompositor(h.loop)
	cfg := session.Config{
		DebugName:            t.Name(),
		Transport:            h.comp,
		Dispatcher:           h.loop,
		OnError:              func(err error) { h.errs = append(h.errs, err) },
		OnFramePresented:     func(ev api.FramePresentedEvent) { h.presented = append(h.presented, ev) },
		InitialCredits:       1,
		PresentationInterval: testInterval,
		Now:                  func() int64 { return 1_000_000 },
	}
	if mut != nil {
		mut(&cfg)
	}
	conn, err := session.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	h.conn = conn
	return h
}

// awaitChecked registers a vsync callback asserting the expected delta.
func (h *harness) awaitChecked(t *testing.T, fired *bool, wantDelta time.Duration) {
	t.Helper()
	h.conn.AwaitVsync(func(start, end int64) {
		if end-start != int64(wantDelta) {
			t.Errorf("frame delta = %d, want %d", end-start, int64(wantDelta))
		}
		*fired = true
	})
}

func TestConnectValidation(t *testing.T) {
	loop := adapters.NewDispatcherAdapter()
	if _, err := session.Connect(session.Config{Dispatcher: loop}); err != api.ErrInvalidArgument {
		t.Errorf("nil transport: got %v", err)
	}
	if _, err := session.Connect(session.Config{Transport: fake.NewCompositor(loop)}); err != api.ErrInvalidArgument {
		t.Errorf("nil dispatcher: got %v", err)
	}
}

func TestLazyDebugName(t *testing.T) {
	h := newHarness(t, nil)

	// No call reaches the server until the dispatcher runs a turn.
	if got := h.comp.DebugName(); got != "" {
		t.Fatalf("debug name set before dispatch turn: %q", got)
	}
	h.loop.RunUntilIdle()
	if got := h.comp.DebugName(); got != t.Name() {
		t.Errorf("debug name = %q, want %q", got, t.Name())
	}
}

func TestImmediateVsyncResolution(t *testing.T) {
	h := newHarness(t, nil)

	// Before any submission has been dispatched the timing estimate is
	// fully known, so the callback resolves synchronously.
	fired := false
	h.awaitChecked(t, &fired, testInterval)
	if !fired {
		t.Error("vsync callback did not resolve synchronously")
	}
}

func TestImmediateVsyncUsesDefaultInterval(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.PresentationInterval = 0
	})
	fired := false
	h.awaitChecked(t, &fired, session.DefaultPresentationInterval)
	if !fired {
		t.Error("vsync callback did not resolve synchronously")
	}
}

func TestDisconnectFiresErrorOnce(t *testing.T) {
	h := newHarness(t, nil)

	h.comp.Disconnect(api.ErrCodeBadOperation)
	h.loop.RunUntilIdle()
	if len(h.errs) != 1 {
		t.Fatalf("error callback fired %d times, want 1", len(h.errs))
	}
	if h.conn.State() != api.Disconnected {
		t.Error("state not Disconnected")
	}

	// Further indications are ignored once Disconnected.
	h.comp.Disconnect(api.ErrCodeChannelClosed)
	h.comp.Disconnect(api.ErrCodeBadOperation)
	h.loop.RunUntilIdle()
	if len(h.errs) != 1 {
		t.Errorf("error callback fired %d times after repeats, want 1", len(h.errs))
	}
}

func TestBasicPresent(t *testing.T) {
	h := newHarness(t, nil)

	// Pump the loop. Nothing is transmitted.
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 0 || len(h.presented) != 0 {
		t.Fatal("calls transmitted before Present")
	}

	// An AwaitVsync before the first present resolves immediately.
	fired := false
	h.awaitChecked(t, &fired, testInterval)
	if !fired {
		t.Fatal("initial vsync not immediate")
	}

	// Present with a fence enqueued in this cycle: call #1 carries no
	// fences.
	fired = false
	h.conn.EnqueueReleaseFence(api.FenceHandle(7))
	if err := h.conn.Present(); err != nil {
		t.Fatal(err)
	}
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 1 {
		t.Fatalf("submits = %d, want 1", h.comp.SubmitCount())
	}
	if got, _ := h.comp.LastSubmit(); len(got.ReleaseFences) != 0 {
		t.Errorf("call #1 carried fences %v", got.ReleaseFences)
	}

	// With a dispatch awaiting confirmation, AwaitVsync queues.
	h.awaitChecked(t, &fired, testInterval)
	if fired {
		t.Fatal("vsync resolved while dispatch in flight")
	}
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 3})
	h.loop.RunUntilIdle()
	if !fired {
		t.Error("vsync not resolved by credit grant")
	}

	// Completion event reaches the callback once.
	h.comp.FireOnFramePresented(api.FramePresentedEvent{ActualPresentationTime: 42})
	h.loop.RunUntilIdle()
	if len(h.presented) != 1 {
		t.Fatalf("presented callbacks = %d, want 1", len(h.presented))
	}
	if h.presented[0].ActualPresentationTime != 42 {
		t.Error("completion payload not forwarded unchanged")
	}

	// Call #2 carries the fence staged before call #1.
	if err := h.conn.Present(); err != nil {
		t.Fatal(err)
	}
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 2 {
		t.Fatalf("submits = %d, want 2", h.comp.SubmitCount())
	}
	got, _ := h.comp.LastSubmit()
	if len(got.ReleaseFences) != 1 || got.ReleaseFences[0] != 7 {
		t.Errorf("call #2 fences = %v, want [7]", got.ReleaseFences)
	}
}

func TestFenceLagAcrossInterleavedEnqueues(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 1
	})

	h.conn.EnqueueReleaseFence(1)
	h.conn.EnqueueReleaseFence(2)
	h.conn.Present()
	h.loop.RunUntilIdle()

	h.conn.EnqueueReleaseFence(3)
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()
	h.conn.Present()
	h.loop.RunUntilIdle()

	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()
	h.conn.Present()
	h.loop.RunUntilIdle()

	subs := h.comp.Submits()
	if len(subs) != 3 {
		t.Fatalf("submits = %d, want 3", len(subs))
	}
	if len(subs[0].ReleaseFences) != 0 {
		t.Errorf("call #1 fences = %v, want none", subs[0].ReleaseFences)
	}
	if len(subs[1].ReleaseFences) != 2 || subs[1].ReleaseFences[0] != 1 || subs[1].ReleaseFences[1] != 2 {
		t.Errorf("call #2 fences = %v, want [1 2]", subs[1].ReleaseFences)
	}
	if len(subs[2].ReleaseFences) != 1 || subs[2].ReleaseFences[0] != 3 {
		t.Errorf("call #3 fences = %v, want [3]", subs[2].ReleaseFences)
	}
}

func TestCreditGating(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 2
	})

	// The (C+1)-th present must not transmit without replenishment.
	for i := 0; i < 3; i++ {
		if err := h.conn.Present(); err != nil {
			t.Fatal(err)
		}
	}
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 2 {
		t.Fatalf("submits = %d with 2 credits, want 2", h.comp.SubmitCount())
	}

	// It transmits automatically once credit arrives, without another
	// explicit Present.
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 3 {
		t.Errorf("submits = %d after grant, want 3", h.comp.SubmitCount())
	}
}

func TestParkedPresentsCoalesce(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 0
	})

	for i := 0; i < 3; i++ {
		if err := h.conn.Present(); err != nil {
			t.Fatal(err)
		}
	}
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 0 {
		t.Fatal("transmitted without credit")
	}

	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 5})
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 1 {
		t.Errorf("submits = %d, want 1 (coalesced)", h.comp.SubmitCount())
	}
}

func TestParkStrictRejectsDuplicate(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 0
		cfg.ParkPolicy = session.ParkStrict
	})

	if err := h.conn.Present(); err != nil {
		t.Fatal(err)
	}
	h.loop.RunUntilIdle()

	if err := h.conn.Present(); err != api.ErrPresentPending {
		t.Errorf("duplicate park: got %v, want ErrPresentPending", err)
	}
}

func TestZeroCreditGrantKeepsPresentParked(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 0
	})

	h.conn.Present()
	h.loop.RunUntilIdle()

	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 0})
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 0 {
		t.Fatal("transmitted on a zero-credit grant")
	}

	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 1 {
		t.Errorf("submits = %d after real grant, want 1", h.comp.SubmitCount())
	}
}

func TestCompletionDeliveredExactlyOncePerEvent(t *testing.T) {
	h := newHarness(t, nil)

	// Delivery count tracks events, independent of submission count.
	for i := 0; i < 3; i++ {
		h.comp.FireOnFramePresented(api.FramePresentedEvent{ActualPresentationTime: int64(i)})
	}
	h.loop.RunUntilIdle()
	if len(h.presented) != 3 {
		t.Fatalf("presented callbacks = %d, want 3", len(h.presented))
	}
	for i, ev := range h.presented {
		if ev.ActualPresentationTime != int64(i) {
			t.Errorf("event %d payload = %d", i, ev.ActualPresentationTime)
		}
	}
}

func TestVsyncResolutionFIFO(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 3
	})

	h.conn.Present()
	h.loop.RunUntilIdle()

	var order []int
	for i := 1; i <= 2; i++ {
		i := i
		h.conn.AwaitVsync(func(start, end int64) { order = append(order, i) })
	}

	// One event resolves exactly one callback, oldest first.
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("after first grant order = %v, want [1]", order)
	}
	h.conn.Present()
	h.loop.RunUntilIdle()
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()
	if len(order) != 2 || order[1] != 2 {
		t.Errorf("after second grant order = %v, want [1 2]", order)
	}
}

func TestRefinedTimingUsedWhenPresent(t *testing.T) {
	h := newHarness(t, nil)

	h.conn.Present()
	h.loop.RunUntilIdle()

	var gotStart, gotEnd int64
	h.conn.AwaitVsync(func(start, end int64) { gotStart, gotEnd = start, end })
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{
		AdditionalCredits:    1,
		NextPresentationTime: 5_000_000,
		PresentationInterval: 8_333_333,
	})
	h.loop.RunUntilIdle()
	if gotStart != 5_000_000 || gotEnd != 5_000_000+8_333_333 {
		t.Errorf("refined timing = (%d, %d)", gotStart, gotEnd)
	}
}

func TestSubmitFailureFunnelsThroughErrorSink(t *testing.T) {
	h := newHarness(t, nil)

	h.comp.SetSubmitError(api.ErrTransportClosed)
	h.conn.Present()
	h.loop.RunUntilIdle()

	if len(h.errs) != 1 {
		t.Fatalf("error callback fired %d times, want 1", len(h.errs))
	}
	if h.conn.State() != api.Disconnected {
		t.Error("state not Disconnected after submit failure")
	}
	// A later peer disconnect indication is a no-op.
	h.comp.Disconnect(api.ErrCodeChannelClosed)
	h.loop.RunUntilIdle()
	if len(h.errs) != 1 {
		t.Errorf("error callback fired %d times, want 1", len(h.errs))
	}
}

func TestOperationsAfterDisconnectAreNoops(t *testing.T) {
	h := newHarness(t, nil)

	h.comp.Disconnect(api.ErrCodeChannelClosed)
	h.loop.RunUntilIdle()

	if err := h.conn.Present(); err != nil {
		t.Errorf("Present after disconnect returned %v", err)
	}
	h.conn.EnqueueReleaseFence(9)
	fired := false
	h.conn.AwaitVsync(func(start, end int64) { fired = true })
	h.loop.RunUntilIdle()

	if h.comp.SubmitCount() != 0 {
		t.Error("transmitted after disconnect")
	}
	if fired {
		t.Error("vsync resolved after disconnect")
	}
}

func TestCloseDiscardsPendingWithoutInvocation(t *testing.T) {
	h := newHarness(t, nil)

	h.conn.Present()
	h.loop.RunUntilIdle()
	fired := false
	h.conn.AwaitVsync(func(start, end int64) { fired = true })
	h.conn.EnqueueReleaseFence(3)

	if err := h.conn.Close(); err != nil {
		t.Fatal(err)
	}
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 1})
	h.loop.RunUntilIdle()

	if fired {
		t.Error("pending callback invoked after Close")
	}
	if len(h.errs) != 0 {
		t.Error("error sink fired on local close")
	}
	if err := h.conn.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}

func TestProbesExposePacingState(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 2
	})
	dp := control.NewDebugProbes()
	h.conn.RegisterProbes(dp)

	state := dp.DumpState()
	prefix := "session." + t.Name() + "."
	if state[prefix+"credits"] != uint32(2) {
		t.Errorf("credits probe = %v", state[prefix+"credits"])
	}
	if state[prefix+"state"] != "connected" {
		t.Errorf("state probe = %v", state[prefix+"state"])
	}
}

// TestEndToEndScenario exercises the full cycle: immediate transmit,
// credit grant resolving a queued vsync, completion delivery, and the
// one-cycle fence lag on the second call.
func TestEndToEndScenario(t *testing.T) {
	h := newHarness(t, func(cfg *session.Config) {
		cfg.InitialCredits = 1
	})

	h.conn.EnqueueReleaseFence(11)
	if err := h.conn.Present(); err != nil {
		t.Fatal(err)
	}
	h.loop.RunUntilIdle()
	if h.comp.SubmitCount() != 1 {
		t.Fatalf("call #1 not transmitted immediately")
	}
	if got, _ := h.comp.LastSubmit(); len(got.ReleaseFences) != 0 {
		t.Fatalf("call #1 fences = %v, want none", got.ReleaseFences)
	}

	fired := false
	h.awaitChecked(t, &fired, testInterval)
	h.comp.FireOnNextFrameBegin(api.CreditGrantEvent{AdditionalCredits: 3})
	h.loop.RunUntilIdle()
	if !fired {
		t.Fatal("vsync not resolved by replenishment")
	}

	h.comp.FireOnFramePresented(api.FramePresentedEvent{})
	h.loop.RunUntilIdle()
	if len(h.presented) != 1 {
		t.Fatalf("presented callbacks = %d, want 1", len(h.presented))
	}

	if err := h.conn.Present(); err != nil {
		t.Fatal(err)
	}
	h.loop.RunUntilIdle()
	got, _ := h.comp.LastSubmit()
	if h.comp.SubmitCount() != 2 || len(got.ReleaseFences) != 1 || got.ReleaseFences[0] != 11 {
		t.Errorf("call #2 = %v, want fence [11]", got.ReleaseFences)
	}
}
