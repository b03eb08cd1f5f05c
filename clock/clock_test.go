package clock_test

import (
	"testing"
	"time"

	"github.com/momentics/framepace/clock"
)

func TestMonotonicNonDecreasing(t *testing.T) {
	prev := clock.Monotonic()
	for i := 0; i < 1000; i++ {
		now := clock.Monotonic()
		if now < prev {
			t.Fatalf("clock went backwards: %d -> %d", prev, now)
		}
		prev = now
	}
}

func TestMonotonicAdvances(t *testing.T) {
	start := clock.Monotonic()
	time.Sleep(2 * time.Millisecond)
	elapsed := clock.Monotonic() - start
	if elapsed < int64(time.Millisecond) {
		t.Errorf("clock advanced only %dns over a 2ms sleep", elapsed)
	}
}
