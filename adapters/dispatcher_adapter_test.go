package adapters_test

import (
	"testing"

	"github.com/momentics/framepace/adapters"
)

func TestDispatcherAdapterBasic(t *testing.T) {
	da := adapters.NewDispatcherAdapter()
	count := 0
	if err := da.Post(func() { count++ }); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("task ran before pump")
	}
	da.RunUntilIdle()
	if count != 1 {
		t.Errorf("count=%d after pump, want 1", count)
	}
	da.Close()
	if err := da.Post(func() {}); err == nil {
		t.Error("post accepted after close")
	}
}
