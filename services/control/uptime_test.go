package control

import (
	"testing"
	"time"
)

func TestUptime_CurrentThenTick(t *testing.T) {
	u := NewUptimeTracker(time.Second)
	// A cycle reads Current, then advances: cycle N observes uptime N.
	for n := uint64(0); n < 5; n++ {
		if got := u.Current(); got != n {
			t.Fatalf("cycle %d: Current = %d", n, got)
		}
		u.Tick()
	}
}

func TestUptime_Seconds(t *testing.T) {
	u := NewUptimeTracker(500 * time.Millisecond)
	for i := 0; i < 7; i++ {
		u.Tick()
	}
	if got := u.Seconds(); got != 3 {
		t.Fatalf("Seconds = %d, want 3", got)
	}
}
