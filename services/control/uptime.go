// services/control/uptime.go
package control

import (
	"time"

	"greenhouse-go/x/timex"
)

// UptimeTracker is the monotonic tick counter since boot. The scheduler
// reads Current during the cycle; the loop calls Tick exactly once at the
// end of each cycle, so cycle N observes uptime N. At one tick per second a
// uint64 wraps after ~584 billion years; treated as never-wrapping.
type UptimeTracker struct {
	ticks    uint64
	periodMs int64
	bootMs   int64
}

func NewUptimeTracker(period time.Duration) *UptimeTracker {
	return &UptimeTracker{
		periodMs: period.Milliseconds(),
		bootMs:   timex.NowMs(),
	}
}

// Current returns the tick count without advancing it.
func (u *UptimeTracker) Current() uint64 { return u.ticks }

// Tick advances the counter once and returns the new value.
func (u *UptimeTracker) Tick() uint64 {
	u.ticks++
	return u.ticks
}

// LagMs reports how far real elapsed time has drifted ahead of the tick
// counter. A lag beyond one period means at least one cycle overran its
// deadline; the loop reports it and carries on.
func (u *UptimeTracker) LagMs() int64 {
	return timex.SinceMs(u.bootMs) - int64(u.ticks)*u.periodMs
}

// Seconds converts the tick count to elapsed whole seconds of uptime.
func (u *UptimeTracker) Seconds() uint64 {
	return uint64(int64(u.ticks) * u.periodMs / 1000)
}
