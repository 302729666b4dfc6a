// services/hal/sim.go
package hal

import (
	"context"
	"sync/atomic"

	"greenhouse-go/types"
	"greenhouse-go/x/mathx"
)

// SimSensors is a deterministic stand-in sensor bus for host runs. Each
// analog channel wanders inside its nominal band with a little jitter so the
// stuck detector stays quiet; smoke is driven externally via SetSmoke.
type SimSensors struct {
	smoke int32 // atomic

	temp  walker
	hum   walker
	press walker
}

func NewSimSensors() *SimSensors {
	return &SimSensors{
		temp:  walker{v: 210, lo: 160, hi: 260, step: 3, s: 0xA5},
		hum:   walker{v: 6500, lo: 6100, hi: 6900, step: 25, s: 0x42},
		press: walker{v: 10100, lo: 9850, hi: 10350, step: 8, s: 0x7E},
	}
}

// SetSmoke drives the simulated smoke line (0 clear, nonzero detected).
// Safe from any goroutine.
func (s *SimSensors) SetSmoke(detected bool) {
	var v int32
	if detected {
		v = 1
	}
	atomic.StoreInt32(&s.smoke, v)
}

func (s *SimSensors) Read(_ context.Context, ch types.Channel) (int32, error) {
	switch ch {
	case types.ChanSmoke:
		return atomic.LoadInt32(&s.smoke), nil
	case types.ChanTemperature:
		return s.temp.next(), nil
	case types.ChanHumidity:
		return s.hum.next(), nil
	default:
		return s.press.next(), nil
	}
}

// walker is a bounded random walk driven by an xorshift byte generator.
type walker struct {
	v, lo, hi, step int32
	s               byte
}

func (w *walker) next() int32 {
	x := w.s
	x ^= x << 3
	x ^= x >> 5
	x ^= x << 1
	w.s = x

	d := int32(x%3) - 1 // -1, 0, +1
	w.v = mathx.Clamp(w.v+d*w.step, w.lo, w.hi)
	return w.v
}

// LogPin is an OutputPin that prints level transitions, for host runs.
type LogPin struct {
	Name  string
	level bool
	init  bool
}

func (p *LogPin) Set(level bool) {
	if p.init && level == p.level {
		return
	}
	p.init = true
	p.level = level
	if level {
		println("hal:", p.Name, "on")
	} else {
		println("hal:", p.Name, "off")
	}
}

// StaticPin is an InputPin pinned at a fixed level.
type StaticPin bool

func (p StaticPin) Get() bool { return bool(p) }
