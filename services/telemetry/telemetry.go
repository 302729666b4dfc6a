// Package telemetry turns control-loop snapshots into one-line text reports
// on a serial sink (UART on the board, stdout on the host). It is a plain
// bus subscriber: the control loop publishes and moves on, and a slow or
// absent sink costs it nothing.
package telemetry

import (
	"context"
	"io"

	"greenhouse-go/bus"
	"greenhouse-go/types"
	"greenhouse-go/x/clockx"
	"greenhouse-go/x/conv"
)

var (
	topicState  = bus.Topic{"greenhouse", "state"}
	topicConfig = bus.Topic{"config", "telemetry"}
)

// Service formats snapshots to w. Every counts snapshots between reports
// (1 = every cycle); it can be retuned at runtime via config/telemetry.
type Service struct {
	conn  *bus.Connection
	w     io.Writer
	every uint64

	clock    clockx.Clock
	lastTick uint64
	seen     uint64
	line     [160]byte
}

func New(b *bus.Bus, w io.Writer) *Service {
	return &Service{
		conn:  b.NewConnection("telemetry"),
		w:     w,
		every: 1,
		clock: clockx.New(),
	}
}

// SetClock sets the wall calendar (the board has no RTC; the operator
// provides a base date and snapshots advance it).
func (s *Service) SetClock(c clockx.Clock) { s.clock = c }

func (s *Service) Start(ctx context.Context) {
	go s.serviceLoop(ctx)
}

func (s *Service) serviceLoop(ctx context.Context) {
	stateSub := s.conn.Subscribe(topicState)
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Disconnect()

	for {
		select {
		case <-ctx.Done():
			println("Info: telemetry service stopping")
			return
		case msg := <-stateSub.Channel():
			if snap, ok := msg.Payload.(types.Snapshot); ok {
				s.handleSnapshot(snap)
			}
		case msg := <-cfgSub.Channel():
			if m, ok := msg.Payload.(map[string]any); ok {
				if ev, ok := m["every_ticks"].(float64); ok && ev >= 1 {
					s.every = uint64(ev)
				}
			}
		}
	}
}

func (s *Service) handleSnapshot(snap types.Snapshot) {
	// The clock runs on the 1 Hz tick. Queue drops show up here as a tick
	// jump and the clock advances by the gap, not by messages received.
	if snap.Tick > s.lastTick {
		s.clock.AddSeconds(snap.Tick - s.lastTick)
	}
	s.lastTick = snap.Tick

	s.seen++
	if s.seen%s.every != 0 {
		return
	}
	line := s.formatLine(&snap, s.line[:0])
	if _, err := s.w.Write(line); err != nil {
		println("Error: telemetry: write:", err.Error())
	}
}

// formatLine renders one report, e.g.
//
//	00:01:40 tick=100 smoke=clear temp=23.1 nominal hum=65.00 nominal press=1013.2 nominal alarm=clear watering=idle vent=closed
//
// Faulted channels show the fault reason instead of a value, with "!" when
// the fault is persistent.
func (s *Service) formatLine(snap *types.Snapshot, dst []byte) []byte {
	var num [20]byte

	dst = s.clock.AppendTime(dst)
	dst = append(dst, " tick="...)
	dst = append(dst, conv.Utoa(num[:], snap.Tick)...)

	dst = append(dst, " smoke="...)
	if snap.Classes[types.ChanSmoke].Level == types.LevelCritical {
		dst = append(dst, "DETECTED"...)
	} else if snap.Classes[types.ChanSmoke].Level == types.LevelUnknown {
		dst = appendFault(dst, &snap.Classes[types.ChanSmoke])
	} else {
		dst = append(dst, "clear"...)
	}

	dst = s.appendChannel(dst, snap, types.ChanTemperature, " temp=", 1)
	dst = s.appendChannel(dst, snap, types.ChanHumidity, " hum=", 2)
	dst = s.appendChannel(dst, snap, types.ChanPressure, " press=", 1)

	dst = append(dst, " alarm="...)
	dst = append(dst, snap.Alarm.String()...)
	dst = append(dst, " watering="...)
	dst = append(dst, snap.Watering.String()...)
	dst = append(dst, " vent="...)
	dst = append(dst, snap.Vent.String()...)
	if snap.Overrun {
		dst = append(dst, " OVERRUN"...)
	}
	dst = append(dst, '\r', '\n')
	return dst
}

func (s *Service) appendChannel(dst []byte, snap *types.Snapshot, ch types.Channel, label string, frac int) []byte {
	dst = append(dst, label...)
	c := &snap.Classes[ch]
	if c.Level == types.LevelUnknown {
		return appendFault(dst, c)
	}
	dst = appendFixed(dst, snap.Values[ch], frac)
	dst = append(dst, ' ')
	dst = append(dst, c.Level.String()...)
	return dst
}

func appendFault(dst []byte, c *types.Classification) []byte {
	dst = append(dst, c.Fault.String()...)
	if c.Persistent {
		dst = append(dst, '!')
	}
	return dst
}

// appendFixed renders a fixed-point value with frac decimal digits
// (231,1 -> "23.1"; 6550,2 -> "65.50").
func appendFixed(dst []byte, v int32, frac int) []byte {
	var num [20]byte
	div := int32(1)
	for i := 0; i < frac; i++ {
		div *= 10
	}
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = append(dst, conv.Itoa(num[:], int64(v/div))...)
	dst = append(dst, '.')
	rem := v % div
	for d := div / 10; d > 0; d /= 10 {
		dst = append(dst, byte('0'+(rem/d)%10))
	}
	return dst
}
