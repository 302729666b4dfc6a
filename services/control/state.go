// services/control/state.go
package control

import "greenhouse-go/types"

// loopState is everything the control loop carries across cycles. It lives
// on the Service and is touched only from the loop goroutine.
type loopState struct {
	classes  [types.NumChannels]types.Classification
	alarm    types.AlarmState
	watering types.WateringState
	vent     types.VentState

	// Stuck-sensor detection, analog channels only. A smoke line sitting at
	// zero is the normal case, not a fault.
	lastValue [types.NumChannels]int32
	sameCount [types.NumChannels]uint32
	hasValue  [types.NumChannels]bool

	// Operator acknowledge: button level from the previous cycle (for edge
	// detection) plus any acknowledge that arrived over the bus since the
	// last cycle.
	ackLevel  bool
	ackQueued bool
}

// filterStuck rewrites a valid analog reading as a FaultStuck reading once
// the raw value has repeated for cfg.StuckTicks consecutive cycles. A real
// sensor in a live greenhouse always jitters in its low bits; a frozen value
// means the ADC or the part behind it has wedged while still answering the
// bus. Any change, or any other fault, resets the run.
func (s *loopState) filterStuck(cfg *types.ControlConfig, r types.Reading) types.Reading {
	ch := r.Channel
	if ch == types.ChanSmoke {
		return r
	}
	if !r.Valid() {
		s.hasValue[ch] = false
		s.sameCount[ch] = 0
		return r
	}
	if s.hasValue[ch] && r.Value == s.lastValue[ch] {
		s.sameCount[ch]++
	} else {
		s.sameCount[ch] = 1
	}
	s.lastValue[ch] = r.Value
	s.hasValue[ch] = true

	if s.sameCount[ch] >= cfg.StuckTicks {
		return types.Reading{Channel: ch, Fault: types.FaultStuck, Tick: r.Tick}
	}
	return r
}

// takeAck consumes this cycle's acknowledge: a rising edge on the button, or
// a bus acknowledge queued since the last cycle. Level-held buttons do not
// re-acknowledge every tick.
func (s *loopState) takeAck(buttonLevel bool) bool {
	edge := buttonLevel && !s.ackLevel
	s.ackLevel = buttonLevel

	ack := edge || s.ackQueued
	s.ackQueued = false
	return ack
}
