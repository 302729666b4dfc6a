// services/control/watering.go
package control

import "greenhouse-go/types"

// DecideWatering evaluates the watering schedule for one tick.
//
// Guards, in priority order:
//  1. Fail-safe cutoff: a run is bounded by MaxRunTicks regardless of any
//     other input (stuck-open protection).
//  2. Abort-on-hazard: a Critical temperature, humidity or pressure
//     classification ends a run immediately.
//  3. Start: after IntervalTicks since the last watering, provided neither
//     temperature nor humidity is Critical.
//
// Every transition to Idle records LastWateringTick = uptime, so the next
// interval is measured from the most recent attempt. A long hazard-induced
// suppression therefore cannot be followed by a burst of back-to-back runs.
func DecideWatering(cfg *types.ControlConfig, uptime uint64, classes *[types.NumChannels]types.Classification, st types.WateringState) types.WateringState {
	switch st.Phase {
	case types.WateringActive:
		if uptime-st.StartedTick >= cfg.MaxRunTicks {
			return types.WateringState{Phase: types.WateringIdle, LastWateringTick: uptime}
		}
		if classes[types.ChanTemperature].Level == types.LevelCritical ||
			classes[types.ChanHumidity].Level == types.LevelCritical ||
			classes[types.ChanPressure].Level == types.LevelCritical {
			return types.WateringState{Phase: types.WateringIdle, LastWateringTick: uptime}
		}
		return st

	default: // WateringIdle
		if uptime-st.LastWateringTick < cfg.IntervalTicks {
			return st
		}
		if classes[types.ChanTemperature].Level == types.LevelCritical ||
			classes[types.ChanHumidity].Level == types.LevelCritical {
			return st
		}
		return types.WateringState{
			Phase:            types.WateringActive,
			LastWateringTick: st.LastWateringTick,
			StartedTick:      uptime,
		}
	}
}
