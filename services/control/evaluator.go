// services/control/evaluator.go
package control

import (
	"greenhouse-go/types"
)

// Classify maps one reading onto a safety classification. Pure: the prior
// classification is threaded in by the control loop, never self-held.
//
// Analog rules: inside [min,max] is Nominal; beyond a bound but within the
// hysteresis band is Warning; beyond min-hysteresis / max+hysteresis is
// Critical. Upgrades apply immediately. Downgrades hold until the value has
// crossed back by the hysteresis margin, so a reading oscillating around a
// bound cannot flap the classification every tick.
//
// Smoke is binary with zero hysteresis: any positive detection is Critical
// on that single reading (a missed fire is the unacceptable failure mode).
//
// Faults fold into Unknown with their reason. Unknown is sticky until a
// valid reading arrives; after cfg.FaultTicks consecutive faulted cycles it
// is flagged Persistent (a standing fault for the reporting sink).
func Classify(cfg *types.ControlConfig, r types.Reading, prior types.Classification) types.Classification {
	if !r.Valid() {
		ticks := uint32(1)
		if prior.Level == types.LevelUnknown && prior.Fault != types.FaultNone {
			ticks = prior.FaultTicks + 1
		}
		return types.Classification{
			Level:      types.LevelUnknown,
			Fault:      r.Fault,
			FaultTicks: ticks,
			Persistent: ticks >= cfg.FaultTicks,
		}
	}

	if r.Channel == types.ChanSmoke {
		if r.Value != 0 {
			return types.Classification{Level: types.LevelCritical}
		}
		return types.Classification{Level: types.LevelNominal}
	}

	cc := &cfg.Channels[r.Channel]
	raw := rawLevel(cc, r.Value)

	// Unknown has no meaningful severity ordering; first valid reading wins.
	if prior.Level == types.LevelUnknown || raw >= prior.Level {
		return types.Classification{Level: raw}
	}

	// Downgrade path: the value must read lower even when pushed back
	// toward the bound by the hysteresis margin.
	guard := rawLevel(cc, r.Value+cc.Hysteresis)
	if low := rawLevel(cc, r.Value-cc.Hysteresis); low > guard {
		guard = low
	}
	if guard < prior.Level {
		return types.Classification{Level: raw}
	}
	return types.Classification{Level: prior.Level}
}

// rawLevel is the memoryless range check.
func rawLevel(cc *types.ChannelConfig, v int32) types.Level {
	if v < cc.Min-cc.Hysteresis || v > cc.Max+cc.Hysteresis {
		return types.LevelCritical
	}
	if v < cc.Min || v > cc.Max {
		return types.LevelWarning
	}
	return types.LevelNominal
}
