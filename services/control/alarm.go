// services/control/alarm.go
package control

import "greenhouse-go/types"

// StepAlarm advances the latching alarm state machine.
//
//	Clear  --[any channel Critical]-------------------> Raised
//	Raised --[acknowledge AND no channel Critical]----> Clear
//	Raised --[new Critical]---------------------------> Raised (no-op)
//
// Acknowledge alone cannot clear while a channel remains Critical, so an
// active hazard cannot be silenced; and no number of Nominal readings clears
// the latch without an acknowledge, so a transient glitch between two
// samples cannot mask a real hazard.
func StepAlarm(prior types.AlarmState, classes *[types.NumChannels]types.Classification, ack bool) types.AlarmState {
	critical := anyCritical(classes)
	switch prior {
	case types.AlarmClear:
		if critical {
			return types.AlarmRaised
		}
		return types.AlarmClear
	default: // AlarmRaised
		if ack && !critical {
			return types.AlarmClear
		}
		return types.AlarmRaised
	}
}

func anyCritical(classes *[types.NumChannels]types.Classification) bool {
	for _, c := range classes {
		if c.Level == types.LevelCritical {
			return true
		}
	}
	return false
}
