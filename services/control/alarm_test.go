package control

import (
	"testing"

	"greenhouse-go/types"
)

func classesAt(ch types.Channel, lvl types.Level) *[types.NumChannels]types.Classification {
	var cl [types.NumChannels]types.Classification
	for i := range cl {
		cl[i].Level = types.LevelNominal
	}
	cl[ch].Level = lvl
	return &cl
}

func TestAlarm_RaisesOnCritical(t *testing.T) {
	st := StepAlarm(types.AlarmClear, classesAt(types.ChanSmoke, types.LevelCritical), false)
	if st != types.AlarmRaised {
		t.Fatalf("got %v, want raised on a single critical reading", st)
	}
}

func TestAlarm_LatchesWithoutAck(t *testing.T) {
	st := types.AlarmRaised
	// Any number of all-nominal cycles must not clear the latch.
	for i := 0; i < 50; i++ {
		st = StepAlarm(st, classesAt(types.ChanSmoke, types.LevelNominal), false)
		if st != types.AlarmRaised {
			t.Fatalf("cycle %d: latch released without acknowledge", i)
		}
	}
}

func TestAlarm_AckDuringCriticalIgnored(t *testing.T) {
	st := StepAlarm(types.AlarmRaised, classesAt(types.ChanTemperature, types.LevelCritical), true)
	if st != types.AlarmRaised {
		t.Fatalf("got %v: acknowledge silenced an active hazard", st)
	}
}

func TestAlarm_AckClearsWhenSafe(t *testing.T) {
	st := StepAlarm(types.AlarmRaised, classesAt(types.ChanTemperature, types.LevelWarning), true)
	if st != types.AlarmClear {
		t.Fatalf("got %v, want clear (warning does not block acknowledge)", st)
	}
}

func TestAlarm_UnknownDoesNotRaise(t *testing.T) {
	st := StepAlarm(types.AlarmClear, classesAt(types.ChanPressure, types.LevelUnknown), false)
	if st != types.AlarmClear {
		t.Fatalf("got %v: unknown alone must not raise the alarm", st)
	}
}
