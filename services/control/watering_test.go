package control

import (
	"testing"

	"greenhouse-go/types"
)

func wateringConfig() types.ControlConfig {
	cfg := types.DefaultControlConfig()
	cfg.IntervalTicks = 100
	cfg.MaxRunTicks = 10
	return cfg
}

func allNominal() *[types.NumChannels]types.Classification {
	var cl [types.NumChannels]types.Classification
	for i := range cl {
		cl[i].Level = types.LevelNominal
	}
	return &cl
}

func TestWatering_ScheduleBoundaries(t *testing.T) {
	cfg := wateringConfig()
	nom := allNominal()
	st := types.WateringState{}

	for tick := uint64(0); tick <= 110; tick++ {
		st = DecideWatering(&cfg, tick, nom, st)
		want := types.WateringIdle
		if tick >= 100 && tick <= 109 {
			want = types.WateringActive
		}
		if st.Phase != want {
			t.Fatalf("tick %d: got %v, want %v", tick, st.Phase, want)
		}
	}
	if st.LastWateringTick != 110 {
		t.Fatalf("LastWateringTick = %d, want 110", st.LastWateringTick)
	}
}

func TestWatering_AbortOnHazard(t *testing.T) {
	cfg := wateringConfig()
	st := types.WateringState{Phase: types.WateringActive, StartedTick: 100}

	st = DecideWatering(&cfg, 103, classesAt(types.ChanTemperature, types.LevelCritical), st)
	if st.Phase != types.WateringIdle {
		t.Fatalf("got %v, want immediate abort on critical temperature", st.Phase)
	}
	if st.LastWateringTick != 103 {
		t.Fatalf("LastWateringTick = %d, want 103 (abort counts as a watering)", st.LastWateringTick)
	}

	// The next window opens a full interval after the abort.
	nom := allNominal()
	if got := DecideWatering(&cfg, 202, nom, st); got.Phase != types.WateringIdle {
		t.Fatalf("tick 202: started %v early", got.Phase)
	}
	if got := DecideWatering(&cfg, 203, nom, st); got.Phase != types.WateringActive {
		t.Fatalf("tick 203: got %v, want active", got.Phase)
	}
}

func TestWatering_AbortOnPressure(t *testing.T) {
	cfg := wateringConfig()
	st := types.WateringState{Phase: types.WateringActive, StartedTick: 100}
	st = DecideWatering(&cfg, 101, classesAt(types.ChanPressure, types.LevelCritical), st)
	if st.Phase != types.WateringIdle {
		t.Fatalf("got %v, want abort on critical pressure", st.Phase)
	}
}

func TestWatering_StartSuppressedWhileCritical(t *testing.T) {
	cfg := wateringConfig()
	st := types.WateringState{}

	st = DecideWatering(&cfg, 100, classesAt(types.ChanHumidity, types.LevelCritical), st)
	if st.Phase != types.WateringIdle {
		t.Fatalf("got %v: run started under a critical classification", st.Phase)
	}
	// Once the hazard clears the overdue run starts.
	st = DecideWatering(&cfg, 101, allNominal(), st)
	if st.Phase != types.WateringActive {
		t.Fatalf("got %v, want active after hazard cleared", st.Phase)
	}
}

func TestWatering_UnknownDoesNotBlock(t *testing.T) {
	cfg := wateringConfig()
	st := types.WateringState{}
	st = DecideWatering(&cfg, 100, classesAt(types.ChanTemperature, types.LevelUnknown), st)
	if st.Phase != types.WateringActive {
		t.Fatalf("got %v: unknown must not suppress the schedule", st.Phase)
	}
}
