package types

import "greenhouse-go/errcode"

// -----------------------------------------------------------------------------
// Sensor channels
// -----------------------------------------------------------------------------

// Channel identifies one monitored quantity.
type Channel uint8

const (
	ChanSmoke Channel = iota // sampled first; shortest timeout budget
	ChanTemperature
	ChanHumidity
	ChanPressure

	NumChannels = 4
)

func (c Channel) String() string {
	switch c {
	case ChanSmoke:
		return "smoke"
	case ChanTemperature:
		return "temperature"
	case ChanHumidity:
		return "humidity"
	case ChanPressure:
		return "pressure"
	default:
		return "unknown"
	}
}

// Channels lists all channels in sampling order (smoke first, so a slow
// analog read can never delay the fire path past its budget).
var Channels = [NumChannels]Channel{ChanSmoke, ChanTemperature, ChanHumidity, ChanPressure}

// -----------------------------------------------------------------------------
// Readings
//
// Fixed-point, small types. Temperature in deci-°C (231 => 23.1°C), humidity
// in centi-%RH (6550 => 65.50%), pressure in deci-hPa (10132 => 1013.2 hPa).
// Smoke is binary: 0 = clear, nonzero = detected.
// -----------------------------------------------------------------------------

// Fault marks a reading that carries no value.
type Fault uint8

const (
	FaultNone Fault = iota
	FaultTimeout
	FaultBus
	FaultStuck
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultTimeout:
		return string(errcode.SensorTimeout)
	case FaultBus:
		return string(errcode.BusError)
	case FaultStuck:
		return string(errcode.SensorStuck)
	default:
		return "unknown"
	}
}

// Reading is one sample from one channel. Produced each tick, consumed
// immediately; only the control loop retains the previous value per channel
// (for stuck-sensor detection).
type Reading struct {
	Channel Channel
	Value   int32
	Fault   Fault
	Tick    uint64 // uptime tick the sample was taken on
}

func (r Reading) Valid() bool { return r.Fault == FaultNone }

// -----------------------------------------------------------------------------
// Safety classification
// -----------------------------------------------------------------------------

// Level orders classifications by severity. The zero value is Unknown so a
// freshly booted channel reports a fault until its first valid reading.
type Level uint8

const (
	LevelUnknown Level = iota
	LevelNominal
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelNominal:
		return "nominal"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Classification is the per-channel safety state. Unknown is sticky: it
// holds, with its fault reason, until a valid reading arrives. FaultTicks
// counts consecutive faulted cycles; once it reaches the configured
// threshold the fault is flagged Persistent and reported as a standing
// fault rather than a transient one.
type Classification struct {
	Level      Level
	Fault      Fault
	FaultTicks uint32
	Persistent bool
}

// -----------------------------------------------------------------------------
// Alarm
// -----------------------------------------------------------------------------

// AlarmState is latching: once Raised it stays Raised until an explicit
// acknowledge arrives while no channel is Critical.
type AlarmState uint8

const (
	AlarmClear AlarmState = iota
	AlarmRaised
)

func (a AlarmState) String() string {
	if a == AlarmRaised {
		return "raised"
	}
	return "clear"
}

// -----------------------------------------------------------------------------
// Watering
// -----------------------------------------------------------------------------

type WateringPhase uint8

const (
	WateringIdle WateringPhase = iota
	WateringActive
)

func (p WateringPhase) String() string {
	if p == WateringActive {
		return "watering"
	}
	return "idle"
}

// WateringState carries the scheduler's cross-cycle bookkeeping.
// StartedTick is meaningful only while Phase is WateringActive.
type WateringState struct {
	Phase            WateringPhase
	LastWateringTick uint64
	StartedTick      uint64
}

// -----------------------------------------------------------------------------
// Roof vent
// -----------------------------------------------------------------------------

type VentState uint8

const (
	VentClosed VentState = iota
	VentOpen
)

func (v VentState) String() string {
	if v == VentOpen {
		return "open"
	}
	return "closed"
}

// -----------------------------------------------------------------------------
// Per-cycle snapshot (published retained on greenhouse/state)
// -----------------------------------------------------------------------------

// Snapshot is the fire-and-forget telemetry record emitted after each cycle.
type Snapshot struct {
	Tick     uint64
	Values   [NumChannels]int32 // this cycle's readings; zero where faulted
	Classes  [NumChannels]Classification
	Alarm    AlarmState
	Watering WateringPhase
	Vent     VentState

	// Actuator levels as written this cycle.
	ValveOpen bool
	AlarmOut  bool

	// Cycle exceeded its period budget (reported, never fatal).
	Overrun bool
}
