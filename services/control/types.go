// services/control/types.go
package control

import (
	"context"

	"greenhouse-go/bus"
	"greenhouse-go/types"
)

// Bus topics owned by this service.
var (
	topicState     = bus.Topic{"greenhouse", "state"}
	topicAck       = bus.Topic{"greenhouse", "control", "ack"}
	topicConfig    = bus.Topic{"config", "greenhouse"}
	topicSvcState  = bus.Topic{"greenhouse", "service"}
)

// SensorSource is the bus-driver collaborator. Implementations MUST honour
// the context deadline: the sampler budgets one fault timeout per read and
// the whole cycle depends on Read returning by then. Safe to call every
// cycle without allocation.
//
// Values are fixed point per channel (deci-°C, centi-%RH, deci-hPa); smoke
// returns 0 for clear, nonzero for detected.
type SensorSource interface {
	Read(ctx context.Context, ch types.Channel) (int32, error)
}

// Outputs receives the actuator levels. Called exactly once per cycle with
// the full set; drivers are expected to be idempotent on repeated identical
// writes (these are levels, not pulses, so a missed tick or power cycle
// cannot strand an edge).
type Outputs interface {
	SetValve(open bool)
	SetAlarm(on bool)
	SetVent(open bool)
}

// AckInput is the operator acknowledge line, polled once per cycle. Poll
// reports the current level; the loop detects the rising edge itself. May be
// nil if the board has no button (bus acknowledge still works).
type AckInput interface {
	Poll() bool
}
