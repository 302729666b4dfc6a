package types

import (
	"time"

	"greenhouse-go/errcode"
)

// -----------------------------------------------------------------------------
// Controller configuration
//
// Consumed once at initialisation, never re-read mid-run. An internally
// inconsistent configuration is the one fatal condition in the system: it is
// rejected by Validate before the control loop starts.
// -----------------------------------------------------------------------------

// ChannelConfig holds the safety range for one analog channel.
// Units match the channel's fixed-point reading (deci-°C, centi-%RH,
// deci-hPa). Smoke uses a binary threshold and ignores Min/Max/Hysteresis.
type ChannelConfig struct {
	Min int32
	Max int32
	// Hysteresis is both the Warning band beyond [Min,Max] and the margin a
	// value must cross back by before a classification downgrades.
	Hysteresis int32
	// FaultTimeout bounds a single bus read for this channel.
	FaultTimeout time.Duration
}

// ControlConfig is the full configuration consumed by the control service.
type ControlConfig struct {
	// Period is the control-loop cycle period (the tick).
	Period time.Duration

	Channels [NumChannels]ChannelConfig

	// Watering schedule, in ticks.
	IntervalTicks uint64
	MaxRunTicks   uint64

	// A channel whose raw value is unchanged for StuckTicks consecutive
	// cycles is treated as faulted (SensorStuck).
	StuckTicks uint32

	// After FaultTicks consecutive faulted cycles a channel's Unknown
	// classification is reported as a persistent (standing) fault.
	FaultTicks uint32
}

// Validate rejects internally inconsistent configuration. Everything it
// reports is fatal by design: a range the evaluator cannot classify against,
// a scheduler that could never close the valve, or a timeout budget that
// cannot fit inside one cycle.
func (c *ControlConfig) Validate() error {
	if c.Period <= 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "cycle period must be positive"}
	}
	var budget time.Duration
	for _, ch := range Channels {
		cc := c.Channels[ch]
		if cc.FaultTimeout <= 0 {
			return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: ch.String() + ": fault timeout must be positive"}
		}
		budget += cc.FaultTimeout
		if ch == ChanSmoke {
			continue // binary channel, no range
		}
		if cc.Min >= cc.Max {
			return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: ch.String() + ": min must be below max"}
		}
		if cc.Hysteresis < 0 {
			return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: ch.String() + ": hysteresis must not be negative"}
		}
	}
	// Worst case (every channel timing out in one cycle) must still fit the
	// period, otherwise tick deadlines are unverifiable by construction.
	if budget >= c.Period {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "sum of fault timeouts must be below the cycle period"}
	}
	if c.MaxRunTicks == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "max_run_ticks must be positive"}
	}
	if c.IntervalTicks <= c.MaxRunTicks {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "interval_ticks must exceed max_run_ticks"}
	}
	if c.StuckTicks < 2 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "stuck_ticks must be at least 2"}
	}
	if c.FaultTicks == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "fault_ticks must be positive"}
	}
	return nil
}

// DefaultControlConfig is the deployed greenhouse envelope: 60–80 °F and
// 60–70 %RH ideal ranges, 1 Hz cycle, 4 h watering interval with a 10 min
// fail-safe cutoff.
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		Period: time.Second,
		Channels: [NumChannels]ChannelConfig{
			ChanSmoke:       {FaultTimeout: 50 * time.Millisecond},
			ChanTemperature: {Min: 155, Max: 265, Hysteresis: 20, FaultTimeout: 250 * time.Millisecond},
			ChanHumidity:    {Min: 6000, Max: 7000, Hysteresis: 200, FaultTimeout: 250 * time.Millisecond},
			ChanPressure:    {Min: 9800, Max: 10400, Hysteresis: 50, FaultTimeout: 250 * time.Millisecond},
		},
		IntervalTicks: 14400,
		MaxRunTicks:   600,
		StuckTicks:    30,
		FaultTicks:    5,
	}
}

// -----------------------------------------------------------------------------
// Decoding from the config service's JSON tree
// -----------------------------------------------------------------------------

// DecodeControlConfig overlays a config/greenhouse payload (a JSON-decoded
// map) onto the defaults. Unknown keys are ignored; absent keys keep their
// defaults. The result still has to pass Validate.
func DecodeControlConfig(m map[string]any) ControlConfig {
	cfg := DefaultControlConfig()
	if m == nil {
		return cfg
	}
	if v, ok := asInt64(m["period_ms"]); ok && v > 0 {
		cfg.Period = time.Duration(v) * time.Millisecond
	}
	if chans, ok := m["channels"].(map[string]any); ok {
		for _, ch := range Channels {
			cm, ok := chans[ch.String()].(map[string]any)
			if !ok {
				continue
			}
			cc := &cfg.Channels[ch]
			if v, ok := asInt64(cm["min"]); ok {
				cc.Min = int32(v)
			}
			if v, ok := asInt64(cm["max"]); ok {
				cc.Max = int32(v)
			}
			if v, ok := asInt64(cm["hysteresis"]); ok {
				cc.Hysteresis = int32(v)
			}
			if v, ok := asInt64(cm["fault_timeout_ms"]); ok && v > 0 {
				cc.FaultTimeout = time.Duration(v) * time.Millisecond
			}
		}
	}
	if wm, ok := m["watering"].(map[string]any); ok {
		if v, ok := asInt64(wm["interval_ticks"]); ok && v > 0 {
			cfg.IntervalTicks = uint64(v)
		}
		if v, ok := asInt64(wm["max_run_ticks"]); ok && v > 0 {
			cfg.MaxRunTicks = uint64(v)
		}
	}
	if v, ok := asInt64(m["stuck_ticks"]); ok && v > 0 {
		cfg.StuckTicks = uint32(v)
	}
	if v, ok := asInt64(m["fault_ticks"]); ok && v > 0 {
		cfg.FaultTicks = uint32(v)
	}
	return cfg
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
