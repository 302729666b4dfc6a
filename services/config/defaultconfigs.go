package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
//
// Units are the fixed-point reading units: temperature deci-°C, humidity
// centi-%RH, pressure deci-hPa.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "greenhouse": {
    "period_ms": 1000,
    "channels": {
      "smoke":       {"fault_timeout_ms": 50},
      "temperature": {"min": 155, "max": 265, "hysteresis": 20, "fault_timeout_ms": 250},
      "humidity":    {"min": 6000, "max": 7000, "hysteresis": 200, "fault_timeout_ms": 250},
      "pressure":    {"min": 9800, "max": 10400, "hysteresis": 50, "fault_timeout_ms": 250}
    },
    "watering": {"interval_ticks": 14400, "max_run_ticks": 600},
    "stuck_ticks": 30,
    "fault_ticks": 5
  },
  "telemetry": {
    "every_ticks": 1
  }
}`

// Host simulation runs a faster cadence so a bench session sees a full
// watering cycle inside a minute.
const cfgHost = `{
  "greenhouse": {
    "period_ms": 250,
    "channels": {
      "smoke":       {"fault_timeout_ms": 20},
      "temperature": {"min": 155, "max": 265, "hysteresis": 20, "fault_timeout_ms": 50},
      "humidity":    {"min": 6000, "max": 7000, "hysteresis": 200, "fault_timeout_ms": 50},
      "pressure":    {"min": 9800, "max": 10400, "hysteresis": 50, "fault_timeout_ms": 50}
    },
    "watering": {"interval_ticks": 120, "max_run_ticks": 12},
    "stuck_ticks": 30,
    "fault_ticks": 5
  },
  "telemetry": {
    "every_ticks": 4
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
