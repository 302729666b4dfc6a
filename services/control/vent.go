// services/control/vent.go
package control

import "greenhouse-go/types"

// DecideVent positions the roof vent from this cycle's classifications.
//
// Smoke wins: while the smoke channel is Critical the vent is forced closed
// to starve the fire of airflow. Otherwise an out-of-range temperature
// (Warning or Critical) opens the vent and Nominal closes it. While the
// temperature channel is Unknown the vent holds its last commanded position
// rather than moving on no data.
func DecideVent(classes *[types.NumChannels]types.Classification, prior types.VentState) types.VentState {
	if classes[types.ChanSmoke].Level == types.LevelCritical {
		return types.VentClosed
	}
	switch classes[types.ChanTemperature].Level {
	case types.LevelWarning, types.LevelCritical:
		return types.VentOpen
	case types.LevelNominal:
		return types.VentClosed
	default:
		return prior
	}
}
