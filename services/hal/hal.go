// Package hal adapts board I/O to the control service's collaborator
// interfaces. The platform-neutral pieces live here; RP2040 wiring (machine
// pins, I2C, UART) is behind the rp2040 build tag.
package hal

// OutputPin is one actuator line. Set drives the logical level; inversion
// for active-low hardware happens below this interface.
type OutputPin interface {
	Set(level bool)
}

// InputPin is one sense line, polled.
type InputPin interface {
	Get() bool
}

// Actuators fans the control service's output levels onto three pins.
type Actuators struct {
	Valve OutputPin
	Alarm OutputPin
	Vent  OutputPin
}

func (a *Actuators) SetValve(open bool) { a.Valve.Set(open) }
func (a *Actuators) SetAlarm(on bool)   { a.Alarm.Set(on) }
func (a *Actuators) SetVent(open bool)  { a.Vent.Set(open) }

// Button adapts a polled input line to the acknowledge input. Invert is set
// for active-low wiring (pressed pulls the line to ground).
type Button struct {
	Pin    InputPin
	Invert bool
}

func (b *Button) Poll() bool {
	lvl := b.Pin.Get()
	if b.Invert {
		return !lvl
	}
	return lvl
}
