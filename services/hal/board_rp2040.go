//go:build rp2040

// services/hal/board_rp2040.go
package hal

import (
	"context"
	"io"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"greenhouse-go/drivers/bme680"
	"greenhouse-go/errcode"
	"greenhouse-go/types"
)

// Greenhouse controller pin map (Pico).
const (
	pinUARTTX = machine.Pin(0) // telemetry out
	pinUARTRX = machine.Pin(1)
	pinSDA    = machine.Pin(4) // I2C0 to the BME680
	pinSCL    = machine.Pin(5)
	pinBuzzer = machine.Pin(6)
	pinSmoke  = machine.Pin(7) // active low
	pinAck    = machine.Pin(12)
	pinValve  = machine.Pin(13)
	pinVent   = machine.Pin(14)
)

// Board is the assembled hardware surface handed to the services.
type Board struct {
	Sensors   *EnvSensors
	Actuators *Actuators
	Ack       *Button
	Telemetry io.Writer
}

// SetupBoard configures pins, buses and the environment sensor. Fails only
// if the BME680 cannot be brought up.
func SetupBoard() (*Board, error) {
	pinSmoke.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinAck.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	for _, p := range []machine.Pin{pinBuzzer, pinValve, pinVent} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}

	pinSDA.Configure(machine.PinConfig{Mode: machine.PinI2C})
	pinSCL.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := machine.I2C0.Configure(machine.I2CConfig{SDA: pinSDA, SCL: pinSCL, Frequency: 400_000}); err != nil {
		return nil, err
	}

	dev := bme680.New(machine.I2C0)
	if err := dev.Configure(); err != nil {
		return nil, err
	}

	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{BaudRate: 115200, TX: pinUARTTX, RX: pinUARTRX})

	return &Board{
		Sensors:   &EnvSensors{dev: &dev, smoke: gpioIn{pinSmoke}, smokeInvert: true},
		Actuators: &Actuators{Valve: gpioOut{pinValve}, Alarm: gpioOut{pinBuzzer}, Vent: gpioOut{pinVent}},
		Ack:       &Button{Pin: gpioIn{pinAck}, Invert: true},
		Telemetry: uart,
	}, nil
}

type gpioOut struct{ pin machine.Pin }

func (g gpioOut) Set(level bool) { g.pin.Set(level) }

type gpioIn struct{ pin machine.Pin }

func (g gpioIn) Get() bool { return g.pin.Get() }

// EnvSensors reads the smoke line and the BME680. The BME680 measures
// temperature, humidity and pressure in one forced-mode conversion, so the
// temperature read runs the conversion and the humidity and pressure reads
// in the same cycle reuse the cached sample instead of heating the die with
// two more conversions.
type EnvSensors struct {
	dev         *bme680.Device
	smoke       InputPin
	smokeInvert bool

	sample bme680.Sample
	fresh  bool
}

func (s *EnvSensors) Read(ctx context.Context, ch types.Channel) (int32, error) {
	switch ch {
	case types.ChanSmoke:
		lvl := s.smoke.Get()
		if s.smokeInvert {
			lvl = !lvl
		}
		if lvl {
			return 1, nil
		}
		return 0, nil

	case types.ChanTemperature:
		s.fresh = false
		if err := s.convert(ctx); err != nil {
			return 0, err
		}
		s.fresh = true
		return s.sample.DeciCelsius(), nil

	case types.ChanHumidity:
		if !s.fresh {
			if err := s.convert(ctx); err != nil {
				return 0, err
			}
			s.fresh = true
		}
		return s.sample.CentiRelHumidity(), nil

	default: // pressure, last in sampling order
		if !s.fresh {
			if err := s.convert(ctx); err != nil {
				return 0, err
			}
		}
		s.fresh = false // next cycle starts a new conversion
		return s.sample.DeciHectoPascal(), nil
	}
}

// convert runs one forced conversion, polling within the ctx deadline.
func (s *EnvSensors) convert(ctx context.Context) error {
	if err := s.dev.Trigger(); err != nil {
		return &errcode.E{C: errcode.BusError, Op: "bme680", Err: err}
	}
	wait := time.NewTimer(s.dev.TriggerHint())
	defer wait.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wait.C:
	}
	for {
		err := s.dev.Collect(&s.sample)
		if err == nil {
			return nil
		}
		if err != bme680.ErrNotReady {
			return &errcode.E{C: errcode.BusError, Op: "bme680", Err: err}
		}
		poll := time.NewTimer(10 * time.Millisecond)
		select {
		case <-ctx.Done():
			poll.Stop()
			return ctx.Err()
		case <-poll.C:
		}
	}
}
