//go:build rp2040

// Greenhouse controller firmware for the Pico board.
package main

import (
	"context"
	"time"

	"greenhouse-go/bus"
	"greenhouse-go/services/config"
	"greenhouse-go/services/control"
	"greenhouse-go/services/hal"
	"greenhouse-go/services/telemetry"
)

func main() {
	time.Sleep(2 * time.Second) // let the serial console attach

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "pico")

	println("Info: main: starting bus")
	b := bus.NewBus(4)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	cfg, err := control.AwaitConfig(b, 5*time.Second)
	if err != nil {
		fatal(err.Error())
	}

	board, err := hal.SetupBoard()
	if err != nil {
		fatal(err.Error())
	}

	svc, err := control.New(b, cfg, board.Sensors, board.Actuators, board.Ack)
	if err != nil {
		fatal(err.Error())
	}

	telemetry.New(b, board.Telemetry).Start(ctx)
	svc.Start(ctx)

	select {}
}

// fatal parks with the error on the console. Nothing sensible can run
// without config or the sensor bus; power cycling is the way back.
func fatal(msg string) {
	println("Fatal: main:", msg)
	for {
		time.Sleep(time.Second)
	}
}
