// Host entry point: runs the greenhouse controller against simulated
// sensors with telemetry on stdout. The board build lives in
// cmd/pico-greenhouse.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenhouse-go/bus"
	"greenhouse-go/services/config"
	"greenhouse-go/services/control"
	"greenhouse-go/services/hal"
	"greenhouse-go/services/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, "host")

	println("Info: main: starting bus")
	b := bus.NewBus(8)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	cfg, err := control.AwaitConfig(b, 2*time.Second)
	if err != nil {
		println("Fatal: main:", err.Error())
		os.Exit(1)
	}

	sensors := hal.NewSimSensors()
	outs := &hal.Actuators{
		Valve: &hal.LogPin{Name: "valve"},
		Alarm: &hal.LogPin{Name: "alarm"},
		Vent:  &hal.LogPin{Name: "vent"},
	}

	svc, err := control.New(b, cfg, sensors, outs, nil)
	if err != nil {
		println("Fatal: main:", err.Error())
		os.Exit(1)
	}

	telemetry.New(b, os.Stdout).Start(ctx)
	svc.Start(ctx)

	println("Info: main: running, interrupt to stop")
	<-ctx.Done()
	println("Info: main: shutting down")
}
