// services/control/sampler.go
package control

import (
	"context"
	"errors"

	"greenhouse-go/types"
)

// Sampler turns raw bus reads into typed readings. It never blocks past the
// channel's fault timeout and never returns an error: bus failures come back
// in-band as faulted readings, so the control loop stays total.
type Sampler struct {
	src SensorSource
	cfg *types.ControlConfig
}

func NewSampler(src SensorSource, cfg *types.ControlConfig) *Sampler {
	return &Sampler{src: src, cfg: cfg}
}

// Sample reads one channel with its configured per-read deadline.
func (s *Sampler) Sample(ctx context.Context, ch types.Channel, tick uint64) types.Reading {
	rctx, cancel := context.WithTimeout(ctx, s.cfg.Channels[ch].FaultTimeout)
	v, err := s.src.Read(rctx, ch)
	cancel()

	switch {
	case err == nil:
		return types.Reading{Channel: ch, Value: v, Tick: tick}
	case errors.Is(err, context.DeadlineExceeded):
		return types.Reading{Channel: ch, Fault: types.FaultTimeout, Tick: tick}
	default:
		return types.Reading{Channel: ch, Fault: types.FaultBus, Tick: tick}
	}
}
