package control

import (
	"context"
	"testing"
	"time"

	"greenhouse-go/errcode"
	"greenhouse-go/types"
)

// scriptedSource answers each channel from a table. A nil entry in errs
// returns the value; otherwise the error.
type scriptedSource struct {
	vals [types.NumChannels]int32
	errs [types.NumChannels]error
}

func (s *scriptedSource) Read(_ context.Context, ch types.Channel) (int32, error) {
	if err := s.errs[ch]; err != nil {
		return 0, err
	}
	return s.vals[ch], nil
}

// stalledSource never answers; it waits out the deadline like a wedged bus.
type stalledSource struct{}

func (stalledSource) Read(ctx context.Context, _ types.Channel) (int32, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func samplerConfig() types.ControlConfig {
	cfg := types.DefaultControlConfig()
	for i := range cfg.Channels {
		cfg.Channels[i].FaultTimeout = 5 * time.Millisecond
	}
	return cfg
}

func TestSample_Valid(t *testing.T) {
	cfg := samplerConfig()
	src := &scriptedSource{}
	src.vals[types.ChanTemperature] = 231
	s := NewSampler(src, &cfg)

	r := s.Sample(context.Background(), types.ChanTemperature, 7)
	if !r.Valid() || r.Value != 231 || r.Tick != 7 {
		t.Fatalf("got %+v", r)
	}
}

func TestSample_TimeoutBecomesFault(t *testing.T) {
	cfg := samplerConfig()
	s := NewSampler(stalledSource{}, &cfg)

	start := time.Now()
	r := s.Sample(context.Background(), types.ChanHumidity, 0)
	if r.Valid() || r.Fault != types.FaultTimeout {
		t.Fatalf("got %+v, want timeout fault", r)
	}
	if el := time.Since(start); el > time.Second {
		t.Fatalf("sample blocked %v past its deadline", el)
	}
}

func TestSample_BusErrorBecomesFault(t *testing.T) {
	cfg := samplerConfig()
	src := &scriptedSource{}
	src.errs[types.ChanPressure] = errcode.BusError
	s := NewSampler(src, &cfg)

	r := s.Sample(context.Background(), types.ChanPressure, 0)
	if r.Valid() || r.Fault != types.FaultBus {
		t.Fatalf("got %+v, want bus fault", r)
	}
}

func TestSample_EveryChannelStalled(t *testing.T) {
	// The degenerate cycle: nothing on the bus answers. Every channel must
	// come back faulted, none may panic or error out.
	cfg := samplerConfig()
	s := NewSampler(stalledSource{}, &cfg)
	for _, ch := range types.Channels {
		r := s.Sample(context.Background(), ch, 3)
		if r.Valid() || r.Fault != types.FaultTimeout {
			t.Fatalf("%v: got %+v", ch, r)
		}
	}
}
