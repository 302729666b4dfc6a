// services/control/control.go
package control

import (
	"context"
	"time"

	"greenhouse-go/bus"
	"greenhouse-go/errcode"
	"greenhouse-go/types"
	"greenhouse-go/x/timex"
)

// Service runs the greenhouse control loop: one cycle per period, fixed
// order, no goroutines on the hot path. Each cycle samples every channel
// (smoke first), classifies, steps the alarm/vent/watering machines, writes
// the actuator levels, and publishes a retained Snapshot on greenhouse/state.
//
// The loop is total. Sensor failures surface as faulted readings, config is
// validated once at construction, and an overrunning cycle is reported and
// survived. After New succeeds there is no code path that stops the loop
// short of its context being cancelled.
type Service struct {
	conn    *bus.Connection
	cfg     types.ControlConfig
	sampler *Sampler
	outs    Outputs
	ackIn   AckInput
	uptime  *UptimeTracker
	st      loopState
}

// New validates the configuration and builds the service. A config error
// here is fatal on purpose: a controller with an unsound envelope must not
// reach the loop. ackIn may be nil.
func New(b *bus.Bus, cfg *types.ControlConfig, src SensorSource, outs Outputs, ackIn AckInput) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		conn:  b.NewConnection("control"),
		cfg:   *cfg,
		outs:  outs,
		ackIn: ackIn,
	}
	s.sampler = NewSampler(src, &s.cfg)
	s.uptime = NewUptimeTracker(s.cfg.Period)
	return s, nil
}

// Start launches the loop goroutine. It returns immediately; the loop runs
// until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.conn.Publish(s.conn.NewMessage(topicSvcState, "running", true))
	go s.serviceLoop(ctx)
}

func (s *Service) serviceLoop(ctx context.Context) {
	ackSub := s.conn.Subscribe(topicAck)
	defer s.conn.Disconnect()

	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.Publish(s.conn.NewMessage(topicSvcState, "stopped", true))
			return
		case <-ackSub.Channel():
			// Held until the next cycle; the FSM only steps on ticks.
			s.st.ackQueued = true
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle executes one control cycle at the current uptime tick. Order is
// load-bearing: smoke is sampled before the slower analog channels, the
// watering decision reads this cycle's uptime, and the tick counter advances
// only after every decision that consumes it.
func (s *Service) runCycle(ctx context.Context) {
	start := timex.NowMs()
	tick := s.uptime.Current()

	var readings [types.NumChannels]types.Reading
	for _, ch := range types.Channels {
		r := s.sampler.Sample(ctx, ch, tick)
		readings[ch] = s.st.filterStuck(&s.cfg, r)
	}

	for _, ch := range types.Channels {
		s.st.classes[ch] = Classify(&s.cfg, readings[ch], s.st.classes[ch])
	}

	button := false
	if s.ackIn != nil {
		button = s.ackIn.Poll()
	}
	ack := s.st.takeAck(button)

	s.st.alarm = StepAlarm(s.st.alarm, &s.st.classes, ack)
	s.st.vent = DecideVent(&s.st.classes, s.st.vent)
	s.st.watering = DecideWatering(&s.cfg, tick, &s.st.classes, s.st.watering)

	s.uptime.Tick()

	valve := s.st.watering.Phase == types.WateringActive
	if s.st.classes[types.ChanSmoke].Level == types.LevelCritical {
		// Fire suppression: flood the beds while smoke is detected. The
		// scheduler's own state is left alone; this overrides the output only.
		valve = true
	}
	alarmOut := s.st.alarm == types.AlarmRaised

	s.outs.SetValve(valve)
	s.outs.SetAlarm(alarmOut)
	s.outs.SetVent(s.st.vent == types.VentOpen)

	overrun := timex.SinceMs(start) > s.cfg.Period.Milliseconds()
	if overrun {
		println("control:", string(errcode.TickOverrun), "tick", tick)
	}

	snap := types.Snapshot{
		Tick:      tick,
		Classes:   s.st.classes,
		Alarm:     s.st.alarm,
		Watering:  s.st.watering.Phase,
		Vent:      s.st.vent,
		ValveOpen: valve,
		AlarmOut:  alarmOut,
		Overrun:   overrun,
	}
	for _, ch := range types.Channels {
		snap.Values[ch] = readings[ch].Value
	}
	s.conn.Publish(s.conn.NewMessage(topicState, snap, true))
}

// AwaitConfig blocks until the greenhouse config appears on the bus (the
// config service publishes it retained, so a late subscriber still sees it)
// and decodes it over the defaults. Times out with invalid_config rather
// than running on a guess forever.
func AwaitConfig(b *bus.Bus, timeout time.Duration) (*types.ControlConfig, error) {
	conn := b.NewConnection("control-config")
	defer conn.Disconnect()

	sub := conn.Subscribe(topicConfig)
	select {
	case msg := <-sub.Channel():
		raw, ok := msg.Payload.(map[string]any)
		if !ok {
			return nil, &errcode.E{C: errcode.InvalidConfig, Op: "await", Msg: "config payload is not an object"}
		}
		cfg := types.DecodeControlConfig(raw)
		return &cfg, nil
	case <-time.After(timeout):
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "await", Msg: "no config received"}
	}
}
