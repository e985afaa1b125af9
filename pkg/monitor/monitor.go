package monitor

import (
	"io"
	"time"
)

// Monitor owns the per-tick fusion pipeline: acquisition,
// classification, beat detection, rate estimation, state update,
// indicator update, reporting. Every field is written by exactly one
// pipeline stage per tick, in a fixed order, so the loop needs no
// synchronization.
type Monitor struct {
	cfg Config

	analog    AnalogSource
	audio     AudioSource
	indicator Indicator
	report    io.Writer // dashboard + warning lines
	telemetry io.Writer // optional per-tick CSV stream

	frame     Frame
	detector  BeatDetector
	estimator *Estimator
	state     State
	beat      bool // beat signal seen on the current tick

	lastPattern Pattern
	lastAlert   alertLevel
	lastReport  time.Time
	epoch       time.Time // first tick, origin of telemetry timestamps
}

// Status is a point-in-time snapshot of the monitor outputs.
type Status struct {
	Frame Frame
	BPM   int
	State State
	Beat  bool
}

// New builds a Monitor from its collaborators. indicator, report and
// telemetry may each be nil to disable the corresponding output.
func New(cfg Config, analog AnalogSource, audio AudioSource, indicator Indicator, report, telemetry io.Writer) *Monitor {
	return &Monitor{
		cfg:       cfg,
		analog:    analog,
		audio:     audio,
		indicator: indicator,
		report:    report,
		telemetry: telemetry,
		estimator: NewEstimator(cfg.Estimator),
	}
}

// Run calibrates once, then ticks forever with the configured delay.
// There is no cancellation: the loop is meant to run unattended for the
// life of the device, degrading to Absent or WeakSignal rather than
// halting.
func (m *Monitor) Run() {
	m.Calibrate()
	for {
		m.Tick(time.Now())
		time.Sleep(m.cfg.TickInterval)
	}
}

// Tick runs one control cycle at the given monotonic time.
func (m *Monitor) Tick(now time.Time) {
	if m.epoch.IsZero() {
		m.epoch = now
	}

	m.frame.Update(
		m.analog.ReadChannel(ChannelPulse),
		m.analog.ReadChannel(ChannelPiezo),
		m.analog.ReadChannel(ChannelPressure),
		m.audio.ReadEnergy(),
	)

	present := m.cfg.Thresholds.Present(m.frame)
	if m.cfg.Thresholds.Quiet(m.frame) {
		// Full discard only on the stricter condition, so a brief
		// contact fluctuation does not zero an in-progress accumulation.
		m.estimator.Reset()
	}

	m.beat = m.detector.Detect(m.cfg.Thresholds, m.frame, present)
	m.estimator.Update(m.beat, now)
	if !present {
		m.estimator.Invalidate()
	}

	m.state = NextState(present, m.estimator.BPM() > 0)

	m.updateIndicator()
	m.updateAlert()
	m.writeTelemetry(now)
	m.writeDashboard(now)
}

// Status returns a snapshot of the outputs after the most recent tick.
func (m *Monitor) Status() Status {
	return Status{
		Frame: m.frame,
		BPM:   m.estimator.BPM(),
		State: m.state,
		Beat:  m.beat,
	}
}

// Thresholds returns the currently active trigger levels.
func (m *Monitor) Thresholds() Thresholds {
	return m.cfg.Thresholds
}

func (m *Monitor) updateIndicator() {
	p := PatternFor(m.state, m.detector.ConsumeEdge())
	if p == m.lastPattern {
		return
	}
	m.lastPattern = p
	if m.indicator != nil {
		m.indicator.SetPattern(p)
	}
}
