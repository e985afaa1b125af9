package telemetry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/petsense/pawbeat/pkg/config"
	"github.com/petsense/pawbeat/pkg/monitor"
)

// Mock simulates a harness device for testing and development. Instead
// of replaying canned telemetry it synthesizes the four sensor channels
// and runs the real fusion core over them, so the host sees the same
// behavior the firmware would produce for that signal.
type Mock struct {
	cfg  config.MockConfig
	mcfg monitor.Config

	reports   chan Report
	alerts    chan Alert
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	mon       *monitor.Monitor
	synth     *synth
	calibrate chan struct{}
	startTime time.Time
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:       cfg.Mock,
		mcfg:      cfg.Monitor(),
		reports:   make(chan Report, DefaultBufferSize),
		alerts:    make(chan Alert, alertBufferSize),
		calibrate: make(chan struct{}, 1),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Connect starts the simulation.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()
	m.synth = newSynth(m.cfg, m.startTime)

	// Thresholds are pre-tuned to the synthesized signal, so the
	// startup baseline pass is skipped; Recalibrate still runs one on
	// demand to exercise the same path the firmware takes.
	m.mon = monitor.New(m.mcfg, m.synth, m.synth, nil, &alertWriter{mock: m}, nil)

	go m.generateReports()

	return nil
}

// Close stops the simulation.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.reports)
	close(m.alerts)

	return nil
}

// Reports returns the channel for reading telemetry reports.
func (m *Mock) Reports() <-chan Report {
	return m.reports
}

// Alerts returns the channel for reading warnings.
func (m *Mock) Alerts() <-chan Alert {
	return m.alerts
}

// Recalibrate schedules a baseline pass on the simulation goroutine.
func (m *Mock) Recalibrate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	select {
	case m.calibrate <- struct{}{}:
	default:
		// A pass is already scheduled.
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetPresent attaches or detaches the simulated dog.
func (m *Mock) SetPresent(present bool) {
	m.mu.RLock()
	s := m.synth
	m.mu.RUnlock()
	if s != nil {
		s.SetPresent(present)
	}
}

// generateReports drives the fusion core at the configured sample rate
// and publishes one report per tick.
func (m *Mock) generateReports() {
	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.calibrate:
			m.mon.Calibrate()
		case now := <-ticker.C:
			m.mon.Tick(now)
			report := m.snapshot(now)
			select {
			case m.reports <- report:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// snapshot converts the core's current status into a Report, the same
// projection the firmware sends over the wire.
func (m *Mock) snapshot(now time.Time) Report {
	st := m.mon.Status()
	return Report{
		Received: now,
		Uptime:   now.Sub(m.startTime),
		Pulse:    st.Frame.Pulse,
		Piezo:    st.Frame.Piezo,
		Pressure: st.Frame.Pressure,
		Audio:    st.Frame.Audio,
		BPM:      st.BPM,
		State:    st.State,
		Beat:     st.Beat,
	}
}

// alertWriter adapts the core's report writer into the alerts channel.
// Warning lines become Alerts; the human-readable dashboard lines are
// dropped, the host renders its own views from the reports.
type alertWriter struct {
	mock *Mock
}

func (w *alertWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "WARN ") {
			continue
		}
		alert := Alert{
			Received: time.Now(),
			Message:  strings.TrimPrefix(line, "WARN "),
		}
		select {
		case w.mock.alerts <- alert:
		default:
			// Channel full, skip
		}
	}
	return len(p), nil
}

// synth generates the four sensor channels of a resting dog: a baseline
// pulse wave with a plateau on each systole, a piezo channel that moves
// with it, steady strap pressure while attached, and a quiet microphone.
type synth struct {
	mu      sync.Mutex
	bpm     int
	noise   float32
	present bool
	start   time.Time
}

// Synthesized channel levels, in raw ADC counts. The systole plateau is
// held for a fifth of the beat period so the smoothing filter has time
// to carry it across the detection threshold.
const (
	synthPulseBase   = 1200
	synthPulseBeat   = 3900
	synthPiezoBase   = 430
	synthPiezoBeat   = 1700
	synthPressureOn  = 1800
	synthPressureOff = 60
	synthAudioBase   = 40
	synthAudioOff    = 15
	synthBeatFrac    = 0.2
)

func newSynth(cfg config.MockConfig, start time.Time) *synth {
	bpm := cfg.BPM
	if bpm <= 0 {
		bpm = 90
	}
	return &synth{
		bpm:     bpm,
		noise:   float32(cfg.NoiseLevel),
		present: cfg.Present,
		start:   start,
	}
}

// SetPresent attaches or detaches the simulated dog.
func (s *synth) SetPresent(present bool) {
	s.mu.Lock()
	s.present = present
	s.mu.Unlock()
}

// ReadChannel implements monitor.AnalogSource.
func (s *synth) ReadChannel(ch monitor.Channel) uint16 {
	s.mu.Lock()
	bpm := s.bpm
	noise := s.noise
	present := s.present
	elapsed := time.Since(s.start)
	s.mu.Unlock()

	t := float32(elapsed.Seconds())
	wobble := (math32.Sin(t*37.3) + math32.Cos(t*51.7)) * noise * 0.5

	if !present {
		switch ch {
		case monitor.ChannelPressure:
			return clampADC(synthPressureOff + wobble)
		default:
			return clampADC(synthPressureOff + wobble*0.5)
		}
	}

	// Fractional position inside the current beat.
	phase := t * float32(bpm) / 60
	frac := phase - math32.Floor(phase)
	systole := frac < synthBeatFrac

	switch ch {
	case monitor.ChannelPulse:
		v := float32(synthPulseBase)
		if systole {
			v = synthPulseBeat
		}
		return clampADC(v + wobble)
	case monitor.ChannelPiezo:
		v := float32(synthPiezoBase)
		if systole {
			v = synthPiezoBeat
		}
		// Slow breathing movement on top of the cardiac component.
		v += 60 * math32.Sin(t*2*math32.Pi/4)
		return clampADC(v + wobble)
	case monitor.ChannelPressure:
		return clampADC(synthPressureOn + wobble)
	default:
		return 0
	}
}

// ReadEnergy implements monitor.AudioSource.
func (s *synth) ReadEnergy() int {
	s.mu.Lock()
	noise := s.noise
	present := s.present
	elapsed := time.Since(s.start)
	s.mu.Unlock()

	t := float32(elapsed.Seconds())
	wobble := math32.Abs(math32.Sin(t*67.1)) * noise * 0.5

	if !present {
		return int(synthAudioOff + wobble*0.3)
	}
	return int(synthAudioBase + wobble)
}

func clampADC(v float32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 4095 {
		return 4095
	}
	return uint16(v)
}
