package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalog serves fixed raw values per channel; tests mutate the
// fields between ticks to script a session.
type fakeAnalog struct {
	pulse    uint16
	piezo    uint16
	pressure uint16
}

func (f *fakeAnalog) ReadChannel(ch Channel) uint16 {
	switch ch {
	case ChannelPulse:
		return f.pulse
	case ChannelPiezo:
		return f.piezo
	default:
		return f.pressure
	}
}

type fakeAudio struct {
	energy int
}

func (f *fakeAudio) ReadEnergy() int { return f.energy }

type fakeIndicator struct {
	patterns []Pattern
}

func (f *fakeIndicator) SetPattern(p Pattern) {
	f.patterns = append(f.patterns, p)
}

func (f *fakeIndicator) count(mode PatternMode) int {
	n := 0
	for _, p := range f.patterns {
		if p.Mode == mode {
			n++
		}
	}
	return n
}

// testConfig lowers the pulse peak so a single 4095 spike crosses it
// after one smoothing step, which makes scripted heartbeats exactly one
// detection tick wide.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Thresholds.PulsePeak = 1000
	cfg.Calibration.Samples = 0 // thresholds scripted, no baseline pass
	return cfg
}

type scriptedMonitor struct {
	m      *Monitor
	analog *fakeAnalog
	audio  *fakeAudio
	led    *fakeIndicator
	now    time.Time
	tick   int
}

func newScriptedMonitor(cfg Config) *scriptedMonitor {
	s := &scriptedMonitor{
		analog: &fakeAnalog{piezo: 3600, pressure: 2000},
		audio:  &fakeAudio{},
		led:    &fakeIndicator{},
		now:    t0,
	}
	s.m = New(cfg, s.analog, s.audio, s.led, nil, nil)
	return s
}

// step advances the clock by the tick interval and runs one cycle,
// spiking the pulse channel when beat is true.
func (s *scriptedMonitor) step(beat bool) {
	if beat {
		s.analog.pulse = 4095
	} else {
		s.analog.pulse = 0
	}
	s.m.Tick(s.now)
	s.now = s.now.Add(50 * time.Millisecond)
	s.tick++
}

// TestMonitor_SteadyRhythm drives a 120 BPM spike train and checks the
// full pipeline: state reaches Monitoring only after the third matching
// interval, the displayed rate converges on 120, and the indicator
// flashes once per beat.
func TestMonitor_SteadyRhythm(t *testing.T) {
	s := newScriptedMonitor(testConfig())

	beatTick := func(i int) bool { return i%10 == 5 }

	// Beats at ticks 5, 15, 25: three raw beats give two matching
	// intervals, one short of the required streak.
	for i := 0; i < 30; i++ {
		s.step(beatTick(i))
	}
	st := s.m.Status()
	assert.Equal(t, 0, st.BPM, "rate must not be confirmed before the streak completes")
	assert.Equal(t, WeakSignal, st.State)

	// The beat at tick 35 completes the streak.
	for i := 30; i <= 35; i++ {
		s.step(beatTick(i))
	}
	st = s.m.Status()
	assert.Equal(t, 120, st.BPM)
	assert.Equal(t, Monitoring, st.State)

	// Two more cycles: the indicator flashes once per beat edge while
	// monitoring, and is off in between.
	flashesBefore := s.led.count(PatternFlash)
	for i := 36; i < 57; i++ {
		s.step(beatTick(i))
	}
	assert.Equal(t, flashesBefore+2, s.led.count(PatternFlash))
	assert.Equal(t, Off(), s.led.patterns[len(s.led.patterns)-1])
	assert.Equal(t, Monitoring, s.m.Status().State)
}

// TestMonitor_NoContact keeps the pressure pad unloaded: the state must
// stay Absent forever regardless of the other channels, with the slow
// searching blink.
func TestMonitor_NoContact(t *testing.T) {
	s := newScriptedMonitor(testConfig())
	s.analog.pressure = 100
	s.audio.energy = 800

	for i := 0; i < 60; i++ {
		s.step(i%10 == 5)
		assert.Equal(t, Absent, s.m.Status().State, "tick %d", i)
	}

	require.NotEmpty(t, s.led.patterns)
	assert.Equal(t, []Pattern{Blink(time.Second)}, s.led.patterns,
		"slow blink set once and never changed")
	assert.Equal(t, 0, s.m.Status().BPM)
}

// TestMonitor_PresenceLoss unloads the pressure pad and waits for the
// smoothed value to decay below the contact threshold; the tick that
// crosses it must classify Absent and zero the rate together.
func TestMonitor_PresenceLoss(t *testing.T) {
	s := newScriptedMonitor(testConfig())
	for i := 0; i <= 35; i++ {
		s.step(i%10 == 5)
	}
	require.Equal(t, Monitoring, s.m.Status().State)

	s.analog.pressure = 0
	var st Status
	for i := 0; i < 10; i++ {
		s.step(false)
		st = s.m.Status()
		if st.State == Absent {
			break
		}
		// Contact still reads present on this tick, so the rate must
		// still be on display.
		require.Equal(t, 120, st.BPM, "rate dropped before contact was lost")
	}

	assert.Equal(t, Absent, st.State)
	assert.Equal(t, 0, st.BPM, "rate must be zeroed on the tick contact is lost")
	// Piezo is still active, so this is presence loss, not quiet: the
	// stable rate survives for a quick reacquisition.
	assert.Equal(t, 120, s.m.estimator.lastStable)
}

// TestMonitor_QuietDiscardsEverything drops all channels to zero and
// waits for the smoothed values to decay below the floors; the quiet
// condition must then hard-reset the whole estimator.
func TestMonitor_QuietDiscardsEverything(t *testing.T) {
	s := newScriptedMonitor(testConfig())
	for i := 0; i <= 35; i++ {
		s.step(i%10 == 5)
	}
	require.Equal(t, Monitoring, s.m.Status().State)

	s.analog.pressure = 0
	s.analog.piezo = 0
	for range 10 {
		s.step(false)
	}

	assert.Equal(t, Absent, s.m.Status().State)
	assert.Equal(t, 0, s.m.estimator.lastStable)
	assert.True(t, s.m.estimator.lastBeat.IsZero())
}

// TestMonitor_StaleRate stops the spike train while keeping the subject
// present: Monitoring must fall back to WeakSignal once the staleness
// timeout elapses.
func TestMonitor_StaleRate(t *testing.T) {
	s := newScriptedMonitor(testConfig())
	for i := 0; i <= 35; i++ {
		s.step(i%10 == 5)
	}
	require.Equal(t, Monitoring, s.m.Status().State)

	// 3 s timeout at a 50 ms tick: 60 silent ticks reach the boundary,
	// the 61st crosses it.
	sawWeak := false
	for i := 0; i < 62 && !sawWeak; i++ {
		s.step(false)
		sawWeak = s.m.Status().State == WeakSignal
	}
	assert.True(t, sawWeak, "stale rate must demote Monitoring to WeakSignal")
	assert.Equal(t, 0, s.m.Status().BPM)
}
