package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalibrate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration = CalibrationConfig{
		Samples:           4,
		Interval:          0,
		PulseOffset:       800,
		PiezoFloorOffset:  150,
		PiezoActiveOffset: 400,
		AudioFloorOffset:  100,
		AudioActiveOffset: 350,
	}

	analog := &fakeAnalog{pulse: 2200, piezo: 120, pressure: 10}
	audio := &fakeAudio{energy: 40}
	m := New(cfg, analog, audio, nil, nil, nil)

	m.Calibrate()

	th := m.Thresholds()
	assert.Equal(t, 3000, th.PulsePeak)
	assert.Equal(t, 270, th.PiezoFloor)
	assert.Equal(t, 520, th.PiezoActive)
	assert.Equal(t, 140, th.AudioFloor)
	assert.Equal(t, 390, th.AudioActive)

	// The contact threshold is absolute and untouched by calibration.
	assert.Equal(t, 400, th.PressureContact)
}

// A fully disconnected line calibrates as read: the pass applies fixed
// offsets and performs no plausibility validation.
func TestCalibrate_FloatingInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration.Interval = 0

	analog := &fakeAnalog{pulse: 4095, piezo: 0, pressure: 0}
	m := New(cfg, analog, &fakeAudio{}, nil, nil, nil)

	m.Calibrate()

	assert.Equal(t, 4095+cfg.Calibration.PulseOffset, m.Thresholds().PulsePeak)
}

func TestCalibrate_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration.Samples = 0

	m := New(cfg, &fakeAnalog{pulse: 2200}, &fakeAudio{}, nil, nil, nil)
	m.Calibrate()

	assert.Equal(t, cfg.Thresholds, m.Thresholds(), "thresholds untouched when disabled")
}
