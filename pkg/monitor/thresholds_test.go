package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testThresholds() Thresholds {
	return Thresholds{
		PressureContact: 400,
		PulsePeak:       3000,
		PiezoFloor:      300,
		PiezoActive:     600,
		AudioFloor:      150,
		AudioActive:     500,
	}
}

func TestThresholds_Present(t *testing.T) {
	th := testThresholds()

	tests := []struct {
		name  string
		frame Frame
		want  bool
	}{
		{
			name:  "contact with piezo activity",
			frame: Frame{Pressure: 500, Piezo: 900},
			want:  true,
		},
		{
			name:  "contact with audio only",
			frame: Frame{Pressure: 500, Audio: 200},
			want:  true,
		},
		{
			name:  "contact but no corroboration",
			frame: Frame{Pressure: 500, Piezo: 100, Audio: 50},
			want:  false,
		},
		{
			name:  "no contact despite activity",
			frame: Frame{Pressure: 100, Piezo: 2000, Audio: 1000},
			want:  false,
		},
		{
			name:  "threshold is exclusive",
			frame: Frame{Pressure: 400, Piezo: 900},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Present(tt.frame))
		})
	}
}

func TestThresholds_Quiet(t *testing.T) {
	th := testThresholds()

	tests := []struct {
		name  string
		frame Frame
		want  bool
	}{
		{
			name:  "everything silent",
			frame: Frame{Pressure: 10, Piezo: 20, Audio: 5},
			want:  true,
		},
		{
			name:  "residual piezo noise",
			frame: Frame{Pressure: 10, Piezo: 350, Audio: 5},
			want:  false,
		},
		{
			name:  "residual audio noise",
			frame: Frame{Pressure: 10, Piezo: 20, Audio: 200},
			want:  false,
		},
		{
			name:  "contact still registered",
			frame: Frame{Pressure: 500, Piezo: 20, Audio: 5},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Quiet(tt.frame))
		})
	}
}

// Present and Quiet are independent predicates: a transitional frame can
// fail both, which classifies as absent without discarding BPM state.
func TestThresholds_TransitionalFrame(t *testing.T) {
	th := testThresholds()
	frame := Frame{Pressure: 100, Piezo: 900, Audio: 5}

	assert.False(t, th.Present(frame))
	assert.False(t, th.Quiet(frame))
}
