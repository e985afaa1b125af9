package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmooth(t *testing.T) {
	tests := []struct {
		name string
		prev int
		raw  int
		want int
	}{
		{
			name: "from zero",
			prev: 0,
			raw:  4000,
			want: 1000,
		},
		{
			name: "steady state",
			prev: 2048,
			raw:  2048,
			want: 2048,
		},
		{
			name: "history dominates",
			prev: 1000,
			raw:  2000,
			want: 1250,
		},
		{
			name: "falling edge",
			prev: 2000,
			raw:  0,
			want: 1500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, smooth(tt.prev, tt.raw))
		})
	}
}

func TestFrameUpdate(t *testing.T) {
	var f Frame
	f.Update(4000, 2000, 800, 400)

	assert.Equal(t, 4000, f.RawPulse)
	assert.Equal(t, 2000, f.RawPiezo)
	assert.Equal(t, 800, f.RawPressure)
	assert.Equal(t, 400, f.RawAudio)

	assert.Equal(t, 1000, f.Pulse)
	assert.Equal(t, 500, f.Piezo)
	assert.Equal(t, 200, f.Pressure)
	assert.Equal(t, 100, f.Audio)
}

func TestFrameUpdate_Convergence(t *testing.T) {
	// A constant raw input must converge to (nearly) the raw value;
	// integer division leaves it a few counts short.
	var f Frame
	for range 50 {
		f.Update(3000, 3000, 3000, 300)
	}
	assert.InDelta(t, 3000, f.Pulse, 4)
	assert.InDelta(t, 3000, f.Piezo, 4)
	assert.InDelta(t, 3000, f.Pressure, 4)
	assert.InDelta(t, 300, f.Audio, 4)
}
