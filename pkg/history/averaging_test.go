package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petsense/pawbeat/pkg/telemetry"
)

func TestNewAveragingConverter(t *testing.T) {
	conv := NewAveragingConverter(2, 10)

	in := make(chan telemetry.Report, 4)
	out := conv(in)

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in <- report(t0, 1000, false, 0)
	in <- report(t0.Add(time.Second), 2000, true, 90)
	close(in)

	first := <-out
	assert.Equal(t, 1000, first.Pulse) // window of one

	second := <-out
	assert.Equal(t, 1500, second.Pulse) // (1000+2000)/2
	assert.Equal(t, t0.Add(time.Second), second.Received)
	assert.Equal(t, 90, second.BPM)
	assert.True(t, second.Beat, "beat flag must pass through untouched")

	_, ok := <-out
	assert.False(t, ok, "output should close when input closes")
}

func TestNewAveragingConverter_InvalidWindow(t *testing.T) {
	conv := NewAveragingConverter(0, 10)

	in := make(chan telemetry.Report, 2)
	out := conv(in)

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in <- report(t0, 1000, false, 0)
	in <- report(t0.Add(time.Second), 3000, false, 0)
	close(in)

	// Window of one: reports pass through unaveraged.
	assert.Equal(t, 1000, (<-out).Pulse)
	assert.Equal(t, 3000, (<-out).Pulse)
}

func TestAverageReports(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := report(t0, 1000, false, 0)
	a.Piezo, a.Pressure, a.Audio = 400, 1400, 40
	b := report(t0.Add(time.Second), 2000, true, 95)
	b.Piezo, b.Pressure, b.Audio = 800, 1600, 60

	avg := averageReports([]telemetry.Report{a, b})
	assert.Equal(t, 1500, avg.Pulse)
	assert.Equal(t, 600, avg.Piezo)
	assert.Equal(t, 1500, avg.Pressure)
	assert.Equal(t, 50, avg.Audio)

	// Everything else comes from the newest report.
	assert.Equal(t, b.Received, avg.Received)
	assert.Equal(t, b.BPM, avg.BPM)
	assert.Equal(t, b.State, avg.State)
	assert.True(t, avg.Beat)
}

func TestAverageReports_Empty(t *testing.T) {
	avg := averageReports(nil)
	require.Equal(t, telemetry.Report{}, avg)
}
