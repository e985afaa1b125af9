package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "COM3", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.reports)
	assert.NotNil(t, dev.alerts)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestSerial_RecalibrateNotConnected(t *testing.T) {
	dev := New("COM3", 115200, 100)
	err := dev.Recalibrate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestSerial_Dispatch(t *testing.T) {
	received := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		line       string
		wantReport bool
		wantAlert  bool
	}{
		{
			name:       "telemetry line becomes a report",
			line:       "T,120450,1180,720,1490,55,92,M,0",
			wantReport: true,
		},
		{
			name:      "warning line becomes an alert",
			line:      "WARN low heart rate: 45 BPM",
			wantAlert: true,
		},
		{
			name: "dashboard line is skipped",
			line: "# pulse 1180/1200 piezo 720/700 pressure 1490/1500 audio 55 bpm 92 state monitoring",
		},
		{
			name: "malformed telemetry line is skipped",
			line: "T,garbage",
		},
		{
			name: "unrecognized line is skipped",
			line: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := New("COM3", 115200, 10)
			dev.dispatch(tt.line, received)

			if tt.wantReport {
				select {
				case report := <-dev.reports:
					assert.Equal(t, received, report.Received)
				default:
					t.Fatal("expected a report")
				}
			} else {
				assert.Empty(t, dev.reports)
			}

			if tt.wantAlert {
				select {
				case alert := <-dev.alerts:
					assert.Equal(t, received, alert.Received)
					assert.Equal(t, "low heart rate: 45 BPM", alert.Message)
				default:
					t.Fatal("expected an alert")
				}
			} else {
				assert.Empty(t, dev.alerts)
			}
		})
	}
}

func TestSerial_DispatchFullChannelDrops(t *testing.T) {
	dev := New("COM3", 115200, 1)

	dev.dispatch("T,1,100,100,100,100,0,A,0", time.Now())
	dev.dispatch("T,2,100,100,100,100,0,A,0", time.Now())

	// Only the first report fits; the second is dropped, not blocked on.
	report := <-dev.reports
	require.Equal(t, time.Millisecond, report.Uptime)
	assert.Empty(t, dev.reports)
}
