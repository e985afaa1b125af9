package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petsense/pawbeat/pkg/monitor"
)

func TestParseReport(t *testing.T) {
	received := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		line    string
		want    Report
		wantErr bool
	}{
		{
			name: "valid line - monitoring with beat",
			line: "T,120450,1180,720,1490,55,92,M,1",
			want: Report{
				Received: received,
				Uptime:   120450 * time.Millisecond,
				Pulse:    1180,
				Piezo:    720,
				Pressure: 1490,
				Audio:    55,
				BPM:      92,
				State:    monitor.Monitoring,
				Beat:     true,
			},
		},
		{
			name: "valid line - absent",
			line: "T,300,45,20,60,10,0,A,0",
			want: Report{
				Received: received,
				Uptime:   300 * time.Millisecond,
				Pulse:    45,
				Piezo:    20,
				Pressure: 60,
				Audio:    10,
				BPM:      0,
				State:    monitor.Absent,
				Beat:     false,
			},
		},
		{
			name: "valid line - weak signal",
			line: "T,5000,1200,500,1600,40,0,W,0",
			want: Report{
				Received: received,
				Uptime:   5 * time.Second,
				Pulse:    1200,
				Piezo:    500,
				Pressure: 1600,
				Audio:    40,
				BPM:      0,
				State:    monitor.WeakSignal,
				Beat:     false,
			},
		},
		{
			name: "valid line - max ADC values",
			line: "T,1,4095,4095,4095,4095,250,M,0",
			want: Report{
				Received: received,
				Uptime:   time.Millisecond,
				Pulse:    4095,
				Piezo:    4095,
				Pressure: 4095,
				Audio:    4095,
				BPM:      250,
				State:    monitor.Monitoring,
				Beat:     false,
			},
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "T,120450,1180,720,1490,55,92,M",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "T,120450,1180,720,1490,55,92,M,1,extra",
			wantErr: true,
		},
		{
			name:    "invalid - wrong tag",
			line:    "X,120450,1180,720,1490,55,92,M,1",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric uptime",
			line:    "T,abc,1180,720,1490,55,92,M,1",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric channel",
			line:    "T,120450,abc,720,1490,55,92,M,1",
			wantErr: true,
		},
		{
			name:    "invalid - negative channel",
			line:    "T,120450,-5,720,1490,55,92,M,1",
			wantErr: true,
		},
		{
			name:    "invalid - unknown state code",
			line:    "T,120450,1180,720,1490,55,92,X,1",
			wantErr: true,
		},
		{
			name:    "invalid - multi-char state code",
			line:    "T,120450,1180,720,1490,55,92,MM,1",
			wantErr: true,
		},
		{
			name:    "invalid - beat flag",
			line:    "T,120450,1180,720,1490,55,92,M,2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReport(tt.line, received)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
