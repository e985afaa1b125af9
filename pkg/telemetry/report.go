package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/petsense/pawbeat/pkg/monitor"
)

// Report is one parsed telemetry tick from the harness firmware.
type Report struct {
	Received time.Time     // host receive time
	Uptime   time.Duration // device uptime at the tick
	Pulse    int           // smoothed channel values
	Piezo    int
	Pressure int
	Audio    int
	BPM      int // displayed rate, 0 while unconfirmed
	State    monitor.State
	Beat     bool // beat signal on this tick
}

// Alert is an immediate warning line from the firmware.
type Alert struct {
	Received time.Time
	Message  string
}

// ParseReport parses a telemetry line from the firmware into a Report.
// Format: T,<millis>,<pulse>,<piezo>,<pressure>,<audio>,<bpm>,<state>,<beat>
// Example: T,120450,1180,720,1490,55,92,M,0
func ParseReport(line string, received time.Time) (Report, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 9 {
		return Report{}, fmt.Errorf("invalid line format: expected 9 comma-separated values, got %d", len(parts))
	}
	if parts[0] != "T" {
		return Report{}, fmt.Errorf("invalid line tag: %q", parts[0])
	}

	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Report{}, fmt.Errorf("invalid uptime: %w", err)
	}

	var channels [4]int
	for i, name := range []string{"pulse", "piezo", "pressure", "audio"} {
		v, err := strconv.Atoi(parts[2+i])
		if err != nil {
			return Report{}, fmt.Errorf("invalid %s value: %w", name, err)
		}
		if v < 0 {
			return Report{}, fmt.Errorf("%s value out of range: %d", name, v)
		}
		channels[i] = v
	}

	bpm, err := strconv.Atoi(parts[6])
	if err != nil {
		return Report{}, fmt.Errorf("invalid bpm: %w", err)
	}

	if len(parts[7]) != 1 {
		return Report{}, fmt.Errorf("invalid state code: %q", parts[7])
	}
	state, ok := monitor.StateFromCode(parts[7][0])
	if !ok {
		return Report{}, fmt.Errorf("unknown state code: %q", parts[7])
	}

	var beat bool
	switch parts[8] {
	case "0":
	case "1":
		beat = true
	default:
		return Report{}, fmt.Errorf("invalid beat flag: %q", parts[8])
	}

	return Report{
		Received: received,
		Uptime:   time.Duration(millis) * time.Millisecond,
		Pulse:    channels[0],
		Piezo:    channels[1],
		Pressure: channels[2],
		Audio:    channels[3],
		BPM:      bpm,
		State:    state,
		Beat:     beat,
	}, nil
}
