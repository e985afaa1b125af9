package history

import (
	"log"
	"time"

	"github.com/petsense/pawbeat/pkg/telemetry"
)

// Converter is a function type that transforms one report stream into
// another. Converters compose between the device and the recorder.
type Converter func(in <-chan telemetry.Report) <-chan telemetry.Report

// NewAveragingConverter creates a converter that smooths the analog
// channels over a moving window of reports. The firmware already
// low-passes its readings; this stage only steadies the host trace at
// high tick rates. State, BPM, the beat flag and timestamps pass
// through from the newest report untouched, one output per input, so
// no beat marker is lost or duplicated.
func NewAveragingConverter(windowSize int, bufSize int) Converter {
	if windowSize <= 0 {
		windowSize = 1 // No averaging if invalid
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan telemetry.Report) <-chan telemetry.Report {
		out := make(chan telemetry.Report, bufSize)

		go func() {
			defer close(out)

			var buffer []telemetry.Report
			for r := range in {
				buffer = append(buffer, r)
				if len(buffer) > windowSize {
					buffer = buffer[1:] // Remove oldest
				}

				avg := averageReports(buffer)
				select {
				case out <- avg:
				case <-time.After(time.Second):
					log.Printf("Averaging converter output channel full, dropping report")
				}
			}
		}()

		return out
	}
}

// averageReports averages the analog channels of a report window. The
// newest report supplies everything that is not an analog level.
func averageReports(reports []telemetry.Report) telemetry.Report {
	if len(reports) == 0 {
		return telemetry.Report{}
	}

	var sumPulse, sumPiezo, sumPressure, sumAudio int
	for _, r := range reports {
		sumPulse += r.Pulse
		sumPiezo += r.Piezo
		sumPressure += r.Pressure
		sumAudio += r.Audio
	}

	n := len(reports)
	avg := reports[n-1] // Most recent report carries state, BPM, beat, timestamps
	avg.Pulse = sumPulse / n
	avg.Piezo = sumPiezo / n
	avg.Pressure = sumPressure / n
	avg.Audio = sumAudio / n
	return avg
}
