package monitor

import "time"

// Config collects the tunable parameters of the fusion core. The
// firmware compiles in DefaultConfig; the host tooling builds one from
// its yaml configuration.
type Config struct {
	Thresholds  Thresholds
	Estimator   EstimatorConfig
	Calibration CalibrationConfig

	TickInterval   time.Duration // end-of-tick delay of the control loop
	ReportInterval time.Duration // dashboard line spacing

	// Advisory health bounds, evaluated only while monitoring.
	LowBPM  int
	HighBPM int
}

// CalibrationConfig controls the blocking startup baseline pass.
// Thresholds are derived as baseline plus a fixed offset; the baseline
// itself is never validated (a floating input calibrates as read).
type CalibrationConfig struct {
	Samples  int           // averaged reads per channel
	Interval time.Duration // spacing between reads

	PulseOffset       int // PulsePeak above the pulse baseline
	PiezoFloorOffset  int // PiezoFloor above the piezo baseline
	PiezoActiveOffset int // PiezoActive above the piezo baseline
	AudioFloorOffset  int // AudioFloor above the audio baseline
	AudioActiveOffset int // AudioActive above the audio baseline
}

// DefaultConfig returns the reference tuning for the harness hardware.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			PressureContact: 400,
			PulsePeak:       3000,
			PiezoFloor:      300,
			PiezoActive:     600,
			AudioFloor:      150,
			AudioActive:     500,
		},
		Estimator: DefaultEstimatorConfig(),
		Calibration: CalibrationConfig{
			Samples:           32,
			Interval:          10 * time.Millisecond,
			PulseOffset:       800,
			PiezoFloorOffset:  150,
			PiezoActiveOffset: 400,
			AudioFloorOffset:  100,
			AudioActiveOffset: 350,
		},
		TickInterval:   20 * time.Millisecond,
		ReportInterval: 2 * time.Second,
		LowBPM:         50,
		HighBPM:        160,
	}
}
