package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petsense/pawbeat/pkg/monitor"
)

// Config represents the host application configuration. The firmware
// compiles in monitor.DefaultConfig directly; this mirror exists so the
// host tooling (settings dialog, mock device) can persist and edit the
// same tuning as yaml.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Thresholds  ThresholdsConfig  `yaml:"thresholds"`
	Estimator   EstimatorConfig   `yaml:"estimator"`
	Report      ReportConfig      `yaml:"report"`
	Calibration CalibrationConfig `yaml:"calibration"`
	History     HistoryConfig     `yaml:"history"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// ThresholdsConfig contains the detection trigger levels in raw channel
// units.
type ThresholdsConfig struct {
	PressureContact int `yaml:"pressure_contact"`
	PulsePeak       int `yaml:"pulse_peak"`
	PiezoFloor      int `yaml:"piezo_floor"`
	PiezoActive     int `yaml:"piezo_active"`
	AudioFloor      int `yaml:"audio_floor"`
	AudioActive     int `yaml:"audio_active"`
}

// EstimatorConfig contains the rate acceptance bounds.
type EstimatorConfig struct {
	MinInterval    time.Duration `yaml:"min_interval"`
	MaxInterval    time.Duration `yaml:"max_interval"`
	MinBPM         int           `yaml:"min_bpm"`
	MaxBPM         int           `yaml:"max_bpm"`
	Tolerance      int           `yaml:"tolerance"`
	RequiredStreak int           `yaml:"required_streak"`
	StaleAfter     time.Duration `yaml:"stale_after"`
}

// ReportConfig contains reporting cadence and advisory bounds.
type ReportConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`
	DashboardInterval time.Duration `yaml:"dashboard_interval"`
	LowBPM            int           `yaml:"low_bpm"`
	HighBPM           int           `yaml:"high_bpm"`
}

// CalibrationConfig contains the startup baseline pass parameters.
type CalibrationConfig struct {
	Samples           int           `yaml:"samples"`
	Interval          time.Duration `yaml:"interval"`
	PulseOffset       int           `yaml:"pulse_offset"`
	PiezoFloorOffset  int           `yaml:"piezo_floor_offset"`
	PiezoActiveOffset int           `yaml:"piezo_active_offset"`
	AudioFloorOffset  int           `yaml:"audio_floor_offset"`
	AudioActiveOffset int           `yaml:"audio_active_offset"`
}

// HistoryConfig contains the trace buffer and display pipeline tuning.
type HistoryConfig struct {
	Window    time.Duration `yaml:"window"`     // retention of the trace buffer
	Averaging int           `yaml:"averaging"`  // moving-average width for display smoothing
	MaxPoints int           `yaml:"max_points"` // downsampled points per redraw
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	BPM        int           `yaml:"bpm"`         // simulated heart rate
	NoiseLevel int           `yaml:"noise_level"` // raw counts of channel noise
	Present    bool          `yaml:"present"`     // subject attached at start
	SampleRate time.Duration `yaml:"sample_rate"` // tick spacing of the simulation
}

// Default returns a default configuration matching the firmware's
// compiled-in tuning.
func Default() *Config {
	mc := monitor.DefaultConfig()
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
		},
		Thresholds: ThresholdsConfig{
			PressureContact: mc.Thresholds.PressureContact,
			PulsePeak:       mc.Thresholds.PulsePeak,
			PiezoFloor:      mc.Thresholds.PiezoFloor,
			PiezoActive:     mc.Thresholds.PiezoActive,
			AudioFloor:      mc.Thresholds.AudioFloor,
			AudioActive:     mc.Thresholds.AudioActive,
		},
		Estimator: EstimatorConfig{
			MinInterval:    mc.Estimator.MinInterval,
			MaxInterval:    mc.Estimator.MaxInterval,
			MinBPM:         mc.Estimator.MinBPM,
			MaxBPM:         mc.Estimator.MaxBPM,
			Tolerance:      mc.Estimator.Tolerance,
			RequiredStreak: mc.Estimator.RequiredStreak,
			StaleAfter:     mc.Estimator.StaleAfter,
		},
		Report: ReportConfig{
			TickInterval:      mc.TickInterval,
			DashboardInterval: mc.ReportInterval,
			LowBPM:            mc.LowBPM,
			HighBPM:           mc.HighBPM,
		},
		Calibration: CalibrationConfig{
			Samples:           mc.Calibration.Samples,
			Interval:          mc.Calibration.Interval,
			PulseOffset:       mc.Calibration.PulseOffset,
			PiezoFloorOffset:  mc.Calibration.PiezoFloorOffset,
			PiezoActiveOffset: mc.Calibration.PiezoActiveOffset,
			AudioFloorOffset:  mc.Calibration.AudioFloorOffset,
			AudioActiveOffset: mc.Calibration.AudioActiveOffset,
		},
		History: HistoryConfig{
			Window:    30 * time.Second,
			Averaging: 4,
			MaxPoints: 512,
		},
		Mock: MockConfig{
			BPM:        90,
			NoiseLevel: 30,
			Present:    true,
			SampleRate: 20 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist
// or fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Monitor converts the configuration into the fusion core's form.
func (c *Config) Monitor() monitor.Config {
	return monitor.Config{
		Thresholds: monitor.Thresholds{
			PressureContact: c.Thresholds.PressureContact,
			PulsePeak:       c.Thresholds.PulsePeak,
			PiezoFloor:      c.Thresholds.PiezoFloor,
			PiezoActive:     c.Thresholds.PiezoActive,
			AudioFloor:      c.Thresholds.AudioFloor,
			AudioActive:     c.Thresholds.AudioActive,
		},
		Estimator: monitor.EstimatorConfig{
			MinInterval:    c.Estimator.MinInterval,
			MaxInterval:    c.Estimator.MaxInterval,
			MinBPM:         c.Estimator.MinBPM,
			MaxBPM:         c.Estimator.MaxBPM,
			Tolerance:      c.Estimator.Tolerance,
			RequiredStreak: c.Estimator.RequiredStreak,
			StaleAfter:     c.Estimator.StaleAfter,
		},
		Calibration: monitor.CalibrationConfig{
			Samples:           c.Calibration.Samples,
			Interval:          c.Calibration.Interval,
			PulseOffset:       c.Calibration.PulseOffset,
			PiezoFloorOffset:  c.Calibration.PiezoFloorOffset,
			PiezoActiveOffset: c.Calibration.PiezoActiveOffset,
			AudioFloorOffset:  c.Calibration.AudioFloorOffset,
			AudioActiveOffset: c.Calibration.AudioActiveOffset,
		},
		TickInterval:   c.Report.TickInterval,
		ReportInterval: c.Report.DashboardInterval,
		LowBPM:         c.Report.LowBPM,
		HighBPM:        c.Report.HighBPM,
	}
}

// ensureDefaults ensures that all required fields have default values
// if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	if c.Thresholds.PressureContact == 0 {
		c.Thresholds.PressureContact = def.Thresholds.PressureContact
	}
	if c.Thresholds.PulsePeak == 0 {
		c.Thresholds.PulsePeak = def.Thresholds.PulsePeak
	}
	if c.Thresholds.PiezoFloor == 0 {
		c.Thresholds.PiezoFloor = def.Thresholds.PiezoFloor
	}
	if c.Thresholds.PiezoActive == 0 {
		c.Thresholds.PiezoActive = def.Thresholds.PiezoActive
	}
	if c.Thresholds.AudioFloor == 0 {
		c.Thresholds.AudioFloor = def.Thresholds.AudioFloor
	}
	if c.Thresholds.AudioActive == 0 {
		c.Thresholds.AudioActive = def.Thresholds.AudioActive
	}

	if c.Estimator.MinInterval == 0 {
		c.Estimator.MinInterval = def.Estimator.MinInterval
	}
	if c.Estimator.MaxInterval == 0 {
		c.Estimator.MaxInterval = def.Estimator.MaxInterval
	}
	if c.Estimator.MinBPM == 0 {
		c.Estimator.MinBPM = def.Estimator.MinBPM
	}
	if c.Estimator.MaxBPM == 0 {
		c.Estimator.MaxBPM = def.Estimator.MaxBPM
	}
	if c.Estimator.Tolerance == 0 {
		c.Estimator.Tolerance = def.Estimator.Tolerance
	}
	if c.Estimator.RequiredStreak == 0 {
		c.Estimator.RequiredStreak = def.Estimator.RequiredStreak
	}
	if c.Estimator.StaleAfter == 0 {
		c.Estimator.StaleAfter = def.Estimator.StaleAfter
	}

	if c.Report.TickInterval == 0 {
		c.Report.TickInterval = def.Report.TickInterval
	}
	if c.Report.DashboardInterval == 0 {
		c.Report.DashboardInterval = def.Report.DashboardInterval
	}
	if c.Report.LowBPM == 0 {
		c.Report.LowBPM = def.Report.LowBPM
	}
	if c.Report.HighBPM == 0 {
		c.Report.HighBPM = def.Report.HighBPM
	}

	if c.Calibration.Samples == 0 {
		c.Calibration.Samples = def.Calibration.Samples
	}
	if c.Calibration.Interval == 0 {
		c.Calibration.Interval = def.Calibration.Interval
	}
	if c.Calibration.PulseOffset == 0 {
		c.Calibration.PulseOffset = def.Calibration.PulseOffset
	}
	if c.Calibration.PiezoFloorOffset == 0 {
		c.Calibration.PiezoFloorOffset = def.Calibration.PiezoFloorOffset
	}
	if c.Calibration.PiezoActiveOffset == 0 {
		c.Calibration.PiezoActiveOffset = def.Calibration.PiezoActiveOffset
	}
	if c.Calibration.AudioFloorOffset == 0 {
		c.Calibration.AudioFloorOffset = def.Calibration.AudioFloorOffset
	}
	if c.Calibration.AudioActiveOffset == 0 {
		c.Calibration.AudioActiveOffset = def.Calibration.AudioActiveOffset
	}

	if c.History.Window == 0 {
		c.History.Window = def.History.Window
	}
	if c.History.Averaging == 0 {
		c.History.Averaging = def.History.Averaging
	}
	if c.History.MaxPoints == 0 {
		c.History.MaxPoints = def.History.MaxPoints
	}

	if c.Mock.BPM == 0 {
		c.Mock.BPM = def.Mock.BPM
	}
	if c.Mock.NoiseLevel == 0 {
		c.Mock.NoiseLevel = def.Mock.NoiseLevel
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
}
