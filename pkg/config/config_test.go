package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 400, cfg.Thresholds.PressureContact)
	assert.Equal(t, 3000, cfg.Thresholds.PulsePeak)
	assert.Equal(t, 300*time.Millisecond, cfg.Estimator.MinInterval)
	assert.Equal(t, 1800*time.Millisecond, cfg.Estimator.MaxInterval)
	assert.Equal(t, 40, cfg.Estimator.MinBPM)
	assert.Equal(t, 250, cfg.Estimator.MaxBPM)
	assert.Equal(t, 3, cfg.Estimator.RequiredStreak)
	assert.Equal(t, 3*time.Second, cfg.Estimator.StaleAfter)
	assert.Equal(t, 2*time.Second, cfg.Report.DashboardInterval)
	assert.Equal(t, 32, cfg.Calibration.Samples)
	assert.Equal(t, 90, cfg.Mock.BPM)
	assert.Equal(t, 30*time.Second, cfg.History.Window)
	assert.Equal(t, 512, cfg.History.MaxPoints)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"

thresholds:
  pressure_contact: 500
  pulse_peak: 2800

estimator:
  tolerance: 15
  required_streak: 4

report:
  low_bpm: 55
  high_bpm: 170

mock:
  bpm: 120
  present: true
`
	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 500, cfg.Thresholds.PressureContact)
	assert.Equal(t, 2800, cfg.Thresholds.PulsePeak)
	assert.Equal(t, 15, cfg.Estimator.Tolerance)
	assert.Equal(t, 4, cfg.Estimator.RequiredStreak)
	assert.Equal(t, 55, cfg.Report.LowBPM)
	assert.Equal(t, 170, cfg.Report.HighBPM)
	assert.Equal(t, 120, cfg.Mock.BPM)

	// Missing fields fall back to defaults.
	assert.Equal(t, 300, cfg.Thresholds.PiezoFloor)
	assert.Equal(t, 300*time.Millisecond, cfg.Estimator.MinInterval)
	assert.Equal(t, 2*time.Second, cfg.Report.DashboardInterval)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("thresholds: [not, a, mapping")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = Load(tmpfile.Name())
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	tmpfile.Close()
	defer os.Remove(tmpfile.Name())

	cfg := Default()
	cfg.Serial.Port = "COM7"
	cfg.Thresholds.PulsePeak = 3100
	cfg.Mock.BPM = 75
	require.NoError(t, cfg.Save(tmpfile.Name()))

	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "COM7", loaded.Serial.Port)
	assert.Equal(t, 3100, loaded.Thresholds.PulsePeak)
	assert.Equal(t, 75, loaded.Mock.BPM)
}

func TestMonitorConversion(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.PulsePeak = 2750
	cfg.Estimator.Tolerance = 25
	cfg.Report.DashboardInterval = 5 * time.Second

	mc := cfg.Monitor()
	assert.Equal(t, 2750, mc.Thresholds.PulsePeak)
	assert.Equal(t, 25, mc.Estimator.Tolerance)
	assert.Equal(t, 5*time.Second, mc.ReportInterval)
	assert.Equal(t, cfg.Report.LowBPM, mc.LowBPM)
	assert.Equal(t, cfg.Calibration.Samples, mc.Calibration.Samples)
}
