package monitor

import "time"

// Calibrate samples the ambient baseline of the pulse, piezo and audio
// channels and derives the detection thresholds as fixed offsets above
// it. It blocks for Samples*Interval and is meant to run before the
// control loop starts, while no subject is attached; this is the only
// phase where the system deliberately blocks. The contact threshold is
// absolute and left untouched, and the measured baseline is never
// validated for plausibility.
func (m *Monitor) Calibrate() {
	c := m.cfg.Calibration
	if c.Samples <= 0 {
		return
	}

	var pulseSum, piezoSum, audioSum int
	for i := 0; i < c.Samples; i++ {
		pulseSum += int(m.analog.ReadChannel(ChannelPulse))
		piezoSum += int(m.analog.ReadChannel(ChannelPiezo))
		audioSum += m.audio.ReadEnergy()
		time.Sleep(c.Interval)
	}

	pulseBase := pulseSum / c.Samples
	piezoBase := piezoSum / c.Samples
	audioBase := audioSum / c.Samples

	m.cfg.Thresholds.PulsePeak = pulseBase + c.PulseOffset
	m.cfg.Thresholds.PiezoFloor = piezoBase + c.PiezoFloorOffset
	m.cfg.Thresholds.PiezoActive = piezoBase + c.PiezoActiveOffset
	m.cfg.Thresholds.AudioFloor = audioBase + c.AudioFloorOffset
	m.cfg.Thresholds.AudioActive = audioBase + c.AudioActiveOffset
}
