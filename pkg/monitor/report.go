package monitor

import (
	"fmt"
	"strconv"
	"time"
)

type alertLevel uint8

const (
	alertNone alertLevel = iota
	alertLow
	alertHigh
)

// updateAlert writes immediate warning lines when the health-alert
// condition changes. Warnings are advisory text only, evaluated only
// while monitoring, and edge-triggered so the loop does not repeat them
// every tick.
func (m *Monitor) updateAlert() {
	level := alertNone
	if m.state == Monitoring {
		switch bpm := m.estimator.BPM(); {
		case bpm < m.cfg.LowBPM:
			level = alertLow
		case bpm > m.cfg.HighBPM:
			level = alertHigh
		}
	}

	if level == m.lastAlert {
		return
	}
	m.lastAlert = level
	if m.report == nil {
		return
	}

	switch level {
	case alertLow:
		fmt.Fprintf(m.report, "WARN low heart rate: %d BPM\n", m.estimator.BPM())
	case alertHigh:
		fmt.Fprintf(m.report, "WARN high heart rate: %d BPM\n", m.estimator.BPM())
	}
}

// writeDashboard emits the periodic human-readable report line:
// raw/smoothed channel values, current rate or a no-reading marker, and
// the state name. The first tick reports immediately.
func (m *Monitor) writeDashboard(now time.Time) {
	if m.report == nil {
		return
	}
	if !m.lastReport.IsZero() && now.Sub(m.lastReport) < m.cfg.ReportInterval {
		return
	}
	m.lastReport = now

	bpm := "--"
	if v := m.estimator.BPM(); v > 0 {
		bpm = strconv.Itoa(v)
	}
	fmt.Fprintf(m.report,
		"# pulse %d/%d piezo %d/%d pressure %d/%d audio %d/%d bpm %s state %s\n",
		m.frame.RawPulse, m.frame.Pulse,
		m.frame.RawPiezo, m.frame.Piezo,
		m.frame.RawPressure, m.frame.Pressure,
		m.frame.RawAudio, m.frame.Audio,
		bpm, m.state)
}

// writeTelemetry emits one machine-readable CSV line per tick for the
// host-side tooling:
// T,<millis>,<pulse>,<piezo>,<pressure>,<audio>,<bpm>,<state>,<beat>
func (m *Monitor) writeTelemetry(now time.Time) {
	if m.telemetry == nil {
		return
	}
	beat := '0'
	if m.beat {
		beat = '1'
	}
	fmt.Fprintf(m.telemetry, "T,%d,%d,%d,%d,%d,%d,%c,%c\n",
		now.Sub(m.epoch).Milliseconds(),
		m.frame.Pulse, m.frame.Piezo, m.frame.Pressure, m.frame.Audio,
		m.estimator.BPM(), m.state.Code(), beat)
}
