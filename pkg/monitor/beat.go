package monitor

// BeatDetector flags discrete beat events from the pulse channel, gated
// by a corroborating activity or audio signal. Corroboration from an
// independent channel suppresses false beats caused by electrical or
// motion artifacts on the pulse line alone.
type BeatDetector struct {
	pending bool // raised on detection, cleared by ConsumeEdge
}

// Detect reports whether the current frame satisfies the beat condition.
// No detection is attempted when the subject is not present. The check
// is level-based: it fires every tick the condition holds, so
// interval-based deduplication is left to the estimator.
func (d *BeatDetector) Detect(t Thresholds, f Frame, present bool) bool {
	if !present {
		return false
	}
	if f.Pulse <= t.PulsePeak {
		return false
	}
	if f.Piezo <= t.PiezoActive && f.Audio <= t.AudioActive {
		return false
	}
	d.pending = true
	return true
}

// ConsumeEdge returns the pending beat flag and clears it, so the
// indicator reacts once per detection edge rather than per tick.
func (d *BeatDetector) ConsumeEdge() bool {
	e := d.pending
	d.pending = false
	return e
}
