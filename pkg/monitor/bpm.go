package monitor

import "time"

// EstimatorConfig bounds the beat-interval and rate acceptance logic.
type EstimatorConfig struct {
	MinInterval    time.Duration // shortest plausible beat interval
	MaxInterval    time.Duration // longest plausible beat interval
	MinBPM         int           // absolute acceptance bounds for the
	MaxBPM         int           // instantaneous rate (wider policy band)
	Tolerance      int           // max deviation from the last stable rate
	RequiredStreak int           // agreeing intervals before acceptance
	StaleAfter     time.Duration // zero the rate when no beat is accepted
}

// DefaultEstimatorConfig returns the reference acceptance bounds:
// 300-1800 ms intervals (33-200 instantaneous BPM), a 40-250 BPM policy
// band, +-20 BPM agreement tolerance over a streak of 3, and a 3 s
// staleness timeout.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MinInterval:    300 * time.Millisecond,
		MaxInterval:    1800 * time.Millisecond,
		MinBPM:         40,
		MaxBPM:         250,
		Tolerance:      20,
		RequiredStreak: 3,
		StaleAfter:     3 * time.Second,
	}
}

// Estimator turns timestamped beat events into a smoothed,
// outlier-rejecting beats-per-minute value. A new rate is only accepted
// after RequiredStreak consecutive intervals agree with the last stable
// rate; a reading with no accepted beat inside StaleAfter is zeroed so
// a stale value is never reported as current.
type Estimator struct {
	cfg EstimatorConfig

	current    int       // displayed rate, 0 while unconfirmed
	lastStable int       // last accepted instantaneous rate
	streak     int       // consecutive agreeing intervals
	lastBeat   time.Time // most recent raw beat signal
	lastValid  time.Time // most recent accepted beat
}

// NewEstimator creates an Estimator with the given acceptance bounds.
func NewEstimator(cfg EstimatorConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// BPM returns the displayed rate, 0 when no confirmed reading exists.
func (e *Estimator) BPM() int { return e.current }

// Update processes one control-loop tick. beat reports whether the
// detector fired this tick; now is the monotonic tick time. The
// staleness check runs regardless of beat, so the rate decays to zero
// on its own when beats stop arriving.
func (e *Estimator) Update(beat bool, now time.Time) {
	if beat {
		e.processBeat(now)
	}
	if !e.lastValid.IsZero() && now.Sub(e.lastValid) > e.cfg.StaleAfter {
		// One-shot: clearing lastValid disarms the timer so a fresh
		// rhythm can rebuild its agreement run afterwards.
		e.current = 0
		e.streak = 0
		e.lastValid = time.Time{}
	}
}

func (e *Estimator) processBeat(now time.Time) {
	last := e.lastBeat
	// Always advance, even for rejected intervals, so the next interval
	// is measured from the most recent raw beat signal.
	e.lastBeat = now

	if last.IsZero() {
		return // first-ever beat: record only
	}

	interval := now.Sub(last)
	if interval < e.cfg.MinInterval || interval > e.cfg.MaxInterval {
		return // outside the physiological band: noise, not a beat
	}

	instant := int(60000 / interval.Milliseconds())
	if instant < e.cfg.MinBPM || instant > e.cfg.MaxBPM {
		return
	}

	if e.current != 0 && abs(instant-e.lastStable) > e.cfg.Tolerance {
		// A single outlier cannot become the new rate, but it does
		// break the agreement run.
		e.streak = 0
		return
	}

	e.streak++
	if e.streak < e.cfg.RequiredStreak {
		return
	}

	e.lastStable = instant
	if e.current == 0 {
		e.current = instant
	} else {
		// Weight history 2:1 so the displayed rate moves smoothly.
		e.current = (2*e.current + instant) / 3
	}
	e.lastValid = now
}

// Invalidate zeroes the displayed rate and the agreement run. It runs
// on presence loss; interval bookkeeping survives so a brief contact
// drop does not restart the whole accumulation.
func (e *Estimator) Invalidate() {
	e.current = 0
	e.streak = 0
}

// Reset discards the entire rate state, including the stable rate and
// beat timestamps. It runs on the quiet condition.
func (e *Estimator) Reset() {
	*e = Estimator{cfg: e.cfg}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
