package main

import (
	"machine"
	"time"

	"github.com/petsense/pawbeat/pkg/monitor"
)

// ledIndicator renders monitor patterns on the status LED. SetPattern
// only records the request; Update does the actual pin writes from the
// main loop, so blinking keeps going between control ticks.
type ledIndicator struct {
	pin     machine.Pin
	pattern monitor.Pattern
	since   time.Time // pattern start, phase origin for blinking
}

func (l *ledIndicator) SetPattern(p monitor.Pattern) {
	l.pattern = p
	l.since = time.Now()
}

// Update drives the pin for the current pattern.
func (l *ledIndicator) Update(now time.Time) {
	switch l.pattern.Mode {
	case monitor.PatternBlink:
		if l.pattern.Period <= 0 {
			l.pin.Low()
			return
		}
		// On for the first half of each period
		phase := now.Sub(l.since) % l.pattern.Period
		l.set(phase < l.pattern.Period/2)
	case monitor.PatternFlash:
		l.set(now.Sub(l.since) < l.pattern.Duration)
	default:
		l.pin.Low()
	}
}

func (l *ledIndicator) set(on bool) {
	if on {
		l.pin.High()
	} else {
		l.pin.Low()
	}
}
