package monitor

import "time"

// PatternMode identifies the kind of indicator behavior.
type PatternMode uint8

const (
	// PatternOff keeps the indicator dark.
	PatternOff PatternMode = iota
	// PatternBlink toggles the indicator at a fixed period.
	PatternBlink
	// PatternFlash lights the indicator once for a short duration.
	PatternFlash
)

// Pattern describes the desired indicator behavior. It carries no
// identity beyond "current desired pattern"; drivers interpret it
// against their own clock.
type Pattern struct {
	Mode     PatternMode
	Period   time.Duration // full on/off cycle for PatternBlink
	Duration time.Duration // on time for PatternFlash
}

// Off returns the dark pattern.
func Off() Pattern { return Pattern{Mode: PatternOff} }

// Blink returns a steady blink with the given full cycle period.
func Blink(period time.Duration) Pattern {
	return Pattern{Mode: PatternBlink, Period: period}
}

// Flash returns a single short flash of the given duration.
func Flash(d time.Duration) Pattern {
	return Pattern{Mode: PatternFlash, Duration: d}
}
