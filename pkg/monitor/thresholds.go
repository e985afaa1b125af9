package monitor

// Thresholds are the trigger levels for presence, quiescence and beat
// detection, in raw channel units. The pulse and activity levels are
// normally derived from the startup calibration pass; the contact
// threshold is absolute (an unloaded pressure pad reads near zero).
type Thresholds struct {
	PressureContact int // attachment threshold on the pressure pad
	PulsePeak       int // smoothed pulse level that counts as a beat peak
	PiezoFloor      int // modest motion floor for presence / quiescence
	PiezoActive     int // piezo level that corroborates a beat
	AudioFloor      int // modest sound floor for presence / quiescence
	AudioActive     int // audio level that corroborates a beat
}

// Present reports whether a living subject is plausibly attached:
// mechanical contact plus at least one corroborating motion or sound
// signal. Requiring both rejects false contact from the harness resting
// against an inanimate surface.
func (t Thresholds) Present(f Frame) bool {
	return f.Pressure > t.PressureContact &&
		(f.Piezo > t.PiezoFloor || f.Audio > t.AudioFloor)
}

// Quiet reports the stricter "nothing is happening" condition: no
// contact, no motion, no sound. It gates the hard reset of the BPM
// state and is deliberately independent of Present, which can be false
// on transitional readings without the system being fully quiet.
func (t Thresholds) Quiet(f Frame) bool {
	return f.Pressure < t.PressureContact &&
		f.Piezo < t.PiezoFloor &&
		f.Audio < t.AudioFloor
}
