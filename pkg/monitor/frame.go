package monitor

// smoothingWeight weights history 3:1 against the incoming raw sample.
// This suppresses high-frequency ADC noise while preserving the
// 0.5-3 Hz heartbeat band at the 50 Hz tick rate.
const smoothingWeight = 3

// Frame holds the latest raw and exponentially smoothed sensor
// readings. The analog channels are 12-bit ADC values (0-4095); audio
// is the mean absolute magnitude of the last microphone buffer. A Frame
// is mutated only by sample acquisition and read by every downstream
// stage.
type Frame struct {
	RawPulse    int
	RawPiezo    int
	RawPressure int
	RawAudio    int

	Pulse    int
	Piezo    int
	Pressure int
	Audio    int
}

// Update folds one raw reading per channel into the smoothed values.
func (f *Frame) Update(pulse, piezo, pressure uint16, audio int) {
	f.RawPulse = int(pulse)
	f.RawPiezo = int(piezo)
	f.RawPressure = int(pressure)
	f.RawAudio = audio

	f.Pulse = smooth(f.Pulse, f.RawPulse)
	f.Piezo = smooth(f.Piezo, f.RawPiezo)
	f.Pressure = smooth(f.Pressure, f.RawPressure)
	f.Audio = smooth(f.Audio, f.RawAudio)
}

func smooth(prev, raw int) int {
	return (prev*smoothingWeight + raw) / (smoothingWeight + 1)
}
