package monitor

// Channel identifies one of the analog sensor channels.
type Channel uint8

const (
	// ChannelPulse is the optical pulse sensor on the harness collar.
	ChannelPulse Channel = iota
	// ChannelPiezo is the piezo disc picking up chest motion.
	ChannelPiezo
	// ChannelPressure is the contact pressure pad.
	ChannelPressure
)

// AnalogSource provides raw readings for the analog sensor channels.
// Implementations must not block and have no error return: a stuck or
// disconnected line simply reads a constant value, which the presence
// classifier naturally treats as absence.
type AnalogSource interface {
	ReadChannel(ch Channel) uint16
}

// AudioSource provides the aggregated magnitude of the most recent
// microphone buffer (mean absolute sample value). Implementations must
// not block and return 0 when no new buffer has been delivered since
// the last call; that is a normal condition, not an error.
type AudioSource interface {
	ReadEnergy() int
}

// Indicator accepts a desired indicator pattern (the status LED).
type Indicator interface {
	SetPattern(p Pattern)
}
