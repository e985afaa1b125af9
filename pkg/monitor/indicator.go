package monitor

import "time"

const (
	absentBlinkPeriod = time.Second            // 1 Hz searching blink
	weakBlinkPeriod   = 250 * time.Millisecond // 4 Hz acquiring blink
	beatFlashDuration = 50 * time.Millisecond
)

// PatternFor maps the session state and a consumed beat edge to the
// desired indicator pattern. While monitoring, the indicator flashes
// once per beat edge and is otherwise off.
func PatternFor(s State, beatEdge bool) Pattern {
	switch s {
	case Absent:
		return Blink(absentBlinkPeriod)
	case WeakSignal:
		return Blink(weakBlinkPeriod)
	default:
		if beatEdge {
			return Flash(beatFlashDuration)
		}
		return Off()
	}
}
