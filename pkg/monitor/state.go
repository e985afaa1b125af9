package monitor

// State classifies the monitoring session.
type State uint8

const (
	// Absent means no subject is attached to the sensor array.
	Absent State = iota
	// WeakSignal means a subject is present but no confirmed rate
	// exists yet.
	WeakSignal
	// Monitoring means a subject is present with a confirmed rate.
	Monitoring
)

// NextState computes the session state from the two classifier inputs.
// The machine is stateless: it is recomputed from scratch every tick,
// and presence always overrides a stale rate.
func NextState(present, bpmValid bool) State {
	switch {
	case !present:
		return Absent
	case !bpmValid:
		return WeakSignal
	default:
		return Monitoring
	}
}

// String returns the state name used on the dashboard.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case WeakSignal:
		return "weak-signal"
	case Monitoring:
		return "monitoring"
	default:
		return "unknown"
	}
}

// Code returns the single-character state code used on telemetry lines.
func (s State) Code() byte {
	switch s {
	case Absent:
		return 'A'
	case WeakSignal:
		return 'W'
	case Monitoring:
		return 'M'
	default:
		return '?'
	}
}

// StateFromCode is the inverse of Code. The second return value is
// false for an unknown code.
func StateFromCode(c byte) (State, bool) {
	switch c {
	case 'A':
		return Absent, true
	case 'W':
		return WeakSignal, true
	case 'M':
		return Monitoring, true
	default:
		return Absent, false
	}
}
