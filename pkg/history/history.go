package history

import (
	"sync"
	"time"

	"github.com/petsense/pawbeat/pkg/config"
	"github.com/petsense/pawbeat/pkg/telemetry"
)

var _ Recorder = (*History)(nil)

// Beat marks a detected heart beat inside the trace window.
type Beat struct {
	Time time.Time // tick timestamp of the beat report
	BPM  int       // displayed rate at that moment, 0 while unconfirmed
}

// Recorder consumes telemetry reports, maintains the trace buffers, and
// tracks beat markers.
type Recorder interface {
	ProcessReports(input <-chan telemetry.Report)
	Reports() []telemetry.Report // Current trace buffer (FIFO, ordered first to last)
	Beats() []Beat               // Beat markers within the window
	Latest() (telemetry.Report, bool)
	OnUpdate(func(reports []telemetry.Report, beats []Beat)) // Register callback for updates
}

// History implements the Recorder interface.
// Both buffers are FIFO and maintain order: the oldest entry is at
// index 0, the newest at the end. Removal is based on timestamp (time
// window), not on entry count, so the trace always spans the same wall
// time regardless of the device's tick rate.
type History struct {
	reports []telemetry.Report
	beats   []Beat

	// Thread safety
	mu sync.RWMutex

	// Update callbacks
	callbacks []func(reports []telemetry.Report, beats []Beat)
	cbMu      sync.RWMutex

	// Configuration
	windowDuration time.Duration

	// Shutdown control
	shutdown bool // Set to true when input channel closes, prevents further callbacks
}

// New creates a new History instance with the configured window.
func New(cfg *config.Config) *History {
	window := cfg.History.Window
	if window <= 0 {
		window = 30 * time.Second
	}

	return &History{
		reports:        make([]telemetry.Report, 0),
		beats:          make([]Beat, 0),
		callbacks:      make([]func(reports []telemetry.Report, beats []Beat), 0),
		windowDuration: window,
	}
}

// ProcessReports processes reports from the input channel. It blocks
// until the channel closes, so it is meant to run in a goroutine. When
// the input channel closes it sets the shutdown flag to prevent further
// callbacks.
func (h *History) ProcessReports(input <-chan telemetry.Report) {
	for r := range input {
		h.processReport(r)
	}
	// Channel closed - mark as shutdown to prevent further callbacks
	h.mu.Lock()
	h.shutdown = true
	h.mu.Unlock()
}

// processReport appends one report, trims both buffers to the window,
// and notifies observers.
func (h *History) processReport(r telemetry.Report) {
	h.mu.Lock()

	h.reports = append(h.reports, r)
	if r.Beat {
		h.beats = append(h.beats, Beat{Time: r.Received, BPM: r.BPM})
	}

	// Remove entries outside the time window, based on the timestamp of
	// the newest report rather than the wall clock, so a replayed or
	// paused stream trims consistently.
	cutoff := r.Received.Add(-h.windowDuration)

	trim := 0
	for trim < len(h.reports) && !h.reports[trim].Received.After(cutoff) {
		trim++
	}
	if trim > 0 {
		h.reports = h.reports[trim:]
	}

	trim = 0
	for trim < len(h.beats) && !h.beats[trim].Time.After(cutoff) {
		trim++
	}
	if trim > 0 {
		h.beats = h.beats[trim:]
	}

	shouldNotify := !h.shutdown
	h.mu.Unlock()

	if shouldNotify {
		h.notifyCallbacks()
	}
}

// Reports returns a copy of the current trace buffer.
func (h *History) Reports() []telemetry.Report {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]telemetry.Report, len(h.reports))
	copy(result, h.reports)
	return result
}

// Beats returns a copy of the beat markers within the window.
func (h *History) Beats() []Beat {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Beat, len(h.beats))
	copy(result, h.beats)
	return result
}

// Latest returns the newest report, if any report has been seen.
func (h *History) Latest() (telemetry.Report, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.reports) == 0 {
		return telemetry.Report{}, false
	}
	return h.reports[len(h.reports)-1], true
}

// OnUpdate registers a callback function that will be called when the
// trace buffers change. The callback receives copies it may retain; it
// should still return as fast as possible.
func (h *History) OnUpdate(callback func(reports []telemetry.Report, beats []Beat)) {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.callbacks = append(h.callbacks, callback)
}

// ResetShutdown resets the shutdown flag, allowing callbacks to be sent
// again. This should be called before starting a new device chain.
func (h *History) ResetShutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with current data.
// Makes copies of data while holding the read lock, then calls the
// callbacks without holding any lock.
func (h *History) notifyCallbacks() {
	h.mu.RLock()
	reportsCopy := make([]telemetry.Report, len(h.reports))
	copy(reportsCopy, h.reports)
	beatsCopy := make([]Beat, len(h.beats))
	copy(beatsCopy, h.beats)
	h.mu.RUnlock()

	h.cbMu.RLock()
	callbacks := make([]func(reports []telemetry.Report, beats []Beat), len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(reportsCopy, beatsCopy)
		}
	}
}
