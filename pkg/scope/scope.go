package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/petsense/pawbeat/pkg/config"
	"github.com/petsense/pawbeat/pkg/history"
	"github.com/petsense/pawbeat/pkg/monitor"
	"github.com/petsense/pawbeat/pkg/telemetry"
)

// ScopeWidget is a custom Fyne widget that displays the harness traces
// oscilloscope-style: the pulse and piezo channels over the trace
// window, beat markers, and the current rate readout.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu      sync.RWMutex
	reports []telemetry.Report
	beats   []history.Beat
	state   monitor.State
	bpm     int

	// Display buffer (reused for downsampling)
	displayReports []telemetry.Report

	// Auto-scaling of the analog axis
	yMin, yMax float32
	xMin, xMax time.Time

	// Display settings
	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	maxPoints := cfg.History.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 512
	}

	s := &ScopeWidget{
		cfg:              cfg,
		reports:          make([]telemetry.Report, 0),
		beats:            make([]history.Beat, 0),
		displayReports:   make([]telemetry.Report, 0, maxPoints),
		maxDisplayPoints: maxPoints,
	}
	s.ExtendBaseWidget(s)
	// Trigger initial refresh to display empty scope
	s.Refresh()
	return s
}

// UpdateData updates the widget with new trace data.
// This should be called from the recorder callback using fyne.Do().
func (s *ScopeWidget) UpdateData(reports []telemetry.Report, beats []history.Beat) {
	s.mu.Lock()

	// Downsample for display (reuse buffer)
	s.displayReports = history.DownsampleReports(s.displayReports, reports, s.maxDisplayPoints)

	// Store full data
	s.reports = reports
	s.beats = beats
	if len(reports) > 0 {
		latest := reports[len(reports)-1]
		s.state = latest.State
		s.bpm = latest.BPM
	}

	// Calculate auto-scaling
	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// updateAutoScale calculates the axis ranges from current data.
func (s *ScopeWidget) updateAutoScale() {
	if len(s.displayReports) == 0 {
		s.yMin = 0
		s.yMax = 4095
		s.xMin = time.Now()
		s.xMax = time.Now().Add(s.cfg.History.Window)
		return
	}

	// Find min/max over both analog traces
	first := s.displayReports[0]
	s.yMin = float32(first.Pulse)
	s.yMax = float32(first.Pulse)
	for _, r := range s.displayReports {
		for _, v := range [2]float32{float32(r.Pulse), float32(r.Piezo)} {
			if v < s.yMin {
				s.yMin = v
			}
			if v > s.yMax {
				s.yMax = v
			}
		}
	}

	// Add 10% margin
	span := s.yMax - s.yMin
	if span == 0 {
		span = 1
	}
	margin := span * 0.1
	s.yMin -= margin
	s.yMax += margin

	// Time range
	s.xMin = s.displayReports[0].Received
	s.xMax = s.displayReports[len(s.displayReports)-1].Received
	// Ensure minimum window
	if s.xMax.Sub(s.xMin) < s.cfg.History.Window {
		s.xMax = s.xMin.Add(s.cfg.History.Window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:    s,
		grid:     grid,
		objects:  []fyne.CanvasObject{grid},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}
