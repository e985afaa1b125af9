package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/petsense/pawbeat/pkg/monitor"
	"github.com/petsense/pawbeat/pkg/telemetry"
)

// alertHold keeps a warning visible on the status line after the
// reports have moved on.
const alertHold = 10 * time.Second

// handleRecalibrate asks the device to re-run its baseline pass.
func handleRecalibrate(state *appState) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	if err := state.device.Recalibrate(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to recalibrate: %w", err), state.window)
		return
	}
	state.statusLabel.SetText("recalibrating, keep the harness off the dog")
}

// handlePresentToggle attaches or detaches the simulated dog. Only the
// mock device supports this.
func handlePresentToggle(state *appState) {
	mock, ok := state.device.(*telemetry.Mock)
	if !ok || !mock.IsConnected() {
		return
	}

	state.mockPresent = !state.mockPresent
	mock.SetPresent(state.mockPresent)
	if state.mockPresent {
		fmt.Println("Mock: dog attached")
	} else {
		fmt.Println("Mock: dog detached")
	}
}

// handleAlert surfaces a firmware warning. Called from the alert
// goroutine, so the UI update goes through fyne.Do().
func handleAlert(state *appState, alert telemetry.Alert) {
	log.Printf("Device warning: %s", alert.Message)

	fyne.Do(func() {
		state.lastAlertTime = alert.Received
		state.statusLabel.SetText("WARNING: " + alert.Message)
	})
}

// updateStatusFromReport refreshes the status line from the newest
// report. Must be called on the main thread. Recent warnings take
// precedence over the periodic status text.
func updateStatusFromReport(state *appState, report telemetry.Report) {
	if !state.lastAlertTime.IsZero() && report.Received.Sub(state.lastAlertTime) < alertHold {
		return
	}

	var text string
	switch report.State {
	case monitor.Monitoring:
		if report.BPM > 0 {
			text = fmt.Sprintf("monitoring: %d BPM", report.BPM)
		} else {
			text = "monitoring"
		}
	case monitor.WeakSignal:
		text = "harness on, waiting for a steady rhythm"
	default:
		text = "no dog detected"
	}
	state.statusLabel.SetText(text)
}
