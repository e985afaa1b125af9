package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/petsense/pawbeat/pkg/history"
	"github.com/petsense/pawbeat/pkg/telemetry"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
// Thresholds, estimator and report tabs edit the host's copy of the
// tuning; the real firmware compiles its own in, so these mostly drive
// the mock device and document the deployed values.
func showSettingsDialog(state *appState) {
	// Create tabs
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createThresholdsTab(state),
		createEstimatorTab(state),
		createReportTab(state),
		createHistoryTab(state),
		createMockTab(state),
	)

	// Create dialog with tabs as content
	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := telemetry.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - applied on submit
	})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected // Fallback to selected text
			}

			// Check if port changed and device is connected
			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.device != nil && state.device.IsConnected()

			state.cfg.Serial.Port = selectedPort
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
				return
			}

			// If port changed and device was connected, restart the chain
			if portChanged && wasConnected {
				// Gracefully close old chain
				closeDeviceChain(state.chain)
				state.chain = nil
				state.device = nil

				// Reconnect with new port
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createThresholdsTab creates the detection thresholds tab.
func createThresholdsTab(state *appState) *container.TabItem {
	pressureEntry := widget.NewEntry()
	pressureEntry.SetText(strconv.Itoa(state.cfg.Thresholds.PressureContact))

	pulsePeakEntry := widget.NewEntry()
	pulsePeakEntry.SetText(strconv.Itoa(state.cfg.Thresholds.PulsePeak))

	piezoFloorEntry := widget.NewEntry()
	piezoFloorEntry.SetText(strconv.Itoa(state.cfg.Thresholds.PiezoFloor))

	piezoActiveEntry := widget.NewEntry()
	piezoActiveEntry.SetText(strconv.Itoa(state.cfg.Thresholds.PiezoActive))

	audioFloorEntry := widget.NewEntry()
	audioFloorEntry.SetText(strconv.Itoa(state.cfg.Thresholds.AudioFloor))

	audioActiveEntry := widget.NewEntry()
	audioActiveEntry.SetText(strconv.Itoa(state.cfg.Thresholds.AudioActive))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Pressure Contact (counts)", Widget: pressureEntry},
			{Text: "Pulse Peak (counts)", Widget: pulsePeakEntry},
			{Text: "Piezo Floor (counts)", Widget: piezoFloorEntry},
			{Text: "Piezo Active (counts)", Widget: piezoActiveEntry},
			{Text: "Audio Floor (energy)", Widget: audioFloorEntry},
			{Text: "Audio Active (energy)", Widget: audioActiveEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.Atoi(pressureEntry.Text); err == nil {
				state.cfg.Thresholds.PressureContact = v
			}
			if v, err := strconv.Atoi(pulsePeakEntry.Text); err == nil {
				state.cfg.Thresholds.PulsePeak = v
			}
			if v, err := strconv.Atoi(piezoFloorEntry.Text); err == nil {
				state.cfg.Thresholds.PiezoFloor = v
			}
			if v, err := strconv.Atoi(piezoActiveEntry.Text); err == nil {
				state.cfg.Thresholds.PiezoActive = v
			}
			if v, err := strconv.Atoi(audioFloorEntry.Text); err == nil {
				state.cfg.Thresholds.AudioFloor = v
			}
			if v, err := strconv.Atoi(audioActiveEntry.Text); err == nil {
				state.cfg.Thresholds.AudioActive = v
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Thresholds", form)
}

// createEstimatorTab creates the rate estimator tab.
func createEstimatorTab(state *appState) *container.TabItem {
	minIntervalEntry := widget.NewEntry()
	minIntervalEntry.SetText(state.cfg.Estimator.MinInterval.String())

	maxIntervalEntry := widget.NewEntry()
	maxIntervalEntry.SetText(state.cfg.Estimator.MaxInterval.String())

	minBPMEntry := widget.NewEntry()
	minBPMEntry.SetText(strconv.Itoa(state.cfg.Estimator.MinBPM))

	maxBPMEntry := widget.NewEntry()
	maxBPMEntry.SetText(strconv.Itoa(state.cfg.Estimator.MaxBPM))

	toleranceEntry := widget.NewEntry()
	toleranceEntry.SetText(strconv.Itoa(state.cfg.Estimator.Tolerance))

	streakEntry := widget.NewEntry()
	streakEntry.SetText(strconv.Itoa(state.cfg.Estimator.RequiredStreak))

	staleEntry := widget.NewEntry()
	staleEntry.SetText(state.cfg.Estimator.StaleAfter.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Min Beat Interval", Widget: minIntervalEntry},
			{Text: "Max Beat Interval", Widget: maxIntervalEntry},
			{Text: "Min BPM", Widget: minBPMEntry},
			{Text: "Max BPM", Widget: maxBPMEntry},
			{Text: "Tolerance (BPM)", Widget: toleranceEntry},
			{Text: "Required Streak", Widget: streakEntry},
			{Text: "Stale After", Widget: staleEntry},
		},
		OnSubmit: func() {
			if d, err := time.ParseDuration(minIntervalEntry.Text); err == nil {
				state.cfg.Estimator.MinInterval = d
			}
			if d, err := time.ParseDuration(maxIntervalEntry.Text); err == nil {
				state.cfg.Estimator.MaxInterval = d
			}
			if v, err := strconv.Atoi(minBPMEntry.Text); err == nil {
				state.cfg.Estimator.MinBPM = v
			}
			if v, err := strconv.Atoi(maxBPMEntry.Text); err == nil {
				state.cfg.Estimator.MaxBPM = v
			}
			if v, err := strconv.Atoi(toleranceEntry.Text); err == nil {
				state.cfg.Estimator.Tolerance = v
			}
			if v, err := strconv.Atoi(streakEntry.Text); err == nil {
				state.cfg.Estimator.RequiredStreak = v
			}
			if d, err := time.ParseDuration(staleEntry.Text); err == nil {
				state.cfg.Estimator.StaleAfter = d
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Estimator", form)
}

// createReportTab creates the reporting cadence and advisory bounds tab.
func createReportTab(state *appState) *container.TabItem {
	tickEntry := widget.NewEntry()
	tickEntry.SetText(state.cfg.Report.TickInterval.String())

	dashboardEntry := widget.NewEntry()
	dashboardEntry.SetText(state.cfg.Report.DashboardInterval.String())

	lowBPMEntry := widget.NewEntry()
	lowBPMEntry.SetText(strconv.Itoa(state.cfg.Report.LowBPM))

	highBPMEntry := widget.NewEntry()
	highBPMEntry.SetText(strconv.Itoa(state.cfg.Report.HighBPM))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Tick Interval", Widget: tickEntry},
			{Text: "Dashboard Interval", Widget: dashboardEntry},
			{Text: "Low BPM Warning", Widget: lowBPMEntry},
			{Text: "High BPM Warning", Widget: highBPMEntry},
		},
		OnSubmit: func() {
			if d, err := time.ParseDuration(tickEntry.Text); err == nil {
				state.cfg.Report.TickInterval = d
			}
			if d, err := time.ParseDuration(dashboardEntry.Text); err == nil {
				state.cfg.Report.DashboardInterval = d
			}
			if v, err := strconv.Atoi(lowBPMEntry.Text); err == nil {
				state.cfg.Report.LowBPM = v
			}
			if v, err := strconv.Atoi(highBPMEntry.Text); err == nil {
				state.cfg.Report.HighBPM = v
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Report", form)
}

// createHistoryTab creates the trace buffer tab.
func createHistoryTab(state *appState) *container.TabItem {
	windowEntry := widget.NewEntry()
	windowEntry.SetText(state.cfg.History.Window.String())

	averagingEntry := widget.NewEntry()
	averagingEntry.SetText(strconv.Itoa(state.cfg.History.Averaging))

	maxPointsEntry := widget.NewEntry()
	maxPointsEntry.SetText(strconv.Itoa(state.cfg.History.MaxPoints))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Trace Window", Widget: windowEntry},
			{Text: "Averaging (0=disabled)", Widget: averagingEntry},
			{Text: "Max Display Points", Widget: maxPointsEntry},
		},
		OnSubmit: func() {
			if d, err := time.ParseDuration(windowEntry.Text); err == nil {
				state.cfg.History.Window = d
			}
			if v, err := strconv.Atoi(averagingEntry.Text); err == nil {
				state.cfg.History.Averaging = v
			}
			if v, err := strconv.Atoi(maxPointsEntry.Text); err == nil {
				state.cfg.History.MaxPoints = v
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
			// Recreate recorder with new config
			state.recorder = history.New(state.cfg)
		},
	}

	return container.NewTabItem("History", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	bpmEntry := widget.NewEntry()
	bpmEntry.SetText(strconv.Itoa(state.cfg.Mock.BPM))

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(strconv.Itoa(state.cfg.Mock.NoiseLevel))

	presentCheck := widget.NewCheck("", nil)
	presentCheck.SetChecked(state.cfg.Mock.Present)

	sampleRateEntry := widget.NewEntry()
	sampleRateEntry.SetText(state.cfg.Mock.SampleRate.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Heart Rate (BPM)", Widget: bpmEntry},
			{Text: "Noise Level (counts)", Widget: noiseEntry},
			{Text: "Dog Attached at Start", Widget: presentCheck},
			{Text: "Sample Rate", Widget: sampleRateEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.Atoi(bpmEntry.Text); err == nil {
				state.cfg.Mock.BPM = v
			}
			if v, err := strconv.Atoi(noiseEntry.Text); err == nil {
				state.cfg.Mock.NoiseLevel = v
			}
			state.cfg.Mock.Present = presentCheck.Checked
			if d, err := time.ParseDuration(sampleRateEntry.Text); err == nil {
				state.cfg.Mock.SampleRate = d
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
