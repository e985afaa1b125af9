package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/petsense/pawbeat/pkg/config"
	"github.com/petsense/pawbeat/pkg/history"
	"github.com/petsense/pawbeat/pkg/scope"
	"github.com/petsense/pawbeat/pkg/telemetry"
)

func main() {
	var (
		portFlag      = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag    = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag      = flag.Bool("mock", false, "Use mocked device instead of serial port")
		averagingFlag = flag.Int("averaging", -1, "Display smoothing window in reports (0 = disabled, overrides config)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Override display smoothing if provided via command line
	if *averagingFlag >= 0 {
		cfg.History.Averaging = *averagingFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.petsense.pawbeat")

	// Create main window
	window := application.NewWindow("PawBeat")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	// Create trace recorder
	recorder := history.New(cfg)

	// Create application state
	appState := &appState{
		cfg:      cfg,
		device:   nil,
		recorder: recorder,
		window:   window,
		useMock:  *mockFlag,
	}

	// Create toolbar
	toolbar := createToolbar(appState)

	// Create scope widget for trace display
	scopeWidget := scope.New(cfg)
	appState.scopeWidget = scopeWidget

	// Status line under the scope: current state, rate, last warning
	statusLabel := widget.NewLabel("disconnected")
	appState.statusLabel = statusLabel

	// Create border layout with toolbar at top, status at bottom, scope as content
	content := container.NewBorder(
		toolbar,
		statusLabel,
		nil,
		nil,
		scopeWidget,
	)

	window.SetContent(content)
	window.ShowAndRun()
}

// deviceChain tracks the components of the telemetry chain for graceful shutdown.
type deviceChain struct {
	device            telemetry.Device
	reports           <-chan telemetry.Report
	reportStream      <-chan telemetry.Report
	alertGoroutine    chan struct{} // Closed when the alert goroutine exits
	recorderGoroutine chan struct{} // Closed when the recorder goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	device      telemetry.Device
	recorder    *history.History
	scopeWidget *scope.ScopeWidget
	statusLabel *widget.Label
	window      fyne.Window
	connectBtn  *widget.Button
	recalBtn    *widget.Button
	presentBtn  *widget.Button
	useMock     bool
	chain       *deviceChain // Current telemetry chain (nil if not connected)
	mockPresent bool         // Mock-only: whether the simulated dog is attached

	// When the status line last showed a warning (main thread only)
	lastAlertTime time.Time

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect, Settings,
// Recalibrate, and (for the mock) an attach/detach toggle.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	// Recalibrate button, enabled only while connected
	recalBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		handleRecalibrate(state)
	})
	recalBtn.Disable()
	state.recalBtn = recalBtn

	right := container.NewHBox(recalBtn)

	// The mock gets a toggle to put the simulated dog on and off the
	// harness; a real device has no such control.
	if state.useMock {
		presentBtn := widget.NewButtonWithIcon("", theme.HomeIcon(), func() {
			handlePresentToggle(state)
		})
		presentBtn.Disable()
		state.presentBtn = presentBtn
		right = container.NewHBox(presentBtn, recalBtn)
	}

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		right, // right
		nil,   // center (spacer)
	)
}

// closeDeviceChain gracefully closes the telemetry chain.
// Waits for all goroutines to finish and channels to drain.
func closeDeviceChain(chain *deviceChain) {
	if chain == nil {
		return
	}

	// Close device - this closes the reports and alerts channels
	if chain.device != nil {
		chain.device.Close()
	}

	// Wait for the alert goroutine to finish
	if chain.alertGoroutine != nil {
		<-chain.alertGoroutine
	}

	// Wait for the recorder goroutine to finish. It exits when the
	// report stream closes, which happens when the converter drains.
	if chain.recorderGoroutine != nil {
		<-chain.recorderGoroutine
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect - gracefully close telemetry chain
		closeDeviceChain(state.chain)
		state.chain = nil
		state.device = nil
		state.recalBtn.Disable()
		if state.presentBtn != nil {
			state.presentBtn.Disable()
		}
		state.statusLabel.SetText("disconnected")
		if state.useMock {
			fmt.Println("Disconnected from mocked device")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var device telemetry.Device
	if state.useMock {
		device = telemetry.NewMock(state.cfg)
		fmt.Println("Using mocked device")
	} else {
		device = telemetry.New(state.cfg.Serial.Port, telemetry.DefaultBaudRate, telemetry.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	state.mockPresent = state.cfg.Mock.Present
	if state.useMock {
		fmt.Printf("Connected to mocked device\n")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	state.recalBtn.Enable()
	if state.presentBtn != nil {
		state.presentBtn.Enable()
	}

	// Reset recorder shutdown flag for new chain
	state.recorder.ResetShutdown()

	// Register callback with the recorder to update the scope widget.
	// This must be done before starting the telemetry chain.
	// Throttle updates to ~60 FPS (16.67ms between updates) to ensure smooth UI
	const updateInterval = 16 * time.Millisecond // ~60 FPS
	state.recorder.OnUpdate(func(reports []telemetry.Report, beats []history.Beat) {
		// Throttle updates to prevent UI from being overwhelmed
		state.updateMu.Lock()
		now := time.Now()
		timeSinceLastUpdate := now.Sub(state.lastUpdateTime)
		state.updateMu.Unlock()

		// Skip update if too soon since last update
		if timeSinceLastUpdate < updateInterval {
			return
		}

		// Update timestamp
		state.updateMu.Lock()
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		// Update widgets on main thread
		// Scope widget handles downsampling internally, so pass full data
		fyne.Do(func() {
			state.scopeWidget.UpdateData(reports, beats)
			if len(reports) > 0 {
				updateStatusFromReport(state, reports[len(reports)-1])
			}
		})
	})

	reports := device.Reports()

	// Track goroutines for graceful shutdown
	alertDone := make(chan struct{})
	recorderDone := make(chan struct{})

	// Surface firmware warnings as they arrive
	go func() {
		defer close(alertDone)
		for alert := range device.Alerts() {
			handleAlert(state, alert)
		}
	}()

	// Chain converters: display smoothing is optional.
	// If averaging is 0, reports flow through unmodified.
	var reportStream <-chan telemetry.Report
	if state.cfg.History.Averaging > 0 {
		reportStream = history.NewAveragingConverter(state.cfg.History.Averaging, 500)(reports)
	} else {
		reportStream = reports
	}

	// Feed reports into the trace recorder
	go func() {
		defer close(recorderDone)
		state.recorder.ProcessReports(reportStream)
	}()

	// Store chain for graceful shutdown
	state.chain = &deviceChain{
		device:            device,
		reports:           reports,
		reportStream:      reportStream,
		alertGoroutine:    alertDone,
		recorderGoroutine: recorderDone,
	}
}
