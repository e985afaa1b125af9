package telemetry

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the standard baud rate for the harness MCU.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the reports channel buffer.
	DefaultBufferSize = 100
	// alertBufferSize bounds the alerts channel; warnings are rare and
	// edge-triggered, so a small buffer suffices.
	alertBufferSize = 16
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the harness MCU.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	reports   chan Report
	alerts    chan Alert
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial device with the specified port, baud rate,
// and report buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		reports:   make(chan Report, bufSize),
		alerts:    make(chan Alert, alertBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		// Try to get port description if available
		port, err := serial.Open(name, &serial.Mode{
			BaudRate: DefaultBaudRate,
		})
		if err == nil {
			// Port opened successfully, get description
			desc := name // Use name as description if we can't get more info
			port.Close()
			result = append(result, Port{
				Name:        name,
				Description: desc,
			})
		} else {
			// Still add the port even if we can't open it
			result = append(result, Port{
				Name:        name,
				Description: name,
			})
		}
	}

	return result, nil
}

// Connect connects to the serial port and starts reading telemetry.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	// Start reading telemetry in a goroutine
	go d.readLines()

	return nil
}

// Close closes the connection and stops reading telemetry.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	// Close serial port
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	// Close output channels
	close(d.reports)
	close(d.alerts)

	return nil
}

// Reports returns the channel for reading telemetry reports.
func (d *Serial) Reports() <-chan Report {
	return d.reports
}

// Alerts returns the channel for reading firmware warnings.
func (d *Serial) Alerts() <-chan Alert {
	return d.alerts
}

// Recalibrate asks the MCU to re-run its baseline pass. The harness
// should be off the dog when this is sent, otherwise the signal itself
// becomes the baseline.
func (d *Serial) Recalibrate() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	_, err := d.conn.Write([]byte("CAL\n"))
	if err != nil {
		return fmt.Errorf("failed to send calibrate command: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readLines reads lines from the serial port and dispatches them.
// Telemetry lines become Reports, warning lines become Alerts, and
// dashboard lines (for humans watching the raw stream) are skipped.
func (d *Serial) readLines() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readLines: %v", r)
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				// Scanner stopped (EOF or error)
				if err := scanner.Err(); err != nil {
					if err != io.EOF {
						log.Printf("Error reading from serial port: %v", err)
					}
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			d.dispatch(line, time.Now())
		}
	}
}

// dispatch routes one line from the MCU to the right channel.
func (d *Serial) dispatch(line string, received time.Time) {
	switch {
	case strings.HasPrefix(line, "#"):
		// Human-readable dashboard line, not parsed.
		return

	case strings.HasPrefix(line, "WARN "):
		alert := Alert{
			Received: received,
			Message:  strings.TrimPrefix(line, "WARN "),
		}
		select {
		case d.alerts <- alert:
		case <-d.ctx.Done():
		default:
			log.Printf("Alerts channel full, dropping alert")
		}

	case strings.HasPrefix(line, "T,"):
		report, err := ParseReport(line, received)
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			return
		}
		select {
		case d.reports <- report:
		case <-d.ctx.Done():
		default:
			// Channel full, log and skip
			log.Printf("Reports channel full, dropping report")
		}

	default:
		log.Printf("Unrecognized line from device: '%s'", line)
	}
}
