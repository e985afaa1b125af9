//go:generate tinygo flash -target=nano-33-ble

package main

import (
	"machine"
	"time"

	"github.com/petsense/pawbeat/pkg/monitor"
)

var (
	adcPulse    machine.ADC
	adcPiezo    machine.ADC
	adcPressure machine.ADC
	pdm         = machine.PDM{}

	// Serial buffer for reading command lines
	serialBuffer [16]byte
	serialPos    int
)

func main() {
	machine.InitADC()

	// Configure ADC pins and set up ADCs with 12-bit resolution
	PIN_PULSE.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_PIEZO.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_PRESSURE.Configure(machine.PinConfig{Mode: machine.PinInput})

	adcPulse = machine.ADC{Pin: PIN_PULSE}
	adcPiezo = machine.ADC{Pin: PIN_PIEZO}
	adcPressure = machine.ADC{Pin: PIN_PRESSURE}

	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}

	adcPulse.Configure(adcConfig)
	adcPiezo.Configure(adcConfig)
	adcPressure.Configure(adcConfig)

	// Configure the onboard PDM microphone
	if err := pdm.Configure(machine.PDMConfig{
		CLK: machine.PDM_CLK_PIN,
		DIN: machine.PDM_DIN_PIN,
	}); err != nil {
		println("PDM configure failed:", err.Error())
	}

	// Status LED
	PIN_LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &ledIndicator{pin: PIN_LED}

	// USB serial carries telemetry out and commands in
	machine.Serial.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	cfg := monitor.DefaultConfig()
	mon := monitor.New(cfg, &harnessSensors{}, &pdmMicrophone{}, led, machine.Serial, machine.Serial)

	// Startup baseline pass; the harness should be off the dog
	mon.Calibrate()

	lastTick := time.Now()

	// Main loop
	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial(mon)

		if now.Sub(lastTick) >= cfg.TickInterval {
			mon.Tick(now)
			lastTick = now
		}

		// Render the indicator pattern between ticks
		led.Update(now)

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(500 * time.Microsecond)
	}
}

// harnessSensors reads the three analog harness channels.
type harnessSensors struct{}

func (harnessSensors) ReadChannel(ch monitor.Channel) uint16 {
	switch ch {
	case monitor.ChannelPulse:
		return adcPulse.Get()
	case monitor.ChannelPiezo:
		return adcPiezo.Get()
	case monitor.ChannelPressure:
		return adcPressure.Get()
	default:
		return 0
	}
}

// pdmMicrophone reads a short burst from the onboard microphone and
// reduces it to a mean absolute amplitude.
type pdmMicrophone struct {
	buf [AUDIO_BURST_SAMPLES]int16
}

func (m *pdmMicrophone) ReadEnergy() int {
	n, err := pdm.Read(m.buf[:])
	if err != nil || n == 0 {
		return 0
	}

	sum := 0
	for _, s := range m.buf[:n] {
		if s < 0 {
			s = -s
		}
		sum += int(s)
	}
	// Scale the 15-bit amplitude down to roughly the ADC count range
	return (sum / n) >> 3
}

func processSerial(mon *monitor.Monitor) {
	// Read available bytes from serial
	for machine.Serial.Buffered() > 0 {
		data, err := machine.Serial.ReadByte()
		if err != nil {
			break
		}

		// Check for newline (end of line)
		if data == '\n' || data == '\r' {
			if serialPos == 3 &&
				serialBuffer[0] == 'C' && serialBuffer[1] == 'A' && serialBuffer[2] == 'L' {
				// Recalibrate on request; ticks pause for the duration
				mon.Calibrate()
			}
			// Reset buffer regardless of length
			serialPos = 0
			continue
		}

		// Ignore whitespace
		if data == ' ' || data == '\t' {
			continue
		}

		if serialPos < len(serialBuffer) {
			serialBuffer[serialPos] = data
			serialPos++
		}
	}
}
