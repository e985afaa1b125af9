package main

import "machine"

const (
	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Harness sensor pins
	PIN_PULSE    = machine.A0 // Optical pulse sensor
	PIN_PIEZO    = machine.A1 // Piezo disc on the chest strap
	PIN_PRESSURE = machine.A2 // Contact pressure pad

	// Status LED
	PIN_LED = machine.LED

	// Microphone burst length per energy reading.
	// 64 samples at 16 kHz is a 4 ms window, short enough to fit inside
	// the 20 ms control tick with the three ADC reads.
	AUDIO_BURST_SAMPLES = 64

	// Serial configuration
	// Telemetry format: "T,<millis>,<pulse>,<piezo>,<pressure>,<audio>,<bpm>,<state>,<beat>\n"
	// Example: "T,4294967295,4095,4095,4095,4095,250,M,1\n" = ~45 bytes max per line
	// 50 ticks/sec * 45 bytes/line = 2,250 bytes/sec
	// UART 8N1: 10 bits/byte = 22,500 baud minimum. With 3x headroom: 67,500 baud minimum
	// 115200 provides ~5x headroom (11,520 bytes/sec max / 2,250 bytes/sec required)
	UART_BAUD_RATE = 115200
)
