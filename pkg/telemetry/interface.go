package telemetry

// Device defines the interface for harness devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Reports() <-chan Report
	Alerts() <-chan Alert
	Recalibrate() error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
