// Package serial opens the device console that example firmware reports on.
package serial

import (
	"errors"
	"io"
	"time"
)

// ErrTimeout is returned by a read whose timeout expired with no data.
var ErrTimeout = errors.New("serial: read timeout")

// Port is a line-oriented device console.
// Tests substitute an in-memory pipe.
type Port interface {
	io.ReadWriteCloser

	// Flush discards anything buffered by the driver.
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. USB CDC consoles ignore it.
	Baud int

	// ReadTimeout bounds a single read. Zero blocks.
	ReadTimeout time.Duration
}

// DefaultBaud matches the TinyGo default console.
const DefaultBaud = 115200

// DefaultConfig returns a configuration for a TinyGo console on device.
// The read timeout is longer than the one second report interval so an
// idle port means the firmware stopped reporting.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 3 * time.Second,
	}
}
