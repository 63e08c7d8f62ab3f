//go:build !wasm

package serial

import (
	"errors"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

var errNoConfig = errors.New("serial: config cannot be nil")

// device is the part of *serial.Port that NativePort uses.
type device interface {
	io.ReadWriteCloser
	Flush() error
}

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port device
	cfg  Config
}

// Open opens a native serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, errNoConfig
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{port: port, cfg: *cfg}, nil
}

// Device returns the path the port was opened on.
func (p *NativePort) Device() string { return p.cfg.Device }

// Read returns ErrTimeout when a read timeout is configured and it expires
// with no data. The driver reports that case as io.EOF.
func (p *NativePort) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if n == 0 && err == io.EOF && p.cfg.ReadTimeout > 0 && len(b) > 0 {
		return 0, ErrTimeout
	}
	return n, err
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush drops unread input so the monitor starts on a fresh line.
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
