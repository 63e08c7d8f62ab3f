// Package config loads tickmon settings from flags, environment and an
// optional JSON file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"gotick/host/serial"
)

// Option names shared by flags, environment (TICKMON_ prefix) and the file.
const (
	OptionDevice       = "device"
	OptionBaud         = "baud"
	OptionReadTimeout  = "read-timeout"
	OptionSamples      = "samples"
	OptionTolerancePPM = "tolerance-ppm"
	OptionMinSpan      = "min-span"
	OptionMetricsAddr  = "metrics-addr"
	OptionVerbosity    = "verbosity"
)

// Config holds the monitor settings.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration

	// Samples stops the monitor after this many reports. Zero runs until
	// interrupted.
	Samples int

	// TolerancePPM is the largest accepted rate error of the device
	// counter against the host clock.
	TolerancePPM float64

	// MinSpan is how much host time must pass before drift is judged.
	// Report jitter dominates over short spans.
	MinSpan time.Duration

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9101".
	MetricsAddr string

	Verbosity logrus.Level
}

var errNegative = errors.New("must not be negative")

// Load reads the settings from v and fills in defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Device:       v.GetString(OptionDevice),
		Baud:         v.GetInt(OptionBaud),
		ReadTimeout:  v.GetDuration(OptionReadTimeout),
		Samples:      v.GetInt(OptionSamples),
		TolerancePPM: v.GetFloat64(OptionTolerancePPM),
		MinSpan:      v.GetDuration(OptionMinSpan),
		MetricsAddr:  v.GetString(OptionMetricsAddr),
	}

	level := v.GetString(OptionVerbosity)
	if level == "" {
		level = "info"
	}
	var err error
	if cfg.Verbosity, err = logrus.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("%s: %w", OptionVerbosity, err)
	}

	if cfg.Samples < 0 {
		return nil, fmt.Errorf("%s: %w", OptionSamples, errNegative)
	}
	if cfg.TolerancePPM < 0 {
		return nil, fmt.Errorf("%s: %w", OptionTolerancePPM, errNegative)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(cfg *Config) {
	def := serial.DefaultConfig("/dev/ttyACM0")
	if cfg.Device == "" {
		cfg.Device = def.Device
	}
	if cfg.Baud == 0 {
		cfg.Baud = def.Baud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}

	if cfg.TolerancePPM == 0 {
		cfg.TolerancePPM = 500 // a typical 50ppm crystal leaves plenty of margin
	}
	if cfg.MinSpan == 0 {
		cfg.MinSpan = 10 * time.Second
	}
}

// Serial returns the port settings.
func (c *Config) Serial() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
	}
}
