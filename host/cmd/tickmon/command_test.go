package main

import (
	"testing"
	"time"

	"gotick/host/config"
)

func TestFlagsReachConfig(t *testing.T) {
	c := newCommand()
	if err := c.root.ParseFlags([]string{
		"--device", "/dev/ttyUSB0",
		"--tolerance-ppm", "42",
		"--min-span", "1m",
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.initConfig(c.root); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(c.config)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "/dev/ttyUSB0" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.TolerancePPM != 42 {
		t.Errorf("TolerancePPM = %v", cfg.TolerancePPM)
	}
	if cfg.MinSpan != time.Minute {
		t.Errorf("MinSpan = %v", cfg.MinSpan)
	}
	if cfg.Samples != 0 {
		t.Errorf("Samples = %d, want the flag default", cfg.Samples)
	}
}

func TestMissingConfigFile(t *testing.T) {
	c := newCommand()
	if err := c.root.ParseFlags([]string{"--config", "/nonexistent/tickmon.json"}); err != nil {
		t.Fatal(err)
	}
	if err := c.initConfig(c.root); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
