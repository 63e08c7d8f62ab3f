// Package monitor checks uptime reports from a device against the host
// clock.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix starts every report line written by the uptimereport firmware:
//
//	uptime <ticks> <ticks-per-second>
const Prefix = "uptime"

// Sample is one parsed report stamped with the host arrival time.
type Sample struct {
	Ticks uint64
	Hz    uint64
	At    time.Time
}

// Seconds returns the device uptime.
func (s Sample) Seconds() float64 {
	return float64(s.Ticks) / float64(s.Hz)
}

var (
	errFields = errors.New("want 3 fields")
	errZeroHz = errors.New("zero tick rate")
)

// ParseLine parses a report line. ok is false for anything that is not a
// report, such as debug output sharing the console.
func ParseLine(line string, at time.Time) (s Sample, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != Prefix {
		return Sample{}, false, nil
	}
	if len(fields) != 3 {
		return Sample{}, true, fmt.Errorf("parse %q: %w", line, errFields)
	}

	s.At = at
	if s.Ticks, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
		return Sample{}, true, fmt.Errorf("parse ticks: %w", err)
	}
	if s.Hz, err = strconv.ParseUint(fields[2], 10, 64); err != nil {
		return Sample{}, true, fmt.Errorf("parse rate: %w", err)
	}
	if s.Hz == 0 {
		return Sample{}, true, fmt.Errorf("parse %q: %w", line, errZeroHz)
	}
	return s, true, nil
}
