// tickmon checks a device's uptime counter against the host clock.
//
// It reads the "uptime <ticks> <hz>" lines written by the uptimereport
// example and exits non-zero if the count ever goes backwards or its rate
// drifts beyond the tolerance.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
