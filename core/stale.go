package core

// UnverifiedCounter is implemented by uptime readers that can end a read
// without confirming the capture, e.g. uptime.Latched.
type UnverifiedCounter interface {
	Unverified() uint32
}

// WatchUptime returns a task body that records an EvtUptimeUnverify event
// whenever r reports new unverified reads.
func WatchUptime(r UnverifiedCounter) func() {
	var seen uint32
	return func() {
		n := r.Unverified()
		if n != seen {
			RecordTiming(EvtUptimeUnverify, 0, clockNow(), n, n-seen)
			DebugPrintln("uptime: latched read exhausted retry budget")
			seen = n
		}
	}
}
