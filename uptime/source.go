package uptime

import (
	"sync"

	"gotick/tick"
)

// Source is the system uptime at the compile-time rate R.
//
// The counter is configured once by the setup hook and then runs for the
// life of the process; there is no teardown.
type Source[R tick.Rate] struct {
	reader Reader
	setup  func()
	once   sync.Once
}

// New wraps reader. setup, if non-nil, configures the counter hardware and
// runs exactly once, before the first read.
func New[R tick.Rate](reader Reader, setup func()) *Source[R] {
	return &Source[R]{reader: reader, setup: setup}
}

// Init configures the counter. Calling it again does nothing.
func (s *Source[R]) Init() {
	s.once.Do(func() {
		if s.setup != nil {
			s.setup()
		}
	})
}

// Hz returns the tick rate.
func (s *Source[R]) Hz() uint64 {
	return tick.Hz[R]()
}

// TryNowRaw returns the raw tick count. The error is never set; it exists
// so callers written against fallible time sources keep compiling.
func (s *Source[R]) TryNowRaw() (uint64, error) {
	return s.NowRaw(), nil
}

// TryNow returns the current instant. The error is never set.
func (s *Source[R]) TryNow() (tick.Instant[R], error) {
	return s.Now(), nil
}

// NowRaw returns the raw tick count since the counter was started.
func (s *Source[R]) NowRaw() uint64 {
	s.Init()
	return s.reader.ReadRaw()
}

// Now returns the current instant.
func (s *Source[R]) Now() tick.Instant[R] {
	return tick.InstantFromTicks[R](s.NowRaw())
}

// CurrentTime returns the current instant and panics on error.
//
// Deprecated: Use TryNow or Now instead.
func (s *Source[R]) CurrentTime() tick.Instant[R] {
	t, err := s.TryNow()
	if err != nil {
		panic(err)
	}
	return t
}
