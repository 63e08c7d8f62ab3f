package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"gotick/host/serial"
)

// ErrIdle is returned by Run when a read times out with no data, which
// means the firmware stopped reporting.
var ErrIdle = errors.New("monitor: no data within read timeout")

// Options configures a Monitor.
type Options struct {
	// TolerancePPM is the largest accepted rate error.
	TolerancePPM float64

	// MinSpan is the host time that must pass after the baseline sample
	// before drift is judged.
	MinSpan time.Duration

	// Now stamps samples on arrival. Defaults to time.Now.
	Now func() time.Time
}

// Result is the verdict on one sample.
type Result struct {
	Sample Sample

	// Rebased is set when the sample became the new baseline, either
	// because it is the first or because the device changed its rate.
	Rebased bool

	// Backwards is set when the tick count dropped below the previous
	// sample.
	Backwards bool

	// Judged is set once MinSpan has passed; DriftPPM is valid only then.
	Judged        bool
	DriftPPM      float64
	DriftExceeded bool
}

// Summary counts what a Monitor has seen.
type Summary struct {
	Samples       int
	Malformed     int
	Backwards     int
	DriftExceeded int
	LastDriftPPM  float64
}

// OK reports whether no violation was seen.
func (s Summary) OK() bool {
	return s.Backwards == 0 && s.DriftExceeded == 0
}

// Monitor checks that reported uptime never decreases and advances at
// the rate the device claims.
type Monitor struct {
	opts    Options
	logger  logrus.FieldLogger
	metrics metrics

	base, last Sample
	started    bool
	summary    Summary
}

// New returns a Monitor that logs verdicts to logger.
func New(opts Options, logger logrus.FieldLogger) *Monitor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Monitor{
		opts:    opts,
		logger:  logger,
		metrics: newMetrics(),
	}
}

// Summary returns the counts so far.
func (m *Monitor) Summary() Summary {
	return m.summary
}

// Observe judges one sample.
func (m *Monitor) Observe(s Sample) Result {
	r := Result{Sample: s}
	m.summary.Samples++
	m.metrics.Samples.Inc()
	m.metrics.Uptime.Set(s.Seconds())

	log := m.logger.WithFields(logrus.Fields{
		"ticks": s.Ticks,
		"hz":    s.Hz,
	})

	if m.started && s.Ticks < m.last.Ticks {
		r.Backwards = true
		m.summary.Backwards++
		m.metrics.Backwards.Inc()
		log.WithField("previous", m.last.Ticks).Error("uptime went backwards")
		m.started = false
	}

	if !m.started || s.Hz != m.base.Hz {
		if m.started {
			log.WithField("previous_hz", m.base.Hz).Warn("tick rate changed, restarting drift baseline")
		}
		m.base, m.last, m.started = s, s, true
		r.Rebased = true
		return r
	}
	m.last = s

	host := s.At.Sub(m.base.At)
	if host < m.opts.MinSpan || host <= 0 {
		log.Debug("sample")
		return r
	}

	device := float64(s.Ticks-m.base.Ticks) / float64(s.Hz)
	r.Judged = true
	r.DriftPPM = (device/host.Seconds() - 1) * 1e6
	m.summary.LastDriftPPM = r.DriftPPM
	m.metrics.DriftPPM.Set(r.DriftPPM)

	log = log.WithField("drift_ppm", fmt.Sprintf("%.1f", r.DriftPPM))
	if math.Abs(r.DriftPPM) > m.opts.TolerancePPM {
		r.DriftExceeded = true
		m.summary.DriftExceeded++
		m.metrics.DriftExceeded.Inc()
		log.WithField("tolerance_ppm", m.opts.TolerancePPM).Error("drift above tolerance")
		return r
	}
	log.Info("sample")
	return r
}

// Run reads report lines from r and observes each one. It returns nil
// after limit samples (zero means no limit) or at end of input.
func (m *Monitor) Run(ctx context.Context, r io.Reader, limit int) error {
	sc := bufio.NewScanner(idleReader{r})
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := sc.Text()
		s, ok, err := ParseLine(line, m.opts.Now())
		if !ok {
			m.logger.WithField("line", line).Debug("device output")
			continue
		}
		if err != nil {
			m.summary.Malformed++
			m.metrics.Malformed.Inc()
			m.logger.WithError(err).Warn("malformed report")
			continue
		}

		m.Observe(s)
		if limit > 0 && m.summary.Samples >= limit {
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read reports: %w", err)
	}
	return nil
}

// idleReader turns a timed-out read into ErrIdle. An empty read with no
// error counts as a timeout too, so the scanner does not spin on it.
type idleReader struct {
	r io.Reader
}

func (i idleReader) Read(p []byte) (int, error) {
	n, err := i.r.Read(p)
	if n == 0 && (err == nil || errors.Is(err, serial.ErrTimeout)) {
		return 0, ErrIdle
	}
	return n, err
}
