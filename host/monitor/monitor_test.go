package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"gotick/host/serial"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newMonitor(tolerance float64, minSpan time.Duration) (*Monitor, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(Options{TolerancePPM: tolerance, MinSpan: minSpan}, logger), hook
}

func sample(ticks, hz uint64, at time.Duration) Sample {
	return Sample{Ticks: ticks, Hz: hz, At: epoch.Add(at)}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    Sample
		ok      bool
		wantErr error
	}{
		{line: "uptime 16000000 16000000", want: Sample{Ticks: 16000000, Hz: 16000000, At: epoch}, ok: true},
		{line: "  uptime 5 1000000\r", want: Sample{Ticks: 5, Hz: 1000000, At: epoch}, ok: true},
		{line: "[TIMING] TASK_RUN id=1 clock=5 v1=0 v2=0"},
		{line: ""},
		{line: "uptime 5", ok: true, wantErr: errFields},
		{line: "uptime 5 0", ok: true, wantErr: errZeroHz},
		{line: "uptime x 1000000", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line, epoch)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !ok || err != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sample mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestObserveOnRate(t *testing.T) {
	m, _ := newMonitor(100, 5*time.Second)

	for i := uint64(0); i <= 10; i++ {
		r := m.Observe(sample(i*16000000, 16000000, time.Duration(i)*time.Second))
		if i == 0 && !r.Rebased {
			t.Error("first sample should become the baseline")
		}
		if r.Judged != (i >= 5) {
			t.Errorf("sample %d: Judged = %v", i, r.Judged)
		}
		if r.Judged && r.DriftPPM != 0 {
			t.Errorf("sample %d: drift = %v, want 0", i, r.DriftPPM)
		}
	}

	if s := m.Summary(); !s.OK() || s.Samples != 11 {
		t.Errorf("summary = %+v", s)
	}
}

func TestObserveDrift(t *testing.T) {
	m, hook := newMonitor(100, 0)

	m.Observe(sample(0, 1000000, 0))
	// 500 extra ticks over 10s is 50ppm fast
	r := m.Observe(sample(10000500, 1000000, 10*time.Second))
	if !r.Judged || r.DriftExceeded {
		t.Errorf("within tolerance: %+v", r)
	}
	if r.DriftPPM < 49.9 || r.DriftPPM > 50.1 {
		t.Errorf("drift = %v, want 50", r.DriftPPM)
	}

	// 20s later the device is 3000 ticks ahead: 150ppm
	r = m.Observe(sample(20003000, 1000000, 20*time.Second))
	if !r.DriftExceeded {
		t.Errorf("150ppm not flagged: %+v", r)
	}
	if hook.LastEntry().Level != logrus.ErrorLevel {
		t.Errorf("last log level = %v, want error", hook.LastEntry().Level)
	}

	s := m.Summary()
	if s.OK() || s.DriftExceeded != 1 {
		t.Errorf("summary = %+v", s)
	}
	if got := testutil.ToFloat64(m.metrics.DriftExceeded); got != 1 {
		t.Errorf("drift_exceeded_total = %v", got)
	}
}

func TestObserveSlowDevice(t *testing.T) {
	m, _ := newMonitor(100, 0)
	m.Observe(sample(0, 1000000, 0))
	r := m.Observe(sample(9998000, 1000000, 10*time.Second))
	if !r.DriftExceeded || r.DriftPPM > -199 {
		t.Errorf("slow device: %+v", r)
	}
}

func TestObserveBackwards(t *testing.T) {
	m, _ := newMonitor(100, 0)
	m.Observe(sample(5000, 1000000, 0))
	r := m.Observe(sample(4000, 1000000, time.Second))
	if !r.Backwards || !r.Rebased {
		t.Errorf("backwards step: %+v", r)
	}

	// Drift is measured from the new baseline, not the old one
	r = m.Observe(sample(1004000, 1000000, 2*time.Second))
	if r.Backwards || r.DriftExceeded {
		t.Errorf("after rebase: %+v", r)
	}

	if s := m.Summary(); s.OK() || s.Backwards != 1 {
		t.Errorf("summary = %+v", s)
	}
	if got := testutil.ToFloat64(m.metrics.Backwards); got != 1 {
		t.Errorf("backwards_total = %v", got)
	}
}

func TestObserveRateChange(t *testing.T) {
	m, hook := newMonitor(100, 0)
	m.Observe(sample(1000000, 1000000, 0))
	r := m.Observe(sample(32000000, 16000000, time.Second))
	if !r.Rebased || r.Backwards || r.Judged {
		t.Errorf("rate change: %+v", r)
	}
	if hook.LastEntry().Level != logrus.WarnLevel {
		t.Errorf("last log level = %v, want warning", hook.LastEntry().Level)
	}
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"booting",
		"uptime 0 1000000",
		"uptime 1000000 1000000",
		"uptime bogus",
		"[TIMING] TIMER_FIRE id=1 clock=5 v1=0 v2=0",
		"uptime 2000000 1000000",
		"uptime 3000000 1000000",
	}, "\r\n")

	logger, _ := logtest.NewNullLogger()
	m := New(Options{TolerancePPM: 100, MinSpan: time.Hour}, logger)

	if err := m.Run(context.Background(), strings.NewReader(input), 0); err != nil {
		t.Fatal(err)
	}

	want := Summary{Samples: 4, Malformed: 1}
	if diff := cmp.Diff(want, m.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRunLimit(t *testing.T) {
	input := "uptime 1 1000000\nuptime 2 1000000\nuptime 3 1000000\n"
	logger, _ := logtest.NewNullLogger()
	m := New(Options{TolerancePPM: 100, MinSpan: time.Hour}, logger)

	if err := m.Run(context.Background(), strings.NewReader(input), 2); err != nil {
		t.Fatal(err)
	}
	if got := m.Summary().Samples; got != 2 {
		t.Errorf("Samples = %d, want 2", got)
	}
}

// stalledPort delivers its lines and then behaves like a serial port
// whose read timeout expires with no data.
type stalledPort struct {
	r   *strings.Reader
	err error
}

func (p *stalledPort) Read(b []byte) (int, error) {
	if p.r.Len() > 0 {
		return p.r.Read(b)
	}
	return 0, p.err
}

func TestRunIdle(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"timeout", serial.ErrTimeout},
		{"empty read", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := logtest.NewNullLogger()
			m := New(Options{MinSpan: time.Hour}, logger)

			port := &stalledPort{r: strings.NewReader("uptime 1 1000000\n"), err: tt.err}
			err := m.Run(context.Background(), port, 0)
			if !errors.Is(err, ErrIdle) {
				t.Errorf("error = %v, want %v", err, ErrIdle)
			}
			if got := m.Summary().Samples; got != 1 {
				t.Errorf("Samples = %d, want 1", got)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger, _ := logtest.NewNullLogger()
	m := New(Options{}, logger)
	err := m.Run(ctx, strings.NewReader("uptime 1 1\n"), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

func TestMetricsCollectors(t *testing.T) {
	m, _ := newMonitor(100, 0)
	m.Observe(sample(16000000, 16000000, 0))

	if n := len(m.Metrics()); n != 6 {
		t.Errorf("got %d collectors, want 6", n)
	}
	if got := testutil.ToFloat64(m.metrics.Uptime); got != 1 {
		t.Errorf("device_uptime_seconds = %v, want 1", got)
	}
}
