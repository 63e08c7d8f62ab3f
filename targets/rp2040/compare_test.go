package rp2040

import "testing"

// fakeTimer is a counter that advances by the next entry of lags on each
// read, then stands still.
type fakeTimer struct {
	now     uint32
	lags    []uint32
	writes  []uint32
	matched bool
}

func (f *fakeTimer) read() uint32 {
	if len(f.lags) > 0 {
		f.now += f.lags[0]
		f.lags = f.lags[1:]
	}
	return f.now
}

func (f *fakeTimer) write(target uint32) {
	f.writes = append(f.writes, target)
}

func (f *fakeTimer) fired() bool { return f.matched }

func TestArmCompareInFuture(t *testing.T) {
	f := &fakeTimer{now: 1000}
	target, base := armCompare(1500, 1000, 500, 1000, f.read, f.write, f.fired)

	if target != 1500 || base != 1000 {
		t.Errorf("got target=%d base=%d, want 1500/1000", target, base)
	}
	if len(f.writes) != 1 {
		t.Errorf("Expected one compare write, got %v", f.writes)
	}
}

func TestArmCompareSkipsPastPeriods(t *testing.T) {
	f := &fakeTimer{now: 2600}
	target, base := armCompare(1500, 1000, 500, 2600, f.read, f.write, f.fired)

	if target != 3000 || base != 2500 {
		t.Errorf("got target=%d base=%d, want 3000/2500", target, base)
	}
}

func TestArmCompareCounterPassesDuringWrite(t *testing.T) {
	// A 1us target; the counter moves 2us during the first write, so the
	// write lands after the match.
	f := &fakeTimer{now: 100, lags: []uint32{2}}
	target, _ := armCompare(100, 99, 1, 100, f.read, f.write, f.fired)

	if len(f.writes) != 2 {
		t.Fatalf("Expected a re-arm after the missed match, writes=%v", f.writes)
	}
	if int32(target-f.now) <= 0 {
		t.Errorf("Final target %d is not after the counter %d", target, f.now)
	}
}

func TestArmCompareFiredDuringWrite(t *testing.T) {
	f := &fakeTimer{now: 100, lags: []uint32{2}, matched: true}
	target, _ := armCompare(100, 99, 1, 100, f.read, f.write, f.fired)

	if len(f.writes) != 1 || target != 101 {
		t.Errorf("A fired alarm must not be re-armed: target=%d writes=%v", target, f.writes)
	}
}

func TestArmCompareAcrossWrap(t *testing.T) {
	f := &fakeTimer{now: 0xFFFFFFF0}
	target, _ := armCompare(0xFFFFFFF0, 0xFFFFFF00, 0x20, 0xFFFFFFF0, f.read, f.write, f.fired)

	if target != 0x10 {
		t.Errorf("got target=0x%X, want 0x10", target)
	}
}
