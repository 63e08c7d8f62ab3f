package pio

import "testing"

func resetAllocations() {
	allocations = [2][4]bool{}
	nextPIONum, nextSMNum = 0, 0
}

func TestAllocateRoundRobin(t *testing.T) {
	resetAllocations()

	for i := 0; i < 8; i++ {
		pioNum, smNum, ok := allocate()
		if !ok {
			t.Fatalf("allocation %d failed", i)
		}
		if want := uint8(i / 4); pioNum != want || smNum != uint8(i%4) {
			t.Errorf("allocation %d: got PIO%d SM%d", i, pioNum, smNum)
		}
	}
	if _, _, ok := allocate(); ok {
		t.Error("Expected failure with all 8 state machines taken")
	}
}

func TestReleaseAfterFailedSetup(t *testing.T) {
	resetAllocations()

	if !reserve(1, 2) {
		t.Fatal("reserve(1, 2) failed")
	}
	if reserve(1, 2) {
		t.Error("reserve of a taken state machine should fail")
	}

	// Setup failed: the slot must be usable again
	release(1, 2)
	if Allocations()[1][2] {
		t.Error("released state machine still marked allocated")
	}
	if !reserve(1, 2) {
		t.Error("reserve after release failed")
	}
}

func TestReserveOutOfRange(t *testing.T) {
	resetAllocations()
	if reserve(2, 0) || reserve(0, 4) {
		t.Error("out of range reservation accepted")
	}
}
