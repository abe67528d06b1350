package epoch

import (
	"sync"
	"testing"
)

func TestCommitAcceptsOnlyLatest(t *testing.T) {
	var slot Slot[string]

	a := slot.Begin()
	b := slot.Begin()

	if !slot.Commit(b, "B") {
		t.Fatal("Commit(latest) = false, want true")
	}
	if slot.Commit(a, "A") {
		t.Error("Commit(superseded) = true, want false")
	}

	got, ok := slot.Value()
	if !ok || got != "B" {
		t.Errorf("Value() = %q, %v; want %q, true", got, ok, "B")
	}
}

func TestCommitOutOfOrderArrival(t *testing.T) {
	var slot Slot[int]

	first := slot.Begin()
	if !slot.Commit(first, 1) {
		t.Fatal("first commit rejected")
	}
	second := slot.Begin()

	// the first request answers again late; still stale
	if slot.Commit(first, 100) {
		t.Error("late commit from an earlier epoch accepted")
	}
	if v, _ := slot.Value(); v != 1 {
		t.Errorf("Value() = %d, want 1 until the newest fetch lands", v)
	}
	if !slot.Commit(second, 2) {
		t.Error("newest commit rejected")
	}
}

func TestZeroEpochNeverCommits(t *testing.T) {
	var slot Slot[int]
	if slot.Commit(0, 1) {
		t.Error("Commit(0) on a fresh slot accepted")
	}
	if _, ok := slot.Value(); ok {
		t.Error("Value() reported a value on a fresh slot")
	}
}

func TestCurrent(t *testing.T) {
	var slot Slot[int]
	e := slot.Begin()
	if !slot.Current(e) {
		t.Error("Current(latest) = false")
	}
	slot.Begin()
	if slot.Current(e) {
		t.Error("Current(superseded) = true")
	}
}

func TestReset(t *testing.T) {
	var slot Slot[int]
	e := slot.Begin()
	slot.Commit(e, 5)

	slot.Reset()
	if _, ok := slot.Value(); ok {
		t.Error("Value() still filled after Reset")
	}
	if slot.Commit(e, 6) {
		t.Error("epoch issued before Reset was accepted")
	}
}

func TestConcurrentBeginCommit(t *testing.T) {
	var slot Slot[int]
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			e := slot.Begin()
			slot.Commit(e, n)
		}(i)
	}
	wg.Wait()

	last := slot.Begin()
	if last != 51 {
		t.Errorf("Begin() after 50 fetches = %d, want 51", last)
	}
}
