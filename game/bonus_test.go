package game

import (
	"errors"
	"testing"
	"time"

	"keytally/audio"
	"keytally/device"
	"keytally/sink"
	"keytally/state"
)

const testTick = 5 * time.Millisecond

// startBonus drives the dispatcher into the bonus state.
func startBonus(t *testing.T, f *fixture) {
	t.Helper()
	f.press(t, device.KeyBackslash, device.KeyBackslash, device.KeyBackslash)
	if !f.store.Snapshot().BonusActive {
		t.Fatal("bonus did not activate")
	}
	f.drain() // discard the PlayAndLoop
}

func TestBonusCountsDownToZero(t *testing.T) {
	f := newFixture(t, state.ModeNormal, 52, []uint32{100}, testTick)
	startBonus(t, f)

	s := f.waitState(t, func(s state.State) bool { return !s.BonusActive })
	if s.Counter != 0 {
		t.Errorf("counter = %d, want 0", s.Counter)
	}
	if got := f.sink.Status(); got != sink.StatusFlashing {
		t.Errorf("status = %q, want %q", got, sink.StatusFlashing)
	}

	stops := 0
	for _, c := range f.drain() {
		if _, ok := c.(audio.Stop); ok {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("got %d Stop commands, want exactly 1", stops)
	}
}

func TestBonusDecrementsOncePerTick(t *testing.T) {
	f := newFixture(t, state.ModeNormal, 55, []uint32{100}, testTick)
	startBonus(t, f)
	f.waitState(t, func(s state.State) bool { return !s.BonusActive })

	// Every intermediate value must have been persisted, in order.
	writes := f.sink.CounterWrites()
	if len(writes) != 55 {
		t.Fatalf("got %d counter writes, want 55", len(writes))
	}
	for i, w := range writes {
		want := uint32(55 - 1 - i)
		if w != want {
			t.Fatalf("write %d = %d, want %d", i, w, want)
		}
	}
}

func TestBonusTwoTickScenario(t *testing.T) {
	// Bonus active with counter=2: after 2 ticks the counter reaches 0,
	// the bonus clears, the status returns to flashing, one Stop.
	f := newFixture(t, state.ModeNormal, 0, []uint32{100}, testTick)
	f.store.Update(func(s *state.State) error {
		s.Counter = 2
		s.BonusActive = true
		return nil
	})
	f.d.timers.Add(1)
	go f.d.runBonus()

	s := f.waitState(t, func(s state.State) bool { return !s.BonusActive })
	if s.Counter != 0 {
		t.Errorf("counter = %d, want 0", s.Counter)
	}
	if got := f.sink.Status(); got != sink.StatusFlashing {
		t.Errorf("status = %q, want %q", got, sink.StatusFlashing)
	}

	writes := f.sink.CounterWrites()
	if len(writes) != 2 || writes[0] != 1 || writes[1] != 0 {
		t.Errorf("counter writes = %v, want [1 0] (exactly one decrement per tick)", writes)
	}

	stops := 0
	for _, c := range f.drain() {
		if _, ok := c.(audio.Stop); ok {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("got %d Stop commands, want exactly 1", stops)
	}
}

func TestBonusNeverDecrementsBelowZero(t *testing.T) {
	f := newFixture(t, state.ModeNormal, 50, []uint32{100}, testTick)
	startBonus(t, f)
	f.waitState(t, func(s state.State) bool { return !s.BonusActive })

	// Give the timer a few more intervals; it must have terminated.
	time.Sleep(5 * testTick)
	if got := f.store.Snapshot().Counter; got != 0 {
		t.Errorf("counter = %d, want 0", got)
	}
	for _, w := range f.sink.CounterWrites() {
		if w > 50 {
			t.Fatalf("unexpected counter write %d", w)
		}
	}
}

func TestBonusTickPersistFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, state.ModeNormal, 53, []uint32{100}, testTick)
	startBonus(t, f)

	f.sink.FailNext(errors.New("disk full"))

	s := f.waitState(t, func(s state.State) bool { return !s.BonusActive })
	if s.Counter != 0 {
		t.Errorf("counter = %d, want 0 (countdown must survive a failed write)", s.Counter)
	}
	if got := f.sink.Status(); got != sink.StatusFlashing {
		t.Errorf("status = %q, want %q", got, sink.StatusFlashing)
	}
}

func TestCountingResumesAfterBonus(t *testing.T) {
	f := newFixture(t, state.ModeNormal, 50, []uint32{1, 100}, testTick)
	startBonus(t, f)
	f.waitState(t, func(s state.State) bool { return !s.BonusActive })
	f.drain()

	// Target of 1: the first keystroke after the bonus increments again.
	f.press(t, keyA)
	if got := f.store.Snapshot().Counter; got != 1 {
		t.Errorf("counter = %d, want 1 after bonus", got)
	}
}

func TestCloseStopsRunningTimer(t *testing.T) {
	f := newFixture(t, state.ModeNormal, 1000+bonusGate, []uint32{100}, testTick)
	startBonus(t, f)

	done := make(chan struct{})
	go func() {
		f.d.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not join the bonus timer")
	}

	// Timer stopped mid-run: counter frozen, no further writes.
	frozen := f.store.Snapshot().Counter
	n := len(f.sink.CounterWrites())
	time.Sleep(5 * testTick)
	if got := f.store.Snapshot().Counter; got != frozen {
		t.Errorf("counter moved after Close: %d -> %d", frozen, got)
	}
	if got := len(f.sink.CounterWrites()); got != n {
		t.Errorf("writes continued after Close: %d -> %d", n, got)
	}
}
