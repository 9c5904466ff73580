// Package state owns the shared game aggregate. Every component that
// reads or writes it goes through Store.Update, which serializes access
// from the listener goroutines and the bonus timer.
package state

import (
	"math/rand/v2"
	"sync"
)

// Mode selects the distribution used to draw the next keystroke target.
// Fixed for the process lifetime once chosen at startup.
type Mode int

const (
	ModeNormal Mode = iota
	ModeTest
	ModeHard
)

func (m Mode) String() string {
	switch m {
	case ModeTest:
		return "test"
	case ModeHard:
		return "hard"
	default:
		return "normal"
	}
}

// ThresholdSource draws the number of keystrokes needed for the next
// counter increment. Injected so tests can supply a fixed sequence.
type ThresholdSource interface {
	Next(m Mode) uint32
}

// RandSource draws uniformly from the mode's range.
type RandSource struct{}

func (RandSource) Next(m Mode) uint32 {
	switch m {
	case ModeTest:
		return 1
	case ModeHard:
		return uint32(1 + rand.IntN(1000))
	default:
		return uint32(1 + rand.IntN(100))
	}
}

// State is the shared aggregate. Counter and the status label are
// persisted by the caller inside the same Update that changes them.
type State struct {
	Counter          uint32
	TriggerStreak    uint8
	BonusActive      bool
	KeystrokeBuffer  uint32
	TargetKeystrokes uint32
	Mode             Mode
}

// Store guards State behind one mutex. The lock is held only for the
// duration of a single Update, never across device reads.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore seeds the aggregate with the starting counter and the first
// keystroke target drawn from src.
func NewStore(mode Mode, counter uint32, src ThresholdSource) *Store {
	return &Store{
		state: State{
			Counter:          counter,
			TargetKeystrokes: src.Next(mode),
			Mode:             mode,
		},
	}
}

// Update applies fn under the lock. An error from fn aborts the
// mutation from the caller's point of view but field changes already
// made by fn are kept, matching write-then-persist ordering.
func (st *Store) Update(fn func(*State) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return fn(&st.state)
}

// Snapshot returns a copy of the current aggregate.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}
