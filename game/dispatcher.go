// Package game holds the key-event state machine: it classifies each
// keystroke, mutates the shared state, persists the externally visible
// fields, and emits playback commands.
package game

import (
	"sync"
	"time"

	"keytally/audio"
	"keytally/device"
	"keytally/log"
	"keytally/sink"
	"keytally/state"
)

const (
	// bonusGate is the minimum counter for trigger presses to count.
	bonusGate = 50
	// streakTarget is the consecutive trigger presses that start a bonus.
	streakTarget = 3

	defaultTick = time.Second
)

// Sounds names the three configured cues.
type Sounds struct {
	Increment  string
	BonusIntro string
	BonusLoop  string
}

type Config struct {
	Store      *state.Store
	Sink       sink.Sink
	Bus        *audio.Queue
	Thresholds state.ThresholdSource
	Sounds     Sounds
	// Tick is the bonus countdown interval; defaults to one second.
	Tick time.Duration
}

// Dispatcher is shared by all device listeners. HandleKey is safe for
// concurrent use; the state store serializes the mutations.
type Dispatcher struct {
	store      *state.Store
	sink       sink.Sink
	bus        *audio.Queue
	thresholds state.ThresholdSource
	sounds     Sounds
	tick       time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	timers   sync.WaitGroup
}

func New(cfg Config) *Dispatcher {
	tick := cfg.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	return &Dispatcher{
		store:      cfg.Store,
		sink:       cfg.Sink,
		bus:        cfg.Bus,
		thresholds: cfg.Thresholds,
		sounds:     cfg.Sounds,
		tick:       tick,
		stop:       make(chan struct{}),
	}
}

// Close halts any running bonus timer and waits for it to exit.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() { close(d.stop) })
	d.timers.Wait()
}

// HandleKey processes one key-press transition. A persistence error
// aborts the dispatch and propagates to the owning listener.
func (d *Dispatcher) HandleKey(code uint16) error {
	// Escape always stops playback and never touches state.
	if code == device.KeyEsc {
		d.bus.Enqueue(audio.Stop{})
		return nil
	}

	var cmds []audio.Command
	startBonus := false

	err := d.store.Update(func(s *state.State) error {
		// The timer owns the counter while the bonus runs.
		if s.BonusActive {
			return nil
		}

		if code == device.KeyBackslash && s.Counter >= bonusGate {
			s.TriggerStreak++
			if s.TriggerStreak < streakTarget {
				return nil
			}
			s.TriggerStreak = 0
			s.BonusActive = true
			if err := d.sink.WriteStatus(sink.StatusBonus); err != nil {
				return err
			}
			log.BonusTriggered(s.Counter)
			cmds = append(cmds, audio.PlayAndLoop{
				Intro: d.sounds.BonusIntro,
				Loop:  d.sounds.BonusLoop,
			})
			startBonus = true
			return nil
		}

		// Any other key, including a trigger press below the gate.
		s.TriggerStreak = 0
		s.KeystrokeBuffer++
		if s.KeystrokeBuffer < s.TargetKeystrokes {
			return nil
		}
		s.KeystrokeBuffer = 0
		s.Counter++
		s.TargetKeystrokes = d.thresholds.Next(s.Mode)
		if err := d.sink.WriteCounter(s.Counter); err != nil {
			return err
		}
		log.CounterIncrement(s.Counter, s.TargetKeystrokes)
		cmds = append(cmds, audio.Play{Sounds: []string{d.sounds.Increment}})
		return nil
	})
	if err != nil {
		return err
	}

	// Persisted state is already visible; the sound may lag by at most
	// the bus latency.
	for _, c := range cmds {
		d.bus.Enqueue(c)
	}
	if startBonus {
		d.timers.Add(1)
		go d.runBonus()
	}
	return nil
}
