package game

import (
	"time"

	"keytally/audio"
	"keytally/log"
	"keytally/sink"
	"keytally/state"
)

// runBonus drains the counter one tick at a time. The tick that reaches
// zero also clears the bonus flag, restores the idle status label, and
// stops the music. At most one timer runs: entry is gated on
// BonusActive under the state lock.
func (d *Dispatcher) runBonus() {
	defer d.timers.Done()

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
		}

		finished := false
		d.store.Update(func(s *state.State) error {
			if s.Counter > 0 {
				s.Counter--
				// Tick persistence failures must not wedge the
				// countdown; log and keep draining.
				if err := d.sink.WriteCounter(s.Counter); err != nil {
					log.Warnf("bonus tick: persist counter: %v", err)
				}
			}
			if s.Counter == 0 {
				s.BonusActive = false
				if err := d.sink.WriteStatus(sink.StatusFlashing); err != nil {
					log.Warnf("bonus finish: persist status: %v", err)
				}
				finished = true
			}
			return nil
		})

		if finished {
			d.bus.Enqueue(audio.Stop{})
			log.BonusFinished()
			return
		}
	}
}
