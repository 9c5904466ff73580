package audio

import "context"

// Player renders commands on an actual output device. Implementations
// handle bad sound files internally: playback never fails loudly.
type Player interface {
	// Play stops current playback and plays each path once, in order.
	Play(paths []string)
	// PlayLoop stops current playback, plays intro once, then cycles
	// loop seamlessly until replaced.
	PlayLoop(intro, loop string)
	// Stop halts and clears all playback.
	Stop()
}

// Worker is the sole consumer of a Queue. One command at a time.
type Worker struct {
	queue  *Queue
	player Player
}

func NewWorker(q *Queue, p Player) *Worker {
	return &Worker{queue: q, player: p}
}

// Run drains the queue until ctx is cancelled, then silences the player.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.player.Stop()
			return
		case cmd := <-w.queue.Commands():
			w.handle(cmd)
		}
	}
}

func (w *Worker) handle(cmd Command) {
	switch c := cmd.(type) {
	case Play:
		w.player.Play(c.Sounds)
	case PlayAndLoop:
		w.player.PlayLoop(c.Intro, c.Loop)
	case Stop:
		w.player.Stop()
	}
}
