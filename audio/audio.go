// Package audio is the playback command bus and its single consumer.
// Producers (dispatcher, bonus timer) enqueue commands and never touch
// the playback device; the worker owns it.
package audio

// Command is a playback directive. Immutable once enqueued.
type Command interface {
	isCommand()
}

// Play plays each sound once, in sequence.
type Play struct {
	Sounds []string
}

// PlayAndLoop plays the intro once, then repeats the loop sound until
// the next command replaces it.
type PlayAndLoop struct {
	Intro string
	Loop  string
}

// Stop halts and clears current playback.
type Stop struct{}

func (Play) isCommand()        {}
func (PlayAndLoop) isCommand() {}
func (Stop) isCommand()        {}

// queueDepth is generous: producers are human keystrokes, the consumer
// only stalls for the duration of a decode.
const queueDepth = 128

// Queue is the ordered multi-producer, single-consumer command bus.
type Queue struct {
	ch chan Command
}

func NewQueue() *Queue {
	return &Queue{ch: make(chan Command, queueDepth)}
}

func (q *Queue) Enqueue(c Command) {
	q.ch <- c
}

// Commands is consumed by exactly one worker.
func (q *Queue) Commands() <-chan Command {
	return q.ch
}

// Len reports commands waiting on the bus.
func (q *Queue) Len() int {
	return len(q.ch)
}
