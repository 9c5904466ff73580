package audio

import "sync"

// Call records one Player invocation.
type Call struct {
	Op    string // "play", "loop", "stop"
	Paths []string
}

// FakePlayer records calls for tests.
type FakePlayer struct {
	mu    sync.Mutex
	calls []Call
	done  chan struct{}
}

func NewFakePlayer() *FakePlayer {
	return &FakePlayer{done: make(chan struct{}, 64)}
}

func (p *FakePlayer) record(c Call) {
	p.mu.Lock()
	p.calls = append(p.calls, c)
	p.mu.Unlock()
	p.done <- struct{}{}
}

func (p *FakePlayer) Play(paths []string) {
	cp := make([]string, len(paths))
	copy(cp, paths)
	p.record(Call{Op: "play", Paths: cp})
}

func (p *FakePlayer) PlayLoop(intro, loop string) {
	p.record(Call{Op: "loop", Paths: []string{intro, loop}})
}

func (p *FakePlayer) Stop() {
	p.record(Call{Op: "stop"})
}

// Handled signals once per processed command.
func (p *FakePlayer) Handled() <-chan struct{} {
	return p.done
}

func (p *FakePlayer) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}
