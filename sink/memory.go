package sink

import "sync"

// Memory is an in-memory Sink that records every write, for tests.
type Memory struct {
	mu       sync.Mutex
	counter  uint32
	status   Status
	counters []uint32
	statuses []Status
	failNext error
}

func NewMemory() *Memory {
	return &Memory{status: StatusFlashing}
}

// FailNext makes the next write return err once.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

func (m *Memory) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *Memory) ReadCounter() (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter, nil
}

func (m *Memory) WriteCounter(v uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.counter = v
	m.counters = append(m.counters, v)
	return nil
}

func (m *Memory) WriteStatus(s Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.status = s
	m.statuses = append(m.statuses, s)
	return nil
}

func (m *Memory) Counter() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter
}

func (m *Memory) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// CounterWrites returns every counter value written, in order.
func (m *Memory) CounterWrites() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint32, len(m.counters))
	copy(out, m.counters)
	return out
}

// StatusWrites returns every status label written, in order.
func (m *Memory) StatusWrites() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Status, len(m.statuses))
	copy(out, m.statuses)
	return out
}
