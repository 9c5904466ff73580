package device

// FakeDevice feeds scripted key presses to its listener, for tests.
type FakeDevice struct {
	name  string
	codes chan uint16
	errCh chan error
}

func NewFake(name string) *FakeDevice {
	return &FakeDevice{
		name:  name,
		codes: make(chan uint16),
		errCh: make(chan error, 1),
	}
}

func (f *FakeDevice) Name() string { return f.name }

func (f *FakeDevice) Listen(h PressHandler) error {
	for {
		select {
		case err := <-f.errCh:
			return err
		case code, ok := <-f.codes:
			if !ok {
				return nil
			}
			if err := h(code); err != nil {
				return err
			}
		}
	}
}

func (f *FakeDevice) Close() error {
	close(f.codes)
	return nil
}

// Press delivers one key press and blocks until the listener takes it.
func (f *FakeDevice) Press(code uint16) {
	f.codes <- code
}

// FailWith makes Listen return err after any in-flight press.
func (f *FakeDevice) FailWith(err error) {
	f.errCh <- err
}
