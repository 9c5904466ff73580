// Package sink is the persistence port for the externally visible
// counter and status label. An external status-bar widget reads the
// same files, so the file adapter takes advisory whole-file locks.
package sink

// Status labels consumed by the external display.
type Status string

const (
	StatusFlashing Status = "flashing"
	StatusBonus    Status = "super-charge-flash"
)

type Sink interface {
	// ReadCounter returns the persisted counter, 0 if the stored
	// value is missing or malformed.
	ReadCounter() (uint32, error)
	// WriteCounter overwrites the counter value.
	WriteCounter(v uint32) error
	// WriteStatus overwrites the status label.
	WriteStatus(s Status) error
}

// Reset writes the idle startup values.
func Reset(s Sink) error {
	if err := s.WriteCounter(0); err != nil {
		return err
	}
	return s.WriteStatus(StatusFlashing)
}
