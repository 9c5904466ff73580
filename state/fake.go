package state

// SequenceSource replays a fixed list of thresholds, then repeats the
// last value. For deterministic tests.
type SequenceSource struct {
	Values []uint32
	pos    int
}

func (s *SequenceSource) Next(Mode) uint32 {
	if len(s.Values) == 0 {
		return 1
	}
	v := s.Values[s.pos]
	if s.pos < len(s.Values)-1 {
		s.pos++
	}
	return v
}
